package certs

import (
	"context"
	"crypto/tls"
	"math"
	"net"
	"net/url"
	"time"

	"github.com/nodebeacon/beacon/pkg/types"
)

const (
	dialTimeout = 10 * time.Second

	// expiringDays marks certificates that expire within this many days.
	expiringDays = 30
)

// Checker dials node endpoints and reports their certificate status.
type Checker struct {
	// InsecureSkipVerify still reports on certificates that fail verification.
	InsecureSkipVerify bool

	now func() time.Time
}

// New returns a Checker. A nil now uses time.Now.
func New(insecure bool, now func() time.Time) *Checker {
	if now == nil {
		now = time.Now
	}
	return &Checker{InsecureSkipVerify: insecure, now: now}
}

// Check returns the certificate status of endpoint, or nil for non-HTTPS
// endpoints.
func (c *Checker) Check(ctx context.Context, endpoint string) *types.CertStatus {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme != "https" {
		return nil
	}

	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "443")
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			InsecureSkipVerify: c.InsecureSkipVerify, //nolint:gosec // user-configured
		},
	}

	cs := &types.CertStatus{}
	netConn, err := dialer.DialContext(dialCtx, "tcp", host)
	if err != nil {
		cs.Status = "unreachable"
		return cs
	}
	conn := netConn.(*tls.Conn)
	defer conn.Close()

	peers := conn.ConnectionState().PeerCertificates
	if len(peers) == 0 {
		cs.Status = "unreachable"
		return cs
	}

	leaf := peers[0]
	daysLeft := leaf.NotAfter.Sub(c.now()).Hours() / 24

	cs.NotAfter = leaf.NotAfter.UTC().Format(time.RFC3339)
	cs.Issuer = leaf.Issuer.CommonName
	cs.DaysLeft = int(math.Floor(daysLeft))

	switch {
	case daysLeft <= 0:
		cs.Status = "expired"
	case daysLeft <= expiringDays:
		cs.Status = "expiring"
	default:
		cs.Status = "valid"
	}
	return cs
}
