package hive

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultTimeout = 30 * time.Second

	// maxResponseBytes caps a single RPC response body.
	maxResponseBytes = 32 << 20

	defaultUserAgent = "nodebeacon"
)

// Client is a JSON-RPC client that is not bound to any endpoint.
// It is safe for concurrent use.
type Client struct {
	http      *http.Client
	chainID   []byte
	userAgent string
	nextID    atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every call. It applies to the default HTTP client only.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithInsecureSkipVerify disables TLS verification on the default HTTP client.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		if !skip {
			return
		}
		if ua, ok := c.http.Transport.(*userAgentRoundTripper); ok {
			if tr, ok := ua.base.(*http.Transport); ok {
				tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // user-configured
			}
		}
	}
}

// WithUserAgent sets the User-Agent header sent to nodes.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a Client signing for the chain identified by chainID (hex).
func NewClient(chainID string, opts ...Option) (*Client, error) {
	id, err := hex.DecodeString(chainID)
	if err != nil || len(id) != 32 {
		return nil, errors.Errorf("hive: chain id must be 32 hex-encoded bytes, got %q", chainID)
	}
	c := &Client{
		chainID:   id,
		userAgent: defaultUserAgent,
	}
	c.http = &http.Client{
		Transport: &userAgentRoundTripper{base: http.DefaultTransport.(*http.Transport).Clone(), client: c},
		Timeout:   defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// userAgentRoundTripper stamps every outgoing request with the client's
// User-Agent.
type userAgentRoundTripper struct {
	base   http.RoundTripper
	client *Client
}

func (t *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.client.userAgent)
	return t.base.RoundTrip(req)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      uint64 `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Call invokes method on endpoint and returns the raw result.
// A nil params is sent as an empty object.
func (c *Client) Call(ctx context.Context, endpoint, method string, params any) (json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return nil, errors.Wrap(err, "hive: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "hive: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "hive: %s", method)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.Wrapf(&StatusError{StatusCode: resp.StatusCode}, "hive: %s", method)
	}

	var out rpcResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "hive: %s: decode response", method)
	}
	if out.Error != nil {
		return nil, errors.Wrapf(out.Error, "hive: %s", method)
	}
	if len(out.Result) == 0 {
		return nil, errors.Wrapf(ErrEmptyResult, "hive: %s", method)
	}
	return out.Result, nil
}
