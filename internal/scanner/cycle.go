package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/nodebeacon/beacon/internal/battery"
	"github.com/nodebeacon/beacon/internal/memo"
	"github.com/nodebeacon/beacon/pkg/types"
)

// CertChecker reports the TLS certificate of a node endpoint.
type CertChecker interface {
	Check(ctx context.Context, endpoint string) *types.CertStatus
}

// Cycle scans a node list with one battery.
type Cycle struct {
	exec    *Executor
	battery *battery.Battery
	memo    memo.Provider
	base    battery.Context
	certs   CertChecker
	logger  *slog.Logger
	now     func() time.Time
}

// CycleOption configures a Cycle.
type CycleOption func(*Cycle)

// WithCertChecker attaches certificate status to every node.
func WithCertChecker(c CertChecker) CycleOption {
	return func(cy *Cycle) { cy.certs = c }
}

// WithClock replaces time.Now for node timestamps.
func WithClock(now func() time.Time) CycleOption {
	return func(cy *Cycle) { cy.now = now }
}

// NewCycle returns a Cycle. base supplies every placeholder value except the
// memo, which is drawn from m once per node.
func NewCycle(exec *Executor, b *battery.Battery, m memo.Provider, base battery.Context, logger *slog.Logger, opts ...CycleOption) *Cycle {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cycle{
		exec:    exec,
		battery: b,
		memo:    m,
		base:    base,
		logger:  logger.With("component", "cycle"),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Battery returns the battery the cycle runs.
func (c *Cycle) Battery() *battery.Battery { return c.battery }

// Run scans nodes in order and returns one status per node. Any error
// outside a single check, a panic, or ctx cancellation aborts the cycle with
// an error wrapping ErrCycleAborted and no statuses.
func (c *Cycle) Run(ctx context.Context, nodes []types.NodeConfig) (out []types.NodeStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errors.Wrap(ErrCycleAborted, fmt.Sprintf("panic: %v", r))
		}
	}()

	maxScore := c.battery.MaxScore()
	specs := c.battery.Specs()
	out = make([]types.NodeStatus, 0, len(nodes))

	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(ErrCycleAborted, err.Error())
		}
		out = append(out, c.scanNode(ctx, node, specs, maxScore))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(ErrCycleAborted, err.Error())
	}
	return out, nil
}

func (c *Cycle) scanNode(ctx context.Context, node types.NodeConfig, specs []battery.TestSpec, maxScore int) types.NodeStatus {
	log := c.logger.With("node", node.Name)
	log.Info("scanning node", "endpoint", node.Endpoint)

	bctx := c.base
	if c.memo != nil {
		bctx.Memo = c.memo.Text()
	}

	remaining := maxScore
	results := make([]types.CheckResult, 0, len(specs))
	for _, spec := range specs {
		r := c.exec.Execute(ctx, node, spec, bctx)
		if !r.Success {
			remaining -= spec.Weight
		}
		results = append(results, r)
	}

	score := Score(remaining, maxScore)
	st := types.NodeStatus{
		Name:        node.Name,
		Endpoint:    node.Endpoint,
		WebsiteOnly: node.WebsiteOnly,
		UpdatedAt:   c.now().UTC(),
		Score:       score,
		State:       stateFromScore(score),
		Results:     results,
	}
	if c.certs != nil {
		st.Cert = c.certs.Check(ctx, node.Endpoint)
	}

	log.Info("node scan completed", "score", score, "failed", st.Failures())
	return st
}
