package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nodebeacon/beacon/internal/battery"
	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/internal/hive"
	"github.com/nodebeacon/beacon/internal/metrics"
	"github.com/nodebeacon/beacon/pkg/types"
)

// RPC is the transport checks are executed through.
type RPC interface {
	Call(ctx context.Context, endpoint, method string, params any) (json.RawMessage, error)
	Broadcast(ctx context.Context, endpoint string, op hive.Operation, wif string) (json.RawMessage, error)
}

// KeyFunc returns the WIF key for a credential, or "" when not configured.
type KeyFunc func(battery.Credential) string

// KeysFromConfig resolves posting and active keys from the environment on
// every call, so rotated keys apply from the next check.
func KeysFromConfig(c config.CredentialsConfig) KeyFunc {
	return func(cred battery.Credential) string {
		switch cred {
		case battery.CredentialPosting:
			return c.PostingKey()
		case battery.CredentialActive:
			return c.ActiveKey()
		default:
			return ""
		}
	}
}

// Executor runs a single check against a single node.
type Executor struct {
	rpc     RPC
	keys    KeyFunc
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewExecutor returns an Executor. A nil logger uses slog.Default.
func NewExecutor(rpc RPC, keys KeyFunc, timeout time.Duration, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if keys == nil {
		keys = func(battery.Credential) string { return "" }
	}
	return &Executor{
		rpc:     rpc,
		keys:    keys,
		timeout: timeout,
		logger:  logger.With("component", "executor"),
		now:     time.Now,
	}
}

// Execute runs spec against node. It never panics and never returns an
// error: every failure is folded into the result.
func (e *Executor) Execute(ctx context.Context, node types.NodeConfig, spec battery.TestSpec, bctx battery.Context) (res types.CheckResult) {
	res = types.CheckResult{
		Name:        spec.Name,
		Description: spec.Description,
		Kind:        spec.Kind,
		Method:      spec.Method,
	}
	log := e.logger.With("node", node.Name, "check", spec.Name)
	start := e.now()

	defer func() {
		if r := recover(); r != nil {
			res = fail(res, fmt.Errorf("panic: %v", r))
			log.Error("check panicked", "panic", r)
		}
		metrics.CheckOutcome.WithLabelValues(spec.Name, string(res.Outcome)).Inc()
		metrics.CheckLatency.WithLabelValues(spec.Name).Observe(e.now().Sub(start).Seconds())
	}()

	params := bctx.Resolve(spec.Params)

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	switch spec.Kind {
	case types.KindRead:
		log.Debug("call", "method", spec.Method, "params", params)
		raw, err := e.rpc.Call(callCtx, node.Endpoint, spec.Method, params)
		if err != nil {
			log.Warn("call failed", "err", err)
			return fail(res, err)
		}
		if spec.Validator != nil {
			if err := spec.Validator(raw); err != nil {
				log.Warn("validation failed", "err", err)
				return fail(res, err)
			}
		}
		return pass(res)

	case types.KindWrite:
		key := e.keys(spec.Credential)
		if key == "" || bctx.Beacon == "" {
			log.Info("skip write check", "credential", spec.Credential, "reason", ErrMissingCredential)
			return skip(res, ErrMissingCredential)
		}
		op, err := hive.OperationFromParams(spec.Method, params)
		if err != nil {
			log.Warn("build operation failed", "err", err)
			return fail(res, err)
		}
		log.Debug("broadcast", "op", op.Type())
		if _, err := e.rpc.Broadcast(callCtx, node.Endpoint, op, key); err != nil {
			log.Warn("broadcast failed", "err", err)
			return fail(res, err)
		}
		return pass(res)

	default:
		return fail(res, fmt.Errorf("unknown check kind %q", spec.Kind))
	}
}

func pass(r types.CheckResult) types.CheckResult {
	r.Success, r.Outcome = true, types.OutcomePassed
	return r
}

func skip(r types.CheckResult, reason error) types.CheckResult {
	r.Success, r.Outcome = true, types.OutcomeSkipped
	r.Error = reason.Error()
	return r
}

func fail(r types.CheckResult, err error) types.CheckResult {
	r.Success, r.Outcome = false, types.OutcomeFailed
	r.Error = err.Error()
	return r
}
