package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/internal/metrics"
	"github.com/nodebeacon/beacon/pkg/types"
)

const (
	defaultCooldown = 15 * time.Minute
	maxHistoryLen   = 200
	recentWindow    = time.Hour
)

// Alert states.
const (
	StateFiring   = "firing"
	StateResolved = "resolved"
)

// Alert is a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Node       string     `json:"node"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"`
}

// Engine evaluates alert rules against node statuses and delivers webhook
// notifications when rules fire or resolve. It is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	rules    []config.AlertRule
	webhooks []config.WebhookConfig
	active   map[string]*Alert    // key: rule + "\x00" + node
	lastFire map[string]time.Time // for cooldown
	history  []*Alert

	client *http.Client
	now    func() time.Time
	wg     sync.WaitGroup
}

// New creates an Engine. An Engine without rules is valid; Evaluate is then
// a no-op.
func New(cfg config.AlertsConfig) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[string]*Alert),
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// SetConfig swaps rules and webhooks. Active alerts of removed rules resolve
// on the next evaluation of their node.
func (e *Engine) SetConfig(cfg config.AlertsConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = cfg.Rules
	e.webhooks = cfg.Webhooks
}

// EvaluateAll evaluates every node of a published cycle. Active alerts of
// nodes absent from nodes (excluded or removed by a reload) are resolved.
func (e *Engine) EvaluateAll(nodes []types.NodeStatus) {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.Name] = true
		e.Evaluate(n)
	}

	e.mu.Lock()
	now := e.now()
	var notify []Alert
	for key, a := range e.active {
		if !present[a.Node] {
			if r := e.resolveLocked(key, now); r != nil {
				notify = append(notify, *r)
			}
		}
	}
	webhooks := e.webhooks
	e.mu.Unlock()

	e.dispatch(webhooks, notify)
}

// Evaluate tests all rules against node. Firing alerts honour the rule
// cooldown; alerts whose condition no longer holds are resolved.
func (e *Engine) Evaluate(node types.NodeStatus) {
	e.mu.Lock()
	now := e.now()
	var notify []Alert

	ruleNames := make(map[string]bool, len(e.rules))
	for _, rule := range e.rules {
		ruleNames[rule.Name] = true
		key := rule.Name + "\x00" + node.Name
		fires, value := evalCondition(rule.Condition, node)

		if !fires {
			if a := e.resolveLocked(key, now); a != nil {
				notify = append(notify, *a)
			}
			continue
		}

		cooldown := rule.Cooldown
		if cooldown <= 0 {
			cooldown = defaultCooldown
		}
		if last, ok := e.lastFire[key]; ok && now.Sub(last) <= cooldown {
			continue
		}

		sev := rule.Severity
		if sev == "" {
			sev = "warning"
		}
		a := &Alert{
			ID:       uuid.NewString(),
			RuleName: rule.Name,
			Node:     node.Name,
			Severity: sev,
			Value:    value,
			Message:  fmt.Sprintf("[%s] %s fired on %s: %s (value %.2f)", sev, rule.Name, node.Name, rule.Condition, value),
			FiredAt:  now,
			State:    StateFiring,
		}
		e.active[key] = a
		e.lastFire[key] = now
		notify = append(notify, *a)

		metrics.AlertsFired.WithLabelValues(rule.Name, sev).Inc()
		slog.Warn("alert fired", "rule", rule.Name, "node", node.Name, "value", value, "severity", sev)
	}

	// Rules removed by a reload resolve for this node.
	for key, a := range e.active {
		if a.Node == node.Name && !ruleNames[a.RuleName] {
			if r := e.resolveLocked(key, now); r != nil {
				notify = append(notify, *r)
			}
		}
	}

	webhooks := e.webhooks
	e.mu.Unlock()

	e.dispatch(webhooks, notify)
}

func (e *Engine) dispatch(webhooks []config.WebhookConfig, notify []Alert) {
	for i := range notify {
		a := notify[i]
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.deliver(webhooks, &a)
		}()
	}
}

func (e *Engine) resolveLocked(key string, now time.Time) *Alert {
	a, ok := e.active[key]
	if !ok {
		return nil
	}
	resolved := now
	a.State = StateResolved
	a.ResolvedAt = &resolved
	delete(e.active, key)

	e.history = append(e.history, a)
	if len(e.history) > maxHistoryLen {
		e.history = e.history[len(e.history)-maxHistoryLen:]
	}
	slog.Info("alert resolved", "rule", a.RuleName, "node", a.Node)
	cp := *a
	return &cp
}

// Active returns copies of all firing alerts plus alerts resolved within the
// past hour, newest first.
func (e *Engine) Active() []*Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-recentWindow)
	out := make([]*Alert, 0, len(e.active))
	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiredAt.After(out[j].FiredAt) })
	return out
}

// Wait blocks until in-flight webhook deliveries finish.
func (e *Engine) Wait() { e.wg.Wait() }
