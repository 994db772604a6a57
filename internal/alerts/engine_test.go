package alerts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/pkg/types"
)

func node(name string, score int, results ...types.CheckResult) types.NodeStatus {
	state := types.StateHealthy
	switch {
	case score == 0:
		state = types.StateDown
	case score < 100:
		state = types.StateDegraded
	}
	return types.NodeStatus{Name: name, Endpoint: "https://" + name, Score: score, State: state, Results: results}
}

func newTestEngine(rules ...config.AlertRule) (*Engine, *time.Time) {
	e := New(config.AlertsConfig{Rules: rules})
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }
	return e, &now
}

// --- conditions ---

func TestEvalCondition(t *testing.T) {
	n := node("api.example.com", 80,
		types.CheckResult{Name: "get_version", Success: false},
		types.CheckResult{Name: "feed_history", Success: true},
	)
	n.Cert = &types.CertStatus{DaysLeft: 7, Status: "expiring"}

	cases := []struct {
		cond  string
		fires bool
		value float64
	}{
		{"score < 100", true, 80},
		{"score >= 90", false, 80},
		{"fail_count > 0", true, 1},
		{"success_count == 1", true, 1},
		{"cert_days_left < 14", true, 7},
		{"state == degraded", true, 0},
		{"state != degraded", false, 0},
		{"failed == get_version", true, 0},
		{"failed == feed_history", false, 0},
		{"failed == transfer", false, 0},
		{"latency > 5", false, 0},
		{"score <", false, 0},
		{"score ~ 5", false, 0},
		{"score < abc", false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.cond, func(t *testing.T) {
			fires, v := evalCondition(tc.cond, n)
			assert.Equal(t, tc.fires, fires)
			assert.Equal(t, tc.value, v)
		})
	}
}

func TestEvalCondition_CertUnknown(t *testing.T) {
	n := node("a", 100)
	fires, _ := evalCondition("cert_days_left < 14", n)
	assert.False(t, fires)

	n.Cert = &types.CertStatus{Status: "unreachable"}
	fires, _ = evalCondition("cert_days_left < 14", n)
	assert.False(t, fires)
}

// --- engine ---

func TestEvaluate_FireAndResolve(t *testing.T) {
	e, now := newTestEngine(config.AlertRule{Name: "low-score", Condition: "score < 75", Severity: "critical"})

	e.Evaluate(node("a", 50))
	active := e.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "low-score", active[0].RuleName)
	assert.Equal(t, "a", active[0].Node)
	assert.Equal(t, StateFiring, active[0].State)
	assert.Equal(t, float64(50), active[0].Value)

	*now = now.Add(time.Minute)
	e.Evaluate(node("a", 100))
	active = e.Active()
	require.Len(t, active, 1)
	assert.Equal(t, StateResolved, active[0].State)
	require.NotNil(t, active[0].ResolvedAt)

	// Resolved alerts age out after an hour.
	*now = now.Add(2 * time.Hour)
	assert.Empty(t, e.Active())
}

func TestEvaluate_PerNodeKeys(t *testing.T) {
	e, _ := newTestEngine(config.AlertRule{Name: "down", Condition: "state == down"})

	e.EvaluateAll([]types.NodeStatus{node("a", 0), node("b", 0), node("c", 100)})
	assert.Len(t, e.Active(), 2)
}

func TestEvaluateAll_ResolvesMissingNodes(t *testing.T) {
	e, now := newTestEngine(config.AlertRule{Name: "down", Condition: "state == down"})

	e.EvaluateAll([]types.NodeStatus{node("a", 0), node("b", 0)})
	require.Len(t, e.Active(), 2)

	// b was excluded by a reload and no longer appears in the snapshot.
	*now = now.Add(time.Minute)
	e.EvaluateAll([]types.NodeStatus{node("a", 0)})

	byNode := map[string]*Alert{}
	for _, a := range e.Active() {
		byNode[a.Node] = a
	}
	require.Len(t, byNode, 2)
	assert.Equal(t, StateFiring, byNode["a"].State)
	assert.Equal(t, StateResolved, byNode["b"].State)
	require.NotNil(t, byNode["b"].ResolvedAt)
	assert.Equal(t, *now, *byNode["b"].ResolvedAt)

	// An empty snapshot resolves everything still firing.
	e.EvaluateAll(nil)
	for _, a := range e.Active() {
		assert.Equal(t, StateResolved, a.State, a.Node)
	}
}

func TestEvaluate_Cooldown(t *testing.T) {
	e, now := newTestEngine(config.AlertRule{Name: "low", Condition: "score < 75", Cooldown: 10 * time.Minute})

	e.Evaluate(node("a", 50))
	first := e.Active()[0].ID

	*now = now.Add(5 * time.Minute)
	e.Evaluate(node("a", 40))
	assert.Equal(t, first, e.Active()[0].ID, "re-fire suppressed inside cooldown")

	*now = now.Add(10 * time.Minute)
	e.Evaluate(node("a", 40))
	assert.NotEqual(t, first, e.Active()[0].ID)
}

func TestSetConfig_RemovedRuleResolves(t *testing.T) {
	e, _ := newTestEngine(config.AlertRule{Name: "low", Condition: "score < 75"})
	e.Evaluate(node("a", 50))
	require.Equal(t, StateFiring, e.Active()[0].State)

	e.SetConfig(config.AlertsConfig{})
	e.Evaluate(node("a", 50))
	active := e.Active()
	require.Len(t, active, 1)
	assert.Equal(t, StateResolved, active[0].State)
}

// --- webhooks ---

func TestEvaluate_DeliversHTTPWebhook(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []Alert
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Alert Alert `json:"alert"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			mu.Lock()
			seen = append(seen, body.Alert)
			mu.Unlock()
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	t.Setenv("BEACON_TEST_WEBHOOK", srv.URL)
	e, _ := newTestEngine(config.AlertRule{Name: "broken-version", Condition: "failed == get_version", Severity: "warning"})
	e.SetConfig(config.AlertsConfig{
		Rules:    []config.AlertRule{{Name: "broken-version", Condition: "failed == get_version", Severity: "warning"}},
		Webhooks: []config.WebhookConfig{{Type: "http", URLEnv: "BEACON_TEST_WEBHOOK"}},
	})

	e.Evaluate(node("a", 80, types.CheckResult{Name: "get_version", Success: false}))
	e.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, "broken-version", seen[0].RuleName)
	assert.Equal(t, "a", seen[0].Node)
	assert.Equal(t, StateFiring, seen[0].State)
}

func TestPost_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := New(config.AlertsConfig{})
	err := e.post(srv.URL, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
