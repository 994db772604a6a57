package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodebeacon/beacon/pkg/types"
)

func node(name string, score int) types.NodeStatus {
	return types.NodeStatus{Name: name, Endpoint: "https://" + name, Score: score}
}

func names(ns []types.ScoredNode) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Name
	}
	return out
}

func TestBest_FallsBackWhenTooFewPerfect(t *testing.T) {
	// 11 nodes: 4 perfect, 5 at 80, 2 below the valid threshold.
	var in []types.NodeStatus
	for i := 0; i < 4; i++ {
		in = append(in, node(fmt.Sprintf("perfect-%d", i), 100))
	}
	for i := 0; i < 5; i++ {
		in = append(in, node(fmt.Sprintf("good-%d", i), 80))
	}
	in = append(in, node("weak", 60), node("dead", 0))

	best := DefaultPolicy().Best(in)

	require.Len(t, best, 9, "tier 2 keeps every eligible node at or above 75")
	for _, n := range best {
		assert.GreaterOrEqual(t, n.Score, 75)
	}
	assert.Equal(t, []string{"perfect-0", "perfect-1", "perfect-2", "perfect-3"}, names(best[:4]))
}

func TestBest_OnlyPerfectWhenEnough(t *testing.T) {
	var in []types.NodeStatus
	for i := 0; i < 6; i++ {
		in = append(in, node(fmt.Sprintf("p%d", i), 100))
	}
	in = append(in, node("good", 90), node("ok", 76))

	best := DefaultPolicy().Best(in)
	require.Len(t, best, 6)
	for _, n := range best {
		assert.Equal(t, 100, n.Score)
	}
}

func TestBest_ExcludesWebsiteOnlyAndZero(t *testing.T) {
	site := node("site", 100)
	site.WebsiteOnly = true
	in := []types.NodeStatus{site, node("zero", 0), node("a", 90)}

	p := Policy{BestThreshold: 100, ValidThreshold: 0, MinNodes: 1}
	assert.Equal(t, []string{"a"}, names(p.Best(in)))
}

func TestBest_EmptyWhenNothingQualifies(t *testing.T) {
	best := DefaultPolicy().Best([]types.NodeStatus{node("a", 50), node("b", 10)})
	assert.NotNil(t, best)
	assert.Empty(t, best)
}

func TestRank_AllKeepsSnapshotOrder(t *testing.T) {
	in := []types.NodeStatus{node("a", 50), node("b", 90), node("c", 50), node("d", 100)}
	res := DefaultPolicy().Rank(in)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(res.All))
	assert.Equal(t, []string{"d", "b"}, names(res.Best))

	// Input untouched.
	assert.Equal(t, "a", in[0].Name)
}

func TestRank_Idempotent(t *testing.T) {
	in := []types.NodeStatus{node("a", 75), node("b", 100), node("c", 80), node("d", 75)}
	p := DefaultPolicy()
	assert.Equal(t, p.Rank(in), p.Rank(in))
}

func TestRank_ScoredCounts(t *testing.T) {
	n := node("a", 94)
	n.Results = []types.CheckResult{{Success: true}, {Success: true}, {Success: false}}
	res := DefaultPolicy().Rank([]types.NodeStatus{n})
	assert.Equal(t, 2, res.All[0].Success)
	assert.Equal(t, 1, res.All[0].Fail)
}

func TestRanker_SetPolicy(t *testing.T) {
	in := []types.NodeStatus{node("a", 100), node("b", 80)}
	r := NewRanker(DefaultPolicy())
	assert.Len(t, r.Rank(in).Best, 2)

	r.SetPolicy(Policy{BestThreshold: 100, ValidThreshold: 75, MinNodes: 1})
	assert.Equal(t, []string{"a"}, names(r.Rank(in).Best))
	assert.Equal(t, 1, r.Policy().MinNodes)
}
