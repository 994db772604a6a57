package ranking

import (
	"sort"
	"sync/atomic"

	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/pkg/types"
)

// Policy holds the selection thresholds.
type Policy struct {
	BestThreshold  int
	ValidThreshold int
	MinNodes       int
}

// DefaultPolicy is 100 / 75 / 5.
func DefaultPolicy() Policy {
	return Policy{
		BestThreshold:  config.DefaultBestThreshold,
		ValidThreshold: config.DefaultValidThreshold,
		MinNodes:       config.DefaultMinNodes,
	}
}

// PolicyFromConfig converts the ranking config section.
func PolicyFromConfig(c config.RankingConfig) Policy {
	return Policy{
		BestThreshold:  c.BestThreshold,
		ValidThreshold: c.ValidThreshold,
		MinNodes:       c.MinNodes,
	}
}

// Result is the pair of ranked views. All keeps the input order; Best is
// sorted by score.
type Result struct {
	All  []types.ScoredNode
	Best []types.ScoredNode
}

// Rank computes both views. It is pure: the input is not modified and equal
// inputs give equal outputs.
func (p Policy) Rank(nodes []types.NodeStatus) Result {
	all := make([]types.ScoredNode, len(nodes))
	for i, n := range nodes {
		all[i] = n.Scored()
	}

	return Result{All: all, Best: p.best(nodes)}
}

// Best returns only the recommended view.
func (p Policy) Best(nodes []types.NodeStatus) []types.ScoredNode {
	return p.best(nodes)
}

func (p Policy) best(nodes []types.NodeStatus) []types.ScoredNode {
	base := make([]types.ScoredNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Score > 0 && !n.WebsiteOnly {
			base = append(base, n.Scored())
		}
	}

	tier1 := filter(base, p.BestThreshold)
	if len(tier1) >= p.MinNodes {
		sortByScore(tier1)
		return tier1
	}

	tier2 := filter(base, p.ValidThreshold)
	sortByScore(tier2)
	return tier2
}

func filter(in []types.ScoredNode, min int) []types.ScoredNode {
	out := make([]types.ScoredNode, 0, len(in))
	for _, n := range in {
		if n.Score >= min {
			out = append(out, n)
		}
	}
	return out
}

func sortByScore(ns []types.ScoredNode) {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].Score > ns[j].Score })
}

// Ranker applies a Policy that can be swapped at runtime.
type Ranker struct {
	policy atomic.Pointer[Policy]
}

// NewRanker returns a Ranker starting with p.
func NewRanker(p Policy) *Ranker {
	r := &Ranker{}
	r.SetPolicy(p)
	return r
}

// SetPolicy replaces the active policy.
func (r *Ranker) SetPolicy(p Policy) { r.policy.Store(&p) }

// Policy returns the active policy.
func (r *Ranker) Policy() Policy { return *r.policy.Load() }

// Rank ranks nodes with the active policy.
func (r *Ranker) Rank(nodes []types.NodeStatus) Result { return r.Policy().Rank(nodes) }
