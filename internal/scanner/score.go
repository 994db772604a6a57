package scanner

import (
	"math"

	"github.com/nodebeacon/beacon/pkg/types"
)

// Score converts the remaining weight into a 0-100 score, rounding half up.
// A non-positive maxScore scores zero.
func Score(remaining, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	s := int(math.Floor(float64(remaining)*100/float64(maxScore) + 0.5))
	return clamp(s, 0, 100)
}

// stateFromScore maps a score to a health state.
func stateFromScore(score int) string {
	switch {
	case score >= 100:
		return types.StateHealthy
	case score > 0:
		return types.StateDegraded
	default:
		return types.StateDown
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
