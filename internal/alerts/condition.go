package alerts

import (
	"strconv"
	"strings"

	"github.com/nodebeacon/beacon/pkg/types"
)

// evalCondition evaluates a rule condition against a node status.
//
// Supported expressions (field operator value):
//
//	score < 75
//	fail_count > 2
//	success_count < 10
//	cert_days_left < 14
//	state == down
//	failed == get_version
//
// Returns (fires, triggering value). Unparseable expressions and unknown
// fields never fire.
func evalCondition(cond string, node types.NodeStatus) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	switch field {
	case "state":
		if op == "==" {
			return node.State == rhs, 0
		}
		if op == "!=" {
			return node.State != rhs, 0
		}
		return false, 0

	case "failed":
		if op == "==" {
			return node.Failed(rhs), 0
		}
		return false, 0

	case "cert_days_left":
		if node.Cert == nil || node.Cert.Status == "unreachable" {
			return false, 0
		}
		threshold, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return false, 0
		}
		v := float64(node.Cert.DaysLeft)
		return compareFloat(v, op, threshold), v

	default:
		v, ok := numericField(field, node)
		if !ok {
			return false, 0
		}
		threshold, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return false, 0
		}
		return compareFloat(v, op, threshold), v
	}
}

func numericField(field string, node types.NodeStatus) (float64, bool) {
	switch field {
	case "score":
		return float64(node.Score), true
	case "fail_count":
		return float64(node.Failures()), true
	case "success_count":
		return float64(node.Successes()), true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
