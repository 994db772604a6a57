package api

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nodebeacon/beacon/internal/battery"
	"github.com/nodebeacon/beacon/pkg/types"
)

// DiagnosticHint is one human-readable insight about a node's health.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level  string `json:"level"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

var levelRank = map[string]int{"critical": 0, "warning": 1, "info": 2, "ok": 3}

// checkAdvice explains what a failing built-in check usually means.
var checkAdvice = map[string]string{
	battery.CheckVersion:          "The node did not report the expected chain id or runs an outdated version. It may be serving a different chain or a testnet.",
	battery.CheckGlobalProperties: "Dynamic global properties are missing fields. The node may still be replaying or syncing.",
	battery.CheckFeedHistory:      "The price feed history could not be read.",
	battery.CheckAccounts:         "Account lookup through the legacy call API failed.",
	battery.CheckPost:             "Hivemind did not return a post with its replies. The bridge API may be disabled or lagging.",
	battery.CheckRankedCreated:    "Newest posts are stale or incomplete. Hivemind is probably lagging behind the head block.",
	battery.CheckRankedTrending:   "Trending posts could not be read from the bridge API.",
	battery.CheckPostsByBlog:      "Account blog could not be read from the bridge API.",
	battery.CheckPostsByFeed:      "Account feed could not be read from the bridge API.",
	battery.CheckPostsByReplies:   "Account replies could not be read from the bridge API.",
	battery.CheckCommunityPinned:  "The community feed did not lead with its pinned post.",
	battery.CheckAccountHistory:   "Filtered account history returned unexpected operations. The account history plugin may ignore operation filters.",
	battery.CheckCustomJSON:       "Broadcasting a custom_json transaction failed.",
	battery.CheckTransfer:         "Broadcasting a transfer transaction failed.",
}

// computeDiagnostics derives hints from a node status, most severe first.
func computeDiagnostics(n types.NodeStatus) []DiagnosticHint {
	hints := []DiagnosticHint{}

	if len(n.Results) > 0 && n.Successes() == 0 {
		hints = append(hints, DiagnosticHint{
			Key:   "unreachable",
			Level: "critical",
			Title: "Node unreachable",
			Detail: fmt.Sprintf("Every check against %s failed. The endpoint is down, "+
				"blocking the beacon or not a Hive RPC node.", n.Endpoint),
		})
		return hints
	}

	var skipped []string
	for _, r := range n.Results {
		switch r.Outcome {
		case types.OutcomeSkipped:
			skipped = append(skipped, r.Name)
		case types.OutcomeFailed:
			level := "warning"
			if r.Name == battery.CheckVersion {
				level = "critical"
			}
			detail := checkAdvice[r.Name]
			if detail == "" {
				detail = r.Description
			}
			if r.Error != "" {
				detail = fmt.Sprintf("%s Last error: %q.", detail, r.Error)
			}
			hints = append(hints, DiagnosticHint{
				Key:    "check_" + r.Name,
				Level:  level,
				Title:  r.Name + " failed",
				Detail: strings.TrimSpace(detail),
			})
		}
	}

	if len(skipped) > 0 {
		hints = append(hints, DiagnosticHint{
			Key:   "writes_skipped",
			Level: "info",
			Title: "Write checks skipped",
			Detail: fmt.Sprintf("%s did not run because the beacon has no signing "+
				"credentials configured. They count as passed.", strings.Join(skipped, ", ")),
		})
	}

	if n.WebsiteOnly {
		hints = append(hints, DiagnosticHint{
			Key:    "website_only",
			Level:  "info",
			Title:  "Website only",
			Detail: "This endpoint is scanned for visibility but never recommended.",
		})
	}

	if c := n.Cert; c != nil {
		switch c.Status {
		case "expired":
			hints = append(hints, DiagnosticHint{
				Key:    "cert_expired",
				Level:  "critical",
				Title:  "Certificate expired",
				Detail: fmt.Sprintf("The TLS certificate issued by %s expired on %s.", c.Issuer, c.NotAfter),
			})
		case "expiring":
			hints = append(hints, DiagnosticHint{
				Key:    "cert_expiring",
				Level:  "warning",
				Title:  fmt.Sprintf("Certificate expires in %dd", c.DaysLeft),
				Detail: fmt.Sprintf("The TLS certificate issued by %s expires on %s.", c.Issuer, c.NotAfter),
			})
		}
	}

	if len(hints) == 0 && n.Score == 100 {
		hints = append(hints, DiagnosticHint{
			Key:    "healthy",
			Level:  "ok",
			Title:  "All checks passing",
			Detail: "Every check in the last cycle succeeded.",
		})
	}

	sort.SliceStable(hints, func(i, j int) bool {
		return levelRank[hints[i].Level] < levelRank[hints[j].Level]
	})
	return hints
}
