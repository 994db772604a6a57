package types

import "time"

// Kind distinguishes checks that only read chain state from checks that
// broadcast a signed transaction.
type Kind string

const (
	KindRead  Kind = "read"
	KindWrite Kind = "write"
)

// Outcome is the result of a single check execution.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Node health states derived from the score.
const (
	StateHealthy  = "healthy"
	StateDegraded = "degraded"
	StateDown     = "down"
)

// NodeConfig is one probed RPC endpoint.
type NodeConfig struct {
	// Name is the unique identifier, conventionally the endpoint host.
	Name string `yaml:"name" json:"name"`

	// Endpoint is the full URL JSON-RPC requests are posted to.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// WebsiteOnly nodes are scanned and listed but never recommended.
	WebsiteOnly bool `yaml:"website_only" json:"website_only"`
}

// CheckResult is the outcome of one check against one node in one cycle.
type CheckResult struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Kind        Kind    `json:"type"`
	Method      string  `json:"method"`
	Success     bool    `json:"success"`
	Outcome     Outcome `json:"outcome"`
	Error       string  `json:"error,omitempty"`
}

// CertStatus describes the TLS leaf certificate presented by a node endpoint.
type CertStatus struct {
	Issuer   string `json:"issuer,omitempty"`
	NotAfter string `json:"not_after,omitempty"`
	DaysLeft int    `json:"days_left"`
	// Status is one of: valid | expiring | expired | unreachable.
	Status string `json:"status"`
}

// NodeStatus is the full result of scanning one node in one cycle.
type NodeStatus struct {
	Name        string        `json:"name"`
	Endpoint    string        `json:"endpoint"`
	WebsiteOnly bool          `json:"website_only"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Score       int           `json:"score"`
	State       string        `json:"state"`
	Results     []CheckResult `json:"tests"`
	Cert        *CertStatus   `json:"cert,omitempty"`
}

// Successes counts passed and skipped checks.
func (n NodeStatus) Successes() int {
	c := 0
	for _, r := range n.Results {
		if r.Success {
			c++
		}
	}
	return c
}

// Failures counts failed checks.
func (n NodeStatus) Failures() int {
	return len(n.Results) - n.Successes()
}

// Failed reports whether the named check ran and failed.
func (n NodeStatus) Failed(check string) bool {
	for _, r := range n.Results {
		if r.Name == check {
			return !r.Success
		}
	}
	return false
}

// ScoredNode is the compact view returned by the ranking endpoints.
type ScoredNode struct {
	Name      string    `json:"name"`
	Endpoint  string    `json:"endpoint"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
	Success   int       `json:"success"`
	Fail      int       `json:"fail"`
}

// Scored projects a NodeStatus onto its ranking view.
func (n NodeStatus) Scored() ScoredNode {
	return ScoredNode{
		Name:      n.Name,
		Endpoint:  n.Endpoint,
		Score:     n.Score,
		UpdatedAt: n.UpdatedAt,
		Success:   n.Successes(),
		Fail:      n.Failures(),
	}
}
