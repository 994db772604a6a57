package api

import (
	"time"

	"github.com/nodebeacon/beacon/internal/alerts"
	"github.com/nodebeacon/beacon/internal/scanner"
	"github.com/nodebeacon/beacon/pkg/types"
)

// NodeResponse is the payload for GET /api/nodes/{name}.
type NodeResponse struct {
	types.NodeStatus
	Success     int              `json:"success"`
	Fail        int              `json:"fail"`
	Diagnostics []DiagnosticHint `json:"diagnostics"`
}

// StatusResponse is the payload for GET /api/status.
type StatusResponse struct {
	Scanner     scanner.Status `json:"scanner"`
	CycleID     string         `json:"cycle_id,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	NodeCount   int            `json:"node_count"`
	BestCount   int            `json:"best_count"`
	AlertCount  int            `json:"alert_count"`
	GeneratedAt string         `json:"generated_at"` // RFC3339
}

// AlertsResponse is the payload for GET /api/alerts.
type AlertsResponse struct {
	Alerts []*alerts.Alert `json:"alerts"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
