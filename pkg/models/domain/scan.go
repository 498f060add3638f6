package domain

import "time"

// ScanTotals aggregates the outcome of one evaluation run. Errors counts
// resources that could not be fully evaluated, so an incomplete run is
// distinguishable from a clean one.
type ScanTotals struct {
	Resources    int
	Findings     int
	Compliant    int
	NonCompliant int
	NotEvaluated int
	Errors       int
}

// ScanReport summarizes one scan of a tenant account.
type ScanReport struct {
	ScanID      string
	TenantID    string
	AccountID   string
	Regions     []string
	SnapshotKey string
	StartedAt   time.Time
	FinishedAt  time.Time
	Totals      ScanTotals

	// FindingsSample holds at most the first few findings so callers can show
	// a preview without a second query. The full set lives in the findings
	// store.
	FindingsSample []*Finding
	AlertsSent     int
}
