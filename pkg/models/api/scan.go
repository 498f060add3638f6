package api

import "time"

type ScanRequest struct {
	TenantID string `json:"tenant_id"`
	// RulesMode runs the tenant's stored rule pack instead of hierarchical
	// config evaluation.
	RulesMode bool `json:"rules_mode,omitempty"`
}

type ScanTotals struct {
	Resources    int `json:"resources"`
	Findings     int `json:"findings"`
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"non_compliant"`
	NotEvaluated int `json:"not_evaluated"`
	Errors       int `json:"errors"`
}

type ScanReport struct {
	ScanID         string     `json:"scan_id"`
	TenantID       string     `json:"tenant_id"`
	AccountID      string     `json:"account_id"`
	Regions        []string   `json:"regions"`
	SnapshotKey    string     `json:"snapshot_key,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     time.Time  `json:"finished_at"`
	Totals         ScanTotals `json:"totals"`
	FindingsSample []Finding  `json:"findings_sample,omitempty"`
	AlertsSent     int        `json:"alerts_sent"`
}
