package api

import "time"

type Resource struct {
	ARN              string         `json:"arn"`
	Name             string         `json:"name"`
	ResourceType     string         `json:"resource_type"`
	Region           string         `json:"region,omitempty"`
	AccountID        string         `json:"account_id,omitempty"`
	ComplianceStatus string         `json:"compliance_status"`
	DriftScore       float64        `json:"drift_score"`
	FindingsCount    int            `json:"findings_count"`
	LastEvaluated    time.Time      `json:"last_evaluated,omitzero"`
	BaseConfig       string         `json:"base_config_applied,omitempty"`
	GroupsApplied    []string       `json:"groups_applied,omitempty"`
	Config           map[string]any `json:"config,omitempty"`
	DesiredConfig    map[string]any `json:"desired_config,omitempty"`
	SnapshotKey      string         `json:"snapshot_key,omitempty"`
}

type Difference struct {
	Path     string `json:"path"`
	Observed any    `json:"observed"`
	Expected any    `json:"expected"`
}

type Finding struct {
	FindingID    string       `json:"finding_id"`
	RuleID       string       `json:"rule_id"`
	ResourceARN  string       `json:"resource_arn"`
	ResourceType string       `json:"resource_type"`
	Severity     string       `json:"severity"`
	Status       string       `json:"status"`
	Message      string       `json:"message,omitempty"`
	Differences  []Difference `json:"differences,omitempty"`
	Timestamp    time.Time    `json:"timestamp"`
	Region       string       `json:"region,omitempty"`
	SnapshotKey  string       `json:"snapshot_key,omitempty"`
}

type FindingStatusUpdate struct {
	Status string `json:"status"`
}
