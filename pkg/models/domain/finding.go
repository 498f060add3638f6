package domain

import (
	"time"

	"github.com/google/uuid"
)

type FindingStatus string

const (
	FindingOpen       FindingStatus = "OPEN"
	FindingResolved   FindingStatus = "RESOLVED"
	FindingSuppressed FindingStatus = "SUPPRESSED"
)

// HierarchicalRuleID identifies findings produced by the hierarchical
// drift path rather than by an individual rule.
const HierarchicalRuleID = "hierarchical-config"

// Difference is a single per-path discrepancy between the observed and the
// effective desired configuration. A side missing the path is nil.
type Difference struct {
	Path     string
	Observed any
	Expected any
}

// Finding is one detected violation. Immutable after creation; only Status
// transitions are performed by external workflows.
type Finding struct {
	FindingID    string
	TenantID     string
	RuleID       string
	ResourceARN  string
	ResourceType string
	Severity     Severity
	Status       FindingStatus
	Message      string
	Observed     any
	Expected     any
	Differences  []Difference
	Timestamp    time.Time
	AccountID    string
	Region       string
	Category     string
	SnapshotKey  string
	Metadata     map[string]any
}

// NewFinding builds a finding for a rule failing against a resource.
func NewFinding(rule Rule, resource *Resource, observed, expected any) *Finding {
	return &Finding{
		FindingID:    uuid.NewString(),
		TenantID:     resource.TenantID,
		RuleID:       rule.ID,
		ResourceARN:  resource.ARN,
		ResourceType: resource.ResourceType,
		Severity:     rule.Severity,
		Status:       FindingOpen,
		Message:      rule.Message,
		Observed:     observed,
		Expected:     expected,
		Timestamp:    time.Now().UTC(),
		AccountID:    resource.AccountID,
		Region:       resource.Region,
		Category:     "compliance",
		SnapshotKey:  resource.SnapshotKey,
	}
}
