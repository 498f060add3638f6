package domain

import (
	"strings"
	"time"
)

type ComplianceStatus string

const (
	ComplianceNotEvaluated ComplianceStatus = "NOT_EVALUATED"
	ComplianceCompliant    ComplianceStatus = "COMPLIANT"
	ComplianceNonCompliant ComplianceStatus = "NON_COMPLIANT"
)

// Resource is a normalized cloud object under compliance. Config holds the
// observed configuration tree as JSON-shaped data (nil, bool, numbers,
// strings, []any, map[string]any).
type Resource struct {
	ARN          string
	ResourceType string
	Config       map[string]any
	Region       string
	AccountID    string
	Metadata     map[string]any

	TenantID         string
	ComplianceStatus ComplianceStatus
	DriftScore       float64
	FindingsCount    int
	LastEvaluated    time.Time

	BaseConfigApplied string
	GroupsApplied     []string
	DesiredConfig     map[string]any

	SnapshotKey string
	ScanID      string
}

// Name derives a short name from the ARN: the part after the last "/" when
// present, otherwise the part after the last ":".
func (r *Resource) Name() string {
	if idx := strings.LastIndex(r.ARN, "/"); idx >= 0 {
		return r.ARN[idx+1:]
	}
	if idx := strings.LastIndex(r.ARN, ":"); idx >= 0 {
		return r.ARN[idx+1:]
	}
	return r.ARN
}
