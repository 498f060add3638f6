package store

// ResourceItem is one inventory row. The table is keyed by snapshot
// (tenant#snapshot, arn); GSI1 serves per-type queries sorted by drift and
// GSI2 serves per-status queries sorted by evaluation time.
type ResourceItem struct {
	PK                string         `dynamodbav:"PK"`
	SK                string         `dynamodbav:"SK"`
	TenantID          string         `dynamodbav:"tenant_id"`
	ResourceARN       string         `dynamodbav:"resource_arn"`
	ResourceType      string         `dynamodbav:"resource_type"`
	Region            string         `dynamodbav:"region"`
	AccountID         string         `dynamodbav:"account_id"`
	ComplianceStatus  string         `dynamodbav:"compliance_status"`
	DriftScore        float64        `dynamodbav:"drift_score"`
	FindingsCount     int            `dynamodbav:"findings_count"`
	LastEvaluated     string         `dynamodbav:"last_evaluated"`
	Config            map[string]any `dynamodbav:"config"`
	DesiredConfig     map[string]any `dynamodbav:"desired_config"`
	Metadata          map[string]any `dynamodbav:"metadata"`
	BaseConfigApplied string         `dynamodbav:"base_config_applied"`
	GroupsApplied     []string       `dynamodbav:"groups_applied"`
	SnapshotKey       string         `dynamodbav:"snapshot_key"`
	ScanID            string         `dynamodbav:"scan_id"`
	GSI1PK            string         `dynamodbav:"GSI1PK"`
	GSI1SK            string         `dynamodbav:"GSI1SK"`
	GSI2PK            string         `dynamodbav:"GSI2PK"`
	GSI2SK            string         `dynamodbav:"GSI2SK"`
}
