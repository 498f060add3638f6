package store

// FindingItem is one finding row. The table is keyed by tenant with a
// timestamp-ordered sort key so the newest findings query first; GSI1 serves
// per-snapshot queries.
type FindingItem struct {
	PK           string           `dynamodbav:"PK"`
	SK           string           `dynamodbav:"SK"`
	FindingID    string           `dynamodbav:"finding_id"`
	TenantID     string           `dynamodbav:"tenant_id"`
	RuleID       string           `dynamodbav:"rule_id"`
	ResourceARN  string           `dynamodbav:"resource_arn"`
	ResourceType string           `dynamodbav:"resource_type"`
	Severity     string           `dynamodbav:"severity"`
	Status       string           `dynamodbav:"status"`
	Message      string           `dynamodbav:"message"`
	Observed     any              `dynamodbav:"observed"`
	Expected     any              `dynamodbav:"expected"`
	Differences  []DifferenceItem `dynamodbav:"differences"`
	Timestamp    string           `dynamodbav:"timestamp"`
	AccountID    string           `dynamodbav:"account_id"`
	Region       string           `dynamodbav:"region"`
	Category     string           `dynamodbav:"category"`
	SnapshotKey  string           `dynamodbav:"snapshot_key"`
	Metadata     map[string]any   `dynamodbav:"metadata"`
	GSI1PK       string           `dynamodbav:"GSI1PK"`
	GSI1SK       string           `dynamodbav:"GSI1SK"`
}

type DifferenceItem struct {
	Path     string `dynamodbav:"path"`
	Observed any    `dynamodbav:"observed"`
	Expected any    `dynamodbav:"expected"`
}
