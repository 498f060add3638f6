package store

// Configuration items share one table. Base configs, groups, templates and
// per-resource resolutions are distinguished by their PK prefix; GSI1 indexes
// everything by resource type with the priority as sort key.
type BaseConfigItem struct {
	PK            string         `dynamodbav:"PK"`
	SK            string         `dynamodbav:"SK"`
	DesiredConfig map[string]any `dynamodbav:"desired_config"`
	Editable      bool           `dynamodbav:"editable"`
	CreatedAt     string         `dynamodbav:"created_at"`
	UpdatedAt     string         `dynamodbav:"updated_at"`
	CreatedBy     string         `dynamodbav:"created_by"`
	GSI1PK        string         `dynamodbav:"GSI1PK"`
	GSI1SK        string         `dynamodbav:"GSI1SK"`
}

type ResourceGroupItem struct {
	PK            string         `dynamodbav:"PK"`
	SK            string         `dynamodbav:"SK"`
	Name          string         `dynamodbav:"name"`
	ResourceType  string         `dynamodbav:"resource_type"`
	Selector      map[string]any `dynamodbav:"selector"`
	Priority      int            `dynamodbav:"priority"`
	Description   string         `dynamodbav:"description"`
	DesiredConfig map[string]any `dynamodbav:"desired_config"`
	CreatedAt     string         `dynamodbav:"created_at"`
	UpdatedAt     string         `dynamodbav:"updated_at"`
	CreatedBy     string         `dynamodbav:"created_by"`
	GSI1PK        string         `dynamodbav:"GSI1PK"`
	GSI1SK        string         `dynamodbav:"GSI1SK"`
}

type ConfigTemplateItem struct {
	PK            string         `dynamodbav:"PK"`
	SK            string         `dynamodbav:"SK"`
	Name          string         `dynamodbav:"name"`
	ResourceType  string         `dynamodbav:"resource_type"`
	Description   string         `dynamodbav:"description"`
	DesiredConfig map[string]any `dynamodbav:"desired_config"`
	Category      string         `dynamodbav:"category"`
	IsCustom      bool           `dynamodbav:"is_custom"`
	CreatedAt     string         `dynamodbav:"created_at"`
	UpdatedAt     string         `dynamodbav:"updated_at"`
	CreatedBy     string         `dynamodbav:"created_by"`
	GSI1PK        string         `dynamodbav:"GSI1PK"`
	GSI1SK        string         `dynamodbav:"GSI1SK"`
}

type ResolutionItem struct {
	PK          string         `dynamodbav:"PK"`
	SK          string         `dynamodbav:"SK"`
	Resolutions map[string]any `dynamodbav:"resolutions"`
	CreatedAt   string         `dynamodbav:"created_at"`
	UpdatedAt   string         `dynamodbav:"updated_at"`
}
