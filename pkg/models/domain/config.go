package domain

import "time"

// Selector describes which resources a group or rule applies to. Keys are
// predicate names (tags, arn_pattern, name_pattern); unknown keys are ignored
// so newer selectors keep working against older evaluators.
type Selector map[string]any

const DefaultConfigVersion = "v1"

// BaseConfig is the resource-type-wide desired configuration. At most one
// active BaseConfig exists per (resource type, version).
type BaseConfig struct {
	ResourceType  string
	DesiredConfig map[string]any
	Version       string
	Editable      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

// ResourceGroup overlays a desired configuration on resources matching its
// selector. Higher Priority wins when two groups set the same path.
type ResourceGroup struct {
	GroupID       string
	Name          string
	ResourceType  string
	Selector      Selector
	Priority      int
	Description   string
	DesiredConfig map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

// ConfigTemplate is a pre-built desired configuration that can seed a base
// config or a group override.
type ConfigTemplate struct {
	TemplateID    string
	Name          string
	ResourceType  string
	Description   string
	DesiredConfig map[string]any
	Category      string
	IsCustom      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

// ConflictValue is one source's contribution at a conflicting path.
type ConflictValue struct {
	Priority int
	Value    any
	Source   string
}

// Conflict records a configuration path where two or more sources disagree.
type Conflict struct {
	Path               string
	Values             []ConflictValue
	ResolutionStrategy string
}

const ResolutionUseHighestPriority = "use_highest_priority"
