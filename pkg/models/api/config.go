package api

import "time"

type BaseConfig struct {
	ResourceType  string         `json:"resource_type"`
	DesiredConfig map[string]any `json:"desired_config"`
	Version       string         `json:"version"`
	Editable      bool           `json:"editable"`
	CreatedAt     time.Time      `json:"created_at,omitzero"`
	UpdatedAt     time.Time      `json:"updated_at,omitzero"`
	CreatedBy     string         `json:"created_by,omitempty"`
}

type ResourceGroup struct {
	GroupID       string         `json:"group_id"`
	Name          string         `json:"name"`
	ResourceType  string         `json:"resource_type"`
	Selector      map[string]any `json:"selector"`
	Priority      int            `json:"priority"`
	Description   string         `json:"description,omitempty"`
	DesiredConfig map[string]any `json:"desired_config"`
	CreatedAt     time.Time      `json:"created_at,omitzero"`
	UpdatedAt     time.Time      `json:"updated_at,omitzero"`
	CreatedBy     string         `json:"created_by,omitempty"`
}

type ConfigTemplate struct {
	TemplateID    string         `json:"template_id"`
	Name          string         `json:"name"`
	ResourceType  string         `json:"resource_type"`
	Description   string         `json:"description,omitempty"`
	DesiredConfig map[string]any `json:"desired_config"`
	Category      string         `json:"category,omitempty"`
	IsCustom      bool           `json:"is_custom"`
}

type Resolutions struct {
	ResourceARN string         `json:"resource_arn"`
	Resolutions map[string]any `json:"resolutions"`
}
