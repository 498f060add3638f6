// Package config defines the configuration store consumed by evaluation and
// exposed through the admin API: base configs, resource groups, templates,
// per-resource conflict resolutions and legacy rules.
package config

import (
	"context"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type Store interface {
	// GetBaseConfig returns the active base config for a resource type, or
	// nil when none exists.
	GetBaseConfig(ctx context.Context, resourceType string) (*domain.BaseConfig, error)
	PutBaseConfig(ctx context.Context, cfg *domain.BaseConfig) error
	ListBaseConfigs(ctx context.Context) ([]domain.BaseConfig, error)

	// ListGroups returns every group declared for a resource type, in no
	// particular order; callers apply the selector and sort by priority.
	ListGroups(ctx context.Context, resourceType string) ([]domain.ResourceGroup, error)
	GetGroup(ctx context.Context, groupID string) (*domain.ResourceGroup, error)
	PutGroup(ctx context.Context, group *domain.ResourceGroup) error
	DeleteGroup(ctx context.Context, groupID string) error

	// GetResolutions returns human-adjudicated path overrides for a resource,
	// keyed by configuration path. Empty when none exist.
	GetResolutions(ctx context.Context, resourceARN string) (map[string]any, error)
	PutResolutions(ctx context.Context, resourceARN string, resolutions map[string]any) error

	ListTemplates(ctx context.Context, resourceType string) ([]domain.ConfigTemplate, error)
	PutTemplate(ctx context.Context, tpl *domain.ConfigTemplate) error
}
