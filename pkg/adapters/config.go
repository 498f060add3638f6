package adapters

import (
	"fmt"
	"strings"
	"time"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/models/store"
)

const (
	baseConfigKeyPrefix = "BASE_CONFIG#"
	groupKeyPrefix      = "GROUP#"
	templateKeyPrefix   = "TEMPLATE#"
	resourceKeyPrefix   = "RESOURCE#"

	groupMetadataSK = "METADATA"
	resolutionSK    = "CONFLICT_RESOLUTION"
)

// prioritySortKey zero-pads priorities so the GSI sorts them numerically.
func prioritySortKey(priority int) string {
	return fmt.Sprintf("%010d", priority)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func MapDomainBaseConfigToStore(cfg domain.BaseConfig) store.BaseConfigItem {
	return store.BaseConfigItem{
		PK:            baseConfigKeyPrefix + cfg.ResourceType,
		SK:            cfg.Version,
		DesiredConfig: cfg.DesiredConfig,
		Editable:      cfg.Editable,
		CreatedAt:     formatTime(cfg.CreatedAt),
		UpdatedAt:     formatTime(cfg.UpdatedAt),
		CreatedBy:     cfg.CreatedBy,
		GSI1PK:        cfg.ResourceType,
		GSI1SK:        prioritySortKey(0),
	}
}

func MapStoreBaseConfigToDomain(item store.BaseConfigItem) domain.BaseConfig {
	return domain.BaseConfig{
		ResourceType:  strings.TrimPrefix(item.PK, baseConfigKeyPrefix),
		DesiredConfig: item.DesiredConfig,
		Version:       item.SK,
		Editable:      item.Editable,
		CreatedAt:     parseTime(item.CreatedAt),
		UpdatedAt:     parseTime(item.UpdatedAt),
		CreatedBy:     item.CreatedBy,
	}
}

func MapDomainResourceGroupToStore(group domain.ResourceGroup) store.ResourceGroupItem {
	return store.ResourceGroupItem{
		PK:            groupKeyPrefix + group.GroupID,
		SK:            groupMetadataSK,
		Name:          group.Name,
		ResourceType:  group.ResourceType,
		Selector:      group.Selector,
		Priority:      group.Priority,
		Description:   group.Description,
		DesiredConfig: group.DesiredConfig,
		CreatedAt:     formatTime(group.CreatedAt),
		UpdatedAt:     formatTime(group.UpdatedAt),
		CreatedBy:     group.CreatedBy,
		GSI1PK:        group.ResourceType,
		GSI1SK:        prioritySortKey(group.Priority),
	}
}

func MapStoreResourceGroupToDomain(item store.ResourceGroupItem) domain.ResourceGroup {
	return domain.ResourceGroup{
		GroupID:       strings.TrimPrefix(item.PK, groupKeyPrefix),
		Name:          item.Name,
		ResourceType:  item.ResourceType,
		Selector:      item.Selector,
		Priority:      item.Priority,
		Description:   item.Description,
		DesiredConfig: item.DesiredConfig,
		CreatedAt:     parseTime(item.CreatedAt),
		UpdatedAt:     parseTime(item.UpdatedAt),
		CreatedBy:     item.CreatedBy,
	}
}

func MapDomainConfigTemplateToStore(template domain.ConfigTemplate) store.ConfigTemplateItem {
	return store.ConfigTemplateItem{
		PK:            templateKeyPrefix + template.TemplateID,
		SK:            domain.DefaultConfigVersion,
		Name:          template.Name,
		ResourceType:  template.ResourceType,
		Description:   template.Description,
		DesiredConfig: template.DesiredConfig,
		Category:      template.Category,
		IsCustom:      template.IsCustom,
		CreatedAt:     formatTime(template.CreatedAt),
		UpdatedAt:     formatTime(template.UpdatedAt),
		CreatedBy:     template.CreatedBy,
		GSI1PK:        template.ResourceType,
		GSI1SK:        "TEMPLATE",
	}
}

func MapStoreConfigTemplateToDomain(item store.ConfigTemplateItem) domain.ConfigTemplate {
	return domain.ConfigTemplate{
		TemplateID:    strings.TrimPrefix(item.PK, templateKeyPrefix),
		Name:          item.Name,
		ResourceType:  item.ResourceType,
		Description:   item.Description,
		DesiredConfig: item.DesiredConfig,
		Category:      item.Category,
		IsCustom:      item.IsCustom,
		CreatedAt:     parseTime(item.CreatedAt),
		UpdatedAt:     parseTime(item.UpdatedAt),
		CreatedBy:     item.CreatedBy,
	}
}

func MapResolutionsToStore(resourceARN string, resolutions map[string]any, now time.Time) store.ResolutionItem {
	return store.ResolutionItem{
		PK:          resourceKeyPrefix + resourceARN,
		SK:          resolutionSK,
		Resolutions: resolutions,
		CreatedAt:   formatTime(now),
		UpdatedAt:   formatTime(now),
	}
}
