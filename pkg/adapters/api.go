package adapters

import (
	"github.com/manuvikash/Thanos/pkg/models/api"
	"github.com/manuvikash/Thanos/pkg/models/domain"
)

func MapBaseConfigDomainToApi(cfg domain.BaseConfig) api.BaseConfig {
	return api.BaseConfig{
		ResourceType:  cfg.ResourceType,
		DesiredConfig: cfg.DesiredConfig,
		Version:       cfg.Version,
		Editable:      cfg.Editable,
		CreatedAt:     cfg.CreatedAt,
		UpdatedAt:     cfg.UpdatedAt,
		CreatedBy:     cfg.CreatedBy,
	}
}

func MapBaseConfigApiToDomain(cfg api.BaseConfig) domain.BaseConfig {
	return domain.BaseConfig{
		ResourceType:  cfg.ResourceType,
		DesiredConfig: cfg.DesiredConfig,
		Version:       cfg.Version,
		Editable:      cfg.Editable,
		CreatedBy:     cfg.CreatedBy,
	}
}

func MapResourceGroupDomainToApi(group domain.ResourceGroup) api.ResourceGroup {
	return api.ResourceGroup{
		GroupID:       group.GroupID,
		Name:          group.Name,
		ResourceType:  group.ResourceType,
		Selector:      group.Selector,
		Priority:      group.Priority,
		Description:   group.Description,
		DesiredConfig: group.DesiredConfig,
		CreatedAt:     group.CreatedAt,
		UpdatedAt:     group.UpdatedAt,
		CreatedBy:     group.CreatedBy,
	}
}

func MapResourceGroupApiToDomain(group api.ResourceGroup) domain.ResourceGroup {
	return domain.ResourceGroup{
		GroupID:       group.GroupID,
		Name:          group.Name,
		ResourceType:  group.ResourceType,
		Selector:      domain.Selector(group.Selector),
		Priority:      group.Priority,
		Description:   group.Description,
		DesiredConfig: group.DesiredConfig,
		CreatedBy:     group.CreatedBy,
	}
}

func MapConfigTemplateDomainToApi(template domain.ConfigTemplate) api.ConfigTemplate {
	return api.ConfigTemplate{
		TemplateID:    template.TemplateID,
		Name:          template.Name,
		ResourceType:  template.ResourceType,
		Description:   template.Description,
		DesiredConfig: template.DesiredConfig,
		Category:      template.Category,
		IsCustom:      template.IsCustom,
	}
}

func MapConfigTemplateApiToDomain(template api.ConfigTemplate) domain.ConfigTemplate {
	return domain.ConfigTemplate{
		TemplateID:    template.TemplateID,
		Name:          template.Name,
		ResourceType:  template.ResourceType,
		Description:   template.Description,
		DesiredConfig: template.DesiredConfig,
		Category:      template.Category,
	}
}

func MapResourceDomainToApi(resource domain.Resource) api.Resource {
	return api.Resource{
		ARN:              resource.ARN,
		Name:             resource.Name(),
		ResourceType:     resource.ResourceType,
		Region:           resource.Region,
		AccountID:        resource.AccountID,
		ComplianceStatus: string(resource.ComplianceStatus),
		DriftScore:       resource.DriftScore,
		FindingsCount:    resource.FindingsCount,
		LastEvaluated:    resource.LastEvaluated,
		BaseConfig:       resource.BaseConfigApplied,
		GroupsApplied:    resource.GroupsApplied,
		Config:           resource.Config,
		DesiredConfig:    resource.DesiredConfig,
		SnapshotKey:      resource.SnapshotKey,
	}
}

func MapFindingDomainToApi(finding domain.Finding) api.Finding {
	differences := make([]api.Difference, 0, len(finding.Differences))
	for _, d := range finding.Differences {
		differences = append(differences, api.Difference{
			Path:     d.Path,
			Observed: d.Observed,
			Expected: d.Expected,
		})
	}
	return api.Finding{
		FindingID:    finding.FindingID,
		RuleID:       finding.RuleID,
		ResourceARN:  finding.ResourceARN,
		ResourceType: finding.ResourceType,
		Severity:     string(finding.Severity),
		Status:       string(finding.Status),
		Message:      finding.Message,
		Differences:  differences,
		Timestamp:    finding.Timestamp,
		Region:       finding.Region,
		SnapshotKey:  finding.SnapshotKey,
	}
}

func MapScanReportDomainToApi(report domain.ScanReport) api.ScanReport {
	sample := make([]api.Finding, 0, len(report.FindingsSample))
	for _, f := range report.FindingsSample {
		sample = append(sample, MapFindingDomainToApi(*f))
	}
	return api.ScanReport{
		ScanID:      report.ScanID,
		TenantID:    report.TenantID,
		AccountID:   report.AccountID,
		Regions:     report.Regions,
		SnapshotKey: report.SnapshotKey,
		StartedAt:   report.StartedAt,
		FinishedAt:  report.FinishedAt,
		Totals: api.ScanTotals{
			Resources:    report.Totals.Resources,
			Findings:     report.Totals.Findings,
			Compliant:    report.Totals.Compliant,
			NonCompliant: report.Totals.NonCompliant,
			NotEvaluated: report.Totals.NotEvaluated,
			Errors:       report.Totals.Errors,
		},
		FindingsSample: sample,
		AlertsSent:     report.AlertsSent,
	}
}
