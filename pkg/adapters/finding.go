package adapters

import (
	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/models/store"
)

const tenantKeyPrefix = "TENANT#"
const findingKeyPrefix = "FINDING#"

func MapDomainFindingToStore(finding domain.Finding) store.FindingItem {
	differences := make([]store.DifferenceItem, 0, len(finding.Differences))
	for _, d := range finding.Differences {
		differences = append(differences, store.DifferenceItem{
			Path:     d.Path,
			Observed: d.Observed,
			Expected: d.Expected,
		})
	}

	timestamp := formatTime(finding.Timestamp)
	return store.FindingItem{
		PK:           tenantKeyPrefix + finding.TenantID,
		SK:           findingKeyPrefix + timestamp + "#" + finding.FindingID,
		FindingID:    finding.FindingID,
		TenantID:     finding.TenantID,
		RuleID:       finding.RuleID,
		ResourceARN:  finding.ResourceARN,
		ResourceType: finding.ResourceType,
		Severity:     string(finding.Severity),
		Status:       string(finding.Status),
		Message:      finding.Message,
		Observed:     finding.Observed,
		Expected:     finding.Expected,
		Differences:  differences,
		Timestamp:    timestamp,
		AccountID:    finding.AccountID,
		Region:       finding.Region,
		Category:     finding.Category,
		SnapshotKey:  finding.SnapshotKey,
		Metadata:     finding.Metadata,
		GSI1PK:       finding.TenantID + "#" + finding.SnapshotKey,
		GSI1SK:       string(finding.Severity) + "#" + timestamp,
	}
}

func MapStoreFindingToDomain(item store.FindingItem) domain.Finding {
	differences := make([]domain.Difference, 0, len(item.Differences))
	for _, d := range item.Differences {
		differences = append(differences, domain.Difference{
			Path:     d.Path,
			Observed: d.Observed,
			Expected: d.Expected,
		})
	}

	return domain.Finding{
		FindingID:    item.FindingID,
		TenantID:     item.TenantID,
		RuleID:       item.RuleID,
		ResourceARN:  item.ResourceARN,
		ResourceType: item.ResourceType,
		Severity:     domain.Severity(item.Severity),
		Status:       domain.FindingStatus(item.Status),
		Message:      item.Message,
		Observed:     item.Observed,
		Expected:     item.Expected,
		Differences:  differences,
		Timestamp:    parseTime(item.Timestamp),
		AccountID:    item.AccountID,
		Region:       item.Region,
		Category:     item.Category,
		SnapshotKey:  item.SnapshotKey,
		Metadata:     item.Metadata,
	}
}
