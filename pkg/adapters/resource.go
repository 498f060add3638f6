package adapters

import (
	"fmt"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/models/store"
)

func MapDomainResourceToStore(resource domain.Resource) store.ResourceItem {
	return store.ResourceItem{
		PK:                resource.TenantID + "#" + resource.SnapshotKey,
		SK:                resource.ARN,
		TenantID:          resource.TenantID,
		ResourceARN:       resource.ARN,
		ResourceType:      resource.ResourceType,
		Region:            resource.Region,
		AccountID:         resource.AccountID,
		ComplianceStatus:  string(resource.ComplianceStatus),
		DriftScore:        resource.DriftScore,
		FindingsCount:     resource.FindingsCount,
		LastEvaluated:     formatTime(resource.LastEvaluated),
		Config:            resource.Config,
		DesiredConfig:     resource.DesiredConfig,
		Metadata:          resource.Metadata,
		BaseConfigApplied: resource.BaseConfigApplied,
		GroupsApplied:     resource.GroupsApplied,
		SnapshotKey:       resource.SnapshotKey,
		ScanID:            resource.ScanID,
		GSI1PK:            resource.TenantID + "#" + resource.ResourceType,
		GSI1SK:            fmt.Sprintf("%s#%.4f", resource.ComplianceStatus, resource.DriftScore),
		GSI2PK:            resource.TenantID + "#" + string(resource.ComplianceStatus),
		GSI2SK:            formatTime(resource.LastEvaluated),
	}
}

func MapStoreResourceToDomain(item store.ResourceItem) domain.Resource {
	return domain.Resource{
		ARN:               item.ResourceARN,
		ResourceType:      item.ResourceType,
		Config:            item.Config,
		Region:            item.Region,
		AccountID:         item.AccountID,
		Metadata:          item.Metadata,
		TenantID:          item.TenantID,
		ComplianceStatus:  domain.ComplianceStatus(item.ComplianceStatus),
		DriftScore:        item.DriftScore,
		FindingsCount:     item.FindingsCount,
		LastEvaluated:     parseTime(item.LastEvaluated),
		BaseConfigApplied: item.BaseConfigApplied,
		GroupsApplied:     item.GroupsApplied,
		DesiredConfig:     item.DesiredConfig,
		SnapshotKey:       item.SnapshotKey,
		ScanID:            item.ScanID,
	}
}
