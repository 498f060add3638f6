// Package inventory defines the sink and query surface for evaluated
// resources.
package inventory

import (
	"context"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type Store interface {
	PutResources(ctx context.Context, resources []*domain.Resource) error
	ListBySnapshot(ctx context.Context, tenantID, snapshotKey string, limit int) ([]domain.Resource, error)
	ListByCompliance(ctx context.Context, tenantID string, status domain.ComplianceStatus, limit int) ([]domain.Resource, error)
	ListByType(ctx context.Context, tenantID, resourceType string, limit int) ([]domain.Resource, error)
}
