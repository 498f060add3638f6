// Package findings defines the sink and query surface for findings.
package findings

import (
	"context"

	"github.com/manuvikash/Thanos/pkg/models/domain"
)

type Store interface {
	PutFindings(ctx context.Context, items []*domain.Finding) error
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]domain.Finding, error)
	ListBySnapshot(ctx context.Context, tenantID, snapshotKey string, limit int) ([]domain.Finding, error)
	UpdateStatus(ctx context.Context, tenantID, findingID string, status domain.FindingStatus) error
}
