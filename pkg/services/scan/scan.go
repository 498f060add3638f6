// Package scan drives a full compliance scan of one tenant account: collect
// the live resource state, snapshot it, evaluate it against the desired
// configuration model, persist the results, and raise alerts for critical
// findings.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/evaluation"
	"github.com/manuvikash/Thanos/pkg/store/findings"
	"github.com/manuvikash/Thanos/pkg/store/inventory"
)

const findingsSampleSize = 10

// ResourceCollector gathers the observed state of a tenant's resources.
type ResourceCollector interface {
	Collect(ctx context.Context, tenant domain.Tenant) ([]*domain.Resource, error)
}

// SnapshotWriter persists the observed (pre-evaluation) resource state and
// returns the storage key identifying the snapshot.
type SnapshotWriter interface {
	Write(ctx context.Context, tenantID string, resources []*domain.Resource, at time.Time) (string, error)
}

// Evaluator is the evaluation surface the controller needs.
type Evaluator interface {
	EvaluateHierarchical(ctx context.Context, resources []*domain.Resource) (*evaluation.Result, error)
	EvaluateRules(ctx context.Context, resources []*domain.Resource, rules []domain.Rule) *evaluation.Result
}

// Notifier publishes alerts for findings and reports how many went out.
type Notifier interface {
	NotifyFindings(ctx context.Context, items []*domain.Finding) int
}

type Controller struct {
	collector ResourceCollector
	evaluator Evaluator
	snapshots SnapshotWriter
	inventory inventory.Store
	findings  findings.Store
	notifier  Notifier
}

func NewController(
	collector ResourceCollector,
	evaluator Evaluator,
	snapshots SnapshotWriter,
	inventoryStore inventory.Store,
	findingsStore findings.Store,
	notifier Notifier,
) (*Controller, error) {
	if collector == nil {
		return nil, fmt.Errorf("collector is nil")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator is nil")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot writer is nil")
	}
	if inventoryStore == nil {
		return nil, fmt.Errorf("inventory store is nil")
	}
	if findingsStore == nil {
		return nil, fmt.Errorf("findings store is nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is nil")
	}
	return &Controller{
		collector: collector,
		evaluator: evaluator,
		snapshots: snapshots,
		inventory: inventoryStore,
		findings:  findingsStore,
		notifier:  notifier,
	}, nil
}

// Options tunes a single run. A non-empty Rules slice switches the run to
// rule-based evaluation instead of the hierarchical model.
type Options struct {
	Rules []domain.Rule
}

// Run executes one scan end to end. The snapshot is written before
// evaluation, so it captures observed state only; evaluated resources and
// findings reference it by key. Alert delivery is best effort and never fails
// the run.
func (c *Controller) Run(ctx context.Context, tenant domain.Tenant, opts Options) (*domain.ScanReport, error) {
	logger := zerolog.Ctx(ctx)
	report := &domain.ScanReport{
		ScanID:    uuid.NewString(),
		TenantID:  tenant.ID,
		AccountID: tenant.AccountID,
		Regions:   tenant.Regions,
		StartedAt: time.Now().UTC(),
	}
	logger.Info().
		Str("scan_id", report.ScanID).
		Str("tenant", tenant.ID).
		Strs("regions", tenant.Regions).
		Msg("starting scan")

	resources, err := c.collector.Collect(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("collecting resources for tenant %s: %w", tenant.ID, err)
	}
	if len(resources) == 0 {
		logger.Warn().Str("tenant", tenant.ID).Msg("no resources collected")
		report.FinishedAt = time.Now().UTC()
		return report, nil
	}

	key, err := c.snapshots.Write(ctx, tenant.ID, resources, report.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("writing snapshot for tenant %s: %w", tenant.ID, err)
	}
	report.SnapshotKey = key
	for _, resource := range resources {
		resource.SnapshotKey = key
	}

	var result *evaluation.Result
	if len(opts.Rules) > 0 {
		result = c.evaluator.EvaluateRules(ctx, resources, opts.Rules)
	} else {
		result, err = c.evaluator.EvaluateHierarchical(ctx, resources)
		if err != nil {
			return nil, fmt.Errorf("evaluating tenant %s: %w", tenant.ID, err)
		}
	}
	report.Totals = result.Totals

	if err := c.inventory.PutResources(ctx, resources); err != nil {
		return nil, fmt.Errorf("persisting inventory for tenant %s: %w", tenant.ID, err)
	}
	if len(result.Findings) > 0 {
		if err := c.findings.PutFindings(ctx, result.Findings); err != nil {
			return nil, fmt.Errorf("persisting findings for tenant %s: %w", tenant.ID, err)
		}
	}

	report.AlertsSent = c.notifier.NotifyFindings(ctx, result.Findings)
	report.FindingsSample = result.Findings
	if len(report.FindingsSample) > findingsSampleSize {
		report.FindingsSample = report.FindingsSample[:findingsSampleSize]
	}
	report.FinishedAt = time.Now().UTC()

	logger.Info().
		Str("scan_id", report.ScanID).
		Int("resources", report.Totals.Resources).
		Int("findings", report.Totals.Findings).
		Int("alerts", report.AlertsSent).
		Str("snapshot_key", key).
		Msg("scan finished")
	return report, nil
}
