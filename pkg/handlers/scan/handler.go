// Package scan exposes the scan trigger over HTTP.
package scan

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/adapters"
	"github.com/manuvikash/Thanos/pkg/models/api"
	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/config"
	scansvc "github.com/manuvikash/Thanos/pkg/services/scan"
)

// Runner executes a scan for one tenant.
type Runner interface {
	Run(ctx context.Context, tenant domain.Tenant, opts scansvc.Options) (*domain.ScanReport, error)
}

// Scheduler manages recurring scans per tenant.
type Scheduler interface {
	Start(ctx context.Context, tenantID string) error
	Cancel(ctx context.Context, tenantID string) error
}

// RuleLoader resolves a tenant's rule pack for rules-mode scans.
type RuleLoader interface {
	Load(ctx context.Context, tenantID string) ([]domain.Rule, error)
}

type Handler struct {
	registry  config.Registry
	runner    Runner
	scheduler Scheduler
	rules     RuleLoader
}

func NewHandler(registry config.Registry, runner Runner, scheduler Scheduler, rules RuleLoader) *Handler {
	return &Handler{registry: registry, runner: runner, scheduler: scheduler, rules: rules}
}

// StartScan runs a scan synchronously and returns the report. Scans are long
// for big accounts; the request context carries the deadline.
func (h *Handler) StartScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var body api.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.TenantID == "" {
		http.Error(w, "tenant_id is required", http.StatusBadRequest)
		return
	}

	tenant, err := h.registry.GetTenant(ctx, body.TenantID)
	if err != nil {
		logger.Warn().Err(err).Str("tenant", body.TenantID).Msg("unknown tenant")
		http.Error(w, "unknown tenant", http.StatusNotFound)
		return
	}

	var opts scansvc.Options
	if body.RulesMode {
		if h.rules == nil {
			http.Error(w, "rule scans are not configured", http.StatusBadRequest)
			return
		}
		opts.Rules, err = h.rules.Load(ctx, body.TenantID)
		if err != nil {
			logger.Error().Err(err).Str("tenant", body.TenantID).Msg("failed to load rule pack")
			http.Error(w, "failed to load rule pack", http.StatusInternalServerError)
			return
		}
	}

	report, err := h.runner.Run(ctx, *tenant, opts)
	if err != nil {
		logger.Error().Err(err).Str("tenant", body.TenantID).Msg("scan failed")
		http.Error(w, "scan failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapScanReportDomainToApi(*report)); err != nil {
		logger.Error().Err(err).Msg("failed to encode scan report")
	}
}

// ScheduleScan starts recurring scans for a tenant.
func (h *Handler) ScheduleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenant")

	if err := h.scheduler.Start(ctx, tenantID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("tenant", tenantID).Msg("failed to schedule scans")
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// CancelSchedule stops a tenant's recurring scans.
func (h *Handler) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenant")

	if err := h.scheduler.Cancel(ctx, tenantID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTenants serves the tenants a scan can be started for.
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenants, err := h.registry.GetTenants(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list tenants")
		http.Error(w, "failed to list tenants", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tenants); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode tenants")
	}
}
