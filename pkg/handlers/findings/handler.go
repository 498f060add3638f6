// Package findings exposes detected violations and their status workflow over
// HTTP.
package findings

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/adapters"
	"github.com/manuvikash/Thanos/pkg/models/api"
	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/store/findings"
)

const defaultLimit = 100

type Handler struct {
	store findings.Store
}

func NewHandler(store findings.Store) *Handler {
	return &Handler{store: store}
}

// ListFindings serves a tenant's findings, most recent first, optionally
// narrowed to one snapshot.
func (h *Handler) ListFindings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenant")
	query := r.URL.Query()
	limit := parseLimit(query.Get("limit"))

	var (
		items []domain.Finding
		err   error
	)
	if snapshot := query.Get("snapshot"); snapshot != "" {
		items, err = h.store.ListBySnapshot(ctx, tenantID, snapshot, limit)
	} else {
		items, err = h.store.ListByTenant(ctx, tenantID, limit)
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("tenant", tenantID).Msg("failed to list findings")
		http.Error(w, "failed to list findings", http.StatusInternalServerError)
		return
	}

	response := make([]api.Finding, 0, len(items))
	for _, finding := range items {
		response = append(response, adapters.MapFindingDomainToApi(finding))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode findings")
	}
}

// UpdateStatus transitions a finding between OPEN, RESOLVED and SUPPRESSED.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenant")
	findingID := chi.URLParam(r, "finding")

	var body api.FindingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	status := domain.FindingStatus(body.Status)
	switch status {
	case domain.FindingOpen, domain.FindingResolved, domain.FindingSuppressed:
	default:
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateStatus(ctx, tenantID, findingID, status); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("tenant", tenantID).
			Str("finding", findingID).
			Msg("failed to update finding status")
		http.Error(w, "failed to update finding status", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseLimit(raw string) int {
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return limit
}
