// Package resources exposes the evaluated resource inventory over HTTP.
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/adapters"
	"github.com/manuvikash/Thanos/pkg/models/api"
	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/store/inventory"
)

const defaultLimit = 100

type Handler struct {
	store inventory.Store
}

func NewHandler(store inventory.Store) *Handler {
	return &Handler{store: store}
}

// ListResources serves the inventory filtered by exactly one of snapshot,
// compliance status or resource type. Without a filter it falls back to the
// non-compliant listing, most drifted first.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenant")
	query := r.URL.Query()
	limit := parseLimit(query.Get("limit"))

	var (
		items []domain.Resource
		err   error
	)
	switch {
	case query.Get("snapshot") != "":
		items, err = h.store.ListBySnapshot(ctx, tenantID, query.Get("snapshot"), limit)
	case query.Get("status") != "":
		items, err = h.store.ListByCompliance(ctx, tenantID, domain.ComplianceStatus(query.Get("status")), limit)
	case query.Get("resource_type") != "":
		items, err = h.store.ListByType(ctx, tenantID, query.Get("resource_type"), limit)
	default:
		items, err = h.store.ListByCompliance(ctx, tenantID, domain.ComplianceNonCompliant, limit)
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("tenant", tenantID).Msg("failed to list resources")
		http.Error(w, "failed to list resources", http.StatusInternalServerError)
		return
	}

	response := make([]api.Resource, 0, len(items))
	for _, resource := range items {
		response = append(response, adapters.MapResourceDomainToApi(resource))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode resources")
	}
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
