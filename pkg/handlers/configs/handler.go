// Package configs exposes the desired-configuration model over HTTP: base
// configs, resource groups and per-resource conflict resolutions.
package configs

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/adapters"
	"github.com/manuvikash/Thanos/pkg/models/api"
	configstore "github.com/manuvikash/Thanos/pkg/store/config"
)

type Handler struct {
	store configstore.Store
}

func NewHandler(store configstore.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ListBaseConfigs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	configs, err := h.store.ListBaseConfigs(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list base configs")
		http.Error(w, "failed to list base configs", http.StatusInternalServerError)
		return
	}

	response := make([]api.BaseConfig, 0, len(configs))
	for _, cfg := range configs {
		response = append(response, adapters.MapBaseConfigDomainToApi(cfg))
	}
	encode(w, r, response)
}

func (h *Handler) GetBaseConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resourceType := chi.URLParam(r, "resourceType")

	cfg, err := h.store.GetBaseConfig(ctx, resourceType)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("resource_type", resourceType).Msg("failed to get base config")
		http.Error(w, "failed to get base config", http.StatusInternalServerError)
		return
	}
	if cfg == nil {
		http.Error(w, "base config not found", http.StatusNotFound)
		return
	}
	encode(w, r, adapters.MapBaseConfigDomainToApi(*cfg))
}

func (h *Handler) PutBaseConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resourceType := chi.URLParam(r, "resourceType")

	var body api.BaseConfig
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(body.DesiredConfig) == 0 {
		http.Error(w, "desired_config is required", http.StatusBadRequest)
		return
	}
	body.ResourceType = resourceType

	cfg := adapters.MapBaseConfigApiToDomain(body)
	if err := h.store.PutBaseConfig(ctx, &cfg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("resource_type", resourceType).Msg("failed to store base config")
		http.Error(w, "failed to store base config", http.StatusInternalServerError)
		return
	}
	encode(w, r, adapters.MapBaseConfigDomainToApi(cfg))
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resourceType := r.URL.Query().Get("resource_type")
	if resourceType == "" {
		http.Error(w, "resource_type is required", http.StatusBadRequest)
		return
	}

	groups, err := h.store.ListGroups(ctx, resourceType)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("resource_type", resourceType).Msg("failed to list groups")
		http.Error(w, "failed to list groups", http.StatusInternalServerError)
		return
	}

	response := make([]api.ResourceGroup, 0, len(groups))
	for _, group := range groups {
		response = append(response, adapters.MapResourceGroupDomainToApi(group))
	}
	encode(w, r, response)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "group")

	group, err := h.store.GetGroup(ctx, groupID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("group", groupID).Msg("failed to get group")
		http.Error(w, "failed to get group", http.StatusInternalServerError)
		return
	}
	if group == nil {
		http.Error(w, "group not found", http.StatusNotFound)
		return
	}
	encode(w, r, adapters.MapResourceGroupDomainToApi(*group))
}

func (h *Handler) PutGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.ResourceGroup
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.GroupID == "" || body.ResourceType == "" {
		http.Error(w, "group_id and resource_type are required", http.StatusBadRequest)
		return
	}

	group := adapters.MapResourceGroupApiToDomain(body)
	if err := h.store.PutGroup(ctx, &group); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("group", body.GroupID).Msg("failed to store group")
		http.Error(w, "failed to store group", http.StatusInternalServerError)
		return
	}
	encode(w, r, adapters.MapResourceGroupDomainToApi(group))
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "group")

	if err := h.store.DeleteGroup(ctx, groupID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("group", groupID).Msg("failed to delete group")
		http.Error(w, "failed to delete group", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetResolutions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	arn := r.URL.Query().Get("resource_arn")
	if arn == "" {
		http.Error(w, "resource_arn is required", http.StatusBadRequest)
		return
	}

	resolutions, err := h.store.GetResolutions(ctx, arn)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("arn", arn).Msg("failed to get resolutions")
		http.Error(w, "failed to get resolutions", http.StatusInternalServerError)
		return
	}
	encode(w, r, api.Resolutions{ResourceARN: arn, Resolutions: resolutions})
}

func (h *Handler) PutResolutions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.Resolutions
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.ResourceARN == "" {
		http.Error(w, "resource_arn is required", http.StatusBadRequest)
		return
	}

	if err := h.store.PutResolutions(ctx, body.ResourceARN, body.Resolutions); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("arn", body.ResourceARN).Msg("failed to store resolutions")
		http.Error(w, "failed to store resolutions", http.StatusInternalServerError)
		return
	}
	encode(w, r, body)
}

func encode(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
