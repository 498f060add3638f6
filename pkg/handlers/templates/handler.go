// Package templates exposes the configuration template catalog over HTTP.
package templates

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/adapters"
	"github.com/manuvikash/Thanos/pkg/models/api"
	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/templates"
)

type Handler struct {
	svc *templates.Service
}

func NewHandler(svc *templates.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resourceType := r.URL.Query().Get("resource_type")

	var (
		items []domain.ConfigTemplate
		err   error
	)
	if resourceType == "" {
		items, err = h.svc.List(ctx)
	} else {
		items, err = h.svc.ByResourceType(ctx, resourceType)
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list templates")
		http.Error(w, "failed to list templates", http.StatusInternalServerError)
		return
	}

	response := make([]api.ConfigTemplate, 0, len(items))
	for _, template := range items {
		response = append(response, adapters.MapConfigTemplateDomainToApi(template))
	}
	encode(w, r, response)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templateID := chi.URLParam(r, "template")

	template, err := h.svc.Get(ctx, templateID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("template", templateID).Msg("failed to get template")
		http.Error(w, "failed to get template", http.StatusInternalServerError)
		return
	}
	if template == nil {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	encode(w, r, adapters.MapConfigTemplateDomainToApi(*template))
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body api.ConfigTemplate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	template := adapters.MapConfigTemplateApiToDomain(body)
	created, err := h.svc.Create(ctx, template)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("template", body.TemplateID).Msg("template rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	encode(w, r, adapters.MapConfigTemplateDomainToApi(*created))
}

func encode(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
