package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	configshandler "github.com/manuvikash/Thanos/pkg/handlers/configs"
	findingshandler "github.com/manuvikash/Thanos/pkg/handlers/findings"
	resourceshandler "github.com/manuvikash/Thanos/pkg/handlers/resources"
	scanhandler "github.com/manuvikash/Thanos/pkg/handlers/scan"
	templateshandler "github.com/manuvikash/Thanos/pkg/handlers/templates"
	thanosmiddleware "github.com/manuvikash/Thanos/pkg/server/middleware"
	"github.com/manuvikash/Thanos/pkg/services/config"
	"github.com/manuvikash/Thanos/pkg/services/templates"
	configstore "github.com/manuvikash/Thanos/pkg/store/config"
	"github.com/manuvikash/Thanos/pkg/store/findings"
	"github.com/manuvikash/Thanos/pkg/store/inventory"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Configs   configstore.Store
	Templates *templates.Service
	Inventory inventory.Store
	Findings  findings.Store
	Registry  config.Registry
	Scanner   scanhandler.Runner
	Scheduler scanhandler.Scheduler
	Rules     scanhandler.RuleLoader
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	deps := config.Dependencies
	configsHandler := configshandler.NewHandler(deps.Configs)
	templatesHandler := templateshandler.NewHandler(deps.Templates)
	resourcesHandler := resourceshandler.NewHandler(deps.Inventory)
	findingsHandler := findingshandler.NewHandler(deps.Findings)
	scanHandler := scanhandler.NewHandler(deps.Registry, deps.Scanner, deps.Scheduler, deps.Rules)

	router := chi.NewRouter()

	router.Use(thanosmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/configs", configsHandler.ListBaseConfigs)
		r.Get("/configs/{resourceType}", configsHandler.GetBaseConfig)
		r.Put("/configs/{resourceType}", configsHandler.PutBaseConfig)

		r.Get("/groups", configsHandler.ListGroups)
		r.Post("/groups", configsHandler.PutGroup)
		r.Get("/groups/{group}", configsHandler.GetGroup)
		r.Delete("/groups/{group}", configsHandler.DeleteGroup)

		r.Get("/resolutions", configsHandler.GetResolutions)
		r.Put("/resolutions", configsHandler.PutResolutions)

		r.Get("/templates", templatesHandler.ListTemplates)
		r.Post("/templates", templatesHandler.CreateTemplate)
		r.Get("/templates/{template}", templatesHandler.GetTemplate)

		r.Get("/tenants", scanHandler.ListTenants)
		r.Get("/tenants/{tenant}/resources", resourcesHandler.ListResources)
		r.Get("/tenants/{tenant}/findings", findingsHandler.ListFindings)
		r.Patch("/tenants/{tenant}/findings/{finding}", findingsHandler.UpdateStatus)

		r.Post("/scans", scanHandler.StartScan)
		r.Post("/tenants/{tenant}/schedule", scanHandler.ScheduleScan)
		r.Delete("/tenants/{tenant}/schedule", scanHandler.CancelSchedule)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// Handler exposes the router for tests.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}
