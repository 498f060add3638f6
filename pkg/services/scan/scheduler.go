package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/services/config"
)

const defaultScanInterval = 6 * time.Hour

type runner interface {
	Run(ctx context.Context, tenant domain.Tenant, opts Options) (*domain.ScanReport, error)
}

type schedule struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler runs recurring scans per tenant. Each scheduled tenant gets its
// own goroutine that scans immediately and then on every interval tick until
// cancelled.
type Scheduler struct {
	runner   runner
	registry config.Registry
	interval time.Duration

	mu        sync.Mutex
	schedules map[string]*schedule
}

func NewScheduler(runner runner, registry config.Registry, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultScanInterval
	}
	return &Scheduler{
		runner:    runner,
		registry:  registry,
		interval:  interval,
		schedules: make(map[string]*schedule),
	}
}

// Start schedules recurring scans for a tenant. The schedule outlives the
// caller's request; only Cancel or Shutdown stops it.
func (s *Scheduler) Start(ctx context.Context, tenantID string) error {
	tenant, err := s.registry.GetTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("resolving tenant %s: %w", tenantID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[tenantID]; ok {
		return fmt.Errorf("tenant %s is already scheduled", tenantID)
	}

	runCtx, cancel := context.WithCancel(zerolog.Ctx(ctx).WithContext(context.Background()))
	sched := &schedule{cancel: cancel, done: make(chan struct{})}
	s.schedules[tenantID] = sched

	go s.loop(runCtx, *tenant, sched)
	return nil
}

// Cancel stops the tenant's recurring scans and waits for the in-flight run
// to wind down.
func (s *Scheduler) Cancel(_ context.Context, tenantID string) error {
	s.mu.Lock()
	sched, ok := s.schedules[tenantID]
	if ok {
		delete(s.schedules, tenantID)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("tenant %s is not scheduled", tenantID)
	}
	sched.cancel()
	<-sched.done
	return nil
}

// Shutdown cancels every schedule and waits for them to finish.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	schedules := s.schedules
	s.schedules = make(map[string]*schedule)
	s.mu.Unlock()

	for _, sched := range schedules {
		sched.cancel()
	}
	for _, sched := range schedules {
		<-sched.done
	}
}

func (s *Scheduler) loop(ctx context.Context, tenant domain.Tenant, sched *schedule) {
	defer close(sched.done)
	logger := zerolog.Ctx(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		report, err := s.runner.Run(ctx, tenant, Options{})
		if err != nil {
			logger.Error().Err(err).Str("tenant", tenant.ID).Msg("scheduled scan failed")
		} else {
			logger.Info().
				Str("tenant", tenant.ID).
				Str("scan_id", report.ScanID).
				Int("findings", report.Totals.Findings).
				Msg("scheduled scan finished")
		}

		select {
		case <-ctx.Done():
			logger.Info().Str("tenant", tenant.ID).Msg("scan schedule stopped")
			return
		case <-ticker.C:
		}
	}
}
