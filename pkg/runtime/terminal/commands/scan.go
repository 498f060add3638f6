package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/manuvikash/Thanos/pkg/models/domain"
	"github.com/manuvikash/Thanos/pkg/runtime/terminal/export"
	"github.com/manuvikash/Thanos/pkg/services/config"
	"github.com/manuvikash/Thanos/pkg/services/rules"
	scansvc "github.com/manuvikash/Thanos/pkg/services/scan"
)

// Runner executes a scan for one tenant.
type Runner interface {
	Run(ctx context.Context, tenant domain.Tenant, opts scansvc.Options) (*domain.ScanReport, error)
}

type ScanCmd struct {
	tenantID string
	timeout  int
	rulesDir string
	registry config.Registry
	runner   Runner
	reporter *export.Reporter
}

func NewScanCmd(registry config.Registry, runner Runner, reporter *export.Reporter) *cobra.Command {
	sc := &ScanCmd{registry: registry, runner: runner, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a tenant account for configuration drift",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.tenantID, "tenant", "", "Tenant to scan")
	cmd.Flags().IntVar(&sc.timeout, "timeout", 300, "Scan timeout in seconds")
	cmd.Flags().StringVar(&sc.rulesDir, "rules", "", "Directory of YAML rule packs; runs rule checks instead of hierarchical evaluation")

	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func (sc *ScanCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(sc.timeout)*time.Second)
	defer cancel()

	tenant, err := sc.registry.GetTenant(ctx, sc.tenantID)
	if err != nil {
		return fmt.Errorf("failed to resolve tenant %s: %w", sc.tenantID, err)
	}

	var opts scansvc.Options
	if sc.rulesDir != "" {
		opts.Rules, err = rules.LoadDir(sc.rulesDir)
		if err != nil {
			return fmt.Errorf("failed to load rule packs: %w", err)
		}
	}

	report, err := sc.runner.Run(ctx, *tenant, opts)
	if err != nil {
		return fmt.Errorf("scan failed for tenant %s: %w", sc.tenantID, err)
	}

	return sc.reporter.Handle(report)
}
