package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manuvikash/Thanos/pkg/services/config"
)

type TenantsCmd struct {
	registry config.Registry
}

func NewTenantsCmd(registry config.Registry) *cobra.Command {
	tc := &TenantsCmd{registry: registry}
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List tenants configured in the profiles file",
		RunE:  tc.run,
	}

	return cmd
}

func (tc *TenantsCmd) run(cmd *cobra.Command, args []string) error {
	tenants, err := tc.registry.GetTenants(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	if len(tenants) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tenants configured")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tenants, "\n"))
	return nil
}
