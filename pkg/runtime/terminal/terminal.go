package terminal

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/manuvikash/Thanos/pkg/runtime/terminal/commands"
	"github.com/manuvikash/Thanos/pkg/runtime/terminal/export"
	"github.com/manuvikash/Thanos/pkg/services/config"
)

// CLI represents the command-line interface
type CLI struct {
	registry config.Registry
	runner   commands.Runner
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry config.Registry
	Runner   commands.Runner
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		registry: opts.Registry,
		runner:   opts.Runner,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx flowing into every command, so the
// context logger reaches the scan pipeline.
func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thanos",
		Short: "Cloud configuration drift scanner",
	}

	cmd.AddCommand(commands.NewScanCmd(cli.registry, cli.runner, cli.reporter))
	cmd.AddCommand(commands.NewTenantsCmd(cli.registry))

	return cmd
}
