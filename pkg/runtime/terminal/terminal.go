package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/stat-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/stat-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/de-tools/stat-atlas/pkg/services/ingest"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	service  dataset.Service
	importer ingest.Controller
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI. Importer is optional.
type Options struct {
	Service  dataset.Service
	Importer ingest.Controller
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		service:  opts.Service,
		importer: opts.Importer,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stat-atlas",
		Short:         "Statistics dashboard analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewDatasetsCmd(cli.service, cli.reporter))
	cmd.AddCommand(commands.NewForecastCmd(cli.service, cli.reporter))
	cmd.AddCommand(commands.NewChangesCmd(cli.service, cli.reporter))
	cmd.AddCommand(commands.NewSummaryCmd(cli.service, cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(cli.service))
	cmd.AddCommand(commands.NewImportCmd(cli.importer))

	return cmd
}
