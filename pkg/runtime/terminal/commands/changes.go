package commands

import (
	"github.com/de-tools/stat-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/spf13/cobra"
)

func NewChangesCmd(service dataset.Service, reporter *export.Reporter) *cobra.Command {
	var metric string
	cmd := &cobra.Command{
		Use:   "changes <dataset>",
		Short: "Print period-over-period changes of a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := service.Changes(cmd.Context(), args[0], metric)
			if err != nil {
				return err
			}
			return reporter.Changes(report)
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "", "Metric to analyze (the forecast metric when empty)")
	return cmd
}

func NewSummaryCmd(service dataset.Service, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <dataset>",
		Short: "Print per-metric statistics of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := service.Summary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return reporter.Summary(report)
		},
	}
}
