package commands

import (
	"github.com/de-tools/stat-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/spf13/cobra"
)

func NewDatasetsCmd(service dataset.Service, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the available datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := service.ListDatasets(cmd.Context())
			if err != nil {
				return err
			}
			return reporter.Datasets(defs)
		},
	}
}
