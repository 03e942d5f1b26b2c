package commands

import (
	"github.com/de-tools/stat-atlas/pkg/models/store"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/de-tools/stat-atlas/pkg/store/file"
	"github.com/spf13/cobra"
)

// NewExportCmd prints a dataset in the flat JSON layout of the data files,
// which is handy for dumping what the embedded store currently serves.
func NewExportCmd(service dataset.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dataset>",
		Short: "Print the stored records of a dataset as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := service.Dataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			series, err := service.Series(cmd.Context(), def.Name)
			if err != nil {
				return err
			}

			records := make([]store.SeriesRecord, 0, series.Len())
			for _, r := range series.Records {
				records = append(records, store.SeriesRecord{Period: r.Period.String(), Metrics: r.Metrics})
			}
			return file.Encode(cmd.OutOrStdout(), def.PeriodField, records)
		},
	}
}
