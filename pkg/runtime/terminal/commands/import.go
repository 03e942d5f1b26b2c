package commands

import (
	"fmt"

	"github.com/de-tools/stat-atlas/pkg/services/ingest"
	"github.com/spf13/cobra"
)

func NewImportCmd(controller ingest.Controller) *cobra.Command {
	return &cobra.Command{
		Use:   "import [dataset...]",
		Short: "Copy dataset files into the embedded store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if controller == nil {
				return fmt.Errorf("embedded store is not configured, set storage.db_path")
			}

			var (
				results []ingest.Result
				err     error
			)
			if len(args) == 0 {
				results, err = controller.ImportAll(cmd.Context())
			} else {
				for _, name := range args {
					result, importErr := controller.Import(cmd.Context(), name)
					results = append(results, result)
					if importErr != nil && err == nil {
						err = importErr
					}
				}
			}

			out := cmd.OutOrStdout()
			for _, result := range results {
				if result.Err != nil {
					fmt.Fprintf(out, "%s: failed: %v\n", result.Dataset, result.Err)
					continue
				}
				if result.First == "" {
					fmt.Fprintf(out, "%s: %d records\n", result.Dataset, result.Records)
					continue
				}
				fmt.Fprintf(out, "%s: %d records (%s to %s)\n", result.Dataset, result.Records, result.First, result.Last)
			}
			return err
		},
	}
}
