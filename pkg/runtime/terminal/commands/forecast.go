package commands

import (
	"fmt"

	"github.com/de-tools/stat-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/de-tools/stat-atlas/pkg/services/forecast"
	"github.com/spf13/cobra"
)

type ForecastCmd struct {
	horizon  int
	window   int
	price    float64
	strict   bool
	service  dataset.Service
	reporter *export.Reporter
}

func NewForecastCmd(service dataset.Service, reporter *export.Reporter) *cobra.Command {
	fc := &ForecastCmd{service: service, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "forecast <dataset>",
		Short: "Forecast a dataset and print history with its continuation",
		Args:  cobra.ExactArgs(1),
		RunE:  fc.run,
	}

	cmd.Flags().IntVar(&fc.horizon, "horizon", 0, "Number of periods to forecast (dataset default when 0)")
	cmd.Flags().IntVar(&fc.window, "window", 0, "Moving average window (dataset default when 0)")
	cmd.Flags().Float64Var(&fc.price, "price", 0, "Initial price for the compound price calculator")
	cmd.Flags().BoolVar(&fc.strict, "strict", false, "Fail when the history is too short to forecast")

	return cmd
}

func (fc *ForecastCmd) run(cmd *cobra.Command, args []string) error {
	if fc.horizon < 0 || fc.window < 0 || fc.price < 0 {
		return fmt.Errorf("horizon, window and price must not be negative")
	}

	report, err := fc.service.Forecast(cmd.Context(), args[0], dataset.Request{
		Horizon:      fc.horizon,
		WindowSize:   fc.window,
		InitialPrice: fc.price,
	})
	if err != nil {
		return err
	}

	if fc.strict {
		if _, err := forecast.Require(report.Combined.Forecast(), nil); err != nil {
			return fmt.Errorf("forecast %s: %w", args[0], err)
		}
	}
	return fc.reporter.Forecast(report)
}
