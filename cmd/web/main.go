package main

import (
	"fmt"
	"os"

	"github.com/de-tools/stat-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/stat-atlas/pkg/server"
	"github.com/de-tools/stat-atlas/pkg/services/config"
	"github.com/de-tools/stat-atlas/pkg/services/ingest"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Stat Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the settings file (defaults and STAT_ATLAS_* environment when empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return err
	}

	logger := bootstrap.Logger(os.Stdout, settings)
	ctx := logger.WithContext(cmd.Context())

	app, err := bootstrap.New(ctx, settings)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Importer != nil {
		// Serve nothing stale: the first import completes before listening.
		if _, err := app.Importer.ImportAll(ctx); err != nil {
			logger.Warn().Err(err).Msg("initial import finished with errors")
		}

		if settings.Storage.RefreshInterval > 0 {
			stop := ingest.Start(ctx, app.Importer, ingest.RunnerConfig{
				Interval:    settings.Storage.RefreshInterval,
				SkipInitial: true,
			})
			// Deferred after app.Close, so it runs first.
			defer stop()
		}
	}

	webAPI := server.NewWebAPI(server.Config{
		Addr: settings.Server.Addr(),
		Dependencies: server.Dependencies{
			Datasets: app.Service,
			Logger:   logger,
		},
	})

	return webAPI.Start()
}
