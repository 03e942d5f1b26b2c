package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/stat-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/stat-atlas/pkg/runtime/terminal"
	"github.com/de-tools/stat-atlas/pkg/services/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.LoadSettings(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if err != nil {
		return err
	}

	logger := bootstrap.Logger(os.Stderr, settings)
	ctx := logger.WithContext(context.Background())

	app, err := bootstrap.New(ctx, settings)
	if err != nil {
		return err
	}
	defer app.Close()

	cli := terminal.NewCLI(terminal.Options{
		Service:  app.Service,
		Importer: app.Importer,
		Output:   os.Stdout,
	})
	return cli.Execute(ctx)
}
