package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/de-tools/stat-atlas/pkg/services/config"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/de-tools/stat-atlas/pkg/services/ingest"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb/imports"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb/records"
	"github.com/de-tools/stat-atlas/pkg/store/file"
	"github.com/rs/zerolog"
)

// App holds the wired services shared by the web and terminal entrypoints.
type App struct {
	Catalog *dataset.Catalog
	Service dataset.Service
	// Importer is nil when no database is configured.
	Importer ingest.Controller

	db *sql.DB
}

// New wires the catalog, the dataset source and the dataset service from
// settings. With a database path the service reads the embedded store,
// otherwise it reads the dataset files directly.
func New(ctx context.Context, settings *config.Settings) (*App, error) {
	logger := zerolog.Ctx(ctx)

	catalog, err := config.LoadCatalog(settings.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset catalog: %w", err)
	}

	files, err := file.NewSource(settings.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	app := &App{Catalog: catalog}
	var source dataset.Source = files

	if settings.Storage.DbPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.Storage.DbPath})
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		app.db = db

		recordStore, err := records.NewStore(db)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to create record store: %w", err)
		}
		importStore, err := imports.NewStore(db)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to create import store: %w", err)
		}

		controller, err := ingest.NewController(db, catalog, files, recordStore, importStore)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to create ingest controller: %w", err)
		}
		app.Importer = controller
		source = records.NewSource(recordStore)

		logger.Debug().Str("db", settings.Storage.DbPath).Msg("serving datasets from the embedded store")
	}

	service, err := dataset.NewService(catalog, source, nil, dataset.Config{Seed: settings.Seed})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to create dataset service: %w", err)
	}
	app.Service = service

	logger.Info().
		Int("datasets", len(catalog.List())).
		Str("catalog", settings.Catalog).
		Msg("dataset catalog loaded")
	return app, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Logger builds the process logger at the configured level.
func Logger(w io.Writer, settings *config.Settings) zerolog.Logger {
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil || settings.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
