package bootstrap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/stat-atlas/pkg/services/config"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inflationJSON = `[
  {"year": 2019, "inflationRate": 11.4},
  {"year": 2020, "inflationRate": 12.9},
  {"year": 2021, "inflationRate": 5.4}
]`

const catalogINI = `
[inflation]
title = Inflation
file = inflation.json
period_field = year
metrics = inflationRate
strategy = moving_average
strategy_metric = inflationRate
default_horizon = 1
`

func setupSettings(t *testing.T) *config.Settings {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inflation.json"), []byte(inflationJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "datasets.ini"), []byte(catalogINI), 0o644))

	return &config.Settings{
		Storage: config.StorageSettings{DataDir: dir},
		Catalog: filepath.Join(dir, "datasets.ini"),
		Seed:    1,
	}
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestNew_FileSource(t *testing.T) {
	ctx := testContext(t)
	app, err := New(ctx, setupSettings(t))
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Importer)

	series, err := app.Service.Series(ctx, "inflation")
	require.NoError(t, err)
	assert.Len(t, series.Records, 3)
}

func TestNew_EmbeddedStore(t *testing.T) {
	ctx := testContext(t)
	settings := setupSettings(t)
	settings.Storage.DbPath = filepath.Join(t.TempDir(), "atlas.db")

	app, err := New(ctx, settings)
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.Importer)

	series, err := app.Service.Series(ctx, "inflation")
	require.NoError(t, err)
	assert.Empty(t, series.Records, "nothing is served before the first import")

	results, err := app.Importer.ImportAll(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Records)

	series, err = app.Service.Series(ctx, "inflation")
	require.NoError(t, err)
	assert.Len(t, series.Records, 3)
}

func TestNew_Errors(t *testing.T) {
	ctx := testContext(t)

	settings := setupSettings(t)
	settings.Catalog = filepath.Join(t.TempDir(), "missing.ini")
	_, err := New(ctx, settings)
	assert.ErrorContains(t, err, "catalog")

	settings = setupSettings(t)
	settings.Storage.DataDir = filepath.Join(t.TempDir(), "missing")
	_, err = New(ctx, settings)
	assert.ErrorContains(t, err, "data directory")
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger(&buf, &config.Settings{LogLevel: "warn"})
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = Logger(&buf, &config.Settings{LogLevel: "bogus"})
	logger.Info().Msg("default level")
	assert.Contains(t, buf.String(), "default level")
}

func TestNew_ShippedData(t *testing.T) {
	ctx := testContext(t)
	app, err := New(ctx, &config.Settings{
		Storage: config.StorageSettings{DataDir: filepath.Join("..", "..", "..", "data")},
		Catalog: filepath.Join("..", "..", "..", "data", "datasets.ini"),
		Seed:    7,
	})
	require.NoError(t, err)
	defer app.Close()

	defs, err := app.Service.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 4)

	for _, def := range defs {
		t.Run(def.Name, func(t *testing.T) {
			report, err := app.Service.Forecast(ctx, def.Name, dataset.Request{})
			require.NoError(t, err)
			assert.NotEmpty(t, report.Combined.Forecast())
		})
	}
}
