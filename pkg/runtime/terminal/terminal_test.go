package terminal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/de-tools/stat-atlas/pkg/services/forecast"
	"github.com/de-tools/stat-atlas/pkg/services/ingest"
	"github.com/de-tools/stat-atlas/pkg/store/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const inflationJSON = `[
  {"year": 2014, "inflationRate": 11.4, "comment": "sanctions"},
  {"year": 2015, "inflationRate": 12.9, "comment": "peak"},
  {"year": 2016, "inflationRate": 5.4, "comment": ""},
  {"year": 2017, "inflationRate": 2.5, "comment": ""},
  {"year": 2018, "inflationRate": 4.3, "comment": ""}
]`

type mockImporter struct {
	mock.Mock
}

func (m *mockImporter) Import(ctx context.Context, name string) (ingest.Result, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(ingest.Result), args.Error(1)
}

func (m *mockImporter) ImportAll(ctx context.Context) ([]ingest.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ingest.Result), args.Error(1)
}

func setupService(t *testing.T) dataset.Service {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inflation.json"), []byte(inflationJSON), 0o644))

	source, err := file.NewSource(dir)
	require.NoError(t, err)

	catalog, err := dataset.NewCatalog(dataset.Definition{
		Name:           "inflation",
		Title:          "Inflation",
		File:           "inflation.json",
		PeriodField:    "year",
		Granularity:    domain.GranularityYear,
		Metrics:        []string{"inflationRate"},
		Strategy:       forecast.Settings{Kind: forecast.KindMovingAverage, Metric: "inflationRate", DecayRate: 0.05},
		DefaultHorizon: 3,
		Compound:       true,
	})
	require.NoError(t, err)

	service, err := dataset.NewService(catalog, source, nil, dataset.Config{})
	require.NoError(t, err)
	return service
}

func run(t *testing.T, opts Options, args ...string) (string, error) {
	var out bytes.Buffer
	opts.Output = &out
	cli := NewCLI(opts)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCLI_Datasets(t *testing.T) {
	out, err := run(t, Options{Service: setupService(t)}, "datasets")
	require.NoError(t, err)
	assert.Contains(t, out, "inflation")
	assert.Contains(t, out, "moving_average")
}

func TestCLI_Forecast(t *testing.T) {
	t.Run("prints history and forecast", func(t *testing.T) {
		out, err := run(t, Options{Service: setupService(t)}, "forecast", "inflation", "--price", "100")
		require.NoError(t, err)
		assert.Contains(t, out, "2018")
		assert.Contains(t, out, "2019 *")
		assert.Contains(t, out, "3.86")
		assert.Contains(t, out, "Future price: 111.39")
	})

	t.Run("strict fails on empty forecast", func(t *testing.T) {
		_, err := run(t, Options{Service: setupService(t)}, "forecast", "inflation", "--window", "10", "--strict")
		assert.ErrorIs(t, err, domain.ErrInsufficientHistory)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		_, err := run(t, Options{Service: setupService(t)}, "forecast", "weather")
		assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := run(t, Options{Service: setupService(t)}, "forecast")
		assert.Error(t, err)
	})
}

func TestCLI_ChangesAndSummary(t *testing.T) {
	out, err := run(t, Options{Service: setupService(t)}, "changes", "inflation")
	require.NoError(t, err)
	assert.Contains(t, out, "-7.50")
	assert.Contains(t, out, "Largest increase: 1.80")

	out, err = run(t, Options{Service: setupService(t)}, "summary", "inflation")
	require.NoError(t, err)
	assert.Contains(t, out, "5 records from 2014 to 2018")
	assert.Contains(t, out, "12.90")
}

func TestCLI_Export(t *testing.T) {
	out, err := run(t, Options{Service: setupService(t)}, "export", "inflation")
	require.NoError(t, err)

	ref := dataset.Definition{PeriodField: "year", Metrics: []string{"inflationRate"}}.Ref()
	records, err := file.Decode(strings.NewReader(out), ref)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "2014", records[0].Period)
	assert.Equal(t, 11.4, records[0].Metrics["inflationRate"])
	assert.Equal(t, "2018", records[4].Period)

	_, err = run(t, Options{Service: setupService(t)}, "export", "weather")
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
}

func TestCLI_Import(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := run(t, Options{Service: setupService(t)}, "import")
		assert.Error(t, err)
	})

	t.Run("all datasets", func(t *testing.T) {
		importer := new(mockImporter)
		importer.On("ImportAll", mock.Anything).Return([]ingest.Result{
			{Dataset: "inflation", Records: 5, First: "2014", Last: "2018"},
			{Dataset: "births"},
		}, nil)

		out, err := run(t, Options{Service: setupService(t), Importer: importer}, "import")
		require.NoError(t, err)
		assert.Contains(t, out, "inflation: 5 records (2014 to 2018)")
		assert.Contains(t, out, "births: 0 records\n")
		importer.AssertExpectations(t)
	})

	t.Run("named dataset failure", func(t *testing.T) {
		failure := errors.New("bad json")
		importer := new(mockImporter)
		importer.On("Import", mock.Anything, "inflation").Return(ingest.Result{Dataset: "inflation", Err: failure}, failure)

		out, err := run(t, Options{Service: setupService(t), Importer: importer}, "import", "inflation")
		assert.ErrorIs(t, err, failure)
		assert.Contains(t, out, "inflation: failed: bad json")
		importer.AssertExpectations(t)
	})
}
