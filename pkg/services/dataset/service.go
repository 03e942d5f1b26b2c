package dataset

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/models/store"
	"github.com/de-tools/stat-atlas/pkg/services/analysis"
	"github.com/de-tools/stat-atlas/pkg/services/forecast"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
	"github.com/rs/zerolog"
)

// Source loads the raw records of a dataset.
type Source interface {
	Load(ctx context.Context, ref store.DatasetRef) ([]store.SeriesRecord, error)
}

// Request holds the caller's forecast parameters. Zero values fall back to
// the dataset defaults.
type Request struct {
	Horizon      int
	WindowSize   int
	InitialPrice float64
}

type Service interface {
	ListDatasets(ctx context.Context) ([]Definition, error)
	Dataset(ctx context.Context, name string) (Definition, error)
	Series(ctx context.Context, name string) (domain.TimeSeries, error)
	Forecast(ctx context.Context, name string, req Request) (*domain.ForecastReport, error)
	Changes(ctx context.Context, name string, metric string) (*domain.ChangeReport, error)
	Summary(ctx context.Context, name string) (*domain.SummaryReport, error)
}

type Config struct {
	// Seed makes every forecast reproducible. Zero draws a fresh seed per call.
	Seed uint64
}

type defaultService struct {
	catalog  *Catalog
	source   Source
	registry forecast.Registry
	config   Config
}

func NewService(catalog *Catalog, source Source, registry forecast.Registry, config Config) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if source == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if registry == nil {
		registry = forecast.DefaultRegistry()
	}

	for _, def := range catalog.List() {
		if _, err := registry.Create(def.Strategy); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", def.Name, err)
		}
	}

	return &defaultService{
		catalog:  catalog,
		source:   source,
		registry: registry,
		config:   config,
	}, nil
}

func (s *defaultService) ListDatasets(_ context.Context) ([]Definition, error) {
	return s.catalog.List(), nil
}

func (s *defaultService) Dataset(_ context.Context, name string) (Definition, error) {
	return s.catalog.Get(name)
}

func (s *defaultService) Series(ctx context.Context, name string) (domain.TimeSeries, error) {
	def, err := s.catalog.Get(name)
	if err != nil {
		return domain.TimeSeries{}, err
	}
	return s.load(ctx, def)
}

func (s *defaultService) Forecast(ctx context.Context, name string, req Request) (*domain.ForecastReport, error) {
	def, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	params, err := resolveParams(def, req)
	if err != nil {
		return nil, err
	}

	series, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}

	strategy, err := s.registry.Create(def.Strategy)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", def.Name, err)
	}

	logger := zerolog.Ctx(ctx).With().
		Str("dataset", def.Name).
		Str("strategy", string(strategy.Kind())).
		Int("horizon", params.Horizon).
		Int("window", params.WindowSize).
		Logger()

	points, err := strategy.Forecast(series, params, forecast.NewRandomSource(s.config.Seed))
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", def.Name, err)
	}
	if len(points) == 0 {
		logger.Warn().Int("records", series.Len()).Msg("history too short, forecast is empty")
	}

	combined, err := forecast.Combine(series, points)
	if err != nil {
		return nil, fmt.Errorf("combine %s: %w", def.Name, err)
	}

	report := &domain.ForecastReport{
		Dataset:    def.Name,
		Title:      def.Title,
		Strategy:   string(strategy.Kind()),
		Horizon:    params.Horizon,
		WindowSize: params.WindowSize,
		Combined:   combined,
		Changes:    make(map[string][]float64, len(series.Metrics)),
	}
	for _, metric := range series.Metrics {
		report.Changes[metric] = analysis.Changes(series, metric)
	}

	if def.Compound && req.InitialPrice != 0 {
		price, err := futurePrice(def, req.InitialPrice, points)
		if err != nil {
			return nil, err
		}
		report.FuturePrice = &price
	}

	logger.Debug().Int("points", len(points)).Msg("forecast computed")
	return report, nil
}

func (s *defaultService) Changes(ctx context.Context, name string, metric string) (*domain.ChangeReport, error) {
	def, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	series, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}

	if metric == "" {
		metric = defaultMetric(def, series)
	}
	if !timeseries.HasMetric(series, metric) {
		return nil, fmt.Errorf("%w: dataset %s has no metric %q", domain.ErrInvalidParameter, def.Name, metric)
	}

	deltas := analysis.Changes(series, metric)
	maxDelta, minDelta, err := analysis.Extrema(deltas)
	if err != nil {
		return nil, fmt.Errorf("changes %s: %w", def.Name, err)
	}

	periods := make([]domain.Period, series.Len())
	for i, r := range series.Records {
		periods[i] = r.Period
	}

	return &domain.ChangeReport{
		Dataset:        def.Name,
		Metric:         metric,
		Periods:        periods,
		Deltas:         deltas,
		PercentChanges: analysis.PercentChanges(series, metric),
		MaxDelta:       maxDelta,
		MinDelta:       minDelta,
	}, nil
}

func (s *defaultService) Summary(ctx context.Context, name string) (*domain.SummaryReport, error) {
	def, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	series, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}
	if series.IsEmpty() {
		return nil, fmt.Errorf("%w: dataset %s has no records", domain.ErrEmptyInput, def.Name)
	}

	report := &domain.SummaryReport{
		Dataset:     def.Name,
		Title:       def.Title,
		Granularity: series.Granularity,
		First:       series.Records[0].Period,
		Last:        series.Records[series.Len()-1].Period,
		Records:     series.Len(),
		Metrics:     make([]domain.MetricSummary, 0, len(series.Metrics)),
	}

	for _, metric := range series.Metrics {
		summary, err := analysis.Summary(series, metric)
		if err != nil {
			return nil, fmt.Errorf("summary %s: %w", def.Name, err)
		}
		report.Metrics = append(report.Metrics, summary)
	}

	if series.Granularity == domain.GranularityDay {
		report.WeekendSums = make(map[string]float64, len(series.Metrics))
		for _, metric := range series.Metrics {
			sum, err := analysis.WeekendSum(series, metric)
			if err != nil {
				return nil, fmt.Errorf("weekend sum %s: %w", def.Name, err)
			}
			report.WeekendSums[metric] = sum
		}
	}

	change, err := analysis.MaxAbsPercentChange(series, def.PrimaryMetrics(series.Metrics)...)
	switch {
	case err == nil:
		report.MaxAbsPercentChange = &change
	case errors.Is(err, domain.ErrEmptyInput):
	default:
		return nil, fmt.Errorf("summary %s: %w", def.Name, err)
	}

	return report, nil
}

func (s *defaultService) load(ctx context.Context, def Definition) (domain.TimeSeries, error) {
	raw, err := s.source.Load(ctx, def.Ref())
	if err != nil {
		return domain.TimeSeries{}, fmt.Errorf("load %s: %w", def.Name, err)
	}

	rows := make([]timeseries.Row, 0, len(raw))
	for _, r := range raw {
		period, err := domain.ParsePeriod(def.Granularity, r.Period)
		if err != nil {
			// A malformed stored period is an internal error, not an invalid parameter.
			return domain.TimeSeries{}, fmt.Errorf("load %s: record %q: %v", def.Name, r.Period, err)
		}
		rows = append(rows, timeseries.Row{Period: period, Metrics: r.Metrics})
	}

	metrics := def.Metrics
	if len(metrics) == 0 {
		metrics = inferMetrics(raw)
	}

	zerolog.Ctx(ctx).Debug().Str("dataset", def.Name).Int("records", len(rows)).Msg("series loaded")
	return timeseries.New(def.Name, def.Granularity, metrics, rows), nil
}

func resolveParams(def Definition, req Request) (forecast.Params, error) {
	params := forecast.Params{Horizon: req.Horizon, WindowSize: req.WindowSize}
	if params.Horizon == 0 {
		params.Horizon = def.DefaultHorizon
	}
	if params.Horizon == 0 {
		params.Horizon = 1
	}
	if params.WindowSize == 0 {
		params.WindowSize = def.DefaultWindow
	}
	if params.WindowSize == 0 {
		params.WindowSize = forecast.DefaultWindowSize
	}

	if len(def.Horizons) > 0 && !slices.Contains(def.Horizons, params.Horizon) {
		return forecast.Params{}, fmt.Errorf("%w: horizon %d is not one of %v for %s",
			domain.ErrInvalidParameter, params.Horizon, def.Horizons, def.Name)
	}
	return params, nil
}

func futurePrice(def Definition, initialPrice float64, points []domain.ForecastPoint) (float64, error) {
	metric := def.Strategy.Metric
	if metric == "" {
		return 0, fmt.Errorf("dataset %s: compounding needs a single forecast metric", def.Name)
	}

	rates := make([]float64, len(points))
	for i, p := range points {
		rates[i] = p.Value(metric)
	}

	price, err := analysis.FuturePrice(initialPrice, rates)
	if err != nil {
		return 0, fmt.Errorf("future price %s: %w", def.Name, err)
	}
	return price, nil
}

func defaultMetric(def Definition, series domain.TimeSeries) string {
	if def.Strategy.Metric != "" {
		return def.Strategy.Metric
	}
	if len(series.Metrics) > 0 {
		return series.Metrics[0]
	}
	return ""
}

func inferMetrics(raw []store.SeriesRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range raw {
		for metric := range r.Metrics {
			seen[metric] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
