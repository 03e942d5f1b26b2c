package adapters

import (
	"slices"

	"github.com/de-tools/stat-atlas/pkg/models/api"
	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
)

func MapDefinitionToApi(def dataset.Definition) api.Dataset {
	metrics := def.Metrics
	if metrics == nil {
		metrics = []string{}
	}
	return api.Dataset{
		Name:            def.Name,
		Title:           def.Title,
		Granularity:     string(def.Granularity),
		Metrics:         slices.Clone(metrics),
		ForecastMetrics: def.ForecastMetrics(),
		Strategy:        string(def.Strategy.Kind),
		DefaultHorizon:  def.DefaultHorizon,
		DefaultWindow:   def.DefaultWindow,
		Horizons:        slices.Clone(def.Horizons),
		Compound:        def.Compound,
	}
}

func MapForecastReportDomainToApi(report *domain.ForecastReport, def dataset.Definition) api.ForecastResponse {
	res := api.ForecastResponse{
		Dataset:    report.Dataset,
		Title:      report.Title,
		Strategy:   report.Strategy,
		Horizon:    report.Horizon,
		WindowSize: report.WindowSize,
		Points:     make([]api.Point, 0, len(report.Combined)),
		Table:      TableRows(report.Combined, report.Changes),
		Charts:     make([]api.ChartSeries, 0),
	}
	if report.FuturePrice != nil {
		res.FuturePrice = Number(*report.FuturePrice)
	}

	for _, p := range report.Combined {
		res.Points = append(res.Points, api.Point{
			Period:     MapPeriodDomainToApi(p.Period),
			Values:     MapMetricsDomainToApi(p.Metrics),
			IsForecast: p.IsForecast,
		})
	}

	for _, metric := range def.ForecastMetrics() {
		chart := ChartSeries(report.Combined, metric, def.Anchor)
		res.Charts = append(res.Charts, WithTrend(chart, report.Combined, report.WindowSize))
	}
	return res
}

func MapChangeReportDomainToApi(report *domain.ChangeReport) api.ChangesResponse {
	return api.ChangesResponse{
		Dataset:        report.Dataset,
		Metric:         report.Metric,
		Periods:        MapPeriodsDomainToApi(report.Periods),
		Deltas:         Numbers(report.Deltas),
		PercentChanges: Numbers(report.PercentChanges),
		MaxDelta:       Number(report.MaxDelta),
		MinDelta:       Number(report.MinDelta),
	}
}

func MapSummaryReportDomainToApi(report *domain.SummaryReport) api.SummaryResponse {
	res := api.SummaryResponse{
		Dataset:     report.Dataset,
		Title:       report.Title,
		Granularity: string(report.Granularity),
		First:       MapPeriodDomainToApi(report.First),
		Last:        MapPeriodDomainToApi(report.Last),
		Records:     report.Records,
		Metrics:     make([]api.MetricSummary, 0, len(report.Metrics)),
	}

	for _, m := range report.Metrics {
		res.Metrics = append(res.Metrics, api.MetricSummary{
			Metric: m.Metric,
			Count:  m.Count,
			Min:    Number(m.Min),
			Max:    Number(m.Max),
			Mean:   Number(m.Mean),
			Total:  Number(m.Total),
		})
	}
	if report.WeekendSums != nil {
		res.WeekendSums = MapMetricsDomainToApi(report.WeekendSums)
	}
	if report.MaxAbsPercentChange != nil {
		res.MaxAbsPercentChange = Number(*report.MaxAbsPercentChange)
	}
	return res
}
