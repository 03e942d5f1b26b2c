package adapters

import (
	"github.com/de-tools/stat-atlas/pkg/models/api"
	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
)

// ChartSeries lays one metric of a combined series out as two aligned lines.
// With anchor set the forecast line also starts at the last observed point so
// the two lines join.
func ChartSeries(combined domain.CombinedSeries, metric string, anchor bool) api.ChartSeries {
	chart := api.ChartSeries{
		Metric:     metric,
		Labels:     make([]string, len(combined)),
		Historical: make([]*float64, len(combined)),
		Forecast:   make([]*float64, len(combined)),
	}

	lastObserved := -1
	hasForecast := false
	for i, p := range combined {
		chart.Labels[i] = p.Period.String()
		if p.IsForecast {
			chart.Forecast[i] = Number(p.Value(metric))
			hasForecast = true
			continue
		}
		chart.Historical[i] = Number(p.Value(metric))
		lastObserved = i
	}

	if anchor && hasForecast && lastObserved >= 0 {
		chart.Forecast[lastObserved] = chart.Historical[lastObserved]
	}
	return chart
}

// WithTrend overlays the trailing moving average of the observed values.
// Labels without a full window stay null.
func WithTrend(chart api.ChartSeries, combined domain.CombinedSeries, window int) api.ChartSeries {
	history := domain.TimeSeries{Metrics: []string{chart.Metric}}
	for _, p := range combined.Historical() {
		history.Records = append(history.Records, p.Record)
	}

	averages := timeseries.MovingAverage(history, chart.Metric, window)
	if len(averages) == 0 {
		return chart
	}

	byLabel := make(map[string]float64, len(averages))
	for _, a := range averages {
		byLabel[a.Period.String()] = a.Value
	}

	chart.Trend = make([]*float64, len(chart.Labels))
	for i, label := range chart.Labels {
		if v, ok := byLabel[label]; ok {
			chart.Trend[i] = Number(v)
		}
	}
	return chart
}

// TableRows flattens a combined series into display rows. changes holds the
// per-metric deltas of the observed part, indexed like the observed records.
func TableRows(combined domain.CombinedSeries, changes map[string][]float64) []api.TableRow {
	rows := make([]api.TableRow, 0, len(combined))
	observed := 0
	for _, p := range combined {
		row := api.TableRow{
			Period:     MapPeriodDomainToApi(p.Period),
			Label:      p.Period.String(),
			Values:     MapMetricsDomainToApi(p.Metrics),
			IsForecast: p.IsForecast,
		}
		if !p.IsForecast {
			for metric, deltas := range changes {
				if observed >= len(deltas) {
					continue
				}
				if row.Changes == nil {
					row.Changes = make(map[string]*float64, len(changes))
				}
				row.Changes[metric] = Number(deltas[observed])
			}
			observed++
		}
		rows = append(rows, row)
	}
	return rows
}
