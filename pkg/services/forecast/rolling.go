package forecast

import (
	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
)

// Difference is a metric derived as Minuend - Subtrahend after forecasting.
type Difference struct {
	Name       string
	Minuend    string
	Subtrahend string
}

// RollingAverage averages each metric over a sliding window seeded from the
// history tail. Every emitted point enters the window for the next step, so
// later points depend on earlier forecasts. Values are rounded to integers and
// derived metrics are recomputed from the rounded values.
type RollingAverage struct {
	// Metrics to average; empty means every schema metric not listed in Derived.
	Metrics []string
	Derived []Difference
}

func (r RollingAverage) Kind() Kind {
	return KindRollingAverage
}

func (r RollingAverage) Forecast(
	history domain.TimeSeries,
	params Params,
	_ RandomSource,
) ([]domain.ForecastPoint, error) {
	if err := params.validate(true); err != nil {
		return nil, err
	}
	if history.Len() == 0 || params.WindowSize > history.Len() {
		return []domain.ForecastPoint{}, nil
	}

	metrics := r.averagedMetrics(history.Metrics)
	w := newWindow(timeseries.Tail(history, params.WindowSize))

	emitted := make([]map[string]float64, 0, params.Horizon)
	for range params.Horizon {
		next := make(map[string]float64, len(metrics)+len(r.Derived))
		for _, m := range metrics {
			next[m] = timeseries.Round(w.mean(m), 0)
		}
		for _, d := range r.Derived {
			next[d.Name] = next[d.Minuend] - next[d.Subtrahend]
		}
		emitted = append(emitted, next)
		w = w.slide(next)
	}

	return continuation(history, params.Horizon, func(k int) map[string]float64 {
		return emitted[k-1]
	}), nil
}

func (r RollingAverage) averagedMetrics(schema []string) []string {
	if len(r.Metrics) > 0 {
		return r.Metrics
	}
	derived := make(map[string]struct{}, len(r.Derived))
	for _, d := range r.Derived {
		derived[d.Name] = struct{}{}
	}
	metrics := make([]string, 0, len(schema))
	for _, m := range schema {
		if _, ok := derived[m]; !ok {
			metrics = append(metrics, m)
		}
	}
	return metrics
}

// window is a fixed-capacity queue of metric values. slide returns a new
// window and leaves the receiver untouched.
type window struct {
	entries []map[string]float64
}

func newWindow(records []domain.Record) window {
	entries := make([]map[string]float64, len(records))
	for i, r := range records {
		entries[i] = r.Metrics
	}
	return window{entries: entries}
}

func (w window) mean(metric string) float64 {
	values := make([]float64, len(w.entries))
	for i, e := range w.entries {
		values[i] = e[metric]
	}
	return mean(values)
}

func (w window) slide(entry map[string]float64) window {
	entries := make([]map[string]float64, 0, len(w.entries))
	entries = append(entries, w.entries[1:]...)
	entries = append(entries, entry)
	return window{entries: entries}
}
