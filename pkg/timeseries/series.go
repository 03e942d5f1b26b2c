// Package timeseries builds ordered time series from raw dataset rows and
// provides read-only accessors used by the analytics and forecasting packages.
package timeseries

import (
	"maps"
	"slices"
	"sort"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/de-tools/stat-atlas/pkg/models/domain"
)

// Row is an unsorted input observation.
type Row struct {
	Period  domain.Period
	Metrics map[string]float64
}

// New sorts rows ascending by period. Rows sharing a period collapse into the
// one that appeared last in the input.
func New(name string, granularity domain.Granularity, metrics []string, rows []Row) domain.TimeSeries {
	ordered := make([]Row, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Period.Before(ordered[j].Period)
	})

	records := make([]domain.Record, 0, len(ordered))
	for _, row := range ordered {
		record := domain.Record{Period: row.Period, Metrics: cloneMetrics(metrics, row.Metrics)}
		if n := len(records); n > 0 && records[n-1].Period.Equal(row.Period) {
			records[n-1] = record
			continue
		}
		records = append(records, record)
	}

	return domain.TimeSeries{
		Name:        name,
		Granularity: granularity,
		Metrics:     slices.Clone(metrics),
		Records:     records,
	}
}

// Values extracts one metric in chronological order.
func Values(s domain.TimeSeries, metric string) []float64 {
	values := make([]float64, len(s.Records))
	for i, r := range s.Records {
		values[i] = r.Value(metric)
	}
	return values
}

// Tail returns the last n records (all of them when n exceeds the length).
func Tail(s domain.TimeSeries, n int) []domain.Record {
	if n <= 0 {
		return []domain.Record{}
	}
	if n > len(s.Records) {
		n = len(s.Records)
	}
	return slices.Clone(s.Records[len(s.Records)-n:])
}

// HasMetric reports whether the series schema declares the metric.
func HasMetric(s domain.TimeSeries, metric string) bool {
	return slices.Contains(s.Metrics, metric)
}

// AveragePoint is one value of a trailing moving average, keyed by the period
// that closes its window.
type AveragePoint struct {
	Period domain.Period
	Value  float64
}

// MovingAverage computes the simple moving average of a metric. The result is
// empty when the window is not positive or exceeds the series length.
func MovingAverage(s domain.TimeSeries, metric string, window int) []AveragePoint {
	if window <= 0 || window > len(s.Records) {
		return []AveragePoint{}
	}

	sma := trend.NewSmaWithPeriod[float64](window)
	averages := helper.ChanToSlice(sma.Compute(helper.SliceToChan(Values(s, metric))))

	// The indicator skips its idle period, so align the output from the end.
	offset := len(s.Records) - len(averages)
	points := make([]AveragePoint, 0, len(averages))
	for i, v := range averages {
		points = append(points, AveragePoint{Period: s.Records[offset+i].Period, Value: v})
	}
	return points
}

func cloneMetrics(schema []string, values map[string]float64) map[string]float64 {
	if len(schema) == 0 {
		return maps.Clone(values)
	}
	out := make(map[string]float64, len(schema))
	for _, m := range schema {
		out[m] = values[m]
	}
	return out
}
