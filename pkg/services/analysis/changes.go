// Package analysis derives period-over-period statistics and rollups from the
// historical portion of a series. All functions are pure.
package analysis

import (
	"fmt"
	"math"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
)

// Changes returns the delta of each record against the previous one, rounded
// to one decimal. The first element is always 0.
func Changes(series domain.TimeSeries, metric string) []float64 {
	values := timeseries.Values(series, metric)
	deltas := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		deltas[i] = timeseries.Round(values[i]-values[i-1], 1)
	}
	return deltas
}

// PercentChanges returns (delta / previous) * 100 per record, 0 at index 0.
// A zero previous value yields ±Inf or NaN; callers decide how to show it.
func PercentChanges(series domain.TimeSeries, metric string) []float64 {
	values := timeseries.Values(series, metric)
	changes := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		changes[i] = (values[i] - values[i-1]) / values[i-1] * 100
	}
	return changes
}

// Extrema returns the largest and smallest delta, ignoring the index 0 sentinel.
func Extrema(deltas []float64) (maxDelta, minDelta float64, err error) {
	if len(deltas) < 2 {
		return 0, 0, fmt.Errorf("%w: extrema need at least 2 records, got %d", domain.ErrEmptyInput, len(deltas))
	}

	maxDelta, minDelta = deltas[1], deltas[1]
	for _, d := range deltas[2:] {
		maxDelta = math.Max(maxDelta, d)
		minDelta = math.Min(minDelta, d)
	}
	return maxDelta, minDelta, nil
}

// MaxAbsPercentChange is the largest absolute percentage change between
// neighbouring records across all given metrics.
func MaxAbsPercentChange(series domain.TimeSeries, metrics ...string) (float64, error) {
	if series.Len() < 2 {
		return 0, fmt.Errorf("%w: percent change needs at least 2 records, got %d", domain.ErrEmptyInput, series.Len())
	}
	if len(metrics) == 0 {
		return 0, fmt.Errorf("%w: no metrics given", domain.ErrInvalidParameter)
	}

	maxChange := math.Inf(-1)
	for _, metric := range metrics {
		for _, change := range PercentChanges(series, metric)[1:] {
			maxChange = math.Max(maxChange, math.Abs(change))
		}
	}
	return maxChange, nil
}
