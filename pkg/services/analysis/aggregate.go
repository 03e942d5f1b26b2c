package analysis

import (
	"fmt"
	"math"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
	"github.com/shopspring/decimal"
)

// WeekendSum adds up a metric over records falling on Saturday or Sunday.
// Only date-keyed series have weekdays.
func WeekendSum(series domain.TimeSeries, metric string) (float64, error) {
	if series.Granularity != domain.GranularityDay {
		return 0, fmt.Errorf("%w: weekend sum requires a date-keyed series, got %q",
			domain.ErrInvalidParameter, series.Granularity)
	}

	total := 0.0
	for _, r := range series.Records {
		if r.Period.IsWeekend() {
			total += r.Value(metric)
		}
	}
	return total, nil
}

// Summary describes one metric over the whole history.
func Summary(series domain.TimeSeries, metric string) (domain.MetricSummary, error) {
	if series.IsEmpty() {
		return domain.MetricSummary{}, fmt.Errorf("%w: summary of %q over an empty series", domain.ErrEmptyInput, metric)
	}

	values := timeseries.Values(series, metric)
	summary := domain.MetricSummary{
		Metric: metric,
		Count:  len(values),
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
	}
	for _, v := range values {
		summary.Min = math.Min(summary.Min, v)
		summary.Max = math.Max(summary.Max, v)
		summary.Total += v
	}
	summary.Mean = summary.Total / float64(len(values))
	return summary, nil
}

// FuturePrice compounds an initial price through a sequence of yearly
// percentage rates and rounds to two decimals.
func FuturePrice(initialPrice float64, rates []float64) (float64, error) {
	if initialPrice <= 0 {
		return 0, fmt.Errorf("%w: initial price must be positive, got %v", domain.ErrInvalidParameter, initialPrice)
	}

	hundred := decimal.NewFromInt(100)
	price := decimal.NewFromFloat(initialPrice)
	for _, rate := range rates {
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return 0, fmt.Errorf("%w: rate must be finite, got %v", domain.ErrInvalidParameter, rate)
		}
		price = price.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate).Div(hundred)))
	}
	return price.Round(2).InexactFloat64(), nil
}
