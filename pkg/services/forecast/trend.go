package forecast

import (
	"math"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
)

const (
	DefaultCeiling        = 45.0
	DefaultSaturationRate = 0.3
	minTrendHistory       = 3
)

// SaturatingTrend fits an ordinary least-squares line over the record index and
// extrapolates it. Points above Ceiling approach it exponentially from the last
// observed value instead. Uniform noise within the residual standard deviation
// is added to each point, then the value is capped at Ceiling and rounded to
// one decimal.
type SaturatingTrend struct {
	Metric         string
	Ceiling        float64
	SaturationRate float64
}

// NewSaturatingTrend uses DefaultCeiling and DefaultSaturationRate.
func NewSaturatingTrend(metric string) SaturatingTrend {
	return SaturatingTrend{
		Metric:         metric,
		Ceiling:        DefaultCeiling,
		SaturationRate: DefaultSaturationRate,
	}
}

func (s SaturatingTrend) Kind() Kind {
	return KindSaturatingTrend
}

func (s SaturatingTrend) Forecast(
	history domain.TimeSeries,
	params Params,
	rnd RandomSource,
) ([]domain.ForecastPoint, error) {
	if err := params.validate(false); err != nil {
		return nil, err
	}
	if err := requireSource(rnd); err != nil {
		return nil, err
	}
	if history.Len() < minTrendHistory {
		return []domain.ForecastPoint{}, nil
	}

	ceiling, rate := s.Ceiling, s.SaturationRate

	values := timeseries.Values(history, s.Metric)
	n := len(values)
	fit := fitLine(values)
	last := values[n-1]

	return continuation(history, params.Horizon, func(k int) map[string]float64 {
		i := k - 1
		raw := fit.intercept + fit.slope*float64(n+i)
		if raw > ceiling {
			raw = last + (ceiling-last)*(1-math.Exp(-rate*float64(i+1)))
		}
		value := math.Min(raw+uniform(rnd, -fit.stdError, fit.stdError), ceiling)
		return map[string]float64{s.Metric: timeseries.Round(value, 1)}
	}), nil
}

type lineFit struct {
	intercept float64
	slope     float64
	stdError  float64
}

// fitLine regresses values on their index 0..n-1. stdError is the root mean
// squared residual.
func fitLine(values []float64) lineFit {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	slope := 0.0
	if denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / n

	sumSq := 0.0
	for i, y := range values {
		residual := y - (intercept + slope*float64(i))
		sumSq += residual * residual
	}

	return lineFit{
		intercept: intercept,
		slope:     slope,
		stdError:  math.Sqrt(sumSq / n),
	}
}
