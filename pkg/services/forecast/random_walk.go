package forecast

import (
	"math"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
)

const (
	DefaultLookback   = 30
	DefaultLowFactor  = -0.3
	DefaultHighFactor = 0.7
)

// BoundedRandomWalk draws each point around the mean of the recent range:
// mean + U(LowFactor, HighFactor)*mean, clamped to the range [min, max] of the
// last Lookback records and rounded to one decimal. Metrics other than Metric
// are emitted as zero placeholders.
type BoundedRandomWalk struct {
	Metric string
	// Lookback defaults to DefaultLookback when not positive.
	Lookback   int
	LowFactor  float64
	HighFactor float64
}

// NewBoundedRandomWalk uses the default lookback and the -0.3..0.7 range.
func NewBoundedRandomWalk(metric string) BoundedRandomWalk {
	return BoundedRandomWalk{
		Metric:     metric,
		Lookback:   DefaultLookback,
		LowFactor:  DefaultLowFactor,
		HighFactor: DefaultHighFactor,
	}
}

func (b BoundedRandomWalk) Kind() Kind {
	return KindRandomWalk
}

func (b BoundedRandomWalk) Forecast(
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
	if history.Len() == 0 {
		return []domain.ForecastPoint{}, nil
	}

	lookback := b.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	low, high := b.LowFactor, b.HighFactor

	recent := timeseries.Tail(history, lookback)
	lo, hi := math.Inf(1), math.Inf(-1)
	values := make([]float64, len(recent))
	for i, r := range recent {
		v := r.Value(b.Metric)
		values[i] = v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	avg := mean(values)

	return continuation(history, params.Horizon, func(int) map[string]float64 {
		value := avg + uniform(rnd, low, high)*avg
		return map[string]float64{b.Metric: timeseries.Round(clamp(value, lo, hi), 1)}
	}), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
