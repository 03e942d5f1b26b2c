package forecast

import (
	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
)

// MovingAverage projects a single metric from its recent values.
//
// With a positive DecayRate step k emits mean*(1 - DecayRate*k), where mean is
// the average of the last WindowSize values. Without decay it extends the last
// value by the average step change over the last three records.
type MovingAverage struct {
	Metric    string
	DecayRate float64
}

func (m MovingAverage) Kind() Kind {
	return KindMovingAverage
}

func (m MovingAverage) Forecast(
	history domain.TimeSeries,
	params Params,
	_ RandomSource,
) ([]domain.ForecastPoint, error) {
	if err := params.validate(true); err != nil {
		return nil, err
	}

	n := history.Len()
	if n == 0 || params.WindowSize > n {
		return []domain.ForecastPoint{}, nil
	}
	values := timeseries.Values(history, m.Metric)

	if m.DecayRate > 0 {
		avg := mean(values[n-params.WindowSize:])
		return continuation(history, params.Horizon, func(k int) map[string]float64 {
			return map[string]float64{m.Metric: avg * (1 - m.DecayRate*float64(k))}
		}), nil
	}

	if n < 3 {
		return []domain.ForecastPoint{}, nil
	}
	last := values[n-1]
	step := (values[n-1] - values[n-3]) / 2
	return continuation(history, params.Horizon, func(k int) map[string]float64 {
		return map[string]float64{m.Metric: last + step*float64(k)}
	}), nil
}

// FlatAverage repeats the last trailing moving average for every step.
type FlatAverage struct {
	Metric string
}

func (f FlatAverage) Kind() Kind {
	return KindFlatAverage
}

func (f FlatAverage) Forecast(
	history domain.TimeSeries,
	params Params,
	_ RandomSource,
) ([]domain.ForecastPoint, error) {
	if err := params.validate(true); err != nil {
		return nil, err
	}

	averages := timeseries.MovingAverage(history, f.Metric, params.WindowSize)
	if len(averages) == 0 {
		return []domain.ForecastPoint{}, nil
	}
	level := averages[len(averages)-1].Value
	return continuation(history, params.Horizon, func(int) map[string]float64 {
		return map[string]float64{f.Metric: level}
	}), nil
}
