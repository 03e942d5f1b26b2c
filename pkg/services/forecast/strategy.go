// Package forecast implements the forecasting policies used by the datasets
// and the combiner that joins a history with its forecast continuation.
//
// Every strategy is a pure function of its inputs except for the randomness
// drawn from the RandomSource passed by the caller. Fix the seed (or pass a
// constant source) to make a forecast reproducible.
package forecast

import (
	"fmt"
	"math/rand/v2"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
)

// DefaultWindowSize is the number of trailing records averaged when a dataset
// does not configure its own window.
const DefaultWindowSize = 3

// Strategy produces horizon points continuing the history, periods
// last+1..last+horizon, all tagged as forecast. A usable but short history
// yields an empty slice, not an error.
type Strategy interface {
	Kind() Kind
	Forecast(history domain.TimeSeries, params Params, rnd RandomSource) ([]domain.ForecastPoint, error)
}

// RandomSource returns pseudo-random numbers in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG-backed source. A zero seed picks a random one.
func NewRandomSource(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Params are the caller-controlled forecast inputs.
type Params struct {
	Horizon    int
	WindowSize int
}

func (p Params) validate(usesWindow bool) error {
	if p.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", domain.ErrInvalidParameter, p.Horizon)
	}
	if usesWindow && p.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", domain.ErrInvalidParameter, p.WindowSize)
	}
	return nil
}

// Require turns an empty forecast into ErrInsufficientHistory for call sites
// that must render something.
func Require(points []domain.ForecastPoint, err error) ([]domain.ForecastPoint, error) {
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: forecast is empty", domain.ErrInsufficientHistory)
	}
	return points, nil
}

func uniform(rnd RandomSource, lo, hi float64) float64 {
	return lo + (hi-lo)*rnd.Float64()
}

func requireSource(rnd RandomSource) error {
	if rnd == nil {
		return fmt.Errorf("%w: random source is required", domain.ErrInvalidParameter)
	}
	return nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// continuation builds horizon points after the last record. Metrics of the
// history schema that values does not set are emitted as zero placeholders.
func continuation(
	history domain.TimeSeries,
	horizon int,
	values func(step int) map[string]float64,
) []domain.ForecastPoint {
	last, ok := history.Last()
	if !ok {
		return []domain.ForecastPoint{}
	}

	points := make([]domain.ForecastPoint, 0, horizon)
	for k := 1; k <= horizon; k++ {
		metrics := make(map[string]float64, len(history.Metrics))
		for _, m := range history.Metrics {
			metrics[m] = 0
		}
		for m, v := range values(k) {
			metrics[m] = v
		}
		points = append(points, domain.ForecastPoint{
			Record:     domain.Record{Period: last.Period.Next(k), Metrics: metrics},
			IsForecast: true,
		})
	}
	return points
}
