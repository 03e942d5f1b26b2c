package forecast

import (
	"fmt"
	"slices"
	"sync"
)

type Kind string

const (
	KindMovingAverage   Kind = "moving_average"
	KindFlatAverage     Kind = "flat_average"
	KindRollingAverage  Kind = "rolling_average"
	KindSaturatingTrend Kind = "saturating_trend"
	KindRandomWalk      Kind = "random_walk"
)

// Settings is the per-dataset strategy configuration. Fields irrelevant to the
// selected kind are ignored. Nil tuning values take the strategy defaults, so
// an explicit zero stays zero.
type Settings struct {
	Kind           Kind
	Metric         string
	Metrics        []string
	Derived        []Difference
	DecayRate      float64
	Ceiling        *float64
	SaturationRate *float64
	Lookback       int
	LowFactor      *float64
	HighFactor     *float64
}

// Factory builds a strategy from dataset settings.
type Factory func(settings Settings) (Strategy, error)

// Registry maps strategy kinds to their factories.
type Registry interface {
	Register(kind Kind, factory Factory) error
	Create(settings Settings) (Strategy, error)
	Kinds() []Kind
}

type registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[Kind]Factory),
	}
}

// DefaultRegistry has every built-in strategy registered.
func DefaultRegistry() Registry {
	r := NewRegistry()
	for kind, factory := range map[Kind]Factory{
		KindMovingAverage:   newMovingAverage,
		KindFlatAverage:     newFlatAverage,
		KindRollingAverage:  newRollingAverage,
		KindSaturatingTrend: newSaturatingTrend,
		KindRandomWalk:      newRandomWalk,
	} {
		mustRegister(r, kind, factory)
	}
	return r
}

// mustRegister panics on a registration error. Built-in kinds are fixed at
// compile time, so a failure here is a programming error.
func mustRegister(r Registry, kind Kind, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

func (r *registry) Register(kind Kind, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("strategy kind cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("strategy %q is already registered", kind)
	}

	r.factories[kind] = factory
	return nil
}

func (r *registry) Create(settings Settings) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[settings.Kind]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("strategy %q is not registered", settings.Kind)
	}

	return factory(settings)
}

func (r *registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

func requireMetric(settings Settings) error {
	if settings.Metric == "" {
		return fmt.Errorf("strategy %q requires a metric", settings.Kind)
	}
	return nil
}

func newMovingAverage(settings Settings) (Strategy, error) {
	if err := requireMetric(settings); err != nil {
		return nil, err
	}
	if settings.DecayRate < 0 {
		return nil, fmt.Errorf("decay rate must not be negative, got %v", settings.DecayRate)
	}
	return MovingAverage{Metric: settings.Metric, DecayRate: settings.DecayRate}, nil
}

func newFlatAverage(settings Settings) (Strategy, error) {
	if err := requireMetric(settings); err != nil {
		return nil, err
	}
	return FlatAverage{Metric: settings.Metric}, nil
}

func newRollingAverage(settings Settings) (Strategy, error) {
	for _, d := range settings.Derived {
		if d.Name == "" || d.Minuend == "" || d.Subtrahend == "" {
			return nil, fmt.Errorf("derived metric %+v is incomplete", d)
		}
	}
	return RollingAverage{
		Metrics: slices.Clone(settings.Metrics),
		Derived: slices.Clone(settings.Derived),
	}, nil
}

func newSaturatingTrend(settings Settings) (Strategy, error) {
	if err := requireMetric(settings); err != nil {
		return nil, err
	}
	strategy := NewSaturatingTrend(settings.Metric)
	setFloat(&strategy.Ceiling, settings.Ceiling)
	setFloat(&strategy.SaturationRate, settings.SaturationRate)
	if strategy.SaturationRate < 0 {
		return nil, fmt.Errorf("saturation rate must not be negative, got %v", strategy.SaturationRate)
	}
	return strategy, nil
}

func newRandomWalk(settings Settings) (Strategy, error) {
	if err := requireMetric(settings); err != nil {
		return nil, err
	}
	strategy := NewBoundedRandomWalk(settings.Metric)
	if settings.Lookback > 0 {
		strategy.Lookback = settings.Lookback
	}
	setFloat(&strategy.LowFactor, settings.LowFactor)
	setFloat(&strategy.HighFactor, settings.HighFactor)
	if strategy.LowFactor > strategy.HighFactor {
		return nil, fmt.Errorf("low factor %v exceeds high factor %v", strategy.LowFactor, strategy.HighFactor)
	}
	return strategy, nil
}

func setFloat(dest *float64, value *float64) {
	if value != nil {
		*dest = *value
	}
}
