package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Create(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name     string
		settings Settings
		expected Strategy
	}{
		{
			name:     "moving average with decay",
			settings: Settings{Kind: KindMovingAverage, Metric: "inflationRate", DecayRate: 0.05},
			expected: MovingAverage{Metric: "inflationRate", DecayRate: 0.05},
		},
		{
			name:     "flat average",
			settings: Settings{Kind: KindFlatAverage, Metric: "distance"},
			expected: FlatAverage{Metric: "distance"},
		},
		{
			name: "rolling average",
			settings: Settings{
				Kind:    KindRollingAverage,
				Metrics: []string{"immigrants", "emigrants"},
				Derived: []Difference{netMigration},
			},
			expected: RollingAverage{Metrics: []string{"immigrants", "emigrants"}, Derived: []Difference{netMigration}},
		},
		{
			name:     "saturating trend",
			settings: Settings{Kind: KindSaturatingTrend, Metric: "percentage"},
			expected: NewSaturatingTrend("percentage"),
		},
		{
			name:     "saturating trend with explicit zero rate",
			settings: Settings{Kind: KindSaturatingTrend, Metric: "percentage", Ceiling: ptr(60.0), SaturationRate: ptr(0.0)},
			expected: SaturatingTrend{Metric: "percentage", Ceiling: 60},
		},
		{
			name:     "random walk",
			settings: Settings{Kind: KindRandomWalk, Metric: "distance", Lookback: 14},
			expected: BoundedRandomWalk{Metric: "distance", Lookback: 14, LowFactor: DefaultLowFactor, HighFactor: DefaultHighFactor},
		},
		{
			name:     "random walk with a flat range",
			settings: Settings{Kind: KindRandomWalk, Metric: "distance", LowFactor: ptr(0.0), HighFactor: ptr(0.0)},
			expected: BoundedRandomWalk{Metric: "distance", Lookback: DefaultLookback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := r.Create(tt.settings)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, strategy)
			assert.Equal(t, tt.settings.Kind, strategy.Kind())
		})
	}
}

func TestDefaultRegistry_InvalidSettings(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name     string
		settings Settings
	}{
		{"unknown kind", Settings{Kind: "arima", Metric: "v"}},
		{"missing metric", Settings{Kind: KindMovingAverage}},
		{"negative decay", Settings{Kind: KindMovingAverage, Metric: "v", DecayRate: -1}},
		{"incomplete derived", Settings{Kind: KindRollingAverage, Derived: []Difference{{Name: "net"}}}},
		{"inverted factors", Settings{Kind: KindRandomWalk, Metric: "v", LowFactor: ptr(0.5), HighFactor: ptr(-0.5)}},
		{"low factor above default high", Settings{Kind: KindRandomWalk, Metric: "v", LowFactor: ptr(0.9)}},
		{"negative saturation rate", Settings{Kind: KindSaturatingTrend, Metric: "v", SaturationRate: ptr(-0.1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Create(tt.settings)
			assert.Error(t, err)
		})
	}
}

func ptr(v float64) *float64 {
	return &v
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(KindFlatAverage, newFlatAverage))
	assert.Error(t, r.Register(KindFlatAverage, newFlatAverage))
	assert.Error(t, r.Register("", newFlatAverage))
	assert.Error(t, r.Register(KindMovingAverage, nil))
	assert.Equal(t, []Kind{KindFlatAverage}, r.Kinds())
}

func TestMustRegister_PanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	mustRegister(r, KindFlatAverage, newFlatAverage)

	assert.Panics(t, func() { mustRegister(r, KindFlatAverage, newFlatAverage) })
}

func TestDefaultRegistry_Kinds(t *testing.T) {
	assert.Equal(t, []Kind{
		KindFlatAverage,
		KindMovingAverage,
		KindRandomWalk,
		KindRollingAverage,
		KindSaturatingTrend,
	}, DefaultRegistry().Kinds())
}
