package forecast

import (
	"testing"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage_Decay(t *testing.T) {
	history := yearly("inflationRate", 2020, 5.0, 4.0, 3.0)
	strategy := MovingAverage{Metric: "inflationRate", DecayRate: 0.05}

	points, err := strategy.Forecast(history, Params{Horizon: 2, WindowSize: 3}, nil)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.InDelta(t, 3.8, points[0].Value("inflationRate"), 1e-9)
	assert.InDelta(t, 3.6, points[1].Value("inflationRate"), 1e-9)
	assert.Equal(t, "2023", points[0].Period.String())
	assert.Equal(t, "2024", points[1].Period.String())
	assert.True(t, points[0].IsForecast)
}

func TestMovingAverage_DecayUsesOnlyWindow(t *testing.T) {
	history := yearly("v", 2015, 100, 100, 6, 4, 2)
	strategy := MovingAverage{Metric: "v", DecayRate: 0.1}

	points, err := strategy.Forecast(history, Params{Horizon: 1, WindowSize: 3}, nil)

	require.NoError(t, err)
	assert.InDelta(t, 3.6, points[0].Value("v"), 1e-9)
}

func TestMovingAverage_ConstantHistoryWithoutDecay(t *testing.T) {
	history := yearly("percentage", 2014, 10, 10, 10)
	strategy := MovingAverage{Metric: "percentage"}

	points, err := strategy.Forecast(history, Params{Horizon: 5, WindowSize: 3}, nil)

	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 10, 10, 10}, values(points, "percentage"))
}

func TestMovingAverage_StepChange(t *testing.T) {
	history := yearly("percentage", 2014, 1, 2, 3)
	strategy := MovingAverage{Metric: "percentage"}

	points, err := strategy.Forecast(history, Params{Horizon: 3, WindowSize: 3}, nil)

	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, values(points, "percentage"))
}

func TestMovingAverage_ShortHistoryDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name     string
		history  domain.TimeSeries
		strategy MovingAverage
		window   int
	}{
		{"empty", yearly("v", 2020), MovingAverage{Metric: "v", DecayRate: 0.05}, 3},
		{"window exceeds history", yearly("v", 2020, 1, 2), MovingAverage{Metric: "v", DecayRate: 0.05}, 3},
		{"step change needs three", yearly("v", 2020, 1, 2), MovingAverage{Metric: "v"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := tt.strategy.Forecast(tt.history, Params{Horizon: 3, WindowSize: tt.window}, nil)
			require.NoError(t, err)
			assert.Empty(t, points)
		})
	}
}

func TestMovingAverage_InvalidParams(t *testing.T) {
	history := yearly("v", 2020, 1, 2, 3)
	strategy := MovingAverage{Metric: "v"}

	_, err := strategy.Forecast(history, Params{Horizon: 0, WindowSize: 3}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = strategy.Forecast(history, Params{Horizon: 1, WindowSize: 0}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestMovingAverage_KeepsSchemaWithPlaceholders(t *testing.T) {
	rows := []timeseries.Row{
		{Period: domain.YearPeriod(2020), Metrics: map[string]float64{"rate": 1, "other": 7}},
		{Period: domain.YearPeriod(2021), Metrics: map[string]float64{"rate": 2, "other": 7}},
		{Period: domain.YearPeriod(2022), Metrics: map[string]float64{"rate": 3, "other": 7}},
	}
	history := timeseries.New("test", domain.GranularityYear, []string{"rate", "other"}, rows)

	points, err := MovingAverage{Metric: "rate"}.Forecast(history, Params{Horizon: 1, WindowSize: 3}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"rate": 4, "other": 0}, points[0].Metrics)
}

func TestFlatAverage(t *testing.T) {
	history := yearly("distance", 2020, 1, 2, 3, 4, 5)

	points, err := FlatAverage{Metric: "distance"}.Forecast(history, Params{Horizon: 3, WindowSize: 3}, nil)

	require.NoError(t, err)
	require.Len(t, points, 3)
	for _, p := range points {
		assert.InDelta(t, 4.0, p.Value("distance"), 1e-9)
	}
}

func TestFlatAverage_WindowExceedsHistory(t *testing.T) {
	points, err := FlatAverage{Metric: "distance"}.Forecast(yearly("distance", 2020, 1), Params{Horizon: 3, WindowSize: 3}, nil)

	require.NoError(t, err)
	assert.Empty(t, points)
}
