package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Changes(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	err := reporter.Changes(&domain.ChangeReport{
		Dataset:        "births",
		Metric:         "percentage",
		Periods:        []domain.Period{domain.YearPeriod(2010), domain.YearPeriod(2011)},
		Deltas:         []float64{0, 2},
		PercentChanges: []float64{0, math.Inf(1)},
		MaxDelta:       2,
		MinDelta:       2,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "births: percentage changes")
	assert.Contains(t, out, "| 2011           | 2.00             | n/a              |")
	assert.Contains(t, out, "+----------------+------------------+------------------+")
}

func TestReporter_Forecast_Empty(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	err := reporter.Forecast(&domain.ForecastReport{
		Dataset:  "births",
		Strategy: "saturating_trend",
		Horizon:  5,
		Combined: domain.CombinedSeries{
			{Record: domain.Record{Period: domain.YearPeriod(2010), Metrics: map[string]float64{"percentage": 24.5}}},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "births"))
	assert.Contains(t, out, "History is too short for a forecast.")
	assert.Contains(t, out, "24.50")
}

func TestReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	change := 50.0
	err := reporter.Summary(&domain.SummaryReport{
		Dataset:             "jogging",
		Title:               "Jogging",
		First:               domain.DatePeriod(domain.YearPeriod(2024).Time()),
		Last:                domain.DatePeriod(domain.YearPeriod(2024).Time().AddDate(0, 0, 2)),
		Records:             3,
		Metrics:             []domain.MetricSummary{{Metric: "distance", Count: 3, Min: 4, Max: 8, Mean: 6, Total: 18}},
		WeekendSums:         map[string]float64{"distance": 14, "avgPulse": 302},
		MaxAbsPercentChange: &change,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "3 records from 2024-01-01 to 2024-01-03")
	assert.Contains(t, out, "Weekend avgPulse: 302.00\nWeekend distance: 14.00")
	assert.Contains(t, out, "Largest change: 50.00%")
}
