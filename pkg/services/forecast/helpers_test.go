package forecast

import (
	"time"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/timeseries"
)

type fixedSource float64

func (f fixedSource) Float64() float64 {
	return float64(f)
}

// noNoise makes uniform(lo, hi) return the midpoint, i.e. zero symmetric noise.
const noNoise = fixedSource(0.5)

func yearly(metric string, start int, values ...float64) domain.TimeSeries {
	rows := make([]timeseries.Row, len(values))
	for i, v := range values {
		rows[i] = timeseries.Row{Period: domain.YearPeriod(start + i), Metrics: map[string]float64{metric: v}}
	}
	return timeseries.New("test", domain.GranularityYear, []string{metric}, rows)
}

func daily(metric string, start time.Time, values ...float64) domain.TimeSeries {
	rows := make([]timeseries.Row, len(values))
	for i, v := range values {
		rows[i] = timeseries.Row{
			Period:  domain.DatePeriod(start.AddDate(0, 0, i)),
			Metrics: map[string]float64{metric: v},
		}
	}
	return timeseries.New("test", domain.GranularityDay, []string{metric}, rows)
}

func values(points []domain.ForecastPoint, metric string) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value(metric)
	}
	return out
}
