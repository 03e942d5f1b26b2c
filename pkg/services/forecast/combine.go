package forecast

import (
	"fmt"

	"github.com/de-tools/stat-atlas/pkg/models/domain"
)

// Combine appends the forecast to the history, tagging history points as
// observed and forecast points as generated. The result must be strictly
// increasing by period.
func Combine(history domain.TimeSeries, forecast []domain.ForecastPoint) (domain.CombinedSeries, error) {
	combined := make(domain.CombinedSeries, 0, history.Len()+len(forecast))
	for _, r := range history.Records {
		combined = append(combined, domain.ForecastPoint{Record: r})
	}
	for _, p := range forecast {
		p.IsForecast = true
		combined = append(combined, p)
	}

	for i := 1; i < len(combined); i++ {
		if !combined[i-1].Period.Before(combined[i].Period) {
			return nil, fmt.Errorf("%w: %s is not after %s",
				domain.ErrPeriodOverlap, combined[i].Period, combined[i-1].Period)
		}
	}
	return combined, nil
}
