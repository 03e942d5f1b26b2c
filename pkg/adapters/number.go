package adapters

import (
	"math"

	"github.com/de-tools/stat-atlas/pkg/models/api"
	"github.com/de-tools/stat-atlas/pkg/models/domain"
)

// Number maps non-finite values to nil so they encode as JSON null.
func Number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func Numbers(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = Number(v)
	}
	return out
}

func MapMetricsDomainToApi(metrics map[string]float64) map[string]*float64 {
	out := make(map[string]*float64, len(metrics))
	for k, v := range metrics {
		out[k] = Number(v)
	}
	return out
}

func MapPeriodDomainToApi(p domain.Period) api.Period {
	switch p.Granularity() {
	case domain.GranularityYear:
		return p.Year()
	case domain.GranularityDay:
		return p.String()
	default:
		return nil
	}
}

func MapPeriodsDomainToApi(periods []domain.Period) []api.Period {
	out := make([]api.Period, len(periods))
	for i, p := range periods {
		out[i] = MapPeriodDomainToApi(p)
	}
	return out
}
