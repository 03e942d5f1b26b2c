package domain

// Record is one observation of a dataset.
type Record struct {
	Period  Period
	Metrics map[string]float64
}

// Value returns the metric value, zero when the metric is absent.
func (r Record) Value(metric string) float64 {
	return r.Metrics[metric]
}

// TimeSeries is ordered strictly ascending by period. Build it with
// timeseries.New rather than by hand.
type TimeSeries struct {
	Name        string
	Granularity Granularity
	Metrics     []string
	Records     []Record
}

func (s TimeSeries) Len() int {
	return len(s.Records)
}

func (s TimeSeries) IsEmpty() bool {
	return len(s.Records) == 0
}

// Last returns the most recent record; ok is false for an empty series.
func (s TimeSeries) Last() (Record, bool) {
	if len(s.Records) == 0 {
		return Record{}, false
	}
	return s.Records[len(s.Records)-1], true
}

// ForecastPoint is a record tagged as observed or generated.
type ForecastPoint struct {
	Record
	IsForecast bool
}

// CombinedSeries is the history followed by its forecast continuation.
type CombinedSeries []ForecastPoint

func (c CombinedSeries) Historical() []ForecastPoint {
	out := make([]ForecastPoint, 0, len(c))
	for _, p := range c {
		if !p.IsForecast {
			out = append(out, p)
		}
	}
	return out
}

func (c CombinedSeries) Forecast() []ForecastPoint {
	out := make([]ForecastPoint, 0)
	for _, p := range c {
		if p.IsForecast {
			out = append(out, p)
		}
	}
	return out
}

func (c CombinedSeries) Periods() []Period {
	out := make([]Period, len(c))
	for i, p := range c {
		out[i] = p.Period
	}
	return out
}
