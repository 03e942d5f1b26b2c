package domain

// MetricSummary describes one metric over a whole history.
type MetricSummary struct {
	Metric string
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Total  float64
}

// ForecastReport is everything a dashboard page needs for one dataset and one
// set of forecast parameters.
type ForecastReport struct {
	Dataset    string
	Title      string
	Strategy   string
	Horizon    int
	WindowSize int
	Combined   CombinedSeries
	// Changes holds the period-over-period deltas of each metric, aligned with
	// the historical part of Combined.
	Changes map[string][]float64
	// FuturePrice is set for compounding datasets when an initial price is given.
	FuturePrice *float64
}

type ChangeReport struct {
	Dataset        string
	Metric         string
	Periods        []Period
	Deltas         []float64
	PercentChanges []float64
	MaxDelta       float64
	MinDelta       float64
}

type SummaryReport struct {
	Dataset             string
	Title               string
	Granularity         Granularity
	First               Period
	Last                Period
	Records             int
	Metrics             []MetricSummary
	WeekendSums         map[string]float64
	MaxAbsPercentChange *float64
}
