package api

// Metric values are pointers: a value that is not a finite number (a percent
// change against zero, for instance) is encoded as null.

type Dataset struct {
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Granularity     string   `json:"granularity"`
	Metrics         []string `json:"metrics"`
	ForecastMetrics []string `json:"forecast_metrics"`
	Strategy        string   `json:"strategy"`
	DefaultHorizon  int      `json:"default_horizon"`
	DefaultWindow   int      `json:"default_window"`
	Horizons        []int    `json:"horizons,omitempty"`
	Compound        bool     `json:"compound"`
}

// Period is a year (number) or a YYYY-MM-DD date (string).
type Period any

type Point struct {
	Period     Period              `json:"period"`
	Values     map[string]*float64 `json:"values"`
	IsForecast bool                `json:"is_forecast"`
}

type TableRow struct {
	Period     Period              `json:"period"`
	Label      string              `json:"label"`
	Values     map[string]*float64 `json:"values"`
	Changes    map[string]*float64 `json:"changes,omitempty"`
	IsForecast bool                `json:"is_forecast"`
}

// ChartSeries is one metric laid out for a line chart: Historical and
// Forecast are aligned with Labels and hold null where the line has a gap.
type ChartSeries struct {
	Metric     string     `json:"metric"`
	Labels     []string   `json:"labels"`
	Historical []*float64 `json:"historical"`
	Forecast   []*float64 `json:"forecast"`
	Trend      []*float64 `json:"trend,omitempty"`
}

type ForecastResponse struct {
	Dataset     string        `json:"dataset"`
	Title       string        `json:"title"`
	Strategy    string        `json:"strategy"`
	Horizon     int           `json:"horizon"`
	WindowSize  int           `json:"window_size"`
	Points      []Point       `json:"points"`
	Table       []TableRow    `json:"table"`
	Charts      []ChartSeries `json:"charts"`
	FuturePrice *float64      `json:"future_price,omitempty"`
}

type ChangesResponse struct {
	Dataset        string     `json:"dataset"`
	Metric         string     `json:"metric"`
	Periods        []Period   `json:"periods"`
	Deltas         []*float64 `json:"deltas"`
	PercentChanges []*float64 `json:"percent_changes"`
	MaxDelta       *float64   `json:"max_delta"`
	MinDelta       *float64   `json:"min_delta"`
}

type MetricSummary struct {
	Metric string   `json:"metric"`
	Count  int      `json:"count"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Mean   *float64 `json:"mean"`
	Total  *float64 `json:"total"`
}

type SummaryResponse struct {
	Dataset             string              `json:"dataset"`
	Title               string              `json:"title"`
	Granularity         string              `json:"granularity"`
	First               Period              `json:"first"`
	Last                Period              `json:"last"`
	Records             int                 `json:"records"`
	Metrics             []MetricSummary     `json:"metrics"`
	WeekendSums         map[string]*float64 `json:"weekend_sums,omitempty"`
	MaxAbsPercentChange *float64            `json:"max_abs_percent_change,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
