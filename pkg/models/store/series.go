package store

import "time"

// DatasetRef locates a dataset in a Source.
type DatasetRef struct {
	Name        string
	File        string
	PeriodField string
	Metrics     []string
}

// SeriesRecord is a raw stored observation. Period is kept in its textual
// form (a 4-digit year or YYYY-MM-DD) so that any dataset fits one table.
type SeriesRecord struct {
	Period  string
	Metrics map[string]float64
}

type SeriesStats struct {
	RecordsCount int64
	FirstPeriod  *string
	LastPeriod   *string
}

// ImportState tracks the last successful import of a dataset into the
// embedded store.
type ImportState struct {
	Dataset    string
	ImportedAt time.Time
	Records    int64
	Error      *string
}
