package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ImportStateSchema = `
	CREATE TABLE IF NOT EXISTS import_state (
		dataset VARCHAR NOT NULL PRIMARY KEY,
		imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		records BIGINT NOT NULL DEFAULT 0,
		error VARCHAR NULL
	);
`

// Metrics are kept as JSON text so that every dataset shares one table
// regardless of its schema.
const SeriesTableSchema = `
	CREATE TABLE IF NOT EXISTS series_records (
		dataset VARCHAR NOT NULL,
		period VARCHAR NOT NULL,
		metrics VARCHAR NOT NULL,
		PRIMARY KEY (dataset, period)
	);
`

var bootQueries = []string{
	ImportStateSchema,
	SeriesTableSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return fmt.Errorf("boot query: %w", err)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
