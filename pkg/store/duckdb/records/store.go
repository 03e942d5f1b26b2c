package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/de-tools/stat-atlas/pkg/models/store"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

// Store keeps imported dataset records in DuckDB. Writes join the
// transaction attached to the context, if any.
type Store interface {
	Replace(ctx context.Context, dataset string, records []store.SeriesRecord) error
	List(ctx context.Context, dataset string) ([]store.SeriesRecord, error)
	Stats(ctx context.Context, dataset string) (*store.SeriesStats, error)
	Datasets(ctx context.Context) ([]string, error)
}

type recordStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &recordStore{
		db: db,
	}, nil
}

// Replace drops every stored record of the dataset and inserts the given ones.
func (s *recordStore) Replace(ctx context.Context, dataset string, records []store.SeriesRecord) error {
	if dataset == "" {
		return fmt.Errorf("dataset is required")
	}

	return duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		conn := duckdb.Conn(ctx, s.db)

		res, err := conn.ExecContext(ctx, `DELETE FROM series_records WHERE dataset = ?`, dataset)
		if err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		if removed, err := res.RowsAffected(); err == nil && removed > 0 {
			zerolog.Ctx(ctx).Debug().Str("dataset", dataset).Int64("removed", removed).Msg("replacing stored records")
		}

		if len(records) == 0 {
			return nil
		}

		stmt, err := conn.PrepareContext(ctx, `INSERT INTO series_records (dataset, period, metrics) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, record := range records {
			metrics, err := json.Marshal(record.Metrics)
			if err != nil {
				return fmt.Errorf("marshal metrics of %s: %w", record.Period, err)
			}

			if _, err := stmt.ExecContext(ctx, dataset, record.Period, string(metrics)); err != nil {
				return fmt.Errorf("insert record %s: %w", record.Period, err)
			}
		}
		return nil
	})
}

func (s *recordStore) List(ctx context.Context, dataset string) ([]store.SeriesRecord, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT period, metrics
		FROM series_records
		WHERE dataset = ?
		ORDER BY period ASC
	`, dataset)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *recordStore) Stats(ctx context.Context, dataset string) (*store.SeriesStats, error) {
	query := `SELECT COUNT(*), MIN(period), MAX(period) FROM series_records WHERE dataset = ?`

	var total int64
	var first, last sql.NullString
	if err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query, dataset).Scan(&total, &first, &last); err != nil {
		return nil, fmt.Errorf("get record stats: %w", err)
	}

	stats := &store.SeriesStats{RecordsCount: total}
	if first.Valid {
		stats.FirstPeriod = &first.String
	}
	if last.Valid {
		stats.LastPeriod = &last.String
	}
	return stats, nil
}

func (s *recordStore) Datasets(ctx context.Context) ([]string, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `SELECT DISTINCT dataset FROM series_records ORDER BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]store.SeriesRecord, error) {
	records := make([]store.SeriesRecord, 0)
	for rows.Next() {
		var period, raw string
		if err := rows.Scan(&period, &raw); err != nil {
			return nil, err
		}

		metrics := map[string]float64{}
		if err := json.Unmarshal([]byte(raw), &metrics); err != nil {
			return nil, fmt.Errorf("decode metrics of %s: %w", period, err)
		}
		records = append(records, store.SeriesRecord{
			Period:  period,
			Metrics: metrics,
		})
	}
	return records, rows.Err()
}
