package imports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/stat-atlas/pkg/models/store"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb"
)

type Store interface {
	ListImports(ctx context.Context) ([]store.ImportState, error)
	GetImport(ctx context.Context, dataset string) (*store.ImportState, error)
	RecordImport(ctx context.Context, state store.ImportState) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) ListImports(ctx context.Context) ([]store.ImportState, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT dataset, imported_at, records, error
		FROM import_state
		ORDER BY dataset
	`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	states := make([]store.ImportState, 0)
	for rows.Next() {
		state, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, *state)
	}
	return states, rows.Err()
}

// GetImport returns nil when the dataset has never been imported.
func (s *defaultStore) GetImport(ctx context.Context, dataset string) (*store.ImportState, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `
		SELECT dataset, imported_at, records, error
		FROM import_state
		WHERE dataset = ?
	`, dataset)

	state, err := scanState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get import %s: %w", dataset, err)
	}
	return state, nil
}

func (s *defaultStore) RecordImport(ctx context.Context, state store.ImportState) error {
	if state.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	importedAt := state.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now().UTC()
	}

	var failure sql.NullString
	if state.Error != nil {
		failure = sql.NullString{String: *state.Error, Valid: true}
	}

	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT OR REPLACE INTO import_state (dataset, imported_at, records, error)
		VALUES (?, ?, ?, ?)
	`, state.Dataset, importedAt, state.Records, failure)
	if err != nil {
		return fmt.Errorf("record import %s: %w", state.Dataset, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanState(row scanner) (*store.ImportState, error) {
	var (
		state   store.ImportState
		failure sql.NullString
	)
	if err := row.Scan(&state.Dataset, &state.ImportedAt, &state.Records, &failure); err != nil {
		return nil, err
	}
	if failure.Valid {
		state.Error = &failure.String
	}
	return &state, nil
}
