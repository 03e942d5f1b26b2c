package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/stat-atlas/pkg/models/store"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb/imports"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb/records"
	"github.com/rs/zerolog"
)

// Controller copies datasets from their source files into the embedded store.
type Controller interface {
	Import(ctx context.Context, name string) (Result, error)
	ImportAll(ctx context.Context) ([]Result, error)
}

type Result struct {
	Dataset string
	Records int
	// First and Last are the stored period range, empty when unknown.
	First string
	Last  string
	Err   error
}

type DefaultController struct {
	db          *sql.DB
	catalog     *dataset.Catalog
	source      dataset.Source
	recordStore records.Store
	importStore imports.Store
	now         func() time.Time
}

func NewController(
	db *sql.DB,
	catalog *dataset.Catalog,
	source dataset.Source,
	recordStore records.Store,
	importStore imports.Store,
) (*DefaultController, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if catalog == nil || source == nil {
		return nil, fmt.Errorf("catalog and source are required")
	}
	if recordStore == nil || importStore == nil {
		return nil, fmt.Errorf("record and import stores are required")
	}

	return &DefaultController{
		db:          db,
		catalog:     catalog,
		source:      source,
		recordStore: recordStore,
		importStore: importStore,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Import replaces the stored records of one dataset. Records and import
// state are written in a single transaction; a failed load is recorded in
// the import state and leaves the previously stored records untouched.
func (ctrl *DefaultController) Import(ctx context.Context, name string) (Result, error) {
	def, err := ctrl.catalog.Get(name)
	if err != nil {
		return Result{Dataset: name, Err: err}, err
	}

	logger := zerolog.Ctx(ctx).With().Str("dataset", def.Name).Logger()

	rows, err := ctrl.source.Load(ctx, def.Ref())
	if err != nil {
		ctrl.recordFailure(ctx, def.Name, err)
		return Result{Dataset: def.Name, Err: err}, err
	}

	err = duckdb.InTransaction(ctx, ctrl.db, func(ctx context.Context) error {
		if err := ctrl.recordStore.Replace(ctx, def.Name, rows); err != nil {
			return err
		}
		return ctrl.importStore.RecordImport(ctx, store.ImportState{
			Dataset:    def.Name,
			ImportedAt: ctrl.now(),
			Records:    int64(len(rows)),
		})
	})
	if err != nil {
		err = fmt.Errorf("import %s: %w", def.Name, err)
		ctrl.recordFailure(ctx, def.Name, err)
		return Result{Dataset: def.Name, Err: err}, err
	}

	result := Result{Dataset: def.Name, Records: len(rows)}
	stats, err := ctrl.recordStore.Stats(ctx, def.Name)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read stored period range")
	} else {
		if stats.FirstPeriod != nil {
			result.First = *stats.FirstPeriod
		}
		if stats.LastPeriod != nil {
			result.Last = *stats.LastPeriod
		}
	}

	logger.Info().Int("records", len(rows)).Str("first", result.First).Str("last", result.Last).Msg("dataset imported")
	return result, nil
}

// ImportAll imports every catalog dataset. A failing dataset does not stop
// the others; the returned error reports how many failed.
func (ctrl *DefaultController) ImportAll(ctx context.Context) ([]Result, error) {
	defs := ctrl.catalog.List()
	results := make([]Result, 0, len(defs))
	failed := 0

	for _, def := range defs {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		result, err := ctrl.Import(ctx, def.Name)
		if err != nil {
			failed++
		}
		results = append(results, result)
	}

	if failed > 0 {
		return results, fmt.Errorf("%d of %d datasets failed to import", failed, len(defs))
	}
	return results, nil
}

func (ctrl *DefaultController) recordFailure(ctx context.Context, name string, cause error) {
	msg := cause.Error()
	logger := zerolog.Ctx(ctx)
	logger.Error().Err(cause).Str("dataset", name).Msg("dataset import failed")

	if err := ctrl.importStore.RecordImport(ctx, store.ImportState{
		Dataset:    name,
		ImportedAt: ctrl.now(),
		Error:      &msg,
	}); err != nil {
		logger.Error().Err(err).Str("dataset", name).Msg("failed to record import state")
	}
}
