package imports

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/stat-atlas/pkg/models/store"
	"github.com/de-tools/stat-atlas/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: store,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		store, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestStore_RecordImport(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("never imported", func(t *testing.T) {
		state, err := f.store.GetImport(ctx, "births")
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("insert", func(t *testing.T) {
		at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		err := f.store.RecordImport(ctx, store.ImportState{Dataset: "births", ImportedAt: at, Records: 7})
		require.NoError(t, err)

		state, err := f.store.GetImport(ctx, "births")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, int64(7), state.Records)
		assert.Equal(t, at.Unix(), state.ImportedAt.Unix())
		assert.Nil(t, state.Error)
	})

	t.Run("overwrite with failure", func(t *testing.T) {
		failure := "file not found"
		err := f.store.RecordImport(ctx, store.ImportState{Dataset: "births", Error: &failure})
		require.NoError(t, err)

		state, err := f.store.GetImport(ctx, "births")
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, int64(0), state.Records)
		require.NotNil(t, state.Error)
		assert.Equal(t, failure, *state.Error)
	})

	t.Run("missing dataset", func(t *testing.T) {
		assert.Error(t, f.store.RecordImport(ctx, store.ImportState{}))
	})
}

func TestStore_ListImports(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.RecordImport(ctx, store.ImportState{Dataset: "migration", Records: 8}))
	require.NoError(t, f.store.RecordImport(ctx, store.ImportState{Dataset: "inflation", Records: 10}))

	states, err := f.store.ListImports(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "inflation", states[0].Dataset)
	assert.Equal(t, "migration", states[1].Dataset)
}
