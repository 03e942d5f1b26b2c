package records

import (
	"context"

	"github.com/de-tools/stat-atlas/pkg/models/store"
)

// Source serves dataset records from the embedded store instead of files.
type Source struct {
	store Store
}

func NewSource(s Store) *Source {
	return &Source{store: s}
}

func (s *Source) Load(ctx context.Context, ref store.DatasetRef) ([]store.SeriesRecord, error) {
	return s.store.List(ctx, ref.Name)
}
