package storage

import (
	"context"

	"github.com/DavidHLP/DoubanTV-Insight/internal/server/query"
	"github.com/DavidHLP/DoubanTV-Insight/internal/store"
)

// ShowRepository defines the single read the API needs: the latest snapshot,
// already projected into query shape.
type ShowRepository interface {
	LatestItems(ctx context.Context) ([]query.TVItem, error)
}

// mongoRepository implements ShowRepository over the snapshot store.
type mongoRepository struct {
	store *store.Store
}

// NewRepository creates a new repository instance.
func NewRepository(s *store.Store) ShowRepository {
	return &mongoRepository{store: s}
}

// LatestItems loads the most recent snapshot and projects it. An empty store
// projects to an empty slice, not an error.
func (r *mongoRepository) LatestItems(ctx context.Context) ([]query.TVItem, error) {
	snap, err := r.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return query.Project(snap), nil
}
