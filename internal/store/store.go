package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/DavidHLP/DoubanTV-Insight/internal/models"
)

// Store holds the MongoDB connection for the daily snapshot collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	cfg    *Config
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		// Best-effort disconnect; the ping failure is the error that matters.
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info().Str("database", cfg.Database).Str("collection", cfg.Collection).Msg("Connected to MongoDB")

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		cfg:    cfg,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the recommended indexes. They speed up ad-hoc
// inspection of the collection and are not required for correctness.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetName("title_index"),
		},
		{
			Keys:    bson.D{{Key: "rating", Value: -1}},
			Options: options.Index().SetName("rating_index"),
		},
		{
			Keys:    bson.D{{Key: "year", Value: 1}},
			Options: options.Index().SetName("year_index"),
		},
	}

	if _, err := s.coll.Indexes().CreateMany(indexCtx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Debug().Int("count", len(indexes)).Msg("Ensured collection indexes")
	return nil
}

// SaveSnapshot writes the day's snapshot document. A rerun on the same calendar
// day replaces the existing document: last write wins per day.
func (s *Store) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil || len(snap.Items) == 0 {
		return fmt.Errorf("no items to save")
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	res, err := s.coll.ReplaceOne(saveCtx,
		bson.D{{Key: "_id", Value: snap.ID}},
		snap,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.ID, err)
	}

	log.Info().
		Str("snapshot_id", snap.ID).
		Int("items", snap.DataCount).
		Bool("replaced", res.ModifiedCount > 0).
		Msg("Snapshot saved")
	return nil
}

// Latest returns the snapshot with the most recent creation timestamp, or
// (nil, nil) when the collection is empty. An empty store is a valid state,
// not an error.
func (s *Store) Latest(ctx context.Context) (*models.Snapshot, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var snap models.Snapshot
	err := s.coll.FindOne(queryCtx, bson.D{}, opts).Decode(&snap)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	return &snap, nil
}
