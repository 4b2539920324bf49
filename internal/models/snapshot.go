package models

import (
	"fmt"
	"time"
)

const snapshotIDPrefix = "douban_hot_tv_"

// Snapshot is the daily persisted batch of hot-TV entries: one document per
// calendar day, keyed by the creation date.
type Snapshot struct {
	ID        string    `bson:"_id" json:"_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	DataCount int       `bson:"data_count" json:"data_count"`
	Items     []TVShow  `bson:"items" json:"items"`
}

// SnapshotID derives the daily document key from a point in time.
func SnapshotID(t time.Time) string {
	return fmt.Sprintf("%s%s", snapshotIDPrefix, t.UTC().Format("20060102"))
}

// NewSnapshot builds the snapshot document for the given items, with the
// creation timestamp truncated to UTC midnight.
func NewSnapshot(items []TVShow, now time.Time) *Snapshot {
	now = now.UTC()
	return &Snapshot{
		ID:        SnapshotID(now),
		CreatedAt: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		DataCount: len(items),
		Items:     items,
	}
}
