package persist

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSnapshotMissing reports that no snapshot exists yet. Callers start
	// from empty state; this is not fatal.
	ErrSnapshotMissing = errors.New("snapshot_missing")
	// ErrSnapshotCorrupt reports unreadable snapshot content. Callers start
	// from empty state and should log the underlying cause.
	ErrSnapshotCorrupt = errors.New("snapshot_corrupt")
)

const SnapshotVersion = 1

// Snapshot is the full serializable image of economy state: balances,
// cooldown records and first-attempt flags. The explicit version field lets
// later formats migrate older files in place.
type Snapshot struct {
	Version    int                             `json:"version"`
	Balances   map[string]map[string]int64     `json:"balances"`
	Cooldowns  map[string]map[string]time.Time `json:"cooldowns"`
	FirstTries map[string]map[string]bool      `json:"first_tries"`
}

func NewSnapshot() Snapshot {
	return Snapshot{
		Version:    SnapshotVersion,
		Balances:   map[string]map[string]int64{},
		Cooldowns:  map[string]map[string]time.Time{},
		FirstTries: map[string]map[string]bool{},
	}
}

// Snapshotter is the durable storage boundary. Save must never leave a
// partially written snapshot readable by a later Load.
type Snapshotter interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
