package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LegacyCurrency is the currency name assigned to balances loaded from a
// pre-versioned snapshot (a bare user -> amount JSON object).
const LegacyCurrency = "crowns"

// File persists snapshots as a JSON document at a fixed path. Saves go
// through a temp file in the same directory followed by an atomic rename, so
// a crash mid-write can never leave a torn file behind.
type File struct {
	path string
}

func NewFile(path string) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot dir %s: %w", dir, err)
	}
	return &File{path: path}, nil
}

func (f *File) Load(_ context.Context) (Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(), ErrSnapshotMissing
		}
		return NewSnapshot(), fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return NewSnapshot(), fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if snap.Version == 0 {
		// Pre-versioned files were a flat user -> crowns object.
		return loadLegacy(raw)
	}
	if snap.Balances == nil {
		snap.Balances = map[string]map[string]int64{}
	}
	if snap.Cooldowns == nil {
		snap.Cooldowns = map[string]map[string]time.Time{}
	}
	if snap.FirstTries == nil {
		snap.FirstTries = map[string]map[string]bool{}
	}
	return snap, nil
}

func (f *File) Save(_ context.Context, snap Snapshot) error {
	snap.Version = SnapshotVersion
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".snapshot-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func loadLegacy(raw []byte) (Snapshot, error) {
	var crowns map[string]int64
	if err := json.Unmarshal(raw, &crowns); err != nil {
		return NewSnapshot(), fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	snap := NewSnapshot()
	for user, amount := range crowns {
		snap.Balances[user] = map[string]int64{LegacyCurrency: amount}
	}
	return snap, nil
}
