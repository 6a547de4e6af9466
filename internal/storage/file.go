package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists snapshots in a single JSON document on disk.
// It is the default backend: one exclusive process, full rewrite on
// every save, no locking.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Load reads the snapshot document from disk. A missing file is a
// normal first run and yields an empty snapshot.
func (s *FileStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "No data file yet, starting empty", "path", s.path)
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read data file: %w", err)
	}

	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode data file: %w", err)
	}

	snap, err := fromWire(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode data file: %w", err)
	}
	return snap, nil
}

// Save rewrites the whole document.
func (s *FileStore) Save(ctx context.Context, snap Snapshot) error {
	if snap.LastUpdated.IsZero() {
		snap.LastUpdated = time.Now()
	}
	data, err := json.MarshalIndent(toWire(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}
