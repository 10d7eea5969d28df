package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LocalStore persists each (user, data type) pair as one JSON file under a
// data directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the data directory if needed and returns a
// file-backed store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(userID, dataType string) string {
	return filepath.Join(s.dir, key(userID, dataType)+".json")
}

// Load reads the stored items, normalizing missing or unreadable files to
// empty data.
func (s *LocalStore) Load(ctx context.Context, userID, dataType string) ([]json.RawMessage, error) {
	_, span := tracer.Start(ctx, "LocalStore.Load",
		trace.WithAttributes(
			attribute.String("storage.user_id", userID),
			attribute.String("storage.data_type", dataType),
		),
	)
	defer span.End()

	payload, err := os.ReadFile(s.path(userID, dataType))
	if err != nil {
		span.SetAttributes(attribute.Bool("storage.found", false))
		return []json.RawMessage{}, nil
	}
	items := decodeItems(payload)
	span.SetAttributes(attribute.Int("storage.item_count", len(items)))
	return items, nil
}

// Save overwrites the file for (userID, dataType).
func (s *LocalStore) Save(ctx context.Context, userID, dataType string, items []json.RawMessage) error {
	_, span := tracer.Start(ctx, "LocalStore.Save",
		trace.WithAttributes(
			attribute.String("storage.user_id", userID),
			attribute.String("storage.data_type", dataType),
			attribute.Int("storage.item_count", len(items)),
		),
	)
	defer span.End()

	if items == nil {
		items = []json.RawMessage{}
	}
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", dataType, err)
	}
	if err := os.WriteFile(s.path(userID, dataType), payload, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", dataType, err)
	}
	return nil
}

// List returns the data types with a stored file for the user.
func (s *LocalStore) List(ctx context.Context, userID string) ([]string, error) {
	_, span := tracer.Start(ctx, "LocalStore.List",
		trace.WithAttributes(attribute.String("storage.user_id", userID)),
	)
	defer span.End()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return []string{}, nil
	}
	prefix := userID + "_"
	types := make([]string, 0)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".json") {
			types = append(types, strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"))
		}
	}
	return types, nil
}
