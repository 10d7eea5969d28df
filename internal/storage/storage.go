// Package storage persists each user's planner collections as wholesale JSON
// arrays keyed by (user ID, data type). Backends never surface "not found" or
// decode failures: a missing or unreadable payload loads as empty data.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/swedish-year-planner/api/internal/config"
)

var tracer = otel.Tracer("github.com/swedish-year-planner/api/internal/storage")

// Data types persisted per user.
const (
	TypeEvents = "events"
	TypeTasks  = "tasks"
)

// Store is the persistence contract: wholesale load/save of a user's item
// array plus enumeration of stored data types for backup purposes.
type Store interface {
	Load(ctx context.Context, userID, dataType string) ([]json.RawMessage, error)
	Save(ctx context.Context, userID, dataType string, items []json.RawMessage) error
	List(ctx context.Context, userID string) ([]string, error)
}

// Backend variants selectable via STORAGE_TYPE.
const (
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendSQLite = "sqlite"
	BackendObject = "object-storage"
)

// New constructs the store selected by cfg.StorageType.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageType {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendLocal:
		return NewLocalStore(cfg.DataDir)
	case BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case BackendObject:
		return NewObjectStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageType)
	}
}

func key(userID, dataType string) string {
	return userID + "_" + dataType
}

// decodeItems unmarshals a stored payload, normalizing malformed data to an
// empty collection.
func decodeItems(payload []byte) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return []json.RawMessage{}
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items
}
