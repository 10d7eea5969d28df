package storage

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MemoryStore keeps all data in a process-local map. This is the default
// backend; data does not survive a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]json.RawMessage),
	}
}

// Load returns the stored items for (userID, dataType), or empty data when
// nothing has been saved.
func (s *MemoryStore) Load(ctx context.Context, userID, dataType string) ([]json.RawMessage, error) {
	_, span := tracer.Start(ctx, "MemoryStore.Load",
		trace.WithAttributes(
			attribute.String("storage.user_id", userID),
			attribute.String("storage.data_type", dataType),
		),
	)
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.data[key(userID, dataType)]
	if !ok {
		span.SetAttributes(attribute.Bool("storage.found", false))
		return []json.RawMessage{}, nil
	}
	span.SetAttributes(attribute.Int("storage.item_count", len(items)))
	return items, nil
}

// Save overwrites the stored items for (userID, dataType).
func (s *MemoryStore) Save(ctx context.Context, userID, dataType string, items []json.RawMessage) error {
	_, span := tracer.Start(ctx, "MemoryStore.Save",
		trace.WithAttributes(
			attribute.String("storage.user_id", userID),
			attribute.String("storage.data_type", dataType),
			attribute.Int("storage.item_count", len(items)),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []json.RawMessage{}
	}
	s.data[key(userID, dataType)] = items
	return nil
}

// List returns the data types stored for a user.
func (s *MemoryStore) List(ctx context.Context, userID string) ([]string, error) {
	_, span := tracer.Start(ctx, "MemoryStore.List",
		trace.WithAttributes(attribute.String("storage.user_id", userID)),
	)
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := userID + "_"
	types := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			types = append(types, strings.TrimPrefix(k, prefix))
		}
	}
	return types, nil
}
