package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one payload row per (user, data type) in a local
// sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("storage: connect sqlite db: %w", err)
	}

	schema := `
    CREATE TABLE IF NOT EXISTS user_data (
        user_id TEXT NOT NULL,
        data_type TEXT NOT NULL,
        payload TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (user_id, data_type)
    );
    `
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the payload row, normalizing a missing row or malformed payload
// to empty data.
func (s *SQLiteStore) Load(ctx context.Context, userID, dataType string) ([]json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "SQLiteStore.Load",
		trace.WithAttributes(
			attribute.String("storage.user_id", userID),
			attribute.String("storage.data_type", dataType),
		),
	)
	defer span.End()

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM user_data WHERE user_id = ? AND data_type = ?`,
		userID, dataType,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("storage.found", false))
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return []json.RawMessage{}, nil
	}
	items := decodeItems(payload)
	span.SetAttributes(attribute.Int("storage.item_count", len(items)))
	return items, nil
}

// Save overwrites the payload row for (userID, dataType).
func (s *SQLiteStore) Save(ctx context.Context, userID, dataType string, items []json.RawMessage) error {
	ctx, span := tracer.Start(ctx, "SQLiteStore.Save",
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
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", dataType, err)
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO user_data (user_id, data_type, payload)
        VALUES (?, ?, ?)
        ON CONFLICT (user_id, data_type)
        DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		userID, dataType, string(payload),
	)
	if err != nil {
		return fmt.Errorf("storage: save %s: %w", dataType, err)
	}
	return nil
}

// List returns the data types with a stored row for the user.
func (s *SQLiteStore) List(ctx context.Context, userID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "SQLiteStore.List",
		trace.WithAttributes(attribute.String("storage.user_id", userID)),
	)
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT data_type FROM user_data WHERE user_id = ?`, userID)
	if err != nil {
		return []string{}, nil
	}
	defer rows.Close()

	types := make([]string, 0)
	for rows.Next() {
		var dataType string
		if err := rows.Scan(&dataType); err != nil {
			continue
		}
		types = append(types, dataType)
	}
	if err := rows.Err(); err != nil {
		return []string{}, nil
	}
	return types, nil
}
