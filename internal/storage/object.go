package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/swedish-year-planner/api/internal/config"
)

// ObjectStore persists data in an S3-compatible bucket (Scaleway Object
// Storage in production) under users/<user>/<type>.json.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// NewObjectStore connects to the configured S3-compatible endpoint and
// ensures the bucket exists.
func NewObjectStore(ctx context.Context, cfg *config.Config) (*ObjectStore, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: connect object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{Region: cfg.S3Region}); err != nil {
			return nil, fmt.Errorf("storage: create bucket: %w", err)
		}
	}
	return &ObjectStore{client: client, bucket: cfg.S3Bucket}, nil
}

func objectKey(userID, dataType string) string {
	return "users/" + userID + "/" + dataType + ".json"
}

// Load reads the object, normalizing a missing key or a remote read failure
// to empty data.
func (s *ObjectStore) Load(ctx context.Context, userID, dataType string) ([]json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "ObjectStore.Load",
		trace.WithAttributes(
			attribute.String("storage.user_id", userID),
			attribute.String("storage.data_type", dataType),
		),
	)
	defer span.End()

	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(userID, dataType), minio.GetObjectOptions{})
	if err != nil {
		span.SetAttributes(attribute.Bool("storage.found", false))
		return []json.RawMessage{}, nil
	}
	defer obj.Close()

	payload, err := io.ReadAll(obj)
	if err != nil {
		// Covers NoSuchKey as well as transient remote failures; the caller
		// falls back to empty data either way.
		span.SetAttributes(attribute.Bool("storage.found", false))
		return []json.RawMessage{}, nil
	}
	items := decodeItems(payload)
	span.SetAttributes(attribute.Int("storage.item_count", len(items)))
	return items, nil
}

// Save overwrites the object for (userID, dataType).
func (s *ObjectStore) Save(ctx context.Context, userID, dataType string, items []json.RawMessage) error {
	ctx, span := tracer.Start(ctx, "ObjectStore.Save",
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

	_, err = s.client.PutObject(ctx, s.bucket, objectKey(userID, dataType),
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("storage: save %s: %w", dataType, err)
	}
	return nil
}

// List returns the data types stored for the user by prefix enumeration.
func (s *ObjectStore) List(ctx context.Context, userID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "ObjectStore.List",
		trace.WithAttributes(attribute.String("storage.user_id", userID)),
	)
	defer span.End()

	prefix := "users/" + userID + "/"
	types := make([]string, 0)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return []string{}, nil
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		types = append(types, strings.TrimSuffix(name, ".json"))
	}
	return types, nil
}
