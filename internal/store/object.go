package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// metaName is the user-metadata key carrying the record's original
// name; metaCreated carries the creation timestamp (RFC 3339 nano).
const (
	metaName    = "Name"
	metaCreated = "Created-At"
	keyPrefix   = "objects/"
)

// ObjectConfig configures the MinIO/S3 backend.
type ObjectConfig struct {
	Endpoint  string // "minio:9000" or "http(s)://minio:9000"
	AccessKey string
	SecretKey string
	Bucket    string
}

// ObjectStore persists each record as one bucket object keyed by uuid.
// The record's name and creation time travel as user metadata written
// in the same PutObject call as the payload, so a record becomes
// visible to readers all at once or not at all.
//
// Retrieval order is object-key order (lexicographic uuid order), not
// insertion order. FindByName scans the listing and takes the first
// match under that order.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		secure = (u.Scheme == "https")
		return u.Host, secure, nil
	}

	// No scheme provided, treat as host:port (insecure by default for local MinIO).
	return raw, false, nil
}

// OpenObjectStore connects to MinIO/S3 and verifies the bucket exists.
func OpenObjectStore(cfg ObjectConfig) (*ObjectStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("object store configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket does not exist: %s", cfg.Bucket)
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *ObjectStore) Insert(ctx context.Context, rec Record) (uuid.UUID, error) {
	id := uuid.New()
	contentType := rec.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		keyPrefix+id.String(),
		bytes.NewReader(rec.Payload),
		int64(len(rec.Payload)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				metaName:    rec.Name,
				metaCreated: time.Now().UTC().Format(time.RFC3339Nano),
			},
		},
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("object store put: %w", err)
	}
	return id, nil
}

func (s *ObjectStore) ListAll(ctx context.Context) ([]Record, error) {
	var records []Record
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    keyPrefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("object store list: %w", info.Err)
		}
		rec, err := s.fetch(ctx, info.Key)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (s *ObjectStore) FindByName(ctx context.Context, name string) (*Record, error) {
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    keyPrefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("object store list: %w", info.Err)
		}
		stat, err := s.client.StatObject(ctx, s.bucket, info.Key, minio.StatObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("object store stat: %w", err)
		}
		if stat.UserMetadata[metaName] != name {
			continue
		}
		return s.fetch(ctx, info.Key)
	}
	return nil, ErrNotFound
}

// fetch reads one object, payload and metadata together.
func (s *ObjectStore) fetch(ctx context.Context, key string) (*Record, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("object store get: %w", err)
	}
	defer func() { _ = obj.Close() }()

	stat, err := obj.Stat()
	if err != nil {
		return nil, fmt.Errorf("object store stat: %w", err)
	}

	payload, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("object store read: %w", err)
	}

	id, err := uuid.Parse(strings.TrimPrefix(key, keyPrefix))
	if err != nil {
		return nil, fmt.Errorf("object store key %q: %w", key, err)
	}

	createdAt := stat.LastModified
	if raw := stat.UserMetadata[metaCreated]; raw != "" {
		if ts, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
			createdAt = ts
		}
	}

	return &Record{
		ID:          id,
		Name:        stat.UserMetadata[metaName],
		ContentType: stat.ContentType,
		Payload:     payload,
		CreatedAt:   createdAt,
	}, nil
}

func (s *ObjectStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket does not exist: %s", s.bucket)
	}
	return nil
}

func (s *ObjectStore) Close() error {
	return nil
}
