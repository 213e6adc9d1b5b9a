// Package gcs mirrors the puzzle cache into a Google Cloud Storage bucket so
// several machines can share downloaded inputs.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/JakeFAU/aocbud/internal/hash/sha256"
)

// ErrChecksumMismatch is returned when a blob does not match the digest
// recorded when it was uploaded.
var ErrChecksumMismatch = errors.New("cache blob checksum mismatch")

const digestKey = "sha256"

// Config captures the parameters required to connect to GCS.
type Config struct {
	Bucket string
	Prefix string
}

// BlobStore reads and writes cache blobs in a configured bucket.
type BlobStore struct {
	client *storage.Client
	bucket string
	prefix string
	hasher *sha256.Hasher
}

// New creates a GCS-backed blob store.
func New(client *storage.Client, cfg Config) (*BlobStore, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &BlobStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		hasher: sha256.New(),
	}, nil
}

func (s *BlobStore) objectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Get downloads the named blob; a missing object is a miss, not an error.
// Blobs carrying a digest are verified before they are returned.
func (s *BlobStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	obj := s.client.Bucket(s.bucket).Object(s.objectName(name))
	attrs, err := obj.Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stat object: %w", err)
	}
	r, err := obj.Generation(attrs.Generation).NewReader(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("open object: %w", err)
	}
	defer r.Close() //nolint:errcheck // read-only handle
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("read object: %w", err)
	}
	if err := s.verify(name, data, attrs.Metadata); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *BlobStore) verify(name string, data []byte, meta map[string]string) error {
	digest, ok := meta[digestKey]
	if !ok {
		return nil
	}
	if !s.hasher.Matches(data, digest) {
		return fmt.Errorf("%w: %s", ErrChecksumMismatch, name)
	}
	return nil
}

// Put uploads data under name with its digest in the object metadata.
func (s *BlobStore) Put(ctx context.Context, name string, data []byte) error {
	writer := s.client.Bucket(s.bucket).Object(s.objectName(name)).NewWriter(ctx)
	writer.ContentType = "text/plain; charset=utf-8"
	writer.Metadata = map[string]string{digestKey: s.hasher.Hash(data)}
	if _, err := writer.Write(data); err != nil {
		closeErr := writer.Close()
		if closeErr != nil {
			return fmt.Errorf("write object: %w (close writer: %v)", err, closeErr)
		}
		return fmt.Errorf("write object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}
