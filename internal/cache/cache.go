// Package cache persists idempotent puzzle downloads on disk, one file per
// (kind, day, year). A file's presence means the content was already fetched;
// it is trusted verbatim and never re-validated, rewritten or evicted here.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

// ErrCacheIO marks directory and file failures. Callers decide whether a
// failed write is fatal; the fetched content remains valid either way.
var ErrCacheIO = errors.New("cache io failure")

// Key identifies one cached blob.
type Key struct {
	Kind puzzle.Kind
	Ref  puzzle.Ref
}

// Name is the deterministic file name for the key, e.g. 1_2023.input.
func (k Key) Name() string {
	return fmt.Sprintf("%d_%d.%s", k.Ref.Day, k.Ref.Year, k.Kind)
}

// Mirror is an optional remote copy of the cache shared between machines.
type Mirror interface {
	Get(ctx context.Context, name string) ([]byte, bool, error)
	Put(ctx context.Context, name string, data []byte) error
}

// Config captures the cache root.
type Config struct {
	Dir string `mapstructure:"dir"`
}

// Store is a file-backed cache rooted at a single directory.
type Store struct {
	dir    string
	mirror Mirror
	logger *zap.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithMirror attaches a remote mirror consulted on local misses and written
// after local writes.
func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

// WithLogger sets the logger used for mirror warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Store. The directory is not touched until first access.
func New(cfg Config, opts ...Option) (*Store, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	s := &Store{dir: cfg.Dir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the cache root.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path backing key.
func (s *Store) Path(key Key) string {
	return filepath.Join(s.dir, key.Name())
}

// Read returns the cached text for key. ok is false on a miss.
func (s *Store) Read(ctx context.Context, key Key) (text string, ok bool, err error) {
	if err := s.ensureDir(); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(s.Path(key))
	switch {
	case err == nil:
		return string(data), true, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", false, fmt.Errorf("%w: read %s: %v", ErrCacheIO, s.Path(key), err)
	}
	if s.mirror == nil {
		return "", false, nil
	}
	return s.readMirror(ctx, key)
}

func (s *Store) readMirror(ctx context.Context, key Key) (string, bool, error) {
	data, found, err := s.mirror.Get(ctx, key.Name())
	if err != nil {
		s.logger.Warn("cache mirror read failed", zap.String("key", key.Name()), zap.Error(err))
		return "", false, nil
	}
	if !found {
		return "", false, nil
	}
	if err := s.writeLocal(key, data); err != nil {
		s.logger.Warn("cache mirror hit not persisted locally", zap.String("key", key.Name()), zap.Error(err))
	}
	return string(data), true, nil
}

// Write stores text verbatim under key.
func (s *Store) Write(ctx context.Context, key Key, text string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.writeLocal(key, []byte(text)); err != nil {
		return err
	}
	if s.mirror != nil {
		if err := s.mirror.Put(ctx, key.Name(), []byte(text)); err != nil {
			s.logger.Warn("cache mirror write failed", zap.String("key", key.Name()), zap.Error(err))
		}
	}
	return nil
}

// writeLocal stages data in a temp file and renames it into place, so an
// entry exists only once it is complete.
func (s *Store) writeLocal(key Key, data []byte) error {
	target := s.Path(key)
	tmp, err := os.CreateTemp(s.dir, "."+key.Name()+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: stage %s: %v", ErrCacheIO, target, err)
	}
	tmpName := tmp.Name()
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpName, target)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrCacheIO, target, err)
	}
	return nil
}

// ensureDir creates the root if absent; an existing directory is fine.
func (s *Store) ensureDir() error {
	info, err := os.Stat(s.dir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w: %s is not a directory", ErrCacheIO, s.dir)
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: stat %s: %v", ErrCacheIO, s.dir, err)
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrCacheIO, s.dir, err)
	}
	return nil
}
