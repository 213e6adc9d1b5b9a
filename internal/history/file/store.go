// Package file keeps submission history as JSON lines on local disk so it
// survives across CLI invocations.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

const maxLine = 1 << 20

// Store appends one JSON object per submission to a single file.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// New returns a Store writing to path. The file and its directory are created
// on the first Record.
func New(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Record appends sub as one line.
func (s *Store) Record(ctx context.Context, sub puzzle.Submission) error {
	if sub.ID == "" {
		return errors.New("submission id is required")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	line, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open history %s: %w", s.path, err)
	}
	_, err = f.Write(line)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("append history %s: %w", s.path, err)
	}
	return nil
}

// List returns the submissions for ref in file order. A missing file is an
// empty history; undecodable lines (e.g. a torn final write) are skipped.
func (s *Store) List(ctx context.Context, ref puzzle.Ref) ([]puzzle.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", s.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var out []puzzle.Submission
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var sub puzzle.Submission
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			s.logger.Warn("skipping unreadable history line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		if sub.Ref == ref {
			out = append(out, sub)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history %s: %w", s.path, err)
	}
	return out, nil
}

// Close implements puzzle.HistoryStore; the file is not held open.
func (s *Store) Close() {}
