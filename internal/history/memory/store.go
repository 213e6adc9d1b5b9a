// Package memory provides an in-process submission history for development and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

// Store keeps submissions in insertion order.
type Store struct {
	mu   sync.RWMutex
	subs []puzzle.Submission
}

// NewStore constructs a Store.
func NewStore() *Store {
	return &Store{}
}

// Record appends a submission.
func (s *Store) Record(_ context.Context, sub puzzle.Submission) error {
	if sub.ID == "" {
		return errors.New("submission id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return nil
}

// List returns the submissions for ref, oldest first.
func (s *Store) List(_ context.Context, ref puzzle.Ref) ([]puzzle.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []puzzle.Submission
	for _, sub := range s.subs {
		if sub.Ref == ref {
			out = append(out, sub)
		}
	}
	return out, nil
}

// Close implements puzzle.HistoryStore; it performs no action.
func (s *Store) Close() {}
