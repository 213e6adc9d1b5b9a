// Package history records answer submissions. Implementations live in the
// memory and postgres subpackages and satisfy puzzle.HistoryStore.
package history

import (
	"context"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

// Nop discards submissions; it backs the "none" provider.
type Nop struct{}

// Record does nothing.
func (Nop) Record(context.Context, puzzle.Submission) error { return nil }

// List always returns no submissions.
func (Nop) List(context.Context, puzzle.Ref) ([]puzzle.Submission, error) { return nil, nil }

// Close does nothing.
func (Nop) Close() {}
