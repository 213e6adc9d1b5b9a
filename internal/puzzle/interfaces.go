package puzzle

import (
	"context"
	"time"
)

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces request and record IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Submission is one answer sent to the remote site and how it was classified.
type Submission struct {
	ID          string        `json:"id"`
	Ref         Ref           `json:"ref"`
	Level       Level         `json:"level"`
	Answer      string        `json:"answer"`
	Outcome     string        `json:"outcome"`
	Detail      string        `json:"detail,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
	Duration    time.Duration `json:"duration"`
}

// HistoryStore persists submissions so repeated wrong answers can be spotted.
type HistoryStore interface {
	Record(ctx context.Context, sub Submission) error
	List(ctx context.Context, ref Ref) ([]Submission, error)
	Close()
}
