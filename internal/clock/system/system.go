// Package system provides a real clock implementation.
package system

import (
	"time"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

// Clock implements puzzle.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time in the puzzle time zone.
func (Clock) Now() time.Time {
	return time.Now().In(puzzle.Location)
}
