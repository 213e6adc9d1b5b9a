package puzzle

import (
	"fmt"
	"time"
)

// Ref identifies a single puzzle. Values are not validated; an out-of-range
// day is passed through and fails remotely.
type Ref struct {
	Day  int `json:"day"`
	Year int `json:"year"`
}

// Path returns the remote resource path for the puzzle, e.g. /2023/day/1.
func (r Ref) Path() string {
	return fmt.Sprintf("/%d/day/%d", r.Year, r.Day)
}

func (r Ref) String() string {
	return fmt.Sprintf("%d day %d", r.Year, r.Day)
}

// Kind tags the cacheable content variants.
type Kind string

// Cacheable kinds.
const (
	KindInput Kind = "input"
	KindTest  Kind = "test"
)

// Level is the puzzle part an answer is submitted for.
type Level int

// Puzzle parts.
const (
	LevelOne Level = 1
	LevelTwo Level = 2
)

// Location is the time zone puzzles unlock in (midnight UTC-5).
var Location = time.FixedZone("UTC-5", -5*60*60)

// Today converts the clock's current time into a Ref in the puzzle time zone.
func Today(clock Clock) Ref {
	now := clock.Now().In(Location)
	return Ref{Day: now.Day(), Year: now.Year()}
}

// Resolve returns ref when set, otherwise today's puzzle.
func Resolve(ref *Ref, clock Clock) Ref {
	if ref != nil {
		return *ref
	}
	return Today(clock)
}
