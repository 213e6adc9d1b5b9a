// Package system exercises the real-time clock adapter.
package system

import (
	"testing"
	"time"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

// TestClockNowPuzzleZone ensures the clock reports time in UTC-5.
func TestClockNowPuzzleZone(t *testing.T) {
	t.Parallel()

	clk := New()
	before := time.Now().Add(-time.Second)
	got := clk.Now()
	after := time.Now().Add(time.Second)

	if got.Location() != puzzle.Location {
		t.Fatalf("expected puzzle location, got %v", got.Location())
	}
	if _, offset := got.Zone(); offset != -5*60*60 {
		t.Fatalf("expected -5h offset, got %d", offset)
	}
	if got.Before(before) || got.After(after) {
		t.Fatalf("expected %v to be between %v and %v", got, before, after)
	}
}

// TestClockNowMonotonic checks successive timestamps are non-decreasing.
func TestClockNowMonotonic(t *testing.T) {
	t.Parallel()

	clk := New()
	first := clk.Now()
	second := clk.Now()
	if second.Before(first) {
		t.Fatalf("expected second call %v to be >= first %v", second, first)
	}
}

// TestTodayFromSystemClock resolves a plausible puzzle reference.
func TestTodayFromSystemClock(t *testing.T) {
	t.Parallel()

	ref := puzzle.Today(New())
	if ref.Day < 1 || ref.Day > 31 || ref.Year < 2015 {
		t.Fatalf("unexpected ref %+v", ref)
	}
}
