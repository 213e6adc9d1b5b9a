package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIdempotent(t *testing.T) {
	Init()
	Init()

	if exchangesTotal == nil || exchangeDurationSeconds == nil ||
		outcomesTotal == nil || cacheLookupsTotal == nil || cacheWriteFailuresTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveCounters(t *testing.T) {
	Init()

	beforeOK := testutil.ToFloat64(exchangesTotal.WithLabelValues("GET", "ok"))
	beforeErr := testutil.ToFloat64(exchangesTotal.WithLabelValues("POST", "error"))
	ObserveExchange("get", nil, 10*time.Millisecond)
	ObserveExchange("POST", errors.New("boom"), time.Millisecond)
	if got := testutil.ToFloat64(exchangesTotal.WithLabelValues("GET", "ok")); got != beforeOK+1 {
		t.Errorf("expected GET ok to be %v, got %v", beforeOK+1, got)
	}
	if got := testutil.ToFloat64(exchangesTotal.WithLabelValues("POST", "error")); got != beforeErr+1 {
		t.Errorf("expected POST error to be %v, got %v", beforeErr+1, got)
	}

	beforeHit := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("input", "hit"))
	ObserveCacheLookup("input", true)
	if got := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("input", "hit")); got != beforeHit+1 {
		t.Errorf("expected cache hit to be %v, got %v", beforeHit+1, got)
	}

	beforeOutcome := testutil.ToFloat64(outcomesTotal.WithLabelValues("solution_correct"))
	ObserveOutcome("solution_correct")
	if got := testutil.ToFloat64(outcomesTotal.WithLabelValues("solution_correct")); got != beforeOutcome+1 {
		t.Errorf("expected outcome to be %v, got %v", beforeOutcome+1, got)
	}

	beforeFail := testutil.ToFloat64(cacheWriteFailuresTotal)
	ObserveCacheWriteFailure()
	if got := testutil.ToFloat64(cacheWriteFailuresTotal); got != beforeFail+1 {
		t.Errorf("expected write failures to be %v, got %v", beforeFail+1, got)
	}
}

func TestWriteTextfile(t *testing.T) {
	Init()
	ObserveOutcome("content")

	if err := WriteTextfile(""); err != nil {
		t.Fatalf("empty path should be a no-op, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "aocbud.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	// #nosec G304 -- test reads from the controlled temp directory.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "aoc_outcomes_total") {
		t.Fatalf("expected outcomes metric in textfile, got:\n%s", data)
	}
}
