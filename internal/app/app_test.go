package app_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/aocbud/internal/app"
	"github.com/JakeFAU/aocbud/internal/classify"
	"github.com/JakeFAU/aocbud/internal/config"
	"github.com/JakeFAU/aocbud/internal/puzzle"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// stubStream answers every request with the same reply.
type stubStream struct {
	io.Reader
}

func (stubStream) Write(p []byte) (int, error) { return len(p), nil }
func (stubStream) Close() error                { return nil }

type stubOpener struct{ reply string }

func (o stubOpener) Open(context.Context, string, int) (io.ReadWriteCloser, error) {
	return stubStream{Reader: strings.NewReader(o.reply)}, nil
}

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Session: "abc123",
		Host:    "adventofcode.com",
		Port:    443,
		Cache:   config.CacheConfig{Dir: filepath.Join(t.TempDir(), "aoc_inputs")},
		History: config.HistoryConfig{Provider: config.HistoryMemory},
		Metrics: config.MetricsConfig{Textfile: filepath.Join(t.TempDir(), "aoc.prom")},
	}
}

func TestNewAppWiresSession(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	clock := fixedClock{t: time.Date(2023, 12, 1, 9, 0, 0, 0, puzzle.Location)}
	a, err := app.NewApp(context.Background(), cfg, nil,
		app.WithOpener(stubOpener{reply: "HTTP/1.1 200 OK\r\n\r\n10\n20\n30"}),
		app.WithClock(clock),
	)
	require.NoError(t, err)
	require.NotNil(t, a.GetSession())
	require.NotNil(t, a.GetLogger())
	assert.Equal(t, cfg.Session, a.GetConfig().Session)

	out, err := a.GetSession().FetchInput(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, classify.Content("10\n20\n30"), out)
	assert.FileExists(t, filepath.Join(cfg.Cache.Dir, "1_2023.input"))

	a.Close()
	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "aoc_cache_lookups_total")
}

func TestNewAppHistoryProviders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider string
		dsn      string
		wantErr  string
	}{
		{name: "file", provider: config.HistoryFile},
		{name: "memory", provider: config.HistoryMemory},
		{name: "none", provider: config.HistoryNone},
		{name: "unknown", provider: "sqlite", wantErr: "unknown history provider"},
		{name: "postgres bad dsn", provider: config.HistoryPostgres, dsn: "://not a dsn", wantErr: "init history"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := baseConfig(t)
			cfg.History.Provider = tt.provider
			cfg.History.DSN = tt.dsn

			a, err := app.NewApp(context.Background(), cfg, nil, app.WithOpener(stubOpener{}))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer a.Close()

			subs, err := a.GetSession().History(context.Background(), &puzzle.Ref{Day: 1, Year: 2023})
			require.NoError(t, err)
			assert.Empty(t, subs)
		})
	}
}

func TestNewAppRejectsMissingCredential(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Session = ""
	_, err := app.NewApp(context.Background(), cfg, nil, app.WithOpener(stubOpener{}))
	require.Error(t, err)
}

func TestFileHistorySurvivesNewApp(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.History.Provider = config.HistoryFile
	clock := app.WithClock(fixedClock{t: time.Date(2023, 12, 1, 9, 0, 0, 0, puzzle.Location)})
	ctx := context.Background()

	first, err := app.NewApp(ctx, cfg, nil,
		app.WithOpener(stubOpener{reply: "HTTP/1.1 200 OK\r\n\r\n<p>That's not the right answer.</p>"}),
		clock,
	)
	require.NoError(t, err)
	out, err := first.GetSession().SubmitLevel1(ctx, nil, "42")
	require.NoError(t, err)
	require.Equal(t, classify.SolutionIncorrect(), out)
	first.Close()

	second, err := app.NewApp(ctx, cfg, nil, app.WithOpener(stubOpener{}), clock)
	require.NoError(t, err)
	defer second.Close()

	subs, err := second.GetSession().History(ctx, nil)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "42", subs[0].Answer)
	assert.Equal(t, string(classify.KindSolutionIncorrect), subs[0].Outcome)
	assert.FileExists(t, filepath.Join(cfg.Cache.Dir, "submissions.jsonl"))
}
