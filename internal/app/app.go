// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/JakeFAU/aocbud/internal/cache"
	"github.com/JakeFAU/aocbud/internal/clock/system"
	"github.com/JakeFAU/aocbud/internal/config"
	"github.com/JakeFAU/aocbud/internal/history"
	historyfile "github.com/JakeFAU/aocbud/internal/history/file"
	historymem "github.com/JakeFAU/aocbud/internal/history/memory"
	historypg "github.com/JakeFAU/aocbud/internal/history/postgres"
	"github.com/JakeFAU/aocbud/internal/id/uuid"
	"github.com/JakeFAU/aocbud/internal/metrics"
	"github.com/JakeFAU/aocbud/internal/puzzle"
	"github.com/JakeFAU/aocbud/internal/session"
	"github.com/JakeFAU/aocbud/internal/storage/gcs"
	"github.com/JakeFAU/aocbud/internal/transport"
)

// App holds the services built from one Config for the life of a command.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	session   *session.Session
	history   puzzle.HistoryStore
	gcsClient *storage.Client
}

// Option customises NewApp.
type Option func(*options)

type options struct {
	opener transport.Opener
	clock  puzzle.Clock
}

// WithOpener replaces the TLS opener (tests point it at a local server).
func WithOpener(o transport.Opener) Option {
	return func(opts *options) { opts.opener = o }
}

// WithClock replaces the system clock.
func WithClock(c puzzle.Clock) Option {
	return func(opts *options) { opts.clock = c }
}

// GetLogger returns the shared zap logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetSession returns the client facade.
func (a *App) GetSession() *session.Session {
	return a.session
}

// GetConfig returns the configuration the app was built from.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// NewApp wires the cache, optional GCS mirror, history store and session.
// It fails fast when a configured backend cannot be initialized.
func NewApp(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = system.New()
	}
	if o.opener == nil {
		o.opener = transport.NewTLSOpener(transport.Config{
			DialTimeout:      cfg.Transport.DialTimeout,
			HandshakeTimeout: cfg.Transport.HandshakeTimeout,
			ReadTimeout:      cfg.Transport.ReadTimeout,
		})
	}
	metrics.Init()

	a := &App{cfg: cfg, logger: logger}

	cacheOpts := []cache.Option{cache.WithLogger(logger.Named("cache"))}
	if cfg.Cache.GCSBucket != "" {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create gcs client: %w", err)
		}
		mirror, err := gcs.New(client, gcs.Config{Bucket: cfg.Cache.GCSBucket, Prefix: cfg.Cache.GCSPrefix})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("init cache mirror: %w", err)
		}
		logger.Info("mirroring cache to GCS", zap.String("bucket", cfg.Cache.GCSBucket))
		a.gcsClient = client
		cacheOpts = append(cacheOpts, cache.WithMirror(mirror))
	}
	store, err := cache.New(cache.Config{Dir: cfg.Cache.Dir}, cacheOpts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}

	hist, err := newHistory(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.history = hist

	sess, err := session.New(
		session.Config{
			Token:     cfg.Session,
			Host:      cfg.Host,
			Port:      cfg.Port,
			UserAgent: cfg.UserAgent,
		},
		o.opener,
		store,
		o.clock,
		hist,
		uuid.New(),
		logger.Named("session"),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init session: %w", err)
	}
	a.session = sess
	return a, nil
}

func newHistory(ctx context.Context, cfg config.Config, logger *zap.Logger) (puzzle.HistoryStore, error) {
	hc := cfg.History
	switch hc.Provider {
	case config.HistoryFile, "":
		store, err := historyfile.New(cfg.HistoryPath(), logger.Named("history"))
		if err != nil {
			return nil, fmt.Errorf("init history: %w", err)
		}
		return store, nil
	case config.HistoryPostgres:
		logger.Info("recording submissions in Postgres", zap.String("table", hc.Table))
		store, err := historypg.New(ctx, historypg.Config{DSN: hc.DSN, Table: hc.Table, MaxConns: hc.MaxConns})
		if err != nil {
			return nil, fmt.Errorf("init history: %w", err)
		}
		return store, nil
	case config.HistoryNone:
		return history.Nop{}, nil
	case config.HistoryMemory:
		return historymem.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown history provider: %s", hc.Provider)
	}
}

// Close flushes metrics and releases backends. It is safe on a partially
// built App.
func (a *App) Close() {
	if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.logger.Warn("metrics not written", zap.Error(err))
	}
	if a.history != nil {
		a.history.Close()
	}
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil {
			a.logger.Warn("error closing gcs client", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
