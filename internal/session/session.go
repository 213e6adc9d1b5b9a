package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/aocbud/internal/cache"
	"github.com/JakeFAU/aocbud/internal/classify"
	"github.com/JakeFAU/aocbud/internal/codec"
	"github.com/JakeFAU/aocbud/internal/history"
	"github.com/JakeFAU/aocbud/internal/id/uuid"
	"github.com/JakeFAU/aocbud/internal/metrics"
	"github.com/JakeFAU/aocbud/internal/puzzle"
	"github.com/JakeFAU/aocbud/internal/transport"
)

// Defaults for the remote endpoint.
const (
	DefaultHost      = "adventofcode.com"
	DefaultPort      = 443
	DefaultUserAgent = "github.com/JakeFAU/aocbud"
)

var (
	// ErrMissingCredential is returned when no session token is configured.
	ErrMissingCredential = errors.New("missing session credential")
	// ErrUnauthenticated is returned when the site serves the anonymous
	// notice instead of puzzle input, usually because the token expired.
	ErrUnauthenticated = errors.New("session token rejected: puzzle inputs differ by user")
)

// State names a step of an operation; it is attached to log lines.
type State string

// Operation states.
const (
	StateFetching    State = "fetching"
	StateCached      State = "cached"
	StateFetchFailed State = "fetch_failed"
	StateSubmitting  State = "submitting"
	StateSubmitted   State = "submitted"
	StateSubmitFail  State = "submit_failed"
)

// Config identifies the remote endpoint and the user.
type Config struct {
	Token     string
	Host      string
	Port      int
	UserAgent string
}

// Cache is the read-through store for idempotent content.
type Cache interface {
	Read(ctx context.Context, key cache.Key) (string, bool, error)
	Write(ctx context.Context, key cache.Key, text string) error
}

// Session drives the client's operations for one credential.
type Session struct {
	cfg     Config
	opener  transport.Opener
	cache   Cache
	clock   puzzle.Clock
	history puzzle.HistoryStore
	ids     puzzle.IDGenerator
	logger  *zap.Logger
}

// New constructs a Session. history, ids and logger may be nil.
func New(
	cfg Config,
	opener transport.Opener,
	store Cache,
	clock puzzle.Clock,
	hist puzzle.HistoryStore,
	ids puzzle.IDGenerator,
	logger *zap.Logger,
) (*Session, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingCredential
	}
	if opener == nil || store == nil || clock == nil {
		return nil, errors.New("session requires an opener, cache and clock")
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if hist == nil {
		hist = history.Nop{}
	}
	if ids == nil {
		ids = uuid.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		cfg:     cfg,
		opener:  opener,
		cache:   store,
		clock:   clock,
		history: hist,
		ids:     ids,
		logger:  logger,
	}, nil
}

// Today returns the puzzle that unlocked most recently.
func (s *Session) Today() puzzle.Ref {
	return puzzle.Today(s.clock)
}

// FetchInput returns the puzzle input for ref (today when nil), reading the
// cache first. A non-nil error wrapping cache.ErrCacheIO accompanies a valid
// Content outcome when the download could not be persisted.
func (s *Session) FetchInput(ctx context.Context, ref *puzzle.Ref) (classify.Outcome, error) {
	return s.fetchCached(ctx, puzzle.KindInput, puzzle.Resolve(ref, s.clock))
}

// FetchExampleInput returns the first example block of the puzzle page,
// reading the cache first. Cache write failures are reported as in FetchInput.
func (s *Session) FetchExampleInput(ctx context.Context, ref *puzzle.Ref) (classify.Outcome, error) {
	return s.fetchCached(ctx, puzzle.KindTest, puzzle.Resolve(ref, s.clock))
}

// FetchDescription returns the puzzle text. It is never cached because the
// page gains part two once part one is solved.
func (s *Session) FetchDescription(ctx context.Context, ref *puzzle.Ref) (classify.Outcome, error) {
	r := puzzle.Resolve(ref, s.clock)
	logger := s.operationLogger(r).With(zap.String("op", "describe"))

	resp, err := s.exchange(ctx, logger, codec.MethodGet, r, "", nil)
	if err != nil {
		return classify.Outcome{}, err
	}
	outcome := classify.ClassifyFetch(resp.Body)
	if !outcome.IsContent() {
		metrics.ObserveOutcome(string(outcome.Kind))
		return outcome, nil
	}
	text, err := classify.ArticleText(resp.Body)
	if err != nil {
		return classify.Outcome{}, fmt.Errorf("puzzle text for %s: %w", r, err)
	}
	metrics.ObserveOutcome(string(classify.KindContent))
	return classify.Content(text), nil
}

func (s *Session) fetchCached(ctx context.Context, kind puzzle.Kind, ref puzzle.Ref) (classify.Outcome, error) {
	key := cache.Key{Kind: kind, Ref: ref}
	logger := s.operationLogger(ref).With(zap.String("kind", string(kind)))

	text, hit, err := s.cache.Read(ctx, key)
	if err != nil {
		logger.Warn("cache read failed; fetching", zap.Error(err))
	}
	metrics.ObserveCacheLookup(string(kind), hit)
	if hit {
		logger.Debug("cache hit", zap.String("state", string(StateCached)))
		return classify.Content(text), nil
	}

	logger.Debug("cache miss", zap.String("state", string(StateFetching)))
	resp, err := s.exchange(ctx, logger, codec.MethodGet, ref, extraPath(kind), nil)
	if err != nil {
		logger.Warn("fetch failed", zap.String("state", string(StateFetchFailed)), zap.Error(err))
		return classify.Outcome{}, err
	}

	outcome := classify.ClassifyFetch(resp.Body)
	metrics.ObserveOutcome(string(outcome.Kind))
	if !outcome.IsContent() {
		logger.Info("puzzle unavailable", zap.String("outcome", string(outcome.Kind)))
		return outcome, nil
	}

	text, err = s.extract(kind, resp.Body)
	if err != nil {
		logger.Warn("fetch failed", zap.String("state", string(StateFetchFailed)), zap.Error(err))
		return classify.Outcome{}, fmt.Errorf("%s for %s: %w", kind, ref, err)
	}
	outcome = classify.Content(text)

	if err := s.cache.Write(ctx, key, text); err != nil {
		metrics.ObserveCacheWriteFailure()
		logger.Warn("fetched content not cached", zap.Error(err))
		return outcome, fmt.Errorf("persist %s: %w", key.Name(), err)
	}
	logger.Info("fetched and cached", zap.String("state", string(StateCached)), zap.Int("bytes", len(text)))
	return outcome, nil
}

func (s *Session) extract(kind puzzle.Kind, body string) (string, error) {
	if kind == puzzle.KindTest {
		return classify.ExtractExample(body)
	}
	if classify.NeedsLogin(body) {
		return "", ErrUnauthenticated
	}
	return body, nil
}

func extraPath(kind puzzle.Kind) string {
	if kind == puzzle.KindInput {
		return "/input"
	}
	return ""
}

// Submit posts answer for level and classifies the reply. The level is sent
// as given; the site rejects levels it does not expect.
func (s *Session) Submit(ctx context.Context, ref *puzzle.Ref, level puzzle.Level, answer string) (classify.Outcome, error) {
	r := puzzle.Resolve(ref, s.clock)
	logger := s.operationLogger(r).With(zap.Int("level", int(level)))
	logger.Debug("submitting answer", zap.String("state", string(StateSubmitting)))

	start := time.Now()
	resp, err := s.exchange(ctx, logger, codec.MethodPost, r, "/answer", codec.FormBody(int(level), answer))
	if err != nil {
		logger.Warn("submit failed", zap.String("state", string(StateSubmitFail)), zap.Error(err))
		return classify.Outcome{}, err
	}

	outcome := classify.ClassifySubmit(resp.Body)
	metrics.ObserveOutcome(string(outcome.Kind))
	logger.Info("answer classified",
		zap.String("state", string(StateSubmitted)),
		zap.String("outcome", string(outcome.Kind)),
		zap.String("detail", outcome.Text),
	)
	s.record(ctx, logger, r, level, answer, outcome, time.Since(start))
	return outcome, nil
}

// SubmitLevel1 submits an answer for part one.
func (s *Session) SubmitLevel1(ctx context.Context, ref *puzzle.Ref, answer string) (classify.Outcome, error) {
	return s.Submit(ctx, ref, puzzle.LevelOne, answer)
}

// SubmitLevel2 submits an answer for part two.
func (s *Session) SubmitLevel2(ctx context.Context, ref *puzzle.Ref, answer string) (classify.Outcome, error) {
	return s.Submit(ctx, ref, puzzle.LevelTwo, answer)
}

// History lists recorded submissions for ref (today when nil).
func (s *Session) History(ctx context.Context, ref *puzzle.Ref) ([]puzzle.Submission, error) {
	subs, err := s.history.List(ctx, puzzle.Resolve(ref, s.clock))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

func (s *Session) record(
	ctx context.Context,
	logger *zap.Logger,
	ref puzzle.Ref,
	level puzzle.Level,
	answer string,
	outcome classify.Outcome,
	took time.Duration,
) {
	id, err := s.ids.NewID()
	if err != nil {
		logger.Warn("submission not recorded", zap.Error(err))
		return
	}
	sub := puzzle.Submission{
		ID:          id,
		Ref:         ref,
		Level:       level,
		Answer:      answer,
		Outcome:     string(outcome.Kind),
		Detail:      outcome.Text,
		SubmittedAt: s.clock.Now(),
		Duration:    took,
	}
	if err := s.history.Record(ctx, sub); err != nil {
		logger.Warn("submission not recorded", zap.Error(err))
	}
}

func (s *Session) identity() codec.Identity {
	return codec.Identity{Host: s.cfg.Host, UserAgent: s.cfg.UserAgent, Token: s.cfg.Token}
}

func (s *Session) operationLogger(ref puzzle.Ref) *zap.Logger {
	logger := s.logger.With(zap.Int("day", ref.Day), zap.Int("year", ref.Year))
	if id, err := s.ids.NewID(); err == nil {
		logger = logger.With(zap.String("request_id", id))
	}
	return logger
}

// exchange performs exactly one request on a fresh stream and decodes the reply.
func (s *Session) exchange(
	ctx context.Context,
	logger *zap.Logger,
	method string,
	ref puzzle.Ref,
	extra string,
	body []byte,
) (codec.Response, error) {
	req := codec.NewRequest(method, ref.Path(), extra, s.identity(), body)
	start := time.Now()
	raw, err := transport.Exchange(ctx, s.opener, s.cfg.Host, s.cfg.Port, req.Encode())
	metrics.ObserveExchange(method, err, time.Since(start))
	if err != nil {
		return codec.Response{}, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	resp, err := codec.Decode(raw)
	if err != nil {
		return codec.Response{}, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	logger.Debug("exchange complete",
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(raw)),
		zap.Duration("dur", time.Since(start)),
	)
	return resp, nil
}
