package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/newswatch/internal/feed"
	"github.com/deusflow/newswatch/internal/logger"
	"github.com/deusflow/newswatch/internal/metrics"
	"github.com/deusflow/newswatch/internal/text"
	"github.com/deusflow/newswatch/internal/topic"
)

// ErrBudgetExhausted is returned when the limiter refuses an AI call.
var ErrBudgetExhausted = errors.New("ai request budget exhausted")

var errNoAnalyzer = errors.New("no ai analyzer configured")

// DefaultTimeout bounds a single AI call.
const DefaultTimeout = 20 * time.Second

// Analyzer is an external AI service. It returns the raw JSON payload; the
// engine owns parsing and validation.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (string, error)
	Name() string
}

// Limiter gates AI calls. A refusal sends the entry down the fallback path.
type Limiter interface {
	Allow() bool
}

// Engine resolves one Outcome per entry: AI first, local fallback otherwise.
type Engine struct {
	analyzer Analyzer
	limiter  Limiter
	timeout  time.Duration
	log      *slog.Logger
}

type Option func(*Engine)

// WithAnalyzer enables the AI path. A nil analyzer keeps it disabled.
func WithAnalyzer(a Analyzer) Option {
	return func(e *Engine) { e.analyzer = a }
}

func WithLimiter(l Limiter) Option {
	return func(e *Engine) { e.limiter = l }
}

// WithTimeout sets the hard per-call timeout; non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout, log: logger.With("analysis")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AIEnabled reports whether an analyzer is configured.
func (e *Engine) AIEnabled() bool {
	return e.analyzer != nil
}

// Analyze never fails: AI errors, timeouts and invalid payloads are logged
// and the local fallback is returned instead.
func (e *Engine) Analyze(ctx context.Context, entry *feed.Entry) Outcome {
	aggregate := text.Aggregate(entry)
	topics := topic.Classify(aggregate)

	result, err := e.tryAI(ctx, NewRequest(entry.Title, topics, aggregate))
	if err == nil {
		metrics.Global.IncrementAISuccess()
		return Outcome{Result: result, Source: SourceAI, Topics: topics}
	}
	switch {
	case errors.Is(err, errNoAnalyzer):
	case errors.Is(err, ErrBudgetExhausted):
		e.log.Debug("AI budget exhausted, using fallback", "title", entry.Title)
	default:
		metrics.Global.IncrementAIFailure()
		e.log.Warn("AI analysis failed, using fallback", "title", entry.Title, "error", err)
	}

	metrics.Global.IncrementFallback()
	return Outcome{
		Result: Fallback(entry.Title, text.PrimarySummary(entry), aggregate, topics),
		Source: SourceFallback,
		Topics: topics,
	}
}

type reply struct {
	payload string
	err     error
}

// tryAI runs the analyzer on its own goroutine so a service that ignores its
// context still cannot hold the caller past the timeout.
func (e *Engine) tryAI(ctx context.Context, req Request) (Result, error) {
	if e.analyzer == nil {
		return Result{}, errNoAnalyzer
	}
	if e.limiter != nil && !e.limiter.Allow() {
		return Result{}, ErrBudgetExhausted
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan reply, 1)
	go func() {
		payload, err := e.analyzer.Analyze(ctx, req)
		done <- reply{payload: payload, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return Result{}, fmt.Errorf("%s: %w", e.analyzer.Name(), r.err)
		}
		return ParseResult(r.payload)
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%s: %w", e.analyzer.Name(), ctx.Err())
	}
}
