// Package watch drives the fixed-interval sweep over feeds and runs every
// new entry through dedup, filters, analysis and delivery.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/deusflow/newswatch/internal/analysis"
	"github.com/deusflow/newswatch/internal/feed"
	"github.com/deusflow/newswatch/internal/filter"
	"github.com/deusflow/newswatch/internal/logger"
	"github.com/deusflow/newswatch/internal/metrics"
	"github.com/deusflow/newswatch/internal/notify"
	"github.com/deusflow/newswatch/internal/seen"
)

const (
	DefaultInterval          = 180 * time.Second
	DefaultMaxEntriesPerFeed = 20

	untitled = "(Untitled)"
)

type Config struct {
	Feeds             []string
	Interval          time.Duration
	MaxEntriesPerFeed int
	// StatePath, when set, receives a snapshot of the seen set after every
	// sweep.
	StatePath string
}

// Deps are the collaborators of a Watcher. Keyword, Freshness and Metrics
// may be nil.
type Deps struct {
	Source    feed.Source
	Seen      *seen.Set
	Keyword   *filter.Keyword
	Freshness *filter.Freshness
	Engine    *analysis.Engine
	Sink      notify.Sink
	Metrics   *metrics.Metrics
}

// Watcher is the single writer of its seen set; sweeps never overlap.
type Watcher struct {
	cfg       Config
	source    feed.Source
	seen      *seen.Set
	keyword   *filter.Keyword
	freshness *filter.Freshness
	engine    *analysis.Engine
	sink      notify.Sink
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func New(cfg Config, deps Deps) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MaxEntriesPerFeed <= 0 {
		cfg.MaxEntriesPerFeed = DefaultMaxEntriesPerFeed
	}
	w := &Watcher{
		cfg:       cfg,
		source:    deps.Source,
		seen:      deps.Seen,
		keyword:   deps.Keyword,
		freshness: deps.Freshness,
		engine:    deps.Engine,
		sink:      deps.Sink,
		metrics:   deps.Metrics,
		log:       logger.With("watch"),
	}
	if w.seen == nil {
		w.seen = seen.New(seen.DefaultCapacity)
	}
	if w.freshness == nil {
		w.freshness = filter.NewFreshness(0)
	}
	if w.engine == nil {
		w.engine = analysis.NewEngine()
	}
	if w.metrics == nil {
		w.metrics = metrics.Global
	}
	return w
}

// Run sweeps immediately and then every Interval after the previous sweep
// finished, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	pattern := w.keyword.String()
	if pattern == "" {
		pattern = "(tanpa filter)"
	}
	w.log.Info("Mulai memantau feed",
		"feeds", len(w.cfg.Feeds),
		"interval", w.cfg.Interval,
		"pattern", pattern,
		"ai", w.engine.AIEnabled())

	for {
		w.Sweep(ctx)

		timer := time.NewTimer(w.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info("Watcher stopping")
			return nil
		case <-timer.C:
		}
	}
}
