package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/deusflow/newswatch/internal/analysis"
	"github.com/deusflow/newswatch/internal/config"
	"github.com/deusflow/newswatch/internal/feed"
	"github.com/deusflow/newswatch/internal/filter"
	"github.com/deusflow/newswatch/internal/gemini"
	"github.com/deusflow/newswatch/internal/logger"
	"github.com/deusflow/newswatch/internal/metrics"
	"github.com/deusflow/newswatch/internal/monitor"
	"github.com/deusflow/newswatch/internal/openai"
	"github.com/deusflow/newswatch/internal/ratelimit"
	"github.com/deusflow/newswatch/internal/retry"
	"github.com/deusflow/newswatch/internal/seen"
	"github.com/deusflow/newswatch/internal/telegram"
	"github.com/deusflow/newswatch/internal/watch"
)

type Options struct {
	EnvFile string `long:"env-file" description:"Path to a .env file (default: ./.env when present)"`
	Once    bool   `long:"once" description:"Run a single sweep and exit"`
	Debug   bool   `long:"debug" description:"Enable debug logging"`
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		logger.Error("Failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	logger.Init(opts.Debug || (cfg != nil && cfg.Debug))
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts.Once); err != nil {
		logger.Error("newswatch stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, once bool) error {
	keyword, err := filter.NewKeyword(cfg.Keywords)
	if err != nil {
		return err
	}

	seenSet := seen.New(cfg.SeenCapacity)
	if cfg.SeenStatePath != "" {
		if err := seenSet.Load(cfg.SeenStatePath); err != nil {
			logger.Warn("Failed to load seen state, starting empty", "path", cfg.SeenStatePath, "error", err)
		} else {
			logger.Info("Loaded seen state", "path", cfg.SeenStatePath, "ids", seenSet.Len())
		}
	}

	budget := ratelimit.NewBudget(cfg.MaxAIRequests, cfg.AIRequestsPerMinute)
	engineOpts := []analysis.Option{
		analysis.WithLimiter(budget),
		analysis.WithTimeout(cfg.AITimeout),
	}
	analyzer, closeAnalyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		logger.Warn("AI analyzer unavailable, using fallback analysis only", "provider", cfg.AIProvider, "error", err)
	} else if analyzer != nil {
		defer closeAnalyzer()
		engineOpts = append(engineOpts, analysis.WithAnalyzer(analyzer))
		logger.Info("AI analysis enabled", "provider", analyzer.Name())
	}

	sink := telegram.NewClient(cfg.TelegramToken, cfg.TelegramChatID).
		WithRetry(retry.RetryConfig{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true})

	w := watch.New(watch.Config{
		Feeds:             cfg.Feeds,
		Interval:          cfg.PollInterval,
		MaxEntriesPerFeed: cfg.MaxEntriesPerFeed,
		StatePath:         cfg.SeenStatePath,
	}, watch.Deps{
		Source:    feed.NewGofeedSource(cfg.FeedTimeout),
		Seen:      seenSet,
		Keyword:   keyword,
		Freshness: filter.NewFreshness(cfg.MaxAgeHours),
		Engine:    analysis.NewEngine(engineOpts...),
		Sink:      sink,
		Metrics:   metrics.Global,
	})

	if once {
		stats := w.Sweep(ctx)
		logger.Info("Single sweep finished",
			"feeds", stats.Feeds,
			"feed_errors", stats.FeedErrors,
			"sent", stats.Decisions[watch.Sent])
		return nil
	}

	if cfg.Monitoring {
		srv := monitor.NewServer(metrics.Global, budget)
		go func() {
			if err := srv.ListenAndServe(ctx, ":"+cfg.MonitoringPort); err != nil {
				logger.Error("Monitoring server error", "error", err)
			}
		}()
	}

	return w.Run(ctx)
}

// newAnalyzer returns nil when no key is configured for the provider.
func newAnalyzer(ctx context.Context, cfg *config.Config) (analysis.Analyzer, func(), error) {
	if !cfg.AIEnabled() {
		return nil, func() {}, nil
	}

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIBaseURL != "" {
			return openai.NewClientWithBaseURL(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.AIModel), func() {}, nil
		}
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.AIModel), func() {}, nil
	default:
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.AIModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
}
