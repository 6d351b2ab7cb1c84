// Package monitor exposes health and counters over HTTP.
package monitor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newswatch/internal/logger"
	"github.com/deusflow/newswatch/internal/metrics"
)

// StatsProvider is anything that can report a stats map, such as the AI
// budget.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

type Server struct {
	metrics *metrics.Metrics
	budget  StatsProvider
	engine  *gin.Engine
}

// NewServer builds the router. budget may be nil.
func NewServer(m *metrics.Metrics, budget StatsProvider) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{metrics: m, budget: budget, engine: gin.New()}
	s.engine.Use(gin.Recovery())
	s.engine.GET("/health", s.health)
	s.engine.GET("/metrics", s.stats)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	stats := s.metrics.GetStats()

	status := "ok"
	code := http.StatusOK
	if !s.metrics.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) stats(c *gin.Context) {
	stats := s.metrics.GetStats()
	if s.budget != nil {
		stats["ai_budget"] = s.budget.GetStats()
	}
	c.JSON(http.StatusOK, stats)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting monitoring server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
