package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	EntriesSeen     int64
	Duplicates      int64
	MissingID       int64
	KeywordFiltered int64
	StaleFiltered   int64
	FeedErrors      int64
	AISuccesses     int64
	AIFailures      int64
	Fallbacks       int64
	Sent            int64
	SendFailures    int64

	// Timings
	LastSweepDuration    time.Duration
	AverageSweepDuration time.Duration
	TotalSweepDuration   time.Duration
	SweepCount           int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) add(counter *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter++
}

func (m *Metrics) IncrementEntriesSeen()     { m.add(&m.EntriesSeen) }
func (m *Metrics) IncrementDuplicates()      { m.add(&m.Duplicates) }
func (m *Metrics) IncrementMissingID()       { m.add(&m.MissingID) }
func (m *Metrics) IncrementKeywordFiltered() { m.add(&m.KeywordFiltered) }
func (m *Metrics) IncrementStaleFiltered()   { m.add(&m.StaleFiltered) }
func (m *Metrics) IncrementAISuccess()       { m.add(&m.AISuccesses) }
func (m *Metrics) IncrementAIFailure()       { m.add(&m.AIFailures) }
func (m *Metrics) IncrementFallback()        { m.add(&m.Fallbacks) }
func (m *Metrics) IncrementSent()            { m.add(&m.Sent) }

// RecordFeedError counts a failed fetch. Feed errors do not mark the
// process unhealthy since other feeds keep flowing.
func (m *Metrics) RecordFeedError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedErrors++
	m.LastError = err.Error()
	m.LastErrorTime = time.Now()
}

// RecordSendFailure counts a failed delivery and flips health until the next
// successful sweep.
func (m *Metrics) RecordSendFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendFailures++
	m.LastError = err.Error()
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) RecordSweep(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastSweepDuration = duration
	m.TotalSweepDuration += duration
	m.SweepCount++
	m.AverageSweepDuration = m.TotalSweepDuration / time.Duration(m.SweepCount)
}

// SetLastRun marks a completed sweep; healthy unless a send failed in it.
func (m *Metrics) SetLastRun(healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = healthy
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"entries_seen":     m.EntriesSeen,
		"duplicates":       m.Duplicates,
		"missing_id":       m.MissingID,
		"keyword_filtered": m.KeywordFiltered,
		"stale_filtered":   m.StaleFiltered,
		"feed_errors":      m.FeedErrors,
		"ai_successes":     m.AISuccesses,
		"ai_failures":      m.AIFailures,
		"fallbacks":        m.Fallbacks,
		"sent":             m.Sent,
		"send_failures":    m.SendFailures,
		"sweeps":           m.SweepCount,
		"last_sweep_ms":    m.LastSweepDuration.Milliseconds(),
		"average_sweep_ms": m.AverageSweepDuration.Milliseconds(),
		"last_run_time":    m.LastRunTime.Format(time.RFC3339),
		"last_error_time":  m.LastErrorTime.Format(time.RFC3339),
		"last_error":       m.LastError,
		"is_healthy":       m.IsHealthy,
	}
}
