package metrics

import (
	"sync"
	"time"
)

// Metrics tracks pipeline counters for the status and health endpoints.
// Instances are independent; there is no package-level global.
type Metrics struct {
	mu sync.RWMutex

	RunsStarted     int64
	RunsSucceeded   int64
	RunsFailed      int64
	RunsRejected    int64
	ItemsCollected  int64
	ItemsSelected   int64
	SummaryFailures int64

	LastRunAt    time.Time
	LastDuration time.Duration
	LastError    string
}

func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordRunStart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsStarted++
}

func (m *Metrics) RecordRunRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunsRejected++
}

func (m *Metrics) RecordRunEnd(collected, selected int, duration time.Duration, runErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ItemsCollected += int64(collected)
	m.ItemsSelected += int64(selected)
	m.LastRunAt = time.Now()
	m.LastDuration = duration

	if runErr != nil {
		m.RunsFailed++
		m.LastError = runErr.Error()
		return
	}
	m.RunsSucceeded++
	m.LastError = ""
}

func (m *Metrics) AddSummaryFailures(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryFailures += int64(n)
}

// Healthy reports whether the most recent run completed without a fatal error.
func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastError == ""
}

func (m *Metrics) Stats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{
		"runs_started":     m.RunsStarted,
		"runs_succeeded":   m.RunsSucceeded,
		"runs_failed":      m.RunsFailed,
		"runs_rejected":    m.RunsRejected,
		"items_collected":  m.ItemsCollected,
		"items_selected":   m.ItemsSelected,
		"summary_failures": m.SummaryFailures,
		"last_run_at":      m.LastRunAt.Format(time.RFC3339),
		"last_duration_ms": m.LastDuration.Milliseconds(),
		"last_error":       m.LastError,
		"healthy":          m.LastError == "",
	}
}
