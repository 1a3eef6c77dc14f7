package chat

import (
	"sync/atomic"
	"time"
)

// Metrics tracks orchestrator counters using atomic operations for
// lock-free concurrency across sessions.
type Metrics struct {
	turns              atomic.Int64
	completions        atomic.Int64
	errors             atomic.Int64
	summaries          atomic.Int64
	summaryFailures    atomic.Int64
	extractionFailures atomic.Int64
	totalTokens        atomic.Int64
	totalLatency       atomic.Int64 // nanoseconds
}

func (m *Metrics) recordTurn() { m.turns.Add(1) }

func (m *Metrics) recordCompletion(tokens int, latency time.Duration) {
	m.completions.Add(1)
	m.totalTokens.Add(int64(tokens))
	m.totalLatency.Add(int64(latency))
}

func (m *Metrics) recordError()             { m.errors.Add(1) }
func (m *Metrics) recordSummary()           { m.summaries.Add(1) }
func (m *Metrics) recordSummaryFailure()    { m.summaryFailures.Add(1) }
func (m *Metrics) recordExtractionFailure() { m.extractionFailures.Add(1) }

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	completions := m.completions.Load()
	snap := MetricsSnapshot{
		Turns:              m.turns.Load(),
		Completions:        completions,
		Errors:             m.errors.Load(),
		Summaries:          m.summaries.Load(),
		SummaryFailures:    m.summaryFailures.Load(),
		ExtractionFailures: m.extractionFailures.Load(),
		TotalTokens:        m.totalTokens.Load(),
	}
	if completions > 0 {
		snap.AvgLatency = time.Duration(m.totalLatency.Load() / completions)
	}
	return snap
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Turns              int64         `json:"turns"`
	Completions        int64         `json:"completions"`
	Errors             int64         `json:"errors"`
	Summaries          int64         `json:"summaries"`
	SummaryFailures    int64         `json:"summary_failures"`
	ExtractionFailures int64         `json:"extraction_failures"`
	TotalTokens        int64         `json:"total_tokens"`
	AvgLatency         time.Duration `json:"avg_latency_ns"`
}
