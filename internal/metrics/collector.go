// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpTurn           = "turn"
	OpLLMClassify    = "llm_classify"
	OpLLMExtract     = "llm_extract"
	OpLLMGenerate    = "llm_generate"
	OpEmbedding      = "embedding"
	OpDBQuery        = "db_query"
	OpTrackingLookup = "tracking_lookup"
	OpMailDispatch   = "mail_dispatch"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	Failures    int64   `json:"failures"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`
}

// Snapshot represents the full engine statistics at a point in time.
type Snapshot struct {
	UptimeSeconds  float64            `json:"uptime_seconds"`
	Turn           *OperationSnapshot `json:"turn,omitempty"`
	LLMClassify    *OperationSnapshot `json:"llm_classify,omitempty"`
	LLMExtract     *OperationSnapshot `json:"llm_extract,omitempty"`
	LLMGenerate    *OperationSnapshot `json:"llm_generate,omitempty"`
	Embedding      *OperationSnapshot `json:"embedding,omitempty"`
	DBQuery        *OperationSnapshot `json:"db_query,omitempty"`
	TrackingLookup *OperationSnapshot `json:"tracking_lookup,omitempty"`
	MailDispatch   *OperationSnapshot `json:"mail_dispatch,omitempty"`
}

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for a successful operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.record(op, duration, false)
}

// RecordFailure records timing for a failed operation.
func (c *Collector) RecordFailure(op string, duration time.Duration) {
	c.record(op, duration, true)
}

func (c *Collector) record(op string, duration time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	if failed {
		m.Failures++
	}
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}
	return &OperationSnapshot{
		Count:       m.Count,
		Failures:    m.Failures,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds:  time.Since(c.startTime).Seconds(),
		Turn:           snapshotOp(c.ops[OpTurn]),
		LLMClassify:    snapshotOp(c.ops[OpLLMClassify]),
		LLMExtract:     snapshotOp(c.ops[OpLLMExtract]),
		LLMGenerate:    snapshotOp(c.ops[OpLLMGenerate]),
		Embedding:      snapshotOp(c.ops[OpEmbedding]),
		DBQuery:        snapshotOp(c.ops[OpDBQuery]),
		TrackingLookup: snapshotOp(c.ops[OpTrackingLookup]),
		MailDispatch:   snapshotOp(c.ops[OpMailDispatch]),
	}
}
