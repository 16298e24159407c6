// Package metrics provides observability for the arena server.
// Counters are cheap atomics sampled by the JSON endpoint.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Engine operation metrics
	OpsExecuted  int64
	OpErrors     int64
	OpSoftErrors int64
	OpLatencySum int64 // nanoseconds
	OpLatencyMax int64
	LockWaitSum  int64
	LockWaitMax  int64

	// Store metrics
	StoreReads       int64
	StoreWrites      int64
	StoreWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordOp records one completed engine operation.
func (c *Collector) RecordOp(latency time.Duration, lockWait time.Duration) {
	atomic.AddInt64(&c.OpsExecuted, 1)
	atomic.AddInt64(&c.OpLatencySum, int64(latency))
	atomic.AddInt64(&c.LockWaitSum, int64(lockWait))

	// Max updates are non-atomic but acceptable for metrics
	if int64(latency) > atomic.LoadInt64(&c.OpLatencyMax) {
		atomic.StoreInt64(&c.OpLatencyMax, int64(latency))
	}
	if int64(lockWait) > atomic.LoadInt64(&c.LockWaitMax) {
		atomic.StoreInt64(&c.LockWaitMax, int64(lockWait))
	}
}

// RecordOpError records a structural operation failure.
func (c *Collector) RecordOpError() {
	atomic.AddInt64(&c.OpErrors, 1)
}

// RecordOpSoftError records a user-addressed soft failure.
func (c *Collector) RecordOpSoftError() {
	atomic.AddInt64(&c.OpSoftErrors, 1)
}

// RecordStoreRead records an arena load.
func (c *Collector) RecordStoreRead() {
	atomic.AddInt64(&c.StoreReads, 1)
}

// RecordStoreWrite records an arena persist and its outcome.
func (c *Collector) RecordStoreWrite(err error) {
	atomic.AddInt64(&c.StoreWrites, 1)
	if err != nil {
		atomic.AddInt64(&c.StoreWriteErrors, 1)
	}
}

// WSConnect / WSDisconnect track active websocket clients.
func (c *Collector) WSConnect() {
	atomic.AddInt64(&c.WSConnectionsActive, 1)
}

func (c *Collector) WSDisconnect() {
	atomic.AddInt64(&c.WSConnectionsActive, -1)
}

// RecordWSMessage tracks message flow; in=true for client->server.
func (c *Collector) RecordWSMessage(in bool) {
	if in {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError tracks websocket write/parse failures.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns the current metrics as a nested map.
func (c *Collector) Snapshot() map[string]interface{} {
	ops := atomic.LoadInt64(&c.OpsExecuted)
	avgLatencyMs := float64(0)
	avgLockWaitMs := float64(0)
	if ops > 0 {
		avgLatencyMs = float64(atomic.LoadInt64(&c.OpLatencySum)) / float64(ops) / 1e6
		avgLockWaitMs = float64(atomic.LoadInt64(&c.LockWaitSum)) / float64(ops) / 1e6
	}

	return map[string]interface{}{
		"uptime_sec": int64(time.Since(c.StartTime).Seconds()),
		"engine": map[string]interface{}{
			"ops":              ops,
			"errors":           atomic.LoadInt64(&c.OpErrors),
			"soft_errors":      atomic.LoadInt64(&c.OpSoftErrors),
			"avg_latency_ms":   avgLatencyMs,
			"max_latency_ms":   float64(atomic.LoadInt64(&c.OpLatencyMax)) / 1e6,
			"avg_lock_wait_ms": avgLockWaitMs,
			"max_lock_wait_ms": float64(atomic.LoadInt64(&c.LockWaitMax)) / 1e6,
		},
		"store": map[string]interface{}{
			"reads":        atomic.LoadInt64(&c.StoreReads),
			"writes":       atomic.LoadInt64(&c.StoreWrites),
			"write_errors": atomic.LoadInt64(&c.StoreWriteErrors),
		},
		"websocket": map[string]interface{}{
			"active":       atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":  atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out": atomic.LoadInt64(&c.WSMessagesOut),
			"errors":       atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler serves the collector as JSON for scraping and load tests.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(collector.Snapshot())
	})
}
