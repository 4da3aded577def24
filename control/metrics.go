// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for packet and pool accounting.
// Static values are set directly; sources are sampled on every snapshot.

package control

import (
	"sync"
	"time"

	"github.com/momentics/hioload-packet/api"
	"github.com/momentics/hioload-packet/packet"
)

// MetricsRegistry holds mutable metrics and sampled sources.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	sources map[string]func() any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
		sources: make(map[string]func() any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// RegisterSource adds a named probe sampled by GetSnapshot.
func (mr *MetricsRegistry) RegisterSource(name string, fn func() any) {
	mr.mu.Lock()
	mr.sources[name] = fn
	mr.mu.Unlock()
}

// RegisterPacketStats exposes process-wide packet counters under "packet".
func (mr *MetricsRegistry) RegisterPacketStats() {
	mr.RegisterSource("packet", func() any { return packet.ReadStats() })
}

// RegisterPool exposes pool counters under "pool.<name>".
func (mr *MetricsRegistry) RegisterPool(name string, bp api.BufferPool) {
	mr.RegisterSource("pool."+name, func() any { return bp.Stats() })
}

// GetSnapshot returns the latest metrics merged with fresh source samples.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics)+len(mr.sources))
	for k, v := range mr.metrics {
		out[k] = v
	}
	for k, fn := range mr.sources {
		out[k] = fn()
	}
	return out
}

// Updated returns the time of the last Set.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
