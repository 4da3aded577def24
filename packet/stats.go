// File: packet/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package packet

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger = zap.NewNop()

// SetLogger installs the logger used for lifecycle warnings. nil restores
// the no-op logger. Call it before packets are in use.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Named("packet")
}

// Stats is a snapshot of process-wide packet accounting.
type Stats struct {
	Created       int64
	Destroyed     int64
	Live          int64
	ForcedUnlinks int64
}

var stats struct {
	created       atomic.Int64
	destroyed     atomic.Int64
	forcedUnlinks atomic.Int64
}

// ReadStats returns the current counters.
func ReadStats() Stats {
	created := stats.created.Load()
	destroyed := stats.destroyed.Load()
	return Stats{
		Created:       created,
		Destroyed:     destroyed,
		Live:          created - destroyed,
		ForcedUnlinks: stats.forcedUnlinks.Load(),
	}
}
