// File: pool/slab_pool.go
// Package pool implements size-class free lists for buffer storage.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"

	"github.com/eapache/queue"
)

// slabPool keeps released storage of one size class for reuse.
type slabPool struct {
	size    int
	maxFree int

	mu   sync.Mutex
	free *queue.Queue
}

func newSlabPool(size, maxFree int) *slabPool {
	return &slabPool{
		size:    size,
		maxFree: maxFree,
		free:    queue.New(),
	}
}

// get pops a previously released slab, or returns nil when none is cached.
func (sp *slabPool) get() []byte {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.free.Length() == 0 {
		return nil
	}
	return sp.free.Remove().([]byte)
}

// put caches a slab; returns false if the free list is full and the slab
// is left to the GC.
func (sp *slabPool) put(raw []byte) bool {
	if cap(raw) != sp.size {
		return false
	}
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.maxFree > 0 && sp.free.Length() >= sp.maxFree {
		return false
	}
	sp.free.Add(raw[:sp.size])
	return true
}

func (sp *slabPool) cached() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.free.Length()
}
