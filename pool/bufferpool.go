// File: pool/bufferpool.go
// Package pool implements reference-counted buffer pooling with size class subpooling.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-packet/api"
)

// Predefined (power-of-two) buffer size classes (bytes)
// This table can be tuned for deployment needs.
var defaultSizeClasses = []int{
	2 * 1024,        // 2K
	4 * 1024,        // 4K
	8 * 1024,        // 8K
	16 * 1024,       // 16K
	32 * 1024,       // 32K
	64 * 1024,       // 64K
	128 * 1024,      // 128K
	256 * 1024,      // 256K
	512 * 1024,      // 512K
	1 * 1024 * 1024, // 1M
}

const defaultMaxFreePerClass = 4096

var logger = zap.NewNop()

// SetLogger installs the logger used for pool diagnostics. nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Options tunes a Pool.
type Options struct {
	// SizeClasses lists slab sizes in bytes. Requests above the largest class
	// are allocated exactly and never recycled.
	SizeClasses []int
	// MaxFreePerClass bounds the number of cached slabs per class (0 = unbounded).
	MaxFreePerClass int
	// MaxInUseBytes bounds outstanding storage; allocations beyond it fail
	// with api.ErrOutOfMemory (0 = unlimited).
	MaxInUseBytes int64
}

// DefaultOptions returns the stock size-class table without a memory limit.
func DefaultOptions() Options {
	classes := make([]int, len(defaultSizeClasses))
	copy(classes, defaultSizeClasses)
	return Options{
		SizeClasses:     classes,
		MaxFreePerClass: defaultMaxFreePerClass,
	}
}

// Pool hands out reference-counted Buffers backed by size-classed slabs.
type Pool struct {
	classes  []int
	slabs    []*slabPool
	maxInUse int64

	totalAlloc atomic.Int64
	totalFree  atomic.Int64
	reused     atomic.Int64
	inUseBytes atomic.Int64
}

// New builds a pool. Non-positive or duplicate size classes are dropped.
func New(opts Options) *Pool {
	classes := normalizeClasses(opts.SizeClasses)
	if len(classes) == 0 {
		classes = DefaultOptions().SizeClasses
	}
	p := &Pool{
		classes:  classes,
		slabs:    make([]*slabPool, len(classes)),
		maxInUse: opts.MaxInUseBytes,
	}
	for i, c := range classes {
		p.slabs[i] = newSlabPool(c, opts.MaxFreePerClass)
	}
	return p
}

func normalizeClasses(in []int) []int {
	out := make([]int, 0, len(in))
	for _, c := range in {
		if c > 0 {
			out = append(out, c)
		}
	}
	sort.Ints(out)
	uniq := out[:0]
	for i, c := range out {
		if i == 0 || c != out[i-1] {
			uniq = append(uniq, c)
		}
	}
	return uniq
}

// classIndex returns the smallest class >= size, or -1 if size exceeds all classes.
func (p *Pool) classIndex(size int) int {
	i := sort.SearchInts(p.classes, size)
	if i == len(p.classes) {
		return -1
	}
	return i
}

// Get returns an empty buffer with capacity exactly capacity bytes.
func (p *Pool) Get(capacity int) (*Buffer, error) {
	if capacity < 0 {
		return nil, api.ErrInvalidArgument.WithContext("capacity", capacity)
	}
	raw, class, err := p.allocRaw(capacity)
	if err != nil {
		return nil, err
	}
	b := &Buffer{
		raw:   raw,
		data:  raw[:0:capacity],
		class: class,
		pool:  p,
	}
	b.refs.Store(1)
	p.totalAlloc.Add(1)
	return b, nil
}

// New implements api.BufferPool.
func (p *Pool) New(capacity int) (api.Buffer, error) {
	b, err := p.Get(capacity)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NewWithData implements api.BufferPool: the buffer holds a copy of data.
func (p *Pool) NewWithData(data []byte) (api.Buffer, error) {
	if len(data) == 0 {
		return nil, api.ErrInvalidArgument.WithContext("len", 0)
	}
	b, err := p.Get(len(data))
	if err != nil {
		return nil, err
	}
	b.data = append(b.data, data...)
	return b, nil
}

// allocRaw reserves storage for capacity bytes, reusing a cached slab when possible.
func (p *Pool) allocRaw(capacity int) ([]byte, int, error) {
	class := p.classIndex(capacity)
	size := capacity
	if class >= 0 {
		size = p.classes[class]
	}
	if used := p.inUseBytes.Add(int64(size)); p.maxInUse > 0 && used > p.maxInUse {
		p.inUseBytes.Add(-int64(size))
		logger.Debug("buffer pool exhausted",
			zap.Int("capacity", capacity), zap.Int64("in_use_bytes", used-int64(size)))
		return nil, -1, api.ErrOutOfMemory.WithContext("capacity", capacity)
	}
	if class < 0 {
		return make([]byte, size), -1, nil
	}
	if raw := p.slabs[class].get(); raw != nil {
		p.reused.Add(1)
		return raw, class, nil
	}
	return make([]byte, size), class, nil
}

func (p *Pool) releaseRaw(raw []byte, class int) {
	p.inUseBytes.Add(-int64(cap(raw)))
	if class >= 0 {
		p.slabs[class].put(raw)
	}
}

// Stats implements api.BufferPool.
func (p *Pool) Stats() api.BufferPoolStats {
	alloc := p.totalAlloc.Load()
	free := p.totalFree.Load()
	var cached int
	for _, sp := range p.slabs {
		cached += sp.cached()
	}
	return api.BufferPoolStats{
		TotalAlloc: alloc,
		TotalFree:  free,
		Reused:     p.reused.Load(),
		InUse:      alloc - free,
		InUseBytes: p.inUseBytes.Load(),
		Cached:     int64(cached),
	}
}

var _ api.BufferPool = (*Pool)(nil)
