// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake buffer and buffer pool implementations for testing.
// The fake buffer counts references without recycling anything, so tests
// can observe exactly how a consumer acquires and releases it.

package fake

import (
	"sync"

	"github.com/momentics/hioload-packet/api"
)

// Buffer is a fake implementation of api.Buffer.
type Buffer struct {
	mu       sync.Mutex
	data     []byte
	refs     int
	refCalls int
	released bool
}

// NewBuffer creates a buffer with the given capacity and one reference.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity), refs: 1}
}

func (b *Buffer) Ref() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refs++
	b.refCalls++
}

func (b *Buffer) Unref() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refs < 1 {
		return api.ErrRefUnderflow
	}
	b.refs--
	if b.refs == 0 {
		b.released = true
	}
	return nil
}

func (b *Buffer) RefCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refs
}

// RefCalls returns how many times Ref was called.
func (b *Buffer) RefCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refCalls
}

// Released reports whether the last reference was dropped.
func (b *Buffer) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

func (b *Buffer) Data() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refs > 1 {
		return nil, api.ErrPermission
	}
	return b.data, nil
}

func (b *Buffer) CData() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

func (b *Buffer) SetLen(n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 0 {
		return api.ErrInvalidArgument
	}
	if b.refs > 1 {
		return api.ErrPermission
	}
	if n > cap(b.data) {
		return api.ErrCapacityExceeded
	}
	b.data = b.data[:n]
	return nil
}

// BufferPool is a fake implementation of api.BufferPool. Set Fail to make
// every allocation report api.ErrOutOfMemory.
type BufferPool struct {
	mu        sync.Mutex
	Fail      bool
	allocated []*Buffer
}

// NewBufferPool creates a new fake buffer pool.
func NewBufferPool() *BufferPool {
	return &BufferPool{}
}

func (p *BufferPool) New(capacity int) (api.Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail {
		return nil, api.ErrOutOfMemory
	}
	b := NewBuffer(capacity)
	p.allocated = append(p.allocated, b)
	return b, nil
}

func (p *BufferPool) NewWithData(data []byte) (api.Buffer, error) {
	buf, err := p.New(len(data))
	if err != nil {
		return nil, err
	}
	b := buf.(*Buffer)
	b.data = append(b.data, data...)
	return b, nil
}

// Allocated returns every buffer handed out so far.
func (p *BufferPool) Allocated() []*Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Buffer, len(p.allocated))
	copy(out, p.allocated)
	return out
}

// Stats exposes resource/accounting metrics.
func (p *BufferPool) Stats() api.BufferPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	var st api.BufferPoolStats
	for _, b := range p.allocated {
		st.TotalAlloc++
		if b.Released() {
			st.TotalFree++
		} else {
			st.InUse++
			st.InUseBytes += int64(cap(b.CData()))
		}
	}
	return st
}

var (
	_ api.Buffer     = (*Buffer)(nil)
	_ api.BufferPool = (*BufferPool)(nil)
)
