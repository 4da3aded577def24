// File: pool/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reference-counted growable buffer handed out by Pool.

package pool

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-packet/api"
)

// Buffer implements api.Buffer on top of pooled slab storage.
type Buffer struct {
	refs atomic.Int32

	raw   []byte // full slab, returned to the pool on release
	data  []byte // raw[:len:cap]
	class int    // -1 for storage outside every size class
	pool  *Pool
}

// Ref takes an extra reference.
func (b *Buffer) Ref() {
	b.refs.Add(1)
}

// Unref drops a reference and recycles the storage when it was the last one.
func (b *Buffer) Unref() error {
	for {
		n := b.refs.Load()
		if n < 1 {
			logger.Warn("buffer unref with no reference held", zap.Int32("refs", n))
			return api.ErrRefUnderflow
		}
		if !b.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n == 1 {
			b.release()
		}
		return nil
	}
}

func (b *Buffer) release() {
	raw, class := b.raw, b.class
	b.raw, b.data = nil, nil
	b.pool.totalFree.Add(1)
	b.pool.releaseRaw(raw, class)
}

// RefCount returns the current number of references.
func (b *Buffer) RefCount() int {
	return int(b.refs.Load())
}

// IsShared reports whether more than one reference is held.
func (b *Buffer) IsShared() bool {
	return b.refs.Load() > 1
}

// Data returns the mutable view; only the sole owner may write.
func (b *Buffer) Data() ([]byte, error) {
	if b.IsShared() {
		return nil, api.ErrPermission.WithContext("refs", b.RefCount())
	}
	return b.data, nil
}

// CData returns the read-only view.
func (b *Buffer) CData() []byte {
	return b.data
}

// Len returns the number of valid bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the storage capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// SetLen sets the number of valid bytes.
func (b *Buffer) SetLen(n int) error {
	if n < 0 {
		return api.ErrInvalidArgument.WithContext("len", n)
	}
	if b.IsShared() {
		return api.ErrPermission.WithContext("refs", b.RefCount())
	}
	if n > cap(b.data) {
		return api.ErrCapacityExceeded.WithContext("len", n).WithContext("cap", cap(b.data))
	}
	b.data = b.data[:n]
	return nil
}

// Reserve grows the capacity to at least n bytes, keeping the current content.
func (b *Buffer) Reserve(n int) error {
	if n < 0 {
		return api.ErrInvalidArgument.WithContext("capacity", n)
	}
	if b.IsShared() {
		return api.ErrPermission.WithContext("refs", b.RefCount())
	}
	if n <= cap(b.data) {
		return nil
	}
	if n <= cap(b.raw) {
		b.data = b.raw[:len(b.data):n]
		return nil
	}
	raw, class, err := b.pool.allocRaw(n)
	if err != nil {
		return err
	}
	data := raw[:len(b.data):n]
	copy(data, b.data)
	b.pool.releaseRaw(b.raw, b.class)
	b.raw, b.data, b.class = raw, data, class
	return nil
}

// Append copies p after the valid bytes, growing the storage if needed.
func (b *Buffer) Append(p []byte) error {
	if err := b.Reserve(len(b.data) + len(p)); err != nil {
		return err
	}
	b.data = append(b.data, p...)
	return nil
}

var _ api.Buffer = (*Buffer)(nil)
