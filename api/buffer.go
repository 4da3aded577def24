// Package api
// Author: momentics <momentics@gmail.com>
//
// Reference-counted byte buffers and the pool that hands them out.
//
// A packet consumes buffers only through these interfaces; the concrete
// implementation lives in package pool and test doubles in package fake.

package api

// Buffer describes a growable, reference-counted memory region.
//
// The current length is the number of valid bytes; capacity is the size of
// the backing storage. Mutating accessors are only allowed while the caller
// holds the sole reference.
type Buffer interface {
	// Ref takes an extra reference on the buffer.
	Ref()

	// Unref drops a reference. The last Unref returns storage to its pool.
	Unref() error

	// RefCount returns the current number of references.
	RefCount() int

	// Data returns a mutable view data[:len:cap].
	// Fails with ErrPermission while the buffer is shared.
	Data() ([]byte, error)

	// CData returns a read-only view data[:len:cap].
	CData() []byte

	// SetLen sets the number of valid bytes.
	// Fails with ErrPermission while shared and ErrCapacityExceeded when n > cap.
	SetLen(n int) error
}

// BufferPool abstracts memory region management for buffers.
type BufferPool interface {
	// New returns an empty buffer with at least capacity bytes of storage.
	New(capacity int) (Buffer, error)

	// NewWithData returns a buffer holding a copy of data; len == cap == len(data).
	NewWithData(data []byte) (Buffer, error)

	// Stats exposes resource/accounting metrics for observability.
	Stats() BufferPoolStats
}

// BufferPoolStats aggregates buffer allocation/reuse stats.
type BufferPoolStats struct {
	TotalAlloc int64
	TotalFree  int64
	Reused     int64
	InUse      int64
	InUseBytes int64
	Cached     int64 // released slabs held for reuse
}
