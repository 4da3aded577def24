// File: packet/packet.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Packet construction, reference counting and destruction.

package packet

import (
	"net/netip"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-packet/api"
	"github.com/momentics/hioload-packet/internal/ilist"
)

// QoSPriorityMax is the highest accepted QoS priority.
const QoSPriorityMax = 7

// ReleaseFunc is invoked once, when a packet carrying user data is destroyed.
type ReleaseFunc func(p *Packet, data any)

// storage is either *poolStorage or *rawStorage, fixed at construction.
type storage interface {
	isStorage()
}

type poolStorage struct {
	buf api.Buffer
}

// rawStorage describes caller-owned memory; capacity is len(data).
type rawStorage struct {
	data     []byte
	len      int
	readOnly bool
}

func (*poolStorage) isStorage() {}
func (*rawStorage) isStorage()  {}

type userExt struct {
	data    any
	release ReleaseFunc
}

// Packet is a reference-counted container for one datagram and its
// transport metadata. Create packets with the New* constructors or Clone.
type Packet struct {
	refs  atomic.Int32
	store storage

	// scatter-gather element reused by ReadVec/WriteVec
	iov [1]IOVec

	addr       netip.AddrPort
	timestamp  uint64
	priority   int
	importance uint32
	user       userExt

	node ilist.Node[*Packet]
	list *List
}

func newPacket(store storage) *Packet {
	p := &Packet{store: store}
	p.node.Init(p)
	p.refs.Store(1)
	stats.created.Add(1)
	return p
}

// New allocates a packet backed by a fresh pool buffer of the given capacity.
func New(pool api.BufferPool, capacity int) (*Packet, error) {
	if pool == nil || capacity < 0 {
		return nil, api.ErrInvalidArgument
	}
	buf, err := pool.New(capacity)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, api.ErrOutOfMemory.WithContext("capacity", capacity)
	}
	return newPacket(&poolStorage{buf: buf}), nil
}

// NewFromBuffer wraps an existing pool buffer, taking a reference on it.
func NewFromBuffer(buf api.Buffer) (*Packet, error) {
	if buf == nil {
		return nil, api.ErrInvalidArgument
	}
	buf.Ref()
	return newPacket(&poolStorage{buf: buf}), nil
}

// NewFromData wraps caller-owned memory without copying. The capacity is
// len(data) and the initial length is zero.
func NewFromData(data []byte) (*Packet, error) {
	if len(data) == 0 {
		return nil, api.ErrInvalidArgument.WithContext("cap", 0)
	}
	return newPacket(&rawStorage{data: data[:len(data):len(data)]}), nil
}

// NewFromConstData wraps caller-owned memory that the packet must never
// write. Mutable accessors on such a packet fail with api.ErrPermission.
func NewFromConstData(data []byte) (*Packet, error) {
	if len(data) == 0 {
		return nil, api.ErrInvalidArgument.WithContext("cap", 0)
	}
	return newPacket(&rawStorage{data: data[:len(data):len(data)], readOnly: true}), nil
}

// NewWithData allocates a pool buffer holding a copy of data.
func NewWithData(pool api.BufferPool, data []byte) (*Packet, error) {
	if pool == nil || len(data) == 0 {
		return nil, api.ErrInvalidArgument
	}
	buf, err := pool.NewWithData(data)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, api.ErrOutOfMemory.WithContext("capacity", len(data))
	}
	return newPacket(&poolStorage{buf: buf}), nil
}

// Clone returns a new unlinked packet with one reference that shares the
// pool buffer of p (or copies its raw-memory descriptor) and copies all of
// its metadata, the user extension and its release callback included.
func Clone(p *Packet) (*Packet, error) {
	if p == nil || p.store == nil {
		return nil, api.ErrInvalidArgument
	}
	var store storage
	switch s := p.store.(type) {
	case *poolStorage:
		s.buf.Ref()
		store = &poolStorage{buf: s.buf}
	case *rawStorage:
		cp := *s
		store = &cp
	}
	np := newPacket(store)
	np.addr = p.addr
	np.timestamp = p.timestamp
	np.priority = p.priority
	np.importance = p.importance
	np.user = p.user
	return np, nil
}

// Ref takes an extra reference. Ref on a nil packet does nothing.
func (p *Packet) Ref() {
	if p == nil {
		return
	}
	p.refs.Add(1)
}

// Unref drops a reference and destroys the packet when it was the last one.
// Unref on a nil packet does nothing; dropping more references than were
// taken fails with api.ErrRefUnderflow.
func (p *Packet) Unref() error {
	if p == nil {
		return nil
	}
	for {
		n := p.refs.Load()
		if n < 1 {
			return api.ErrRefUnderflow.WithContext("refs", n)
		}
		if !p.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n == 1 {
			p.destroy()
		}
		return nil
	}
}

// RefCount returns the current number of references.
func (p *Packet) RefCount() int {
	if p == nil {
		return 0
	}
	return int(p.refs.Load())
}

func (p *Packet) destroy() {
	if p.user.release != nil {
		p.user.release(p, p.user.data)
	}

	if s, ok := p.store.(*poolStorage); ok {
		if err := s.buf.Unref(); err != nil {
			logger.Warn("packet buffer release failed", zap.Error(err))
		}
	}

	if p.node.IsLinked() {
		logger.Warn("packet destroyed while still in a list",
			zap.Int("list_count", p.list.count))
		p.list.unlink(p)
		stats.forcedUnlinks.Add(1)
	}
	stats.destroyed.Add(1)
}

// exclusive fails unless the caller holds the only reference.
func (p *Packet) exclusive() error {
	if n := p.refs.Load(); n > 1 {
		return api.ErrPermission.WithContext("refs", n)
	}
	return nil
}
