// File: packet/data.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Data views, length and scatter-gather descriptors.

package packet

import (
	"github.com/momentics/hioload-packet/api"
)

// Buffer returns the pool buffer backing p, or nil for raw-memory packets.
func (p *Packet) Buffer() api.Buffer {
	if p == nil {
		return nil
	}
	if s, ok := p.store.(*poolStorage); ok {
		return s.buf
	}
	return nil
}

// Data returns the mutable view data[:len:cap]. It fails with
// api.ErrPermission on read-only memory or when the pool refuses write
// access to a shared buffer.
func (p *Packet) Data() ([]byte, error) {
	if p == nil {
		return nil, api.ErrInvalidArgument
	}
	switch s := p.store.(type) {
	case *poolStorage:
		return s.buf.Data()
	case *rawStorage:
		if s.readOnly {
			return nil, api.ErrPermission.WithContext("storage", "read-only")
		}
		return s.data[:s.len], nil
	default:
		return nil, api.ErrInvalidArgument
	}
}

// CData returns the read-only view data[:len:cap].
func (p *Packet) CData() ([]byte, error) {
	if p == nil {
		return nil, api.ErrInvalidArgument
	}
	switch s := p.store.(type) {
	case *poolStorage:
		return s.buf.CData(), nil
	case *rawStorage:
		return s.data[:s.len], nil
	default:
		return nil, api.ErrInvalidArgument
	}
}

// Len returns the current data length.
func (p *Packet) Len() int {
	data, err := p.CData()
	if err != nil {
		return 0
	}
	return len(data)
}

// Cap returns the capacity of the underlying storage.
func (p *Packet) Cap() int {
	data, err := p.CData()
	if err != nil {
		return 0
	}
	return cap(data)
}

// SetLen sets the data length. The caller must hold the only reference.
func (p *Packet) SetLen(n int) error {
	if p == nil || n < 0 {
		return api.ErrInvalidArgument
	}
	if err := p.exclusive(); err != nil {
		return err
	}
	switch s := p.store.(type) {
	case *poolStorage:
		return s.buf.SetLen(n)
	case *rawStorage:
		if n > len(s.data) {
			return api.ErrCapacityExceeded.WithContext("len", n).WithContext("cap", len(s.data))
		}
		s.len = n
		return nil
	default:
		return api.ErrInvalidArgument
	}
}

// ReadVec returns the single scatter-gather element to receive into. It
// spans the whole capacity; after the read, record the received size with
// SetLen. The caller must hold the only reference and the storage must be
// writable. The returned slice aliases the packet and is reused by later calls.
func (p *Packet) ReadVec() ([]IOVec, error) {
	if p == nil {
		return nil, api.ErrInvalidArgument
	}
	if err := p.exclusive(); err != nil {
		return nil, err
	}
	switch s := p.store.(type) {
	case *poolStorage:
		data, err := s.buf.Data()
		if err != nil {
			return nil, err
		}
		p.iov[0] = IOVec{Base: data[:cap(data)]}
	case *rawStorage:
		if s.readOnly {
			return nil, api.ErrPermission.WithContext("storage", "read-only")
		}
		p.iov[0] = IOVec{Base: s.data}
	default:
		return nil, api.ErrInvalidArgument
	}
	return p.iov[:], nil
}

// WriteVec returns the single scatter-gather element to send from, sized to
// the current length. The returned slice aliases the packet and is reused by
// later calls.
func (p *Packet) WriteVec() ([]IOVec, error) {
	data, err := p.CData()
	if err != nil {
		return nil, err
	}
	p.iov[0] = IOVec{Base: data}
	return p.iov[:], nil
}
