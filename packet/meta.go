// File: packet/meta.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Transport metadata. Getters never block; setters require the sole reference.

package packet

import (
	"net/netip"

	"github.com/momentics/hioload-packet/api"
)

// Addr returns the peer address: the destination before a send, the source
// after a receive. The zero value means unset.
func (p *Packet) Addr() netip.AddrPort {
	if p == nil {
		return netip.AddrPort{}
	}
	return p.addr
}

// SetAddr sets the peer address. Only IPv4 and IPv6 addresses are accepted;
// the zero AddrPort clears it.
func (p *Packet) SetAddr(addr netip.AddrPort) error {
	if p == nil {
		return api.ErrInvalidArgument
	}
	if addr != (netip.AddrPort{}) && !addr.Addr().IsValid() {
		return api.ErrInvalidArgument.WithContext("addr", addr.String())
	}
	if err := p.exclusive(); err != nil {
		return err
	}
	p.addr = addr
	return nil
}

// Timestamp returns the send or receive time in microseconds on the
// monotonic clock.
func (p *Packet) Timestamp() uint64 {
	if p == nil {
		return 0
	}
	return p.timestamp
}

// SetTimestamp records the send or receive time in microseconds.
func (p *Packet) SetTimestamp(ts uint64) error {
	if p == nil {
		return api.ErrInvalidArgument
	}
	if err := p.exclusive(); err != nil {
		return err
	}
	p.timestamp = ts
	return nil
}

// Priority returns the QoS priority.
func (p *Packet) Priority() int {
	if p == nil {
		return 0
	}
	return p.priority
}

// SetPriority sets the QoS priority, in [0, QoSPriorityMax].
func (p *Packet) SetPriority(priority int) error {
	if p == nil || priority < 0 || priority > QoSPriorityMax {
		return api.ErrInvalidArgument.WithContext("priority", priority)
	}
	if err := p.exclusive(); err != nil {
		return err
	}
	p.priority = priority
	return nil
}

// Importance returns the packet rank; lower values are more important.
func (p *Packet) Importance() uint32 {
	if p == nil {
		return 0
	}
	return p.importance
}

// SetImportance sets the packet rank.
func (p *Packet) SetImportance(importance uint32) error {
	if p == nil {
		return api.ErrInvalidArgument
	}
	if err := p.exclusive(); err != nil {
		return err
	}
	p.importance = importance
	return nil
}

// UserData returns the opaque user extension.
func (p *Packet) UserData() any {
	if p == nil {
		return nil
	}
	return p.user.data
}

// SetUserData attaches data and an optional release callback run at
// destruction. A previous extension is overwritten without running its
// release callback.
func (p *Packet) SetUserData(data any, release ReleaseFunc) error {
	if p == nil {
		return api.ErrInvalidArgument
	}
	if err := p.exclusive(); err != nil {
		return err
	}
	p.user = userExt{data: data, release: release}
	return nil
}
