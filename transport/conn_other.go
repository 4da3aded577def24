//go:build !linux

// File: transport/conn_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"net/netip"
	"time"

	"github.com/momentics/hioload-packet/api"
	"github.com/momentics/hioload-packet/packet"
)

// Conn is unavailable on this platform.
type Conn struct{}

func NewConn(int) (*Conn, error) {
	return nil, api.ErrNotSupported
}

func ListenUDP(netip.AddrPort) (*Conn, error) {
	return nil, api.ErrNotSupported
}

func (*Conn) LocalAddr() (netip.AddrPort, error) {
	return netip.AddrPort{}, api.ErrNotSupported
}

func (*Conn) WritePacket(*packet.Packet) error {
	return api.ErrNotSupported
}

func (*Conn) ReadPacket(*packet.Packet) error {
	return api.ErrNotSupported
}

func (*Conn) SetReadTimeout(time.Duration) error {
	return api.ErrNotSupported
}

func (*Conn) Close() error {
	return nil
}

var epoch = time.Now()

// MonotonicMicros returns microseconds elapsed on the runtime monotonic clock.
func MonotonicMicros() uint64 {
	return uint64(time.Since(epoch).Microseconds())
}
