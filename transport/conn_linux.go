//go:build linux

// File: transport/conn_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux datagram transport using sendmsg/recvmsg on packet descriptors.

package transport

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-packet/api"
	"github.com/momentics/hioload-packet/packet"
)

// Conn is a datagram socket exchanging packets.
type Conn struct {
	fd     int
	family int
}

// NewConn wraps an existing datagram socket. The Conn owns fd from now on.
func NewConn(fd int) (*Conn, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return nil, fmt.Errorf("getsockname: %w", err)
	}
	family := unix.AF_INET
	switch sa.(type) {
	case *unix.SockaddrInet6:
		family = unix.AF_INET6
	case *unix.SockaddrUnix:
		family = unix.AF_UNIX
	}
	return &Conn{fd: fd, family: family}, nil
}

// ListenUDP opens a UDP socket bound to addr.
func ListenUDP(addr netip.AddrPort) (*Conn, error) {
	if !addr.Addr().IsValid() {
		return nil, api.ErrInvalidArgument.WithContext("addr", addr.String())
	}
	family := unix.AF_INET6
	if addr.Addr().Is4() {
		family = unix.AF_INET
	}
	fd, err := unix.Socket(family, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, unix.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("socket create: %w", err)
	}
	if err := unix.Bind(fd, toSockaddr(addr, family)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	return &Conn{fd: fd, family: family}, nil
}

// LocalAddr returns the bound address.
func (c *Conn) LocalAddr() (netip.AddrPort, error) {
	sa, err := unix.Getsockname(c.fd)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("getsockname: %w", err)
	}
	ap, _ := fromSockaddr(sa)
	return ap, nil
}

// WritePacket sends the packet payload to its address, or to the connected
// peer when the address is unset. The send time is recorded when the caller
// holds the only reference.
func (c *Conn) WritePacket(p *packet.Packet) error {
	vecs, err := p.WriteVec()
	if err != nil {
		return err
	}
	var to unix.Sockaddr
	if addr := p.Addr(); addr.IsValid() {
		to = toSockaddr(addr, c.family)
	}
	n, err := unix.SendmsgBuffers(c.fd, packet.Buffers(vecs), nil, to, 0)
	if err != nil {
		return fmt.Errorf("sendmsg: %w", err)
	}
	if want := vecs[0].Len(); n != want {
		return fmt.Errorf("partial send: %d/%d bytes", n, want)
	}
	if err := p.SetTimestamp(MonotonicMicros()); err != nil && !errors.Is(err, api.ErrPermission) {
		return err
	}
	return nil
}

// ReadPacket blocks until a datagram arrives, then records its length,
// source address and receive time. The caller must hold the only reference.
// A datagram larger than the packet capacity is consumed: the packet keeps
// the leading bytes with length set to capacity, and api.ErrCapacityExceeded
// reports the full datagram size.
func (c *Conn) ReadPacket(p *packet.Packet) error {
	vecs, err := p.ReadVec()
	if err != nil {
		return err
	}
	capacity := vecs[0].Len()
	// MSG_TRUNC makes recvmsg return the real datagram length
	n, _, recvflags, from, err := unix.RecvmsgBuffers(c.fd, packet.Buffers(vecs), nil, unix.MSG_TRUNC)
	if err != nil {
		return fmt.Errorf("recvmsg: %w", err)
	}
	truncated := recvflags&unix.MSG_TRUNC != 0 || n > capacity
	if err := p.SetLen(min(n, capacity)); err != nil {
		return err
	}
	if addr, ok := fromSockaddr(from); ok {
		if err := p.SetAddr(addr); err != nil {
			return err
		}
	}
	if err := p.SetTimestamp(MonotonicMicros()); err != nil {
		return err
	}
	if truncated {
		return api.ErrCapacityExceeded.WithContext("datagram", n).WithContext("cap", capacity)
	}
	return nil
}

// SetReadTimeout bounds how long ReadPacket blocks. Zero disables the bound.
func (c *Conn) SetReadTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if err := unix.SetsockoptTimeval(c.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return fmt.Errorf("setsockopt SO_RCVTIMEO: %w", err)
	}
	return nil
}

// Close closes the socket.
func (c *Conn) Close() error {
	return unix.Close(c.fd)
}

func toSockaddr(addr netip.AddrPort, family int) unix.Sockaddr {
	ip := addr.Addr()
	if family == unix.AF_INET && ip.Is4() {
		return &unix.SockaddrInet4{Port: int(addr.Port()), Addr: ip.As4()}
	}
	// IPv4 peers of an IPv6 socket are reached through mapped addresses
	return &unix.SockaddrInet6{Port: int(addr.Port()), Addr: ip.As16()}
}

func fromSockaddr(sa unix.Sockaddr) (netip.AddrPort, bool) {
	switch s := sa.(type) {
	case *unix.SockaddrInet4:
		return netip.AddrPortFrom(netip.AddrFrom4(s.Addr), uint16(s.Port)), true
	case *unix.SockaddrInet6:
		return netip.AddrPortFrom(netip.AddrFrom16(s.Addr), uint16(s.Port)), true
	default:
		return netip.AddrPort{}, false
	}
}

// MonotonicMicros returns CLOCK_MONOTONIC in microseconds.
func MonotonicMicros() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Nano() / 1000)
}
