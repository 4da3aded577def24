//go:build linux

package transport_test

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-packet/api"
	"github.com/momentics/hioload-packet/packet"
	"github.com/momentics/hioload-packet/pool"
	"github.com/momentics/hioload-packet/transport"
)

func loopbackPair(t *testing.T) (tx, rx *transport.Conn, txAddr, rxAddr netip.AddrPort) {
	t.Helper()
	any4 := netip.MustParseAddrPort("127.0.0.1:0")
	var err error
	tx, err = transport.ListenUDP(any4)
	require.NoError(t, err)
	t.Cleanup(func() { tx.Close() })
	rx, err = transport.ListenUDP(any4)
	require.NoError(t, err)
	t.Cleanup(func() { rx.Close() })

	txAddr, err = tx.LocalAddr()
	require.NoError(t, err)
	rxAddr, err = rx.LocalAddr()
	require.NoError(t, err)
	return tx, rx, txAddr, rxAddr
}

func TestLoopbackRoundTrip(t *testing.T) {
	bp := pool.New(pool.DefaultOptions())
	tx, rx, txAddr, rxAddr := loopbackPair(t)

	out, err := packet.NewWithData(bp, []byte("hello transport"))
	require.NoError(t, err)
	defer out.Unref()
	require.NoError(t, out.SetAddr(rxAddr))
	require.NoError(t, tx.WritePacket(out))
	assert.NotZero(t, out.Timestamp())

	in, err := packet.New(bp, 2048)
	require.NoError(t, err)
	defer in.Unref()
	before := transport.MonotonicMicros()
	require.NoError(t, rx.ReadPacket(in))

	data, err := in.CData()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello transport"), data)
	assert.Equal(t, txAddr, in.Addr())
	assert.GreaterOrEqual(t, in.Timestamp(), before)
}

func TestSendQueueDrain(t *testing.T) {
	bp := pool.New(pool.DefaultOptions())
	tx, rx, _, rxAddr := loopbackPair(t)

	queue := packet.NewList()
	defer queue.Destroy()
	for _, msg := range []string{"one", "two", "three"} {
		p, err := packet.NewWithData(bp, []byte(msg))
		require.NoError(t, err)
		require.NoError(t, p.SetAddr(rxAddr))
		require.NoError(t, queue.AddLast(p))
		require.NoError(t, p.Unref())
	}

	for p := queue.First(); p != nil; p = queue.First() {
		require.NoError(t, tx.WritePacket(p))
		got, err := queue.Remove(p)
		require.NoError(t, err)
		require.NoError(t, got.Unref())
	}
	assert.Equal(t, 0, queue.Count())

	for _, want := range []string{"one", "two", "three"} {
		in, err := packet.New(bp, 64)
		require.NoError(t, err)
		require.NoError(t, rx.ReadPacket(in))
		data, err := in.CData()
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
		require.NoError(t, in.Unref())
	}
	assert.EqualValues(t, 0, bp.Stats().InUse)
}

func TestReadPacketNeedsWritableExclusivePacket(t *testing.T) {
	_, rx, _, _ := loopbackPair(t)

	ro, err := packet.NewFromConstData([]byte("const"))
	require.NoError(t, err)
	defer ro.Unref()
	assert.ErrorIs(t, rx.ReadPacket(ro), api.ErrPermission)

	shared, err := packet.NewFromData(make([]byte, 64))
	require.NoError(t, err)
	shared.Ref()
	defer shared.Unref()
	defer shared.Unref()
	assert.ErrorIs(t, rx.ReadPacket(shared), api.ErrPermission)
}

func TestListenUDPRejectsInvalidAddr(t *testing.T) {
	_, err := transport.ListenUDP(netip.AddrPort{})
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestReadTimeout(t *testing.T) {
	_, rx, _, _ := loopbackPair(t)
	require.NoError(t, rx.SetReadTimeout(20*time.Millisecond))

	in, err := packet.NewFromData(make([]byte, 32))
	require.NoError(t, err)
	defer in.Unref()
	err = rx.ReadPacket(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK), err)
	assert.Equal(t, 0, in.Len())
}

func TestReadPacketReportsTruncation(t *testing.T) {
	bp := pool.New(pool.DefaultOptions())
	tx, rx, txAddr, rxAddr := loopbackPair(t)

	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(i)
	}
	for _, msg := range [][]byte{payload, []byte("fits")} {
		out, err := packet.NewWithData(bp, msg)
		require.NoError(t, err)
		require.NoError(t, out.SetAddr(rxAddr))
		require.NoError(t, tx.WritePacket(out))
		require.NoError(t, out.Unref())
	}

	small, err := packet.NewFromData(make([]byte, 16))
	require.NoError(t, err)
	defer small.Unref()
	err = rx.ReadPacket(small)
	require.ErrorIs(t, err, api.ErrCapacityExceeded)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 100, apiErr.Context["datagram"])
	assert.Equal(t, 16, small.Len())
	data, err := small.CData()
	require.NoError(t, err)
	assert.Equal(t, payload[:16], data)
	assert.Equal(t, txAddr, small.Addr())

	// the oversized datagram was consumed, the next one reads cleanly
	next, err := packet.NewFromData(make([]byte, 16))
	require.NoError(t, err)
	defer next.Unref()
	require.NoError(t, rx.ReadPacket(next))
	data, err = next.CData()
	require.NoError(t, err)
	assert.Equal(t, []byte("fits"), data)
}
