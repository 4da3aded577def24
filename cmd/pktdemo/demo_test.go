package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-packet/packet"
)

func TestPromoteMovesTopPriorityFirst(t *testing.T) {
	queue := packet.NewList()
	defer queue.Destroy()
	priorities := []int{1, packet.QoSPriorityMax, 3, packet.QoSPriorityMax, 0}
	var ps []*packet.Packet
	for _, prio := range priorities {
		p, err := packet.NewFromData(make([]byte, 8))
		require.NoError(t, err)
		require.NoError(t, p.SetPriority(prio))
		require.NoError(t, queue.AddLast(p))
		require.NoError(t, p.Unref())
		ps = append(ps, p)
	}

	require.NoError(t, promote(queue))

	var got []*packet.Packet
	for p := queue.First(); p != nil; p = queue.Next(p) {
		got = append(got, p)
	}
	assert.Equal(t, []*packet.Packet{ps[1], ps[3], ps[0], ps[2], ps[4]}, got)
}
