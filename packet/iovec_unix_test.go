//go:build unix

package packet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-packet/packet"
)

func TestUnixIovecs(t *testing.T) {
	mem := make([]byte, 32)
	p, err := packet.NewFromData(mem)
	require.NoError(t, err)
	defer p.Unref()

	rv, err := p.ReadVec()
	require.NoError(t, err)
	iovs := packet.UnixIovecs(rv)
	require.Len(t, iovs, 1)
	assert.Same(t, &mem[0], iovs[0].Base)
	assert.EqualValues(t, 32, iovs[0].Len)

	wv, err := p.WriteVec()
	require.NoError(t, err)
	iovs = packet.UnixIovecs(wv)
	assert.Nil(t, iovs[0].Base)
	assert.EqualValues(t, 0, iovs[0].Len)
}
