// File: packet/iovec.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral scatter-gather element. Conversion to the OS shape
// (struct iovec, WSABUF) happens only at the I/O boundary.

package packet

// IOVec describes one contiguous memory region; its length is len(Base).
type IOVec struct {
	Base []byte
}

// Len returns the region length in bytes.
func (v IOVec) Len() int { return len(v.Base) }

// Buffers flattens descriptors into the [][]byte form taken by
// golang.org/x/sys helpers such as unix.SendmsgBuffers.
func Buffers(vecs []IOVec) [][]byte {
	out := make([][]byte, len(vecs))
	for i, v := range vecs {
		out[i] = v.Base
	}
	return out
}
