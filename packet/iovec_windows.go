//go:build windows

// File: packet/iovec_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package packet

import "golang.org/x/sys/windows"

// WSABufs converts descriptors to WSABUF for WSARecv/WSASend.
// The result points into the packet storage; keep the packet referenced
// until the call completes.
func WSABufs(vecs []IOVec) []windows.WSABuf {
	out := make([]windows.WSABuf, len(vecs))
	for i, v := range vecs {
		if len(v.Base) > 0 {
			out[i].Buf = &v.Base[0]
		}
		out[i].Len = uint32(len(v.Base))
	}
	return out
}
