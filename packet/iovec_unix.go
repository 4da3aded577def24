//go:build unix

// File: packet/iovec_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package packet

import "golang.org/x/sys/unix"

// UnixIovecs converts descriptors to struct iovec for readv/writev/sendmsg.
// The result points into the packet storage; keep the packet referenced
// until the syscall returns.
func UnixIovecs(vecs []IOVec) []unix.Iovec {
	out := make([]unix.Iovec, len(vecs))
	for i, v := range vecs {
		if len(v.Base) > 0 {
			out[i].Base = &v.Base[0]
		}
		out[i].SetLen(len(v.Base))
	}
	return out
}
