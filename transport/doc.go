// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Datagram I/O at the packet boundary. Conn moves packets through a socket
// using their scatter-gather views: ReadPacket receives into ReadVec and
// records length, peer address and receive timestamp; WritePacket sends
// WriteVec to the packet address. Linux only; other platforms return
// api.ErrNotSupported.
package transport
