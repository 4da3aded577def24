// Package packet
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reference-counted, shareable transport packets and the ordered list that
// holds them.
//
// A Packet wraps either a pool buffer (api.Buffer) or caller-owned memory,
// mutable or read-only, and exposes both through one scatter-gather view:
// ReadVec for inbound I/O (sized to capacity) and WriteVec for outbound I/O
// (sized to the current length). Alongside the data it carries the peer
// address, a monotonic timestamp, a QoS priority, an importance rank and an
// opaque user extension.
//
// Ownership rules:
//
//   - every constructor returns a packet holding one reference;
//   - Ref/Unref are atomic and may be called from any goroutine; the last
//     Unref destroys the packet;
//   - setters (length, address, timestamp, priority, importance, user data)
//     succeed only while the caller holds the sole reference, and fail with
//     api.ErrPermission otherwise;
//   - List.Add* takes a reference on behalf of the list; List.Remove hands
//     that reference back to the caller, who must Unref it exactly once;
//     List.Flush releases it for every packet still linked.
//
// Apart from the reference count nothing is synchronized: a List and the
// packets' metadata must be confined to one goroutine or guarded by the caller.
package packet
