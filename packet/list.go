// File: packet/list.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ordered packet list with shared ownership.
//
// Adding a packet takes a reference owned by the list. Remove does not drop
// it: the reference moves to the caller together with the returned packet.
// Flush and Destroy drop it for every packet still linked. A List is not
// safe for concurrent use.

package packet

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-packet/api"
	"github.com/momentics/hioload-packet/internal/ilist"
)

// List is an intrusive, ordered collection of packets.
type List struct {
	chain ilist.List[*Packet]
	count int
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Destroy flushes the list. The list must not be used afterwards.
func (l *List) Destroy() error {
	if l == nil {
		return nil
	}
	return l.Flush()
}

// Count returns the number of linked packets.
func (l *List) Count() int {
	if l == nil {
		return 0
	}
	return l.count
}

// Contains reports whether p is linked into l.
func (l *List) Contains(p *Packet) bool {
	return l != nil && p != nil && l.chain.Contains(&p.node)
}

// First returns the first packet, or nil when empty.
func (l *List) First() *Packet {
	return l.Next(nil)
}

// Last returns the last packet, or nil when empty.
func (l *List) Last() *Packet {
	return l.Prev(nil)
}

// Next returns the packet after prev, the first packet when prev is nil,
// or nil past the end or when prev is not in l.
func (l *List) Next(prev *Packet) *Packet {
	if l == nil {
		return nil
	}
	var at *ilist.Node[*Packet]
	if prev != nil {
		if !l.Contains(prev) {
			return nil
		}
		at = &prev.node
	}
	n := l.chain.Next(at)
	if n == nil {
		return nil
	}
	return n.Value()
}

// Prev returns the packet before next, the last packet when next is nil,
// or nil past the start or when next is not in l.
func (l *List) Prev(next *Packet) *Packet {
	if l == nil {
		return nil
	}
	var at *ilist.Node[*Packet]
	if next != nil {
		if !l.Contains(next) {
			return nil
		}
		at = &next.node
	}
	n := l.chain.Prev(at)
	if n == nil {
		return nil
	}
	return n.Value()
}

// AddFirst links p at the front and takes a reference for the list.
func (l *List) AddFirst(p *Packet) error {
	return l.AddAfter(nil, p)
}

// AddLast links p at the back and takes a reference for the list.
func (l *List) AddLast(p *Packet) error {
	return l.AddBefore(nil, p)
}

// AddBefore links p before next (at the back when next is nil) and takes a
// reference for the list.
func (l *List) AddBefore(next, p *Packet) error {
	mark, err := l.checkAdd(next, p)
	if err != nil {
		return err
	}
	p.Ref()
	l.chain.InsertBefore(mark, &p.node)
	l.link(p)
	return nil
}

// AddAfter links p after prev (at the front when prev is nil) and takes a
// reference for the list.
func (l *List) AddAfter(prev, p *Packet) error {
	mark, err := l.checkAdd(prev, p)
	if err != nil {
		return err
	}
	p.Ref()
	l.chain.InsertAfter(mark, &p.node)
	l.link(p)
	return nil
}

func (l *List) checkAdd(ref, p *Packet) (*ilist.Node[*Packet], error) {
	if l == nil || p == nil || p.store == nil {
		return nil, api.ErrInvalidArgument
	}
	var mark *ilist.Node[*Packet]
	if ref != nil {
		if !l.Contains(ref) {
			return nil, api.ErrNotFound
		}
		mark = &ref.node
	}
	if p.node.IsLinked() {
		return nil, api.ErrAlreadyLinked
	}
	return mark, nil
}

// MoveFirst relinks p at the front. The reference count is unchanged.
func (l *List) MoveFirst(p *Packet) error {
	return l.MoveAfter(nil, p)
}

// MoveLast relinks p at the back. The reference count is unchanged.
func (l *List) MoveLast(p *Packet) error {
	return l.MoveBefore(nil, p)
}

// MoveBefore relinks p before next (at the back when next is nil).
func (l *List) MoveBefore(next, p *Packet) error {
	mark, err := l.checkMove(next, p)
	if err != nil {
		return err
	}
	l.chain.MoveBefore(mark, &p.node)
	return nil
}

// MoveAfter relinks p after prev (at the front when prev is nil).
func (l *List) MoveAfter(prev, p *Packet) error {
	mark, err := l.checkMove(prev, p)
	if err != nil {
		return err
	}
	l.chain.MoveAfter(mark, &p.node)
	return nil
}

func (l *List) checkMove(ref, p *Packet) (*ilist.Node[*Packet], error) {
	if l == nil || p == nil {
		return nil, api.ErrInvalidArgument
	}
	var mark *ilist.Node[*Packet]
	if ref != nil {
		if !l.Contains(ref) {
			return nil, api.ErrNotLinked
		}
		mark = &ref.node
	}
	if !l.Contains(p) {
		return nil, api.ErrNotLinked
	}
	return mark, nil
}

// Remove unlinks p and returns it. The reference the list took on insertion
// now belongs to the caller, who must Unref it exactly once.
func (l *List) Remove(p *Packet) (*Packet, error) {
	if l == nil || p == nil {
		return nil, api.ErrInvalidArgument
	}
	if !l.Contains(p) {
		return nil, api.ErrNotLinked
	}
	l.unlink(p)
	return p, nil
}

// Flush unlinks every packet and drops the reference the list held on it.
func (l *List) Flush() error {
	if l == nil {
		return api.ErrInvalidArgument
	}
	for n := l.chain.Next(nil); n != nil; {
		next := l.chain.Next(n)
		p := n.Value()
		l.unlink(p)
		if err := p.Unref(); err != nil {
			logger.Warn("flush: packet release failed", zap.Error(err))
		}
		n = next
	}
	l.count = 0
	return nil
}

// Walk calls fn for each packet from first to last until fn returns false.
// fn may remove or move the packet it is given. When fn removes the packet
// that followed it, the walk resumes after the visited packet; if both are
// gone the walk ends.
func (l *List) Walk(fn func(p *Packet) bool) {
	if l == nil || fn == nil {
		return
	}
	for n := l.chain.Next(nil); n != nil; {
		next := l.chain.Next(n)
		if !fn(n.Value()) {
			return
		}
		if next != nil && !l.chain.Contains(next) {
			if !l.chain.Contains(n) {
				return
			}
			next = l.chain.Next(n)
		}
		n = next
	}
}

func (l *List) link(p *Packet) {
	p.list = l
	l.count++
}

func (l *List) unlink(p *Packet) {
	l.chain.Remove(&p.node)
	p.list = nil
	l.count--
}
