// File: internal/ilist/list.go
// Package ilist implements an intrusive, circular doubly-linked list.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Node is embedded in the element it links, so linking never allocates.
// A Node remembers the list it is linked into; a free node has no list.
// Nothing here is synchronized.

package ilist

// Node is a list link embedded in an element of type T.
type Node[T any] struct {
	next, prev *Node[T]
	list       *List[T]
	value      T
}

// Init binds the node to its containing element and marks it free.
func (n *Node[T]) Init(value T) {
	n.next, n.prev, n.list = nil, nil, nil
	n.value = value
}

// Value returns the element the node is embedded in.
func (n *Node[T]) Value() T { return n.value }

// IsLinked reports whether the node is part of some list.
func (n *Node[T]) IsLinked() bool { return n.list != nil }

// List returns the list the node is linked into, or nil.
func (n *Node[T]) List() *List[T] { return n.list }

// List is anchored on a sentinel node. The zero value is an empty list;
// a List must not be copied once used.
type List[T any] struct {
	root Node[T]
}

func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.root.next = &l.root
		l.root.prev = &l.root
	}
}

// Empty reports whether no node is linked.
func (l *List[T]) Empty() bool {
	return l.root.next == nil || l.root.next == &l.root
}

// Contains reports whether n is linked into l.
func (l *List[T]) Contains(n *Node[T]) bool {
	return n != nil && n.list == l
}

// Next returns the node after n, the first node when n is nil, or nil past the end.
func (l *List[T]) Next(n *Node[T]) *Node[T] {
	l.lazyInit()
	if n == nil {
		n = &l.root
	}
	if n.next == &l.root || n.next == nil {
		return nil
	}
	return n.next
}

// Prev returns the node before n, the last node when n is nil, or nil past the start.
func (l *List[T]) Prev(n *Node[T]) *Node[T] {
	l.lazyInit()
	if n == nil {
		n = &l.root
	}
	if n.prev == &l.root || n.prev == nil {
		return nil
	}
	return n.prev
}

// anchor maps a nil mark to the sentinel.
func (l *List[T]) anchor(mark *Node[T]) *Node[T] {
	l.lazyInit()
	if mark == nil {
		return &l.root
	}
	return mark
}

func (l *List[T]) link(at, n *Node[T]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
	n.list = l
}

func (l *List[T]) unlink(n *Node[T]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next, n.prev, n.list = nil, nil, nil
}

// InsertAfter links a free node n after mark (at the front when mark is nil).
func (l *List[T]) InsertAfter(mark, n *Node[T]) {
	l.link(l.anchor(mark), n)
}

// InsertBefore links a free node n before mark (at the back when mark is nil).
func (l *List[T]) InsertBefore(mark, n *Node[T]) {
	l.link(l.anchor(mark).prev, n)
}

// Remove unlinks n from l.
func (l *List[T]) Remove(n *Node[T]) {
	l.unlink(n)
}

// MoveAfter relinks n right after mark (at the front when mark is nil).
func (l *List[T]) MoveAfter(mark, n *Node[T]) {
	at := l.anchor(mark)
	if at == n || at.next == n {
		return
	}
	l.unlink(n)
	l.link(at, n)
}

// MoveBefore relinks n right before mark (at the back when mark is nil).
func (l *List[T]) MoveBefore(mark, n *Node[T]) {
	at := l.anchor(mark)
	if at == n || at.prev == n {
		return
	}
	l.unlink(n)
	l.link(at.prev, n)
}
