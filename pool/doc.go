// Package pool
// Author: momentics <momentics@gmail.com>
//
// Reference-counted, growable byte buffers served from per-size-class free lists.
// Buffers are handed to packets through api.BufferPool; the last Unref recycles
// the backing storage. See bufferpool.go, buffer.go, slab_pool.go for details.
package pool
