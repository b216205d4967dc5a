// Package pool provides reusable read buffers for the stream relays, so a
// long-running child with chatty output does not allocate a fresh chunk per read.
package pool

import "sync"

// Pool is a typed wrapper around sync.Pool with an optional reset hook.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // called before an object is handed out again
}

// NewPool creates a new generic pool with the given factory function
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return factory() },
		},
	}
}

// NewPoolWithReset creates a pool with a reset function called before reuse
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool for reuse
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// BufferPool hands out fixed-size byte slices. Buffers of a different size are
// dropped on Put rather than pooled.
type BufferPool struct {
	size int
	p    *Pool[[]byte]
}

// NewBufferPool creates a pool of buffers with len == cap == size.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		size = 1
	}
	return &BufferPool{
		size: size,
		p: NewPoolWithReset(
			func() *[]byte {
				b := make([]byte, size)
				return &b
			},
			func(b *[]byte) { *b = (*b)[:cap(*b)] },
		),
	}
}

// Size reports the length of buffers returned by Get.
func (bp *BufferPool) Size() int { return bp.size }

// Get returns a buffer of exactly Size() bytes.
func (bp *BufferPool) Get() *[]byte { return bp.p.Get() }

// Put returns buf to the pool.
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil || cap(*buf) != bp.size {
		return
	}
	bp.p.Put(buf)
}
