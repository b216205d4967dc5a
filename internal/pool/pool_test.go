package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_WithReset(t *testing.T) {
	resetCalls := 0
	p := NewPoolWithReset(
		func() *[]int {
			s := make([]int, 0, 10)
			return &s
		},
		func(s *[]int) {
			*s = (*s)[:0]
			resetCalls++
		},
	)

	s1 := p.Get()
	*s1 = append(*s1, 1, 2, 3)
	p.Put(s1)

	s2 := p.Get()
	assert.Equal(t, 2, resetCalls)
	assert.Empty(t, *s2)
}

func TestPool_PutNil(t *testing.T) {
	p := NewPool(func() *int { x := 1; return &x })
	p.Put(nil)
	assert.Equal(t, 1, *p.Get())
}

func TestBufferPool_FullLengthAfterReuse(t *testing.T) {
	bp := NewBufferPool(16)
	assert.Equal(t, 16, bp.Size())

	b := bp.Get()
	assert.Len(t, *b, 16)
	*b = (*b)[:3]
	bp.Put(b)

	b2 := bp.Get()
	assert.Len(t, *b2, 16)
}

func TestBufferPool_RejectsForeignSizes(t *testing.T) {
	bp := NewBufferPool(8)
	foreign := make([]byte, 32)
	bp.Put(&foreign)
	assert.Len(t, *bp.Get(), 8)

	assert.Equal(t, 1, NewBufferPool(0).Size())
}
