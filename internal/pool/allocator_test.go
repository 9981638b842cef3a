package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedPool_AllocateAndFree(t *testing.T) {
	p := NewFixedPool(make([]byte, 16))

	a := p.Allocate(nil, 4)
	require.Len(t, a, 4)

	p.Allocate(a, 0) // free
	b := p.Allocate(nil, 4)
	require.Len(t, b, 4)
}

func TestFixedPool_ReallocInPlace(t *testing.T) {
	p := NewFixedPool(make([]byte, 16))

	a := p.Allocate(nil, 4)
	copy(a, []byte{1, 2, 3, 4})

	grown := p.Allocate(a, 8)
	require.Len(t, grown, 8)
	require.Equal(t, []byte{1, 2, 3, 4}, grown[:4])
}

func TestFixedPool_ReallocNotLastCopies(t *testing.T) {
	p := NewFixedPool(make([]byte, 16))

	a := p.Allocate(nil, 4)
	copy(a, []byte{1, 2, 3, 4})
	_ = p.Allocate(nil, 4) // a is no longer the most recent allocation

	grown := p.Allocate(a, 6)
	require.Len(t, grown, 6)
	require.Equal(t, []byte{1, 2, 3, 4}, grown[:4])
}

func TestFixedPool_ExhaustedReturnsNil(t *testing.T) {
	p := NewFixedPool(make([]byte, 4))

	require.Nil(t, p.Allocate(nil, 8))
}

func TestFixedPool_Destruct(t *testing.T) {
	p := NewFixedPool(make([]byte, 8))

	p.Allocate(nil, 4)
	p.Allocate(nil, 0) // destruct mode: oldBuf nil, newSize 0

	a := p.Allocate(nil, 8)
	require.Len(t, a, 8)
}
