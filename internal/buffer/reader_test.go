package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReader_GetByte(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})

	b, ok := r.PeekByte()
	require.True(t, ok)
	require.Equal(t, byte(0x01), b)

	b, ok = r.GetByte()
	require.True(t, ok)
	require.Equal(t, byte(0x01), b)

	b, ok = r.GetByte()
	require.True(t, ok)
	require.Equal(t, byte(0x02), b)

	_, ok = r.GetByte()
	require.False(t, ok)
	require.True(t, r.Exhausted())
}

func TestReader_GetUint(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	v16, ok := r.GetUint16()
	require.True(t, ok)
	require.Equal(t, uint16(0x0102), v16)

	v32, ok := r.GetUint32()
	require.True(t, ok)
	require.Equal(t, uint32(0x03040506), v32)

	_, ok = r.GetUint64() // only 2 bytes left
	require.False(t, ok)
}

func TestReader_SeekAndGetBytes(t *testing.T) {
	r := NewReader([]byte("hello world"))

	b, ok := r.GetBytes(5)
	require.True(t, ok)
	require.Equal(t, "hello", string(b))

	r.Seek(6)
	b, ok = r.GetBytes(5)
	require.True(t, ok)
	require.Equal(t, "world", string(b))
}

func TestHalfToFloat64(t *testing.T) {
	tests := []struct {
		name string
		half uint16
		want float64
	}{
		{"zero", 0x0000, 0},
		{"negative zero", 0x8000, math.Copysign(0, -1)},
		{"one", 0x3c00, 1.0},
		{"negative one", 0xbc00, -1.0},
		{"infinity", 0x7c00, math.Inf(1)},
		{"negative infinity", 0xfc00, math.Inf(-1)},
		{"smallest subnormal", 0x0001, math.Pow(2, -24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HalfToFloat64(tt.half)
			if math.IsInf(tt.want, 0) {
				require.Equal(t, tt.want, got)
				return
			}
			require.InDelta(t, tt.want, got, 1e-12)
		})
	}

	t.Run("NaN", func(t *testing.T) {
		require.True(t, math.IsNaN(HalfToFloat64(0x7e00)))
	})
}
