package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriter_PutByte(t *testing.T) {
	out := make([]byte, 3)
	w := NewWriter(out)

	require.True(t, w.PutByte(0x01))
	require.True(t, w.PutByte(0x02))
	require.True(t, w.PutByte(0x03))
	require.False(t, w.PutByte(0x04), "capacity exhausted")
	require.Equal(t, []byte{0x01, 0x02, 0x03}, w.Bytes())
}

func TestWriter_PutUint(t *testing.T) {
	out := make([]byte, 16)
	w := NewWriter(out)

	require.True(t, w.PutUint16(0x0102))
	require.True(t, w.PutUint32(0x03040506))
	require.True(t, w.PutUint64(0x0708090a0b0c0d0e))
	require.Equal(t, 14, w.Len())
	require.Equal(t,
		[]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e},
		w.Bytes())
}

func TestWriter_SizeOnly(t *testing.T) {
	w := NewSizeWriter()

	require.True(t, w.PutByte(0x83))
	require.True(t, w.PutUint64(0))
	require.Equal(t, 9, w.Len())
	require.Panics(t, func() { w.Bytes() })
}

func TestWriter_ReserveAndPatch(t *testing.T) {
	out := make([]byte, 4)
	w := NewWriter(out)

	off, ok := w.Reserve(3)
	require.True(t, ok)
	require.Equal(t, 0, off)
	require.True(t, w.PutByte(0xff))

	w.PatchAt(off, []byte{0x01, 0x02, 0x03})
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0xff}, w.Bytes())
}

func TestWriter_ShiftRight(t *testing.T) {
	out := make([]byte, 6)
	w := NewWriter(out)

	require.True(t, w.PutByte(0x80)) // placeholder 1-byte head
	from := w.Len()
	require.True(t, w.PutByte(0x01))
	require.True(t, w.PutByte(0x02))

	require.True(t, w.ShiftRight(from, 1))
	w.PatchAt(0, []byte{0x98, 0x18})
	require.Equal(t, 4, w.Len())
	require.Equal(t, []byte{0x98, 0x18, 0x01, 0x02}, w.Bytes())
}

func TestWriter_Truncate(t *testing.T) {
	out := make([]byte, 4)
	w := NewWriter(out)
	require.True(t, w.PutBytes([]byte{1, 2, 3}))
	w.Truncate(1)
	require.Equal(t, []byte{1}, w.Bytes())
}
