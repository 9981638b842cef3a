package qcbor

import (
	"testing"

	"github.com/plietar/qcbor/internal/buffer"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHead_RoundTrip(t *testing.T) {
	args := []uint64{0, 1, 23, 24, 25, 255, 256, 65535, 65536, 0xffffffff, 0x100000000, ^uint64(0)}

	for _, arg := range args {
		out := make([]byte, 9)
		w := buffer.NewWriter(out)
		require.True(t, encodeHead(w, majorUnsignedInt, arg))

		r := buffer.NewReader(w.Bytes())
		h, err := decodeHead(r, false)
		require.NoError(t, err)
		require.Equal(t, arg, h.argument)
		require.Equal(t, majorUnsignedInt, h.major)
		require.Equal(t, w.Len(), h.headLen)
	}
}

func TestHeadLenForArgument(t *testing.T) {
	require.Equal(t, 1, headLenForArgument(0))
	require.Equal(t, 1, headLenForArgument(23))
	require.Equal(t, 2, headLenForArgument(24))
	require.Equal(t, 2, headLenForArgument(255))
	require.Equal(t, 3, headLenForArgument(256))
	require.Equal(t, 3, headLenForArgument(65535))
	require.Equal(t, 5, headLenForArgument(65536))
	require.Equal(t, 5, headLenForArgument(0xffffffff))
	require.Equal(t, 9, headLenForArgument(0x100000000))
}

func TestDecodeHead_ReservedAdditionalInfo(t *testing.T) {
	for _, ai := range []byte{28, 29, 30} {
		r := buffer.NewReader([]byte{ai})
		_, err := decodeHead(r, false)
		require.ErrorIs(t, err, errUnsupported())
	}
}

func TestDecodeHead_Break(t *testing.T) {
	r := buffer.NewReader([]byte{0xff})
	h, err := decodeHead(r, false)
	require.NoError(t, err)
	require.True(t, h.isBreak)
}

func TestDecodeHead_IndefiniteContainer(t *testing.T) {
	// major=4 (array), ai=31
	r := buffer.NewReader([]byte{byte(majorArray)<<5 | 31})
	h, err := decodeHead(r, false)
	require.NoError(t, err)
	require.True(t, h.indefinite)
	require.Equal(t, majorArray, h.major)
}

func TestDecodeHead_StrictModeRejectsNonMinimal(t *testing.T) {
	// encodes integer 5 using the 1-byte-argument form (ai=24) instead of
	// the bare byte form; non-minimal, should be rejected in strict mode
	// and accepted in lax mode.
	data := []byte{byte(majorUnsignedInt)<<5 | aiOneByte, 5}

	r := buffer.NewReader(data)
	_, err := decodeHead(r, false)
	require.NoError(t, err)

	r = buffer.NewReader(data)
	_, err = decodeHead(r, true)
	require.ErrorIs(t, err, errBadInt())
}

func TestEncodeHead_BufferTooSmall(t *testing.T) {
	out := make([]byte, 0)
	w := buffer.NewWriter(out)
	require.False(t, encodeHead(w, majorUnsignedInt, 1000))
}

func TestConcreteScenario_ZeroByte(t *testing.T) {
	// spec §8 scenario 1: encoding integer 0 is one byte 0x00.
	out := make([]byte, 1)
	w := buffer.NewWriter(out)
	require.True(t, encodeHead(w, majorUnsignedInt, 0))
	require.Equal(t, []byte{0x00}, w.Bytes())
}
