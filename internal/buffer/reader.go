package buffer

import (
	"encoding/binary"
	"math"
)

// Reader is a bounded read cursor over an in-memory byte slice. It never
// copies the input; every accessor returns a sub-slice or a decoded scalar
// read directly from the backing array.
type Reader struct {
	data []byte
	off  int
}

// NewReader wraps data as a bounded read cursor starting at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.off }

// Len returns the total length of the underlying input.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// Exhausted reports whether there are no more bytes to read.
func (r *Reader) Exhausted() bool { return r.Remaining() <= 0 }

// Seek moves the cursor to an absolute offset. It is used by the spiffy
// decoder's RewindMap/ExitMap to jump the underlying cursor without
// re-reading intervening bytes.
func (r *Reader) Seek(offset int) { r.off = offset }

// PeekByte returns the next byte without advancing the cursor. The second
// return value is false if the input is exhausted.
func (r *Reader) PeekByte() (byte, bool) {
	if r.Exhausted() {
		return 0, false
	}

	return r.data[r.off], true
}

// GetByte reads and consumes one byte.
func (r *Reader) GetByte() (byte, bool) {
	if r.Exhausted() {
		return 0, false
	}

	b := r.data[r.off]
	r.off++

	return b, true
}

// GetBytes consumes and returns n bytes as a sub-slice of the input (no
// copy). The returned slice aliases the input and is only valid as long as
// the input slice is alive.
func (r *Reader) GetBytes(n int) ([]byte, bool) {
	if r.Remaining() < n {
		return nil, false
	}

	b := r.data[r.off : r.off+n]
	r.off += n

	return b, true
}

// GetUint16 reads a big-endian uint16.
func (r *Reader) GetUint16() (uint16, bool) {
	b, ok := r.GetBytes(2)
	if !ok {
		return 0, false
	}

	return binary.BigEndian.Uint16(b), true
}

// GetUint32 reads a big-endian uint32.
func (r *Reader) GetUint32() (uint32, bool) {
	b, ok := r.GetBytes(4)
	if !ok {
		return 0, false
	}

	return binary.BigEndian.Uint32(b), true
}

// GetUint64 reads a big-endian uint64.
func (r *Reader) GetUint64() (uint64, bool) {
	b, ok := r.GetBytes(8)
	if !ok {
		return 0, false
	}

	return binary.BigEndian.Uint64(b), true
}

// HalfToFloat64 expands an IEEE 754 binary16 value (as its raw 16-bit
// representation) into a float64, handling subnormals, infinities and NaN.
func HalfToFloat64(half uint16) float64 {
	sign := uint32(half>>15) & 0x1
	exp := uint32(half>>10) & 0x1f
	frac := uint32(half) & 0x3ff

	var f32bits uint32
	switch {
	case exp == 0 && frac == 0:
		// signed zero
		f32bits = sign << 31
	case exp == 0:
		// subnormal half -> normalize into a float32
		for frac&0x400 == 0 {
			frac <<= 1
			exp--
		}
		exp++
		frac &= 0x3ff
		f32bits = (sign << 31) | ((exp + (127 - 15)) << 23) | (frac << 13)
	case exp == 0x1f:
		// infinity or NaN
		f32bits = (sign << 31) | (0xff << 23) | (frac << 13)
	default:
		f32bits = (sign << 31) | ((exp + (127 - 15)) << 23) | (frac << 13)
	}

	return float64(math.Float32frombits(f32bits))
}
