// Package buffer provides the bounded write and read cursors the qcbor
// encoder and decoder are built on.
//
// Both cursors operate over a caller-supplied slice and never allocate or
// grow past its capacity; this is the "no dynamic allocation" contract the
// core is required to uphold. This narrows mebo's internal/pool.ByteBuffer
// (which grows its backing array on demand) to a fixed-capacity cursor: a
// Writer's capacity is the caller's output slice, full stop.
//
// # Thread Safety
//
// Writer and Reader are not safe for concurrent use. Each goroutine must
// use its own cursor.
package buffer

import "encoding/binary"

// Writer is a bounded write cursor over a caller-supplied byte slice.
//
// A Writer never reallocates. Once its capacity is exhausted, every write
// method reports false (or a zero offset) instead of growing the backing
// array. A Writer created with NewSizeWriter has no backing array at all:
// it only advances its offset, for callers that want to compute the
// encoded size before allocating an output buffer.
type Writer struct {
	buf      []byte
	off      int
	sizeOnly bool
}

// NewWriter wraps out as a bounded write cursor. Writes past len(out) fail.
func NewWriter(out []byte) *Writer {
	return &Writer{buf: out}
}

// NewSizeWriter returns a Writer with no backing storage: every write
// succeeds and only advances the offset, so Len reports the number of
// bytes a real encode would produce.
func NewSizeWriter() *Writer {
	return &Writer{sizeOnly: true}
}

// Len returns the number of bytes written (or that would have been
// written, in size-only mode) so far.
func (w *Writer) Len() int { return w.off }

// Cap returns the writer's total capacity. In size-only mode it returns
// the maximum int, since there is no real limit.
func (w *Writer) Cap() int {
	if w.sizeOnly {
		return int(^uint(0) >> 1)
	}

	return len(w.buf)
}

// Remaining returns the number of bytes still available for writing.
func (w *Writer) Remaining() int { return w.Cap() - w.off }

// Bytes returns the written prefix of the backing slice. It panics in
// size-only mode, where there is no backing slice to return.
func (w *Writer) Bytes() []byte {
	if w.sizeOnly {
		panic("buffer: Bytes called on a size-only Writer")
	}

	return w.buf[:w.off]
}

// PutByte appends a single byte, reporting false if the writer has no
// remaining capacity.
func (w *Writer) PutByte(b byte) bool {
	if w.Remaining() < 1 {
		return false
	}

	if !w.sizeOnly {
		w.buf[w.off] = b
	}
	w.off++

	return true
}

// PutBytes appends p verbatim, reporting false (and writing nothing) if p
// does not fully fit in the remaining capacity.
func (w *Writer) PutBytes(p []byte) bool {
	if w.Remaining() < len(p) {
		return false
	}

	if !w.sizeOnly {
		copy(w.buf[w.off:], p)
	}
	w.off += len(p)

	return true
}

// PutString appends s verbatim without the intermediate []byte(s) copy a
// plain PutBytes([]byte(s)) call would force: Go's builtin copy accepts a
// string source directly.
func (w *Writer) PutString(s string) bool {
	if w.Remaining() < len(s) {
		return false
	}

	if !w.sizeOnly {
		copy(w.buf[w.off:], s)
	}
	w.off += len(s)

	return true
}

// PutUint16 appends v big-endian.
func (w *Writer) PutUint16(v uint16) bool {
	if w.Remaining() < 2 {
		return false
	}

	if !w.sizeOnly {
		binary.BigEndian.PutUint16(w.buf[w.off:], v)
	}
	w.off += 2

	return true
}

// PutUint32 appends v big-endian.
func (w *Writer) PutUint32(v uint32) bool {
	if w.Remaining() < 4 {
		return false
	}

	if !w.sizeOnly {
		binary.BigEndian.PutUint32(w.buf[w.off:], v)
	}
	w.off += 4

	return true
}

// PutUint64 appends v big-endian.
func (w *Writer) PutUint64(v uint64) bool {
	if w.Remaining() < 8 {
		return false
	}

	if !w.sizeOnly {
		binary.BigEndian.PutUint64(w.buf[w.off:], v)
	}
	w.off += 8

	return true
}

// Reserve advances the cursor by n bytes without writing anything
// (zero-filled, in real mode) and returns the offset the reservation
// starts at, so the caller can patch it in later via PatchAt. Reports
// false (and does not advance) if there is insufficient capacity.
func (w *Writer) Reserve(n int) (offset int, ok bool) {
	if w.Remaining() < n {
		return 0, false
	}

	offset = w.off
	if !w.sizeOnly {
		for i := 0; i < n; i++ {
			w.buf[w.off+i] = 0
		}
	}
	w.off += n

	return offset, true
}

// PatchAt overwrites the n bytes starting at offset with p. It is used by
// the encoder to backfill a container head once the final item count is
// known. It is a no-op in size-only mode.
func (w *Writer) PatchAt(offset int, p []byte) {
	if w.sizeOnly {
		return
	}

	copy(w.buf[offset:offset+len(p)], p)
}

// ShiftRight moves the bytes in [from, w.off) right by delta bytes,
// growing the written region by delta, to make room for a container head
// that grew past its originally reserved size (e.g. an array crossing 24
// items needs a 2-byte length instead of the 1-byte length reserved at
// Open time). Reports false if there isn't delta bytes of spare capacity.
func (w *Writer) ShiftRight(from int, delta int) bool {
	if delta == 0 {
		return true
	}

	if w.Remaining() < delta {
		return false
	}

	if !w.sizeOnly {
		copy(w.buf[from+delta:w.off+delta], w.buf[from:w.off])
	}
	w.off += delta

	return true
}

// Truncate resets the cursor to offset, discarding everything written
// after it. Used by CancelByteStringWrap.
func (w *Writer) Truncate(offset int) { w.off = offset }
