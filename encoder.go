package qcbor

import (
	"math"

	"github.com/plietar/qcbor/errs"
	"github.com/plietar/qcbor/internal/buffer"
)

// Encoder builds a CBOR data item (or item sequence) into a caller-supplied
// byte slice with no dynamic allocation: every Add/Open call writes directly
// into the destination buffer, and a definite-length container's head is
// backpatched in place via internal/buffer.Writer.ShiftRight as its item
// count crosses an additional-info boundary.
//
// Encoder is not safe for concurrent use and is not reusable once Finish
// has been called; construct a new one per encode.
//
// Add/Open/Close methods report no error directly. Once any operation
// fails, the Encoder records the error internally and every subsequent
// call becomes a no-op; the failure surfaces from Finish. This mirrors how
// QCBOR's own C encoder works, and keeps the common success path free of
// per-call error checking.
type Encoder struct {
	w              *buffer.Writer
	nest           nestingStack
	preferredFloat bool
	sizeOnly       bool
	err            error
}

// NewEncoder returns an Encoder that writes into out. Preferred (minimal)
// float encoding is on by default.
func NewEncoder(out []byte) *Encoder {
	return &Encoder{w: buffer.NewWriter(out), nest: newNestingStack(), preferredFloat: true}
}

// NewSizeEncoder returns an Encoder with no backing buffer: every operation
// succeeds and only advances an internal offset, so Size reports the number
// of bytes a real encode would produce. Used to size a buffer before a real
// encode pass.
func NewSizeEncoder() *Encoder {
	return &Encoder{w: buffer.NewSizeWriter(), nest: newNestingStack(), preferredFloat: true, sizeOnly: true}
}

// NewSizeCalculator is an alias for NewSizeEncoder, matching QCBOR's
// "no buffer" UsefulBufC convention by name for callers coming from that API.
func NewSizeCalculator() *Encoder { return NewSizeEncoder() }

// SetPreferredFloat toggles narrowest-exact float encoding (on by default).
// When off, AddDouble always emits 8 bytes and AddFloat always emits 4,
// except that NaN and infinities still always collapse to half-precision.
func (e *Encoder) SetPreferredFloat(on bool) { e.preferredFloat = on }

// Size reports the number of bytes written (or that would have been
// written, for a size-only Encoder) so far.
func (e *Encoder) Size() int { return e.w.Len() }

func (e *Encoder) ok() bool { return e.err == nil }

func (e *Encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// countItem accounts for one sub-item being added to the currently open
// container (if any), growing its reserved head in place if the new count
// crosses an additional-info boundary. A map's wire argument is its pair
// count (sub-items/2); countItem still increments by one per Add call, per
// pair half, matching how the running counter is described: an array of
// three items increments the counter by three, a map of two pairs by four.
func (e *Encoder) countItem() bool {
	f := e.nest.top()
	if f.kind == nestTop || f.kind == nestByteStringWrap {
		return true
	}

	newSub := f.count + 1
	if newSub > MaxItemsPerContainer {
		e.fail(errs.ErrArrayTooLong)
		return false
	}

	newArg := uint64(newSub)
	if f.kind == nestMap {
		newArg = uint64(newSub / 2)
	}

	if !f.isIndefinite {
		neededLen := headLenForArgument(newArg)
		if neededLen > f.headLen {
			delta := neededLen - f.headLen
			if !e.w.ShiftRight(f.headOffset+f.headLen, delta) {
				e.fail(errs.ErrBufferTooSmall)
				return false
			}
			f.headLen = neededLen
		}
	}

	f.count = newSub

	return true
}

func majorForKind(k nestKind) majorType {
	switch k {
	case nestArray:
		return majorArray
	case nestMap:
		return majorMap
	case nestByteStringWrap:
		return majorByteString
	default:
		return majorSimple
	}
}

func (e *Encoder) openContainer(kind nestKind, indefinite bool) {
	if !e.ok() || !e.countItem() {
		return
	}

	major := majorForKind(kind)

	if indefinite {
		if !encodeIndefiniteHead(e.w, major) {
			e.fail(errs.ErrBufferTooSmall)
			return
		}
		if !e.nest.push(nestFrame{kind: kind, isIndefinite: true, headOffset: e.w.Len()}) {
			e.fail(errs.ErrNestingTooDeep)
		}

		return
	}

	headOffset := e.w.Len()
	if !encodeHead(e.w, major, 0) {
		e.fail(errs.ErrBufferTooSmall)
		return
	}
	headLen := e.w.Len() - headOffset

	if !e.nest.push(nestFrame{kind: kind, headOffset: headOffset, headLen: headLen}) {
		e.fail(errs.ErrNestingTooDeep)
	}
}

// patchContainerHead rewrites f's reserved head in place with arg as its
// final argument, growing the reservation first if needed. The write goes
// through a small stack array, never a heap allocation.
func (e *Encoder) patchContainerHead(f nestFrame, arg uint64) {
	neededLen := headLenForArgument(arg)
	if neededLen > f.headLen {
		delta := neededLen - f.headLen
		if !e.w.ShiftRight(f.headOffset+f.headLen, delta) {
			e.fail(errs.ErrBufferTooSmall)
			return
		}
	}

	var tmp [9]byte
	tw := buffer.NewWriter(tmp[:neededLen])
	encodeHead(tw, majorForKind(f.kind), arg)
	e.w.PatchAt(f.headOffset, tw.Bytes())
}

func (e *Encoder) closeContainer(expected nestKind) {
	if !e.ok() {
		return
	}

	f, ok := e.nest.pop()
	if !ok {
		e.fail(errs.ErrTooManyCloses)
		return
	}
	if f.kind != expected {
		e.fail(errs.ErrCloseMismatch)
		return
	}

	if f.isIndefinite {
		if f.kind == nestByteStringWrap {
			length := uint64(e.w.Len() - f.headOffset)
			e.patchByteStringWrapChunk(f.headOffset, length)
		}
		if !encodeBreak(e.w) {
			e.fail(errs.ErrBufferTooSmall)
		}

		return
	}

	switch f.kind {
	case nestByteStringWrap:
		length := uint64(e.w.Len() - (f.headOffset + f.headLen))
		e.patchContainerHead(f, length)
	case nestMap:
		e.patchContainerHead(f, uint64(f.count/2))
	default:
		e.patchContainerHead(f, uint64(f.count))
	}
}

// patchByteStringWrapChunk inserts a definite byte-string chunk head of the
// given length at offset, shifting the already-written chunk bytes right to
// make room. Used only for the indefinite byte-string-wrap close path,
// which wraps its whole payload as a single chunk.
func (e *Encoder) patchByteStringWrapChunk(offset int, length uint64) {
	headLen := headLenForArgument(length)
	if !e.w.ShiftRight(offset, headLen) {
		e.fail(errs.ErrBufferTooSmall)
		return
	}

	var tmp [9]byte
	tw := buffer.NewWriter(tmp[:headLen])
	encodeHead(tw, majorByteString, length)
	e.w.PatchAt(offset, tw.Bytes())
}

// OpenArray starts a definite-length array; the item count is discovered
// from the number of Add/Open calls made before the matching CloseArray.
func (e *Encoder) OpenArray() { e.openContainer(nestArray, false) }

// OpenArrayIndefinite starts an indefinite-length array, closed by
// CloseArray writing a break instead of a backpatched count.
func (e *Encoder) OpenArrayIndefinite() { e.openContainer(nestArray, true) }

// OpenMap starts a definite-length map. Items are added as alternating
// label/value pairs; the map's wire argument is the pair count.
func (e *Encoder) OpenMap() { e.openContainer(nestMap, false) }

// OpenMapIndefinite starts an indefinite-length map.
func (e *Encoder) OpenMapIndefinite() { e.openContainer(nestMap, true) }

// OpenByteStringWrap starts a byte string whose content is itself CBOR
// written by the following Add/Open calls, up to the matching
// CloseByteStringWrap. Used to wrap a sub-item for detached signing, as in
// COSE's Sig_structure.
func (e *Encoder) OpenByteStringWrap() { e.openContainer(nestByteStringWrap, false) }

// OpenByteStringWrapIndefinite starts an indefinite-length byte string wrap:
// the wrapped content is emitted as a single definite chunk at close time,
// followed by a break.
func (e *Encoder) OpenByteStringWrapIndefinite() { e.openContainer(nestByteStringWrap, true) }

// CloseArray closes the most recently opened array.
func (e *Encoder) CloseArray() { e.closeContainer(nestArray) }

// CloseMap closes the most recently opened map.
func (e *Encoder) CloseMap() { e.closeContainer(nestMap) }

// CloseByteStringWrap closes the most recently opened byte string wrap,
// backpatching its length.
func (e *Encoder) CloseByteStringWrap() { e.closeContainer(nestByteStringWrap) }

// CancelByteStringWrap abandons the most recently opened byte string wrap
// and removes its reserved head from the output, provided no items were
// added inside it yet. It reports ErrCannotCancel (without marking the
// whole Encoder failed) if that precondition doesn't hold, so the caller
// may still close normally instead.
func (e *Encoder) CancelByteStringWrap() error {
	if !e.ok() {
		return e.err
	}

	f := e.nest.top()
	if f.kind != nestByteStringWrap {
		return errs.Wrap(errs.ErrCannotCancel, "no open byte string wrap")
	}

	emptySoFar := e.w.Len() == f.headOffset+f.headLen
	if !emptySoFar {
		return errs.Wrap(errs.ErrCannotCancel, "items already added since open")
	}

	e.nest.pop()
	start := f.headOffset
	if f.isIndefinite {
		start-- // an indefinite wrap's frame records the offset just past its one-byte head
	}
	e.w.Truncate(start)

	// The wrap counted as one item against its parent at Open time; since
	// it's being abandoned entirely, that doesn't happen after all.
	if parent := e.nest.top(); parent.kind == nestArray || parent.kind == nestMap {
		parent.count--
	}

	return nil
}

// AddInt64 adds a signed integer, encoded as major type 0 (non-negative) or
// 1 (negative), using the smallest argument width that represents it
// exactly.
func (e *Encoder) AddInt64(v int64) {
	if !e.ok() || !e.countItem() {
		return
	}

	if v < 0 {
		if !encodeHead(e.w, majorNegativeInt, uint64(-1-v)) {
			e.fail(errs.ErrBufferTooSmall)
		}

		return
	}

	if !encodeHead(e.w, majorUnsignedInt, uint64(v)) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

// AddUInt64 adds an unsigned integer, encoded as major type 0.
func (e *Encoder) AddUInt64(v uint64) {
	if !e.ok() || !e.countItem() {
		return
	}

	if !encodeHead(e.w, majorUnsignedInt, v) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

// AddBytes adds a definite-length byte string.
func (e *Encoder) AddBytes(b []byte) {
	if !e.ok() || !e.countItem() {
		return
	}

	if !encodeHead(e.w, majorByteString, uint64(len(b))) || !e.w.PutBytes(b) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

// AddText adds a definite-length UTF-8 text string.
func (e *Encoder) AddText(s string) {
	if !e.ok() || !e.countItem() {
		return
	}

	if !encodeHead(e.w, majorTextString, uint64(len(s))) || !e.w.PutString(s) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

// AddTag writes a tag head immediately preceding the next item added. Tags
// don't consume a container slot of their own: a tag chain followed by its
// tagged content counts as a single item.
func (e *Encoder) AddTag(n uint64) {
	if !e.ok() {
		return
	}

	if !encodeHead(e.w, majorTag, n) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

// AddSimple adds a simple value: 20..23 (false/true/null/undefined) or
// 32..255. Values 24..31 are reserved and reported as ErrEncodeUnsupported.
func (e *Encoder) AddSimple(n uint8) {
	if !e.ok() || !e.countItem() {
		return
	}

	if n >= 24 && n <= 31 {
		e.fail(errs.ErrEncodeUnsupported)
		return
	}

	if !encodeHead(e.w, majorSimple, uint64(n)) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

func (e *Encoder) writeHalf(bits uint16) {
	if !e.w.PutByte(byte(majorSimple)<<5|aiTwoByte) || !e.w.PutUint16(bits) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

func (e *Encoder) writeSingle(v float32) {
	if !e.w.PutByte(byte(majorSimple)<<5|aiFourByte) || !e.w.PutUint32(math.Float32bits(v)) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

func (e *Encoder) writeDouble(v float64) {
	if !e.w.PutByte(byte(majorSimple)<<5|aiEightByte) || !e.w.PutUint64(math.Float64bits(v)) {
		e.fail(errs.ErrBufferTooSmall)
	}
}

func halfBitsForSpecial(v float64) uint16 {
	sign := uint16(0)
	if math.Signbit(v) {
		sign = 0x8000
	}
	if math.IsNaN(v) {
		return sign | 0x7e00
	}

	return sign | 0x7c00 // infinity
}

// halfBitsFromFloat32 attempts an exact round-trip of a float32's bit
// pattern into IEEE 754 binary16, reporting ok=false when v has more
// precision or range than half can hold.
func halfBitsFromFloat32(bits uint32) (half uint16, ok bool) {
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xff) - 127
	mant := bits & 0x7fffff

	switch {
	case bits&0x7fffffff == 0:
		return sign, true
	case exp == 128:
		return 0, false // NaN/Inf handled by the caller before reaching here
	case exp > 15:
		return 0, false
	case exp >= -14:
		if mant&0x1fff != 0 {
			return 0, false
		}

		return sign | uint16((exp+15)<<10) | uint16(mant>>13), true
	case exp >= -24:
		shift := uint(-14 - exp)
		full := mant | 0x800000
		if full&((1<<(13+shift))-1) != 0 {
			return 0, false
		}

		return sign | uint16(full>>(13+shift)), true
	default:
		return 0, false
	}
}

func (e *Encoder) addFloatValue(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.writeHalf(halfBitsForSpecial(v))
		return
	}

	if !e.preferredFloat {
		e.writeDouble(v)
		return
	}

	f32 := float32(v)
	if float64(f32) == v {
		if half, ok := halfBitsFromFloat32(math.Float32bits(f32)); ok {
			e.writeHalf(half)
			return
		}

		e.writeSingle(f32)

		return
	}

	e.writeDouble(v)
}

// AddDouble adds a float64, narrowed to the smallest of half/single/double
// precision that represents it exactly when preferred-float encoding is
// enabled (the default); otherwise always emitted as 8 bytes. NaN and
// infinities always collapse to half-precision regardless of the setting.
func (e *Encoder) AddDouble(v float64) {
	if !e.ok() || !e.countItem() {
		return
	}

	e.addFloatValue(v)
}

// AddFloat adds a float32. Behaves like AddDouble, except that when
// preferred-float encoding is disabled it is emitted as 4 bytes, not 8.
func (e *Encoder) AddFloat(v float32) {
	if !e.ok() || !e.countItem() {
		return
	}

	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		e.writeHalf(halfBitsForSpecial(float64(v)))
		return
	}

	if !e.preferredFloat {
		e.writeSingle(v)
		return
	}

	if half, ok := halfBitsFromFloat32(math.Float32bits(v)); ok {
		e.writeHalf(half)
		return
	}

	e.writeSingle(v)
}

// Finish validates that every opened container was closed and returns the
// encoded bytes, or the first error recorded by any operation. For a
// size-only Encoder, use Size instead; Finish still reports structural
// errors but returns a nil slice.
func (e *Encoder) Finish() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}

	if e.nest.level() > 0 {
		return nil, errs.ErrArrayOrMapStillOpen
	}

	if e.sizeOnly {
		return nil, nil
	}

	return e.w.Bytes(), nil
}
