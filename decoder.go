package qcbor

import (
	"math"

	"github.com/plietar/qcbor/internal/buffer"
	"github.com/plietar/qcbor/internal/pool"
)

const maxPendingTags = 8

// DecoderMode selects the label-type policy and map presentation (spec §6:
// `mode ∈ {Normal, MapStringsOnly, MapAsArray}`).
type DecoderMode uint8

const (
	// ModeNormal accepts int, uint, or text-string map labels; anything
	// else (including a compound label) raises MapLabelType.
	ModeNormal DecoderMode = iota
	// ModeMapStringsOnly additionally requires every map label to be a
	// text string; any other label kind raises MapLabelType.
	ModeMapStringsOnly
	// ModeMapAsArray reports a map's entries as a flat KindMapAsArray
	// sequence (2x the pair count) instead of KindMap, with no label-type
	// check at all.
	ModeMapAsArray
)

// Decoder walks a CBOR-encoded byte slice one item at a time via GetNext.
// It tracks nesting the same way the Encoder does, via a shared fixed-depth
// nestingStack, and never allocates except through a caller-supplied
// pool.Allocator when an indefinite-length string must be materialized.
//
// Decoder is not safe for concurrent use.
type Decoder struct {
	r         *buffer.Reader
	nest      nestingStack
	strict    bool
	mode      DecoderMode
	allocator pool.Allocator

	configuredTags []uint64 // caller's tag list; index i -> bit i of TagBitmap

	pendingTags [maxPendingTags]uint64
	pendingN    int
}

// NewDecoder returns a Decoder over data. data is not copied; it must
// outlive the Decoder and any ByteString/TextString values GetNext returns
// that aren't DataAllocated.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{r: buffer.NewReader(data), nest: newNestingStack()}
}

// SetStrict rejects non-minimal integer/length encodings (see decodeHead).
func (d *Decoder) SetStrict(on bool) { d.strict = on }

// SetMode selects the label-type policy and map presentation. See
// DecoderMode.
func (d *Decoder) SetMode(m DecoderMode) { d.mode = m }

// SetMapAsArray is a convenience wrapper over SetMode(ModeMapAsArray),
// reporting every map's entries as a flat KindMapAsArray sequence (2x the
// pair count) instead of KindMap, for callers that want to walk label/value
// pairs without the spiffy cursor's duplicate-label bookkeeping.
func (d *Decoder) SetMapAsArray(on bool) {
	if on {
		d.mode = ModeMapAsArray
	} else if d.mode == ModeMapAsArray {
		d.mode = ModeNormal
	}
}

// SetStringAllocator configures the allocator GetNext uses to materialize
// indefinite-length byte/text strings. Without one, an indefinite-length
// string reports ErrNoStringAllocator.
func (d *Decoder) SetStringAllocator(a pool.Allocator) { d.allocator = a }

// SetTagList registers up to 64 tag numbers the caller wants reflected in
// DecodedItem.TagBitmap (bit i set if tags[i] appeared on the item's tag
// chain). Built-in tags (0,1,2,3,4,5,100,1004) are promoted into a
// dedicated Kind instead and need not be listed here.
func (d *Decoder) SetTagList(tags []uint64) { d.configuredTags = tags }

// Level reports the current nesting depth (0 = top).
func (d *Decoder) Level() int { return d.nest.level() }

// Finish releases allocator resources (if a string allocator was
// configured) and reports whether every opened container was closed.
func (d *Decoder) Finish() error {
	if d.allocator != nil {
		d.allocator.Allocate(nil, 0)
	}

	if d.nest.level() != 0 {
		return errHitEnd()
	}

	return nil
}

// GetNext decodes and returns the next item in the input: a scalar value,
// or the head of an array/map (whose sub-items are returned by subsequent
// GetNext calls, tracked via the nesting stack). It reports io-style
// exhaustion as errs.ErrNoMoreItems once every item at the top level has
// been consumed.
func (d *Decoder) GetNext() (DecodedItem, error) {
	if d.nest.level() == 0 && d.r.Exhausted() {
		return DecodedItem{}, errNoMoreItems()
	}

	item, err := d.decodeOneItem()
	if err != nil {
		return DecodedItem{}, err
	}

	if err := d.closeFinishedFrames(); err != nil {
		return DecodedItem{}, err
	}
	item.NextNestLevel = d.nest.level()

	return item, nil
}

// PeekNext behaves like GetNext but leaves the cursor unmoved, for callers
// that want to inspect an item's kind before deciding how to consume it.
func (d *Decoder) PeekNext() (DecodedItem, error) {
	savedOff := d.r.Offset()
	savedNest := d.nest

	item, err := d.GetNext()

	d.r.Seek(savedOff)
	d.nest = savedNest

	return item, err
}

// GetNextWithTags behaves like GetNext but also copies the item's raw tag
// number chain into tagsOut, reporting the count used. It reports
// ErrTooManyTags if the chain is longer than len(tagsOut).
func (d *Decoder) GetNextWithTags(tagsOut []uint64) (DecodedItem, int, error) {
	item, err := d.GetNext()
	if err != nil {
		return item, 0, err
	}

	if d.pendingN > len(tagsOut) {
		return item, 0, errTooManyTags()
	}

	n := copy(tagsOut, d.pendingTags[:d.pendingN])

	return item, n, nil
}

// closeFinishedFrames pops every container that has run out of items: a
// definite-length frame whose remaining count reached zero, or an
// indefinite-length frame immediately followed by a break. Consecutive
// closes (e.g. the last item of a doubly-nested array) collapse in one
// call, same as the encoder's single-pass backpatch.
func (d *Decoder) closeFinishedFrames() error {
	for {
		top := d.nest.top()
		if top.kind == nestTop {
			return nil
		}

		if !top.isIndefinite {
			if top.count == 0 {
				d.nest.pop()
				continue
			}

			return nil
		}

		b, ok := d.r.PeekByte()
		if !ok {
			return nil
		}
		if b != 0xff {
			return nil
		}

		d.r.GetByte()
		d.nest.pop()
	}
}

func (d *Decoder) decodeOneItem() (DecodedItem, error) {
	top := d.nest.top()
	isMapLabel := top.kind == nestMap && top.seq%2 == 0
	if top.kind != nestTop {
		top.seq++
	}
	if top.kind != nestTop && !top.isIndefinite {
		top.count--
	}

	nestLevel := d.nest.level()
	d.pendingN = 0

	for {
		h, err := decodeHead(d.r, d.strict)
		if err != nil {
			return DecodedItem{}, err
		}

		if h.isBreak {
			return DecodedItem{}, errBadBreak()
		}

		if h.major == majorTag {
			if d.pendingN >= maxPendingTags {
				return DecodedItem{}, errTooManyTags()
			}
			d.pendingTags[d.pendingN] = h.argument
			d.pendingN++

			continue
		}

		item, err := d.decodeTaggedContent(h)
		if err != nil {
			return DecodedItem{}, err
		}

		if isMapLabel {
			switch d.mode {
			case ModeMapStringsOnly:
				if item.Kind != KindTextString {
					return DecodedItem{}, errMapLabelType()
				}
			case ModeNormal:
				if item.Kind != KindTextString && item.Kind != KindInt64 && item.Kind != KindUInt64 {
					return DecodedItem{}, errMapLabelType()
				}
			}
		}

		item.NestLevel = nestLevel
		item.TagBitmap = d.configuredTagBitmap()

		return item, nil
	}
}

func (d *Decoder) configuredTagBitmap() uint64 {
	if len(d.configuredTags) == 0 || d.pendingN == 0 {
		return 0
	}

	var bm uint64
	for i, want := range d.configuredTags {
		if i >= 64 {
			break
		}
		for j := 0; j < d.pendingN; j++ {
			if d.pendingTags[j] == want {
				bm |= 1 << uint(i)
				break
			}
		}
	}

	return bm
}

// decodeTaggedContent dispatches on the last tag number seen (if any) to
// the special-cased composite decoders (tags.go) before falling back to
// decodeContent for everything else, then applies the simple wrap-tag
// promotions (date/bignum) to the result.
func (d *Decoder) decodeTaggedContent(h decodedHead) (DecodedItem, error) {
	if d.pendingN > 0 {
		switch d.pendingTags[d.pendingN-1] {
		case tagDecimalFraction, tagBigFloat:
			return d.decodeExpMant(h, d.pendingTags[d.pendingN-1])
		}
	}

	item, err := d.decodeContent(h)
	if err != nil {
		return item, err
	}

	for i := d.pendingN - 1; i >= 0; i-- {
		if err := d.promoteTag(&item, d.pendingTags[i]); err != nil {
			return item, err
		}
	}

	return item, nil
}

func (d *Decoder) decodeContent(h decodedHead) (DecodedItem, error) {
	switch h.major {
	case majorUnsignedInt:
		// In-range values are reported as the signed Kind, matching QCBOR's
		// own promotion; only a magnitude too large for int64 stays UInt64.
		if h.argument <= math.MaxInt64 {
			return DecodedItem{Kind: KindInt64, Int64: int64(h.argument)}, nil
		}

		return DecodedItem{Kind: KindUInt64, UInt64: h.argument}, nil

	case majorNegativeInt:
		if h.argument > math.MaxInt64 {
			return DecodedItem{}, errIntOverflow()
		}

		return DecodedItem{Kind: KindInt64, Int64: -1 - int64(h.argument)}, nil

	case majorByteString:
		return d.decodeString(h, KindByteString)

	case majorTextString:
		return d.decodeString(h, KindTextString)

	case majorArray:
		return d.decodeContainer(h, nestArray)

	case majorMap:
		return d.decodeContainer(h, nestMap)

	case majorSimple:
		return d.decodeSimple(h)

	default:
		return DecodedItem{}, errUnsupported()
	}
}

func (d *Decoder) decodeString(h decodedHead, kind ItemKind) (DecodedItem, error) {
	if !h.indefinite {
		b, ok := d.r.GetBytes(int(h.argument))
		if !ok {
			return DecodedItem{}, errHitEnd()
		}

		return DecodedItem{Kind: kind, Bytes: b}, nil
	}

	if d.allocator == nil {
		return DecodedItem{}, errNoStringAllocator()
	}

	var acc []byte
	for {
		ch, err := decodeHead(d.r, d.strict)
		if err != nil {
			return DecodedItem{}, err
		}
		if ch.isBreak {
			break
		}
		if ch.major != h.major || ch.indefinite {
			return DecodedItem{}, errIndefiniteStringChunk()
		}

		chunk, ok := d.r.GetBytes(int(ch.argument))
		if !ok {
			return DecodedItem{}, errHitEnd()
		}

		nb := d.allocator.Allocate(acc, len(acc)+len(chunk))
		if nb == nil {
			return DecodedItem{}, errMemPoolTooSmall()
		}
		copy(nb[len(acc):], chunk)
		acc = nb
	}

	return DecodedItem{Kind: kind, Bytes: acc, DataAllocated: true}, nil
}

func (d *Decoder) decodeContainer(h decodedHead, kind nestKind) (DecodedItem, error) {
	item := DecodedItem{Kind: KindArray}
	if kind == nestMap {
		item.Kind = KindMap
	}
	if kind == nestMap && d.mode == ModeMapAsArray {
		item.Kind = KindMapAsArray
	}

	if h.indefinite {
		item.Count = IndefiniteCount
		if !d.nest.push(nestFrame{kind: kind, isIndefinite: true}) {
			return DecodedItem{}, errBadNestingTooDeep()
		}

		return item, nil
	}

	if h.argument > MaxItemsPerContainer {
		return DecodedItem{}, errArrayDecodeTooLong()
	}

	item.Count = uint16(h.argument)
	if item.Kind == KindMapAsArray {
		if h.argument*2 > MaxItemsPerContainer {
			return DecodedItem{}, errArrayDecodeTooLong()
		}
		item.Count = uint16(h.argument * 2)
	}

	remaining := h.argument
	if kind == nestMap {
		remaining *= 2
	}

	if !d.nest.push(nestFrame{kind: kind, count: uint32(remaining)}) {
		return DecodedItem{}, errBadNestingTooDeep()
	}

	return item, nil
}

func (d *Decoder) decodeSimple(h decodedHead) (DecodedItem, error) {
	switch h.ai {
	case 20:
		return DecodedItem{Kind: KindFalse}, nil
	case 21:
		return DecodedItem{Kind: KindTrue}, nil
	case 22:
		return DecodedItem{Kind: KindNull}, nil
	case 23:
		return DecodedItem{Kind: KindUndef}, nil
	case aiTwoByte:
		return DecodedItem{Kind: KindFloat64, Float64: buffer.HalfToFloat64(uint16(h.argument))}, nil
	case aiFourByte:
		return DecodedItem{Kind: KindFloat32, Float64: float64(math.Float32frombits(uint32(h.argument)))}, nil
	case aiEightByte:
		return DecodedItem{Kind: KindFloat64, Float64: math.Float64frombits(h.argument)}, nil
	default:
		return DecodedItem{Kind: KindUnknownSimple, Simple: uint8(h.argument)}, nil
	}
}
