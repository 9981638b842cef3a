package qcbor

// ItemKind identifies the active arm of a DecodedItem's value, mirroring
// the typed-constant-plus-String() convention mebo's format package uses
// for EncodingType/CompressionType (format.TypeRaw, format.TypeDelta, ...).
//
// Variants are flat and disjoint; there is no dynamic dispatch. A value of
// kind X only ever has field X of DecodedItem populated.
type ItemKind uint8

const (
	KindNone ItemKind = iota
	KindAny           // wildcard used only as an "expected kind" argument, never produced
	KindInt64
	KindUInt64
	KindArray
	KindMap
	KindByteString
	KindTextString
	KindPosBignum
	KindNegBignum
	KindDateString
	KindDateEpoch
	KindUnknownSimple
	KindDecimalFraction
	KindDecimalFractionPosBignum
	KindDecimalFractionNegBignum
	KindBigFloat
	KindBigFloatPosBignum
	KindBigFloatNegBignum
	KindFalse
	KindTrue
	KindNull
	KindUndef
	KindFloat32
	KindFloat64
	KindMapAsArray
	kindBreak  // internal: a break sentinel surfaced to GetNext's caller-internal peek loop
	kindOptTag // internal: a tag head the caller hasn't yet resolved to content
)

//nolint:gochecknoglobals
var itemKindNames = map[ItemKind]string{
	KindNone:                     "None",
	KindAny:                      "Any",
	KindInt64:                    "Int64",
	KindUInt64:                   "UInt64",
	KindArray:                    "Array",
	KindMap:                      "Map",
	KindByteString:               "ByteString",
	KindTextString:               "TextString",
	KindPosBignum:                "PosBignum",
	KindNegBignum:                "NegBignum",
	KindDateString:               "DateString",
	KindDateEpoch:                "DateEpoch",
	KindUnknownSimple:            "UnknownSimple",
	KindDecimalFraction:          "DecimalFraction",
	KindDecimalFractionPosBignum: "DecimalFractionPosBignum",
	KindDecimalFractionNegBignum: "DecimalFractionNegBignum",
	KindBigFloat:                 "BigFloat",
	KindBigFloatPosBignum:        "BigFloatPosBignum",
	KindBigFloatNegBignum:        "BigFloatNegBignum",
	KindFalse:                    "False",
	KindTrue:                     "True",
	KindNull:                     "Null",
	KindUndef:                    "Undef",
	KindFloat32:                  "Float32",
	KindFloat64:                  "Float64",
	KindMapAsArray:               "MapAsArray",
}

func (k ItemKind) String() string {
	if s, ok := itemKindNames[k]; ok {
		return s
	}

	return "Unknown"
}

// IndefiniteCount is the sentinel count value reported on a map/array head
// while its length is still being discovered (i.e. it was opened as
// indefinite-length).
const IndefiniteCount = 0xffff

// epochDate is the value arm for KindDateEpoch: a tag-1 item, split into
// whole seconds and a fractional remainder carried separately so no
// precision is lost converting a large epoch through a float64.
type epochDate struct {
	Seconds  int64
	Fraction float64
}

// exponentMantissa is the value arm shared by DecimalFraction and BigFloat
// kinds: a two-element [exponent, mantissa] array per spec §4.5, where the
// mantissa is either a plain int64 or (for the *PosBignum/*NegBignum
// variants) raw big-endian magnitude bytes.
type exponentMantissa struct {
	Exponent     int64
	Mantissa     int64
	MantissaBig  []byte // non-nil for the *Bignum variants
}

// DecodedItem is one item produced by GetNext: a discriminated union keyed
// on Kind, plus the bookkeeping a caller needs to reconstruct the item
// tree (NestLevel/NextNestLevel) and the tags that applied to it.
type DecodedItem struct {
	Kind ItemKind

	NestLevel     int // depth at which this item occurred (0 = top)
	NextNestLevel int // depth the cursor will be at after this item

	Int64      int64
	UInt64     uint64
	Bytes      []byte // ByteString / TextString / PosBignum / NegBignum payload
	Count      uint16 // Array/Map head argument (doubled for KindMapAsArray); IndefiniteCount while still open
	Float64    float64
	Date       epochDate
	ExpMant    exponentMantissa
	Simple     uint8 // raw simple value for KindUnknownSimple

	// TagBitmap has one bit set per recognised-but-not-promoted tag number
	// that appeared on this item's tag chain, via the caller-configured
	// tag list (spec §4.5); built-in tags are promoted into a dedicated
	// Kind instead of being reflected here.
	TagBitmap uint64

	// DataAllocated reports whether Bytes lives in allocator memory rather
	// than the input slice. Map-entry labels are ordinary items in their
	// own right (GetNext returns a map's label and value as two separate
	// sequential DecodedItems, not a merged pair — see DESIGN.md), so a
	// label's own DataAllocated flag lives on that label item, not on a
	// second field here.
	DataAllocated bool
}

// IsContainer reports whether the item opens a nestable container (array,
// map, or the MapAsArray reflection of a map).
func (d *DecodedItem) IsContainer() bool {
	switch d.Kind {
	case KindArray, KindMap, KindMapAsArray:
		return true
	default:
		return false
	}
}
