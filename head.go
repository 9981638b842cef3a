package qcbor

import (
	"github.com/plietar/qcbor/internal/buffer"
)

// majorType is the upper 3 bits of a CBOR head byte (RFC 8949 §3).
type majorType byte

const (
	majorUnsignedInt majorType = 0
	majorNegativeInt majorType = 1
	majorByteString  majorType = 2
	majorTextString  majorType = 3
	majorArray       majorType = 4
	majorMap         majorType = 5
	majorTag         majorType = 6
	majorSimple      majorType = 7
)

// Additional-info values with a reserved meaning.
const (
	aiIndefiniteOrBreak byte = 31
	aiOneByte           byte = 24
	aiTwoByte           byte = 25
	aiFourByte          byte = 26
	aiEightByte         byte = 27
)

// decodedHead is the result of splitting one CBOR head into its parts.
type decodedHead struct {
	major       majorType
	ai          byte
	argument    uint64
	headLen     int  // total bytes the head itself occupied (1 + argument bytes)
	indefinite  bool // ai == 31 and major is a container/string type
	isBreak     bool // ai == 31 and major == 7
}

// headLenForArgument returns the number of bytes a head encoding argument
// would occupy: 1 for the bare byte, or 1 plus 1/2/4/8 argument bytes.
func headLenForArgument(argument uint64) int {
	switch {
	case argument < 24:
		return 1
	case argument <= 0xff:
		return 2
	case argument <= 0xffff:
		return 3
	case argument <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// encodeHead writes a CBOR head (major type + additional info + argument)
// to w, choosing the smallest additional-info encoding that represents
// argument exactly (RFC 8949 §4.2 preferred encoding). It reports false if
// w does not have enough remaining capacity.
func encodeHead(w *buffer.Writer, major majorType, argument uint64) bool {
	b := byte(major) << 5

	switch {
	case argument < 24:
		return w.PutByte(b | byte(argument))
	case argument <= 0xff:
		return w.PutByte(b|aiOneByte) && w.PutByte(byte(argument))
	case argument <= 0xffff:
		return w.PutByte(b|aiTwoByte) && w.PutUint16(uint16(argument))
	case argument <= 0xffffffff:
		return w.PutByte(b|aiFourByte) && w.PutUint32(uint32(argument))
	default:
		return w.PutByte(b|aiEightByte) && w.PutUint64(argument)
	}
}

// encodeIndefiniteHead writes a head byte with additional-info 31, marking
// the start of an indefinite-length array, map, or string.
func encodeIndefiniteHead(w *buffer.Writer, major majorType) bool {
	return w.PutByte(byte(major)<<5 | aiIndefiniteOrBreak)
}

// encodeBreak writes the one-byte 0xff break sentinel.
func encodeBreak(w *buffer.Writer) bool {
	return w.PutByte(byte(majorSimple)<<5 | aiIndefiniteOrBreak)
}

// decodeHead reads one CBOR head from r.
//
// strict controls whether a non-minimal integer/length encoding (e.g. a
// 2-byte argument whose value would fit in the bare byte) is rejected; the
// spec leaves this a configuration point and defaults to lax (accept).
func decodeHead(r *buffer.Reader, strict bool) (decodedHead, error) {
	b, ok := r.GetByte()
	if !ok {
		return decodedHead{}, errHitEnd()
	}

	major := majorType(b >> 5)
	ai := b & 0x1f

	h := decodedHead{major: major, ai: ai, headLen: 1}

	switch {
	case ai < 24:
		h.argument = uint64(ai)
		return h, nil

	case ai == aiOneByte:
		v, ok := r.GetByte()
		if !ok {
			return decodedHead{}, errHitEnd()
		}
		h.argument = uint64(v)
		h.headLen = 2
		if strict && v < 24 {
			return decodedHead{}, errBadInt()
		}
		return h, nil

	case ai == aiTwoByte:
		v, ok := r.GetUint16()
		if !ok {
			return decodedHead{}, errHitEnd()
		}
		h.argument = uint64(v)
		h.headLen = 3
		if strict && v <= 0xff {
			return decodedHead{}, errBadInt()
		}
		return h, nil

	case ai == aiFourByte:
		v, ok := r.GetUint32()
		if !ok {
			return decodedHead{}, errHitEnd()
		}
		h.argument = uint64(v)
		h.headLen = 5
		if strict && v <= 0xffff {
			return decodedHead{}, errBadInt()
		}
		return h, nil

	case ai == aiEightByte:
		v, ok := r.GetUint64()
		if !ok {
			return decodedHead{}, errHitEnd()
		}
		h.argument = v
		h.headLen = 9
		if strict && v <= 0xffffffff {
			return decodedHead{}, errBadInt()
		}
		return h, nil

	case ai == aiIndefiniteOrBreak:
		if major == majorSimple {
			h.isBreak = true
			return h, nil
		}
		switch major {
		case majorByteString, majorTextString, majorArray, majorMap:
			h.indefinite = true
			return h, nil
		default:
			return decodedHead{}, errUnsupported()
		}

	default: // 28..30
		return decodedHead{}, errUnsupported()
	}
}
