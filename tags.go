package qcbor

import "math"

// Built-in tag numbers promoted into a dedicated DecodedItem.Kind, per
// spec §4.5, instead of being left for the caller to interpret from a raw
// byte string or array.
const (
	tagDateString     = 0
	tagDateEpoch      = 1
	tagPosBignum      = 2
	tagNegBignum      = 3
	tagDecimalFraction = 4
	tagBigFloat       = 5
	tagDaysEpoch      = 100
	tagDaysString     = 1004
)

// secondsPerDay converts a tag-100 whole-day count into seconds.
const secondsPerDay = 86400

// promoteTag reclassifies item in place for the built-in tags this core
// understands. Unrecognised tag numbers leave item untouched (the caller
// sees them only via TagBitmap, if registered with SetTagList).
func (d *Decoder) promoteTag(item *DecodedItem, tag uint64) error {
	switch tag {
	case tagDateString:
		if item.Kind != KindTextString {
			return errUnrecoverableTagContent()
		}
		item.Kind = KindDateString

	case tagDaysString:
		if item.Kind != KindTextString {
			return errUnrecoverableTagContent()
		}
		item.Kind = KindDateString

	case tagDateEpoch:
		return promoteDateEpoch(item, false)

	case tagDaysEpoch:
		return promoteDateEpoch(item, true)

	case tagPosBignum:
		if item.Kind != KindByteString {
			return errUnrecoverableTagContent()
		}
		item.Kind = KindPosBignum

	case tagNegBignum:
		if item.Kind != KindByteString {
			return errUnrecoverableTagContent()
		}
		item.Kind = KindNegBignum
	}

	return nil
}

// promoteDateEpoch reclassifies an already-decoded numeric item into
// KindDateEpoch, converting a tag-100 whole-day count into seconds when
// isDays is set.
func promoteDateEpoch(item *DecodedItem, isDays bool) error {
	var seconds float64

	switch item.Kind {
	case KindUInt64:
		seconds = float64(item.UInt64)
	case KindInt64:
		seconds = float64(item.Int64)
	case KindFloat32, KindFloat64:
		seconds = item.Float64
	default:
		return errUnrecoverableTagContent()
	}

	if isDays {
		seconds *= secondsPerDay
	}

	const epochLimit = 9.2233720368547758e18 // ~ math.MaxInt64, as float64
	if seconds > epochLimit || seconds < -epochLimit {
		return errDateOverflow()
	}

	whole := math.Trunc(seconds)
	item.Kind = KindDateEpoch
	item.Date = epochDate{Seconds: int64(whole), Fraction: seconds - whole}

	return nil
}

// decodeExpMant handles tags 4 (DecimalFraction) and 5 (BigFloat): content
// is a definite 2-element array [exponent, mantissa], consumed here
// directly rather than through the normal container push/pop machinery,
// since the pair collapses into a single DecodedItem for the caller.
func (d *Decoder) decodeExpMant(h decodedHead, tag uint64) (DecodedItem, error) {
	if h.major != majorArray || h.indefinite || h.argument != 2 {
		return DecodedItem{}, errUnrecoverableTagContent()
	}

	expHead, err := decodeHead(d.r, d.strict)
	if err != nil {
		return DecodedItem{}, err
	}

	var exponent int64
	switch {
	case expHead.major == majorUnsignedInt:
		exponent = int64(expHead.argument)
	case expHead.major == majorNegativeInt:
		if expHead.argument > math.MaxInt64 {
			return DecodedItem{}, errIntOverflow()
		}
		exponent = -1 - int64(expHead.argument)
	default:
		return DecodedItem{}, errUnrecoverableTagContent()
	}

	mantHead, err := decodeHead(d.r, d.strict)
	if err != nil {
		return DecodedItem{}, err
	}

	em := exponentMantissa{Exponent: exponent}

	switch {
	case mantHead.major == majorUnsignedInt:
		em.Mantissa = int64(mantHead.argument)

	case mantHead.major == majorNegativeInt:
		if mantHead.argument > math.MaxInt64 {
			return DecodedItem{}, errIntOverflow()
		}
		em.Mantissa = -1 - int64(mantHead.argument)

	case mantHead.major == majorTag:
		// a tag-2/tag-3 wrapped bignum mantissa: mantHead was the tag
		// head, its argument is the tag number; read the wrapped byte
		// string next.
		if mantHead.argument != tagPosBignum && mantHead.argument != tagNegBignum {
			return DecodedItem{}, errUnrecoverableTagContent()
		}

		bsHead, err := decodeHead(d.r, d.strict)
		if err != nil {
			return DecodedItem{}, err
		}
		if bsHead.major != majorByteString || bsHead.indefinite {
			return DecodedItem{}, errUnrecoverableTagContent()
		}

		b, ok := d.r.GetBytes(int(bsHead.argument))
		if !ok {
			return DecodedItem{}, errHitEnd()
		}

		em.MantissaBig = b
		if mantHead.argument == tagNegBignum {
			em.Exponent = exponent // exponent unaffected; sign lives in which Kind is chosen below
		}

		if tag == tagDecimalFraction {
			if mantHead.argument == tagPosBignum {
				return DecodedItem{Kind: KindDecimalFractionPosBignum, ExpMant: em}, nil
			}

			return DecodedItem{Kind: KindDecimalFractionNegBignum, ExpMant: em}, nil
		}

		if mantHead.argument == tagPosBignum {
			return DecodedItem{Kind: KindBigFloatPosBignum, ExpMant: em}, nil
		}

		return DecodedItem{Kind: KindBigFloatNegBignum, ExpMant: em}, nil

	default:
		return DecodedItem{}, errUnrecoverableTagContent()
	}

	if tag == tagDecimalFraction {
		return DecodedItem{Kind: KindDecimalFraction, ExpMant: em}, nil
	}

	return DecodedItem{Kind: KindBigFloat, ExpMant: em}, nil
}
