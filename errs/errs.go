// Package errs defines the sentinel errors returned by the qcbor encoder and
// decoder, grouped into the numeric bands described by the wire-format
// specification.
//
// Callers compare against a sentinel with errors.Is, the same way mebo's
// blob package compares against errs.ErrMetricAlreadyStarted and friends:
//
//	if errors.Is(err, errs.ErrUnexpectedType) { ... }
//
// Each sentinel also carries a stable numeric code. The bands partition the
// code space so membership tests reduce to a range comparison instead of an
// enumeration:
//
//	1..19   encode errors
//	20..29  not-well-formed, decoding cannot proceed
//	30..39  not-well-formed and unrecoverable
//	40..59  content-valid but unrecoverable (implementation limits, allocator failures)
//	60+     recoverable content errors (type mismatch, label not found, ...)
package errs

import "fmt"

// Error is a qcbor error: a stable numeric code plus a short message. The
// package-level sentinels are *Error values, so errors.Is keeps matching
// them after call-site detail has been added via Wrap or fmt.Errorf("%w: ...").
type Error struct {
	code int
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable numeric code for this error, for callers that
// need to classify an error without an errors.Is chain (e.g. across an FFI
// or log boundary).
func (e *Error) Code() int { return e.code }

func newErr(code int, msg string) *Error { return &Error{code: code, msg: msg} }

// IsNotWellFormed reports whether code falls in the not-well-formed bands
// (20..39): the input is syntactically invalid CBOR.
func IsNotWellFormed(code int) bool { return code >= 20 && code <= 39 }

// IsUnrecoverable reports whether code falls in the unrecoverable bands
// (30..59): decoding cannot proceed, though the caller may inspect partial
// state.
func IsUnrecoverable(code int) bool { return code >= 30 && code <= 59 }

// Describe returns the human-readable string for a numeric error code, for
// callers that only have the code (e.g. read back from a log line) and not
// the original error value. Unknown codes return "unknown error".
func Describe(code int) string {
	if msg, ok := codeText[code]; ok {
		return msg
	}

	return "unknown error"
}

// Encode errors (1..19): problems the encoder detects while building output.
var (
	ErrBufferTooSmall       = newErr(1, "output buffer too small")
	ErrArrayOrMapStillOpen  = newErr(2, "array or map still open at Finish")
	ErrTooManyCloses        = newErr(3, "more closes than opens")
	ErrCloseMismatch        = newErr(4, "close does not match the open container kind")
	ErrCannotCancel         = newErr(5, "byte string wrap cannot be cancelled after items were added")
	ErrArrayTooLong         = newErr(6, "container has too many items")
	ErrNestingTooDeep       = newErr(7, "nesting depth limit exceeded")
	ErrEncodeUnsupported    = newErr(8, "value cannot be encoded")
	ErrAddingNilWithNoMatch = newErr(9, "no open container to add item to")
)

// Not-well-formed, decoding cannot proceed (20..29).
var (
	ErrUnsupported        = newErr(20, "reserved additional-info value 28..30")
	ErrBadBreak           = newErr(21, "break encountered without a matching indefinite-length container")
	ErrHitEnd             = newErr(22, "input ended in the middle of an item")
	ErrBadInt             = newErr(23, "integer head malformed")
	ErrIndefiniteStringChunk = newErr(24, "indefinite-length string chunk has the wrong major type")
)

// Not-well-formed and unrecoverable (30..39).
var (
	ErrBadNestingTooDeep   = newErr(30, "nesting depth limit exceeded while decoding")
	ErrBadOpeningTag       = newErr(31, "tag content does not match its declared contract")
	ErrArrayDecodeTooLong  = newErr(32, "container item count exceeds implementation limit")
	ErrMapLabelType        = newErr(33, "map label is not a supported type")
	ErrUnrecoverableTagContent = newErr(34, "tag content is invalid and cannot be skipped")
)

// Content-valid but unrecoverable (40..59): implementation limits, allocator failures.
var (
	ErrNoStringAllocator = newErr(40, "indefinite-length string encountered with no string allocator configured")
	ErrMemPoolTooSmall   = newErr(41, "string allocator pool too small")
	ErrTooManyTags       = newErr(42, "more tags on an item than the caller-supplied tag array can hold")
	ErrDateOverflow      = newErr(43, "epoch date value outside the representable range")
	ErrIntOverflow       = newErr(44, "value does not fit in a signed 64-bit integer")
	ErrHalfPrecisionDisabled = newErr(45, "half-precision float decode disabled by configuration")
	ErrHwFloatDisabled   = newErr(46, "floating-point hardware use disabled by configuration")
	ErrAllFloatDisabled  = newErr(47, "all floating-point support disabled by configuration")
	ErrInputTooLarge     = newErr(48, "input slice exceeds the maximum decode input size")
)

// Recoverable content errors (60+): type mismatch, label not found, conversion overflow.
var (
	ErrUnexpectedType          = newErr(60, "item kind does not match the requested type")
	ErrLabelNotFound           = newErr(61, "label not present in map")
	ErrDuplicateLabel          = newErr(62, "label appears more than once in map")
	ErrExitMismatch            = newErr(63, "exit does not match the entered container kind")
	ErrConversionUnderOverFlow = newErr(64, "value does not fit in the destination type")
	ErrNumberSignConversion    = newErr(65, "negative value requested as unsigned")
	ErrRecoverableBadTagContent = newErr(66, "tag content was invalid but consumed")
	ErrNoMoreItems             = newErr(67, "no more items at this nesting level")
)

var codeText = func() map[int]string {
	all := []*Error{
		ErrBufferTooSmall, ErrArrayOrMapStillOpen, ErrTooManyCloses, ErrCloseMismatch,
		ErrCannotCancel, ErrArrayTooLong, ErrNestingTooDeep, ErrEncodeUnsupported, ErrAddingNilWithNoMatch,
		ErrUnsupported, ErrBadBreak, ErrHitEnd, ErrBadInt, ErrIndefiniteStringChunk,
		ErrBadNestingTooDeep, ErrBadOpeningTag, ErrArrayDecodeTooLong, ErrMapLabelType, ErrUnrecoverableTagContent,
		ErrNoStringAllocator, ErrMemPoolTooSmall, ErrTooManyTags, ErrDateOverflow, ErrIntOverflow,
		ErrHalfPrecisionDisabled, ErrHwFloatDisabled, ErrAllFloatDisabled, ErrInputTooLarge,
		ErrUnexpectedType, ErrLabelNotFound, ErrDuplicateLabel, ErrExitMismatch,
		ErrConversionUnderOverFlow, ErrNumberSignConversion, ErrRecoverableBadTagContent, ErrNoMoreItems,
	}

	m := make(map[int]string, len(all))
	for _, e := range all {
		m[e.code] = e.msg
	}

	return m
}()

// Wrap annotates a sentinel with call-site detail while keeping it
// comparable with errors.Is, mirroring mebo's fmt.Errorf("%w: ...", errs.ErrX, ...) style.
func Wrap(sentinel *Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
