// Package qcbor implements a constrained-device-oriented encoder and
// decoder for CBOR (RFC 8949), the binary format behind COSE and CWT.
//
// The encoder and decoder never allocate: both write into, and read out of,
// caller-supplied byte slices, using a fixed-capacity nesting stack
// (internal/buffer, nesting.go) instead of growable slices or recursion.
//
// # Core Features
//
//   - No-allocation streaming Encoder producing preferred (minimal) CBOR
//   - Sequential Decoder.GetNext iteration over a byte slice
//   - A higher-level "spiffy" cursor with map/array entry, sticky-error
//     short-circuiting, and typed accessors with bounds/sign conversion
//   - Tag promotion for bignums, decimal fractions, big floats, and epoch
//     dates, plus a caller-supplied tag list reflected in each item's
//     TagBitmap
//   - A pluggable string allocator for indefinite-length string chunks
//
// # Basic Usage
//
// Encoding:
//
//	out := make([]byte, 64)
//	enc := qcbor.NewEncoder(out)
//	enc.OpenArray()
//	enc.AddInt64(1)
//	enc.AddText("hi")
//	enc.CloseArray()
//	data, err := enc.Finish()
//
// Decoding:
//
//	dec := qcbor.NewDecoder(data)
//	item, err := dec.GetNext()
//
// # Thread Safety
//
// Encoder and Decoder are not safe for concurrent use, and neither is
// reusable once Finish (encoder) or the final GetNext (decoder) has run.
package qcbor
