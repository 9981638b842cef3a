package qcbor

import (
	"github.com/plietar/qcbor/internal/options"
	"github.com/plietar/qcbor/internal/pool"
)

// DecoderOption configures a Decoder built via NewDecoderWithOptions.
type DecoderOption = options.Option[*Decoder]

// EncoderOption configures an Encoder built via NewEncoderWithOptions.
type EncoderOption = options.Option[*Encoder]

// WithStrict rejects non-minimal integer/length encodings. See
// Decoder.SetStrict. StrictMode is an alias kept for callers who know this
// setting by its QCBOR name.
func WithStrict(on bool) DecoderOption {
	return options.NoError(func(d *Decoder) { d.SetStrict(on) })
}

// StrictMode is an alias for WithStrict(true).
func StrictMode() DecoderOption { return WithStrict(true) }

// WithMode selects the label-type policy and map presentation. See
// DecoderMode.
func WithMode(m DecoderMode) DecoderOption {
	return options.NoError(func(d *Decoder) { d.SetMode(m) })
}

// WithMapAsArray reports every map as a flat KindMapAsArray sequence. See
// Decoder.SetMapAsArray.
func WithMapAsArray(on bool) DecoderOption {
	return options.NoError(func(d *Decoder) { d.SetMapAsArray(on) })
}

// WithStringAllocator configures the allocator used to materialize
// indefinite-length strings. See Decoder.SetStringAllocator.
func WithStringAllocator(a pool.Allocator) DecoderOption {
	return options.NoError(func(d *Decoder) { d.SetStringAllocator(a) })
}

// WithTagList registers tag numbers reflected in DecodedItem.TagBitmap. See
// Decoder.SetTagList.
func WithTagList(tags []uint64) DecoderOption {
	return options.NoError(func(d *Decoder) { d.SetTagList(tags) })
}

// NewDecoderWithOptions is NewDecoder followed by Apply, for callers that
// prefer configuring a Decoder declaratively at construction time.
func NewDecoderWithOptions(data []byte, opts ...DecoderOption) (*Decoder, error) {
	d := NewDecoder(data)
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// WithPreferredFloat toggles narrowest-exact float encoding. See
// Encoder.SetPreferredFloat.
func WithPreferredFloat(on bool) EncoderOption {
	return options.NoError(func(e *Encoder) { e.SetPreferredFloat(on) })
}

// NewEncoderWithOptions is NewEncoder followed by Apply.
func NewEncoderWithOptions(out []byte, opts ...EncoderOption) (*Encoder, error) {
	e := NewEncoder(out)
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}
