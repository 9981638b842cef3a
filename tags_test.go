package qcbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecoder_Tag_DecimalFraction(t *testing.T) {
	// 4([-2, 27315]) == 273.15, from RFC 8949 §3.4.4.
	data := []byte{0xc4, 0x82, 0x21, 0x19, 0x6a, 0xb3}
	d := NewDecoder(data)

	item, err := d.GetNext()
	require.NoError(t, err)
	require.Equal(t, KindDecimalFraction, item.Kind)
	require.Equal(t, int64(-2), item.ExpMant.Exponent)
	require.Equal(t, int64(27315), item.ExpMant.Mantissa)
}

func TestDecoder_Tag_BigFloatWithBignumMantissa(t *testing.T) {
	// 5([1, 2(h'0102')])
	data := []byte{0xc5, 0x82, 0x01, 0xc2, 0x42, 0x01, 0x02}
	d := NewDecoder(data)

	item, err := d.GetNext()
	require.NoError(t, err)
	require.Equal(t, KindBigFloatPosBignum, item.Kind)
	require.Equal(t, int64(1), item.ExpMant.Exponent)
	require.Equal(t, []byte{1, 2}, item.ExpMant.MantissaBig)
}

func TestDecoder_Tag_NegBignum(t *testing.T) {
	data := []byte{0xc3, 0x42, 0x01, 0x02}
	d := NewDecoder(data)

	item, err := d.GetNext()
	require.NoError(t, err)
	require.Equal(t, KindNegBignum, item.Kind)
	require.Equal(t, []byte{1, 2}, item.Bytes)
}

func TestDecoder_Tag_DateString(t *testing.T) {
	data := []byte{0xc0, 0x74, '2', '0', '1', '3', '-', '0', '3', '-', '2', '1', 'T', '2', '0', ':', '0', '4', ':', '0', '0', 'Z'}
	d := NewDecoder(data)

	item, err := d.GetNext()
	require.NoError(t, err)
	require.Equal(t, KindDateString, item.Kind)
	require.Equal(t, "2013-03-21T20:04:00Z", string(item.Bytes))
}

func TestDecoder_Tag_DaysEpoch(t *testing.T) {
	data := []byte{0xd8, 0x64, 0x01} // tag 100, value 1 day
	d := NewDecoder(data)

	item, err := d.GetNext()
	require.NoError(t, err)
	require.Equal(t, KindDateEpoch, item.Kind)
	require.Equal(t, int64(secondsPerDay), item.Date.Seconds)
}

func TestDecoder_Tag_PosBignumOnWrongContentFails(t *testing.T) {
	data := []byte{0xc2, 0x01} // tag 2 wrapping a plain uint, not a byte string
	d := NewDecoder(data)

	_, err := d.GetNext()
	require.ErrorIs(t, err, errUnrecoverableTagContent())
}

func TestDecoder_TooManyTags(t *testing.T) {
	data := make([]byte, 0, 32)
	for i := 0; i < maxPendingTags+1; i++ {
		data = append(data, 0xc0) // tag 0 head, repeated
	}
	data = append(data, 0x01)

	d := NewDecoder(data)
	_, err := d.GetNext()
	require.ErrorIs(t, err, errTooManyTags())
}
