package qcbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpiffy_GetItemInMap_ByString(t *testing.T) {
	data := []byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x62, 0x02} // {"a":1,"b":2}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	require.Equal(t, int64(2), s.GetInt64("b"))
	require.Equal(t, int64(1), s.GetInt64("a"))
	require.NoError(t, s.GetError())
}

func TestSpiffy_GetItemInMap_ByInt(t *testing.T) {
	data := []byte{0xa2, 0x01, 0x18, 0x64, 0x02, 0x18, 0xc8} // {1:100,2:200}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	require.Equal(t, int64(200), s.GetItemInMapN(2).Int64)
	require.NoError(t, s.GetError())
}

func TestSpiffy_LabelNotFound(t *testing.T) {
	data := []byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x62, 0x02}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	s.GetItemInMap("c")
	require.ErrorIs(t, s.GetError(), errLabelNotFound())
}

func TestSpiffy_DuplicateLabel(t *testing.T) {
	data := []byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x61, 0x02} // {"a":1,"a":2}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	s.GetItemInMap("a")
	require.ErrorIs(t, s.GetError(), errDuplicateLabel())
}

func TestSpiffy_StickyErrorShortCircuits(t *testing.T) {
	data := []byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x62, 0x02}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	s.GetItemInMap("missing")
	require.Error(t, s.GetError())

	v := s.GetInt64("a") // no-op: error already sticky
	require.Equal(t, int64(0), v)
}

func TestSpiffy_GetAndResetError(t *testing.T) {
	data := []byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x62, 0x02}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	s.GetItemInMap("missing")
	err := s.GetAndResetError()
	require.Error(t, err)
	require.NoError(t, s.GetError())

	require.Equal(t, int64(1), s.GetInt64("a"))
}

func TestSpiffy_TypedAccessors(t *testing.T) {
	data := []byte{0xa2, 0x61, 0x78, 0x24, 0x61, 0x79, 0x07} // {"x":-5,"y":7}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	require.Equal(t, int64(-5), s.GetInt64("x"))
	require.Equal(t, uint64(7), s.GetUInt64("y"))
	require.InDelta(t, 7.0, s.GetDouble("y"), 0.0001)
	require.NoError(t, s.GetError())
}

func TestSpiffy_GetBytesAndText(t *testing.T) {
	data := []byte{0xa2, 0x61, 0x73, 0x62, 0x68, 0x69, 0x61, 0x62, 0x42, 0x01, 0x02} // {"s":"hi","b":h'0102'}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	require.Equal(t, "hi", s.GetText("s"))
	require.Equal(t, []byte{1, 2}, s.GetBytes("b"))
	require.NoError(t, s.GetError())
}

func TestSpiffy_ExitMapSkipsToEnd(t *testing.T) {
	data := []byte{0x82, 0xa1, 0x61, 0x61, 0x01, 0x18, 0x63} // [{"a":1}, 99]
	d := NewDecoder(data)
	s := NewSpiffy(d)

	s.EnterArray()
	s.EnterMap()
	require.Equal(t, int64(1), s.GetInt64("a"))
	s.ExitMap()
	require.NoError(t, s.GetError())

	item, err := d.GetNext()
	require.NoError(t, err)
	require.Equal(t, int64(99), item.Int64)
}

func TestSpiffy_EnterWrongKindFails(t *testing.T) {
	data := []byte{0x01}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()
	require.ErrorIs(t, s.GetError(), errUnexpectedType())
}

func TestSpiffy_GetItemsInMap_SinglePass(t *testing.T) {
	data := []byte{0xa3, 0x61, 0x61, 0x01, 0x61, 0x62, 0x02, 0x61, 0x63, 0x03} // {"a":1,"b":2,"c":3}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	items := s.GetItemsInMap([]string{"c", "a"})
	require.NoError(t, s.GetError())
	require.Equal(t, int64(3), items[0].Int64)
	require.Equal(t, int64(1), items[1].Int64)
}

func TestSpiffy_GetItemsInMap_MissingLabelFails(t *testing.T) {
	data := []byte{0xa1, 0x61, 0x61, 0x01}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	s.GetItemsInMap([]string{"a", "missing"})
	require.ErrorIs(t, s.GetError(), errLabelNotFound())
}

func TestSpiffy_RewindMapAllowsRescans(t *testing.T) {
	data := []byte{0xa1, 0x61, 0x61, 0x01} // {"a":1}
	s := NewSpiffy(NewDecoder(data))
	s.EnterMap()

	require.Equal(t, int64(1), s.GetInt64("a"))
	s.RewindMap()
	require.Equal(t, int64(1), s.GetInt64("a"))
	require.NoError(t, s.GetError())
}
