package qcbor

// mapFrame records the reader position and shape of a map/array currently
// entered via the spiffy cursor, so RewindMap/GetItemInMap can re-scan
// the same entries from their start.
type mapFrame struct {
	isMap        bool
	startOffset  int // reader offset of the first entry, right after the head
	nestLevel    int // decoder nesting level of the entries (one past the container's own level)
	pairCount    int // definite pair/item count; unused if indefinite
	isIndefinite bool
}

// Spiffy is the higher-level map/array cursor (spec §4.6): EnterMap/
// EnterArray descend into a container, label-based lookups full-scan its
// entries, and every operation is a no-op once any operation has failed,
// surfacing the first error from GetError/GetAndResetError instead of
// forcing the caller to check every call. This mirrors how a short-circuit
// "Result" chain works, applied to a cursor instead of a single value.
type Spiffy struct {
	d      *Decoder
	frames [MaxNestingDepth + 1]mapFrame
	depth  int
	err    error
}

// NewSpiffy wraps d with the map/array entry cursor.
func NewSpiffy(d *Decoder) *Spiffy {
	return &Spiffy{d: d}
}

// GetError returns the first sticky error, or nil.
func (s *Spiffy) GetError() error { return s.err }

// GetAndResetError returns and clears the sticky error, so the cursor can
// be used again (e.g. retrying a lookup with a fallback label).
func (s *Spiffy) GetAndResetError() error {
	err := s.err
	s.err = nil

	return err
}

func (s *Spiffy) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *Spiffy) ok() bool { return s.err == nil }

func (s *Spiffy) top() *mapFrame {
	if s.depth == 0 {
		return nil
	}

	return &s.frames[s.depth-1]
}

func (s *Spiffy) enter(wantMap bool) {
	if !s.ok() {
		return
	}

	item, err := s.d.GetNext()
	if err != nil {
		s.fail(err)
		return
	}

	isMap := item.Kind == KindMap
	if wantMap && !isMap || !wantMap && item.Kind != KindArray {
		s.fail(errUnexpectedType())
		return
	}

	if s.depth >= len(s.frames) {
		s.fail(errBadNestingTooDeep())
		return
	}

	frame := mapFrame{
		isMap: wantMap,
		// item.NestLevel is the container head's own level (recorded
		// before any auto-close runs), so this is correct even for an
		// empty container that the decoder already popped by the time
		// GetNext returned.
		nestLevel:    item.NestLevel + 1,
		startOffset:  s.d.r.Offset(),
		isIndefinite: item.Count == IndefiniteCount,
	}
	if !frame.isIndefinite {
		frame.pairCount = int(item.Count)
	}

	s.frames[s.depth] = frame
	s.depth++
}

// EnterMap descends into the next item, which must be a map.
func (s *Spiffy) EnterMap() { s.enter(true) }

// EnterArray descends into the next item, which must be an array.
func (s *Spiffy) EnterArray() { s.enter(false) }

func (s *Spiffy) exit(wantMap bool) {
	if !s.ok() {
		return
	}

	f := s.top()
	if f == nil || f.isMap != wantMap {
		s.fail(errExitMismatch())
		return
	}

	// Skip to the end of the container: re-enter at its first entry and
	// call GetNext until the nesting level drops back below it.
	s.d.r.Seek(f.startOffset)
	s.d.nest.frames[s.d.nest.depth-1].count, s.d.nest.frames[s.d.nest.depth-1].isIndefinite = frameRemaining(f)

	for s.d.nest.level() >= f.nestLevel {
		if _, err := s.d.GetNext(); err != nil {
			s.fail(err)
			return
		}
	}

	s.depth--
}

// frameRemaining reconstructs the decoder's nestFrame remaining-count
// fields for re-entry at a map/array's first entry, from the cached
// mapFrame shape.
func frameRemaining(f *mapFrame) (uint32, bool) {
	if f.isIndefinite {
		return 0, true
	}

	n := f.pairCount
	if f.isMap {
		n *= 2
	}

	return uint32(n), false
}

// ExitMap leaves the current map, advancing the underlying decoder past
// its remaining entries.
func (s *Spiffy) ExitMap() { s.exit(true) }

// ExitArray leaves the current array.
func (s *Spiffy) ExitArray() { s.exit(false) }

// RewindMap resets the cursor to the first entry of the current map or
// array, so a fresh sequential GetNext-style walk (or another
// GetItemInMap scan) can start over.
func (s *Spiffy) RewindMap() {
	if !s.ok() {
		return
	}

	f := s.top()
	if f == nil {
		s.fail(errNoMoreItems())
		return
	}

	s.d.r.Seek(f.startOffset)
	rem, indef := frameRemaining(f)
	s.d.nest.frames[s.d.nest.depth-1].count = rem
	s.d.nest.frames[s.d.nest.depth-1].isIndefinite = indef
}

// labelMatches reports whether item is a label equal to want.
func labelMatches(item *DecodedItem, want any) bool {
	switch w := want.(type) {
	case string:
		return item.Kind == KindTextString && string(item.Bytes) == w
	case int64:
		return (item.Kind == KindInt64 && item.Int64 == w) ||
			(item.Kind == KindUInt64 && w >= 0 && item.UInt64 == uint64(w))
	default:
		return false
	}
}

// GetItemInMap full-scans the current map for label, starting from its
// first entry every call (so call order doesn't matter), detecting a
// duplicate label as an error per spec §4.6 rather than silently taking
// the first or last match.
func (s *Spiffy) GetItemInMap(label string) DecodedItem {
	return s.scanMap(label)
}

// GetItemInMapN is GetItemInMap for an integer label.
func (s *Spiffy) GetItemInMapN(label int64) DecodedItem {
	return s.scanMap(label)
}

func (s *Spiffy) scanMap(label any) DecodedItem {
	if !s.ok() {
		return DecodedItem{}
	}

	f := s.top()
	if f == nil || !f.isMap {
		s.fail(errUnexpectedType())
		return DecodedItem{}
	}

	savedOff := s.d.r.Offset()
	savedNest := s.d.nest

	s.d.r.Seek(f.startOffset)
	rem, indef := frameRemaining(f)
	s.d.nest.frames[s.d.nest.depth-1].count = rem
	s.d.nest.frames[s.d.nest.depth-1].isIndefinite = indef

	var found DecodedItem
	haveFound := false

	for s.d.nest.level() >= f.nestLevel {
		labelItem, err := s.d.GetNext()
		if err != nil {
			s.fail(err)
			break
		}
		if labelItem.NestLevel != f.nestLevel {
			continue // a sub-item of a previous (unmatched) value, not a label
		}
		if labelItem.Kind != KindTextString && labelItem.Kind != KindInt64 && labelItem.Kind != KindUInt64 {
			s.fail(errMapLabelType())
			break
		}

		valueItem, err := s.d.GetNext()
		if err != nil {
			s.fail(err)
			break
		}

		if labelMatches(&labelItem, label) {
			if haveFound {
				s.fail(errDuplicateLabel())
				break
			}
			found = valueItem
			haveFound = true
		}
	}

	s.d.r.Seek(savedOff)
	s.d.nest = savedNest

	if s.err == nil && !haveFound {
		s.fail(errLabelNotFound())
	}

	return found
}

// GetItemsInMap is GetItemInMap generalized to many labels in a single
// scan, instead of one full rescan per label: useful when a caller needs
// several fields out of the same map and wants to avoid O(labels*entries)
// work. Duplicate-label detection still applies per requested label.
func (s *Spiffy) GetItemsInMap(labels []string) []DecodedItem {
	want := make([]any, len(labels))
	for i, l := range labels {
		want[i] = l
	}

	return s.scanMapMulti(want)
}

// GetItemsInMapN is GetItemsInMap for integer labels.
func (s *Spiffy) GetItemsInMapN(labels []int64) []DecodedItem {
	want := make([]any, len(labels))
	for i, l := range labels {
		want[i] = l
	}

	return s.scanMapMulti(want)
}

func (s *Spiffy) scanMapMulti(labels []any) []DecodedItem {
	out := make([]DecodedItem, len(labels))
	if !s.ok() {
		return out
	}

	f := s.top()
	if f == nil || !f.isMap {
		s.fail(errUnexpectedType())
		return out
	}

	savedOff := s.d.r.Offset()
	savedNest := s.d.nest

	s.d.r.Seek(f.startOffset)
	rem, indef := frameRemaining(f)
	s.d.nest.frames[s.d.nest.depth-1].count = rem
	s.d.nest.frames[s.d.nest.depth-1].isIndefinite = indef

	found := make([]bool, len(labels))

	for s.d.nest.level() >= f.nestLevel {
		labelItem, err := s.d.GetNext()
		if err != nil {
			s.fail(err)
			break
		}
		if labelItem.NestLevel != f.nestLevel {
			continue
		}
		if labelItem.Kind != KindTextString && labelItem.Kind != KindInt64 && labelItem.Kind != KindUInt64 {
			s.fail(errMapLabelType())
			break
		}

		valueItem, err := s.d.GetNext()
		if err != nil {
			s.fail(err)
			break
		}

		for i, l := range labels {
			if !labelMatches(&labelItem, l) {
				continue
			}
			if found[i] {
				s.fail(errDuplicateLabel())
				break
			}
			out[i] = valueItem
			found[i] = true
		}
	}

	s.d.r.Seek(savedOff)
	s.d.nest = savedNest

	if s.err == nil {
		for _, ok := range found {
			if !ok {
				s.fail(errLabelNotFound())
				break
			}
		}
	}

	return out
}

// GetInt64 returns label's value as an int64, converting from UInt64 or a
// whole-valued Double if needed. Sets ErrNumberSignConversion if the
// stored value is an unsigned integer too large for int64, and
// ErrConversionUnderOverFlow if a Double source doesn't fit.
func (s *Spiffy) GetInt64(label string) int64 {
	item := s.GetItemInMap(label)
	if !s.ok() {
		return 0
	}

	return s.toInt64(item)
}

func (s *Spiffy) toInt64(item DecodedItem) int64 {
	switch item.Kind {
	case KindInt64:
		return item.Int64
	case KindUInt64:
		if item.UInt64 > 1<<63-1 {
			s.fail(errNumberSignConversion())
			return 0
		}

		return int64(item.UInt64)
	case KindFloat32, KindFloat64:
		if item.Float64 != float64(int64(item.Float64)) {
			s.fail(errConversionUnderOverFlow())
			return 0
		}

		return int64(item.Float64)
	default:
		s.fail(errUnexpectedType())
		return 0
	}
}

// GetUInt64 returns label's value as a uint64.
func (s *Spiffy) GetUInt64(label string) uint64 {
	item := s.GetItemInMap(label)
	if !s.ok() {
		return 0
	}

	switch item.Kind {
	case KindUInt64:
		return item.UInt64
	case KindInt64:
		if item.Int64 < 0 {
			s.fail(errNumberSignConversion())
			return 0
		}

		return uint64(item.Int64)
	default:
		s.fail(errUnexpectedType())
		return 0
	}
}

// GetDouble returns label's value as a float64, widening an integer
// source if needed.
func (s *Spiffy) GetDouble(label string) float64 {
	item := s.GetItemInMap(label)
	if !s.ok() {
		return 0
	}

	switch item.Kind {
	case KindFloat32, KindFloat64:
		return item.Float64
	case KindInt64:
		return float64(item.Int64)
	case KindUInt64:
		return float64(item.UInt64)
	default:
		s.fail(errUnexpectedType())
		return 0
	}
}

// GetBytes returns label's value, which must be a byte string.
func (s *Spiffy) GetBytes(label string) []byte {
	item := s.GetItemInMap(label)
	if !s.ok() {
		return nil
	}
	if item.Kind != KindByteString {
		s.fail(errUnexpectedType())
		return nil
	}

	return item.Bytes
}

// GetText returns label's value, which must be a text string.
func (s *Spiffy) GetText(label string) string {
	item := s.GetItemInMap(label)
	if !s.ok() {
		return ""
	}
	if item.Kind != KindTextString {
		s.fail(errUnexpectedType())
		return ""
	}

	return string(item.Bytes)
}

// GetPosBignum returns label's value, which must be tag-2 content.
func (s *Spiffy) GetPosBignum(label string) []byte {
	item := s.GetItemInMap(label)
	if !s.ok() {
		return nil
	}
	if item.Kind != KindPosBignum {
		s.fail(errUnexpectedType())
		return nil
	}

	return item.Bytes
}

// GetNegBignum returns label's value, which must be tag-3 content.
func (s *Spiffy) GetNegBignum(label string) []byte {
	item := s.GetItemInMap(label)
	if !s.ok() {
		return nil
	}
	if item.Kind != KindNegBignum {
		s.fail(errUnexpectedType())
		return nil
	}

	return item.Bytes
}
