package qcbor

// MaxNestingDepth is QCBOR_MAX_ARRAY_NESTING from the spec: the default
// bound on how many array/map/byte-string-wrap levels may be open at once.
const MaxNestingDepth = 15

// MaxItemsPerContainer is UINT16_MAX - 1: the largest item count a single
// container may carry. The encoder applies it to its running sub-item
// count (a map pair counts as two); the decoder applies it to a head's
// argument (for maps, the pair count).
const MaxItemsPerContainer = 0xfffe

// nestKind identifies what a nesting frame is tracking.
type nestKind uint8

const (
	nestTop nestKind = iota
	nestArray
	nestMap
	nestByteStringWrap
)

// nestFrame is one level of the shared nesting stack (spec §4.3): encode
// and decode both push a frame per open container and pop it when the
// container closes, either because a definite-length container's count
// reached zero or because a break was observed at an indefinite level.
type nestFrame struct {
	kind         nestKind
	isIndefinite bool
	count        uint32 // encode: items added so far; decode: items remaining
	headOffset   int    // encode: byte offset of this frame's head, for backpatching
	headLen      int    // encode: current reserved length of the head encoding

	// seq counts sub-items decoded so far directly under this frame,
	// independent of count/isIndefinite: for a map frame, an even seq means
	// the next decoded item is a label, odd means a value (spec §4.4 step
	// 3's label-type policy needs this regardless of definite/indefinite
	// length).
	seq uint32
}

// nestingStack is a fixed-capacity stack of nestFrame, shared by Encoder
// and Decoder. It never grows past MaxNestingDepth+1 (the +1 slot is the
// implicit top-level frame every context starts in).
type nestingStack struct {
	frames [MaxNestingDepth + 1]nestFrame
	depth  int // number of frames currently pushed, including the top frame
}

func newNestingStack() nestingStack {
	s := nestingStack{}
	s.frames[0] = nestFrame{kind: nestTop}
	s.depth = 1

	return s
}

// level returns the nesting level (0 = top) the cursor is currently at.
func (s *nestingStack) level() int { return s.depth - 1 }

func (s *nestingStack) top() *nestFrame { return &s.frames[s.depth-1] }

// push opens a new frame. It reports false if MaxNestingDepth would be
// exceeded.
func (s *nestingStack) push(f nestFrame) bool {
	if s.depth >= len(s.frames) {
		return false
	}

	s.frames[s.depth] = f
	s.depth++

	return true
}

// pop closes the current frame and returns it, reporting false if only the
// implicit top-level frame remains (nothing left to pop).
func (s *nestingStack) pop() (nestFrame, bool) {
	if s.depth <= 1 {
		return nestFrame{}, false
	}

	s.depth--

	return s.frames[s.depth], true
}
