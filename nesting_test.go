package qcbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNestingStack_InitialState(t *testing.T) {
	s := newNestingStack()
	require.Equal(t, 0, s.level())
	require.Equal(t, nestTop, s.top().kind)
}

func TestNestingStack_PushPop(t *testing.T) {
	s := newNestingStack()

	ok := s.push(nestFrame{kind: nestArray, headOffset: 3, headLen: 1})
	require.True(t, ok)
	require.Equal(t, 1, s.level())
	require.Equal(t, nestArray, s.top().kind)

	f, ok := s.pop()
	require.True(t, ok)
	require.Equal(t, nestArray, f.kind)
	require.Equal(t, 3, f.headOffset)
	require.Equal(t, 0, s.level())
	require.Equal(t, nestTop, s.top().kind)
}

func TestNestingStack_PopTopLevelFails(t *testing.T) {
	s := newNestingStack()
	_, ok := s.pop()
	require.False(t, ok)
}

func TestNestingStack_DepthLimit(t *testing.T) {
	s := newNestingStack()

	for i := 0; i < MaxNestingDepth; i++ {
		require.True(t, s.push(nestFrame{kind: nestArray}))
	}

	require.False(t, s.push(nestFrame{kind: nestArray}))
	require.Equal(t, MaxNestingDepth, s.level())
}

func TestNestingStack_TopMutationPersists(t *testing.T) {
	s := newNestingStack()
	s.push(nestFrame{kind: nestMap, count: 0})

	s.top().count = 4

	require.Equal(t, uint32(4), s.top().count)
}
