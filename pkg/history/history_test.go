package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_Empty(t *testing.T) {
	h := New[string](0)

	assert.Equal(t, DefaultLimit, h.Limit())
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, -1, h.Cursor())

	_, ok := h.Current()
	assert.False(t, ok)

	v, ok := h.Undo()
	assert.False(t, ok)
	assert.Equal(t, "", v)

	v, ok = h.Redo()
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestHistory_UndoRedo(t *testing.T) {
	h := New[string](DefaultLimit)
	h.Commit("a")
	h.Commit("b")
	h.Commit("c")

	v, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	// Saturates at the oldest entry.
	for i := 0; i < 3; i++ {
		v, ok = h.Undo()
		assert.False(t, ok)
		assert.Equal(t, "a", v)
	}

	v, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "c", v)

	// Saturates at the newest entry.
	v, ok = h.Redo()
	assert.False(t, ok)
	assert.Equal(t, "c", v)
}

func TestHistory_CommitDiscardsRedoBranch(t *testing.T) {
	h := New[string](DefaultLimit)
	h.Commit("a")
	h.Commit("b")
	h.Commit("c")

	_, _ = h.Undo()
	_, _ = h.Undo()
	assert.True(t, h.CanRedo())

	h.Commit("d")
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())

	v, ok := h.Redo()
	assert.False(t, ok)
	assert.Equal(t, "d", v)

	v, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestHistory_Limit(t *testing.T) {
	h := New[int](DefaultLimit)

	for i := 1; i <= 21; i++ {
		h.Commit(i)
		require.LessOrEqual(t, h.Len(), DefaultLimit)
	}

	assert.Equal(t, DefaultLimit, h.Len())
	assert.Equal(t, DefaultLimit-1, h.Cursor())

	current, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, 21, current)

	var oldest int
	for {
		v, ok := h.Undo()
		if !ok {
			oldest = v
			break
		}
	}
	assert.Equal(t, 2, oldest)
}

func TestHistory_LimitAfterUndo(t *testing.T) {
	h := New[int](3)
	h.Commit(1)
	h.Commit(2)
	h.Commit(3)
	_, _ = h.Undo()
	h.Commit(4)

	assert.Equal(t, 3, h.Len())
	h.Commit(5)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())

	v, _ := h.Undo()
	assert.Equal(t, 4, v)
	v, _ = h.Undo()
	assert.Equal(t, 2, v)
	assert.False(t, h.CanUndo())
}
