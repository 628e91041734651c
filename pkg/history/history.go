package history

// DefaultLimit is the maximum number of entries retained by default.
const DefaultLimit = 20

// History is a bounded, linear undo/redo log of immutable entries.
//
// Entries after the cursor form the redo branch; [History.Commit] drops
// them. When the limit is exceeded, the oldest entry is evicted and is
// no longer reachable.
//
// History is not safe for concurrent use.
type History[T any] struct {
	entries []T
	cursor  int
	limit   int
}

func New[T any](limit int) *History[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History[T]{
		entries: make([]T, 0, limit+1),
		cursor:  -1,
		limit:   limit,
	}
}

// Commit records entry as the newest state and points the cursor at it.
func (h *History[T]) Commit(entry T) {
	clear(h.entries[h.cursor+1:])
	h.entries = append(h.entries[:h.cursor+1], entry)
	h.cursor++

	if len(h.entries) > h.limit {
		var zero T
		h.entries[0] = zero
		h.entries = h.entries[1:]
		h.cursor--
	}
}

// Undo moves the cursor one entry back and returns that entry.
// At the oldest entry it returns the current one and false.
func (h *History[T]) Undo() (T, bool) {
	if h.cursor <= 0 {
		current, _ := h.Current()
		return current, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo moves the cursor one entry forward and returns that entry.
// At the newest entry it returns the current one and false.
func (h *History[T]) Redo() (T, bool) {
	if h.cursor >= len(h.entries)-1 {
		current, _ := h.Current()
		return current, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the entry under the cursor.
func (h *History[T]) Current() (T, bool) {
	if h.cursor < 0 {
		var zero T
		return zero, false
	}
	return h.entries[h.cursor], true
}

func (h *History[T]) CanUndo() bool { return h.cursor > 0 }

func (h *History[T]) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns the number of retained entries.
func (h *History[T]) Len() int { return len(h.entries) }

// Cursor returns the index of the current entry or -1 when empty.
func (h *History[T]) Cursor() int { return h.cursor }

func (h *History[T]) Limit() int { return h.limit }
