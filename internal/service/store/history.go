package store

// History is a fixed-capacity, newest-first list. Pushing past capacity
// evicts the oldest entry.
type History[T any] struct {
	items    []T
	capacity int
}

func NewHistory[T any](capacity int) *History[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &History[T]{
		items:    make([]T, 0, capacity+1),
		capacity: capacity,
	}
}

// Push inserts item at the front and reports whether an entry was evicted.
func (h *History[T]) Push(item T) bool {
	h.items = append(h.items, item)
	copy(h.items[1:], h.items[:len(h.items)-1])
	h.items[0] = item

	if len(h.items) > h.capacity {
		var zero T
		h.items[len(h.items)-1] = zero
		h.items = h.items[:h.capacity]
		return true
	}
	return false
}

// Items returns a copy, newest first.
func (h *History[T]) Items() []T {
	out := make([]T, len(h.items))
	copy(out, h.items)
	return out
}

func (h *History[T]) Len() int { return len(h.items) }

func (h *History[T]) Cap() int { return h.capacity }
