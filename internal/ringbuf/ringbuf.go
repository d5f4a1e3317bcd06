// Package ringbuf provides a fixed-capacity FIFO that drops its oldest element when full.
package ringbuf

// Buffer is not safe for concurrent use.
type Buffer[T any] struct {
	items   []T
	head    int
	size    int
	dropped int
}

// New returns a buffer holding at most capacity items. A capacity below 1 is raised to 1.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

func (b *Buffer[T]) Push(v T) {
	idx := (b.head + b.size) % len(b.items)
	b.items[idx] = v
	if b.size < len(b.items) {
		b.size++
		return
	}
	b.head = (b.head + 1) % len(b.items)
	b.dropped++
}

func (b *Buffer[T]) Len() int     { return b.size }
func (b *Buffer[T]) Cap() int     { return len(b.items) }
func (b *Buffer[T]) Dropped() int { return b.dropped }

// At returns the i-th oldest retained item.
func (b *Buffer[T]) At(i int) T {
	return b.items[(b.head+i)%len(b.items)]
}

// Last returns up to n of the most recent items, oldest first.
func (b *Buffer[T]) Last(n int) []T {
	if n > b.size {
		n = b.size
	}
	out := make([]T, 0, n)
	for i := b.size - n; i < b.size; i++ {
		out = append(out, b.At(i))
	}
	return out
}

// Slice copies the retained items, oldest first.
func (b *Buffer[T]) Slice() []T {
	return b.Last(b.size)
}

func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.head, b.size, b.dropped = 0, 0, 0
}
