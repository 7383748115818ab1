package types

import (
	"slices"
	"sync"
)

// Deque is a thread-safe double-ended queue backed by a slice.
// It preserves insertion order and allows pushing or popping
// elements from both ends.
type Deque[T any] struct {
	mu    sync.Mutex
	items []T
}

// Append adds the element to the end of the deque.
func (d *Deque[T]) Append(item T) {
	d.mu.Lock()
	d.items = append(d.items, item)
	d.mu.Unlock()
}

// Prepend adds the element to the front of the deque.
func (d *Deque[T]) Prepend(item T) {
	d.mu.Lock()
	d.items = slices.Insert(d.items, 0, item)
	d.mu.Unlock()
}

// PopFirst removes and returns the element from the front of the deque.
// The second return value is false when the deque is empty.
func (d *Deque[T]) PopFirst() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if len(d.items) == 0 {
		return zero, false
	}

	item := d.items[0]
	d.items[0] = zero
	d.items = d.items[1:]
	return item, true
}

// PopLast removes and returns the element from the end of the deque.
// The second return value is false when the deque is empty.
func (d *Deque[T]) PopLast() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if len(d.items) == 0 {
		return zero, false
	}

	last := len(d.items) - 1
	item := d.items[last]
	d.items[last] = zero
	d.items = d.items[:last]
	return item, true
}

// Drain returns all buffered elements in FIFO order and clears the deque.
func (d *Deque[T]) Drain() []T {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.items) == 0 {
		return nil
	}

	out := slices.Clone(d.items)
	clear(d.items)
	d.items = d.items[:0]
	return out
}

// Len returns the current number of elements in the deque.
func (d *Deque[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// IsEmpty reports whether the deque has no elements.
func (d *Deque[T]) IsEmpty() bool {
	return d.Len() == 0
}
