package types

import (
	"iter"
	"slices"
	"sync"
)

// CallbackManager stores callbacks in registration order and hands out
// cancel functions for deregistration.
type CallbackManager[T any] struct {
	mu     sync.RWMutex
	ids    []int
	cbs    map[int]T
	nextID int
}

// Len returns the number of registered callbacks.
func (m *CallbackManager[T]) Len() int {
	if m == nil {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cbs)
}

// Add registers the callback and returns a function that removes it.
// The returned function is safe to call multiple times.
func (m *CallbackManager[T]) Add(cb T) (remove func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++

	if m.cbs == nil {
		m.cbs = make(map[int]T)
	}
	m.cbs[id] = cb
	m.ids = append(m.ids, id)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if _, ok := m.cbs[id]; ok {
				delete(m.cbs, id)
				if i := slices.Index(m.ids, id); i >= 0 {
					m.ids = slices.Delete(m.ids, i, i+1)
				}
			}
			m.mu.Unlock()
		})
	}
}

// All returns an iterator over the registered callbacks in registration order.
// The callbacks are snapshotted before iteration, so the yielding code may
// register or remove callbacks without deadlocking.
func (m *CallbackManager[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if m == nil {
			return
		}

		m.mu.RLock()
		cbs := make([]T, 0, len(m.ids))
		for _, id := range m.ids {
			cbs = append(cbs, m.cbs[id])
		}
		m.mu.RUnlock()

		for _, cb := range cbs {
			if !yield(cb) {
				return
			}
		}
	}
}
