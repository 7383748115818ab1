package types_test

import (
	"slices"
	"testing"

	"github.com/ghettovoice/gotimer/internal/types"
)

func TestCallbackManager_AddAll(t *testing.T) {
	t.Parallel()

	var m types.CallbackManager[func() int]

	if got := m.Len(); got != 0 {
		t.Fatalf("m.Len() = %d, want 0", got)
	}

	m.Add(func() int { return 1 })
	m.Add(func() int { return 2 })
	m.Add(func() int { return 3 })

	if got := m.Len(); got != 3 {
		t.Fatalf("m.Len() = %d, want 3", got)
	}

	var got []int
	for cb := range m.All() {
		got = append(got, cb())
	}
	if want := []int{1, 2, 3}; !slices.Equal(got, want) {
		t.Fatalf("callbacks yielded %v, want %v", got, want)
	}
}

func TestCallbackManager_Remove(t *testing.T) {
	t.Parallel()

	var m types.CallbackManager[func() int]

	m.Add(func() int { return 1 })
	remove := m.Add(func() int { return 2 })
	m.Add(func() int { return 3 })

	remove()

	if got := m.Len(); got != 2 {
		t.Fatalf("m.Len() after remove = %d, want 2", got)
	}

	var got []int
	for cb := range m.All() {
		got = append(got, cb())
	}
	if want := []int{1, 3}; !slices.Equal(got, want) {
		t.Fatalf("callbacks yielded %v, want %v", got, want)
	}

	// removing twice must not disturb the remaining callbacks
	remove()

	if got := m.Len(); got != 2 {
		t.Fatalf("m.Len() after second remove = %d, want 2", got)
	}
}

func TestCallbackManager_AddDuringIteration(t *testing.T) {
	t.Parallel()

	var m types.CallbackManager[func()]

	called := 0
	m.Add(func() {
		called++
		// registering from a callback must not deadlock
		m.Add(func() { called++ })
	})

	for cb := range m.All() {
		cb()
	}

	if called != 1 {
		t.Fatalf("called = %d, want 1", called)
	}
	if got := m.Len(); got != 2 {
		t.Fatalf("m.Len() = %d, want 2", got)
	}
}

func TestCallbackManager_Zero(t *testing.T) {
	t.Parallel()

	var m *types.CallbackManager[func()]

	if got := m.Len(); got != 0 {
		t.Fatalf("nil manager Len() = %d, want 0", got)
	}
	for range m.All() {
		t.Fatal("nil manager yielded a callback")
	}
}
