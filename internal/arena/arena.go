// Package arena implements the generational-index allocator used across the
// DOM, layout tree, and JS heap: every cross-reference between arena-owned
// values is a Handle rather than a pointer, so a stale reference into a
// reused slot resolves to "absent" instead of dereferencing freed memory.
package arena

// Handle is an (index, generation) pair identifying a slot in an Arena.
// The zero Handle is never issued by Alloc and is used as the "no handle"
// sentinel by callers (DOM parent/sibling links, layout box children, …).
type Handle struct {
	index      uint32
	generation uint32
}

// Valid reports whether h could plausibly reference a live slot. It does not
// by itself guarantee the slot is still occupied by the same generation;
// Arena.Get does that check.
func (h Handle) Valid() bool {
	return h != Handle{}
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena owns a growable set of T values addressed by Handle. Freed slots are
// recycled via a free list; reusing a slot bumps its generation so handles
// minted before the free become stale.
type Arena[T any] struct {
	slots    []slot[T]
	freeList []uint32
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores value in a fresh or recycled slot and returns its handle.
func (a *Arena[T]) Alloc(value T) Handle {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		s := &a.slots[idx]
		s.value = value
		s.occupied = true
		return Handle{index: idx + 1, generation: s.generation}
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{value: value, occupied: true})
	return Handle{index: idx + 1, generation: 0}
}

// Get returns the value referenced by h and true, or the zero value and
// false if h is the zero handle, out of range, stale, or was freed.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if h.index == 0 || int(h.index) > len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.index-1]
	if !s.occupied || s.generation != h.generation {
		return zero, false
	}
	return s.value, true
}

// GetPtr returns a pointer to the stored value for in-place mutation, or nil
// if h is stale. The pointer is invalidated by any subsequent Free of the
// same slot.
func (a *Arena[T]) GetPtr(h Handle) *T {
	if h.index == 0 || int(h.index) > len(a.slots) {
		return nil
	}
	s := &a.slots[h.index-1]
	if !s.occupied || s.generation != h.generation {
		return nil
	}
	return &s.value
}

// Set overwrites the value at h, returning false if h is stale.
func (a *Arena[T]) Set(h Handle, value T) bool {
	p := a.GetPtr(h)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Free releases the slot referenced by h. Future handles into the same slot
// carry a bumped generation, so h and any copies of it become stale.
func (a *Arena[T]) Free(h Handle) {
	if h.index == 0 || int(h.index) > len(a.slots) {
		return
	}
	s := &a.slots[h.index-1]
	if !s.occupied || s.generation != h.generation {
		return
	}
	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	a.freeList = append(a.freeList, h.index-1)
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int {
	return len(a.slots) - len(a.freeList)
}

// Each calls fn for every occupied handle in index order. fn must not free
// or allocate slots in the same arena.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			fn(Handle{index: uint32(i) + 1, generation: s.generation}, &s.value)
		}
	}
}
