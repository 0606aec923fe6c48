// Package jsheap implements spec §4.12's mark-sweep JavaScript heap: a
// slot vector with a free list for O(1) allocation reuse, an allocation
// threshold that grows after each collection, and a mark phase that
// traces HeapRef-typed child references from a root set.
//
// The slot/free-list/generation machinery itself is
// internal/arena.Arena[Object] — the same substrate the DOM tree uses —
// generalized here with a tracing mark/sweep pass layered on top.
package jsheap

import "github.com/ehrlich-b/browsercore/internal/arena"

// HeapRef is a possibly-null reference to another heap slot.
type HeapRef = arena.Handle

// Kind tags which Object variant a slot holds.
type Kind int

const (
	KindArray Kind = iota
	KindObject
	KindClosure
	KindPrimitive
)

// Object is one heap-allocated JS value, per spec §4.12: "Object
// variants store references to other slots inside Array/Object/Closure
// via a HeapRef value."
type Object struct {
	Kind Kind

	// Array elements, valid when Kind == KindArray.
	Elements []HeapRef

	// Object property values, valid when Kind == KindObject. Property
	// names live outside the heap (interned strings); only the values
	// that happen to be heap references need tracing.
	Properties map[string]HeapRef

	// Closure captured variables, valid when Kind == KindClosure.
	Captures []HeapRef

	// Size is this object's estimated byte footprint, used to update
	// bytes_allocated on allocation and sweep.
	Size int

	marked bool
}

// TraceRefs yields every non-null HeapRef an object directly contains,
// per spec §4.12: "trace_refs(object) yields all contained HeapRefs; no
// hidden references anywhere."
func TraceRefs(obj *Object) []HeapRef {
	var refs []HeapRef
	switch obj.Kind {
	case KindArray:
		for _, r := range obj.Elements {
			if r.Valid() {
				refs = append(refs, r)
			}
		}
	case KindObject:
		for _, r := range obj.Properties {
			if r.Valid() {
				refs = append(refs, r)
			}
		}
	case KindClosure:
		for _, r := range obj.Captures {
			if r.Valid() {
				refs = append(refs, r)
			}
		}
	}
	return refs
}

// Heap is the mark-sweep allocator spec §4.12 describes.
type Heap struct {
	slots *arena.Arena[Object]

	bytesAllocated int
	threshold      int
}

// defaultThreshold is the initial collection trigger; spec §4.12 leaves
// the starting value unspecified, only how it grows ("grow threshold to
// 2 × bytes_allocated").
const defaultThreshold = 1 << 16 // 64 KiB

// New returns an empty heap.
func New() *Heap {
	return &Heap{slots: arena.New[Object](), threshold: defaultThreshold}
}

// Allocate stores obj in a free or fresh slot and bumps bytes_allocated
// by its estimated size, per spec §4.12's allocator description.
// ShouldCollect reports whether bytes_allocated has reached threshold
// after this call, matching the spec's "signals the caller to collect"
// trigger.
func (h *Heap) Allocate(obj Object) (HeapRef, bool) {
	ref := h.slots.Alloc(obj)
	h.bytesAllocated += obj.Size
	return ref, h.bytesAllocated >= h.threshold
}

// Get returns the object at ref and whether it is live.
func (h *Heap) Get(ref HeapRef) (*Object, bool) {
	p := h.slots.GetPtr(ref)
	if p == nil {
		return nil, false
	}
	return p, true
}

// BytesAllocated returns the current running estimate.
func (h *Heap) BytesAllocated() int {
	return h.bytesAllocated
}

// Threshold returns the current collection trigger.
func (h *Heap) Threshold() int {
	return h.threshold
}

// Collect runs a full mark-sweep pass rooted at roots, per spec §4.12's
// Mark phase and Sweep phase, then grows the threshold to amortize.
func (h *Heap) Collect(roots []HeapRef) {
	h.mark(roots)
	h.sweep()
	h.threshold = 2 * h.bytesAllocated
}

// mark clears every marked bit, then pushes each live root to a gray
// stack and traces reachable children, per spec §4.12: "push each root
// handle to a gray stack if non-null; pop, set marked, push every child
// ref that is non-null and unmarked."
func (h *Heap) mark(roots []HeapRef) {
	h.slots.Each(func(_ HeapRef, obj *Object) {
		obj.marked = false
	})

	var gray []HeapRef
	for _, r := range roots {
		if r.Valid() {
			gray = append(gray, r)
		}
	}

	for len(gray) > 0 {
		ref := gray[len(gray)-1]
		gray = gray[:len(gray)-1]

		obj, ok := h.Get(ref)
		if !ok || obj.marked {
			continue
		}
		obj.marked = true

		for _, child := range TraceRefs(obj) {
			childObj, ok := h.Get(child)
			if ok && !childObj.marked {
				gray = append(gray, child)
			}
		}
	}
}

// sweep frees every unmarked occupied slot, subtracting its size from
// bytes_allocated, per spec §4.12's Sweep phase.
func (h *Heap) sweep() {
	var dead []HeapRef
	h.slots.Each(func(ref HeapRef, obj *Object) {
		if !obj.marked {
			dead = append(dead, ref)
		}
	})
	for _, ref := range dead {
		obj, ok := h.Get(ref)
		if !ok {
			continue
		}
		h.bytesAllocated -= obj.Size
		h.slots.Free(ref)
	}
}

// Len returns the number of live (allocated, unswept) objects.
func (h *Heap) Len() int {
	return h.slots.Len()
}
