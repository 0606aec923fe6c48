package arena

import "testing"

func TestAllocGet(t *testing.T) {
	a := New[string]()
	h := a.Alloc("hello")
	got, ok := a.Get(h)
	if !ok || got != "hello" {
		t.Fatalf("Get(%v) = %q, %v, want %q, true", h, got, ok, "hello")
	}
}

func TestStaleHandleAfterFree(t *testing.T) {
	a := New[int]()
	h1 := a.Alloc(1)
	a.Free(h1)
	h2 := a.Alloc(2)

	if h1 == h2 {
		t.Fatalf("expected reused slot to carry a bumped generation, got identical handles")
	}
	if _, ok := a.Get(h1); ok {
		t.Errorf("Get(stale handle) ok = true, want false")
	}
	got, ok := a.Get(h2)
	if !ok || got != 2 {
		t.Errorf("Get(h2) = %v, %v, want 2, true", got, ok)
	}
}

func TestZeroHandleAlwaysAbsent(t *testing.T) {
	a := New[int]()
	a.Alloc(42)
	var zero Handle
	if _, ok := a.Get(zero); ok {
		t.Errorf("Get(zero handle) ok = true, want false")
	}
}

func TestEachSkipsFreedSlots(t *testing.T) {
	a := New[int]()
	h1 := a.Alloc(1)
	h2 := a.Alloc(2)
	a.Free(h1)

	seen := map[Handle]int{}
	a.Each(func(h Handle, v *int) { seen[h] = *v })

	if len(seen) != 1 {
		t.Fatalf("Each visited %d slots, want 1", len(seen))
	}
	if seen[h2] != 2 {
		t.Errorf("Each did not see h2 = 2")
	}
}
