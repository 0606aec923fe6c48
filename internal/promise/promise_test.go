package promise

import (
	"reflect"
	"testing"
)

// TestThenOrderingFIFO matches spec §8's then-ordering invariant:
// reactions registered on the same promise run in FIFO registration
// order, and microtasks within one drain run in enqueue order.
func TestThenOrderingFIFO(t *testing.T) {
	s := New()
	p := s.NewPromise()

	var order []int
	s.Then(p, func(v any) any { order = append(order, 1); return nil }, nil)
	s.Then(p, func(v any) any { order = append(order, 2); return nil }, nil)
	s.Then(p, func(v any) any { order = append(order, 3); return nil }, nil)

	s.Resolve(p, "value")
	s.DrainMicrotasks()

	if !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestResolveIsNoOpOnceSettled(t *testing.T) {
	s := New()
	p := s.NewPromise()
	s.Resolve(p, "first")
	s.Resolve(p, "second")

	state, value := s.State(p)
	if state != Fulfilled || value != "first" {
		t.Errorf("state=%v value=%v, want Fulfilled/first", state, value)
	}
}

func TestThenOnAlreadySettledPromiseEnqueuesImmediately(t *testing.T) {
	s := New()
	p := s.NewPromise()
	s.Resolve(p, 42)

	var got any
	s.Then(p, func(v any) any { got = v; return nil }, nil)
	s.DrainMicrotasks()

	if got != 42 {
		t.Errorf("got = %v, want 42", got)
	}
}

func TestMissingCallbackForwardsDirectly(t *testing.T) {
	s := New()
	p := s.NewPromise()
	chained := s.Then(p, nil, nil) // no onFulfilled: value forwards directly

	s.Resolve(p, "forwarded")

	state, value := s.State(chained)
	if state != Fulfilled || value != "forwarded" {
		t.Errorf("chained state=%v value=%v, want Fulfilled/forwarded", state, value)
	}
}

func TestRejectionForwardsWithoutRejectHandler(t *testing.T) {
	s := New()
	p := s.NewPromise()
	chained := s.Then(p, func(v any) any { return "should not run" }, nil)

	s.Reject(p, "boom")

	state, value := s.State(chained)
	if state != Rejected || value != "boom" {
		t.Errorf("chained state=%v value=%v, want Rejected/boom", state, value)
	}
}

func TestDrainProcessesMicrotasksEnqueuedDuringDrain(t *testing.T) {
	s := New()
	p1 := s.NewPromise()

	var order []string
	s.Then(p1, func(v any) any {
		order = append(order, "first")
		p2 := s.NewPromise()
		s.Then(p2, func(v any) any {
			order = append(order, "second")
			return nil
		}, nil)
		s.Resolve(p2, nil)
		return nil
	}, nil)

	s.Resolve(p1, nil)
	s.DrainMicrotasks()

	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Errorf("order = %v, want [first second]", order)
	}
}

func TestPromiseAllResolvesInInputOrder(t *testing.T) {
	s := New()
	a, b, c := s.NewPromise(), s.NewPromise(), s.NewPromise()
	all := s.All([]Ref{a, b, c})

	s.Resolve(b, "b")
	s.Resolve(a, "a")
	s.DrainMicrotasks()

	if state, _ := s.State(all); state != Pending {
		t.Fatalf("all should still be pending before c settles, got %v", state)
	}

	s.Resolve(c, "c")
	s.DrainMicrotasks()

	state, value := s.State(all)
	if state != Fulfilled {
		t.Fatalf("state = %v, want Fulfilled", state)
	}
	if !reflect.DeepEqual(value, []any{"a", "b", "c"}) {
		t.Errorf("value = %v, want [a b c]", value)
	}
}

func TestPromiseAllRejectsOnFirstRejection(t *testing.T) {
	s := New()
	a, b := s.NewPromise(), s.NewPromise()
	all := s.All([]Ref{a, b})

	s.Reject(a, "oops")
	s.DrainMicrotasks()
	s.Resolve(b, "b") // later settlement should not override the rejection
	s.DrainMicrotasks()

	state, value := s.State(all)
	if state != Rejected || value != "oops" {
		t.Errorf("state=%v value=%v, want Rejected/oops", state, value)
	}
}

func TestPromiseAllEmptyResolvesImmediately(t *testing.T) {
	s := New()
	all := s.All(nil)
	state, value := s.State(all)
	if state != Fulfilled {
		t.Fatalf("state = %v, want Fulfilled", state)
	}
	if got, ok := value.([]any); !ok || len(got) != 0 {
		t.Errorf("value = %v, want empty slice", value)
	}
}

func TestPromiseRaceSettlesWithFirstInput(t *testing.T) {
	s := New()
	a, b := s.NewPromise(), s.NewPromise()
	race := s.Race([]Ref{a, b})

	s.Resolve(b, "b wins")
	s.DrainMicrotasks()
	s.Resolve(a, "a loses") // ignored: race already settled

	state, value := s.State(race)
	if state != Fulfilled || value != "b wins" {
		t.Errorf("state=%v value=%v, want Fulfilled/b wins", state, value)
	}
}
