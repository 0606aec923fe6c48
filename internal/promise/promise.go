// Package promise implements spec §4.13's promise microtask scheduler:
// promise state machines, then-chaining, a FIFO microtask queue drained
// to a fixed point, and Promise.all/Promise.race combinators.
package promise

import "github.com/ehrlich-b/browsercore/internal/arena"

// State is a promise's settlement state, per spec §4.13: "Each promise
// has state ∈ {Pending, Fulfilled(v), Rejected(r)}."
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

// Callback is a then-registered reaction. Either may be nil, per spec
// §4.13: "if no callback of the matching kind exists, forward the
// value/reason to the chained promise directly."
type Callback func(value any) any

type reaction struct {
	onFulfilled Callback
	onRejected  Callback
	chained     Ref
}

// Promise is one heap-resident promise. Promises are addressed by Ref
// (an arena.Handle) rather than by Go pointer, per the runtime's
// handle-indirection convention (the same discipline internal/jsheap
// and internal/dom use).
type Promise struct {
	state     State
	value     any
	reactions []reaction
	handled   bool
}

// Ref is a handle to a promise held by a Scheduler.
type Ref = arena.Handle

// microtask is a queued unit of work: invoke callback with value, then
// settle the chained promise with its result, per spec §4.13: "enqueue
// a microtask (callback, value, chained_promise_slot)."
type microtask struct {
	callback Callback
	value    any
	chained  Ref
}

// Scheduler owns every promise and the microtask queue, per spec §4.13
// and §5's "drain_microtasks does not suspend; it runs to fixed-point."
type Scheduler struct {
	promises *arena.Arena[Promise]
	queue    []microtask
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{promises: arena.New[Promise]()}
}

// NewPromise allocates a new Pending promise.
func (s *Scheduler) NewPromise() Ref {
	return s.promises.Alloc(Promise{state: Pending})
}

// Handled reports whether Then has ever been called on p, with or without
// a rejection callback (a rejection with no callback forwards to the
// chained promise), per spec §4.13's "handled" flag (used by callers to
// decide whether an unhandled rejection should be reported).
func (s *Scheduler) Handled(p Ref) bool {
	promise, ok := s.promises.Get(p)
	return ok && promise.handled
}

// State returns a promise's current settlement state and value.
func (s *Scheduler) State(p Ref) (State, any) {
	promise, ok := s.promises.Get(p)
	if !ok {
		return Pending, nil
	}
	return promise.state, promise.value
}

// Resolve fulfills p with value. A non-pending promise is unaffected,
// per spec §4.13: "resolve/reject on a non-pending promise is a no-op
// (first writer wins)."
func (s *Scheduler) Resolve(p Ref, value any) {
	s.settle(p, Fulfilled, value)
}

// Reject rejects p with reason.
func (s *Scheduler) Reject(p Ref, reason any) {
	s.settle(p, Rejected, reason)
}

func (s *Scheduler) settle(p Ref, state State, value any) {
	promise := s.promises.GetPtr(p)
	if promise == nil || promise.state != Pending {
		return
	}
	promise.state = state
	promise.value = value

	for _, r := range promise.reactions {
		s.enqueueReaction(r, state, value)
	}
	promise.reactions = nil
}

// enqueueReaction schedules one stored reaction against a just-settled
// promise's outcome, per spec §4.13's per-reaction dispatch.
func (s *Scheduler) enqueueReaction(r reaction, state State, value any) {
	isReject := state == Rejected
	cb := r.onFulfilled
	if isReject {
		cb = r.onRejected
	}
	if cb == nil {
		// No matching-kind callback: forward directly to the chained
		// promise without a microtask hop.
		if isReject {
			s.Reject(r.chained, value)
		} else {
			s.Resolve(r.chained, value)
		}
		return
	}
	s.queue = append(s.queue, microtask{callback: cb, value: value, chained: r.chained})
}

// Then registers onFulfilled/onRejected against p and returns a new
// chained promise, per spec §4.13: "then(p, on_fulfilled?, on_rejected?)
// returns a new chained promise; if p already settled, the appropriate
// microtask is enqueued at registration time."
func (s *Scheduler) Then(p Ref, onFulfilled, onRejected Callback) Ref {
	chained := s.NewPromise()
	promise := s.promises.GetPtr(p)
	if promise == nil {
		return chained
	}

	r := reaction{onFulfilled: onFulfilled, onRejected: onRejected, chained: chained}
	promise.handled = true

	if promise.state == Pending {
		promise.reactions = append(promise.reactions, r)
		return chained
	}
	s.enqueueReaction(r, promise.state, promise.value)
	return chained
}

// DrainMicrotasks processes the queue until empty, including tasks
// enqueued by earlier tasks in the same drain, per spec §4.13 and §5's
// "runs to fixed-point on the current thread." Callbacks execute in
// FIFO enqueue order.
func (s *Scheduler) DrainMicrotasks() {
	for len(s.queue) > 0 {
		task := s.queue[0]
		s.queue = s.queue[1:]

		// Identity model: a callback's return value fulfills the chained
		// promise regardless of whether it ran as the fulfilled or
		// rejected reaction. A callback that wants the chain to stay
		// rejected rejects the chained promise itself rather than
		// returning.
		result := task.callback(task.value)
		s.Resolve(task.chained, result)
	}
}

// All implements spec §4.13's Promise.all: resolves with every input's
// value (in input order) once all are fulfilled, or rejects on the
// first rejection. An empty list resolves immediately.
func (s *Scheduler) All(inputs []Ref) Ref {
	out := s.NewPromise()
	if len(inputs) == 0 {
		s.Resolve(out, []any{})
		return out
	}

	results := make([]any, len(inputs))
	remaining := len(inputs)
	settled := false

	for i, in := range inputs {
		i := i
		s.Then(in, func(v any) any {
			if settled {
				return nil
			}
			results[i] = v
			remaining--
			if remaining == 0 {
				settled = true
				s.Resolve(out, results)
			}
			return nil
		}, func(reason any) any {
			if !settled {
				settled = true
				s.Reject(out, reason)
			}
			return nil
		})
	}
	return out
}

// Race implements spec §4.13's Promise.race: settles identically to
// whichever input settles first; later settlements of the other inputs
// are ignored.
func (s *Scheduler) Race(inputs []Ref) Ref {
	out := s.NewPromise()
	settled := false

	for _, in := range inputs {
		s.Then(in, func(v any) any {
			if !settled {
				settled = true
				s.Resolve(out, v)
			}
			return nil
		}, func(reason any) any {
			if !settled {
				settled = true
				s.Reject(out, reason)
			}
			return nil
		})
	}
	return out
}
