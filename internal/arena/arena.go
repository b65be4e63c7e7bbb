// Package arena stores values behind generational handles, so a handle to a
// freed slot never resolves to whatever reuses it.
package arena

// Handle is a generational reference into an Arena. A handle whose slot has
// been freed (or reused) no longer resolves.
type Handle struct {
	Index uint32
	Gen   uint32 // 0 is never issued, so the zero Handle is always invalid
}

// Nil is the zero handle. It never resolves.
var Nil Handle

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool {
	return h.Gen == 0
}

type slot[T any] struct {
	gen   uint32
	alive bool
	val   T
}

// Arena stores values addressed by generational handles. Freed slots are
// recycled with a bumped generation so stale handles resolve to nothing.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.gen++
		s.alive = true
		s.val = v
		a.live++
		return Handle{Index: idx, Gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{gen: 1, alive: true, val: v})
	a.live++
	return Handle{Index: uint32(len(a.slots) - 1), Gen: 1}
}

// Get resolves h. The boolean is false for nil, freed, or recycled handles.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if !a.Contains(h) {
		return zero, false
	}
	return a.slots[h.Index].val, true
}

// Contains reports whether h still refers to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	if h.IsNil() || int(h.Index) >= len(a.slots) {
		return false
	}
	s := a.slots[h.Index]
	return s.alive && s.gen == h.Gen
}

// Remove frees the slot behind h. Returns false if h was already stale.
func (a *Arena[T]) Remove(h Handle) bool {
	if !a.Contains(h) {
		return false
	}
	s := &a.slots[h.Index]
	var zero T
	s.val = zero
	s.alive = false
	a.free = append(a.free, h.Index)
	a.live--
	return true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.live
}

// Each calls fn for every live value in slot order. Iteration stops when fn
// returns false.
func (a *Arena[T]) Each(fn func(Handle, T) bool) {
	for i := range a.slots {
		s := a.slots[i]
		if !s.alive {
			continue
		}
		if !fn(Handle{Index: uint32(i), Gen: s.gen}, s.val) {
			return
		}
	}
}
