// Package reservation is the single source of truth for which actor may
// occupy or enter which tile.
package reservation

import (
	"sort"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// Observer is notified after every grant (reserved=true) and release
// (reserved=false).
type Observer func(pos hexgrid.TilePos, holder arena.Handle, reserved bool)

// ObserverID identifies a registered observer for removal.
type ObserverID int

// Metrics receives reservation outcomes. A nil Metrics is allowed.
type Metrics interface {
	ReservationGranted()
	ReservationConflict()
	ReservationReleased()
}

// Registry maps tiles to the actor holding them. A tile maps to at most one
// actor at any time.
type Registry struct {
	held      map[hexgrid.TilePos]arena.Handle
	observers []observerEntry
	nextObsID ObserverID
	metrics   Metrics
}

type observerEntry struct {
	id ObserverID
	fn Observer
}

// New creates an empty registry. m may be nil.
func New(m Metrics) *Registry {
	return &Registry{
		held:    make(map[hexgrid.TilePos]arena.Handle),
		metrics: m,
	}
}

// TryReserve claims pos for actor. Succeeds without side effects when actor
// already holds it; fails when anyone else does.
func (r *Registry) TryReserve(pos hexgrid.TilePos, actor arena.Handle) bool {
	if cur, ok := r.held[pos]; ok {
		if cur == actor {
			return true
		}
		if r.metrics != nil {
			r.metrics.ReservationConflict()
		}
		return false
	}
	r.held[pos] = actor
	if r.metrics != nil {
		r.metrics.ReservationGranted()
	}
	r.notify(pos, actor, true)
	return true
}

// Release drops actor's claim on pos. No-op when actor does not hold it.
func (r *Registry) Release(pos hexgrid.TilePos, actor arena.Handle) {
	cur, ok := r.held[pos]
	if !ok || cur != actor {
		return
	}
	delete(r.held, pos)
	if r.metrics != nil {
		r.metrics.ReservationReleased()
	}
	r.notify(pos, actor, false)
}

// ReleaseAll drops every claim held by actor and returns the freed tiles in
// column/row order.
func (r *Registry) ReleaseAll(actor arena.Handle) []hexgrid.TilePos {
	freed := r.HeldBy(actor)
	for _, p := range freed {
		r.Release(p, actor)
	}
	return freed
}

// IsReserved reports whether anyone holds pos.
func (r *Registry) IsReserved(pos hexgrid.TilePos) bool {
	_, ok := r.held[pos]
	return ok
}

// IsReservedBy reports whether actor holds pos.
func (r *Registry) IsReservedBy(pos hexgrid.TilePos, actor arena.Handle) bool {
	cur, ok := r.held[pos]
	return ok && cur == actor
}

// IsReservedByOther reports whether someone other than actor holds pos.
func (r *Registry) IsReservedByOther(pos hexgrid.TilePos, actor arena.Handle) bool {
	cur, ok := r.held[pos]
	return ok && cur != actor
}

// Holder returns the actor holding pos.
func (r *Registry) Holder(pos hexgrid.TilePos) (arena.Handle, bool) {
	cur, ok := r.held[pos]
	return cur, ok
}

// HeldBy returns every tile actor holds, sorted by column then row.
func (r *Registry) HeldBy(actor arena.Handle) []hexgrid.TilePos {
	var out []hexgrid.TilePos
	for p, h := range r.held {
		if h == actor {
			out = append(out, p)
		}
	}
	sortPositions(out)
	return out
}

// Len returns the number of reserved tiles.
func (r *Registry) Len() int {
	return len(r.held)
}

// Snapshot copies the reservation map.
func (r *Registry) Snapshot() map[hexgrid.TilePos]arena.Handle {
	out := make(map[hexgrid.TilePos]arena.Handle, len(r.held))
	for p, h := range r.held {
		out[p] = h
	}
	return out
}

// AddObserver registers fn and returns an id for RemoveObserver.
func (r *Registry) AddObserver(fn Observer) ObserverID {
	r.nextObsID++
	r.observers = append(r.observers, observerEntry{id: r.nextObsID, fn: fn})
	return r.nextObsID
}

// RemoveObserver unregisters an observer. Unknown ids are ignored.
func (r *Registry) RemoveObserver(id ObserverID) {
	for i, o := range r.observers {
		if o.id == id {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(pos hexgrid.TilePos, actor arena.Handle, reserved bool) {
	for _, o := range r.observers {
		o.fn(pos, actor, reserved)
	}
}

func sortPositions(ps []hexgrid.TilePos) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
}
