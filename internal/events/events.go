// Package events is the synchronous event bus the simulation publishes
// gameplay notifications on.
package events

import (
	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// Type names an event kind.
type Type string

const (
	UnitKilled         Type = "unit_killed"
	UnitAttacked       Type = "unit_attacked"
	BuildingAttacked   Type = "building_attacked"
	BuildingDestroyed  Type = "building_destroyed"
	ObjectiveCompleted Type = "objective_completed"
	TeamChanged        Type = "team_changed"
	UnitSpawned        Type = "unit_spawned"
	CaptureStarted     Type = "capture_started"
	UnitStunned        Type = "unit_stunned"
)

// Event is one notification. Fields not relevant to a type stay zero.
type Event struct {
	Type     Type
	Beat     int64
	Actor    arena.Handle // attacker, killer, captor, spawned unit
	Target   arena.Handle // victim unit
	Building arena.Handle
	Team     faction.Team
	OldTeam  faction.Team
	Damage   int
	Tile     hexgrid.TilePos
	Label    string // victim label on UnitKilled; the handle no longer resolves
}

// Handler receives published events.
type Handler func(Event)

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id    SubscriptionID
	typ   Type // empty means every type
	owner arena.Handle
	fn    Handler
}

// Bus delivers events to subscribers synchronously, in subscription order.
// It is not safe for concurrent use; the simulation drives it from a single
// goroutine.
type Bus struct {
	subs   []subscription
	nextID SubscriptionID
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for events of type typ. owner may be arena.Nil for
// subscribers that are not actors; owned subscriptions are dropped by
// PruneOwner.
func (b *Bus) Subscribe(typ Type, owner arena.Handle, fn Handler) SubscriptionID {
	b.nextID++
	b.subs = append(b.subs, subscription{id: b.nextID, typ: typ, owner: owner, fn: fn})
	return b.nextID
}

// SubscribeAll registers fn for every event type.
func (b *Bus) SubscribeAll(owner arena.Handle, fn Handler) SubscriptionID {
	return b.Subscribe("", owner, fn)
}

// Unsubscribe removes one subscription.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// PruneOwner removes every subscription owned by owner and returns how many
// were dropped.
func (b *Bus) PruneOwner(owner arena.Handle) int {
	if owner.IsNil() {
		return 0
	}
	kept := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.owner != owner {
			kept = append(kept, s)
		}
	}
	n := len(b.subs) - len(kept)
	b.subs = kept
	return n
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	return len(b.subs)
}

// Publish delivers e. Subscriptions added or removed by a handler take
// effect from the next Publish.
func (b *Bus) Publish(e Event) {
	snapshot := b.subs
	for _, s := range snapshot {
		if s.typ == "" || s.typ == e.Type {
			s.fn(e)
		}
	}
}
