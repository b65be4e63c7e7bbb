package events

import (
	"testing"

	"github.com/Garsondee/hex-cadence/internal/arena"
)

func TestBus_DeliversByTypeInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(UnitKilled, arena.Nil, func(Event) { got = append(got, "a") })
	b.Subscribe(UnitAttacked, arena.Nil, func(Event) { got = append(got, "x") })
	b.SubscribeAll(arena.Nil, func(Event) { got = append(got, "b") })

	b.Publish(Event{Type: UnitKilled})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected delivery order %v", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	n := 0
	id := b.Subscribe(UnitSpawned, arena.Nil, func(Event) { n++ })
	b.Publish(Event{Type: UnitSpawned})
	b.Unsubscribe(id)
	b.Publish(Event{Type: UnitSpawned})
	if n != 1 {
		t.Fatalf("expected one delivery, got %d", n)
	}
}

func TestBus_PruneOwner(t *testing.T) {
	b := NewBus()
	owner := arena.Handle{Index: 4, Gen: 2}
	other := arena.Handle{Index: 5, Gen: 1}
	b.Subscribe(UnitKilled, owner, func(Event) { t.Fatal("pruned handler called") })
	b.SubscribeAll(owner, func(Event) { t.Fatal("pruned handler called") })
	hits := 0
	b.Subscribe(UnitKilled, other, func(Event) { hits++ })

	if n := b.PruneOwner(owner); n != 2 {
		t.Fatalf("expected 2 pruned, got %d", n)
	}
	b.Publish(Event{Type: UnitKilled})
	if hits != 1 || b.Len() != 1 {
		t.Fatalf("expected the other subscriber to survive, hits=%d len=%d", hits, b.Len())
	}
	if b.PruneOwner(arena.Nil) != 0 {
		t.Fatal("nil owner must never prune")
	}
}

func TestBus_HandlerMayUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	calls := 0
	var id SubscriptionID
	id = b.Subscribe(TeamChanged, arena.Nil, func(Event) {
		calls++
		b.Unsubscribe(id)
	})
	later := 0
	b.Subscribe(TeamChanged, arena.Nil, func(Event) { later++ })

	b.Publish(Event{Type: TeamChanged})
	b.Publish(Event{Type: TeamChanged})
	if calls != 1 || later != 2 {
		t.Fatalf("calls=%d later=%d", calls, later)
	}
}
