package game

import (
	"testing"

	"github.com/Garsondee/hex-cadence/internal/faction"
)

// newViewerSim wires a bare viewer into a simulation without creating any
// images, so the animation protocol can be exercised headless.
func newViewerSim() (*Game, *Sim) {
	g := &Game{callouts: &Callouts{}, simSpeed: 1}
	s := NewSim(12, 12, DefaultSimConfig(), WithExecutors(g, g))
	g.sim = s
	return g, s
}

func TestViewer_StepCommitsWhenTweenEnds(t *testing.T) {
	g, s := newViewerSim()
	a := s.Spawn(SpawnSpec{Label: "A1", Team: faction.Player, Tile: tile(2, 2),
		Behavior: Behavior{Targeting: FixedTarget{Tile: tile(2, 5)}}})

	if n, err := s.Advance(0.5); n != 1 || err != nil {
		t.Fatalf("expected one beat, got %d (%v)", n, err)
	}
	if len(g.moves) != 1 || a.Pending.Kind != PendingStepCommit {
		t.Fatalf("expected one tween and a pending step, got %d tweens pending=%s", len(g.moves), a.Pending.Kind)
	}

	g.advanceAnimations(0.3)
	if a.Tile() != tile(2, 2) {
		t.Fatalf("step committed before the tween ended: %s", a.Tile())
	}
	g.advanceAnimations(0.2)
	if a.Tile() != tile(2, 3) || a.Pending.Kind != PendingNone || len(g.moves) != 0 {
		t.Fatalf("expected commit on (2,3), got %s pending=%s tweens=%d", a.Tile(), a.Pending.Kind, len(g.moves))
	}
}

func TestViewer_StrikeResolvesWhenAnimationEnds(t *testing.T) {
	g, s := newViewerSim()
	s.Spawn(SpawnSpec{Label: "A1", Team: faction.Player, Tile: tile(2, 2)})
	e := s.Spawn(SpawnSpec{Label: "E1", Team: faction.Enemy, Tile: tile(2, 3)})

	if _, err := s.Advance(0.5); err != nil {
		t.Fatal(err)
	}
	if len(g.strikes) != 2 {
		t.Fatalf("expected both units to swing, got %d strikes", len(g.strikes))
	}
	if e.Health != 100 {
		t.Fatalf("damage landed before the animation: %d", e.Health)
	}
	g.advanceAnimations(1)
	if e.Health != 95 || len(g.strikes) != 0 {
		t.Fatalf("expected E1 at 95 with no strikes left, got %d / %d", e.Health, len(g.strikes))
	}
}
