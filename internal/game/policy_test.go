package game

import (
	"testing"

	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

func TestSeekTarget_ChasesUnitInDetectionRange(t *testing.T) {
	ts := NewTestSim(
		idleUnit("E1", faction.Enemy, 2, 2),
		idleUnit("A1", faction.Player, 2, 5),
	)
	got, ok := SeekTarget{}.Destination(ts.Sim, ts.MustActor("E1"))
	if !ok || got != tile(2, 5) {
		t.Fatalf("expected to chase A1 at (2,5), got %v ok=%v", got, ok)
	}
}

func TestSeekTarget_HoldsWhenInAttackRange(t *testing.T) {
	ts := NewTestSim(
		idleUnit("E1", faction.Enemy, 2, 2),
		idleUnit("A1", faction.Player, 2, 3),
	)
	got, _ := SeekTarget{}.Destination(ts.Sim, ts.MustActor("E1"))
	if got != tile(2, 2) {
		t.Fatalf("expected to hold (2,2), got %v", got)
	}
}

func TestSeekTarget_IgnoresUnitsBeyondDetection(t *testing.T) {
	ts := NewTestSim(
		idleUnit("E1", faction.Enemy, 2, 2),
		idleUnit("A1", faction.Player, 2, 9),
	)
	st := SeekTarget{Fallback: tile(0, 0), HasFallback: true}
	if got, _ := st.Destination(ts.Sim, ts.MustActor("E1")); got != tile(0, 0) {
		t.Fatalf("expected the fallback, got %v", got)
	}
	if _, ok := (SeekTarget{}).Destination(ts.Sim, ts.MustActor("E1")); ok {
		t.Fatal("no fallback should mean no destination")
	}
}

func TestSeekTarget_CapturableBuildingGoal(t *testing.T) {
	ts := NewTestSim(
		WithCapturable("tower", 8, 8),
		WithActor(SpawnSpec{
			Label: "E1", Team: faction.Enemy, Level: 1, Tile: tile(2, 2),
			Behavior: Behavior{Targeting: SeekTarget{}, Capture: CaptureNearby{}},
		}),
	)
	e := ts.MustActor("E1")
	if got, _ := e.Behavior().Targeting.Destination(ts.Sim, e); got != tile(8, 8) {
		t.Fatalf("expected to head for the tower, got %v", got)
	}
}

func TestSeekTarget_NonCapturerSkipsCapturable(t *testing.T) {
	ts := NewTestSim(
		WithCapturable("tower", 8, 8),
		WithBuilding(capture.Spec{Name: "wall", Team: faction.Player, Tile: tile(4, 2), Health: 50}),
		idleUnit("E1", faction.Enemy, 2, 2),
	)
	got, _ := SeekTarget{}.Destination(ts.Sim, ts.MustActor("E1"))
	if got != tile(4, 2) {
		t.Fatalf("a unit that never captures should go for the wall, got %v", got)
	}
}

func TestFootprintMovement_NeedsWholeFootprint(t *testing.T) {
	g := hexgrid.NewGrid(6, 6)
	fm := FootprintMovement{Radius: 1}
	if fp := fm.Footprint(g, tile(3, 3)); len(fp) != 7 {
		t.Fatalf("expected 7 tiles, got %d", len(fp))
	}
	if fp := fm.Footprint(g, tile(0, 0)); fp != nil {
		t.Fatalf("corner footprint should not fit, got %v", fp)
	}
	if !fm.Arrived(tile(3, 3), tile(3, 4)) || fm.Arrived(tile(3, 3), tile(3, 5)) {
		t.Fatal("arrival is the destination lying under the footprint")
	}
	if fm.Detours() {
		t.Fatal("footprint movers never detour")
	}
}

func TestCaptureNearby_OnlyAdjacentAndCapturable(t *testing.T) {
	ts := NewTestSim(
		WithCapturable("far", 8, 8),
		WithBuilding(capture.Spec{Name: "wall", Team: faction.Neutral, Tile: tile(2, 3), Health: 50}),
		WithCapturable("near", 3, 2),
		idleUnit("A1", faction.Player, 2, 2),
	)
	b, ok := CaptureNearby{}.Choose(ts.Sim, ts.MustActor("A1"))
	if !ok || b.Name != "near" {
		t.Fatalf("expected the adjacent capturable building, got %v", b)
	}
}

func TestSetTarget_RedirectsImmediately(t *testing.T) {
	ts := NewTestSim(idleUnit("A1", faction.Player, 2, 2))
	if !ts.Sim.SetTarget(ts.Handle("A1"), tile(2, 6)) {
		t.Fatal("command refused")
	}
	ts.RunBeats(1)
	if got := ts.MustActor("A1").Tile(); got != tile(2, 3) {
		t.Fatalf("expected a step on the first beat after the command, got %v", got)
	}
}
