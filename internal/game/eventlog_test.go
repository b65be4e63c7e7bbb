package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/hex-cadence/internal/faction"
)

func TestEventLog_RingKeepsNewest(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(int64(i), "A1", faction.Player, "tick")
	}
	got := el.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("expected %d entries, got %d", logMaxEntries, len(got))
	}
	if got[0].Beat != 5 || got[len(got)-1].Beat != int64(logMaxEntries+4) {
		t.Fatalf("expected beats 5..%d, got %d..%d", logMaxEntries+4, got[0].Beat, got[len(got)-1].Beat)
	}
}

func TestEventLog_DescribesCombat(t *testing.T) {
	ts := NewTestSim(idleUnit("A1", faction.Player, 2, 2))
	el := NewEventLog()
	el.Attach(ts.Sim)
	ts.Spawn(SpawnSpec{Label: "E1", Team: faction.Enemy, Level: 1, Tile: tile(2, 3)})
	ts.MustActor("E1").Health = 5

	ts.RunBeats(1)

	got := el.Recent()
	if len(got) != 3 {
		t.Fatalf("expected spawn, hit and kill, got %+v", got)
	}
	if got[0].Label != "E1" || got[0].Message != "spawned at (2,3)" {
		t.Fatalf("unexpected spawn entry: %+v", got[0])
	}
	if got[1].Label != "A1" || got[1].Team != faction.Player || got[1].Message != "hit E1 for 5" {
		t.Fatalf("unexpected hit entry: %+v", got[1])
	}
	// The victim is gone by the time the kill is published; the event keeps its label.
	if got[2].Label != "A1" || got[2].Message != "killed E1" {
		t.Fatalf("unexpected kill entry: %+v", got[2])
	}
}

func TestActorDebugReport_SummarisesWalk(t *testing.T) {
	ts := NewTestSim(WithAlly("A1", 2, 2, tile(2, 6)))
	ts.RunBeats(7)

	report := ActorDebugReport(ts.Sim, ts.SimLog, ts.MustActor("A1"), 0)
	for _, want := range []string{"actor=A1", "summary: steps=4 stuck=0", "stages:", "moving", "beat_range=[0..7]"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestMatchReport_ListsRecords(t *testing.T) {
	ts := NewTestSim(
		WithReporter(),
		idleUnit("A1", faction.Player, 0, 0),
		idleUnit("E1", faction.Enemy, 11, 11),
	)
	ts.RunBeats(2)

	report := MatchReport(ts.Sim, ts.Reporter, "skirmish")
	for _, want := range []string{"HexCadence skirmish: beat 2", "outcome: inconclusive", "A1", "E1", "total player"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestCallouts_ExpireAfterLifetime(t *testing.T) {
	ts := NewTestSim(idleUnit("A1", faction.Player, 2, 2))
	c := &Callouts{}
	c.Attach(ts.Sim)
	ts.Spawn(SpawnSpec{Label: "E1", Team: faction.Enemy, Level: 1, Tile: tile(2, 3)})
	ts.RunBeats(1)

	// One damage label over each unit.
	if c.Len() != 2 {
		t.Fatalf("expected 2 callouts, got %d", c.Len())
	}
	for i := 0; i < calloutLifetime-1; i++ {
		c.Tick()
	}
	if c.Len() != 2 {
		t.Fatalf("callouts expired early: %d left", c.Len())
	}
	c.Tick()
	if c.Len() != 0 {
		t.Fatalf("expected every callout gone, got %d", c.Len())
	}
}
