package game

import (
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/faction"
)

// --- Effective stats ---

func TestEffectiveStats_Unbuffed(t *testing.T) {
	ts := NewTestSim(idleUnit("A1", faction.Player, 2, 2))
	sl := EffectiveStats(ts.MustActor("A1"))
	if sl.Attack != 15 || sl.Defense != 10 || sl.MovementDelay != 1 {
		t.Fatalf("unexpected base sheet: %+v", sl)
	}
	if sl.AttackMul != 1 || sl.SpeedMul != 1 {
		t.Fatalf("multipliers should be 1 without buffs: %+v", sl)
	}
}

func TestEffectiveStats_SpeedBuffShortensDelay(t *testing.T) {
	stats := combat.DefaultStats()
	stats.MovementDelay = 4
	ts := NewTestSim(WithActor(SpawnSpec{Label: "A1", Team: faction.Player, Level: 1, Stats: stats, Tile: tile(2, 2)}))
	h := ts.Handle("A1")
	if !ts.Sim.ApplyBuff(h, combat.StatSpeed, 2, 5) {
		t.Fatal("buff refused")
	}
	if got := EffectiveStats(ts.MustActor("A1")).MovementDelay; got != 2 {
		t.Fatalf("expected delay 2 at double speed, got %d", got)
	}
	// 5s of buff is 10 beats at 120 BPM.
	ts.RunBeats(10)
	if got := EffectiveStats(ts.MustActor("A1")).MovementDelay; got != 4 {
		t.Fatalf("expected the buff to expire, delay=%d", got)
	}
}

func TestHealthFraction(t *testing.T) {
	ts := NewTestSim(idleUnit("A1", faction.Player, 2, 2))
	a := ts.MustActor("A1")
	a.Health = 25
	if f := HealthFraction(a); math.Abs(f-0.25) > 1e-9 {
		t.Fatalf("expected 0.25, got %.3f", f)
	}
}

// --- Records ---

func TestRecords_SortedByKills(t *testing.T) {
	ts := NewTestSim(
		idleUnit("A1", faction.Player, 2, 2),
		idleUnit("A2", faction.Player, 4, 4),
		idleUnit("E1", faction.Enemy, 8, 8),
	)
	ts.MustActor("A2").Kills = 2
	ts.MustActor("E1").Kills = 1
	ts.MustActor("E1").DamageDealt = 30

	recs := Records(ts.Sim)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Label != "A2" || recs[1].Label != "E1" || recs[2].Label != "A1" {
		t.Fatalf("unexpected order: %s %s %s", recs[0].Label, recs[1].Label, recs[2].Label)
	}

	totals := Totals(recs)
	if totals[faction.Player].Actors != 2 || totals[faction.Player].Kills != 2 {
		t.Fatalf("player totals wrong: %+v", totals[faction.Player])
	}
	if totals[faction.Enemy].DamageDealt != 30 {
		t.Fatalf("enemy totals wrong: %+v", totals[faction.Enemy])
	}
}

// --- Reporter and outcome ---

func TestReporter_CountsSpawnsAndKills(t *testing.T) {
	ts := NewTestSim(
		WithReporter(),
		idleUnit("A1", faction.Player, 2, 2),
		WithEnemy("E1", 2, 3),
	)
	ts.RunUntil(func(ts *TestSim) bool {
		_, alive := ts.Actor("E1")
		return !alive
	}, 40)

	r := ts.Reporter
	if r.Spawned(faction.Player) != 1 || r.Spawned(faction.Enemy) != 1 {
		t.Fatalf("spawns not counted: %d/%d", r.Spawned(faction.Player), r.Spawned(faction.Enemy))
	}
	if r.Killed(faction.Enemy) != 1 || r.Killed(faction.Player) != 0 {
		t.Fatal("kill not counted for the enemy side")
	}
	if r.DamageDealt(faction.Player) != 100 {
		t.Fatalf("expected 100 player damage, got %d", r.DamageDealt(faction.Player))
	}

	rpt := r.Latest()
	if rpt == nil || rpt.Player.Alive != 1 || rpt.Enemy.Alive != 0 {
		t.Fatalf("unexpected latest report: %+v", rpt)
	}
	if !strings.Contains(r.FormatLatest(), "Player: alive=1") {
		t.Fatalf("snapshot missing player line:\n%s", r.FormatLatest())
	}
	if wr := r.WindowSummary(); wr == nil || wr.SampleCount == 0 {
		t.Fatal("expected a window summary")
	}

	out := DetermineMatchOutcome(ts.Sim, r)
	if out.Outcome != OutcomePlayerVictory || out.Description != "decisive_player_victory_enemy_eliminated" {
		t.Fatalf("unexpected outcome: %s (%s)", out.Outcome, out.Description)
	}
}

func TestOutcome_BossSlain(t *testing.T) {
	ts := NewTestSim(
		WithReporter(),
		idleUnit("A1", faction.Player, 0, 0),
		idleUnit("E1", faction.Enemy, 11, 11),
		WithBoss("B", 6, 6, tile(6, 9)),
	)
	ts.Sim.TakePercentageDamage(ts.Handle("B"), 100)
	out := DetermineMatchOutcome(ts.Sim, ts.Reporter)
	if out.Outcome != OutcomePlayerVictory || !out.BossFought || out.BossAlive {
		t.Fatalf("expected a boss-slain victory, got %+v", out)
	}
}

func TestOutcome_InconclusiveWithoutResolution(t *testing.T) {
	ts := NewTestSim(
		WithReporter(),
		idleUnit("A1", faction.Player, 0, 0),
		idleUnit("E1", faction.Enemy, 11, 11),
	)
	ts.RunBeats(5)
	if out := DetermineMatchOutcome(ts.Sim, ts.Reporter); out.Outcome != OutcomeInconclusive {
		t.Fatalf("expected inconclusive, got %s", out.Description)
	}
}
