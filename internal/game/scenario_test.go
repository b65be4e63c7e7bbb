package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the scenario summary block.
func dumpSummary(t *testing.T, ts *TestSim) {
	t.Helper()
	t.Log(ts.SimLog.Summary(ts.Sim))
	if ts.Reporter != nil {
		t.Log(ts.Reporter.FormatLatest())
		t.Log(ts.Reporter.WindowSummary().Format())
	}
}

// countingMetrics records the counters the scenarios assert on.
type countingMetrics struct {
	nopMetrics
	stuck     int
	kills     int
	captures  int
	conflicts int
}

func (m *countingMetrics) StuckFallback()       { m.stuck++ }
func (m *countingMetrics) UnitKilled()          { m.kills++ }
func (m *countingMetrics) CaptureCompleted()    { m.captures++ }
func (m *countingMetrics) ReservationConflict() { m.conflicts++ }

func tile(c, r int) hexgrid.TilePos { return hexgrid.TilePos{Col: c, Row: r} }

// idleUnit spawns a unit of team that never moves and never captures.
func idleUnit(label string, team faction.Team, c, r int) SimOption {
	return WithActor(SpawnSpec{Label: label, Team: team, Level: 1, Tile: tile(c, r)})
}

// holder spawns a unit of team that stays on its tile and captures anything
// adjacent.
func holder(label string, team faction.Team, c, r int) SimOption {
	return WithActor(SpawnSpec{
		Label: label,
		Team:  team,
		Level: 1,
		Tile:  tile(c, r),
		Behavior: Behavior{
			Targeting: FixedTarget{Tile: tile(c, r)},
			Capture:   CaptureNearby{},
		},
	})
}

// --- Scenario: Walk To Target ---

func TestScenario_WalkToTarget(t *testing.T) {
	t.Log("=== TestScenario_WalkToTarget ===")
	t.Log("--- Setup: 1 ally at (2,2) ordered to (2,6), movement delay 1 ---")

	ts := NewTestSim(
		WithStrictInvariants(),
		WithAlly("A1", 2, 2, tile(2, 6)),
	)

	beat := ts.RunUntil(func(ts *TestSim) bool {
		return ts.MustActor("A1").Tile() == tile(2, 6)
	}, 20)
	if beat != 4 {
		dumpLog(t, ts)
		t.Fatalf("expected arrival on beat 4, got %d", beat)
	}
	if ts.Moves != 4 {
		t.Fatalf("expected 4 executor moves, got %d", ts.Moves)
	}

	ts.RunBeats(3)
	a := ts.MustActor("A1")
	if a.State != StateIdle || a.Pending.Kind != PendingNone {
		t.Fatalf("expected idle at target, got %s pending=%s", a.State, a.Pending.Kind)
	}
	if ts.Moves != 4 {
		t.Fatalf("actor kept moving after arrival: %d moves", ts.Moves)
	}
	checkNoErrors(t, ts)
	checkConsistent(t, ts)
}

// --- Scenario: Reservation Race ---

func TestScenario_ReservationRace(t *testing.T) {
	t.Log("=== TestScenario_ReservationRace ===")
	t.Log("--- Setup: A1 at (2,2) and A2 at (2,4) both ordered onto (2,3) ---")

	ts := NewTestSim(
		WithStrictInvariants(),
		WithManualCompletion(),
		WithAlly("A1", 2, 2, tile(2, 3)),
		WithAlly("A2", 2, 4, tile(2, 3)),
	)
	a1, a2 := ts.Handle("A1"), ts.Handle("A2")

	ts.RunBeats(1)
	if h, ok := ts.Sim.Res.Holder(tile(2, 3)); !ok || h != a1 {
		t.Fatalf("first actor in spawn order should win (2,3), holder=%v ok=%v", h, ok)
	}
	// A2 falls back to the equidistant neighbour with the lowest column.
	if got := ts.MustActor("A2").Pending.Dest; got != tile(1, 3) {
		t.Fatalf("expected A2 to step to (1,3), got %v", got)
	}
	if h, _ := ts.Sim.Res.Holder(tile(1, 3)); h != a2 {
		t.Fatal("A2 should hold its fallback tile")
	}
	ts.Sim.CompleteAllPending()

	for i := 0; i < 10; i++ {
		ts.RunBeats(1)
		ts.Sim.CompleteAllPending()
		if ts.MustActor("A2").Tile() == tile(2, 3) {
			t.Fatalf("beat %d: A2 entered the tile A1 holds", ts.CurrentBeat())
		}
		checkOneActorPerTile(t, ts)
	}
	if got := ts.MustActor("A1").Tile(); got != tile(2, 3) {
		t.Fatalf("A1 should stay on (2,3), got %v", got)
	}
	checkNoErrors(t, ts)
	checkConsistent(t, ts)
}

func TestScenario_HeldStepSidestepsForward(t *testing.T) {
	t.Log("=== TestScenario_HeldStepSidestepsForward ===")
	t.Log("--- Setup: A2 claims (2,3) first; A1 at (2,2) heads for (2,6) through it ---")

	ts := NewTestSim(
		WithStrictInvariants(),
		WithManualCompletion(),
		WithAlly("A2", 2, 4, tile(2, 3)),
		WithAlly("A1", 2, 2, tile(2, 6)),
	)

	ts.RunBeats(1)
	if h, _ := ts.Sim.Res.Holder(tile(2, 3)); h != ts.Handle("A2") {
		t.Fatal("A2 should hold (2,3)")
	}
	// (1,2) and (3,2) are as far from (2,6) as (2,2); lowest column wins.
	if got := ts.MustActor("A1").Pending.Dest; got != tile(1, 2) {
		t.Fatalf("expected A1 to sidestep to (1,2), got %v", got)
	}
	checkNoErrors(t, ts)
	checkConsistent(t, ts)
}

// --- Scenario: Exclusive Capture ---

func TestScenario_CaptureExclusive(t *testing.T) {
	t.Log("=== TestScenario_CaptureExclusive ===")
	t.Log("--- Setup: neutral tower at (5,5), ally holding (5,4), enemy holding (5,6) ---")

	m := &countingMetrics{}
	ts := NewTestSim(
		WithStrictInvariants(),
		WithSimMetrics(m),
		WithCapturable("tower", 5, 5),
		holder("A1", faction.Player, 5, 4),
		holder("E1", faction.Enemy, 5, 6),
	)
	tower, ok := ts.Sim.Buildings.AtTile(tile(5, 5))
	if !ok {
		t.Fatal("tower not placed")
	}

	ts.RunBeats(1)
	if got := ts.MustActor("A1").State; got != StateCapturing {
		t.Fatalf("A1 should be capturing, got %s", got)
	}
	if got := ts.MustActor("E1").State; got != StateIdle {
		t.Fatalf("E1 should be rejected, got %s", got)
	}
	if !ts.SimLog.HasEntry("capture", "rejected", "another team") {
		dumpLog(t, ts)
		t.Fatal("expected a contested rejection for E1")
	}

	ts.RunBeats(6)
	if p := tower.ProgressNormalized(); p != 0.5 {
		t.Fatalf("expected half progress after 6 capture beats, got %.3f", p)
	}

	beat := ts.RunUntil(func(*TestSim) bool { return tower.Team == faction.Player }, 20)
	if beat != 13 {
		dumpLog(t, ts)
		t.Fatalf("expected capture on beat 13, got %d", beat)
	}
	if m.captures != 1 || ts.MustActor("A1").Captures != 1 {
		t.Fatalf("capture not credited: metrics=%d captor=%d", m.captures, ts.MustActor("A1").Captures)
	}
	if got := ts.MustActor("A1").State; got != StateIdle {
		t.Fatalf("captor should return to idle, got %s", got)
	}
	// The enemy may now contest the player's building.
	if s := tower.Session(); s == nil || s.Team != faction.Enemy {
		t.Fatalf("expected E1 to open an enemy session, got %+v", s)
	}
	if !ts.SimLog.HasEntry("event", "team_changed", "") {
		t.Fatal("expected a team changed event")
	}
	checkNoErrors(t, ts)
}

// --- Scenario: Shared Capture ---

func TestScenario_CaptureTwoContributors(t *testing.T) {
	t.Log("=== TestScenario_CaptureTwoContributors ===")
	t.Log("--- Setup: neutral tower at (5,5), allies at (5,4) and (6,5) ---")

	ts := NewTestSim(
		WithStrictInvariants(),
		WithCapturable("tower", 5, 5),
		holder("A1", faction.Player, 5, 4),
		holder("A2", faction.Player, 6, 5),
	)
	tower, _ := ts.Sim.Buildings.AtTile(tile(5, 5))

	ts.RunBeats(1)
	if s := tower.Session(); s == nil || len(s.Contributors) != 2 {
		t.Fatalf("expected both allies to join one session, got %+v", s)
	}
	beat := ts.RunUntil(func(*TestSim) bool { return tower.Team == faction.Player }, 20)
	if beat != 7 {
		t.Fatalf("expected capture on beat 7 with two contributors, got %d", beat)
	}
	if ts.MustActor("A1").Captures != 1 || ts.MustActor("A2").Captures != 0 {
		t.Fatal("the first contributor is the captor")
	}
	checkNoErrors(t, ts)
}

// --- Scenario: Capture Abandoned On Death ---

func TestScenario_CaptureCancelledWhenSoleContributorDies(t *testing.T) {
	ts := NewTestSim(
		WithStrictInvariants(),
		WithCapturable("tower", 5, 5),
		holder("A1", faction.Player, 5, 4),
	)
	tower, _ := ts.Sim.Buildings.AtTile(tile(5, 5))
	ts.RunBeats(3)
	if !tower.IsBeingCaptured() {
		t.Fatal("expected a capture in progress")
	}
	ts.Sim.Kill(ts.Handle("A1"), ghost)
	if tower.Session() != nil {
		t.Fatal("session should be cancelled with its last contributor")
	}
	ts.RunBeats(20)
	if tower.Team != faction.Neutral {
		t.Fatalf("tower changed hands without contributors: %s", tower.Team)
	}
	checkNoErrors(t, ts)
}

// --- Scenario: Melee Exchange ---

func TestScenario_MeleeExchange(t *testing.T) {
	t.Log("=== TestScenario_MeleeExchange ===")
	t.Log("--- Setup: ally at (2,2), adjacent enemy at (2,3), equal stats ---")

	m := &countingMetrics{}
	ts := NewTestSim(
		WithStrictInvariants(),
		WithSimMetrics(m),
		idleUnit("A1", faction.Player, 2, 2),
		WithEnemy("E1", 2, 3),
	)

	ts.RunBeats(1)
	// 15 attack against 10 defence at equal level.
	if a, e := ts.MustActor("A1").Health, ts.MustActor("E1").Health; a != 95 || e != 95 {
		t.Fatalf("expected both at 95 after one exchange, got A1=%d E1=%d", a, e)
	}

	beat := ts.RunUntil(func(ts *TestSim) bool {
		_, alive := ts.Actor("E1")
		return !alive
	}, 40)
	if beat != 20 {
		dumpLog(t, ts)
		dumpSummary(t, ts)
		t.Fatalf("expected E1 to fall on beat 20, got %d", beat)
	}
	// A1's hit lands first in spawn order, so E1's last attack never resolves.
	a := ts.MustActor("A1")
	if a.Health != 5 || a.Kills != 1 {
		t.Fatalf("expected A1 at 5 HP with 1 kill, got %d HP %d kills", a.Health, a.Kills)
	}
	if m.kills != 1 {
		t.Fatalf("expected 1 kill counted, got %d", m.kills)
	}
	if ts.Sim.Res.IsReserved(tile(2, 3)) {
		t.Fatal("dead enemy's tile still reserved")
	}
	checkNoErrors(t, ts)
}

func TestScenario_AttackBuffRaisesDamage(t *testing.T) {
	ts := NewTestSim(
		idleUnit("A1", faction.Player, 2, 2),
		idleUnit("E1", faction.Enemy, 2, 3),
	)
	if n := ts.Sim.ApplyGlobalBuff(faction.Player, combat.StatAttack); n != 1 {
		t.Fatalf("expected 1 actor buffed, got %d", n)
	}
	ts.RunBeats(1)
	// 15 * 1.2 = 18 attack against 10 defence.
	if got := ts.MustActor("E1").Health; got != 92 {
		t.Fatalf("expected buffed hit of 8, E1 at %d", got)
	}
	if got := ts.MustActor("A1").Health; got != 95 {
		t.Fatalf("enemy was not buffed, A1 should be at 95, got %d", got)
	}
}

func TestScenario_StaleTargetAbortsAttack(t *testing.T) {
	ts := NewTestSim(
		WithManualCompletion(),
		idleUnit("A1", faction.Player, 2, 2),
		idleUnit("E1", faction.Enemy, 2, 3),
	)
	ts.RunBeats(1)
	a := ts.MustActor("A1")
	if a.Pending.Kind != PendingAttackAnimation || a.State != StateAttacking {
		t.Fatalf("expected an attack in flight, got %s/%s", a.State, a.Pending.Kind)
	}

	ts.Sim.Kill(ts.Handle("E1"), ghost)
	err := ts.Sim.CompletePending(a.ID)
	if !errors.Is(err, ErrStaleTarget) {
		t.Fatalf("expected ErrStaleTarget, got %v", err)
	}
	if a.State != StateIdle || a.Pending.Kind != PendingNone {
		t.Fatalf("expected idle after abort, got %s/%s", a.State, a.Pending.Kind)
	}
	if a.DamageDealt != 0 {
		t.Fatalf("aborted attack dealt damage: %d", a.DamageDealt)
	}
}

// --- Scenario: Stuck Fallback ---

func TestScenario_StuckForcesDetour(t *testing.T) {
	t.Log("=== TestScenario_StuckForcesDetour ===")
	t.Log("--- Setup: ally at (2,2) ordered to (2,5), every closer neighbour walled off ---")

	m := &countingMetrics{}
	ts := NewTestSim(
		WithStrictInvariants(),
		WithSimMetrics(m),
		WithBlocked(tile(2, 3), tile(3, 2), tile(1, 2)),
		WithAlly("A1", 2, 2, tile(2, 5)),
	)

	ts.RunBeats(3)
	a := ts.MustActor("A1")
	if a.Tile() != tile(2, 2) || a.StuckCount() != 3 {
		t.Fatalf("expected 3 failed steps in place, got tile=%v stuck=%d", a.Tile(), a.StuckCount())
	}
	if m.stuck != 0 {
		t.Fatal("fallback fired before the threshold was exceeded")
	}

	ts.RunBeats(1)
	detours := []hexgrid.TilePos{tile(2, 1), tile(3, 1), tile(1, 1)}
	if !slices.Contains(detours, a.Tile()) {
		dumpLog(t, ts)
		t.Fatalf("expected a forced step to a free neighbour, got %v", a.Tile())
	}
	if m.stuck != 1 || a.StuckCount() != 0 {
		t.Fatalf("expected one fallback and a reset counter, got %d/%d", m.stuck, a.StuckCount())
	}
	if !ts.SimLog.HasEntry("move", "forced", "") {
		t.Fatal("expected a forced move trace")
	}
	checkNoErrors(t, ts)
}

func TestScenario_StuckSameSeedSameDetour(t *testing.T) {
	run := func() hexgrid.TilePos {
		ts := NewTestSim(
			WithSeed(7),
			WithBlocked(tile(2, 3), tile(3, 2), tile(1, 2)),
			WithAlly("A1", 2, 2, tile(2, 5)),
		)
		ts.RunBeats(4)
		return ts.MustActor("A1").Tile()
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("detour not deterministic for a fixed seed: %v vs %v", a, b)
	}
}

// --- Scenario: Released Destination ---

func TestScenario_ReleasedDestinationRetriesNextBeat(t *testing.T) {
	stats := combat.DefaultStats()
	stats.MovementDelay = 3
	ts := NewTestSim(
		WithActor(SpawnSpec{
			Label:    "A1",
			Team:     faction.Player,
			Level:    1,
			Stats:    stats,
			Tile:     tile(2, 2),
			Behavior: Behavior{Targeting: FixedTarget{Tile: tile(2, 6)}},
		}),
	)
	ts.RunBeats(1)
	a := ts.MustActor("A1")
	if a.BeatCounter != 1 {
		t.Fatalf("expected counter 1 after one beat, got %d", a.BeatCounter)
	}

	ts.Sim.Res.TryReserve(tile(2, 6), ghost)
	ts.Sim.Res.Release(tile(2, 6), ghost)
	if a.BeatCounter != a.MovementDelay() {
		t.Fatalf("release of the destination should arm the step, counter=%d", a.BeatCounter)
	}

	ts.RunBeats(1)
	if a.Tile() != tile(2, 3) {
		t.Fatalf("expected an immediate step on the next beat, got %v", a.Tile())
	}
	if !ts.SimLog.HasEntry("move", "destination_freed", "(2,6)") {
		t.Fatal("expected a destination_freed trace")
	}
}

// --- Scenario: Spawn ---

func TestScenario_SpawnWaitsForFreeTile(t *testing.T) {
	ts := NewTestSim(
		WithStrictInvariants(),
		WithGridSize(2, 1),
		idleUnit("A1", faction.Player, 0, 0),
		idleUnit("A2", faction.Player, 1, 0),
		idleUnit("A3", faction.Player, 0, 0),
	)
	a3 := ts.MustActor("A3")
	if !a3.Spawning() || a3.Attached() {
		t.Fatal("A3 should be waiting for a tile")
	}
	ts.RunBeats(2)
	if !a3.Spawning() {
		t.Fatal("A3 attached to a full grid")
	}
	checkConsistent(t, ts)

	ts.Sim.Kill(ts.Handle("A1"), ghost)
	ts.RunBeats(1)
	if a3.Spawning() || a3.Tile() != tile(0, 0) {
		t.Fatalf("expected A3 to take (0,0), got spawning=%v tile=%v", a3.Spawning(), a3.Tile())
	}
	if e, ok := ts.SimLog.LastOf("event", "unit_spawned"); !ok || e.Actor != "A3" || e.Beat != 3 {
		t.Fatalf("expected A3's spawn event on beat 3, got %+v", e)
	}
	checkNoErrors(t, ts)
}

// --- Scenario: Missing Collaborator ---

func TestScenario_MissingExecutorDisablesActor(t *testing.T) {
	ts := NewTestSim(
		WithStrictInvariants(),
		WithoutExecutors(),
		WithAlly("A1", 2, 2, tile(2, 6)),
		WithAlly("A2", 5, 5, tile(5, 5)),
	)
	ts.RunBeats(3)

	a := ts.MustActor("A1")
	if !a.Disabled() {
		t.Fatal("actor without a movement executor should disable itself")
	}
	if a.Tile() != tile(2, 2) || !ts.Sim.Res.IsReservedBy(tile(2, 2), a.ID) {
		t.Fatal("disabled actor should keep its tile")
	}
	if ts.Sim.Res.IsReserved(tile(2, 3)) {
		t.Fatal("failed step left its destination reserved")
	}
	if ts.MustActor("A2").Disabled() {
		t.Fatal("an actor that never needed an executor was disabled")
	}
	checkNoErrors(t, ts)
}

// --- Scenario: Boss ---

func TestScenario_BossStunAndRecovery(t *testing.T) {
	t.Log("=== TestScenario_BossStunAndRecovery ===")
	t.Log("--- Setup: boss at (6,6) heading for (6,10), ally far away ---")

	ts := NewTestSim(
		WithStrictInvariants(),
		idleUnit("A1", faction.Player, 0, 0),
		WithBoss("B", 6, 6, tile(6, 10)),
	)
	ally, boss := ts.MustActor("A1"), ts.MustActor("B")
	if n := ts.Sim.Res.Len(); n != 8 {
		t.Fatalf("expected 7 footprint tiles plus 1, got %d reservations", n)
	}

	for i := 0; i < 9; i++ {
		ts.Sim.hitUnit(ally, boss, 50)
	}
	if boss.Stunned() || boss.Hits() != 9 {
		t.Fatalf("expected 9 hits counted without stun, got hits=%d stunned=%v", boss.Hits(), boss.Stunned())
	}
	ts.Sim.hitUnit(ally, boss, 50)
	if !boss.Stunned() || boss.StunBeats() != 8 {
		t.Fatalf("expected an 8 beat stun on the 10th hit, got %d", boss.StunBeats())
	}
	if boss.Health != 1000 {
		t.Fatalf("ordinary hits must not wound the boss, health=%d", boss.Health)
	}

	ts.RunBeats(8)
	if boss.Stunned() {
		t.Fatalf("boss still stunned after 8 beats: %d left", boss.StunBeats())
	}
	if boss.Tile() != tile(6, 6) {
		t.Fatalf("stunned boss moved to %v", boss.Tile())
	}

	ts.RunBeats(4)
	if boss.Tile() == tile(6, 6) {
		dumpLog(t, ts)
		t.Fatal("boss should resume stepping after the stun")
	}
	if !ts.SimLog.HasEntry("boss", "stomp", "") {
		t.Fatal("expected a stomp before the step")
	}
	checkNoErrors(t, ts)
}

func TestScenario_BossDeathReleasesFootprint(t *testing.T) {
	ts := NewTestSim(
		WithStrictInvariants(),
		idleUnit("A1", faction.Player, 0, 0),
		WithBoss("B", 6, 6, tile(6, 10)),
	)
	b := ts.Handle("B")
	if got := ts.Sim.TakePercentageDamage(b, 25); got != 250 {
		t.Fatalf("expected 250 damage from 25%%, got %d", got)
	}
	ts.Sim.TakePercentageDamage(b, 100)
	if _, ok := ts.Actor("B"); ok {
		t.Fatal("boss should be dead")
	}
	if n := ts.Sim.Res.Len(); n != 1 {
		t.Fatalf("boss footprint not released, %d reservations left", n)
	}
	checkConsistent(t, ts)
}

func TestScenario_EnvironmentalHitOnlyStunsBoss(t *testing.T) {
	ts := NewTestSim(
		WithStrictInvariants(),
		idleUnit("A1", faction.Player, 0, 0),
		WithBoss("B", 6, 6, tile(6, 10)),
	)
	ally, boss := ts.MustActor("A1"), ts.MustActor("B")

	dmg, ok := ts.Sim.EnvironmentalHit(boss.ID, 200)
	if !ok || dmg != 0 {
		t.Fatalf("expected a counted hit with no damage, got dmg=%d ok=%v", dmg, ok)
	}
	if boss.Health != 1000 || boss.Hits() != 1 {
		t.Fatalf("trap wounded the boss: health=%d hits=%d", boss.Health, boss.Hits())
	}
	for i := 0; i < 9; i++ {
		ts.Sim.EnvironmentalHit(boss.ID, 200)
	}
	if !boss.Stunned() {
		t.Fatalf("expected the 10th hazard hit to stun, hits=%d", boss.Hits())
	}

	before := ally.Health
	if dmg, _ := ts.Sim.EnvironmentalHit(ally.ID, 20); dmg <= 0 || ally.Health != before-dmg {
		t.Fatalf("ordinary units still take hazard damage: dmg=%d health %d -> %d", dmg, before, ally.Health)
	}
	checkConsistent(t, ts)
}

func TestScenario_PlayerCaptureWoundsBoss(t *testing.T) {
	ts := NewTestSim(
		WithStrictInvariants(),
		WithBuilding(capture.Spec{
			Name:              "shrine",
			Team:              faction.Neutral,
			Tile:              tile(2, 2),
			Health:            100,
			Capturable:        true,
			BeatsToCapture:    2,
			BossDamagePercent: 10,
		}),
		holder("A1", faction.Player, 2, 3),
		WithBoss("B", 8, 6, tile(8, 9)),
	)
	shrine, _ := ts.Sim.Buildings.AtTile(tile(2, 2))
	beat := ts.RunUntil(func(*TestSim) bool { return shrine.Team == faction.Player }, 10)
	if beat != 3 {
		t.Fatalf("expected capture on beat 3, got %d", beat)
	}
	if got := ts.MustActor("B").Health; got != 900 {
		t.Fatalf("expected the boss at 900 after a 10%% capture, got %d", got)
	}
	checkNoErrors(t, ts)
}

func TestScenario_BossIgnoresCommands(t *testing.T) {
	ts := NewTestSim(WithBoss("B", 6, 6, tile(6, 10)))
	if ts.Sim.SetTarget(ts.Handle("B"), tile(0, 0)) {
		t.Fatal("boss accepted a player command")
	}
}
