package game

import (
	"fmt"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// TestSim is a headless harness around Sim used by tests and the batch
// report. It plays the presentation layer: every animation finishes
// instantly at the end of the beat that started it.
type TestSim struct {
	Cols   int
	Rows   int
	Config SimConfig
	Sim    *Sim
	SimLog *SimLog
	Errors []error

	terrain   []terrainPatch
	buildings []capture.Spec
	spawns    []SpawnSpec
	labels    map[string]arena.Handle

	manual     bool
	noExecutor bool
	logger     Logger
	metrics    Metrics

	Reporter *SimReporter
	report   bool

	Moves   int
	Attacks int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // grid size, seed and tuning; applied first
	simOptTerrain                      // blocked tiles and buildings, once the grid exists
	simOptActor                        // spawns, applied last
)

type terrainPatch struct {
	kind  hexgrid.TileKind
	tiles []hexgrid.TilePos
}

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithGridSize sets the battlefield dimensions.
func WithGridSize(cols, rows int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Cols = cols
		ts.Rows = rows
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.Seed = seed
	}}
}

// WithVerbose enables per-beat verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithConfig replaces the simulation tuning.
func WithConfig(cfg SimConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config = cfg
	}}
}

// WithStrictInvariants makes invariant violations fail the beat.
func WithStrictInvariants() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.StrictInvariants = true
	}}
}

// WithManualCompletion leaves pending actions for the test to complete.
func WithManualCompletion() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.manual = true
	}}
}

// WithoutExecutors leaves the presentation callbacks unwired.
func WithoutExecutors() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.noExecutor = true
	}}
}

// WithSimLogger routes operational logs to l.
func WithSimLogger(l Logger) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.logger = l
	}}
}

// WithSimMetrics routes counters to m.
func WithSimMetrics(m Metrics) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.metrics = m
	}}
}

// WithReporter collects a SimReport after every beat.
func WithReporter() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.report = true
	}}
}

// WithBlocked turns tiles into impassable terrain.
func WithBlocked(tiles ...hexgrid.TilePos) SimOption {
	return WithTerrain(hexgrid.TileMountain, tiles...)
}

// WithTerrain sets the terrain kind of tiles.
func WithTerrain(kind hexgrid.TileKind, tiles ...hexgrid.TilePos) SimOption {
	return SimOption{simOptTerrain, func(ts *TestSim) {
		ts.terrain = append(ts.terrain, terrainPatch{kind: kind, tiles: tiles})
	}}
}

// WithBuilding places a building.
func WithBuilding(spec capture.Spec) SimOption {
	return SimOption{simOptTerrain, func(ts *TestSim) {
		ts.buildings = append(ts.buildings, spec)
	}}
}

// WithCapturable places a neutral capturable building.
func WithCapturable(name string, col, row int) SimOption {
	return WithBuilding(capture.Spec{
		Name:       name,
		Team:       faction.Neutral,
		Tile:       hexgrid.TilePos{Col: col, Row: row},
		Health:     100,
		Capturable: true,
	})
}

// WithActor spawns an actor from a full spec.
func WithActor(spec SpawnSpec) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, spec)
	}}
}

// WithAlly spawns a player unit at (col,row) heading for target. Allies
// capture adjacent buildings.
func WithAlly(label string, col, row int, target hexgrid.TilePos) SimOption {
	return WithActor(SpawnSpec{
		Label: label,
		Team:  faction.Player,
		Level: 1,
		Stats: combat.DefaultStats(),
		Tile:  hexgrid.TilePos{Col: col, Row: row},
		Behavior: Behavior{
			Targeting: FixedTarget{Tile: target},
			Capture:   CaptureNearby{},
		},
	})
}

// WithEnemy spawns an enemy unit at (col,row) that seeks player units and
// buildings.
func WithEnemy(label string, col, row int) SimOption {
	return WithActor(SpawnSpec{
		Label: label,
		Team:  faction.Enemy,
		Level: 1,
		Stats: combat.DefaultStats(),
		Tile:  hexgrid.TilePos{Col: col, Row: row},
		Behavior: Behavior{
			Targeting: SeekTarget{},
			Capture:   CaptureNearby{},
		},
	})
}

// WithBoss spawns the boss at (col,row) heading for dest.
func WithBoss(label string, col, row int, dest hexgrid.TilePos) SimOption {
	return SimOption{simOptActor, func(ts *TestSim) {
		stats := combat.DefaultStats()
		stats.MaxHealth = 1000
		stats.Attack = 30
		stats.MovementDelay = 4
		stats.Type = combat.UnitBoss
		ts.spawns = append(ts.spawns, SpawnSpec{
			Label:    label,
			Team:     faction.Enemy,
			Level:    5,
			Stats:    stats,
			Tile:     hexgrid.TilePos{Col: col, Row: row},
			Behavior: NewBoss(ts.Config, dest),
		})
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (grid size, seed, tuning, verbose)
//  2. Build the Sim
//  3. Terrain and buildings
//  4. Actors
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Cols:   12,
		Rows:   12,
		Config: DefaultSimConfig(),
		SimLog: NewSimLog(false),
		labels: map[string]arena.Handle{},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	simOpts := []Option{WithTracer(ts.SimLog), WithLogger(ts.logger), WithMetrics(ts.metrics)}
	if !ts.noExecutor {
		simOpts = append(simOpts, WithExecutors(ts, ts))
	}
	ts.Sim = NewSim(ts.Cols, ts.Rows, ts.Config, simOpts...)
	ts.Sim.Bus.SubscribeAll(arena.Nil, ts.recordEvent)
	if ts.report {
		ts.Reporter = NewSimReporter(0)
		ts.Reporter.Attach(ts.Sim)
	}

	for _, o := range opts {
		if o.kind == simOptTerrain {
			o.fn(ts)
		}
	}
	for _, patch := range ts.terrain {
		for _, p := range patch.tiles {
			ts.Sim.Grid.SetKind(p, patch.kind)
		}
	}
	for _, b := range ts.buildings {
		if _, err := ts.Sim.AddBuilding(b); err != nil {
			ts.Errors = append(ts.Errors, err)
		}
	}

	for _, o := range opts {
		if o.kind == simOptActor {
			o.fn(ts)
		}
	}
	for _, spec := range ts.spawns {
		a := ts.Sim.Spawn(spec)
		ts.labels[a.Label] = a.ID
	}
	return ts
}

// Move implements MovementExecutor.
func (ts *TestSim) Move(actor arena.Handle, from, to hexgrid.TilePos, _ float64) {
	ts.Moves++
	if a, ok := ts.Sim.Actor(actor); ok {
		ts.SimLog.AddVerbose(ts.Sim.CurrentBeat(), a.Label, a.Team.String(), "exec", "move",
			fmt.Sprintf("%s → %s", from, to), 0)
	}
}

// Perform implements AttackExecutor.
func (ts *TestSim) Perform(attacker, _ arena.Handle, damage int, _ float64) {
	ts.Attacks++
	if a, ok := ts.Sim.Actor(attacker); ok {
		ts.SimLog.AddVerbose(ts.Sim.CurrentBeat(), a.Label, a.Team.String(), "exec", "attack",
			fmt.Sprintf("%d", damage), float64(damage))
	}
}

func (ts *TestSim) recordEvent(e events.Event) {
	label := "--"
	if a, ok := ts.Sim.Actor(e.Actor); ok {
		label = a.Label
	}
	ts.SimLog.Add(e.Beat, label, e.Team.String(), "event", string(e.Type),
		fmt.Sprintf("%s dmg=%d", e.Tile, e.Damage), float64(e.Damage))
}

// Actor returns a live actor by label.
func (ts *TestSim) Actor(label string) (*Actor, bool) {
	h, ok := ts.labels[label]
	if !ok {
		return nil, false
	}
	return ts.Sim.Actor(h)
}

// MustActor is Actor for labels the test knows are alive.
func (ts *TestSim) MustActor(label string) *Actor {
	a, ok := ts.Actor(label)
	if !ok {
		panic(fmt.Sprintf("actor %q not alive", label))
	}
	return a
}

// Handle returns the handle issued to label, alive or not.
func (ts *TestSim) Handle(label string) arena.Handle {
	return ts.labels[label]
}

// Spawn adds an actor mid-run.
func (ts *TestSim) Spawn(spec SpawnSpec) *Actor {
	a := ts.Sim.Spawn(spec)
	ts.labels[a.Label] = a.ID
	return a
}

// AllByTeam returns live actors on a team's side.
func (ts *TestSim) AllByTeam(team faction.Team) []*Actor {
	var out []*Actor
	for _, a := range ts.Sim.Actors() {
		if a.Team.Side() == team.Side() {
			out = append(out, a)
		}
	}
	return out
}

// RunBeats advances the simulation n beats.
func (ts *TestSim) RunBeats(n int) {
	for i := 0; i < n; i++ {
		ts.runOneBeat()
	}
}

// RunUntil advances the simulation up to maxBeats, stopping early if predicate
// returns true. Returns the beat at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxBeats int) int64 {
	for i := 0; i < maxBeats; i++ {
		ts.runOneBeat()
		if predicate(ts) {
			return ts.Sim.CurrentBeat()
		}
	}
	return -1
}

// runOneBeat mirrors the viewer's Update for the headless harness.
func (ts *TestSim) runOneBeat() {
	if err := ts.Sim.Beat(); err != nil {
		ts.Errors = append(ts.Errors, err)
	}
	beat := ts.Sim.CurrentBeat()
	if !ts.manual {
		ts.Sim.CompleteAllPending()
	}
	if ts.Reporter != nil {
		ts.Reporter.Collect(ts.Sim)
	}
	for _, a := range ts.Sim.Actors() {
		tStr := a.Team.String()
		ts.SimLog.AddVerbose(beat, a.Label, tStr, "move", "position", a.tile.String(), 0)
		ts.SimLog.AddVerbose(beat, a.Label, tStr, "stats", "health",
			fmt.Sprintf("%d/%d", a.Health, a.Stats.MaxHealth), float64(a.Health))
	}
}

// CurrentBeat returns the current simulation beat.
func (ts *TestSim) CurrentBeat() int64 {
	return ts.Sim.CurrentBeat()
}

// SimSnapshot is a lightweight state summary.
type SimSnapshot struct {
	Beat   int64
	Actors []ActorSnapshot
}

// ActorSnapshot is a lightweight copy of an actor's state at a beat.
type ActorSnapshot struct {
	Label   string
	Team    faction.Team
	Tile    hexgrid.TilePos
	State   ActorState
	Health  int
	Pending PendingKind
}

// Snapshot returns the current state of all actors.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Beat: ts.Sim.CurrentBeat()}
	for _, a := range ts.Sim.Actors() {
		snap.Actors = append(snap.Actors, ActorSnapshot{
			Label:   a.Label,
			Team:    a.Team,
			Tile:    a.tile,
			State:   a.State,
			Health:  a.Health,
			Pending: a.Pending.Kind,
		})
	}
	return snap
}
