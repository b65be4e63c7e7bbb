package game

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
	"github.com/Garsondee/hex-cadence/internal/reservation"
)

// SimConfig holds the tunables of a simulation.
type SimConfig struct {
	Seed             int64
	BPM              float64
	StuckThreshold   int
	StrictInvariants bool
	MoveDuration     float64 // seconds handed to the movement executor
	AttackDuration   float64
	BeatsToCapture   int
	HitsToStun       int
	StunBeats        int
	BuffMultiplier   float64
	BuffDuration     float64
	SpawnRadius      int
}

// DefaultSimConfig returns the stock tuning.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Seed:           42,
		BPM:            DefaultBPM,
		StuckThreshold: 3,
		MoveDuration:   0.45,
		AttackDuration: 0.5,
		BeatsToCapture: capture.DefaultBeatsToCapture,
		HitsToStun:     10,
		StunBeats:      8,
		BuffMultiplier: combat.DefaultBuffMultiplier,
		BuffDuration:   combat.DefaultBuffDuration,
		SpawnRadius:    4,
	}
}

// MovementExecutor animates a step. The simulation waits for
// Sim.CompletePending before committing it.
type MovementExecutor interface {
	Move(actor arena.Handle, from, to hexgrid.TilePos, duration float64)
}

// AttackExecutor animates an attack. target is arena.Nil for area attacks.
type AttackExecutor interface {
	Perform(attacker, target arena.Handle, damage int, duration float64)
}

// Tracer receives per-actor narrative as the simulation runs.
type Tracer interface {
	Trace(beat int64, a *Actor, category, key, value string, num float64)
}

// Option configures a Sim.
type Option func(*Sim)

// WithLogger sets the operational logger.
func WithLogger(l Logger) Option {
	return func(s *Sim) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Sim) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithExecutors wires the presentation callbacks. Either may be nil, in which
// case actors that need it disable themselves.
func WithExecutors(m MovementExecutor, a AttackExecutor) Option {
	return func(s *Sim) {
		s.moveExec = m
		s.attackExec = a
	}
}

// WithTracer attaches a narrative sink.
func WithTracer(t Tracer) Option {
	return func(s *Sim) {
		s.tracer = t
	}
}

// Sim is the simulation context: grid, reservations, buildings, actors and
// the beat that drives them. It is single-threaded.
type Sim struct {
	cfg        SimConfig
	Grid       *hexgrid.Grid
	Res        *reservation.Registry
	Buildings  *capture.Coordinator
	Bus        *events.Bus
	Dispatcher *BeatDispatcher
	Clock      *RhythmClock

	actors *arena.Arena[*Actor]
	order  []arena.Handle // spawn order, pruned lazily

	rng        *rand.Rand
	log        Logger
	metrics    Metrics
	tracer     Tracer
	moveExec   MovementExecutor
	attackExec AttackExecutor

	beat    int64
	spawned int
}

// NewSim creates a cols x rows battlefield.
func NewSim(cols, rows int, cfg SimConfig, opts ...Option) *Sim {
	def := DefaultSimConfig()
	if cfg.StuckThreshold <= 0 {
		cfg.StuckThreshold = def.StuckThreshold
	}
	if cfg.BeatsToCapture <= 0 {
		cfg.BeatsToCapture = def.BeatsToCapture
	}
	if cfg.HitsToStun <= 0 {
		cfg.HitsToStun = def.HitsToStun
	}
	if cfg.StunBeats <= 0 {
		cfg.StunBeats = def.StunBeats
	}
	if cfg.SpawnRadius <= 0 {
		cfg.SpawnRadius = def.SpawnRadius
	}
	if cfg.BuffMultiplier <= 0 {
		cfg.BuffMultiplier = def.BuffMultiplier
	}
	if cfg.BuffDuration <= 0 {
		cfg.BuffDuration = def.BuffDuration
	}

	s := &Sim{
		cfg:        cfg,
		Grid:       hexgrid.NewGrid(cols, rows),
		Bus:        events.NewBus(),
		Dispatcher: &BeatDispatcher{},
		Clock:      NewRhythmClock(cfg.BPM),
		actors:     arena.New[*Actor](),
		rng:        rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- deterministic gameplay RNG
		log:        nopLogger{},
		metrics:    nopMetrics{},
	}
	for _, o := range opts {
		o(s)
	}
	s.Res = reservation.New(s.metrics)
	s.Res.AddObserver(s.onReservationChanged)
	s.Buildings = capture.NewCoordinator(s.Grid, cfg.BeatsToCapture)
	s.Dispatcher.Register(arena.Nil, func(float64) { s.captureBeat() })
	return s
}

// Config returns the tuning the simulation runs with.
func (s *Sim) Config() SimConfig { return s.cfg }

// CurrentBeat is the number of beats processed.
func (s *Sim) CurrentBeat() int64 { return s.beat }

// Logger returns the operational logger.
func (s *Sim) Logger() Logger { return s.log }

// Actor resolves a handle. Dead actors do not resolve.
func (s *Sim) Actor(h arena.Handle) (*Actor, bool) {
	return s.actors.Get(h)
}

// Actors returns live actors in spawn order.
func (s *Sim) Actors() []*Actor {
	out := make([]*Actor, 0, s.actors.Len())
	live := s.order[:0]
	for _, h := range s.order {
		if a, ok := s.actors.Get(h); ok {
			out = append(out, a)
			live = append(live, h)
		}
	}
	s.order = live
	return out
}

// ActorAt returns the unit standing on p.
func (s *Sim) ActorAt(p hexgrid.TilePos) (*Actor, bool) {
	t := s.Grid.TileAt(p)
	if t == nil || t.Unit.IsNil() {
		return nil, false
	}
	return s.actors.Get(t.Unit)
}

// CountAlive returns live actors on a team's side.
func (s *Sim) CountAlive(side faction.Team) int {
	n := 0
	for _, a := range s.Actors() {
		if a.Team.Side() == side {
			n++
		}
	}
	return n
}

// SpawnSpec describes an actor to create.
type SpawnSpec struct {
	Label    string
	Team     faction.Team
	Level    int
	Stats    combat.Stats
	Tile     hexgrid.TilePos
	Behavior Behavior
}

// Spawn creates an actor and attaches it to the nearest free tile around
// spec.Tile. When nothing is free the actor stays Spawning and retries every
// beat.
func (s *Sim) Spawn(spec SpawnSpec) *Actor {
	s.spawned++
	label := spec.Label
	if label == "" {
		label = fmt.Sprintf("U%d", s.spawned)
	}
	stats := spec.Stats
	if stats == (combat.Stats{}) {
		stats = combat.DefaultStats()
	}
	stats = stats.Normalize()
	a := &Actor{
		Label:    label,
		Team:     spec.Team,
		Level:    max(1, spec.Level),
		Health:   stats.MaxHealth,
		Stats:    stats,
		spawning: true,
		spawnAt:  spec.Tile,
		behavior: spec.Behavior.withDefaults(),
	}
	a.ID = s.actors.Insert(a)
	s.order = append(s.order, a.ID)
	id := a.ID
	s.Dispatcher.Register(id, func(dt float64) {
		if act, ok := s.actors.Get(id); ok {
			s.actorBeat(act, dt)
		}
	})
	s.trySpawnAttach(a)
	return a
}

// trySpawnAttach places a spawning actor on the first tile around its spawn
// point where its whole footprint fits.
func (s *Sim) trySpawnAttach(a *Actor) bool {
	for _, p := range s.Grid.TilesWithinRange(a.spawnAt, s.cfg.SpawnRadius) {
		fp, ok := s.footprintFree(a, p)
		if !ok {
			continue
		}
		for _, q := range fp {
			s.Res.TryReserve(q, a.ID)
		}
		s.Grid.PlaceUnit(p, a.ID)
		a.tile, a.reserved = p, p
		a.attached = true
		a.spawning = false
		s.trace(a, "spawn", "attached", p.String(), 0)
		s.Bus.Publish(events.Event{Type: events.UnitSpawned, Beat: s.beat, Actor: a.ID, Team: a.Team, Tile: p})
		return true
	}
	s.trace(a, "spawn", "waiting", a.spawnAt.String(), 0)
	return false
}

// footprintFree reports whether a may stand centred on p and returns the
// tiles it would claim there.
func (s *Sim) footprintFree(a *Actor, p hexgrid.TilePos) ([]hexgrid.TilePos, bool) {
	t := s.Grid.TileAt(p)
	if t == nil || (t.IsOccupied() && t.Unit != a.ID) || s.Res.IsReservedByOther(p, a.ID) {
		return nil, false
	}
	fp := a.behavior.Movement.Footprint(s.Grid, p)
	if len(fp) == 0 {
		return nil, false
	}
	for _, q := range fp {
		if s.Res.IsReservedByOther(q, a.ID) {
			return nil, false
		}
		if qt := s.Grid.TileAt(q); qt != nil && !qt.Unit.IsNil() && qt.Unit != a.ID {
			return nil, false
		}
	}
	return fp, true
}

// Kill destroys an actor: reservations, tile, capture contribution, buffs
// and beat registrations all go. killer may be arena.Nil.
func (s *Sim) Kill(h, killer arena.Handle) bool {
	a, ok := s.actors.Get(h)
	if !ok {
		return false
	}
	a.Health = min(a.Health, 0)
	tile := a.tile
	freed := s.Res.ReleaseAll(h)
	if a.attached {
		s.Grid.RemoveUnit(a.tile, h)
		a.attached = false
	}
	s.stopCapture(a)
	s.Buildings.Withdraw(h)
	a.Buffs.Clear()
	a.Pending = PendingAction{}
	s.actors.Remove(h)
	s.Dispatcher.Prune(h)
	s.Bus.PruneOwner(h)

	if k, ok := s.actors.Get(killer); ok {
		k.Kills++
	}
	s.metrics.UnitKilled()
	s.trace(a, "life", "killed", fmt.Sprintf("freed %d tiles", len(freed)), float64(len(freed)))
	s.log.Info("unit killed", "beat", s.beat, "unit", a.Label, "team", a.Team.String(), "tile", tile.String())
	s.Bus.Publish(events.Event{Type: events.UnitKilled, Beat: s.beat, Actor: killer, Target: h, Team: a.Team, Tile: tile, Label: a.Label})
	return true
}

// Beat runs one beat: every building capture session, then every actor in
// spawn order, then the invariant check.
func (s *Sim) Beat() error {
	s.beat++
	s.Dispatcher.Dispatch(s.Clock.Interval())
	s.metrics.BeatProcessed()
	return s.enforceInvariants()
}

// Advance feeds dt seconds to the rhythm clock and runs the beats that fell
// due. Returns the number run.
func (s *Sim) Advance(dt float64) (int, error) {
	n := s.Clock.Advance(dt)
	for i := 0; i < n; i++ {
		if err := s.Beat(); err != nil {
			return i + 1, err
		}
	}
	return n, nil
}

// CompletePending finishes the actor's in-flight action. The presentation
// layer calls it when the matching animation ends.
func (s *Sim) CompletePending(h arena.Handle) error {
	a, ok := s.actors.Get(h)
	if !ok {
		return nil
	}
	p := a.Pending
	a.Pending = PendingAction{}
	switch p.Kind {
	case PendingStepCommit:
		s.commitStep(a, p)
	case PendingAttackAnimation:
		return s.resolveAttack(a, p)
	}
	return nil
}

// CompleteAllPending finishes every in-flight action in spawn order.
func (s *Sim) CompleteAllPending() {
	for _, a := range s.Actors() {
		if a.Pending.Kind == PendingNone {
			continue
		}
		if err := s.CompletePending(a.ID); err != nil {
			s.log.Debug("pending action aborted", "beat", s.beat, "unit", a.Label, "err", err)
		}
	}
}

// SetTarget gives an actor a player command: head for tile. The boss ignores
// commands.
func (s *Sim) SetTarget(h arena.Handle, tile hexgrid.TilePos) bool {
	a, ok := s.actors.Get(h)
	if !ok || a.IsBoss() {
		return false
	}
	a.behavior.Targeting = FixedTarget{Tile: tile}
	a.BeatCounter = a.MovementDelay()
	return true
}

// ApplyBuff adds a timed stat multiplier to one actor.
func (s *Sim) ApplyBuff(h arena.Handle, stat combat.Stat, mult, duration float64) bool {
	a, ok := s.actors.Get(h)
	if !ok {
		return false
	}
	if !a.Buffs.Apply(stat, mult, duration) {
		return false
	}
	s.trace(a, "buff", "applied", fmt.Sprintf("%s x%.2f for %.1fs", stat, mult, duration), mult)
	return true
}

// ApplyGlobalBuff buffs every actor on team's side with the configured
// multiplier and duration. Returns the number buffed.
func (s *Sim) ApplyGlobalBuff(team faction.Team, stat combat.Stat) int {
	n := 0
	for _, a := range s.Actors() {
		if a.Team.Side() != team.Side() {
			continue
		}
		if s.ApplyBuff(a.ID, stat, s.cfg.BuffMultiplier, s.cfg.BuffDuration) {
			n++
		}
	}
	return n
}

// disable switches an actor off after a wiring failure.
func (s *Sim) disable(a *Actor, err error) {
	if a.disabled {
		return
	}
	a.disabled = true
	s.log.Error("actor disabled", "beat", s.beat, "unit", a.Label, "err", err)
	s.trace(a, "life", "disabled", err.Error(), 0)
}

func (s *Sim) trace(a *Actor, category, key, value string, num float64) {
	if s.tracer != nil {
		s.tracer.Trace(s.beat, a, category, key, value, num)
	}
}
