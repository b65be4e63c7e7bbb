package game

import (
	"fmt"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// ActorState is the action an actor is committed to. The four states are
// mutually exclusive.
type ActorState int

const (
	StateIdle ActorState = iota
	StateMoving
	StateAttacking
	StateCapturing
)

func (s ActorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateAttacking:
		return "attacking"
	case StateCapturing:
		return "capturing"
	default:
		return "unknown"
	}
}

// PendingKind tags the action an actor is waiting on the presentation layer
// to finish.
type PendingKind int

const (
	PendingNone PendingKind = iota
	PendingStepCommit
	PendingAttackAnimation
	PendingCaptureTick
)

func (k PendingKind) String() string {
	switch k {
	case PendingNone:
		return "none"
	case PendingStepCommit:
		return "step_commit"
	case PendingAttackAnimation:
		return "attack_animation"
	case PendingCaptureTick:
		return "capture_tick"
	default:
		return "unknown"
	}
}

// PendingAction is an action started on a beat and finished by
// Sim.CompletePending once its animation is done.
type PendingAction struct {
	Kind     PendingKind
	From     hexgrid.TilePos
	Dest     hexgrid.TilePos
	Target   arena.Handle // unit target of an attack
	Building arena.Handle // building target of an attack or capture tick
	Area     bool         // boss stomp: every hostile unit around the attacker
	Damage   int          // resolved unit damage, or raw strength against a building
	Duration float64
}

// Actor is a mobile unit on the grid. Behaviour differences between allies,
// enemies and the boss live entirely in its Behavior.
type Actor struct {
	ID     arena.Handle
	Label  string
	Team   faction.Team
	Level  int
	Health int
	Stats  combat.Stats // base stats before buffs

	State             ActorState
	BeatCounter       int
	AttackBeatCounter int
	Pending           PendingAction
	Buffs             combat.BuffSet

	tile        hexgrid.TilePos // occupied tile; origin while a step is pending
	attached    bool
	reserved    hexgrid.TilePos
	spawning    bool
	spawnAt     hexgrid.TilePos
	disabled    bool
	interacting bool
	stuck       int

	dest    hexgrid.TilePos
	hasDest bool

	stun int
	hits int

	captureTarget  arena.Handle
	targetUnit     arena.Handle
	targetBuilding arena.Handle

	behavior Behavior

	Kills       int
	DamageDealt int
	DamageTaken int
	Captures    int
}

// Tile returns the tile the actor stands on. While a step is pending this is
// the origin of the step.
func (a *Actor) Tile() hexgrid.TilePos { return a.tile }

// Attached reports whether the actor currently occupies a grid tile.
func (a *Actor) Attached() bool { return a.attached }

// ReservedTile is the tile the actor's own position reservation points at.
func (a *Actor) ReservedTile() hexgrid.TilePos { return a.reserved }

func (a *Actor) Spawning() bool    { return a.spawning }
func (a *Actor) Disabled() bool    { return a.disabled }
func (a *Actor) Interacting() bool { return a.interacting }
func (a *Actor) Stunned() bool     { return a.stun > 0 }
func (a *Actor) StunBeats() int    { return a.stun }
func (a *Actor) Hits() int         { return a.hits }
func (a *Actor) StuckCount() int   { return a.stuck }
func (a *Actor) Behavior() Behavior {
	return a.behavior
}

// IsBoss reports whether the actor runs the boss policy.
func (a *Actor) IsBoss() bool { return a.behavior.Boss != nil }

// CaptureTarget is the building the actor is capturing, or arena.Nil.
func (a *Actor) CaptureTarget() arena.Handle { return a.captureTarget }

// UnitTarget is the unit the actor last attacked, or arena.Nil.
func (a *Actor) UnitTarget() arena.Handle { return a.targetUnit }

// BuildingTarget is the building the actor last attacked, or arena.Nil.
func (a *Actor) BuildingTarget() arena.Handle { return a.targetBuilding }

// Destination is the tile the actor was heading for on its last beat.
func (a *Actor) Destination() (hexgrid.TilePos, bool) { return a.dest, a.hasDest }

// Alive reports whether the actor still has health.
func (a *Actor) Alive() bool { return a.Health > 0 }

// Effective returns a stat after buffs.
func (a *Actor) Effective(stat combat.Stat) int {
	switch stat {
	case combat.StatAttack:
		return a.Buffs.Effective(stat, a.Stats.Attack)
	case combat.StatDefense:
		return a.Buffs.Effective(stat, a.Stats.Defense)
	default:
		return a.MovementDelay()
	}
}

// MovementDelay is the buffed number of beats between steps.
func (a *Actor) MovementDelay() int {
	return a.Buffs.MovementDelay(a.Stats.MovementDelay)
}

func (a *Actor) String() string {
	return fmt.Sprintf("%s[%s %s @%s]", a.Label, a.Team, a.State, a.tile)
}
