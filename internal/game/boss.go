package game

import (
	"fmt"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// BossPolicy is the siege behaviour of the boss: it walks a footprint toward
// a hardcoded destination, stomps the area around it once per step cycle and
// demolishes what it finds on arrival. Ordinary hits only build up a stun.
type BossPolicy struct {
	HitsToStun int
	StunBeats  int
	StompRange int // tiles around the centre hit by a stomp
	WindUp     int // beats before a step at which the stomp lands
}

// NewBoss builds the behaviour of a boss heading for dest.
func NewBoss(cfg SimConfig, dest hexgrid.TilePos) Behavior {
	return Behavior{
		Targeting: HardcodedDestination{Tile: dest},
		Movement:  FootprintMovement{Radius: 1},
		Capture:   NoCapture{},
		Boss: &BossPolicy{
			HitsToStun: cfg.HitsToStun,
			StunBeats:  cfg.StunBeats,
			StompRange: 2,
			WindUp:     2,
		},
	}
}

// bossBeat replaces the ordinary beat for the boss.
func (s *Sim) bossBeat(a *Actor, bp *BossPolicy) {
	dest, ok := a.behavior.Targeting.Destination(s, a)
	a.dest, a.hasDest = dest, ok
	if !ok {
		return
	}
	delay := a.MovementDelay()
	if a.behavior.Movement.Arrived(a.tile, dest) {
		a.BeatCounter++
		if a.BeatCounter >= delay {
			a.BeatCounter = 0
			s.demolish(a, dest)
		}
		return
	}

	a.BeatCounter++
	switch {
	case bp.WindUp > 0 && a.BeatCounter == delay-bp.WindUp:
		s.startStomp(a)
	case a.BeatCounter >= delay:
		a.BeatCounter = 0
		s.advanceOneStep(a, dest)
	}
}

// bossHit counts an ordinary hit against the boss and stuns it once enough
// land. Returns the health damage dealt, which is always zero.
func (s *Sim) bossHit(a *Actor) int {
	bp := a.behavior.Boss
	if a.stun > 0 {
		return 0
	}
	a.hits++
	s.trace(a, "boss", "hit_counted", fmt.Sprintf("%d/%d", a.hits, bp.HitsToStun), float64(a.hits))
	if a.hits < bp.HitsToStun {
		return 0
	}
	a.hits = 0
	a.stun = bp.StunBeats
	a.BeatCounter = 0
	if a.Pending.Kind == PendingStepCommit {
		s.abortStep(a, a.Pending)
	}
	a.Pending = PendingAction{}
	s.setState(a, StateIdle)
	s.log.Info("boss stunned", "beat", s.beat, "unit", a.Label, "beats", bp.StunBeats)
	s.trace(a, "boss", "stunned", fmt.Sprintf("%d beats", bp.StunBeats), float64(bp.StunBeats))
	s.Bus.Publish(events.Event{Type: events.UnitStunned, Beat: s.beat, Actor: a.ID, Team: a.Team, Tile: a.tile})
	return 0
}

func (s *Sim) startStomp(a *Actor) {
	if s.attackExec == nil {
		s.disable(a, fmt.Errorf("%s: attack executor: %w", a.Label, ErrMissingCollaborator))
		return
	}
	s.setState(a, StateAttacking)
	atk := a.Effective(combat.StatAttack)
	a.Pending = PendingAction{Kind: PendingAttackAnimation, Area: true, Damage: atk, Duration: s.cfg.AttackDuration}
	s.trace(a, "boss", "stomp", "", float64(atk))
	s.attackExec.Perform(a.ID, arena.Nil, atk, s.cfg.AttackDuration)
}

// resolveStomp damages every hostile unit within the stomp range.
func (s *Sim) resolveStomp(a *Actor, raw int) {
	if !a.attached {
		return
	}
	var victims []*Actor
	for _, p := range s.Grid.TilesWithinRange(a.tile, a.behavior.Boss.StompRange) {
		if v, ok := s.ActorAt(p); ok && v.ID != a.ID && faction.CanAttackUnit(a.Team, v.Team) {
			victims = append(victims, v)
		}
	}
	for _, v := range victims {
		dmg := combat.ResolveDamage(a.Level, v.Level, raw, v.Effective(combat.StatDefense))
		s.hitUnit(a, v, dmg)
	}
}

// demolish destroys the building at the boss's destination.
func (s *Sim) demolish(a *Actor, dest hexgrid.TilePos) {
	b, ok := s.Buildings.AtTile(dest)
	if !ok {
		return
	}
	s.trace(a, "boss", "demolish", b.Name, 0)
	s.destroyBuilding(b, a.ID)
	s.Bus.Publish(events.Event{Type: events.ObjectiveCompleted, Beat: s.beat, Actor: a.ID, Building: b.ID, Team: a.Team, Tile: dest})
}
