package game

import (
	"fmt"
	"math"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// --- Target search ---

// unitOn returns the live actor standing on p or holding it as part of a
// boss footprint.
func (s *Sim) unitOn(p hexgrid.TilePos) (*Actor, bool) {
	if a, ok := s.ActorAt(p); ok {
		return a, true
	}
	if h, ok := s.Res.Holder(p); ok {
		if a, ok := s.actors.Get(h); ok && a.IsBoss() && a.attached {
			return a, true
		}
	}
	return nil, false
}

// nearestHostileUnit finds the closest unit a may attack within radius
// tiles. Ties keep the first found in breadth-first order.
func (s *Sim) nearestHostileUnit(a *Actor, radius int) (*Actor, bool) {
	var best *Actor
	bestD := math.Inf(1)
	for _, p := range s.Grid.TilesWithinRange(a.tile, radius) {
		v, ok := s.unitOn(p)
		if !ok || v.ID == a.ID || !v.Alive() || !faction.CanAttackUnit(a.Team, v.Team) {
			continue
		}
		if d := hexgrid.DistSq(a.tile, p); d < bestD {
			best, bestD = v, d
		}
	}
	return best, best != nil
}

// nearestHostileBuilding finds the closest building a may attack within
// radius tiles.
func (s *Sim) nearestHostileBuilding(a *Actor, radius int) (*capture.Building, bool) {
	var best *capture.Building
	bestD := math.Inf(1)
	for _, p := range s.Grid.TilesWithinRange(a.tile, radius) {
		b, ok := s.Buildings.AtTile(p)
		if !ok || !faction.CanAttackBuilding(a.Team, b.Team, b.Targetable, b.Capturable) {
			continue
		}
		if d := hexgrid.DistSq(a.tile, p); d < bestD {
			best, bestD = b, d
		}
	}
	return best, best != nil
}

// nearestBuildingGoal is the closest building anywhere on the map that a
// either attacks or captures.
func (s *Sim) nearestBuildingGoal(a *Actor) (*capture.Building, bool) {
	var best *capture.Building
	bestDist := 0
	for _, b := range s.Buildings.All() {
		wanted := faction.CanAttackBuilding(a.Team, b.Team, b.Targetable, b.Capturable)
		if b.Capturable {
			_, never := a.behavior.Capture.(NoCapture)
			wanted = !never && faction.CanCapture(a.Team, b.Team)
		}
		if !wanted {
			continue
		}
		if d := hexgrid.Distance(a.tile, b.Tile); best == nil || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, best != nil
}

// --- Attack scheduling ---

// attackBeat looks for something in range and starts an attack on it.
func (s *Sim) attackBeat(a *Actor) {
	if v, ok := s.nearestHostileUnit(a, a.Stats.AttackRange); ok {
		s.startUnitAttack(a, v)
		return
	}
	if b, ok := s.nearestHostileBuilding(a, a.Stats.AttackRange); ok {
		s.startBuildingAttack(a, b)
		return
	}
	if a.State == StateAttacking {
		s.setState(a, StateIdle)
	}
}

func (s *Sim) startUnitAttack(a, v *Actor) {
	if s.attackExec == nil {
		s.disable(a, fmt.Errorf("%s: attack executor: %w", a.Label, ErrMissingCollaborator))
		return
	}
	s.setState(a, StateAttacking)
	a.targetUnit = v.ID
	a.targetBuilding = arena.Nil
	dmg := combat.ResolveDamage(a.Level, v.Level, a.Effective(combat.StatAttack), v.Effective(combat.StatDefense))
	a.Pending = PendingAction{Kind: PendingAttackAnimation, Target: v.ID, Damage: dmg, Duration: s.cfg.AttackDuration}
	s.trace(a, "combat", "attack", fmt.Sprintf("%s for %d", v.Label, dmg), float64(dmg))
	s.attackExec.Perform(a.ID, v.ID, dmg, s.cfg.AttackDuration)
}

func (s *Sim) startBuildingAttack(a *Actor, b *capture.Building) {
	if s.attackExec == nil {
		s.disable(a, fmt.Errorf("%s: attack executor: %w", a.Label, ErrMissingCollaborator))
		return
	}
	s.setState(a, StateAttacking)
	a.targetBuilding = b.ID
	a.targetUnit = arena.Nil
	raw := a.Effective(combat.StatAttack)
	a.Pending = PendingAction{Kind: PendingAttackAnimation, Building: b.ID, Damage: raw, Duration: s.cfg.AttackDuration}
	s.trace(a, "combat", "attack_building", b.Name, float64(raw))
	s.attackExec.Perform(a.ID, arena.Nil, raw, s.cfg.AttackDuration)
}

// resolveAttack lands a finished attack animation. The target is resolved
// again; one that vanished aborts the attack.
func (s *Sim) resolveAttack(a *Actor, p PendingAction) error {
	defer func() {
		if a.State == StateAttacking {
			s.setState(a, StateIdle)
		}
	}()

	switch {
	case p.Area:
		s.resolveStomp(a, p.Damage)
		return nil
	case !p.Building.IsNil():
		b, ok := s.Buildings.Get(p.Building)
		if !ok {
			s.trace(a, "combat", "stale_target", "building", 0)
			return fmt.Errorf("%s attacking building: %w", a.Label, ErrStaleTarget)
		}
		dmg, destroyed := b.TakeDamage(p.Damage)
		a.DamageDealt += dmg
		s.metrics.AttackResolved(dmg)
		s.Bus.Publish(events.Event{Type: events.BuildingAttacked, Beat: s.beat, Actor: a.ID, Building: b.ID, Team: b.Team, Damage: dmg, Tile: b.Tile})
		if destroyed {
			s.destroyBuilding(b, a.ID)
		}
		return nil
	default:
		v, ok := s.actors.Get(p.Target)
		if !ok || !v.Alive() {
			s.trace(a, "combat", "stale_target", "unit", 0)
			return fmt.Errorf("%s attacking unit: %w", a.Label, ErrStaleTarget)
		}
		s.hitUnit(a, v, p.Damage)
		return nil
	}
}

// hitUnit applies resolved damage to v and kills it at zero health.
func (s *Sim) hitUnit(a, v *Actor, dmg int) {
	applied := dmg
	if v.behavior.Boss != nil {
		applied = s.bossHit(v)
	} else {
		v.Health -= dmg
	}
	v.DamageTaken += applied
	a.DamageDealt += applied
	s.metrics.AttackResolved(applied)
	s.trace(v, "combat", "hit", fmt.Sprintf("by %s for %d", a.Label, applied), float64(applied))
	s.Bus.Publish(events.Event{Type: events.UnitAttacked, Beat: s.beat, Actor: a.ID, Target: v.ID, Team: v.Team, Damage: applied, Tile: v.tile})
	if v.Health <= 0 {
		s.Kill(v.ID, a.ID)
	}
}

// EnvironmentalHit damages an actor from a non-unit source such as a trap or
// a spell. On the boss it only counts toward the stun.
func (s *Sim) EnvironmentalHit(h arena.Handle, raw int) (int, bool) {
	v, ok := s.actors.Get(h)
	if !ok {
		return 0, false
	}
	var dmg int
	if v.behavior.Boss != nil {
		dmg = s.bossHit(v)
	} else {
		dmg = combat.EnvironmentalDamage(raw, v.Effective(combat.StatDefense))
		v.Health -= dmg
	}
	v.DamageTaken += dmg
	s.Bus.Publish(events.Event{Type: events.UnitAttacked, Beat: s.beat, Target: v.ID, Team: v.Team, Damage: dmg, Tile: v.tile})
	if v.Health <= 0 {
		s.Kill(v.ID, arena.Nil)
	}
	return dmg, true
}

// destroyBuilding removes a building and ends any capture of it.
func (s *Sim) destroyBuilding(b *capture.Building, by arena.Handle) {
	s.log.Info("building destroyed", "beat", s.beat, "building", b.Name, "tile", b.Tile.String())
	s.Buildings.Destroy(b.ID, s)
	s.Bus.Publish(events.Event{Type: events.BuildingDestroyed, Beat: s.beat, Actor: by, Building: b.ID, Team: b.Team, Tile: b.Tile})
}
