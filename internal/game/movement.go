package game

import (
	"fmt"
	"slices"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// advanceOneStep tries to move a one tile toward dest. A failure counts
// toward the stuck threshold; past it a random free neighbour is forced.
func (s *Sim) advanceOneStep(a *Actor, dest hexgrid.TilePos) bool {
	from := a.tile
	// Tiles held by other actors are skipped, so a taken preferred step
	// yields the nearest free neighbour that is no further from dest.
	next, ok := s.Grid.NextStep(from, dest, a.ID, s.Res)
	if !ok {
		return s.stepFailed(a, fmt.Errorf("%s toward %s: %w", a.Label, dest, ErrPathfindingFailure))
	}
	if err := s.moveToTile(a, from, next); err != nil {
		return s.stepFailed(a, err)
	}
	a.stuck = 0
	return true
}

// stepFailed records a failed step and applies the stuck fallback.
func (s *Sim) stepFailed(a *Actor, err error) bool {
	a.stuck++
	s.trace(a, "move", "stuck", err.Error(), float64(a.stuck))
	s.log.Debug("step failed", "beat", s.beat, "unit", a.Label, "stuck", a.stuck, "err", err)
	if a.disabled {
		return false
	}
	if a.stuck > s.cfg.StuckThreshold && a.behavior.Movement.Detours() {
		free := s.Grid.FreeNeighbors(a.tile, a.ID, s.Res)
		if len(free) > 0 {
			pick := free[s.rng.Intn(len(free))]
			if s.moveToTile(a, a.tile, pick) == nil {
				a.stuck = 0
				s.metrics.StuckFallback()
				s.trace(a, "move", "forced", pick.String(), 0)
				return true
			}
		}
	}
	if a.State != StateIdle {
		s.setState(a, StateIdle)
	}
	return false
}

// moveToTile claims the destination footprint, frees the origin and hands
// the step to the movement executor.
func (s *Sim) moveToTile(a *Actor, from, to hexgrid.TilePos) error {
	if a.reserved != from && a.reserved != to {
		s.Res.Release(a.reserved, a.ID)
	}
	fp, ok := s.footprintFree(a, to)
	if !ok {
		return fmt.Errorf("%s to %s: %w", a.Label, to, ErrReservationConflict)
	}
	for i, q := range fp {
		if !s.Res.TryReserve(q, a.ID) {
			for _, r := range fp[:i] {
				s.Res.Release(r, a.ID)
			}
			return fmt.Errorf("%s to %s: %w", a.Label, q, ErrReservationConflict)
		}
	}
	if s.moveExec == nil {
		s.releaseExcept(a, s.currentFootprint(a, from))
		s.disable(a, fmt.Errorf("%s: movement executor: %w", a.Label, ErrMissingCollaborator))
		return ErrMissingCollaborator
	}

	s.setState(a, StateMoving)
	s.releaseExcept(a, fp)
	s.Grid.RemoveUnit(from, a.ID)
	a.attached = false
	a.reserved = to
	a.Pending = PendingAction{Kind: PendingStepCommit, From: from, Dest: to, Duration: s.cfg.MoveDuration}
	s.trace(a, "move", "step", fmt.Sprintf("%s → %s", from, to), 0)
	s.moveExec.Move(a.ID, from, to, s.cfg.MoveDuration)
	return nil
}

// commitStep finishes a pending step. A destination that can no longer be
// entered is released and the actor goes back to spawning around it.
func (s *Sim) commitStep(a *Actor, p PendingAction) {
	attached := false
	defer func() {
		if attached {
			return
		}
		for _, q := range s.Res.HeldBy(a.ID) {
			s.Res.Release(q, a.ID)
		}
		a.spawning = true
		a.spawnAt = p.Dest
		s.trace(a, "move", "commit_failed", p.Dest.String(), 0)
	}()

	if !a.Alive() {
		return
	}
	if _, ok := s.footprintFree(a, p.Dest); ok && s.Grid.PlaceUnit(p.Dest, a.ID) {
		for _, q := range a.behavior.Movement.Footprint(s.Grid, p.Dest) {
			s.Res.TryReserve(q, a.ID)
		}
		a.tile = p.Dest
		a.reserved = p.Dest
		a.attached = true
		a.AttackBeatCounter = 0
		attached = true
	}
	s.setState(a, StateIdle)
}

// abortStep undoes a pending step: the actor returns to its origin when the
// origin is still free, else it respawns around it.
func (s *Sim) abortStep(a *Actor, p PendingAction) {
	origin := s.currentFootprint(a, p.From)
	s.releaseExcept(a, nil)
	if _, ok := s.footprintFree(a, p.From); ok && s.Grid.PlaceUnit(p.From, a.ID) {
		for _, q := range origin {
			s.Res.TryReserve(q, a.ID)
		}
		a.tile, a.reserved = p.From, p.From
		a.attached = true
		return
	}
	a.spawning = true
	a.spawnAt = p.From
}

func (s *Sim) currentFootprint(a *Actor, centre hexgrid.TilePos) []hexgrid.TilePos {
	return a.behavior.Movement.Footprint(s.Grid, centre)
}

// releaseExcept drops every reservation a holds outside keep.
func (s *Sim) releaseExcept(a *Actor, keep []hexgrid.TilePos) {
	for _, q := range s.Res.HeldBy(a.ID) {
		if !slices.Contains(keep, q) {
			s.Res.Release(q, a.ID)
		}
	}
}

// onReservationChanged lets an actor waiting on a tile retry on the next beat
// once someone else releases it.
func (s *Sim) onReservationChanged(pos hexgrid.TilePos, holder arena.Handle, reserved bool) {
	if reserved {
		return
	}
	for _, a := range s.Actors() {
		if a.ID == holder || a.State == StateMoving || !a.hasDest || a.dest != pos {
			continue
		}
		a.BeatCounter = a.MovementDelay()
		s.trace(a, "move", "destination_freed", pos.String(), 0)
	}
}
