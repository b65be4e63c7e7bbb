package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// Violation is one disagreement between the reservation map, the grid and
// actor state.
type Violation struct {
	Tile   hexgrid.TilePos
	Holder arena.Handle
	Reason string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s at %s (holder %d:%d)", v.Reason, v.Tile, v.Holder.Index, v.Holder.Gen)
}

// expectedTiles are the tiles a may legitimately hold right now.
func (s *Sim) expectedTiles(a *Actor) []hexgrid.TilePos {
	switch {
	case a.Pending.Kind == PendingStepCommit:
		return a.behavior.Movement.Footprint(s.Grid, a.Pending.Dest)
	case a.attached:
		return a.behavior.Movement.Footprint(s.Grid, a.tile)
	default:
		return nil
	}
}

// CheckInvariants reports every violation without changing anything.
func (s *Sim) CheckInvariants() []Violation {
	var out []Violation

	expected := map[arena.Handle][]hexgrid.TilePos{}
	for _, a := range s.Actors() {
		expected[a.ID] = s.expectedTiles(a)
	}
	snap := s.Res.Snapshot()
	positions := make([]hexgrid.TilePos, 0, len(snap))
	for p := range snap {
		positions = append(positions, p)
	}
	slices.SortFunc(positions, comparePos)

	for _, p := range positions {
		h := snap[p]
		tiles, live := expected[h]
		if !live {
			out = append(out, Violation{Tile: p, Holder: h, Reason: "reservation held by dead actor"})
			continue
		}
		if !slices.Contains(tiles, p) {
			out = append(out, Violation{Tile: p, Holder: h, Reason: "orphaned reservation"})
		}
	}

	occupied := map[hexgrid.TilePos]arena.Handle{}
	for _, a := range s.Actors() {
		if !a.attached {
			continue
		}
		if other, dup := occupied[a.tile]; dup {
			out = append(out, Violation{Tile: a.tile, Holder: other, Reason: "two actors on one tile"})
		}
		occupied[a.tile] = a.ID
		if t := s.Grid.TileAt(a.tile); t == nil || t.Unit != a.ID {
			out = append(out, Violation{Tile: a.tile, Holder: a.ID, Reason: "actor missing from its tile"})
		}
		if a.Pending.Kind != PendingStepCommit && (!s.Res.IsReservedBy(a.tile, a.ID) || a.reserved != a.tile) {
			out = append(out, Violation{Tile: a.tile, Holder: a.ID, Reason: "occupied tile not reserved by occupant"})
		}
	}

	for c := 0; c < s.Grid.Cols; c++ {
		for r := 0; r < s.Grid.Rows; r++ {
			t := s.Grid.TileAt(hexgrid.TilePos{Col: c, Row: r})
			if t.Unit.IsNil() {
				continue
			}
			if a, ok := s.actors.Get(t.Unit); !ok || !a.attached || a.tile != t.Pos {
				out = append(out, Violation{Tile: t.Pos, Holder: t.Unit, Reason: "tile points at absent actor"})
			}
		}
	}
	return out
}

// HealInvariants repairs what it safely can: reservations nobody should hold
// are released and tiles pointing at absent actors are cleared. Returns the
// number of repairs.
func (s *Sim) HealInvariants() int {
	n := 0
	expected := map[arena.Handle][]hexgrid.TilePos{}
	for _, a := range s.Actors() {
		expected[a.ID] = s.expectedTiles(a)
	}
	for p, h := range s.Res.Snapshot() {
		if tiles, ok := expected[h]; !ok || !slices.Contains(tiles, p) {
			s.Res.Release(p, h)
			s.log.Error("released orphaned reservation", "beat", s.beat, "tile", p.String())
			n++
		}
	}
	for c := 0; c < s.Grid.Cols; c++ {
		for r := 0; r < s.Grid.Rows; r++ {
			t := s.Grid.TileAt(hexgrid.TilePos{Col: c, Row: r})
			if t.Unit.IsNil() {
				continue
			}
			if a, ok := s.actors.Get(t.Unit); !ok || !a.attached || a.tile != t.Pos {
				s.Grid.RemoveUnit(t.Pos, t.Unit)
				n++
			}
		}
	}
	return n
}

// enforceInvariants runs after every beat. Strict mode surfaces violations;
// otherwise they are healed and logged.
func (s *Sim) enforceInvariants() error {
	vs := s.CheckInvariants()
	if len(vs) == 0 {
		return nil
	}
	errs := make([]error, len(vs))
	for i, v := range vs {
		s.metrics.InvariantViolation()
		errs[i] = v
	}
	if s.cfg.StrictInvariants {
		return fmt.Errorf("beat %d: %w: %w", s.beat, ErrInvariantViolation, errors.Join(errs...))
	}
	for _, v := range vs {
		s.log.Error("invariant violation", "beat", s.beat, "violation", v.Error())
	}
	s.HealInvariants()
	return nil
}

func comparePos(a, b hexgrid.TilePos) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
