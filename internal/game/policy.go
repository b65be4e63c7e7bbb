package game

import (
	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// Behavior bundles the strategies that make an actor an ally, an enemy or
// the boss. It is chosen once per spawn.
type Behavior struct {
	Targeting TargetSelectionPolicy
	Movement  MovementPolicy
	Capture   CapturePolicy
	Boss      *BossPolicy // nil for ordinary units
}

func (b Behavior) withDefaults() Behavior {
	if b.Targeting == nil {
		b.Targeting = NoTarget{}
	}
	if b.Movement == nil {
		b.Movement = StandardMovement{}
	}
	if b.Capture == nil {
		b.Capture = NoCapture{}
	}
	return b
}

// --- Target selection ---

// TargetSelectionPolicy picks the tile an actor heads for.
type TargetSelectionPolicy interface {
	Destination(s *Sim, a *Actor) (hexgrid.TilePos, bool)
}

// NoTarget never moves.
type NoTarget struct{}

func (NoTarget) Destination(*Sim, *Actor) (hexgrid.TilePos, bool) {
	return hexgrid.TilePos{}, false
}

// FixedTarget heads for one tile, the banner position of a player command.
type FixedTarget struct {
	Tile hexgrid.TilePos
}

func (f FixedTarget) Destination(*Sim, *Actor) (hexgrid.TilePos, bool) {
	return f.Tile, true
}

// HardcodedDestination is the boss's target. Player commands never replace
// it.
type HardcodedDestination struct {
	Tile hexgrid.TilePos
}

func (h HardcodedDestination) Destination(*Sim, *Actor) (hexgrid.TilePos, bool) {
	return h.Tile, true
}

// SeekTarget chases the nearest hostile unit within detection range, then
// the nearest building worth attacking or capturing, then Fallback. An actor
// that already has something to hit or capture holds its tile.
type SeekTarget struct {
	Fallback    hexgrid.TilePos
	HasFallback bool
}

func (st SeekTarget) Destination(s *Sim, a *Actor) (hexgrid.TilePos, bool) {
	if !a.attached {
		return hexgrid.TilePos{}, false
	}
	if unit, ok := s.nearestHostileUnit(a, a.Stats.DetectionRange); ok {
		if hexgrid.Distance(a.tile, unit.tile) <= a.Stats.AttackRange {
			return a.tile, true
		}
		return unit.tile, true
	}
	if b, ok := s.nearestBuildingGoal(a); ok {
		hold := 1
		if !b.Capturable {
			hold = a.Stats.AttackRange
		}
		if hexgrid.Distance(a.tile, b.Tile) <= hold {
			return a.tile, true
		}
		return b.Tile, true
	}
	return st.Fallback, st.HasFallback
}

// --- Movement ---

// MovementPolicy decides which tiles an actor claims and when it has arrived.
type MovementPolicy interface {
	// Footprint returns the tiles reserved while centred on centre, or nil
	// when the actor cannot stand there.
	Footprint(g *hexgrid.Grid, centre hexgrid.TilePos) []hexgrid.TilePos
	Arrived(at, dest hexgrid.TilePos) bool
	// Detours reports whether a stuck actor may force a random free step.
	Detours() bool
}

// StandardMovement claims a single tile.
type StandardMovement struct{}

func (StandardMovement) Footprint(g *hexgrid.Grid, centre hexgrid.TilePos) []hexgrid.TilePos {
	if !g.InBounds(centre) {
		return nil
	}
	return []hexgrid.TilePos{centre}
}

func (StandardMovement) Arrived(at, dest hexgrid.TilePos) bool { return at == dest }
func (StandardMovement) Detours() bool                         { return true }

// FootprintMovement claims every tile within Radius of its centre. The whole
// footprint must fit on the grid.
type FootprintMovement struct {
	Radius int
}

func (f FootprintMovement) Footprint(g *hexgrid.Grid, centre hexgrid.TilePos) []hexgrid.TilePos {
	tiles := g.TilesWithinRange(centre, f.Radius)
	if len(tiles) != 1+3*f.Radius*(f.Radius+1) {
		return nil
	}
	return tiles
}

// Arrived is true once the destination lies under the footprint.
func (f FootprintMovement) Arrived(at, dest hexgrid.TilePos) bool {
	return hexgrid.Distance(at, dest) <= f.Radius
}

func (FootprintMovement) Detours() bool { return false }

// --- Capture ---

// CapturePolicy picks a building for an idle actor to capture.
type CapturePolicy interface {
	Choose(s *Sim, a *Actor) (*capture.Building, bool)
}

// NoCapture never captures.
type NoCapture struct{}

func (NoCapture) Choose(*Sim, *Actor) (*capture.Building, bool) { return nil, false }

// CaptureNearby captures the closest adjacent building the actor's team may
// take. Ties go to placement order.
type CaptureNearby struct{}

func (CaptureNearby) Choose(s *Sim, a *Actor) (*capture.Building, bool) {
	if !a.attached {
		return nil, false
	}
	var best *capture.Building
	bestDist := 0
	for _, b := range s.Buildings.All() {
		if !b.Capturable || !faction.CanCapture(a.Team, b.Team) {
			continue
		}
		d := hexgrid.Distance(a.tile, b.Tile)
		if d > 1 {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, best != nil
}
