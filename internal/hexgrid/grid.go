package hexgrid

import "github.com/Garsondee/hex-cadence/internal/arena"

// TileKind is the terrain of a tile. Only ground is walkable.
type TileKind int

const (
	TileGround TileKind = iota
	TileWater
	TileMountain
)

func (k TileKind) String() string {
	switch k {
	case TileGround:
		return "ground"
	case TileWater:
		return "water"
	case TileMountain:
		return "mountain"
	default:
		return "unknown"
	}
}

// Tile is one grid cell. It holds at most one unit and at most one building.
type Tile struct {
	Pos      TilePos
	Kind     TileKind
	Unit     arena.Handle
	Building arena.Handle
}

// IsOccupied reports whether a unit may not step onto the tile: a unit or
// building is present, or the terrain blocks.
func (t *Tile) IsOccupied() bool {
	return !t.Unit.IsNil() || !t.Building.IsNil() || t.Kind != TileGround
}

// Reservations is the read side of the reservation registry that step
// selection needs.
type Reservations interface {
	IsReservedByOther(pos TilePos, requester arena.Handle) bool
}

// Grid is a rectangular odd-q hex map.
type Grid struct {
	Cols  int
	Rows  int
	tiles []Tile
}

// NewGrid creates a cols x rows grid of ground tiles.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{Cols: cols, Rows: rows, tiles: make([]Tile, cols*rows)}
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			g.tiles[c*rows+r] = Tile{Pos: TilePos{Col: c, Row: r}}
		}
	}
	return g
}

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p TilePos) bool {
	return p.Col >= 0 && p.Col < g.Cols && p.Row >= 0 && p.Row < g.Rows
}

// TileAt returns the tile at p, or nil when p is off the grid.
func (g *Grid) TileAt(p TilePos) *Tile {
	if !g.InBounds(p) {
		return nil
	}
	return &g.tiles[p.Col*g.Rows+p.Row]
}

// SetKind changes the terrain of a tile.
func (g *Grid) SetKind(p TilePos, k TileKind) {
	if t := g.TileAt(p); t != nil {
		t.Kind = k
	}
}

// Neighbors returns the in-bounds neighbours of p in direction order.
func (g *Grid) Neighbors(p TilePos) []TilePos {
	all := AllNeighbors(p)
	out := make([]TilePos, 0, 6)
	for _, n := range all {
		if g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// PlaceUnit records h as the unit on p. Fails if the tile is occupied by
// anything else.
func (g *Grid) PlaceUnit(p TilePos, h arena.Handle) bool {
	t := g.TileAt(p)
	if t == nil {
		return false
	}
	if t.Unit == h {
		return true
	}
	if t.IsOccupied() {
		return false
	}
	t.Unit = h
	return true
}

// RemoveUnit clears the unit slot of p if it holds h.
func (g *Grid) RemoveUnit(p TilePos, h arena.Handle) {
	if t := g.TileAt(p); t != nil && t.Unit == h {
		t.Unit = arena.Nil
	}
}

// PlaceBuilding records b as the building on p.
func (g *Grid) PlaceBuilding(p TilePos, b arena.Handle) bool {
	t := g.TileAt(p)
	if t == nil || !t.Building.IsNil() || !t.Unit.IsNil() {
		return false
	}
	t.Building = b
	return true
}

// RemoveBuilding clears the building slot of p if it holds b.
func (g *Grid) RemoveBuilding(p TilePos, b arena.Handle) {
	if t := g.TileAt(p); t != nil && t.Building == b {
		t.Building = arena.Nil
	}
}

// TilesWithinRange returns every in-bounds tile at most radius steps from
// origin, origin included, in breadth-first order.
func (g *Grid) TilesWithinRange(origin TilePos, radius int) []TilePos {
	if !g.InBounds(origin) || radius < 0 {
		return nil
	}
	out := []TilePos{origin}
	seen := map[TilePos]bool{origin: true}
	frontier := []TilePos{origin}
	for step := 0; step < radius; step++ {
		var next []TilePos
		for _, p := range frontier {
			for _, n := range g.Neighbors(p) {
				if seen[n] {
					continue
				}
				seen[n] = true
				out = append(out, n)
				next = append(next, n)
			}
		}
		frontier = next
	}
	return out
}

// stepFree reports whether a requester may step onto p.
func (g *Grid) stepFree(p TilePos, requester arena.Handle, res Reservations) bool {
	t := g.TileAt(p)
	if t == nil || t.IsOccupied() {
		return false
	}
	return res == nil || !res.IsReservedByOther(p, requester)
}

// NextStep picks the neighbour of from to move onto when heading for to.
// The target itself wins when it is adjacent and free. Otherwise the free,
// unreserved neighbour nearest the target is chosen, ties broken by lowest
// column then lowest row. A step never leads further from the target than
// from already is. Returns false when from == to or nothing qualifies.
func (g *Grid) NextStep(from, to TilePos, requester arena.Handle, res Reservations) (TilePos, bool) {
	if from == to || !g.InBounds(from) {
		return TilePos{}, false
	}
	neighbors := g.Neighbors(from)
	for _, n := range neighbors {
		if n == to {
			if g.stepFree(n, requester, res) {
				return n, true
			}
			break
		}
	}
	return g.closestFree(neighbors, to, Distance(from, to), requester, res)
}

func (g *Grid) closestFree(candidates []TilePos, to TilePos, limit int, requester arena.Handle, res Reservations) (TilePos, bool) {
	best := TilePos{}
	bestDist := -1
	for _, n := range candidates {
		if !g.stepFree(n, requester, res) {
			continue
		}
		d := Distance(n, to)
		if d > limit {
			continue
		}
		if bestDist < 0 || d < bestDist || (d == bestDist && n.Less(best)) {
			best = n
			bestDist = d
		}
	}
	return best, bestDist >= 0
}

// FreeNeighbors returns neighbours of p a requester may step onto.
func (g *Grid) FreeNeighbors(p TilePos, requester arena.Handle, res Reservations) []TilePos {
	var out []TilePos
	for _, n := range g.Neighbors(p) {
		if g.stepFree(n, requester, res) {
			out = append(out, n)
		}
	}
	return out
}

// NearestFree searches outward from p, ring by ring up to maxRadius, for the
// first tile with no occupant that nobody but requester has reserved.
func (g *Grid) NearestFree(p TilePos, maxRadius int, requester arena.Handle, res Reservations) (TilePos, bool) {
	for _, c := range g.TilesWithinRange(p, maxRadius) {
		if g.stepFree(c, requester, res) {
			return c, true
		}
	}
	return TilePos{}, false
}
