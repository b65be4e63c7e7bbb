// Package hexgrid implements the odd-q offset hex grid the simulation runs on:
// coordinates, adjacency, distance, greedy next-step selection, range queries
// and an A* route finder.
package hexgrid

import (
	"fmt"
	"math"
)

// TilePos is an odd-q offset coordinate: odd columns are shoved down half a tile.
type TilePos struct {
	Col int
	Row int
}

func (p TilePos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

// Less orders positions by column, then row. Used for deterministic tie-breaks.
func (p TilePos) Less(o TilePos) bool {
	if p.Col != o.Col {
		return p.Col < o.Col
	}
	return p.Row < o.Row
}

// cube converts an odd-q offset position to cube coordinates.
func (p TilePos) cube() (x, y, z int) {
	x = p.Col
	z = p.Row - (p.Col-(p.Col&1))/2
	y = -x - z
	return x, y, z
}

// Distance returns the hex distance between two positions.
func Distance(a, b TilePos) int {
	ax, ay, az := a.cube()
	bx, by, bz := b.cube()
	return (abs(ax-bx) + abs(ay-by) + abs(az-bz)) / 2
}

// Neighbour offsets per column parity, in the grid's fixed direction order.
var (
	evenColDirs = [6]TilePos{{0, -1}, {1, -1}, {1, 0}, {0, 1}, {-1, 0}, {-1, -1}}
	oddColDirs  = [6]TilePos{{0, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}}
)

// AllNeighbors returns the six adjacent positions, ignoring grid bounds.
func AllNeighbors(p TilePos) [6]TilePos {
	dirs := evenColDirs
	if p.Col&1 == 1 {
		dirs = oddColDirs
	}
	var out [6]TilePos
	for i, d := range dirs {
		out[i] = TilePos{Col: p.Col + d.Col, Row: p.Row + d.Row}
	}
	return out
}

// Center returns the centre of a tile in unit-size flat-top layout.
func Center(p TilePos) (x, y float64) {
	x = 1.5 * float64(p.Col)
	y = math.Sqrt(3) * (float64(p.Row) + 0.5*float64(p.Col&1))
	return x, y
}

// DistSq is the squared centre-to-centre distance between two tiles.
func DistSq(a, b TilePos) float64 {
	ax, ay := Center(a)
	bx, by := Center(b)
	dx, dy := ax-bx, ay-by
	return dx*dx + dy*dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
