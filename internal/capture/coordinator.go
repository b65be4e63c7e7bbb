package capture

import (
	"fmt"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// Spec describes a building to place.
type Spec struct {
	Name           string
	Team           faction.Team
	Tile           hexgrid.TilePos
	Health         int
	Defense        int
	Capturable     bool
	BeatsToCapture int

	BossDamagePercent float64
}

// Coordinator owns every building on a grid and drives their capture
// sessions once per beat.
type Coordinator struct {
	grid      *hexgrid.Grid
	buildings *arena.Arena[*Building]
	order     []arena.Handle // placement order, pruned lazily

	defaultBeats int
}

// NewCoordinator creates a coordinator placing buildings on grid.
// beatsToCapture <= 0 selects DefaultBeatsToCapture.
func NewCoordinator(grid *hexgrid.Grid, beatsToCapture int) *Coordinator {
	if beatsToCapture <= 0 {
		beatsToCapture = DefaultBeatsToCapture
	}
	return &Coordinator{
		grid:         grid,
		buildings:    arena.New[*Building](),
		defaultBeats: beatsToCapture,
	}
}

// Add places a building. Fails when the tile is off-grid or taken.
func (c *Coordinator) Add(s Spec) (*Building, error) {
	t := c.grid.TileAt(s.Tile)
	if t == nil {
		return nil, fmt.Errorf("placing building %q: tile %v off grid", s.Name, s.Tile)
	}
	if !t.Building.IsNil() || !t.Unit.IsNil() {
		return nil, fmt.Errorf("placing building %q: tile %v occupied", s.Name, s.Tile)
	}
	beats := s.BeatsToCapture
	if beats <= 0 {
		beats = c.defaultBeats
	}
	health := max(1, s.Health)
	b := &Building{
		Name:           s.Name,
		Team:           s.Team,
		Tile:           s.Tile,
		MaxHealth:      health,
		Health:         health,
		Defense:        max(0, s.Defense),
		Targetable:     true,
		Capturable:     s.Capturable,
		BeatsToCapture: beats,

		BossDamagePercent: s.BossDamagePercent,
	}
	b.ID = c.buildings.Insert(b)
	c.grid.PlaceBuilding(s.Tile, b.ID)
	c.order = append(c.order, b.ID)
	return b, nil
}

// Get resolves a building handle. Destroyed buildings do not resolve.
func (c *Coordinator) Get(id arena.Handle) (*Building, bool) {
	return c.buildings.Get(id)
}

// AtTile returns the building standing on p.
func (c *Coordinator) AtTile(p hexgrid.TilePos) (*Building, bool) {
	t := c.grid.TileAt(p)
	if t == nil || t.Building.IsNil() {
		return nil, false
	}
	return c.buildings.Get(t.Building)
}

// Destroy removes a building from the grid and cancels its session.
func (c *Coordinator) Destroy(id arena.Handle, n Notifier) bool {
	b, ok := c.buildings.Get(id)
	if !ok {
		return false
	}
	b.Cancel(n)
	c.grid.RemoveBuilding(b.Tile, id)
	c.buildings.Remove(id)
	return true
}

// All returns live buildings in placement order.
func (c *Coordinator) All() []*Building {
	out := make([]*Building, 0, c.buildings.Len())
	live := c.order[:0]
	for _, id := range c.order {
		if b, ok := c.buildings.Get(id); ok {
			out = append(out, b)
			live = append(live, id)
		}
	}
	c.order = live
	return out
}

// Len returns the number of live buildings.
func (c *Coordinator) Len() int {
	return c.buildings.Len()
}

// Withdraw removes unit from whichever session it contributes to.
func (c *Coordinator) Withdraw(unit arena.Handle) {
	for _, b := range c.All() {
		b.StopCapturing(unit)
	}
}

// OnBeat ticks every building's capture session in placement order and
// returns the captures that completed.
func (c *Coordinator) OnBeat(n Notifier) []Completion {
	var done []Completion
	for _, b := range c.All() {
		if r := b.OnBeat(n); r.Completed {
			done = append(done, Completion{Building: b, Result: r})
		}
	}
	return done
}

// Completion is a finished capture.
type Completion struct {
	Building *Building
	Result   Result
}
