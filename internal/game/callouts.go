package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/events"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// calloutLifetime is how many frames a callout stays visible (~1.5 seconds).
const calloutLifetime = 90

// Callout is a short floating label over an actor, or over the tile where
// something happened once the actor is gone.
type Callout struct {
	actor  arena.Handle
	tile   hexgrid.TilePos
	team   faction.Team
	text   string
	detail string
	age    int
}

// Callouts holds the active labels.
type Callouts struct {
	active []*Callout
}

// Attach turns notable events of s into callouts.
func (c *Callouts) Attach(s *Sim) {
	s.Bus.SubscribeAll(arena.Nil, func(e events.Event) {
		switch e.Type {
		case events.UnitAttacked:
			c.Add(e.Target, e.Tile, e.Team, fmt.Sprintf("-%d", e.Damage), "")
		case events.UnitKilled:
			c.Add(arena.Nil, e.Tile, e.Team, "KO", "")
		case events.UnitStunned:
			c.Add(e.Actor, e.Tile, e.Team, "STUNNED", "")
		case events.CaptureStarted:
			c.Add(e.Actor, e.Tile, e.Team, "Capturing!", buildingName(s, e.Building))
		case events.TeamChanged:
			c.Add(arena.Nil, e.Tile, e.Team, "Captured", buildingName(s, e.Building))
		case events.BuildingDestroyed:
			c.Add(arena.Nil, e.Tile, e.Team, "Destroyed", buildingName(s, e.Building))
		}
	})
}

func buildingName(s *Sim, h arena.Handle) string {
	if b, ok := s.Buildings.Get(h); ok {
		return b.Name
	}
	return ""
}

// Add shows a callout. Callouts already on the same anchor are pushed up
// when drawn.
func (c *Callouts) Add(actor arena.Handle, tile hexgrid.TilePos, team faction.Team, text, detail string) {
	c.active = append(c.active, &Callout{actor: actor, tile: tile, team: team, text: text, detail: detail})
}

// Tick ages every callout by one frame and drops expired ones.
func (c *Callouts) Tick() {
	kept := c.active[:0]
	for _, co := range c.active {
		co.age++
		if co.age < calloutLifetime {
			kept = append(kept, co)
		}
	}
	c.active = kept
}

// Len returns the number of visible callouts.
func (c *Callouts) Len() int { return len(c.active) }

// drawCallouts renders active callouts above their anchors.
func (g *Game) drawCallouts(dst *ebiten.Image) {
	stacked := map[hexgrid.TilePos]float32{} // anchor tile -> lowest Y used

	for _, co := range g.callouts.active {
		tile := co.tile
		if a, ok := g.sim.Actor(co.actor); ok && a.Attached() {
			tile = a.Tile()
		}
		progress := float64(co.age) / float64(calloutLifetime)
		alpha := float32(1.0)
		if progress > 0.70 {
			alpha = float32(1.0 - (progress-0.70)/0.30)
		}
		if alpha < 0.05 {
			continue
		}

		const charW = 6
		const lineH = 14
		const padX = 4
		const padY = 2

		lines := 1
		maxLen := len(co.text)
		if co.detail != "" {
			lines = 2
			maxLen = max(maxLen, len(co.detail))
		}
		bgW := float32(maxLen*charW + padX*2)
		bgH := float32(lines*lineH + padY*2)

		x, y := tilePixel(tile)
		// Drift upward over the lifetime.
		baseY := float32(y) - float32(hexSize) - bgH - float32(progress*10)
		if prevY, ok := stacked[tile]; ok && baseY+bgH > prevY {
			baseY = prevY - bgH - 2
		}
		stacked[tile] = baseY
		bgX := float32(x) - bgW/2

		vector.FillRect(dst, bgX, baseY, bgW, bgH, color.RGBA{R: 20, G: 22, B: 20, A: uint8(210 * alpha)}, false)
		accent := teamColor(co.team)
		accent.A = uint8(220 * alpha)
		vector.FillRect(dst, bgX, baseY, 2, bgH, accent, false)

		ebitenutil.DebugPrintAt(dst, co.text, int(bgX)+padX, int(baseY)+padY)
		if co.detail != "" {
			ebitenutil.DebugPrintAt(dst, co.detail, int(bgX)+padX, int(baseY)+padY+lineH)
		}
	}
}
