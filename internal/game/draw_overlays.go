package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// drawReservations outlines every reserved tile in its holder's colour.
func (g *Game) drawReservations(dst *ebiten.Image) {
	for p, h := range g.sim.Res.Snapshot() {
		col := neutralCol
		if a, ok := g.sim.Actor(h); ok {
			col = teamColor(a.Team)
		}
		col.A = 110
		strokeHex(dst, p, hexSize-4, 2, col)
	}
}

// drawMovementIntentLines draws faint lines from each actor to its current
// destination. The selected actor's line is brighter and carries a marker.
func (g *Game) drawMovementIntentLines(dst *ebiten.Image) {
	for _, a := range g.sim.Actors() {
		if !a.Attached() {
			continue
		}
		dest, ok := a.Destination()
		if !ok || dest == a.Tile() {
			continue
		}
		x0, y0 := tilePixel(a.Tile())
		x1, y1 := tilePixel(dest)

		col := teamColor(a.Team)
		col.A = 70
		width := float32(1)
		if a.ID == g.inspector.selected {
			col.A = 200
			width = 1.5
			vector.StrokeCircle(dst, float32(x1), float32(y1), 4, 1, col, true)
		}

		// Dashed: 6px on, 4px off.
		dist := math.Hypot(x1-x0, y1-y0)
		ux, uy := (x1-x0)/dist, (y1-y0)/dist
		for d := 0.0; d < dist; d += 10 {
			e := math.Min(d+6, dist)
			vector.StrokeLine(dst,
				float32(x0+ux*d), float32(y0+uy*d),
				float32(x0+ux*e), float32(y0+uy*e),
				width, col, true)
		}
	}
}

// drawRoute shows the A* route of the selected actor to its destination.
func (g *Game) drawRoute(dst *ebiten.Image) {
	a, ok := g.sim.Actor(g.inspector.selected)
	if !ok || !a.Attached() {
		return
	}
	dest, ok := a.Destination()
	if !ok {
		return
	}
	route := g.sim.Grid.FindPath(a.Tile(), dest)
	col := color.RGBA{R: 240, G: 240, B: 120, A: 170}
	for i := 1; i < len(route); i++ {
		x0, y0 := tilePixel(route[i-1])
		x1, y1 := tilePixel(route[i])
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), 1.5, col, true)
	}
	dx, dy := tilePixel(dest)
	vector.StrokeCircle(dst, float32(dx), float32(dy), 5, 1.5, col, true)
}

// drawCaptureLabels draws a small label under each building being captured
// with the capturing team, contributors and progress.
func (g *Game) drawCaptureLabels(dst *ebiten.Image) {
	for _, b := range g.sim.Buildings.All() {
		sess := b.Session()
		if sess == nil {
			continue
		}
		x, y := tilePixel(b.Tile)
		label := fmt.Sprintf("%s %s x%d %d/%d", b.Name, sess.Team, len(sess.Contributors), sess.Progress, b.BeatsToCapture)

		const charW = 6
		const padX = 4
		const padY = 2
		textX := int(x) - len(label)*charW/2
		textY := int(y + hexSize*0.7)
		bgCol := teamColor(sess.Team)
		bgCol.R, bgCol.G, bgCol.B, bgCol.A = bgCol.R/3, bgCol.G/3, bgCol.B/3, 160
		vector.FillRect(dst, float32(textX-padX), float32(textY-padY), float32(len(label)*charW+padX*2), float32(14+padY*2), bgCol, false)
		ebitenutil.DebugPrintAt(dst, label, textX, textY)
	}
}
