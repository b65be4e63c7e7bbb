package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// Inspector panel, rendered into an offscreen buffer at 1x then blitted at inspScale.
const (
	inspScale = 2   // scale factor for inspector text rendering
	inspBufW  = 220 // buffer width in pixels (~36 chars at debug font)
	inspBufH  = 320 // buffer height in pixels
	inspPad   = 4   // padding in buffer-space pixels
	inspLineH = 13  // line height in buffer-space pixels
)

// Inspector holds the selected actor and view toggle state.
type Inspector struct {
	selected arena.Handle
	rawView  bool // false = curated, true = raw dump
}

// handleInspectorClick selects the actor standing on the clicked tile.
// Returns true if an actor was hit; clicking empty ground deselects.
func (g *Game) handleInspectorClick(mx, my int) bool {
	if g.sim == nil {
		return false
	}
	p, ok := g.tileAtPixel(g.screenToWorld(mx, my))
	if ok {
		if a, hit := g.sim.ActorAt(p); hit {
			g.inspector.selected = a.ID
			return true
		}
	}
	g.inspector.selected = arena.Nil
	return false
}

// drawInspector renders the inspector panel into an offscreen buffer at 1x,
// then blits it onto the screen at inspScale for readability.
func (g *Game) drawInspector(screen *ebiten.Image) {
	a, ok := g.sim.Actor(g.inspector.selected)
	if !ok {
		return
	}

	buf := g.inspBuf
	buf.Clear()
	bw := float32(inspBufW)
	bh := float32(inspBufH)

	panelBorder := color.RGBA{R: 55, G: 80, B: 55, A: 255}
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 14, G: 16, B: 14, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, bw, bh, 1.0, panelBorder, false)
	vector.StrokeLine(buf, 1, 1, bw-1, 1, 1.0, color.RGBA{R: 70, G: 110, B: 70, A: 60}, false)

	lx, ly := inspPad, inspPad
	boss := ""
	if a.IsBoss() {
		boss = " [BOSS]"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("[ %s %s%s ]", strings.ToUpper(a.Team.String()), a.Label, boss), lx, ly)
	ly += inspLineH + 2

	viewName := "CURATED"
	if g.inspector.rawView {
		viewName = "RAW"
	}
	ebitenutil.DebugPrintAt(buf, fmt.Sprintf("view: %s  [I] toggle", viewName), lx, ly)
	ly += inspLineH + 4

	vector.StrokeLine(buf, float32(lx), float32(ly), bw-float32(inspPad), float32(ly), 1.0, panelBorder, false)
	ly += 4

	var lines []string
	if g.inspector.rawView {
		lines = inspectRaw(a)
	} else {
		lines = inspectCurated(g.sim, a)
	}
	for _, l := range lines {
		ebitenutil.DebugPrintAt(buf, l, lx, ly)
		ly += inspLineH
	}

	// Bottom-right, left of the log panel.
	px := g.width - logPanelWidth - inspBufW*inspScale - g.offX - 12
	py := g.height - inspBufH*inspScale - g.offY - 8
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(inspScale), float64(inspScale))
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(buf, opts)
}

// inspectCurated is the organised, human-readable inspector view.
func inspectCurated(s *Sim, a *Actor) []string {
	var out []string
	line := func(format string, args ...any) { out = append(out, fmt.Sprintf(format, args...)) }
	section := func(title string) { out = append(out, "-- "+title+" --") }
	bar := func(label string, v float64) {
		filled := int(clamp01(v) * 14)
		line("%-7s %s%s %.2f", label, strings.Repeat("#", filled), strings.Repeat(".", 14-filled), v)
	}

	section("SITUATION")
	line("state: %-9s tile: %s", a.State, a.Tile())
	if dest, ok := a.Destination(); ok {
		line("dest: %s  dist: %d", dest, hexgrid.Distance(a.Tile(), dest))
	} else {
		line("dest: none")
	}
	if a.Pending.Kind != PendingNone {
		line("pending: %s -> %s", a.Pending.Kind, a.Pending.Dest)
	}
	if t, ok := s.Actor(a.UnitTarget()); ok {
		line("target: %s", t.Label)
	}
	if b, ok := s.Buildings.Get(a.CaptureTarget()); ok {
		line("capture: %s %.0f%%", b.Name, b.ProgressNormalized()*100)
	}
	switch {
	case a.Spawning():
		line("waiting for a spawn tile")
	case a.Disabled():
		line("DISABLED")
	case a.Stunned():
		line("STUNNED %d beats", a.StunBeats())
	}

	section("VITALS")
	bar("health", HealthFraction(a))
	line("hp: %d/%d  lvl: %d", a.Health, a.Stats.MaxHealth, a.Level)
	if a.IsBoss() {
		line("hits: %d/%d", a.Hits(), a.Behavior().Boss.HitsToStun)
	}

	section("STATS")
	sl := EffectiveStats(a)
	line("atk %d x%.2f  def %d x%.2f", sl.Attack, sl.AttackMul, sl.Defense, sl.DefenseMul)
	line("range %d  detect %d", sl.AttackRange, sl.DetectionRange)
	line("move/%d x%.2f  attack/%d", sl.MovementDelay, sl.SpeedMul, sl.AttackDelay)
	for _, b := range a.Buffs.Active() {
		line("  %s x%.2f %.1fs", b.Stat, b.Multiplier, b.Remaining)
	}

	section("RECORD")
	line("kills %d  captures %d", a.Kills, a.Captures)
	line("dealt %d  taken %d", a.DamageDealt, a.DamageTaken)
	return out
}

// inspectRaw dumps the scheduler fields verbatim.
func inspectRaw(a *Actor) []string {
	return []string{
		fmt.Sprintf("id=%d/%d %s team=%s", a.ID.Index, a.ID.Gen, a.Label, a.Team),
		fmt.Sprintf("tile=%s attached=%v", a.Tile(), a.Attached()),
		fmt.Sprintf("reserved=%s", a.ReservedTile()),
		fmt.Sprintf("state=%s interacting=%v", a.State, a.Interacting()),
		fmt.Sprintf("beat=%d attackBeat=%d", a.BeatCounter, a.AttackBeatCounter),
		fmt.Sprintf("stuck=%d stun=%d hits=%d", a.StuckCount(), a.StunBeats(), a.Hits()),
		fmt.Sprintf("spawning=%v disabled=%v", a.Spawning(), a.Disabled()),
		fmt.Sprintf("pending=%s", a.Pending.Kind),
		fmt.Sprintf("  from=%s dest=%s", a.Pending.From, a.Pending.Dest),
		fmt.Sprintf("  dmg=%d area=%v dur=%.2f", a.Pending.Damage, a.Pending.Area, a.Pending.Duration),
		fmt.Sprintf("unitTarget=%v", a.UnitTarget()),
		fmt.Sprintf("bldTarget=%v", a.BuildingTarget()),
		fmt.Sprintf("capTarget=%v", a.CaptureTarget()),
		fmt.Sprintf("buffs=%d", a.Buffs.Len()),
		fmt.Sprintf("hp=%d atk=%d def=%d", a.Stats.MaxHealth, a.Stats.Attack, a.Stats.Defense),
		fmt.Sprintf("rng=%d adly=%d mdly=%d det=%d", a.Stats.AttackRange, a.Stats.AttackDelay, a.Stats.MovementDelay, a.Stats.DetectionRange),
	}
}
