package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/hex-cadence/internal/arena"
	"github.com/Garsondee/hex-cadence/internal/capture"
	"github.com/Garsondee/hex-cadence/internal/combat"
	"github.com/Garsondee/hex-cadence/internal/faction"
	"github.com/Garsondee/hex-cadence/internal/hexgrid"
)

// borderWidth is the pixel gap between the window edge and the battlefield.
const borderWidth = 24

// hudScale is the integer upscale factor applied to all HUD text.
const hudScale = 2

// hexSize is the pixel radius of a tile at zoom 1.
const hexSize = 22.0

const (
	screenWidth  = 1600
	screenHeight = 900
)

var (
	playerCol  = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	enemyCol   = color.RGBA{R: 70, G: 110, B: 210, A: 255}
	neutralCol = color.RGBA{R: 150, G: 150, B: 140, A: 255}
	groundCol  = color.RGBA{R: 38, G: 52, B: 36, A: 255}
	waterCol   = color.RGBA{R: 30, G: 60, B: 110, A: 255}
	rockCol    = color.RGBA{R: 82, G: 70, B: 58, A: 255}
	gridCol    = color.RGBA{R: 70, G: 92, B: 66, A: 255}
)

func teamColor(t faction.Team) color.RGBA {
	switch t.Side() {
	case faction.Player:
		return playerCol
	case faction.Enemy:
		return enemyCol
	default:
		return neutralCol
	}
}

// moveTween animates one pending step.
type moveTween struct {
	actor    arena.Handle
	from, to hexgrid.TilePos
	elapsed  float64
	duration float64
}

// strikeFX animates one pending attack. target is a unit, building is a
// building, and area marks a stomp.
type strikeFX struct {
	attacker arena.Handle
	target   arena.Handle
	building arena.Handle
	area     bool
	damage   int
	elapsed  float64
	duration float64
}

func (t *moveTween) progress() float64 { return clamp01(t.elapsed / max(t.duration, 1e-6)) }
func (f *strikeFX) progress() float64  { return clamp01(f.elapsed / max(f.duration, 1e-6)) }

// Game is the ebiten viewer. It plays the presentation layer for a Sim:
// steps and attacks are animated, and the matching pending action is
// completed when the animation ends.
type Game struct {
	width      int
	height     int
	gameWidth  int // playfield width (log panel takes the rest)
	gameHeight int
	offX       int
	offY       int

	sim      *Sim
	simLog   *SimLog
	eventLog *EventLog
	callouts *Callouts
	reporter *SimReporter
	Title    string

	moves   []*moveTween
	strikes []*strikeFX

	worldBuf *ebiten.Image
	hudBuf   *ebiten.Image
	inspBuf  *ebiten.Image
	face     text.Face

	worldW, worldH float64

	camX, camY, camZoom float64
	simSpeed            float64

	showHUD          bool
	showReservations bool
	showRoute        bool
	showIntent       bool
	inspector        Inspector

	status  string // last one-line notice shown on the HUD
	lastErr error
}

// New creates a viewer with no simulation. Build the Sim with SimOptions,
// then call Attach before spawning actors.
func New() *Game {
	g := &Game{
		width:    screenWidth,
		height:   screenHeight,
		offX:     borderWidth,
		offY:     borderWidth,
		simLog:   NewSimLog(false),
		eventLog: NewEventLog(),
		callouts: &Callouts{},
		camZoom:  1,
		simSpeed: 1,
		showHUD:  true,
		face:     text.NewGoXFace(basicfont.Face7x13),
	}
	g.gameWidth = g.width - logPanelWidth - 2*borderWidth
	g.gameHeight = g.height - 2*borderWidth
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	return g
}

// SimOptions wires the viewer into a simulation under construction.
func (g *Game) SimOptions() []Option {
	return []Option{WithExecutors(g, g), WithTracer(g.simLog)}
}

// Attach starts presenting s. Call it before the first spawn so the match
// report counts every actor.
func (g *Game) Attach(s *Sim) {
	g.sim = s
	g.eventLog.Attach(s)
	g.callouts.Attach(s)
	g.reporter = NewSimReporter(0)
	g.reporter.Attach(s)

	last := hexgrid.TilePos{Col: s.Grid.Cols - 1, Row: s.Grid.Rows - 1}
	x, _ := hexgrid.Center(last)
	_, y := hexgrid.Center(hexgrid.TilePos{Col: 1, Row: s.Grid.Rows - 1})
	g.worldW = (x + 2) * hexSize
	g.worldH = (y + 2) * hexSize
	g.worldBuf = ebiten.NewImage(int(math.Ceil(g.worldW)), int(math.Ceil(g.worldH)))
	g.camX, g.camY = g.worldW/2, g.worldH/2
}

// Sim returns the presented simulation.
func (g *Game) Sim() *Sim { return g.sim }

// Reporter returns the match reporter fed by the viewer.
func (g *Game) Reporter() *SimReporter { return g.reporter }

// tilePixel maps a tile centre to world pixels.
func tilePixel(p hexgrid.TilePos) (float64, float64) {
	x, y := hexgrid.Center(p)
	return (x + 1) * hexSize, (y + 1) * hexSize
}

// --- Executors ---

// Move implements MovementExecutor.
func (g *Game) Move(actor arena.Handle, from, to hexgrid.TilePos, duration float64) {
	g.moves = append(g.moves, &moveTween{actor: actor, from: from, to: to, duration: duration})
}

// Perform implements AttackExecutor. Building and area attacks carry a nil
// target; the actor's pending action says what is being hit.
func (g *Game) Perform(attacker, target arena.Handle, damage int, duration float64) {
	fx := &strikeFX{attacker: attacker, target: target, damage: damage, duration: duration}
	if a, ok := g.sim.Actor(attacker); ok {
		fx.building = a.Pending.Building
		fx.area = a.Pending.Area
	}
	g.strikes = append(g.strikes, fx)
}

// --- Update ---

func (g *Game) Update() error {
	g.handleInput()
	if g.sim == nil || g.simSpeed <= 0 {
		return nil
	}
	dt := g.simSpeed / float64(ebiten.TPS())

	// Animations started on earlier beats finish before new beats run so a
	// step always lands before the next decision.
	g.advanceAnimations(dt)
	g.callouts.Tick()

	n, err := g.sim.Advance(dt)
	if err != nil {
		g.lastErr = err
		g.simSpeed = 0
		g.status = "halted: " + err.Error()
		g.sim.Logger().Error("beat failed", "beat", g.sim.CurrentBeat(), "err", err)
	}
	if n > 0 {
		g.reporter.Collect(g.sim)
	}
	return nil
}

func (g *Game) advanceAnimations(dt float64) {
	var done []arena.Handle

	keptMoves := g.moves[:0]
	for _, t := range g.moves {
		t.elapsed += dt
		if t.elapsed >= t.duration {
			done = append(done, t.actor)
			continue
		}
		keptMoves = append(keptMoves, t)
	}
	g.moves = keptMoves

	keptStrikes := g.strikes[:0]
	for _, f := range g.strikes {
		f.elapsed += dt
		if f.elapsed >= f.duration {
			done = append(done, f.attacker)
			continue
		}
		keptStrikes = append(keptStrikes, f)
	}
	g.strikes = keptStrikes

	for _, h := range done {
		if err := g.sim.CompletePending(h); err != nil {
			g.sim.Logger().Debug("pending action aborted", "beat", g.sim.CurrentBeat(), "err", err)
		}
	}
}

// handleInput processes camera, speed and command keys.
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.showReservations = !g.showReservations
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.showRoute = !g.showRoute
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.showIntent = !g.showIntent
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.inspector.rawView = !g.inspector.rawView
	}

	// Camera pan: WASD or arrow keys.
	panSpeed := 6.0 / g.camZoom
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camY += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camX += panSpeed
	}

	// Camera zoom: mouse wheel or =/- keys.
	const zoomMin, zoomMax = 0.5, 4.0
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camZoom *= math.Pow(1.12, wy)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.camZoom *= 1.25
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.camZoom /= 1.25
	}
	g.camZoom = math.Max(zoomMin, math.Min(zoomMax, g.camZoom))
	g.camX = math.Max(0, math.Min(g.worldW, g.camX))
	g.camY = math.Max(0, math.Min(g.worldH, g.camY))

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else if g.lastErr == nil {
			g.simSpeed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		for i := len(speeds) - 1; i > 0; i-- {
			if speeds[i] <= g.simSpeed {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) && g.lastErr == nil {
		for _, s := range speeds {
			if s > g.simSpeed {
				g.simSpeed = s
				break
			}
		}
	}

	if g.sim == nil {
		return
	}

	// Global buffs for the player side.
	for key, stat := range map[ebiten.Key]combat.Stat{
		ebiten.KeyB: combat.StatAttack,
		ebiten.KeyG: combat.StatDefense,
		ebiten.KeyV: combat.StatSpeed,
	} {
		if inpututil.IsKeyJustPressed(key) {
			n := g.sim.ApplyGlobalBuff(faction.Player, stat)
			g.status = fmt.Sprintf("%s buff on %d units", stat, n)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}

	// Left click selects, right click sends the selected unit.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.handleInspectorClick(ebiten.CursorPosition())
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.commandSelected(ebiten.CursorPosition())
	}
}

// screenToWorld inverts the Draw camera transform:
//
//	screen = (world - cam) * zoom + vpHalf + offset
//	world  = (screen - offset - vpHalf) / zoom + cam
func (g *Game) screenToWorld(mx, my int) (float64, float64) {
	wx := (float64(mx)-float64(g.offX)-float64(g.gameWidth)/2)/g.camZoom + g.camX
	wy := (float64(my)-float64(g.offY)-float64(g.gameHeight)/2)/g.camZoom + g.camY
	return wx, wy
}

// tileAtPixel returns the tile whose centre is closest to a world point.
func (g *Game) tileAtPixel(wx, wy float64) (hexgrid.TilePos, bool) {
	best := math.MaxFloat64
	var hit hexgrid.TilePos
	found := false
	for c := 0; c < g.sim.Grid.Cols; c++ {
		for r := 0; r < g.sim.Grid.Rows; r++ {
			p := hexgrid.TilePos{Col: c, Row: r}
			px, py := tilePixel(p)
			d2 := sqr(px-wx) + sqr(py-wy)
			if d2 < best {
				best, hit, found = d2, p, true
			}
		}
	}
	if best > sqr(hexSize) {
		return hexgrid.TilePos{}, false
	}
	return hit, found
}

func (g *Game) commandSelected(mx, my int) {
	a, ok := g.sim.Actor(g.inspector.selected)
	if !ok {
		return
	}
	p, ok := g.tileAtPixel(g.screenToWorld(mx, my))
	if !ok {
		return
	}
	if g.sim.SetTarget(a.ID, p) {
		g.status = fmt.Sprintf("%s -> %s", a.Label, p)
	} else {
		g.status = a.Label + " ignores commands"
	}
}

func (g *Game) copyReport() {
	report := MatchReport(g.sim, g.reporter, g.Title)
	if a, ok := g.sim.Actor(g.inspector.selected); ok {
		report += "\n" + ActorDebugReport(g.sim, g.simLog, a, 0)
	}
	if err := clipboard.WriteAll(report); err != nil {
		g.status = "clipboard: " + err.Error()
		return
	}
	g.status = "report copied"
}

// --- Draw ---

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	if g.sim == nil {
		ebitenutil.DebugPrintAt(screen, "no simulation attached", g.offX+6, g.offY+6)
		return
	}

	g.worldBuf.Clear()
	g.drawWorld(g.worldBuf)

	// Camera transform: translate so camX/camY is at viewport centre, then scale.
	var blit ebiten.DrawImageOptions
	blit.GeoM.Translate(-g.camX, -g.camY)
	blit.GeoM.Scale(g.camZoom, g.camZoom)
	blit.GeoM.Translate(float64(g.gameWidth)/2, float64(g.gameHeight)/2)
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.worldBuf, &blit)

	// Border frame in screen coords.
	ox, oy := float32(g.offX), float32(g.offY)
	gw, gh := float32(g.gameWidth), float32(g.gameHeight)
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)
	vector.StrokeRect(screen, ox-3, oy-3, gw+6, gh+6, 1.0, color.RGBA{R: 40, G: 65, B: 40, A: 100}, false)

	g.eventLog.Draw(screen, g.offX+g.gameWidth+g.offX, g.height)

	g.drawBeatBar(screen)
	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.camZoom != 1.0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom: %.1fx", g.camZoom), g.offX+6, g.offY+22)
	}
	g.drawInspector(screen)
}

func (g *Game) drawWorld(dst *ebiten.Image) {
	s := g.sim
	for c := 0; c < s.Grid.Cols; c++ {
		for r := 0; r < s.Grid.Rows; r++ {
			t := s.Grid.TileAt(hexgrid.TilePos{Col: c, Row: r})
			fill := groundCol
			switch t.Kind {
			case hexgrid.TileWater:
				fill = waterCol
			case hexgrid.TileMountain:
				fill = rockCol
			}
			drawHex(dst, t.Pos, hexSize-1, fill, gridCol)
		}
	}

	if g.showReservations {
		g.drawReservations(dst)
	}

	for _, b := range s.Buildings.All() {
		g.drawBuilding(dst, b)
	}

	if g.showIntent {
		g.drawMovementIntentLines(dst)
	}
	if g.showRoute {
		g.drawRoute(dst)
	}

	for _, a := range s.Actors() {
		g.drawActor(dst, a)
	}
	for _, f := range g.strikes {
		g.drawStrike(dst, f)
	}
	g.drawCaptureLabels(dst)
	g.drawCallouts(dst)
}

func (g *Game) drawBuilding(dst *ebiten.Image, b *capture.Building) {
	x, y := tilePixel(b.Tile)
	col := teamColor(b.Team)
	if !b.Capturable {
		col = color.RGBA{R: col.R / 2, G: col.G / 2, B: col.B / 2, A: 255}
	}
	half := float32(hexSize * 0.55)
	vector.FillRect(dst, float32(x)-half, float32(y)-half, 2*half, 2*half, col, false)
	vector.StrokeRect(dst, float32(x)-half, float32(y)-half, 2*half, 2*half, 1, color.RGBA{R: 220, G: 220, B: 200, A: 160}, false)

	if b.MaxHealth > 0 {
		frac := float32(clamp01(float64(b.Health) / float64(b.MaxHealth)))
		drawBar(dst, float32(x)-half, float32(y)+half+2, 2*half, frac, color.RGBA{R: 90, G: 200, B: 90, A: 255})
	}
	if sess := b.Session(); sess != nil {
		drawBar(dst, float32(x)-half, float32(y)-half-5, 2*half, float32(b.ProgressNormalized()), teamColor(sess.Team))
	}
}

func (g *Game) drawActor(dst *ebiten.Image, a *Actor) {
	if !a.Attached() {
		return
	}
	x, y := tilePixel(a.Tile())
	for _, t := range g.moves {
		if t.actor == a.ID {
			fx, fy := tilePixel(t.from)
			tx, ty := tilePixel(t.to)
			p := t.progress()
			x, y = fx+(tx-fx)*p, fy+(ty-fy)*p
		}
	}
	col := teamColor(a.Team)
	radius := float32(hexSize * 0.42)

	if a.IsBoss() {
		for _, p := range a.Behavior().Movement.Footprint(g.sim.Grid, a.Tile()) {
			strokeHex(dst, p, hexSize-3, 1.5, col)
		}
		radius = float32(hexSize * 0.9)
	}

	vector.FillCircle(dst, float32(x), float32(y), radius, col, true)
	if a.ID == g.inspector.selected {
		vector.StrokeCircle(dst, float32(x), float32(y), radius+3, 1.5, color.RGBA{R: 255, G: 255, B: 255, A: 220}, true)
	}
	switch {
	case a.Stunned():
		vector.StrokeCircle(dst, float32(x), float32(y), radius+1, 2, color.RGBA{R: 250, G: 220, B: 40, A: 230}, true)
	case a.State == StateCapturing:
		vector.StrokeCircle(dst, float32(x), float32(y), radius+1, 1, color.RGBA{R: 240, G: 240, B: 240, A: 160}, true)
	case a.Disabled():
		vector.StrokeCircle(dst, float32(x), float32(y), radius+1, 1, color.RGBA{R: 40, G: 40, B: 40, A: 255}, true)
	}
	if a.Buffs.Len() > 0 {
		vector.FillCircle(dst, float32(x)+radius*0.7, float32(y)-radius*0.7, 2.5, color.RGBA{R: 255, G: 200, B: 60, A: 255}, true)
	}
	drawBar(dst, float32(x)-radius, float32(y)+radius+2, 2*radius, float32(HealthFraction(a)), color.RGBA{R: 90, G: 220, B: 90, A: 255})
}

func (g *Game) drawStrike(dst *ebiten.Image, f *strikeFX) {
	a, ok := g.sim.Actor(f.attacker)
	if !ok || !a.Attached() {
		return
	}
	ax, ay := tilePixel(a.Tile())
	fade := uint8(255 * (1 - f.progress()))

	if f.area {
		r := float32(hexSize * 1.5 * float64(a.Behavior().Boss.StompRange) * f.progress())
		vector.StrokeCircle(dst, float32(ax), float32(ay), r, 3, color.RGBA{R: 255, G: 150, B: 40, A: fade}, true)
		return
	}

	var tx, ty float64
	switch {
	case !f.target.IsNil():
		v, ok := g.sim.Actor(f.target)
		if !ok {
			return
		}
		tx, ty = tilePixel(v.Tile())
	case !f.building.IsNil():
		b, ok := g.sim.Buildings.Get(f.building)
		if !ok {
			return
		}
		tx, ty = tilePixel(b.Tile)
	default:
		return
	}
	// Tracer head travels from attacker to target over the animation.
	p := f.progress()
	hx, hy := ax+(tx-ax)*p, ay+(ty-ay)*p
	vector.StrokeLine(dst, float32(ax), float32(ay), float32(hx), float32(hy), 2, color.RGBA{R: 255, G: 240, B: 180, A: fade}, true)
	vector.FillCircle(dst, float32(hx), float32(hy), 2.5, color.RGBA{R: 255, G: 255, B: 220, A: 255}, true)
}

// drawBeatBar shows the beat counter and the phase of the rhythm clock.
func (g *Game) drawBeatBar(screen *ebiten.Image) {
	x, y := float32(g.offX+6), float32(g.offY+6)
	vector.FillRect(screen, x-2, y-2, 204, 16, color.RGBA{R: 6, G: 10, B: 6, A: 200}, false)
	drawBar(screen, x+96, y+4, 100, float32(g.sim.Clock.Phase()), color.RGBA{R: 240, G: 200, B: 80, A: 255})

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(color.RGBA{R: 220, G: 230, B: 210, A: 255})
	text.Draw(screen, fmt.Sprintf("BEAT %d", g.sim.CurrentBeat()), g.face, op)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	speedStr := "1x"
	switch {
	case g.simSpeed == 0:
		speedStr = "PAUSED"
	case g.simSpeed != 1:
		speedStr = fmt.Sprintf("%gx", g.simSpeed)
	}

	lines := []string{
		fmt.Sprintf("SIM: %s  %.0f BPM  P=pause ,/. speed", speedStr, g.sim.Clock.BPM),
		fmt.Sprintf("player=%d enemy=%d reservations=%d",
			g.sim.CountAlive(faction.Player), g.sim.CountAlive(faction.Enemy), g.sim.Res.Len()),
		"[R] reservations  [T] route  [M] intent  [H] HUD",
		"[B/G/V] atk/def/speed buff  [C] copy report",
		"click=inspect  right click=send",
		"WASD/arrows=pan  scroll=zoom",
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}

	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	bufH := float32(g.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	vector.StrokeLine(g.hudBuf, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 80, G: 140, B: 80, A: 80}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

// --- Primitives ---

func hexPath(p hexgrid.TilePos, radius float64) *vector.Path {
	cx, cy := tilePixel(p)
	var path vector.Path
	for i := 0; i < 6; i++ {
		ang := math.Pi / 3 * float64(i)
		x := float32(cx + radius*math.Cos(ang))
		y := float32(cy + radius*math.Sin(ang))
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()
	return &path
}

func drawHex(dst *ebiten.Image, p hexgrid.TilePos, radius float64, fill, edge color.RGBA) {
	fo := &vector.FillOptions{}
	do := &vector.DrawPathOptions{AntiAlias: true}
	do.ColorScale.ScaleWithColor(fill)
	vector.FillPath(dst, hexPath(p, radius), fo, do)
	strokeHex(dst, p, radius, 1, edge)
}

func strokeHex(dst *ebiten.Image, p hexgrid.TilePos, radius float64, width float32, col color.RGBA) {
	cx, cy := tilePixel(p)
	for i := 0; i < 6; i++ {
		a0 := math.Pi / 3 * float64(i)
		a1 := math.Pi / 3 * float64(i+1)
		vector.StrokeLine(dst,
			float32(cx+radius*math.Cos(a0)), float32(cy+radius*math.Sin(a0)),
			float32(cx+radius*math.Cos(a1)), float32(cy+radius*math.Sin(a1)),
			width, col, true)
	}
}

func drawBar(dst *ebiten.Image, x, y, w, frac float32, col color.RGBA) {
	vector.FillRect(dst, x, y, w, 3, color.RGBA{R: 20, G: 20, B: 20, A: 200}, false)
	vector.FillRect(dst, x, y, w*max(0, min(1, frac)), 3, col, false)
}

func sqr(v float64) float64 { return v * v }

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// GameWidth returns the playfield width (excluding log panel).
func (g *Game) GameWidth() int {
	return g.gameWidth
}
