package game

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Depth-Sense/internal/light"
)

const (
	// ScreenWidth and ScreenHeight are the initial window size. The
	// window is resizable; Layout tracks the real size afterwards.
	ScreenWidth  = 1280
	ScreenHeight = 720

	minWidth  = 640
	minHeight = 360

	simDt   = 1.0 / 60.0
	simDtMs = 1000.0 / 60.0

	// Alternate lamp beam selectable with L: a soft halo instead of the
	// directional cone.
	haloMaskKey    = "halo"
	haloMaskRadius = 64
)

// bubble is a cosmetic exhaust particle rising from the diver.
type bubble struct {
	x, y float64
	vy   float64
	life float64
}

// Game wires the dive together: terrain, the diver, hazards, air
// pockets, the lighting engine and the panels around the viewport.
// It implements ebiten.Game and receives the engine's lighting events.
type Game struct {
	logger *slog.Logger
	level  *Level
	tm     *TileMap
	seed   int64

	diver   *Diver
	hazards *HazardSystem
	engine  *light.Engine
	events  *EventLog

	overlay *DarknessOverlay
	hud     *HUD

	terrainImg *ebiten.Image
	diverImg   *ebiten.Image
	jellyImg   *ebiten.Image
	mineImg    *ebiten.Image
	bubbleImg  *ebiten.Image

	camX, camY    float64
	width, height int

	bubbles   []bubble
	bubbleRng *rand.Rand

	tick      int
	paused    bool
	showDebug bool
	prevKeys  map[ebiten.Key]bool

	lowAirLogged bool
	airOutLogged bool
	deathLogged  bool
}

// New builds a game around the bundled level. The hazard seed comes
// from the clock so spawns differ between runs.
func New(logger *slog.Logger) (*Game, error) {
	lv, err := LoadLevel1(logger)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	return NewWithLevel(logger, lv, time.Now().UnixNano())
}

// NewWithLevel builds a game around an already-loaded level.
func NewWithLevel(logger *slog.Logger, lv *Level, seed int64) (*Game, error) {
	hud, err := NewHUD()
	if err != nil {
		return nil, err
	}
	g := &Game{
		logger:    logger,
		hud:       hud,
		width:     ScreenWidth,
		height:    ScreenHeight,
		prevKeys:  map[ebiten.Key]bool{},
		bubbleRng: rand.New(rand.NewSource(seed ^ 0x6b75)), // #nosec G404 -- game only
	}
	g.install(lv, seed)
	return g, nil
}

// install binds a level to fresh runtime state. Restart goes through
// here too, so everything per-dive is rebuilt and pockets refill.
func (g *Game) install(lv *Level, seed int64) {
	g.level = lv
	g.tm = lv.Terrain
	g.seed = seed

	g.diver = NewDiver(lv.SpawnX, lv.SpawnY)
	g.events = NewEventLog()

	g.engine = light.NewEngine(g.logger, g, g.diver, g)
	g.engine.ProcessZones(lv.Zones)
	g.engine.ProcessLights(lv.Lights)
	g.engine.EnableDebug(g.showDebug)
	g.engine.Flashlight().ResolveMount(buildDiverSprite())

	g.hazards = NewHazardSystem(g.tm, seed)
	for _, p := range lv.Pockets {
		p.Reset()
		g.hazards.AddPocket(p)
	}

	if g.terrainImg != nil {
		g.terrainImg.Deallocate()
		g.terrainImg = nil
	}

	g.tick = 0
	g.bubbles = nil
	g.lowAirLogged = false
	g.airOutLogged = false
	g.deathLogged = false
	g.updateCamera()
	g.events.Add(0, "dive", fmt.Sprintf("descending into %s", lv.Name))
}

func (g *Game) viewportW() int { return g.width - logPanelWidth }

// ViewportSize reports the world-view area the darkness overlay covers.
func (g *Game) ViewportSize() (int, int) { return g.viewportW(), g.height }

// --- Lighting events ---

func (g *Game) ZoneEntered(z light.Zone, _ float64) {
	name := z.Name
	if name == "" {
		name = "unnamed water"
	}
	g.events.Add(g.tick, "zone", fmt.Sprintf("entered %s (%s)", name, z.Level))
}

func (g *Game) TransitionStarted(from, target, durationMs float64) {
	g.events.Add(g.tick, "zone", fmt.Sprintf("light shifting %.2f to %.2f over %.1fs", from, target, durationMs/1000))
}

func (g *Game) TransitionCompleted(level float64) {
	g.events.Add(g.tick, "zone", fmt.Sprintf("light settled at %.2f", level))
}

func (g *Game) FlashlightToggled(on bool) {
	if on {
		g.events.Add(g.tick, "lamp", "head lamp on")
	} else {
		g.events.Add(g.tick, "lamp", "head lamp off")
	}
}

// --- Input ---

var watchedKeys = []ebiten.Key{
	ebiten.KeyF, ebiten.KeyL, ebiten.KeyE, ebiten.KeyR, ebiten.KeyP, ebiten.KeyC, ebiten.KeyF3,
}

func (g *Game) justPressed(k ebiten.Key) bool {
	return ebiten.IsKeyPressed(k) && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	if g.justPressed(ebiten.KeyF) && g.diver.Alive() {
		g.engine.ToggleFlashlight()
	}
	if g.justPressed(ebiten.KeyL) && g.diver.Alive() {
		if g.engine.Flashlight().MaskKey() == "" {
			g.engine.SetFlashlightMask(haloMaskKey)
			g.events.Add(g.tick, "lamp", "lamp beam: halo")
		} else {
			g.engine.SetFlashlightMask("")
			g.events.Add(g.tick, "lamp", "lamp beam: cone")
		}
	}
	if g.justPressed(ebiten.KeyE) {
		g.hazards.FireSpear(g.diver, g.events, g.tick)
	}
	if g.justPressed(ebiten.KeyR) {
		g.install(g.level, time.Now().UnixNano())
	}
	if g.justPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.justPressed(ebiten.KeyC) {
		g.copyDebugReport()
	}
	if g.justPressed(ebiten.KeyF3) {
		g.showDebug = !g.showDebug
		g.engine.EnableDebug(g.showDebug)
	}
	for _, k := range watchedKeys {
		g.prevKeys[k] = ebiten.IsKeyPressed(k)
	}
}

func readMoveInput() DiverInput {
	var in DiverInput
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.MoveX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.MoveY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.MoveY++
	}
	in.Dash = ebiten.IsKeyPressed(ebiten.KeySpace) ||
		ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	return in
}

// --- Simulation ---

func (g *Game) Update() error {
	g.handleInput()
	if g.paused {
		return nil
	}
	g.simTick()
	return nil
}

func (g *Game) simTick() {
	g.tick++

	// 1. Player intent.
	in := readMoveInput()

	// 2. Diver movement and survival.
	if g.diver.Update(simDt, in, g.tm) {
		g.events.Add(g.tick, "dive", "dash burst")
	}

	// 3. Lighting follows the diver. Engine events land in the log.
	g.engine.Update(simDtMs)

	// 4. Pockets regenerate, hazards move and collide.
	for _, p := range g.level.Pockets {
		p.Update(simDt)
	}
	g.hazards.Update(g.tick, simDt, g.diver, g.events)

	// 5. Cosmetic exhaust bubbles.
	g.updateBubbles()

	// 6. Survival edges worth a log line.
	g.noteSurvivalEvents()

	// 7. Camera follows the diver.
	g.updateCamera()
}

func (g *Game) noteSurvivalEvents() {
	low := g.diver.Tank.Low()
	if low && !g.lowAirLogged {
		g.events.Add(g.tick, "air", "air running low")
	}
	g.lowAirLogged = low

	empty := g.diver.Tank.Empty()
	if empty && !g.airOutLogged {
		g.events.Add(g.tick, "air", "tank empty")
	}
	g.airOutLogged = empty

	if !g.diver.Alive() && !g.deathLogged {
		g.deathLogged = true
		g.events.Add(g.tick, "dive", "the sea keeps its own")
	}
}

func (g *Game) updateBubbles() {
	if g.diver.Alive() && !g.diver.Tank.Empty() && g.tick%24 == 0 {
		mouth := 6.0
		if g.diver.FacingLeft() {
			mouth = -6
		}
		g.bubbles = append(g.bubbles, bubble{
			x:    g.diver.X + mouth,
			y:    g.diver.Y - 4,
			vy:   -30 - g.bubbleRng.Float64()*20,
			life: 2.5,
		})
	}
	alive := g.bubbles[:0]
	for _, b := range g.bubbles {
		b.life -= simDt
		b.y += b.vy * simDt
		b.x += math.Sin(b.y*0.05) * 10 * simDt
		if b.life > 0 && b.y > 0 && !g.tm.SolidAtWorld(b.x, b.y) {
			alive = append(alive, b)
		}
	}
	g.bubbles = alive
}

func (g *Game) updateCamera() {
	vw, vh := float64(g.viewportW()), float64(g.height)
	ww, wh := g.tm.PixelSize()
	g.camX = clampF(g.diver.X-vw/2, 0, math.Max(0, float64(ww)-vw))
	g.camY = clampF(g.diver.Y-vh/2, 0, math.Max(0, float64(wh)-vh))
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- Rendering ---

// ensureRenderTargets creates GPU-side images on first draw so that
// headless code paths never touch the graphics device.
func (g *Game) ensureRenderTargets() {
	vw, vh := g.viewportW(), g.height
	if g.overlay == nil {
		g.overlay = NewDarknessOverlay(vw, vh)
		g.overlay.RegisterMask(haloMaskKey, buildGlowDisc(haloMaskRadius))
	} else {
		g.overlay.Resize(vw, vh)
	}
	if g.diverImg == nil {
		g.diverImg = ebiten.NewImageFromImage(buildDiverSprite())
		g.jellyImg = ebiten.NewImageFromImage(buildJellyfishSprite())
		g.mineImg = ebiten.NewImageFromImage(buildMineSprite())
		g.bubbleImg = ebiten.NewImageFromImage(buildBubbleSprite())
	}
	if g.terrainImg == nil {
		ww, wh := g.tm.PixelSize()
		g.terrainImg = ebiten.NewImage(ww, wh)
		g.renderTerrain(g.terrainImg)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.ensureRenderTargets()

	vw := g.viewportW()
	view := screen.SubImage(image.Rect(0, 0, vw, g.height)).(*ebiten.Image)
	view.Fill(color.RGBA{R: 3, G: 8, B: 16, A: 255})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-g.camX, -g.camY)
	view.DrawImage(g.terrainImg, op)

	g.drawPockets(view)
	g.drawHazards(view)
	g.drawSpears(view)
	g.drawBubbles(view)
	g.drawDiver(view)

	// Darkness sits over the world and under the panels.
	mask, beam := g.lampGeometry()
	g.overlay.Compose(view, g.engine.Darkness(), g.engine.Lights(), mask, beam, g.camX, g.camY)

	if g.showDebug {
		g.drawLightingDebug(view)
	}
	g.drawVignette(view)

	g.hud.Draw(screen, g.diver, g.engine.Snapshot(), g.tick)
	g.events.Draw(screen, vw, g.height)
}

// lampGeometry returns the beam mask and its rock-clamped length, or
// nil when the lamp is off.
func (g *Game) lampGeometry() (*light.MaskGeometry, float64) {
	geo, ok := g.engine.Mask()
	if !ok {
		return nil, 0
	}
	ex := geo.Origin[0] + math.Cos(geo.Rotation)*geo.ConeLength
	ey := geo.Origin[1] + math.Sin(geo.Rotation)*geo.ConeLength
	cx, cy := ClampSegment(g.tm, geo.Origin[0], geo.Origin[1], ex, ey)
	beam := math.Hypot(cx-geo.Origin[0], cy-geo.Origin[1])
	return &geo, beam
}

// renderTerrain paints the whole map once. Terrain never changes
// during a dive, so the image is reused every frame.
func (g *Game) renderTerrain(dst *ebiten.Image) {
	rows := g.tm.Rows
	for row := 0; row < rows; row++ {
		depth := float64(row) / float64(rows)
		for col := 0; col < g.tm.Cols; col++ {
			k := g.tm.At(col, row)
			var r, gr, b uint8
			if k == TileOpenWater {
				// Open water carries a little depth shading of its own,
				// under whatever the darkness overlay adds.
				r = uint8(10 - 6*depth)
				gr = uint8(36 - 24*depth)
				b = uint8(58 - 34*depth)
			} else {
				r, gr, b = tileBaseColour(k)
			}
			vector.FillRect(dst,
				float32(col*TileSize), float32(row*TileSize), TileSize, TileSize,
				color.RGBA{R: r, G: gr, B: b, A: 255}, false)
		}
	}
}

func (g *Game) drawPockets(dst *ebiten.Image) {
	for _, p := range g.level.Pockets {
		x := float32(p.X - g.camX)
		y := float32(p.Y - g.camY)
		r := float32(p.Radius)
		if x < -r || y < -r || x > float32(g.viewportW())+r || y > float32(g.height)+r {
			continue
		}
		// The inner bubble shrinks as the reserve is breathed down.
		inner := r*0.3 + r*0.5*float32(p.Fill())
		vector.FillCircle(dst, x, y, inner, color.RGBA{R: 170, G: 220, B: 240, A: 80}, true)
		vector.StrokeCircle(dst, x, y, r, 1, color.RGBA{R: 140, G: 200, B: 230, A: 110}, true)
	}
}

func (g *Game) drawHazards(dst *ebiten.Image) {
	for _, hz := range g.hazards.Hazards() {
		img := g.jellyImg
		if hz.Kind == HazardMine {
			img = g.mineImg
		}
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		if hz.Kind == HazardJellyfish {
			// Slow glow pulse.
			a := float32(0.75 + 0.25*math.Sin(float64(g.tick)*0.05))
			op.ColorScale.ScaleAlpha(a)
		}
		op.GeoM.Translate(hz.X-float64(b.Dx())/2-g.camX, hz.Y-float64(b.Dy())/2-g.camY)
		dst.DrawImage(img, op)
	}
}

func (g *Game) drawSpears(dst *ebiten.Image) {
	for _, sp := range g.hazards.Spears() {
		x0 := float32(sp.X - 8 - g.camX)
		x1 := float32(sp.X + 8 - g.camX)
		y := float32(sp.Y - g.camY)
		vector.StrokeLine(dst, x0, y, x1, y, 2, color.RGBA{R: 210, G: 190, B: 120, A: 255}, false)
	}
}

func (g *Game) drawBubbles(dst *ebiten.Image) {
	b := g.bubbleImg.Bounds()
	for _, bu := range g.bubbles {
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(float32(clampF(bu.life, 0, 1)))
		op.GeoM.Translate(bu.x-float64(b.Dx())/2-g.camX, bu.y-float64(b.Dy())/2-g.camY)
		dst.DrawImage(g.bubbleImg, op)
	}
}

func (g *Game) drawDiver(dst *ebiten.Image) {
	b := g.diverImg.Bounds()
	op := &ebiten.DrawImageOptions{}
	if g.diver.FacingLeft() {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(float64(b.Dx()), 0)
	}
	op.GeoM.Translate(g.diver.X-float64(b.Dx())/2-g.camX, g.diver.Y-float64(b.Dy())/2-g.camY)
	if g.diver.Invulnerable() && (g.tick/4)%2 == 0 {
		op.ColorScale.ScaleAlpha(0.35)
	}
	if !g.diver.Alive() {
		op.ColorScale.Scale(0.45, 0.45, 0.6, 1)
	}
	dst.DrawImage(g.diverImg, op)
}

// drawVignette darkens the viewport edges so the world reads as seen
// through a dive mask.
func (g *Game) drawVignette(dst *ebiten.Image) {
	w := float32(g.viewportW())
	h := float32(g.height)
	edge := color.RGBA{R: 1, G: 3, B: 8, A: 90}
	vector.FillRect(dst, 0, 0, w, 24, edge, false)
	vector.FillRect(dst, 0, h-24, w, 24, edge, false)
	vector.FillRect(dst, 0, 0, 24, h, edge, false)
	vector.FillRect(dst, w-24, 0, 24, h, edge, false)
}

// Layout reports the render size. The window is resizable; the world
// viewport takes whatever the log panel leaves.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < minWidth {
		outsideWidth = minWidth
	}
	if outsideHeight < minHeight {
		outsideHeight = minHeight
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.engine.HandleResize()
		if g.overlay != nil {
			g.overlay.Resize(g.viewportW(), g.height)
		}
	}
	return g.width, g.height
}
