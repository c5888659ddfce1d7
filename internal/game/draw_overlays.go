package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Depth-Sense/internal/light"
)

// zoneLevelColour maps a darkness level to its debug outline colour.
func zoneLevelColour(l light.DarknessLevel) color.RGBA {
	switch l {
	case light.LevelDim:
		return color.RGBA{R: 230, G: 200, B: 60, A: 200}
	case light.LevelDark:
		return color.RGBA{R: 235, G: 140, B: 40, A: 200}
	case light.LevelBlack:
		return color.RGBA{R: 230, G: 60, B: 60, A: 200}
	default:
		return color.RGBA{R: 70, G: 200, B: 120, A: 200}
	}
}

// drawLightingDebug renders the F3 overlay: zone outlines, point light
// radii, the lamp beam triangle, the sampler's probe points and a
// status strip for the darkness state machine.
func (g *Game) drawLightingDebug(dst *ebiten.Image) {
	g.drawZoneOutlines(dst)
	g.drawLightMarkers(dst)
	g.drawBeamOutline(dst)
	g.drawSampleMarkers(dst)
	g.drawLightingStatus(dst)
}

func (g *Game) drawZoneOutlines(dst *ebiten.Image) {
	vw := float64(g.viewportW())
	vh := float64(g.height)
	for _, z := range g.engine.Zones().Zones() {
		x := z.Bounds.X - g.camX
		y := z.Bounds.Y - g.camY
		if x+z.Bounds.W < 0 || y+z.Bounds.H < 0 || x > vw || y > vh {
			continue
		}
		col := zoneLevelColour(z.Level)
		vector.StrokeRect(dst, float32(x), float32(y), float32(z.Bounds.W), float32(z.Bounds.H), 1, col, false)
		label := fmt.Sprintf("#%d %s [%s]", z.ID, z.Name, z.Level)
		ebitenutil.DebugPrintAt(dst, label, int(x)+4, int(y)+4)
	}
}

func (g *Game) drawLightMarkers(dst *ebiten.Image) {
	for _, l := range g.engine.Lights() {
		x := float32(l.Pos[0] - g.camX)
		y := float32(l.Pos[1] - g.camY)
		col := color.RGBA{R: l.Color.R, G: l.Color.G, B: l.Color.B, A: 160}
		vector.StrokeCircle(dst, x, y, float32(l.Radius), 1, col, true)
		vector.FillCircle(dst, x, y, 3, col, true)
		ebitenutil.DebugPrintAt(dst, l.Name, int(x)+6, int(y)-6)
	}
}

func (g *Game) drawBeamOutline(dst *ebiten.Image) {
	geo, ok := g.engine.Mask()
	if !ok {
		return
	}
	apex, upper, lower := geo.Vertices()
	ax := float32(apex[0] - g.camX)
	ay := float32(apex[1] - g.camY)
	ux := float32(upper[0] - g.camX)
	uy := float32(upper[1] - g.camY)
	lx := float32(lower[0] - g.camX)
	ly := float32(lower[1] - g.camY)
	col := color.RGBA{R: 255, G: 0, B: 255, A: 200}
	vector.StrokeLine(dst, ax, ay, ux, uy, 1, col, true)
	vector.StrokeLine(dst, ax, ay, lx, ly, 1, col, true)
	vector.StrokeLine(dst, ux, uy, lx, ly, 1, col, true)
}

func (g *Game) drawSampleMarkers(dst *ebiten.Image) {
	col := color.RGBA{R: 120, G: 220, B: 255, A: 220}
	for _, p := range g.engine.SamplePoints() {
		x := float32(p[0] - g.camX)
		y := float32(p[1] - g.camY)
		vector.StrokeLine(dst, x-3, y, x+3, y, 1, col, false)
		vector.StrokeLine(dst, x, y-3, x, y+3, 1, col, false)
	}
}

// drawLightingStatus prints the state machine readout and a transition
// progress bar along the bottom of the viewport.
func (g *Game) drawLightingStatus(dst *ebiten.Image) {
	snap := g.engine.Snapshot()

	const barW, barH = 200, 6
	x := 10
	y := g.height - 58

	vector.FillRect(dst, float32(x-4), float32(y-4), barW+120, 52, color.RGBA{R: 4, G: 8, B: 12, A: 210}, false)

	zone := "none"
	if snap.Zone >= 0 {
		zone = fmt.Sprintf("#%d %s", snap.Zone, snap.ZoneName)
	}
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("zone %s  dark %.3f -> %.3f", zone, snap.Current, snap.Target), x, y)
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("t=%.1fs  zones %d  lights %d  lamp %v",
		snap.NowMs/1000, snap.ZoneCount, snap.LightCount, snap.FlashlightOn), x, y+12)

	vector.FillRect(dst, float32(x), float32(y+28), barW, barH, color.RGBA{R: 20, G: 30, B: 40, A: 255}, false)
	if snap.InTransition {
		fill := float32(math.Min(1, math.Max(0, snap.Progress)))
		vector.FillRect(dst, float32(x), float32(y+28), barW*fill, barH, color.RGBA{R: 90, G: 180, B: 220, A: 255}, false)
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%3.0f%% of %.1fs", snap.Progress*100, snap.DurationMs/1000), x+barW+6, y+24)
	} else {
		ebitenutil.DebugPrintAt(dst, "settled", x+barW+6, y+24)
	}
	vector.StrokeRect(dst, float32(x), float32(y+28), barW, barH, 1, color.RGBA{R: 80, G: 110, B: 130, A: 255}, false)
}
