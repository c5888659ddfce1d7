package game

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Garsondee/Depth-Sense/internal/light"
)

const (
	hudBarW    = 160
	hudBarH    = 10
	hudPad     = 10
	hudLineGap = 18
)

// HUD renders the diver's vitals and the lighting read-outs.
type HUD struct {
	face      *text.GoTextFace
	titleFace *text.GoTextFace
}

// NewHUD loads the embedded UI fonts.
func NewHUD() (*HUD, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load ui font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load ui title font: %w", err)
	}
	return &HUD{
		face:      &text.GoTextFace{Source: regular, Size: 12},
		titleFace: &text.GoTextFace{Source: bold, Size: 22},
	}, nil
}

func (h *HUD) label(screen *ebiten.Image, s string, x, y float64, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, h.face, op)
}

// bar draws a framed meter filled to frac.
func (h *HUD) bar(screen *ebiten.Image, x, y float64, frac float64, fill color.RGBA) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	vector.FillRect(screen, float32(x), float32(y), hudBarW, hudBarH, color.RGBA{R: 8, G: 14, B: 20, A: 220}, false)
	vector.FillRect(screen, float32(x), float32(y), float32(hudBarW*frac), hudBarH, fill, false)
	vector.StrokeRect(screen, float32(x), float32(y), hudBarW, hudBarH, 1, color.RGBA{R: 90, G: 120, B: 140, A: 255}, false)
}

// Draw renders the HUD along the top-left edge of the viewport.
func (h *HUD) Draw(screen *ebiten.Image, d *Diver, snap light.Snapshot, tick int) {
	x := float64(hudPad)
	y := float64(hudPad)

	// Air gauge. It pulses red once the reserve runs low.
	airCol := color.RGBA{R: 70, G: 190, B: 210, A: 255}
	if d.Tank.Empty() {
		airCol = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	} else if d.Tank.Low() && (tick/20)%2 == 0 {
		airCol = color.RGBA{R: 230, G: 120, B: 50, A: 255}
	}
	h.label(screen, "AIR", x, y-3, color.White)
	h.bar(screen, x+38, y, d.Tank.Fraction(), airCol)
	h.label(screen, fmt.Sprintf("%3.0f", d.Tank.Current()), x+38+hudBarW+6, y-3, color.White)
	y += hudLineGap

	healthCol := color.RGBA{R: 110, G: 200, B: 110, A: 255}
	if d.Health() < DiverMaxHealth/4 {
		healthCol = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	}
	h.label(screen, "VITAL", x, y-3, color.White)
	h.bar(screen, x+38, y, d.Health()/DiverMaxHealth, healthCol)
	y += hudLineGap

	// Depth and darkness read-outs.
	h.label(screen, fmt.Sprintf("DEPTH %4.0f m", d.DepthMeters()), x, y-3, color.RGBA{R: 170, G: 200, B: 220, A: 255})
	y += hudLineGap

	zone := snap.ZoneName
	if zone == "" {
		zone = "open water"
	}
	h.label(screen, fmt.Sprintf("WATER %s  %3.0f%%", zone, snap.Current*100), x, y-3, color.RGBA{R: 150, G: 170, B: 200, A: 255})
	y += hudLineGap

	lamp := "LAMP off"
	lampCol := color.RGBA{R: 120, G: 120, B: 120, A: 255}
	if snap.FlashlightOn {
		lamp = "LAMP on"
		if snap.MaskKey != "" {
			lamp = "LAMP on " + snap.MaskKey
		}
		lampCol = color.RGBA{R: 240, G: 210, B: 110, A: 255}
	}
	h.label(screen, lamp, x, y-3, lampCol)

	if !d.Alive() {
		h.drawGameOver(screen)
	}
}

// drawGameOver dims the viewport and centres the end-of-dive text.
func (h *HUD) drawGameOver(screen *ebiten.Image) {
	b := screen.Bounds()
	w := float32(b.Dx())
	hh := float32(b.Dy())
	vector.FillRect(screen, 0, 0, w, hh, color.RGBA{R: 4, G: 2, B: 8, A: 170}, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(b.Dx())/2, float64(b.Dy())/2-20)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 220, G: 80, B: 80, A: 255})
	op.LayoutOptions.PrimaryAlign = text.AlignCenter
	text.Draw(screen, "THE SEA KEEPS YOU", h.titleFace, op)

	op = &text.DrawOptions{}
	op.GeoM.Translate(float64(b.Dx())/2, float64(b.Dy())/2+14)
	op.ColorScale.ScaleWithColor(color.White)
	op.LayoutOptions.PrimaryAlign = text.AlignCenter
	text.Draw(screen, "press R to dive again", h.face, op)
}
