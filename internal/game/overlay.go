package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Depth-Sense/internal/light"
)

// DarknessOverlay draws the screen-space darkness sheet. Each frame the
// sheet is filled at the current darkness alpha and feathered holes are
// erased where light reaches, so the world drawn beneath shows through.
type DarknessOverlay struct {
	buf  *ebiten.Image
	w, h int

	glowCache map[int]*ebiten.Image
	masks     map[string]*ebiten.Image
	imgOp     ebiten.DrawImageOptions
}

// NewDarknessOverlay creates an overlay covering a (w x h) viewport.
func NewDarknessOverlay(w, h int) *DarknessOverlay {
	ov := &DarknessOverlay{
		glowCache: make(map[int]*ebiten.Image),
		masks:     make(map[string]*ebiten.Image),
	}
	ov.Resize(w, h)
	return ov
}

// Resize rebuilds the sheet when the viewport changes size.
func (ov *DarknessOverlay) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == ov.w && h == ov.h) {
		return
	}
	if ov.buf != nil {
		ov.buf.Deallocate()
	}
	ov.buf = ebiten.NewImage(w, h)
	ov.w, ov.h = w, h
}

// RegisterMask installs a custom lamp mask under the given key.
func (ov *DarknessOverlay) RegisterMask(key string, img image.Image) {
	ov.masks[key] = ebiten.NewImageFromImage(img)
}

// glow returns a cached feathered disc texture, keyed by integer radius.
func (ov *DarknessOverlay) glow(radius float64) *ebiten.Image {
	key := int(math.Ceil(radius))
	if key < 1 {
		key = 1
	}
	if img, ok := ov.glowCache[key]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(buildGlowDisc(key))
	ov.glowCache[key] = img
	return img
}

// lampMask resolves the beam texture for the given geometry. Unregistered
// keys fall back to the procedural cone.
func (ov *DarknessOverlay) lampMask(g light.MaskGeometry) *ebiten.Image {
	if g.MaskKey != "" {
		if img, ok := ov.masks[g.MaskKey]; ok {
			return img
		}
	}
	if img, ok := ov.masks["cone"]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(buildConeMask(int(g.ConeLength), int(g.ConeHalfWidth)))
	ov.masks["cone"] = img
	return img
}

// Compose redraws the darkness sheet and blits it over the screen. The
// sheet is pinned to the viewport; world positions are shifted by the
// camera before punching holes. beamLen shortens the lamp cone where
// terrain cuts the beam.
func (ov *DarknessOverlay) Compose(screen *ebiten.Image, alpha float64, lights []light.PointLight, lamp *light.MaskGeometry, beamLen, camX, camY float64) {
	if alpha < 0.001 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	ov.buf.Clear()
	ov.buf.Fill(color.NRGBA{R: 2, G: 6, B: 14, A: uint8(alpha * 255)})

	op := &ov.imgOp
	for i := range lights {
		l := &lights[i]
		sx := l.Pos.X() - camX
		sy := l.Pos.Y() - camY
		if sx < -l.Radius || sy < -l.Radius ||
			sx > float64(ov.w)+l.Radius || sy > float64(ov.h)+l.Radius {
			continue
		}
		img := ov.glow(l.Radius)
		size := float64(img.Bounds().Dx())
		want := l.Radius * 2

		// Erase pass: punch the pool of light out of the sheet.
		op.GeoM.Reset()
		op.GeoM.Scale(want/size, want/size)
		op.GeoM.Translate(sx-l.Radius, sy-l.Radius)
		op.ColorScale.Reset()
		in := float32(l.Intensity)
		op.ColorScale.Scale(in, in, in, in)
		op.Blend = ebiten.BlendDestinationOut
		ov.buf.DrawImage(img, op)

		// Tint pass: a faint additive wash in the light's colour.
		op.GeoM.Reset()
		op.GeoM.Scale(want/size, want/size)
		op.GeoM.Translate(sx-l.Radius, sy-l.Radius)
		op.ColorScale.Reset()
		ta := float32(l.Intensity) * 0.25
		op.ColorScale.Scale(
			float32(l.Color.R)/255*ta,
			float32(l.Color.G)/255*ta,
			float32(l.Color.B)/255*ta,
			ta)
		op.Blend = ebiten.BlendLighter
		ov.buf.DrawImage(img, op)
	}

	if lamp != nil {
		img := ov.lampMask(*lamp)
		w := float64(img.Bounds().Dx())
		h := float64(img.Bounds().Dy())
		sx := lamp.Origin.X() - camX
		sy := lamp.Origin.Y() - camY

		reach := 1.0
		if beamLen > 0 && beamLen < lamp.ConeLength {
			reach = beamLen / lamp.ConeLength
		}

		op.GeoM.Reset()
		op.GeoM.Scale(reach*lamp.ConeLength/w, lamp.ConeHalfWidth*2/h)
		op.GeoM.Translate(0, -lamp.ConeHalfWidth)
		op.GeoM.Rotate(lamp.Rotation)
		op.GeoM.Translate(sx, sy)
		op.ColorScale.Reset()
		op.Blend = ebiten.BlendDestinationOut
		ov.buf.DrawImage(img, op)
	}

	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = ebiten.BlendSourceOver
	screen.DrawImage(ov.buf, op)
}
