package game

import (
	"image"
	"image/color"
	"math"

	"github.com/Garsondee/Depth-Sense/internal/light"
)

// Placeholder sprite sizes in pixels.
const (
	diverSpriteW = 32
	diverSpriteH = 20
	hazardSprite = 24
	bubbleSprite = 16
)

// buildDiverSprite paints the right-facing diver placeholder. The lamp
// marker pixel sits at the torch hand; the beam origin is scanned from it
// rather than hardcoded against this particular art.
func buildDiverSprite() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, diverSpriteW, diverSpriteH))

	body := color.RGBA{R: 46, G: 96, B: 118, A: 255}
	suit := color.RGBA{R: 32, G: 66, B: 84, A: 255}
	visor := color.RGBA{R: 196, G: 224, B: 236, A: 255}
	tank := color.RGBA{R: 168, G: 168, B: 150, A: 255}

	// Torso ellipse.
	fillEllipse(img, 15, 10, 10, 6, body)
	// Fins trailing left.
	fillEllipse(img, 4, 10, 5, 3, suit)
	// Head and visor at the leading edge.
	fillEllipse(img, 25, 9, 5, 4, suit)
	fillEllipse(img, 27, 9, 2, 2, visor)
	// Air tank on the back.
	fillRect(img, 12, 3, 8, 3, tank)

	// Lamp marker: one magenta pixel at the torch hand.
	img.SetRGBA(28, 13, light.MarkerColor)
	return img
}

// buildJellyfishSprite paints the drifting jellyfish placeholder.
func buildJellyfishSprite() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, hazardSprite, hazardSprite))
	bell := color.RGBA{R: 190, G: 120, B: 210, A: 220}
	frill := color.RGBA{R: 150, G: 90, B: 176, A: 200}

	fillEllipse(img, 12, 8, 9, 6, bell)
	for i := 0; i < 5; i++ {
		x := 5 + i*4
		fillRect(img, x, 13, 1, 8, frill)
	}
	return img
}

// buildMineSprite paints the drifting contact mine placeholder.
func buildMineSprite() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, hazardSprite, hazardSprite))
	shell := color.RGBA{R: 60, G: 60, B: 64, A: 255}
	spike := color.RGBA{R: 100, G: 98, B: 92, A: 255}

	fillEllipse(img, 12, 12, 7, 7, shell)
	for _, d := range [][2]int{{0, -10}, {0, 10}, {-10, 0}, {10, 0}, {-7, -7}, {7, -7}, {-7, 7}, {7, 7}} {
		fillRect(img, 12+d[0]-1, 12+d[1]-1, 2, 2, spike)
	}
	return img
}

// buildBubbleSprite paints the air pocket placeholder.
func buildBubbleSprite() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bubbleSprite, bubbleSprite))
	rim := color.RGBA{R: 210, G: 236, B: 248, A: 200}
	fill := color.RGBA{R: 140, G: 190, B: 220, A: 90}

	fillEllipse(img, 8, 8, 7, 7, rim)
	fillEllipse(img, 8, 8, 5, 5, fill)
	return img
}

// buildConeMask paints the lamp beam cut-out: a right-pointing triangle
// with feathered edges and a gentle falloff towards the tip. Only the
// alpha channel matters to the overlay's erase blend.
func buildConeMask(length, halfWidth int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, length, halfWidth*2))
	for y := 0; y < halfWidth*2; y++ {
		for x := 0; x < length; x++ {
			fx := float64(x) / float64(length)
			halfAt := 4 + fx*(float64(halfWidth)-4)
			dy := math.Abs(float64(y) - float64(halfWidth))
			if dy > halfAt {
				continue
			}
			edge := 1 - dy/halfAt
			a := smoothstep(0, 0.3, edge) * (1 - smoothstep(0.7, 1, fx))
			v := uint8(a * 255)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return img
}

// buildGlowDisc paints a white disc whose alpha feathers to zero at the
// rim, used for point light holes and the wide halo mask.
func buildGlowDisc(radius int) *image.RGBA {
	size := radius * 2
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - float64(radius)
			dy := float64(y) - float64(radius)
			d := math.Sqrt(dx*dx+dy*dy) / float64(radius)
			if d >= 1 {
				continue
			}
			a := 1 - smoothstep(0.55, 1, d)
			v := uint8(a * 255)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return img
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if image.Pt(xx, yy).In(img.Bounds()) {
				img.SetRGBA(xx, yy, c)
			}
		}
	}
}

func fillEllipse(img *image.RGBA, cx, cy, rx, ry int, c color.RGBA) {
	for yy := cy - ry; yy <= cy+ry; yy++ {
		for xx := cx - rx; xx <= cx+rx; xx++ {
			dx := float64(xx-cx) / float64(rx)
			dy := float64(yy-cy) / float64(ry)
			if dx*dx+dy*dy <= 1 && image.Pt(xx, yy).In(img.Bounds()) {
				img.SetRGBA(xx, yy, c)
			}
		}
	}
}
