package light

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Beam defaults. The cone is described apex-first, pointing along +x; the
// renderer mirrors it when the diver faces left.
const (
	DefaultConeLength    = 260.0
	DefaultConeHalfWidth = 78.0

	// Fallback beam mount, relative to sprite centre, used when the
	// sprite carries no marker pixel.
	FallbackMountX = 14.0
	FallbackMountY = -2.0
)

// MarkerColor is the sentinel pixel painted into the diver sprite where
// the lamp sits. Magenta never appears in real art.
var MarkerColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// Flashlight tracks lamp state and where the beam attaches to the sprite.
// Facing is binary: the beam points straight left or straight right.
type Flashlight struct {
	enabled bool
	mount   mgl64.Vec2
	scanned bool
	maskKey string

	ConeLength    float64
	ConeHalfWidth float64

	logger *slog.Logger
}

// NewFlashlight returns a lamp that starts off, with the fallback mount
// until a sprite scan replaces it.
func NewFlashlight(logger *slog.Logger) *Flashlight {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flashlight{
		mount:         mgl64.Vec2{FallbackMountX, FallbackMountY},
		ConeLength:    DefaultConeLength,
		ConeHalfWidth: DefaultConeHalfWidth,
		logger:        logger,
	}
}

// Enabled reports whether the lamp is on.
func (f *Flashlight) Enabled() bool { return f.enabled }

// Toggle flips the lamp and returns the new state. Toggling twice always
// restores the prior state regardless of mask or facing.
func (f *Flashlight) Toggle() bool {
	f.enabled = !f.enabled
	return f.enabled
}

// SetEnabled forces the lamp state.
func (f *Flashlight) SetEnabled(on bool) { f.enabled = on }

// SetMask selects a named mask image instead of the procedural cone.
// An empty key restores the cone.
func (f *Flashlight) SetMask(key string) { f.maskKey = key }

// MaskKey returns the selected mask image key, empty for the cone.
func (f *Flashlight) MaskKey() string { return f.maskKey }

// Mount returns the beam attachment offset relative to the sprite centre,
// for a right-facing sprite.
func (f *Flashlight) Mount() mgl64.Vec2 { return f.mount }

// ResolveMount scans the sprite once for the marker pixel and caches the
// lamp offset. Sprites without a marker keep the fallback, with a warning.
func (f *Flashlight) ResolveMount(sprite image.Image) {
	if f.scanned || sprite == nil {
		return
	}
	f.scanned = true
	b := sprite.Bounds()
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(sprite.At(x, y)).(color.RGBA)
			if c == MarkerColor {
				f.mount = mgl64.Vec2{float64(x) - cx, float64(y) - cy}
				return
			}
		}
	}
	f.logger.Warn("diver sprite has no lamp marker pixel, using fallback mount",
		"fallbackX", FallbackMountX, "fallbackY", FallbackMountY)
}

// MaskGeometry is everything the renderer needs to cut the beam out of
// the darkness overlay for one frame.
type MaskGeometry struct {
	Origin        mgl64.Vec2 // beam apex in world coordinates
	Rotation      float64    // 0 facing right, pi facing left
	FacingLeft    bool
	MaskKey       string // empty selects the procedural cone
	ConeLength    float64
	ConeHalfWidth float64
}

// Project computes the frame's mask geometry for a sprite centred at pos.
// The mount offset mirrors horizontally with facing.
func (f *Flashlight) Project(pos mgl64.Vec2, facingLeft bool) MaskGeometry {
	off := f.mount
	rot := 0.0
	if facingLeft {
		off[0] = -off[0]
		rot = math.Pi
	}
	return MaskGeometry{
		Origin:        pos.Add(off),
		Rotation:      rot,
		FacingLeft:    facingLeft,
		MaskKey:       f.maskKey,
		ConeLength:    f.ConeLength,
		ConeHalfWidth: f.ConeHalfWidth,
	}
}

// Vertices returns the beam triangle's apex and far corners in world
// coordinates, for debug drawing and containment checks.
func (g MaskGeometry) Vertices() (apex, upper, lower mgl64.Vec2) {
	dir := 1.0
	if g.FacingLeft {
		dir = -1
	}
	apex = g.Origin
	upper = apex.Add(mgl64.Vec2{dir * g.ConeLength, -g.ConeHalfWidth})
	lower = apex.Add(mgl64.Vec2{dir * g.ConeLength, g.ConeHalfWidth})
	return apex, upper, lower
}
