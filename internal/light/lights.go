package light

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Point light defaults, used when a map object omits or mangles a property.
const (
	DefaultLightRadius    = 120.0
	DefaultLightIntensity = 0.8
)

// RGB is a plain 8-bit colour triple. The core stays renderer-agnostic, so
// no image/color dependency leaks out of here.
type RGB struct {
	R, G, B uint8
}

// PointLight is one static glow source placed by the map.
type PointLight struct {
	Name      string
	Pos       mgl64.Vec2
	Color     RGB
	Radius    float64
	Intensity float64
}

// BuildPointLights constructs lights from point objects. Area objects are
// centred on their rectangle. Bad property values fall back to defaults
// with a warning rather than dropping the light.
func BuildPointLights(objs []RawObject, logger *slog.Logger) []PointLight {
	if logger == nil {
		logger = slog.Default()
	}
	if len(objs) == 0 {
		return nil
	}
	lights := make([]PointLight, 0, len(objs))
	for _, o := range objs {
		l := PointLight{
			Name:      o.Name,
			Pos:       mgl64.Vec2{o.X + o.Width/2, o.Y + o.Height/2},
			Color:     RGB{R: 255, G: 244, B: 214},
			Radius:    DefaultLightRadius,
			Intensity: DefaultLightIntensity,
		}
		if v, ok := o.Property("color"); ok {
			c, err := parseHexColor(v)
			if err != nil {
				logger.Warn("bad light color, using default", "name", o.Name, "value", v)
			} else {
				l.Color = c
			}
		}
		if v, ok := o.Property("radius"); ok {
			r, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || r <= 0 {
				logger.Warn("bad light radius, using default", "name", o.Name, "value", v)
			} else {
				l.Radius = r
			}
		}
		if v, ok := o.Property("intensity"); ok {
			in, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || in < 0 {
				logger.Warn("bad light intensity, using default", "name", o.Name, "value", v)
			} else {
				if in > 1 {
					in = 1
				}
				l.Intensity = in
			}
		}
		lights = append(lights, l)
	}
	return lights
}

// parseHexColor accepts "#RRGGBB" or "RRGGBB".
func parseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("parse hex color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}
