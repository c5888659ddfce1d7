// Package light implements the zone-based darkness and flashlight system
// for the dive scenes. It is deliberately free of any rendering dependency:
// the engine consumes raw map geometry and a position feed, and produces
// darkness levels and mask geometry for the scene to composite.
package light

import (
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DarknessLevel is the ordered set of zone darkness classes. Higher values
// are darker; the scalar mapping drives the overlay alpha.
type DarknessLevel int

const (
	LevelDefault DarknessLevel = iota // open water, no overlay
	LevelDim                          // twilight band
	LevelDark                         // cave interiors
	LevelBlack                        // deep trench
)

// Scalar returns the overlay darkness value in [0,1] for the level.
func (l DarknessLevel) Scalar() float64 {
	switch l {
	case LevelDim:
		return 0.4
	case LevelDark:
		return 0.7
	case LevelBlack:
		return 0.9
	default:
		return 0.0
	}
}

func (l DarknessLevel) String() string {
	switch l {
	case LevelDefault:
		return "default"
	case LevelDim:
		return "dim"
	case LevelDark:
		return "dark"
	case LevelBlack:
		return "black"
	default:
		return "unknown"
	}
}

// ParseDarknessLevel maps a map-author string to a level. Matching is
// case-insensitive and tolerates surrounding whitespace.
func ParseDarknessLevel(s string) (DarknessLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "none", "lit":
		return LevelDefault, true
	case "dim":
		return LevelDim, true
	case "dark":
		return LevelDark, true
	case "black":
		return LevelBlack, true
	default:
		return LevelDefault, false
	}
}

// RawProperty is one name/value pair attached to a raw map object.
type RawProperty struct {
	Name  string
	Value string
}

// RawObject is the already-parsed shape the map loader hands to the zone
// and light builders. Point objects carry zero width/height and Point=true.
type RawObject struct {
	Name       string
	Type       string
	X, Y       float64
	Width      float64
	Height     float64
	Point      bool
	Properties []RawProperty
}

// Property returns the named property value, matching case-insensitively.
func (o RawObject) Property(name string) (string, bool) {
	for _, p := range o.Properties {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// Rect is an axis-aligned rectangle in world pixels.
type Rect struct {
	X, Y float64
	W, H float64
}

// Contains reports whether the point lies inside the rectangle.
// Edges are inclusive so a sample landing exactly on a zone border counts.
func (r Rect) Contains(p mgl64.Vec2) bool {
	return p.X() >= r.X && p.X() <= r.X+r.W &&
		p.Y() >= r.Y && p.Y() <= r.Y+r.H
}

// ZoneID identifies a zone by its index in the zone map.
type ZoneID int

// NoZone marks the absence of a zone attribution.
const NoZone ZoneID = -1

// Zone is one immutable darkness region.
type Zone struct {
	ID     ZoneID
	Name   string
	Bounds Rect
	Level  DarknessLevel
}

// ZoneMap is the immutable set of darkness zones for one level, built once
// at load time.
type ZoneMap struct {
	zones []Zone
}

// BuildZoneMap constructs a zone map from raw rectangle objects.
// Malformed objects are skipped with a warning; an empty or missing layer
// yields an empty map (the level simply renders bright). Zone kind is
// resolved by priority: "type"/"lightType" property, then the object's
// type field, then its name; anything unrecognised downgrades to Default.
func BuildZoneMap(objs []RawObject, logger *slog.Logger) *ZoneMap {
	if logger == nil {
		logger = slog.Default()
	}
	zm := &ZoneMap{}
	if len(objs) == 0 {
		logger.Warn("no darkness zone objects found, level will render at full brightness")
		return zm
	}
	for _, o := range objs {
		if o.Point || o.Width <= 0 || o.Height <= 0 {
			logger.Warn("ignoring non-area object in zone layer",
				"name", o.Name, "w", o.Width, "h", o.Height)
			continue
		}
		level := resolveZoneLevel(o, logger)
		id := ZoneID(len(zm.zones))
		zm.zones = append(zm.zones, Zone{
			ID:     id,
			Name:   o.Name,
			Bounds: Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height},
			Level:  level,
		})
	}
	return zm
}

// resolveZoneLevel applies the kind-resolution priority chain.
func resolveZoneLevel(o RawObject, logger *slog.Logger) DarknessLevel {
	candidates := make([]string, 0, 4)
	if v, ok := o.Property("type"); ok {
		candidates = append(candidates, v)
	}
	if v, ok := o.Property("lightType"); ok {
		candidates = append(candidates, v)
	}
	if o.Type != "" {
		candidates = append(candidates, o.Type)
	}
	if o.Name != "" {
		candidates = append(candidates, o.Name)
	}
	for _, c := range candidates {
		if level, ok := ParseDarknessLevel(c); ok {
			return level
		}
	}
	if len(candidates) > 0 {
		logger.Warn("unrecognised zone kind, using default",
			"name", o.Name, "kind", candidates[0])
	}
	return LevelDefault
}

// Len returns the number of zones.
func (m *ZoneMap) Len() int { return len(m.zones) }

// Zone returns the zone with the given id.
func (m *ZoneMap) Zone(id ZoneID) (Zone, bool) {
	if id < 0 || int(id) >= len(m.zones) {
		return Zone{}, false
	}
	return m.zones[int(id)], true
}

// Zones returns the backing zone slice. Callers must not mutate it.
func (m *ZoneMap) Zones() []Zone { return m.zones }

// At returns the darkest zone containing p, testing every zone including
// Default-level ones. The second return is false when no zone contains p.
func (m *ZoneMap) At(p mgl64.Vec2) (Zone, bool) {
	best := Zone{ID: NoZone}
	found := false
	for _, z := range m.zones {
		if !z.Bounds.Contains(p) {
			continue
		}
		if !found || z.Level > best.Level {
			best = z
			found = true
		}
	}
	return best, found
}
