// Package tiled reads the subset of the Tiled JSON map format the game
// uses: tile layers for terrain and object groups for zones, lights and
// spawn markers.
package tiled

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Property is one typed key/value pair attached to a map object.
type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Object is a placed shape in an object group. Tiled 1.9 renamed the
// object "type" field to "class"; both are accepted.
type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Class      string     `json:"class"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Point      bool       `json:"point"`
	Properties []Property `json:"properties"`
}

// Kind returns the object's type, falling back to the newer class field.
func (o Object) Kind() string {
	if o.Type != "" {
		return o.Type
	}
	return o.Class
}

// Property returns the named property's raw value, matched without case.
func (o Object) Property(name string) (any, bool) {
	for _, p := range o.Properties {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return nil, false
}

// StringProperty returns the named property rendered as a string. Numbers
// and booleans are formatted the way a map author would have typed them.
func (o Object) StringProperty(name string) (string, bool) {
	v, ok := o.Property(name)
	if !ok {
		return "", false
	}
	return formatValue(v), true
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Layer is either a tile layer (Data populated) or an object group
// (Objects populated), per its Type field.
type Layer struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Data    []int    `json:"data"`
	Objects []Object `json:"objects"`
}

// Map is the decoded level file.
type Map struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	TileWidth  int     `json:"tilewidth"`
	TileHeight int     `json:"tileheight"`
	Layers     []Layer `json:"layers"`
}

// Decode parses and validates a Tiled JSON document.
func Decode(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("decode map: bad dimensions %dx%d", m.Width, m.Height)
	}
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, fmt.Errorf("decode map: bad tile size %dx%d", m.TileWidth, m.TileHeight)
	}
	for _, l := range m.Layers {
		if l.Type != "tilelayer" {
			continue
		}
		w, h := l.Width, l.Height
		if w == 0 && h == 0 {
			w, h = m.Width, m.Height
		}
		if len(l.Data) != w*h {
			return nil, fmt.Errorf("decode map: layer %q has %d tiles, want %d",
				l.Name, len(l.Data), w*h)
		}
	}
	return &m, nil
}

// ObjectLayer returns the objects of the named object group. Layer names
// match case-insensitively; a missing layer returns ok=false rather than
// an error so optional layers stay optional.
func (m *Map) ObjectLayer(name string) ([]Object, bool) {
	for i := range m.Layers {
		l := &m.Layers[i]
		if l.Type == "objectgroup" && strings.EqualFold(l.Name, name) {
			return l.Objects, true
		}
	}
	return nil, false
}

// TileLayer returns the named tile layer.
func (m *Map) TileLayer(name string) (*Layer, bool) {
	for i := range m.Layers {
		l := &m.Layers[i]
		if l.Type == "tilelayer" && strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return nil, false
}

// PixelSize returns the map extent in world pixels.
func (m *Map) PixelSize() (w, h int) {
	return m.Width * m.TileWidth, m.Height * m.TileHeight
}
