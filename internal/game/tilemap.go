package game

import (
	"fmt"

	"github.com/Garsondee/Depth-Sense/internal/tiled"
)

// TileSize is the world size of one map cell in pixels.
const TileSize = 32

// TileKind identifies the fill of one map cell.
type TileKind uint8

const (
	TileOpenWater   TileKind = iota // Default swimmable water
	TileSand                        // Seabed floor
	TileRock                        // Cave wall / outcrop
	TileCoral                       // Reef growth, solid
	TileWreckHull                   // Sunken hull plating
	TileKelp                        // Kelp stand, heavy drag
	TileSilt                        // Stirred silt cloud
	TileCurrentEast                 // Flowing water, pushes east
	TileCurrentWest                 // Flowing water, pushes west
	tileKindCount                   // sentinel
)

// tileBlocksMovement returns true if the tile is impassable.
func tileBlocksMovement(k TileKind) bool {
	switch k {
	case TileSand, TileRock, TileCoral, TileWreckHull:
		return true
	default:
		return false
	}
}

// tileSwimMul returns the swim speed multiplier inside the tile.
// Only meaningful when tileBlocksMovement returns false.
func tileSwimMul(k TileKind) float64 {
	switch k {
	case TileKelp:
		return 0.55
	case TileSilt:
		return 0.75
	default:
		return 1.0
	}
}

// tileCurrentPush returns the horizontal push of flowing water in
// units/sec. Positive pushes east.
func tileCurrentPush(k TileKind) float64 {
	switch k {
	case TileCurrentEast:
		return 45
	case TileCurrentWest:
		return -45
	default:
		return 0
	}
}

// tileBaseColour returns the base RGB colour for a tile kind.
func tileBaseColour(k TileKind) (r, g, b uint8) {
	switch k {
	case TileSand:
		return 118, 104, 72
	case TileRock:
		return 52, 56, 62
	case TileCoral:
		return 140, 70, 84
	case TileWreckHull:
		return 82, 64, 50
	case TileKelp:
		return 30, 74, 48
	case TileSilt:
		return 58, 68, 72
	case TileCurrentEast, TileCurrentWest:
		return 24, 58, 84
	default:
		return 16, 42, 66
	}
}

func (k TileKind) String() string {
	switch k {
	case TileOpenWater:
		return "open water"
	case TileSand:
		return "sand"
	case TileRock:
		return "rock"
	case TileCoral:
		return "coral"
	case TileWreckHull:
		return "wreck hull"
	case TileKelp:
		return "kelp"
	case TileSilt:
		return "silt"
	case TileCurrentEast:
		return "east current"
	case TileCurrentWest:
		return "west current"
	default:
		return "unknown"
	}
}

// TileMap is the authoritative per-cell terrain representation.
type TileMap struct {
	Cols  int
	Rows  int
	Tiles []TileKind // row-major: index = row*Cols + col
}

// NewTileMap creates a tile map of open water.
func NewTileMap(cols, rows int) *TileMap {
	return &TileMap{Cols: cols, Rows: rows, Tiles: make([]TileKind, cols*rows)}
}

// inBounds returns true if (col, row) is within the tile map.
func (tm *TileMap) inBounds(col, row int) bool {
	return col >= 0 && col < tm.Cols && row >= 0 && row < tm.Rows
}

// At returns the tile kind at (col, row). Out-of-bounds cells read as
// rock so the world edge is solid without special cases.
func (tm *TileMap) At(col, row int) TileKind {
	if !tm.inBounds(col, row) {
		return TileRock
	}
	return tm.Tiles[row*tm.Cols+col]
}

// Set writes the tile kind at (col, row), ignoring out-of-bounds cells.
func (tm *TileMap) Set(col, row int, k TileKind) {
	if !tm.inBounds(col, row) {
		return
	}
	tm.Tiles[row*tm.Cols+col] = k
}

// IsPassable returns true if a diver can occupy (col, row).
func (tm *TileMap) IsPassable(col, row int) bool {
	return tm.inBounds(col, row) && !tileBlocksMovement(tm.Tiles[row*tm.Cols+col])
}

// KindAtWorld returns the tile kind at a world position.
func (tm *TileMap) KindAtWorld(x, y float64) TileKind {
	if x < 0 || y < 0 {
		return TileRock
	}
	return tm.At(int(x)/TileSize, int(y)/TileSize)
}

// SolidAtWorld reports whether the world position sits inside a solid tile.
func (tm *TileMap) SolidAtWorld(x, y float64) bool {
	return tileBlocksMovement(tm.KindAtWorld(x, y))
}

// PixelSize returns the map extent in world pixels.
func (tm *TileMap) PixelSize() (w, h int) {
	return tm.Cols * TileSize, tm.Rows * TileSize
}

// FromLayer builds the terrain grid from a map tile layer. Tile id 0 is
// open water and the rest map in declaration order. Unknown ids fail
// loudly so a bad export does not ship as silent open water.
func FromLayer(l *tiled.Layer) (*TileMap, error) {
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("terrain layer %q: bad size %dx%d", l.Name, l.Width, l.Height)
	}
	tm := NewTileMap(l.Width, l.Height)
	for i, gid := range l.Data {
		if gid < 0 || gid >= int(tileKindCount) {
			return nil, fmt.Errorf("terrain layer %q: unknown tile id %d at index %d", l.Name, gid, i)
		}
		tm.Tiles[i] = TileKind(gid)
	}
	return tm, nil
}
