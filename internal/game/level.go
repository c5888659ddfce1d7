package game

import (
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"

	"github.com/Garsondee/Depth-Sense/internal/light"
	"github.com/Garsondee/Depth-Sense/internal/tiled"
)

//go:embed level1.json
var level1JSON []byte

const (
	defaultPocketRadius  = 40.0
	defaultPocketReserve = 60.0
)

// Level is a fully loaded dive site: terrain plus everything placed in it.
type Level struct {
	Name    string
	Terrain *TileMap
	Zones   []light.RawObject
	Lights  []light.RawObject
	Pockets []*AirPocket
	SpawnX  float64
	SpawnY  float64
}

// LoadLevel1 loads the embedded hand-authored dive site.
func LoadLevel1(logger *slog.Logger) (*Level, error) {
	lv, err := LoadLevel(level1JSON, logger)
	if err != nil {
		return nil, err
	}
	lv.Name = "level1"
	return lv, nil
}

// LoadLevel decodes a Tiled JSON level into game structures. The terrain
// tile layer is required; zones, lights, air pockets and spawn are
// optional object groups.
func LoadLevel(data []byte, logger *slog.Logger) (*Level, error) {
	m, err := tiled.Decode(data)
	if err != nil {
		return nil, err
	}
	tl, ok := m.TileLayer("terrain")
	if !ok {
		return nil, fmt.Errorf("load level: no terrain tile layer")
	}
	tm, err := FromLayer(tl)
	if err != nil {
		return nil, err
	}

	lv := &Level{Terrain: tm}
	if objs, ok := m.ObjectLayer("zones"); ok {
		lv.Zones = rawObjects(objs)
	}
	if objs, ok := m.ObjectLayer("lights"); ok {
		lv.Lights = rawObjects(objs)
	}
	if objs, ok := m.ObjectLayer("airpockets"); ok {
		for _, o := range objs {
			lv.Pockets = append(lv.Pockets, pocketFromObject(o, logger))
		}
	}

	// Spawn falls back to open water near the surface.
	w, _ := tm.PixelSize()
	lv.SpawnX, lv.SpawnY = float64(w)/2, TileSize*2.5
	if objs, ok := m.ObjectLayer("spawn"); ok && len(objs) > 0 {
		lv.SpawnX, lv.SpawnY = objs[0].X, objs[0].Y
	}

	logger.Info("level loaded",
		"cols", tm.Cols, "rows", tm.Rows,
		"zones", len(lv.Zones), "lights", len(lv.Lights), "pockets", len(lv.Pockets))
	return lv, nil
}

// rawObjects converts map objects to the shape the lighting loader takes.
func rawObjects(objs []tiled.Object) []light.RawObject {
	out := make([]light.RawObject, 0, len(objs))
	for _, o := range objs {
		ro := light.RawObject{
			Name:   o.Name,
			Type:   o.Kind(),
			X:      o.X,
			Y:      o.Y,
			Width:  o.Width,
			Height: o.Height,
			Point:  o.Point,
		}
		for _, p := range o.Properties {
			if v, ok := o.StringProperty(p.Name); ok {
				ro.Properties = append(ro.Properties, light.RawProperty{Name: p.Name, Value: v})
			}
		}
		out = append(out, ro)
	}
	return out
}

func pocketFromObject(o tiled.Object, logger *slog.Logger) *AirPocket {
	reserve := defaultPocketReserve
	if s, ok := o.StringProperty("reserve"); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			reserve = v
		} else {
			logger.Warn("air pocket has a bad reserve, using default", "object", o.Name, "value", s)
		}
	}
	r := math.Max(o.Width, o.Height) / 2
	if r <= 0 {
		r = defaultPocketRadius
	}
	return NewAirPocket(o.X+o.Width/2, o.Y+o.Height/2, r, reserve)
}

// caveConfig holds tuneable noise parameters for generated dive sites.
type caveConfig struct {
	// Noise layer scales (smaller = broader features).
	RockScale float64
	KelpScale float64
	SiltScale float64

	// Placement thresholds (noise value 0-1).
	RockThreshold float64 // above this → solid rock
	RockDepthBias float64 // threshold drop per row, rock thickens downward
	KelpThreshold float64
	SiltThreshold float64

	ShaftWidth   int // guaranteed open descent channel, in cells
	CurrentBands int // horizontal drift bands
	PocketCount  int
}

var defaultCaveConfig = caveConfig{
	RockScale:     0.09,
	KelpScale:     0.11,
	SiltScale:     0.07,
	RockThreshold: 0.74,
	RockDepthBias: 0.0022,
	KelpThreshold: 0.66,
	SiltThreshold: 0.72,
	ShaftWidth:    4,
	CurrentBands:  3,
	PocketCount:   3,
}

// GenerateLevel builds a procedural dive site. The same seed always
// yields the same site.
func GenerateLevel(seed int64, cols, rows int, logger *slog.Logger) *Level {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
	tm := NewTileMap(cols, rows)
	cfg := defaultCaveConfig

	rockSeed := rng.Int63()
	kelpSeed := rng.Int63()
	siltSeed := rng.Int63()

	// Rock pass. Density rises with depth; the top rows stay open so the
	// diver always has surface water.
	for row := 3; row < rows; row++ {
		threshold := cfg.RockThreshold - float64(row)*cfg.RockDepthBias
		for col := 0; col < cols; col++ {
			edge := col == 0 || col == cols-1 || row >= rows-2
			n := valueNoise2D(float64(col)*cfg.RockScale, float64(row)*cfg.RockScale, rockSeed)
			if edge || n > threshold {
				tm.Set(col, row, TileRock)
			}
		}
	}

	// Carve the descent shaft: a sinusoidal open channel from the surface
	// to the floor, so every site is divable end to end.
	shaftPhase := rng.Float64() * 2 * math.Pi
	for row := 0; row < rows-1; row++ {
		centre := float64(cols)/2 + math.Sin(float64(row)*0.12+shaftPhase)*float64(cols)/5
		c0 := int(centre) - cfg.ShaftWidth/2
		for c := c0; c < c0+cfg.ShaftWidth; c++ {
			if c > 0 && c < cols-1 {
				tm.Set(c, row, TileOpenWater)
			}
		}
	}

	// Crust pass: rock with open water above weathers into sand, and
	// occasional coral grows on the sand.
	for row := 1; row < rows-1; row++ {
		for col := 1; col < cols-1; col++ {
			if tm.At(col, row) != TileRock || tm.At(col, row-1) != TileOpenWater {
				continue
			}
			tm.Set(col, row, TileSand)
			detail := valueNoise2D(float64(col)*0.31, float64(row)*0.31, rockSeed+1)
			if detail > 0.8 {
				tm.Set(col, row-1, TileCoral)
			}
		}
	}

	// Vegetation and sediment passes, open cells only.
	for row := 3; row < rows-2; row++ {
		for col := 1; col < cols-1; col++ {
			if tm.At(col, row) != TileOpenWater {
				continue
			}
			k := valueNoise2D(float64(col)*cfg.KelpScale, float64(row)*cfg.KelpScale, kelpSeed)
			if k > cfg.KelpThreshold && nearFloor(tm, col, row, 5) {
				tm.Set(col, row, TileKelp)
				continue
			}
			s := valueNoise2D(float64(col)*cfg.SiltScale, float64(row)*cfg.SiltScale, siltSeed)
			if s > cfg.SiltThreshold && row > rows*2/3 {
				tm.Set(col, row, TileSilt)
			}
		}
	}

	// Drift bands: alternating horizontal currents in open mid-water.
	for b := 0; b < cfg.CurrentBands; b++ {
		bandRow := rows/4 + rng.Intn(rows/2)
		kind := TileCurrentEast
		if b%2 == 1 {
			kind = TileCurrentWest
		}
		for col := 1; col < cols-1; col++ {
			if tm.At(col, bandRow) == TileOpenWater {
				tm.Set(col, bandRow, kind)
			}
		}
	}

	lv := &Level{
		Name:    fmt.Sprintf("generated-%d", seed),
		Terrain: tm,
	}
	lv.Zones = depthZones(cols, rows)
	placeWreck(tm, rng, lv)
	placePockets(tm, rng, lv, cfg.PocketCount)

	// Spawn in surface water above the shaft mouth; the top three rows
	// are never rocked over.
	lv.SpawnX = float64(cols/2)*TileSize + TileSize/2
	lv.SpawnY = TileSize * 2.5

	logger.Info("level generated",
		"seed", seed, "cols", cols, "rows", rows,
		"zones", len(lv.Zones), "lights", len(lv.Lights), "pockets", len(lv.Pockets))
	return lv
}

// depthZones lays full-width darkness bands over the lower three quarters
// of the site. The top quarter is ambient water and needs no zone.
func depthZones(cols, rows int) []light.RawObject {
	w := float64(cols * TileSize)
	bandH := float64(rows*TileSize) / 4
	return []light.RawObject{
		{Name: "twilight band", Type: "dim", X: 0, Y: bandH, Width: w, Height: bandH},
		{Name: "midnight band", Type: "dark", X: 0, Y: bandH * 2, Width: w, Height: bandH},
		{Name: "abyss band", Type: "black", X: 0, Y: bandH * 3, Width: w, Height: bandH},
	}
}

// placeWreck stamps a hull shell on a deep sand shelf and fits it with a
// lamp and a trapped air pocket.
func placeWreck(tm *TileMap, rng *rand.Rand, lv *Level) {
	for attempt := 0; attempt < 40; attempt++ {
		col := 4 + rng.Intn(tm.Cols-14)
		row := tm.Rows/2 + rng.Intn(tm.Rows/2-6)
		if !wreckFits(tm, col, row) {
			continue
		}
		// Hull floor and end walls, interior left open.
		for c := col; c < col+8; c++ {
			tm.Set(c, row+2, TileWreckHull)
		}
		for r := row; r < row+2; r++ {
			tm.Set(col, r, TileWreckHull)
			tm.Set(col+7, r, TileWreckHull)
			for c := col + 1; c < col+7; c++ {
				tm.Set(c, r, TileOpenWater)
			}
		}

		x := float64(col) * TileSize
		y := float64(row) * TileSize
		lv.Lights = append(lv.Lights, light.RawObject{
			Name: "wreck lamp", Point: true,
			X: x + 4*TileSize, Y: y + TileSize,
			Properties: []light.RawProperty{
				{Name: "color", Value: "#ffd890"},
				{Name: "radius", Value: "150"},
				{Name: "intensity", Value: "0.9"},
			},
		})
		lv.Pockets = append(lv.Pockets, NewAirPocket(
			x+4*TileSize, y+TileSize, defaultPocketRadius, 90))
		return
	}
}

// wreckFits wants an 8x3 footprint of open water resting near solid ground.
func wreckFits(tm *TileMap, col, row int) bool {
	for r := row; r < row+3; r++ {
		for c := col; c < col+8; c++ {
			if tm.At(c, r) != TileOpenWater {
				return false
			}
		}
	}
	return nearFloor(tm, col+4, row+2, 4)
}

// placePockets drops trapped-air pockets into deep open alcoves.
func placePockets(tm *TileMap, rng *rand.Rand, lv *Level, count int) {
	for placed := 0; placed < count; {
		ok := false
		for attempt := 0; attempt < 60; attempt++ {
			col := 2 + rng.Intn(tm.Cols-4)
			row := tm.Rows/3 + rng.Intn(tm.Rows/2)
			if tm.At(col, row) != TileOpenWater || !nearFloor(tm, col, row, 2) {
				continue
			}
			x := float64(col)*TileSize + TileSize/2
			y := float64(row)*TileSize + TileSize/2
			if tooCloseToPocket(lv.Pockets, x, y, 12*TileSize) {
				continue
			}
			lv.Pockets = append(lv.Pockets, NewAirPocket(x, y, defaultPocketRadius, defaultPocketReserve))
			ok = true
			break
		}
		if !ok {
			return
		}
		placed++
	}
}

func tooCloseToPocket(pockets []*AirPocket, x, y, minDist float64) bool {
	for _, p := range pockets {
		if math.Hypot(p.X-x, p.Y-y) < minDist {
			return true
		}
	}
	return false
}

// nearFloor reports whether a solid tile sits within maxDrop cells below.
func nearFloor(tm *TileMap, col, row, maxDrop int) bool {
	for d := 1; d <= maxDrop; d++ {
		if tileBlocksMovement(tm.At(col, row+d)) {
			return true
		}
	}
	return false
}

// --- Value noise (lattice-based, hermite interpolated) ---

// valueNoise2D returns a smooth noise value in [0,1] for the given
// coordinates.
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// latticeValue returns a pseudo-random value in [0,1] for integer
// coordinates.
func latticeValue(x, y int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
