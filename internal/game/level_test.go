package game

import (
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Depth-Sense/internal/light"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadLevel1_Embedded(t *testing.T) {
	lv, err := LoadLevel1(testLogger())
	if err != nil {
		t.Fatalf("LoadLevel1: %v", err)
	}
	if lv.Terrain.Cols != 120 || lv.Terrain.Rows != 80 {
		t.Fatalf("terrain = %dx%d, want 120x80", lv.Terrain.Cols, lv.Terrain.Rows)
	}
	if len(lv.Zones) != 7 {
		t.Fatalf("zones = %d, want 7", len(lv.Zones))
	}
	if len(lv.Lights) != 3 {
		t.Fatalf("lights = %d, want 3", len(lv.Lights))
	}
	if len(lv.Pockets) != 3 {
		t.Fatalf("pockets = %d, want 3", len(lv.Pockets))
	}
	if lv.SpawnX != 320 || lv.SpawnY != 96 {
		t.Fatalf("spawn = (%v, %v), want (320, 96)", lv.SpawnX, lv.SpawnY)
	}
	if lv.Terrain.SolidAtWorld(lv.SpawnX, lv.SpawnY) {
		t.Fatal("spawn must sit in open water")
	}
}

func TestLoadLevel1_ZoneGeometry(t *testing.T) {
	lv, err := LoadLevel1(testLogger())
	if err != nil {
		t.Fatalf("LoadLevel1: %v", err)
	}
	zm := light.BuildZoneMap(lv.Zones, testLogger())

	cases := []struct {
		name string
		x, y float64
		want light.DarknessLevel
	}{
		{"surface", 320, 96, light.LevelDefault},
		{"shelf twilight", 640, 900, light.LevelDim},
		{"trench mid", 1824, 1800, light.LevelDark},
		{"trench floor", 1824, 2300, light.LevelBlack},
		{"wreck cabin stays lit", 3008, 2180, light.LevelDefault},
	}
	for _, c := range cases {
		z, ok := zm.At(mgl64.Vec2{c.x, c.y})
		if !ok {
			t.Fatalf("%s: no zone at (%v, %v)", c.name, c.x, c.y)
		}
		if z.Level != c.want {
			t.Fatalf("%s: level = %v, want %v", c.name, z.Level, c.want)
		}
	}
}

func TestLoadLevel_MissingTerrainFails(t *testing.T) {
	doc := []byte(`{"width":4,"height":4,"tilewidth":32,"tileheight":32,"layers":[]}`)
	if _, err := LoadLevel(doc, testLogger()); err == nil {
		t.Fatal("level without terrain must fail to load")
	}
}

func TestLoadLevel_PocketDefaults(t *testing.T) {
	doc := []byte(`{
		"width":4,"height":4,"tilewidth":32,"tileheight":32,
		"layers":[
			{"name":"terrain","type":"tilelayer","width":4,"height":4,
			 "data":[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]},
			{"name":"airpockets","type":"objectgroup","objects":[
				{"id":1,"name":"bare","x":40,"y":40}
			]}
		]}`)
	lv, err := LoadLevel(doc, testLogger())
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if len(lv.Pockets) != 1 {
		t.Fatalf("pockets = %d, want 1", len(lv.Pockets))
	}
	p := lv.Pockets[0]
	if p.Radius != defaultPocketRadius {
		t.Fatalf("radius = %v, want default %v", p.Radius, defaultPocketRadius)
	}
	if p.Reserve != defaultPocketReserve {
		t.Fatalf("reserve = %v, want default %v", p.Reserve, defaultPocketReserve)
	}
}

func TestGenerateLevel_Deterministic(t *testing.T) {
	a := GenerateLevel(99, 80, 60, testLogger())
	b := GenerateLevel(99, 80, 60, testLogger())

	if len(a.Terrain.Tiles) != len(b.Terrain.Tiles) {
		t.Fatal("terrain sizes differ")
	}
	for i := range a.Terrain.Tiles {
		if a.Terrain.Tiles[i] != b.Terrain.Tiles[i] {
			t.Fatalf("tile %d differs between identical seeds", i)
		}
	}
	if len(a.Pockets) != len(b.Pockets) {
		t.Fatalf("pocket counts differ: %d vs %d", len(a.Pockets), len(b.Pockets))
	}
	for i := range a.Pockets {
		if a.Pockets[i].X != b.Pockets[i].X || a.Pockets[i].Y != b.Pockets[i].Y {
			t.Fatalf("pocket %d moved between identical seeds", i)
		}
	}
}

func TestGenerateLevel_SeedsDiffer(t *testing.T) {
	a := GenerateLevel(1, 80, 60, testLogger())
	b := GenerateLevel(2, 80, 60, testLogger())
	same := true
	for i := range a.Terrain.Tiles {
		if a.Terrain.Tiles[i] != b.Terrain.Tiles[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical terrain")
	}
}

func TestGenerateLevel_ShaftIsDivable(t *testing.T) {
	lv := GenerateLevel(7, 100, 70, testLogger())
	tm := lv.Terrain
	for row := 0; row < tm.Rows-2; row++ {
		open := false
		for col := 1; col < tm.Cols-1; col++ {
			if tm.IsPassable(col, row) {
				open = true
				break
			}
		}
		if !open {
			t.Fatalf("row %d is fully blocked", row)
		}
	}
	if tm.SolidAtWorld(lv.SpawnX, lv.SpawnY) {
		t.Fatal("spawn must be open water")
	}
}

func TestGenerateLevel_DepthBandsDarken(t *testing.T) {
	lv := GenerateLevel(3, 80, 60, testLogger())
	zm := light.BuildZoneMap(lv.Zones, testLogger())
	_, h := lv.Terrain.PixelSize()

	if _, ok := zm.At(mgl64.Vec2{100, 40}); ok {
		t.Fatal("surface water must be unzoned")
	}
	bottom, ok := zm.At(mgl64.Vec2{100, float64(h) - 40})
	if !ok {
		t.Fatal("deep water must be zoned")
	}
	if bottom.Level != light.LevelBlack {
		t.Fatalf("deepest band = %v, want black", bottom.Level)
	}
}

func TestGenerateLevel_PocketsSitInOpenWater(t *testing.T) {
	lv := GenerateLevel(11, 100, 70, testLogger())
	if len(lv.Pockets) == 0 {
		t.Fatal("generated site must carry air pockets")
	}
	for i, p := range lv.Pockets {
		if lv.Terrain.SolidAtWorld(p.X, p.Y) {
			t.Fatalf("pocket %d sits inside terrain at (%v, %v)", i, p.X, p.Y)
		}
	}
}
