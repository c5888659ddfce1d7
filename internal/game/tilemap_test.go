package game

import (
	"testing"

	"github.com/Garsondee/Depth-Sense/internal/tiled"
)

func TestNewTileMap_DefaultOpenWater(t *testing.T) {
	tm := NewTileMap(10, 8)
	if tm.Cols != 10 || tm.Rows != 8 {
		t.Fatalf("expected 10x8, got %dx%d", tm.Cols, tm.Rows)
	}
	for row := 0; row < tm.Rows; row++ {
		for col := 0; col < tm.Cols; col++ {
			if k := tm.At(col, row); k != TileOpenWater {
				t.Fatalf("tile (%d,%d) = %v, want open water", col, row, k)
			}
			if !tm.IsPassable(col, row) {
				t.Fatalf("tile (%d,%d) should be passable", col, row)
			}
		}
	}
}

func TestTileMap_SolidKindsBlock(t *testing.T) {
	tm := NewTileMap(5, 5)
	tm.Set(2, 2, TileRock)
	if tm.IsPassable(2, 2) {
		t.Fatal("rock tile should not be passable")
	}
	if !tm.SolidAtWorld(2*TileSize+5, 2*TileSize+5) {
		t.Fatal("world position inside rock should be solid")
	}
	if tm.SolidAtWorld(0.5*TileSize, 0.5*TileSize) {
		t.Fatal("open water should not be solid")
	}
}

func TestTileMap_SwimMultiplierVariation(t *testing.T) {
	open := tileSwimMul(TileOpenWater)
	silt := tileSwimMul(TileSilt)
	kelp := tileSwimMul(TileKelp)
	if open <= silt {
		t.Fatalf("open water (%f) should be faster than silt (%f)", open, silt)
	}
	if silt <= kelp {
		t.Fatalf("silt (%f) should be faster than kelp (%f)", silt, kelp)
	}
}

func TestTileMap_CurrentPushDirections(t *testing.T) {
	if tileCurrentPush(TileCurrentEast) <= 0 {
		t.Fatal("east current must push positive x")
	}
	if tileCurrentPush(TileCurrentWest) >= 0 {
		t.Fatal("west current must push negative x")
	}
	if tileCurrentPush(TileOpenWater) != 0 {
		t.Fatal("still water must not push")
	}
}

func TestTileMap_OutOfBounds(t *testing.T) {
	tm := NewTileMap(3, 3)
	if tm.At(-1, 0) != TileRock {
		t.Fatal("out of bounds reads as rock")
	}
	if tm.IsPassable(-1, 0) {
		t.Fatal("out of bounds should not be passable")
	}
	if !tm.SolidAtWorld(-5, 10) {
		t.Fatal("negative world coords should be solid")
	}
	// Should not panic.
	tm.Set(99, 99, TileSand)
}

func TestFromLayer(t *testing.T) {
	l := &tiled.Layer{
		Name: "terrain", Type: "tilelayer",
		Width: 3, Height: 2,
		Data: []int{0, 2, 2, 1, 1, 5},
	}
	tm, err := FromLayer(l)
	if err != nil {
		t.Fatalf("FromLayer: %v", err)
	}
	if tm.At(0, 0) != TileOpenWater || tm.At(1, 0) != TileRock {
		t.Fatalf("top row wrong: %v %v", tm.At(0, 0), tm.At(1, 0))
	}
	if tm.At(2, 1) != TileKelp {
		t.Fatalf("bottom right = %v, want kelp", tm.At(2, 1))
	}

	l.Data = []int{0, 0, 0, 0, 0, 99}
	if _, err := FromLayer(l); err == nil {
		t.Fatal("unknown tile id must fail")
	}
}
