package light

import (
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseDarknessLevel_Variants(t *testing.T) {
	cases := []struct {
		in   string
		want DarknessLevel
		ok   bool
	}{
		{"dim", LevelDim, true},
		{"Dark", LevelDark, true},
		{"BLACK", LevelBlack, true},
		{"  black ", LevelBlack, true},
		{"default", LevelDefault, true},
		{"lit", LevelDefault, true},
		{"abyss", LevelDefault, false},
		{"", LevelDefault, false},
	}
	for _, c := range cases {
		got, ok := ParseDarknessLevel(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseDarknessLevel(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestDarknessLevel_Scalars(t *testing.T) {
	if LevelDefault.Scalar() != 0 || LevelDim.Scalar() != 0.4 ||
		LevelDark.Scalar() != 0.7 || LevelBlack.Scalar() != 0.9 {
		t.Fatalf("scalar table wrong: %v %v %v %v",
			LevelDefault.Scalar(), LevelDim.Scalar(), LevelDark.Scalar(), LevelBlack.Scalar())
	}
	if !(LevelDim > LevelDefault && LevelDark > LevelDim && LevelBlack > LevelDark) {
		t.Fatal("levels must be ordered by depth")
	}
}

func TestBuildZoneMap_SkipsMalformedObjects(t *testing.T) {
	objs := []RawObject{
		{Name: "dark", Type: "dark", X: 0, Y: 0, Width: 100, Height: 100},
		{Name: "point", Type: "dark", X: 10, Y: 10, Point: true},
		{Name: "flat", Type: "dim", X: 0, Y: 0, Width: 100, Height: 0},
	}
	zm := BuildZoneMap(objs, testLogger())
	if zm.Len() != 1 {
		t.Fatalf("want 1 zone after skipping malformed, got %d", zm.Len())
	}
	z, ok := zm.Zone(0)
	if !ok || z.Level != LevelDark {
		t.Fatalf("surviving zone = %+v ok=%v", z, ok)
	}
}

func TestBuildZoneMap_EmptyLayerYieldsEmptyMap(t *testing.T) {
	zm := BuildZoneMap(nil, testLogger())
	if zm.Len() != 0 {
		t.Fatalf("want empty map, got %d zones", zm.Len())
	}
	if _, ok := zm.At(mgl64.Vec2{10, 10}); ok {
		t.Fatal("empty map must contain nothing")
	}
}

func TestBuildZoneMap_KindResolutionPriority(t *testing.T) {
	// A "type" property outranks the object type field, which outranks
	// the name.
	objs := []RawObject{
		{
			Name: "black", Type: "dim",
			X: 0, Y: 0, Width: 10, Height: 10,
			Properties: []RawProperty{{Name: "Type", Value: "dark"}},
		},
		{Name: "black", Type: "dim", X: 0, Y: 0, Width: 10, Height: 10},
		{Name: "black", X: 0, Y: 0, Width: 10, Height: 10},
		{Name: "mystery", Type: "unset", X: 0, Y: 0, Width: 10, Height: 10},
	}
	zm := BuildZoneMap(objs, testLogger())
	want := []DarknessLevel{LevelDark, LevelDim, LevelBlack, LevelDefault}
	for i, w := range want {
		z, _ := zm.Zone(ZoneID(i))
		if z.Level != w {
			t.Fatalf("zone %d resolved to %v, want %v", i, z.Level, w)
		}
	}
}

func TestZoneMap_At_DarkestWins(t *testing.T) {
	objs := []RawObject{
		{Name: "outer", Type: "dim", X: 0, Y: 0, Width: 200, Height: 200},
		{Name: "inner", Type: "black", X: 50, Y: 50, Width: 100, Height: 100},
	}
	zm := BuildZoneMap(objs, testLogger())

	z, ok := zm.At(mgl64.Vec2{100, 100})
	if !ok || z.Level != LevelBlack {
		t.Fatalf("overlap point: got %v ok=%v, want black", z.Level, ok)
	}
	z, ok = zm.At(mgl64.Vec2{10, 10})
	if !ok || z.Level != LevelDim {
		t.Fatalf("outer-only point: got %v ok=%v, want dim", z.Level, ok)
	}
	if _, ok = zm.At(mgl64.Vec2{500, 500}); ok {
		t.Fatal("point outside all zones must not match")
	}
}

func TestRect_Contains_EdgesInclusive(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	for _, p := range []mgl64.Vec2{{10, 20}, {40, 60}, {10, 60}, {40, 20}} {
		if !r.Contains(p) {
			t.Fatalf("edge point %v should be inside", p)
		}
	}
	if r.Contains(mgl64.Vec2{9.999, 20}) || r.Contains(mgl64.Vec2{40.001, 60}) {
		t.Fatal("points beyond edges must be outside")
	}
}
