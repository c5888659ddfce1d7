package game

import (
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/Depth-Sense/internal/light"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ds *DiveSim) {
	t.Helper()
	entries := ds.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the scenario summary block.
func dumpSummary(t *testing.T, ds *DiveSim) {
	t.Helper()
	t.Log(ds.Summary())
}

func down() DiverInput { return DiverInput{MoveY: 1} }
func up() DiverInput   { return DiverInput{MoveY: -1} }

// --- Scenario: Descent Through Bands ---

func TestScenario_DescentThroughBands(t *testing.T) {
	t.Log("=== TestScenario_DescentThroughBands ===")
	t.Log("--- Setup: stacked sunlit/twilight/midnight bands, scripted descent ---")

	ds := NewDiveSim(
		WithSeed(42),
		WithQuietWater(),
		WithZone("sunlit", light.LevelDefault, 0, 0, 1280, 320),
		WithZone("twilight", light.LevelDim, 0, 320, 1280, 320),
		WithZone("midnight", light.LevelDark, 0, 640, 1280, 320),
		WithDiverAt(640, 100),
		WithScript(
			ScriptStep{Ticks: 300, In: down()},
			ScriptStep{Ticks: 500, In: DiverInput{}},
		),
	)

	ds.RunTicks(800)
	dumpLog(t, ds)
	dumpSummary(t, ds)

	entered := ds.SimLog.Filter("zone", "entered")
	if len(entered) < 3 {
		t.Fatalf("expected at least 3 zone entries, got %d", len(entered))
	}
	order := []string{"sunlit", "twilight", "midnight"}
	for i, want := range order {
		if !strings.Contains(entered[i].Value, want) {
			t.Errorf("zone entry %d = %q, want %q", i, entered[i].Value, want)
		}
	}

	if got, want := ds.Darkness(), light.LevelDark.Scalar(); got != want {
		t.Errorf("final darkness = %.3f, want %.3f", got, want)
	}
	if n := ds.SimLog.CountCategory("dark", "transition_start"); n < 2 {
		t.Errorf("expected at least 2 transitions during descent, got %d", n)
	}
	if last, ok := ds.SimLog.LastOf("dark", "transition_done"); !ok || last.NumVal != light.LevelDark.Scalar() {
		t.Errorf("last settle = %+v, want settle at %.1f", last, light.LevelDark.Scalar())
	}
}

// --- Scenario: Unzoned Water Keeps Darkness ---

func TestScenario_UnzonedWaterKeepsDarkness(t *testing.T) {
	t.Log("=== TestScenario_UnzonedWaterKeepsDarkness ===")
	t.Log("--- Setup: lone midnight band, swim up into unmapped water ---")

	ds := NewDiveSim(
		WithSeed(7),
		WithQuietWater(),
		WithZone("midnight", light.LevelDark, 0, 640, 1280, 320),
		WithDiverAt(640, 800),
		WithScript(
			ScriptStep{Ticks: 400, In: DiverInput{}},
			ScriptStep{Ticks: 150, In: up()},
			ScriptStep{Ticks: 300, In: DiverInput{}},
		),
	)

	ds.RunTicks(400)
	if got, want := ds.Darkness(), light.LevelDark.Scalar(); got != want {
		t.Fatalf("darkness after settling = %.3f, want %.3f", got, want)
	}

	ds.RunTicks(450)
	dumpLog(t, ds)
	dumpSummary(t, ds)

	if ds.Diver.Y > 640 {
		t.Fatalf("diver should have left the band, still at y=%.0f", ds.Diver.Y)
	}
	if got, want := ds.Darkness(), light.LevelDark.Scalar(); got != want {
		t.Errorf("darkness in unmapped water = %.3f, want unchanged %.3f", got, want)
	}
	if n := ds.SimLog.CountCategory("zone", "entered"); n != 1 {
		t.Errorf("expected a single zone entry, got %d", n)
	}
}

// --- Scenario: Settled Ascent Through A Lighter Band ---

func TestScenario_AscentLightensInsideLighterBand(t *testing.T) {
	t.Log("=== TestScenario_AscentLightensInsideLighterBand ===")
	t.Log("--- Setup: midnight below twilight, slow swim up into twilight ---")

	ds := NewDiveSim(
		WithSeed(7),
		WithQuietWater(),
		WithZone("twilight", light.LevelDim, 0, 320, 1280, 320),
		WithZone("midnight", light.LevelDark, 0, 640, 1280, 320),
		WithDiverAt(640, 800),
		WithScript(
			ScriptStep{Ticks: 400, In: DiverInput{}},
			ScriptStep{Ticks: 90, In: up()},
			ScriptStep{Ticks: 300, In: DiverInput{}},
		),
	)

	ds.RunTicks(400)
	if got, want := ds.Darkness(), light.LevelDark.Scalar(); got != want {
		t.Fatalf("darkness after settling = %.3f, want %.3f", got, want)
	}

	ds.RunTicks(390)
	dumpLog(t, ds)
	dumpSummary(t, ds)

	if ds.Diver.Y < 320 || ds.Diver.Y > 640 {
		t.Fatalf("diver should hold inside the twilight band, at y=%.0f", ds.Diver.Y)
	}
	if got, want := ds.Darkness(), light.LevelDim.Scalar(); got != want {
		t.Errorf("darkness after ascent = %.3f, want %.3f", got, want)
	}
	if !ds.SimLog.HasEntry("zone", "entered", "twilight") {
		t.Error("expected a twilight zone entry")
	}
}

// --- Scenario: Dash Ascent Sweeps A Thin Band ---

func TestScenario_DashAscentAdoptsLightestSweptZone(t *testing.T) {
	t.Log("=== TestScenario_DashAscentAdoptsLightestSweptZone ===")
	t.Log("--- Setup: thin skylight shelf over the dark, one dash burst up through it ---")

	// The shelf sits right above the dark band so the burst is still
	// fast enough to arm the swept path while crossing it.
	ds := NewDiveSim(
		WithSeed(7),
		WithQuietWater(),
		WithZone("skylight shelf", light.LevelDim, 0, 540, 1280, 100),
		WithZone("midnight", light.LevelDark, 0, 640, 1280, 320),
		WithDiverAt(640, 700),
		WithScript(
			ScriptStep{Ticks: 400, In: DiverInput{}},
			ScriptStep{Ticks: 1, In: DiverInput{MoveY: -1, Dash: true}},
			ScriptStep{Ticks: 450, In: DiverInput{}},
		),
	)

	ds.RunTicks(400)
	if got, want := ds.Darkness(), light.LevelDark.Scalar(); got != want {
		t.Fatalf("darkness after settling = %.3f, want %.3f", got, want)
	}

	ds.RunTicks(451)
	dumpLog(t, ds)
	dumpSummary(t, ds)

	if !ds.SimLog.HasEntry("diver", "dash", "") {
		t.Fatal("expected a dash event")
	}
	// The burst carries the diver past the shelf into unmapped water;
	// the sweep should still have adopted the shelf's lighter level.
	if ds.Diver.Y > 540 {
		t.Fatalf("dash should overshoot the shelf, diver at y=%.0f", ds.Diver.Y)
	}
	if got, want := ds.Darkness(), light.LevelDim.Scalar(); got != want {
		t.Errorf("darkness after dash ascent = %.3f, want %.3f", got, want)
	}
	if !ds.SimLog.HasEntry("zone", "entered", "skylight shelf") {
		t.Error("expected the shelf to take zone attribution")
	}
}

// --- Scenario: Empty Tank Suffocates ---

func TestScenario_EmptyTankSuffocates(t *testing.T) {
	t.Log("=== TestScenario_EmptyTankSuffocates ===")
	t.Log("--- Setup: tank drained to zero, no pockets ---")

	ds := NewDiveSim(WithSeed(3), WithQuietWater())
	ds.Diver.Tank.Drain(OxygenCapacity / OxygenDrainPerSec)
	if !ds.Diver.Tank.Empty() {
		t.Fatalf("tank should start empty, has %.2f", ds.Diver.Tank.Current())
	}

	died := ds.RunUntil(func(ds *DiveSim) bool {
		return !ds.Diver.Alive()
	}, 1100)
	dumpLog(t, ds)
	dumpSummary(t, ds)

	if died < 0 {
		t.Fatal("diver should have suffocated within 1100 ticks")
	}
	// Ten damage ticks at one per 1.5s puts death right at the 900 tick mark.
	if died < 850 || died > 950 {
		t.Errorf("death at tick %d, want near 900", died)
	}
	if !ds.SimLog.HasEntry("air", "empty", "") {
		t.Error("expected an empty-tank event")
	}
	if n := ds.SimLog.CountCategory("diver", "health"); n != 10 {
		t.Errorf("expected 10 suffocation hits, got %d", n)
	}
	if last, ok := ds.SimLog.LastOf("diver", "state"); !ok || !strings.Contains(last.Value, "dead") {
		t.Errorf("last state change = %+v, want dead", last)
	}
}

// --- Scenario: Air Pocket Rescue ---

func TestScenario_AirPocketRescue(t *testing.T) {
	t.Log("=== TestScenario_AirPocketRescue ===")
	t.Log("--- Setup: tank at zero inside a pocket's reach ---")

	ds := NewDiveSim(
		WithSeed(3),
		WithQuietWater(),
		WithPocket(640, 480, 50, 80),
	)
	ds.Diver.Tank.Drain(OxygenCapacity / OxygenDrainPerSec)

	ds.RunTicks(300)
	dumpLog(t, ds)
	dumpSummary(t, ds)

	if !ds.Diver.Alive() {
		t.Fatal("pocket should have kept the diver alive")
	}
	if h := ds.Diver.Health(); h != DiverMaxHealth {
		t.Errorf("health = %.0f, want untouched %.0f", h, DiverMaxHealth)
	}
	if air := ds.Diver.Tank.Current(); air < 50 {
		t.Errorf("tank = %.1f after five seconds of tapping, want > 50", air)
	}
	if !ds.SimLog.HasEntry("air", "refilled", "") {
		t.Error("expected a refill event")
	}
	if f := ds.Pockets[0].Fill(); f > 0.5 {
		t.Errorf("pocket fill = %.2f, want mostly spent", f)
	}
}

// --- Scenario: Level1 Trench Run ---

func TestScenario_Level1TrenchRun(t *testing.T) {
	t.Log("=== TestScenario_Level1TrenchRun ===")
	t.Log("--- Setup: embedded level, warping down the trench and into the wreck ---")

	lv, err := LoadLevel1(testLogger())
	if err != nil {
		t.Fatalf("LoadLevel1: %v", err)
	}
	ds := NewDiveSim(WithSeed(11), WithQuietWater(), WithLevel(lv))

	ds.RunTicks(30)
	if got := ds.Darkness(); got != 0 {
		t.Fatalf("surface darkness = %.3f, want 0", got)
	}

	ds.Teleport(1824, 900) // twilight shelf
	ds.RunTicks(200)
	if got, want := ds.Darkness(), light.LevelDim.Scalar(); got != want {
		t.Fatalf("shelf darkness = %.3f, want %.3f", got, want)
	}

	ds.Teleport(1824, 1800) // deep cavern
	ds.RunTicks(200)
	if got, want := ds.Darkness(), light.LevelDark.Scalar(); got != want {
		t.Fatalf("cavern darkness = %.3f, want %.3f", got, want)
	}

	ds.Teleport(1824, 2300) // abyss floor
	ds.RunTicks(150)
	if got, want := ds.Darkness(), light.LevelBlack.Scalar(); got != want {
		t.Fatalf("abyss darkness = %.3f, want %.3f", got, want)
	}

	ds.Teleport(3008, 2180) // lit wreck cabin
	ds.RunTicks(650)
	dumpLog(t, ds)
	dumpSummary(t, ds)

	if got := ds.Darkness(); got != 0 {
		t.Errorf("cabin darkness = %.3f, want back to 0", got)
	}

	entered := ds.SimLog.Filter("zone", "entered")
	wantOrder := []string{"surface waters", "twilight shelf", "deep cavern west", "abyss floor", "wreck cabin"}
	i := 0
	for _, e := range entered {
		if i < len(wantOrder) && strings.Contains(e.Value, wantOrder[i]) {
			i++
		}
	}
	if i != len(wantOrder) {
		t.Errorf("zone entries missed %q, got %d of %d", wantOrder[i], i, len(wantOrder))
	}

	if !ds.Diver.Alive() {
		t.Error("diver should survive the warp tour")
	}
}

// --- Scenario: Lamp Toggle Projects A Mask ---

func TestScenario_LampToggleProjectsMask(t *testing.T) {
	t.Log("=== TestScenario_LampToggleProjectsMask ===")

	ds := NewDiveSim(
		WithSeed(5),
		WithQuietWater(),
		WithZone("midnight", light.LevelDark, 0, 0, 1280, 960),
	)
	ds.RunTicks(5)

	if _, ok := ds.Engine.Mask(); ok {
		t.Fatal("mask should be absent while the lamp is off")
	}
	if !ds.Engine.ToggleFlashlight() {
		t.Fatal("toggle should report on")
	}
	ds.RunTicks(2)

	geo, ok := ds.Engine.Mask()
	if !ok {
		t.Fatal("mask should project while the lamp is on")
	}
	if geo.ConeLength <= 0 || geo.ConeHalfWidth <= 0 {
		t.Errorf("degenerate cone: %+v", geo)
	}
	if d := math.Hypot(geo.Origin[0]-ds.Diver.X, geo.Origin[1]-ds.Diver.Y); d > 40 {
		t.Errorf("beam apex %.0f px from the diver, want mounted nearby", d)
	}
	if !ds.SimLog.HasEntry("flash", "toggle", "true") {
		t.Error("expected a lamp-on event")
	}

	ds.Engine.ToggleFlashlight()
	ds.RunTicks(1)
	if _, ok := ds.Engine.Mask(); ok {
		t.Error("mask should clear when the lamp goes off")
	}
}
