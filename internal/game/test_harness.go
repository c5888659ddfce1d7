package game

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Garsondee/Depth-Sense/internal/light"
)

// DiveSim is a headless dive harness used by tests and the report
// tool. It mirrors Game.simTick but has no Ebiten dependency and
// supports deterministic seeding, scripted control and structured
// logging.
type DiveSim struct {
	TM      *TileMap
	Diver   *Diver
	Engine  *light.Engine
	Hazards *HazardSystem
	Pockets []*AirPocket
	SimLog  *SimLog

	tickMs float64
	tick   int
	seed   int64
	logger *slog.Logger

	zones  []light.RawObject
	lights []light.RawObject
	spawnX float64
	spawnY float64
	quiet  bool

	script     []ScriptStep
	scriptIdx  int
	scriptUsed int

	prevAirLow   bool
	prevAirEmpty bool
	prevHealth   float64
	prevState    DiverState
	prevHazards  int
}

// ScriptStep holds one control input applied for a number of ticks.
// Steps run in order; after the last step the input falls to neutral.
type ScriptStep struct {
	Ticks int
	In    DiverInput
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // terrain, zones, seed, verbose — applied first
	simOptEntity                      // diver position, pockets, placed hazards
)

// SimOption is a builder function applied to a DiveSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*DiveSim)
}

// WithTerrain replaces the default bordered open-water map.
func WithTerrain(tm *TileMap) SimOption {
	return SimOption{simOptInfra, func(ds *DiveSim) {
		ds.TM = tm
	}}
}

// WithLevel loads a whole level: terrain, zones, lights, pockets and
// the spawn point.
func WithLevel(lv *Level) SimOption {
	return SimOption{simOptInfra, func(ds *DiveSim) {
		ds.TM = lv.Terrain
		ds.zones = lv.Zones
		ds.lights = lv.Lights
		ds.spawnX, ds.spawnY = lv.SpawnX, lv.SpawnY
		for _, p := range lv.Pockets {
			p.Reset()
			ds.Pockets = append(ds.Pockets, p)
		}
	}}
}

// WithZone adds a rectangular darkness zone.
func WithZone(name string, level light.DarknessLevel, x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(ds *DiveSim) {
		ds.zones = append(ds.zones, light.RawObject{
			Name: name, Type: level.String(),
			X: x, Y: y, Width: w, Height: h,
		})
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ds *DiveSim) {
		ds.seed = seed
	}}
}

// WithTickMs overrides the simulated frame duration fed to the
// lighting clock. The movement dt stays at 1/60s.
func WithTickMs(ms float64) SimOption {
	return SimOption{simOptInfra, func(ds *DiveSim) {
		ds.tickMs = ms
	}}
}

// WithVerbose enables per-tick position and darkness logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ds *DiveSim) {
		ds.SimLog = NewSimLog(v)
	}}
}

// WithQuietWater disables random hazard spawning. Placed hazards and
// pockets still work.
func WithQuietWater() SimOption {
	return SimOption{simOptInfra, func(ds *DiveSim) {
		ds.quiet = true
	}}
}

// WithDiverAt places the diver, overriding the level spawn.
func WithDiverAt(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ds *DiveSim) {
		ds.Diver.X, ds.Diver.Y = x, y
	}}
}

// WithPocket adds an air pocket.
func WithPocket(x, y, radius, reserve float64) SimOption {
	return SimOption{simOptEntity, func(ds *DiveSim) {
		p := NewAirPocket(x, y, radius, reserve)
		ds.Pockets = append(ds.Pockets, p)
		ds.Hazards.AddPocket(p)
	}}
}

// WithJellyfishAt places a jellyfish.
func WithJellyfishAt(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ds *DiveSim) {
		ds.Hazards.addHazard(HazardJellyfish, x, y)
	}}
}

// WithMineAt places a drifting mine.
func WithMineAt(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ds *DiveSim) {
		ds.Hazards.addHazard(HazardMine, x, y)
	}}
}

// WithScript sets the diver's scripted control inputs.
func WithScript(steps ...ScriptStep) SimOption {
	return SimOption{simOptEntity, func(ds *DiveSim) {
		ds.script = steps
	}}
}

// NewDiveSim constructs a DiveSim from the given options in ordered
// passes: infrastructure first, then the lighting engine, then diver,
// pockets and placed hazards.
func NewDiveSim(opts ...SimOption) *DiveSim {
	ds := &DiveSim{
		SimLog: NewSimLog(false),
		tickMs: simDtMs,
		seed:   1,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ds)
		}
	}
	if ds.TM == nil {
		ds.TM = borderedOpenWater(40, 30)
	}
	if ds.spawnX == 0 && ds.spawnY == 0 {
		w, h := ds.TM.PixelSize()
		ds.spawnX, ds.spawnY = float64(w)/2, float64(h)/2
	}
	ds.Diver = NewDiver(ds.spawnX, ds.spawnY)
	ds.Hazards = NewHazardSystem(ds.TM, ds.seed)
	if ds.quiet {
		ds.Hazards.spawnIn = 1 << 30
	}
	for _, p := range ds.Pockets {
		ds.Hazards.AddPocket(p)
	}

	ds.Engine = light.NewEngine(ds.logger, simObserver{ds}, ds.Diver, nil)
	ds.Engine.ProcessZones(ds.zones)
	ds.Engine.ProcessLights(ds.lights)

	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ds)
		}
	}

	ds.prevHealth = ds.Diver.Health()
	ds.prevState = ds.Diver.State()
	ds.prevHazards = len(ds.Hazards.Hazards())
	return ds
}

// borderedOpenWater builds a map of open water with a one-tile rock
// frame, for harness defaults and tests.
func borderedOpenWater(cols, rows int) *TileMap {
	tm := NewTileMap(cols, rows)
	for col := 0; col < cols; col++ {
		tm.Set(col, 0, TileRock)
		tm.Set(col, rows-1, TileRock)
	}
	for row := 0; row < rows; row++ {
		tm.Set(0, row, TileRock)
		tm.Set(cols-1, row, TileRock)
	}
	return tm
}

// simObserver bridges engine lighting events into the SimLog.
type simObserver struct{ ds *DiveSim }

func (o simObserver) ZoneEntered(z light.Zone, _ float64) {
	o.ds.SimLog.Add(o.ds.tick, "zone", "entered",
		fmt.Sprintf("#%d %s (%s)", z.ID, z.Name, z.Level), float64(z.ID))
}

func (o simObserver) TransitionStarted(from, target, durationMs float64) {
	o.ds.SimLog.Add(o.ds.tick, "dark", "transition_start",
		fmt.Sprintf("%.3f → %.3f over %.0fms", from, target, durationMs), target)
}

func (o simObserver) TransitionCompleted(level float64) {
	o.ds.SimLog.Add(o.ds.tick, "dark", "transition_done", fmt.Sprintf("%.3f", level), level)
}

func (o simObserver) FlashlightToggled(on bool) {
	o.ds.SimLog.Add(o.ds.tick, "flash", "toggle", fmt.Sprintf("%t", on), 0)
}

// CurrentTick returns the current simulation tick.
func (ds *DiveSim) CurrentTick() int { return ds.tick }

// Darkness returns the current interpolated darkness.
func (ds *DiveSim) Darkness() float64 { return ds.Engine.Darkness() }

// Teleport moves the diver in place with no velocity, as a level warp
// would. The next engine update sweeps the jump.
func (ds *DiveSim) Teleport(x, y float64) {
	ds.Diver.X, ds.Diver.Y = x, y
	ds.Diver.VelX, ds.Diver.VelY = 0, 0
}

// RunTicks advances the simulation n ticks using the script.
func (ds *DiveSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ds.runOneTick(ds.scriptInput())
	}
}

// StepWith advances one tick with an explicit input, bypassing the
// script.
func (ds *DiveSim) StepWith(in DiverInput) {
	ds.runOneTick(in)
}

// RunUntil advances the simulation up to maxTicks, stopping early when
// the predicate returns true. Returns the tick at which the predicate
// was satisfied, or -1.
func (ds *DiveSim) RunUntil(predicate func(*DiveSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ds.runOneTick(ds.scriptInput())
		if predicate(ds) {
			return ds.tick
		}
	}
	return -1
}

func (ds *DiveSim) scriptInput() DiverInput {
	for ds.scriptIdx < len(ds.script) && ds.scriptUsed >= ds.script[ds.scriptIdx].Ticks {
		ds.scriptIdx++
		ds.scriptUsed = 0
	}
	if ds.scriptIdx >= len(ds.script) {
		return DiverInput{}
	}
	ds.scriptUsed++
	return ds.script[ds.scriptIdx].In
}

// runOneTick mirrors Game.simTick for the headless harness.
func (ds *DiveSim) runOneTick(in DiverInput) {
	ds.tick++

	// 1. Diver movement and survival.
	if ds.Diver.Update(simDt, in, ds.TM) {
		ds.SimLog.Add(ds.tick, "diver", "dash", fmt.Sprintf("(%.0f,%.0f)", ds.Diver.X, ds.Diver.Y), 0)
	}

	// 2. Lighting.
	ds.Engine.Update(ds.tickMs)

	// 3. Pockets and hazards.
	for _, p := range ds.Pockets {
		p.Update(simDt)
	}
	ds.Hazards.Update(ds.tick, simDt, ds.Diver, nil)

	// --- Post-tick change detection ---

	if low := ds.Diver.Tank.Low(); low != ds.prevAirLow {
		if low {
			ds.SimLog.Add(ds.tick, "air", "low", fmt.Sprintf("%.1f left", ds.Diver.Tank.Current()), ds.Diver.Tank.Current())
		}
		ds.prevAirLow = low
	}
	if empty := ds.Diver.Tank.Empty(); empty != ds.prevAirEmpty {
		if empty {
			ds.SimLog.Add(ds.tick, "air", "empty", "tank spent", 0)
		} else {
			ds.SimLog.Add(ds.tick, "air", "refilled", fmt.Sprintf("%.1f", ds.Diver.Tank.Current()), ds.Diver.Tank.Current())
		}
		ds.prevAirEmpty = empty
	}
	if h := ds.Diver.Health(); h != ds.prevHealth {
		ds.SimLog.Add(ds.tick, "diver", "health", fmt.Sprintf("%.0f → %.0f", ds.prevHealth, h), h)
		ds.prevHealth = h
	}
	if st := ds.Diver.State(); st != ds.prevState {
		ds.SimLog.Add(ds.tick, "diver", "state", fmt.Sprintf("%s → %s", ds.prevState, st), 0)
		ds.prevState = st
	}
	if n := len(ds.Hazards.Hazards()); n != ds.prevHazards {
		key := "spawned"
		if n < ds.prevHazards {
			key = "removed"
		}
		ds.SimLog.Add(ds.tick, "hazard", key, fmt.Sprintf("%d → %d", ds.prevHazards, n), float64(n))
		ds.prevHazards = n
	}

	ds.SimLog.AddVerbose(ds.tick, "diver", "position",
		fmt.Sprintf("(%.1f,%.1f)", ds.Diver.X, ds.Diver.Y), 0)
	ds.SimLog.AddVerbose(ds.tick, "dark", "level",
		fmt.Sprintf("%.3f", ds.Engine.Darkness()), ds.Engine.Darkness())
}

// DiveSnapshot is a lightweight copy of the dive state at a tick.
type DiveSnapshot struct {
	Tick     int
	X, Y     float64
	Darkness float64
	Target   float64
	Zone     light.ZoneID
	Air      float64
	Health   float64
	State    DiverState
}

// Snapshot returns the current dive state.
func (ds *DiveSim) Snapshot() DiveSnapshot {
	snap := ds.Engine.Snapshot()
	return DiveSnapshot{
		Tick:     ds.tick,
		X:        ds.Diver.X,
		Y:        ds.Diver.Y,
		Darkness: snap.Current,
		Target:   snap.Target,
		Zone:     snap.Zone,
		Air:      ds.Diver.Tank.Current(),
		Health:   ds.Diver.Health(),
		State:    ds.Diver.State(),
	}
}

// Summary returns a short human-readable state summary for t.Log and
// the report tool.
func (ds *DiveSim) Summary() string {
	var sb strings.Builder
	snap := ds.Engine.Snapshot()
	fmt.Fprintf(&sb, "--- Dive summary at T=%04d ---\n", ds.tick)
	fmt.Fprintf(&sb, "diver: pos=(%.0f,%.0f) depth=%.0fm state=%s health=%.0f\n",
		ds.Diver.X, ds.Diver.Y, ds.Diver.DepthMeters(), ds.Diver.State(), ds.Diver.Health())
	fmt.Fprintf(&sb, "air:   %.1f (%.0f%%)\n", ds.Diver.Tank.Current(), ds.Diver.Tank.Fraction()*100)
	if snap.InTransition {
		fmt.Fprintf(&sb, "dark:  %.3f → %.3f (%.0f%%)\n", snap.Current, snap.Target, snap.Progress*100)
	} else {
		fmt.Fprintf(&sb, "dark:  %.3f settled\n", snap.Current)
	}
	zone := "none"
	if snap.Zone >= 0 {
		zone = fmt.Sprintf("#%d %s", snap.Zone, snap.ZoneName)
	}
	fmt.Fprintf(&sb, "zone:  %s of %d\n", zone, snap.ZoneCount)
	fmt.Fprintf(&sb, "water: hazards=%d spears=%d pockets=%d\n",
		len(ds.Hazards.Hazards()), len(ds.Hazards.Spears()), len(ds.Pockets))
	return sb.String()
}
