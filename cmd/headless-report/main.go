package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Garsondee/Depth-Sense/internal/game"
)

// Generated site dimensions and autopilot tuning for the shaft-descent
// scenario.
const (
	siteCols = 48
	siteRows = 64

	lampThreshold = 0.55 // darkness at which the autopilot switches the lamp on
	dashEvery     = 900  // ticks between dash bursts while air holds
)

type runStats struct {
	runIndex int
	seed     int64
	runID    string

	firstDimTick    int
	firstDarkTick   int
	firstBlackTick  int
	firstLowAirTick int
	firstEmptyTick  int
	firstHitTick    int
	deathTick       int

	zonesEntered    int
	transitionsDone int
	dashBursts      int
	refills         int
	hazardSpawns    int
	hitsTaken       int

	maxDepth  float64
	worldH    float64
	peakDark  float64
	endDark   float64
	endAir    float64
	endHealth float64
	survived  bool
	lampOn    bool
	endZone   string
	visited   map[string]struct{}
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string

	flag.IntVar(&runs, "runs", 5, "number of headless dive runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "shaft-descent", "scenario name")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if scenario != "shaft-descent" {
		fmt.Printf("error: unsupported scenario %q (supported: shaft-descent)\n", scenario)
		return
	}

	fmt.Printf("=== Headless Dive Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenarioShaftDescent(i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runScenarioShaftDescent generates a dive site from the seed and lets
// the autopilot follow the descent shaft until the run ends or the
// diver dies.
func runScenarioShaftDescent(runIndex int, seed int64, ticks int) runStats {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lv := game.GenerateLevel(seed, siteCols, siteRows, logger)
	ds := game.NewDiveSim(
		game.WithLevel(lv),
		game.WithSeed(seed),
	)

	maxDepth := 0.0
	peakDark := 0.0
	for i := 0; i < ticks && ds.Diver.Alive(); i++ {
		in := steerDescent(ds)
		in.Dash = i > 0 && i%dashEvery == 0 && ds.Diver.Tank.Fraction() > 0.5
		ds.StepWith(in)

		if ds.Diver.Y > maxDepth {
			maxDepth = ds.Diver.Y
		}
		if d := ds.Darkness(); d > peakDark {
			peakDark = d
		}
		if ds.Darkness() >= lampThreshold && !ds.Engine.Snapshot().FlashlightOn {
			ds.Engine.ToggleFlashlight()
		}
	}

	entries := ds.SimLog.Entries()
	visited := map[string]struct{}{}
	for _, e := range entries {
		if e.Category == "zone" && e.Key == "entered" {
			visited[zoneLabel(e.Value)] = struct{}{}
		}
	}

	es := ds.Engine.Snapshot()
	endZone := "open water"
	if es.Zone >= 0 {
		endZone = es.ZoneName
	}
	_, worldH := lv.Terrain.PixelSize()

	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		runID:           uuid.NewString(),
		firstDimTick:    firstTick(entries, "zone", "entered", "(dim)"),
		firstDarkTick:   firstTick(entries, "zone", "entered", "(dark)"),
		firstBlackTick:  firstTick(entries, "zone", "entered", "(black)"),
		firstLowAirTick: firstTick(entries, "air", "low", ""),
		firstEmptyTick:  firstTick(entries, "air", "empty", ""),
		firstHitTick:    firstTick(entries, "diver", "health", ""),
		deathTick:       firstTick(entries, "diver", "state", "dead"),
		zonesEntered:    ds.SimLog.CountCategory("zone", "entered"),
		transitionsDone: ds.SimLog.CountCategory("dark", "transition_done"),
		dashBursts:      ds.SimLog.CountCategory("diver", "dash"),
		refills:         ds.SimLog.CountCategory("air", "refilled"),
		hazardSpawns:    ds.SimLog.CountCategory("hazard", "spawned"),
		hitsTaken:       ds.SimLog.CountCategory("diver", "health"),
		maxDepth:        maxDepth,
		worldH:          float64(worldH),
		peakDark:        peakDark,
		endDark:         ds.Darkness(),
		endAir:          ds.Diver.Tank.Current(),
		endHealth:       ds.Diver.Health(),
		survived:        ds.Diver.Alive(),
		lampOn:          es.FlashlightOn,
		endZone:         endZone,
		visited:         visited,
	}
}

// steerDescent picks the next tick's input. Swim straight down while the
// water below is open; against a floor, slide towards the nearest column
// that opens downward. The scan walks outward along the current row and
// stops at walls so the autopilot never steers into dead ends.
func steerDescent(ds *game.DiveSim) game.DiverInput {
	col := int(ds.Diver.X) / game.TileSize
	row := int(ds.Diver.Y) / game.TileSize
	if ds.TM.IsPassable(col, row+1) {
		return game.DiverInput{MoveY: 1}
	}
	leftOpen, rightOpen := true, true
	for off := 1; off <= 8; off++ {
		leftOpen = leftOpen && ds.TM.IsPassable(col-off, row)
		if leftOpen && ds.TM.IsPassable(col-off, row+1) {
			return game.DiverInput{MoveX: -1, MoveY: 0.25}
		}
		rightOpen = rightOpen && ds.TM.IsPassable(col+off, row)
		if rightOpen && ds.TM.IsPassable(col+off, row+1) {
			return game.DiverInput{MoveX: 1, MoveY: 0.25}
		}
	}
	return game.DiverInput{MoveY: 1}
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// zoneLabel reduces a zone log value like "#2 midnight band (dark)" to
// the bare zone name.
func zoneLabel(value string) string {
	s := value
	if strings.HasPrefix(s, "#") {
		if i := strings.IndexByte(s, ' '); i >= 0 {
			s = s[i+1:]
		}
	}
	if i := strings.LastIndex(s, " ("); i >= 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}
	return s
}

// classifyDive labels a run for the verdict lines. A completed dive
// survives the whole run and touches the black band; a survivor that
// never got that deep is partial or stalled (usually wedged on terrain);
// anything that dies is lost.
func classifyDive(rs runStats) (string, string) {
	if !rs.survived {
		return "lost", fmt.Sprintf("died_at_tick=%d", rs.deathTick)
	}
	if rs.firstBlackTick >= 0 {
		return "completed", "reached_the_abyss_band"
	}
	frac := depthFrac(rs)
	if frac >= 0.5 {
		return "partial", fmt.Sprintf("max_depth_frac=%.2f", frac)
	}
	return "stalled", fmt.Sprintf("max_depth_frac=%.2f", frac)
}

func depthFrac(rs runStats) float64 {
	if rs.worldH <= 0 {
		return 0
	}
	return rs.maxDepth / rs.worldH
}

func printRun(rs runStats) {
	verdict, reason := classifyDive(rs)
	fmt.Printf("--- Run %d (seed=%d id=%s) ---\n", rs.runIndex, rs.seed, rs.runID)
	fmt.Printf("verdict: %s (%s)\n", verdict, reason)
	fmt.Printf("phase_markers: first_dim=%d first_dark=%d first_black=%d low_air=%d tank_empty=%d first_hit=%d death=%d\n",
		rs.firstDimTick, rs.firstDarkTick, rs.firstBlackTick, rs.firstLowAirTick, rs.firstEmptyTick, rs.firstHitTick, rs.deathTick)
	fmt.Printf("event_totals: zones_entered=%d transitions_done=%d dash_bursts=%d refills=%d hazard_spawns=%d hits_taken=%d\n",
		rs.zonesEntered, rs.transitionsDone, rs.dashBursts, rs.refills, rs.hazardSpawns, rs.hitsTaken)
	fmt.Printf("depth: max=%.0fpx (%.0f%% of site) end_zone=%q\n",
		rs.maxDepth, depthFrac(rs)*100, rs.endZone)
	fmt.Printf("end_state: air=%.1f health=%.0f darkness=%.3f peak_darkness=%.3f lamp=%v\n",
		rs.endAir, rs.endHealth, rs.endDark, rs.peakDark, rs.lampOn)
	fmt.Printf("zones_visited: %s\n", joinSet(rs.visited))
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalZones := 0
	totalTransitions := 0
	totalDashes := 0
	totalRefills := 0
	totalSpawns := 0
	totalHits := 0
	survivors := 0
	depthSum := 0.0
	peakDarkSum := 0.0
	endAirSum := 0.0

	dimTicks := make([]int, 0, len(all))
	darkTicks := make([]int, 0, len(all))
	blackTicks := make([]int, 0, len(all))
	lowAirTicks := make([]int, 0, len(all))
	emptyTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))
	visitedGlobal := map[string]struct{}{}
	verdicts := map[string]int{}

	for _, rs := range all {
		totalZones += rs.zonesEntered
		totalTransitions += rs.transitionsDone
		totalDashes += rs.dashBursts
		totalRefills += rs.refills
		totalSpawns += rs.hazardSpawns
		totalHits += rs.hitsTaken
		if rs.survived {
			survivors++
		}
		depthSum += rs.maxDepth
		peakDarkSum += rs.peakDark
		endAirSum += rs.endAir
		if rs.firstDimTick >= 0 {
			dimTicks = append(dimTicks, rs.firstDimTick)
		}
		if rs.firstDarkTick >= 0 {
			darkTicks = append(darkTicks, rs.firstDarkTick)
		}
		if rs.firstBlackTick >= 0 {
			blackTicks = append(blackTicks, rs.firstBlackTick)
		}
		if rs.firstLowAirTick >= 0 {
			lowAirTicks = append(lowAirTicks, rs.firstLowAirTick)
		}
		if rs.firstEmptyTick >= 0 {
			emptyTicks = append(emptyTicks, rs.firstEmptyTick)
		}
		if rs.deathTick >= 0 {
			deathTicks = append(deathTicks, rs.deathTick)
		}
		for label := range rs.visited {
			visitedGlobal[label] = struct{}{}
		}
		verdict, _ := classifyDive(rs)
		verdicts[verdict]++
	}

	n := len(all)
	fmt.Println("=== Aggregate Dive Report ===")
	fmt.Printf("runs=%d survived=%d/%d\n", n, survivors, n)
	fmt.Printf("verdicts: completed=%d partial=%d stalled=%d lost=%d\n",
		verdicts["completed"], verdicts["partial"], verdicts["stalled"], verdicts["lost"])
	fmt.Printf("avg_events_per_run: zones_entered=%.1f transitions_done=%.1f dash_bursts=%.1f refills=%.1f hazard_spawns=%.1f hits_taken=%.1f\n",
		avg(totalZones, n), avg(totalTransitions, n), avg(totalDashes, n), avg(totalRefills, n), avg(totalSpawns, n), avg(totalHits, n))
	fmt.Printf("phase_marker_avg_ticks: first_dim=%s first_dark=%s first_black=%s low_air=%s tank_empty=%s death=%s\n",
		avgTickString(dimTicks), avgTickString(darkTicks), avgTickString(blackTicks), avgTickString(lowAirTicks), avgTickString(emptyTicks), avgTickString(deathTicks))
	fmt.Printf("avg_max_depth=%.0fpx avg_peak_darkness=%.3f avg_end_air=%.1f\n",
		avgF(depthSum, n), avgF(peakDarkSum, n), avgF(endAirSum, n))
	fmt.Printf("unique_zones=%d [%s]\n", len(visitedGlobal), joinSet(visitedGlobal))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgF(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
