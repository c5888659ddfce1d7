package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sampler tunables. Speeds are world units per second, distances world
// units, times milliseconds.
const (
	BoostSpeed          = 500.0 // above this the mover counts as boosting
	BoostAxisDominance  = 2.0   // one axis must carry this multiple of the other
	FastPathMinDistance = 50.0  // per-tick displacement that arms the swept path
	PathSegmentLength   = 30.0  // target spacing of swept sample stations
	MinPathSegments     = 5
	StandardIntervalMs  = 100.0 // re-check cadence at normal speed
	StandardMinMove     = 30.0  // or re-check early after moving this far

	// Perpendicular offsets applied at every swept station so a narrow
	// zone slightly off the movement line still registers.
	offsetNear = 40.0
	offsetFar  = 80.0
)

// ZoneHit records one zone touched during a sample pass.
type ZoneHit struct {
	ID    ZoneID
	Level DarknessLevel
}

// SampleResult is the outcome of one containment pass.
type SampleResult struct {
	Zone     ZoneID        // darkest zone hit, NoZone when nothing matched
	Level    DarknessLevel // level of that zone, LevelDefault when none
	Hits     []ZoneHit     // every distinct zone touched, in discovery order
	EndZone  ZoneID        // darkest zone containing the end position itself
	EndLevel DarknessLevel
	Boosted  bool // movement classified as boosting this tick
	Ascent   bool // boosting predominantly upward
}

// Sampler decides when to probe the zone map and with how many points.
// Slow movement gets a cheap single-point check on a time/distance gate;
// fast movement gets a swept multi-point path so thin zones are not
// tunnelled through between frames.
type Sampler struct {
	lastCheckMs float64
	primed      bool

	// lastPoints holds the probe points of the most recent pass, kept for
	// debug visualisation. Nil unless retention is enabled.
	lastPoints   []mgl64.Vec2
	RetainPoints bool
}

// Sample runs one gating decision for the movement from prev to curr.
// The second return is false when the gate suppressed the check entirely;
// the result is only meaningful when it is true.
func (s *Sampler) Sample(prev, curr, vel mgl64.Vec2, nowMs float64, zones *ZoneMap) (SampleResult, bool) {
	delta := curr.Sub(prev)
	dist := delta.Len()
	boosted, ascent := classifyBoost(vel)

	if boosted && dist > FastPathMinDistance {
		res := s.sweepPath(prev, curr, dist, zones)
		res.Boosted = true
		res.Ascent = ascent
		s.lastCheckMs = nowMs
		s.primed = true
		return res, true
	}

	if s.primed && nowMs-s.lastCheckMs < StandardIntervalMs && dist <= StandardMinMove {
		return SampleResult{}, false
	}
	s.lastCheckMs = nowMs
	s.primed = true

	res := SampleResult{Zone: NoZone, EndZone: NoZone, Boosted: boosted, Ascent: ascent}
	if s.RetainPoints {
		s.lastPoints = append(s.lastPoints[:0], curr)
	}
	if z, ok := zones.At(curr); ok {
		res.Zone = z.ID
		res.Level = z.Level
		res.EndZone = z.ID
		res.EndLevel = z.Level
		res.Hits = []ZoneHit{{ID: z.ID, Level: z.Level}}
	}
	return res, true
}

// classifyBoost reports whether the velocity counts as boosting, and
// whether that boost is predominantly upward. Screen coordinates grow
// downward, so upward is negative y.
func classifyBoost(vel mgl64.Vec2) (boosted, ascent bool) {
	if vel.Len() <= BoostSpeed {
		return false, false
	}
	ax, ay := math.Abs(vel.X()), math.Abs(vel.Y())
	switch {
	case ax >= BoostAxisDominance*ay:
		return true, false
	case ay >= BoostAxisDominance*ax:
		return true, vel.Y() < 0
	default:
		return false, false
	}
}

// sweepPath samples stations along the movement line plus perpendicular
// offsets at each station. Default-level zones are skipped here: a wide
// lit area will be picked up by the next standard check, while the sweep
// exists to catch the narrow dark bands a fast mover would skip over.
func (s *Sampler) sweepPath(prev, curr mgl64.Vec2, dist float64, zones *ZoneMap) SampleResult {
	segments := int(math.Ceil(dist / PathSegmentLength))
	if segments < MinPathSegments {
		segments = MinPathSegments
	}
	dir := curr.Sub(prev).Mul(1 / dist)
	perp := mgl64.Vec2{-dir.Y(), dir.X()}

	if s.RetainPoints {
		s.lastPoints = s.lastPoints[:0]
	}

	res := SampleResult{Zone: NoZone, EndZone: NoZone}
	seen := make(map[ZoneID]bool)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		station := prev.Add(curr.Sub(prev).Mul(t))
		for _, off := range [5]float64{0, -offsetNear, offsetNear, -offsetFar, offsetFar} {
			p := station.Add(perp.Mul(off))
			if s.RetainPoints {
				s.lastPoints = append(s.lastPoints, p)
			}
			for _, z := range zones.Zones() {
				if z.Level == LevelDefault || seen[z.ID] || !z.Bounds.Contains(p) {
					continue
				}
				seen[z.ID] = true
				res.Hits = append(res.Hits, ZoneHit{ID: z.ID, Level: z.Level})
				if res.Zone == NoZone || z.Level > res.Level {
					res.Zone = z.ID
					res.Level = z.Level
				}
			}
		}
	}
	if z, ok := zones.At(curr); ok {
		res.EndZone = z.ID
		res.EndLevel = z.Level
	}
	return res
}

// LastPoints returns the probe points of the most recent pass. The slice
// is reused between passes; copy it if it must outlive the next call.
func (s *Sampler) LastPoints() []mgl64.Vec2 { return s.lastPoints }
