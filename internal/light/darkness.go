package light

import "math"

// Transition pacing. Duration scales with the size of the darkness change,
// and surfacing back towards light is deliberately slower than descending
// into dark.
const (
	DescendMsPerUnit = 5000.0
	AscendMsPerUnit  = 10000.0
	SettleEpsilon    = 0.001
)

// DarknessState is the sticky darkness state machine. Once a mover has
// entered a zone, darkness only ever changes on positive evidence: a probe
// that finds no zone at all leaves the state untouched, a probe that finds
// a deeper zone retargets immediately, and lightening requires a confirmed
// hit inside a lighter zone.
type DarknessState struct {
	current float64
	target  float64
	zone    ZoneID

	transFrom  float64
	transStart float64
	transDur   float64
	transUp    bool // darkening transition
	active     bool
}

// NewDarknessState starts fully lit with no zone attribution.
func NewDarknessState() *DarknessState {
	return &DarknessState{zone: NoZone}
}

// Current returns the displayed darkness value in [0,1].
func (d *DarknessState) Current() float64 { return d.current }

// Target returns the darkness value the state is transitioning towards.
func (d *DarknessState) Target() float64 { return d.target }

// Zone returns the last attributed zone. It never reverts to NoZone once
// a zone has been entered.
func (d *DarknessState) Zone() ZoneID { return d.zone }

// InTransition reports whether an eased change is still running.
func (d *DarknessState) InTransition() bool { return d.active }

// Progress returns the normalised transition progress at nowMs, 1 when idle.
func (d *DarknessState) Progress(nowMs float64) float64 {
	if !d.active || d.transDur <= 0 {
		return 1
	}
	p := (nowMs - d.transStart) / d.transDur
	return clamp01(p)
}

// Apply folds one sample result into the state. It returns true when a new
// transition was started (or an instant snap happened).
func (d *DarknessState) Apply(res SampleResult, nowMs float64) bool {
	if res.Ascent {
		// A hard upward burst trusts the sweep: adopt the lightest zone
		// the path touched, if it is lighter than where we are headed.
		best := ZoneHit{ID: NoZone}
		for _, h := range res.Hits {
			if h.Level.Scalar() >= d.target {
				continue
			}
			if best.ID == NoZone || h.Level < best.Level {
				best = h
			}
		}
		if best.ID != NoZone {
			return d.retarget(best.ID, best.Level.Scalar(), nowMs)
		}
	}

	if res.Zone != NoZone && res.Level.Scalar() >= d.target-SettleEpsilon {
		// Deeper always wins immediately. Equal darkness in a different
		// zone just moves the attribution.
		return d.retarget(res.Zone, res.Level.Scalar(), nowMs)
	}

	// Lightening needs the mover to actually stand in the lighter zone.
	// A sweep that merely crossed one, or a probe that found nothing at
	// all, leaves the darkness where it is.
	if res.EndZone != NoZone && res.EndLevel.Scalar() < d.target {
		return d.retarget(res.EndZone, res.EndLevel.Scalar(), nowMs)
	}
	return false
}

// retarget switches zone attribution and starts a transition when the
// effective target actually changes.
func (d *DarknessState) retarget(zone ZoneID, level float64, nowMs float64) bool {
	if zone == d.zone && math.Abs(level-d.target) < SettleEpsilon {
		return false
	}
	d.zone = zone
	if math.Abs(level-d.target) < SettleEpsilon {
		// Same darkness in a different zone: adopt the id, keep easing.
		return false
	}
	d.target = level
	span := math.Abs(level - d.current)
	if span < SettleEpsilon {
		d.current = level
		d.active = false
		return true
	}
	rate := DescendMsPerUnit
	d.transUp = level > d.current
	if !d.transUp {
		rate = AscendMsPerUnit
	}
	d.transFrom = d.current
	d.transStart = nowMs
	d.transDur = span * rate
	d.active = true
	return true
}

// Advance steps the eased interpolation to nowMs. It returns true on the
// call that completes a transition.
func (d *DarknessState) Advance(nowMs float64) bool {
	if !d.active {
		return false
	}
	p := d.Progress(nowMs)
	eased := easeRamped(p)
	v := roundMilli(d.transFrom + (d.target-d.transFrom)*eased)
	if p >= 1 || math.Abs(v-d.target) < SettleEpsilon {
		d.current = d.target
		d.active = false
		return true
	}
	d.current = v
	return false
}

// Duration returns the running transition's duration in ms, 0 when idle.
func (d *DarknessState) Duration() float64 {
	if !d.active {
		return 0
	}
	return d.transDur
}

// easeRamped is cubic ease-in-out with an extra linear ramp over the first
// and last tenth of progress, which kills the visible step the bare cubic
// leaves at transition start on large darkness changes.
func easeRamped(p float64) float64 {
	e := easeCubic(p)
	if p < 0.1 {
		e *= p / 0.1
	} else if p > 0.9 {
		e = 1 - (1-e)*((1-p)/0.1)
	}
	return e
}

func easeCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	return 1 - math.Pow(-2*p+2, 3)/2
}

func roundMilli(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
