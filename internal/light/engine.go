package light

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// PositionSource feeds the engine the tracked entity's movement state.
// The scene owns the entity; the engine only reads it.
type PositionSource interface {
	Position() mgl64.Vec2
	Velocity() mgl64.Vec2
	FacingLeft() bool
}

// ViewportSource reports the size of the view the darkness overlay
// covers. The scene owns the window; the engine re-queries the source
// whenever HandleResize is called.
type ViewportSource interface {
	ViewportSize() (w, h int)
}

// Observer receives lighting events for logging, HUD tickers or debug
// overlays. All methods are called from Update on the game tick.
type Observer interface {
	ZoneEntered(z Zone, nowMs float64)
	TransitionStarted(from, target, durationMs float64)
	TransitionCompleted(level float64)
	FlashlightToggled(on bool)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) ZoneEntered(Zone, float64)                   {}
func (NopObserver) TransitionStarted(float64, float64, float64) {}
func (NopObserver) TransitionCompleted(float64)                 {}
func (NopObserver) FlashlightToggled(bool)                      {}

// Engine owns the whole lighting pipeline for one scene: the zone map,
// point lights, the movement-aware sampler, the sticky darkness state and
// the flashlight. It runs on an internal millisecond clock advanced by
// Update, so a paused scene freezes transitions for free.
type Engine struct {
	logger *slog.Logger
	obs    Observer

	zones  *ZoneMap
	lights []PointLight

	sampler Sampler
	state   *DarknessState
	flash   *Flashlight

	entity   PositionSource
	view     ViewportSource
	prevPos  mgl64.Vec2
	tracking bool

	mask  MaskGeometry
	nowMs float64

	vw, vh     int
	failLogged bool
}

// NewEngine builds an engine with an empty zone map. Any argument may be
// nil: a nil observer is replaced with NopObserver, a nil entity can be
// attached later with SetEntity, and a nil viewport source just leaves
// resize handling inert.
func NewEngine(logger *slog.Logger, obs Observer, entity PositionSource, view ViewportSource) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	e := &Engine{
		logger: logger,
		obs:    obs,
		zones:  &ZoneMap{},
		state:  NewDarknessState(),
		flash:  NewFlashlight(logger),
		entity: entity,
		view:   view,
	}
	e.HandleResize()
	return e
}

// ProcessZones ingests the raw darkness-zone objects for the level.
func (e *Engine) ProcessZones(objs []RawObject) {
	e.zones = BuildZoneMap(objs, e.logger)
	e.logger.Info("darkness zones loaded", "count", e.zones.Len())
}

// ProcessLights ingests the raw point-light objects for the level.
func (e *Engine) ProcessLights(objs []RawObject) {
	e.lights = BuildPointLights(objs, e.logger)
	if len(e.lights) > 0 {
		e.logger.Info("point lights loaded", "count", len(e.lights))
	}
}

// Zones returns the current zone map.
func (e *Engine) Zones() *ZoneMap { return e.zones }

// Lights returns the loaded point lights. Callers must not mutate.
func (e *Engine) Lights() []PointLight { return e.lights }

// SetEntity attaches the tracked entity. Passing nil detaches it; the
// darkness state is kept, only sampling stops.
func (e *Engine) SetEntity(src PositionSource) {
	e.entity = src
	e.tracking = false
}

// Flashlight returns the lamp for mount resolution and mask selection.
func (e *Engine) Flashlight() *Flashlight { return e.flash }

// ToggleFlashlight flips the lamp and reports the new state. An optional
// mask key selects a registered beam image for this activation; the
// selection sticks until changed.
func (e *Engine) ToggleFlashlight(customMaskKey ...string) bool {
	if len(customMaskKey) > 0 {
		e.flash.SetMask(customMaskKey[0])
	}
	on := e.flash.Toggle()
	e.obs.FlashlightToggled(on)
	return on
}

// SetFlashlightMask selects a named beam mask, empty for the cone.
func (e *Engine) SetFlashlightMask(key string) { e.flash.SetMask(key) }

// HandleResize re-reads the viewport size from the injected source. The
// overlay compositor does its own buffer rebuild; the engine only tracks
// the numbers for reports.
func (e *Engine) HandleResize() {
	if e.view == nil {
		return
	}
	e.vw, e.vh = e.view.ViewportSize()
}

// EnableDebug turns on sample-point retention for the debug overlay.
func (e *Engine) EnableDebug(on bool) {
	e.sampler.RetainPoints = on
}

// SamplePoints returns the probe points of the most recent sample pass.
func (e *Engine) SamplePoints() []mgl64.Vec2 { return e.sampler.LastPoints() }

// Update advances the engine by deltaMs. Any panic out of the lighting
// pipeline is caught here: the frame keeps the last good darkness value
// and the failure is logged once rather than taking the scene down.
func (e *Engine) Update(deltaMs float64) {
	defer func() {
		if r := recover(); r != nil {
			if !e.failLogged {
				e.failLogged = true
				e.logger.Error("lighting update failed, holding last state", "panic", r)
			}
		}
	}()

	e.nowMs += deltaMs

	if e.entity == nil || e.zones.Len() == 0 {
		if e.state.Advance(e.nowMs) {
			e.obs.TransitionCompleted(e.state.Current())
		}
		return
	}

	pos := e.entity.Position()
	vel := e.entity.Velocity()
	if !e.tracking {
		e.prevPos = pos
		e.tracking = true
	}

	if res, sampled := e.sampler.Sample(e.prevPos, pos, vel, e.nowMs, e.zones); sampled {
		prevZone := e.state.Zone()
		from := e.state.Current()
		started := e.state.Apply(res, e.nowMs)
		if z, ok := e.zones.Zone(e.state.Zone()); ok && e.state.Zone() != prevZone {
			e.obs.ZoneEntered(z, e.nowMs)
		}
		if started {
			e.obs.TransitionStarted(from, e.state.Target(), e.state.Duration())
		}
	}
	if e.state.Advance(e.nowMs) {
		e.obs.TransitionCompleted(e.state.Current())
	}

	e.mask = e.flash.Project(pos, e.entity.FacingLeft())
	e.prevPos = pos
}

// Now returns the engine's internal clock in milliseconds.
func (e *Engine) Now() float64 { return e.nowMs }

// Darkness returns the displayed darkness value in [0,1].
func (e *Engine) Darkness() float64 { return e.state.Current() }

// TargetDarkness returns the darkness the engine is easing towards.
func (e *Engine) TargetDarkness() float64 { return e.state.Target() }

// CurrentZone returns the attributed zone, false before any zone entry.
func (e *Engine) CurrentZone() (Zone, bool) {
	return e.zones.Zone(e.state.Zone())
}

// State exposes the darkness state machine for harness assertions.
func (e *Engine) State() *DarknessState { return e.state }

// Mask returns the current beam geometry. The second return is false when
// the lamp is off or no entity is attached.
func (e *Engine) Mask() (MaskGeometry, bool) {
	if !e.flash.Enabled() || !e.tracking {
		return MaskGeometry{}, false
	}
	return e.mask, true
}

// Snapshot is a point-in-time copy of engine state for debug reports.
type Snapshot struct {
	NowMs        float64
	Zone         ZoneID
	ZoneName     string
	Current      float64
	Target       float64
	InTransition bool
	Progress     float64
	DurationMs   float64
	FlashlightOn bool
	MaskKey      string
	ZoneCount    int
	LightCount   int
	ViewportW    int
	ViewportH    int
}

// Snapshot captures the engine state for the debug report.
func (e *Engine) Snapshot() Snapshot {
	name := ""
	if z, ok := e.CurrentZone(); ok {
		name = z.Name
		if name == "" {
			name = z.Level.String()
		}
	}
	return Snapshot{
		NowMs:        e.nowMs,
		Zone:         e.state.Zone(),
		ZoneName:     name,
		Current:      e.state.Current(),
		Target:       e.state.Target(),
		InTransition: e.state.InTransition(),
		Progress:     e.state.Progress(e.nowMs),
		DurationMs:   e.state.Duration(),
		FlashlightOn: e.flash.Enabled(),
		MaskKey:      e.flash.MaskKey(),
		ZoneCount:    e.zones.Len(),
		LightCount:   len(e.lights),
		ViewportW:    e.vw,
		ViewportH:    e.vh,
	}
}
