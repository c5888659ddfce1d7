package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Diver tuning. Speeds in units/sec. Thrust and drag balance to a
// cruising speed of thrust/drag = 220 units/sec.
const (
	DiverThrust      = 1320.0
	DiverDrag        = 6.0
	DashSpeed        = 4200.0
	DashCooldownSecs = 1.0
	DiverHalfW       = 10.0
	DiverHalfH       = 7.0
	DiverMaxHealth   = 100.0
	HurtInvulnSecs   = 1.2
	hurtFlashSecs    = 0.4
)

// DiverState tracks the diver's condition.
type DiverState uint8

const (
	DiverSwimming DiverState = iota
	DiverHurt
	DiverDead
)

func (s DiverState) String() string {
	switch s {
	case DiverSwimming:
		return "swimming"
	case DiverHurt:
		return "hurt"
	case DiverDead:
		return "dead"
	default:
		return "unknown"
	}
}

// DiverInput is one tick's worth of control intent.
type DiverInput struct {
	MoveX float64 // -1..1
	MoveY float64 // -1..1
	Dash  bool
}

// Diver is the player entity. Position is the sprite centre in world
// units; velocity carries across ticks and decays with water drag.
type Diver struct {
	X, Y       float64
	VelX, VelY float64

	Tank *OxygenTank

	facingLeft   bool
	state        DiverState
	health       float64
	invulnSecs   float64
	hurtSecs     float64
	dashCooldown float64
	suffocate    float64
}

// NewDiver spawns a healthy diver with a full tank.
func NewDiver(x, y float64) *Diver {
	return &Diver{
		X: x, Y: y,
		Tank:   NewOxygenTank(),
		health: DiverMaxHealth,
	}
}

// Update integrates one tick of movement and survival. It returns true
// when a dash burst fired this tick.
func (d *Diver) Update(dt float64, in DiverInput, tm *TileMap) bool {
	if d.state == DiverDead {
		// Dead divers drift gently to the floor.
		d.VelX *= math.Max(0, 1-DiverDrag*dt)
		d.VelY = 20
		d.X, d.Y, _, _ = MoveAABB(tm, d.X, d.Y, DiverHalfW, DiverHalfH, d.VelX*dt, d.VelY*dt)
		return false
	}

	d.tickTimers(dt)

	here := tm.KindAtWorld(d.X, d.Y)
	mul := tileSwimMul(here)

	// Thrust towards the stick direction, scaled by the water we are in.
	ix, iy := clampStick(in.MoveX), clampStick(in.MoveY)
	d.VelX += ix * DiverThrust * mul * dt
	d.VelY += iy * DiverThrust * mul * dt

	dashed := false
	if in.Dash && d.dashCooldown <= 0 && !d.Tank.Empty() {
		dx, dy := ix, iy
		if dx == 0 && dy == 0 {
			dx = 1
			if d.facingLeft {
				dx = -1
			}
		}
		n := math.Hypot(dx, dy)
		d.VelX = dx / n * DashSpeed
		d.VelY = dy / n * DashSpeed
		d.dashCooldown = DashCooldownSecs
		d.Tank.Spend(OxygenDashCost)
		dashed = true
	}

	damp := math.Max(0, 1-DiverDrag*dt)
	d.VelX *= damp
	d.VelY *= damp

	if ix < 0 {
		d.facingLeft = true
	} else if ix > 0 {
		d.facingLeft = false
	}

	// Flowing water adds a drift bias on top of swim velocity.
	push := tileCurrentPush(here)

	var hitX, hitY bool
	d.X, d.Y, hitX, hitY = MoveAABB(tm, d.X, d.Y, DiverHalfW, DiverHalfH,
		(d.VelX+push)*dt, d.VelY*dt)
	if hitX {
		d.VelX = 0
	}
	if hitY {
		d.VelY = 0
	}

	d.updateSurvival(dt)
	return dashed
}

func clampStick(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func (d *Diver) tickTimers(dt float64) {
	if d.invulnSecs > 0 {
		d.invulnSecs -= dt
	}
	if d.dashCooldown > 0 {
		d.dashCooldown -= dt
	}
	if d.hurtSecs > 0 {
		d.hurtSecs -= dt
		if d.hurtSecs <= 0 && d.state == DiverHurt {
			d.state = DiverSwimming
		}
	}
}

// updateSurvival drains the tank and applies suffocation damage on a
// grace cadence once it is empty. Suffocation ignores hit invulnerability.
func (d *Diver) updateSurvival(dt float64) {
	d.Tank.Drain(dt)
	if !d.Tank.Empty() {
		d.suffocate = 0
		return
	}
	d.suffocate += dt
	if d.suffocate >= SuffocateTickSecs {
		d.suffocate -= SuffocateTickSecs
		d.health -= SuffocateDamage
		if d.health <= 0 {
			d.health = 0
			d.state = DiverDead
		} else {
			d.state = DiverHurt
			d.hurtSecs = hurtFlashSecs
		}
	}
}

// ApplyDamage lands a hazard hit unless invulnerability frames are
// running. It reports whether the hit connected.
func (d *Diver) ApplyDamage(dmg float64) bool {
	if d.state == DiverDead || d.invulnSecs > 0 {
		return false
	}
	d.health -= dmg
	d.invulnSecs = HurtInvulnSecs
	if d.health <= 0 {
		d.health = 0
		d.state = DiverDead
	} else {
		d.state = DiverHurt
		d.hurtSecs = hurtFlashSecs
	}
	return true
}

// State returns the diver's condition.
func (d *Diver) State() DiverState { return d.state }

// Health returns the remaining hit points.
func (d *Diver) Health() float64 { return d.health }

// Alive reports whether the diver can still act.
func (d *Diver) Alive() bool { return d.state != DiverDead }

// Invulnerable reports whether hit invulnerability frames are running.
func (d *Diver) Invulnerable() bool { return d.invulnSecs > 0 }

// DashReady reports whether a dash can fire this tick.
func (d *Diver) DashReady() bool { return d.dashCooldown <= 0 }

// DepthMeters returns the HUD depth readout derived from world y.
func (d *Diver) DepthMeters() float64 { return d.Y / TileSize }

// Position implements light.PositionSource.
func (d *Diver) Position() mgl64.Vec2 { return mgl64.Vec2{d.X, d.Y} }

// Velocity implements light.PositionSource.
func (d *Diver) Velocity() mgl64.Vec2 { return mgl64.Vec2{d.VelX, d.VelY} }

// FacingLeft implements light.PositionSource.
func (d *Diver) FacingLeft() bool { return d.facingLeft }
