package game

// Oxygen tuning. Drain is units/sec of game time; a full tank lasts
// roughly 70 seconds without topping up.
const (
	OxygenCapacity    = 100.0
	OxygenDrainPerSec = 1.4
	OxygenDashCost    = 3.0  // spent on each dash burst
	OxygenTapPerSec   = 25.0 // transfer rate while inside an air pocket
	LowOxygenFraction = 0.25

	// With an empty tank the diver takes suffocation damage on a short
	// grace cadence instead of dying instantly.
	SuffocateTickSecs = 1.5
	SuffocateDamage   = 10.0
)

// OxygenTank tracks the diver's air supply.
type OxygenTank struct {
	current  float64
	capacity float64
}

// NewOxygenTank returns a full tank.
func NewOxygenTank() *OxygenTank {
	return &OxygenTank{current: OxygenCapacity, capacity: OxygenCapacity}
}

// Drain applies passive consumption for dt seconds.
func (o *OxygenTank) Drain(dt float64) {
	o.current -= OxygenDrainPerSec * dt
	if o.current < 0 {
		o.current = 0
	}
}

// Spend removes a burst cost, for dashes. The tank floors at zero.
func (o *OxygenTank) Spend(amount float64) {
	o.current -= amount
	if o.current < 0 {
		o.current = 0
	}
}

// Refill adds air up to capacity and returns how much was actually taken.
func (o *OxygenTank) Refill(amount float64) float64 {
	room := o.capacity - o.current
	if amount > room {
		amount = room
	}
	o.current += amount
	return amount
}

// Current returns the remaining oxygen units.
func (o *OxygenTank) Current() float64 { return o.current }

// Fraction returns the fill level in [0,1].
func (o *OxygenTank) Fraction() float64 { return o.current / o.capacity }

// Empty reports a fully drained tank.
func (o *OxygenTank) Empty() bool { return o.current <= 0 }

// Low reports the warning threshold for the HUD and the event ticker.
func (o *OxygenTank) Low() bool { return o.Fraction() <= LowOxygenFraction }

// AirPocket is a replenishing air source anchored to the terrain. Its
// reserve empties as the diver taps it and regrows slowly afterwards.
type AirPocket struct {
	X, Y    float64
	Radius  float64
	Reserve float64

	max         float64
	regenPerSec float64
}

// NewAirPocket returns a full pocket at the given position.
func NewAirPocket(x, y, radius, reserve float64) *AirPocket {
	return &AirPocket{
		X: x, Y: y,
		Radius:      radius,
		Reserve:     reserve,
		max:         reserve,
		regenPerSec: reserve / 30,
	}
}

// Reset restores the starting reserve. Used on level restarts.
func (p *AirPocket) Reset() { p.Reserve = p.max }

// Update regrows the reserve for dt seconds.
func (p *AirPocket) Update(dt float64) {
	p.Reserve += p.regenPerSec * dt
	if p.Reserve > p.max {
		p.Reserve = p.max
	}
}

// Fill returns the pocket reserve fraction in [0,1].
func (p *AirPocket) Fill() float64 {
	if p.max <= 0 {
		return 0
	}
	return p.Reserve / p.max
}

// TapInto transfers air from the pocket to the tank for dt seconds,
// limited by the transfer rate, the reserve and the tank's free space.
// Returns the amount moved.
func (p *AirPocket) TapInto(tank *OxygenTank, dt float64) float64 {
	want := OxygenTapPerSec * dt
	if want > p.Reserve {
		want = p.Reserve
	}
	if want <= 0 {
		return 0
	}
	moved := tank.Refill(want)
	p.Reserve -= moved
	return moved
}
