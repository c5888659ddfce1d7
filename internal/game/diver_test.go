package game

import (
	"math"
	"testing"
)

const tickDt = 1.0 / 60

func openWater(cols, rows int) *TileMap {
	return NewTileMap(cols, rows)
}

func TestDiver_CruiseSpeedSettles(t *testing.T) {
	tm := openWater(100, 100)
	d := NewDiver(200, 200)

	for i := 0; i < 120; i++ {
		d.Update(tickDt, DiverInput{MoveX: 1}, tm)
	}
	speed := math.Hypot(d.VelX, d.VelY)
	if speed < 180 || speed > 230 {
		t.Fatalf("cruise speed = %v, want near 200", speed)
	}
	if d.FacingLeft() {
		t.Fatal("swimming right must face right")
	}
}

func TestDiver_KelpSlowsSwimming(t *testing.T) {
	open := openWater(100, 100)
	kelp := openWater(100, 100)
	for i := range kelp.Tiles {
		kelp.Tiles[i] = TileKelp
	}

	a := NewDiver(200, 200)
	b := NewDiver(200, 200)
	for i := 0; i < 120; i++ {
		a.Update(tickDt, DiverInput{MoveX: 1}, open)
		b.Update(tickDt, DiverInput{MoveX: 1}, kelp)
	}
	if b.X >= a.X {
		t.Fatalf("kelp should slow the diver: open=%v kelp=%v", a.X, b.X)
	}
}

func TestDiver_DashBurstAndCooldown(t *testing.T) {
	tm := openWater(200, 100)
	d := NewDiver(200, 200)
	o2 := d.Tank.Current()

	if !d.Update(tickDt, DiverInput{MoveX: 1, Dash: true}, tm) {
		t.Fatal("dash should fire")
	}
	if speed := math.Hypot(d.VelX, d.VelY); speed < 3000 {
		t.Fatalf("dash speed = %v, want well above cruise", speed)
	}
	if d.Tank.Current() >= o2 {
		t.Fatal("dash must cost oxygen")
	}
	if d.Update(tickDt, DiverInput{MoveX: 1, Dash: true}, tm) {
		t.Fatal("dash must respect the cooldown")
	}

	for i := 0; i < 70; i++ {
		d.Update(tickDt, DiverInput{}, tm)
	}
	if !d.DashReady() {
		t.Fatal("cooldown should have elapsed")
	}
}

func TestDiver_DashUsesFacingWithoutStickInput(t *testing.T) {
	tm := openWater(200, 100)
	d := NewDiver(3000, 200)
	d.Update(tickDt, DiverInput{MoveX: -1}, tm)
	for i := 0; i < 120; i++ {
		d.Update(tickDt, DiverInput{}, tm)
	}

	d.Update(tickDt, DiverInput{Dash: true}, tm)
	if d.VelX >= 0 {
		t.Fatalf("dash should follow facing, VelX=%v", d.VelX)
	}
}

func TestDiver_WallStopsMovement(t *testing.T) {
	tm := openWater(20, 20)
	for row := 0; row < 20; row++ {
		tm.Set(10, row, TileRock) // wall at x in [320,352)
	}
	d := NewDiver(280, 200)
	for i := 0; i < 300; i++ {
		d.Update(tickDt, DiverInput{MoveX: 1}, tm)
	}
	if d.X+DiverHalfW > 320 {
		t.Fatalf("diver pushed into the wall: x=%v", d.X)
	}
	if d.VelX != 0 {
		t.Fatalf("x velocity should zero on contact, got %v", d.VelX)
	}
}

func TestDiver_DamageAndInvulnerability(t *testing.T) {
	tm := openWater(100, 100)
	d := NewDiver(200, 200)

	if !d.ApplyDamage(30) {
		t.Fatal("first hit should land")
	}
	if d.Health() != 70 || d.State() != DiverHurt {
		t.Fatalf("health=%v state=%v", d.Health(), d.State())
	}
	if d.ApplyDamage(30) {
		t.Fatal("hit during invulnerability frames must not land")
	}

	for i := 0; i < 120; i++ {
		d.Update(tickDt, DiverInput{}, tm)
	}
	if d.State() != DiverSwimming {
		t.Fatalf("hurt flash should clear, state=%v", d.State())
	}
	if !d.ApplyDamage(80) {
		t.Fatal("hit after invulnerability should land")
	}
	if d.Alive() {
		t.Fatal("lethal hit should kill")
	}
}

func TestDiver_EmptyTankSuffocates(t *testing.T) {
	tm := openWater(100, 100)
	d := NewDiver(200, 200)
	d.Tank.Spend(OxygenCapacity)

	// Half-second steps: each suffocation tick lands every 1.5s.
	d.Update(0.5, DiverInput{}, tm)
	d.Update(0.5, DiverInput{}, tm)
	d.Update(0.5, DiverInput{}, tm)
	if d.Health() != DiverMaxHealth-SuffocateDamage {
		t.Fatalf("health = %v after first suffocation tick", d.Health())
	}

	for i := 0; i < 60 && d.Alive(); i++ {
		d.Update(0.5, DiverInput{}, tm)
	}
	if d.Alive() {
		t.Fatal("suffocation should eventually kill")
	}
}

func TestDiver_DashBlockedOnEmptyTank(t *testing.T) {
	tm := openWater(100, 100)
	d := NewDiver(200, 200)
	d.Tank.Spend(OxygenCapacity)
	if d.Update(tickDt, DiverInput{MoveX: 1, Dash: true}, tm) {
		t.Fatal("dash with an empty tank must not fire")
	}
}
