package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/solarlune/resolv"
)

// Hazard tuning. Spawn cadence is in ticks at 60 ticks/sec; the base
// interval shrinks with depth, down to half at the bottom of the site.
const (
	hazardSpawnTicks   = 240
	hazardSpawnJitter  = 120
	hazardDepthTighten = 0.5
	maxHazards         = 10
	maxSpears          = 4
	hazardHalf         = 8.0
	jellyRiseSpeed     = 26.0
	jellySwaySpeed     = 18.0
	mineDriftSpeed     = 24.0
	spearSpeed         = 520.0
	spearCooldown      = 30
	spawnRadiusMin     = 260.0
	spawnRadiusMax     = 720.0
	hazardCullDist     = 1600.0
)

var (
	tagDiver  = resolv.NewTag("diver")
	tagHazard = resolv.NewTag("hazard")
	tagSpear  = resolv.NewTag("spear")
	tagPocket = resolv.NewTag("airPocket")
)

// HazardKind identifies a hazard variety.
type HazardKind uint8

const (
	HazardJellyfish HazardKind = iota
	HazardMine
)

func (k HazardKind) String() string {
	switch k {
	case HazardJellyfish:
		return "jellyfish"
	case HazardMine:
		return "mine"
	default:
		return "unknown"
	}
}

// hazardDamage returns the contact damage for a hazard kind.
func hazardDamage(k HazardKind) float64 {
	switch k {
	case HazardMine:
		return 45
	default:
		return 18
	}
}

// hazardHP returns the spear hits a hazard absorbs.
func hazardHP(k HazardKind) int {
	switch k {
	case HazardMine:
		return 1
	default:
		return 2
	}
}

// Hazard is one drifting threat. Movement is scripted per kind; there is
// no pursuit behaviour.
type Hazard struct {
	Kind  HazardKind
	X, Y  float64
	vx    float64
	phase float64
	hp    int
	sh    resolv.IShape
}

// Spear is a fired harpoon travelling horizontally.
type Spear struct {
	X, Y float64
	vx   float64
	sh   resolv.IShape
}

// HazardSystem owns the collision space and everything in it besides
// terrain: the diver's hitbox, hazards, spears and air pocket contact
// circles.
type HazardSystem struct {
	space   *resolv.Space
	tm      *TileMap
	diverSh resolv.IShape

	hazards  []*Hazard
	byShape  map[resolv.IShape]*Hazard
	spears   []*Spear
	pockets  map[resolv.IShape]*AirPocket
	rng      *rand.Rand
	spawnIn  int
	spearsIn int

	worldW, worldH float64
}

// NewHazardSystem builds the collision space over the terrain grid.
func NewHazardSystem(tm *TileMap, seed int64) *HazardSystem {
	w, h := tm.PixelSize()
	hs := &HazardSystem{
		space:   resolv.NewSpace(w, h, TileSize, TileSize),
		tm:      tm,
		byShape: make(map[resolv.IShape]*Hazard),
		pockets: make(map[resolv.IShape]*AirPocket),
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		spawnIn: hazardSpawnTicks,
		worldW:  float64(w),
		worldH:  float64(h),
	}
	hs.diverSh = resolv.NewRectangleFromTopLeft(0, 0, DiverHalfW*2, DiverHalfH*2)
	hs.diverSh.Tags().Set(tagDiver)
	hs.space.Add(hs.diverSh)
	return hs
}

// AddPocket registers an air pocket's contact circle.
func (hs *HazardSystem) AddPocket(p *AirPocket) {
	sh := resolv.NewCircle(p.X, p.Y, p.Radius)
	sh.Tags().Set(tagPocket)
	hs.space.Add(sh)
	hs.pockets[sh] = p
}

// Hazards returns the live hazards for rendering and reports.
func (hs *HazardSystem) Hazards() []*Hazard { return hs.hazards }

// Spears returns the live spears for rendering.
func (hs *HazardSystem) Spears() []*Spear { return hs.spears }

// FireSpear launches a harpoon from the diver if the cooldown allows.
func (hs *HazardSystem) FireSpear(d *Diver, log *EventLog, tick int) bool {
	if hs.spearsIn > 0 || len(hs.spears) >= maxSpears || !d.Alive() {
		return false
	}
	vx := spearSpeed
	if d.FacingLeft() {
		vx = -spearSpeed
	}
	s := &Spear{X: d.X, Y: d.Y + 2, vx: vx}
	s.sh = resolv.NewRectangleFromTopLeft(s.X-8, s.Y-1, 16, 2)
	s.sh.Tags().Set(tagSpear)
	hs.space.Add(s.sh)
	hs.spears = append(hs.spears, s)
	hs.spearsIn = spearCooldown
	if log != nil {
		log.Add(tick, "spear", "harpoon away")
	}
	return true
}

// Update advances spawning, movement and every contact test for one tick.
func (hs *HazardSystem) Update(tick int, dt float64, d *Diver, log *EventLog) {
	if hs.spearsIn > 0 {
		hs.spearsIn--
	}
	hs.trySpawn(tick, d, log)
	hs.moveHazards(dt, d)
	hs.moveSpears(tick, dt, log)
	hs.diverContacts(tick, dt, d, log)
}

// trySpawn places a new hazard in open water around the diver on the
// spawn cadence.
func (hs *HazardSystem) trySpawn(tick int, d *Diver, log *EventLog) {
	hs.spawnIn--
	if hs.spawnIn > 0 || len(hs.hazards) >= maxHazards {
		return
	}
	depth := 0.0
	if hs.worldH > 0 {
		depth = math.Min(math.Max(d.Y/hs.worldH, 0), 1)
	}
	base := int(float64(hazardSpawnTicks) * (1 - hazardDepthTighten*depth))
	hs.spawnIn = base + hs.rng.Intn(hazardSpawnJitter)

	for attempt := 0; attempt < 12; attempt++ {
		ang := hs.rng.Float64() * 2 * math.Pi
		dist := spawnRadiusMin + hs.rng.Float64()*(spawnRadiusMax-spawnRadiusMin)
		x := d.X + math.Cos(ang)*dist
		y := d.Y + math.Sin(ang)*dist
		if x < TileSize || y < TileSize || x > hs.worldW-TileSize || y > hs.worldH-TileSize {
			continue
		}
		if hs.tm.SolidAtWorld(x, y) {
			continue
		}
		kind := HazardJellyfish
		if hs.rng.Intn(3) == 0 {
			kind = HazardMine
		}
		hz := hs.addHazard(kind, x, y)
		hz.phase = hs.rng.Float64() * 2 * math.Pi
		if kind == HazardMine && hs.rng.Intn(2) == 0 {
			hz.vx = -hz.vx
		}
		if log != nil {
			log.Add(tick, "hazard", fmt.Sprintf("%s drifting nearby", kind))
		}
		return
	}
}

// addHazard places a hazard and registers its shape in the space.
func (hs *HazardSystem) addHazard(kind HazardKind, x, y float64) *Hazard {
	hz := &Hazard{
		Kind: kind,
		X:    x,
		Y:    y,
		hp:   hazardHP(kind),
	}
	if kind == HazardMine {
		hz.vx = mineDriftSpeed
	}
	hz.sh = resolv.NewRectangleFromTopLeft(x-hazardHalf, y-hazardHalf, hazardHalf*2, hazardHalf*2)
	hz.sh.Tags().Set(tagHazard)
	hs.space.Add(hz.sh)
	hs.byShape[hz.sh] = hz
	hs.hazards = append(hs.hazards, hz)
	return hz
}

func (hs *HazardSystem) moveHazards(dt float64, d *Diver) {
	for _, hz := range hs.hazards {
		hz.phase += dt * 1.6
		var dx, dy float64
		switch hz.Kind {
		case HazardJellyfish:
			dx = math.Sin(hz.phase) * jellySwaySpeed * dt
			dy = -jellyRiseSpeed * dt
		case HazardMine:
			dx = hz.vx * dt
			dy = math.Sin(hz.phase) * 8 * dt
		}
		var hitX, hitY bool
		hz.X, hz.Y, hitX, hitY = MoveAABB(hs.tm, hz.X, hz.Y, hazardHalf, hazardHalf, dx, dy)
		if hitX && hz.Kind == HazardMine {
			hz.vx = -hz.vx
		}
		if hitY && hz.Kind == HazardJellyfish {
			// Resting under a ceiling; hold position until it drifts free.
			hz.phase += dt * 2
		}
		hz.sh.SetPosition(hz.X-hazardHalf, hz.Y-hazardHalf)
	}
	hs.pruneHazards(nil, 0, d)
}

// pruneHazards drops hazards that left the world, drifted far beyond the
// diver, or ran out of hp.
func (hs *HazardSystem) pruneHazards(log *EventLog, tick int, d *Diver) {
	alive := hs.hazards[:0]
	for _, hz := range hs.hazards {
		out := hz.Y < -TileSize || hz.Y > hs.worldH+TileSize ||
			hz.X < -TileSize || hz.X > hs.worldW+TileSize
		if d != nil && math.Hypot(hz.X-d.X, hz.Y-d.Y) > hazardCullDist {
			out = true
		}
		if hz.Kind == HazardJellyfish && hz.Y < TileSize*1.5 {
			// Jellyfish dissipate once they reach surface water.
			out = true
		}
		if hz.hp <= 0 || out {
			hs.space.Remove(hz.sh)
			delete(hs.byShape, hz.sh)
			if hz.hp <= 0 && log != nil {
				log.Add(tick, "hazard", fmt.Sprintf("%s destroyed", hz.Kind))
			}
			continue
		}
		hs.byShape[hz.sh] = hz
		alive = append(alive, hz)
	}
	hs.hazards = alive
}

func (hs *HazardSystem) moveSpears(tick int, dt float64, log *EventLog) {
	live := hs.spears[:0]
	for _, s := range hs.spears {
		s.X += s.vx * dt
		s.sh.SetPosition(s.X-8, s.Y-1)

		dead := false
		tipX := s.X + 8
		if s.vx < 0 {
			tipX = s.X - 8
		}
		if hs.tm.SolidAtWorld(tipX, s.Y) || s.X < 0 || s.X > hs.worldW {
			dead = true
		}

		if !dead {
			s.sh.IntersectionTest(resolv.IntersectionTestSettings{
				TestAgainst: s.sh.SelectTouchingCells(0).FilterShapes().ByTags(tagHazard),
				OnIntersect: func(set resolv.IntersectionSet) bool {
					if hz, ok := hs.byShape[set.OtherShape]; ok && hz.hp > 0 {
						hz.hp--
						dead = true
					}
					return false
				},
			})
		}

		if dead {
			hs.space.Remove(s.sh)
			continue
		}
		live = append(live, s)
	}
	hs.spears = live
	hs.pruneHazards(log, tick, nil)
}

// diverContacts syncs the diver hitbox and resolves hazard hits and air
// pocket taps.
func (hs *HazardSystem) diverContacts(tick int, dt float64, d *Diver, log *EventLog) {
	hs.diverSh.SetPosition(d.X-DiverHalfW, d.Y-DiverHalfH)

	var touched *Hazard
	hs.diverSh.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: hs.diverSh.SelectTouchingCells(0).FilterShapes().ByTags(tagHazard),
		OnIntersect: func(set resolv.IntersectionSet) bool {
			if hz, ok := hs.byShape[set.OtherShape]; ok {
				touched = hz
			}
			return false
		},
	})
	if touched != nil && d.ApplyDamage(hazardDamage(touched.Kind)) {
		if log != nil {
			log.Add(tick, "hazard", fmt.Sprintf("hit by %s", touched.Kind))
		}
		if touched.Kind == HazardMine {
			touched.hp = 0
			hs.pruneHazards(nil, tick, d)
		}
	}

	hs.diverSh.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: hs.diverSh.SelectTouchingCells(0).FilterShapes().ByTags(tagPocket),
		OnIntersect: func(set resolv.IntersectionSet) bool {
			if p, ok := hs.pockets[set.OtherShape]; ok {
				if moved := p.TapInto(d.Tank, dt); moved > 0 && log != nil && tick%60 == 0 {
					log.Add(tick, "air", "breathing from air pocket")
				}
			}
			return false
		},
	})
}
