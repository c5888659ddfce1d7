package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// debugReport renders the whole dive state as text: diver, air,
// lighting state machine, zones, hazards, pockets and the recent log.
// Pasteable into a bug report.
func (g *Game) debugReport() string {
	snap := g.engine.Snapshot()
	d := g.diver

	var b strings.Builder
	fmt.Fprintf(&b, "--- Depth-Sense dive report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d t=%.1fs\n\n", g.seed, g.tick, snap.NowMs/1000)

	fmt.Fprintf(&b, "== diver ==\n")
	fmt.Fprintf(&b, "pos=(%.1f, %.1f) vel=(%.1f, %.1f) depth=%.0fm facing=%s\n",
		d.X, d.Y, d.VelX, d.VelY, d.DepthMeters(), facingLabel(d.FacingLeft()))
	fmt.Fprintf(&b, "state=%s health=%.0f invuln=%t dash_ready=%t\n",
		d.State(), d.Health(), d.Invulnerable(), d.DashReady())
	fmt.Fprintf(&b, "air=%.1f (%.0f%%) low=%t empty=%t\n\n",
		d.Tank.Current(), d.Tank.Fraction()*100, d.Tank.Low(), d.Tank.Empty())

	fmt.Fprintf(&b, "== lighting ==\n")
	zone := "none"
	if snap.Zone >= 0 {
		zone = fmt.Sprintf("#%d %q", snap.Zone, snap.ZoneName)
	}
	fmt.Fprintf(&b, "zone=%s darkness=%.3f target=%.3f\n", zone, snap.Current, snap.Target)
	if snap.InTransition {
		fmt.Fprintf(&b, "transition=%.0f%% of %.1fs\n", snap.Progress*100, snap.DurationMs/1000)
	} else {
		fmt.Fprintf(&b, "transition=settled\n")
	}
	fmt.Fprintf(&b, "lamp=%t mask=%q viewport=%dx%d\n\n", snap.FlashlightOn, snap.MaskKey, snap.ViewportW, snap.ViewportH)

	fmt.Fprintf(&b, "== zones (%d) ==\n", snap.ZoneCount)
	for _, z := range g.engine.Zones().Zones() {
		fmt.Fprintf(&b, "  #%d %-24q %-7s rect=(%.0f,%.0f %gx%g)\n",
			z.ID, z.Name, z.Level, z.Bounds.X, z.Bounds.Y, z.Bounds.W, z.Bounds.H)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "== lights (%d) ==\n", snap.LightCount)
	for _, l := range g.engine.Lights() {
		fmt.Fprintf(&b, "  %-24q pos=(%.0f,%.0f) r=%.0f i=%.2f\n", l.Name, l.Pos[0], l.Pos[1], l.Radius, l.Intensity)
	}
	b.WriteByte('\n')

	hazards := g.hazards.Hazards()
	fmt.Fprintf(&b, "== hazards (%d) spears (%d) ==\n", len(hazards), len(g.hazards.Spears()))
	for _, hz := range hazards {
		fmt.Fprintf(&b, "  %-9s pos=(%.0f,%.0f)\n", hz.Kind, hz.X, hz.Y)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "== air pockets (%d) ==\n", len(g.level.Pockets))
	for _, p := range g.level.Pockets {
		fmt.Fprintf(&b, "  pos=(%.0f,%.0f) r=%.0f reserve=%.1f (%.0f%%)\n", p.X, p.Y, p.Radius, p.Reserve, p.Fill()*100)
	}
	b.WriteByte('\n')

	entries := g.events.Recent()
	if len(entries) > 12 {
		entries = entries[len(entries)-12:]
	}
	fmt.Fprintf(&b, "== recent log ==\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  T=%-5d [%s] %s\n", e.Tick, e.Category, e.Message)
	}

	return b.String()
}

// copyDebugReport puts the report on the system clipboard. A clipboard
// failure is logged and otherwise ignored; the dive goes on.
func (g *Game) copyDebugReport() {
	report := g.debugReport()
	if err := clipboard.WriteAll(report); err != nil {
		g.logger.Warn("clipboard copy failed", "err", err)
		g.events.Add(g.tick, "dive", "report copy failed")
		return
	}
	g.events.Add(g.tick, "dive", "report copied to clipboard")
}

func facingLabel(left bool) string {
	if left {
		return "left"
	}
	return "right"
}
