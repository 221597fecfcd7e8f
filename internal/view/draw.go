package view

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Holdout/internal/game"
	"github.com/Garsondee/Holdout/internal/nav"
)

var (
	groundColor    = color.RGBA{R: 28, G: 42, B: 28, A: 255}
	gridLineColor  = color.RGBA{R: 40, G: 56, B: 40, A: 255}
	crateFill      = color.RGBA{R: 88, G: 82, B: 70, A: 255}
	crateDamaged   = color.RGBA{R: 140, G: 60, B: 40, A: 255}
	crateEdge      = color.RGBA{R: 45, G: 42, B: 34, A: 220}
	hostileColor   = color.RGBA{R: 200, G: 50, B: 50, A: 255}
	steeringColor  = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	tankColor      = color.RGBA{R: 90, G: 100, B: 60, A: 255}
	chargeColor    = color.RGBA{R: 255, G: 220, B: 0, A: 255}
	heliColor      = color.RGBA{R: 70, G: 80, B: 110, A: 255}
	shellColor     = color.RGBA{R: 255, G: 160, B: 40, A: 255}
	bulletColor    = color.RGBA{R: 255, G: 240, B: 180, A: 255}
	pathColor      = color.RGBA{R: 110, G: 86, B: 34, A: 110}
	healthBarBack  = color.RGBA{R: 30, G: 30, B: 30, A: 200}
	healthBarFront = color.RGBA{R: 80, G: 220, B: 80, A: 230}
	bonusHealth    = color.RGBA{R: 0, G: 255, B: 100, A: 255}
	bonusSoldier   = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	bonusCore      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// squadPalettes holds leader and follower colours per Config.Palette.
var squadPalettes = [][2]color.RGBA{
	{{R: 70, G: 160, B: 255, A: 255}, {R: 30, G: 110, B: 210, A: 255}},
	{{R: 120, G: 230, B: 120, A: 255}, {R: 60, G: 170, B: 60, A: 255}},
	{{R: 240, G: 200, B: 90, A: 255}, {R: 190, G: 150, B: 40, A: 255}},
}

func squadColors(palette int) (leader, follower color.RGBA) {
	p := squadPalettes[((palette%len(squadPalettes))+len(squadPalettes))%len(squadPalettes)]
	return p[0], p[1]
}

func (g *Game) Draw(screen *ebiten.Image) {
	cfg := g.world.Config()
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	vector.FillRect(screen, 0, 0, float32(cfg.WorldW), float32(cfg.WorldH), groundColor, false)

	if g.showPaths {
		g.drawFieldHeat(screen)
	}
	g.drawGridLines(screen)
	g.drawObstacles(screen)
	if g.showPaths {
		g.drawPaths(screen)
	}
	g.drawBonuses(screen)
	g.drawHostiles(screen)
	g.drawBosses(screen)
	g.drawSquad(screen)
	g.drawShots(screen)
	if g.showFog {
		g.drawFog(screen)
	}
	g.hud.draw(screen, g)
}

func (g *Game) drawGridLines(screen *ebiten.Image) {
	grid := g.world.Grid()
	cs := float32(grid.CellSize())
	w, h := float32(grid.Cols())*cs, float32(grid.Rows())*cs
	for c := 1; c < grid.Cols(); c++ {
		x := float32(c) * cs
		vector.StrokeLine(screen, x, 0, x, h, 1, gridLineColor, false)
	}
	for r := 1; r < grid.Rows(); r++ {
		y := float32(r) * cs
		vector.StrokeLine(screen, 0, y, w, y, 1, gridLineColor, false)
	}
}

// drawFieldHeat tints reachable cells from cool (near the target) to hot.
func (g *Game) drawFieldHeat(screen *ebiten.Image) {
	f := g.world.Field()
	if !f.Valid() {
		return
	}
	grid := g.world.Grid()
	maxD := 0.0
	for i := 0; i < grid.Len(); i++ {
		if d := f.Distance(grid.At(i)); !math.IsInf(d, 1) && d > maxD {
			maxD = d
		}
	}
	cs := grid.CellSize()
	for i := 0; i < grid.Len(); i++ {
		c := grid.At(i)
		d := f.Distance(c)
		if math.IsInf(d, 1) {
			continue
		}
		vector.FillRect(screen, float32(c.X-cs/2), float32(c.Y-cs/2), float32(cs), float32(cs), heatColor(d, maxD), false)
	}
}

// heatColor maps a distance in [0, maxD] to a translucent blue-to-red ramp.
func heatColor(d, maxD float64) color.RGBA {
	t := 0.0
	if maxD > 0 {
		t = math.Max(0, math.Min(1, d/maxD))
	}
	const a = 90
	// Premultiplied: channels must not exceed alpha.
	return color.RGBA{
		R: uint8(t * a),
		G: uint8((1 - math.Abs(2*t-1)) * a * 0.5),
		B: uint8((1 - t) * a),
		A: a,
	}
}

func (g *Game) drawObstacles(screen *ebiten.Image) {
	for _, o := range g.world.Obstacles().All() {
		if !o.Active() {
			continue
		}
		x0, y0 := float32(o.X-o.W/2), float32(o.Y-o.H/2)
		w, h := float32(o.W), float32(o.H)
		vector.FillRect(screen, x0+2, y0+2, w, h, color.RGBA{R: 8, G: 6, B: 4, A: 120}, false)
		vector.FillRect(screen, x0, y0, w, h, lerpColor(crateDamaged, crateFill, o.HealthRatio()), false)
		vector.StrokeRect(screen, x0, y0, w, h, 1, crateEdge, false)
	}
	// Crates queued for the next tick are outlined only.
	for _, o := range g.world.PendingObstacles() {
		x0, y0 := float32(o.X-o.W/2), float32(o.Y-o.H/2)
		vector.StrokeRect(screen, x0, y0, float32(o.W), float32(o.H), 1, crateFill, false)
	}
}

func (g *Game) drawPaths(screen *ebiten.Image) {
	for _, h := range g.world.Hostiles() {
		px, py := h.X, h.Y
		for _, wp := range h.Waypoints() {
			vector.StrokeLine(screen, float32(px), float32(py), float32(wp[0]), float32(wp[1]), 1, pathColor, false)
			px, py = wp[0], wp[1]
		}
	}
}

func (g *Game) drawBonuses(screen *ebiten.Image) {
	for _, b := range g.world.Bonuses() {
		clr := bonusSoldier
		if b.Kind == game.BonusHealth {
			clr = bonusHealth
		}
		x, y, r := float32(b.X), float32(b.Y), float32(b.Radius())
		vector.FillCircle(screen, x, y, r, clr, true)
		vector.FillCircle(screen, x, y, r/2, bonusCore, true)
	}
}

func (g *Game) drawHostiles(screen *ebiten.Image) {
	for _, h := range g.world.Hostiles() {
		clr := hostileColor
		if h.Steering() {
			clr = steeringColor
		}
		vector.FillCircle(screen, float32(h.X), float32(h.Y), float32(h.Radius()), clr, true)
	}
}

func (g *Game) drawBosses(screen *ebiten.Image) {
	for _, b := range g.world.Bosses() {
		x, y, r := float32(b.X), float32(b.Y), float32(b.Radius())
		switch b.Kind {
		case game.BossTank:
			vector.FillRect(screen, x-r, y-r*0.7, 2*r, 1.4*r, tankColor, false)
			if b.Charging() {
				vector.StrokeCircle(screen, x, y, r+4, 2, chargeColor, true)
			}
		case game.BossHelicopter:
			vector.FillCircle(screen, x, y, r, heliColor, true)
			vector.StrokeLine(screen, x-r*1.4, y, x+r*1.4, y, 2, heliColor, true)
		}
		ratio := float32(b.Health) / float32(b.MaxHealth)
		vector.FillRect(screen, x-r, y-r-8, 2*r, 4, healthBarBack, false)
		vector.FillRect(screen, x-r, y-r-8, 2*r*ratio, 4, healthBarFront, false)
	}
}

func (g *Game) drawSquad(screen *ebiten.Image) {
	sq := g.world.Squad()
	leadClr, followClr := squadColors(sq.Palette)
	for _, m := range sq.Members {
		clr := followClr
		if m.Leader() {
			clr = leadClr
		}
		vector.FillCircle(screen, float32(m.X), float32(m.Y), float32(m.Radius()), clr, true)
	}
}

func (g *Game) drawShots(screen *ebiten.Image) {
	for _, s := range g.shots {
		clr := bulletColor
		if s.Kind == game.ProjectileShell {
			clr = shellColor
		}
		vector.FillCircle(screen, float32(s.X), float32(s.Y), float32(s.Radius), clr, true)
	}
}

// drawFog darkens each cell by its fog opacity: hidden cells go black,
// remembered crates stay dimly visible.
func (g *Game) drawFog(screen *ebiten.Image) {
	grid := g.world.Grid()
	vis := g.world.Visibility()
	cs := float32(grid.CellSize())
	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Cols(); c++ {
			a := fogAlpha(vis.Fog(r, c))
			if a == 0 {
				continue
			}
			vector.FillRect(screen, float32(c)*cs, float32(r)*cs, cs, cs, color.RGBA{A: a}, false)
		}
	}
}

func fogAlpha(s nav.FogState) uint8 {
	return uint8(math.Round(s.Opacity() * 255))
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
