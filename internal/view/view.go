// Package view renders a game.World in an ebiten window and feeds player
// input back into it.
package view

import (
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Holdout/internal/game"
	"github.com/Garsondee/Holdout/internal/logger"
	"github.com/Garsondee/Holdout/internal/sound"
)

const (
	hudHeight     = 64  // strip below the playfield for HUD text
	statusTicks   = 180 // how long a status line stays up (~3s)
	clickDamage   = 25  // damage a click deals to a crate
	clickKillHits = 100 // damage a click deals to an agent
)

// Game adapts a World to ebiten.Game. The world is stepped once per ebiten
// update, so the window runs at the world's tick rate.
type Game struct {
	world  *game.World
	log    *logrus.Entry
	layout [][2]float64

	showFog   bool
	showPaths bool
	paused    bool

	shots []shot
	sound *sound.Player

	status     string
	statusLeft int

	hud *hud
}

// New wraps w. layout is reloaded on every level reset and may be nil; a
// nil snd plays nothing.
func New(w *game.World, log *logrus.Logger, layout [][2]float64, snd *sound.Player) *Game {
	if log == nil {
		log = logger.Discard()
	}
	if snd == nil {
		snd = sound.Muted()
	}
	ebiten.SetTPS(w.Config().TickRate)
	return &Game{
		world:   w,
		log:     log.WithField("component", "view"),
		layout:  layout,
		showFog: true,
		sound:   snd,
		hud:     newHUD(),
	}
}

func (g *Game) Update() error {
	g.handleInput()
	if g.statusLeft > 0 {
		g.statusLeft--
	}
	if g.paused {
		return nil
	}
	g.world.Step()
	fresh := g.world.DrainProjectiles()
	g.shots = advanceShots(g.shots, fresh, g.world.Config().Dt())
	g.sound.Shots(len(fresh))
	g.sound.Feed(g.world.SimLog())
	return nil
}

func (g *Game) Layout(_, _ int) (int, int) {
	cfg := g.world.Config()
	return int(math.Ceil(cfg.WorldW)), int(math.Ceil(cfg.WorldH)) + hudHeight
}

// --- Input ---

func (g *Game) handleInput() {
	var ix, iy float64
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		iy--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		iy++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		ix--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		ix++
	}
	g.world.SetInput(ix, iy)

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.click(x, y)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if cx, cy, ok := snapToCell(g.world.Config(), x, y); ok {
			g.world.PlaceObstacle(cx, cy)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.world.SpawnBoss(game.BossTank)
		g.flash("tank inbound")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.world.SpawnBoss(game.BossHelicopter)
		g.flash("helicopter inbound")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		lead := g.world.Squad().Leader()
		g.world.Squad().AddSoldier(lead.X, lead.Y)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.world.ResetLevel()
		g.world.LoadLayout(g.layout)
		g.shots = g.shots[:0]
		g.flash("level reset")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.showFog = !g.showFog
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.showPaths = !g.showPaths
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
}

// click damages the first thing under the cursor: a hostile, then a boss,
// then a crate.
func (g *Game) click(x, y float64) {
	for _, h := range g.world.Hostiles() {
		if within(h.X, h.Y, x, y, h.Radius()) {
			g.world.DamageHostile(h.ID, clickKillHits)
			return
		}
	}
	for _, b := range g.world.Bosses() {
		if within(b.X, b.Y, x, y, b.Radius()) {
			if g.world.DamageBoss(b.ID, clickKillHits) {
				g.flash(b.Kind.String() + " down")
			}
			return
		}
	}
	if o := g.world.ObstacleAt(x, y); o != nil {
		g.world.DamageObstacle(o.ObstacleID(), clickDamage)
	}
}

func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.world.Report()); err != nil {
		g.log.WithError(err).Warn("copy report to clipboard")
		g.flash("clipboard unavailable")
		return
	}
	g.flash("report copied")
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusLeft = statusTicks
}

// snapToCell returns the centre of the cell under (x, y).
func snapToCell(cfg game.Config, x, y float64) (float64, float64, bool) {
	if x < 0 || y < 0 || x >= cfg.WorldW || y >= cfg.WorldH {
		return 0, 0, false
	}
	cs := cfg.CellSize
	return math.Floor(x/cs)*cs + cs/2, math.Floor(y/cs)*cs + cs/2, true
}

func within(ax, ay, bx, by, r float64) bool {
	dx, dy := ax-bx, ay-by
	return dx*dx+dy*dy <= r*r
}
