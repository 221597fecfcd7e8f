package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Holdout/internal/game"
)

const hudLineH = 14

var (
	hudBack   = color.RGBA{R: 6, G: 10, B: 6, A: 230}
	hudBorder = color.RGBA{R: 60, G: 100, B: 60, A: 180}
	hudText   = color.RGBA{R: 200, G: 220, B: 200, A: 255}
	hudStatus = color.RGBA{R: 255, G: 220, B: 120, A: 255}
)

// hud draws the stats strip under the playfield.
type hud struct {
	face *text.GoXFace
}

func newHUD() *hud {
	return &hud{face: text.NewGoXFace(basicfont.Face7x13)}
}

func (h *hud) draw(screen *ebiten.Image, g *Game) {
	cfg := g.world.Config()
	top := float32(cfg.WorldH)
	vector.FillRect(screen, 0, top, float32(cfg.WorldW), hudHeight, hudBack, false)
	vector.StrokeLine(screen, 0, top+1, float32(cfg.WorldW), top+1, 1, hudBorder, false)

	for i, line := range hudLines(g) {
		h.print(screen, line, 6, float64(top)+4+float64(i*hudLineH), hudText)
	}
	if g.statusLeft > 0 {
		h.print(screen, g.status, float64(cfg.WorldW)/2, float64(top)+4, hudStatus)
	}
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 6, 6)
	}
}

func (h *hud) print(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = hudLineH
	text.Draw(screen, s, h.face, op)
}

func overrun(s game.Stats) string {
	if s.Overrun {
		return " OVERRUN"
	}
	return ""
}

// hudLines is the text shown in the HUD strip.
func hudLines(g *Game) []string {
	s := g.world.Stats()
	field := "valid"
	if !s.FieldValid {
		field = "INVALID"
	}
	return []string{
		fmt.Sprintf("T=%d  hostiles=%d (steering %d)  bosses=%d  crates=%d  squad=%d  health=%d%s  bonuses=%d",
			s.Ticks, s.Hostiles, s.SteeringAgents, s.Bosses, s.Obstacles, s.Members, s.SquadHealth, overrun(s), s.Bonuses),
		fmt.Sprintf("field %s  rebuilds=%d  paths=%d  fallback=%.1f%%  contact=%d  fog=%v overlay=%v",
			field, s.FieldRecomputes, s.PathRequests, s.FallbackRate()*100, s.ContactHits, g.showFog, g.showPaths),
		"WASD move  click hit  O crate  B tank  H heli  N soldier  R reset  F fog  P paths  C copy  SPACE pause",
	}
}
