package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Holdout/internal/game"
	"github.com/Garsondee/Holdout/internal/nav"
)

// cellWidth is how many terminal columns one grid cell takes; two keeps
// cells roughly square in most fonts.
const cellWidth = 2

var (
	styleHidden     = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleFloor      = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen).Background(tcell.ColorBlack)
	styleCrate      = tcell.StyleDefault.Foreground(tcell.ColorTan).Background(tcell.ColorBlack)
	styleRemembered = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	styleLeader     = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleFollower   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleHostile    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSteering   = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleBoss       = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBonus      = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleHUD        = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// fogGlyph is what a cell shows before agents are drawn over it.
func fogGlyph(state nav.FogState, walkable bool) (rune, tcell.Style) {
	switch state {
	case nav.FogVisible:
		if walkable {
			return '·', styleFloor
		}
		return '█', styleCrate
	case nav.FogRemembered:
		return '▒', styleRemembered
	default:
		return ' ', styleHidden
	}
}

// draw renders the world fog matrix, agents in sight and a status line.
func draw(s tcell.Screen, w *game.World, paused bool) {
	s.Clear()
	grid := w.Grid()
	vis := w.Visibility()
	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Cols(); c++ {
			ch, st := fogGlyph(vis.Fog(r, c), grid.Cell(r, c).Walkable)
			for i := 0; i < cellWidth; i++ {
				s.SetContent(c*cellWidth+i, r, ch, nil, st)
			}
		}
	}

	// Hostiles and bosses only show where the squad can see them.
	for _, h := range w.Hostiles() {
		st := styleHostile
		if h.Steering() {
			st = styleSteering
		}
		putAgent(s, w, h.X, h.Y, 'h', st, true)
	}
	for _, b := range w.Bosses() {
		ch := 'T'
		if b.Kind == game.BossHelicopter {
			ch = 'X'
		}
		putAgent(s, w, b.X, b.Y, ch, styleBoss, true)
	}
	for _, b := range w.Bonuses() {
		ch := '+'
		if b.Kind == game.BonusSoldier {
			ch = 'S'
		}
		putAgent(s, w, b.X, b.Y, ch, styleBonus, true)
	}
	for _, m := range w.Squad().Members {
		ch, st := 'o', styleFollower
		if m.Leader() {
			ch, st = '@', styleLeader
		}
		putAgent(s, w, m.X, m.Y, ch, st, false)
	}

	st := w.Stats()
	status := fmt.Sprintf("T=%d health=%d squad=%d hostiles=%d bosses=%d crates=%d visible=%d remembered=%d fallback=%.0f%%",
		st.Ticks, st.SquadHealth, st.Members, st.Hostiles, st.Bosses, st.Obstacles, st.VisibleCells, st.RememberedCells, st.FallbackRate()*100)
	if st.Overrun {
		status += " [overrun]"
	}
	if paused {
		status += " [paused]"
	}
	putString(s, 0, grid.Rows(), status, styleHUD)
	putString(s, 0, grid.Rows()+1, "arrows move  b tank  h heli  r reset  space pause  q quit", styleHUD)
	s.Show()
}

func putAgent(s tcell.Screen, w *game.World, x, y float64, ch rune, st tcell.Style, needsSight bool) {
	c := w.Grid().CellAt(x, y)
	if c == nil {
		return
	}
	if needsSight && !w.Visibility().IsVisible(c.Row, c.Col) {
		return
	}
	s.SetContent(c.Col*cellWidth, c.Row, ch, nil, st)
}

func putString(s tcell.Screen, x, y int, str string, st tcell.Style) {
	for i, ch := range []rune(str) {
		s.SetContent(x+i, y, ch, nil, st)
	}
}
