package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Holdout/internal/game"
	"github.com/Garsondee/Holdout/internal/logger"
	"github.com/Garsondee/Holdout/internal/nav"
	"github.com/Garsondee/Holdout/internal/sound"
)

func newSession(t *testing.T) *session {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.SpawnInterval = 0
	w, err := game.NewWorld(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return &session{world: w, sound: sound.Muted()}
}

func newScreen(t *testing.T, w *game.World) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(w.Grid().Cols()*cellWidth, w.Grid().Rows()+2)
	t.Cleanup(screen.Fini)
	return screen
}

func TestFogGlyph(t *testing.T) {
	cases := []struct {
		state    nav.FogState
		walkable bool
		want     rune
	}{
		{nav.FogVisible, true, '·'},
		{nav.FogVisible, false, '█'},
		{nav.FogRemembered, false, '▒'},
		{nav.FogHidden, true, ' '},
		{nav.FogHidden, false, ' '},
	}
	for _, c := range cases {
		if got, _ := fogGlyph(c.state, c.walkable); got != c.want {
			t.Fatalf("fogGlyph(%s, %v) = %q, want %q", c.state, c.walkable, got, c.want)
		}
	}
}

func TestDraw_LeaderCrateAndHiddenCorner(t *testing.T) {
	s := newSession(t)
	w := s.world
	w.AddObstacle(460, 300, 40, 40) // cell (7, 11)
	s.tick()

	screen := newScreen(t, w)
	draw(screen, w, false)

	lead := w.Squad().Leader()
	lc := w.Grid().CellAt(lead.X, lead.Y)
	if ch, _, _, _ := screen.GetContent(lc.Col*cellWidth, lc.Row); ch != '@' {
		t.Fatalf("leader cell shows %q, want '@'", ch)
	}
	if ch, _, _, _ := screen.GetContent(11*cellWidth+1, 7); ch != '█' {
		t.Fatalf("crate cell shows %q, want '█'", ch)
	}
	if ch, _, _, _ := screen.GetContent(0, 0); ch != ' ' {
		t.Fatalf("far corner shows %q, want hidden", ch)
	}
	if ch, _, _, _ := screen.GetContent(0, w.Grid().Rows()); ch != 'T' {
		t.Fatalf("status line starts with %q, want 'T'", ch)
	}
}

func TestDraw_HostileOutOfSightIsHidden(t *testing.T) {
	s := newSession(t)
	w := s.world
	w.SpawnHostileAt(20, 20)
	s.tick()

	screen := newScreen(t, w)
	draw(screen, w, true)
	if ch, _, _, _ := screen.GetContent(0, 0); ch == 'h' {
		t.Fatal("hostile outside sight was drawn")
	}
}

func TestDraw_BonusAndSquadHealth(t *testing.T) {
	s := newSession(t)
	w := s.world
	w.DropBonus(540, 300, game.BonusSoldier) // cell (7, 13)
	s.tick()

	screen := newScreen(t, w)
	screen.SetSize(200, w.Grid().Rows()+2)
	draw(screen, w, false)
	if ch, _, _, _ := screen.GetContent(13*cellWidth, 7); ch != 'S' {
		t.Fatalf("bonus cell shows %q, want 'S'", ch)
	}
	var line []rune
	for x := range 40 {
		ch, _, _, _ := screen.GetContent(x, w.Grid().Rows())
		line = append(line, ch)
	}
	if !strings.Contains(string(line), "health=100") {
		t.Fatalf("status line %q lacks squad health", string(line))
	}
}

func TestHandleKey(t *testing.T) {
	s := newSession(t)

	if !s.handleKey(tcell.KeyRight, 0) {
		t.Fatal("arrow key ended the session")
	}
	if s.ix != 1 || s.iy != 0 || s.holdLeft != holdTicks {
		t.Fatalf("steer = (%v, %v) hold %d", s.ix, s.iy, s.holdLeft)
	}
	startX := s.world.Squad().Leader().X
	for range holdTicks + 4 {
		s.tick()
	}
	if s.holdLeft != 0 {
		t.Fatalf("holdLeft = %d after release", s.holdLeft)
	}
	if s.world.Squad().Leader().X <= startX {
		t.Fatal("leader did not move right while the key was held")
	}

	s.handleKey(tcell.KeyRune, 'b')
	if len(s.world.Bosses()) != 1 {
		t.Fatalf("bosses = %d after 'b', want 1", len(s.world.Bosses()))
	}
	s.handleKey(tcell.KeyRune, ' ')
	tick := s.world.Tick()
	s.tick()
	if s.world.Tick() != tick {
		t.Fatal("paused session stepped the world")
	}
	s.handleKey(tcell.KeyRune, 'r')
	if len(s.world.Bosses()) != 0 {
		t.Fatal("reset kept the boss")
	}

	if s.handleKey(tcell.KeyRune, 'q') || s.handleKey(tcell.KeyEscape, 0) {
		t.Fatal("quit keys did not end the session")
	}
}

func TestAttachSilencesLog(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.Warn("before")
	if buf.Len() == 0 {
		t.Fatal("logger should write before the screen is attached")
	}
	buf.Reset()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := attach(screen, log); err != nil {
		t.Fatalf("attach: %v", err)
	}
	t.Cleanup(screen.Fini)
	log.Warn("after")
	log.Error("after")
	if buf.Len() != 0 {
		t.Fatalf("logger wrote %q while the screen was up", buf.String())
	}
}
