// Command fogterm runs the world in a terminal and shows what the squad can
// see: visible cells, remembered crates and agents in sight.
package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Holdout/internal/game"
	"github.com/Garsondee/Holdout/internal/logger"
	"github.com/Garsondee/Holdout/internal/sound"
)

// holdTicks is how long an arrow press keeps steering; terminals send no
// key-up events.
const holdTicks = 8

type session struct {
	world  *game.World
	layout [][2]float64
	sound  *sound.Player

	ix, iy   float64
	holdLeft int
	paused   bool
}

// handle applies one terminal event and reports whether to keep running.
func (s *session) handle(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}
	return s.handleKey(key.Key(), key.Rune())
}

func (s *session) handleKey(k tcell.Key, ch rune) bool {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		s.steer(0, -1)
	case tcell.KeyDown:
		s.steer(0, 1)
	case tcell.KeyLeft:
		s.steer(-1, 0)
	case tcell.KeyRight:
		s.steer(1, 0)
	case tcell.KeyRune:
		switch ch {
		case 'q':
			return false
		case 'b':
			s.world.SpawnBoss(game.BossTank)
		case 'h':
			s.world.SpawnBoss(game.BossHelicopter)
		case 'r':
			s.world.ResetLevel()
			s.world.LoadLayout(s.layout)
		case ' ':
			s.paused = !s.paused
		}
	}
	return true
}

func (s *session) steer(ix, iy float64) {
	s.ix, s.iy = ix, iy
	s.holdLeft = holdTicks
}

// tick advances the world once unless paused.
func (s *session) tick() {
	if s.paused {
		return
	}
	if s.holdLeft > 0 {
		s.holdLeft--
		s.world.SetInput(s.ix, s.iy)
	} else {
		s.world.SetInput(0, 0)
	}
	s.world.Step()
	s.sound.Shots(len(s.world.DrainProjectiles()))
	s.sound.Feed(s.world.SimLog())
}

func main() {
	cfg := game.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	withSound := flag.Bool("sound", false, "play sound cues")
	flag.Parse()

	// Only warnings reach stderr, and only until the screen takes over.
	log := logger.FromEnv()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	w, err := game.NewWorld(cfg, log)
	if err != nil {
		log.WithError(err).Error("bad configuration")
		os.Exit(2)
	}
	layout := game.DemoLayout(cfg)
	w.LoadLayout(layout)

	snd := sound.Muted()
	if *withSound {
		snd = sound.New(log)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.WithError(err).Fatal("open terminal")
	}
	if err := attach(screen, log); err != nil {
		log.WithError(err).Fatal("init terminal")
	}
	defer screen.Fini()

	run(screen, &session{world: w, layout: layout, sound: snd}, time.Second/time.Duration(cfg.TickRate))
}

// attach initialises the screen and silences log, whose writes would land
// on top of the drawn cells.
func attach(screen tcell.Screen, log *logrus.Logger) error {
	if err := screen.Init(); err != nil {
		return err
	}
	log.SetOutput(io.Discard)
	return nil
}

func run(screen tcell.Screen, s *session, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !s.handle(ev) {
				return
			}
		case <-ticker.C:
			s.tick()
			draw(screen, s.world, s.paused)
		}
	}
}
