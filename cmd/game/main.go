package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Holdout/internal/game"
	"github.com/Garsondee/Holdout/internal/logger"
	"github.com/Garsondee/Holdout/internal/sound"
	"github.com/Garsondee/Holdout/internal/view"
)

func main() {
	cfg := game.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	empty := flag.Bool("empty", false, "start without the demo crate layout")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	log := logger.FromEnv()
	w, err := game.NewWorld(cfg, log)
	if err != nil {
		log.WithError(err).Error("bad configuration")
		os.Exit(2)
	}
	var layout [][2]float64
	if !*empty {
		layout = game.DemoLayout(cfg)
		w.LoadLayout(layout)
	}

	snd := sound.Muted()
	if !*mute {
		snd = sound.New(log)
	}

	ebiten.SetWindowTitle("Holdout")
	ebiten.SetWindowSize(int(cfg.WorldW), int(cfg.WorldH)+64)
	if err := ebiten.RunGame(view.New(w, log, layout, snd)); err != nil {
		log.WithError(err).Fatal("game exited")
	}
}
