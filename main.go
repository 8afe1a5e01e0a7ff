package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/raycontroller/config"
	"github.com/milk9111/raycontroller/scene"
)

func main() {
	// Validation waits until flags are parsed; a parse error cannot be fixed by one.
	opts, err := config.Load()
	if errors.Is(err, config.ErrParseEnv) {
		log.Fatal("invalid environment", "error", err)
	}

	flag.StringVar(&opts.Level, "level", opts.Level, "level name in levels/ (basename, .json optional)")
	flag.StringVar(&opts.Tuning, "tuning", opts.Tuning, "tuning spec in prefabs/")
	flag.StringVar(&opts.Script, "script", opts.Script, "drive the player with a tengo script instead of the keyboard")
	flag.BoolVar(&opts.Debug, "debug", opts.Debug, "enable debug mode")
	flag.IntVar(&opts.FPS, "fps", opts.FPS, "fixed update rate")
	caster := flag.String("caster", scene.CasterSpace, "ray caster: space or boxes")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if err := opts.Validate(); err != nil {
		log.Fatal("invalid options", "error", err)
	}
	logger := opts.NewLogger(os.Stderr, "raycontroller")

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("raycontroller")
	ebiten.SetTPS(opts.FPS)

	game, err := NewGame(opts, *caster, logger)
	if err != nil {
		logger.Fatal("could not start", "error", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game exited", "error", err)
	}
}
