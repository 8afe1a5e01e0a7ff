package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/raycontroller/config"
	"github.com/milk9111/raycontroller/ecs"
	"github.com/milk9111/raycontroller/prefabs"
	"github.com/milk9111/raycontroller/scene"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	eventLogSize = 6
)

type Game struct {
	frames int

	scene    *scene.Scene
	view     view
	scripted bool
	debug    bool
	paused   bool

	ui        *ebitenui.UI
	watcher   *prefabs.Watcher
	clipboard bool

	events []ecs.ContactEvent
	logger *log.Logger
}

func NewGame(opts config.Options, caster string, logger *log.Logger) (*Game, error) {
	s, err := scene.New(scene.Config{
		Level:  opts.Level,
		Tuning: opts.Tuning,
		Script: opts.Script,
		Delta:  opts.Delta(),
		Caster: caster,
		Debug:  opts.Debug,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		scene:    s,
		view:     newView(s.Level.Width, s.Level.Height),
		scripted: s.World.Scripts().Has(s.Player),
		debug:    opts.Debug,
		logger:   logger,
	}
	g.ui = NewPauseUI(g)

	// hot reload only works against the source tree
	if w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts"); err != nil {
		logger.Warn("hot reload disabled", "error", err)
	} else {
		g.watcher = w
	}

	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable", "error", err)
	} else {
		g.clipboard = true
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	g.pollReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.respawn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.toggleDebug()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyState()
	}

	if !g.scripted {
		g.scene.SetInput(readInput())
	}

	events, err := g.scene.Step()
	if err != nil {
		return err
	}
	g.frames++
	g.pushEvents(events)
	return nil
}

func (g *Game) pollReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.scene.HandleChange(change); err != nil {
				g.logger.Error("reload failed", "file", change.Name, "error", err)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn("watcher", "error", err)
			}
		default:
			return
		}
	}
}

func (g *Game) respawn() {
	g.scene.Respawn()
	g.logger.Info("respawned", "x", g.scene.Body.Position().X, "y", g.scene.Body.Position().Y)
}

func (g *Game) toggleDebug() {
	g.debug = !g.debug
	g.scene.Body.Probe().SetDebug(g.debug)
}

func (g *Game) copyState() {
	if !g.clipboard {
		return
	}
	b := g.scene.Body
	pos, vel, c := b.Position(), b.Velocity(), b.Contacts()
	text := fmt.Sprintf("step=%d pos=(%.4f, %.4f) vel=(%.4f, %.4f) below=%v above=%v left=%v right=%v facing=%d",
		g.scene.World.StepCount(), pos.X, pos.Y, vel.X, vel.Y, c.Below, c.Above, c.Left, c.Right, c.Facing)
	clipboard.Write(clipboard.FmtText, []byte(text))
	g.logger.Info("copied body state")
}

func (g *Game) pushEvents(events []ecs.ContactEvent) {
	g.events = append(g.events, events...)
	if n := len(g.events); n > eventLogSize {
		g.events = g.events[n-eventLogSize:]
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g.view.drawLevel(screen, g.scene.Space.Boxes())
	if g.debug {
		g.view.drawSpace(screen, g.scene.Space)
		g.view.drawRays(screen, g.scene.Body.Probe().Rays())
	}
	g.view.drawBody(screen, g.scene.Body, g.scene.Spec)

	ebitenutil.DebugPrint(screen, g.hud())

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) hud() string {
	b := g.scene.Body
	pos, vel, c := b.Position(), b.Velocity(), b.Contacts()
	text := fmt.Sprintf("Frames: %d    FPS: %.2f\npos %.2f, %.2f  vel %.2f, %.2f\nbelow %v above %v left %v right %v",
		g.frames, ebiten.ActualFPS(), pos.X, pos.Y, vel.X, vel.Y, c.Below, c.Above, c.Left, c.Right)
	for _, evt := range g.events {
		text += fmt.Sprintf("\n%5d %s", evt.Step, evt.Kind)
	}
	return text
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
