// Package scene assembles a level, its collision space and a controlled body
// into a steppable ECS world.
package scene

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/milk9111/raycontroller/controller"
	"github.com/milk9111/raycontroller/ecs"
	"github.com/milk9111/raycontroller/ecs/system"
	"github.com/milk9111/raycontroller/levels"
	"github.com/milk9111/raycontroller/physics"
	"github.com/milk9111/raycontroller/prefabs"
	"github.com/milk9111/raycontroller/raycast"
)

const (
	CasterSpace = "space"
	CasterBoxes = "boxes"
)

type Config struct {
	Level  string
	Tuning string
	// Script overrides the script named by the tuning spec. Empty leaves the
	// body to SetInput.
	Script string
	Delta  float64
	Caster string
	Debug  bool
	Logger *log.Logger
}

type Scene struct {
	Level  *levels.Level
	Space  *physics.Space
	Caster raycast.Caster

	World     *ecs.World
	Scheduler *ecs.Scheduler
	Scripts   *system.ScriptInputSystem

	Player ecs.Entity
	Body   *controller.Body
	Spec   *prefabs.PlayerSpec

	tuningName string
	logger     *log.Logger
}

func New(cfg Config) (*Scene, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	lvl, err := levels.Load(cfg.Level)
	if err != nil {
		return nil, err
	}

	space := physics.NewSpace()
	space.AddLevel(lvl)

	var caster raycast.Caster
	switch cfg.Caster {
	case "", CasterSpace:
		caster = space
	case CasterBoxes:
		caster = physics.NewBoxes(space.Boxes()...)
	default:
		return nil, fmt.Errorf("scene: unknown caster %q", cfg.Caster)
	}

	tuningName := prefabs.SpecName(cfg.Tuning)
	if tuningName == "" {
		tuningName = "player.yaml"
	}
	spec, err := prefabs.LoadPlayerSpec(tuningName)
	if err != nil {
		return nil, err
	}
	tuning := spec.Tuning()
	tuning.Collision.Logger = logger

	// Spawn is the bottom centre of the tile; the body is centred.
	spawn := lvl.Spawn()
	spawn.Y += tuning.Height / 2
	body, err := controller.New(spawn, tuning, caster)
	if err != nil {
		return nil, fmt.Errorf("scene: player: %w", err)
	}
	body.Probe().SetDebug(cfg.Debug)

	world := ecs.NewWorld(cfg.Delta)
	player := world.CreateEntity()
	if err := world.AddBody(player, body); err != nil {
		return nil, err
	}

	script := cfg.Script
	if script == "" {
		script = spec.Script
	}
	scripts := system.NewScriptInputSystem(nil, logger)
	if script != "" {
		if err := scripts.Compile(script); err != nil {
			return nil, err
		}
		if err := world.SetScript(player, script); err != nil {
			return nil, err
		}
	}

	scheduler := ecs.NewScheduler(
		scripts,
		system.NewMovementSystem(),
		system.NewContactEventSystem(logger),
	)

	logger.Info("scene ready",
		"level", cfg.Level,
		"size", fmt.Sprintf("%dx%d", lvl.Width, lvl.Height),
		"solids", space.ShapeCount(),
		"tuning", tuningName,
		"script", script,
	)

	return &Scene{
		Level:      lvl,
		Space:      space,
		Caster:     caster,
		World:      world,
		Scheduler:  scheduler,
		Scripts:    scripts,
		Player:     player,
		Body:       body,
		Spec:       spec,
		tuningName: tuningName,
		logger:     logger,
	}, nil
}

// Step advances the world once and returns the contact events it produced.
func (s *Scene) Step() ([]ecs.ContactEvent, error) {
	if err := s.World.Step(s.Scheduler); err != nil {
		return nil, err
	}
	return s.World.Events().Drain(), nil
}

func (s *Scene) SetInput(in controller.Input) {
	system.SetInput(s.World, s.Player, in)
}

// Respawn teleports the player back to the level's spawn point.
func (s *Scene) Respawn() {
	spawn := s.Level.Spawn()
	spawn.Y += s.Body.Tuning().Height / 2
	s.Body.Teleport(spawn)
}

// Retune reloads the tuning spec from disk and applies it to the player.
// The old tuning stays in place on error.
func (s *Scene) Retune() error {
	spec, err := prefabs.LoadPlayerSpec(s.tuningName)
	if err != nil {
		return err
	}
	tuning := spec.Tuning()
	tuning.Collision.Logger = s.logger
	if err := s.Body.Retune(tuning); err != nil {
		return err
	}
	s.Spec = spec
	s.logger.Info("tuning reloaded", "spec", s.tuningName)
	return nil
}

// HandleChange applies a hot reload reported by a prefabs.Watcher.
func (s *Scene) HandleChange(c prefabs.Change) error {
	switch c.Kind {
	case prefabs.SpecChanged:
		if prefabs.SpecName(c.Name) != s.tuningName {
			return nil
		}
		return s.Retune()
	case prefabs.ScriptChanged:
		s.Scripts.Reload(c.Name)
		s.logger.Info("script reloaded", "script", c.Name)
	}
	return nil
}
