package system

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raycontroller/controller"
	"github.com/milk9111/raycontroller/ecs"
	"github.com/milk9111/raycontroller/prefabs"
)

// Script globals. Inputs are refreshed before every run; outputs are read
// after it.
const (
	scriptStep   = "step"
	scriptBelow  = "below"
	scriptAbove  = "above"
	scriptLeft   = "left"
	scriptRight  = "right"
	scriptFacing = "facing"
	scriptX      = "x"
	scriptY      = "y"

	scriptMoveX        = "move_x"
	scriptJumpPressed  = "jump_pressed"
	scriptJumpReleased = "jump_released"
)

// ScriptInputSystem drives bodies from tengo scripts. Each script is
// compiled once and cloned per entity, so globals a script keeps between
// runs are private to its entity.
type ScriptInputSystem struct {
	load   func(name string) ([]byte, error)
	logger *log.Logger

	compiled map[string]*tengo.Compiled
	runtimes map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	name     string
	compiled *tengo.Compiled
}

// NewScriptInputSystem reads scripts with load, or prefabs.LoadScript when
// load is nil.
func NewScriptInputSystem(load func(name string) ([]byte, error), logger *log.Logger) *ScriptInputSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ScriptInputSystem{
		load:     load,
		logger:   logger,
		compiled: map[string]*tengo.Compiled{},
		runtimes: map[ecs.Entity]*scriptRuntime{},
	}
}

// Compile loads and compiles a script without running it.
func (s *ScriptInputSystem) Compile(name string) error {
	_, err := s.program(name)
	return err
}

// Reload drops the cached program for name so the next step recompiles it.
// Entities running it start over with fresh globals.
func (s *ScriptInputSystem) Reload(name string) {
	name = strings.TrimSpace(name)
	for key := range s.compiled {
		if sameScript(key, name) {
			delete(s.compiled, key)
		}
	}
	for e, rt := range s.runtimes {
		if sameScript(rt.name, name) {
			delete(s.runtimes, e)
		}
	}
}

func sameScript(a, b string) bool {
	trim := func(s string) string {
		s = strings.TrimSuffix(s, ".tengo")
		if i := strings.LastIndex(s, "/"); i >= 0 {
			s = s[i+1:]
		}
		return s
	}
	return trim(a) == trim(b)
}

func (s *ScriptInputSystem) program(name string) (*tengo.Compiled, error) {
	if c, ok := s.compiled[name]; ok {
		return c, nil
	}
	src, err := s.load(name)
	if err != nil {
		return nil, fmt.Errorf("script %s: load: %w", name, err)
	}

	script := tengo.NewScript(src)
	_ = script.Add(scriptStep, 0)
	_ = script.Add(scriptBelow, false)
	_ = script.Add(scriptAbove, false)
	_ = script.Add(scriptLeft, false)
	_ = script.Add(scriptRight, false)
	_ = script.Add(scriptFacing, 1)
	_ = script.Add(scriptX, 0.0)
	_ = script.Add(scriptY, 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: compile: %w", name, err)
	}
	s.compiled[name] = compiled
	s.logger.Debug("compiled input script", "script", name)
	return compiled, nil
}

func (s *ScriptInputSystem) runtime(e ecs.Entity, name string) (*scriptRuntime, error) {
	if rt, ok := s.runtimes[e]; ok && rt.name == name {
		return rt, nil
	}
	prog, err := s.program(name)
	if err != nil {
		return nil, err
	}
	rt := &scriptRuntime{name: name, compiled: prog.Clone()}
	s.runtimes[e] = rt
	return rt, nil
}

func (s *ScriptInputSystem) Update(w *ecs.World) error {
	if w == nil {
		return nil
	}
	scripts := w.Scripts()
	for e := range s.runtimes {
		if !scripts.Has(e) {
			delete(s.runtimes, e)
		}
	}

	for _, e := range scripts.Entities() {
		body, ok := w.Body(e)
		if !ok {
			continue
		}
		name, _ := scripts.Get(e)
		rt, err := s.runtime(e, name)
		if err != nil {
			return err
		}
		in, err := rt.run(w.StepCount(), body)
		if err != nil {
			return fmt.Errorf("script %s: entity %s: %w", name, e, err)
		}
		SetInput(w, e, in)
	}
	return nil
}

func (rt *scriptRuntime) run(step int, body *controller.Body) (controller.Input, error) {
	c := body.Contacts()
	pos := body.Position()
	inputs := []struct {
		name  string
		value any
	}{
		{scriptStep, step},
		{scriptBelow, c.Below},
		{scriptAbove, c.Above},
		{scriptLeft, c.Left},
		{scriptRight, c.Right},
		{scriptFacing, c.Facing},
		{scriptX, pos.X},
		{scriptY, pos.Y},
	}
	for _, in := range inputs {
		if err := rt.compiled.Set(in.name, in.value); err != nil {
			return controller.Input{}, err
		}
	}
	if err := rt.compiled.Run(); err != nil {
		return controller.Input{}, err
	}

	return controller.Input{
		Axis:         cp.Vector{X: rt.compiled.Get(scriptMoveX).Float()},
		JumpPressed:  rt.compiled.Get(scriptJumpPressed).Bool(),
		JumpReleased: rt.compiled.Get(scriptJumpReleased).Bool(),
	}, nil
}
