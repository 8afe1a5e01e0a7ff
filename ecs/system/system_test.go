package system

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raycontroller/controller"
	"github.com/milk9111/raycontroller/ecs"
	"github.com/milk9111/raycontroller/physics"
	"github.com/milk9111/raycontroller/raycast"
)

func floorWorld(t *testing.T, spawn cp.Vector) (*ecs.World, ecs.Entity, *controller.Body) {
	t.Helper()
	boxes := physics.NewBoxes(
		physics.Box{BB: cp.BB{L: -20, B: -1, R: 20, T: 0}},
		physics.Box{BB: cp.BB{L: 5, B: 0, R: 6, T: 10}},
	)
	body, err := controller.New(spawn, controller.DefaultTuning(), boxes)
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	w := ecs.NewWorld(1.0 / 60.0)
	e := w.CreateEntity()
	if err := w.AddBody(e, body); err != nil {
		t.Fatalf("add body: %v", err)
	}
	return w, e, body
}

func TestMovementConsumesJumpEdges(t *testing.T) {
	w, e, body := floorWorld(t, cp.Vector{Y: 0.5})
	s := ecs.NewScheduler(NewMovementSystem())

	if err := w.Step(s); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !body.Grounded() {
		t.Fatalf("expected body to be grounded after first step")
	}

	SetInput(w, e, controller.Input{Axis: cp.Vector{X: 1}, JumpPressed: true})
	if err := w.Step(s); err != nil {
		t.Fatalf("step: %v", err)
	}
	if body.Velocity().Y <= 0 {
		t.Fatalf("expected upward velocity after jump, got %v", body.Velocity().Y)
	}
	in, _ := w.Inputs().Get(e)
	if in.JumpPressed || in.JumpReleased {
		t.Fatalf("expected jump edges consumed, got %+v", in)
	}
	if in.Axis.X != 1 {
		t.Fatalf("expected axis to persist, got %v", in.Axis.X)
	}
}

func TestSetInputKeepsPendingEdges(t *testing.T) {
	w, e, _ := floorWorld(t, cp.Vector{Y: 0.5})
	SetInput(w, e, controller.Input{JumpPressed: true})
	SetInput(w, e, controller.Input{Axis: cp.Vector{X: -1}})

	in, _ := w.Inputs().Get(e)
	if !in.JumpPressed || in.Axis.X != -1 {
		t.Fatalf("expected pending press and new axis, got %+v", in)
	}

	SetInput(w, w.CreateEntity(), controller.Input{JumpPressed: true})
	if w.Inputs().Len() != 1 {
		t.Fatalf("expected input for body-less entity to be ignored")
	}
}

func TestContactEvents(t *testing.T) {
	w, e, _ := floorWorld(t, cp.Vector{X: 2, Y: 3})
	s := ecs.NewScheduler(NewMovementSystem(), NewContactEventSystem(nil))

	landed := 0
	for i := 0; i < 60; i++ {
		if err := w.Step(s); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		for _, evt := range w.Events().Drain() {
			if evt.Entity != e {
				t.Fatalf("unexpected entity %s", evt.Entity)
			}
			if evt.Kind == ecs.ContactLanded {
				landed++
			}
		}
	}
	if landed != 1 {
		t.Fatalf("expected one landing, got %d", landed)
	}

	SetInput(w, e, controller.Input{Axis: cp.Vector{X: 1}})
	var kinds []ecs.ContactEventKind
	for i := 0; i < 120; i++ {
		if err := w.Step(s); err != nil {
			t.Fatalf("step: %v", err)
		}
		for _, evt := range w.Events().Drain() {
			kinds = append(kinds, evt.Kind)
		}
	}
	if len(kinds) != 1 || kinds[0] != ecs.ContactHitWallRight {
		t.Fatalf("expected a single right wall event, got %v", kinds)
	}
}

func TestDiffContacts(t *testing.T) {
	cases := []struct {
		name string
		prev raycast.Contacts
		cur  raycast.Contacts
		want []ecs.ContactEventKind
	}{
		{name: "none", want: nil},
		{name: "landed", cur: raycast.Contacts{Below: true}, want: []ecs.ContactEventKind{ecs.ContactLanded}},
		{name: "left ground", prev: raycast.Contacts{Below: true}, want: []ecs.ContactEventKind{ecs.ContactLeftGround}},
		{name: "ceiling", cur: raycast.Contacts{Above: true}, want: []ecs.ContactEventKind{ecs.ContactHitCeiling}},
		{name: "walls", cur: raycast.Contacts{Left: true, Right: true}, want: []ecs.ContactEventKind{ecs.ContactHitWallLeft, ecs.ContactHitWallRight}},
		{name: "held", prev: raycast.Contacts{Right: true}, cur: raycast.Contacts{Right: true}, want: nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := diffContacts(c.prev, c.cur)
			if len(got) != len(c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("expected %v, got %v", c.want, got)
				}
			}
		})
	}
}

func sourceLoader(sources map[string]string, calls *int) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if calls != nil {
			*calls++
		}
		src, ok := sources[name]
		if !ok {
			return nil, errors.New("not found")
		}
		return []byte(src), nil
	}
}

func TestScriptInputDrivesBody(t *testing.T) {
	w, e, body := floorWorld(t, cp.Vector{Y: 0.5})
	if err := w.SetScript(e, "jumper"); err != nil {
		t.Fatalf("set script: %v", err)
	}
	load := sourceLoader(map[string]string{
		"jumper": "move_x := 1\njump_pressed := below && step == 1\njump_released := false\n",
	}, nil)
	s := ecs.NewScheduler(NewScriptInputSystem(load, nil), NewMovementSystem())

	for i := 0; i < 2; i++ {
		if err := w.Step(s); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if body.Velocity().Y <= 0 {
		t.Fatalf("expected script jump, got vy %v", body.Velocity().Y)
	}
	if body.Position().X <= 0 {
		t.Fatalf("expected script to move right, got x %v", body.Position().X)
	}
}

func TestScriptInputErrors(t *testing.T) {
	cases := []struct {
		name   string
		script string
	}{
		{name: "missing", script: "nope"},
		{name: "compile", script: "broken"},
		{name: "runtime", script: "panics"},
	}
	load := sourceLoader(map[string]string{
		"broken": "move_x := (",
		"panics": "move_x := 1 / (step - step)",
	}, nil)

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, e, _ := floorWorld(t, cp.Vector{Y: 0.5})
			if err := w.SetScript(e, c.script); err != nil {
				t.Fatalf("set script: %v", err)
			}
			s := ecs.NewScheduler(NewScriptInputSystem(load, nil))
			if err := w.Step(s); err == nil {
				t.Fatalf("expected error for %s script", c.name)
			}
		})
	}
}

func TestScriptReload(t *testing.T) {
	calls := 0
	sources := map[string]string{"walk": "move_x := 1\n"}
	sys := NewScriptInputSystem(sourceLoader(sources, &calls), nil)

	w, e, _ := floorWorld(t, cp.Vector{Y: 0.5})
	if err := w.SetScript(e, "walk"); err != nil {
		t.Fatalf("set script: %v", err)
	}
	s := ecs.NewScheduler(sys)

	for i := 0; i < 3; i++ {
		if err := w.Step(s); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected script loaded once, got %d", calls)
	}

	sources["walk"] = "move_x := -1\n"
	sys.Reload("scripts/walk.tengo")
	if err := w.Step(s); err != nil {
		t.Fatalf("step: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload to load again, got %d", calls)
	}
	in, _ := w.Inputs().Get(e)
	if in.Axis.X != -1 {
		t.Fatalf("expected reloaded script output, got %v", in.Axis.X)
	}
}

func TestEmbeddedScriptsCompile(t *testing.T) {
	sys := NewScriptInputSystem(nil, nil)
	for _, name := range []string{"hop", "patrol"} {
		if err := sys.Compile(name); err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
	}
}
