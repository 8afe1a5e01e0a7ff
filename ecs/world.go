package ecs

import (
	"fmt"

	"github.com/milk9111/raycontroller/controller"
	"github.com/milk9111/raycontroller/raycast"
)

const DefaultDelta = 1.0 / 60.0

// World owns entities, their components and the per-step event queue.
type World struct {
	entities entityStore
	events   EventQueue

	delta float64
	step  int

	bodies   *SparseSet[*controller.Body]
	inputs   *SparseSet[controller.Input]
	scripts  *SparseSet[string]
	contacts *SparseSet[raycast.Contacts]
}

// NewWorld creates an empty world that advances delta seconds per Step.
// A non-positive delta falls back to DefaultDelta.
func NewWorld(delta float64) *World {
	if delta <= 0 {
		delta = DefaultDelta
	}
	return &World{
		delta:    delta,
		bodies:   NewSparseSet[*controller.Body](),
		inputs:   NewSparseSet[controller.Input](),
		scripts:  NewSparseSet[string](),
		contacts: NewSparseSet[raycast.Contacts](),
	}
}

func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes the entity and every component it owns.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	w.bodies.Remove(e)
	w.inputs.Remove(e)
	w.scripts.Remove(e)
	w.contacts.Remove(e)
	return true
}

func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

func (w *World) EntityCount() int {
	return w.entities.alive
}

// AddBody attaches a body and an empty input to e.
func (w *World) AddBody(e Entity, b *controller.Body) error {
	if !w.IsAlive(e) {
		return fmt.Errorf("ecs: add body: entity %s is not alive", e)
	}
	if b == nil {
		return fmt.Errorf("ecs: add body: nil body for entity %s", e)
	}
	w.bodies.Set(e, b)
	w.inputs.Set(e, controller.Input{})
	w.contacts.Set(e, b.Contacts())
	return nil
}

// SetScript marks e as driven by the named input script.
func (w *World) SetScript(e Entity, name string) error {
	if !w.IsAlive(e) {
		return fmt.Errorf("ecs: set script: entity %s is not alive", e)
	}
	w.scripts.Set(e, name)
	return nil
}

func (w *World) Body(e Entity) (*controller.Body, bool) {
	return w.bodies.Get(e)
}

func (w *World) Bodies() *SparseSet[*controller.Body] {
	return w.bodies
}

func (w *World) Inputs() *SparseSet[controller.Input] {
	return w.inputs
}

func (w *World) Scripts() *SparseSet[string] {
	return w.scripts
}

// PreviousContacts holds each body's contacts as of the end of the last
// contact diff.
func (w *World) PreviousContacts() *SparseSet[raycast.Contacts] {
	return w.contacts
}

func (w *World) Events() *EventQueue {
	return &w.events
}

func (w *World) Delta() float64 {
	return w.delta
}

// StepCount is the number of completed steps.
func (w *World) StepCount() int {
	return w.step
}

// Step runs the scheduler once and advances the step counter. Events pushed
// during the step stay queued until drained.
func (w *World) Step(s *Scheduler) error {
	if s != nil {
		if err := s.Update(w); err != nil {
			return fmt.Errorf("ecs: step %d: %w", w.step, err)
		}
	}
	w.step++
	return nil
}
