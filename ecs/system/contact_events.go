package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/raycontroller/ecs"
	"github.com/milk9111/raycontroller/raycast"
)

// ContactEventSystem compares each body's contacts with the previous step
// and queues an event for every side that changed.
type ContactEventSystem struct {
	logger *log.Logger
}

func NewContactEventSystem(logger *log.Logger) *ContactEventSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &ContactEventSystem{logger: logger}
}

func (c *ContactEventSystem) Update(w *ecs.World) error {
	if w == nil {
		return nil
	}
	prevs := w.PreviousContacts()
	for _, e := range w.Bodies().Entities() {
		body, _ := w.Body(e)
		cur := body.Contacts()
		prev, _ := prevs.Get(e)
		for _, kind := range diffContacts(prev, cur) {
			evt := ecs.ContactEvent{Entity: e, Kind: kind, Step: w.StepCount()}
			c.logger.Debug("contact", "entity", e, "kind", kind, "step", evt.Step)
			w.Events().Push(evt)
		}
		prevs.Set(e, cur)
	}
	return nil
}

func diffContacts(prev, cur raycast.Contacts) []ecs.ContactEventKind {
	var out []ecs.ContactEventKind
	if cur.Below && !prev.Below {
		out = append(out, ecs.ContactLanded)
	}
	if prev.Below && !cur.Below {
		out = append(out, ecs.ContactLeftGround)
	}
	if cur.Above && !prev.Above {
		out = append(out, ecs.ContactHitCeiling)
	}
	if cur.Left && !prev.Left {
		out = append(out, ecs.ContactHitWallLeft)
	}
	if cur.Right && !prev.Right {
		out = append(out, ecs.ContactHitWallRight)
	}
	return out
}
