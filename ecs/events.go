package ecs

// ContactEventKind identifies a change in a body's contacts between two steps.
type ContactEventKind string

const (
	ContactLanded       ContactEventKind = "landed"
	ContactLeftGround   ContactEventKind = "left_ground"
	ContactHitCeiling   ContactEventKind = "hit_ceiling"
	ContactHitWallLeft  ContactEventKind = "hit_wall_left"
	ContactHitWallRight ContactEventKind = "hit_wall_right"
)

// ContactEvent is emitted when a body's contact flags change.
type ContactEvent struct {
	Entity Entity
	Kind   ContactEventKind
	Step   int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []ContactEvent
}

func (q *EventQueue) Push(evt ContactEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Pending returns queued events without clearing them.
func (q *EventQueue) Pending() []ContactEvent {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []ContactEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
