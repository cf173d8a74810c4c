package engine

import "fmt"

// EventKind says which dispatch entry point an Event goes to
type EventKind int

const (
	EventAbsolute EventKind = iota
	EventRelative
	EventAccelerated
	EventTouch
)

func (k EventKind) String() string {
	switch k {
	case EventAbsolute:
		return "abs"
	case EventRelative:
		return "rel"
	case EventAccelerated:
		return "accel"
	case EventTouch:
		return "touch"
	}
	return "unknown"
}

// Event is a decoded control message from a transport
type Event struct {
	Widget string
	Kind   EventKind
	Value  float64
	Accel  int
}

func (e Event) String() string {
	if e.Kind == EventAccelerated {
		return fmt.Sprintf("%s %s %+.3f [%d]", e.Widget, e.Kind, e.Value, e.Accel)
	}
	return fmt.Sprintf("%s %s %.3f", e.Widget, e.Kind, e.Value)
}

// Handle dispatches an event and reports whether a zone claimed it
func (s *Surface) Handle(ev Event) bool {
	switch ev.Kind {
	case EventRelative:
		return s.DoRelativeAction(ev.Widget, ev.Value)
	case EventAccelerated:
		return s.DoAcceleratedRelativeAction(ev.Widget, ev.Value, ev.Accel)
	case EventTouch:
		return s.DoTouch(ev.Widget, ev.Value)
	}
	return s.DoAction(ev.Widget, ev.Value)
}
