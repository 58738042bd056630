package frame

import (
	"fmt"

	"geoboard/geom"
	"geoboard/state"
)

// EventKind says what a staged input event does.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerCancel
	PointerLeave
	RangeInput
	CheckboxInput
	MovePoint
	Reset
)

var eventKindNames = [...]string{
	PointerDown:   "pointerdown",
	PointerMove:   "pointermove",
	PointerUp:     "pointerup",
	PointerCancel: "pointercancel",
	PointerLeave:  "pointerleave",
	RangeInput:    "range",
	CheckboxInput: "checkbox",
	MovePoint:     "move",
	Reset:         "reset",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, error) {
	for k, name := range eventKindNames {
		if name == s {
			return EventKind(k), nil
		}
	}
	return 0, fmt.Errorf("frame: unknown event kind %q", s)
}

// Event is raw input staged by a host. Pointer positions are surface
// pixels; MovePoint positions are in the diagram's own coordinates.
type Event struct {
	Kind    EventKind
	Pointer state.PointerID
	Pos     geom.Vec

	Name    string
	Value   float64
	Checked bool
}

// Pointer events

func Down(id state.PointerID, px, py float64) Event {
	return Event{Kind: PointerDown, Pointer: id, Pos: geom.V(px, py)}
}

func Move(id state.PointerID, px, py float64) Event {
	return Event{Kind: PointerMove, Pointer: id, Pos: geom.V(px, py)}
}

func Up(id state.PointerID, px, py float64) Event {
	return Event{Kind: PointerUp, Pointer: id, Pos: geom.V(px, py)}
}

func Leave(id state.PointerID) Event {
	return Event{Kind: PointerLeave, Pointer: id}
}

// Control events

func SetRange(name string, v float64) Event {
	return Event{Kind: RangeInput, Name: name, Value: v}
}

func SetCheckbox(name string, checked bool) Event {
	return Event{Kind: CheckboxInput, Name: name, Checked: checked}
}

func PlacePoint(name string, pos geom.Vec) Event {
	return Event{Kind: MovePoint, Name: name, Pos: pos}
}

func ResetAll() Event {
	return Event{Kind: Reset}
}
