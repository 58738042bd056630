// Package state owns everything a diagram remembers between frames: named
// drag points, range and checkbox controls with their registered defaults,
// and the pointer sessions currently dragging points.
//
// State does no I/O and no drawing. It is driven by the frame scheduler,
// which stages raw input into it and then runs the per-frame steps
// (UpdateDrags, Nearest, Snapshot, ReleaseStale) in order. It is not safe
// for concurrent use.
package state

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"geoboard/geom"
	"geoboard/logging"
)

// PointerID identifies a pointer (mouse, pen or touch) as reported by the
// host.
type PointerID int64

// NoPointer marks a drag point that no session owns.
const NoPointer PointerID = -1

// DragPoint is a named point the user can drag.
type DragPoint struct {
	Name  string
	Pos   geom.Vec
	Owner PointerID
}

// RangeControl is a numeric slider.
type RangeControl struct {
	Name     string
	Min, Max float64
	Step     float64
	Value    float64
	Initial  float64
	Template string
}

// Set clamps v to [Min,Max], snaps it to the step grid and stores it.
func (r *RangeControl) Set(v float64) {
	r.Value = r.normalize(v)
}

func (r *RangeControl) normalize(v float64) float64 {
	if math.IsNaN(v) {
		v = r.Min
	}
	if r.Step > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Label renders the label template with {} replaced by the value.
func (r *RangeControl) Label() string {
	return strings.Replace(r.Template, "{}", strconv.FormatFloat(r.Value, 'f', -1, 64), 1)
}

// CheckboxControl is a boolean toggle.
type CheckboxControl struct {
	Name    string
	Checked bool
	Initial bool
	Label   string
}

// Move records a completed drag of one point.
type Move struct {
	Name     string
	From, To geom.Vec
}

// State is the registry of points, controls and pointer sessions.
type State struct {
	points     map[string]*DragPoint
	pointOrder []string
	initial    map[string]geom.Vec

	ranges     map[string]*RangeControl
	rangeOrder []string

	checks     map[string]*CheckboxControl
	checkOrder []string

	sessions     map[PointerID]*Session
	sessionOrder []PointerID

	cursor    geom.Vec
	hasCursor bool

	moves []Move
}

// New returns an empty State.
func New() *State {
	s := &State{}
	s.Clear()
	return s
}

// Clear forgets every point, control and session.
func (s *State) Clear() {
	s.points = make(map[string]*DragPoint)
	s.pointOrder = nil
	s.initial = make(map[string]geom.Vec)
	s.ranges = make(map[string]*RangeControl)
	s.rangeOrder = nil
	s.checks = make(map[string]*CheckboxControl)
	s.checkOrder = nil
	s.sessions = make(map[PointerID]*Session)
	s.sessionOrder = nil
	s.hasCursor = false
	s.moves = nil
}

// AddDragPoint registers the reset position of name. The first
// registration also creates the point there; later ones leave the current
// position alone.
func (s *State) AddDragPoint(name string, x, y float64) {
	pos := geom.V(x, y)
	s.initial[name] = pos
	if _, ok := s.points[name]; ok {
		return
	}
	s.points[name] = &DragPoint{Name: name, Pos: pos, Owner: NoPointer}
	s.pointOrder = append(s.pointOrder, name)
}

// AddRange registers or reconfigures a range with a step of 1. An empty
// label selects "<name> = {}".
func (s *State) AddRange(name string, min, max, value float64, label string) {
	s.AddRangeStep(name, min, max, 1, value, label)
}

// AddRangeStep is AddRange with an explicit step. A step of 0 disables
// snapping. Registration always applies value, even to an existing range.
func (s *State) AddRangeStep(name string, min, max, step, value float64, label string) {
	if label == "" {
		label = name + " = {}"
	}
	r, ok := s.ranges[name]
	if !ok {
		r = &RangeControl{Name: name}
		s.ranges[name] = r
		s.rangeOrder = append(s.rangeOrder, name)
	}
	r.Min, r.Max, r.Step, r.Template = min, max, step, label
	r.Initial = r.normalize(value)
	r.Value = r.Initial
}

// AddCheckbox registers or reconfigures a checkbox. An empty label
// selects the name. Registration always applies value.
func (s *State) AddCheckbox(name string, value bool, label string) {
	if label == "" {
		label = name
	}
	c, ok := s.checks[name]
	if !ok {
		c = &CheckboxControl{Name: name}
		s.checks[name] = c
		s.checkOrder = append(s.checkOrder, name)
	}
	c.Label = label
	c.Initial = value
	c.Checked = value
}

// SetRange applies a user input to a range. It reports false for an
// unknown name.
func (s *State) SetRange(name string, v float64) bool {
	r, ok := s.ranges[name]
	if !ok {
		return false
	}
	r.Set(v)
	return true
}

// SetCheckbox applies a user input to a checkbox. It reports false for an
// unknown name.
func (s *State) SetCheckbox(name string, checked bool) bool {
	c, ok := s.checks[name]
	if !ok {
		return false
	}
	c.Checked = checked
	return true
}

// MovePoint places an unowned point. It fails when the point is unknown
// or a live session is dragging it.
func (s *State) MovePoint(name string, pos geom.Vec) error {
	p, ok := s.points[name]
	if !ok {
		return fmt.Errorf("state: unknown drag point %q", name)
	}
	if s.dragging(p) {
		return fmt.Errorf("state: drag point %q is being dragged", name)
	}
	p.Pos = pos
	return nil
}

// Reset restores every point and control to its registered default.
// Points are replaced, so sessions still holding the old ones stop
// dragging; UpdateDrags detaches them.
func (s *State) Reset() {
	for _, name := range s.pointOrder {
		s.points[name] = &DragPoint{Name: name, Pos: s.initial[name], Owner: NoPointer}
	}
	for _, r := range s.ranges {
		r.Value = r.Initial
	}
	for _, c := range s.checks {
		c.Checked = c.Initial
	}
}

// RescalePoints multiplies every point position by (sx, sy).
func (s *State) RescalePoints(sx, sy float64) {
	for _, name := range s.pointOrder {
		p := s.points[name]
		p.Pos = p.Pos.Scale(sx, sy)
	}
}

// Point returns a copy of the named point.
func (s *State) Point(name string) (DragPoint, bool) {
	p, ok := s.points[name]
	if !ok {
		return DragPoint{}, false
	}
	return *p, true
}

// Range returns a copy of the named range.
func (s *State) Range(name string) (RangeControl, bool) {
	r, ok := s.ranges[name]
	if !ok {
		return RangeControl{}, false
	}
	return *r, true
}

// Checkbox returns a copy of the named checkbox.
func (s *State) Checkbox(name string) (CheckboxControl, bool) {
	c, ok := s.checks[name]
	if !ok {
		return CheckboxControl{}, false
	}
	return *c, true
}

// Ranges returns copies of the ranges in registration order.
func (s *State) Ranges() []RangeControl {
	out := make([]RangeControl, 0, len(s.rangeOrder))
	for _, name := range s.rangeOrder {
		out = append(out, *s.ranges[name])
	}
	return out
}

// Checkboxes returns copies of the checkboxes in registration order.
func (s *State) Checkboxes() []CheckboxControl {
	out := make([]CheckboxControl, 0, len(s.checkOrder))
	for _, name := range s.checkOrder {
		out = append(out, *s.checks[name])
	}
	return out
}

// PointView is a drag point as the draw phase sees it.
type PointView struct {
	Name    string
	Pos     geom.Vec
	Dragged bool
}

// Points returns the drag points in registration order.
func (s *State) Points() []PointView {
	out := make([]PointView, 0, len(s.pointOrder))
	for _, name := range s.pointOrder {
		p := s.points[name]
		out = append(out, PointView{Name: name, Pos: p.Pos, Dragged: s.dragging(p)})
	}
	return out
}

// Nearest returns the point closest to the cursor. ok is false when there
// is no cursor or no point. Ties go to the earliest registered point.
func (s *State) Nearest() (name string, ok bool) {
	if !s.hasCursor {
		return "", false
	}
	p := s.nearestTo(s.cursor, nil)
	if p == nil {
		return "", false
	}
	return p.Name, true
}

// nearestTo finds the point with minimum distance to pos, skipping points
// for which skip returns true.
func (s *State) nearestTo(pos geom.Vec, skip func(*DragPoint) bool) *DragPoint {
	var best *DragPoint
	minDist := math.Inf(1)
	for _, name := range s.pointOrder {
		p := s.points[name]
		if skip != nil && skip(p) {
			continue
		}
		if d := pos.Dist(p.Pos); d < minDist {
			minDist = d
			best = p
		}
	}
	return best
}

// ReleaseStale clears the owner of every point whose owning session has
// ended or no longer holds it.
func (s *State) ReleaseStale() {
	for _, name := range s.pointOrder {
		p := s.points[name]
		if p.Owner == NoPointer {
			continue
		}
		if !s.dragging(p) {
			logging.Logger().Debug("released stale binding", "point", name, "pointer", int64(p.Owner))
			p.Owner = NoPointer
		}
	}
}

// dragging reports whether a live session currently holds p.
func (s *State) dragging(p *DragPoint) bool {
	if p.Owner == NoPointer {
		return false
	}
	sess, ok := s.sessions[p.Owner]
	return ok && sess.point == p
}

// TakeMoves returns and forgets the drags completed since the last call.
func (s *State) TakeMoves() []Move {
	m := s.moves
	s.moves = nil
	return m
}
