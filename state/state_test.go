package state

import (
	"testing"

	"gopkg.in/d4l3k/messagediff.v1"

	"geoboard/geom"
)

const eps = 1e-9

func mustPoint(t *testing.T, s *State, name string) DragPoint {
	t.Helper()
	p, ok := s.Point(name)
	if !ok {
		t.Fatalf("point %q not registered", name)
	}
	return p
}

func TestDragBindsNearest(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 0, 0)
	s.AddDragPoint("B", 10, 10)

	s.PointerDown(1, geom.V(1, 1))
	if !s.UpdateDrags() {
		t.Fatal("UpdateDrags reported no drag")
	}
	if p := mustPoint(t, s, "A"); p.Owner != 1 {
		t.Errorf("A owner = %d, want 1", p.Owner)
	}

	s.PointerMove(1, geom.V(4, -2))
	s.UpdateDrags()
	if p := mustPoint(t, s, "A"); !p.Pos.Approx(geom.V(3, -3), eps) {
		t.Errorf("A = %v, want (3, -3)", p.Pos)
	}
	s.PointerMove(1, geom.V(6, 6))
	s.UpdateDrags()
	if p := mustPoint(t, s, "A"); !p.Pos.Approx(geom.V(5, 5), eps) {
		t.Errorf("A = %v, want (5, 5)", p.Pos)
	}
	if p := mustPoint(t, s, "B"); p.Pos != geom.V(10, 10) {
		t.Errorf("B moved to %v", p.Pos)
	}
}

func TestBindingIsPermanentUntilRelease(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 0, 0)
	s.AddDragPoint("B", 10, 0)

	s.PointerDown(1, geom.V(1, 0))
	s.UpdateDrags()
	// Dragging A right past B must not switch the binding.
	s.PointerMove(1, geom.V(20, 0))
	s.UpdateDrags()
	if ss, _ := s.Session(1); ss == nil {
		t.Fatal("session vanished")
	} else if name, _ := ss.Bound(); name != "A" {
		t.Errorf("bound to %q, want A", name)
	}
	if p := mustPoint(t, s, "A"); p.Pos != geom.V(19, 0) {
		t.Errorf("A = %v, want (19, 0)", p.Pos)
	}
}

func TestTiesGoToFirstRegistered(t *testing.T) {
	s := New()
	s.AddDragPoint("B", 2, 0)
	s.AddDragPoint("A", 0, 0)
	s.PointerDown(7, geom.V(1, 0))
	s.UpdateDrags()
	ss, _ := s.Session(7)
	if name, _ := ss.Bound(); name != "B" {
		t.Errorf("bound to %q, want B", name)
	}
}

func TestBindingIsExclusive(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 0, 0)
	s.AddDragPoint("B", 10, 0)

	s.PointerDown(1, geom.V(0, 0))
	s.PointerDown(2, geom.V(1, 0))
	s.UpdateDrags()

	s1, _ := s.Session(1)
	s2, _ := s.Session(2)
	n1, _ := s1.Bound()
	n2, _ := s2.Bound()
	if n1 != "A" || n2 != "B" {
		t.Errorf("bindings = %q, %q; want A, B", n1, n2)
	}
}

func TestUnboundSessionRetries(t *testing.T) {
	s := New()
	s.PointerDown(1, geom.V(3, 3))
	if s.UpdateDrags() {
		t.Error("drag reported with no points")
	}
	s.AddDragPoint("A", 0, 0)
	if !s.UpdateDrags() {
		t.Error("session did not bind once a point appeared")
	}
}

func TestPointerUpRecordsMove(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 0, 0)
	s.PointerDown(1, geom.V(0, 0))
	s.UpdateDrags()
	s.PointerMove(1, geom.V(1, 1))
	// Final position arrives with the release.
	s.PointerUp(1, geom.V(2, 3))

	if p := mustPoint(t, s, "A"); p.Pos != geom.V(2, 3) {
		t.Errorf("A = %v, want (2, 3)", p.Pos)
	}
	want := []Move{{Name: "A", From: geom.V(0, 0), To: geom.V(2, 3)}}
	if diff, equal := messagediff.PrettyDiff(s.TakeMoves(), want); !equal {
		t.Errorf("moves diff:\n%s", diff)
	}
	if len(s.TakeMoves()) != 0 {
		t.Error("TakeMoves did not drain")
	}
	s.ReleaseStale()
	if p := mustPoint(t, s, "A"); p.Owner != NoPointer {
		t.Errorf("owner = %d after release", p.Owner)
	}
}

func TestLeaveClearsCursorWhenLastPointerGoes(t *testing.T) {
	s := New()
	s.PointerDown(1, geom.V(1, 1))
	s.PointerDown(2, geom.V(2, 2))
	s.PointerLeave(1)
	if _, ok := s.Cursor(); !ok {
		t.Error("cursor cleared while a pointer remains")
	}
	s.PointerLeave(2)
	if _, ok := s.Cursor(); ok {
		t.Error("cursor kept with no pointers left")
	}
}

func TestUpKeepsCursor(t *testing.T) {
	s := New()
	s.PointerDown(1, geom.V(1, 1))
	s.PointerUp(1, geom.V(5, 5))
	if c, ok := s.Cursor(); !ok || c != geom.V(5, 5) {
		t.Errorf("cursor = %v, %v", c, ok)
	}
	if s.SessionCount() != 0 {
		t.Error("session survived pointer up")
	}
}

func TestNearest(t *testing.T) {
	s := New()
	if _, ok := s.Nearest(); ok {
		t.Error("Nearest with no cursor")
	}
	s.AddDragPoint("A", 0, 0)
	s.AddDragPoint("B", 4, 4)
	s.PointerMove(3, geom.V(3, 3))
	if name, ok := s.Nearest(); !ok || name != "B" {
		t.Errorf("Nearest = %q, %v", name, ok)
	}
}

func TestResetRestoresAndUnbinds(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 4, 1)
	s.AddRange("T", 0, 200, 70, "")
	s.AddCheckbox("C", true, "")

	s.PointerDown(1, geom.V(4, 1))
	s.UpdateDrags()
	s.PointerMove(1, geom.V(6, 3))
	s.UpdateDrags()
	s.SetRange("T", 10)
	s.SetCheckbox("C", false)

	s.Reset()
	if p := mustPoint(t, s, "A"); p.Pos != geom.V(4, 1) || p.Owner != NoPointer {
		t.Errorf("after reset A = %+v", p)
	}
	// The pointer is still held: further motion must not move A.
	s.PointerMove(1, geom.V(9, 9))
	if s.UpdateDrags() {
		t.Error("detached session still reported as dragging")
	}
	if p := mustPoint(t, s, "A"); p.Pos != geom.V(4, 1) {
		t.Errorf("A moved after reset to %v", p.Pos)
	}
	if ss, _ := s.Session(1); !ss.Detached() {
		t.Error("session not detached")
	}
	s.PointerUp(1, geom.V(9, 9))
	if m := s.TakeMoves(); len(m) != 0 {
		t.Errorf("detached session recorded moves %v", m)
	}
	if r, _ := s.Range("T"); r.Value != 70 {
		t.Errorf("T = %g after reset", r.Value)
	}
	if c, _ := s.Checkbox("C"); !c.Checked {
		t.Error("C not restored")
	}
}

func TestAddDragPointKeepsRuntimePosition(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 1, 1)
	if err := s.MovePoint("A", geom.V(5, 5)); err != nil {
		t.Fatal(err)
	}
	s.AddDragPoint("A", 2, 2)
	if p := mustPoint(t, s, "A"); p.Pos != geom.V(5, 5) {
		t.Errorf("re-registration moved A to %v", p.Pos)
	}
	s.Reset()
	if p := mustPoint(t, s, "A"); p.Pos != geom.V(2, 2) {
		t.Errorf("reset used stale default: %v", p.Pos)
	}
	if n := len(s.Points()); n != 1 {
		t.Errorf("%d points registered, want 1", n)
	}
}

func TestAddRangeReconfigures(t *testing.T) {
	s := New()
	s.AddRange("T", 0, 200, 70, "")
	s.SetRange("T", 120)
	s.AddRange("T", 10, 50, 30, "Thickness = {} px")

	r, _ := s.Range("T")
	want := RangeControl{Name: "T", Min: 10, Max: 50, Step: 1, Value: 30, Initial: 30, Template: "Thickness = {} px"}
	if diff, equal := messagediff.PrettyDiff(r, want); !equal {
		t.Errorf("range diff:\n%s", diff)
	}
	if got := r.Label(); got != "Thickness = 30 px" {
		t.Errorf("Label = %q", got)
	}
	if n := len(s.Ranges()); n != 1 {
		t.Errorf("%d ranges, want 1", n)
	}
}

func TestRangeClampAndStep(t *testing.T) {
	tests := []struct {
		name           string
		min, max, step float64
		in, want       float64
	}{
		{"inside", 0, 200, 1, 70, 70},
		{"rounds to step", 0, 200, 1, 70.6, 71},
		{"clamps high", 0, 200, 1, 500, 200},
		{"clamps low", 0, 200, 1, -3, 0},
		{"offset grid", 1, 2, 0.25, 1.3, 1.25},
		{"no snapping", 0, 1, 0, 0.123, 0.123},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RangeControl{Min: tt.min, Max: tt.max, Step: tt.step}
			r.Set(tt.in)
			if r.Value != tt.want {
				t.Errorf("Set(%g) = %g, want %g", tt.in, r.Value, tt.want)
			}
		})
	}
}

func TestDefaultLabels(t *testing.T) {
	s := New()
	s.AddRange("Angle", 0, 90, 45, "")
	s.AddCheckbox("Show", false, "")
	if r, _ := s.Range("Angle"); r.Label() != "Angle = 45" {
		t.Errorf("range label = %q", r.Label())
	}
	if c, _ := s.Checkbox("Show"); c.Label != "Show" {
		t.Errorf("checkbox label = %q", c.Label)
	}
	if s.SetRange("Nope", 1) || s.SetCheckbox("Nope", true) {
		t.Error("unknown control accepted")
	}
}

func TestMovePointRefusesDraggedPoint(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 0, 0)
	s.PointerDown(1, geom.V(0, 0))
	s.UpdateDrags()
	if err := s.MovePoint("A", geom.V(1, 1)); err == nil {
		t.Error("moved a dragged point")
	}
	if err := s.MovePoint("Z", geom.V(1, 1)); err == nil {
		t.Error("moved an unknown point")
	}
}

func TestRescalePoints(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 50, 50)
	s.RescalePoints(2, 1)
	if p := mustPoint(t, s, "A"); p.Pos != geom.V(100, 50) {
		t.Errorf("A = %v, want (100, 50)", p.Pos)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 1, 2)
	s.AddRange("T", 0, 10, 3, "")
	s.AddCheckbox("C", true, "")

	snap := s.Snapshot(9)
	want := Snapshot{
		Frame:  9,
		Points: map[string]geom.Vec{"A": geom.V(1, 2)},
		Ranges: map[string]float64{"T": 3},
		Checks: map[string]bool{"C": true},
	}
	if diff, equal := messagediff.PrettyDiff(snap, want); !equal {
		t.Errorf("snapshot diff:\n%s", diff)
	}
	snap.Points["A"] = geom.V(100, 100)
	if p := mustPoint(t, s, "A"); p.Pos != geom.V(1, 2) {
		t.Error("mutating the snapshot changed the state")
	}
	if snap.Point("missing").IsFinite() {
		t.Error("missing point should be NaN")
	}
	lines := snap.Lines()
	wantLines := []string{"A = (100.0000, 100.0000)", "C = true", "T = 3.0000"}
	if diff, equal := messagediff.PrettyDiff(lines, wantLines); !equal {
		t.Errorf("lines diff:\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.AddDragPoint("A", 1, 2)
	s.PointerDown(1, geom.V(0, 0))
	s.Clear()
	if len(s.Points()) != 0 || s.SessionCount() != 0 {
		t.Error("Clear left state behind")
	}
}
