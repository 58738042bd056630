package frame

import (
	"context"
	"image/color"
	"testing"
	"time"

	"gopkg.in/d4l3k/messagediff.v1"

	"geoboard/coords"
	"geoboard/geom"
	"geoboard/state"
	"geoboard/surface"
)

// newLogical returns a 100×100 pixel surface showing [0,10]×[0,10].
func newLogical(t *testing.T, opts Options) (*Scheduler, *state.State, *surface.Surface) {
	t.Helper()
	surf, err := surface.New(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	surf.UseLogical(coords.Bounds{XMax: 10, YMax: 10})
	surf.Reconcile()
	st := state.New()
	return New(st, surf, opts), st, surf
}

func pointAt(t *testing.T, st *state.State, name string) geom.Vec {
	t.Helper()
	p, ok := st.Point(name)
	if !ok {
		t.Fatalf("no point %q", name)
	}
	return p.Pos
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1>>8 == r2>>8 && g1>>8 == g2>>8 && b1>>8 == b2>>8 && a1>>8 == a2>>8
}

func TestDragThroughEvents(t *testing.T) {
	s, st, _ := newLogical(t, DefaultOptions())
	st.AddDragPoint("A", 0, 0)
	st.AddDragPoint("B", 10, 10)

	// Pixel (10,10) is logical (1,1).
	s.Post(Down(1, 10, 10))
	if stats := s.Tick(); !stats.Dragging {
		t.Fatal("no drag after pointer down")
	}
	s.Post(Move(1, 40, 30))
	s.Tick()
	if got := pointAt(t, st, "A"); !got.Approx(geom.V(3, 2), 1e-9) {
		t.Errorf("A = %v, want (3, 2)", got)
	}
	if got := pointAt(t, st, "B"); got != geom.V(10, 10) {
		t.Errorf("B moved to %v", got)
	}

	s.Post(Up(1, 50, 50))
	stats := s.Tick()
	want := []state.Move{{Name: "A", From: geom.V(0, 0), To: geom.V(4, 4)}}
	if diff, equal := messagediff.PrettyDiff(stats.Moves, want); !equal {
		t.Errorf("moves diff:\n%s", diff)
	}
	if stats.Dragging {
		t.Error("still dragging after release")
	}
	if p, _ := st.Point("A"); p.Owner != state.NoPointer {
		t.Errorf("A still owned by %d", p.Owner)
	}
}

func TestPixelResizeRescalesPoints(t *testing.T) {
	surf, err := surface.New(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	surf.UsePixel(100, 100)
	surf.Reconcile()
	st := state.New()
	st.AddDragPoint("P", 50, 50)
	s := New(st, surf, DefaultOptions())
	s.Tick()

	surf.SetClientSize(200, 100)
	stats := s.Tick()
	if !stats.Resized {
		t.Error("resize not reported")
	}
	if got := pointAt(t, st, "P"); got != geom.V(100, 50) {
		t.Errorf("P = %v, want (100, 50)", got)
	}
	if w, h := surf.BackingSize(); w != 200 || h != 100 {
		t.Errorf("backing = %dx%d", w, h)
	}
}

func TestLogicalResizeKeepsPoints(t *testing.T) {
	s, st, surf := newLogical(t, DefaultOptions())
	st.AddDragPoint("P", 5, 5)
	surf.Resize(300, 300)
	if stats := s.Tick(); !stats.Resized {
		t.Error("resize not reported")
	}
	if got := pointAt(t, st, "P"); got != geom.V(5, 5) {
		t.Errorf("P = %v, want (5, 5)", got)
	}
}

func TestInputQueuedBeforeResize(t *testing.T) {
	s, st, surf := newLogical(t, DefaultOptions())
	st.AddDragPoint("P", 2, 7)
	at := surf.Mapper().ToPixel(geom.V(2, 7))
	want := surf.Mapper().ToLogical(geom.V(at.X+10, at.Y))

	s.Post(Down(0, at.X, at.Y), Move(0, at.X+10, at.Y))
	surf.Resize(200, 200)
	s.Tick()

	if got, ok := st.Cursor(); !ok || !got.Approx(want, 1e-9) {
		t.Errorf("cursor = %v, want %v", got, want)
	}
	if got := pointAt(t, st, "P"); !got.Approx(want, 1e-9) {
		t.Errorf("P = %v, want %v", got, want)
	}
}

func TestPointsDrawnOverCallback(t *testing.T) {
	opts := DefaultOptions()
	s, st, surf := newLogical(t, opts)
	st.AddDragPoint("A", 5, 5)

	var got state.Snapshot
	s.SetDraw(func(snap state.Snapshot, d *surface.Surface) {
		got = snap
		d.DrawSegment(geom.V(0, 5), geom.V(10, 5), color.NRGBA{R: 255, A: 255}, 20)
	})
	s.Tick()

	if got.Frame != 1 || got.Points["A"] != geom.V(5, 5) {
		t.Errorf("snapshot = %+v", got)
	}
	if c := surf.Image().At(50, 50); !sameColor(c, opts.PointColor) && !sameColor(c, opts.HighlightColor) {
		t.Errorf("point center = %v, want the point drawn on top", c)
	}
	if c := surf.Image().At(20, 50); sameColor(c, color.White) {
		t.Error("callback stroke missing")
	}
	if surf.IsOpen() {
		t.Error("frame left open")
	}
}

func TestHighlight(t *testing.T) {
	opts := DefaultOptions()
	s, st, surf := newLogical(t, opts)
	st.AddDragPoint("A", 2, 2)
	st.AddDragPoint("B", 8, 8)
	img := func(x, y int) color.Color { return surf.Image().At(x, y) }

	// Hover near B: B is highlighted, A is not.
	s.Post(Move(1, 70, 70))
	s.Tick()
	if !sameColor(img(80, 80), opts.HighlightColor) || !sameColor(img(20, 20), opts.PointColor) {
		t.Errorf("hover: A=%v B=%v", img(20, 20), img(80, 80))
	}

	// Drag A all the way next to B: only the dragged A is highlighted.
	s.Post(Down(1, 20, 20), Move(1, 70, 80))
	s.Tick()
	if !sameColor(img(70, 80), opts.HighlightColor) {
		t.Errorf("dragged A = %v", img(70, 80))
	}
	if !sameColor(img(80, 80), opts.PointColor) {
		t.Errorf("B = %v while A is dragged", img(80, 80))
	}
}

func TestRetainedSurfacePanics(t *testing.T) {
	s, _, _ := newLogical(t, DefaultOptions())
	var kept *surface.Surface
	s.SetDraw(func(_ state.Snapshot, d *surface.Surface) { kept = d })
	s.Tick()

	defer func() {
		if recover() == nil {
			t.Error("drawing after the frame closed did not panic")
		}
	}()
	kept.DrawSegment(geom.V(0, 0), geom.V(1, 1), color.Black, 1)
}

func TestCallbackPanicClosesFrame(t *testing.T) {
	s, _, surf := newLogical(t, DefaultOptions())
	s.SetDraw(func(state.Snapshot, *surface.Surface) { panic("boom") })
	func() {
		defer func() { recover() }()
		s.Tick()
	}()
	if surf.IsOpen() {
		t.Error("frame still open after the callback panicked")
	}
}

func TestSinglePointerIgnoresSecondPress(t *testing.T) {
	opts := DefaultOptions()
	opts.Input = SinglePointer
	s, st, _ := newLogical(t, opts)
	st.AddDragPoint("A", 1, 1)
	st.AddDragPoint("B", 9, 9)

	s.Post(Down(5, 10, 10), Down(6, 90, 90), Move(6, 20, 20))
	s.Tick()
	if st.SessionCount() != 1 {
		t.Fatalf("%d sessions, want 1", st.SessionCount())
	}
	if got := pointAt(t, st, "A"); !got.Approx(geom.V(2, 2), 1e-9) {
		t.Errorf("A = %v, want (2, 2)", got)
	}
	if got := pointAt(t, st, "B"); got != geom.V(9, 9) {
		t.Errorf("B moved to %v", got)
	}
}

func TestMultiPointerDragsTwoPoints(t *testing.T) {
	s, st, _ := newLogical(t, DefaultOptions())
	st.AddDragPoint("A", 1, 1)
	st.AddDragPoint("B", 9, 9)

	s.Post(Down(1, 10, 10), Down(2, 90, 90))
	s.Tick()
	s.Post(Move(1, 20, 10), Move(2, 90, 80))
	s.Tick()
	if got := pointAt(t, st, "A"); !got.Approx(geom.V(2, 1), 1e-9) {
		t.Errorf("A = %v", got)
	}
	if got := pointAt(t, st, "B"); !got.Approx(geom.V(9, 8), 1e-9) {
		t.Errorf("B = %v", got)
	}
}

func TestResetWhileHeld(t *testing.T) {
	s, st, _ := newLogical(t, DefaultOptions())
	st.AddDragPoint("A", 4, 1)

	s.Post(Down(1, 40, 10), Move(1, 70, 70))
	s.Tick()
	s.Post(ResetAll())
	s.Tick()
	s.Post(Move(1, 90, 90))
	s.Tick()
	if got := pointAt(t, st, "A"); got != geom.V(4, 1) {
		t.Errorf("A = %v, want (4, 1)", got)
	}
	if p, _ := st.Point("A"); p.Owner != state.NoPointer {
		t.Errorf("A owned by %d after reset", p.Owner)
	}
}

func TestControlEvents(t *testing.T) {
	s, st, _ := newLogical(t, DefaultOptions())
	st.AddRange("T", 0, 200, 70, "")
	st.AddCheckbox("C", false, "")
	st.AddDragPoint("A", 1, 1)

	var snap state.Snapshot
	s.SetDraw(func(sn state.Snapshot, _ *surface.Surface) { snap = sn })
	s.Post(SetRange("T", 120.4), SetCheckbox("C", true), SetRange("missing", 3), PlacePoint("A", geom.V(3, 3)))
	s.Tick()
	if snap.Range("T") != 120 || !snap.Checked("C") || snap.Point("A") != geom.V(3, 3) {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestChangedTracking(t *testing.T) {
	s, _, _ := newLogical(t, DefaultOptions())
	if !s.Tick().Changed {
		t.Error("first frame not marked changed")
	}
	if s.Tick().Changed {
		t.Error("idle frame marked changed")
	}
	s.Invalidate()
	if !s.Tick().Changed {
		t.Error("Invalidate ignored")
	}
	s.Post(Move(1, 1, 1))
	if !s.Tick().Changed {
		t.Error("input not marked changed")
	}
}

func TestRun(t *testing.T) {
	s, _, _ := newLogical(t, DefaultOptions())
	frames := make(chan time.Time)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan uint64, 3)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, frames, func(st Stats) { seen <- st.Frame })
	}()
	for i := 0; i < 3; i++ {
		frames <- time.Now()
	}
	for want := uint64(1); want <= 3; want++ {
		if got := <-seen; got != want {
			t.Errorf("frame %d, want %d", got, want)
		}
	}
	// Read while Run still owns the scheduler.
	if got := s.Frame(); got != 3 {
		t.Errorf("Frame = %d, want 3", got)
	}
	close(frames)
	if err := <-done; err != nil {
		t.Errorf("Run = %v, want nil after close", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _, _ := newLogical(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, make(chan time.Time), nil); err != context.Canceled {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestParseEventKind(t *testing.T) {
	for _, k := range []EventKind{PointerDown, PointerMove, PointerUp, PointerCancel, PointerLeave, RangeInput, CheckboxInput, MovePoint, Reset} {
		got, err := ParseEventKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseEventKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseEventKind("wheel"); err == nil {
		t.Error("unknown kind accepted")
	}
}
