package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"geoboard/coords"
	"geoboard/geom"
)

func newSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := New(w, h)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestDrawOutsideFramePanics(t *testing.T) {
	s := newSurface(t, 60, 40)
	s.UseLogical(coords.Bounds{XMax: 6, YMax: 4})
	a, b, c := geom.V(1, 1), geom.V(2, 2), geom.V(3, 1)

	expectPanic(t, "DrawSegment", func() { s.DrawSegment(a, b, DefaultStroke, 2) })
	expectPanic(t, "DrawLine", func() { s.DrawLine(a, b, DefaultStroke, 2) })
	expectPanic(t, "DrawTriangle", func() { s.DrawTriangle(a, b, c, DefaultStroke, DefaultFill, 2) })
	expectPanic(t, "DrawPoint", func() { s.DrawPoint(a, "A", color.Black) })
	expectPanic(t, "DrawCoordinateGrid", func() { s.DrawCoordinateGrid() })

	s.Begin()
	s.DrawSegment(a, b, DefaultStroke, 2)
	s.End()
	expectPanic(t, "after End", func() { s.DrawSegment(a, b, DefaultStroke, 2) })
}

func TestBeginTwicePanics(t *testing.T) {
	s := newSurface(t, 10, 10)
	s.Begin()
	expectPanic(t, "Begin", s.Begin)
}

func TestGridNeedsLogicalMode(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.Begin()
	defer s.End()
	expectPanic(t, "pixel grid", s.DrawCoordinateGrid)
}

func TestSegmentUsesMapper(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.UseLogical(coords.Bounds{XMax: 10, YMax: 10})
	s.Reconcile()
	s.Begin()
	s.DrawSegment(geom.V(0, 5), geom.V(10, 5), color.Black, 4)
	s.End()

	img := s.Image()
	if !isDark(img.At(50, 50)) {
		t.Error("expected a stroke through the middle row")
	}
	if isDark(img.At(50, 10)) {
		t.Error("unexpected ink far from the segment")
	}
}

func TestBeginClears(t *testing.T) {
	s := newSurface(t, 20, 20)
	s.Begin()
	s.DrawSegment(geom.V(0, 10), geom.V(20, 10), color.Black, 6)
	s.End()
	s.Begin()
	s.End()
	if isDark(s.Image().At(10, 10)) {
		t.Error("Begin did not clear the previous frame")
	}
}

func TestDrawLineSpansSurface(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.UseLogical(coords.Bounds{XMax: 10, YMax: 10})
	s.Reconcile()
	s.Begin()
	// A short segment's line must reach both edges.
	s.DrawLine(geom.V(4, 5), geom.V(5, 5), color.Black, 4)
	s.DrawLine(geom.V(1, 1), geom.V(1, 1), color.Black, 4)
	s.End()
	img := s.Image()
	if !isDark(img.At(1, 50)) || !isDark(img.At(98, 50)) {
		t.Error("line does not span the surface")
	}
}

func TestTriangleFills(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.Begin()
	s.DrawTriangle(geom.V(10, 10), geom.V(90, 10), geom.V(50, 90), color.Black, color.NRGBA{R: 255, A: 255}, 2)
	s.End()
	r, g, b, _ := s.Image().At(50, 40).RGBA()
	if r>>8 < 200 || g>>8 > 50 || b>>8 > 50 {
		t.Errorf("triangle interior = %v, want red", s.Image().At(50, 40))
	}
}

func TestPointAndGridRender(t *testing.T) {
	s := newSurface(t, 120, 80)
	s.UseLogical(coords.Bounds{XMin: -3, XMax: 3, YMin: -2, YMax: 2})
	s.Reconcile()
	s.Begin()
	s.DrawCoordinateGrid()
	s.DrawPoint(geom.V(1, 1), "A", color.NRGBA{B: 255, A: 255})
	s.End()

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 120, 80) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	// Center of the point at pixel (80, 60).
	if _, _, b, _ := img.At(80, 60).RGBA(); b>>8 < 200 {
		t.Errorf("point fill = %v", img.At(80, 60))
	}
}

func TestFitAndReconcile(t *testing.T) {
	s := newSurface(t, 10, 10)
	s.UseLogical(coords.Bounds{XMax: 6, YMax: 4})
	if w, h := s.Fit(600, 1000); w != 600 || h != 400 {
		t.Errorf("Fit wide = %dx%d", w, h)
	}
	if w, h := s.Fit(1000, 200); w != 300 || h != 200 {
		t.Errorf("Fit tall = %dx%d", w, h)
	}

	s.Resize(600, 1000)
	if w, h := s.BackingSize(); w != 10 || h != 10 {
		t.Errorf("backing changed before Reconcile: %dx%d", w, h)
	}
	if w, h := s.Size(); w != 600 || h != 400 {
		t.Errorf("client size = %gx%g", w, h)
	}
	oldW, oldH, changed := s.Reconcile()
	if !changed || oldW != 10 || oldH != 10 {
		t.Errorf("Reconcile = %d, %d, %v", oldW, oldH, changed)
	}
	if _, _, changed := s.Reconcile(); changed {
		t.Error("second Reconcile reported a change")
	}
	if b := s.Image().Bounds(); b.Dx() != 600 || b.Dy() != 400 {
		t.Errorf("raster = %v", b)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#000", color.NRGBA{A: 255}},
		{"#0004", color.NRGBA{A: 0x44}},
		{"#88F", color.NRGBA{R: 0x88, G: 0x88, B: 0xff, A: 255}},
		{"#12345678", color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x78}},
		{"#ccCCcc", color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if c, err := ParseColor("Red"); err != nil || c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("ParseColor(Red) = %v, %v", c, err)
	}
	for _, bad := range []string{"", "#12", "#xyz", "notacolor", "#1234567"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) accepted", bad)
		}
	}
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r>>8 < 128 && g>>8 < 128 && b>>8 < 128
}
