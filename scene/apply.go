package scene

import (
	"image/color"

	"geoboard/board"
	"geoboard/frame"
	"geoboard/geom"
	"geoboard/state"
	"geoboard/surface"
)

// Apply initializes b for the scene, registers its points and controls and
// installs the scene's draw callback.
func (sc *Scene) Apply(b *board.Board) error {
	var err error
	if sc.IsPixel() {
		err = b.InitPixel(sc.Size.Width, sc.Size.Height)
	} else {
		err = b.Init(*sc.Bounds)
	}
	if err != nil {
		return err
	}
	for _, p := range sc.Points {
		b.AddDragPoint(p.Name, p.X, p.Y)
	}
	for _, r := range sc.Ranges {
		step := r.Step
		if step == 0 {
			step = 1
		}
		b.AddInputRangeStep(r.Name, r.Min, r.Max, step, r.Value, r.Label)
	}
	for _, c := range sc.Checkboxes {
		b.AddCheckbox(c.Name, c.Value, c.Label)
	}
	b.SetDraw(sc.DrawFunc())
	return nil
}

// Resolve returns the scene's points for snap: the draggable points
// followed by every derived point. A derived point whose inputs are not
// finite, or whose direction has zero length, is NaN.
func (sc *Scene) Resolve(snap state.Snapshot) map[string]geom.Vec {
	pts := make(map[string]geom.Vec, len(snap.Points)+len(sc.Derived))
	for name, p := range snap.Points {
		pts[name] = p
	}
	get := func(names ...string) ([]geom.Vec, bool) {
		out := make([]geom.Vec, len(names))
		for i, n := range names {
			p, ok := pts[n]
			if !ok || !p.IsFinite() {
				return nil, false
			}
			out[i] = p
		}
		return out, true
	}
	for _, d := range sc.Derived {
		p := geom.NaN()
		switch {
		case d.Intersect != nil:
			if v, ok := get(d.Intersect...); ok {
				p = geom.Intersect(v[0], v[1], v[2], v[3])
			}
		case d.Midpoint != nil:
			if v, ok := get(d.Midpoint...); ok {
				p = v[0].Lerp(v[1], 0.5)
			}
		case d.Offset != nil:
			o := d.Offset
			v, ok := get(append([]string{o.From}, o.Along...)...)
			if !ok {
				break
			}
			dir := v[2].Sub(v[1])
			if dir.Len() == 0 {
				break
			}
			length := o.Length.resolve(snap)
			if o.Perpendicular {
				p = v[0].Add(geom.NormalizedPerpendicular(dir, length))
			} else {
				p = v[0].Add(geom.NormalizedParallel(dir, length))
			}
		}
		pts[d.Name] = p
	}
	return pts
}

// DrawFunc returns the per-frame callback drawing the scene's shapes.
func (sc *Scene) DrawFunc() frame.DrawFunc {
	return func(snap state.Snapshot, d *surface.Surface) {
		if sc.Grid {
			d.DrawCoordinateGrid()
		}
		pts := sc.Resolve(snap)
		for _, sh := range sc.Shapes {
			if sh.When != "" && !snap.Checked(sh.When) {
				continue
			}
			sc.drawShape(d, snap, pts, sh)
		}
	}
}

func (sc *Scene) drawShape(d *surface.Surface, snap state.Snapshot, pts map[string]geom.Vec, sh Shape) {
	stroke := colorOr(sh.Color, surface.DefaultStroke)
	thickness := surface.DefaultThickness
	if sh.Thickness != nil {
		thickness = sh.Thickness.resolve(snap)
	}
	at := func(names ...string) ([]geom.Vec, bool) {
		out := make([]geom.Vec, len(names))
		for i, n := range names {
			if out[i] = pts[n]; !out[i].IsFinite() {
				return nil, false
			}
		}
		return out, true
	}
	switch sh.Kind() {
	case "segment":
		if v, ok := at(sh.Segment...); ok {
			d.DrawSegment(v[0], v[1], stroke, thickness)
		}
	case "line":
		if v, ok := at(sh.Line...); ok {
			d.DrawLine(v[0], v[1], stroke, thickness)
		}
	case "triangle":
		if v, ok := at(sh.Triangle...); ok {
			d.DrawTriangle(v[0], v[1], v[2], stroke, colorOr(sh.Fill, surface.DefaultFill), thickness)
		}
	case "point":
		if v, ok := at(sh.Point); ok {
			d.DrawPoint(v[0], sh.Point, colorOr(sh.Fill, color.White))
		}
	}
}

func (s Scalar) resolve(snap state.Snapshot) float64 {
	if s.Ref != "" {
		return snap.Range(s.Ref)
	}
	return s.Value
}

// colorOr parses s, which Validate has already checked.
func colorOr(s string, def color.Color) color.Color {
	if s == "" {
		return def
	}
	c, err := surface.ParseColor(s)
	if err != nil {
		return def
	}
	return c
}
