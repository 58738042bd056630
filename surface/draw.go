package surface

import (
	"image/color"
	"math"
	"strconv"

	"geoboard/coords"
	"geoboard/geom"
)

const (
	pointRadius    = 8.0
	pointOutline   = 2.0
	axisHalfWidth  = 2.0
	axisArrowSize  = 10.0
	gridLabelHalo  = 2.5
	gridLabelInset = 4.0
)

// DrawSegment strokes the segment from a to b. Thickness is in pixels.
func (s *Surface) DrawSegment(a, b geom.Vec, c color.Color, thickness float64) {
	s.assertOpen()
	pa, pb := s.mapper.ToPixel(a), s.mapper.ToPixel(b)
	s.dc.SetColor(c)
	s.dc.SetLineWidth(thickness)
	s.dc.DrawLine(pa.X, pa.Y, pb.X, pb.Y)
	s.dc.Stroke()
}

// DrawLine strokes the infinite line through a and b, extended by the
// diagram's diagonal length on both sides of a so it spans the surface.
// Coincident points define no line and draw nothing.
func (s *Surface) DrawLine(a, b geom.Vec, c color.Color, thickness float64) {
	s.assertOpen()
	if a == b {
		return
	}
	p, q := geom.ExtendLine(a, b, s.mapper.Diagonal())
	s.DrawSegment(p, q, c, thickness)
}

// DrawTriangle fills the triangle abc and strokes its outline.
func (s *Surface) DrawTriangle(a, b, c geom.Vec, stroke, fill color.Color, thickness float64) {
	s.assertOpen()
	pa, pb, pc := s.mapper.ToPixel(a), s.mapper.ToPixel(b), s.mapper.ToPixel(c)
	s.dc.NewSubPath()
	s.dc.MoveTo(pa.X, pa.Y)
	s.dc.LineTo(pb.X, pb.Y)
	s.dc.LineTo(pc.X, pc.Y)
	s.dc.ClosePath()
	s.dc.SetColor(fill)
	s.dc.FillPreserve()
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(thickness)
	s.dc.Stroke()
}

// DrawPoint draws a filled, outlined disc at p with name written above it.
func (s *Surface) DrawPoint(p geom.Vec, name string, fill color.Color) {
	s.assertOpen()
	pp := s.mapper.ToPixel(p)
	s.dc.DrawCircle(pp.X, pp.Y, pointRadius)
	s.dc.SetColor(fill)
	s.dc.FillPreserve()
	s.dc.SetColor(color.Black)
	s.dc.SetLineWidth(pointOutline)
	s.dc.Stroke()
	if name == "" {
		return
	}
	s.dc.SetFontFace(s.labelFace)
	s.dc.DrawStringAnchored(name, pp.X, pp.Y-2*pointRadius, 0.5, 0)
}

// DrawCoordinateGrid draws a line for every integer abscissa and ordinate
// inside the bounds, their labels, and the two axes with arrow heads.
// Pixel-mode surfaces have no logical grid; calling it there panics.
func (s *Surface) DrawCoordinateGrid() {
	s.assertOpen()
	if s.mapper.Mode() != coords.Logical {
		panic("surface: coordinate grid requires logical coordinates")
	}
	b := s.mapper.Bounds()
	s.dc.SetFontFace(s.gridFace)

	for x := math.Ceil(b.XMin); x < b.XMax; x++ {
		s.DrawSegment(geom.V(x, b.YMin), geom.V(x, b.YMax), gridLineColor, 2)
		if x == 0 {
			continue
		}
		p := s.mapper.ToPixel(geom.V(x, 0))
		s.haloText(strconv.FormatFloat(x, 'f', -1, 64), p.X, p.Y-2, 0.5, 0)
	}
	for y := math.Ceil(b.YMin); y < b.YMax; y++ {
		s.DrawSegment(geom.V(b.XMin, y), geom.V(b.XMax, y), gridLineColor, 2)
		if y == 0 {
			continue
		}
		p := s.mapper.ToPixel(geom.V(0, y))
		s.haloText(strconv.FormatFloat(y, 'f', -1, 64), p.X-gridLabelInset, p.Y, 1, 0.5)
	}

	o := s.mapper.ToPixel(geom.V(0, 0))
	w, h := s.Size()
	s.dc.SetColor(gridLabelColor)

	// x axis, arrow pointing right
	s.dc.NewSubPath()
	s.dc.MoveTo(0, o.Y-axisHalfWidth)
	s.dc.LineTo(w-axisArrowSize, o.Y-axisHalfWidth)
	s.dc.LineTo(w-axisArrowSize, o.Y-axisArrowSize)
	s.dc.LineTo(w, o.Y)
	s.dc.LineTo(w-axisArrowSize, o.Y+axisArrowSize)
	s.dc.LineTo(w-axisArrowSize, o.Y+axisHalfWidth)
	s.dc.LineTo(0, o.Y+axisHalfWidth)
	s.dc.ClosePath()
	s.dc.Fill()

	// y axis, arrow pointing down
	s.dc.NewSubPath()
	s.dc.MoveTo(o.X-axisHalfWidth, 0)
	s.dc.LineTo(o.X-axisHalfWidth, h-axisArrowSize)
	s.dc.LineTo(o.X-axisArrowSize, h-axisArrowSize)
	s.dc.LineTo(o.X, h)
	s.dc.LineTo(o.X+axisArrowSize, h-axisArrowSize)
	s.dc.LineTo(o.X+axisHalfWidth, h-axisArrowSize)
	s.dc.LineTo(o.X+axisHalfWidth, 0)
	s.dc.ClosePath()
	s.dc.Fill()
}

// haloText writes text in the grid label color over a white halo so it
// stays readable on top of grid lines.
func (s *Surface) haloText(text string, x, y, ax, ay float64) {
	s.dc.SetColor(color.White)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		s.dc.DrawStringAnchored(text, x+gridLabelHalo*math.Cos(a), y+gridLabelHalo*math.Sin(a), ax, ay)
	}
	s.dc.SetColor(gridLabelColor)
	s.dc.DrawStringAnchored(text, x, y, ax, ay)
}
