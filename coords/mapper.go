// Package coords maps between the logical coordinate space a diagram is
// written in and the pixels of the surface it is drawn on.
package coords

import (
	"fmt"
	"math"

	"geoboard/geom"
)

// Mode selects where drag points and draw calls live.
type Mode int

const (
	// Logical positions are in caller-chosen units mapped onto the surface.
	Logical Mode = iota
	// Pixel positions are surface pixels; the mapping is the identity.
	Pixel
)

func (m Mode) String() string {
	switch m {
	case Logical:
		return "logical"
	case Pixel:
		return "pixel"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Bounds is the logical rectangle shown on the surface. XMin maps to the
// left edge and YMin to the top edge.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (b Bounds) Width() float64  { return b.XMax - b.XMin }
func (b Bounds) Height() float64 { return b.YMax - b.YMin }

// AspectRatio is width over height of the logical rectangle.
func (b Bounds) AspectRatio() float64 { return b.Width() / b.Height() }

// Diagonal is the length of the logical rectangle's diagonal.
func (b Bounds) Diagonal() float64 { return math.Hypot(b.Width(), b.Height()) }

// Validate reports bounds that cannot define a mapping.
func (b Bounds) Validate() error {
	if !(b.XMax > b.XMin) || !(b.YMax > b.YMin) {
		return fmt.Errorf("coords: empty bounds x[%g,%g] y[%g,%g]", b.XMin, b.XMax, b.YMin, b.YMax)
	}
	return nil
}

// Sizer reports the current pixel size of a surface.
type Sizer interface {
	Size() (width, height float64)
}

// Mapper converts between logical and pixel coordinates. It asks its
// Sizer for the size on every call, so a resized surface is picked up
// immediately. A surface with a zero dimension produces non-finite
// results; callers must keep the surface non-empty.
type Mapper struct {
	mode   Mode
	bounds Bounds
	size   Sizer
}

// NewLogical returns a mapper from bounds onto the surface reported by size.
func NewLogical(b Bounds, size Sizer) *Mapper {
	return &Mapper{mode: Logical, bounds: b, size: size}
}

// NewPixel returns an identity mapper for pixel-mode diagrams.
func NewPixel(size Sizer) *Mapper {
	return &Mapper{mode: Pixel, size: size}
}

func (m *Mapper) Mode() Mode { return m.mode }

// Bounds returns the logical bounds. In pixel mode they are the current
// surface rectangle.
func (m *Mapper) Bounds() Bounds {
	if m.mode == Pixel {
		w, h := m.size.Size()
		return Bounds{XMax: w, YMax: h}
	}
	return m.bounds
}

// ToPixel maps a logical position to surface pixels.
func (m *Mapper) ToPixel(p geom.Vec) geom.Vec {
	if m.mode == Pixel {
		return p
	}
	w, h := m.size.Size()
	return geom.Vec{
		X: (p.X - m.bounds.XMin) / m.bounds.Width() * w,
		Y: (p.Y - m.bounds.YMin) / m.bounds.Height() * h,
	}
}

// ToLogical is the inverse of ToPixel for the same surface size.
func (m *Mapper) ToLogical(p geom.Vec) geom.Vec {
	if m.mode == Pixel {
		return p
	}
	w, h := m.size.Size()
	return geom.Vec{
		X: m.bounds.XMin + p.X/w*m.bounds.Width(),
		Y: m.bounds.YMin + p.Y/h*m.bounds.Height(),
	}
}

// ScaleToLogical converts a pixel length to logical units using the
// vertical scale.
func (m *Mapper) ScaleToLogical(v float64) float64 {
	if m.mode == Pixel {
		return v
	}
	_, h := m.size.Size()
	return v * m.bounds.Height() / h
}

// ScaleToPixel converts a logical length to pixels using the vertical
// scale.
func (m *Mapper) ScaleToPixel(v float64) float64 {
	if m.mode == Pixel {
		return v
	}
	_, h := m.size.Size()
	return v * h / m.bounds.Height()
}

// Diagonal is the length, in the mapper's own units, that an infinite line
// has to extend in each direction to cross the whole surface.
func (m *Mapper) Diagonal() float64 {
	return m.Bounds().Diagonal()
}
