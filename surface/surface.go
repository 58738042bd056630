// Package surface is the raster canvas diagrams are drawn on. It owns a
// fogleman/gg context sized to the host's drawing area, the coordinate
// mapper for the diagram, and the guard that only lets drawing primitives
// run while a frame is open.
package surface

import (
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"geoboard/coords"
	"geoboard/logging"
)

// Surface is an explicitly owned drawing area. The host reports its
// available size with Resize; the frame scheduler adopts that size at the
// start of the next frame with Reconcile.
type Surface struct {
	dc                 *gg.Context
	backingW, backingH int
	clientW, clientH   int
	aspect             float64

	mapper *coords.Mapper
	shown  *coords.Mapper
	open   bool

	labelFace font.Face
	gridFace  font.Face
}

// New returns a surface of width×height pixels in pixel mode.
func New(width, height int) (*Surface, error) {
	labelFace, err := newFace(labelFontSize)
	if err != nil {
		return nil, err
	}
	gridFace, err := newFace(gridFontSize)
	if err != nil {
		return nil, err
	}
	width, height = max(width, 1), max(height, 1)
	s := &Surface{
		dc:        gg.NewContext(width, height),
		backingW:  width,
		backingH:  height,
		clientW:   width,
		clientH:   height,
		labelFace: labelFace,
		gridFace:  gridFace,
	}
	s.mapper = coords.NewPixel(s)
	s.shown = coords.NewPixel(shownSize{s})
	return s, nil
}

// shownSize reports the backing size, which is the size of the last frame
// a host displayed.
type shownSize struct{ s *Surface }

func (v shownSize) Size() (float64, float64) {
	return float64(v.s.backingW), float64(v.s.backingH)
}

// UseLogical switches the surface to logical coordinates within b and
// locks its aspect ratio to that of b.
func (s *Surface) UseLogical(b coords.Bounds) {
	s.mapper = coords.NewLogical(b, s)
	s.shown = coords.NewLogical(b, shownSize{s})
	s.aspect = b.AspectRatio()
	s.Resize(s.clientW, s.clientH)
}

// UsePixel switches the surface to pixel coordinates and locks its aspect
// ratio to width/height.
func (s *Surface) UsePixel(width, height int) {
	s.mapper = coords.NewPixel(s)
	s.shown = coords.NewPixel(shownSize{s})
	s.aspect = float64(max(width, 1)) / float64(max(height, 1))
	s.Resize(width, height)
}

// Mapper returns the coordinate mapper of the surface.
func (s *Surface) Mapper() *coords.Mapper { return s.mapper }

// ShownMapper converts against the last reconciled frame instead of the
// pending client size. Pointer positions refer to that frame.
func (s *Surface) ShownMapper() *coords.Mapper { return s.shown }

// Mode returns the coordinate mode of the surface.
func (s *Surface) Mode() coords.Mode { return s.mapper.Mode() }

// Size reports the current client size. It implements coords.Sizer.
func (s *Surface) Size() (float64, float64) {
	return float64(s.clientW), float64(s.clientH)
}

// BackingSize reports the size of the raster that frames are drawn into.
func (s *Surface) BackingSize() (int, int) {
	return s.backingW, s.backingH
}

// AspectRatio returns the locked width/height ratio, or 0 when free.
func (s *Surface) AspectRatio() float64 { return s.aspect }

// Fit returns the largest size with the surface's aspect ratio that fits
// in availW×availH.
func (s *Surface) Fit(availW, availH int) (int, int) {
	availW, availH = max(availW, 1), max(availH, 1)
	if s.aspect <= 0 {
		return availW, availH
	}
	w, h := availW, int(math.Round(float64(availW)/s.aspect))
	if h > availH {
		h = availH
		w = int(math.Round(float64(availH) * s.aspect))
	}
	return max(w, 1), max(h, 1)
}

// Resize records the space the host has for the surface. The size is
// fitted to the aspect ratio and takes effect at the next Reconcile.
func (s *Surface) Resize(availW, availH int) {
	s.clientW, s.clientH = s.Fit(availW, availH)
}

// SetClientSize records the exact size the host shows the surface at,
// for hosts that apply the aspect ratio themselves.
func (s *Surface) SetClientSize(w, h int) {
	s.clientW, s.clientH = max(w, 1), max(h, 1)
}

// Reconcile adopts the client size as the backing size. It returns the
// previous backing size and whether it changed.
func (s *Surface) Reconcile() (oldW, oldH int, changed bool) {
	oldW, oldH = s.backingW, s.backingH
	if s.clientW == oldW && s.clientH == oldH {
		return oldW, oldH, false
	}
	s.dc = gg.NewContext(s.clientW, s.clientH)
	s.backingW, s.backingH = s.clientW, s.clientH
	logging.Logger().Debug("surface resized", "from", [2]int{oldW, oldH}, "to", [2]int{s.clientW, s.clientH})
	return oldW, oldH, true
}

// Begin clears the canvas and opens a frame.
func (s *Surface) Begin() {
	if s.open {
		panic("surface: frame already open")
	}
	s.dc.Identity()
	s.dc.ResetClip()
	s.dc.SetRGB(1, 1, 1)
	s.dc.Clear()
	s.open = true
}

// End closes the frame.
func (s *Surface) End() {
	s.open = false
}

// IsOpen reports whether drawing primitives may be used.
func (s *Surface) IsOpen() bool { return s.open }

func (s *Surface) assertOpen() {
	if !s.open {
		panic("surface: draw call outside of an open frame")
	}
}

// Image returns the raster of the last frame.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the last frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// SavePNG writes the last frame to a PNG file.
func (s *Surface) SavePNG(path string) error { return s.dc.SavePNG(path) }
