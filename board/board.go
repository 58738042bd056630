// Package board is the entry point for interactive diagrams. A Board ties
// together a drawing surface, the interactive state and the frame
// scheduler, and exposes the setup, registration and main-loop calls a
// diagram is written against:
//
//	b, _ := board.New(600, 400, frame.DefaultOptions())
//	b.Init(coords.Bounds{XMin: 0, XMax: 6, YMin: 0, YMax: 4})
//	b.AddDragPoint("A", 4, 1)
//	b.AddDragPoint("B", 1, 2)
//	b.AddInputRange("Thickness", 0, 200, 70, "Thickness = {} px")
//	b.MainLoop(ctx, ticker.C, func(s state.Snapshot, d *surface.Surface) {
//		d.DrawSegment(s.Point("A"), s.Point("B"), surface.DefaultFill, s.Range("Thickness"))
//	})
//
// Registration and Tick must run on the same goroutine. Post may be called
// from anywhere.
package board

import (
	"context"
	"fmt"
	"time"

	"geoboard/coords"
	"geoboard/frame"
	"geoboard/geom"
	"geoboard/logging"
	"geoboard/state"
	"geoboard/surface"
)

// Options tune a board's input model and point colors.
type Options = frame.Options

// Input models.
const (
	MultiPointer  = frame.MultiPointer
	SinglePointer = frame.SinglePointer
)

// Board is one interactive diagram.
type Board struct {
	surf  *surface.Surface
	st    *state.State
	sched *frame.Scheduler
}

// New returns a board drawing on a new width×height surface.
func New(width, height int, opts Options) (*Board, error) {
	surf, err := surface.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	return NewWithSurface(surf, opts), nil
}

// NewWithSurface returns a board drawing on surf.
func NewWithSurface(surf *surface.Surface, opts Options) *Board {
	st := state.New()
	return &Board{
		surf:  surf,
		st:    st,
		sched: frame.New(st, surf, opts),
	}
}

// Init sets up a logical-coordinate diagram showing b and clears every
// registered point and control. The surface aspect ratio is locked to b.
func (bd *Board) Init(b coords.Bounds) error {
	if err := b.Validate(); err != nil {
		return err
	}
	bd.st.Clear()
	bd.surf.UseLogical(b)
	bd.surf.Reconcile()
	bd.sched.Invalidate()
	logging.Logger().Debug("board initialized", "mode", coords.Logical, "bounds", b)
	return nil
}

// InitPixel sets up a pixel-coordinate diagram of width×height and clears
// every registered point and control.
func (bd *Board) InitPixel(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("board: bad pixel size %dx%d", width, height)
	}
	bd.st.Clear()
	bd.surf.UsePixel(width, height)
	bd.surf.Reconcile()
	bd.sched.Invalidate()
	logging.Logger().Debug("board initialized", "mode", coords.Pixel, "width", width, "height", height)
	return nil
}

// AddDragPoint registers a draggable point; see state.State.AddDragPoint.
func (bd *Board) AddDragPoint(name string, x, y float64) {
	bd.st.AddDragPoint(name, x, y)
	bd.sched.Invalidate()
}

// AddInputRange registers or reconfigures a slider with a step of 1.
func (bd *Board) AddInputRange(name string, min, max, value float64, label string) {
	bd.st.AddRange(name, min, max, value, label)
	bd.sched.Invalidate()
}

// AddInputRangeStep is AddInputRange with an explicit step.
func (bd *Board) AddInputRangeStep(name string, min, max, step, value float64, label string) {
	bd.st.AddRangeStep(name, min, max, step, value, label)
	bd.sched.Invalidate()
}

// AddCheckbox registers or reconfigures a checkbox.
func (bd *Board) AddCheckbox(name string, value bool, label string) {
	bd.st.AddCheckbox(name, value, label)
	bd.sched.Invalidate()
}

// Reset restores every point and control to its default at the next frame.
func (bd *Board) Reset() {
	bd.sched.Post(frame.ResetAll())
}

// Post stages input for the next frame.
func (bd *Board) Post(evs ...frame.Event) {
	bd.sched.Post(evs...)
}

// SetDraw installs the per-frame draw callback.
func (bd *Board) SetDraw(fn frame.DrawFunc) {
	bd.sched.SetDraw(fn)
}

// Tick runs one frame.
func (bd *Board) Tick() frame.Stats {
	return bd.sched.Tick()
}

// MainLoop installs draw and runs one frame per value received on frames
// until ctx is done or frames is closed.
func (bd *Board) MainLoop(ctx context.Context, frames <-chan time.Time, draw frame.DrawFunc) error {
	bd.sched.SetDraw(draw)
	return bd.sched.Run(ctx, frames, nil)
}

// Invalidate makes the next frame report a change.
func (bd *Board) Invalidate() { bd.sched.Invalidate() }

// Snapshot returns the current values of every point and control.
func (bd *Board) Snapshot() state.Snapshot {
	return bd.st.Snapshot(bd.sched.Frame())
}

// Surface returns the board's drawing surface.
func (bd *Board) Surface() *surface.Surface { return bd.surf }

// State returns the board's interactive state. Read it only from the
// goroutine that calls Tick.
func (bd *Board) State() *state.State { return bd.st }

// CoordToPixel maps a diagram position to surface pixels.
func (bd *Board) CoordToPixel(x, y float64) (float64, float64) {
	p := bd.surf.Mapper().ToPixel(geom.V(x, y))
	return p.X, p.Y
}

// PixelToCoord maps surface pixels to a diagram position.
func (bd *Board) PixelToCoord(px, py float64) (float64, float64) {
	p := bd.surf.Mapper().ToLogical(geom.V(px, py))
	return p.X, p.Y
}

// ScaleToCoord converts a pixel length to diagram units.
func (bd *Board) ScaleToCoord(v float64) float64 { return bd.surf.Mapper().ScaleToLogical(v) }

// ScaleToPixel converts a diagram length to pixels.
func (bd *Board) ScaleToPixel(v float64) float64 { return bd.surf.Mapper().ScaleToPixel(v) }
