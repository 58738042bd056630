// Package frame runs the per-frame update and draw cycle of a diagram.
//
// Hosts stage raw input with Post from any goroutine. Tick, called once per
// display refresh, drains that input and then runs one frame to completion:
// resize reconciliation, drag update, proximity highlight, snapshot, draw
// phase and stale-binding cleanup. Ticks must not overlap; Run provides a
// loop that ticks once per value received from a frame channel.
package frame

import (
	"context"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"geoboard/coords"
	"geoboard/logging"
	"geoboard/state"
	"geoboard/surface"
)

// DrawFunc draws one frame. It must issue its drawing calls before
// returning and must not keep the snapshot or the surface afterwards.
type DrawFunc func(snap state.Snapshot, s *surface.Surface)

// Input selects how pointer ids are interpreted.
type Input int

const (
	// MultiPointer gives every pointer id its own session.
	MultiPointer Input = iota
	// SinglePointer folds all ids onto one mouse pointer; a press while
	// one is held is ignored.
	SinglePointer
)

const mousePointer state.PointerID = 0

// Options tune a Scheduler.
type Options struct {
	Input          Input
	PointColor     color.Color
	HighlightColor color.Color
}

// DefaultOptions returns multi-pointer input with the usual blue points.
func DefaultOptions() Options {
	return Options{
		Input:          MultiPointer,
		PointColor:     surface.MustParseColor("#00F"),
		HighlightColor: surface.MustParseColor("#88F"),
	}
}

// Stats describes one completed frame.
type Stats struct {
	Frame    uint64
	Events   int
	Resized  bool
	Dragging bool
	// Changed is false only when nothing could have altered the picture
	// since the previous frame.
	Changed  bool
	Moves    []state.Move
	Duration time.Duration
}

// Scheduler drives frames for one state and surface.
type Scheduler struct {
	st   *state.State
	surf *surface.Surface
	opts Options
	draw DrawFunc

	mu    sync.Mutex
	queue []Event
	dirty bool

	frame atomic.Uint64
}

// New returns a scheduler for st drawn on surf.
func New(st *state.State, surf *surface.Surface, opts Options) *Scheduler {
	if opts.PointColor == nil {
		opts.PointColor = DefaultOptions().PointColor
	}
	if opts.HighlightColor == nil {
		opts.HighlightColor = DefaultOptions().HighlightColor
	}
	return &Scheduler{st: st, surf: surf, opts: opts, dirty: true}
}

// SetDraw installs the per-frame draw callback.
func (s *Scheduler) SetDraw(fn DrawFunc) {
	s.mu.Lock()
	s.draw = fn
	s.dirty = true
	s.mu.Unlock()
}

// Post stages input for the next frame. It is safe to call from any
// goroutine and never touches the state directly.
func (s *Scheduler) Post(evs ...Event) {
	s.mu.Lock()
	s.queue = append(s.queue, evs...)
	s.mu.Unlock()
}

// Invalidate forces the next frame to report a change.
func (s *Scheduler) Invalidate() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Frame returns the number of frames run so far. It is safe to call from
// any goroutine.
func (s *Scheduler) Frame() uint64 { return s.frame.Load() }

// Tick runs exactly one frame.
func (s *Scheduler) Tick() Stats {
	start := time.Now()

	s.mu.Lock()
	events := s.queue
	s.queue = nil
	draw := s.draw
	dirty := s.dirty
	s.dirty = false
	s.mu.Unlock()

	n := s.frame.Add(1)
	stats := Stats{Frame: n, Events: len(events)}

	// Input positions refer to the frame on screen; apply them before it is
	// resized.
	for _, ev := range events {
		s.apply(ev)
	}

	// 1. resize reconciliation
	if oldW, oldH, changed := s.surf.Reconcile(); changed {
		stats.Resized = true
		if s.surf.Mode() == coords.Pixel && oldW > 0 && oldH > 0 {
			newW, newH := s.surf.BackingSize()
			s.st.RescalePoints(float64(newW)/float64(oldW), float64(newH)/float64(oldH))
		}
	}

	// 2. drag update
	stats.Dragging = s.st.UpdateDrags()

	// 3. proximity highlight
	nearest, hasNearest := s.st.Nearest()

	// 4. snapshot
	snap := s.st.Snapshot(n)

	// 5. draw phase
	s.drawPhase(draw, snap, stats.Dragging, nearest, hasNearest)

	// 6. stale-binding cleanup
	s.st.ReleaseStale()

	stats.Moves = s.st.TakeMoves()
	stats.Changed = dirty || stats.Events > 0 || stats.Resized || stats.Dragging
	stats.Duration = time.Since(start)
	return stats
}

func (s *Scheduler) drawPhase(draw DrawFunc, snap state.Snapshot, dragging bool, nearest string, hasNearest bool) {
	s.surf.Begin()
	defer s.surf.End()
	if draw != nil {
		draw(snap, s.surf)
	}
	for _, p := range s.st.Points() {
		highlighted := (dragging && p.Dragged) || (!dragging && hasNearest && p.Name == nearest)
		fill := s.opts.PointColor
		if highlighted {
			fill = s.opts.HighlightColor
		}
		s.surf.DrawPoint(p.Pos, p.Name, fill)
	}
}

func (s *Scheduler) apply(ev Event) {
	log := logging.Logger()
	m := s.surf.ShownMapper()
	id := ev.Pointer
	if s.opts.Input == SinglePointer {
		id = mousePointer
	}
	switch ev.Kind {
	case PointerDown:
		if _, held := s.st.Session(id); held && s.opts.Input == SinglePointer {
			log.Debug("press ignored while the mouse is held", "pointer", int64(ev.Pointer))
			return
		}
		s.st.PointerDown(id, m.ToLogical(ev.Pos))
	case PointerMove:
		s.st.PointerMove(id, m.ToLogical(ev.Pos))
	case PointerUp, PointerCancel:
		s.st.PointerUp(id, m.ToLogical(ev.Pos))
	case PointerLeave:
		s.st.PointerLeave(id)
	case RangeInput:
		if !s.st.SetRange(ev.Name, ev.Value) {
			log.Debug("dropped input for unknown range", "name", ev.Name)
		}
	case CheckboxInput:
		if !s.st.SetCheckbox(ev.Name, ev.Checked) {
			log.Debug("dropped input for unknown checkbox", "name", ev.Name)
		}
	case MovePoint:
		if err := s.st.MovePoint(ev.Name, ev.Pos); err != nil {
			log.Debug("dropped point move", "err", err)
		}
	case Reset:
		s.st.Reset()
	default:
		log.Debug("dropped unknown event", "kind", ev.Kind)
	}
}

// Run ticks once per value received on frames until ctx is done or frames
// is closed. observe, if not nil, sees the stats of every frame.
func (s *Scheduler) Run(ctx context.Context, frames <-chan time.Time, observe func(Stats)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			stats := s.Tick()
			if observe != nil {
				observe(stats)
			}
		}
	}
}
