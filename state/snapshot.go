package state

import (
	"fmt"
	"sort"
	"strconv"

	"geoboard/geom"
)

// Snapshot is the read-only view of a frame handed to the draw callback.
// It is rebuilt every frame and shares no memory with State.
type Snapshot struct {
	Frame  uint64
	Points map[string]geom.Vec
	Ranges map[string]float64
	Checks map[string]bool
}

// Snapshot copies the current point positions and control values.
func (s *State) Snapshot(frame uint64) Snapshot {
	snap := Snapshot{
		Frame:  frame,
		Points: make(map[string]geom.Vec, len(s.points)),
		Ranges: make(map[string]float64, len(s.ranges)),
		Checks: make(map[string]bool, len(s.checks)),
	}
	for name, p := range s.points {
		snap.Points[name] = p.Pos
	}
	for name, r := range s.ranges {
		snap.Ranges[name] = r.Value
	}
	for name, c := range s.checks {
		snap.Checks[name] = c.Checked
	}
	return snap
}

// Point returns the named point, or NaN when there is none.
func (sn Snapshot) Point(name string) geom.Vec {
	if p, ok := sn.Points[name]; ok {
		return p
	}
	return geom.NaN()
}

// Range returns the named range value, or 0.
func (sn Snapshot) Range(name string) float64 {
	return sn.Ranges[name]
}

// Checked returns the named checkbox value, or false.
func (sn Snapshot) Checked(name string) bool {
	return sn.Checks[name]
}

// Lines formats the snapshot as sorted "name = value" lines.
func (sn Snapshot) Lines() []string {
	lines := make([]string, 0, len(sn.Points)+len(sn.Ranges)+len(sn.Checks))
	for name, p := range sn.Points {
		lines = append(lines, fmt.Sprintf("%s = (%s, %s)", name, formatFloat(p.X), formatFloat(p.Y)))
	}
	for name, v := range sn.Ranges {
		lines = append(lines, fmt.Sprintf("%s = %s", name, formatFloat(v)))
	}
	for name, v := range sn.Checks {
		lines = append(lines, fmt.Sprintf("%s = %t", name, v))
	}
	sort.Strings(lines)
	return lines
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
