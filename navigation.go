package main

import (
	"geoboard/frame"
	"geoboard/state"
)

// controls lists the focusable controls: ranges first, then checkboxes.
func (m *model) controls() []control {
	st := m.board.State()
	var out []control
	for _, r := range st.Ranges() {
		out = append(out, control{name: r.Name, isRange: true})
	}
	for _, c := range st.Checkboxes() {
		out = append(out, control{name: c.Name})
	}
	return out
}

func (m *model) focused() (control, bool) {
	cs := m.controls()
	if len(cs) == 0 {
		return control{}, false
	}
	m.focus = min(max(m.focus, 0), len(cs)-1)
	return cs[m.focus], true
}

func (m *model) moveFocus(delta int) {
	n := len(m.controls())
	if n == 0 {
		m.focus = 0
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

// rangeValue returns the value of a range including changes posted since
// the last frame.
func (m *model) rangeValue(r state.RangeControl) float64 {
	if v, ok := m.pendingRanges[r.Name]; ok {
		return v
	}
	return r.Value
}

func (m *model) checked(c state.CheckboxControl) bool {
	if v, ok := m.pendingChecks[c.Name]; ok {
		return v
	}
	return c.Checked
}

func (m *model) postRange(name string, v float64) {
	if m.pendingRanges == nil {
		m.pendingRanges = make(map[string]float64)
	}
	m.pendingRanges[name] = v
	m.board.Post(frame.SetRange(name, v))
}

func (m *model) postCheckbox(name string, checked bool) {
	if m.pendingChecks == nil {
		m.pendingChecks = make(map[string]bool)
	}
	m.pendingChecks[name] = checked
	m.board.Post(frame.SetCheckbox(name, checked))
}

// clearPending forgets posted control values once a frame has applied
// them or the controls were replaced.
func (m *model) clearPending() {
	clear(m.pendingRanges)
	clear(m.pendingChecks)
}

// adjustRange moves the focused range by steps of its step size.
func (m *model) adjustRange(steps int) {
	c, ok := m.focused()
	if !ok || !c.isRange {
		return
	}
	r, ok := m.board.State().Range(c.name)
	if !ok {
		return
	}
	old := m.rangeValue(r)
	r.Set(old + float64(steps)*r.Step)
	if r.Value == old {
		return
	}
	m.postRange(c.name, r.Value)
	m.recordAction(ActionSetRange, SetRangeData{Name: c.name, Value: r.Value}, SetRangeData{Name: c.name, Value: old})
}

func (m *model) toggleCheckbox() {
	c, ok := m.focused()
	if !ok || c.isRange {
		return
	}
	cb, ok := m.board.State().Checkbox(c.name)
	if !ok {
		return
	}
	old := m.checked(cb)
	m.postCheckbox(c.name, !old)
	m.recordAction(ActionToggleCheckbox, ToggleCheckboxData{Name: c.name, Checked: !old}, ToggleCheckboxData{Name: c.name, Checked: old})
}
