package main

import (
	"fmt"

	"geoboard/frame"
	"geoboard/state"
)

func (m *model) recordAction(actionType ActionType, data, inverse interface{}) {
	action := Action{
		Type:    actionType,
		Data:    data,
		Inverse: inverse,
	}
	m.undoStack = append(m.undoStack, action)
	m.redoStack = m.redoStack[:0]
}

// recordMoves adds the drags completed during a frame to the history.
func (m *model) recordMoves(moves []state.Move) {
	for _, mv := range moves {
		m.recordAction(ActionMovePoint, PlacePointData{Name: mv.Name, Pos: mv.To}, PlacePointData{Name: mv.Name, Pos: mv.From})
	}
}

func (m *model) clearHistory() {
	m.undoStack = nil
	m.redoStack = nil
}

func (m *model) undo() {
	if len(m.undoStack) == 0 {
		return
	}

	lastIndex := len(m.undoStack) - 1
	action := m.undoStack[lastIndex]
	if err := m.apply(action.Type, action.Inverse); err != nil {
		m.setError(err)
		return
	}
	m.undoStack = m.undoStack[:lastIndex]
	m.redoStack = append(m.redoStack, action)
}

func (m *model) redo() {
	if len(m.redoStack) == 0 {
		return
	}

	lastIndex := len(m.redoStack) - 1
	action := m.redoStack[lastIndex]
	if err := m.apply(action.Type, action.Data); err != nil {
		m.setError(err)
		return
	}
	m.redoStack = m.redoStack[:lastIndex]
	m.undoStack = append(m.undoStack, action)
}

// apply posts the event restoring one side of an action. Points held by a
// pointer are left alone.
func (m *model) apply(actionType ActionType, data interface{}) error {
	switch actionType {
	case ActionMovePoint:
		d := data.(PlacePointData)
		p, ok := m.board.State().Point(d.Name)
		if !ok {
			return fmt.Errorf("no point %q", d.Name)
		}
		if p.Owner != state.NoPointer {
			return fmt.Errorf("point %s is being dragged", d.Name)
		}
		m.board.Post(frame.PlacePoint(d.Name, d.Pos))
	case ActionSetRange:
		d := data.(SetRangeData)
		m.postRange(d.Name, d.Value)
	case ActionToggleCheckbox:
		d := data.(ToggleCheckboxData)
		m.postCheckbox(d.Name, d.Checked)
	}
	return nil
}
