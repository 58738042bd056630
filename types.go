package main

import (
	"time"

	"github.com/charmbracelet/bubbles/help"

	"geoboard/board"
	"geoboard/geom"
	"geoboard/scene"
)

type model struct {
	width  int
	height int

	board     *board.Board
	scene     *scene.Scene
	sceneName string
	config    *Config
	interval  time.Duration

	keys keyMap
	help help.Model

	mode          Mode
	confirmAction ConfirmAction
	focus         int

	undoStack []Action
	redoStack []Action

	// control values posted to the board but not yet applied by a frame
	pendingRanges map[string]float64
	pendingChecks map[string]bool
	// set by a reset; the next frame's moves predate it
	dropMoves bool

	canvas     *Canvas
	canvasCols int
	canvasRows int
	lines      []string

	pointerInside bool
	pointerHeld   bool

	errorMessage   string
	successMessage string
	messageAt      time.Time
}

type Action struct {
	Type    ActionType
	Data    interface{}
	Inverse interface{}
}

type PlacePointData struct {
	Name string
	Pos  geom.Vec
}

type SetRangeData struct {
	Name  string
	Value float64
}

type ToggleCheckboxData struct {
	Name    string
	Checked bool
}

// control is one entry of the focusable control bar.
type control struct {
	name    string
	isRange bool
}

type frameMsg time.Time

type sceneMsg struct {
	scene *scene.Scene
	err   error
}
