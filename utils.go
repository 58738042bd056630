package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"geoboard/frame"
	"geoboard/state"
)

func (m *model) setError(err error) {
	m.errorMessage = err.Error()
	m.successMessage = ""
	m.messageAt = time.Now()
}

func (m *model) setSuccess(format string, args ...interface{}) {
	m.successMessage = fmt.Sprintf(format, args...)
	m.errorMessage = ""
	m.messageAt = time.Now()
}

func (m *model) expireMessages(now time.Time) {
	if now.Sub(m.messageAt) > messageTimeout {
		m.errorMessage = ""
		m.successMessage = ""
	}
}

// snapshotText renders the current values as sorted "name = value" lines.
func snapshotText(snap state.Snapshot) string {
	return strings.Join(snap.Lines(), "\n") + "\n"
}

func (m *model) copySnapshot() error {
	if err := clipboard.WriteAll(snapshotText(m.board.Snapshot())); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// fileStem builds an export file name from the scene title.
func fileStem(title string, now time.Time) string {
	stem := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if stem == "" {
		stem = "geoboard"
	}
	return stem + "-" + now.Format("20060102-150405")
}

// handleMouse maps terminal mouse input onto pointer 0 of the board.
// Cells are addressed by their center pixel; the canvas starts below the
// title row.
func (m *model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X, msg.Y-1
	inside := col >= 0 && row >= 0 && col < m.canvasCols && row < m.canvasRows
	if !inside {
		if m.pointerInside || m.pointerHeld {
			m.board.Post(frame.Leave(0))
		}
		m.pointerInside, m.pointerHeld = false, false
		return
	}
	m.pointerInside = true
	px, py := m.canvas.CellCenter(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.pointerHeld = true
		m.board.Post(frame.Down(0, px, py))
	case tea.MouseActionRelease:
		if !m.pointerHeld {
			return
		}
		m.pointerHeld = false
		m.board.Post(frame.Up(0, px, py))
	case tea.MouseActionMotion:
		m.board.Post(frame.Move(0, px, py))
	}
}
