package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"geoboard/board"
	"geoboard/scene"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const rangeBarWidth = 20

func initialModel(b *board.Board, sc *scene.Scene, sceneName string, cfg *Config) model {
	return model{
		board:     b,
		scene:     sc,
		sceneName: sceneName,
		config:    cfg,
		interval:  time.Second / time.Duration(min(max(cfg.FPS, minFPS), maxFPS)),
		keys:      defaultKeyMap(),
		help:      help.New(),
		canvas:    NewCanvas(cfg.CellWidth, cfg.CellHeight),
		mode:      ModeNormal,
	}
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.fitSurface()
		return m, nil

	case frameMsg:
		m.runFrame(time.Time(msg))
		return m, m.tick()

	case sceneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if err := msg.scene.Apply(m.board); err != nil {
			m.setError(err)
			return m, nil
		}
		m.scene = msg.scene
		m.focus = 0
		m.clearHistory()
		m.clearPending()
		m.fitSurface()
		m.setSuccess("Reloaded %s", m.sceneName)
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeHelp:
		switch msg.String() {
		case "esc", "q", "?":
			m.mode = ModeNormal
		}
		return m, nil
	case ModeConfirm:
		switch msg.String() {
		case "y", "Y":
			m.mode = ModeNormal
			switch m.confirmAction {
			case ConfirmQuit:
				return m, tea.Quit
			case ConfirmReset:
				m.resetBoard()
			}
		case "n", "N", "esc":
			m.mode = ModeNormal
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.config.Confirmations && len(m.undoStack) > 0 {
			m.mode, m.confirmAction = ModeConfirm, ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.DecFast):
		m.adjustRange(-fastSteps)
	case key.Matches(msg, m.keys.IncFast):
		m.adjustRange(fastSteps)
	case key.Matches(msg, m.keys.Dec):
		m.adjustRange(-1)
	case key.Matches(msg, m.keys.Inc):
		m.adjustRange(1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleCheckbox()
	case key.Matches(msg, m.keys.Reset):
		if m.config.Confirmations {
			m.mode, m.confirmAction = ModeConfirm, ConfirmReset
			return m, nil
		}
		m.resetBoard()
	case key.Matches(msg, m.keys.Undo):
		m.undo()
	case key.Matches(msg, m.keys.Redo):
		m.redo()
	case key.Matches(msg, m.keys.SavePNG):
		if path, err := m.exportPNG(); err != nil {
			m.setError(err)
		} else {
			m.setSuccess("Saved %s", path)
		}
	case key.Matches(msg, m.keys.SaveText):
		if path, err := m.exportText(); err != nil {
			m.setError(err)
		} else {
			m.setSuccess("Wrote %s", path)
		}
	case key.Matches(msg, m.keys.Copy):
		if err := m.copySnapshot(); err != nil {
			m.setError(err)
		} else {
			m.setSuccess("Copied values to clipboard")
		}
	}
	return m, nil
}

func (m *model) resetBoard() {
	m.board.Reset()
	m.clearHistory()
	m.clearPending()
	m.dropMoves = true
	m.setSuccess("Reset")
}

// fitSurface sizes the surface to the terminal area left for the canvas.
func (m *model) fitSurface() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	rows := max(m.height-chromeRows-len(m.controls()), 1)
	m.board.Surface().Resize(m.width*m.canvas.cellW, rows*m.canvas.cellH)
	m.board.Invalidate()
}

func (m *model) runFrame(now time.Time) {
	stats := m.board.Tick()
	m.clearPending()
	if m.dropMoves {
		m.dropMoves = false
	} else {
		m.recordMoves(stats.Moves)
	}
	if stats.Changed || m.lines == nil {
		m.lines = m.canvas.Render(m.board.Surface().Image())
		w, h := m.board.Surface().BackingSize()
		m.canvasCols, m.canvasRows = m.canvas.Size(w, h)
	}
	m.expireMessages(now)
}

func (m model) View() string {
	if m.mode == ModeHelp {
		return m.helpView()
	}

	var b strings.Builder
	title := m.scene.Title
	if title == "" {
		title = m.sceneName
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, line := range m.controlLines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	return b.String()
}

func (m model) controlLines() []string {
	st := m.board.State()
	var lines []string
	i := 0
	marker := func() string {
		defer func() { i++ }()
		if i == m.focus {
			return focusStyle.Render("›") + " "
		}
		return "  "
	}
	for _, r := range st.Ranges() {
		fill := 0
		if r.Max > r.Min {
			fill = int(math.Round((r.Value - r.Min) / (r.Max - r.Min) * rangeBarWidth))
		}
		bar := strings.Repeat("█", fill) + dimStyle.Render(strings.Repeat("░", rangeBarWidth-fill))
		label := r.Label()
		if label == "" {
			label = r.Name
		}
		lines = append(lines, marker()+bar+" "+label)
	}
	for _, c := range st.Checkboxes() {
		box := "[ ]"
		if c.Checked {
			box = "[x]"
		}
		label := c.Label
		if label == "" {
			label = c.Name
		}
		lines = append(lines, marker()+box+" "+label)
	}
	return lines
}

func (m model) statusLine() string {
	switch {
	case m.mode == ModeConfirm && m.confirmAction == ConfirmQuit:
		return errorStyle.Render("Quit? (y/n)")
	case m.mode == ModeConfirm && m.confirmAction == ConfirmReset:
		return errorStyle.Render("Reset all points and controls? (y/n)")
	case m.errorMessage != "":
		return errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		return successStyle.Render(m.successMessage)
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m model) helpView() string {
	h := m.help
	h.ShowAll = true
	lines := []string{
		titleStyle.Render("geoboard help"),
		"",
		"Drag points with the mouse. Hovering highlights the nearest point.",
		"",
		h.View(m.keys),
		"",
		dimStyle.Render("esc, q or ? to close"),
	}
	return strings.Join(lines, "\n")
}
