package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zatekoja/wardwatch/internal/application/services"
	"github.com/zatekoja/wardwatch/internal/domain/entities"
)

// focusArea determines where keystrokes go
type focusArea int

const (
	focusSearch focusArea = iota
	focusList
)

// viewMode determines which screen is shown
type viewMode int

const (
	listView viewMode = iota
	detailView
)

type snapshotMsg services.Snapshot

type noticeMsg Notice

type clearNoticeMsg struct{}

type hospitalsMsg struct {
	ward      string
	hospitals []entities.Hospital
	err       error
}

// Model is the bubbletea model for the ward availability UI
type Model struct {
	engine *Engine

	input   textinput.Model
	spinner spinner.Model

	snapshot services.Snapshot
	cursor   int
	focus    focusArea
	mode     viewMode

	notice    Notice
	hasNotice bool

	detailWard string
	hospitals  []entities.Hospital
	detailErr  string

	width  int
	height int
}

// NewModel creates the initial UI model
func NewModel(engine *Engine) Model {
	input := textinput.New()
	input.Placeholder = "Search wards (min. 2 characters)"
	input.Prompt = "/ "
	input.CharLimit = 120
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		engine:  engine,
		input:   input,
		spinner: sp,
		focus:   focusSearch,
		mode:    listView,
	}
}

// Init kicks off the first fetch and starts listening to the engine
func (m Model) Init() tea.Cmd {
	m.engine.Refresh()
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForSnapshot(m.engine),
		waitForNotice(m.engine),
	)
}

func waitForSnapshot(e *Engine) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-e.snapshots)
	}
}

func waitForNotice(e *Engine) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-e.notices)
	}
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

func fetchHospitals(e *Engine, wardName string) tea.Cmd {
	return func() tea.Msg {
		hospitals, err := e.Hospitals(wardName)
		return hospitalsMsg{ward: wardName, hospitals: hospitals, err: err}
	}
}

// Update handles events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.snapshot = services.Snapshot(msg)
		if m.cursor >= len(m.snapshot.Rows) {
			m.cursor = len(m.snapshot.Rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, waitForSnapshot(m.engine)

	case noticeMsg:
		m.notice = Notice(msg)
		m.hasNotice = true
		return m, tea.Batch(waitForNotice(m.engine), clearNoticeAfter(3*time.Second))

	case clearNoticeMsg:
		m.hasNotice = false
		return m, nil

	case hospitalsMsg:
		if msg.ward != m.detailWard {
			return m, nil
		}
		if msg.err != nil {
			m.detailErr = "Could not load hospitals for this ward"
			return m, nil
		}
		m.hospitals = msg.hospitals
		m.detailErr = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.engine.Stop()
		return m, tea.Quit
	}

	if m.mode == detailView {
		switch msg.String() {
		case "esc", "q":
			m.mode = listView
			m.detailWard = ""
			m.hospitals = nil
			m.detailErr = ""
		}
		return m, nil
	}

	if m.focus == focusSearch {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyTab, tea.KeyDown:
			m.focus = focusList
			m.input.Blur()
			return m, nil
		case tea.KeyEnter:
			m.focus = focusList
			m.input.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.engine.Search(m.input.Value())
		return m, cmd
	}

	// List focus. Favorite toggling and opening a ward are separate
	// keybindings, so one can never fire the other.
	switch msg.String() {
	case "q":
		m.engine.Stop()
		return m, tea.Quit
	case "/", "tab":
		m.focus = focusSearch
		return m, m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snapshot.Rows)-1 {
			m.cursor++
		}
	case "f":
		if row, ok := m.selectedRow(); ok {
			m.engine.ToggleFavorite(row.Ward.WardName)
		}
	case "o":
		m.engine.ToggleFavoritesOnly(!m.snapshot.FavoritesOnly)
	case "d":
		m.engine.DismissInsight()
	case "r":
		m.engine.Refresh()
	case "enter":
		if row, ok := m.selectedRow(); ok {
			m.mode = detailView
			m.detailWard = row.Ward.WardName
			m.hospitals = nil
			m.detailErr = ""
			return m, fetchHospitals(m.engine, row.Ward.WardName)
		}
	}

	return m, nil
}

func (m Model) selectedRow() (services.WardRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Rows) {
		return services.WardRow{}, false
	}
	return m.snapshot.Rows[m.cursor], true
}

// Run starts the UI and blocks until exit
func Run(engine *Engine) error {
	program := tea.NewProgram(NewModel(engine), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
