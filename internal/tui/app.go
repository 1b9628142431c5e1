package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenRun Screen = iota
	ScreenHistory
	ScreenDetail
	ScreenRecords
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	run     RunModel
	history HistoryModel
	detail  RunDetailModel
	records RecordsModel
	help    HelpModel

	units Units

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(ctl RunController, runs RunHistory, units Units) *App {
	return &App{
		screen:  ScreenRun,
		units:   units,
		run:     NewRunModel(ctl, units),
		history: NewHistoryModel(runs, units),
		records: NewRecordsModel(runs, units),
		help:    NewHelpModel(),
	}
}

// SetStatus sets the footer message
func (a *App) SetStatus(status string) {
	a.status = status
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.run.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Global keybindings, except while typing a territory
		if a.screen != ScreenRun || !a.run.Editing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenRun
				return a, nil
			case "2":
				a.screen = ScreenHistory
				return a, a.history.Init()
			case "3":
				a.screen = ScreenRecords
				return a, a.records.Init()
			case "?":
				if a.screen != ScreenHelp {
					a.prevScreen = a.screen
					a.screen = ScreenHelp
				}
				return a, nil
			case "esc":
				switch a.screen {
				case ScreenHelp:
					a.screen = a.prevScreen
					return a, nil
				case ScreenDetail:
					a.screen = ScreenHistory
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case OpenRunDetailMsg:
		a.screen = ScreenDetail
		a.detail = NewRunDetailModel(msg.Run, a.units, a.width, a.height)
		return a, a.detail.Init()

	case runTickMsg, runStoppedMsg:
		// The run screen keeps refreshing while other screens are shown
		m, cmd := a.run.Update(msg)
		a.run = m.(RunModel)
		return a, cmd
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenRun:
		var m tea.Model
		m, cmd = a.run.Update(msg)
		a.run = m.(RunModel)
	case ScreenHistory:
		var m tea.Model
		m, cmd = a.history.Update(msg)
		a.history = m.(HistoryModel)
	case ScreenDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(RunDetailModel)
	case ScreenRecords:
		var m tea.Model
		m, cmd = a.records.Update(msg)
		a.records = m.(RecordsModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenRun:
		content = a.run.View()
	case ScreenHistory:
		content = a.history.View()
	case ScreenDetail:
		content = a.detail.View()
	case ScreenRecords:
		content = a.records.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Run Tracker")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Run", ScreenRun},
		{"2", "History", ScreenHistory},
		{"3", "Records", ScreenRecords},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		active := a.screen == item.screen || (item.screen == ScreenHistory && a.screen == ScreenDetail)
		if active {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}
