package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runtracker/internal/analysis"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []string{
		cardTitleStyle.Render("Keyboard Shortcuts"),
		m.renderSection("Navigation", []keyHelp{
			{"1", "Run"},
			{"2", "History"},
			{"3", "Personal records"},
			{"?", "Help (this screen)"},
			{"q", "Quit"},
			{"esc", "Back / close help"},
		}),
		m.renderSection("Run", []keyHelp{
			{"o", "Start an outdoor run"},
			{"t", "Start a treadmill run"},
			{"x / enter", "Stop and save the run"},
			{"+ / -", "Treadmill speed up / down"},
		}),
		m.renderSection("History", []keyHelp{
			{"j / down", "Move cursor down"},
			{"k / up", "Move cursor up"},
			{"pgdn / pgup", "Page"},
			{"enter", "Run details"},
			{"r", "Reload from storage"},
		}),
		m.renderZonesHelp(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	lines := []string{"", sectionStyle.Render(title)}
	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}
	return strings.Join(lines, "\n")
}

func (m HelpModel) renderZonesHelp() string {
	lines := []string{"", sectionStyle.Render("Heart Rate Zones"), ""}

	bounds := []string{"below 114", "114-132", "133-151", "152-170", "171 and above"}
	for z := analysis.ZoneWarmUp; z <= analysis.ZoneMaximum; z++ {
		lines = append(lines, "  "+zoneStyle(z).Render(z.Name())+" "+helpDescStyle.Render(bounds[z-1]+" bpm"))
	}
	lines = append(lines, "", helpDescStyle.Render("  Milestones are announced every kilometer. The goal is 3 km."))

	return strings.Join(lines, "\n")
}
