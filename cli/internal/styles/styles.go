// ABOUTME: Shared lipgloss styles for callbridgectl human output
// ABOUTME: Colors and text styles used when printing memory, notes, and health

package styles

import "github.com/charmbracelet/lipgloss"

// labelWidth lines values up after "Last call:".
const labelWidth = 11

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(labelWidth)

	Value = lipgloss.NewStyle().
		Bold(true)

	Dim = lipgloss.NewStyle().
		Foreground(Muted)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(Danger).
		Bold(true)
)

// Field renders a padded label followed by value.
func Field(label, value string) string {
	return Label.Render(label) + Value.Render(value)
}

// Status renders a server status word, green when it is "ok".
func Status(status string) string {
	if status == "ok" {
		return StatusOK.Render(status)
	}
	return StatusWarning.Render(status)
}
