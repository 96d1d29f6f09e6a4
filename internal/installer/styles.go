package installer

import "github.com/charmbracelet/lipgloss"

const viewWidth = 56

var (
	// boxStyle frames the whole installer view at a fixed width.
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(viewWidth)

	// titleStyle is used for the window heading (bold cyan).
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// messageStyle is used for progress and body text (light gray).
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// errorStyle marks the failure heading (red).
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	// successStyle marks completed installs (green).
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	// helpStyle is used for key hints (dim).
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// spinnerStyle colors the installing spinner.
	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))
)
