package installer

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Voidbox Installer"))
	b.WriteString("\n\n")

	switch m.state {
	case stateConfirm:
		switch r := m.req.(type) {
		case SelfInstall:
			b.WriteString(messageStyle.Render(fmt.Sprintf("Install Voidbox %s?", m.deps.Version)))
			b.WriteString("\n")
			b.WriteString(messageStyle.Render("This will install the voidbox binary and data directories."))
		case AppInstall:
			b.WriteString(messageStyle.Render(fmt.Sprintf("Install %s?", r.DisplayName)))
			b.WriteString("\n")
			b.WriteString(messageStyle.Render("This will download and install the application container."))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("[enter] install    [esc] cancel"))

	case stateInstalling:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(messageStyle.Render(m.message))
		b.WriteString("\n\n")
		b.WriteString(m.bar.ViewAs(m.fraction))

	case stateDone:
		b.WriteString(successStyle.Render(m.message))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("[enter] close"))

	case stateError:
		b.WriteString(errorStyle.Render("Installation failed"))
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("[enter] close"))
	}

	return boxStyle.Render(b.String()) + "\n"
}
