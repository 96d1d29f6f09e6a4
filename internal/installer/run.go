package installer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives one installation attempt through the TUI and returns the
// process exit code the final state calls for. It blocks until the user
// closes the installer.
func Run(ctx context.Context, req Request, deps Deps) (int, error) {
	p := tea.NewProgram(NewModel(ctx, req, deps), tea.WithContext(ctx))

	out, err := p.Run()
	if err != nil {
		return 1, fmt.Errorf("installer ui: %w", err)
	}

	final, ok := out.(Model)
	if !ok {
		return 1, fmt.Errorf("installer ui returned unexpected model %T", out)
	}
	return final.ExitCode(), nil
}

// RunPlain is the --no-tui path: the same worker, queue and exit codes,
// with line output instead of a rendered view. assumeYes skips the
// confirmation prompt.
func RunPlain(ctx context.Context, req Request, deps Deps, in io.Reader, out io.Writer, assumeYes bool) (int, error) {
	if !assumeYes {
		switch r := req.(type) {
		case SelfInstall:
			fmt.Fprintf(out, "Install Voidbox %s? [y/N] ", deps.Version)
		case AppInstall:
			fmt.Fprintf(out, "Install %s? [y/N] ", r.DisplayName)
		}
		if !readYes(in) {
			fmt.Fprintln(out, "Cancelled.")
			return 0, nil
		}
	}

	q := NewQueue()
	defer q.Close()
	go RunWorker(ctx, req, q, deps)

	for {
		s, ok := q.TryRecv()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}
		switch s := s.(type) {
		case ProgressStatus:
			fmt.Fprintf(out, "[%3.0f%%] %s\n", s.Fraction*100, s.Text)
		case SuccessStatus:
			fmt.Fprintln(out, s.Text)
			return 0, nil
		case ErrorStatus:
			fmt.Fprintln(out, "Installation failed:", s.Text)
			return 1, nil
		}
	}
}

func readYes(in io.Reader) bool {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
