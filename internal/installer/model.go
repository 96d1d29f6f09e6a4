package installer

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// pollInterval paces the drain of the status queue. The worker is the
// only producer, so a coarse tick is plenty.
const pollInterval = 80 * time.Millisecond

type coordinatorState string

const (
	stateConfirm    coordinatorState = "confirm"
	stateInstalling coordinatorState = "installing"
	stateDone       coordinatorState = "done"
	stateError      coordinatorState = "error"
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the installation coordinator: it owns the display state,
// drains the status queue every tick and spawns the worker at most once.
type Model struct {
	ctx   context.Context
	req   Request
	deps  Deps
	queue *Queue

	state    coordinatorState
	fraction float64
	message  string
	started  bool
	exitCode int
	quitting bool

	spinner spinner.Model
	bar     progress.Model
}

// NewModel returns a coordinator in the confirmation state.
func NewModel(ctx context.Context, req Request, deps Deps) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(viewWidth-8))
	return Model{
		ctx:     ctx,
		req:     req,
		deps:    deps,
		queue:   NewQueue(),
		state:   stateConfirm,
		spinner: sp,
		bar:     bar,
	}
}

// ExitCode is the process exit code the final state calls for. The model
// never exits the process itself.
func (m Model) ExitCode() int {
	return m.exitCode
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.drain()
		if m.state == stateInstalling {
			return m, tick()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		// Fixed-size view; nothing to reflow.
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateConfirm:
		switch msg.String() {
		case "enter", "y":
			m.start()
			return m, tick()
		case "esc", "q", "n", "ctrl+c":
			return m.quit(0)
		}

	case stateInstalling:
		// No cancellation once the worker is running.

	case stateDone:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m.quit(0)
		}

	case stateError:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m.quit(1)
		}
	}
	return m, nil
}

// start moves to Installing and spawns the worker. The confirm keys are
// only handled in the confirmation state, so this runs at most once per
// process; the started guard keeps it that way even if a stray event
// slips through.
func (m *Model) start() {
	if m.started {
		return
	}
	m.started = true
	m.state = stateInstalling
	m.fraction = 0
	m.message = "Starting installation..."
	go RunWorker(m.ctx, m.req, m.queue, m.deps)
}

func (m Model) quit(code int) (tea.Model, tea.Cmd) {
	m.exitCode = code
	m.quitting = true
	m.queue.Close()
	return m, tea.Quit
}

// drain applies every pending status in order; within one tick the last
// message wins for display.
func (m *Model) drain() {
	for {
		s, ok := m.queue.TryRecv()
		if !ok {
			return
		}
		m.apply(s)
	}
}

func (m *Model) apply(s Status) {
	if m.state != stateInstalling {
		// Terminal already reached; FIFO ordering means nothing should
		// arrive here, so drop whatever does.
		return
	}
	switch s := s.(type) {
	case ProgressStatus:
		if s.Fraction >= m.fraction {
			m.fraction = s.Fraction
			m.message = s.Text
		}
	case SuccessStatus:
		m.state = stateDone
		m.message = s.Text
	case ErrorStatus:
		m.state = stateError
		m.message = s.Text
	}
}
