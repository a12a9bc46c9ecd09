package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// IsTTY reports whether both stdin and stdout are terminals
func IsTTY() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

type workDoneMsg struct{ err error }

// spinnerModel shows a spinner until its work function returns
type spinnerModel struct {
	title   string
	spinner spinner.Model
	work    func() error
	err     error
	done    bool
}

func newSpinnerModel(title string, work func() error) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return spinnerModel{title: title, spinner: s, work: work}
}

func (m spinnerModel) Init() tea.Cmd {
	work := m.work
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return workDoneMsg{err: work()}
	})
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.title)
}

// RunWithSpinner runs work while showing a spinner. Without a TTY, or when
// prompts are disabled, work runs directly.
func RunWithSpinner(title string, work func() error) error {
	if !IsTTY() || CheckInteractiveAllowed() != nil {
		return work()
	}

	model, err := tea.NewProgram(newSpinnerModel(title, work), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return err
	}
	if final, ok := model.(spinnerModel); ok {
		return final.err
	}
	return fmt.Errorf("unexpected model type")
}
