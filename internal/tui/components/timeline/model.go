package timeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/tui/style"
)

// Controller performs the actions triggered from the timeline
type Controller interface {
	Entries() ([]history.Entry, error)
	RevertTo(id int) (*history.Node, error)
	CreateCheckpointAt(id int, name, notes string) error
	SwitchCheckpoint(name string) (bool, error)
}

// Model is the interactive timeline view
type Model struct {
	ctrl    Controller
	entries []history.Entry
	cursor  int
	naming  bool
	input   textinput.Model
	status  string
	err     error
	Options RenderOptions
}

// NewModel loads the entries from ctrl and selects the current one
func NewModel(ctrl Controller) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "checkpoint name"
	ti.CharLimit = 100

	m := Model{ctrl: ctrl, input: ti}
	if err := m.refresh(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Cursor returns the index of the selected entry
func (m Model) Cursor() int {
	return m.cursor
}

// Naming reports whether the checkpoint name input is open
func (m Model) Naming() bool {
	return m.naming
}

// Status returns the message of the last action
func (m Model) Status() string {
	return m.status
}

// Err returns the error of the last failed action
func (m Model) Err() error {
	return m.err
}

func (m *Model) refresh() error {
	entries, err := m.ctrl.Entries()
	if err != nil {
		return err
	}
	m.entries = entries
	m.cursor = 0
	for i, e := range entries {
		if e.IsCurrent {
			m.cursor = i
		}
	}
	return nil
}

func (m Model) selected() (history.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return history.Entry{}, false
	}
	return m.entries[m.cursor], true
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.naming {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.naming {
		return m.updateNaming(key)
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "r":
		m.revert()
	case "c":
		if _, ok := m.selected(); ok {
			m.naming = true
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	case "b":
		m.switchCheckpoint()
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateNaming(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.naming = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.naming = false
		m.input.Blur()
		m.createCheckpoint(strings.TrimSpace(m.input.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *Model) setResult(status string, err error) {
	m.status, m.err = status, err
	if err != nil {
		m.status = ""
		return
	}
	if rerr := m.refresh(); rerr != nil {
		m.err = rerr
	}
}

func (m *Model) revert() {
	entry, ok := m.selected()
	if !ok {
		return
	}
	_, err := m.ctrl.RevertTo(entry.ID)
	m.setResult(fmt.Sprintf("Reverted to %q", entry.Command), err)
}

func (m *Model) createCheckpoint(name string) {
	entry, ok := m.selected()
	if !ok || name == "" {
		return
	}
	err := m.ctrl.CreateCheckpointAt(entry.ID, name, "")
	m.setResult(fmt.Sprintf("Created checkpoint %q", name), err)
}

func (m *Model) switchCheckpoint() {
	entry, ok := m.selected()
	if !ok {
		return
	}
	if len(entry.Branches) == 0 {
		m.status, m.err = "No checkpoint at this command", nil
		return
	}
	name := entry.Branches[0]
	found, err := m.ctrl.SwitchCheckpoint(name)
	if err == nil && !found {
		err = fmt.Errorf("checkpoint %q not found", name)
	}
	m.setResult(fmt.Sprintf("Switched to checkpoint %q", name), err)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Command history"))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(style.ColorDim("No commands yet"))
		b.WriteString("\n")
	} else {
		opts := m.Options
		opts.Selected = m.cursor
		b.WriteString(strings.Join(Render(m.entries, opts), "\n"))
		b.WriteString("\n")
	}

	switch {
	case m.naming:
		b.WriteString("\nCheckpoint name: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(style.ColorRed(m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString("\n")
		b.WriteString(style.ColorGreen(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓: select | r: revert here | c: checkpoint here | b: switch to checkpoint | q: quit"))
	return b.String()
}

// Run starts the interactive timeline on the terminal
func Run(ctrl Controller) error {
	m, err := NewModel(ctrl)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}
