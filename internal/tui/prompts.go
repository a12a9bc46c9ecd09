package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NoInteractiveEnv disables every prompt when set. Tests set it so a prompt
// fails fast instead of waiting on stdin.
const NoInteractiveEnv = "TASKSHELL_TEST_NO_INTERACTIVE"

// ErrInteractiveDisabled is returned by prompts when NoInteractiveEnv is set
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts are disabled (%s is set)", NoInteractiveEnv)

// ErrCanceled is returned when the user cancels a prompt
var ErrCanceled = errors.New("canceled")

// CheckInteractiveAllowed returns ErrInteractiveDisabled when prompts are disabled
func CheckInteractiveAllowed() error {
	if os.Getenv(NoInteractiveEnv) != "" {
		return ErrInteractiveDisabled
	}
	return nil
}

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true)
	promptHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	promptCursor     = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	promptMargin     = lipgloss.NewStyle().Margin(1, 0)
)

type textInputModel struct {
	input  textinput.Model
	prompt string
	done   bool
	err    error
}

func newTextInputModel(prompt, defaultValue string) textInputModel {
	ti := textinput.New()
	ti.SetValue(defaultValue)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 80
	return textInputModel{input: ti, prompt: prompt}
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrCanceled
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	if m.done {
		return ""
	}
	return promptMargin.Render(fmt.Sprintf("%s\n%s\n\n%s",
		m.prompt, m.input.View(), promptHelpStyle.Render("(Enter to submit, Ctrl+C to cancel)")))
}

type confirmModel struct {
	prompt string
	choice bool
	done   bool
	err    error
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.err = ErrCanceled
		m.done = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch strings.ToLower(string(key.Runes)) {
		case "y":
			m.choice = true
			m.done = true
			return m, tea.Quit
		case "n":
			m.choice = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yesNo := "[y/N]"
	if m.choice {
		yesNo = "[Y/n]"
	}
	return promptMargin.Render(fmt.Sprintf("%s %s", m.prompt, yesNo))
}

// SelectOption is one choice of a selection prompt
type SelectOption struct {
	Label string
	Value string
}

// SelectModel is a selection prompt with arrow key navigation
type SelectModel struct {
	Title    string
	Options  []SelectOption
	Cursor   int
	Selected string
	Done     bool
	Err      error
}

// Init implements tea.Model
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Options) == 0 {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.Selected = m.Options[m.Cursor].Value
		m.Done = true
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Err = ErrCanceled
		m.Done = true
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		m.Cursor = (m.Cursor - 1 + len(m.Options)) % len(m.Options)
	case tea.KeyDown, tea.KeyTab:
		m.Cursor = (m.Cursor + 1) % len(m.Options)
	}
	return m, nil
}

// View implements tea.Model
func (m SelectModel) View() string {
	if m.Done {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(m.Title))
	b.WriteString("\n\n")
	for i, opt := range m.Options {
		if i == m.Cursor {
			fmt.Fprintf(&b, "  → %s\n", promptCursor.Render(opt.Label))
		} else {
			fmt.Fprintf(&b, "    %s\n", opt.Label)
		}
	}
	b.WriteString(promptHelpStyle.Render("\n(↑/↓ to select, Enter to confirm, Ctrl+C to cancel)"))
	return promptMargin.Render(b.String())
}

func runPrompt(m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	return p.Run()
}

// PromptTextInput asks for a line of text
func PromptTextInput(prompt, defaultValue string) (string, error) {
	if err := CheckInteractiveAllowed(); err != nil {
		return "", err
	}

	model, err := runPrompt(newTextInputModel(prompt, defaultValue))
	if err != nil {
		return "", err
	}
	final, ok := model.(textInputModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if final.err != nil {
		return "", final.err
	}
	return final.input.Value(), nil
}

// PromptConfirm asks a yes/no question
func PromptConfirm(prompt string, defaultValue bool) (bool, error) {
	if err := CheckInteractiveAllowed(); err != nil {
		return false, err
	}

	model, err := runPrompt(confirmModel{prompt: prompt, choice: defaultValue})
	if err != nil {
		return false, err
	}
	final, ok := model.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type")
	}
	if final.err != nil {
		return false, final.err
	}
	return final.choice, nil
}

// PromptSelect asks the user to pick one of options and returns its Value
func PromptSelect(title string, options []SelectOption, defaultIndex int) (string, error) {
	if err := CheckInteractiveAllowed(); err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}
	if defaultIndex < 0 || defaultIndex >= len(options) {
		defaultIndex = 0
	}

	model, err := runPrompt(SelectModel{Title: title, Options: options, Cursor: defaultIndex})
	if err != nil {
		return "", err
	}
	final, ok := model.(SelectModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if final.Err != nil {
		return "", final.Err
	}
	return final.Selected, nil
}
