package timeline

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/history/store"
	"taskshell.dev/taskshell/internal/session"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func ts(hour, minute, second int) int64 {
	return time.Date(2024, 1, 2, hour, minute, second, 0, time.UTC).UnixMilli()
}

func TestRender(t *testing.T) {
	entries := []history.Entry{
		{ID: 1, Command: "npm install", Timestamp: ts(3, 4, 5), Status: history.StatusSuccess, Level: 1, Branches: []string{}},
		{ID: 2, Command: "npm test", Timestamp: ts(3, 5, 0), Status: history.StatusError, Level: 2, IsCurrent: true,
			Branches: []string{"green"}, Metadata: map[string]any{"notes": "flaky"}},
	}

	lines := Render(entries, RenderOptions{Location: time.UTC, Selected: -1, ShowIDs: true})
	require.Len(t, lines, 2)

	require.Contains(t, lines[0], "npm install")
	require.Contains(t, lines[0], "03:04:05")
	require.Contains(t, lines[0], "#1")
	require.False(t, strings.HasPrefix(lines[0], " "))

	require.True(t, strings.HasPrefix(lines[1], "  "))
	require.Contains(t, lines[1], "npm test")
	require.Contains(t, lines[1], "[green]")
	require.Contains(t, lines[1], "# flaky")

	t.Run("selection marker", func(t *testing.T) {
		lines := Render(entries, RenderOptions{Location: time.UTC, Selected: 1})
		require.Contains(t, lines[1], "›")
		require.NotContains(t, lines[0], "›")
	})
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newSession(t *testing.T, commands ...string) *session.Manager {
	t.Helper()
	var now int64
	mgr := session.NewManager(store.NewMemStore(), func() int64 {
		now++
		return now
	})
	_, err := mgr.LoadTask("task_timeline")
	require.NoError(t, err)
	for _, c := range commands {
		_, err := mgr.AddCommand(c, nil)
		require.NoError(t, err)
	}
	return mgr
}

func currentCommand(t *testing.T, mgr *session.Manager) string {
	t.Helper()
	h, _ := mgr.Active()
	return h.Current().Command
}

func TestModel(t *testing.T) {
	t.Run("starts on the current entry", func(t *testing.T) {
		m, err := NewModel(newSession(t, "a", "b", "c"))
		require.NoError(t, err)
		require.Equal(t, 2, m.Cursor())

		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
		require.Equal(t, 2, m.Cursor())
		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
		require.Equal(t, 0, m.Cursor())
	})

	t.Run("revert here", func(t *testing.T) {
		mgr := newSession(t, "a", "b", "c")
		m, err := NewModel(mgr)
		require.NoError(t, err)

		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, keys("r"))
		require.NoError(t, m.Err())
		require.Contains(t, m.Status(), "Reverted")
		require.Equal(t, "b", currentCommand(t, mgr))
		require.Equal(t, 1, m.Cursor())

		entries, err := mgr.Entries()
		require.NoError(t, err)
		require.Equal(t, history.StatusReverted, entries[2].Status)
	})

	t.Run("checkpoint here", func(t *testing.T) {
		mgr := newSession(t, "a", "b", "c")
		m, err := NewModel(mgr)
		require.NoError(t, err)

		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, keys("c"))
		require.True(t, m.Naming())
		require.Contains(t, m.View(), "Checkpoint name")

		m = press(t, m, keys("mark"), tea.KeyMsg{Type: tea.KeyEnter})
		require.False(t, m.Naming())
		require.NoError(t, m.Err())
		require.Equal(t, []string{"mark"}, mgr.Checkpoints())
		require.Equal(t, "b", currentCommand(t, mgr))
	})

	t.Run("escape cancels naming", func(t *testing.T) {
		mgr := newSession(t, "a")
		m, err := NewModel(mgr)
		require.NoError(t, err)

		m = press(t, m, keys("c"), keys("x"), tea.KeyMsg{Type: tea.KeyEsc})
		require.False(t, m.Naming())
		require.Empty(t, mgr.Checkpoints())
	})

	t.Run("switch to checkpoint", func(t *testing.T) {
		mgr := newSession(t, "a", "b")
		require.NoError(t, mgr.CreateCheckpoint("mark", ""))
		_, err := mgr.AddCommand("c", nil)
		require.NoError(t, err)

		m, err := NewModel(mgr)
		require.NoError(t, err)
		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, keys("b"))
		require.NoError(t, m.Err())
		require.Equal(t, "b", currentCommand(t, mgr))

		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, keys("b"))
		require.Equal(t, "No checkpoint at this command", m.Status())
	})

	t.Run("revert to a sibling fails", func(t *testing.T) {
		mgr := newSession(t, "a", "b")
		_, err := mgr.RevertSteps(1)
		require.NoError(t, err)
		_, err = mgr.AddCommand("c", nil)
		require.NoError(t, err)

		m, err := NewModel(mgr)
		require.NoError(t, err)
		require.Equal(t, 2, m.Cursor())

		m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, keys("r"))
		require.Error(t, m.Err())
		require.Equal(t, "c", currentCommand(t, mgr))
	})

	t.Run("quit", func(t *testing.T) {
		m, err := NewModel(newSession(t))
		require.NoError(t, err)
		require.Contains(t, m.View(), "No commands yet")

		_, cmd := m.Update(keys("q"))
		require.NotNil(t, cmd)
		require.IsType(t, tea.QuitMsg{}, cmd())
	})
}
