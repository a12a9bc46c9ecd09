package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	tserrors "taskshell.dev/taskshell/internal/errors"
	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/history/store"
)

func tick() history.Clock {
	var now int64
	return func() int64 {
		now++
		return now
	}
}

type failingStore struct{ err error }

func (s failingStore) Read(string) ([]byte, error) { return nil, s.err }
func (s failingStore) Write(string, []byte) error  { return s.err }

func TestManager_LoadTask(t *testing.T) {
	t.Run("missing history starts empty", func(t *testing.T) {
		m := NewManager(store.NewMemStore(), tick())

		h, err := m.LoadTask("task_a")
		require.NoError(t, err)
		require.Empty(t, h.Entries())

		active, id := m.Active()
		require.Same(t, h, active)
		require.Equal(t, "task_a", id)
	})

	t.Run("reuses the loaded history", func(t *testing.T) {
		m := NewManager(store.NewMemStore(), tick())
		first, err := m.LoadTask("task_a")
		require.NoError(t, err)
		_, err = m.LoadTask("task_b")
		require.NoError(t, err)

		again, err := m.LoadTask("task_a")
		require.NoError(t, err)
		require.Same(t, first, again)
	})

	t.Run("reads saved history", func(t *testing.T) {
		st := store.NewMemStore()
		m := NewManager(st, tick())
		_, err := m.LoadTask("task_a")
		require.NoError(t, err)
		_, err = m.AddCommand("go test ./...", nil)
		require.NoError(t, err)

		fresh := NewManager(st, tick())
		h, err := fresh.LoadTask("task_a")
		require.NoError(t, err)
		require.Len(t, h.Entries(), 1)
		require.Equal(t, "go test ./...", h.Current().Command)
	})

	t.Run("corrupt history is reported", func(t *testing.T) {
		st := store.NewMemStore()
		require.NoError(t, st.Write("task_a", []byte("{nope")))

		_, err := NewManager(st, tick()).LoadTask("task_a")
		require.Error(t, err)
	})

	t.Run("store errors are reported", func(t *testing.T) {
		boom := errors.New("disk on fire")
		_, err := NewManager(failingStore{err: boom}, tick()).LoadTask("task_a")
		require.ErrorIs(t, err, boom)
	})
}

func TestManager_NoActiveTask(t *testing.T) {
	m := NewManager(store.NewMemStore(), tick())

	_, err := m.AddCommand("ls", nil)
	require.ErrorIs(t, err, tserrors.ErrNoActiveTask)
	_, err = m.RevertSteps(1)
	require.ErrorIs(t, err, tserrors.ErrNoActiveTask)
	require.ErrorIs(t, m.CreateCheckpoint("x", ""), tserrors.ErrNoActiveTask)
	_, err = m.SwitchCheckpoint("x")
	require.ErrorIs(t, err, tserrors.ErrNoActiveTask)
	require.Empty(t, m.Checkpoints())
}

func commandsOf(entries []history.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Command
	}
	return out
}

func TestManager_Checkpoints(t *testing.T) {
	st := store.NewMemStore()
	m := NewManager(st, tick())
	_, err := m.LoadTask("task_a")
	require.NoError(t, err)

	a, err := m.AddCommand("npm install", nil)
	require.NoError(t, err)
	require.NoError(t, m.CreateCheckpoint("deps", "after install"))
	_, err = m.AddCommand("npm test", nil)
	require.NoError(t, err)

	require.Equal(t, []string{"deps"}, m.Checkpoints())
	require.Equal(t, "after install", a.Metadata["notes"])

	ok, err := m.SwitchCheckpoint("deps")
	require.NoError(t, err)
	require.True(t, ok)
	h, _ := m.Active()
	require.Same(t, a, h.Current())

	ok, err = m.SwitchCheckpoint("missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.Same(t, a, h.Current())

	require.Error(t, m.CreateCheckpoint("", ""))

	t.Run("notes, checkpoints and cursor survive a reload", func(t *testing.T) {
		fresh := NewManager(st, tick())
		h, err := fresh.LoadTask("task_a")
		require.NoError(t, err)
		require.Equal(t, []string{"deps"}, fresh.Checkpoints())
		require.Equal(t, "after install", h.Entries()[0].Notes())
		require.Equal(t, "npm install", h.Current().Command)

		_, err = fresh.AddCommand("npm run build", nil)
		require.NoError(t, err)
		require.Equal(t, []string{"npm install", "npm test", "npm run build"}, commandsOf(h.Entries()))
		require.Equal(t, 1, h.Entries()[2].Level-h.Entries()[0].Level)
	})
}

func TestManager_Revert(t *testing.T) {
	m := NewManager(store.NewMemStore(), tick())
	_, err := m.LoadTask("task_a")
	require.NoError(t, err)

	a, _ := m.AddCommand("a", nil)
	b, _ := m.AddCommand("b", nil)
	c, _ := m.AddCommand("c", nil)

	t.Run("revert to ancestor by id", func(t *testing.T) {
		node, err := m.RevertTo(b.ID)
		require.NoError(t, err)
		require.Same(t, b, node)
		require.Equal(t, history.StatusReverted, b.Status)
		require.Equal(t, history.StatusReverted, c.Status)
		require.Equal(t, history.StatusPending, a.Status)
	})

	t.Run("non-ancestor id is rejected", func(t *testing.T) {
		_, err := m.RevertTo(c.ID)
		require.Error(t, err)
	})

	t.Run("revert steps clamps at root", func(t *testing.T) {
		node, err := m.RevertSteps(10)
		require.NoError(t, err)
		h, _ := m.Active()
		require.Same(t, h.Root(), node)
	})
}

func TestManager_CreateCheckpointAt(t *testing.T) {
	m := NewManager(store.NewMemStore(), tick())
	_, err := m.LoadTask("task_a")
	require.NoError(t, err)
	a, _ := m.AddCommand("a", nil)
	b, _ := m.AddCommand("b", nil)

	require.NoError(t, m.CreateCheckpointAt(b.ID, "here", ""))
	require.Equal(t, history.StatusPending, b.Status)

	require.NoError(t, m.CreateCheckpointAt(a.ID, "earlier", "base"))
	h, _ := m.Active()
	require.Same(t, a, h.Current())
	require.Equal(t, history.StatusReverted, a.Status)
	require.Equal(t, "base", a.Metadata["notes"])
	require.Equal(t, []string{"here", "earlier"}, m.Checkpoints())

	t.Run("empty name changes nothing", func(t *testing.T) {
		m := NewManager(store.NewMemStore(), tick())
		_, err := m.LoadTask("task_b")
		require.NoError(t, err)
		a, _ := m.AddCommand("a", nil)
		b, _ := m.AddCommand("b", nil)

		require.Error(t, m.CreateCheckpointAt(a.ID, "", ""))
		h, _ := m.Active()
		require.Same(t, b, h.Current())
		require.Equal(t, history.StatusPending, a.Status)
		require.Equal(t, history.StatusPending, b.Status)
		require.Empty(t, m.Checkpoints())
	})
}

func TestManager_RecordResult(t *testing.T) {
	m := NewManager(store.NewMemStore(), tick())
	_, err := m.LoadTask("task_a")
	require.NoError(t, err)

	_, err = m.RecordResult(history.Result{Success: true})
	require.Error(t, err, "root has no command")

	_, err = m.AddCommand("make", nil)
	require.NoError(t, err)
	node, err := m.RecordResult(history.Result{Success: false, Error: "exit status 2"})
	require.NoError(t, err)
	require.Equal(t, history.StatusError, node.Status)

	_, err = m.RecordResult(history.Result{Success: true})
	require.ErrorIs(t, err, history.ErrResultAlreadySet)
}

func TestState(t *testing.T) {
	t.Run("paths resolve the same node after a reload", func(t *testing.T) {
		st := store.NewMemStore()
		m := NewManager(st, tick())
		_, err := m.LoadTask("task_a")
		require.NoError(t, err)

		_, err = m.AddCommand("a", nil)
		require.NoError(t, err)
		_, err = m.AddCommand("b", nil)
		require.NoError(t, err)
		_, err = m.RevertSteps(1)
		require.NoError(t, err)
		_, err = m.AddCommand("c", nil)
		require.NoError(t, err)
		require.NoError(t, m.CreateCheckpoint("side", ""))

		fresh := NewManager(st, tick())
		h, err := fresh.LoadTask("task_a")
		require.NoError(t, err)
		require.Equal(t, "c", h.Current().Command)
		node, ok := h.Checkpoint("side")
		require.True(t, ok)
		require.Equal(t, "c", node.Command)
	})

	t.Run("stale entries are ignored", func(t *testing.T) {
		h := history.New(history.WithClock(tick()))
		h.Execute("a", nil)
		h.Root().Metadata[cursorKey] = []any{float64(5)}
		h.Root().Metadata[checkpointsKey] = []any{map[string]any{"name": "gone", "path": []any{float64(3)}}}

		restoreState(h)
		require.Equal(t, "a", h.Current().Command)
		require.Empty(t, h.Checkpoints())
	})
}
