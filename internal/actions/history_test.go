package actions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	tserrors "taskshell.dev/taskshell/internal/errors"
	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/tasks"
	"taskshell.dev/taskshell/testhelpers"
)

func withTask(t *testing.T, commands ...string) *testhelpers.Scene {
	t.Helper()
	return testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		task, err := tasks.Create(s.Ctx.Project.TasksDir(), tasks.Params{Description: "history task"}, time.Unix(1_700_000_000, 0))
		if err != nil {
			return err
		}
		if err := s.Ctx.SetCurrentTask(task.ID); err != nil {
			return err
		}
		if _, err := s.Ctx.OpenTask(""); err != nil {
			return err
		}
		for _, c := range commands {
			if _, err := s.Ctx.Sessions.AddCommand(c, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func current(t *testing.T, s *testhelpers.Scene) *history.Node {
	t.Helper()
	h, _ := s.Ctx.Sessions.Active()
	require.NotNil(t, h)
	return h.Current()
}

func TestHistoryShowAction(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := withTask(t)
		require.NoError(t, HistoryShowAction(s.Ctx, HistoryShowOptions{}))
		require.Contains(t, s.Output.String(), "No commands recorded yet.")
	})

	t.Run("lists commands", func(t *testing.T) {
		s := withTask(t, "npm install", "npm test")
		require.NoError(t, HistoryShowAction(s.Ctx, HistoryShowOptions{ShowIDs: true}))
		out := s.Output.String()
		require.Contains(t, out, "History of history task")
		require.Contains(t, out, "npm install")
		require.Contains(t, out, "npm test")
	})

	t.Run("timeline falls back to show without a terminal", func(t *testing.T) {
		s := withTask(t, "make")
		require.NoError(t, HistoryTimelineAction(s.Ctx, HistoryTimelineOptions{}))
		require.Contains(t, s.Output.String(), "make")
	})
}

func TestHistoryResultAction(t *testing.T) {
	s := withTask(t, "go test ./...")

	require.NoError(t, HistoryResultAction(s.Ctx, HistoryResultOptions{Message: "2 failures"}))
	node := current(t, s)
	require.Equal(t, history.StatusError, node.Status)
	require.Equal(t, "2 failures", node.Result.Error)

	err := HistoryResultAction(s.Ctx, HistoryResultOptions{Success: true})
	require.ErrorIs(t, err, history.ErrResultAlreadySet)
	require.Equal(t, history.StatusError, current(t, s).Status)
}

func TestHistoryRevertAction(t *testing.T) {
	t.Run("by steps", func(t *testing.T) {
		s := withTask(t, "a", "b", "c")
		require.NoError(t, HistoryRevertAction(s.Ctx, HistoryRevertOptions{Steps: 2}))
		require.Equal(t, "a", current(t, s).Command)
		require.Contains(t, s.Output.String(), `Reverted to "a"`)
	})

	t.Run("past the start", func(t *testing.T) {
		s := withTask(t, "a")
		require.NoError(t, HistoryRevertAction(s.Ctx, HistoryRevertOptions{Steps: 5}))
		require.Contains(t, s.Output.String(), "start of the task")
	})

	t.Run("by id", func(t *testing.T) {
		s := withTask(t, "a", "b", "c")
		entries, err := s.Ctx.Sessions.Entries()
		require.NoError(t, err)

		require.NoError(t, HistoryRevertAction(s.Ctx, HistoryRevertOptions{ID: entries[1].ID}))
		require.Equal(t, "b", current(t, s).Command)
	})
}

func TestHistoryCheckpoints(t *testing.T) {
	s := withTask(t, "npm install", "npm test")

	require.NoError(t, HistoryCheckpointAction(s.Ctx, HistoryCheckpointOptions{Name: "tested", Notes: "green"}))
	entries, err := s.Ctx.Sessions.Entries()
	require.NoError(t, err)
	require.NoError(t, HistoryCheckpointAction(s.Ctx, HistoryCheckpointOptions{Name: "installed", ID: entries[0].ID}))
	require.Equal(t, "npm install", current(t, s).Command)

	s.Output.Reset()
	require.NoError(t, HistoryCheckpointsAction(s.Ctx, HistoryCheckpointsOptions{}))
	require.Contains(t, s.Output.String(), "tested  npm test  # green")
	require.Contains(t, s.Output.String(), "installed  npm install")

	t.Run("switch", func(t *testing.T) {
		require.NoError(t, HistorySwitchAction(s.Ctx, HistorySwitchOptions{Name: "tested"}))
		require.Equal(t, "npm test", current(t, s).Command)
	})

	t.Run("switch to unknown", func(t *testing.T) {
		err := HistorySwitchAction(s.Ctx, HistorySwitchOptions{Name: "nope"})
		require.ErrorIs(t, err, tserrors.ErrCheckpointNotFound)
	})

	t.Run("name is required", func(t *testing.T) {
		require.Error(t, HistoryCheckpointAction(s.Ctx, HistoryCheckpointOptions{Name: "  "}))
	})
}
