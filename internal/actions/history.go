package actions

import (
	"fmt"
	"strings"

	tserrors "taskshell.dev/taskshell/internal/errors"
	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tui"
	"taskshell.dev/taskshell/internal/tui/components/timeline"
)

// HistoryShowOptions contains options for the history show command
type HistoryShowOptions struct {
	TaskID  string
	ShowIDs bool
}

// HistoryShowAction prints the command tree of a task
func HistoryShowAction(ctx *runtime.Context, opts HistoryShowOptions) error {
	task, err := ctx.OpenTask(opts.TaskID)
	if err != nil {
		return err
	}
	entries, err := ctx.Sessions.Entries()
	if err != nil {
		return err
	}

	ctx.Splog.Info("History of %s", task.Title)
	if len(entries) == 0 {
		ctx.Splog.Info("No commands recorded yet.")
		return nil
	}
	lines := timeline.Render(entries, timeline.RenderOptions{ShowIDs: opts.ShowIDs, Selected: -1})
	ctx.Splog.Page(strings.Join(lines, "\n") + "\n")
	return nil
}

// HistoryResultOptions contains options for the history result command
type HistoryResultOptions struct {
	TaskID  string
	Success bool
	Message string // Stored as the error when Success is false
}

// HistoryResultAction records the outcome of the command at the cursor
func HistoryResultAction(ctx *runtime.Context, opts HistoryResultOptions) error {
	if _, err := ctx.OpenTask(opts.TaskID); err != nil {
		return err
	}

	result := history.Result{Success: opts.Success}
	if !opts.Success {
		message := opts.Message
		if message == "" {
			message = "failed"
		}
		result.Error = message
	}

	node, err := ctx.Sessions.RecordResult(result)
	if err != nil {
		return err
	}
	ctx.Splog.Success("Marked %q as %s", node.Command, node.Status)
	return nil
}

// HistoryRevertOptions contains options for the history revert command
type HistoryRevertOptions struct {
	TaskID string
	Steps  int
	ID     int // When set, revert to this entry instead of counting steps
}

// HistoryRevertAction moves the cursor back, marking the commands left
// behind as reverted
func HistoryRevertAction(ctx *runtime.Context, opts HistoryRevertOptions) error {
	if _, err := ctx.OpenTask(opts.TaskID); err != nil {
		return err
	}

	var (
		node *history.Node
		err  error
	)
	if opts.ID > 0 {
		node, err = ctx.Sessions.RevertTo(opts.ID)
	} else {
		node, err = ctx.Sessions.RevertSteps(opts.Steps)
	}
	if err != nil {
		return err
	}

	if node.Parent() == nil {
		ctx.Splog.Success("Reverted to the start of the task")
	} else {
		ctx.Splog.Success("Reverted to %q", node.Command)
	}
	return nil
}

// HistoryCheckpointOptions contains options for the history checkpoint command
type HistoryCheckpointOptions struct {
	TaskID string
	Name   string
	Notes  string
	ID     int // Checkpoint this entry instead of the cursor
}

// HistoryCheckpointAction bookmarks a command under a name
func HistoryCheckpointAction(ctx *runtime.Context, opts HistoryCheckpointOptions) error {
	if _, err := ctx.OpenTask(opts.TaskID); err != nil {
		return err
	}

	name := strings.TrimSpace(opts.Name)
	var err error
	if opts.ID > 0 {
		err = ctx.Sessions.CreateCheckpointAt(opts.ID, name, opts.Notes)
	} else {
		err = ctx.Sessions.CreateCheckpoint(name, opts.Notes)
	}
	if err != nil {
		return err
	}
	ctx.Splog.Success("Created checkpoint %s", name)
	return nil
}

// HistorySwitchOptions contains options for the history switch command
type HistorySwitchOptions struct {
	TaskID string
	Name   string // Selected interactively when empty
}

// HistorySwitchAction moves the cursor to a checkpoint
func HistorySwitchAction(ctx *runtime.Context, opts HistorySwitchOptions) error {
	if _, err := ctx.OpenTask(opts.TaskID); err != nil {
		return err
	}

	name := opts.Name
	if name == "" {
		names := ctx.Sessions.Checkpoints()
		if len(names) == 0 {
			ctx.Splog.Info("No checkpoints yet.")
			return nil
		}
		options := make([]tui.SelectOption, len(names))
		for i, n := range names {
			options[i] = tui.SelectOption{Label: n, Value: n}
		}
		selected, err := tui.PromptSelect("Switch to checkpoint:", options, 0)
		if err != nil {
			return fmt.Errorf("failed to select checkpoint: %w", err)
		}
		name = selected
	}

	found, err := ctx.Sessions.SwitchCheckpoint(name)
	if err != nil {
		return err
	}
	if !found {
		return tserrors.NewCheckpointNotFoundError(name)
	}
	ctx.Splog.Success("Switched to checkpoint %s", name)
	return nil
}

// HistoryCheckpointsOptions contains options for the history checkpoints command
type HistoryCheckpointsOptions struct {
	TaskID string
}

// HistoryCheckpointsAction lists the checkpoints of a task
func HistoryCheckpointsAction(ctx *runtime.Context, opts HistoryCheckpointsOptions) error {
	if _, err := ctx.OpenTask(opts.TaskID); err != nil {
		return err
	}

	entries, err := ctx.Sessions.Entries()
	if err != nil {
		return err
	}
	at := map[string]history.Entry{}
	for _, e := range entries {
		for _, name := range e.Branches {
			at[name] = e
		}
	}

	names := ctx.Sessions.Checkpoints()
	if len(names) == 0 {
		ctx.Splog.Info("No checkpoints yet.")
		return nil
	}
	for _, name := range names {
		e, ok := at[name]
		command := e.Command
		if !ok {
			command = "(start)"
		}
		line := fmt.Sprintf("%s  %s", name, command)
		if notes := e.Notes(); notes != "" {
			line += "  # " + notes
		}
		ctx.Splog.Info("%s", line)
	}
	return nil
}

// HistoryTimelineOptions contains options for the history timeline command
type HistoryTimelineOptions struct {
	TaskID string
}

// HistoryTimelineAction opens the interactive timeline. Without a terminal it
// prints the history instead.
func HistoryTimelineAction(ctx *runtime.Context, opts HistoryTimelineOptions) error {
	if !tui.IsTTY() || tui.CheckInteractiveAllowed() != nil {
		return HistoryShowAction(ctx, HistoryShowOptions{TaskID: opts.TaskID})
	}
	if _, err := ctx.OpenTask(opts.TaskID); err != nil {
		return err
	}

	ctx.Splog.SetQuiet(true)
	defer ctx.Splog.SetQuiet(false)
	return timeline.Run(ctx.Sessions)
}
