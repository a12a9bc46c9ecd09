package task

import (
	"fmt"

	tserrors "taskshell.dev/taskshell/internal/errors"
	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tasks"
	"taskshell.dev/taskshell/internal/tui"
	"taskshell.dev/taskshell/internal/tui/style"
)

// ListOptions contains options for the task list command
type ListOptions struct {
	All bool // Include archived tasks
}

func describe(t *tasks.Task, current string) string {
	marker := "  "
	if t.ID == current {
		marker = style.CurrentMarker() + " "
	}
	return fmt.Sprintf("%s%s  %s  %s", marker, t.Created.Local().Format("2006-01-02 15:04"), t.Title, style.ColorDim(t.ID))
}

// ListAction prints the tasks of the current project
func ListAction(ctx *runtime.Context, opts ListOptions) error {
	p, err := ctx.RequireProject()
	if err != nil {
		return err
	}

	list, err := tasks.List(p.TasksDir(), func(name string, err error) {
		ctx.Splog.Warn("Skipping %s: %v", name, err)
	})
	if err != nil {
		return err
	}

	current := ctx.Settings.CurrentTask
	if len(list.Active) == 0 {
		ctx.Splog.Info("No active tasks.")
		ctx.Splog.Tip("Create one with 'taskshell task create'.")
	}
	for _, t := range list.Active {
		ctx.Splog.Info("%s", describe(t, current))
	}

	if opts.All && len(list.Archived) > 0 {
		ctx.Splog.Newline()
		ctx.Splog.Info("Archived:")
		for _, t := range list.Archived {
			ctx.Splog.Info("%s", describe(t, current))
		}
	}
	return nil
}

// ArchiveOptions contains options for the task archive command
type ArchiveOptions struct {
	ID string // Defaults to the current task
}

// ArchiveAction archives a task. Archiving the current task clears it.
func ArchiveAction(ctx *runtime.Context, opts ArchiveOptions) error {
	p, err := ctx.RequireProject()
	if err != nil {
		return err
	}

	id := opts.ID
	if id == "" {
		id = ctx.Settings.CurrentTask
	}
	if id == "" {
		return fmt.Errorf("%w: pass the task ID to archive", tserrors.ErrNoActiveTask)
	}

	if _, err := tasks.Archive(p.TasksDir(), id); err != nil {
		return err
	}
	if id == ctx.Settings.CurrentTask {
		if err := ctx.SetCurrentTask(""); err != nil {
			return err
		}
	}
	ctx.Splog.Success("Archived %s", id)
	return nil
}

// OpenOptions contains options for the task open command
type OpenOptions struct {
	ID       string // Selected interactively when empty
	NoEditor bool
}

func selectTask(ctx *runtime.Context, tasksDir string) (string, error) {
	list, err := tasks.List(tasksDir, nil)
	if err != nil {
		return "", err
	}
	if len(list.Active) == 0 {
		return "", fmt.Errorf("no active tasks to open")
	}

	options := make([]tui.SelectOption, len(list.Active))
	defaultIndex := len(list.Active) - 1
	for i, t := range list.Active {
		options[i] = tui.SelectOption{Label: t.Title, Value: t.ID}
		if t.ID == ctx.Settings.CurrentTask {
			defaultIndex = i
		}
	}
	return tui.PromptSelect("Select a task:", options, defaultIndex)
}

// OpenAction makes a task current and opens its task.md. Credential
// requirements edited in task.md are copied back to the task.
func OpenAction(ctx *runtime.Context, opts OpenOptions) (*tasks.Task, error) {
	p, err := ctx.RequireProject()
	if err != nil {
		return nil, err
	}

	id := opts.ID
	if id == "" {
		if id, err = selectTask(ctx, p.TasksDir()); err != nil {
			return nil, err
		}
	}

	t, changed, err := tasks.SyncCredentials(p.TasksDir(), id)
	if err != nil {
		return nil, err
	}
	if changed {
		ctx.Splog.Info("Updated required credentials from task.md")
	}

	if err := ctx.SetCurrentTask(t.ID); err != nil {
		return nil, err
	}
	if _, err := ctx.Sessions.LoadTask(t.ID); err != nil {
		return nil, err
	}

	ctx.Splog.Success("Opened task %s", t.Title)
	if !opts.NoEditor {
		openMarkdown(ctx, p.TasksDir(), t.ID)
	}
	return t, nil
}
