// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"taskshell.dev/taskshell/internal/config"
	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tasks"
	"taskshell.dev/taskshell/internal/tui"
)

func completionContext(cmd *cobra.Command) (*runtime.Context, bool) {
	home, err := config.Home()
	if err != nil {
		return nil, false
	}
	ctx, err := runtime.NewContext(cmd.Context(), home, tui.NewSplogWithWriter(cmd.ErrOrStderr()))
	if err != nil || ctx.Project == nil {
		return nil, false
	}
	return ctx, true
}

// CompleteTasks is a cobra.ValidArgsFunction that returns the IDs of the
// active tasks of the current project.
func CompleteTasks(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx, ok := completionContext(cmd)
	if !ok {
		return nil, cobra.ShellCompDirectiveError
	}
	list, err := tasks.List(ctx.Project.TasksDir(), nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids := make([]string, 0, len(list.Active))
	for _, t := range list.Active {
		ids = append(ids, t.ID+"\t"+t.Title)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// CompleteCheckpoints returns the checkpoint names of the current task
func CompleteCheckpoints(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx, ok := completionContext(cmd)
	if !ok {
		return nil, cobra.ShellCompDirectiveError
	}
	taskID, _ := cmd.Flags().GetString("task")
	if _, err := ctx.OpenTask(taskID); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return ctx.Sessions.Checkpoints(), cobra.ShellCompDirectiveNoFileComp
}
