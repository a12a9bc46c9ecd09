package cli

import (
	"github.com/spf13/cobra"

	"taskshell.dev/taskshell/internal/actions/task"
	"taskshell.dev/taskshell/internal/cli/helpers"
	"taskshell.dev/taskshell/internal/runtime"
)

// newTaskCmd creates the task command
func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, list, archive and open tasks",
	}

	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskArchiveCmd())
	cmd.AddCommand(newTaskOpenCmd())

	return cmd
}

func newTaskCreateCmd() *cobra.Command {
	var opts task.CreateOptions

	cmd := &cobra.Command{
		Use:   "create [description]",
		Short: "Create a task and make it current",
		Long: `Create a task in the current project and make it the current task.

Without a description an interactive form asks for the description, rules,
system prompt and required credentials. The generated task.md is opened in
your editor unless --no-editor is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Title = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := task.CreateAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().StringArrayVar(&opts.Rules, "rule", nil, "Task rule (repeatable)")
	cmd.Flags().StringVar(&opts.SystemPrompt, "system-prompt", "", "System prompt for the task")
	cmd.Flags().StringVar(&opts.Service, "service", "", "Keys file service whose credentials the task uses")
	cmd.Flags().StringSliceVar(&opts.Keys, "keys", nil, "Credential keys substituted into commands as $KEY")
	cmd.Flags().BoolVar(&opts.NoEditor, "no-editor", false, "Do not open task.md")

	return cmd
}

func newTaskListCmd() *cobra.Command {
	var opts task.ListOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks of the current project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return task.ListAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include archived tasks")

	return cmd
}

func newTaskArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "archive [task-id]",
		Short:             "Archive a task (default: the current task)",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteTasks,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := task.ArchiveOptions{}
			if len(args) == 1 {
				opts.ID = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return task.ArchiveAction(ctx, opts)
			})
		},
	}
}

func newTaskOpenCmd() *cobra.Command {
	var opts task.OpenOptions

	cmd := &cobra.Command{
		Use:   "open [task-id]",
		Short: "Make a task current and open its task.md",
		Long: `Make a task current and open its task.md in your editor. Without a task ID
you pick one from the active tasks.

Credential requirements edited in task.md are copied back to the task.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteTasks,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.ID = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := task.OpenAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&opts.NoEditor, "no-editor", false, "Only make the task current")

	return cmd
}
