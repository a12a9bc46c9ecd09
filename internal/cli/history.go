package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskshell.dev/taskshell/internal/actions"
	"taskshell.dev/taskshell/internal/actions/run"
	"taskshell.dev/taskshell/internal/cli/helpers"
	"taskshell.dev/taskshell/internal/runtime"
)

// newHistoryCmd creates the history command
func newHistoryCmd() *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Record, revert and checkpoint the commands of a task",
		Long: `Every task keeps a tree of the commands run for it. New commands are added
under the current position. Reverting moves the position back and marks the
commands left behind as reverted; the next command starts a new branch.
Checkpoints are named positions you can switch back to.

Commands apply to the current task unless --task is given.`,
	}

	cmd.PersistentFlags().StringVar(&taskID, "task", "", "Task ID (default: the current task)")
	_ = cmd.RegisterFlagCompletionFunc("task", helpers.CompleteTasks)

	cmd.AddCommand(newHistoryShowCmd(&taskID))
	cmd.AddCommand(newHistoryExecCmd(&taskID))
	cmd.AddCommand(newHistoryResultCmd(&taskID))
	cmd.AddCommand(newHistoryRevertCmd(&taskID))
	cmd.AddCommand(newHistoryCheckpointCmd(&taskID))
	cmd.AddCommand(newHistorySwitchCmd(&taskID))
	cmd.AddCommand(newHistoryCheckpointsCmd(&taskID))
	cmd.AddCommand(newHistoryTimelineCmd(&taskID))

	return cmd
}

func newHistoryShowCmd(taskID *string) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the command tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.HistoryShowAction(ctx, actions.HistoryShowOptions{TaskID: *taskID, ShowIDs: showIDs})
			})
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show entry IDs for use with --to and --at")

	return cmd
}

func newHistoryExecCmd(taskID *string) *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:   "exec <command...>",
		Short: "Record a command, optionally running it",
		Long: `Record a command under the current position and charge it to the task.

With --run the command is executed with sh -c in the project directory after
substituting the task's credentials for $KEY references, and its success or
failure is recorded. The history always keeps the command as typed.`,
		Example: `  taskshell history exec npm install
  taskshell history exec --run 'curl -H "Authorization: token $TOKEN" https://api.github.com/user'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := run.Action(ctx, run.Options{
					TaskID:  *taskID,
					Command: strings.Join(args, " "),
					Execute: execute,
				})
				return err
			})
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&execute, "run", false, "Execute the command and record its result")

	return cmd
}

func newHistoryResultCmd(taskID *string) *cobra.Command {
	var failure string

	cmd := &cobra.Command{
		Use:   "result",
		Short: "Record the outcome of the command at the current position",
		Long: `Record the outcome of the command at the current position. It is marked as
succeeded unless --error is given. A result can only be recorded once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.HistoryResultAction(ctx, actions.HistoryResultOptions{
					TaskID:  *taskID,
					Success: !cmd.Flags().Changed("error"),
					Message: failure,
				})
			})
		},
	}

	cmd.Flags().StringVar(&failure, "error", "", "Mark the command as failed with this message")

	return cmd
}

func newHistoryRevertCmd(taskID *string) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "revert [steps]",
		Short: "Move back through the history",
		Long: `Move the current position back by the given number of steps (default 1),
or to the entry given with --to. Commands left behind are marked as reverted.
Reverting further than the start stops at the start.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.HistoryRevertAction(ctx, actions.HistoryRevertOptions{TaskID: *taskID, Steps: steps, ID: to})
			})
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "Revert to this entry ID (see 'history show --ids')")

	return cmd
}

func newHistoryCheckpointCmd(taskID *string) *cobra.Command {
	var (
		notes string
		at    int
	)

	cmd := &cobra.Command{
		Use:   "checkpoint <name>",
		Short: "Name the current position",
		Long: `Name the current position so you can switch back to it. Reusing a name
moves it. With --at the position first moves back to that entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.HistoryCheckpointAction(ctx, actions.HistoryCheckpointOptions{
					TaskID: *taskID,
					Name:   args[0],
					Notes:  notes,
					ID:     at,
				})
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Notes stored with the command")
	cmd.Flags().IntVar(&at, "at", 0, "Checkpoint this entry ID instead")

	return cmd
}

func newHistorySwitchCmd(taskID *string) *cobra.Command {
	return &cobra.Command{
		Use:               "switch [name]",
		Short:             "Move to a checkpoint",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteCheckpoints,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.HistorySwitchOptions{TaskID: *taskID}
			if len(args) == 1 {
				opts.Name = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.HistorySwitchAction(ctx, opts)
			})
		},
	}
}

func newHistoryCheckpointsCmd(taskID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoints",
		Short: "List checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.HistoryCheckpointsAction(ctx, actions.HistoryCheckpointsOptions{TaskID: *taskID})
			})
		},
	}
}

func newHistoryTimelineCmd(taskID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Browse the history interactively",
		Long: `Browse the history interactively: ↑/↓ select an entry, r reverts to it,
c creates a checkpoint at it, b switches to its checkpoint, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.HistoryTimelineAction(ctx, actions.HistoryTimelineOptions{TaskID: *taskID})
			})
		},
	}
}
