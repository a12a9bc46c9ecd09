package cli

import (
	"github.com/spf13/cobra"

	"taskshell.dev/taskshell/internal/actions"
	"taskshell.dev/taskshell/internal/cli/helpers"
	"taskshell.dev/taskshell/internal/runtime"
)

// newProjectCmd creates the project command
func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Select and inspect the current project",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "open [dir]",
		Short: "Make a directory the current project",
		Long: `Make a directory the current project. Tasks and command histories are kept
in its .taskshell directory. Defaults to the working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.ProjectOpenOptions{}
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ProjectOpenAction(ctx, opts)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.ProjectShowAction)
		},
	})

	return cmd
}
