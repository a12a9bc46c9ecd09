// Package cli defines the taskshell cobra commands. Each command parses its
// flags and delegates to an action.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskshell",
		Short: "Taskshell records the shell commands you run for a task and lets you rewind them",
		Long: `Taskshell keeps a branching history of the commands run for each task in a
project. Commands can be reverted, bookmarked as checkpoints and revisited,
with credentials from the OS keychain substituted in when they run.

Get started:
  taskshell setup
  taskshell project open .
  taskshell task create "Fix the login bug"
  taskshell history exec --run "npm test"`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCredsCmd())
	rootCmd.AddCommand(newCostCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
