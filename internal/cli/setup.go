package cli

import (
	"github.com/spf13/cobra"

	"taskshell.dev/taskshell/internal/actions"
	"taskshell.dev/taskshell/internal/cli/helpers"
	"taskshell.dev/taskshell/internal/runtime"
)

// newSetupCmd creates the setup command
func newSetupCmd() *cobra.Command {
	var keysPath string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the keys file and finish first-run setup",
		Long: `Create the keys file from a commented template unless it already exists,
and record its location in the settings.

The keys file holds one [service] section per service:

  [github]
  TOKEN=ghp_xxx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.SetupAction(ctx, actions.SetupOptions{KeysPath: keysPath})
			})
		},
	}

	cmd.Flags().StringVar(&keysPath, "keys", "", "Location of the keys file (default: keys.txt in the taskshell home)")

	return cmd
}
