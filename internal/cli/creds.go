package cli

import (
	"github.com/spf13/cobra"

	"taskshell.dev/taskshell/internal/actions"
	"taskshell.dev/taskshell/internal/cli/helpers"
	"taskshell.dev/taskshell/internal/runtime"
)

// newCredsCmd creates the creds command
func newCredsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creds",
		Short: "Manage service credentials",
		Long: `Manage service credentials. They are written to the keys file and imported
into the OS keychain, from where 'history exec --run' substitutes them.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the keys file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.CredsValidateAction)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import",
		Short: "Copy the keys file into the OS keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.CredsImportAction)
		},
	})

	cmd.AddCommand(newCredsGetCmd())
	cmd.AddCommand(newCredsAddCmd())

	return cmd
}

func newCredsGetCmd() *cobra.Command {
	var opts actions.CredsGetOptions

	cmd := &cobra.Command{
		Use:   "get <service>",
		Short: "Show the keys stored for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Service = args[0]
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CredsGetAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.ShowValues, "show", false, "Print values instead of masking them")

	return cmd
}

func newCredsAddCmd() *cobra.Command {
	var opts actions.CredsAddOptions

	cmd := &cobra.Command{
		Use:   "add <service> <key> <value>",
		Short: "Add a key to the keys file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Service, opts.Key, opts.Value = args[0], args[1], args[2]
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CredsAddAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Import, "import", false, "Import the keys file into the keychain afterwards")

	return cmd
}
