package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"taskshell.dev/taskshell/internal/actions"
	"taskshell.dev/taskshell/internal/cli/helpers"
	"taskshell.dev/taskshell/internal/runtime"
)

// newCostCmd creates the cost command
func newCostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Show and manage command spending",
		Long: `Every recorded command costs $0.01. Recording stops once the total would
exceed the limit.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the total and per-task spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.CostShowAction)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "limit <amount>",
		Short: "Set the spending limit in dollars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CostLimitAction(ctx, actions.CostLimitOptions{Limit: limit})
			})
		},
	})

	cmd.AddCommand(newCostResetCmd())

	return cmd
}

func newCostResetCmd() *cobra.Command {
	var opts actions.CostResetOptions

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all recorded spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CostResetAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}
