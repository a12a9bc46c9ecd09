package helpers

import (
	"github.com/spf13/cobra"

	"taskshell.dev/taskshell/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.GetContext(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Splog.Close() }()

	if ctx.Settings.FirstRun && cmd.Name() != "setup" {
		ctx.Splog.Tip("First time here? Run 'taskshell setup' to create your keys file.")
	}

	if err := fn(ctx); err != nil {
		ctx.Splog.Debug("%s failed: %v", cmd.CommandPath(), err)
		return err
	}
	return nil
}
