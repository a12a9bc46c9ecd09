package actions

import (
	"fmt"

	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tui"
)

// CostShowAction prints the total and per-task spending
func CostShowAction(ctx *runtime.Context) error {
	summary, err := ctx.Costs.Summary()
	if err != nil {
		return err
	}

	ctx.Splog.Info("Total:     $%.2f", summary.Total)
	ctx.Splog.Info("Limit:     $%.2f", summary.Limit)
	ctx.Splog.Info("Remaining: $%.2f", summary.Remaining)
	if len(summary.Tasks) > 0 {
		ctx.Splog.Newline()
		for _, task := range summary.Tasks {
			ctx.Splog.Info("  $%6.2f  %s", task.Cost, task.TaskID)
		}
	}
	return nil
}

// CostLimitOptions contains options for the cost limit command
type CostLimitOptions struct {
	Limit float64
}

// CostLimitAction changes the spending limit
func CostLimitAction(ctx *runtime.Context, opts CostLimitOptions) error {
	if err := ctx.Costs.SetLimit(opts.Limit); err != nil {
		return err
	}
	ctx.Splog.Success("Cost limit set to $%.2f", opts.Limit)
	return nil
}

// CostResetOptions contains options for the cost reset command
type CostResetOptions struct {
	Force bool // Skip the confirmation prompt
}

// CostResetAction clears all recorded spending
func CostResetAction(ctx *runtime.Context, opts CostResetOptions) error {
	if !opts.Force {
		ok, err := tui.PromptConfirm("Reset all recorded costs?", false)
		if err != nil {
			return fmt.Errorf("confirmation failed (use --yes to skip): %w", err)
		}
		if !ok {
			ctx.Splog.Info("Nothing changed.")
			return nil
		}
	}

	if err := ctx.Costs.Reset(); err != nil {
		return err
	}
	ctx.Splog.Success("Costs reset")
	return nil
}
