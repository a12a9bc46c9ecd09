// Package run records a command in the current task's history and optionally
// executes it with the task's credentials substituted in.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"taskshell.dev/taskshell/internal/cost"
	"taskshell.dev/taskshell/internal/credentials"
	tserrors "taskshell.dev/taskshell/internal/errors"
	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tui"
)

// Options contains options for the history exec command
type Options struct {
	TaskID   string // Defaults to the current task
	Command  string
	Execute  bool // Run the command with sh -c and record its result
	Metadata map[string]any
}

// Result describes a recorded command
type Result struct {
	Node      *history.Node
	TotalCost float64
	Stdout    string
	Stderr    string
}

// shellOutput is the captured output of a shell command
type shellOutput struct {
	stdout   string
	stderr   string
	exitCode int
}

// runShell executes command in dir; replaced in tests
var runShell = func(ctx context.Context, dir, command string) (shellOutput, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := shellOutput{stdout: stdout.String(), stderr: stderr.String()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.exitCode = exitErr.ExitCode()
	}
	return out, err
}

// Action charges the command, records it under the history cursor and, with
// Execute set, runs it and records the outcome. The history keeps the command
// as typed; credential values only reach the shell.
func Action(ctx *runtime.Context, opts Options) (*Result, error) {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}

	task, err := ctx.OpenTask(opts.TaskID)
	if err != nil {
		return nil, err
	}

	total, err := ctx.Costs.Charge(task.ID)
	if err != nil {
		var limitErr *tserrors.CostLimitError
		if errors.As(err, &limitErr) {
			ctx.Splog.Tip("Raise the limit with 'taskshell cost limit <amount>'.")
		}
		return nil, err
	}

	metadata := map[string]any{"cost": cost.PerCommand}
	for k, v := range opts.Metadata {
		metadata[k] = v
	}

	injected, err := credentials.Inject(command, task.Service, task.Keys)
	if err != nil {
		ctx.Splog.Warn("Credentials for %s are not available: %v", task.Service, err)
		injected = command
	}
	if injected != command {
		metadata["credentials"] = task.Service
	}

	node, err := ctx.Sessions.AddCommand(command, metadata)
	if err != nil {
		if refundErr := ctx.Costs.Refund(task.ID); refundErr != nil {
			ctx.Splog.Warn("Failed to refund the charge for %q: %v", command, refundErr)
		}
		return nil, err
	}
	result := &Result{Node: node, TotalCost: total}
	ctx.Splog.Debug("recorded %q for %s (total cost $%.2f)", command, task.ID, total)

	if !opts.Execute {
		ctx.Splog.Info("Recorded: %s", command)
		return result, nil
	}

	var out shellOutput
	runErr := tui.RunWithSpinner(command, func() error {
		var err error
		out, err = runShell(ctx.Ctx, ctx.Project.Path, injected)
		return err
	})
	result.Stdout, result.Stderr = out.stdout, out.stderr
	ctx.Splog.Page(out.stdout)
	ctx.Splog.Page(out.stderr)

	outcome := history.Result{Success: runErr == nil}
	if runErr != nil {
		outcome.Error = map[string]any{
			"exitCode": out.exitCode,
			"message":  strings.TrimSpace(out.stderr),
		}
	}
	if _, err := ctx.Sessions.RecordResult(outcome); err != nil {
		return result, err
	}

	if runErr != nil {
		return result, tserrors.NewCommandError(command, out.exitCode, strings.TrimSpace(out.stderr), runErr)
	}
	ctx.Splog.Success("%s", command)
	return result, nil
}
