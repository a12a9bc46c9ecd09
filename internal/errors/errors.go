// Package errors provides sentinel errors and custom error types for the taskshell application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNoProject indicates that no project has been opened yet
	ErrNoProject = errors.New("no project selected")

	// ErrTaskNotFound indicates that a task does not exist
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoActiveTask indicates that a history operation ran before any task was loaded
	ErrNoActiveTask = errors.New("no active task")

	// ErrCheckpointNotFound indicates that a checkpoint name is unknown
	ErrCheckpointNotFound = errors.New("checkpoint not found")

	// ErrCostLimitExceeded indicates that running another command would exceed the cost limit
	ErrCostLimitExceeded = errors.New("cost limit exceeded")

	// ErrCredentialsNotFound indicates that no credentials are stored for a service
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrInvalidKeysFile indicates that a keys file has no service sections
	ErrInvalidKeysFile = errors.New("invalid keys file format")
)

// TaskNotFoundError represents an error when a task is not found
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s does not exist", e.TaskID)
}

// Is returns true if the target error is ErrTaskNotFound
func (e *TaskNotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}

// NewTaskNotFoundError creates a new TaskNotFoundError
func NewTaskNotFoundError(taskID string) *TaskNotFoundError {
	return &TaskNotFoundError{TaskID: taskID}
}

// CheckpointNotFoundError represents an error when a checkpoint name is unknown
type CheckpointNotFoundError struct {
	Name string
}

func (e *CheckpointNotFoundError) Error() string {
	return fmt.Sprintf("checkpoint %q not found", e.Name)
}

// Is returns true if the target error is ErrCheckpointNotFound
func (e *CheckpointNotFoundError) Is(target error) bool {
	return target == ErrCheckpointNotFound
}

// NewCheckpointNotFoundError creates a new CheckpointNotFoundError
func NewCheckpointNotFoundError(name string) *CheckpointNotFoundError {
	return &CheckpointNotFoundError{Name: name}
}

// CostLimitError reports the totals that tripped the cost limit
type CostLimitError struct {
	Total float64
	Limit float64
}

func (e *CostLimitError) Error() string {
	return fmt.Sprintf("cost limit of $%.2f reached (spent $%.2f)", e.Limit, e.Total)
}

// Is returns true if the target error is ErrCostLimitExceeded
func (e *CostLimitError) Is(target error) bool {
	return target == ErrCostLimitExceeded
}

// NewCostLimitError creates a new CostLimitError
func NewCostLimitError(total, limit float64) *CostLimitError {
	return &CostLimitError{Total: total, Limit: limit}
}

// CommandError represents a failed shell command run on behalf of a task
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError
func NewCommandError(command string, exitCode int, stderr string, err error) *CommandError {
	return &CommandError{
		Command:  command,
		ExitCode: exitCode,
		Stderr:   stderr,
		Err:      err,
	}
}
