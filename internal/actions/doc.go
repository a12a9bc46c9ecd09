// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a taskshell command (setup, history exec,
// creds import, etc.) and orchestrates the project, task, session and
// credential packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Settings, Sessions, Splog, and other dependencies
//   - Actions are stateless - all state lives in the settings file and task history
//   - Actions handle user interaction through the tui package
//
// Task creation and command execution live in the task and run subpackages.
package actions
