// Package tui provides the terminal user interface for taskshell.
//
// It handles:
//   - Interactive prompts and selections (bubbletea)
//   - Console and file logging (Splog)
//   - Progress spinners and TTY detection
package tui
