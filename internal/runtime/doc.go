// Package runtime provides the execution context for taskshell commands.
//
// It carries the shared dependencies actions need: the settings, the
// logger, the current project and its task sessions.
package runtime
