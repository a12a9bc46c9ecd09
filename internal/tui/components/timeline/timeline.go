// Package timeline renders a task's command history as an indented tree and
// provides an interactive view for reverting and checkpointing.
package timeline

import (
	"fmt"
	"strings"
	"time"

	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/tui/style"
)

// RenderOptions controls how entries are rendered
type RenderOptions struct {
	Location *time.Location // Defaults to time.Local
	ShowIDs  bool
	Selected int // Index of the highlighted entry, -1 for none
}

// FormatTime returns the time of day of a millisecond timestamp
func FormatTime(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ts).In(loc).Format("15:04:05")
}

// RenderEntry renders one entry without selection highlighting
func RenderEntry(e history.Entry, opts RenderOptions) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("  ", max(e.Level-1, 0)))
	if e.IsCurrent {
		b.WriteString(style.CurrentMarker())
	} else {
		b.WriteString(style.ColorDim("◯"))
	}
	b.WriteString(" ")
	b.WriteString(style.StatusBadge(e.Status))
	b.WriteString(" ")
	b.WriteString(style.ColorDim(FormatTime(e.Timestamp, opts.Location)))
	if opts.ShowIDs {
		b.WriteString(" ")
		b.WriteString(style.ColorDim(fmt.Sprintf("#%d", e.ID)))
	}
	b.WriteString(" ")
	b.WriteString(style.ColorCommand(e.Command, e.Status, e.IsCurrent))

	for _, name := range e.Branches {
		b.WriteString(" ")
		b.WriteString(style.ColorCheckpoint(name))
	}
	if notes := e.Notes(); notes != "" {
		b.WriteString(" ")
		b.WriteString(style.ColorDim("# " + notes))
	}
	return b.String()
}

// Render renders every entry, one line each
func Render(entries []history.Entry, opts RenderOptions) []string {
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		line := RenderEntry(e, opts)
		if i == opts.Selected {
			line = style.ColorCyan("› ") + line
		} else if opts.Selected >= 0 {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return lines
}
