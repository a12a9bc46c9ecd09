// Package style holds the lipgloss colors shared by taskshell views.
package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"taskshell.dev/taskshell/internal/history"
)

// Palette is cycled through for checkpoint labels
var Palette = [][]int{
	{76, 203, 241},
	{77, 202, 125},
	{245, 200, 0},
	{248, 144, 72},
	{235, 130, 188},
	{159, 131, 228},
	{80, 132, 243},
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// ColorRed colors text red
func ColorRed(text string) string { return fg("1").Render(text) }

// ColorGreen colors text green
func ColorGreen(text string) string { return fg("2").Render(text) }

// ColorYellow colors text yellow
func ColorYellow(text string) string { return fg("3").Render(text) }

// ColorCyan colors text cyan
func ColorCyan(text string) string { return fg("6").Render(text) }

// ColorDim makes text gray
func ColorDim(text string) string { return fg("8").Render(text) }

// ColorBold makes text bold
func ColorBold(text string) string { return lipgloss.NewStyle().Bold(true).Render(text) }

// StatusBadge renders a short colored marker for a command status
func StatusBadge(status history.Status) string {
	switch status {
	case history.StatusSuccess:
		return ColorGreen("✔")
	case history.StatusError:
		return ColorRed("✘")
	case history.StatusReverted:
		return ColorDim("↺")
	default:
		return ColorYellow("•")
	}
}

// ColorCommand renders a command according to its status
func ColorCommand(command string, status history.Status, isCurrent bool) string {
	s := lipgloss.NewStyle()
	switch {
	case status == history.StatusReverted:
		s = s.Foreground(lipgloss.Color("8"))
	case isCurrent:
		s = s.Foreground(lipgloss.Color("6")).Bold(true)
	}
	return s.Render(command)
}

// CheckpointColor returns a stable color for a checkpoint name
func CheckpointColor(name string) lipgloss.Color {
	var hash uint32
	for i := 0; i < len(name); i++ {
		hash = uint32(name[i]) + (hash << 6) + (hash << 16) - hash
	}
	c := Palette[int(hash%uint32(len(Palette)))]
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

// ColorCheckpoint renders a checkpoint tag such as [before-migration]
func ColorCheckpoint(name string) string {
	return lipgloss.NewStyle().Foreground(CheckpointColor(name)).Render("[" + name + "]")
}

// CurrentMarker marks the cursor node
func CurrentMarker() string {
	return fg("6").Bold(true).Render("◉")
}
