package tui

import (
	"os"
	"path/filepath"
)

// LogFilePath returns $TASKSHELL_LOG_FILE, or logs/taskshell.log under home
func LogFilePath(home string) string {
	if custom := os.Getenv("TASKSHELL_LOG_FILE"); custom != "" {
		return custom
	}
	return filepath.Join(home, "logs", "taskshell.log")
}
