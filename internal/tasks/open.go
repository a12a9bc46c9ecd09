package tasks

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// EditorCandidates lists the programs tried, in order, to open a task file
func EditorCandidates() [][]string {
	var candidates [][]string
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			candidates = append(candidates, fields)
		}
	}
	candidates = append(candidates, []string{"code"})

	switch runtime.GOOS {
	case "darwin":
		candidates = append(candidates, []string{"open"})
	case "windows":
		candidates = append(candidates, []string{"cmd", "/c", "start", ""})
	default:
		candidates = append(candidates, []string{"xdg-open"})
	}
	return candidates
}

// startDetached launches a program without waiting for it
var startDetached = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Open launches the first available editor on path
func Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to open task: %w", err)
	}

	var lastErr error
	for _, candidate := range EditorCandidates() {
		if _, err := exec.LookPath(candidate[0]); err != nil {
			lastErr = err
			continue
		}
		args := append(append([]string{}, candidate[1:]...), path)
		if err := startDetached(candidate[0], args...); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to open task: no editor available: %w", lastErr)
}
