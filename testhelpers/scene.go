// Package testhelpers builds throwaway taskshell environments for tests.
package testhelpers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/zalando/go-keyring"

	"taskshell.dev/taskshell/internal/project"
	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tui"
)

// Scene is a temporary taskshell home with one opened project
type Scene struct {
	Home       string
	ProjectDir string
	Output     *bytes.Buffer
	Ctx        *runtime.Context
}

// SceneSetup customizes a scene before it is returned
type SceneSetup func(*Scene) error

// NewScene creates a home directory and a project directory under t.TempDir,
// opens the project and swaps the OS keychain for an in-memory one.
// Interactive prompts are disabled. Logger output is captured in Output.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	t.Setenv(tui.NoInteractiveEnv, "1")
	keyring.MockInit()

	root := t.TempDir()
	scene := &Scene{
		Home:       filepath.Join(root, "home"),
		ProjectDir: filepath.Join(root, "project"),
		Output:     &bytes.Buffer{},
	}
	if err := os.MkdirAll(scene.ProjectDir, 0750); err != nil {
		t.Fatalf("failed to create project dir: %v", err)
	}

	ctx, err := runtime.NewContext(context.Background(), scene.Home, tui.NewSplogWithWriter(scene.Output))
	if err != nil {
		t.Fatalf("failed to create context: %v", err)
	}
	ctx.Clock = FixedClock(1_700_000_000_000)
	scene.Ctx = ctx

	p, err := project.Open(scene.ProjectDir)
	if err != nil {
		t.Fatalf("failed to open project: %v", err)
	}
	if err := ctx.SetProject(p); err != nil {
		t.Fatalf("failed to set project: %v", err)
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	return scene
}

// FixedClock returns a clock that starts at start and advances one second per call
func FixedClock(start int64) func() int64 {
	now := start
	return func() int64 {
		now += 1000
		return now
	}
}

// InitGit turns the project directory into a git repository
func (s *Scene) InitGit() error {
	_, err := git.PlainInit(s.ProjectDir, false)
	return err
}

// WriteFile writes a file relative to the project directory
func (s *Scene) WriteFile(name, content string) error {
	path := filepath.Join(s.ProjectDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}
