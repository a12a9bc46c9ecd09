// Package project resolves project directories and their taskshell config folder.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ConfigDirName is the per-project directory holding tasks and histories
const ConfigDirName = ".taskshell"

// Project is a directory the user works in
type Project struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	ConfigPath string `json:"configPath"`
}

// GitInfo describes the git repository enclosing a project, if any
type GitInfo struct {
	Root   string
	Branch string // Empty when HEAD is detached or unborn
}

// Open resolves dir into a project and creates its config directory
func Open(dir string) (*Project, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absPath)
	}

	p := &Project{
		Name:       filepath.Base(absPath),
		Path:       absPath,
		ConfigPath: filepath.Join(absPath, ConfigDirName),
	}
	if err := os.MkdirAll(p.ConfigPath, 0750); err != nil {
		return nil, fmt.Errorf("failed to create project config directory: %w", err)
	}
	return p, nil
}

// TasksDir returns the directory holding the project's task folders
func (p *Project) TasksDir() string {
	return filepath.Join(p.ConfigPath, "tasks")
}

// HistoryDir returns the directory holding the project's command histories
func (p *Project) HistoryDir() string {
	return filepath.Join(p.ConfigPath, "history")
}

// Git inspects the repository enclosing the project. It returns nil when the
// project is not inside a git repository.
func (p *Project) Git() (*GitInfo, error) {
	repo, err := git.PlainOpenWithOptions(p.Path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	info := &GitInfo{Root: worktree.Filesystem.Root()}
	head, err := repo.Head()
	if err == nil && head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}
