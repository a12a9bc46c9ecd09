// Package tasks creates, lists and archives task records. Each task lives in
// its own directory holding task.json and a generated task.md.
package tasks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	tserrors "taskshell.dev/taskshell/internal/errors"
)

// Status is the lifecycle state of a task
type Status string

const (
	// StatusActive tasks are shown in the default task list
	StatusActive Status = "active"
	// StatusArchived tasks are kept on disk but hidden from the active list
	StatusArchived Status = "archived"
)

const (
	metadataFile = "task.json"
	markdownFile = "task.md"
	// idTimeLayout matches an ISO timestamp truncated to seconds with ':' replaced
	idTimeLayout = "2006-01-02T15-04-05"
	maxSlugLen   = 50
)

// Task is the persisted task record
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Rules        []string  `json:"rules"`
	SystemPrompt string    `json:"systemPrompt"`
	Service      string    `json:"service,omitempty"`
	Keys         []string  `json:"keys,omitempty"`
	Status       Status    `json:"status"`
	Created      time.Time `json:"created"`
}

// Params describes a task to create
type Params struct {
	Description  string
	Rules        []string
	SystemPrompt string
	Service      string
	Keys         []string
}

// TaskList splits tasks by status
type TaskList struct {
	Active   []*Task
	Archived []*Task
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Sanitize turns free text into a file-name friendly slug
func Sanitize(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}

// NewID builds the task ID for a description created at now
func NewID(description string, now time.Time) string {
	return fmt.Sprintf("task_%s_%s", now.Format(idTimeLayout), Sanitize(description))
}

// Dir returns the directory of a task
func Dir(tasksDir, id string) string {
	return filepath.Join(tasksDir, id)
}

// MarkdownPath returns the task.md path of a task
func MarkdownPath(tasksDir, id string) string {
	return filepath.Join(tasksDir, id, markdownFile)
}

// Create writes a new task directory with task.json and task.md
func Create(tasksDir string, params Params, now time.Time) (*Task, error) {
	if strings.TrimSpace(params.Description) == "" {
		return nil, fmt.Errorf("task description is required")
	}

	task := &Task{
		ID:           NewID(params.Description, now),
		Title:        params.Description,
		Rules:        params.Rules,
		SystemPrompt: params.SystemPrompt,
		Service:      params.Service,
		Keys:         params.Keys,
		Status:       StatusActive,
		Created:      now,
	}
	if task.Rules == nil {
		task.Rules = []string{}
	}

	if err := os.MkdirAll(tasksDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create tasks directory: %w", err)
	}
	if err := os.Mkdir(Dir(tasksDir, task.ID), 0750); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if err := write(tasksDir, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	markdown := GenerateMarkdown(task)
	if err := os.WriteFile(MarkdownPath(tasksDir, task.ID), []byte(markdown), 0600); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func write(tasksDir string, task *Task) error {
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(Dir(tasksDir, task.ID), metadataFile), data, 0600)
}

// Load reads a single task
func Load(tasksDir, id string) (*Task, error) {
	data, err := os.ReadFile(filepath.Join(Dir(tasksDir, id), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, tserrors.NewTaskNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to read task %s: %w", id, err)
	}

	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to parse task %s: %w", id, err)
	}
	return &task, nil
}

// List reads every task under tasksDir, oldest first. Directories that do not
// hold a readable task are passed to skip, which may be nil.
func List(tasksDir string, skip func(name string, err error)) (*TaskList, error) {
	list := &TaskList{Active: []*Task{}, Archived: []*Task{}}

	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return list, nil
		}
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		task, err := Load(tasksDir, entry.Name())
		if err != nil {
			if skip != nil {
				skip(entry.Name(), err)
			}
			continue
		}
		if task.Status == StatusArchived {
			list.Archived = append(list.Archived, task)
		} else {
			list.Active = append(list.Active, task)
		}
	}

	byCreated := func(tasks []*Task) {
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Created.Before(tasks[j].Created)
		})
	}
	byCreated(list.Active)
	byCreated(list.Archived)
	return list, nil
}

// Archive marks a task as archived
func Archive(tasksDir, id string) (*Task, error) {
	task, err := Load(tasksDir, id)
	if err != nil {
		return nil, err
	}
	task.Status = StatusArchived
	if err := write(tasksDir, task); err != nil {
		return nil, fmt.Errorf("failed to archive task: %w", err)
	}
	return task, nil
}

// SyncCredentials reads the credential requirements back from a hand-edited
// task.md. It reports whether task.json changed.
func SyncCredentials(tasksDir, id string) (*Task, bool, error) {
	task, err := Load(tasksDir, id)
	if err != nil {
		return nil, false, err
	}
	src, err := os.ReadFile(MarkdownPath(tasksDir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return task, false, nil
		}
		return nil, false, fmt.Errorf("failed to read task %s: %w", id, err)
	}

	doc := ParseMarkdown(src)
	if doc.Service == task.Service && slices.Equal(doc.Keys, task.Keys) {
		return task, false, nil
	}
	task.Service, task.Keys = doc.Service, doc.Keys
	if err := write(tasksDir, task); err != nil {
		return nil, false, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return task, true, nil
}
