// Package task implements the task commands: create, list, archive and open.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tasks"
	"taskshell.dev/taskshell/internal/tui"
)

// CreateOptions contains options for the task create command
type CreateOptions struct {
	Title        string // Prompted for when empty
	Rules        []string
	SystemPrompt string
	Service      string
	Keys         []string
	NoEditor     bool // Do not open task.md after creating it
}

type taskAnswers struct {
	Title        string `survey:"title"`
	Rules        string `survey:"rules"`
	SystemPrompt string `survey:"prompt"`
	Service      string `survey:"service"`
	Keys         string `survey:"keys"`
}

// askTask runs the task creation form; replaced in tests
var askTask = func(answers *taskAnswers) error {
	questions := []*survey.Question{
		{
			Name:     "title",
			Prompt:   &survey.Input{Message: "Task description:"},
			Validate: survey.Required,
		},
		{
			Name:   "rules",
			Prompt: &survey.Multiline{Message: "Task rules (one per line):"},
		},
		{
			Name:   "prompt",
			Prompt: &survey.Multiline{Message: "System prompt:"},
		},
		{
			Name:   "service",
			Prompt: &survey.Input{Message: "Credential service (blank for none):"},
		},
		{
			Name:   "keys",
			Prompt: &survey.Input{Message: "Required keys (comma separated):"},
		},
	}
	return survey.Ask(questions, answers)
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func promptOptions(opts CreateOptions) (CreateOptions, error) {
	if err := tui.CheckInteractiveAllowed(); err != nil {
		return opts, fmt.Errorf("a task description is required: %w", err)
	}
	if !tui.IsTTY() {
		return opts, fmt.Errorf("a task description is required when not running in a terminal")
	}

	var answers taskAnswers
	if err := askTask(&answers); err != nil {
		return opts, err
	}
	opts.Title = strings.TrimSpace(answers.Title)
	opts.Rules = splitLines(answers.Rules)
	opts.SystemPrompt = strings.TrimSpace(answers.SystemPrompt)
	opts.Service = strings.TrimSpace(answers.Service)
	opts.Keys = splitList(answers.Keys)
	return opts, nil
}

// CreateAction creates a task in the current project and makes it current
func CreateAction(ctx *runtime.Context, opts CreateOptions) (*tasks.Task, error) {
	p, err := ctx.RequireProject()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(opts.Title) == "" {
		if opts, err = promptOptions(opts); err != nil {
			return nil, err
		}
	}

	created, err := tasks.Create(p.TasksDir(), tasks.Params{
		Description:  opts.Title,
		Rules:        opts.Rules,
		SystemPrompt: opts.SystemPrompt,
		Service:      opts.Service,
		Keys:         opts.Keys,
	}, time.UnixMilli(ctx.Clock()))
	if err != nil {
		return nil, err
	}

	if err := ctx.SetCurrentTask(created.ID); err != nil {
		return nil, err
	}
	if _, err := ctx.Sessions.LoadTask(created.ID); err != nil {
		return nil, err
	}

	ctx.Splog.Success("Created task %s", created.ID)
	if !opts.NoEditor {
		openMarkdown(ctx, p.TasksDir(), created.ID)
	}
	return created, nil
}

func openMarkdown(ctx *runtime.Context, tasksDir, id string) {
	path := tasks.MarkdownPath(tasksDir, id)
	if err := tasks.Open(path); err != nil {
		ctx.Splog.Warn("Could not open an editor: %v", err)
		ctx.Splog.Tip("Edit %s by hand.", path)
	}
}
