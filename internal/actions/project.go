package actions

import (
	"taskshell.dev/taskshell/internal/project"
	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tasks"
)

// ProjectOpenOptions contains options for the project open command
type ProjectOpenOptions struct {
	Dir string
}

// ProjectOpenAction makes a directory the current project
func ProjectOpenAction(ctx *runtime.Context, opts ProjectOpenOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	p, err := project.Open(dir)
	if err != nil {
		return err
	}
	if err := ctx.SetProject(p); err != nil {
		return err
	}

	ctx.Splog.Success("Opened project %s (%s)", p.Name, p.Path)
	return nil
}

// ProjectShowAction prints the current project
func ProjectShowAction(ctx *runtime.Context) error {
	p, err := ctx.RequireProject()
	if err != nil {
		return err
	}

	splog := ctx.Splog
	splog.Info("Project: %s", p.Name)
	splog.Info("Path:    %s", p.Path)
	splog.Info("Config:  %s", p.ConfigPath)

	info, err := p.Git()
	if err != nil {
		splog.Warn("Could not read git repository: %v", err)
	} else if info != nil {
		branch := info.Branch
		if branch == "" {
			branch = "(no branch)"
		}
		splog.Info("Git:     %s on %s", info.Root, branch)
	}

	list, err := tasks.List(p.TasksDir(), nil)
	if err != nil {
		return err
	}
	splog.Info("Tasks:   %d active, %d archived", len(list.Active), len(list.Archived))
	if ctx.Settings.CurrentTask != "" {
		splog.Info("Current: %s", ctx.Settings.CurrentTask)
	}
	return nil
}
