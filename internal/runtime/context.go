package runtime

import (
	"context"
	"fmt"

	"taskshell.dev/taskshell/internal/config"
	"taskshell.dev/taskshell/internal/cost"
	tserrors "taskshell.dev/taskshell/internal/errors"
	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/history/store"
	"taskshell.dev/taskshell/internal/project"
	"taskshell.dev/taskshell/internal/session"
	"taskshell.dev/taskshell/internal/tasks"
	"taskshell.dev/taskshell/internal/tui"
)

// Context provides access to settings and output for commands
type Context struct {
	Ctx      context.Context
	Home     string
	Settings *config.Settings
	Splog    *tui.Splog
	Costs    *cost.Tracker
	Clock    history.Clock

	// Project and Sessions are nil until a project is opened
	Project  *project.Project
	Sessions *session.Manager
}

// NewContext loads the settings under home and restores the current project
func NewContext(ctx context.Context, home string, splog *tui.Splog) (*Context, error) {
	settings, err := config.Load(home)
	if err != nil {
		return nil, err
	}

	c := &Context{
		Ctx:      ctx,
		Home:     home,
		Settings: settings,
		Splog:    splog,
		Costs:    cost.NewTracker(home),
		Clock:    history.SystemClock,
	}
	if settings.CurrentProject != nil {
		c.useProject(settings.CurrentProject)
	}
	return c, nil
}

// GetContext builds the context for a CLI invocation from TASKSHELL_HOME,
// logging to the console and the rotating log file
func GetContext(ctx context.Context) (*Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	home, err := config.Home()
	if err != nil {
		return nil, err
	}

	splog, err := tui.NewSplogWithConfig(tui.LogFilePath(home))
	if err != nil {
		splog = tui.NewSplog()
		splog.Debug("file logging disabled: %v", err)
	}
	return NewContext(ctx, home, splog)
}

func (c *Context) useProject(p *project.Project) {
	c.Project = p
	c.Sessions = session.NewManager(store.NewFileStore(p.HistoryDir()), c.Clock)
}

// SetProject makes p the current project and remembers it in the settings
func (c *Context) SetProject(p *project.Project) error {
	settings, err := config.Update(c.Home, func(s *config.Settings) error {
		if s.CurrentProject == nil || s.CurrentProject.Path != p.Path {
			s.CurrentTask = ""
		}
		s.CurrentProject = p
		return nil
	})
	if err != nil {
		return err
	}
	c.Settings = settings
	c.useProject(p)
	return nil
}

// RequireProject returns the current project or ErrNoProject
func (c *Context) RequireProject() (*project.Project, error) {
	if c.Project == nil {
		return nil, tserrors.ErrNoProject
	}
	return c.Project, nil
}

// SetCurrentTask remembers taskID as the task history commands apply to
func (c *Context) SetCurrentTask(taskID string) error {
	settings, err := config.Update(c.Home, func(s *config.Settings) error {
		s.CurrentTask = taskID
		return nil
	})
	if err != nil {
		return err
	}
	c.Settings = settings
	return nil
}

// OpenTask loads a task and makes its history active. An empty taskID
// selects the current task.
func (c *Context) OpenTask(taskID string) (*tasks.Task, error) {
	p, err := c.RequireProject()
	if err != nil {
		return nil, err
	}
	if taskID == "" {
		taskID = c.Settings.CurrentTask
	}
	if taskID == "" {
		return nil, fmt.Errorf("%w: pass --task or run 'taskshell task open <id>'", tserrors.ErrNoActiveTask)
	}

	task, err := tasks.Load(p.TasksDir(), taskID)
	if err != nil {
		return nil, err
	}
	if _, err := c.Sessions.LoadTask(task.ID); err != nil {
		return nil, err
	}
	return task, nil
}
