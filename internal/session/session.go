// Package session keeps one command history per task and saves it after
// every change.
package session

import (
	"errors"
	"fmt"

	tserrors "taskshell.dev/taskshell/internal/errors"
	"taskshell.dev/taskshell/internal/history"
	"taskshell.dev/taskshell/internal/history/store"
)

// Manager owns the loaded histories and tracks which task is active. The
// cursor and checkpoints of each task are restored when it is loaded.
// Saved histories carry them in the root node's metadata under the
// "cursor" and "checkpoints" keys.
type Manager struct {
	store     store.Store
	clock     history.Clock
	histories map[string]*history.History
	active    string
}

// NewManager creates a manager backed by st
func NewManager(st store.Store, clock history.Clock) *Manager {
	if clock == nil {
		clock = history.SystemClock
	}
	return &Manager{
		store:     st,
		clock:     clock,
		histories: make(map[string]*history.History),
	}
}

// LoadTask makes taskID the active task, reading its history on first use.
// A task without a saved history starts empty.
func (m *Manager) LoadTask(taskID string) (*history.History, error) {
	if h, ok := m.histories[taskID]; ok {
		m.active = taskID
		return h, nil
	}

	h := history.New(history.WithClock(m.clock))
	data, err := m.store.Read(taskID)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		if err := h.Load(data); err != nil {
			return nil, fmt.Errorf("task %s: %w", taskID, err)
		}
		restoreState(h)
	}

	m.histories[taskID] = h
	m.active = taskID
	return h, nil
}

// SaveTask writes the history of taskID, if it is loaded
func (m *Manager) SaveTask(taskID string) error {
	h, ok := m.histories[taskID]
	if !ok {
		return nil
	}
	storeState(h)
	data, err := h.Save()
	if err != nil {
		return err
	}
	return m.store.Write(taskID, data)
}

// Active returns the active history and its task ID
func (m *Manager) Active() (*history.History, string) {
	if m.active == "" {
		return nil, ""
	}
	return m.histories[m.active], m.active
}

func (m *Manager) activeHistory() (*history.History, error) {
	h, _ := m.Active()
	if h == nil {
		return nil, tserrors.ErrNoActiveTask
	}
	return h, nil
}

func (m *Manager) save() error {
	return m.SaveTask(m.active)
}

// AddCommand records command under the cursor of the active task
func (m *Manager) AddCommand(command string, metadata map[string]any) (*history.Node, error) {
	h, err := m.activeHistory()
	if err != nil {
		return nil, err
	}
	node := h.Execute(command, metadata)
	return node, m.save()
}

// RecordResult sets the outcome of the command at the cursor
func (m *Manager) RecordResult(result history.Result) (*history.Node, error) {
	h, err := m.activeHistory()
	if err != nil {
		return nil, err
	}
	node := h.Current()
	if node == h.Root() {
		return nil, fmt.Errorf("no command to record a result for")
	}
	if err := node.SetResult(result); err != nil {
		return nil, err
	}
	return node, m.save()
}

// RevertSteps reverts the active history by up to steps ancestors
func (m *Manager) RevertSteps(steps int) (*history.Node, error) {
	h, err := m.activeHistory()
	if err != nil {
		return nil, err
	}
	node := h.Revert(steps)
	return node, m.save()
}

// RevertTo reverts to the node with the given ID, which must be the cursor or
// one of its ancestors
func (m *Manager) RevertTo(id int) (*history.Node, error) {
	h, err := m.activeHistory()
	if err != nil {
		return nil, err
	}
	steps, ok := h.StepsTo(id)
	if !ok {
		return nil, fmt.Errorf("entry %d is not an ancestor of the current command", id)
	}
	node := h.Revert(steps)
	return node, m.save()
}

// CreateCheckpoint bookmarks the cursor under name. Non-empty notes are
// stored on the node's metadata.
func (m *Manager) CreateCheckpoint(name, notes string) error {
	h, err := m.activeHistory()
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("checkpoint name is required")
	}
	h.Branch(name)
	if notes != "" {
		h.Current().Metadata["notes"] = notes
	}
	return m.save()
}

// CreateCheckpointAt bookmarks the node with the given ID. An ancestor of the
// cursor is reverted to first; the cursor itself is bookmarked in place.
func (m *Manager) CreateCheckpointAt(id int, name, notes string) error {
	h, err := m.activeHistory()
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("checkpoint name is required")
	}
	steps, ok := h.StepsTo(id)
	if !ok {
		return fmt.Errorf("entry %d is not an ancestor of the current command", id)
	}
	if steps > 0 {
		h.Revert(steps)
	}
	return m.CreateCheckpoint(name, notes)
}

// SwitchCheckpoint moves the cursor to a checkpoint. It reports false when
// the name is unknown.
func (m *Manager) SwitchCheckpoint(name string) (bool, error) {
	h, err := m.activeHistory()
	if err != nil {
		return false, err
	}
	if !h.SwitchToBranch(name) {
		return false, nil
	}
	return true, m.save()
}

// Checkpoints lists the checkpoint names of the active task
func (m *Manager) Checkpoints() []string {
	h, _ := m.Active()
	if h == nil {
		return []string{}
	}
	return h.Checkpoints()
}

// Entries returns the flattened history of the active task
func (m *Manager) Entries() ([]history.Entry, error) {
	h, err := m.activeHistory()
	if err != nil {
		return nil, err
	}
	return h.Entries(), nil
}
