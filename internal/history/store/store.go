// Package store persists serialized command histories, one document per task.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned by Read when no history has been saved for a task
var ErrNotFound = errors.New("history not found")

// fileSuffix is appended to the task ID to form the file name
const fileSuffix = ".history.json"

// Store reads and writes serialized histories by task ID
type Store interface {
	Read(taskID string) ([]byte, error)
	Write(taskID string, data []byte) error
}

// FileStore keeps each history in <Dir>/<taskID>.history.json
type FileStore struct {
	Dir string
}

// NewFileStore creates a file store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file that holds the history for taskID
func (s *FileStore) Path(taskID string) string {
	return filepath.Join(s.Dir, taskID+fileSuffix)
}

func validateTaskID(taskID string) error {
	if taskID == "" || taskID == "." || taskID == ".." || strings.ContainsAny(taskID, `/\`) {
		return fmt.Errorf("invalid task id %q", taskID)
	}
	return nil
}

// Read returns the saved history for taskID
func (s *FileStore) Read(taskID string) ([]byte, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read history for %s: %w", taskID, err)
	}
	return data, nil
}

// Write replaces the saved history for taskID. The file is written to a
// temporary name first and renamed into place.
func (s *FileStore) Write(taskID string, data []byte) error {
	if err := validateTaskID(taskID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0750); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, taskID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write history for %s: %w", taskID, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set history permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(taskID)); err != nil {
		return fmt.Errorf("failed to save history for %s: %w", taskID, err)
	}
	return nil
}

// MemStore keeps histories in memory
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Read returns a copy of the saved history for taskID
func (s *MemStore) Read(taskID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[taskID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Write stores a copy of data for taskID
func (s *MemStore) Write(taskID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[taskID] = append([]byte(nil), data...)
	return nil
}
