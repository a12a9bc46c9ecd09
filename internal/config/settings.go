package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"taskshell.dev/taskshell/internal/project"
)

const (
	// HomeEnv overrides the taskshell home directory
	HomeEnv = "TASKSHELL_HOME"
	// settingsFile is the settings file name inside the home directory
	settingsFile = "settings.json"
	// DefaultCostLimit is the spending cap applied until the user changes it
	DefaultCostLimit = 100.0
	// DefaultTheme is the initial UI theme
	DefaultTheme = "dark"
)

// Settings is the persisted user state
type Settings struct {
	FirstRun       bool               `json:"firstRun"`
	KeysPath       string             `json:"keysPath"`
	CostLimit      float64            `json:"costLimit"`
	TotalCost      float64            `json:"totalCost"`
	TaskCosts      map[string]float64 `json:"taskCosts,omitempty"`
	CurrentProject *project.Project   `json:"currentProject"`
	CurrentTask    string             `json:"currentTask,omitempty"`
	Theme          string             `json:"theme"`
}

// Home returns the taskshell home directory
func Home() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(userHome, ".taskshell"), nil
}

// DefaultKeysPath returns the keys file location used when none is configured
func DefaultKeysPath(home string) string {
	return filepath.Join(home, "keys.txt")
}

// SettingsPath returns the settings file location
func SettingsPath(home string) string {
	return filepath.Join(home, settingsFile)
}

// DefaultSettings returns the settings used before anything is saved
func DefaultSettings(home string) *Settings {
	return &Settings{
		FirstRun:  true,
		KeysPath:  DefaultKeysPath(home),
		CostLimit: DefaultCostLimit,
		TaskCosts: map[string]float64{},
		Theme:     DefaultTheme,
	}
}

// Load reads the settings file. Fields missing from the file keep their
// defaults; a missing file yields the defaults. Comments are allowed.
func Load(home string) (*Settings, error) {
	settings := DefaultSettings(home)

	data, err := os.ReadFile(SettingsPath(home))
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(jsonc.ToJSON(data), settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings.TaskCosts == nil {
		settings.TaskCosts = map[string]float64{}
	}
	return settings, nil
}

// Save writes the settings file, creating the home directory if needed
func Save(home string, settings *Settings) error {
	if err := os.MkdirAll(home, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", home, err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	return os.WriteFile(SettingsPath(home), data, 0600)
}

// Update loads the settings, applies fn and saves the result
func Update(home string, fn func(*Settings) error) (*Settings, error) {
	settings, err := Load(home)
	if err != nil {
		return nil, err
	}
	if err := fn(settings); err != nil {
		return nil, err
	}
	if err := Save(home, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
