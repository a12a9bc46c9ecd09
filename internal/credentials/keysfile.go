// Package credentials reads service keys from a keys file, stores them in the
// OS keychain and substitutes them into commands.
package credentials

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"

	tserrors "taskshell.dev/taskshell/internal/errors"
)

// DefaultTemplate is written to the keys file on first run
const DefaultTemplate = `# taskshell keys file
#
# One section per service. Keys listed in a task's "Required Credentials"
# are substituted into commands as $KEY.
#
# [github]
# TOKEN=ghp_xxx
#
# [openai]
# OPENAI_API_KEY=sk-xxx
`

// Sections maps a service name to its key/value pairs
type Sections map[string]map[string]string

// ValidationResult describes a parsed keys file
type ValidationResult struct {
	IsValid  bool
	Sections Sections
	Error    string
}

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}
}

// ParseKeys parses keys file content. It is valid when it declares at least
// one service section.
func ParseKeys(data []byte) ValidationResult {
	file, err := ini.LoadSources(loadOptions(), data)
	if err != nil {
		return ValidationResult{Sections: Sections{}, Error: err.Error()}
	}

	sections := Sections{}
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		sections[section.Name()] = section.KeysHash()
	}

	if len(sections) == 0 {
		return ValidationResult{Sections: sections, Error: tserrors.ErrInvalidKeysFile.Error()}
	}
	return ValidationResult{IsValid: true, Sections: sections}
}

// ValidateKeysFile reads and parses the keys file at path
func ValidateKeysFile(path string) ValidationResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{Sections: Sections{}, Error: err.Error()}
	}
	return ParseKeys(data)
}

// WriteTemplate creates the keys file from DefaultTemplate unless it already exists
func WriteTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(DefaultTemplate), 0600); err != nil {
		return false, fmt.Errorf("failed to create keys file: %w", err)
	}
	return true, nil
}

// AddCredential sets service.key = value in the keys file, creating the file
// and section as needed
func AddCredential(path, service, key, value string) error {
	if service == "" || key == "" || value == "" {
		return fmt.Errorf("service, key and value are required")
	}

	file := ini.Empty(loadOptions())
	if _, err := os.Stat(path); err == nil {
		loaded, err := ini.LoadSources(loadOptions(), path)
		if err != nil {
			return fmt.Errorf("failed to read keys file: %w", err)
		}
		file = loaded
	}

	file.Section(service).Key(key).SetValue(value)

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save keys file: %w", err)
	}
	return os.Chmod(path, 0600)
}
