package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/zalando/go-keyring"

	tserrors "taskshell.dev/taskshell/internal/errors"
)

// servicePrefix namespaces keychain entries
const servicePrefix = "taskshell-"

func keychainService(service string) string {
	return servicePrefix + service
}

// Store saves the credentials of one service in the OS keychain
func Store(service string, values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode credentials for %s: %w", service, err)
	}
	if err := keyring.Set(keychainService(service), service, string(data)); err != nil {
		return fmt.Errorf("failed to store credentials for %s: %w", service, err)
	}
	return nil
}

// Get returns the credentials stored for service
func Get(service string) (map[string]string, error) {
	secret, err := keyring.Get(keychainService(service), service)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", tserrors.ErrCredentialsNotFound, service)
		}
		return nil, fmt.Errorf("failed to read credentials for %s: %w", service, err)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(secret), &values); err != nil {
		return nil, fmt.Errorf("failed to decode credentials for %s: %w", service, err)
	}
	return values, nil
}

// Delete removes the credentials stored for service
func Delete(service string) error {
	err := keyring.Delete(keychainService(service), service)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete credentials for %s: %w", service, err)
	}
	return nil
}

// Import copies every service section of the keys file into the keychain
// and returns the imported service names
func Import(keysPath string) ([]string, error) {
	result := ValidateKeysFile(keysPath)
	if !result.IsValid {
		return nil, fmt.Errorf("%w: %s", tserrors.ErrInvalidKeysFile, result.Error)
	}

	services := make([]string, 0, len(result.Sections))
	for service := range result.Sections {
		services = append(services, service)
	}
	sort.Strings(services)

	for _, service := range services {
		if err := Store(service, result.Sections[service]); err != nil {
			return nil, err
		}
	}
	return services, nil
}

// Inject replaces $KEY in command with the stored value of each listed key.
// Keys without a stored value are left as written.
func Inject(command, service string, keys []string) (string, error) {
	if service == "" || len(keys) == 0 {
		return command, nil
	}

	values, err := Get(service)
	if err != nil {
		return command, err
	}

	for _, key := range keys {
		key = strings.TrimSpace(key)
		value, ok := values[key]
		if !ok || key == "" {
			continue
		}
		// $KEY must end at a word boundary so $KEY_OTHER stays untouched
		pattern, err := regexp.Compile(`\$` + regexp.QuoteMeta(key) + `\b`)
		if err != nil {
			return command, fmt.Errorf("invalid credential key %q: %w", key, err)
		}
		command = pattern.ReplaceAllLiteralString(command, value)
	}
	return command, nil
}
