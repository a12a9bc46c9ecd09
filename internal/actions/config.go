package actions

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"taskshell.dev/taskshell/internal/config"
	"taskshell.dev/taskshell/internal/runtime"
	"taskshell.dev/taskshell/internal/tui/style"
)

// ConfigKeys lists the settings that can be read and written by name
var ConfigKeys = []string{"keys-path", "cost-limit", "theme"}

func configValue(s *config.Settings, key string) (string, error) {
	switch key {
	case "keys-path":
		return s.KeysPath, nil
	case "cost-limit":
		return strconv.FormatFloat(s.CostLimit, 'f', 2, 64), nil
	case "theme":
		return s.Theme, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s (valid keys: %s)", key, strings.Join(ConfigKeys, ", "))
	}
}

// ConfigListAction prints all configuration values in a formatted way
func ConfigListAction(ctx *runtime.Context) error {
	lines := make([]string, 0, len(ConfigKeys))
	for _, key := range ConfigKeys {
		value, err := configValue(ctx.Settings, key)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%s: %s", style.ColorCyan(key), value))
	}

	ctx.Splog.Page(strings.Join(lines, "\n"))
	ctx.Splog.Newline()
	return nil
}

// ConfigGetOptions contains options for the config get command
type ConfigGetOptions struct {
	Key string
}

// ConfigGetAction prints one configuration value
func ConfigGetAction(ctx *runtime.Context, opts ConfigGetOptions) error {
	value, err := configValue(ctx.Settings, opts.Key)
	if err != nil {
		return err
	}
	ctx.Splog.Info("%s", value)
	return nil
}

// ConfigSetOptions contains options for the config set command
type ConfigSetOptions struct {
	Key   string
	Value string
}

// ConfigSetAction validates and saves one configuration value
func ConfigSetAction(ctx *runtime.Context, opts ConfigSetOptions) error {
	var apply func(*config.Settings) error

	switch opts.Key {
	case "keys-path":
		path, err := filepath.Abs(opts.Value)
		if err != nil {
			return fmt.Errorf("invalid keys path: %w", err)
		}
		apply = func(s *config.Settings) error {
			s.KeysPath = path
			return nil
		}
	case "cost-limit":
		limit, err := strconv.ParseFloat(opts.Value, 64)
		if err != nil || limit <= 0 {
			return fmt.Errorf("invalid value for cost-limit: %s (must be a positive number)", opts.Value)
		}
		apply = func(s *config.Settings) error {
			s.CostLimit = limit
			return nil
		}
	case "theme":
		if opts.Value != "dark" && opts.Value != "light" {
			return fmt.Errorf("invalid value for theme: %s (must be 'dark' or 'light')", opts.Value)
		}
		apply = func(s *config.Settings) error {
			s.Theme = opts.Value
			return nil
		}
	default:
		_, err := configValue(ctx.Settings, opts.Key)
		return err
	}

	settings, err := config.Update(ctx.Home, apply)
	if err != nil {
		return err
	}
	ctx.Settings = settings

	value, _ := configValue(settings, opts.Key)
	ctx.Splog.Info("Set %s to: %s", opts.Key, value)
	return nil
}
