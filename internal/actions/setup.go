package actions

import (
	"fmt"
	"os"
	"path/filepath"

	"taskshell.dev/taskshell/internal/config"
	"taskshell.dev/taskshell/internal/credentials"
	"taskshell.dev/taskshell/internal/runtime"
)

// SetupOptions contains options for the setup command
type SetupOptions struct {
	KeysPath string // Optional: keys file location, defaults to the configured one
}

// SetupAction prepares the keys file and marks the first run as done
func SetupAction(ctx *runtime.Context, opts SetupOptions) error {
	keysPath := opts.KeysPath
	if keysPath == "" {
		keysPath = ctx.Settings.KeysPath
	}
	if keysPath == "" {
		keysPath = config.DefaultKeysPath(ctx.Home)
	}
	keysPath, err := filepath.Abs(keysPath)
	if err != nil {
		return fmt.Errorf("invalid keys path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(keysPath), 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(keysPath), err)
	}
	created, err := credentials.WriteTemplate(keysPath)
	if err != nil {
		return err
	}

	settings, err := config.Update(ctx.Home, func(s *config.Settings) error {
		s.FirstRun = false
		s.KeysPath = keysPath
		return nil
	})
	if err != nil {
		return err
	}
	ctx.Settings = settings

	if created {
		ctx.Splog.Success("Created keys file at %s", keysPath)
	} else {
		ctx.Splog.Info("Using existing keys file at %s", keysPath)
	}
	ctx.Splog.Tip("Add a [service] section per service to the keys file, then run 'taskshell creds import'.")
	return nil
}
