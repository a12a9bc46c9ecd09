package actions

import (
	"fmt"
	"sort"
	"strings"

	"taskshell.dev/taskshell/internal/config"
	"taskshell.dev/taskshell/internal/credentials"
	tserrors "taskshell.dev/taskshell/internal/errors"
	"taskshell.dev/taskshell/internal/runtime"
)

func keysPath(ctx *runtime.Context) string {
	if ctx.Settings.KeysPath != "" {
		return ctx.Settings.KeysPath
	}
	return config.DefaultKeysPath(ctx.Home)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mask hides all but the first two characters of a secret
func mask(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", len(value)-2)
}

// CredsValidateAction checks the keys file and lists its services
func CredsValidateAction(ctx *runtime.Context) error {
	path := keysPath(ctx)
	result := credentials.ValidateKeysFile(path)
	if !result.IsValid {
		return fmt.Errorf("%w: %s", tserrors.ErrInvalidKeysFile, result.Error)
	}

	services := make([]string, 0, len(result.Sections))
	for service := range result.Sections {
		services = append(services, service)
	}
	sort.Strings(services)

	ctx.Splog.Success("%s is valid", path)
	for _, service := range services {
		ctx.Splog.Info("  [%s] %s", service, strings.Join(sortedKeys(result.Sections[service]), ", "))
	}
	return nil
}

// CredsImportAction copies the keys file into the OS keychain
func CredsImportAction(ctx *runtime.Context) error {
	services, err := credentials.Import(keysPath(ctx))
	if err != nil {
		return err
	}
	ctx.Splog.Success("Imported %d service(s): %s", len(services), strings.Join(services, ", "))
	return nil
}

// CredsGetOptions contains options for the creds get command
type CredsGetOptions struct {
	Service    string
	ShowValues bool
}

// CredsGetAction prints the keys stored for a service
func CredsGetAction(ctx *runtime.Context, opts CredsGetOptions) error {
	values, err := credentials.Get(opts.Service)
	if err != nil {
		return err
	}

	ctx.Splog.Info("[%s]", opts.Service)
	for _, key := range sortedKeys(values) {
		value := mask(values[key])
		if opts.ShowValues {
			value = values[key]
		}
		ctx.Splog.Info("  %s=%s", key, value)
	}
	return nil
}

// CredsAddOptions contains options for the creds add command
type CredsAddOptions struct {
	Service string
	Key     string
	Value   string
	Import  bool // Also refresh the keychain from the updated file
}

// CredsAddAction writes one key to the keys file
func CredsAddAction(ctx *runtime.Context, opts CredsAddOptions) error {
	path := keysPath(ctx)
	if err := credentials.AddCredential(path, opts.Service, opts.Key, opts.Value); err != nil {
		return err
	}
	ctx.Splog.Success("Added %s to [%s] in %s", opts.Key, opts.Service, path)

	if !opts.Import {
		ctx.Splog.Tip("Run 'taskshell creds import' to make it available to commands.")
		return nil
	}
	return CredsImportAction(ctx)
}
