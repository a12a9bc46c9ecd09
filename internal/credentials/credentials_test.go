package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	tserrors "taskshell.dev/taskshell/internal/errors"
)

const sampleKeys = `# comment line
[github]
TOKEN = ghp_abc
USER=octo

; another comment
[aws]
AWS_SECRET_ACCESS_KEY=s3cr3t # not a comment
`

func writeKeys(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseKeys(t *testing.T) {
	t.Run("sections and values", func(t *testing.T) {
		result := ParseKeys([]byte(sampleKeys))
		require.True(t, result.IsValid)
		require.Empty(t, result.Error)
		require.Equal(t, Sections{
			"github": {"TOKEN": "ghp_abc", "USER": "octo"},
			"aws":    {"AWS_SECRET_ACCESS_KEY": "s3cr3t # not a comment"},
		}, result.Sections)
	})

	t.Run("no sections is invalid", func(t *testing.T) {
		result := ParseKeys([]byte("TOKEN=abc\n# nothing else\n"))
		require.False(t, result.IsValid)
		require.Equal(t, tserrors.ErrInvalidKeysFile.Error(), result.Error)
	})

	t.Run("template alone is invalid", func(t *testing.T) {
		require.False(t, ParseKeys([]byte(DefaultTemplate)).IsValid)
	})

	t.Run("missing file", func(t *testing.T) {
		result := ValidateKeysFile(filepath.Join(t.TempDir(), "missing.txt"))
		require.False(t, result.IsValid)
		require.NotEmpty(t, result.Error)
	})
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")

	created, err := WriteTemplate(path)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, os.WriteFile(path, []byte("[mine]\nA=1\n"), 0600))
	created, err = WriteTemplate(path)
	require.NoError(t, err)
	require.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[mine]\nA=1\n", string(data))
}

func TestAddCredential(t *testing.T) {
	t.Run("creates file and section", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keys.txt")
		require.NoError(t, AddCredential(path, "github", "TOKEN", "abc"))

		result := ValidateKeysFile(path)
		require.True(t, result.IsValid)
		require.Equal(t, "abc", result.Sections["github"]["TOKEN"])
	})

	t.Run("updates existing values and keeps other sections", func(t *testing.T) {
		path := writeKeys(t, sampleKeys)
		require.NoError(t, AddCredential(path, "github", "TOKEN", "new"))
		require.NoError(t, AddCredential(path, "github", "ORG", "acme"))

		result := ValidateKeysFile(path)
		require.Equal(t, map[string]string{"TOKEN": "new", "USER": "octo", "ORG": "acme"}, result.Sections["github"])
		require.Contains(t, result.Sections, "aws")
	})

	t.Run("rejects empty fields", func(t *testing.T) {
		require.Error(t, AddCredential(filepath.Join(t.TempDir(), "k"), "github", "", "x"))
	})
}

func TestKeychain(t *testing.T) {
	keyring.MockInit()

	t.Run("import stores each section", func(t *testing.T) {
		services, err := Import(writeKeys(t, sampleKeys))
		require.NoError(t, err)
		require.Equal(t, []string{"aws", "github"}, services)

		values, err := Get("github")
		require.NoError(t, err)
		require.Equal(t, map[string]string{"TOKEN": "ghp_abc", "USER": "octo"}, values)
	})

	t.Run("import rejects invalid files", func(t *testing.T) {
		_, err := Import(writeKeys(t, "nothing here"))
		require.ErrorIs(t, err, tserrors.ErrInvalidKeysFile)
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := Get("nope")
		require.ErrorIs(t, err, tserrors.ErrCredentialsNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, Store("temp", map[string]string{"A": "1"}))
		require.NoError(t, Delete("temp"))
		require.NoError(t, Delete("temp"))
		_, err := Get("temp")
		require.ErrorIs(t, err, tserrors.ErrCredentialsNotFound)
	})
}

func TestInject(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, Store("github", map[string]string{"TOKEN": "abc", "TOKEN_ID": "42"}))

	tests := []struct {
		name    string
		command string
		service string
		keys    []string
		want    string
	}{
		{"replaces listed keys", "curl -H 'Auth: $TOKEN' /x/$TOKEN_ID", "github", []string{"TOKEN", "TOKEN_ID"}, "curl -H 'Auth: abc' /x/42"},
		{"leaves unlisted keys", "echo $TOKEN $OTHER", "github", []string{"TOKEN", "OTHER"}, "echo abc $OTHER"},
		{"leaves longer names sharing a prefix", "echo $TOKEN_SUFFIX $TOKEN", "github", []string{"TOKEN"}, "echo $TOKEN_SUFFIX abc"},
		{"replaces at the end of a word", "curl -u x:$TOKEN/path", "github", []string{"TOKEN"}, "curl -u x:abc/path"},
		{"no service", "echo $TOKEN", "", []string{"TOKEN"}, "echo $TOKEN"},
		{"no keys", "echo $TOKEN", "github", nil, "echo $TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inject(tt.command, tt.service, tt.keys)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown service returns the command and an error", func(t *testing.T) {
		got, err := Inject("echo $TOKEN", "missing", []string{"TOKEN"})
		require.ErrorIs(t, err, tserrors.ErrCredentialsNotFound)
		require.Equal(t, "echo $TOKEN", got)
	})
}
