package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	tserrors "taskshell.dev/taskshell/internal/errors"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fix Login Bug", "fix_login_bug"},
		{"  --Add OAuth2 (GitHub)!! ", "add_oauth2_github"},
		{"déjà vu", "d_j_vu"},
		{"", ""},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestNewID(t *testing.T) {
	require.Equal(t, "task_2026-03-14T09-26-53_fix_login_bug", NewID("Fix login bug", fixedNow))
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("writes task.json and task.md", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "tasks")

		task, err := Create(dir, Params{
			Description:  "Fix login bug",
			Rules:        []string{"Do not touch the schema"},
			SystemPrompt: "You are careful.",
			Service:      "github",
			Keys:         []string{"TOKEN"},
		}, fixedNow)
		require.NoError(t, err)
		require.Equal(t, StatusActive, task.Status)

		loaded, err := Load(dir, task.ID)
		require.NoError(t, err)
		require.Equal(t, task.Title, loaded.Title)
		require.Equal(t, task.Rules, loaded.Rules)
		require.True(t, task.Created.Equal(loaded.Created))

		md, err := os.ReadFile(MarkdownPath(dir, task.ID))
		require.NoError(t, err)
		require.Contains(t, string(md), "# Task: Fix login bug")
		require.Contains(t, string(md), "- [ ] Do not touch the schema")
		require.Contains(t, string(md), "You are careful.")
	})

	t.Run("requires a description", func(t *testing.T) {
		t.Parallel()
		_, err := Create(t.TempDir(), Params{Description: "   "}, fixedNow)
		require.Error(t, err)
	})

	t.Run("refuses duplicate ids", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, err := Create(dir, Params{Description: "same"}, fixedNow)
		require.NoError(t, err)
		_, err = Create(dir, Params{Description: "same"}, fixedNow)
		require.Error(t, err)
	})
}

func TestListAndArchive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	first, err := Create(dir, Params{Description: "first"}, fixedNow)
	require.NoError(t, err)
	second, err := Create(dir, Params{Description: "second"}, fixedNow.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "junk"), 0750))

	var skipped []string
	list, err := List(dir, func(name string, _ error) { skipped = append(skipped, name) })
	require.NoError(t, err)
	require.Len(t, list.Active, 2)
	require.Empty(t, list.Archived)
	require.Equal(t, first.ID, list.Active[0].ID)
	require.Equal(t, []string{"junk"}, skipped)

	archived, err := Archive(dir, second.ID)
	require.NoError(t, err)
	require.Equal(t, StatusArchived, archived.Status)

	list, err = List(dir, nil)
	require.NoError(t, err)
	require.Len(t, list.Active, 1)
	require.Len(t, list.Archived, 1)
	require.Equal(t, second.ID, list.Archived[0].ID)

	_, err = Archive(dir, "task_missing")
	require.ErrorIs(t, err, tserrors.ErrTaskNotFound)
}

func TestListMissingDir(t *testing.T) {
	list, err := List(filepath.Join(t.TempDir(), "none"), nil)
	require.NoError(t, err)
	require.Empty(t, list.Active)
	require.Empty(t, list.Archived)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task.md")
	require.NoError(t, os.WriteFile(path, []byte("# Task"), 0600))

	editor := filepath.Join(dir, "fake-editor")
	require.NoError(t, os.WriteFile(editor, []byte("#!/bin/sh\n"), 0700))
	t.Setenv("VISUAL", editor+" --wait")

	var gotName string
	var gotArgs []string
	orig := startDetached
	startDetached = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	t.Cleanup(func() { startDetached = orig })

	require.NoError(t, Open(path))
	require.Equal(t, editor, gotName)
	require.Equal(t, []string{"--wait", path}, gotArgs)

	require.Error(t, Open(filepath.Join(dir, "missing.md")))
}

func TestSyncCredentials(t *testing.T) {
	dir := t.TempDir()
	task, err := Create(dir, Params{Description: "deploy", Service: "github", Keys: []string{"TOKEN"}}, fixedNow)
	require.NoError(t, err)

	_, changed, err := SyncCredentials(dir, task.ID)
	require.NoError(t, err)
	require.False(t, changed)

	path := MarkdownPath(dir, task.ID)
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := strings.Replace(string(src), "- Keys: TOKEN", "- Keys: TOKEN, ORG", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0600))

	synced, changed, err := SyncCredentials(dir, task.ID)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, []string{"TOKEN", "ORG"}, synced.Keys)

	reloaded, err := Load(dir, task.ID)
	require.NoError(t, err)
	require.Equal(t, "github", reloaded.Service)
	require.Equal(t, []string{"TOKEN", "ORG"}, reloaded.Keys)
}
