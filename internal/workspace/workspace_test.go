// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/openclaw-tui/internal/model"
)

func TestWriteFilesAndScan(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"main.py":              "import app",
		"app/__init__.py":      "",
		"app/templates/x.html": "<html></html>",
	}
	require.NoError(t, WriteFiles(dir, files))

	data, err := os.ReadFile(filepath.Join(dir, "app", "templates", "x.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	tree, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, files, tree.Flatten())
}

func TestWriteTree(t *testing.T) {
	dir := t.TempDir()

	tree, err := model.TreeFromFiles(map[string]string{"src/app.js": "console.log(1)"})
	require.NoError(t, err)
	require.NoError(t, WriteTree(dir, tree))

	data, err := os.ReadFile(filepath.Join(dir, "src", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(data))
}

func TestWriteFilesRejectsEscapes(t *testing.T) {
	dir := t.TempDir()

	err := WriteFiles(dir, map[string]string{"../evil.sh": "rm -rf"})
	assert.ErrorIs(t, err, ErrPathEscape)

	err = WriteFiles(dir, map[string]string{"/etc/passwd": "x"})
	assert.ErrorIs(t, err, ErrPathEscape)

	err = WriteFiles(dir, map[string]string{"a/../../evil": "x"})
	assert.ErrorIs(t, err, ErrPathEscape)

	// Nothing may exist outside the workspace.
	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "evil.sh"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestScanSkipsHiddenEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("v"), 0644))

	tree, err := Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"visible.txt": "v"}, tree.Flatten())
}

func TestWatcherReportsBatchedChanges(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.txt"), []byte("2"), 0644))

	seen := map[string]bool{}
	deadline := time.After(3 * time.Second)
	for len(seen) < 2 {
		select {
		case batch := <-w.Changes():
			for _, path := range batch {
				seen[path] = true
			}
		case <-deadline:
			t.Fatalf("timed out, saw %v", seen)
		}
	}
	assert.True(t, seen["one.txt"])
	assert.True(t, seen["two.txt"])
}

func TestWatcherCloseStopsChanges(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok, "channel closes after Close")
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close")
	}
}
