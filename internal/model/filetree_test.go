// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNodeVariants(t *testing.T) {
	file := NewFile("print(1)")
	assert.Equal(t, NodeFile, file.Kind())
	assert.False(t, file.IsDir())
	assert.Equal(t, "print(1)", file.Content())
	assert.Nil(t, file.Child("anything"))

	dir := NewDir()
	assert.Equal(t, NodeDir, dir.Kind())
	assert.True(t, dir.IsDir())
	assert.Empty(t, dir.Content())
}

func TestAddFileAndLookup(t *testing.T) {
	root := NewDir()
	require.NoError(t, root.AddFile("app/main.py", "entry"))
	require.NoError(t, root.AddFile("app/routes/chat.py", "routes"))
	require.NoError(t, root.AddFile("README.md", "docs"))

	node := root.Lookup("app/routes/chat.py")
	require.NotNil(t, node)
	assert.Equal(t, "routes", node.Content())

	dir := root.Lookup("app/routes")
	require.NotNil(t, dir)
	assert.True(t, dir.IsDir())

	assert.Nil(t, root.Lookup("app/missing.py"))
	assert.Nil(t, root.Lookup("README.md/below"), "files have no children")

	// A path through a file is rejected.
	err := root.AddFile("README.md/x.txt", "nope")
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestTreeFromFilesRoundTrip(t *testing.T) {
	files := map[string]string{
		"main.py":          "import app",
		"app/__init__.py":  "",
		"app/views.py":     "views",
		"static/style.css": "body {}",
	}

	root, err := TreeFromFiles(files)
	require.NoError(t, err)
	assert.Equal(t, 4, root.CountFiles())
	assert.Equal(t, files, root.Flatten())
}

func TestWalkOrderIsDeterministic(t *testing.T) {
	root, err := TreeFromFiles(map[string]string{
		"b.txt":     "b",
		"a/one.txt": "1",
		"a/two.txt": "2",
		"c.txt":     "c",
	})
	require.NoError(t, err)

	var paths []string
	root.Walk(func(path string, node *FileNode) {
		paths = append(paths, path)
	})
	assert.Equal(t, []string{"a", "a/one.txt", "a/two.txt", "b.txt", "c.txt"}, paths)
}

func TestFileNodeJSON(t *testing.T) {
	// The backend sends nested objects with string leaves.
	raw := `{
		"app": {
			"main.py": "from flask import Flask",
			"templates": {"index.html": "<html></html>"}
		},
		"requirements.txt": "flask"
	}`

	var root FileNode
	require.NoError(t, json.Unmarshal([]byte(raw), &root))
	assert.True(t, root.IsDir())
	assert.Equal(t, 3, root.CountFiles())
	assert.Equal(t, "flask", root.Lookup("requirements.txt").Content())
	assert.Equal(t, "<html></html>", root.Lookup("app/templates/index.html").Content())

	// Round trip preserves the structure.
	encoded, err := json.Marshal(&root)
	require.NoError(t, err)

	var again FileNode
	require.NoError(t, json.Unmarshal(encoded, &again))
	assert.Equal(t, root.Flatten(), again.Flatten())
}

func TestFileNodeJSONRejectsOtherShapes(t *testing.T) {
	var node FileNode
	err := json.Unmarshal([]byte(`42`), &node)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`["a","b"]`), &node)
	assert.Error(t, err)
}

func TestEmptyDirJSON(t *testing.T) {
	var node FileNode
	require.NoError(t, json.Unmarshal([]byte(`{}`), &node))
	assert.True(t, node.IsDir())
	assert.Zero(t, node.CountFiles())
	assert.Empty(t, node.ChildNames())
}
