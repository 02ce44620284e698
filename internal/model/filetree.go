// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// FILE TREE
// =============================================================================

// NodeKind discriminates the two FileNode variants.
type NodeKind int

const (
	// NodeFile is a leaf holding file content.
	NodeFile NodeKind = iota
	// NodeDir is an interior node holding children keyed by name.
	NodeDir
)

// FileNode is one node of a generated project tree. A node is either
// a file with content or a directory with named children, never both.
// The backend encodes trees as nested JSON objects whose leaves are
// content strings; UnmarshalJSON maps that shape onto this union.
type FileNode struct {
	kind     NodeKind
	content  string
	children map[string]*FileNode
}

// NewFile creates a file node.
func NewFile(content string) *FileNode {
	return &FileNode{kind: NodeFile, content: content}
}

// NewDir creates an empty directory node.
func NewDir() *FileNode {
	return &FileNode{kind: NodeDir, children: make(map[string]*FileNode)}
}

// Kind returns the node variant.
func (n *FileNode) Kind() NodeKind {
	return n.kind
}

// IsDir reports whether the node is a directory.
func (n *FileNode) IsDir() bool {
	return n.kind == NodeDir
}

// Content returns the file content. Empty for directories.
func (n *FileNode) Content() string {
	if n.kind != NodeFile {
		return ""
	}
	return n.content
}

// Child returns the named child of a directory, or nil.
func (n *FileNode) Child(name string) *FileNode {
	if n.kind != NodeDir {
		return nil
	}
	return n.children[name]
}

// ChildNames returns the sorted child names of a directory.
func (n *FileNode) ChildNames() []string {
	if n.kind != NodeDir {
		return nil
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// TREE BUILDING
// =============================================================================

// ErrNotDirectory is returned when a path component traverses a file.
var ErrNotDirectory = errors.New("path component is not a directory")

// AddFile inserts a file at a slash-separated path, creating
// intermediate directories. The receiver must be a directory.
func (n *FileNode) AddFile(path, content string) error {
	if n.kind != NodeDir {
		return ErrNotDirectory
	}

	parts := splitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("empty path")
	}

	cur := n
	for _, part := range parts[:len(parts)-1] {
		next := cur.children[part]
		if next == nil {
			next = NewDir()
			cur.children[part] = next
		}
		if next.kind != NodeDir {
			return fmt.Errorf("%q: %w", part, ErrNotDirectory)
		}
		cur = next
	}

	cur.children[parts[len(parts)-1]] = NewFile(content)
	return nil
}

// Lookup resolves a slash-separated path. Returns nil when absent.
func (n *FileNode) Lookup(path string) *FileNode {
	parts := splitPath(path)
	cur := n
	for _, part := range parts {
		if cur == nil || cur.kind != NodeDir {
			return nil
		}
		cur = cur.children[part]
	}
	return cur
}

// TreeFromFiles builds a tree from a flat path-to-content map, the
// shape the multi-agent backend uses for its "files" field.
func TreeFromFiles(files map[string]string) (*FileNode, error) {
	root := NewDir()
	for path, content := range files {
		if err := root.AddFile(path, content); err != nil {
			return nil, fmt.Errorf("add %q: %w", path, err)
		}
	}
	return root, nil
}

// Flatten returns the tree as a flat path-to-content map.
func (n *FileNode) Flatten() map[string]string {
	files := make(map[string]string)
	n.Walk(func(path string, node *FileNode) {
		if node.kind == NodeFile {
			files[path] = node.content
		}
	})
	return files
}

// Walk visits every node depth-first in sorted name order. The root
// itself is not visited; paths are slash-separated and relative.
func (n *FileNode) Walk(fn func(path string, node *FileNode)) {
	n.walk("", fn)
}

func (n *FileNode) walk(prefix string, fn func(string, *FileNode)) {
	if n.kind != NodeDir {
		return
	}
	for _, name := range n.ChildNames() {
		child := n.children[name]
		path := name
		if prefix != "" {
			path = prefix + "/" + name
		}
		fn(path, child)
		child.walk(path, fn)
	}
}

// CountFiles returns the number of file nodes in the tree.
func (n *FileNode) CountFiles() int {
	if n.kind == NodeFile {
		return 1
	}
	count := 0
	for _, child := range n.children {
		count += child.CountFiles()
	}
	return count
}

// splitPath splits a slash path into clean components.
func splitPath(path string) []string {
	var parts []string
	for _, part := range strings.Split(path, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	return parts
}

// =============================================================================
// JSON ENCODING
// =============================================================================

// MarshalJSON encodes a file as its content string and a directory as
// an object of its children.
func (n *FileNode) MarshalJSON() ([]byte, error) {
	if n.kind == NodeFile {
		return json.Marshal(n.content)
	}
	return json.Marshal(n.children)
}

// UnmarshalJSON decodes the backend's nested-object encoding.
// A JSON string becomes a file, a JSON object becomes a directory.
func (n *FileNode) UnmarshalJSON(data []byte) error {
	var content string
	if err := json.Unmarshal(data, &content); err == nil {
		n.kind = NodeFile
		n.content = content
		n.children = nil
		return nil
	}

	var children map[string]*FileNode
	if err := json.Unmarshal(data, &children); err != nil {
		return fmt.Errorf("file tree node must be a string or object: %w", err)
	}
	if children == nil {
		children = make(map[string]*FileNode)
	}
	n.kind = NodeDir
	n.content = ""
	n.children = children
	return nil
}
