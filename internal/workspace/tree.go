// Copyright (c) 2024-2025 OpenClaw Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workspace materializes generated projects on disk and
// watches the output directory for changes.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/openclaw/openclaw-tui/internal/model"
	"github.com/openclaw/openclaw-tui/internal/util"
)

// ErrPathEscape rejects file paths that would leave the workspace.
var ErrPathEscape = errors.New("file path escapes the workspace")

// maxScanFileSize skips files larger than this when scanning (1 MB);
// generated source files are far smaller.
const maxScanFileSize = 1 << 20

// WriteTree materializes a project tree under dir.
func WriteTree(dir string, tree *model.FileNode) error {
	return WriteFiles(dir, tree.Flatten())
}

// WriteFiles materializes a flat path-to-content map under dir.
// Each file is written atomically; parent directories are created.
func WriteFiles(dir string, files map[string]string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	for rel, content := range files {
		target, err := securePath(absDir, rel)
		if err != nil {
			return err
		}
		if err := util.AtomicWriteFile(target, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
	}
	return nil
}

// Scan reads a directory back into a project tree. Hidden entries
// and oversized files are skipped.
func Scan(dir string) (*model.FileNode, error) {
	root := model.NewDir()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		name := d.Name()
		if path != dir && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxScanFileSize {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return root.AddFile(filepath.ToSlash(rel), string(data))
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return root, nil
}

// securePath joins rel onto base and verifies the result stays
// inside base.
func securePath(base, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || clean == "" {
		return "", fmt.Errorf("%w: empty path", ErrPathEscape)
	}
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, rel)
	}

	target := filepath.Join(base, clean)
	if !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, rel)
	}
	return target, nil
}
