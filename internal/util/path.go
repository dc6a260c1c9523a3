// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a path would leave its base directory.
var ErrPathTraversal = errors.New("path escapes base directory")

// SafeJoinPath joins components onto base and fails if the cleaned result
// is not inside base.
func SafeJoinPath(base string, components ...string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	full := filepath.Join(append([]string{absBase}, components...)...)
	if full == absBase || !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, filepath.Join(components...))
	}
	return full, nil
}

// FileExt returns the lowercase extension of name including the dot, or ""
// when name has none.
func FileExt(name string) string {
	return strings.ToLower(filepath.Ext(filepath.Base(name)))
}
