// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name       string
		components []string
		want       string
		wantErr    bool
	}{
		{"simple", []string{"slides", "a.jpg"}, filepath.Join(base, "slides", "a.jpg"), false},
		{"cleaned inside", []string{"slides/../page-content/b.png"}, filepath.Join(base, "page-content", "b.png"), false},
		{"parent escape", []string{"../etc/passwd"}, "", true},
		{"nested escape", []string{"slides", "..", "..", "x"}, "", true},
		{"base itself", []string{"."}, "", true},
		{"empty", nil, "", true},
		{"prefix sibling", []string{"../" + filepath.Base(base) + "-evil/x"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoinPath(base, tt.components...)
			if tt.wantErr {
				if !errors.Is(err, ErrPathTraversal) {
					t.Errorf("SafeJoinPath() error = %v, want ErrPathTraversal", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SafeJoinPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SafeJoinPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileExt(t *testing.T) {
	tests := map[string]string{
		"photo.JPG":          ".jpg",
		"dir/archive.tar.gz": ".gz",
		"README":             "",
		"../x.webp":          ".webp",
	}
	for in, want := range tests {
		if got := FileExt(in); got != want {
			t.Errorf("FileExt(%q) = %q, want %q", in, got, want)
		}
	}
}
