// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sanitize cleans admin-entered text before it is stored.
//
// Every stored field is plain text: markup is removed and entities are
// decoded, so "Bread & Wine" is stored as typed. Anything that renders these
// values into HTML must escape them.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds the decode and strip loop for nested entity encodings.
const maxPasses = 8

var strictPolicy = bluemonday.StrictPolicy()

// Text strips every tag and trims surrounding whitespace. Line breaks
// inside the text are kept. Encoded markup such as "&lt;script&gt;" is
// decoded and stripped again until nothing changes, so the result never
// contains a tag.
func Text(s string) string {
	cur := s
	for range maxPasses {
		next := html.UnescapeString(strictPolicy.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(cur)
		}
		cur = next
	}
	// Still unwinding encodings; drop angle brackets outright.
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(cur))
}

// URL accepts site-relative paths and http(s) links and returns "" for
// anything else, such as javascript: links.
func URL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//"):
		return s
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return s
	default:
		return ""
	}
}
