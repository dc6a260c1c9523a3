// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small helpers shared by the API handlers.
package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

const maxSlugLen = 80

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a catalog title into the slug used in public URLs.
// Non-Latin text is transliterated first; every run of other characters
// collapses into one hyphen.
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(unidecode.Unidecode(s)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}
