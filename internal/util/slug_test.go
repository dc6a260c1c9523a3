// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Holy Baptism", "holy-baptism"},
		{"First Holy Communion", "first-holy-communion"},
		{"Anointing of the Sick", "anointing-of-the-sick"},
		{"  Youth Ministry  ", "youth-ministry"},
		{"Choir & Music Ministry", "choir-music-ministry"},
		{"St. Joseph's Food Pantry", "st-joseph-s-food-pantry"},
		{"Café Fellowship", "cafe-fellowship"},
		{"Bible_Study__Group", "bible-study-group"},
		{"RCIA 2026", "rcia-2026"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify_Length(t *testing.T) {
	got := Slugify(strings.Repeat("rosary ", 30))
	if len(got) > maxSlugLen {
		t.Fatalf("len = %d, want at most %d", len(got), maxSlugLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug %q ends with a hyphen", got)
	}
}
