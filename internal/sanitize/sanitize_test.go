// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sanitize

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  Holy Baptism ", "Holy Baptism"},
		{"strips tags", "<b>Bold</b> title", "Bold title"},
		{"paragraphs", `<p onclick="x()">Founded <strong>1950</strong></p>`, "Founded 1950"},
		{"ampersand", "Bread & Wine", "Bread & Wine"},
		{"less than", "Bread & Wine, 1 < 2", "Bread & Wine, 1 < 2"},
		{"entities decode", "Fish &amp; Chips", "Fish & Chips"},
		{"script dropped", `<script>alert(1)</script>Choir`, "Choir"},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;Choir", "Choir"},
		{"double encoded tag", "&amp;lt;b&amp;gt;Choir&amp;lt;/b&amp;gt;", "Choir"},
		{"keeps line breaks", "Founded in 1950.\nRebuilt in 1972.", "Founded in 1950.\nRebuilt in 1972."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestText_NoTagsSurvive(t *testing.T) {
	inputs := []string{
		"&lt;img src=x onerror=alert(1)&gt;",
		strings.Repeat("&amp;", 12) + "lt;script&gt;x",
		"<<script>script>alert(1)<</script>/script>",
	}
	for _, in := range inputs {
		got := Text(in)
		if strings.Contains(got, "<script") || strings.Contains(got, "<img") {
			t.Errorf("Text(%q) = %q still contains markup", in, got)
		}
		if again := Text(got); again != got {
			t.Errorf("Text is not stable for %q: %q then %q", in, got, again)
		}
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/uploads/a.jpg", "/uploads/a.jpg"},
		{"https://example.org/give", "https://example.org/give"},
		{"javascript:alert(1)", ""},
		{"//evil.example/x", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := URL(tt.in); got != tt.want {
			t.Errorf("URL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
