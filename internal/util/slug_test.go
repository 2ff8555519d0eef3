// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"already a slug", "hello-world", "hello-world"},
		{"accented characters", "Café au Lait", "cafe-au-lait"},
		{"punctuation stripped", "What's new in Go 1.25?", "whats-new-in-go-125"},
		{"multiple spaces", "too   many   spaces", "too-many-spaces"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"uppercase", "UPPERCASE TITLE", "uppercase-title"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello-world", true},
		{"post-123", true},
		{"a", true},
		{"", false},
		{"Hello-World", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"under_score", false},
		{"with space", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}
