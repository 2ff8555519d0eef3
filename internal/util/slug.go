// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers, including URL slug
// generation with Unicode normalization.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonSlugChars matches anything outside [a-z0-9-].
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	// repeatedHyphens matches runs of two or more hyphens.
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string to a URL-friendly slug: accents stripped,
// lowercased, spaces replaced with hyphens, everything else removed.
func Slugify(s string) string {
	// Decompose accented characters and drop the combining marks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")
	result = nonSlugChars.ReplaceAllString(result, "")
	result = repeatedHyphens.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// IsValidSlug reports whether s is a well-formed slug: non-empty, only
// lowercase letters, digits and single hyphens, no leading or trailing hyphen.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	return !strings.Contains(s, "--")
}
