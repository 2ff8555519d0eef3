// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer provides a reusable HTML sanitization policy for post content.
// It uses bluemonday's UGCPolicy which allows safe HTML tags for user-generated content.
var htmlSanitizer = bluemonday.UGCPolicy()

// renderMarkdown converts markdown source to sanitized HTML. On a render
// failure the raw source is dropped rather than served unsanitized.
func renderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		slog.Warn("markdown render failed", "error", err)
		return ""
	}
	return htmlSanitizer.Sanitize(buf.String())
}
