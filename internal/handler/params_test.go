// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http/httptest"
	"testing"
)

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing", "", 10},
		{"valid", "per_page=25", 25},
		{"not a number", "per_page=abc", 10},
		{"below minimum", "per_page=0", 10},
		{"above maximum", "per_page=500", 10},
		{"at maximum", "per_page=100", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			if got := ParseIntParam(r, "per_page", 10, 1, 100); got != tt.want {
				t.Errorf("ParseIntParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 0, 0},
	}

	for _, tt := range tests {
		if got := totalPages(tt.total, tt.perPage); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}
