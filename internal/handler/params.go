// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxPerPage bounds the page size a client may request.
const maxPerPage = 100

// ParsePageParam parses the "page" query parameter from the request.
func ParsePageParam(r *http.Request) int {
	return ParseIntParam(r, "page", 1, 1, 0)
}

// ParsePerPageParam parses the "per_page" query parameter from the request.
// Returns the default value if the parameter is missing, empty, or invalid.
func ParsePerPageParam(r *http.Request, defaultPerPage int) int {
	return ParseIntParam(r, "per_page", defaultPerPage, 1, maxPerPage)
}

// ParseIntParam parses an integer query parameter from the request.
// Returns defaultVal if the parameter is missing, empty, or invalid.
// If minVal > 0, values below minVal return defaultVal.
// If maxVal > 0, values above maxVal return defaultVal.
func ParseIntParam(r *http.Request, param string, defaultVal, minVal, maxVal int) int {
	str := r.URL.Query().Get(param)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	if minVal > 0 && val < minVal {
		return defaultVal
	}
	if maxVal > 0 && val > maxVal {
		return defaultVal
	}
	return val
}

// ParseIDParam parses the "id" URL parameter as an int64.
func ParseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// totalPages computes the page count for a result set.
func totalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}
