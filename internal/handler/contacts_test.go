// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"testing"

	"blogapi/internal/model"
)

func TestCreateContact(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/contacts", "", CreateContactRequest{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Phone:   "+1-555-0100",
		Message: "Love the blog.",
	})
	requireStatus(t, rec, http.StatusCreated)
}

func TestCreateContactValidation(t *testing.T) {
	_, router := newTestServer(t)

	tests := []struct {
		name string
		req  CreateContactRequest
	}{
		{"missing name", CreateContactRequest{Email: "v@example.com", Message: "hi"}},
		{"bad email", CreateContactRequest{Name: "V", Email: "nope", Message: "hi"}},
		{"missing message", CreateContactRequest{Name: "V", Email: "v@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/v1/contacts", "", tt.req)
			requireStatus(t, rec, http.StatusUnprocessableEntity)
		})
	}
}

func TestListContactsAdminOnly(t *testing.T) {
	h, router := newTestServer(t)
	_, userToken := createAccount(t, h, "Regular", "regular@example.com", false)
	_, adminToken := createAccount(t, h, "Admin", "admin@example.com", true)

	requireStatus(t, doRequest(t, router, http.MethodGet, "/api/v1/contacts", "", nil), http.StatusUnauthorized)
	requireStatus(t, doRequest(t, router, http.MethodGet, "/api/v1/contacts", userToken, nil), http.StatusForbidden)
	requireStatus(t, doRequest(t, router, http.MethodGet, "/api/v1/contacts", adminToken, nil), http.StatusOK)
}

func TestContactReviewFlow(t *testing.T) {
	h, router := newTestServer(t)
	_, adminToken := createAccount(t, h, "Admin", "admin@example.com", true)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/contacts", "", CreateContactRequest{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Message: "Question about a post.",
	})
	requireStatus(t, rec, http.StatusCreated)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/contacts", adminToken, nil)
	requireStatus(t, rec, http.StatusOK)

	var contacts []model.Contact
	decodeData(t, rec, &contacts)
	if len(contacts) != 1 {
		t.Fatalf("contacts len = %d, want 1", len(contacts))
	}
	if contacts[0].IsRead {
		t.Error("new message should start unread")
	}

	path := fmt.Sprintf("/api/v1/contacts/%d/mark-read", contacts[0].ID)
	rec = doRequest(t, router, http.MethodPut, path, adminToken, nil)
	requireStatus(t, rec, http.StatusOK)

	var marked model.Contact
	decodeData(t, rec, &marked)
	if !marked.IsRead {
		t.Error("mark-read should flip is_read")
	}
}

func TestMarkContactReadMissing(t *testing.T) {
	h, router := newTestServer(t)
	_, adminToken := createAccount(t, h, "Admin", "admin@example.com", true)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/contacts/424242/mark-read", adminToken, nil)
	requireStatus(t, rec, http.StatusNotFound)
}
