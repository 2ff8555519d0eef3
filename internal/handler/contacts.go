// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"blogapi/internal/store"
)

// CreateContactRequest represents the public contact form submission.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// defaultContactLimit bounds an admin contact listing when no limit is given.
const defaultContactLimit = 50

// CreateContact handles POST /api/v1/contacts
//
// Public endpoint; submissions are stored for admin review.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)

	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !validEmail(req.Email) {
		fieldErrors["email"] = "A valid email is required"
	}
	if req.Message == "" {
		fieldErrors["message"] = "Message is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	contact, err := h.queries.CreateContact(r.Context(), store.CreateContactParams{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		slog.Error("contact create failed", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}

	slog.Info("contact message received", "contact_id", contact.ID)
	WriteCreated(w, MessageResponse{Message: "Message received"})
}

// ListContacts handles GET /api/v1/contacts (admin only).
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	skip := ParseIntParam(r, "skip", 0, 0, 0)
	if skip < 0 {
		skip = 0
	}
	limit := ParseIntParam(r, "limit", defaultContactLimit, 1, maxPerPage)

	contacts, err := h.queries.ListContacts(r.Context(), int64(limit), int64(skip))
	if err != nil {
		slog.Error("contact listing failed", "error", err)
		WriteInternalError(w, "Internal server error")
		return
	}

	WriteSuccess(w, contacts, nil)
}

// MarkContactRead handles PUT /api/v1/contacts/{id}/mark-read (admin only).
func (h *Handler) MarkContactRead(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid contact ID", nil)
		return
	}

	contact, err := h.queries.MarkContactRead(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Contact not found", "")
		return
	}

	WriteSuccess(w, contact, nil)
}
