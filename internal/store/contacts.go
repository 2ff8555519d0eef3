// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"blogapi/internal/model"
)

const contactColumns = "id, name, email, phone, message, is_read, created_at"

func scanContact(row rowScanner) (model.Contact, error) {
	var c model.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.IsRead, &c.CreatedAt)
	if err != nil {
		return model.Contact{}, mapRowError(err)
	}
	return c, nil
}

// CreateContactParams holds the inputs for CreateContact.
type CreateContactParams struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// CreateContact inserts a contact message submitted through the public form.
func (q *Queries) CreateContact(ctx context.Context, p CreateContactParams) (model.Contact, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO contacts (name, email, phone, message, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
		RETURNING `+contactColumns,
		p.Name, p.Email, p.Phone, p.Message, time.Now().UTC())

	contact, err := scanContact(row)
	if err != nil {
		return model.Contact{}, fmt.Errorf("creating contact: %w", err)
	}
	return contact, nil
}

// ListContacts returns contact messages newest first.
func (q *Queries) ListContacts(ctx context.Context, limit, offset int64) ([]model.Contact, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	contacts := make([]model.Contact, 0, limit)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return contacts, nil
}

// MarkContactRead sets is_read on a contact message. Marking an already-read
// message is a no-op; a missing id returns ErrNotFound.
func (q *Queries) MarkContactRead(ctx context.Context, id int64) (model.Contact, error) {
	row := q.db.QueryRowContext(ctx,
		"UPDATE contacts SET is_read = 1 WHERE id = ? RETURNING "+contactColumns, id)

	contact, err := scanContact(row)
	if err != nil {
		return model.Contact{}, err
	}
	return contact, nil
}
