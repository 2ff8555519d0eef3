// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post represents a blog post. AuthorName is a denormalized snapshot of the
// owning user's name, resynced when the user renames their profile.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Tagline     string    `json:"tagline"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	ImgFile     string    `json:"img_file"`
	AuthorID    int64     `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CanBeEditedBy reports whether the given user may mutate the post or read it
// while unpublished: the author or any admin.
func (p *Post) CanBeEditedBy(u *User) bool {
	if u == nil {
		return false
	}
	return p.AuthorID == u.ID || u.IsAdmin
}

// PostUpdate holds the fields of a partial post update. Nil fields are left
// untouched.
type PostUpdate struct {
	Title       *string `json:"title,omitempty"`
	Tagline     *string `json:"tagline,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Content     *string `json:"content,omitempty"`
	ImgFile     *string `json:"img_file,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Tagline == nil && u.Slug == nil &&
		u.Content == nil && u.ImgFile == nil && u.IsPublished == nil
}
