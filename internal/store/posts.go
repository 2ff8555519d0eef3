// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogapi/internal/model"
)

const postColumns = "id, title, tagline, slug, content, img_file, author_id, author_name, is_published, created_at, updated_at"

func scanPost(row rowScanner) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.Title, &p.Tagline, &p.Slug, &p.Content, &p.ImgFile,
		&p.AuthorID, &p.AuthorName, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Post{}, mapRowError(err)
	}
	return p, nil
}

// CreatePostParams holds the inputs for CreatePost.
type CreatePostParams struct {
	Title       string
	Tagline     string
	Slug        string
	Content     string
	ImgFile     string
	AuthorID    int64
	AuthorName  string
	IsPublished bool
}

// CreatePost inserts a new post. The slug is pre-checked for uniqueness to
// produce a clean error in the common case; the UNIQUE constraint catches
// racing creators, and both paths surface ErrConflict.
func (q *Queries) CreatePost(ctx context.Context, p CreatePostParams) (model.Post, error) {
	taken, err := q.SlugExists(ctx, p.Slug, 0)
	if err != nil {
		return model.Post{}, fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return model.Post{}, fmt.Errorf("slug %q: %w", p.Slug, ErrConflict)
	}

	now := time.Now().UTC()
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, tagline, slug, content, img_file, author_id, author_name, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		p.Title, p.Tagline, p.Slug, p.Content, p.ImgFile,
		p.AuthorID, p.AuthorName, p.IsPublished, now, now)

	post, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Post{}, fmt.Errorf("slug %q: %w", p.Slug, ErrConflict)
		}
		return model.Post{}, fmt.Errorf("creating post: %w", err)
	}
	return post, nil
}

// ListPostsParams holds the inputs for ListPosts.
type ListPostsParams struct {
	PublishedOnly bool
	Limit         int64
	Offset        int64
}

// ListPosts returns posts ordered by creation time descending, plus the
// total count matching the filter.
func (q *Queries) ListPosts(ctx context.Context, p ListPostsParams) ([]model.Post, int64, error) {
	where := ""
	if p.PublishedOnly {
		where = " WHERE is_published = 1"
	}

	var total int64
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts"+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting posts: %w", err)
	}

	rows, err := q.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts"+where+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]model.Post, 0, p.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("listing posts: %w", err)
	}
	return posts, total, nil
}

// ListPostsByAuthorParams holds the inputs for ListPostsByAuthor.
type ListPostsByAuthorParams struct {
	AuthorID    int64
	IsPublished bool
	Limit       int64
	Offset      int64
}

// ListPostsByAuthor returns an author's posts filtered by publish state,
// newest first, plus the total count.
func (q *Queries) ListPostsByAuthor(ctx context.Context, p ListPostsByAuthorParams) ([]model.Post, int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE author_id = ? AND is_published = ?",
		p.AuthorID, p.IsPublished).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting author posts: %w", err)
	}

	rows, err := q.db.QueryContext(ctx,
		"SELECT "+postColumns+` FROM posts
		WHERE author_id = ? AND is_published = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		p.AuthorID, p.IsPublished, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing author posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]model.Post, 0, p.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("listing author posts: %w", err)
	}
	return posts, total, nil
}

// GetPostBySlug returns the published post with the given slug, or
// ErrNotFound. Unpublished posts are invisible by slug so drafts never leak
// through public URLs.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE slug = ? AND is_published = 1", slug)
	return scanPost(row)
}

// GetPostByID returns the post with the given id regardless of publish
// state; visibility decisions belong to the caller.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	return scanPost(row)
}

// UpdatePost applies a partial update. Only non-nil fields are written and
// updated_at is always refreshed. A slug change re-checks uniqueness
// excluding the post's own id.
func (q *Queries) UpdatePost(ctx context.Context, id int64, upd model.PostUpdate) (model.Post, error) {
	if upd.IsEmpty() {
		return q.GetPostByID(ctx, id)
	}

	if upd.Slug != nil {
		taken, err := q.SlugExists(ctx, *upd.Slug, id)
		if err != nil {
			return model.Post{}, fmt.Errorf("checking slug: %w", err)
		}
		if taken {
			return model.Post{}, fmt.Errorf("slug %q: %w", *upd.Slug, ErrConflict)
		}
	}

	set := make([]string, 0, 7)
	args := make([]any, 0, 8)

	if upd.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Tagline != nil {
		set = append(set, "tagline = ?")
		args = append(args, *upd.Tagline)
	}
	if upd.Slug != nil {
		set = append(set, "slug = ?")
		args = append(args, *upd.Slug)
	}
	if upd.Content != nil {
		set = append(set, "content = ?")
		args = append(args, *upd.Content)
	}
	if upd.ImgFile != nil {
		set = append(set, "img_file = ?")
		args = append(args, *upd.ImgFile)
	}
	if upd.IsPublished != nil {
		set = append(set, "is_published = ?")
		args = append(args, *upd.IsPublished)
	}
	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	row := q.db.QueryRowContext(ctx,
		"UPDATE posts SET "+strings.Join(set, ", ")+" WHERE id = ? RETURNING "+postColumns, args...)
	post, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Post{}, fmt.Errorf("updating post: %w", ErrConflict)
		}
		return model.Post{}, fmt.Errorf("updating post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post. The bool reports whether a row was actually
// deleted; deleting a missing id is not an error.
func (q *Queries) DeletePost(ctx context.Context, id int64) (bool, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting post: %w", err)
	}
	return affected > 0, nil
}

// TogglePostVisibility flips is_published and returns the updated post.
// Applying it twice restores the original state.
func (q *Queries) TogglePostVisibility(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts SET is_published = NOT is_published, updated_at = ?
		WHERE id = ? RETURNING `+postColumns,
		time.Now().UTC(), id)
	return scanPost(row)
}

// SlugExists reports whether a slug is already used by a post other than
// excludeID. Pass excludeID 0 to check against all posts.
func (q *Queries) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?", slug, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return count > 0, nil
}
