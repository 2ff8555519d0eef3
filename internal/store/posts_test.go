// Copyright (c) 2026 Arjun Mehta
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"blogapi/internal/model"
)

// createTestPost inserts a post owned by the given author.
func createTestPost(t *testing.T, q *Queries, author model.User, slug string, published bool) model.Post {
	t.Helper()
	post, err := q.CreatePost(context.Background(), CreatePostParams{
		Title:       "Title " + slug,
		Tagline:     "tagline",
		Slug:        slug,
		Content:     "content of " + slug,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		IsPublished: published,
	})
	if err != nil {
		t.Fatalf("CreatePost(%s): %v", slug, err)
	}
	return post
}

func TestCreatePost(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	post := createTestPost(t, q, author, "first-post", true)

	if post.ID == 0 {
		t.Error("ID should be assigned")
	}
	if post.AuthorID != author.ID {
		t.Errorf("AuthorID = %d, want %d", post.AuthorID, author.ID)
	}
	if post.AuthorName != "Author" {
		t.Errorf("AuthorName = %q, want %q", post.AuthorName, "Author")
	}
	if !post.IsPublished {
		t.Error("post should be published")
	}
}

func TestCreatePostDuplicateSlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	createTestPost(t, q, author, "same-slug", true)

	_, err := q.CreatePost(context.Background(), CreatePostParams{
		Title:      "Another",
		Slug:       "same-slug",
		Content:    "x",
		AuthorID:   author.ID,
		AuthorName: author.Name,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate slug: got %v, want ErrConflict", err)
	}
}

func TestCreatePostConcurrentSameSlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	// Two concurrent creators race on one slug: exactly one must win and
	// the loser must see ErrConflict (from the constraint, not the
	// pre-check).
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := q.CreatePost(context.Background(), CreatePostParams{
				Title:      fmt.Sprintf("Racer %d", i),
				Slug:       "contested-slug",
				Content:    "x",
				AuthorID:   author.ID,
				AuthorName: author.Name,
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Errorf("got %d successes and %d conflicts, want 1 and 1", successes, conflicts)
	}
}

func TestListPostsPagination(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	for i := 1; i <= 25; i++ {
		createTestPost(t, q, author, fmt.Sprintf("post-%02d", i), true)
	}

	posts, total, err := q.ListPosts(ctx, ListPostsParams{PublishedOnly: true, Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(posts) != 10 {
		t.Fatalf("len(posts) = %d, want 10", len(posts))
	}

	// Newest first: the last created post leads the first page.
	if posts[0].Slug != "post-25" {
		t.Errorf("first item = %q, want %q", posts[0].Slug, "post-25")
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Errorf("posts[%d] is newer than posts[%d]", i, i-1)
		}
	}

	// Last page holds the remainder.
	posts, total, err = q.ListPosts(ctx, ListPostsParams{PublishedOnly: true, Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("ListPosts (page 3): %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(posts) != 5 {
		t.Errorf("len(posts) = %d, want 5", len(posts))
	}
}

func TestListPostsPublishedFilter(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	createTestPost(t, q, author, "published", true)
	createTestPost(t, q, author, "draft", false)

	posts, total, err := q.ListPosts(ctx, ListPostsParams{PublishedOnly: true, Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 1 || len(posts) != 1 {
		t.Fatalf("published only: total=%d len=%d, want 1 and 1", total, len(posts))
	}
	if posts[0].Slug != "published" {
		t.Errorf("slug = %q, want %q", posts[0].Slug, "published")
	}

	_, total, err = q.ListPosts(ctx, ListPostsParams{PublishedOnly: false, Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("ListPosts (all): %v", err)
	}
	if total != 2 {
		t.Errorf("all posts: total = %d, want 2", total)
	}
}

func TestListPostsByAuthor(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	alice := createTestUser(t, q, "Alice", "alice@example.com")
	bob := createTestUser(t, q, "Bob", "bob@example.com")

	createTestPost(t, q, alice, "alice-1", true)
	createTestPost(t, q, alice, "alice-draft", false)
	createTestPost(t, q, bob, "bob-1", true)

	posts, total, err := q.ListPostsByAuthor(ctx, ListPostsByAuthorParams{
		AuthorID: alice.ID, IsPublished: true, Limit: 10, Offset: 0,
	})
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Slug != "alice-1" {
		t.Errorf("published by alice: total=%d posts=%v", total, posts)
	}

	posts, total, err = q.ListPostsByAuthor(ctx, ListPostsByAuthorParams{
		AuthorID: alice.ID, IsPublished: false, Limit: 10, Offset: 0,
	})
	if err != nil {
		t.Fatalf("ListPostsByAuthor (drafts): %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Slug != "alice-draft" {
		t.Errorf("drafts by alice: total=%d posts=%v", total, posts)
	}
}

func TestGetPostBySlugPublishedOnly(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	createTestPost(t, q, author, "visible", true)
	draft := createTestPost(t, q, author, "hidden", false)

	post, err := q.GetPostBySlug(ctx, "visible")
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if post.Slug != "visible" {
		t.Errorf("slug = %q, want %q", post.Slug, "visible")
	}

	// Drafts are invisible by slug, but reachable by id.
	if _, err := q.GetPostBySlug(ctx, "hidden"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft by slug: got %v, want ErrNotFound", err)
	}
	if _, err := q.GetPostByID(ctx, draft.ID); err != nil {
		t.Fatalf("draft by id: %v", err)
	}
}

func TestUpdatePostPartial(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	post := createTestPost(t, q, author, "original", true)

	published := false
	updated, err := q.UpdatePost(ctx, post.ID, model.PostUpdate{IsPublished: &published})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.IsPublished {
		t.Error("IsPublished should be false")
	}
	if updated.Title != post.Title || updated.Content != post.Content {
		t.Error("unrelated fields changed by partial update")
	}
	if !updated.UpdatedAt.After(post.UpdatedAt) && !updated.UpdatedAt.Equal(post.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}
}

func TestUpdatePostSlugUniqueness(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	createTestPost(t, q, author, "taken", true)
	post := createTestPost(t, q, author, "mine", true)

	// Taking another post's slug fails.
	taken := "taken"
	if _, err := q.UpdatePost(ctx, post.ID, model.PostUpdate{Slug: &taken}); !errors.Is(err, ErrConflict) {
		t.Fatalf("slug conflict: got %v, want ErrConflict", err)
	}

	// Re-submitting the post's own slug is fine: the check excludes itself.
	mine := "mine"
	if _, err := q.UpdatePost(ctx, post.ID, model.PostUpdate{Slug: &mine}); err != nil {
		t.Fatalf("own slug: %v", err)
	}

	// A fresh slug works.
	fresh := "fresh-slug"
	updated, err := q.UpdatePost(ctx, post.ID, model.PostUpdate{Slug: &fresh})
	if err != nil {
		t.Fatalf("fresh slug: %v", err)
	}
	if updated.Slug != "fresh-slug" {
		t.Errorf("slug = %q, want %q", updated.Slug, "fresh-slug")
	}
}

func TestDeletePostIdempotentSignal(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	post := createTestPost(t, q, author, "doomed", true)

	deleted, err := q.DeletePost(ctx, post.ID)
	if err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if !deleted {
		t.Error("first delete should report a removed row")
	}

	// Second delete is safe and reports nothing removed.
	deleted, err = q.DeletePost(ctx, post.ID)
	if err != nil {
		t.Fatalf("DeletePost (second): %v", err)
	}
	if deleted {
		t.Error("second delete should report no removed row")
	}
}

func TestTogglePostVisibility(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	post := createTestPost(t, q, author, "toggled", true)

	once, err := q.TogglePostVisibility(ctx, post.ID)
	if err != nil {
		t.Fatalf("TogglePostVisibility: %v", err)
	}
	if once.IsPublished {
		t.Error("first toggle should unpublish")
	}

	twice, err := q.TogglePostVisibility(ctx, post.ID)
	if err != nil {
		t.Fatalf("TogglePostVisibility (second): %v", err)
	}
	if !twice.IsPublished {
		t.Error("second toggle should restore the original state")
	}

	if _, err := q.TogglePostVisibility(ctx, 99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing post: got %v, want ErrNotFound", err)
	}
}

func TestSlugExists(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	author := createTestUser(t, q, "Author", "author@example.com")

	post := createTestPost(t, q, author, "existing", true)

	exists, err := q.SlugExists(ctx, "existing", 0)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !exists {
		t.Error("existing slug should be reported taken")
	}

	exists, err = q.SlugExists(ctx, "existing", post.ID)
	if err != nil {
		t.Fatalf("SlugExists (excluded): %v", err)
	}
	if exists {
		t.Error("slug should not conflict with the excluded post itself")
	}

	exists, err = q.SlugExists(ctx, "brand-new", 0)
	if err != nil {
		t.Fatalf("SlugExists (new): %v", err)
	}
	if exists {
		t.Error("unused slug reported taken")
	}
}
