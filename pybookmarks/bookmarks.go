// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package pybookmarks

import (
	"context"
	"strings"
)

// AllBookmarks returns every bookmark.
func (a *API) AllBookmarks(ctx context.Context) ([]Bookmark, error) {
	return a.store.AllBookmarks(ctx)
}

// FindBookmark returns the bookmark with the given id.
func (a *API) FindBookmark(ctx context.Context, id int) (Bookmark, error) {
	b, err := a.store.GetBookmark(ctx, id)
	if err != nil {
		return Bookmark{}, err
	}
	return *b, nil
}

// FindBookmarkByURL returns the bookmark stored for url.
func (a *API) FindBookmarkByURL(ctx context.Context, url string) (Bookmark, error) {
	b, err := a.store.GetBookmarkByURL(ctx, url)
	if err != nil {
		return Bookmark{}, err
	}
	return *b, nil
}

// CreateBookmark stores a new bookmark and returns it.
func (a *API) CreateBookmark(ctx context.Context, nb NewBookmark) (Bookmark, error) {
	u, err := ValidateURL(nb.URL)
	if err != nil {
		return Bookmark{}, err
	}
	nb.URL = u
	nb.Label = strings.TrimSpace(nb.Label)
	id, err := a.store.CreateBookmark(ctx, nb)
	if err != nil {
		return Bookmark{}, err
	}
	return a.FindBookmark(ctx, id)
}

// SaveBookmark writes the url, label and folder of b. Use Star to change
// the starred flag.
func (a *API) SaveBookmark(ctx context.Context, b Bookmark) error {
	u, err := ValidateURL(b.URL)
	if err != nil {
		return err
	}
	b.URL = u
	b.Label = strings.TrimSpace(b.Label)
	return a.store.SaveBookmark(ctx, b)
}

// DeleteBookmark removes a bookmark.
func (a *API) DeleteBookmark(ctx context.Context, id int) error {
	return a.store.DeleteBookmark(ctx, id)
}

// AssignTag attaches a tag to a bookmark.
func (a *API) AssignTag(ctx context.Context, bookmarkID, tagID int) error {
	return a.store.AssignTag(ctx, bookmarkID, tagID)
}

// RemoveBookmarkTag detaches a tag from a bookmark.
func (a *API) RemoveBookmarkTag(ctx context.Context, bookmarkID, tagID int) error {
	return a.store.RemoveTag(ctx, bookmarkID, tagID)
}

// BookmarkTags returns the tags attached to a bookmark.
func (a *API) BookmarkTags(ctx context.Context, bookmarkID int) ([]Tag, error) {
	return a.store.TagsForBookmark(ctx, bookmarkID)
}

// Star sets or clears the starred flag.
func (a *API) Star(ctx context.Context, id int, starred bool) error {
	return a.store.SetStarred(ctx, id, starred)
}

// Starred returns the starred bookmarks.
func (a *API) Starred(ctx context.Context) ([]Bookmark, error) {
	return a.store.StarredBookmarks(ctx)
}

// Search finds bookmarks whose url, label or tags contain every word of
// query. "tag:<expr>" filters by a tag expression such as "go&!old" and
// "is:starred" keeps starred bookmarks only.
func (a *API) Search(ctx context.Context, query string) ([]Bookmark, error) {
	return a.store.SearchBookmarks(ctx, query)
}
