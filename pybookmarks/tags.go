// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package pybookmarks

import (
	"context"
	"errors"
)

// CreateTag stores a new tag and returns it.
func (a *API) CreateTag(ctx context.Context, nt NewTag) (Tag, error) {
	label, err := ValidateTagLabel(nt.Label)
	if err != nil {
		return Tag{}, err
	}
	color, err := ValidateColor(nt.Color)
	if err != nil {
		return Tag{}, err
	}
	id, err := a.store.CreateTag(ctx, NewTag{Label: label, Color: color})
	if err != nil {
		return Tag{}, err
	}
	return a.FindTag(ctx, id)
}

// FindTag returns the tag with the given id.
func (a *API) FindTag(ctx context.Context, id int) (Tag, error) {
	t, err := a.store.GetTag(ctx, id)
	if err != nil {
		return Tag{}, err
	}
	return *t, nil
}

// FindTagByLabel returns the tag with the given label, ignoring case.
func (a *API) FindTagByLabel(ctx context.Context, label string) (Tag, error) {
	t, err := a.store.GetTagByLabel(ctx, label)
	if err != nil {
		return Tag{}, err
	}
	return *t, nil
}

// EnsureTag returns the tag labeled label, creating it if needed.
func (a *API) EnsureTag(ctx context.Context, label string) (Tag, error) {
	label, err := ValidateTagLabel(label)
	if err != nil {
		return Tag{}, err
	}
	t, err := a.FindTagByLabel(ctx, label)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return t, err
	}
	t, err = a.CreateTag(ctx, NewTag{Label: label})
	if errors.Is(err, ErrDuplicate) {
		// Created concurrently.
		return a.FindTagByLabel(ctx, label)
	}
	return t, err
}

// RemoveTag deletes a tag and detaches it from all bookmarks.
func (a *API) RemoveTag(ctx context.Context, id int) error {
	return a.store.DeleteTag(ctx, id)
}

// DeleteTag is RemoveTag.
func (a *API) DeleteTag(ctx context.Context, id int) error {
	return a.RemoveTag(ctx, id)
}

// AllTags returns every tag.
func (a *API) AllTags(ctx context.Context) ([]Tag, error) {
	return a.store.AllTags(ctx)
}

// SaveTag writes label and color of t.
func (a *API) SaveTag(ctx context.Context, t Tag) error {
	label, err := ValidateTagLabel(t.Label)
	if err != nil {
		return err
	}
	color, err := ValidateColor(t.Color)
	if err != nil {
		return err
	}
	t.Label, t.Color = label, color
	return a.store.SaveTag(ctx, t)
}

// TagBookmarks returns the bookmarks carrying a tag.
func (a *API) TagBookmarks(ctx context.Context, id int) ([]Bookmark, error) {
	return a.store.BookmarksForTag(ctx, id)
}
