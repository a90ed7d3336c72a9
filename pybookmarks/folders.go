// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package pybookmarks

import (
	"context"
	"sort"
	"strings"
)

// AllFolders returns every folder.
func (a *API) AllFolders(ctx context.Context) ([]Folder, error) {
	return a.store.AllFolders(ctx)
}

// FindFolder returns the folder with the given id.
func (a *API) FindFolder(ctx context.Context, id int) (Folder, error) {
	f, err := a.store.GetFolder(ctx, id)
	if err != nil {
		return Folder{}, err
	}
	return *f, nil
}

// CreateFolder stores a new folder and returns it.
func (a *API) CreateFolder(ctx context.Context, nf NewFolder) (Folder, error) {
	nf.Label = strings.TrimSpace(nf.Label)
	id, err := a.store.CreateFolder(ctx, nf)
	if err != nil {
		return Folder{}, err
	}
	return a.FindFolder(ctx, id)
}

// SaveFolder renames or moves a folder.
func (a *API) SaveFolder(ctx context.Context, f Folder) error {
	f.Label = strings.TrimSpace(f.Label)
	return a.store.SaveFolder(ctx, f)
}

// DeleteFolder removes a folder. Its contents move to its parent.
func (a *API) DeleteFolder(ctx context.Context, id int) error {
	return a.store.DeleteFolder(ctx, id)
}

// FolderBookmarks returns the bookmarks directly in a folder, or the top
// level bookmarks for a nil id.
func (a *API) FolderBookmarks(ctx context.Context, id *int) ([]Bookmark, error) {
	return a.store.BookmarksInFolder(ctx, id)
}

// FolderTree returns the root folders with their descendants, siblings
// sorted by label.
func (a *API) FolderTree(ctx context.Context) ([]*FolderNode, error) {
	folders, err := a.store.AllFolders(ctx)
	if err != nil {
		return nil, err
	}
	return BuildFolderTree(folders), nil
}

// BuildFolderTree arranges folders into a forest. Folders whose parent is
// missing from the list become roots.
func BuildFolderTree(folders []Folder) []*FolderNode {
	nodes := make(map[int]*FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &FolderNode{Folder: f}
	}
	var roots []*FolderNode
	for _, f := range folders {
		n := nodes[f.ID]
		if f.Parent != nil {
			if p, ok := nodes[*f.Parent]; ok && p != n {
				p.Children = append(p.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	sorted := map[*FolderNode]bool{}
	var sortNodes func([]*FolderNode)
	sortNodes = func(ns []*FolderNode) {
		sort.SliceStable(ns, func(i, j int) bool {
			li, lj := strings.ToLower(ns[i].Folder.Label), strings.ToLower(ns[j].Folder.Label)
			if li != lj {
				return li < lj
			}
			return ns[i].Folder.ID < ns[j].Folder.ID
		})
		for _, n := range ns {
			if !sorted[n] {
				sorted[n] = true
				sortNodes(n.Children)
			}
		}
	}
	sortNodes(roots)
	return roots
}

// FolderPath returns the labels from the root down to folder id.
func FolderPath(folders []Folder, id int) []string {
	byID := make(map[int]Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	var path []string
	seen := map[int]bool{}
	for cur, ok := byID[id]; ok && !seen[cur.ID]; {
		seen[cur.ID] = true
		path = append([]string{cur.Label}, path...)
		if cur.Parent == nil {
			break
		}
		cur, ok = byID[*cur.Parent]
	}
	return path
}
