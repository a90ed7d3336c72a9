// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/toeirei/pybookmarks/internal/fetch"
	"github.com/toeirei/pybookmarks/internal/i18n"
	"github.com/toeirei/pybookmarks/internal/logging"
	"github.com/toeirei/pybookmarks/internal/model"
	"github.com/toeirei/pybookmarks/pybookmarks"
)

// copyToClipboard is swapped in tests.
var copyToClipboard = clipboard.WriteAll

// newFetcher returns the fetcher selected by the fetch.browser setting. It is
// a variable so tests can avoid the network.
var newFetcher = func() (fetch.Fetcher, error) {
	if appConfig.Fetch.Browser {
		return fetch.NewBrowserFetcher(appConfig.Fetch.Timeout), nil
	}
	return fetch.NewHTTPFetcher(appConfig.Fetch.Timeout)
}

func newBookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bm"},
		Short:   "Manage bookmarks",
	}
	cmd.AddCommand(
		newBookmarkAddCmd(),
		newBookmarkListCmd(),
		newBookmarkShowCmd(),
		newBookmarkEditCmd(),
		newBookmarkDeleteCmd(),
		newBookmarkStarCmd("star", true),
		newBookmarkStarCmd("unstar", false),
		newBookmarkTagCmd("tag", true),
		newBookmarkTagCmd("untag", false),
		newBookmarkCopyCmd(),
	)
	return cmd
}

func newBookmarkAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a bookmark",
		Long: `Adds a bookmark. Tags given with --tag are created when they do not exist.
With --fetch-title the page title is used as label when no --label is given.

Example:
  pybookmarks bookmark add https://go.dev --tag lang --tag go --folder dev/go`,
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			label, _ := cmd.Flags().GetString("label")
			folderRef, _ := cmd.Flags().GetString("folder")
			tagLabels, _ := cmd.Flags().GetStringSlice("tag")
			star, _ := cmd.Flags().GetBool("star")
			fetchTitle, _ := cmd.Flags().GetBool("fetch-title")

			nb := pybookmarks.NewBookmark{URL: args[0], Label: label, Starred: star}
			if folderRef != "" {
				f, err := resolveFolder(ctx, folderRef)
				if err != nil {
					return err
				}
				nb.Folder = &f.ID
			}

			// Resolve tags first so an invalid label stores nothing.
			var tags []pybookmarks.Tag
			for _, l := range tagLabels {
				t, err := api.EnsureTag(ctx, l)
				if err != nil {
					return err
				}
				tags = append(tags, t)
			}

			if fetchTitle && nb.Label == "" {
				nb.Label = lookupTitle(ctx, nb.URL)
			}

			b, err := api.CreateBookmark(ctx, nb)
			if errors.Is(err, pybookmarks.ErrDuplicate) {
				return errors.New(i18n.T("bookmark.error_duplicate", args[0]))
			}
			if err != nil {
				return err
			}
			for _, t := range tags {
				if err := api.AssignTag(ctx, b.ID, t.ID); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("bookmark.added", b.ID, b.URL))
			return nil
		},
	}
	cmd.Flags().StringP("label", "l", "", "Label of the bookmark")
	cmd.Flags().StringP("folder", "f", "", "Folder id or path, e.g. work/docs")
	cmd.Flags().StringSliceP("tag", "t", nil, "Tag label (repeatable)")
	cmd.Flags().Bool("star", false, "Star the bookmark")
	cmd.Flags().Bool("fetch-title", false, "Use the page title as label")
	return cmd
}

// lookupTitle fetches the title of url. Failures are logged and yield an
// empty title.
func lookupTitle(ctx context.Context, url string) string {
	f, err := newFetcher()
	if err != nil {
		logging.Warnf("%s", i18n.T("bookmark.warn_fetch_title", url, err))
		return ""
	}
	title, err := fetch.Title(ctx, f, url)
	if err != nil {
		logging.Warnf("%s", i18n.T("bookmark.warn_fetch_title", url, err))
		return ""
	}
	return title
}

func newBookmarkListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks",
		Args:    cobra.NoArgs,
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			folderRef, _ := cmd.Flags().GetString("folder")
			starred, _ := cmd.Flags().GetBool("starred")
			asJSON, _ := cmd.Flags().GetBool("json")

			var (
				bms []pybookmarks.Bookmark
				err error
			)
			switch {
			case folderRef != "":
				f, ferr := resolveFolder(ctx, folderRef)
				if ferr != nil {
					return ferr
				}
				bms, err = api.FolderBookmarks(ctx, &f.ID)
			case starred:
				bms, err = api.Starred(ctx)
			default:
				bms, err = api.AllBookmarks(ctx)
			}
			if err != nil {
				return err
			}
			if folderRef != "" && starred {
				kept := bms[:0]
				for _, b := range bms {
					if b.Starred {
						kept = append(kept, b)
					}
				}
				bms = kept
			}
			return printBookmarks(ctx, cmd.OutOrStdout(), bms, asJSON)
		},
	}
	cmd.Flags().StringP("folder", "f", "", "Only bookmarks in this folder (id or path)")
	cmd.Flags().Bool("starred", false, "Only starred bookmarks")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func newBookmarkShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <id>",
		Short:   "Show a bookmark",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := api.FindBookmark(cmd.Context(), id)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printBookmarks(cmd.Context(), cmd.OutOrStdout(), []pybookmarks.Bookmark{b}, true)
			}
			return printBookmark(cmd.Context(), cmd.OutOrStdout(), b)
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func newBookmarkEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change url, label or folder of a bookmark",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := api.FindBookmark(ctx, id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("url") {
				b.URL, _ = flags.GetString("url")
			}
			if flags.Changed("label") {
				b.Label, _ = flags.GetString("label")
			}
			noFolder, _ := flags.GetBool("no-folder")
			switch {
			case noFolder:
				b.Folder = nil
			case flags.Changed("folder"):
				ref, _ := flags.GetString("folder")
				f, err := resolveFolder(ctx, ref)
				if err != nil {
					return err
				}
				b.Folder = model.IntPtr(f.ID)
			}
			if err := api.SaveBookmark(ctx, b); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("bookmark.saved", b.ID))
			return nil
		},
	}
	cmd.Flags().String("url", "", "New url")
	cmd.Flags().StringP("label", "l", "", "New label")
	cmd.Flags().StringP("folder", "f", "", "Move to folder (id or path)")
	cmd.Flags().Bool("no-folder", false, "Move to the top level")
	cmd.MarkFlagsMutuallyExclusive("folder", "no-folder")
	return cmd
}

func newBookmarkDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := api.DeleteBookmark(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("bookmark.deleted", id))
			return nil
		},
	}
}

func newBookmarkStarCmd(use string, starred bool) *cobra.Command {
	short := "Star a bookmark"
	msg := "bookmark.starred"
	if !starred {
		short = "Remove the star from a bookmark"
		msg = "bookmark.unstarred"
	}
	return &cobra.Command{
		Use:     use + " <id>",
		Short:   short,
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := api.Star(cmd.Context(), id, starred); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T(msg, id))
			return nil
		},
	}
}

func newBookmarkTagCmd(use string, assign bool) *cobra.Command {
	short := "Attach a tag to a bookmark, creating the tag when needed"
	if !assign {
		short = "Detach a tag from a bookmark"
	}
	return &cobra.Command{
		Use:     use + " <id> <tag-id-or-label>",
		Short:   short,
		Args:    cobra.ExactArgs(2),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var t pybookmarks.Tag
			if assign {
				t, err = resolveTag(ctx, args[1])
				if errors.Is(err, pybookmarks.ErrNotFound) {
					t, err = api.EnsureTag(ctx, args[1])
				}
				if err != nil {
					return err
				}
				err = api.AssignTag(ctx, id, t.ID)
			} else {
				if t, err = resolveTag(ctx, args[1]); err != nil {
					return err
				}
				err = api.RemoveBookmarkTag(ctx, id, t.ID)
			}
			if err != nil {
				return err
			}
			key := "bookmark.tagged"
			if !assign {
				key = "bookmark.untagged"
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T(key, id, t.Label))
			return nil
		},
	}
}

func newBookmarkCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "copy <id>",
		Short:   "Copy the url of a bookmark to the clipboard",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := api.FindBookmark(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := copyToClipboard(b.URL); err != nil {
				return errors.New(i18n.T("bookmark.error_copy", err))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("bookmark.copied", b.URL))
			return nil
		},
	}
}
