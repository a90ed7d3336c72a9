// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/pybookmarks/internal/i18n"
	"github.com/toeirei/pybookmarks/pybookmarks"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long: `Tags label bookmarks. A tag may carry a display color, either a hex color
("#00add8", "#0ad") or an ANSI 256 color index ("208").`,
	}
	cmd.AddCommand(
		newTagAddCmd(),
		newTagListCmd(),
		newTagShowCmd(),
		newTagEditCmd(),
		newTagDeleteCmd(),
		newTagBookmarksCmd(),
	)
	return cmd
}

func newTagAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <label>",
		Short:   "Create a tag",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			color, _ := cmd.Flags().GetString("color")
			t, err := api.CreateTag(cmd.Context(), pybookmarks.NewTag{Label: args[0], Color: color})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("tag.added", t.ID, t.Label))
			return nil
		},
	}
	cmd.Flags().StringP("color", "c", "", "Display color")
	return cmd
}

func newTagListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags",
		Args:    cobra.NoArgs,
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := api.AllTags(cmd.Context())
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			return printTags(cmd.OutOrStdout(), tags, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func newTagShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id-or-label>",
		Short:   "Show a tag",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			bms, err := api.TagBookmarks(cmd.Context(), t.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s: %d\n", i18n.T("field.id"), t.ID)
			_, _ = fmt.Fprintf(out, "%s: %s\n", i18n.T("field.label"), renderTags([]pybookmarks.Tag{t}, useColor(out)))
			_, _ = fmt.Fprintf(out, "%s: %s\n", i18n.T("field.color"), t.Color)
			_, _ = fmt.Fprintf(out, "%s: %d\n", i18n.T("field.bookmarks"), len(bms))
			return nil
		},
	}
}

func newTagEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id-or-label>",
		Short:   "Rename a tag or change its color",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("label") {
				t.Label, _ = cmd.Flags().GetString("label")
			}
			if cmd.Flags().Changed("color") {
				t.Color, _ = cmd.Flags().GetString("color")
			}
			if err := api.SaveTag(cmd.Context(), t); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("tag.saved", t.ID))
			return nil
		},
	}
	cmd.Flags().StringP("label", "l", "", "New label")
	cmd.Flags().StringP("color", "c", "", `New color, "" removes the color`)
	return cmd
}

func newTagDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id-or-label>",
		Aliases: []string{"rm"},
		Short:   "Delete a tag and detach it from all bookmarks",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := api.RemoveTag(cmd.Context(), t.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("tag.deleted", t.Label))
			return nil
		},
	}
}

func newTagBookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks <id-or-label>",
		Short:   "List the bookmarks carrying a tag",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			bms, err := api.TagBookmarks(cmd.Context(), t.ID)
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			return printBookmarks(cmd.Context(), cmd.OutOrStdout(), bms, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}
