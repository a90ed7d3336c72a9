// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toeirei/pybookmarks/internal/i18n"
	"github.com/toeirei/pybookmarks/pybookmarks"
)

func newFolderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
		Long: `Folders nest. Wherever a folder is expected it can be given by id or by its
path, for example "work/docs".`,
	}
	cmd.AddCommand(
		newFolderAddCmd(),
		newFolderListCmd(),
		newFolderTreeCmd(),
		newFolderEditCmd(),
		newFolderDeleteCmd(),
		newFolderBookmarksCmd(),
	)
	return cmd
}

func newFolderAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <label>",
		Short:   "Create a folder",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			nf := pybookmarks.NewFolder{Label: args[0]}
			if ref, _ := cmd.Flags().GetString("parent"); ref != "" {
				p, err := resolveFolder(cmd.Context(), ref)
				if err != nil {
					return err
				}
				nf.Parent = &p.ID
			}
			f, err := api.CreateFolder(cmd.Context(), nf)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("folder.added", f.ID, f.Label))
			return nil
		},
	}
	cmd.Flags().StringP("parent", "p", "", "Parent folder (id or path)")
	return cmd
}

func newFolderListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List folders with their paths",
		Args:    cobra.NoArgs,
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := api.AllFolders(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				if folders == nil {
					folders = []pybookmarks.Folder{}
				}
				return writeJSON(out, folders)
			}
			if len(folders) == 0 {
				_, _ = fmt.Fprintln(out, i18n.T("folder.list_empty"))
				return nil
			}
			for _, f := range folders {
				_, _ = fmt.Fprintf(out, "%d\t%s\n", f.ID, strings.Join(pybookmarks.FolderPath(folders, f.ID), "/"))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func newFolderTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tree",
		Short:   "Print the folder hierarchy",
		Args:    cobra.NoArgs,
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := api.FolderTree(cmd.Context())
			if err != nil {
				return err
			}
			if len(tree) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("folder.list_empty"))
				return nil
			}
			writeTree(cmd.OutOrStdout(), tree, "")
			return nil
		},
	}
}

// writeTree draws nodes with box drawing connectors.
func writeTree(w io.Writer, nodes []*pybookmarks.FolderNode, prefix string) {
	for i, n := range nodes {
		connector, next := "├── ", "│   "
		if i == len(nodes)-1 {
			connector, next = "└── ", "    "
		}
		_, _ = fmt.Fprintf(w, "%s%s%s (%d)\n", prefix, connector, n.Folder.Label, n.Folder.ID)
		writeTree(w, n.Children, prefix+next)
	}
}

func newFolderEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id-or-path>",
		Short:   "Rename or move a folder",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFolder(ctx, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("label") {
				f.Label, _ = cmd.Flags().GetString("label")
			}
			root, _ := cmd.Flags().GetBool("root")
			switch {
			case root:
				f.Parent = nil
			case cmd.Flags().Changed("parent"):
				ref, _ := cmd.Flags().GetString("parent")
				p, err := resolveFolder(ctx, ref)
				if err != nil {
					return err
				}
				f.Parent = &p.ID
			}
			if err := api.SaveFolder(ctx, f); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("folder.saved", f.ID))
			return nil
		},
	}
	cmd.Flags().StringP("label", "l", "", "New label")
	cmd.Flags().StringP("parent", "p", "", "New parent folder (id or path)")
	cmd.Flags().Bool("root", false, "Move to the top level")
	cmd.MarkFlagsMutuallyExclusive("parent", "root")
	return cmd
}

func newFolderDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id-or-path>",
		Aliases: []string{"rm"},
		Short:   "Delete a folder, moving its content to the parent folder",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := api.DeleteFolder(cmd.Context(), f.ID); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("folder.deleted", f.Label))
			return nil
		},
	}
}

func newFolderBookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks <id-or-path>",
		Short:   "List the bookmarks in a folder",
		Args:    cobra.ExactArgs(1),
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFolder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			bms, err := api.FolderBookmarks(cmd.Context(), &f.ID)
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
