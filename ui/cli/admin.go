// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/toeirei/pybookmarks/internal/fetch"
	"github.com/toeirei/pybookmarks/internal/i18n"
	"github.com/toeirei/pybookmarks/internal/mcp"
	"github.com/toeirei/pybookmarks/pybookmarks"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [id...]",
		Short: "Check bookmarks for dead links",
		Long: `Requests every bookmark (or the given ones) and reports the HTTP status.
Set fetch.browser to true in the config to load pages in headless Chrome.`,
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var bms []pybookmarks.Bookmark
			if len(args) == 0 {
				all, err := api.AllBookmarks(ctx)
				if err != nil {
					return err
				}
				bms = all
			}
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				b, err := api.FindBookmark(ctx, id)
				if err != nil {
					return err
				}
				bms = append(bms, b)
			}

			concurrency := appConfig.Fetch.Concurrency
			if cmd.Flags().Changed("concurrency") {
				concurrency, _ = cmd.Flags().GetInt("concurrency")
			}
			f, err := newFetcher()
			if err != nil {
				return err
			}
			urls := make([]string, len(bms))
			for i, b := range bms {
				urls[i] = b.URL
			}
			results := fetch.Check(ctx, f, urls, concurrency)

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			failed := 0
			for i, r := range results {
				state := "ok"
				detail := r.Title
				if !r.OK() {
					failed++
					state = "FAIL"
					detail = r.Err.Error()
				}
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", bms[i].ID, state, r.Status, r.URL, detail)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, i18n.T("check.summary", len(results), failed))
			if failed > 0 {
				return errors.New(i18n.T("check.failed", failed))
			}
			return nil
		},
	}
	cmd.Flags().IntP("concurrency", "c", 0, "Number of parallel requests (default from fetch.concurrency)")
	return cmd
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database administration",
	}
	maintain := &cobra.Command{
		Use:     "maintain",
		Short:   "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
		Long:    `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
		Args:    cobra.NoArgs,
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeoutSec, _ := cmd.Flags().GetInt("timeout"); timeoutSec > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
				defer cancel()
			}
			if err := api.Maintain(ctx); err != nil {
				return errors.New(i18n.T("db.maintain_failed", err))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("db.maintain_success"))
			return nil
		},
	}
	maintain.Flags().Int("timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	cmd.AddCommand(maintain)
	return cmd
}

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "audit",
		Short:   "Show the audit log, newest first",
		Args:    cobra.NoArgs,
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := api.AuditLog(cmd.Context())
			if err != nil {
				return err
			}
			if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				if entries == nil {
					entries = []pybookmarks.AuditLogEntry{}
				}
				return writeJSON(out, entries)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp, e.Username, e.Action, e.Details)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntP("limit", "n", 50, "Show at most this many entries (0 for all)")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the bookmark tools over MCP on stdio",
		Long: `Starts an MCP server on stdin/stdout exposing the tools list_bookmarks,
search_bookmarks, get_bookmark, add_bookmark, tag_bookmark, list_tags and
list_folders. Configure it in your assistant as:

  {"command": "pybookmarks", "args": ["mcp", "serve"]}`,
		Args:    cobra.NoArgs,
		PreRunE: openStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _, _ := resolveBuildVersion(nil)
			return mcp.NewServer(api, v).Run(cmd.Context())
		},
	})
	return cmd
}
