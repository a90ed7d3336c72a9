// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, the shared configuration and store
// lifecycle, and the version command.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/toeirei/pybookmarks/buildvars"
	"github.com/toeirei/pybookmarks/internal/config"
	"github.com/toeirei/pybookmarks/internal/db"
	"github.com/toeirei/pybookmarks/internal/i18n"
	"github.com/toeirei/pybookmarks/internal/logging"
	"github.com/toeirei/pybookmarks/internal/tui"
	"github.com/toeirei/pybookmarks/pybookmarks"
)

var (
	cfgFile         string
	verbose         bool
	showVersionFlag bool

	appConfig config.Config
	// api is opened by openStore for commands that need the database.
	api *pybookmarks.API
)

// runTUI is a variable so tests can replace the interactive program.
var runTUI = func(ctx context.Context, lib tui.Library) error {
	return tui.Run(ctx, lib)
}

// loadConfiguration loads the configuration and initializes logging and
// i18n. It does not touch the database.
func loadConfiguration(cmd *cobra.Command, args []string) error {
	if verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := config.Defaults()
	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Empty values in a config file fall back to the defaults.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" && appConfig.Database.Type == "sqlite" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.Fetch.Concurrency < 1 {
		appConfig.Fetch.Concurrency = defaults["fetch.concurrency"].(int)
	}

	// Persist a default config on first run so users have a file to edit.
	if optionalConfigPath == nil {
		if path, perr := config.GetConfigPath(false); perr == nil {
			if _, serr := os.Stat(path); errors.Is(serr, os.ErrNotExist) {
				def := config.DefaultConfig()
				if werr := config.WriteConfigFile(&def, false); werr != nil {
					logging.Warnf("could not write default config file: %v", werr)
				} else {
					logging.Debugf("wrote default config to %s", path)
				}
			}
		}
	}

	i18n.Init(appConfig.Language)
	return nil
}

// openStore opens the configured database. It is used as PreRunE by every
// command that reads or writes bookmarks.
func openStore(cmd *cobra.Command, args []string) error {
	if api != nil {
		return nil
	}
	a, err := pybookmarks.Open(cmd.Context(), pybookmarks.Options{
		Type: appConfig.Database.Type,
		DSN:  appConfig.Database.Dsn,
	})
	if err != nil {
		return errors.New(i18n.T("config.error_init_db", err))
	}
	api = a
	return nil
}

func closeStore(cmd *cobra.Command, args []string) error {
	if api == nil {
		return nil
	}
	err := api.Close()
	api = nil
	return err
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	defer func() { _ = closeStore(nil, nil) }()
	return NewRootCmd().ExecuteContext(context.Background())
}

func applyDefaultFlags(cmd *cobra.Command) {
	// NewRootCmd may be called multiple times in tests. pflag panics on
	// duplicate flag definitions, so check first.
	if cmd.PersistentFlags().Lookup("database.type") == nil {
		cmd.PersistentFlags().String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	}
	if cmd.PersistentFlags().Lookup("database.dsn") == nil {
		cmd.PersistentFlags().String("database.dsn", "", "Database connection string (DSN) or SQLite file")
	}
	if cmd.PersistentFlags().Lookup("language") == nil {
		cmd.PersistentFlags().String("language", "en", `Language ("en", "de")`)
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command. It is used for
// the main application command as well as fresh instances in tests.
func NewRootCmd() *cobra.Command {
	cfgFile, verbose, showVersionFlag = "", false, false
	api = nil

	cmd := &cobra.Command{
		Use:   "pybookmarks",
		Short: "pybookmarks manages bookmarks with tags and folders.",
		Long: `pybookmarks stores bookmarks in SQLite, PostgreSQL or MySQL and organizes
them with colored tags and nested folders. Bookmarks can be searched with
tag expressions, imported from and exported to browser bookmark files,
checked for dead links and served to AI assistants over MCP.

Running without a subcommand will launch the interactive TUI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), compositeVersion())
				os.Exit(0)
			}
			return loadConfiguration(cmd, args)
		},
		PreRunE:            openStore,
		PersistentPostRunE: closeStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), api)
		},
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (includes database logs)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	applyDefaultFlags(cmd)

	cmd.AddCommand(
		newBookmarkCmd(),
		newTagCmd(),
		newFolderCmd(),
		newSearchCmd(),
		newImportCmd(),
		newExportCmd(),
		newCheckCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newMigrateCmd(),
		newDBCmd(),
		newAuditCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
	return cmd
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "version: %s\n", v)
			_, _ = fmt.Fprintf(out, "library: %s\n", pybookmarks.Version)
			_, _ = fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				_, _ = fmt.Fprintf(out, "built: %s\n", d)
			}
			return nil
		},
	}
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If info is nil, it reads build info from the
// runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault("dev")
	resolvedCommit := buildvars.GitCommit
	if resolvedCommit == "" {
		resolvedCommit = "dev"
	}
	resolvedDate := buildvars.BuildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}
	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths only record the module as a dependency.
		if resolvedVersion == "dev" {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/pybookmarks" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" && resolvedCommit == "dev" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" && resolvedDate == "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit to aid support.
	if resolvedVersion == "dev" && resolvedCommit != "dev" {
		resolvedVersion = resolvedCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
