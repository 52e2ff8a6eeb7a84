// Package cli provides the picroute command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/justyntemme/picroute/internal/config"
	"github.com/justyntemme/picroute/internal/debug"
)

var (
	// Global flags
	cfgFile   string
	dbFile    string
	debugSpec string
	verbose   bool

	// User-facing warnings
	logger zerolog.Logger
)

// Version is set by the main package at startup.
var Version = "v0.1.0-dev"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "picroute",
		Short: "Browse, select and manage image folders from the terminal",
		Long: `picroute ` + Version + `
Navigate between folders, select images and trash, copy or organise them.

Run "picroute browse" for the interactive browser or "picroute ls <dir>"
for a one-shot listing.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
			switch {
			case debugSpec != "":
				debug.Configure(debugSpec)
			case verbose:
				debug.EnableAll()
			}
			debug.Log(debug.CLI, "command %q args=%v", cmd.Name(), args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default ~/.config/picroute/config.json)")
	rootCmd.PersistentFlags().StringVar(&dbFile, "db", "", "Favorites database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&debugSpec, "debug", "", `Debug categories: "all", "none" or a list like "NAV,FS"`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable all debug categories")
	rootCmd.Version = Version

	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newFavCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// Execute runs the CLI with SIGINT/SIGTERM cancelling the root context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig loads the config named by --config, falling back to defaults
// with a warning when the file is unreadable.
func loadConfig() (*config.Manager, config.Config) {
	m := config.NewManager(cfgFile)
	if err := m.Load(); err != nil {
		logger.Warn().Err(err).Str("path", m.Path()).Msg("config not loaded, using defaults")
	}
	if err := m.ParseError(); err != nil {
		logger.Warn().Err(err).Str("path", m.Path()).Msg("config has errors, using defaults")
	}
	return m, m.Get()
}

func dbPath(cfg config.Config) string {
	switch {
	case dbFile != "":
		return dbFile
	case cfg.Store.Path != "":
		return cfg.Store.Path
	}
	return defaultDBPath()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or reset the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.NewManager(cfgFile).Path())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default configuration, backing up any existing file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := config.NewManager(cfgFile)
			backup, err := m.Generate()
			if err != nil {
				return err
			}
			if backup != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "backed up to %s\n", backup)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", m.Path())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "start <location>",
		Short: "Set the location opened when no folder is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _ := loadConfig()
			location := locationArg(args[0])
			if err := m.SetStartLocation(location); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "start location is %s\n", location)
			return nil
		},
	})
	cmd.AddCommand(newConfigLocationCmd())
	return cmd
}

func newConfigLocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage named locations offered as routes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <dir>",
		Short: "Add or rename a named location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := existingDir(args[1])
			if err != nil {
				return err
			}
			m, _ := loadConfig()
			if err := m.AddLocation(args[0], dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q -> %s\n", args[0], dir)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <dir>",
		Short: "Remove a named location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _ := loadConfig()
			return m.RemoveLocation(locationArg(args[0]))
		},
	})
	return cmd
}

// existingDir returns the absolute path of dir, which must be a directory.
func existingDir(dir string) (string, error) {
	abs, err := filepath.Abs(expandHome(dir))
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", abs)
	}
	return abs, nil
}
