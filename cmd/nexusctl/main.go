// Package main is nexusctl, the operator CLI for Business Nexus.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/muhammadafham46/Business-Nexus/internal/config"
)

// cli carries state shared by subcommands.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger

	driver     string
	sqlitePath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "nexusctl",
		Short:         "Operator CLI for the Business Nexus backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.driver, "driver", "", "Storage driver: memory, sqlite or postgres (overrides STORAGE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&c.sqlitePath, "sqlite-path", "", "SQLite database file (overrides SQLITE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		c.migrateCmd(),
		c.seedCmd(),
		c.hashPasswordCmd(),
		c.usersCmd(),
		c.eventsCmd(),
	)

	return rootCmd
}

// load reads the environment and applies flag overrides.
func (c *cli) load(logOut io.Writer) error {
	config.LoadDotEnv()

	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	if c.driver != "" {
		cfg.StorageDriver = c.driver
	}
	if c.sqlitePath != "" {
		cfg.SQLitePath = c.sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	c.cfg = cfg
	c.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	return nil
}
