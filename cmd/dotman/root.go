package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dotman-vcs/dotman"
)

var (
	verbose  bool
	noPager  bool
	repoHome string

	repo   *dotman.Repository
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dotman",
	Short: "A content-addressed version-control engine for dotfiles",
	Long: `dotman tracks a home directory's dotfiles with its own
content-addressed object store, snapshot history, and ref namespace,
independent of any external VCS.`,
	SilenceUsage:      true,
	PersistentPreRunE: openRepository,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noPager, "no-pager", false, "disable the output pager for this invocation")
	rootCmd.PersistentFlags().StringVar(&repoHome, "home", "", "home directory to operate on (default: $HOME)")
}

// openRepository is the PersistentPreRunE shared by every subcommand except
// init: it resolves the home directory, configures the process-wide logger,
// and opens the repository before the command body runs.
func openRepository(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).
		Level(level).
		With().Timestamp().Logger()

	if cmd.Name() == "init" {
		return nil
	}

	home, err := resolveHome()
	if err != nil {
		return err
	}
	r, err := dotman.Open(home)
	if err != nil {
		return err
	}
	r.SetLogger(logger)
	repo = r
	return nil
}

func resolveHome() (string, error) {
	if repoHome != "" {
		return repoHome, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("dotman: resolve home: %w", err)
	}
	return home, nil
}
