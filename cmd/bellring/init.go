package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Danieljenu/bellring/internal/config"
)

var initOpts struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Long: `Write the effective settings, defaults plus any flags given, to the
config file so later runs need no arguments.

Examples:
  # Save a schedule for plain "bellring" to pick up
  bellring init -t 9 -t 1pm -t 5pm --sound ~/sounds/bell.wav

  # Replace an existing file
  bellring init --force -t 8am`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initOpts.force, "force", false,
		"Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := globalOpts.configPath
	if path == "" {
		path = config.ConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initOpts.force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger.Info("wrote config", "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
