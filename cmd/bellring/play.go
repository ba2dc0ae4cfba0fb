package main

import (
	"github.com/spf13/cobra"

	"github.com/Danieljenu/bellring/internal/audio"
	"github.com/Danieljenu/bellring/internal/timespec"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Ring the bell once now",
	Long: `Open the audio device, play the configured sound once and exit.

Useful for checking the sound file and volume before leaving the bell running.

Examples:
  bellring play
  bellring play --sound ~/sounds/gong.ogg --volume 0.5`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	output := audio.NewManager(cmd.Context(), false, logger)
	return newBell(timespec.NewSchedule(), output).SoundCheck()
}
