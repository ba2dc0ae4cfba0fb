package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Danieljenu/bellring/internal/bell"
	"github.com/Danieljenu/bellring/internal/timespec"
)

var listOpts struct {
	output string
}

var listCmd = &cobra.Command{
	Use:   "list [times...]",
	Short: "Show the normalized schedule and when each bell rings next",
	Long: `Parse the schedule the same way the bell does and print it in
chronological order, with the next time each entry rings.

Examples:
  # Check how a set of times is understood
  bellring list 9 "12:30 pm" 7pm

  # Show the configured schedule as JSON
  bellring list --output json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.output, "output", "o", "text",
		"Output format (text, json, yaml)")
}

// listEntry is one scheduled time in list output.
type listEntry struct {
	Time string    `json:"time" yaml:"time"`
	Next time.Time `json:"next" yaml:"next"`
	Due  string    `json:"due" yaml:"due"`
}

func runList(cmd *cobra.Command, args []string) error {
	schedule := buildSchedule(scheduleInput(cfg, args))
	if schedule.Len() == 0 {
		return bell.ErrEmptySchedule
	}
	return writeList(cmd.OutOrStdout(), listEntries(schedule, time.Now()), listOpts.output)
}

// listEntries returns the schedule in chronological order with the next
// occurrence of each entry after now.
func listEntries(schedule timespec.Schedule, now time.Time) []listEntry {
	specs := schedule.Sorted()
	entries := make([]listEntry, len(specs))
	for i, ts := range specs {
		next := ts.Next(now)
		entries[i] = listEntry{
			Time: ts.String(),
			Next: next,
			Due:  humanize.RelTime(next, now, "ago", "from now"),
		}
	}
	return entries
}

func writeList(w io.Writer, entries []listEntry, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "text", "":
		return writeListText(w, entries)
	default:
		return fmt.Errorf("unknown output format: %s (use text, json or yaml)", format)
	}
}

func writeListText(w io.Writer, entries []listEntry) error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	timeStyle := lipgloss.NewStyle().
		Bold(true).
		Width(7)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d scheduled", len(entries))))
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(timeStyle.Render(e.Time))
		b.WriteString(labelStyle.Render(fmt.Sprintf("next %s (%s)", e.Next.Format("Mon 15:04"), e.Due)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
