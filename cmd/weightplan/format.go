// ABOUTME: Shared parsing and output helpers for CLI commands.
// ABOUTME: Date parsing, column padding, and signed kilogram formatting.
package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/models"
	"github.com/spf13/cobra"
)

var (
	faint  = color.New(color.Faint)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
)

// parseTime accepts the date forms users type, interpreted in local time.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		calendar.ISODate,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// signedKg renders a change with an explicit sign; zero has none.
func signedKg(change float64) string {
	switch {
	case change > 0.005:
		return fmt.Sprintf("+%.1f kg", change)
	case change < -0.005:
		return fmt.Sprintf("%.1f kg", change)
	default:
		return "0.0 kg"
	}
}

func shortID(id string) string {
	return faint.Sprint(models.ShortID(id))
}

func formatDay(t time.Time) string {
	return t.Format("Mon Jan 2, 2006")
}

// confirm prompts on the command's input and reports whether the answer
// matched want.
func confirm(cmd *cobra.Command, prompt, want string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(response), want)
}
