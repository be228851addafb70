// ABOUTME: CLI commands for the weight log: add, edit, delete, and list.
// ABOUTME: One entry per calendar day; logging again on the same day replaces it.
package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	logAt     string
	logWeight float64
	logLimit  int
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"l"},
	Short:   "Record and manage weigh-ins",
	Long: `Record and manage weigh-ins.

Each calendar day holds at most one entry. Logging a weight on a day that
already has one replaces it and keeps its ID.

COMMANDS:

  add <kg>        Log a weight (today unless --at is given)
  edit <id>       Change an entry's weight or date
  delete <id>     Remove an entry
  list            Show recent entries, newest first`,
}

var logAddCmd = &cobra.Command{
	Use:     "add <kg>",
	Aliases: []string{"a"},
	Short:   "Log a weight",
	Long: `Log a weight in kilograms.

EXAMPLES:

  weightplan log add 82.4
  weightplan log add 82.1 --at 2025-06-08
  weightplan log add 81.9 --at "2025-06-09 07:15"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[0])
		}

		var at time.Time
		if logAt != "" {
			at, err = parseTime(logAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", logAt)
			}
		}

		l, err := tr.SubmitLog(weight, at)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		green.Fprintln(out, "✓ Logged weight")
		printLog(out, l)
		return nil
	},
}

var logEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a weigh-in",
	Long: `Change the weight or date of an entry. The ID can be a unique prefix.
Moving an entry onto a day that already has one replaces that day's entry.

EXAMPLES:

  weightplan log edit 3f2a9c1b --weight 81.7
  weightplan log edit 3f2a --at 2025-06-07`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var e tracker.LogEdit
		if cmd.Flags().Changed("weight") {
			e.Weight = &logWeight
		}
		if logAt != "" {
			at, err := parseTime(logAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", logAt)
			}
			e.Date = &at
		}
		if e.Weight == nil && e.Date == nil {
			return fmt.Errorf("nothing to change (use --weight or --at)")
		}

		l, err := tr.EditLog(args[0], e)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		green.Fprintln(out, "✓ Updated weigh-in")
		printLog(out, l)
		return nil
	},
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a weigh-in",
	Long: `Delete a weigh-in by its ID or a unique ID prefix.
The ID prefix is shown in the first column of 'weightplan log list'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := tr.DeleteLog(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		yellow.Fprintln(out, "✗ Deleted weigh-in")
		printLog(out, l)
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent weigh-ins",
	Long: `List recent weigh-ins, newest first.

Each line shows: ID  DATE  WEIGHT  CHANGE

CHANGE compares each entry to the one logged before it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := tr.Logs(0)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(logs) == 0 {
			fmt.Fprintln(out, "No weigh-ins found.")
			return nil
		}

		shown := logs
		if logLimit > 0 && len(shown) > logLimit {
			shown = shown[:logLimit]
		}
		for i, l := range shown {
			change := ""
			if i+1 < len(logs) {
				change = faint.Sprint(signedKg(l.Weight - logs[i+1].Weight))
			}
			fmt.Fprintf(out, "%s %s %6.1f kg  %s\n",
				shortID(l.ID),
				padRight(l.Date.Local().Format("2006-01-02 15:04"), 17),
				l.Weight,
				change)
		}
		return nil
	},
}

func printLog(out io.Writer, l models.WeightLog) {
	fmt.Fprintf(out, "  %s %s %.1f kg\n", shortID(l.ID), l.Date.Local().Format("2006-01-02 15:04"), l.Weight)
}

func init() {
	logAddCmd.Flags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	logEditCmd.Flags().StringVar(&logAt, "at", "", "new timestamp (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	logEditCmd.Flags().Float64Var(&logWeight, "weight", 0, "new weight in kg")
	logListCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "max number of results")

	logCmd.AddCommand(logAddCmd, logEditCmd, logDeleteCmd, logListCmd)
	rootCmd.AddCommand(logCmd)
}
