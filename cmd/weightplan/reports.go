// ABOUTME: CLI commands for the dashboard and progress views.
// ABOUTME: status shows calorie targets; history, weeks, and calendar show the log over time.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harperreed/weightplan/internal/calc"
	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/history"
	"github.com/harperreed/weightplan/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	histGroup  string
	histRange  string
	histOffset int
	histAt     string
	histJSON   bool
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show calorie targets for the active plan",
	Long: `Show your current weight, BMI, and the calorie target for the active plan.

BMR uses the Mifflin-St Jeor equation; TDEE multiplies it by your activity
level. The daily target spreads the weight change over the days left, at
7700 kcal per kg.

A loss plan is flagged unrealistic when it needs more than 1 kg per week or a
target of 1200 kcal or less. A gain plan is flagged only for pace.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := tr.Summary()
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Show weight history",
	Long: `Show weight history, newest first, labeled against the active plan's start.

GROUPING (--group):

  daily     Each weigh-in in the selected range ("Day 12", "Pre-Plan")
  weekly    Average per Monday-start week ("Week 3")
  monthly   Average per calendar month ("Month 2")

RANGE (--range) applies to daily rows: 1W, 1M, 1Y, or ALL. Use --offset -1
to step back one range, or --at to pick the range containing a date.

EXAMPLES:

  weightplan history
  weightplan history --group weekly
  weightplan history --range 1W --offset -2
  weightplan history --range 1W --at 2025-05-12`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := tracker.HistoryOptions{
			Group:  cfg.GetDefaultGroup(),
			Range:  cfg.GetDefaultRange(),
			Offset: histOffset,
		}
		if histGroup != "" {
			g, err := history.ParseGroup(histGroup)
			if err != nil {
				return err
			}
			opts.Group = g
		}
		if histRange != "" {
			r, err := history.ParseRange(histRange)
			if err != nil {
				return err
			}
			opts.Range = r
		}
		if histAt != "" {
			at, err := parseTime(histAt)
			if err != nil {
				return fmt.Errorf("invalid date: %s", histAt)
			}
			opts.Reference = at
		}

		view, err := tr.History(opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if histJSON {
			return writeJSON(out, view)
		}
		printHistory(out, opts, view)
		return nil
	},
}

var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "List the weeks covered by your log",
	Long: `List every Monday-start week from your first to your latest weigh-in,
newest first. Weeks before the active plan starts are labeled "Pre-plan W<n>".

Jump to one with: weightplan history --range 1W --at <start date>`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		weeks, err := tr.Weeks()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(weeks) == 0 {
			fmt.Fprintln(out, "No weigh-ins found.")
			return nil
		}
		for _, w := range weeks {
			fmt.Fprintf(out, "%s %s – %s\n",
				padRight(w.Label, 14),
				w.Start.Format(calendar.ISODate),
				w.End.Format(calendar.ISODate))
		}
		return nil
	},
}

var calendarCmd = &cobra.Command{
	Use:     "calendar [YYYY-MM]",
	Aliases: []string{"cal"},
	Short:   "Show a month calendar of weigh-ins",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var month time.Time
		if len(args) == 1 {
			var err error
			month, err = time.ParseInLocation("2006-01", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid month: %s (use YYYY-MM)", args[0])
			}
		}
		grid, err := tr.Calendar(month)
		if err != nil {
			return err
		}
		printCalendar(cmd.OutOrStdout(), grid)
		return nil
	},
}

func printSummary(out io.Writer, sum *tracker.Summary) {
	p := sum.Profile
	fmt.Fprintf(out, "Current weight  %.1f kg", p.CurrentWeight)
	if sum.Latest != nil {
		fmt.Fprint(out, faint.Sprintf("  (logged %s)", formatDay(sum.Latest.Date.Local())))
	}
	fmt.Fprintln(out)
	if sum.BMICategory != "" {
		fmt.Fprintf(out, "BMI             %.1f %s\n", sum.BMI, faint.Sprintf("(%s)", sum.BMICategory))
	}
	fmt.Fprintf(out, "Weigh-ins       %d\n", sum.LogCount)
	fmt.Fprintln(out)

	if sum.ActivePlan == nil {
		yellow.Fprintln(out, "No active plan.")
		fmt.Fprintln(out, "Create one with 'weightplan plan add' or activate one with 'weightplan plan activate <id>'.")
		return
	}

	plan := sum.ActivePlan
	res := sum.Result
	bold.Fprintf(out, "%s %s\n", plan.Name, shortID(plan.ID))
	fmt.Fprintf(out, "  Target        %.1f kg by %s (%s to go)\n",
		plan.TargetWeight, plan.TargetDate.Format(calendar.ISODate), signedKg(sum.ToGo))
	fmt.Fprintf(out, "  BMR           %.0f kcal\n", res.BMR)
	fmt.Fprintf(out, "  TDEE          %.0f kcal\n", res.TDEE)

	switch {
	case res.PlanMode == calc.ModeMaintain:
		green.Fprintf(out, "  Daily target  %.0f kcal (maintenance, target reached)\n", res.DailyCalorieTarget)
		return
	case res.DaysRemaining == 0:
		yellow.Fprintf(out, "  Daily target  %.0f kcal (maintenance, target date passed)\n", res.DailyCalorieTarget)
		return
	}

	verb := "deficit"
	if res.PlanMode == calc.ModeGain {
		verb = "surplus"
	}
	fmt.Fprintf(out, "  Days left     %d\n", res.DaysRemaining)
	fmt.Fprintf(out, "  Daily %s %.0f kcal\n", padRight(verb, 7), res.DailyDeficitRequired)
	fmt.Fprintf(out, "  Weekly pace   %.2f kg\n", res.WeeklyChangeRequired)
	fmt.Fprintf(out, "  Daily target  %s\n", bold.Sprintf("%.0f kcal", res.DailyCalorieTarget))
	if !res.IsRealistic {
		fmt.Fprintln(out)
		if res.PlanMode == calc.ModeLoss {
			red.Fprintf(out, "⚠ This plan is aggressive: keep loss to %.0f kg/week and eat more than %.0f kcal.\n",
				calc.MaxWeeklyChangeKg, calc.MinLossCalories)
		} else {
			red.Fprintf(out, "⚠ This plan is aggressive: keep gain to %.0f kg/week.\n", calc.MaxWeeklyChangeKg)
		}
		fmt.Fprintln(out, "  Consider a later target date with 'weightplan plan edit'.")
	}
}

func printHistory(out io.Writer, opts tracker.HistoryOptions, view history.View) {
	if len(view.Rows) == 0 {
		fmt.Fprintln(out, "No weigh-ins in this range.")
		return
	}
	fmt.Fprintln(out, faint.Sprintf("%s, range %s", opts.Group, opts.Range))
	for _, r := range view.Rows {
		date := r.Date.Local().Format(calendar.ISODate)
		if opts.Group == history.GroupDaily {
			fmt.Fprintf(out, "%s %s %s %6.1f kg  %s\n",
				shortID(r.ID),
				padRight(r.Label, 10),
				date,
				r.Weight,
				faint.Sprint(signedKg(r.Change)))
			continue
		}
		fmt.Fprintf(out, "%s %s %6.1f kg  %s  %s\n",
			padRight(r.Label, 10),
			date,
			r.Weight,
			faint.Sprint(signedKg(r.Change)),
			faint.Sprintf("(%d weigh-ins)", r.Count))
	}
}

func printCalendar(out io.Writer, grid []history.CalendarDay) {
	if len(grid) == 0 {
		return
	}
	var title time.Time
	for _, d := range grid {
		if d.InMonth {
			title = d.Date
			break
		}
	}
	bold.Fprintln(out, title.Format("January 2006"))
	fmt.Fprintln(out, " Mo   Tu   We   Th   Fr   Sa   Su")

	var logged []history.CalendarDay
	for i, d := range grid {
		cell := fmt.Sprintf("%3d", d.Date.Day())
		switch {
		case !d.InMonth:
			cell = faint.Sprint(cell) + "  "
		case d.Log != nil:
			cell = green.Sprint(cell+"•") + " "
			logged = append(logged, d)
		default:
			cell += "  "
		}
		fmt.Fprint(out, cell)
		if i%7 == 6 {
			fmt.Fprintln(out)
		}
	}

	if len(logged) > 0 {
		fmt.Fprintln(out)
	}
	for _, d := range logged {
		fmt.Fprintf(out, "%s  %.1f kg\n", strings.TrimSpace(d.Date.Format("Mon Jan _2")), d.Log.Weight)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().StringVarP(&histGroup, "group", "g", "", "daily, weekly, or monthly (default from config, else daily)")
	historyCmd.Flags().StringVarP(&histRange, "range", "r", "", "1W, 1M, 1Y, or ALL (default from config, else 1M)")
	historyCmd.Flags().IntVar(&histOffset, "offset", 0, "shift the range by whole periods (-1 = previous)")
	historyCmd.Flags().StringVar(&histAt, "at", "", "show the range containing this date (YYYY-MM-DD)")
	historyCmd.Flags().BoolVar(&histJSON, "json", false, "print rows and chart series as JSON")

	rootCmd.AddCommand(statusCmd, historyCmd, weeksCmd, calendarCmd)
}
