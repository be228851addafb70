// ABOUTME: CLI commands for weight plans: add, edit, list, activate, delete.
// ABOUTME: Exactly one plan is active; calorie targets follow it.
package main

import (
	"fmt"
	"io"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/plans"
	"github.com/spf13/cobra"
)

var (
	planName         string
	planStart        string
	planTargetDate   string
	planTargetWeight float64
	planNotes        string
	planActivate     bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage weight plans",
	Long: `Manage weight plans. A plan is a named goal: a target weight by a target date.

The first plan you create becomes active. Activating another plan
deactivates the rest. Deleting the active plan leaves none active.

COMMANDS:

  add             Create a plan
  edit <id>       Change a plan's name, dates, target, or notes
  list            Show all plans
  activate <id>   Make a plan the active one
  delete <id>     Remove a plan`,
}

var planAddCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Create a plan",
	Long: `Create a plan. The start date defaults to today and the name to "My Goal".

EXAMPLES:

  weightplan plan add --target-weight 78 --target-date 2025-10-01
  weightplan plan add --name "Bulk" --target-weight 90 --target-date 2026-01-15 --activate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := planName
		if name == "" {
			name = plans.DefaultPlanName
		}
		in := plans.Input{
			Name:         name,
			TargetWeight: planTargetWeight,
			Notes:        planNotes,
			StartDate:    calendar.Day(tr.Now()),
		}
		if err := applyPlanDates(&in); err != nil {
			return err
		}

		p, err := tr.CreatePlan(in, planActivate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Created plan %q\n", p.Name)
		printPlan(out, p)
		return nil
	},
}

var planEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a plan",
	Long: `Edit a plan. Only the flags you pass change. Unlike new plans, an edited
plan may keep a target date in the past.

EXAMPLES:

  weightplan plan edit 9b1c --target-weight 76.5
  weightplan plan edit 9b1c --name "Autumn Cut" --target-date 2025-11-30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := tr.Plans()
		if err != nil {
			return err
		}
		idx, err := plans.Find(list, args[0])
		if err != nil {
			return fmt.Errorf("plan %w", err)
		}
		cur := list[idx]

		in := plans.Input{
			Name:         cur.Name,
			StartDate:    cur.StartDate,
			TargetDate:   cur.TargetDate,
			TargetWeight: cur.TargetWeight,
			Notes:        cur.Notes,
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			in.Name = planName
		}
		if flags.Changed("target-weight") {
			in.TargetWeight = planTargetWeight
		}
		if flags.Changed("notes") {
			in.Notes = planNotes
		}
		if err := applyPlanDates(&in); err != nil {
			return err
		}

		p, err := tr.EditPlan(cur.ID, in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Updated plan %q\n", p.Name)
		printPlan(out, p)
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List plans",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := tr.Plans()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No plans yet. Create one with 'weightplan plan add'.")
			return nil
		}
		for _, p := range list {
			marker := "  "
			if p.IsActive {
				marker = green.Sprint("* ")
			}
			fmt.Fprintf(out, "%s%s %s %s → %s  %.1f kg\n",
				marker,
				shortID(p.ID),
				padRight(truncate(p.Name, 24), 24),
				p.StartDate.Format(calendar.ISODate),
				p.TargetDate.Format(calendar.ISODate),
				p.TargetWeight)
		}
		return nil
	},
}

var planActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Make a plan the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := tr.ActivatePlan(args[0])
		if err != nil {
			return err
		}
		green.Fprintf(cmd.OutOrStdout(), "✓ Active plan: %s %s\n", p.Name, shortID(p.ID))
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a plan",
	Long: `Delete a plan by ID or unique ID prefix. Deleting the active plan
leaves no plan active until you activate another.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := tr.DeletePlan(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		yellow.Fprintf(out, "✗ Deleted plan %q\n", p.Name)
		if p.IsActive {
			fmt.Fprintln(out, "No plan is active now. Use 'weightplan plan activate <id>'.")
		}
		return nil
	},
}

// applyPlanDates overrides in's dates from the --start and --target-date flags.
func applyPlanDates(in *plans.Input) error {
	if planStart != "" {
		t, err := parseTime(planStart)
		if err != nil {
			return fmt.Errorf("invalid start date: %s", planStart)
		}
		in.StartDate = t
	}
	if planTargetDate != "" {
		t, err := parseTime(planTargetDate)
		if err != nil {
			return fmt.Errorf("invalid target date: %s", planTargetDate)
		}
		in.TargetDate = t
	}
	return nil
}

func printPlan(out io.Writer, p models.Plan) {
	status := faint.Sprint("inactive")
	if p.IsActive {
		status = green.Sprint("active")
	}
	fmt.Fprintf(out, "  %s %s → %s, target %.1f kg (%s)\n",
		shortID(p.ID),
		p.StartDate.Format(calendar.ISODate),
		p.TargetDate.Format(calendar.ISODate),
		p.TargetWeight,
		status)
	if p.Notes != "" {
		fmt.Fprintf(out, "  %s\n", faint.Sprint(truncate(p.Notes, 60)))
	}
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&planName, "name", "", "plan name")
	cmd.Flags().StringVar(&planStart, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&planTargetDate, "target-date", "", "target date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&planTargetWeight, "target-weight", 0, "target weight in kg")
	cmd.Flags().StringVar(&planNotes, "notes", "", "free-form notes")
}

func init() {
	addPlanFlags(planAddCmd)
	planAddCmd.Flags().BoolVar(&planActivate, "activate", false, "make this the active plan")
	addPlanFlags(planEditCmd)

	planCmd.AddCommand(planAddCmd, planEditCmd, planListCmd, planActivateCmd, planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
