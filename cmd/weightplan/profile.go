// ABOUTME: CLI commands for creating, viewing, and updating the profile.
// ABOUTME: init seeds the weight log with the starting weight.
package main

import (
	"fmt"
	"io"

	"github.com/harperreed/weightplan/internal/calc"
	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	profHeight   float64
	profWeight   float64
	profAge      int
	profGender   string
	profActivity string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create your profile",
	Long: `Create your profile from your biometrics. Your current weight becomes the
first entry in your weight log.

ACTIVITY LEVELS:

  sedentary   Little or no exercise (x1.2)
  light       Light exercise 1-3 days/week (x1.375)
  moderate    Moderate exercise 3-5 days/week (x1.55)
  very        Hard exercise 6-7 days/week (x1.725)
  extra       Very hard exercise and a physical job (x1.9)

EXAMPLES:

  weightplan init --height 165 --weight 70 --age 29 --gender female --activity light`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gender, err := models.ParseGender(profGender)
		if err != nil {
			return err
		}
		level, err := models.ParseActivityLevel(profActivity)
		if err != nil {
			return err
		}

		state, err := tr.InitProfile(models.Profile{
			Height:        profHeight,
			CurrentWeight: profWeight,
			Age:           profAge,
			Gender:        gender,
			ActivityLevel: level,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		green.Fprintln(out, "✓ Profile created")
		printProfile(out, &state.Profile)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Next: create a plan with 'weightplan plan add'.")
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "Show your profile",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := tr.Load()
		if err != nil {
			return err
		}
		printProfile(cmd.OutOrStdout(), &state.Profile)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile biometrics",
	Long: `Update one or more profile fields. Only the flags you pass change.
Current weight follows your weight log and cannot be set here.

EXAMPLES:

  weightplan profile set --age 35
  weightplan profile set --activity very --height 179`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var u tracker.ProfileUpdate
		flags := cmd.Flags()
		if flags.Changed("height") {
			u.Height = &profHeight
		}
		if flags.Changed("age") {
			u.Age = &profAge
		}
		if flags.Changed("gender") {
			g, err := models.ParseGender(profGender)
			if err != nil {
				return err
			}
			u.Gender = &g
		}
		if flags.Changed("activity") {
			lvl, err := models.ParseActivityLevel(profActivity)
			if err != nil {
				return err
			}
			u.ActivityLevel = &lvl
		}
		if u == (tracker.ProfileUpdate{}) {
			return fmt.Errorf("nothing to update (use --height, --age, --gender, or --activity)")
		}

		p, err := tr.UpdateProfile(u)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		green.Fprintln(out, "✓ Profile updated")
		printProfile(out, p)
		return nil
	},
}

func printProfile(out io.Writer, p *models.Profile) {
	fmt.Fprintf(out, "  Height:    %.1f cm\n", p.Height)
	fmt.Fprintf(out, "  Weight:    %.1f kg\n", p.CurrentWeight)
	fmt.Fprintf(out, "  Age:       %d\n", p.Age)
	fmt.Fprintf(out, "  Gender:    %s\n", p.Gender)
	fmt.Fprintf(out, "  Activity:  %s %s\n", p.ActivityLevel,
		faint.Sprintf("(%s)", calc.ActivityDescription(p.ActivityLevel)))
	if bmi, err := calc.BMI(p.Height, p.CurrentWeight); err == nil {
		fmt.Fprintf(out, "  BMI:       %.1f %s\n", bmi, faint.Sprintf("(%s)", calc.BMICategory(bmi)))
	}
	fmt.Fprintf(out, "  Plans:     %d\n", len(p.Plans))
}

func addProfileFlags(cmd *cobra.Command, withWeight bool) {
	cmd.Flags().Float64Var(&profHeight, "height", 0, "height in cm")
	if withWeight {
		cmd.Flags().Float64Var(&profWeight, "weight", 0, "current weight in kg")
	}
	cmd.Flags().IntVar(&profAge, "age", 0, "age in years")
	cmd.Flags().StringVar(&profGender, "gender", "", "male or female")
	cmd.Flags().StringVar(&profActivity, "activity", "", "sedentary, light, moderate, very, or extra")
}

func init() {
	addProfileFlags(initCmd, true)
	for _, name := range []string{"height", "weight", "age", "gender", "activity"} {
		_ = initCmd.MarkFlagRequired(name)
	}
	addProfileFlags(profileSetCmd, false)

	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(profileCmd)
}
