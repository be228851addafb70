// ABOUTME: Metabolic calculator: BMR, TDEE, and the daily calorie target for a plan.
// ABOUTME: Pure functions; the caller supplies "now" so results are reproducible.
package calc

import (
	"math"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/models"
)

const (
	// CaloriesPerKg is the energy content of one kilogram of body fat.
	CaloriesPerKg = 7700.0
	// MaxWeeklyChangeKg is the fastest pace still considered realistic.
	MaxWeeklyChangeKg = 1.0
	// MinLossCalories is the daily intake floor for a realistic loss plan.
	MinLossCalories = 1200.0
)

// ActivityMultipliers maps each activity level to its TDEE factor.
var ActivityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary: 1.2,
	models.ActivityLight:     1.375,
	models.ActivityModerate:  1.55,
	models.ActivityVery:      1.725,
	models.ActivityExtra:     1.9,
}

var activityDescriptions = map[models.ActivityLevel]string{
	models.ActivitySedentary: "Little or no exercise, desk job",
	models.ActivityLight:     "Light exercise or sports 1-3 days/week",
	models.ActivityModerate:  "Moderate exercise or sports 3-5 days/week",
	models.ActivityVery:      "Hard exercise or sports 6-7 days/week",
	models.ActivityExtra:     "Very hard exercise, physical job, or training 2x/day",
}

// ActivityDescription returns a short human description of an activity level.
func ActivityDescription(level models.ActivityLevel) string {
	return activityDescriptions[level]
}

// PlanMode is the direction a plan moves body weight.
type PlanMode string

const (
	ModeLoss     PlanMode = "loss"
	ModeGain     PlanMode = "gain"
	ModeMaintain PlanMode = "maintain"
)

// Result is the derived calorie plan for a profile and its active plan.
type Result struct {
	BMR                  float64  `json:"bmr"`
	TDEE                 float64  `json:"tdee"`
	DailyDeficitRequired float64  `json:"dailyDeficitRequired"` // kcal, magnitude
	DailyCalorieTarget   float64  `json:"dailyCalorieTarget"`
	WeeklyChangeRequired float64  `json:"weeklyChangeRequired"` // kg
	IsRealistic          bool     `json:"isRealistic"`
	DaysRemaining        int      `json:"daysRemaining"`
	PlanMode             PlanMode `json:"planMode"`
	CurrentWeight        float64  `json:"currentWeight"`
}

// BMR uses the Mifflin-St Jeor equation. Inputs are not range-checked.
func BMR(weight, height float64, age int, gender models.Gender) float64 {
	s := -161.0
	if gender == models.GenderMale {
		s = 5
	}
	return 10*weight + 6.25*height - 5*float64(age) + s
}

// TDEE scales a BMR by the activity level's multiplier.
// Unknown levels fall back to sedentary.
func TDEE(bmr float64, level models.ActivityLevel) float64 {
	mult, ok := ActivityMultipliers[level]
	if !ok {
		mult = ActivityMultipliers[models.ActivitySedentary]
	}
	return bmr * mult
}

// EffectiveWeight is the newest log's weight, or the profile's stored value
// when no log exists.
func EffectiveWeight(profile *models.Profile, logs []models.WeightLog) float64 {
	if latest := models.LatestLog(logs); latest != nil {
		return latest.Weight
	}
	return profile.CurrentWeight
}

// CalculateDeficit computes the calorie target needed to reach plan by its
// target date. It returns nil when plan is nil.
//
// A plan whose target date is today or earlier, or whose target equals the
// current weight, yields a zero-change result at maintenance calories.
// PlanMode still reports the direction of the target in that case, so a
// lapsed loss plan reads ModeLoss with zero deficit and DaysRemaining 0.
// Loss plans are realistic when the weekly pace is at most 1 kg and the
// target stays above 1200 kcal. Gain plans only check the weekly pace; there
// is no calorie ceiling for gains.
func CalculateDeficit(profile *models.Profile, logs []models.WeightLog, plan *models.Plan, now time.Time) *Result {
	if profile == nil || plan == nil {
		return nil
	}

	current := EffectiveWeight(profile, logs)
	bmr := BMR(current, profile.Height, profile.Age, profile.Gender)
	tdee := TDEE(bmr, profile.ActivityLevel)
	days := calendar.DaysBetween(now, plan.TargetDate)

	mode := ModeMaintain
	switch {
	case plan.TargetWeight < current:
		mode = ModeLoss
	case plan.TargetWeight > current:
		mode = ModeGain
	}

	res := &Result{
		BMR:                bmr,
		TDEE:               tdee,
		DailyCalorieTarget: tdee,
		IsRealistic:        true,
		PlanMode:           mode,
		CurrentWeight:      current,
	}
	if days <= 0 || mode == ModeMaintain {
		return res
	}

	totalChange := math.Abs(current - plan.TargetWeight)
	daily := totalChange * CaloriesPerKg / float64(days)

	res.DaysRemaining = days
	res.DailyDeficitRequired = daily
	res.WeeklyChangeRequired = totalChange / (float64(days) / 7)
	if mode == ModeLoss {
		res.DailyCalorieTarget = tdee - daily
		res.IsRealistic = res.WeeklyChangeRequired <= MaxWeeklyChangeKg && res.DailyCalorieTarget > MinLossCalories
	} else {
		res.DailyCalorieTarget = tdee + daily
		res.IsRealistic = res.WeeklyChangeRequired <= MaxWeeklyChangeKg
	}
	return res
}
