// ABOUTME: Profile model with Gender and ActivityLevel enums.
// ABOUTME: Holds biometrics plus the ordered list of goal plans.
package models

import (
	"fmt"
	"strings"
)

// Gender selects the sex constant of the BMR equation.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts "male"/"female" in any case, plus "m"/"f".
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	}
	return "", fmt.Errorf("unknown gender: %s (use male or female)", s)
}

// ActivityLevel is one of five ordered activity buckets.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityVery      ActivityLevel = "very"
	ActivityExtra     ActivityLevel = "extra"
)

// AllActivityLevels lists the levels from least to most active.
var AllActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLight, ActivityModerate, ActivityVery, ActivityExtra,
}

// legacyActivityNames maps the display names older profiles stored.
var legacyActivityNames = map[string]ActivityLevel{
	"sedentary":         ActivitySedentary,
	"lightly active":    ActivityLight,
	"moderately active": ActivityModerate,
	"very active":       ActivityVery,
	"extra active":      ActivityExtra,
}

// ParseActivityLevel accepts a level key or its legacy display name.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, lvl := range AllActivityLevels {
		if string(lvl) == key {
			return lvl, nil
		}
	}
	if lvl, ok := legacyActivityNames[key]; ok {
		return lvl, nil
	}
	return "", fmt.Errorf("unknown activity level: %s (use sedentary, light, moderate, very, or extra)", s)
}

// Profile is the single person being tracked.
type Profile struct {
	Height        float64       `json:"height"`        // cm
	CurrentWeight float64       `json:"currentWeight"` // kg
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Plans         []Plan        `json:"plans"`
}

// Validate checks the biometric bounds collected at onboarding.
func (p *Profile) Validate() error {
	switch {
	case p.Height <= 0:
		return fmt.Errorf("height must be greater than 0")
	case p.CurrentWeight <= 0:
		return fmt.Errorf("current weight must be greater than 0")
	case p.Age <= 0:
		return fmt.Errorf("age must be greater than 0")
	}
	if _, err := ParseGender(string(p.Gender)); err != nil {
		return err
	}
	if _, err := ParseActivityLevel(string(p.ActivityLevel)); err != nil {
		return err
	}
	return nil
}
