// ABOUTME: Storage-boundary shapes of a profile: legacy single-goal or current multi-plan.
// ABOUTME: Backends decode into StoredProfile; plans.MigrateLegacy converts it to a Profile.
package models

import "time"

// StoredProfile is either a *LegacyProfile or a *CurrentProfile.
type StoredProfile interface {
	storedProfile()
}

// LegacyProfile is the pre-plans schema that carried one target pair.
// Its Plans field is never populated; detection is by the missing list.
type LegacyProfile struct {
	Profile      Profile
	TargetWeight *float64
	TargetDate   *time.Time
}

// CurrentProfile is a profile already carrying a plan list.
type CurrentProfile struct {
	Profile Profile
}

func (*LegacyProfile) storedProfile()  {}
func (*CurrentProfile) storedProfile() {}
