// ABOUTME: Plan lifecycle: create, edit, delete, exclusive activation, and legacy migration.
// ABOUTME: Every operation takes the full plan list and returns a new one.
package plans

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/models"
)

// DefaultPlanName names the plan synthesized from a legacy profile.
const DefaultPlanName = "My Goal"

// Validation rules, checked in this order.
var (
	ErrMissingFields       = errors.New("name, start date, target date, and target weight are required")
	ErrTargetBeforeStart   = errors.New("target date must be on or after the start date")
	ErrTargetInPast        = errors.New("target date cannot be in the past")
	ErrInvalidTargetWeight = errors.New("target weight must be greater than 0")
)

// ValidationError reports the first rule a plan input violated.
type ValidationError struct {
	Rule error
}

func (e *ValidationError) Error() string {
	return "invalid plan: " + e.Rule.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Rule
}

// Input carries the user-editable fields of a plan. Zero values mean "not provided".
type Input struct {
	Name         string
	StartDate    time.Time
	TargetDate   time.Time
	TargetWeight float64
	Notes        string
}

// Validate checks in a fixed order and returns a *ValidationError for the
// first failing rule. The past-date rule only applies to new plans.
func (in Input) Validate(isNew bool, now time.Time) error {
	if strings.TrimSpace(in.Name) == "" || in.StartDate.IsZero() || in.TargetDate.IsZero() || in.TargetWeight == 0 {
		return &ValidationError{Rule: ErrMissingFields}
	}
	if calendar.DaysBetween(in.StartDate, in.TargetDate) < 0 {
		return &ValidationError{Rule: ErrTargetBeforeStart}
	}
	if isNew && calendar.DaysBetween(now, in.TargetDate) < 0 {
		return &ValidationError{Rule: ErrTargetInPast}
	}
	if in.TargetWeight <= 0 {
		return &ValidationError{Rule: ErrInvalidTargetWeight}
	}
	return nil
}

// Create validates in and appends a new plan. The first plan in an empty
// list becomes active; otherwise activation is left unchanged.
func Create(list []models.Plan, in Input, now time.Time) ([]models.Plan, models.Plan, error) {
	if err := in.Validate(true, now); err != nil {
		return list, models.Plan{}, err
	}

	p := models.Plan{
		ID:           models.NewID(),
		Name:         strings.TrimSpace(in.Name),
		StartDate:    in.StartDate,
		TargetWeight: in.TargetWeight,
		TargetDate:   in.TargetDate,
		IsActive:     len(list) == 0,
		Notes:        in.Notes,
	}

	out := make([]models.Plan, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, p)
	return out, p, nil
}

// Edit replaces the plan matching idOrPrefix, keeping its ID and active flag.
func Edit(list []models.Plan, idOrPrefix string, in Input, now time.Time) ([]models.Plan, models.Plan, error) {
	idx, err := Find(list, idOrPrefix)
	if err != nil {
		return list, models.Plan{}, err
	}
	if err := in.Validate(false, now); err != nil {
		return list, models.Plan{}, err
	}

	out := clone(list)
	out[idx] = models.Plan{
		ID:           list[idx].ID,
		Name:         strings.TrimSpace(in.Name),
		StartDate:    in.StartDate,
		TargetWeight: in.TargetWeight,
		TargetDate:   in.TargetDate,
		IsActive:     list[idx].IsActive,
		Notes:        in.Notes,
	}
	return out, out[idx], nil
}

// Delete removes the plan matching idOrPrefix. No other plan is activated.
func Delete(list []models.Plan, idOrPrefix string) ([]models.Plan, models.Plan, error) {
	idx, err := Find(list, idOrPrefix)
	if err != nil {
		return list, models.Plan{}, err
	}
	removed := list[idx]
	out := make([]models.Plan, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out, removed, nil
}

// SetActive marks the plan with id active and every other plan inactive.
// An unknown id leaves all plans inactive.
func SetActive(list []models.Plan, id string) []models.Plan {
	out := clone(list)
	for i := range out {
		out[i].IsActive = out[i].ID == id
	}
	return out
}

// Active returns a copy of the active plan, or nil.
func Active(list []models.Plan) *models.Plan {
	for i := range list {
		if list[i].IsActive {
			p := list[i]
			return &p
		}
	}
	return nil
}

// Find returns the index of the plan whose ID matches idOrPrefix.
func Find(list []models.Plan, idOrPrefix string) (int, error) {
	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	idx, err := models.ResolveID(ids, idOrPrefix)
	if err != nil {
		return -1, fmt.Errorf("plan %w", err)
	}
	return idx, nil
}

// MigrateLegacy converts a stored profile into the current shape.
//
// A legacy profile gets an empty plan list, plus one active plan built from
// its target weight and date when both are present. A current profile is
// returned unchanged, so running the conversion on every load is safe.
func MigrateLegacy(stored models.StoredProfile, now time.Time) (models.Profile, bool) {
	switch sp := stored.(type) {
	case *models.CurrentProfile:
		p := sp.Profile
		if p.Plans == nil {
			p.Plans = []models.Plan{}
		}
		return p, false
	case *models.LegacyProfile:
		p := sp.Profile
		p.Plans = []models.Plan{}
		if sp.TargetWeight != nil && sp.TargetDate != nil {
			p.Plans = append(p.Plans, models.Plan{
				ID:           models.NewID(),
				Name:         DefaultPlanName,
				StartDate:    now,
				TargetWeight: *sp.TargetWeight,
				TargetDate:   *sp.TargetDate,
				IsActive:     true,
			})
		}
		return p, true
	}
	return models.Profile{Plans: []models.Plan{}}, false
}

func clone(list []models.Plan) []models.Plan {
	out := make([]models.Plan, len(list))
	copy(out, list)
	return out
}
