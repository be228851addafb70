// ABOUTME: Tests for plan lifecycle operations and legacy migration.
// ABOUTME: Covers validation order, exclusive activation, and migration idempotency.
package plans

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/weightplan/internal/models"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func validInput() Input {
	return Input{
		Name:         "Summer cut",
		StartDate:    now,
		TargetDate:   now.AddDate(0, 0, 60),
		TargetWeight: 75,
	}
}

func TestCreateFirstPlanIsActive(t *testing.T) {
	list, p, err := Create(nil, validInput(), now)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(list) != 1 || !list[0].IsActive || !p.IsActive {
		t.Fatalf("first plan should be active: %+v", list)
	}
	if p.ID == "" {
		t.Error("expected ID to be assigned")
	}

	in := validInput()
	in.Name = "Bulk"
	list, p2, err := Create(list, in, now)
	if err != nil {
		t.Fatalf("Create second failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if p2.IsActive || list[1].IsActive {
		t.Error("second plan should not be auto-activated")
	}
	if !list[0].IsActive {
		t.Error("first plan should remain active")
	}
}

func TestCreateAfterAllDeletedActivates(t *testing.T) {
	list, _, _ := Create(nil, validInput(), now)
	list, _, _ = Delete(list, list[0].ID)
	list, p, err := Create(list, validInput(), now)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsActive || !list[0].IsActive {
		t.Error("plan created into an empty list should be active")
	}
}

func TestValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		mut  func(in *Input)
		want error
	}{
		{"missing name", func(in *Input) { in.Name = "  " }, ErrMissingFields},
		{"missing target date", func(in *Input) { in.TargetDate = time.Time{} }, ErrMissingFields},
		{"missing weight", func(in *Input) { in.TargetWeight = 0 }, ErrMissingFields},
		{
			"missing beats ordering",
			func(in *Input) { in.Name = ""; in.TargetDate = now.AddDate(0, 0, -90) },
			ErrMissingFields,
		},
		{"target before start", func(in *Input) { in.TargetDate = now.AddDate(0, 0, -1) }, ErrTargetBeforeStart},
		{
			"ordering beats past date",
			func(in *Input) { in.StartDate = now.AddDate(0, 0, -10); in.TargetDate = now.AddDate(0, 0, -20) },
			ErrTargetBeforeStart,
		},
		{
			"past target date",
			func(in *Input) { in.StartDate = now.AddDate(0, 0, -30); in.TargetDate = now.AddDate(0, 0, -1) },
			ErrTargetInPast,
		},
		{
			"past date beats weight bound",
			func(in *Input) {
				in.StartDate = now.AddDate(0, 0, -30)
				in.TargetDate = now.AddDate(0, 0, -1)
				in.TargetWeight = -5
			},
			ErrTargetInPast,
		},
		{"negative weight", func(in *Input) { in.TargetWeight = -70 }, ErrInvalidTargetWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mut(&in)
			list := []models.Plan{{ID: "keep", Name: "Existing", IsActive: true}}

			got, _, err := Create(list, in, now)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Create() error = %v, want %v", err, tt.want)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
			if len(got) != 1 || got[0].ID != "keep" {
				t.Errorf("list mutated on validation failure: %+v", got)
			}
		})
	}
}

func TestTargetDateTodayIsAllowed(t *testing.T) {
	in := validInput()
	in.StartDate = now.AddDate(0, 0, -7)
	in.TargetDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if _, _, err := Create(nil, in, now); err != nil {
		t.Errorf("target date of today rejected: %v", err)
	}
}

func TestEditWaivesPastDateAndKeepsActive(t *testing.T) {
	list, p, _ := Create(nil, validInput(), now)

	in := Input{
		Name:         "Renamed",
		StartDate:    now.AddDate(0, 0, -60),
		TargetDate:   now.AddDate(0, 0, -1),
		TargetWeight: 72,
	}
	later := now.AddDate(0, 0, 1)
	got, edited, err := Edit(list, p.ID, in, later)
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if edited.ID != p.ID || edited.Name != "Renamed" || edited.TargetWeight != 72 {
		t.Errorf("unexpected edited plan: %+v", edited)
	}
	if !got[0].IsActive {
		t.Error("Edit should preserve IsActive")
	}
	if list[0].Name != "Summer cut" {
		t.Error("Edit mutated its input")
	}
}

func TestEditValidationAndNotFound(t *testing.T) {
	list, p, _ := Create(nil, validInput(), now)

	in := validInput()
	in.TargetDate = in.StartDate.AddDate(0, 0, -1)
	if _, _, err := Edit(list, p.ID, in, now); !errors.Is(err, ErrTargetBeforeStart) {
		t.Errorf("expected ErrTargetBeforeStart, got %v", err)
	}
	if _, _, err := Edit(list, "nope", validInput(), now); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteActiveLeavesNoneActive(t *testing.T) {
	list, first, _ := Create(nil, validInput(), now)
	list, _, _ = Create(list, validInput(), now)

	got, removed, err := Delete(list, first.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed.ID != first.ID {
		t.Errorf("removed wrong plan")
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if Active(got) != nil {
		t.Error("no plan should be auto-activated after deleting the active one")
	}
	if _, _, err := Delete(got, first.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetActiveExclusive(t *testing.T) {
	states := [][]bool{
		{false, false, false},
		{true, false, false},
		{true, true, true},
		{false, true, true},
	}

	for _, state := range states {
		list := make([]models.Plan, len(state))
		for i, active := range state {
			list[i] = models.Plan{ID: string(rune('a' + i)), IsActive: active}
		}
		for _, target := range []string{"a", "b", "c"} {
			got := SetActive(list, target)
			count := 0
			for _, p := range got {
				if p.IsActive {
					count++
					if p.ID != target {
						t.Errorf("plan %s active, want %s", p.ID, target)
					}
				}
			}
			if count != 1 {
				t.Errorf("state %v target %s: %d active plans, want 1", state, target, count)
			}
		}
	}
}

func TestSetActiveUnknownDeactivatesAll(t *testing.T) {
	list := []models.Plan{{ID: "a", IsActive: true}, {ID: "b"}}
	got := SetActive(list, "zzz")
	if Active(got) != nil {
		t.Error("unknown id should leave every plan inactive")
	}
	if !list[0].IsActive {
		t.Error("SetActive mutated its input")
	}
}

func TestMigrateLegacyWithTarget(t *testing.T) {
	w := 72.5
	d := now.AddDate(0, 3, 0)
	legacy := &models.LegacyProfile{
		Profile:      models.Profile{Height: 180, CurrentWeight: 85, Age: 40, Gender: models.GenderMale, ActivityLevel: models.ActivityLight},
		TargetWeight: &w,
		TargetDate:   &d,
	}

	p, migrated := MigrateLegacy(legacy, now)
	if !migrated {
		t.Error("expected migrated = true")
	}
	if len(p.Plans) != 1 {
		t.Fatalf("len(Plans) = %d, want 1", len(p.Plans))
	}
	plan := p.Plans[0]
	if plan.Name != DefaultPlanName || !plan.IsActive || plan.TargetWeight != w || !plan.TargetDate.Equal(d) || !plan.StartDate.Equal(now) {
		t.Errorf("unexpected migrated plan: %+v", plan)
	}
	if p.Height != 180 || p.CurrentWeight != 85 {
		t.Error("biometrics lost during migration")
	}
}

func TestMigrateLegacyWithoutTarget(t *testing.T) {
	p, migrated := MigrateLegacy(&models.LegacyProfile{Profile: models.Profile{Height: 170}}, now)
	if !migrated {
		t.Error("expected migrated = true")
	}
	if p.Plans == nil || len(p.Plans) != 0 {
		t.Errorf("expected empty, non-nil plan list, got %#v", p.Plans)
	}
}

func TestMigrateLegacyIdempotent(t *testing.T) {
	w := 70.0
	d := now.AddDate(0, 2, 0)
	legacy := &models.LegacyProfile{Profile: models.Profile{Height: 170}, TargetWeight: &w, TargetDate: &d}

	once, _ := MigrateLegacy(legacy, now)
	twice, migrated := MigrateLegacy(&models.CurrentProfile{Profile: once}, now.AddDate(0, 0, 5))

	if migrated {
		t.Error("second run should be a no-op")
	}
	if len(twice.Plans) != len(once.Plans) || twice.Plans[0] != once.Plans[0] {
		t.Errorf("second migration changed plans: %+v vs %+v", twice.Plans, once.Plans)
	}
}

func TestActive(t *testing.T) {
	if Active(nil) != nil {
		t.Error("Active(nil) should be nil")
	}
	list := []models.Plan{{ID: "a"}, {ID: "b", IsActive: true}}
	if got := Active(list); got == nil || got.ID != "b" {
		t.Errorf("Active = %+v, want b", got)
	}
}
