// ABOUTME: Tests for the tracker's load/migrate/mutate/save orchestration.
// ABOUTME: Uses the in-memory repository and a fixed clock.
package tracker

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/weightplan/internal/export"
	"github.com/harperreed/weightplan/internal/history"
	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/plans"
	"github.com/harperreed/weightplan/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*Tracker, *storage.MemoryStore) {
	t.Helper()
	repo := storage.NewMemoryStore()
	return New(repo, WithClock(func() time.Time { return fixedNow })), repo
}

func onboard(t *testing.T, tr *Tracker) {
	t.Helper()
	_, err := tr.InitProfile(models.Profile{
		Height:        175,
		CurrentWeight: 80,
		Age:           30,
		Gender:        "M",
		ActivityLevel: "Moderately Active",
	})
	require.NoError(t, err)
}

func goal(name string, weight float64) plans.Input {
	return plans.Input{
		Name:         name,
		StartDate:    fixedNow,
		TargetDate:   fixedNow.AddDate(0, 0, 70),
		TargetWeight: weight,
	}
}

func TestLoadWithoutProfile(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, err := tr.Load()
	assert.ErrorIs(t, err, storage.ErrNoProfile)
}

func TestInitProfile(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)

	s, err := tr.Load()
	require.NoError(t, err)
	assert.Equal(t, models.GenderMale, s.Profile.Gender)
	assert.Equal(t, models.ActivityModerate, s.Profile.ActivityLevel)
	require.Len(t, s.Logs, 1)
	assert.Equal(t, 80.0, s.Logs[0].Weight)
	assert.True(t, s.Logs[0].Date.Equal(fixedNow))

	_, err = tr.InitProfile(models.Profile{Height: 1, CurrentWeight: 1, Age: 1, Gender: "male", ActivityLevel: "light"})
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestInitProfileRejectsInvalid(t *testing.T) {
	tr, repo := newTestTracker(t)
	_, err := tr.InitProfile(models.Profile{Height: 0, CurrentWeight: 80, Age: 30, Gender: "male", ActivityLevel: "light"})
	assert.Error(t, err)

	empty, err := storage.IsEmpty(repo)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestLoadMigratesLegacyProfile(t *testing.T) {
	tr, repo := newTestTracker(t)
	repo.SetRawProfile([]byte(`{"height":170,"currentWeight":90,"age":40,"gender":"female","activityLevel":"sedentary","targetWeight":80,"targetDate":"2025-12-01T00:00:00Z"}`))

	s, err := tr.Load()
	require.NoError(t, err)
	require.Len(t, s.Profile.Plans, 1)
	p := s.Profile.Plans[0]
	assert.Equal(t, plans.DefaultPlanName, p.Name)
	assert.True(t, p.IsActive)
	assert.True(t, p.StartDate.Equal(fixedNow))

	// The upgraded document was written back, so a second load keeps the ID.
	stored, err := repo.LoadProfile()
	require.NoError(t, err)
	assert.IsType(t, &models.CurrentProfile{}, stored)
	s2, err := tr.Load()
	require.NoError(t, err)
	assert.Equal(t, p.ID, s2.Profile.Plans[0].ID)
}

func TestSubmitLogSameDayUpsert(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)

	first, err := tr.SubmitLog(79.4, fixedNow.Add(2*time.Hour))
	require.NoError(t, err)

	s, err := tr.Load()
	require.NoError(t, err)
	require.Len(t, s.Logs, 1, "same-day log should overwrite the seed")
	assert.Equal(t, first.ID, s.Logs[0].ID)
	assert.Equal(t, 79.4, s.Logs[0].Weight)
	assert.Equal(t, 79.4, s.Profile.CurrentWeight)

	_, err = tr.SubmitLog(79.0, fixedNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	s, err = tr.Load()
	require.NoError(t, err)
	assert.Len(t, s.Logs, 2)
	assert.Equal(t, 79.0, s.Profile.CurrentWeight)
}

func TestSubmitLogRejectsInvalidWeight(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)

	_, err := tr.SubmitLog(0, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestEditAndDeleteLog(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)
	older, err := tr.SubmitLog(81, fixedNow.AddDate(0, 0, -3))
	require.NoError(t, err)

	w := 81.5
	edited, err := tr.EditLog(models.ShortID(older.ID), LogEdit{Weight: &w})
	require.NoError(t, err)
	assert.Equal(t, older.ID, edited.ID)
	assert.Equal(t, 81.5, edited.Weight)

	logs, err := tr.Logs(0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	newest := logs[0]

	_, err = tr.DeleteLog(newest.ID)
	require.NoError(t, err)
	s, err := tr.Load()
	require.NoError(t, err)
	assert.Equal(t, 81.5, s.Profile.CurrentWeight, "current weight follows the newest remaining log")

	_, err = tr.DeleteLog("nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLogsNewestFirstWithLimit(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)
	for i := 1; i <= 3; i++ {
		_, err := tr.SubmitLog(80-float64(i)/10, fixedNow.AddDate(0, 0, -i))
		require.NoError(t, err)
	}

	logs, err := tr.Logs(2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].Date.After(logs[1].Date))
}

func TestPlanLifecycle(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)

	cut, err := tr.CreatePlan(goal("Cut", 75), false)
	require.NoError(t, err)
	assert.True(t, cut.IsActive, "first plan becomes active")

	bulk, err := tr.CreatePlan(goal("Bulk", 85), false)
	require.NoError(t, err)
	assert.False(t, bulk.IsActive)

	_, err = tr.ActivatePlan(models.ShortID(bulk.ID))
	require.NoError(t, err)
	list, err := tr.Plans()
	require.NoError(t, err)
	active := 0
	for _, p := range list {
		if p.IsActive {
			active++
			assert.Equal(t, bulk.ID, p.ID)
		}
	}
	assert.Equal(t, 1, active)

	in := goal("Lean Bulk", 83)
	edited, err := tr.EditPlan(bulk.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Lean Bulk", edited.Name)
	assert.True(t, edited.IsActive)

	_, err = tr.DeletePlan(bulk.ID)
	require.NoError(t, err)
	s, err := tr.Load()
	require.NoError(t, err)
	assert.Nil(t, s.ActivePlan(), "deleting the active plan leaves none active")
	assert.Len(t, s.Profile.Plans, 1)
}

func TestCreatePlanActivateFlag(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)
	first, err := tr.CreatePlan(goal("A", 75), false)
	require.NoError(t, err)
	second, err := tr.CreatePlan(goal("B", 74), true)
	require.NoError(t, err)
	assert.True(t, second.IsActive)

	s, err := tr.Load()
	require.NoError(t, err)
	assert.Equal(t, second.ID, s.ActivePlan().ID)
	assert.NotEqual(t, first.ID, s.ActivePlan().ID)
}

func TestCreatePlanValidation(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)

	in := goal("Past", 75)
	in.StartDate = fixedNow.AddDate(0, 0, -30)
	in.TargetDate = fixedNow.AddDate(0, 0, -1)
	_, err := tr.CreatePlan(in, false)
	assert.ErrorIs(t, err, plans.ErrTargetInPast)

	list, err := tr.Plans()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSummary(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)

	sum, err := tr.Summary()
	require.NoError(t, err)
	assert.Nil(t, sum.Result)
	assert.InDelta(t, 26.12, sum.BMI, 0.01)

	_, err = tr.CreatePlan(goal("Cut", 75), false)
	require.NoError(t, err)
	sum, err = tr.Summary()
	require.NoError(t, err)
	require.NotNil(t, sum.Result)
	assert.Equal(t, 70, sum.Result.DaysRemaining)
	assert.InDelta(t, 550, sum.Result.DailyDeficitRequired, 1e-6)
	assert.Equal(t, -5.0, sum.ToGo)
}

func TestHistoryAndWeeks(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)
	_, err := tr.SubmitLog(80.6, fixedNow.AddDate(0, 0, -8))
	require.NoError(t, err)

	view, err := tr.History(HistoryOptions{Group: history.GroupDaily, Range: history.RangeAll})
	require.NoError(t, err)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Day 9", view.Rows[0].Label)

	prev, err := tr.History(HistoryOptions{Group: history.GroupDaily, Range: history.RangeWeek, Offset: -1})
	require.NoError(t, err)
	require.Len(t, prev.Rows, 1)
	assert.Equal(t, 80.6, prev.Rows[0].Weight)

	weeks, err := tr.Weeks()
	require.NoError(t, err)
	assert.Len(t, weeks, 2)

	grid, err := tr.Calendar(time.Time{})
	require.NoError(t, err)
	assert.NotEmpty(t, grid)
}

func TestExportAndImport(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)
	_, err := tr.CreatePlan(goal("Summer Cut", 75), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	name, err := tr.ExportCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Summer_Cut-weight-history.csv", name)
	assert.True(t, strings.HasPrefix(buf.String(), export.BOM))

	b, err := tr.Backup()
	require.NoError(t, err)
	data, err := b.JSON()
	require.NoError(t, err)

	other, _ := newTestTracker(t)
	parsed, err := export.ParseJSON(data)
	require.NoError(t, err)
	require.NoError(t, other.Import(parsed))

	s, err := other.Load()
	require.NoError(t, err)
	assert.Len(t, s.Logs, 1)
	require.NotNil(t, s.ActivePlan())
	assert.Equal(t, "Summer Cut", s.ActivePlan().Name)
}

type profileWriteFails struct {
	*storage.MemoryStore
}

func (profileWriteFails) SaveProfile(*models.Profile) error {
	return errors.New("disk full")
}

func importBackup(weights ...float64) *export.Backup {
	b := &export.Backup{Profile: &models.Profile{
		Height:        168,
		CurrentWeight: 70,
		Age:           41,
		Gender:        models.GenderFemale,
		ActivityLevel: models.ActivityLight,
	}}
	for i, w := range weights {
		b.Logs = append(b.Logs, models.WeightLog{
			ID:     fmt.Sprintf("imported-%d", i),
			Date:   fixedNow.AddDate(0, 0, i-len(weights)),
			Weight: w,
		})
	}
	return b
}

func TestImportSyncsCurrentWeight(t *testing.T) {
	tr, _ := newTestTracker(t)
	onboard(t, tr)
	_, err := tr.SubmitLog(80, fixedNow)
	require.NoError(t, err)

	require.NoError(t, tr.Import(importBackup(72, 71.4, 71.1)))

	s, err := tr.Load()
	require.NoError(t, err)
	assert.Equal(t, 71.1, s.Profile.CurrentWeight)
	assert.Equal(t, 168.0, s.Profile.Height)
	require.Len(t, s.Logs, 3)
	assert.Equal(t, "imported-0", s.Logs[0].ID)
}

func TestImportFailureKeepsExistingData(t *testing.T) {
	mem := storage.NewMemoryStore()
	seed := New(mem, WithClock(func() time.Time { return fixedNow }))
	onboard(t, seed)
	logged, err := seed.SubmitLog(80, fixedNow)
	require.NoError(t, err)

	tr := New(profileWriteFails{mem}, WithClock(func() time.Time { return fixedNow }))
	err = tr.Import(importBackup(72, 71))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	s, err := seed.Load()
	require.NoError(t, err)
	assert.Equal(t, 175.0, s.Profile.Height)
	require.Len(t, s.Logs, 1)
	assert.Equal(t, logged.ID, s.Logs[0].ID)
}

func TestImportRejectsBadBackup(t *testing.T) {
	tr, _ := newTestTracker(t)
	assert.Error(t, tr.Import(&export.Backup{}))
	assert.Error(t, tr.Import(&export.Backup{Profile: &models.Profile{}}))
}

func TestUpdateProfileAndReset(t *testing.T) {
	tr, repo := newTestTracker(t)
	onboard(t, tr)

	age := 31
	lvl := models.ActivityVery
	p, err := tr.UpdateProfile(ProfileUpdate{Age: &age, ActivityLevel: &lvl})
	require.NoError(t, err)
	assert.Equal(t, 31, p.Age)
	assert.Equal(t, models.ActivityVery, p.ActivityLevel)

	bad := -1
	_, err = tr.UpdateProfile(ProfileUpdate{Age: &bad})
	assert.Error(t, err)

	require.NoError(t, tr.Reset())
	empty, err := storage.IsEmpty(repo)
	require.NoError(t, err)
	assert.True(t, empty)
}
