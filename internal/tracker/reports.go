// ABOUTME: Read-side operations: calorie summary, history views, week list, calendar, exports.
// ABOUTME: Each call loads fresh state and hands it to the pure calc, history, and export packages.
package tracker

import (
	"fmt"
	"io"
	"time"

	"github.com/harperreed/weightplan/internal/calc"
	"github.com/harperreed/weightplan/internal/export"
	"github.com/harperreed/weightplan/internal/history"
	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/plans"
)

// Summary is the dashboard view of the profile and its active plan.
type Summary struct {
	Profile     models.Profile    `json:"profile"`
	ActivePlan  *models.Plan      `json:"activePlan,omitempty"`
	Result      *calc.Result      `json:"result,omitempty"`
	Latest      *models.WeightLog `json:"latest,omitempty"`
	LogCount    int               `json:"logCount"`
	BMI         float64           `json:"bmi"`
	BMICategory string            `json:"bmiCategory"`
	// ToGo is target minus current weight; zero without an active plan.
	ToGo float64 `json:"toGo"`
}

// Summary computes the calorie targets for the active plan.
func (t *Tracker) Summary() (*Summary, error) {
	s, err := t.Load()
	if err != nil {
		return nil, err
	}
	current := calc.EffectiveWeight(&s.Profile, s.Logs)
	sum := &Summary{
		Profile:    s.Profile,
		ActivePlan: s.ActivePlan(),
		Latest:     models.LatestLog(s.Logs),
		LogCount:   len(s.Logs),
	}
	sum.Result = calc.CalculateDeficit(&s.Profile, s.Logs, sum.ActivePlan, t.now())
	if bmi, err := calc.BMI(s.Profile.Height, current); err == nil {
		sum.BMI = bmi
		sum.BMICategory = calc.BMICategory(bmi)
	}
	if sum.ActivePlan != nil {
		sum.ToGo = sum.ActivePlan.TargetWeight - current
	}
	return sum, nil
}

// HistoryOptions selects a history view. A zero Reference means now; Offset
// shifts the reference by whole ranges (negative goes back).
type HistoryOptions struct {
	Group     history.Group
	Range     history.Range
	Reference time.Time
	Offset    int
}

// History builds the grouped rows and chart series.
func (t *Tracker) History(opts HistoryOptions) (history.View, error) {
	s, err := t.Load()
	if err != nil {
		return history.View{}, err
	}
	ref := opts.Reference
	if ref.IsZero() {
		ref = t.now()
	}
	if opts.Offset != 0 {
		ref = history.Shift(opts.Range, ref, opts.Offset)
	}
	anchor, _ := history.ResolveAnchor(s.ActivePlan(), s.Logs)
	return history.Build(s.Logs, history.Query{
		Group:     opts.Group,
		Range:     opts.Range,
		Reference: ref,
		Anchor:    anchor,
	}), nil
}

// Weeks lists the selectable weeks, newest first.
func (t *Tracker) Weeks() ([]history.WeekOption, error) {
	s, err := t.Load()
	if err != nil {
		return nil, err
	}
	return history.Weeks(s.Logs, s.ActivePlan()), nil
}

// Calendar returns the month grid containing month; a zero month means now.
func (t *Tracker) Calendar(month time.Time) ([]history.CalendarDay, error) {
	s, err := t.Load()
	if err != nil {
		return nil, err
	}
	if month.IsZero() {
		month = t.now()
	}
	return history.MonthGrid(month, s.Logs), nil
}

// ExportCSV writes the progress report and returns its suggested filename.
func (t *Tracker) ExportCSV(w io.Writer) (string, error) {
	s, err := t.Load()
	if err != nil {
		return "", err
	}
	plan := s.ActivePlan()
	if err := export.WriteCSV(w, export.Rows(s.Logs, plan)); err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}
	return export.Filename(plan), nil
}

// Report returns the rendered report rows for the active plan.
func (t *Tracker) Report() ([]export.Row, error) {
	s, err := t.Load()
	if err != nil {
		return nil, err
	}
	return export.Rows(s.Logs, s.ActivePlan()), nil
}

// Backup snapshots everything for JSON or YAML export.
func (t *Tracker) Backup() (*export.Backup, error) {
	s, err := t.Load()
	if err != nil {
		return nil, err
	}
	return export.NewBackup(&s.Profile, s.Logs, t.now()), nil
}

// Import replaces all stored data with b. Plans keep their IDs; if more than
// one is marked active only the first stays active.
func (t *Tracker) Import(b *export.Backup) error {
	if b == nil || b.Profile == nil {
		return fmt.Errorf("import: backup has no profile")
	}
	p := *b.Profile
	if err := p.Validate(); err != nil {
		return fmt.Errorf("import: invalid profile: %w", err)
	}
	if p.Plans == nil {
		p.Plans = []models.Plan{}
	}
	if active := plans.Active(p.Plans); active != nil {
		p.Plans = plans.SetActive(p.Plans, active.ID)
	}
	for _, l := range b.Logs {
		if l.ID == "" || l.Weight <= 0 {
			return fmt.Errorf("import: invalid log %q", l.ID)
		}
	}

	if latest := models.LatestLog(b.Logs); latest != nil {
		p.CurrentWeight = latest.Weight
	}

	// Both saves replace their data outright, so nothing is cleared first.
	// Logs go first and are put back if the profile write fails.
	previous, err := t.repo.LoadLogs()
	if err != nil {
		return fmt.Errorf("import: load logs: %w", err)
	}
	if err := t.repo.SaveLogs(b.Logs); err != nil {
		return fmt.Errorf("import: save logs: %w", err)
	}
	if err := t.repo.SaveProfile(&p); err != nil {
		if rerr := t.repo.SaveLogs(previous); rerr != nil {
			t.logger.Warn("restoring logs after failed import", "err", rerr)
		}
		return fmt.Errorf("import: save profile: %w", err)
	}
	t.logger.Info("imported backup", "plans", len(p.Plans), "logs", len(b.Logs))
	return nil
}
