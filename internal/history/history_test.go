// ABOUTME: Tests for history filtering, grouping, labels, and week enumeration.
// ABOUTME: Dates are anchored around Monday 2025-06-02.
package history

import (
	"math"
	"testing"
	"time"

	"github.com/harperreed/weightplan/internal/models"
)

func d(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 8, 30, 0, 0, time.UTC)
}

func log(id string, t time.Time, w float64) models.WeightLog {
	return models.WeightLog{ID: id, Date: t, Weight: w}
}

func TestTimelineLabel(t *testing.T) {
	anchor := d(6, 2)
	tests := []struct {
		date time.Time
		want string
	}{
		{d(6, 2), "Day 1"},
		{time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC), "Day 1"},
		{d(6, 3), "Day 2"},
		{d(7, 2), "Day 31"},
		{d(6, 1), PrePlanLabel},
		{d(5, 1), PrePlanLabel},
	}
	for _, tt := range tests {
		if got := TimelineLabel(tt.date, anchor); got != tt.want {
			t.Errorf("TimelineLabel(%s) = %q, want %q", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestWeekAndMonthLabels(t *testing.T) {
	anchor := d(6, 4) // Wednesday
	if got := WeekLabel(d(6, 2), anchor); got != "Week 1" {
		t.Errorf("anchor week = %q, want Week 1", got)
	}
	if got := WeekLabel(d(6, 9), anchor); got != "Week 2" {
		t.Errorf("next week = %q, want Week 2", got)
	}
	if got := WeekLabel(d(5, 26), anchor); got != PrePlanLabel {
		t.Errorf("previous week = %q, want Pre-Plan", got)
	}
	if got := MonthLabel(d(8, 1), anchor); got != "Month 3" {
		t.Errorf("MonthLabel = %q, want Month 3", got)
	}
	if got := MonthLabel(d(5, 31), anchor); got != PrePlanLabel {
		t.Errorf("MonthLabel before = %q, want Pre-Plan", got)
	}
}

func TestResolveAnchor(t *testing.T) {
	logs := []models.WeightLog{log("b", d(6, 9), 80), log("a", d(6, 3), 81)}

	got, ok := ResolveAnchor(nil, logs)
	if !ok || !got.Equal(d(6, 3)) {
		t.Errorf("anchor without plan = %v, want earliest log", got)
	}

	plan := &models.Plan{StartDate: d(6, 1)}
	got, ok = ResolveAnchor(plan, logs)
	if !ok || !got.Equal(d(6, 1)) {
		t.Errorf("anchor with plan = %v, want plan start", got)
	}

	if _, ok := ResolveAnchor(nil, nil); ok {
		t.Error("expected no anchor without plan or logs")
	}
}

func TestIntervalAndFilter(t *testing.T) {
	logs := []models.WeightLog{
		log("sun", d(6, 1), 82),
		log("mon", d(6, 2), 81),
		log("sun2", d(6, 8), 80),
		log("mon2", d(6, 9), 79),
		log("jul", d(7, 1), 78),
	}
	ref := d(6, 5)

	week := Filter(logs, RangeWeek, ref)
	if len(week) != 2 || week[0].ID != "mon" || week[1].ID != "sun2" {
		t.Errorf("week filter = %v", ids(week))
	}

	month := Filter(logs, RangeMonth, ref)
	if len(month) != 4 {
		t.Errorf("month filter = %v", ids(month))
	}

	year := Filter(logs, RangeYear, ref)
	if len(year) != 5 {
		t.Errorf("year filter = %v", ids(year))
	}

	all := Filter(logs, RangeAll, ref)
	if len(all) != 5 || all[0].ID != "sun" {
		t.Errorf("all filter = %v", ids(all))
	}

	prev := Filter(logs, RangeWeek, Shift(RangeWeek, ref, -1))
	if len(prev) != 1 || prev[0].ID != "sun" {
		t.Errorf("previous week = %v", ids(prev))
	}
}

func TestFilterUsesLogCalendarDate(t *testing.T) {
	berlin := time.FixedZone("CEST", 2*3600)
	chicago := time.FixedZone("CDT", -5*3600)
	tokyo := time.FixedZone("JST", 9*3600)
	logs := []models.WeightLog{
		// Monday Oct 12 locally, Oct 12 06:00 UTC.
		{ID: "mon", Date: time.Date(2026, 10, 12, 8, 0, 0, 0, berlin), Weight: 80},
		// Sunday Oct 18 locally, already Monday Oct 19 in UTC.
		{ID: "sun", Date: time.Date(2026, 10, 18, 23, 30, 0, 0, chicago), Weight: 79.8},
		// Monday Oct 19 locally, still Sunday Oct 18 in UTC.
		{ID: "next", Date: time.Date(2026, 10, 19, 1, 0, 0, 0, tokyo), Weight: 79.5},
	}
	ref := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	week := Filter(logs, RangeWeek, ref)
	if len(week) != 2 || week[0].ID != "mon" || week[1].ID != "sun" {
		t.Errorf("week filter = %v, want [mon sun]", ids(week))
	}

	following := Filter(logs, RangeWeek, Shift(RangeWeek, ref, 1))
	if len(following) != 1 || following[0].ID != "next" {
		t.Errorf("following week = %v, want [next]", ids(following))
	}
}

func TestShiftMonthEnd(t *testing.T) {
	got := Shift(RangeMonth, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 1)
	if got.Month() != time.February {
		t.Errorf("Shift(Jan 31, +1 month) = %s, want February", got.Format("2006-01-02"))
	}
	got = Shift(RangeYear, d(6, 5), -1)
	if got.Year() != 2024 {
		t.Errorf("Shift(-1 year) = %d", got.Year())
	}
}

func TestBuildDaily(t *testing.T) {
	logs := []models.WeightLog{
		log("c", d(6, 6), 79.0),
		log("a", d(6, 2), 80.0),
		log("b", d(6, 4), 80.5),
		log("old", d(5, 20), 82.0),
	}
	anchor := d(6, 3)

	v := Build(logs, Query{Group: GroupDaily, Range: RangeWeek, Reference: d(6, 4), Anchor: anchor})

	if len(v.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(v.Rows))
	}
	wantIDs := []string{"c", "b", "a"}
	wantLabels := []string{"Day 4", "Day 2", PrePlanLabel}
	wantChange := []float64{-1.5, 0.5, 0}
	for i, r := range v.Rows {
		if r.ID != wantIDs[i] || r.Label != wantLabels[i] || math.Abs(r.Change-wantChange[i]) > 1e-9 {
			t.Errorf("row %d = %+v, want id %s label %s change %.1f", i, r, wantIDs[i], wantLabels[i], wantChange[i])
		}
	}

	// Chart holds the same members, oldest first.
	if got := ids(v.Chart); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("chart = %v", got)
	}
}

func TestBuildWeeklyAverage(t *testing.T) {
	logs := []models.WeightLog{
		log("mon", d(6, 2), 80.0),
		log("wed", d(6, 4), 81.0),
		log("fri", d(6, 6), 82.5),
	}
	v := Build(logs, Query{Group: GroupWeekly, Range: RangeAll, Anchor: d(6, 2)})

	if len(v.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(v.Rows))
	}
	want := (80.0 + 81.0 + 82.5) / 3
	if math.Abs(v.Rows[0].Weight-want) > 1e-9 {
		t.Errorf("weight = %f, want %f", v.Rows[0].Weight, want)
	}
	if v.Rows[0].Count != 3 || v.Rows[0].Label != "Week 1" || v.Rows[0].Change != 0 {
		t.Errorf("unexpected row %+v", v.Rows[0])
	}
}

func TestBuildWeeklyIgnoresRangeFilter(t *testing.T) {
	logs := []models.WeightLog{
		log("a", d(5, 20), 84.0),
		log("b", d(5, 22), 83.0),
		log("c", d(6, 3), 81.0),
		log("d", d(6, 10), 80.0),
	}
	v := Build(logs, Query{Group: GroupWeekly, Range: RangeWeek, Reference: d(6, 10), Anchor: d(6, 2)})

	if len(v.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(v.Rows))
	}
	labels := []string{"Week 2", "Week 1", PrePlanLabel}
	for i, r := range v.Rows {
		if r.Label != labels[i] {
			t.Errorf("row %d label = %q, want %q", i, r.Label, labels[i])
		}
	}
	if math.Abs(v.Rows[1].Change-(81.0-83.5)) > 1e-9 {
		t.Errorf("week 1 change = %f, want -2.5", v.Rows[1].Change)
	}
	if len(v.Chart) != 1 || v.Chart[0].ID != "d" {
		t.Errorf("chart should stay range-filtered, got %v", ids(v.Chart))
	}
}

func TestBuildMonthly(t *testing.T) {
	logs := []models.WeightLog{
		log("a", d(5, 10), 84.0),
		log("b", d(5, 25), 82.0),
		log("c", d(7, 3), 79.0),
	}
	v := Build(logs, Query{Group: GroupMonthly, Range: RangeAll, Anchor: d(5, 10)})

	if len(v.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(v.Rows))
	}
	if v.Rows[0].Label != "Month 3" || v.Rows[1].Label != "Month 1" {
		t.Errorf("labels = %q, %q", v.Rows[0].Label, v.Rows[1].Label)
	}
	if v.Rows[1].Weight != 83.0 || v.Rows[0].Change != -4.0 {
		t.Errorf("unexpected rows %+v", v.Rows)
	}
}

func TestBuildEmpty(t *testing.T) {
	v := Build(nil, Query{Group: GroupWeekly, Range: RangeMonth, Reference: d(6, 1)})
	if len(v.Rows) != 0 || len(v.Chart) != 0 {
		t.Errorf("expected empty view, got %+v", v)
	}
}

func TestWeeks(t *testing.T) {
	logs := []models.WeightLog{
		log("a", d(5, 21), 84),
		log("b", d(6, 4), 82),
		log("c", d(6, 17), 80),
	}
	plan := &models.Plan{StartDate: d(6, 3)}

	got := Weeks(logs, plan)
	want := []string{"Week 3", "Week 2", "Week 1", "Pre-plan W1", "Pre-plan W2"}
	if len(got) != len(want) {
		t.Fatalf("weeks = %d, want %d", len(got), len(want))
	}
	for i, w := range got {
		if w.Label != want[i] {
			t.Errorf("week %d label = %q, want %q", i, w.Label, want[i])
		}
		if w.Start.Weekday() != time.Monday || w.End.Weekday() != time.Sunday {
			t.Errorf("week %d not Monday-Sunday: %s..%s", i, w.Start.Weekday(), w.End.Weekday())
		}
	}

	noPlan := Weeks(logs, nil)
	if noPlan[len(noPlan)-1].Label != "Week 1" || noPlan[0].Label != "Week 5" {
		t.Errorf("weeks without plan = %q .. %q", noPlan[0].Label, noPlan[len(noPlan)-1].Label)
	}

	if Weeks(nil, plan) != nil {
		t.Error("expected nil weeks without logs")
	}
}

func TestMonthGrid(t *testing.T) {
	logs := []models.WeightLog{
		log("early", time.Date(2025, 6, 4, 7, 0, 0, 0, time.UTC), 81),
		log("late", time.Date(2025, 6, 4, 21, 0, 0, 0, time.UTC), 80.6),
	}
	grid := MonthGrid(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), logs)

	// June 2025 starts on a Sunday and ends on a Monday: May 26 .. July 6.
	if len(grid) != 42 {
		t.Fatalf("grid = %d cells, want 42", len(grid))
	}
	if grid[0].Date.Day() != 26 || grid[0].InMonth {
		t.Errorf("first cell = %+v", grid[0])
	}
	for _, c := range grid {
		if c.Date.Day() == 4 && c.InMonth {
			if c.Log == nil || c.Log.ID != "late" {
				t.Errorf("June 4 log = %+v, want latest", c.Log)
			}
		}
	}
}

func TestParseGroupAndRange(t *testing.T) {
	if g, err := ParseGroup("W"); err != nil || g != GroupWeekly {
		t.Errorf("ParseGroup(W) = %s, %v", g, err)
	}
	if _, err := ParseGroup("yearly"); err == nil {
		t.Error("expected error for unknown group")
	}
	if r, err := ParseRange("1y"); err != nil || r != RangeYear {
		t.Errorf("ParseRange(1y) = %s, %v", r, err)
	}
	if _, err := ParseRange("2W"); err == nil {
		t.Error("expected error for unknown range")
	}
}

func ids(logs []models.WeightLog) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.ID
	}
	return out
}
