// ABOUTME: Week enumeration for jumping to a historical week, and the month calendar grid.
// ABOUTME: Weeks start on Monday; the grid pads the month to whole weeks.
package history

import (
	"fmt"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/models"
)

// WeekOption is one selectable calendar week.
type WeekOption struct {
	Start time.Time `json:"start"` // Monday
	End   time.Time `json:"end"`   // Sunday
	Label string    `json:"label"`
}

// Weeks lists every Monday-start week from the earliest to the latest log,
// newest first. Weeks are labeled "Week N" from the plan's start week, or
// "Pre-plan W<k>" for the k-th week before it. Without a plan the earliest
// log's week is Week 1.
func Weeks(logs []models.WeightLog, plan *models.Plan) []WeekOption {
	if len(logs) == 0 {
		return nil
	}
	sorted := models.SortedLogs(logs)
	anchor, _ := ResolveAnchor(plan, sorted)

	first := calendar.WeekStart(sorted[0].Date)
	last := calendar.WeekStart(sorted[len(sorted)-1].Date)

	var out []WeekOption
	for w := last; !w.Before(first); w = w.AddDate(0, 0, -7) {
		out = append(out, WeekOption{
			Start: w,
			End:   w.AddDate(0, 0, 6),
			Label: weekOptionLabel(w, anchor),
		})
	}
	return out
}

func weekOptionLabel(weekStart, anchor time.Time) string {
	n := calendar.WeeksBetween(anchor, weekStart) + 1
	if n <= 0 {
		return fmt.Sprintf("Pre-plan W%d", 1-n)
	}
	return fmt.Sprintf("Week %d", n)
}

// CalendarDay is one cell of a month grid.
type CalendarDay struct {
	Date    time.Time         `json:"date"`
	InMonth bool              `json:"inMonth"`
	Log     *models.WeightLog `json:"log,omitempty"`
}

// MonthGrid returns the Monday-start weeks covering month, each day carrying
// its latest log if one exists.
func MonthGrid(month time.Time, logs []models.WeightLog) []CalendarDay {
	first := calendar.MonthStart(month)
	lastDay := first.AddDate(0, 1, -1)
	start := calendar.WeekStart(first)
	end := calendar.WeekStart(lastDay).AddDate(0, 0, 6)

	latest := make(map[string]models.WeightLog)
	for _, l := range logs {
		key := calendar.Day(l.Date).Format(calendar.ISODate)
		if cur, ok := latest[key]; !ok || l.Date.After(cur.Date) {
			latest[key] = l
		}
	}

	var grid []CalendarDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		cell := CalendarDay{Date: d, InMonth: d.Month() == first.Month()}
		if l, ok := latest[d.Format(calendar.ISODate)]; ok {
			cell.Log = &l
		}
		grid = append(grid, cell)
	}
	return grid
}
