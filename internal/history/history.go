// ABOUTME: History aggregation: range filtering, daily/weekly/monthly rows, and timeline labels.
// ABOUTME: Rows are newest-first for display; the chart series is oldest-first.
package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/models"
)

// PrePlanLabel marks rows dated before the anchor.
const PrePlanLabel = "Pre-Plan"

// Group selects how rows are bucketed.
type Group string

const (
	GroupDaily   Group = "daily"
	GroupWeekly  Group = "weekly"
	GroupMonthly Group = "monthly"
)

// ParseGroup accepts daily, weekly, or monthly (and d/w/m).
func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "d", "":
		return GroupDaily, nil
	case "weekly", "week", "w":
		return GroupWeekly, nil
	case "monthly", "month", "m":
		return GroupMonthly, nil
	}
	return "", fmt.Errorf("unknown grouping: %s (use daily, weekly, or monthly)", s)
}

// Range is the time window applied to daily rows and the chart.
type Range string

const (
	RangeWeek  Range = "1W"
	RangeMonth Range = "1M"
	RangeYear  Range = "1Y"
	RangeAll   Range = "ALL"
)

// ParseRange accepts 1W, 1M, 1Y, or ALL in any case.
func ParseRange(s string) (Range, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1W", "W", "WEEK":
		return RangeWeek, nil
	case "1M", "M", "MONTH":
		return RangeMonth, nil
	case "1Y", "Y", "YEAR":
		return RangeYear, nil
	case "ALL", "":
		return RangeAll, nil
	}
	return "", fmt.Errorf("unknown range: %s (use 1W, 1M, 1Y, or ALL)", s)
}

// Interval returns the half-open calendar interval [start, end) of r that
// contains ref: its Monday-start week, month, or year. RangeAll is unbounded.
func Interval(r Range, ref time.Time) (start, end time.Time, bounded bool) {
	switch r {
	case RangeWeek:
		start = calendar.WeekStart(ref)
		return start, start.AddDate(0, 0, 7), true
	case RangeMonth:
		start = calendar.MonthStart(ref)
		return start, start.AddDate(0, 1, 0), true
	case RangeYear:
		start = calendar.YearStart(ref)
		return start, start.AddDate(1, 0, 0), true
	}
	return time.Time{}, time.Time{}, false
}

// Shift moves ref by n whole units of r, for paging backward (n<0) or forward.
func Shift(r Range, ref time.Time, n int) time.Time {
	switch r {
	case RangeWeek:
		return ref.AddDate(0, 0, 7*n)
	case RangeMonth:
		// Page from the month start so Jan 31 + 1 month stays in February.
		return calendar.MonthStart(ref).AddDate(0, n, 0)
	case RangeYear:
		return calendar.YearStart(ref).AddDate(n, 0, 0)
	}
	return ref
}

// Filter returns the logs inside r's interval around ref, oldest first.
// Membership goes by each log's own calendar date, whatever its offset.
func Filter(logs []models.WeightLog, r Range, ref time.Time) []models.WeightLog {
	sorted := models.SortedLogs(logs)
	start, end, bounded := Interval(r, ref)
	if !bounded {
		return sorted
	}
	out := make([]models.WeightLog, 0, len(sorted))
	for _, l := range sorted {
		if calendar.DaysBetween(start, l.Date) >= 0 && calendar.DaysBetween(l.Date, end) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// ResolveAnchor picks the date timeline labels count from: the plan's start
// date, or the earliest log when there is no plan.
func ResolveAnchor(plan *models.Plan, logs []models.WeightLog) (time.Time, bool) {
	if plan != nil {
		return plan.StartDate, true
	}
	if len(logs) == 0 {
		return time.Time{}, false
	}
	return models.SortedLogs(logs)[0].Date, true
}

// DayNumber is the 1-based day index of date relative to anchor.
func DayNumber(date, anchor time.Time) int {
	return calendar.DaysBetween(anchor, date) + 1
}

// TimelineLabel renders "Day N", or PrePlanLabel when date precedes anchor.
func TimelineLabel(date, anchor time.Time) string {
	n := DayNumber(date, anchor)
	if n <= 0 {
		return PrePlanLabel
	}
	return fmt.Sprintf("Day %d", n)
}

// WeekLabel renders "Week N" counting Monday-start weeks from anchor's week.
func WeekLabel(date, anchor time.Time) string {
	n := calendar.WeeksBetween(anchor, date) + 1
	if n <= 0 {
		return PrePlanLabel
	}
	return fmt.Sprintf("Week %d", n)
}

// MonthLabel renders "Month N" counting calendar months from anchor's month.
func MonthLabel(date, anchor time.Time) string {
	n := calendar.MonthsBetween(anchor, date) + 1
	if n <= 0 {
		return PrePlanLabel
	}
	return fmt.Sprintf("Month %d", n)
}

// Row is one line of a history view.
type Row struct {
	ID     string    `json:"id,omitempty"` // daily rows only
	Label  string    `json:"label"`
	Date   time.Time `json:"date"` // log date, or the bucket start for averages
	Weight float64   `json:"weight"`
	Change float64   `json:"change"`
	Count  int       `json:"count"`
}

// Query describes one history view. Anchor is resolved by the caller.
type Query struct {
	Group     Group
	Range     Range
	Reference time.Time
	Anchor    time.Time
}

// View holds display rows (newest first) and the chart series (oldest first).
type View struct {
	Rows  []Row              `json:"rows"`
	Chart []models.WeightLog `json:"chart"`
}

// Build produces the rows and chart for q. Weekly and monthly rows average
// the whole series; the range filter applies to daily rows and the chart.
func Build(logs []models.WeightLog, q Query) View {
	chart := Filter(logs, q.Range, q.Reference)

	var rows []Row
	switch q.Group {
	case GroupWeekly:
		rows = aggregate(logs, calendar.WeekStart, func(d time.Time) string { return WeekLabel(d, q.Anchor) })
	case GroupMonthly:
		rows = aggregate(logs, calendar.MonthStart, func(d time.Time) string { return MonthLabel(d, q.Anchor) })
	default:
		rows = daily(chart, q.Anchor)
	}
	return View{Rows: rows, Chart: chart}
}

// daily turns an oldest-first series into newest-first labeled rows.
func daily(chronological []models.WeightLog, anchor time.Time) []Row {
	rows := make([]Row, 0, len(chronological))
	for i := len(chronological) - 1; i >= 0; i-- {
		l := chronological[i]
		rows = append(rows, Row{
			ID:     l.ID,
			Label:  TimelineLabel(l.Date, anchor),
			Date:   l.Date,
			Weight: l.Weight,
			Count:  1,
		})
	}
	applyChange(rows)
	return rows
}

// aggregate averages logs per bucket and returns newest-first rows.
func aggregate(logs []models.WeightLog, bucket func(time.Time) time.Time, label func(time.Time) string) []Row {
	type acc struct {
		start time.Time
		sum   float64
		n     int
	}
	byKey := make(map[string]*acc)
	for _, l := range logs {
		start := bucket(l.Date)
		key := start.Format(calendar.ISODate)
		a, ok := byKey[key]
		if !ok {
			a = &acc{start: start}
			byKey[key] = a
		}
		a.sum += l.Weight
		a.n++
	}

	rows := make([]Row, 0, len(byKey))
	for _, a := range byKey {
		rows = append(rows, Row{
			Label:  label(a.start),
			Date:   a.start,
			Weight: a.sum / float64(a.n),
			Count:  a.n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date)
	})
	applyChange(rows)
	return rows
}

// applyChange sets each newest-first row's change against the next older row.
func applyChange(rows []Row) {
	for i := range rows {
		if i == len(rows)-1 {
			rows[i].Change = 0
			continue
		}
		rows[i].Change = rows[i].Weight - rows[i+1].Weight
	}
}
