// ABOUTME: CSV progress report: one row per log with week, timeline, change, and a trend bar.
// ABOUTME: Output starts with a UTF-8 BOM and quotes every field for spreadsheet tools.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/history"
	"github.com/harperreed/weightplan/internal/models"
)

const (
	// MIMEType is the content type of the CSV report.
	MIMEType = "text/csv"
	// BOM makes spreadsheet tools decode the file as UTF-8.
	BOM = "\ufeff"
	// FallbackFilename is used when no plan is active.
	FallbackFilename = "weight-history.csv"

	maxTrendGlyphs = 15
	gainGlyph      = "▲"
	lossGlyph      = "▼"
	flatGlyph      = "-"
)

// Header is the first line of the CSV report.
var Header = []string{"Week", "Date", "Timeline", "Weight (kg)", "Change (kg)", "Visual Trend"}

// Row is one rendered report line.
type Row struct {
	Week     string
	Date     string
	Timeline string
	Weight   string
	Change   string
	Trend    string
}

// Fields returns the row in header order.
func (r Row) Fields() []string {
	return []string{r.Week, r.Date, r.Timeline, r.Weight, r.Change, r.Trend}
}

// Rows renders logs oldest first. With a plan, weeks count 7-day spans from
// the plan start and earlier logs are "Pre-Plan"; without one they count from
// the first log.
func Rows(logs []models.WeightLog, plan *models.Plan) []Row {
	sorted := models.SortedLogs(logs)
	if len(sorted) == 0 {
		return nil
	}
	anchor, _ := history.ResolveAnchor(plan, sorted)

	rows := make([]Row, 0, len(sorted))
	for i, l := range sorted {
		r := Row{
			Week:     weekLabel(l, anchor),
			Date:     l.Date.Format(calendar.ISODate),
			Timeline: history.TimelineLabel(l.Date, anchor),
			Weight:   fmt.Sprintf("%.2f", l.Weight),
			Change:   "0",
			Trend:    flatGlyph,
		}
		if i > 0 {
			change := l.Weight - sorted[i-1].Weight
			r.Change = formatChange(change)
			r.Trend = TrendBar(change)
		}
		rows = append(rows, r)
	}
	return rows
}

func weekLabel(l models.WeightLog, anchor time.Time) string {
	n := history.DayNumber(l.Date, anchor)
	if n <= 0 {
		return history.PrePlanLabel
	}
	return fmt.Sprintf("Week %d", (n-1)/7+1)
}

func formatChange(change float64) string {
	rounded := math.Round(change*100) / 100
	if rounded == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%+.2f", rounded)
}

// TrendBar draws min(round(|change|×10), 15) glyphs: ▲ for a gain, ▼ for a
// loss, or "-" when the bar would be empty.
func TrendBar(change float64) string {
	n := int(math.Round(math.Abs(change) * 10))
	if n > maxTrendGlyphs {
		n = maxTrendGlyphs
	}
	switch {
	case n == 0:
		return flatGlyph
	case change > 0:
		return strings.Repeat(gainGlyph, n)
	default:
		return strings.Repeat(lossGlyph, n)
	}
}

// WriteCSV writes the BOM, the header, and rows with every field quoted.
func WriteCSV(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	if err := writeQuoted(bw, Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writeQuoted(bw, r.Fields()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeQuoted(w *bufio.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	if _, err := w.WriteString(strings.Join(quoted, ",") + "\n"); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename derives the report name from the active plan.
func Filename(plan *models.Plan) string {
	if plan == nil || strings.TrimSpace(plan.Name) == "" {
		return FallbackFilename
	}
	return whitespace.ReplaceAllString(strings.TrimSpace(plan.Name), "_") + "-" + FallbackFilename
}
