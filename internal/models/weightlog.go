// ABOUTME: WeightLog model and the list rules that keep the log series consistent.
// ABOUTME: Covers same-day upsert, edit-by-id, deletion, and ordering helpers.
package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
)

// ErrNotFound is returned when an ID or ID prefix matches nothing.
var ErrNotFound = errors.New("not found")

// WeightLog is a single body-weight measurement.
type WeightLog struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"` // kg
}

// NewWeightLog creates a WeightLog with a generated ID dated now.
func NewWeightLog(weight float64) WeightLog {
	return WeightLog{
		ID:     NewID(),
		Date:   time.Now(),
		Weight: weight,
	}
}

// WithDate sets a custom date on the log.
func (l WeightLog) WithDate(t time.Time) WeightLog {
	l.Date = t
	return l
}

// UpsertLog returns a new series with entry applied.
//
// An entry whose ID already exists replaces that log in place. Otherwise, if a
// log shares entry's calendar day, that log takes entry's date and weight and
// keeps its own ID. Otherwise entry is appended. When several logs already
// share the day, only the first one is overwritten.
func UpsertLog(logs []WeightLog, entry WeightLog) []WeightLog {
	out := make([]WeightLog, len(logs))
	copy(out, logs)

	for i := range out {
		if out[i].ID == entry.ID {
			out[i] = entry
			return out
		}
	}
	for i := range out {
		if calendar.SameDay(out[i].Date, entry.Date) {
			out[i].Date = entry.Date
			out[i].Weight = entry.Weight
			return out
		}
	}
	return append(out, entry)
}

// DeleteLog returns a new series without the log matching idOrPrefix.
func DeleteLog(logs []WeightLog, idOrPrefix string) ([]WeightLog, WeightLog, error) {
	idx, err := FindLog(logs, idOrPrefix)
	if err != nil {
		return nil, WeightLog{}, err
	}
	removed := logs[idx]
	out := make([]WeightLog, 0, len(logs)-1)
	out = append(out, logs[:idx]...)
	out = append(out, logs[idx+1:]...)
	return out, removed, nil
}

// FindLog returns the index of the log whose ID matches idOrPrefix.
func FindLog(logs []WeightLog, idOrPrefix string) (int, error) {
	ids := make([]string, len(logs))
	for i, l := range logs {
		ids[i] = l.ID
	}
	return ResolveID(ids, idOrPrefix)
}

// LatestLog returns the most recently dated log, or nil for an empty series.
func LatestLog(logs []WeightLog) *WeightLog {
	var latest *WeightLog
	for i := range logs {
		if latest == nil || logs[i].Date.After(latest.Date) {
			latest = &logs[i]
		}
	}
	if latest == nil {
		return nil
	}
	l := *latest
	return &l
}

// SortedLogs returns a copy of logs ordered oldest first.
func SortedLogs(logs []WeightLog) []WeightLog {
	out := make([]WeightLog, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// ResolveID finds the single ID equal to, or prefixed by, idOrPrefix.
func ResolveID(ids []string, idOrPrefix string) (int, error) {
	if idOrPrefix == "" {
		return -1, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	match := -1
	for i, id := range ids {
		if id == idOrPrefix {
			return i, nil
		}
		if strings.HasPrefix(id, idOrPrefix) {
			if match >= 0 {
				return -1, fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return match, nil
}
