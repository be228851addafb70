// ABOUTME: Weight log operations: submit with same-day upsert, edit, delete.
// ABOUTME: The profile's current weight follows the newest remaining log.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/weightplan/internal/models"
)

// ErrInvalidWeight is returned for non-positive weights.
var ErrInvalidWeight = errors.New("weight must be greater than 0")

// SubmitLog records weight at date. A log already on that calendar day is
// overwritten in place and keeps its ID. A zero date means now.
func (t *Tracker) SubmitLog(weight float64, date time.Time) (models.WeightLog, error) {
	if weight <= 0 {
		return models.WeightLog{}, ErrInvalidWeight
	}
	if date.IsZero() {
		date = t.now()
	}

	s, err := t.Load()
	if err != nil {
		return models.WeightLog{}, err
	}

	entry := models.NewWeightLog(weight).WithDate(date)
	logs := models.UpsertLog(s.Logs, entry)
	saved := findByDate(logs, date)

	if err := t.saveLogs(s, logs); err != nil {
		return models.WeightLog{}, err
	}
	t.logger.Debug("logged weight", "id", models.ShortID(saved.ID), "weight", weight)
	return saved, nil
}

// LogEdit holds the fields of a log to change; nil means unchanged.
type LogEdit struct {
	Weight *float64
	Date   *time.Time
}

// EditLog changes the log matching idOrPrefix.
func (t *Tracker) EditLog(idOrPrefix string, e LogEdit) (models.WeightLog, error) {
	s, err := t.Load()
	if err != nil {
		return models.WeightLog{}, err
	}
	idx, err := models.FindLog(s.Logs, idOrPrefix)
	if err != nil {
		return models.WeightLog{}, fmt.Errorf("log %w", err)
	}

	edited := s.Logs[idx]
	if e.Weight != nil {
		if *e.Weight <= 0 {
			return models.WeightLog{}, ErrInvalidWeight
		}
		edited.Weight = *e.Weight
	}
	if e.Date != nil {
		edited.Date = *e.Date
	}

	if err := t.saveLogs(s, models.UpsertLog(s.Logs, edited)); err != nil {
		return models.WeightLog{}, err
	}
	return edited, nil
}

// DeleteLog removes the log matching idOrPrefix.
func (t *Tracker) DeleteLog(idOrPrefix string) (models.WeightLog, error) {
	s, err := t.Load()
	if err != nil {
		return models.WeightLog{}, err
	}
	logs, removed, err := models.DeleteLog(s.Logs, idOrPrefix)
	if err != nil {
		return models.WeightLog{}, fmt.Errorf("log %w", err)
	}
	if err := t.saveLogs(s, logs); err != nil {
		return models.WeightLog{}, err
	}
	t.logger.Debug("deleted log", "id", models.ShortID(removed.ID))
	return removed, nil
}

// Logs returns the series newest first, capped at limit when limit > 0.
func (t *Tracker) Logs(limit int) ([]models.WeightLog, error) {
	s, err := t.Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.WeightLog, 0, len(s.Logs))
	for i := len(s.Logs) - 1; i >= 0; i-- {
		out = append(out, s.Logs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// saveLogs writes logs and, when the newest weight changed, the profile.
func (t *Tracker) saveLogs(s *State, logs []models.WeightLog) error {
	if err := t.repo.SaveLogs(logs); err != nil {
		return err
	}
	s.Logs = models.SortedLogs(logs)

	latest := models.LatestLog(logs)
	if latest == nil || latest.Weight == s.Profile.CurrentWeight {
		return nil
	}
	s.Profile.CurrentWeight = latest.Weight
	if err := t.repo.SaveProfile(&s.Profile); err != nil {
		return fmt.Errorf("sync current weight: %w", err)
	}
	return nil
}

func findByDate(logs []models.WeightLog, date time.Time) models.WeightLog {
	for _, l := range logs {
		if l.Date.Equal(date) {
			return l
		}
	}
	return models.WeightLog{}
}
