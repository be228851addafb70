// ABOUTME: Data migration between weightplan storage backends.
// ABOUTME: Copies the profile (upgrading legacy documents) and the log series.

package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/weightplan/internal/plans"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Profile bool
	Plans   int
	Logs    int
	// Upgraded is set when the source profile used the legacy schema.
	Upgraded bool
}

// IsEmpty reports whether a repository holds neither a profile nor logs.
func IsEmpty(r Repository) (bool, error) {
	_, err := r.LoadProfile()
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, ErrNoProfile):
		return false, err
	}
	logs, err := r.LoadLogs()
	if err != nil {
		return false, err
	}
	return len(logs) == 0, nil
}

// MigrateData copies all data from src to dst storage. A legacy source
// profile is written to dst in the current schema. The destination should be
// empty before calling this function.
func MigrateData(src, dst Repository, now time.Time) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	stored, err := src.LoadProfile()
	switch {
	case errors.Is(err, ErrNoProfile):
	case err != nil:
		return nil, fmt.Errorf("load source profile: %w", err)
	default:
		profile, upgraded := plans.MigrateLegacy(stored, now)
		if err := dst.SaveProfile(&profile); err != nil {
			return nil, fmt.Errorf("save profile: %w", err)
		}
		summary.Profile = true
		summary.Plans = len(profile.Plans)
		summary.Upgraded = upgraded
	}

	logs, err := src.LoadLogs()
	if err != nil {
		return nil, fmt.Errorf("load source logs: %w", err)
	}
	if err := dst.SaveLogs(logs); err != nil {
		return nil, fmt.Errorf("save logs: %w", err)
	}
	summary.Logs = len(logs)

	return summary, nil
}
