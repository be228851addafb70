// ABOUTME: Repository interface for profile and weight log storage.
// ABOUTME: Backends persist one profile document and the full log series.
package storage

import (
	"errors"

	"github.com/harperreed/weightplan/internal/models"
)

// ErrNoProfile is returned by LoadProfile before onboarding has run.
var ErrNoProfile = errors.New("no profile found")

// Repository defines the storage interface for weightplan data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// LoadProfile returns the stored profile in whichever schema it was
	// written with; callers migrate legacy documents.
	LoadProfile() (models.StoredProfile, error)
	SaveProfile(p *models.Profile) error

	// Logs are loaded oldest first and saved as a whole series.
	LoadLogs() ([]models.WeightLog, error)
	SaveLogs(logs []models.WeightLog) error

	// Reset wipes the profile and every log.
	Reset() error

	Close() error
}
