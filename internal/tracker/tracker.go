// ABOUTME: Tracker orchestrates load, migrate, mutate, and save over a storage Repository.
// ABOUTME: Every CLI command and MCP tool goes through it so stored state stays consistent.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/plans"
	"github.com/harperreed/weightplan/internal/storage"
)

// ErrProfileExists is returned when onboarding runs twice.
var ErrProfileExists = errors.New("profile already exists (use 'weightplan reset' to start over)")

// Tracker manages the stored profile and weight log series.
type Tracker struct {
	repo   storage.Repository
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger routes diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a Tracker over repo. Diagnostics are discarded unless a
// logger is supplied.
func New(repo storage.Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:   repo,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Repo returns the underlying repository.
func (t *Tracker) Repo() storage.Repository {
	return t.repo
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// State is a loaded profile with its logs, oldest first.
type State struct {
	Profile models.Profile
	Logs    []models.WeightLog
}

// ActivePlan returns a copy of the active plan, or nil.
func (s *State) ActivePlan() *models.Plan {
	return plans.Active(s.Profile.Plans)
}

// Load reads the profile and logs. A legacy profile is migrated and written
// back before returning.
func (t *Tracker) Load() (*State, error) {
	stored, err := t.repo.LoadProfile()
	if err != nil {
		return nil, err
	}

	profile, migrated := plans.MigrateLegacy(stored, t.now())
	if migrated {
		t.logger.Info("migrated legacy profile", "plans", len(profile.Plans))
		if err := t.repo.SaveProfile(&profile); err != nil {
			return nil, fmt.Errorf("save migrated profile: %w", err)
		}
	}

	logs, err := t.repo.LoadLogs()
	if err != nil {
		return nil, err
	}
	t.logger.Debug("loaded state", "plans", len(profile.Plans), "logs", len(logs))
	return &State{Profile: profile, Logs: models.SortedLogs(logs)}, nil
}

// InitProfile stores a new profile and seeds the series with its current
// weight, logged now.
func (t *Tracker) InitProfile(p models.Profile) (*State, error) {
	if _, err := t.repo.LoadProfile(); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, storage.ErrNoProfile) {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	p.Gender, _ = models.ParseGender(string(p.Gender))
	p.ActivityLevel, _ = models.ParseActivityLevel(string(p.ActivityLevel))
	if p.Plans == nil {
		p.Plans = []models.Plan{}
	}

	seed := models.NewWeightLog(p.CurrentWeight).WithDate(t.now())
	if err := t.repo.SaveProfile(&p); err != nil {
		return nil, err
	}
	if err := t.repo.SaveLogs([]models.WeightLog{seed}); err != nil {
		return nil, err
	}
	t.logger.Info("created profile", "weight", p.CurrentWeight)
	return &State{Profile: p, Logs: []models.WeightLog{seed}}, nil
}

// ProfileUpdate holds the biometric fields to change; nil means unchanged.
type ProfileUpdate struct {
	Height        *float64
	Age           *int
	Gender        *models.Gender
	ActivityLevel *models.ActivityLevel
}

// UpdateProfile applies u and saves the profile.
func (t *Tracker) UpdateProfile(u ProfileUpdate) (*models.Profile, error) {
	s, err := t.Load()
	if err != nil {
		return nil, err
	}
	p := s.Profile
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.ActivityLevel != nil {
		p.ActivityLevel = *u.ActivityLevel
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	if err := t.repo.SaveProfile(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Reset deletes the profile and every log.
func (t *Tracker) Reset() error {
	if err := t.repo.Reset(); err != nil {
		return fmt.Errorf("reset data: %w", err)
	}
	t.logger.Info("reset all data")
	return nil
}
