// ABOUTME: Plan model for named, dated weight goals.
// ABOUTME: A profile holds many plans; at most one is active.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a weight goal with a start date, target date, and target weight.
type Plan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"startDate"`
	TargetWeight float64   `json:"targetWeight"` // kg
	TargetDate   time.Time `json:"targetDate"`
	IsActive     bool      `json:"isActive"`
	Notes        string    `json:"notes,omitempty"`
}

// NewID returns a fresh opaque identifier for plans and logs.
func NewID() string {
	return uuid.NewString()
}

// ShortID returns the 8-character prefix shown in listings.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
