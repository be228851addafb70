// ABOUTME: Backup documents for the whole profile and log series.
// ABOUTME: JSON round-trips through import; YAML and Markdown are for reading.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is bumped when the backup layout changes.
const BackupVersion = "1.0"

// Backup represents the full export format.
type Backup struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	Profile    *models.Profile    `json:"profile" yaml:"profile"`
	Logs       []models.WeightLog `json:"logs" yaml:"logs"`
}

// NewBackup snapshots a profile and its logs (oldest first).
func NewBackup(profile *models.Profile, logs []models.WeightLog, now time.Time) *Backup {
	return &Backup{
		Version:    BackupVersion,
		ExportedAt: now,
		Tool:       "weightplan",
		Profile:    profile,
		Logs:       models.SortedLogs(logs),
	}
}

// JSON renders the backup as indented JSON.
func (b *Backup) JSON() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// ParseJSON reads a backup produced by JSON.
func ParseJSON(data []byte) (*Backup, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if b.Profile == nil {
		return nil, fmt.Errorf("backup has no profile")
	}
	return &b, nil
}

type yamlPlan struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	StartDate    string  `yaml:"start_date"`
	TargetDate   string  `yaml:"target_date"`
	TargetWeight float64 `yaml:"target_weight"`
	Active       bool    `yaml:"active,omitempty"`
	Notes        string  `yaml:"notes,omitempty"`
}

type yamlLog struct {
	ID     string  `yaml:"id"`
	Date   string  `yaml:"date"`
	Weight float64 `yaml:"weight"`
}

// YAML renders a human-friendly YAML view with short IDs and plain dates.
func (b *Backup) YAML() ([]byte, error) {
	doc := struct {
		Version    string      `yaml:"version"`
		ExportedAt string      `yaml:"exported_at"`
		Tool       string      `yaml:"tool"`
		Profile    yamlProfile `yaml:"profile"`
		Plans      []yamlPlan  `yaml:"plans"`
		Logs       []yamlLog   `yaml:"logs"`
	}{
		Version:    b.Version,
		ExportedAt: b.ExportedAt.Format(time.RFC3339),
		Tool:       b.Tool,
		Plans:      make([]yamlPlan, 0, len(b.Profile.Plans)),
		Logs:       make([]yamlLog, 0, len(b.Logs)),
	}

	p := b.Profile
	doc.Profile = yamlProfile{
		HeightCm:      p.Height,
		CurrentWeight: p.CurrentWeight,
		Age:           p.Age,
		Gender:        string(p.Gender),
		ActivityLevel: string(p.ActivityLevel),
	}
	for _, pl := range p.Plans {
		doc.Plans = append(doc.Plans, yamlPlan{
			ID:           models.ShortID(pl.ID),
			Name:         pl.Name,
			StartDate:    pl.StartDate.Format(calendar.ISODate),
			TargetDate:   pl.TargetDate.Format(calendar.ISODate),
			TargetWeight: pl.TargetWeight,
			Active:       pl.IsActive,
			Notes:        pl.Notes,
		})
	}
	for _, l := range b.Logs {
		doc.Logs = append(doc.Logs, yamlLog{
			ID:     models.ShortID(l.ID),
			Date:   l.Date.Format(calendar.ISODate),
			Weight: l.Weight,
		})
	}

	return yaml.Marshal(doc)
}

type yamlProfile struct {
	HeightCm      float64 `yaml:"height_cm"`
	CurrentWeight float64 `yaml:"current_weight_kg"`
	Age           int     `yaml:"age"`
	Gender        string  `yaml:"gender"`
	ActivityLevel string  `yaml:"activity_level"`
}

// Markdown renders the report rows as a Markdown table.
func Markdown(title string, rows []Row, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s - %s\n\n", title, now.Format(calendar.ISODate)))
	if len(rows) == 0 {
		sb.WriteString("No weight logs.\n")
		return sb.String()
	}
	sb.WriteString("| " + strings.Join(Header, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("------|", len(Header)) + "\n")
	for _, r := range rows {
		sb.WriteString("| " + strings.Join(r.Fields(), " | ") + " |\n")
	}
	return sb.String()
}
