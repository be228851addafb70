// ABOUTME: JSON codec for the stored profile document.
// ABOUTME: Documents without a "plans" key decode as the legacy single-goal schema.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/weightplan/internal/calendar"
	"github.com/harperreed/weightplan/internal/models"
)

// legacyFields are the goal fields older documents kept on the profile.
type legacyFields struct {
	TargetWeight *float64        `json:"targetWeight"`
	TargetDate   json.RawMessage `json:"targetDate"`
}

// DecodeProfile parses a stored profile document.
func DecodeProfile(data []byte) (models.StoredProfile, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	normalizeEnums(&p)

	if raw, ok := keys["plans"]; ok && string(raw) != "null" {
		if p.Plans == nil {
			p.Plans = []models.Plan{}
		}
		return &models.CurrentProfile{Profile: p}, nil
	}

	var lf legacyFields
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("decode legacy profile: %w", err)
	}
	legacy := &models.LegacyProfile{Profile: p, TargetWeight: lf.TargetWeight}
	if len(lf.TargetDate) > 0 && string(lf.TargetDate) != "null" {
		t, err := decodeDate(lf.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("decode legacy target date: %w", err)
		}
		legacy.TargetDate = &t
	}
	return legacy, nil
}

// EncodeProfile renders a profile document. The plan list is always written,
// so an encoded profile never reads back as legacy.
func EncodeProfile(p *models.Profile) ([]byte, error) {
	out := *p
	if out.Plans == nil {
		out.Plans = []models.Plan{}
	}
	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return data, nil
}

// decodeDate accepts an RFC 3339 timestamp or a bare ISO date.
func decodeDate(raw json.RawMessage) (time.Time, error) {
	var t time.Time
	if err := json.Unmarshal(raw, &t); err == nil {
		return t, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(calendar.ISODate, s, time.Local)
}

// normalizeEnums maps display names older documents stored onto enum keys.
func normalizeEnums(p *models.Profile) {
	if g, err := models.ParseGender(string(p.Gender)); err == nil {
		p.Gender = g
	}
	if lvl, err := models.ParseActivityLevel(string(p.ActivityLevel)); err == nil {
		p.ActivityLevel = lvl
	}
}
