// ABOUTME: In-memory Repository used by tests and dry runs.
// ABOUTME: Keeps the encoded profile document so legacy decoding is exercised.
package storage

import "github.com/harperreed/weightplan/internal/models"

// MemoryStore is an in-process Repository holding the raw profile document.
type MemoryStore struct {
	profile []byte
	logs    []models.WeightLog
}

// NewMemoryStore returns an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SetRawProfile stores a profile document verbatim.
func (m *MemoryStore) SetRawProfile(data []byte) {
	m.profile = append([]byte(nil), data...)
}

func (m *MemoryStore) LoadProfile() (models.StoredProfile, error) {
	if m.profile == nil {
		return nil, ErrNoProfile
	}
	return DecodeProfile(m.profile)
}

func (m *MemoryStore) SaveProfile(p *models.Profile) error {
	data, err := EncodeProfile(p)
	if err != nil {
		return err
	}
	m.profile = data
	return nil
}

func (m *MemoryStore) LoadLogs() ([]models.WeightLog, error) {
	return models.SortedLogs(m.logs), nil
}

func (m *MemoryStore) SaveLogs(logs []models.WeightLog) error {
	m.logs = append([]models.WeightLog(nil), logs...)
	return nil
}

func (m *MemoryStore) Reset() error {
	m.profile = nil
	m.logs = nil
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
