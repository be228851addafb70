// ABOUTME: Repository implementation over Charm KV.
// ABOUTME: The profile lives under one key; each log under log:<id>.
package charm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/weightplan/internal/models"
	"github.com/harperreed/weightplan/internal/storage"
)

var _ storage.Repository = (*Client)(nil)

// LoadProfile reads the profile document.
func (c *Client) LoadProfile() (models.StoredProfile, error) {
	data, err := c.get(ProfileKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return storage.DecodeProfile(data)
}

// SaveProfile replaces the profile document.
func (c *Client) SaveProfile(p *models.Profile) error {
	data, err := storage.EncodeProfile(p)
	if err != nil {
		return err
	}
	return c.write(func() error {
		if err := c.kv.Set([]byte(ProfileKey), data); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return nil
	})
}

// LoadLogs returns every log, oldest first.
func (c *Client) LoadLogs() ([]models.WeightLog, error) {
	values, err := c.listByPrefix(LogPrefix)
	if err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}

	logs := make([]models.WeightLog, 0, len(values))
	for _, v := range values {
		l, err := unmarshalJSON[models.WeightLog](v)
		if err != nil {
			return nil, fmt.Errorf("decode log: %w", err)
		}
		logs = append(logs, *l)
	}
	return models.SortedLogs(logs), nil
}

// SaveLogs writes the series, removing keys for logs no longer present.
func (c *Client) SaveLogs(logs []models.WeightLog) error {
	return c.write(func() error {
		keep := make(map[string]bool, len(logs))
		for _, l := range logs {
			data, err := marshalLog(l)
			if err != nil {
				return err
			}
			if err := c.kv.Set([]byte(LogPrefix+l.ID), data); err != nil {
				return fmt.Errorf("save log %s: %w", models.ShortID(l.ID), err)
			}
			keep[l.ID] = true
		}

		existing, err := c.keysByPrefix(LogPrefix)
		if err != nil {
			return fmt.Errorf("list logs: %w", err)
		}
		for _, key := range existing {
			if keep[extractID(string(key), LogPrefix)] {
				continue
			}
			if err := c.kv.Delete(key); err != nil {
				return fmt.Errorf("delete log: %w", err)
			}
		}
		return nil
	})
}

// Reset deletes the profile and every log.
func (c *Client) Reset() error {
	return c.write(func() error {
		keys, err := c.keysByPrefix(LogPrefix)
		if err != nil {
			return fmt.Errorf("list logs: %w", err)
		}
		keys = append(keys, []byte(ProfileKey))
		for _, key := range keys {
			if err := c.kv.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil
	})
}

func marshalLog(l models.WeightLog) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode log: %w", err)
	}
	return data, nil
}
