// ABOUTME: SQLite backend: connection lifecycle plus profile and log persistence.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harperreed/weightplan/internal/models"
	_ "modernc.org/sqlite"
)

// DBFileName is the database file inside the data directory.
const DBFileName = "weightplan.db"

// DB wraps the SQLite database connection.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath}

	// Configure pragmas for better performance
	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	// Initialize schema
	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "weightplan")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for optimal performance.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// LoadProfile reads the single profile document.
func (d *DB) LoadProfile() (models.StoredProfile, error) {
	var data string
	err := d.db.QueryRow("SELECT data FROM profile WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return DecodeProfile([]byte(data))
}

// SaveProfile replaces the profile document.
func (d *DB) SaveProfile(p *models.Profile) error {
	data, err := EncodeProfile(p)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO profile (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`
	if _, err := d.db.Exec(query, string(data), time.Now().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// LoadLogs returns every weight log, oldest first.
func (d *DB) LoadLogs() ([]models.WeightLog, error) {
	rows, err := d.db.Query("SELECT id, logged_at, weight FROM weight_logs ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}
	defer rows.Close()

	var logs []models.WeightLog
	for rows.Next() {
		var (
			l        models.WeightLog
			loggedAt string
		)
		if err := rows.Scan(&l.ID, &loggedAt, &l.Weight); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		l.Date, err = time.Parse(time.RFC3339Nano, loggedAt)
		if err != nil {
			return nil, fmt.Errorf("parse log date %q: %w", loggedAt, err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}
	// Stored offsets differ, so order by instant rather than text.
	return models.SortedLogs(logs), nil
}

// SaveLogs replaces the stored series in one transaction.
func (d *DB) SaveLogs(logs []models.WeightLog) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM weight_logs"); err != nil {
		return fmt.Errorf("clear logs: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO weight_logs (id, logged_at, weight) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range logs {
		if _, err := stmt.Exec(l.ID, l.Date.Format(time.RFC3339Nano), l.Weight); err != nil {
			return fmt.Errorf("save log %s: %w", models.ShortID(l.ID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit logs: %w", err)
	}
	return nil
}

// Reset deletes the profile and every log.
func (d *DB) Reset() error {
	for _, table := range []string{"weight_logs", "profile"} {
		if _, err := d.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
