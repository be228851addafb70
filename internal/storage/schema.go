// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the single-row profile table and the weight_logs table.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS weight_logs (
		id TEXT PRIMARY KEY,
		logged_at TEXT NOT NULL,
		weight REAL NOT NULL
	);
	`

	_, err := d.db.Exec(schema)
	return err
}
