package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    value REAL NOT NULL,
    station TEXT,
    recorded_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS flood_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event TEXT NOT NULL,
    date DATE NOT NULL,
    affected_barangays TEXT,
    casualties_dead INTEGER DEFAULT 0,
    casualties_injured INTEGER DEFAULT 0,
    casualties_missing INTEGER DEFAULT 0,
    affected_persons INTEGER DEFAULT 0,
    affected_families INTEGER DEFAULT 0,
    houses_damaged_partially INTEGER DEFAULT 0,
    houses_damaged_totally INTEGER DEFAULT 0,
    damage_infrastructure REAL DEFAULT 0,
    damage_agriculture REAL DEFAULT 0,
    damage_institutions REAL DEFAULT 0,
    damage_private_commerce REAL DEFAULT 0,
    damage_total REAL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS flood_record_activity (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    actor TEXT,
    action TEXT NOT NULL,
    flood_record_id INTEGER NOT NULL,
    event_type TEXT,
    event_date DATE,
    affected_barangays TEXT,
    casualties_dead INTEGER DEFAULT 0,
    casualties_injured INTEGER DEFAULT 0,
    casualties_missing INTEGER DEFAULT 0,
    affected_persons INTEGER DEFAULT 0,
    affected_families INTEGER DEFAULT 0,
    damage_total REAL DEFAULT 0,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_readings_kind_time ON readings(kind, recorded_at);
CREATE INDEX IF NOT EXISTS idx_flood_records_date ON flood_records(date);
CREATE INDEX IF NOT EXISTS idx_activity_created ON flood_record_activity(created_at);
`,
	},
	{
		Version:     2,
		Description: "Add ingest_runs for API fetch auditing",
		SQL: `
CREATE TABLE IF NOT EXISTS ingest_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at DATETIME NOT NULL,
    finished_at DATETIME,
    source TEXT NOT NULL,
    endpoint TEXT NOT NULL,
    http_status INTEGER,
    response_size_bytes INTEGER,
    records_parsed INTEGER,
    records_stored INTEGER,
    parse_errors INTEGER,
    success BOOLEAN DEFAULT FALSE,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_ingest_runs_started ON ingest_runs(started_at);
`,
	},
	{
		Version:     3,
		Description: "Add assessment and report activity records",
		SQL: `
CREATE TABLE IF NOT EXISTS assessment_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    actor TEXT,
    barangay TEXT,
    latitude TEXT,
    longitude TEXT,
    flood_risk_code TEXT,
    flood_risk_description TEXT,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS report_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    actor TEXT,
    barangay TEXT,
    latitude TEXT,
    longitude TEXT,
    flood_risk_code TEXT,
    flood_risk_label TEXT,
    created_at DATETIME NOT NULL
);
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		log.Printf("migrations: completed %d", m.Version)
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (s *Store) MigrationVersion() (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
