package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. New versions append here.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_scale_levels",
		SQL: `
			CREATE TABLE IF NOT EXISTS scale_levels (
				level INTEGER PRIMARY KEY,
				spacing_hm REAL NOT NULL
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_sample_points",
		SQL: `
			CREATE TABLE IF NOT EXISTS sample_points (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				level INTEGER NOT NULL REFERENCES scale_levels(level),
				lamb_x REAL NOT NULL,
				lamb_y REAL NOT NULL,
				commune TEXT,
				kc REAL NOT NULL DEFAULT 0,
				reserve_mm REAL NOT NULL DEFAULT 0,
				UNIQUE(level, lamb_x, lamb_y)
			);
			CREATE INDEX IF NOT EXISTS idx_sample_points_level ON sample_points(level)
		`,
	},
	{
		Version: 3,
		Name:    "create_weekly_values",
		SQL: `
			CREATE TABLE IF NOT EXISTS weekly_values (
				point_id INTEGER NOT NULL REFERENCES sample_points(id),
				week TEXT NOT NULL,
				metric TEXT NOT NULL,
				value REAL NOT NULL,
				PRIMARY KEY (point_id, week, metric)
			);
			CREATE INDEX IF NOT EXISTS idx_weekly_values_week ON weekly_values(week)
		`,
	},
}

// Migrate applies every pending migration in version order.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}
	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func apply(db *sql.DB, m Migration) error {
	return Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(m.SQL); err != nil {
			return err
		}
		_, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name)
		return err
	})
}
