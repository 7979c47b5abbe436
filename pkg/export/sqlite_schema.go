// Package export writes dynophore data out of the process: a SQLite
// database for downstream querying, CSV tables for spreadsheet work, and
// a Markdown report for humans.
package export

import (
	"database/sql"
	"fmt"
)

// Schema version for tracking migrations
const SchemaVersion = 1

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(db *sql.DB) error {
	if err := createCoreTables(db); err != nil {
		return fmt.Errorf("create core tables: %w", err)
	}

	if err := createSeriesTables(db); err != nil {
		return fmt.Errorf("create series tables: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	if err := createMetaTable(db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	return nil
}

// createCoreTables creates the superfeatures, envpartners and clouds tables.
func createCoreTables(db *sql.DB) error {
	superfeaturesSQL := `
		CREATE TABLE IF NOT EXISTS superfeatures (
			id TEXT PRIMARY KEY,
			feature_type TEXT NOT NULL,
			atom_numbers TEXT NOT NULL,
			count INTEGER NOT NULL,
			frequency REAL NOT NULL
		)
	`
	if _, err := db.Exec(superfeaturesSQL); err != nil {
		return fmt.Errorf("create superfeatures table: %w", err)
	}

	envpartnersSQL := `
		CREATE TABLE IF NOT EXISTS envpartners (
			superfeature_id TEXT NOT NULL,
			id TEXT NOT NULL,
			residue_name TEXT NOT NULL,
			residue_number INTEGER NOT NULL,
			chain TEXT NOT NULL,
			atom_numbers TEXT NOT NULL,
			count INTEGER NOT NULL,
			frequency REAL NOT NULL,
			PRIMARY KEY (superfeature_id, id),
			FOREIGN KEY (superfeature_id) REFERENCES superfeatures(id)
		)
	`
	if _, err := db.Exec(envpartnersSQL); err != nil {
		return fmt.Errorf("create envpartners table: %w", err)
	}

	cloudsSQL := `
		CREATE TABLE IF NOT EXISTS clouds (
			superfeature_id TEXT NOT NULL,
			point_index INTEGER NOT NULL,
			is_center INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			PRIMARY KEY (superfeature_id, point_index)
		)
	`
	if _, err := db.Exec(cloudsSQL); err != nil {
		return fmt.Errorf("create clouds table: %w", err)
	}

	return nil
}

// createSeriesTables creates the per-frame occurrence and distance tables.
func createSeriesTables(db *sql.DB) error {
	occurrencesSQL := `
		CREATE TABLE IF NOT EXISTS occurrences (
			superfeature_id TEXT NOT NULL,
			envpartner_id TEXT,
			frame INTEGER NOT NULL,
			present INTEGER NOT NULL
		)
	`
	if _, err := db.Exec(occurrencesSQL); err != nil {
		return fmt.Errorf("create occurrences table: %w", err)
	}

	// Frames without a measured distance carry NULL.
	distancesSQL := `
		CREATE TABLE IF NOT EXISTS distances (
			superfeature_id TEXT NOT NULL,
			envpartner_id TEXT NOT NULL,
			frame INTEGER NOT NULL,
			distance REAL
		)
	`
	if _, err := db.Exec(distancesSQL); err != nil {
		return fmt.Errorf("create distances table: %w", err)
	}

	return nil
}

// createIndexes creates indexes for the common lookups.
func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_occurrences_superfeature ON occurrences(superfeature_id, frame)`,
		`CREATE INDEX IF NOT EXISTS idx_distances_superfeature ON distances(superfeature_id, envpartner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_envpartners_superfeature ON envpartners(superfeature_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// createMetaTable creates the key/value metadata table.
func createMetaTable(db *sql.DB) error {
	metaSQL := `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`
	if _, err := db.Exec(metaSQL); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}
	return nil
}
