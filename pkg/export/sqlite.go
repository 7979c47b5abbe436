package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/metrics"
	"github.com/dynoviz/dynoplot/pkg/version"
)

// SQLiteExporter writes a dynophore to a SQLite database.
type SQLiteExporter struct {
	Dynophore *dyno.Dynophore
}

// NewSQLiteExporter creates an exporter for the given dynophore.
func NewSQLiteExporter(d *dyno.Dynophore) *SQLiteExporter {
	return &SQLiteExporter{Dynophore: d}
}

// Export writes the database to path, replacing any existing file.
func (e *SQLiteExporter) Export(path string) error {
	defer metrics.Timer(metrics.ExportSQLite)()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if err := e.insertSuperfeatures(db); err != nil {
		return fmt.Errorf("insert superfeatures: %w", err)
	}
	if err := e.insertEnvPartners(db); err != nil {
		return fmt.Errorf("insert envpartners: %w", err)
	}
	if err := e.insertSeries(db); err != nil {
		return fmt.Errorf("insert series: %w", err)
	}
	if err := e.insertClouds(db); err != nil {
		return fmt.Errorf("insert clouds: %w", err)
	}
	if err := e.insertMeta(db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("optimize database: %w", err)
	}
	return nil
}

func (e *SQLiteExporter) insertSuperfeatures(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO superfeatures (id, feature_type, atom_numbers, count, frequency)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sf := range e.Dynophore.Superfeatures {
		if _, err := stmt.Exec(sf.ID, sf.FeatureType, joinInts(sf.AtomNumbers), sf.Count(), sf.Frequency()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertEnvPartners(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO envpartners (superfeature_id, id, residue_name, residue_number, chain, atom_numbers, count, frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sf := range e.Dynophore.Superfeatures {
		for _, p := range sf.EnvPartners {
			if _, err := stmt.Exec(sf.ID, p.ID, p.ResidueName, p.ResidueNumber, p.Chain,
				joinInts(p.AtomNumbers), p.Count(), p.Frequency()); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertSeries(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	occStmt, err := tx.Prepare(`
		INSERT INTO occurrences (superfeature_id, envpartner_id, frame, present)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer occStmt.Close()

	distStmt, err := tx.Prepare(`
		INSERT INTO distances (superfeature_id, envpartner_id, frame, distance)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer distStmt.Close()

	for _, sf := range e.Dynophore.Superfeatures {
		for frame, v := range sf.Occurrences {
			// NULL envpartner_id marks the superfeature's own series.
			if _, err := occStmt.Exec(sf.ID, nil, frame, int(v)); err != nil {
				return err
			}
		}
		for _, p := range sf.EnvPartners {
			for frame, v := range p.Occurrences {
				if _, err := occStmt.Exec(sf.ID, p.ID, frame, int(v)); err != nil {
					return err
				}
			}
			for frame, v := range p.Distances {
				var dist any
				if !dyno.IsMissing(v) {
					dist = v
				}
				if _, err := distStmt.Exec(sf.ID, p.ID, frame, dist); err != nil {
					return err
				}
			}
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertClouds(db *sql.DB) error {
	if len(e.Dynophore.Clouds) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO clouds (superfeature_id, point_index, is_center, x, y, z)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sf := range e.Dynophore.Superfeatures {
		cloud, ok := e.Dynophore.Clouds[sf.ID]
		if !ok {
			continue
		}
		if _, err := stmt.Exec(sf.ID, 0, 1, cloud.Center.X, cloud.Center.Y, cloud.Center.Z); err != nil {
			return err
		}
		for i, p := range cloud.Points {
			if _, err := stmt.Exec(sf.ID, i+1, 0, p.X, p.Y, p.Z); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (e *SQLiteExporter) insertMeta(db *sql.DB) error {
	meta := map[string]string{
		"dynophore_id":     e.Dynophore.ID,
		"n_frames":         strconv.Itoa(e.Dynophore.NumFrames()),
		"n_superfeatures":  strconv.Itoa(e.Dynophore.NumSuperfeatures()),
		"schema_version":   strconv.Itoa(SchemaVersion),
		"dynoplot_version": version.Version,
		"exported_at":      time.Now().UTC().Format(time.RFC3339),
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for key, value := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// joinInts formats atom serials as a comma-separated list, the same form
// they take inside superfeature IDs.
func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
