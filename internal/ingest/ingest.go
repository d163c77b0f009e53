// Package ingest loads the exporter's compact level JSON files into sqlite.
package ingest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/terrisol/watergap-backend-go/internal/database"
	"github.com/terrisol/watergap-backend-go/internal/models"
)

// LevelFile mirrors the exporter's schema: parallel point arrays plus
// week-major metric matrices. Kc and ReserveMM are optional enrichments.
type LevelFile struct {
	Spacing  float64     `json:"spacing"`
	Weeks    []string    `json:"weeks"`
	X        []float64   `json:"x"`
	Y        []float64   `json:"y"`
	Communes []string    `json:"communes"`
	Kc       []float64   `json:"kc"`
	Reserve  []float64   `json:"ru_mm"`
	Stock    [][]float64 `json:"stock"`
	Gap      [][]float64 `json:"gap"`
	P        [][]float64 `json:"P"`
	ETP      [][]float64 `json:"ETP"`
}

func (f *LevelFile) validate() error {
	n := len(f.X)
	if n == 0 {
		return fmt.Errorf("level file has no points")
	}
	if len(f.Y) != n {
		return fmt.Errorf("x/y length mismatch: %d vs %d", n, len(f.Y))
	}
	if len(f.Communes) != 0 && len(f.Communes) != n {
		return fmt.Errorf("communes length mismatch: %d vs %d", len(f.Communes), n)
	}
	if len(f.Kc) != 0 && len(f.Kc) != n {
		return fmt.Errorf("kc length mismatch: %d vs %d", len(f.Kc), n)
	}
	if len(f.Reserve) != 0 && len(f.Reserve) != n {
		return fmt.Errorf("ru_mm length mismatch: %d vs %d", len(f.Reserve), n)
	}
	for _, m := range []struct {
		key  string
		rows [][]float64
	}{
		{"stock", f.Stock}, {"gap", f.Gap}, {"P", f.P}, {"ETP", f.ETP},
	} {
		if len(m.rows) != len(f.Weeks) {
			return fmt.Errorf("%s has %d weeks, expected %d", m.key, len(m.rows), len(f.Weeks))
		}
		for w, row := range m.rows {
			if len(row) != n {
				return fmt.Errorf("%s week %d has %d values, expected %d", m.key, w, len(row), n)
			}
		}
	}
	return nil
}

func (f *LevelFile) metricRows() map[models.Metric][][]float64 {
	return map[models.Metric][][]float64{
		models.MetricStock:         f.Stock,
		models.MetricGap:           f.Gap,
		models.MetricPrecipitation: f.P,
		models.MetricETP:           f.ETP,
	}
}

// ImportFile loads one level file, replacing any previous import of that
// level. Returns the number of points imported.
func ImportFile(db *sql.DB, level int, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file LevelFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := file.validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	err = database.Transaction(db, func(tx *sql.Tx) error {
		if err := clearLevel(tx, level); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO scale_levels (level, spacing_hm) VALUES (?, ?)",
			level, file.Spacing,
		); err != nil {
			return fmt.Errorf("failed to insert scale level: %w", err)
		}
		return insertPoints(tx, level, &file)
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[ingest] level %d: %d points, %d weeks (%s)",
		level, len(file.X), len(file.Weeks), filepath.Base(path))
	return len(file.X), nil
}

func clearLevel(tx *sql.Tx, level int) error {
	if _, err := tx.Exec(`
		DELETE FROM weekly_values WHERE point_id IN
		(SELECT id FROM sample_points WHERE level = ?)`, level); err != nil {
		return fmt.Errorf("failed to clear weekly values: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sample_points WHERE level = ?", level); err != nil {
		return fmt.Errorf("failed to clear sample points: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM scale_levels WHERE level = ?", level); err != nil {
		return fmt.Errorf("failed to clear scale level: %w", err)
	}
	return nil
}

func insertPoints(tx *sql.Tx, level int, file *LevelFile) error {
	pointStmt, err := tx.Prepare(`
		INSERT INTO sample_points (level, lamb_x, lamb_y, commune, kc, reserve_mm)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer pointStmt.Close()

	valueStmt, err := tx.Prepare(`
		INSERT INTO weekly_values (point_id, week, metric, value)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare value insert: %w", err)
	}
	defer valueStmt.Close()

	rows := file.metricRows()
	for i := range file.X {
		commune := ""
		if len(file.Communes) > 0 {
			commune = file.Communes[i]
		}
		kc := 0.0
		if len(file.Kc) > 0 {
			kc = file.Kc[i]
		}
		reserve := 0.0
		if len(file.Reserve) > 0 {
			reserve = file.Reserve[i]
		}

		res, err := pointStmt.Exec(level, file.X[i], file.Y[i], commune, kc, reserve)
		if err != nil {
			return fmt.Errorf("failed to insert point %d: %w", i, err)
		}
		pointID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read point id: %w", err)
		}

		for metric, matrix := range rows {
			for w, week := range file.Weeks {
				if _, err := valueStmt.Exec(pointID, week, metric.Key(), matrix[w][i]); err != nil {
					return fmt.Errorf("failed to insert %s value: %w", metric, err)
				}
			}
		}
	}
	return nil
}

var levelFilePattern = regexp.MustCompile(`^level_(\d+)_weekly\.json$`)

// ImportDir imports every level_<n>_weekly.json file found in dir.
func ImportDir(db *sql.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read data dir: %w", err)
	}

	imported := 0
	for _, entry := range entries {
		match := levelFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		level, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if _, err := ImportFile(db, level, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
		imported++
	}
	if imported == 0 {
		return fmt.Errorf("no level_*_weekly.json files in %s", dir)
	}
	return nil
}
