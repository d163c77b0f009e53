package repository

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/spatial"
)

// growingSeasonClause filters week labels (YYYY-Www) to ISO weeks 14-39.
// The week number starts at character 7 of the fixed-width label.
const growingSeasonClause = " AND CAST(substr(v.week, 7) AS INTEGER) BETWEEN 14 AND 39"

// DatasetRepository reads the imported dataset from sqlite and memoizes the
// derived sample sets. It replaces the viewer's old global dataset cache:
// consumers receive the repository explicitly and Invalidate is the one
// cache-clearing path.
type DatasetRepository struct {
	db *sql.DB

	mu      sync.RWMutex
	samples map[string][]models.SamplePoint
	levels  []models.LevelInfo
	weeks   map[int][]string
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{
		db:      db,
		samples: make(map[string][]models.SamplePoint),
		weeks:   make(map[int][]string),
	}
}

// Invalidate drops every memoized result. Call after re-importing data.
func (r *DatasetRepository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = make(map[string][]models.SamplePoint)
	r.levels = nil
	r.weeks = make(map[int][]string)
	log.Printf("[DatasetRepository] cache invalidated")
}

// Samples returns the level's sample points with metric values for the given
// week, or the whole-period mean when week is empty. The season filter only
// applies to the mean: an explicit week already names its season. Results
// are memoized; callers must not mutate them.
func (r *DatasetRepository) Samples(level int, week string, season models.SeasonFilter) ([]models.SamplePoint, error) {
	key := fmt.Sprintf("%d|%s|%s", level, week, season)

	r.mu.RLock()
	cached, ok := r.samples[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	samples, err := r.querySamples(level, week, season)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.samples[key] = samples
	r.mu.Unlock()
	return samples, nil
}

func (r *DatasetRepository) querySamples(level int, week string, season models.SeasonFilter) ([]models.SamplePoint, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if week != "" {
		query := `
			SELECT p.id, p.lamb_x, p.lamb_y, p.commune, p.kc, p.reserve_mm, v.metric, v.value
			FROM sample_points p
			JOIN weekly_values v ON v.point_id = p.id
			WHERE p.level = ? AND v.week = ?
			ORDER BY p.id`
		rows, err = r.db.Query(query, level, week)
	} else {
		query := `
			SELECT p.id, p.lamb_x, p.lamb_y, p.commune, p.kc, p.reserve_mm, v.metric, AVG(v.value)
			FROM sample_points p
			JOIN weekly_values v ON v.point_id = p.id
			WHERE p.level = ?`
		if season == models.SeasonGrowing {
			query += growingSeasonClause
		}
		query += `
			GROUP BY p.id, v.metric
			ORDER BY p.id`
		rows, err = r.db.Query(query, level)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []models.SamplePoint
	var current *models.SamplePoint
	for rows.Next() {
		var (
			id        int64
			x, y      float64
			commune   sql.NullString
			kc        float64
			reserve   float64
			metricKey string
			value     float64
		)
		if err := rows.Scan(&id, &x, &y, &commune, &kc, &reserve, &metricKey, &value); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}

		if current == nil || current.ID != id {
			samples = append(samples, models.SamplePoint{
				ID:        id,
				X:         x,
				Y:         y,
				Commune:   commune.String,
				Kc:        kc,
				ReserveMM: reserve,
				Values:    make(map[models.Metric]float64, 4),
			})
			current = &samples[len(samples)-1]
		}

		metric, err := models.ParseMetric(metricKey)
		if err != nil {
			// Rows written by a newer importer; skip rather than fail the pass.
			continue
		}
		current.Values[metric] = value
	}
	return samples, rows.Err()
}

// Levels describes every imported scale level. Memoized.
func (r *DatasetRepository) Levels() ([]models.LevelInfo, error) {
	r.mu.RLock()
	cached := r.levels
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	rows, err := r.db.Query("SELECT level, spacing_hm FROM scale_levels ORDER BY level")
	if err != nil {
		return nil, fmt.Errorf("failed to query scale levels: %w", err)
	}
	defer rows.Close()

	var levels []models.LevelInfo
	for rows.Next() {
		var info models.LevelInfo
		if err := rows.Scan(&info.Level, &info.SpacingHm); err != nil {
			return nil, fmt.Errorf("failed to scan scale level: %w", err)
		}
		levels = append(levels, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range levels {
		if err := r.fillLevelInfo(&levels[i]); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.levels = levels
	r.mu.Unlock()
	return levels, nil
}

func (r *DatasetRepository) fillLevelInfo(info *models.LevelInfo) error {
	var (
		minX, maxX, minY, maxY sql.NullFloat64
	)
	err := r.db.QueryRow(`
		SELECT COUNT(*), MIN(lamb_x), MAX(lamb_x), MIN(lamb_y), MAX(lamb_y)
		FROM sample_points WHERE level = ?`, info.Level).
		Scan(&info.PointCount, &minX, &maxX, &minY, &maxY)
	if err != nil {
		return fmt.Errorf("failed to query level %d stats: %w", info.Level, err)
	}

	if info.PointCount > 0 {
		info.WidthKm, info.HeightKm = spatial.ExtentKm(spatial.Bounds{
			MinX: minX.Float64, MaxX: maxX.Float64,
			MinY: minY.Float64, MaxY: maxY.Float64,
		})
	}

	var firstWeek, lastWeek sql.NullString
	err = r.db.QueryRow(`
		SELECT COUNT(DISTINCT v.week), MIN(v.week), MAX(v.week)
		FROM weekly_values v
		JOIN sample_points p ON p.id = v.point_id
		WHERE p.level = ?`, info.Level).
		Scan(&info.WeekCount, &firstWeek, &lastWeek)
	if err != nil {
		return fmt.Errorf("failed to query level %d weeks: %w", info.Level, err)
	}
	info.FirstWeek = firstWeek.String
	info.LastWeek = lastWeek.String
	return nil
}

// Weeks lists the level's week labels in chronological order. Memoized.
func (r *DatasetRepository) Weeks(level int) ([]string, error) {
	r.mu.RLock()
	cached, ok := r.weeks[level]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	rows, err := r.db.Query(`
		SELECT DISTINCT v.week
		FROM weekly_values v
		JOIN sample_points p ON p.id = v.point_id
		WHERE p.level = ?
		ORDER BY v.week`, level)
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	defer rows.Close()

	var weeks []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.weeks[level] = weeks
	r.mu.Unlock()
	return weeks, nil
}

// Point fetches a single sample point without metric values, returning the
// scale level it belongs to. sql.ErrNoRows is wrapped for unknown ids.
func (r *DatasetRepository) Point(pointID int64) (models.SamplePoint, int, error) {
	var (
		p       models.SamplePoint
		level   int
		commune sql.NullString
	)
	err := r.db.QueryRow(`
		SELECT id, level, lamb_x, lamb_y, commune, kc, reserve_mm
		FROM sample_points WHERE id = ?`, pointID).
		Scan(&p.ID, &level, &p.X, &p.Y, &commune, &p.Kc, &p.ReserveMM)
	if err != nil {
		return models.SamplePoint{}, 0, fmt.Errorf("point %d: %w", pointID, err)
	}
	p.Commune = commune.String
	return p, level, nil
}

// Series returns the point's weekly values per metric, aligned with the
// returned week labels. The season filter is applied explicitly here, never
// read from shared state.
func (r *DatasetRepository) Series(pointID int64, season models.SeasonFilter) ([]string, map[models.Metric][]float64, error) {
	rows, err := r.db.Query(`
		SELECT week, metric, value
		FROM weekly_values
		WHERE point_id = ?
		ORDER BY week, metric`, pointID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()

	byWeek := make(map[string]map[models.Metric]float64)
	var weeks []string
	for rows.Next() {
		var (
			week, metricKey string
			value           float64
		)
		if err := rows.Scan(&week, &metricKey, &value); err != nil {
			return nil, nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		if !season.Includes(week) {
			continue
		}
		metric, err := models.ParseMetric(metricKey)
		if err != nil {
			continue
		}
		if _, ok := byWeek[week]; !ok {
			byWeek[week] = make(map[models.Metric]float64, 4)
			weeks = append(weeks, week) // rows arrive week-ordered
		}
		byWeek[week][metric] = value
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	series := make(map[models.Metric][]float64, 4)
	for _, m := range models.AllMetrics() {
		values := make([]float64, len(weeks))
		for i, w := range weeks {
			values[i] = byWeek[w][m]
		}
		series[m] = values
	}
	return weeks, series, nil
}
