package service

import (
	"log"

	"github.com/terrisol/watergap-backend-go/internal/interp"
	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/repository"
	"github.com/terrisol/watergap-backend-go/internal/spatial"
)

// DatasetService exposes the dataset's metadata and raw points, and owns the
// reload path.
type DatasetService struct {
	repo   *repository.DatasetRepository
	raster *RasterService
}

// NewDatasetService creates a new dataset service
func NewDatasetService(repo *repository.DatasetRepository, raster *RasterService) *DatasetService {
	return &DatasetService{repo: repo, raster: raster}
}

// Metrics returns the metric configuration table.
func (s *DatasetService) Metrics() []models.MetricSpec {
	metrics := models.AllMetrics()
	specs := make([]models.MetricSpec, len(metrics))
	for i, m := range metrics {
		specs[i] = m.Spec()
	}
	return specs
}

// Levels describes the imported scale levels.
func (s *DatasetService) Levels() ([]models.LevelInfo, error) {
	return s.repo.Levels()
}

// Points returns the raw sample points with the selected metric's value and
// approximate WGS84 positions for tooltip placement. Points lacking the
// metric are excluded, mirroring the interpolation's soft-exclusion policy.
func (s *DatasetService) Points(filter models.PointsFilter) ([]models.PointRecord, error) {
	metric, err := models.ParseMetric(filter.Metric)
	if err != nil {
		return nil, err
	}
	season, err := models.ParseSeason(filter.Season)
	if err != nil {
		return nil, err
	}

	samples, err := s.repo.Samples(filter.Level, filter.Week, season)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, interp.ErrEmptyDataset
	}

	records := make([]models.PointRecord, 0, len(samples))
	for _, p := range samples {
		v, ok := p.Value(metric)
		if !ok {
			continue
		}
		lat, lon := spatial.ToWGS84(p.X, p.Y)
		records = append(records, models.PointRecord{
			ID:        p.ID,
			X:         p.X,
			Y:         p.Y,
			Lat:       lat,
			Lon:       lon,
			Commune:   p.Commune,
			Kc:        p.Kc,
			ReserveMM: p.ReserveMM,
			Value:     v,
		})
	}
	return records, nil
}

// Reload invalidates every derived cache after a re-import.
func (s *DatasetService) Reload() {
	s.repo.Invalidate()
	s.raster.InvalidateGeometry()
	log.Printf("[DatasetService] caches reloaded")
}
