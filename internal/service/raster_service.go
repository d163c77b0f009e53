package service

import (
	"sync"

	"github.com/terrisol/watergap-backend-go/internal/colormap"
	"github.com/terrisol/watergap-backend-go/internal/interp"
	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/repository"
)

// Viewport defaults for callers that omit dimensions.
const (
	defaultViewportW = 960
	defaultViewportH = 600
	defaultPadding   = 20
	defaultCellSize  = 8
	legendStopCount  = 7
)

// geomKey identifies a fitted geometry. Geometry depends on the sample
// positions and the viewport, so metric switches reuse it; week and season
// are part of the key because they select which points carry values at all.
type geomKey struct {
	level                            int
	week, season                     string
	width, height, padding, cellSize float64
}

// RasterService runs the interpolation pipeline: fit geometry, interpolate
// the metric, colorize the cells.
type RasterService struct {
	repo *repository.DatasetRepository

	mu    sync.Mutex
	geoms map[geomKey]models.RasterGeometry
}

// NewRasterService creates a new raster service
func NewRasterService(repo *repository.DatasetRepository) *RasterService {
	return &RasterService{
		repo:  repo,
		geoms: make(map[geomKey]models.RasterGeometry),
	}
}

// InvalidateGeometry drops memoized geometries. Called when the underlying
// dataset is reloaded, since positions may have changed.
func (s *RasterService) InvalidateGeometry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geoms = make(map[geomKey]models.RasterGeometry)
}

// BuildRaster computes the full colored raster for the filter.
func (s *RasterService) BuildRaster(filter models.RasterFilter) (*models.RasterResponse, error) {
	metric, err := models.ParseMetric(filter.Metric)
	if err != nil {
		return nil, err
	}
	season, err := models.ParseSeason(filter.Season)
	if err != nil {
		return nil, err
	}
	applyRasterDefaults(&filter)

	samples, err := s.repo.Samples(filter.Level, filter.Week, season)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, interp.ErrEmptyDataset
	}

	geom, err := s.geometryFor(samples, filter, season)
	if err != nil {
		return nil, err
	}

	cells, err := interp.Interpolate(samples, geom, metric, filter.K, filter.Power)
	if err != nil {
		return nil, err
	}

	domain, err := colormap.BuildDomain(samples, metric)
	if err != nil {
		return nil, err
	}
	for i := range cells {
		cells[i].Color = colormap.ColorFor(cells[i].Value, domain, metric)
	}

	return &models.RasterResponse{
		Level:    filter.Level,
		Week:     filter.Week,
		Metric:   metric.Key(),
		Geometry: geom,
		Domain:   domain,
		Cells:    cells,
	}, nil
}

// Legend returns the metric's color scale over the current sample extrema.
func (s *RasterService) Legend(filter models.LegendFilter) (*models.LegendResponse, error) {
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

	domain, err := colormap.BuildDomain(samples, metric)
	if err != nil {
		return nil, err
	}

	return &models.LegendResponse{
		Metric: metric.Spec(),
		Domain: domain,
		Stops:  colormap.LegendStops(domain, metric, legendStopCount),
	}, nil
}

func (s *RasterService) geometryFor(samples []models.SamplePoint, filter models.RasterFilter, season models.SeasonFilter) (models.RasterGeometry, error) {
	key := geomKey{
		level:    filter.Level,
		week:     filter.Week,
		season:   season.String(),
		width:    filter.Width,
		height:   filter.Height,
		padding:  filter.Padding,
		cellSize: filter.CellSize,
	}

	s.mu.Lock()
	geom, ok := s.geoms[key]
	s.mu.Unlock()
	if ok {
		return geom, nil
	}

	geom, err := interp.FitGeometry(samples, filter.Width, filter.Height, filter.Padding, filter.CellSize)
	if err != nil {
		return models.RasterGeometry{}, err
	}

	s.mu.Lock()
	s.geoms[key] = geom
	s.mu.Unlock()
	return geom, nil
}

func applyRasterDefaults(filter *models.RasterFilter) {
	if filter.Width == 0 {
		filter.Width = defaultViewportW
	}
	if filter.Height == 0 {
		filter.Height = defaultViewportH
	}
	if filter.Padding == 0 {
		filter.Padding = defaultPadding
	}
	if filter.CellSize == 0 {
		filter.CellSize = defaultCellSize
	}
	if filter.K == 0 {
		filter.K = interp.DefaultK
	}
	if filter.Power == 0 {
		filter.Power = interp.DefaultPower
	}
}
