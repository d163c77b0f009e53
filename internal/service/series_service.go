package service

import (
	"github.com/terrisol/watergap-backend-go/internal/chart"
	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/repository"
	"github.com/terrisol/watergap-backend-go/internal/stats"
)

// SeriesService assembles per-point weekly series and their summaries for
// the linked chart.
type SeriesService struct {
	repo *repository.DatasetRepository
}

// NewSeriesService creates a new series service
func NewSeriesService(repo *repository.DatasetRepository) *SeriesService {
	return &SeriesService{repo: repo}
}

// Series returns the point's weekly values for every metric plus the
// water-balance summary block.
func (s *SeriesService) Series(pointID int64, season models.SeasonFilter) (*models.SeriesResponse, error) {
	point, level, err := s.repo.Point(pointID)
	if err != nil {
		return nil, err
	}

	weeks, series, err := s.repo.Series(pointID, season)
	if err != nil {
		return nil, err
	}

	wire := make(map[string][]float64, len(series))
	for metric, values := range series {
		wire[metric.Key()] = values
	}

	return &models.SeriesResponse{
		PointID: point.ID,
		Level:   level,
		Commune: point.Commune,
		X:       point.X,
		Y:       point.Y,
		Season:  season.String(),
		Weeks:   weeks,
		Series:  wire,
		Summary: summarize(series),
	}, nil
}

// Chart renders the point's series as a PNG.
func (s *SeriesService) Chart(pointID int64, season models.SeasonFilter) ([]byte, error) {
	resp, err := s.Series(pointID, season)
	if err != nil {
		return nil, err
	}
	return chart.RenderSeriesPNG(resp)
}

func summarize(series map[models.Metric][]float64) models.SeriesSummary {
	gap := series[models.MetricGap]
	stock := series[models.MetricStock]

	return models.SeriesSummary{
		TotalPrecipitation: stats.Sum(series[models.MetricPrecipitation]),
		TotalETP:           stats.Sum(series[models.MetricETP]),
		TotalGap:           stats.Sum(gap),
		WeeksWithGap:       stats.CountAbove(gap, 0),
		MaxGap:             stats.Max(gap),
		MinStock:           stats.Min(stock),
		MeanStock:          stats.Mean(stock),
	}
}
