package models

// SeriesSummary condenses a point's weekly series the way the legacy
// reporting did: totals, deficit extent and stock extremes.
type SeriesSummary struct {
	TotalPrecipitation float64 `json:"total_precipitation"`
	TotalETP           float64 `json:"total_etp"`
	TotalGap           float64 `json:"total_gap"`
	WeeksWithGap       int     `json:"weeks_with_gap"`
	MaxGap             float64 `json:"max_gap"`
	MinStock           float64 `json:"min_stock"`
	MeanStock          float64 `json:"mean_stock"`
}

// SeriesResponse is the payload of the per-point series endpoint. Series is
// keyed by metric wire key, each slice aligned with Weeks.
type SeriesResponse struct {
	PointID int64                `json:"point_id"`
	Level   int                  `json:"level"`
	Commune string               `json:"commune,omitempty"`
	X       float64              `json:"x"`
	Y       float64              `json:"y"`
	Season  string               `json:"season"`
	Weeks   []string             `json:"weeks"`
	Series  map[string][]float64 `json:"series"`
	Summary SeriesSummary        `json:"summary"`
}

// LevelInfo describes one spatial scale level of the dataset.
type LevelInfo struct {
	Level      int     `json:"level"`
	SpacingHm  float64 `json:"spacing_hm"` // grid spacing in hectometers
	PointCount int     `json:"point_count"`
	WeekCount  int     `json:"week_count"`
	FirstWeek  string  `json:"first_week,omitempty"`
	LastWeek   string  `json:"last_week,omitempty"`
	WidthKm    float64 `json:"width_km"`
	HeightKm   float64 `json:"height_km"`
}
