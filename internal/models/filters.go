package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownSeason is returned for season values outside the known set.
var ErrUnknownSeason = errors.New("unknown season")

// SeasonFilter restricts which weeks of the dataset a computation sees.
// It is always passed explicitly; no component reads it from shared state.
type SeasonFilter int

const (
	SeasonAll SeasonFilter = iota
	// SeasonGrowing keeps the April–September window (ISO weeks 14–39),
	// when irrigation decisions are actually made.
	SeasonGrowing
)

// ParseSeason resolves the wire value ("", "all", "growing") to a filter.
func ParseSeason(s string) (SeasonFilter, error) {
	switch s {
	case "", "all":
		return SeasonAll, nil
	case "growing":
		return SeasonGrowing, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSeason, s)
	}
}

// Includes reports whether a week label ("2021-W23") passes the filter.
// Malformed labels are kept rather than silently dropped.
func (f SeasonFilter) Includes(week string) bool {
	if f == SeasonAll {
		return true
	}
	_, num, ok := splitWeek(week)
	if !ok {
		return true
	}
	return num >= 14 && num <= 39
}

func (f SeasonFilter) String() string {
	if f == SeasonGrowing {
		return "growing"
	}
	return "all"
}

func splitWeek(week string) (year, num int, ok bool) {
	parts := strings.SplitN(week, "-W", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	num, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return year, num, true
}

// RasterFilter carries the raster endpoint's query parameters.
type RasterFilter struct {
	Level    int     `form:"level"`
	Week     string  `form:"week"`   // empty = whole-period mean
	Metric   string  `form:"metric"`
	Width    float64 `form:"width"`
	Height   float64 `form:"height"`
	Padding  float64 `form:"padding"`
	CellSize float64 `form:"cellSize"`
	K        int     `form:"k"`
	Power    float64 `form:"power"`
	Season   string  `form:"season"`
}

// PointsFilter carries the raw points endpoint's query parameters.
type PointsFilter struct {
	Level  int    `form:"level"`
	Week   string `form:"week"`
	Metric string `form:"metric"`
	Season string `form:"season"`
}

// LegendFilter carries the legend endpoint's query parameters.
type LegendFilter struct {
	Level  int    `form:"level"`
	Metric string `form:"metric"`
	Week   string `form:"week"`
	Season string `form:"season"`
}

// SeriesFilter carries the series endpoints' query parameters.
type SeriesFilter struct {
	Season string `form:"season"`
}
