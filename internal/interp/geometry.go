package interp

import (
	"math"

	"github.com/terrisol/watergap-backend-go/internal/models"
	"github.com/terrisol/watergap-backend-go/internal/spatial"
)

// FitGeometry computes the raster grid covering the samples' bounding box,
// scaled to preserve its aspect ratio inside the padded viewport and centered
// on the non-binding axis.
//
// Degenerate bounding boxes (all samples sharing a coordinate) fall back to
// an aspect ratio of 1 on the collapsed axis instead of failing: a single
// point still renders as a small centered raster. Only non-positive viewport
// or cell-size inputs are rejected.
func FitGeometry(samples []models.SamplePoint, viewportW, viewportH, padding, cellSize float64) (models.RasterGeometry, error) {
	if len(samples) == 0 {
		return models.RasterGeometry{}, ErrEmptyDataset
	}
	if viewportW <= 0 || viewportH <= 0 || cellSize <= 0 || padding < 0 {
		return models.RasterGeometry{}, ErrInvalidGeometry
	}

	availW := viewportW - 2*padding
	availH := viewportH - 2*padding
	if availW <= 0 || availH <= 0 {
		return models.RasterGeometry{}, ErrInvalidGeometry
	}

	box := spatial.BoundsOf(samples)
	dx := box.MaxX - box.MinX
	dy := box.MaxY - box.MinY

	// Fallback extents for collapsed axes keep the aspect computation finite.
	switch {
	case dx == 0 && dy == 0:
		dx, dy = 1, 1
	case dx == 0:
		dx = dy
	case dy == 0:
		dy = dx
	}

	var fittedW, fittedH float64
	if dx/dy >= availW/availH {
		// Width is the binding constraint.
		fittedW = availW
		fittedH = availW * dy / dx
	} else {
		fittedH = availH
		fittedW = availH * dx / dy
	}

	geom := models.RasterGeometry{
		MinX:         box.MinX,
		MinY:         box.MinY,
		MaxX:         box.MaxX,
		MaxY:         box.MaxY,
		CellSize:     cellSize,
		OffsetX:      padding + (availW-fittedW)/2,
		OffsetY:      padding + (availH-fittedH)/2,
		FittedWidth:  fittedW,
		FittedHeight: fittedH,
		WidthCells:   int(math.Ceil(fittedW / cellSize)),
		HeightCells:  int(math.Ceil(fittedH / cellSize)),
	}
	return geom, nil
}
