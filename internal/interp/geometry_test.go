package interp

import (
	"errors"
	"math"
	"testing"

	"github.com/terrisol/watergap-backend-go/internal/models"
)

func pointsAt(coords ...[2]float64) []models.SamplePoint {
	samples := make([]models.SamplePoint, len(coords))
	for i, c := range coords {
		samples[i] = models.SamplePoint{ID: int64(i + 1), X: c[0], Y: c[1]}
	}
	return samples
}

func TestFitGeometryPreservesAspectRatio(t *testing.T) {
	tests := []struct {
		name               string
		coords             [][2]float64
		vw, vh, pad, cell  float64
		wantFitW, wantFitH float64
	}{
		{
			name:   "wide box binds on width",
			coords: [][2]float64{{0, 0}, {200, 50}},
			vw:     100, vh: 100, pad: 10, cell: 8,
			wantFitW: 80, wantFitH: 20,
		},
		{
			name:   "tall box binds on height",
			coords: [][2]float64{{0, 0}, {50, 200}},
			vw:     100, vh: 100, pad: 10, cell: 8,
			wantFitW: 20, wantFitH: 80,
		},
		{
			name:   "square box fills padded square viewport",
			coords: [][2]float64{{0, 0}, {100, 100}},
			vw:     60, vh: 60, pad: 5, cell: 4,
			wantFitW: 50, wantFitH: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom, err := FitGeometry(pointsAt(tt.coords...), tt.vw, tt.vh, tt.pad, tt.cell)
			if err != nil {
				t.Fatalf("FitGeometry: %v", err)
			}
			if math.Abs(geom.FittedWidth-tt.wantFitW) > 1e-9 || math.Abs(geom.FittedHeight-tt.wantFitH) > 1e-9 {
				t.Errorf("fitted = %gx%g, want %gx%g",
					geom.FittedWidth, geom.FittedHeight, tt.wantFitW, tt.wantFitH)
			}

			boxRatio := (geom.MaxX - geom.MinX) / (geom.MaxY - geom.MinY)
			fitRatio := geom.FittedWidth / geom.FittedHeight
			if math.Abs(boxRatio-fitRatio) > 1e-9 {
				t.Errorf("aspect ratio changed: box %g, fitted %g", boxRatio, fitRatio)
			}
		})
	}
}

func TestFitGeometryStaysInsidePaddedViewport(t *testing.T) {
	geom, err := FitGeometry(pointsAt([2]float64{0, 0}, [2]float64{333, 127}), 640, 480, 24, 8)
	if err != nil {
		t.Fatalf("FitGeometry: %v", err)
	}

	if geom.OffsetX < 24 || geom.OffsetY < 24 {
		t.Errorf("offsets (%g, %g) violate padding", geom.OffsetX, geom.OffsetY)
	}
	if geom.OffsetX+geom.FittedWidth > 640-24+1e-9 {
		t.Errorf("raster right edge %g exceeds padded viewport", geom.OffsetX+geom.FittedWidth)
	}
	if geom.OffsetY+geom.FittedHeight > 480-24+1e-9 {
		t.Errorf("raster bottom edge %g exceeds padded viewport", geom.OffsetY+geom.FittedHeight)
	}
}

func TestFitGeometryCentersNonBindingAxis(t *testing.T) {
	// Wide box in a square viewport: vertical slack splits evenly.
	geom, err := FitGeometry(pointsAt([2]float64{0, 0}, [2]float64{200, 50}), 100, 100, 10, 8)
	if err != nil {
		t.Fatalf("FitGeometry: %v", err)
	}
	slack := (100 - 2*10) - geom.FittedHeight
	wantOffsetY := 10 + slack/2
	if math.Abs(geom.OffsetY-wantOffsetY) > 1e-9 {
		t.Errorf("OffsetY = %g, want %g", geom.OffsetY, wantOffsetY)
	}
	if geom.OffsetX != 10 {
		t.Errorf("OffsetX = %g, want binding-axis padding 10", geom.OffsetX)
	}
}

func TestFitGeometryCeilsCellCounts(t *testing.T) {
	// Fitted 80x20 with cell size 7: 80/7 = 11.43, 20/7 = 2.86.
	geom, err := FitGeometry(pointsAt([2]float64{0, 0}, [2]float64{200, 50}), 100, 100, 10, 7)
	if err != nil {
		t.Fatalf("FitGeometry: %v", err)
	}
	if geom.WidthCells != 12 || geom.HeightCells != 3 {
		t.Errorf("cells = %dx%d, want 12x3", geom.WidthCells, geom.HeightCells)
	}
	if geom.CellCount() != 36 {
		t.Errorf("CellCount = %d, want 36", geom.CellCount())
	}
}

func TestFitGeometryDegenerateBoxes(t *testing.T) {
	tests := []struct {
		name   string
		coords [][2]float64
	}{
		{"single point", [][2]float64{{42, 42}}},
		{"vertical line", [][2]float64{{5, 0}, {5, 80}}},
		{"horizontal line", [][2]float64{{0, 5}, {80, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom, err := FitGeometry(pointsAt(tt.coords...), 100, 100, 10, 8)
			if err != nil {
				t.Fatalf("FitGeometry: %v", err)
			}
			if geom.FittedWidth <= 0 || geom.FittedHeight <= 0 {
				t.Errorf("non-positive fit %gx%g", geom.FittedWidth, geom.FittedHeight)
			}
			if geom.WidthCells < 1 || geom.HeightCells < 1 {
				t.Errorf("empty grid %dx%d", geom.WidthCells, geom.HeightCells)
			}
			for _, v := range []float64{geom.FittedWidth, geom.FittedHeight, geom.OffsetX, geom.OffsetY} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("geometry contains NaN/Inf: %+v", geom)
				}
			}
		})
	}
}

func TestFitGeometryRejectsBadInputs(t *testing.T) {
	samples := pointsAt([2]float64{0, 0}, [2]float64{10, 10})

	if _, err := FitGeometry(nil, 100, 100, 10, 8); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("empty samples: got %v, want ErrEmptyDataset", err)
	}

	bad := []struct {
		name              string
		vw, vh, pad, cell float64
	}{
		{"zero width", 0, 100, 10, 8},
		{"negative height", 100, -1, 10, 8},
		{"zero cell size", 100, 100, 10, 0},
		{"negative padding", 100, 100, -1, 8},
		{"padding swallows viewport", 100, 100, 50, 8},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FitGeometry(samples, tt.vw, tt.vh, tt.pad, tt.cell); !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("got %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestCellCenterDataTopRowIsMaxY(t *testing.T) {
	geom, err := FitGeometry(pointsAt([2]float64{0, 0}, [2]float64{100, 100}), 60, 60, 5, 25)
	if err != nil {
		t.Fatalf("FitGeometry: %v", err)
	}
	_, yTop := geom.CellCenterData(0, 0)
	_, yBottom := geom.CellCenterData(0, geom.HeightCells-1)
	if yTop <= yBottom {
		t.Errorf("row 0 center y %g should be above last row center y %g", yTop, yBottom)
	}
}
