package models

// RasterGeometry describes the grid a raster pass fills. It is derived from
// the sample bounding box and the viewport, and recomputed whenever either
// changes. The fitted rectangle preserves the bounding box aspect ratio and
// never exceeds the padded viewport.
type RasterGeometry struct {
	// Sample bounding box in data units (Lambert hectometers).
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`

	// Viewport-frame layout. Offsets anchor the raster's top-left corner so
	// the fitted rectangle is centered on the non-binding axis.
	CellSize     float64 `json:"cell_size"`
	OffsetX      float64 `json:"offset_x"`
	OffsetY      float64 `json:"offset_y"`
	FittedWidth  float64 `json:"fitted_width"`
	FittedHeight float64 `json:"fitted_height"`

	WidthCells  int `json:"width_cells"`
	HeightCells int `json:"height_cells"`
}

// CellCount returns the number of cells in the grid.
func (g RasterGeometry) CellCount() int {
	return g.WidthCells * g.HeightCells
}

// CellCenterData maps grid indices to the cell center in data coordinates.
// Row 0 is the top of the raster, which corresponds to the data's max Y
// (northing grows upward, screen coordinates grow downward).
func (g RasterGeometry) CellCenterData(col, row int) (float64, float64) {
	fx := (float64(col) + 0.5) * g.CellSize / g.FittedWidth
	fy := (float64(row) + 0.5) * g.CellSize / g.FittedHeight
	x := g.MinX + fx*(g.MaxX-g.MinX)
	y := g.MaxY - fy*(g.MaxY-g.MinY)
	return x, y
}

// InterpolatedCell is one renderable raster cell. X/Y are the top-left
// corner in the viewport frame; the cell spans CellSize × CellSize.
type InterpolatedCell struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// ColorDomain is the [min, max] range of the active metric over the sample
// set; it drives color normalization and the legend.
type ColorDomain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RasterResponse is the payload of the raster endpoint.
type RasterResponse struct {
	Level    int                `json:"level"`
	Week     string             `json:"week"`
	Metric   string             `json:"metric"`
	Geometry RasterGeometry     `json:"geometry"`
	Domain   ColorDomain        `json:"domain"`
	Cells    []InterpolatedCell `json:"cells"`
}

// LegendStop is one entry of a rendered legend ramp.
type LegendStop struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// LegendResponse describes the active metric's color scale.
type LegendResponse struct {
	Metric MetricSpec   `json:"metric"`
	Domain ColorDomain  `json:"domain"`
	Stops  []LegendStop `json:"stops"`
}
