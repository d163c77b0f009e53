package models

// SamplePoint is one SAFRAN grid node with its weekly metric values.
// Points are immutable once loaded; the repository hands out shared slices
// that callers must not mutate.
type SamplePoint struct {
	ID int64 `json:"id" db:"id"`

	// Lambert-II-étendu coordinates in hectometers (exporter convention).
	X float64 `json:"x" db:"lamb_x"`
	Y float64 `json:"y" db:"lamb_y"`

	// Descriptive fields carried along for tooltips.
	Commune   string  `json:"commune,omitempty" db:"commune"`
	Kc        float64 `json:"kc,omitempty" db:"kc"`
	ReserveMM float64 `json:"reserve_mm,omitempty" db:"reserve_mm"` // soil usable reserve (RU)

	// Values holds the metric mapping for the selected week (or the
	// whole-period mean). A missing entry means the source record lacked
	// that metric; interpolation excludes the point for that metric only.
	Values map[Metric]float64 `json:"-"`
}

// Value returns the point's value for the metric and whether it is present.
func (p SamplePoint) Value(m Metric) (float64, bool) {
	v, ok := p.Values[m]
	return v, ok
}

// PointRecord is the wire shape for the raw points endpoint.
type PointRecord struct {
	ID        int64   `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Commune   string  `json:"commune,omitempty"`
	Kc        float64 `json:"kc,omitempty"`
	ReserveMM float64 `json:"reserve_mm,omitempty"`
	Value     float64 `json:"value"`
}
