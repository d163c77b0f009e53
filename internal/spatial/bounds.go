package spatial

import "github.com/terrisol/watergap-backend-go/internal/models"

// Bounds is an axis-aligned bounding box in data coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the X extent of the box.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the Y extent of the box.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// BoundsOf computes the bounding box of the sample positions.
// The caller guarantees a non-empty slice.
func BoundsOf(samples []models.SamplePoint) Bounds {
	b := Bounds{
		MinX: samples[0].X, MaxX: samples[0].X,
		MinY: samples[0].Y, MaxY: samples[0].Y,
	}
	for _, s := range samples[1:] {
		if s.X < b.MinX {
			b.MinX = s.X
		}
		if s.X > b.MaxX {
			b.MaxX = s.X
		}
		if s.Y < b.MinY {
			b.MinY = s.Y
		}
		if s.Y > b.MaxY {
			b.MaxY = s.Y
		}
	}
	return b
}
