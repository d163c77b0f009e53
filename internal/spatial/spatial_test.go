package spatial

import (
	"math"
	"testing"

	"github.com/terrisol/watergap-backend-go/internal/models"
)

func TestBoundsOf(t *testing.T) {
	samples := []models.SamplePoint{
		{X: 6000, Y: 24000},
		{X: 5500, Y: 26000},
		{X: 7200, Y: 23500},
	}
	b := BoundsOf(samples)
	want := Bounds{MinX: 5500, MinY: 23500, MaxX: 7200, MaxY: 26000}
	if b != want {
		t.Errorf("BoundsOf = %+v, want %+v", b, want)
	}
	if b.Width() != 1700 || b.Height() != 2500 {
		t.Errorf("extent = %gx%g, want 1700x2500", b.Width(), b.Height())
	}
}

func TestToWGS84Anchor(t *testing.T) {
	// The projection anchor (600 km, 2200 km) maps to the central point.
	lat, lon := ToWGS84(6000, 22000)
	if math.Abs(lat-46.8) > 1e-9 || math.Abs(lon-2.337) > 1e-9 {
		t.Errorf("anchor maps to (%g, %g), want (46.8, 2.337)", lat, lon)
	}

	// 111 km north raises latitude by one degree.
	lat2, _ := ToWGS84(6000, 23110)
	if math.Abs(lat2-47.8) > 1e-6 {
		t.Errorf("lat after 111 km north = %g, want 47.8", lat2)
	}
}

func TestHaversineDistance(t *testing.T) {
	// Paris to Lyon, roughly 392 km.
	d := HaversineDistance(48.8566, 2.3522, 45.7640, 4.8357)
	if d < 380000 || d > 405000 {
		t.Errorf("Paris-Lyon = %g m, want ~392 km", d)
	}

	if d := HaversineDistance(46.8, 2.337, 46.8, 2.337); d != 0 {
		t.Errorf("zero-length distance = %g, want 0", d)
	}
}

func TestExtentKm(t *testing.T) {
	// A 100 km x 200 km Lambert box (hectometers).
	b := Bounds{MinX: 6000, MinY: 22000, MaxX: 7000, MaxY: 24000}
	w, h := ExtentKm(b)
	if w < 90 || w > 110 {
		t.Errorf("width = %g km, want ~100", w)
	}
	if h < 190 || h > 210 {
		t.Errorf("height = %g km, want ~200", h)
	}
}
