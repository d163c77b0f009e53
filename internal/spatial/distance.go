package spatial

import (
	"github.com/golang/geo/s2"
)

// Earth's mean radius.
const (
	EarthRadiusMeters = 6371000.0
	EarthRadiusKm     = 6371.0
)

// HaversineDistance calculates the great-circle distance between two
// WGS84 points in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// ExtentKm returns the approximate west-east and south-north extents of a
// Lambert bounding box in kilometers, measured along its edges.
func ExtentKm(b Bounds) (widthKm, heightKm float64) {
	swLat, swLon := ToWGS84(b.MinX, b.MinY)
	seLat, seLon := ToWGS84(b.MaxX, b.MinY)
	nwLat, nwLon := ToWGS84(b.MinX, b.MaxY)

	widthKm = HaversineDistance(swLat, swLon, seLat, seLon) / 1000
	heightKm = HaversineDistance(swLat, swLon, nwLat, nwLon) / 1000
	return widthKm, heightKm
}
