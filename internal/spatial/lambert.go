package spatial

// ToWGS84 converts Lambert-II-étendu coordinates (EPSG:27582, in
// hectometers as delivered by the SAFRAN exports) to an approximate WGS84
// position. The linearization is anchored on the projection's central
// meridian and is good to a few kilometers over metropolitan France, which
// is enough for map centering and extent reporting; the front end handles
// exact reprojection.
func ToWGS84(xHm, yHm float64) (lat, lon float64) {
	x := xHm * 100 // meters
	y := yHm * 100

	lat = 46.8 + (y-2200000)/111000
	lon = 2.337 + (x-600000)/76000 // ≈ 111320 m/deg × cos(46.8°)
	return lat, lon
}
