package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance. The spherical
// approximation is accurate to ~0.5% at city scale; no ellipsoid correction
// is applied.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between two points in
// kilometers, computed with the haversine formula. It is symmetric in its
// arguments, and identical points yield 0.
func Distance(a, b Point) float64 {
	lat1 := DegreesToRadians(a.Coordinates.Lat())
	lat2 := DegreesToRadians(b.Coordinates.Lat())
	dLat := DegreesToRadians(b.Coordinates.Lat() - a.Coordinates.Lat())
	dLon := DegreesToRadians(b.Coordinates.Lon() - a.Coordinates.Lon())

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
