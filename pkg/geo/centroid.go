package geo

// Centroid returns the vertex-average centroid of the polygon's outer ring.
// The duplicated closing vertex is excluded from the average so no point is
// counted twice. This is deliberately not the area-weighted centroid: the
// two agree closely for small, roughly convex regions (administrative
// boundaries) and drift apart for elongated or concave shapes, and existing
// callers depend on the vertex-average values.
//
// A polygon with no vertices yields NaN coordinates rather than an error.
func Centroid(poly Polygon) Point {
	var ring []Position
	if len(poly.Coordinates) > 0 {
		ring = poly.Coordinates[0]
	}
	n := 0
	if len(ring) > 0 {
		n = len(ring) - 1
	}
	var lon, lat float64
	for _, pos := range ring[:n] {
		lon += pos.Lon()
		lat += pos.Lat()
	}
	return Point{Coordinates: Position{lon / float64(n), lat / float64(n)}}
}
