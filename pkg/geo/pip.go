package geo

// PointInPolygon reports whether p lies inside the polygon's outer ring,
// using the even-odd ray-casting rule: a horizontal ray cast from the point
// toggles membership every time it crosses a ring edge. Holes are ignored.
// Points exactly on an edge may resolve either way, as with any ray caster;
// callers must not rely on boundary behavior. O(len(ring)) time, no
// allocation.
func PointInPolygon(p Point, poly Polygon) bool {
	if len(poly.Coordinates) == 0 {
		return false
	}
	ring := poly.Coordinates[0]
	x, y := p.Coordinates.Lon(), p.Coordinates.Lat()

	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lon(), ring[i].Lat()
		xj, yj := ring[j].Lon(), ring[j].Lat()
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
