package geo

// LatLng is a coordinate in the human-facing order, latitude first. It is a
// distinct type from Position because silently swapping (lat, lng) and
// (lon, lat) is the most common bug in this domain; keeping the two orders
// in two types makes the compiler catch it.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// LatLng converts the point into (lat, lng) order. It is the exact inverse
// of LatLng.Point.
func (p Point) LatLng() LatLng {
	return LatLng{Lat: p.Coordinates.Lat(), Lng: p.Coordinates.Lon()}
}

// Point converts back into GeoJSON (lon, lat) order. It is the exact inverse
// of Point.LatLng.
func (l LatLng) Point() Point {
	return Point{Coordinates: Position{l.Lng, l.Lat}}
}
