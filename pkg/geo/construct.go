package geo

// Constructors take vertices in the human (lat, lng) order and store them in
// GeoJSON (lon, lat) order. None of them validate coordinate ranges or
// vertex counts; garbage in flows through the algorithms as garbage out, by
// contract with existing callers.

// NewPoint builds a Point from a latitude/longitude pair.
func NewPoint(lat, lon float64) Point {
	return Point{Coordinates: Position{lon, lat}}
}

// NewLineString builds a LineString from (lat, lng) vertices. An empty input
// yields an empty line.
func NewLineString(vertices []LatLng) LineString {
	return LineString{Coordinates: positions(vertices)}
}

// NewPolygon builds a single-ring Polygon from (lat, lng) vertices, closing
// the ring with a copy of the first vertex unless the input already ends on
// it. Closing is idempotent: already-closed input keeps its length. An empty
// input yields a polygon with one empty ring; callers wanting a usable
// polygon must pass at least three distinct vertices.
func NewPolygon(vertices []LatLng) Polygon {
	ring := positions(vertices)
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return Polygon{Coordinates: [][]Position{ring}}
}

// NewFeature wraps a geometry with its property bag. An identifier (string
// or number) may follow as an optional trailing argument; when absent the
// feature carries no id at all, as opposed to a null one.
func NewFeature(g Geometry, properties map[string]any, id ...any) Feature {
	f := Feature{Geometry: g, Properties: properties}
	if len(id) > 0 {
		f.ID = id[0]
	}
	return f
}

// NewFeatureCollection wraps features in order.
func NewFeatureCollection(features []Feature) FeatureCollection {
	return FeatureCollection{Features: features}
}

func positions(vertices []LatLng) []Position {
	out := make([]Position, len(vertices))
	for i, v := range vertices {
		out[i] = Position{v.Lng, v.Lat}
	}
	return out
}
