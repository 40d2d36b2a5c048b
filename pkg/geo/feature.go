package geo

// Feature pairs a geometry with an open property bag. ID is the optional
// GeoJSON identifier: a string or a number when present, nil when the
// feature has none. A nil ID is omitted from the JSON form entirely rather
// than emitted as null.
type Feature struct {
	ID         any
	Geometry   Geometry
	Properties map[string]any
}

// FeatureCollection is an ordered list of features. The zero value is a
// valid empty collection and marshals with "features": [].
type FeatureCollection struct {
	Features []Feature
}
