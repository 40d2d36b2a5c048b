package geo

// Region is a named area with a precomputed bounding box and a
// representative center point.
type Region struct {
	Name   string      `json:"name"`
	Bounds BoundingBox `json:"bounds"`
	Center Point       `json:"center"`
}

// Contains reports whether the point falls inside the region's bounding box.
// It delegates to BoundingBox.Contains so region checks can never drift from
// the shared box semantics.
func (r Region) Contains(p Point) bool { return r.Bounds.Contains(p) }

// Hanoi is the built-in metropolitan region CityLens ships with. The box
// spans the greater Hanoi area; the center sits in the Hoan Kiem district.
var Hanoi = Region{
	Name:   "hanoi",
	Bounds: BoundingBox{MinLon: 105.285, MinLat: 20.564, MaxLon: 106.02, MaxLat: 21.385},
	Center: Point{Coordinates: Position{105.8542, 21.0285}},
}
