// Package geo implements the GeoJSON geometry model and the spherical-earth
// primitives the CityLens services build on: great-circle distance,
// vertex-average centroids, bounding boxes, ray-casting point-in-polygon
// tests and WKT point conversion.
//
// Coordinates follow the GeoJSON convention: longitude first, then latitude.
// The human-facing (lat, lng) order appears only in the LatLng type and in
// constructor inputs. Every function here is pure computation over immutable
// values, with no I/O and no shared state, so concurrent use needs no
// coordination.
package geo

// Position is a single coordinate in GeoJSON order: longitude, then
// latitude. Longitude is expected in [-180, 180] and latitude in [-90, 90],
// but nothing in this package enforces that; out-of-range values flow
// through the math unchanged.
type Position [2]float64

// Lon returns the longitude (first element).
func (p Position) Lon() float64 { return p[0] }

// Lat returns the latitude (second element).
func (p Position) Lat() float64 { return p[1] }

// GeoJSON "type" member values.
const (
	TypePoint           = "Point"
	TypeLineString      = "LineString"
	TypePolygon         = "Polygon"
	TypeMultiPoint      = "MultiPoint"
	TypeMultiLineString = "MultiLineString"
	TypeMultiPolygon    = "MultiPolygon"

	TypeFeature           = "Feature"
	TypeFeatureCollection = "FeatureCollection"
)

// Geometry is the closed union of the six GeoJSON geometry kinds. Algorithms
// that do not care which kind they got (Bounds, EachPosition) take the
// interface; everything else takes the concrete type it needs.
type Geometry interface {
	// Type returns the GeoJSON "type" member for the kind.
	Type() string

	// coords normalizes the kind's coordinates to MultiPolygon nesting so
	// one traversal serves every kind. Leaf slices are shared, not copied.
	coords() [][][]Position
}

// Point holds exactly one coordinate.
type Point struct {
	Coordinates Position
}

// LineString holds an ordered sequence of coordinates. No minimum length is
// enforced.
type LineString struct {
	Coordinates []Position
}

// Polygon holds one or more linear rings: index 0 is the outer boundary,
// any further rings are holes. Rings are stored closed (first == last).
// Constructors in this package only ever produce the outer ring; holes are
// representable but never built here.
type Polygon struct {
	Coordinates [][]Position
}

// MultiPoint holds a sequence of independent coordinates.
type MultiPoint struct {
	Coordinates []Position
}

// MultiLineString holds a sequence of line strings.
type MultiLineString struct {
	Coordinates [][]Position
}

// MultiPolygon holds a sequence of polygons.
type MultiPolygon struct {
	Coordinates [][][]Position
}

func (Point) Type() string           { return TypePoint }
func (LineString) Type() string      { return TypeLineString }
func (Polygon) Type() string         { return TypePolygon }
func (MultiPoint) Type() string      { return TypeMultiPoint }
func (MultiLineString) Type() string { return TypeMultiLineString }
func (MultiPolygon) Type() string    { return TypeMultiPolygon }

func (g Point) coords() [][][]Position           { return [][][]Position{{{g.Coordinates}}} }
func (g LineString) coords() [][][]Position      { return [][][]Position{{g.Coordinates}} }
func (g Polygon) coords() [][][]Position         { return [][][]Position{g.Coordinates} }
func (g MultiPoint) coords() [][][]Position      { return [][][]Position{{g.Coordinates}} }
func (g MultiLineString) coords() [][][]Position { return [][][]Position{g.Coordinates} }
func (g MultiPolygon) coords() [][][]Position    { return g.Coordinates }

var (
	_ Geometry = Point{}
	_ Geometry = LineString{}
	_ Geometry = Polygon{}
	_ Geometry = MultiPoint{}
	_ Geometry = MultiLineString{}
	_ Geometry = MultiPolygon{}
)

// EachPosition visits every coordinate of g in document order. It is the one
// traversal the shape-independent algorithms are built on: a new geometry
// kind works with all of them as soon as it implements Geometry.
func EachPosition(g Geometry, fn func(Position)) {
	for _, poly := range g.coords() {
		for _, ring := range poly {
			for _, pos := range ring {
				fn(pos)
			}
		}
	}
}
