package geo

import "math"

// BoundingBox is the smallest axis-aligned rectangle around a geometry:
// west, south, east, north. Its JSON form is the GeoJSON bbox array
// [minLon, minLat, maxLon, maxLat].
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Bounds folds every coordinate of g into running min/max accumulators. It
// never branches on the concrete kind, so it works for any Geometry at any
// nesting depth. A geometry with no coordinates yields the empty box
// (min > max); check IsEmpty before treating the result as a rectangle.
func Bounds(g Geometry) BoundingBox {
	b := BoundingBox{
		MinLon: math.Inf(1),
		MinLat: math.Inf(1),
		MaxLon: math.Inf(-1),
		MaxLat: math.Inf(-1),
	}
	EachPosition(g, func(pos Position) {
		b.MinLon = math.Min(b.MinLon, pos.Lon())
		b.MinLat = math.Min(b.MinLat, pos.Lat())
		b.MaxLon = math.Max(b.MaxLon, pos.Lon())
		b.MaxLat = math.Max(b.MaxLat, pos.Lat())
	})
	return b
}

// IsEmpty reports whether the box covers no points at all, the result of
// Bounds over a geometry without coordinates.
func (b BoundingBox) IsEmpty() bool {
	return b.MinLon > b.MaxLon || b.MinLat > b.MaxLat
}

// Contains reports whether the point lies inside the box, inclusive on both
// axes at both ends.
func (b BoundingBox) Contains(p Point) bool {
	lon, lat := p.Coordinates.Lon(), p.Coordinates.Lat()
	return lon >= b.MinLon && lon <= b.MaxLon &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// Union returns the smallest box covering both operands. The empty box is
// the identity: min/max against its infinities leaves the other side
// untouched.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		MinLon: math.Min(b.MinLon, o.MinLon),
		MinLat: math.Min(b.MinLat, o.MinLat),
		MaxLon: math.Max(b.MaxLon, o.MaxLon),
		MaxLat: math.Max(b.MaxLat, o.MaxLat),
	}
}
