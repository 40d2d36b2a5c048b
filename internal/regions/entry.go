// Package regions keeps the in-memory registry of named areas the service
// answers containment and lookup queries against.
package regions

import (
	"fmt"
	"strings"

	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

// Entry is one registered area: the region's bounding box and center, plus
// an optional polygon boundary. Without a boundary, containment is decided
// by the box alone.
type Entry struct {
	Region   geo.Region
	Boundary geo.Polygon
}

// HasBoundary reports whether the entry carries a polygon boundary.
func (e Entry) HasBoundary() bool {
	return len(e.Boundary.Coordinates) > 0 && len(e.Boundary.Coordinates[0]) > 0
}

// Match is one region that contains a queried point. ContainsExactly is true
// when the point was confirmed against the region's polygon boundary and
// false when only the bounding box was available.
type Match struct {
	Name            string     `json:"name"`
	Region          geo.Region `json:"region"`
	ContainsExactly bool       `json:"contains_exactly"`
}

// Build assembles an Entry from raw inputs: a name, a bounding box
// (minLon, minLat, maxLon, maxLat) and/or a boundary ring in (lat, lng)
// order, and an optional center. A ring yields a polygon boundary with
// bounds derived from it; an explicit bbox overrides the derived bounds.
// A missing center defaults to the ring's vertex-average centroid, or the
// box midpoint when there is no ring.
func Build(name string, bbox *[4]float64, ring []geo.LatLng, center *geo.LatLng) (Entry, error) {
	name = Normalize(name)
	if name == "" {
		return Entry{}, fmt.Errorf("region name is required")
	}
	if bbox == nil && len(ring) == 0 {
		return Entry{}, fmt.Errorf("region %q: bbox or ring is required", name)
	}

	var e Entry
	e.Region.Name = name

	if len(ring) > 0 {
		if len(ring) < 3 {
			return Entry{}, fmt.Errorf("region %q: ring needs at least 3 vertices (got %d)", name, len(ring))
		}
		e.Boundary = geo.NewPolygon(ring)
		e.Region.Bounds = geo.Bounds(e.Boundary)
	}

	if bbox != nil {
		b := geo.BoundingBox{MinLon: bbox[0], MinLat: bbox[1], MaxLon: bbox[2], MaxLat: bbox[3]}
		if b.IsEmpty() {
			return Entry{}, fmt.Errorf("region %q: bbox min must be below max", name)
		}
		e.Region.Bounds = b
	}

	switch {
	case center != nil:
		e.Region.Center = center.Point()
	case e.HasBoundary():
		e.Region.Center = geo.Centroid(e.Boundary)
	default:
		b := e.Region.Bounds
		e.Region.Center = geo.Point{Coordinates: geo.Position{
			(b.MinLon + b.MaxLon) / 2,
			(b.MinLat + b.MaxLat) / 2,
		}}
	}

	return e, nil
}

// Normalize maps a region name to its registry key form.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
