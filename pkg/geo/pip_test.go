package geo

import "testing"

func centralHanoiRect() Polygon {
	return NewPolygon([]LatLng{
		{Lat: 21.03, Lng: 105.85},
		{Lat: 21.03, Lng: 105.86},
		{Lat: 21.02, Lng: 105.86},
		{Lat: 21.02, Lng: 105.85},
	})
}

func TestPointInPolygon_InsideRectangle(t *testing.T) {
	p := Point{Coordinates: Position{105.855, 21.025}}
	if !PointInPolygon(p, centralHanoiRect()) {
		t.Fatalf("expected %v inside", p.Coordinates)
	}
}

func TestPointInPolygon_FarOutside(t *testing.T) {
	p := Point{Coordinates: Position{200, 80}}
	if PointInPolygon(p, centralHanoiRect()) {
		t.Fatalf("expected %v outside", p.Coordinates)
	}
}

func TestPointInPolygon_ContainsOwnCentroid(t *testing.T) {
	poly := NewPolygon([]LatLng{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 6},
		{Lat: 3, Lng: 8},
		{Lat: 6, Lng: 4},
		{Lat: 4, Lng: -1},
	})
	if !PointInPolygon(Centroid(poly), poly) {
		t.Fatalf("convex polygon must contain its own centroid")
	}
}

func TestPointInPolygon_ConcaveNotch(t *testing.T) {
	// U-shape opening upward: the bounding box contains the notch, the
	// polygon does not.
	u := NewPolygon([]LatLng{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 8},
		{Lat: 2, Lng: 8},
		{Lat: 2, Lng: 2},
		{Lat: 10, Lng: 2},
		{Lat: 10, Lng: 0},
	})
	notch := Point{Coordinates: Position{5, 5}}
	if !Bounds(u).Contains(notch) {
		t.Fatalf("sanity: bbox must contain the notch point")
	}
	if PointInPolygon(notch, u) {
		t.Fatalf("notch point must be outside the U")
	}
	for _, pos := range []Position{{1, 5}, {9, 5}, {5, 1}} {
		if !PointInPolygon(Point{Coordinates: pos}, u) {
			t.Fatalf("expected %v inside the U", pos)
		}
	}
}

func TestPointInPolygon_DegenerateInputsAreFalse(t *testing.T) {
	p := NewPoint(21, 105)
	if PointInPolygon(p, Polygon{}) {
		t.Fatalf("polygon without rings contains nothing")
	}
	if PointInPolygon(p, Polygon{Coordinates: [][]Position{{}}}) {
		t.Fatalf("empty ring contains nothing")
	}
}
