package regions

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

func newTestRegistry(t *testing.T, builtin bool) *Registry {
	t.Helper()
	return New(zerolog.Nop(), builtin)
}

func almostEq(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("got %v, want %v (±%v)", got, want, eps)
	}
}

// triangle with vertices (lat,lng) (21.00,105.80), (21.00,105.90),
// (21.10,105.90); its bbox has a corner region outside the hypotenuse
func triangleEntry(t *testing.T) Entry {
	t.Helper()
	e, err := Build("triangle", nil, []geo.LatLng{
		{Lat: 21.00, Lng: 105.80},
		{Lat: 21.00, Lng: 105.90},
		{Lat: 21.10, Lng: 105.90},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return e
}

func TestNew_SeedsBuiltinHanoi(t *testing.T) {
	r := newTestRegistry(t, true)
	if r.Len() != 1 {
		t.Fatalf("Len=%d want 1", r.Len())
	}
	e, err := r.Get("hanoi")
	if err != nil {
		t.Fatalf("Get(hanoi): %v", err)
	}
	if e.HasBoundary() {
		t.Fatalf("builtin hanoi is bbox-only")
	}
	if e.Region.Center != geo.Hanoi.Center {
		t.Fatalf("center=%v want %v", e.Region.Center, geo.Hanoi.Center)
	}

	empty := newTestRegistry(t, false)
	if empty.Len() != 0 {
		t.Fatalf("builtin=false must start empty, got %d", empty.Len())
	}
}

func TestBuild_BBoxOnlyDefaultsCenterToMidpoint(t *testing.T) {
	e, err := Build(" Hoan Kiem ", &[4]float64{105.80, 21.00, 105.90, 21.10}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if e.Region.Name != "hoan kiem" {
		t.Fatalf("name=%q want normalized %q", e.Region.Name, "hoan kiem")
	}
	if e.HasBoundary() {
		t.Fatalf("bbox-only entry must have no boundary")
	}
	want := geo.Position{105.85, 21.05}
	if e.Region.Center.Coordinates != want {
		t.Fatalf("center=%v want %v", e.Region.Center.Coordinates, want)
	}
}

func TestBuild_RingDerivesBoundsAndCentroid(t *testing.T) {
	e, err := Build("square", nil, []geo.LatLng{
		{Lat: 21.00, Lng: 105.80},
		{Lat: 21.00, Lng: 105.90},
		{Lat: 21.10, Lng: 105.90},
		{Lat: 21.10, Lng: 105.80},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !e.HasBoundary() {
		t.Fatalf("ring entry must carry a boundary")
	}
	wantBounds := geo.BoundingBox{MinLon: 105.80, MinLat: 21.00, MaxLon: 105.90, MaxLat: 21.10}
	if e.Region.Bounds != wantBounds {
		t.Fatalf("bounds=%+v want %+v", e.Region.Bounds, wantBounds)
	}
	// vertex-average accumulation is subject to float rounding
	almostEq(t, e.Region.Center.Coordinates.Lon(), 105.85, 1e-9)
	almostEq(t, e.Region.Center.Coordinates.Lat(), 21.05, 1e-9)
}

func TestBuild_ExplicitCenterAndBBoxOverride(t *testing.T) {
	e, err := Build("custom", &[4]float64{105.0, 20.0, 107.0, 22.0}, []geo.LatLng{
		{Lat: 21.00, Lng: 105.80},
		{Lat: 21.00, Lng: 105.90},
		{Lat: 21.10, Lng: 105.90},
	}, &geo.LatLng{Lat: 21.0285, Lng: 105.8542})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if e.Region.Bounds.MinLon != 105.0 || e.Region.Bounds.MaxLat != 22.0 {
		t.Fatalf("explicit bbox must override the ring-derived bounds: %+v", e.Region.Bounds)
	}
	if e.Region.Center != geo.NewPoint(21.0285, 105.8542) {
		t.Fatalf("explicit center lost: %v", e.Region.Center)
	}
}

func TestBuild_Rejects(t *testing.T) {
	cases := []struct {
		name string
		call func() (Entry, error)
	}{
		{"empty name", func() (Entry, error) {
			return Build("  ", &[4]float64{0, 0, 1, 1}, nil, nil)
		}},
		{"no geometry", func() (Entry, error) {
			return Build("x", nil, nil, nil)
		}},
		{"short ring", func() (Entry, error) {
			return Build("x", nil, []geo.LatLng{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}, nil)
		}},
		{"inverted bbox", func() (Entry, error) {
			return Build("x", &[4]float64{2, 2, 1, 1}, nil, nil)
		}},
	}
	for _, tc := range cases {
		if _, err := tc.call(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestGet_IsCaseInsensitive(t *testing.T) {
	r := newTestRegistry(t, true)
	if _, err := r.Get("HANOI"); err != nil {
		t.Fatalf("Get(HANOI): %v", err)
	}
	_, err := r.Get("atlantis")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown region must wrap ErrNotFound, got %v", err)
	}
}

func TestLocate_BBoxOnlyVersusPolygonConfirmed(t *testing.T) {
	r := newTestRegistry(t, false)
	if err := r.Upsert(triangleEntry(t)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	inside := geo.NewPoint(21.02, 105.88)
	matches := r.Locate(inside)
	if len(matches) != 1 || matches[0].Name != "triangle" || !matches[0].ContainsExactly {
		t.Fatalf("inside point: got %+v", matches)
	}

	// inside the bbox, outside the hypotenuse
	cornerGap := geo.NewPoint(21.09, 105.81)
	if got := r.Locate(cornerGap); len(got) != 0 {
		t.Fatalf("bbox-corner point must not match a polygon-bounded region: %+v", got)
	}

	box, err := Build("box", &[4]float64{105.80, 21.00, 105.90, 21.10}, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := r.Upsert(box); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	matches = r.Locate(cornerGap)
	if len(matches) != 1 || matches[0].Name != "box" || matches[0].ContainsExactly {
		t.Fatalf("bbox-only region must match without exact confirmation: %+v", matches)
	}

	matches = r.Locate(inside)
	if len(matches) != 2 || matches[0].Name != "box" || matches[1].Name != "triangle" {
		t.Fatalf("matches must be ordered by name: %+v", matches)
	}
}

func TestMutations_BumpGeneration(t *testing.T) {
	r := newTestRegistry(t, true)
	if r.Generation() != 0 {
		t.Fatalf("fresh registry generation=%d want 0", r.Generation())
	}

	if err := r.Upsert(triangleEntry(t)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if r.Generation() != 1 {
		t.Fatalf("generation=%d want 1 after upsert", r.Generation())
	}

	if !r.Delete("triangle") {
		t.Fatalf("Delete(triangle) must report true")
	}
	if r.Generation() != 2 {
		t.Fatalf("generation=%d want 2 after delete", r.Generation())
	}

	if r.Delete("triangle") {
		t.Fatalf("second delete must report false")
	}
	if r.Generation() != 2 {
		t.Fatalf("no-op delete must not bump the generation")
	}
}

func TestUpsert_ReplacesAndNormalizes(t *testing.T) {
	r := newTestRegistry(t, false)

	e := triangleEntry(t)
	e.Region.Name = " Triangle "
	if err := r.Upsert(e); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len=%d want 1", r.Len())
	}
	if _, err := r.Get("triangle"); err != nil {
		t.Fatalf("normalized name must be retrievable: %v", err)
	}

	if err := r.Upsert(Entry{}); err == nil {
		t.Fatalf("Upsert without a name must fail")
	}

	names := r.Names()
	if len(names) != 1 || names[0] != "triangle" {
		t.Fatalf("Names=%v", names)
	}
}
