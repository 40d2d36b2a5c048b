package geo

import (
	"errors"
	"testing"
)

func TestParseWKTPoint_Valid(t *testing.T) {
	cases := []struct {
		in       string
		lon, lat float64
	}{
		{"POINT(105.8542 21.0285)", 105.8542, 21.0285},
		{"point(105.8542 21.0285)", 105.8542, 21.0285},
		{"Point ( -0.1276   51.5072 )", -0.1276, 51.5072},
		{"POINT(105 21)", 105, 21},
		{"POINT(-122.4194 37.7749)", -122.4194, 37.7749},
	}
	for _, tc := range cases {
		p, err := ParseWKTPoint(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if p.Coordinates.Lon() != tc.lon || p.Coordinates.Lat() != tc.lat {
			t.Fatalf("%q: got %v, want (%v, %v)", tc.in, p.Coordinates, tc.lon, tc.lat)
		}
	}
}

func TestParseWKTPoint_Invalid(t *testing.T) {
	cases := []string{
		"NOT A POINT",
		"",
		"POINT()",
		"POINT(105.8542)",
		"POLYGON((0 0, 1 1, 1 0, 0 0))",
		"POINT(1.2.3 4)",
	}
	for _, in := range cases {
		_, err := ParseWKTPoint(in)
		if err == nil {
			t.Fatalf("%q: expected error", in)
		}
		if !errors.Is(err, ErrInvalidWKT) {
			t.Fatalf("%q: error must wrap ErrInvalidWKT, got %v", in, err)
		}
	}
}

func TestWKT_FormatThenParseRoundTrips(t *testing.T) {
	points := []Point{
		NewPoint(21.0285, 105.8542),
		NewPoint(-33.8688, 151.2093),
		NewPoint(0, 0),
		NewPoint(51.5072, -0.1276),
		NewPoint(0.000000001, -0.000000001),
	}
	for _, p := range points {
		s := FormatWKTPoint(p)
		got, err := ParseWKTPoint(s)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s, err)
		}
		if got != p {
			t.Fatalf("%s: round trip changed %v to %v", s, p.Coordinates, got.Coordinates)
		}
	}
}

func TestFormatWKTPoint_PlainDecimal(t *testing.T) {
	if got := FormatWKTPoint(NewPoint(21.0285, 105.8542)); got != "POINT(105.8542 21.0285)" {
		t.Fatalf("got %q", got)
	}
}
