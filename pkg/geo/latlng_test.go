package geo

import "testing"

func TestLatLng_OrderSwap(t *testing.T) {
	p := LatLng{Lat: 21.0285, Lng: 105.8542}.Point()
	if p.Coordinates.Lon() != 105.8542 || p.Coordinates.Lat() != 21.0285 {
		t.Fatalf("wrong order after conversion: %v", p.Coordinates)
	}
	l := p.LatLng()
	if l.Lat != 21.0285 || l.Lng != 105.8542 {
		t.Fatalf("wrong order after back conversion: %+v", l)
	}
}

func TestLatLng_RoundTripBothWays(t *testing.T) {
	latlngs := []LatLng{
		{Lat: 21.0285, Lng: 105.8542},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 0, Lng: 0},
		{Lat: 90, Lng: -180},
	}
	for _, l := range latlngs {
		if got := l.Point().LatLng(); got != l {
			t.Fatalf("latlng round trip changed %+v to %+v", l, got)
		}
	}
	points := []Point{
		NewPoint(21.0285, 105.8542),
		NewPoint(-90, 180),
	}
	for _, p := range points {
		if got := p.LatLng().Point(); got != p {
			t.Fatalf("point round trip changed %v to %v", p.Coordinates, got.Coordinates)
		}
	}
}
