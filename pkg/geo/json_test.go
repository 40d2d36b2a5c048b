package geo

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestPointJSON_LonLatOrder(t *testing.T) {
	b, err := json.Marshal(NewPoint(21.0285, 105.8542))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"Point","coordinates":[105.8542,21.0285]}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestGeometryJSON_RoundTripThroughInterface(t *testing.T) {
	src := Geometry(MultiPolygon{Coordinates: [][][]Position{
		{{{105, 21}, {106, 21}, {106, 22}, {105, 21}}},
	}})
	b, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalGeometry(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, src) {
		t.Fatalf("round trip changed geometry:\n src=%#v\nback=%#v", src, back)
	}
}

func TestUnmarshalGeometry_DispatchesOnType(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[[[105.85,21.02],[105.86,21.02],[105.86,21.03],[105.85,21.02]]]}`
	g, err := UnmarshalGeometry([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	poly, ok := g.(Polygon)
	if !ok {
		t.Fatalf("expected Polygon, got %T", g)
	}
	if len(poly.Coordinates) != 1 || len(poly.Coordinates[0]) != 4 {
		t.Fatalf("wrong shape: %v", poly.Coordinates)
	}
}

func TestUnmarshalGeometry_UnknownTypeFails(t *testing.T) {
	_, err := UnmarshalGeometry([]byte(`{"type":"Circle","coordinates":[0,0]}`))
	if !errors.Is(err, ErrUnknownGeometryType) {
		t.Fatalf("expected ErrUnknownGeometryType, got %v", err)
	}
}

func TestConcreteUnmarshal_RejectsWrongType(t *testing.T) {
	var p Point
	err := json.Unmarshal([]byte(`{"type":"LineString","coordinates":[[1,2],[3,4]]}`), &p)
	if err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestFeatureJSON_IDOmittedWhenAbsent(t *testing.T) {
	f := NewFeature(NewPoint(21.0285, 105.8542), map[string]any{"name": "hoan kiem"})
	b, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), `"id"`) {
		t.Fatalf("id member must be omitted entirely: %s", b)
	}
	if !strings.Contains(string(b), `"type":"Feature"`) {
		t.Fatalf("missing feature type tag: %s", b)
	}
}

func TestFeatureJSON_StringAndNumberIDs(t *testing.T) {
	for _, id := range []any{"station-7", float64(7)} {
		f := NewFeature(NewPoint(21, 105), map[string]any{"kind": "sensor"}, id)
		b, err := json.Marshal(f)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back Feature
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back.ID != id {
			t.Fatalf("id round trip changed %v (%T) to %v (%T)", id, id, back.ID, back.ID)
		}
	}
}

func TestFeatureJSON_RoundTripWithGeometry(t *testing.T) {
	src := NewFeature(
		NewPolygon([]LatLng{{Lat: 21.03, Lng: 105.85}, {Lat: 21.03, Lng: 105.86}, {Lat: 21.02, Lng: 105.86}}),
		map[string]any{"district": "hoan kiem", "rank": float64(1)},
		"hk-1",
	)
	b, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Feature
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back.Geometry, src.Geometry) {
		t.Fatalf("geometry changed:\n src=%#v\nback=%#v", src.Geometry, back.Geometry)
	}
	if !reflect.DeepEqual(back.Properties, src.Properties) {
		t.Fatalf("properties changed: %v", back.Properties)
	}
	if back.ID != "hk-1" {
		t.Fatalf("id changed: %v", back.ID)
	}
}

func TestFeatureJSON_NullGeometry(t *testing.T) {
	var f Feature
	if err := json.Unmarshal([]byte(`{"type":"Feature","geometry":null,"properties":{}}`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Geometry != nil {
		t.Fatalf("expected nil geometry, got %#v", f.Geometry)
	}
}

func TestFeatureCollectionJSON_EmptyFeaturesArray(t *testing.T) {
	b, err := json.Marshal(NewFeatureCollection(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"FeatureCollection","features":[]}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestBoundingBoxJSON_Array(t *testing.T) {
	b, err := json.Marshal(BoundingBox{MinLon: 105, MinLat: 21, MaxLon: 106, MaxLat: 22})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[105,21,106,22]" {
		t.Fatalf("got %s", b)
	}
	var back BoundingBox
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != (BoundingBox{MinLon: 105, MinLat: 21, MaxLon: 106, MaxLat: 22}) {
		t.Fatalf("round trip changed box: %+v", back)
	}
}
