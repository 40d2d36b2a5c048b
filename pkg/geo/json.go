package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownGeometryType reports a GeoJSON "type" member that names no
// geometry kind modeled by this package.
var ErrUnknownGeometryType = errors.New("unknown geometry type")

type geometryJSON struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// UnmarshalGeometry decodes any of the six geometry kinds from GeoJSON,
// dispatching on the "type" member. Unknown types return an error wrapping
// ErrUnknownGeometryType. This is the one place in the package that branches
// per kind; everything downstream works through the Geometry interface.
func UnmarshalGeometry(data []byte) (Geometry, error) {
	var env geometryJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}
	if env.Coordinates == nil {
		return nil, fmt.Errorf("parse geometry: missing coordinates in %q", env.Type)
	}
	switch env.Type {
	case TypePoint:
		var c Position
		if err := decodeCoords(env.Coordinates, env.Type, &c); err != nil {
			return nil, err
		}
		return Point{Coordinates: c}, nil
	case TypeLineString:
		var c []Position
		if err := decodeCoords(env.Coordinates, env.Type, &c); err != nil {
			return nil, err
		}
		return LineString{Coordinates: c}, nil
	case TypePolygon:
		var c [][]Position
		if err := decodeCoords(env.Coordinates, env.Type, &c); err != nil {
			return nil, err
		}
		return Polygon{Coordinates: c}, nil
	case TypeMultiPoint:
		var c []Position
		if err := decodeCoords(env.Coordinates, env.Type, &c); err != nil {
			return nil, err
		}
		return MultiPoint{Coordinates: c}, nil
	case TypeMultiLineString:
		var c [][]Position
		if err := decodeCoords(env.Coordinates, env.Type, &c); err != nil {
			return nil, err
		}
		return MultiLineString{Coordinates: c}, nil
	case TypeMultiPolygon:
		var c [][][]Position
		if err := decodeCoords(env.Coordinates, env.Type, &c); err != nil {
			return nil, err
		}
		return MultiPolygon{Coordinates: c}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGeometryType, env.Type)
	}
}

func decodeCoords(raw json.RawMessage, typ string, into any) error {
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("parse %s coordinates: %w", typ, err)
	}
	return nil
}

func marshalGeometry(typ string, coordinates any) ([]byte, error) {
	return json.Marshal(struct {
		Type        string `json:"type"`
		Coordinates any    `json:"coordinates"`
	}{typ, coordinates})
}

// unmarshalCoords checks the envelope's "type" member against want and
// decodes the coordinates into the given pointer.
func unmarshalCoords(data []byte, want string, into any) error {
	var env geometryJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse geometry: %w", err)
	}
	if env.Type != want {
		return fmt.Errorf("parse geometry: got type %q, want %q", env.Type, want)
	}
	if env.Coordinates == nil {
		return fmt.Errorf("parse geometry: missing coordinates in %q", want)
	}
	return decodeCoords(env.Coordinates, want, into)
}

func (g Point) MarshalJSON() ([]byte, error)      { return marshalGeometry(TypePoint, g.Coordinates) }
func (g LineString) MarshalJSON() ([]byte, error) { return marshalGeometry(TypeLineString, g.Coordinates) }
func (g Polygon) MarshalJSON() ([]byte, error)    { return marshalGeometry(TypePolygon, g.Coordinates) }
func (g MultiPoint) MarshalJSON() ([]byte, error) { return marshalGeometry(TypeMultiPoint, g.Coordinates) }
func (g MultiLineString) MarshalJSON() ([]byte, error) {
	return marshalGeometry(TypeMultiLineString, g.Coordinates)
}
func (g MultiPolygon) MarshalJSON() ([]byte, error) {
	return marshalGeometry(TypeMultiPolygon, g.Coordinates)
}

func (g *Point) UnmarshalJSON(data []byte) error {
	return unmarshalCoords(data, TypePoint, &g.Coordinates)
}
func (g *LineString) UnmarshalJSON(data []byte) error {
	return unmarshalCoords(data, TypeLineString, &g.Coordinates)
}
func (g *Polygon) UnmarshalJSON(data []byte) error {
	return unmarshalCoords(data, TypePolygon, &g.Coordinates)
}
func (g *MultiPoint) UnmarshalJSON(data []byte) error {
	return unmarshalCoords(data, TypeMultiPoint, &g.Coordinates)
}
func (g *MultiLineString) UnmarshalJSON(data []byte) error {
	return unmarshalCoords(data, TypeMultiLineString, &g.Coordinates)
}
func (g *MultiPolygon) UnmarshalJSON(data []byte) error {
	return unmarshalCoords(data, TypeMultiPolygon, &g.Coordinates)
}

type featureJSON struct {
	Type       string         `json:"type"`
	ID         any            `json:"id,omitempty"`
	Geometry   any            `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// MarshalJSON emits the feature with "type": "Feature". The id member is
// present only when ID is non-nil.
func (f Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(featureJSON{
		Type:       TypeFeature,
		ID:         f.ID,
		Geometry:   f.Geometry,
		Properties: f.Properties,
	})
}

func (f *Feature) UnmarshalJSON(data []byte) error {
	var env struct {
		Type       string          `json:"type"`
		ID         any             `json:"id"`
		Geometry   json.RawMessage `json:"geometry"`
		Properties map[string]any  `json:"properties"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse feature: %w", err)
	}
	if env.Type != TypeFeature {
		return fmt.Errorf("parse feature: got type %q, want %q", env.Type, TypeFeature)
	}
	f.ID = env.ID
	f.Properties = env.Properties
	f.Geometry = nil
	if len(env.Geometry) > 0 && !bytes.Equal(env.Geometry, []byte("null")) {
		g, err := UnmarshalGeometry(env.Geometry)
		if err != nil {
			return err
		}
		f.Geometry = g
	}
	return nil
}

// MarshalJSON emits "features": [] rather than null for an empty collection,
// which map clients expect.
func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	features := fc.Features
	if features == nil {
		features = []Feature{}
	}
	return json.Marshal(struct {
		Type     string    `json:"type"`
		Features []Feature `json:"features"`
	}{TypeFeatureCollection, features})
}

func (fc *FeatureCollection) UnmarshalJSON(data []byte) error {
	var env struct {
		Type     string    `json:"type"`
		Features []Feature `json:"features"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse feature collection: %w", err)
	}
	if env.Type != TypeFeatureCollection {
		return fmt.Errorf("parse feature collection: got type %q, want %q", env.Type, TypeFeatureCollection)
	}
	fc.Features = env.Features
	return nil
}

// MarshalJSON encodes the box as the GeoJSON bbox array
// [minLon, minLat, maxLon, maxLat].
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat})
}

func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var arr [4]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("parse bbox: %w", err)
	}
	b.MinLon, b.MinLat, b.MaxLon, b.MaxLat = arr[0], arr[1], arr[2], arr[3]
	return nil
}
