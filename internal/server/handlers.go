// Package server exposes the geo primitives as a small read-mostly HTTP
// API: distance, region listing and containment, cached point lookup,
// bounding box / centroid over posted GeoJSON, and WKT conversion.
//
// This is the one layer that validates coordinate ranges. The core package
// deliberately lets out-of-range values flow through the math; requests are
// rejected here instead, before they reach it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/lookup"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/regions"
	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

// 1 MiB is far beyond any sane geometry body; larger requests are cut off.
const maxBodyBytes = 1 << 20

// Pinger is the readiness hook of the optional shared cache tier;
// *redisstore.Client implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers serves the API routes. Resolver and Cache may be nil; the locate
// route then computes directly, and readiness skips the cache check.
type Handlers struct {
	Log      zerolog.Logger
	Registry *regions.Registry
	Resolver *lookup.Resolver
	Cache    Pinger
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// parsePoint parses a "lon,lat" query value and enforces the coordinate
// ranges the core package leaves unchecked.
func parsePoint(raw string) (geo.Point, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return geo.Point{}, errors.New("expected two comma-separated values: lon,lat")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("latitude: %w", err)
	}
	if lon < -180 || lon > 180 {
		return geo.Point{}, errors.New("longitude must be in [-180,180]")
	}
	if lat < -90 || lat > 90 {
		return geo.Point{}, errors.New("latitude must be in [-90,90]")
	}
	return geo.Point{Coordinates: geo.Position{lon, lat}}, nil
}

func pointParam(r *http.Request, name string) (geo.Point, error) {
	raw := r.URL.Query().Get(name)
	if strings.TrimSpace(raw) == "" {
		return geo.Point{}, fmt.Errorf("missing required parameter: %s", name)
	}
	p, err := parsePoint(raw)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return p, nil
}

func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports ready once the registry holds at least one region and, when
// a shared cache tier is wired, it answers a ping.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil || h.Registry.Len() == 0 {
		writeError(w, http.StatusServiceUnavailable, "region registry is empty")
		return
	}
	if h.Cache != nil {
		if err := h.Cache.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache tier unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handlers) Distance(w http.ResponseWriter, r *http.Request) {
	from, err := pointParam(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := pointParam(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"kilometers": geo.Distance(from, to)})
}

type regionSummary struct {
	Name        string          `json:"name"`
	Bounds      geo.BoundingBox `json:"bounds"`
	Center      geo.Point       `json:"center"`
	HasBoundary bool            `json:"has_boundary"`
}

func (h *Handlers) ListRegions(w http.ResponseWriter, _ *http.Request) {
	names := h.Registry.Names()
	out := make([]regionSummary, 0, len(names))
	for _, name := range names {
		e, err := h.Registry.Get(name)
		if err != nil {
			continue // deleted between Names and Get
		}
		out = append(out, regionSummary{
			Name:        e.Region.Name,
			Bounds:      e.Region.Bounds,
			Center:      e.Region.Center,
			HasBoundary: e.HasBoundary(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"regions": out})
}

// GetRegion returns the region as a GeoJSON feature: the polygon boundary
// when one is registered, otherwise the bounding box rendered as a closed
// ring.
func (h *Handlers) GetRegion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	e, err := h.Registry.Get(name)
	if err != nil {
		if errors.Is(err, regions.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "region lookup failed")
		return
	}

	boundary := e.Boundary
	if !e.HasBoundary() {
		boundary = boxPolygon(e.Region.Bounds)
	}
	f := geo.NewFeature(boundary, map[string]any{
		"name":         e.Region.Name,
		"center":       e.Region.Center,
		"has_boundary": e.HasBoundary(),
	}, e.Region.Name)
	writeJSON(w, http.StatusOK, f)
}

// boxPolygon renders a bounding box as a single closed counterclockwise
// ring, already in GeoJSON (lon, lat) order.
func boxPolygon(b geo.BoundingBox) geo.Polygon {
	return geo.Polygon{Coordinates: [][]geo.Position{{
		{b.MinLon, b.MinLat},
		{b.MaxLon, b.MinLat},
		{b.MaxLon, b.MaxLat},
		{b.MinLon, b.MaxLat},
		{b.MinLon, b.MinLat},
	}}}
}

// RegionContains is the bounding-box containment predicate: it answers from
// the region's box alone even when a polygon boundary exists, matching the
// Region.Contains semantics. Exact answers come from the locate route.
func (h *Handlers) RegionContains(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	e, err := h.Registry.Get(name)
	if err != nil {
		if errors.Is(err, regions.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "region lookup failed")
		return
	}
	p, err := pointParam(r, "point")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"region":   e.Region.Name,
		"contains": e.Region.Contains(p),
	})
}

func (h *Handlers) Locate(w http.ResponseWriter, r *http.Request) {
	p, err := pointParam(r, "point")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.Resolver == nil {
		matches := h.Registry.Locate(p)
		if matches == nil {
			matches = []regions.Match{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"point": p, "matches": matches})
		return
	}

	res, err := h.Resolver.Resolve(r.Context(), p)
	if err != nil {
		h.Log.Warn().Err(err).Msg("locate aborted")
		writeError(w, http.StatusServiceUnavailable, "lookup canceled")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return nil, false
	}
	if len(body) > maxBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "geometry body too large")
		return nil, false
	}
	return body, true
}

// GeometryBounds folds any posted GeoJSON geometry into its bounding box.
// A geometry without coordinates reports empty=true and no box.
func (h *Handlers) GeometryBounds(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	g, err := geo.UnmarshalGeometry(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b := geo.Bounds(g)
	if b.IsEmpty() {
		writeJSON(w, http.StatusOK, map[string]any{"empty": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"empty": false, "bbox": b})
}

// GeometryCentroid returns the vertex-average centroid of a posted polygon.
// A polygon with an empty ring has no centroid and is rejected rather than
// letting NaN leak into the JSON encoder, which cannot represent it.
func (h *Handlers) GeometryCentroid(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var poly geo.Polygon
	if err := json.Unmarshal(body, &poly); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(poly.Coordinates) == 0 || len(poly.Coordinates[0]) < 2 {
		writeError(w, http.StatusBadRequest, "polygon has no usable outer ring")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"centroid": geo.Centroid(poly)})
}

func (h *Handlers) ConvertWKT(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req struct {
		WKT string `json:"wkt"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := geo.ParseWKTPoint(req.WKT)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"point": p})
}

func (h *Handlers) ConvertGeoJSON(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var p geo.Point
	if err := json.Unmarshal(body, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"wkt": geo.FormatWKTPoint(p)})
}
