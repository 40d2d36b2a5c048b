// geoctl is the operator CLI for the CityLens geo primitives: distances,
// centroids, bounding boxes, containment checks, WKT conversion, and region
// file validation, without running the service.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/invalidate"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/regions"
	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

type options struct {
	JSON bool `long:"json" description:"Emit JSON instead of plain text"`
}

var opts options

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.LongDescription = "Geometry tooling for the CityLens geo service."

	mustAdd(parser, "distance", "Great-circle distance",
		"Distance in kilometers between two LON,LAT points.", &distanceCmd{})
	mustAdd(parser, "centroid", "Polygon centroid",
		"Vertex-average centroid of a GeoJSON polygon file ('-' for stdin).", &centroidCmd{})
	mustAdd(parser, "bbox", "Bounding box",
		"Bounding box of any GeoJSON geometry file ('-' for stdin).", &bboxCmd{})
	mustAdd(parser, "contains", "Containment check",
		"Whether a LON,LAT point falls inside a named region or a polygon file.", &containsCmd{})
	wkt := mustAdd(parser, "wkt", "WKT point conversion",
		"Convert between WKT points and GeoJSON points.", &struct{}{})
	mustAddSub(wkt, "parse", "Parse a WKT point",
		"Parse 'POINT(lon lat)' into a GeoJSON point.", &wktParseCmd{})
	mustAddSub(wkt, "format", "Format a WKT point",
		"Format a LON,LAT pair as 'POINT(lon lat)'.", &wktFormatCmd{})
	mustAdd(parser, "regions", "Validate a region file",
		"Load a YAML region file and list what it defines.", &regionsCmd{})
	mustAdd(parser, "publish", "Publish a region update",
		"Send a region upsert or delete to the update topic consumed by the service.", &publishCmd{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func mustAdd(p *flags.Parser, name, short, long string, cmd any) *flags.Command {
	c, err := p.AddCommand(name, short, long, cmd)
	if err != nil {
		panic(err)
	}
	return c
}

func mustAddSub(parent *flags.Command, name, short, long string, cmd any) {
	if _, err := parent.AddCommand(name, short, long, cmd); err != nil {
		panic(err)
	}
}

// parsePoint parses a "LON,LAT" argument. Ranges are not checked; the
// library is total over any floats and the CLI stays as lenient.
func parsePoint(raw string) (geo.Point, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("%q: expected LON,LAT", raw)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%q: longitude: %w", raw, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%q: latitude: %w", raw, err)
	}
	return geo.Point{Coordinates: geo.Position{lon, lat}}, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func emit(plain string, v any) error {
	if opts.JSON {
		out, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(plain)
	return nil
}

type distanceCmd struct {
	Args struct {
		From string `positional-arg-name:"FROM" description:"LON,LAT" required:"yes"`
		To   string `positional-arg-name:"TO" description:"LON,LAT" required:"yes"`
	} `positional-args:"yes" required:"yes"`
}

func (c *distanceCmd) Execute([]string) error {
	from, err := parsePoint(c.Args.From)
	if err != nil {
		return err
	}
	to, err := parsePoint(c.Args.To)
	if err != nil {
		return err
	}
	km := geo.Distance(from, to)
	return emit(fmt.Sprintf("%.3f km", km), map[string]float64{"kilometers": km})
}

type centroidCmd struct {
	Args struct {
		File string `positional-arg-name:"FILE" description:"GeoJSON polygon, '-' for stdin" required:"yes"`
	} `positional-args:"yes" required:"yes"`
}

func (c *centroidCmd) Execute([]string) error {
	data, err := readInput(c.Args.File)
	if err != nil {
		return err
	}
	var poly geo.Polygon
	if err := json.Unmarshal(data, &poly); err != nil {
		return err
	}
	if len(poly.Coordinates) == 0 || len(poly.Coordinates[0]) < 2 {
		return errors.New("polygon has no usable outer ring")
	}
	ct := geo.Centroid(poly)
	return emit(
		fmt.Sprintf("%v %v", ct.Coordinates.Lon(), ct.Coordinates.Lat()),
		map[string]geo.Point{"centroid": ct},
	)
}

type bboxCmd struct {
	Args struct {
		File string `positional-arg-name:"FILE" description:"GeoJSON geometry, '-' for stdin" required:"yes"`
	} `positional-args:"yes" required:"yes"`
}

func (c *bboxCmd) Execute([]string) error {
	data, err := readInput(c.Args.File)
	if err != nil {
		return err
	}
	g, err := geo.UnmarshalGeometry(data)
	if err != nil {
		return err
	}
	b := geo.Bounds(g)
	if b.IsEmpty() {
		return emit("empty", map[string]bool{"empty": true})
	}
	return emit(
		fmt.Sprintf("%v %v %v %v", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat),
		map[string]any{"empty": false, "bbox": b},
	)
}

type containsCmd struct {
	Region string `long:"region" description:"Region name from the built-ins or --file" default:"hanoi"`
	File   string `long:"file" description:"YAML region file to load on top of the built-ins"`
	Ring   string `long:"ring" description:"GeoJSON polygon file to test against instead of a region"`
	Args   struct {
		Point string `positional-arg-name:"POINT" description:"LON,LAT" required:"yes"`
	} `positional-args:"yes" required:"yes"`
}

func (c *containsCmd) Execute([]string) error {
	p, err := parsePoint(c.Args.Point)
	if err != nil {
		return err
	}

	if c.Ring != "" {
		data, err := readInput(c.Ring)
		if err != nil {
			return err
		}
		var poly geo.Polygon
		if err := json.Unmarshal(data, &poly); err != nil {
			return err
		}
		inside := geo.PointInPolygon(p, poly)
		return emit(strconv.FormatBool(inside), map[string]bool{"contains": inside})
	}

	reg := regions.New(zerolog.Nop(), true)
	if c.File != "" {
		if err := reg.LoadFile(c.File); err != nil {
			return err
		}
	}
	e, err := reg.Get(c.Region)
	if err != nil {
		return err
	}
	inside := e.Region.Contains(p)
	exact := false
	if inside && e.HasBoundary() {
		inside = geo.PointInPolygon(p, e.Boundary)
		exact = true
	}
	return emit(strconv.FormatBool(inside), map[string]any{
		"region":   e.Region.Name,
		"contains": inside,
		"exact":    exact,
	})
}

type wktParseCmd struct {
	Args struct {
		WKT string `positional-arg-name:"WKT" description:"e.g. 'POINT(105.8542 21.0285)'" required:"yes"`
	} `positional-args:"yes" required:"yes"`
}

func (c *wktParseCmd) Execute([]string) error {
	p, err := geo.ParseWKTPoint(c.Args.WKT)
	if err != nil {
		return err
	}
	out, err := json.Marshal(p)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

type wktFormatCmd struct {
	Args struct {
		Point string `positional-arg-name:"POINT" description:"LON,LAT" required:"yes"`
	} `positional-args:"yes" required:"yes"`
}

func (c *wktFormatCmd) Execute([]string) error {
	p, err := parsePoint(c.Args.Point)
	if err != nil {
		return err
	}
	return emit(geo.FormatWKTPoint(p), map[string]string{"wkt": geo.FormatWKTPoint(p)})
}

type publishCmd struct {
	Brokers string   `long:"brokers" env:"CITYLENS_KAFKA_BROKERS" default:"localhost:9092" description:"Comma-separated Kafka brokers"`
	Topic   string   `long:"topic" env:"CITYLENS_KAFKA_TOPIC" default:"region-updates" description:"Update topic"`
	Op      string   `long:"op" choice:"upsert" choice:"delete" default:"upsert" description:"Mutation kind"`
	Name    string   `long:"name" required:"yes" description:"Region name"`
	BBox    string   `long:"bbox" description:"minLon,minLat,maxLon,maxLat (upsert)"`
	Ring    []string `long:"ring" description:"LON,LAT ring vertex; repeat at least 3 times (upsert)"`
	Center  string   `long:"center" description:"LON,LAT (optional)"`
}

// buildEvent assembles the update event from the flags; Publish validates
// it, so malformed combinations fail before anything is sent.
func (c *publishCmd) buildEvent() (invalidate.Event, error) {
	ev := invalidate.Event{
		Version: 1,
		Op:      c.Op,
		Name:    c.Name,
		TS:      time.Now().UTC(),
		Source:  "geoctl",
	}
	if c.BBox != "" {
		parts := strings.Split(c.BBox, ",")
		if len(parts) != 4 {
			return invalidate.Event{}, fmt.Errorf("--bbox %q: expected 4 comma-separated values", c.BBox)
		}
		var bb [4]float64
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return invalidate.Event{}, fmt.Errorf("--bbox value %d: %w", i, err)
			}
			bb[i] = v
		}
		ev.BBox = &bb
	}
	for _, raw := range c.Ring {
		p, err := parsePoint(raw)
		if err != nil {
			return invalidate.Event{}, fmt.Errorf("--ring: %w", err)
		}
		ev.Ring = append(ev.Ring, p.LatLng())
	}
	if c.Center != "" {
		p, err := parsePoint(c.Center)
		if err != nil {
			return invalidate.Event{}, fmt.Errorf("--center: %w", err)
		}
		ll := p.LatLng()
		ev.Center = &ll
	}
	return ev, nil
}

func (c *publishCmd) Execute([]string) error {
	ev, err := c.buildEvent()
	if err != nil {
		return err
	}
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if err := invalidate.Publish(brokers, c.Topic, ev); err != nil {
		return err
	}
	return emit("published", map[string]string{"op": ev.Op, "region": ev.Name, "topic": c.Topic})
}

type regionsCmd struct {
	File string `long:"file" description:"YAML region file" required:"yes"`
}

func (c *regionsCmd) Execute([]string) error {
	reg := regions.New(zerolog.Nop(), false)
	if err := reg.LoadFile(c.File); err != nil {
		return err
	}
	type line struct {
		Name        string          `json:"name"`
		Bounds      geo.BoundingBox `json:"bounds"`
		Center      geo.Point       `json:"center"`
		HasBoundary bool            `json:"has_boundary"`
	}
	var out []line
	for _, name := range reg.Names() {
		e, err := reg.Get(name)
		if err != nil {
			return err
		}
		out = append(out, line{
			Name:        e.Region.Name,
			Bounds:      e.Region.Bounds,
			Center:      e.Region.Center,
			HasBoundary: e.HasBoundary(),
		})
	}
	if opts.JSON {
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	for _, l := range out {
		boundary := "bbox only"
		if l.HasBoundary {
			boundary = "polygon"
		}
		fmt.Printf("%s\t[%v %v %v %v]\t%s\n", l.Name,
			l.Bounds.MinLon, l.Bounds.MinLat, l.Bounds.MaxLon, l.Bounds.MaxLat, boundary)
	}
	return nil
}
