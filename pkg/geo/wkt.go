package geo

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidWKT reports input that does not parse as a WKT point.
var ErrInvalidWKT = errors.New("invalid WKT point")

// Case-insensitive keyword, flexible whitespace inside the parentheses.
var wktPointRe = regexp.MustCompile(`(?i)POINT\s*\(\s*([-\d.]+)\s+([-\d.]+)\s*\)`)

// ParseWKTPoint parses a WKT "POINT(lon lat)" string into a Point. Any input
// that does not match returns an error wrapping ErrInvalidWKT; callers
// branch with errors.Is. Nothing here panics.
func ParseWKTPoint(s string) (Point, error) {
	m := wktPointRe.FindStringSubmatch(s)
	if m == nil {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidWKT, s)
	}
	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: bad longitude %q", ErrInvalidWKT, m[1])
	}
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: bad latitude %q", ErrInvalidWKT, m[2])
	}
	return Point{Coordinates: Position{lon, lat}}, nil
}

// FormatWKTPoint renders the point as "POINT(lon lat)". Coordinates use the
// shortest decimal form that round-trips through ParseWKTPoint; plain 'f'
// formatting keeps scientific notation out of the output, which the parse
// pattern would reject.
func FormatWKTPoint(p Point) string {
	lon := strconv.FormatFloat(p.Coordinates.Lon(), 'f', -1, 64)
	lat := strconv.FormatFloat(p.Coordinates.Lat(), 'f', -1, 64)
	return "POINT(" + lon + " " + lat + ")"
}
