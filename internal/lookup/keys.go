package lookup

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

// KeyPrefix is the namespace all lookup cache keys live under; Flush drops
// the whole namespace from the shared tier.
const KeyPrefix = "locate:"

// Key builds the cache key for a point query: the registry generation, the
// coordinates rounded to the configured precision in readable form, and an
// xxhash suffix over the rounded coordinate text. Including the generation
// means every registry mutation orphans all older keys instead of racing
// them.
func Key(p geo.Point, precision int, generation uint64) string {
	lon := strconv.FormatFloat(p.Coordinates.Lon(), 'f', precision, 64)
	lat := strconv.FormatFloat(p.Coordinates.Lat(), 'f', precision, 64)
	coord := lon + "," + lat
	sum := xxhash.Sum64String(coord)
	return fmt.Sprintf("%sg%d:%s:x=%016x", KeyPrefix, generation, sanitizeForKey(coord), sum)
}

// sanitizeForKey keeps keys ASCII and shell-friendly: whitespace becomes
// '_', anything outside the allowed set becomes '-', and runs of the two
// replacement characters collapse.
func sanitizeForKey(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	for _, r := range s {
		var out rune
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-' || r == '=' || r == '.' || r == ',':
			out = r
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		unicode.IsDigit(r)
}
