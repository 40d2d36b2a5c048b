package regions

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/observability"
	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

// ErrNotFound reports a region name with no registry entry.
var ErrNotFound = errors.New("region not found")

// Registry is the set of known regions. Reads are the hot path (every locate
// and containment query takes the read lock); mutations arrive from the
// region file at startup and from update events at runtime.
//
// Every mutation bumps the generation counter. Lookup cache keys include the
// generation, so cached results from before a mutation can never be served
// after it.
type Registry struct {
	log zerolog.Logger

	mu     sync.RWMutex
	byName map[string]Entry
	gen    uint64
}

// New returns a registry, seeded with the built-in geo.Hanoi region (bounds
// and center, no polygon boundary) unless builtin is false.
func New(log zerolog.Logger, builtin bool) *Registry {
	r := &Registry{
		log:    log,
		byName: make(map[string]Entry),
	}
	if builtin {
		r.byName[geo.Hanoi.Name] = Entry{Region: geo.Hanoi}
	}
	observability.SetRegionCount(len(r.byName))
	return r
}

// Get returns the entry for name. The name is normalized the same way
// Upsert normalizes it, so lookups are case-insensitive.
func (r *Registry) Get(name string) (Entry, error) {
	key := Normalize(name)
	r.mu.RLock()
	e, ok := r.byName[key]
	r.mu.RUnlock()
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}

// Names returns the registered region names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Generation returns the current mutation counter.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}

// Locate returns every region containing p, ordered by name. Each candidate
// is prefiltered by its bounding box; when the entry has a polygon boundary
// the point is then confirmed by the exact ray-casting test, and a point
// inside the box but outside the polygon does not match.
func (r *Registry) Locate(p geo.Point) []Match {
	r.mu.RLock()
	var out []Match
	for name, e := range r.byName {
		if !e.Region.Contains(p) {
			continue
		}
		exact := false
		if e.HasBoundary() {
			if !geo.PointInPolygon(p, e.Boundary) {
				continue
			}
			exact = true
		}
		out = append(out, Match{Name: name, Region: e.Region, ContainsExactly: exact})
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Upsert adds or replaces the entry under its normalized name and bumps the
// generation.
func (r *Registry) Upsert(e Entry) error {
	key := Normalize(e.Region.Name)
	if key == "" {
		return fmt.Errorf("region name is required")
	}
	e.Region.Name = key

	r.mu.Lock()
	_, existed := r.byName[key]
	r.byName[key] = e
	r.gen++
	n := len(r.byName)
	r.mu.Unlock()

	observability.SetRegionCount(n)
	r.log.Debug().Str("region", key).Bool("replaced", existed).
		Bool("boundary", e.HasBoundary()).Msg("region upserted")
	return nil
}

// Delete removes the named entry, reporting whether it existed. The
// generation is bumped only when something was actually removed.
func (r *Registry) Delete(name string) bool {
	key := Normalize(name)

	r.mu.Lock()
	_, existed := r.byName[key]
	if existed {
		delete(r.byName, key)
		r.gen++
	}
	n := len(r.byName)
	r.mu.Unlock()

	if existed {
		observability.SetRegionCount(n)
		r.log.Debug().Str("region", key).Msg("region deleted")
	}
	return existed
}
