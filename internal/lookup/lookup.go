// Package lookup memoizes region lookups in front of the registry: an
// in-process LRU first, then an optional shared Redis tier. It caches the
// results of queries, not geometry, so it is a cache rather than a spatial
// index.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/observability"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/regions"
	"github.com/PKA-OpenDynamics/CityLens-sub002/pkg/geo"
)

// Source answers uncached lookups; *regions.Registry implements it.
type Source interface {
	Locate(p geo.Point) []regions.Match
	Generation() uint64
}

// Store is the shared cache tier; *redisstore.Client implements it. A nil
// Store disables the tier.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	FlushPrefix(ctx context.Context, prefix string) (int, error)
}

type Config struct {
	LRUSize   int
	Precision int
	TTL       time.Duration
}

// Result is one resolved lookup: the queried point and every region that
// contains it, stamped with the registry generation it was computed against.
type Result struct {
	Point      geo.Point       `json:"point"`
	Matches    []regions.Match `json:"matches"`
	Generation uint64          `json:"generation"`
	CachedAt   time.Time       `json:"cached_at"`
}

type Resolver struct {
	src       Source
	store     Store
	l1        *lru.Cache[string, Result]
	ttl       time.Duration
	precision int
	log       zerolog.Logger
	now       func() time.Time
}

func New(src Source, store Store, cfg Config, log zerolog.Logger) (*Resolver, error) {
	if src == nil {
		return nil, errors.New("lookup: source is required")
	}
	size := cfg.LRUSize
	if size <= 0 {
		size = 1024
	}
	l1, err := lru.New[string, Result](size)
	if err != nil {
		return nil, fmt.Errorf("lookup: lru: %w", err)
	}
	precision := cfg.Precision
	if precision < 0 || precision > 12 {
		precision = 6
	}
	return &Resolver{
		src:       src,
		store:     store,
		l1:        l1,
		ttl:       cfg.TTL,
		precision: precision,
		log:       log,
		now:       time.Now,
	}, nil
}

// Resolve answers "which regions contain p", from cache when possible. A
// failing shared tier degrades to a direct registry lookup; the only error
// returned is context cancellation.
func (r *Resolver) Resolve(ctx context.Context, p geo.Point) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	gen := r.src.Generation()
	key := Key(p, r.precision, gen)

	if res, ok := r.l1.Get(key); ok {
		observability.ObserveLookup(observability.LookupHitL1)
		return res, nil
	}

	if r.store != nil {
		raw, ok, err := r.store.Get(ctx, key)
		switch {
		case err != nil:
			observability.ObserveLookup(observability.LookupError)
			r.log.Warn().Err(err).Msg("lookup shared tier read failed; computing directly")
		case ok:
			var res Result
			if err := json.Unmarshal(raw, &res); err != nil {
				observability.ObserveLookup(observability.LookupError)
				r.log.Warn().Err(err).Str("key", key).Msg("corrupt lookup cache entry; recomputing")
			} else {
				r.l1.Add(key, res)
				observability.ObserveLookup(observability.LookupHitL2)
				return res, nil
			}
		}
	}

	matches := r.src.Locate(p)
	if matches == nil {
		matches = []regions.Match{}
	}
	res := Result{
		Point:      p,
		Matches:    matches,
		Generation: gen,
		CachedAt:   r.now().UTC(),
	}
	observability.ObserveLookup(observability.LookupMiss)
	r.l1.Add(key, res)

	if r.store != nil {
		raw, err := json.Marshal(res)
		if err == nil {
			err = r.store.Set(ctx, key, raw, r.ttl)
		}
		if err != nil {
			r.log.Warn().Err(err).Msg("lookup shared tier write failed")
		}
	}
	return res, nil
}

// Flush empties both tiers. Generation-scoped keys already orphan stale
// entries; flushing reclaims the space immediately, so update events call
// this after mutating the registry.
func (r *Resolver) Flush(ctx context.Context) {
	r.l1.Purge()
	if r.store == nil {
		return
	}
	n, err := r.store.FlushPrefix(ctx, KeyPrefix)
	if err != nil {
		r.log.Warn().Err(err).Msg("lookup shared tier flush failed")
		return
	}
	r.log.Debug().Int("keys", n).Msg("lookup cache flushed")
}
