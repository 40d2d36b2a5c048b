package invalidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/logger"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/observability"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/regions"
)

// ErrBadEvent marks messages that can never become valid. The claim loop
// commits past them instead of retrying forever.
var ErrBadEvent = errors.New("bad region update event")

// RegionStore is the mutable side of the registry; *regions.Registry
// implements it.
type RegionStore interface {
	Upsert(regions.Entry) error
	Delete(name string) bool
}

// Flusher empties the lookup cache after a registry mutation; a nil Flusher
// is allowed when no cache is wired.
type Flusher interface {
	Flush(ctx context.Context)
}

// Applier turns consumed messages into registry mutations.
type Applier struct {
	store RegionStore
	cache Flusher
	seen  *seenGuard
	log   *slog.Logger
}

func NewApplier(store RegionStore, cache Flusher, dedupeSize int, log *slog.Logger) *Applier {
	if log == nil {
		log = slog.Default()
	}
	return &Applier{
		store: store,
		cache: cache,
		seen:  newSeenGuard(dedupeSize),
		log:   log,
	}
}

// ProcessOne decodes, validates, and applies a single message. Redelivered
// messages are skipped. Decode and validation failures return ErrBadEvent;
// they are permanent, so the caller should commit and move on.
func (a *Applier) ProcessOne(ctx context.Context, msg *sarama.ConsumerMessage) error {
	if a.seen.seen(msg) {
		a.log.Debug("skipping redelivered message",
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		return nil
	}

	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		observability.ObserveInvalidation("decode", err)
		return fmt.Errorf("%w: decode: %v", ErrBadEvent, err)
	}
	if err := ev.Validate(); err != nil {
		observability.ObserveInvalidation(ev.Op, err)
		return fmt.Errorf("%w: %v", ErrBadEvent, err)
	}

	// tag every log line below with the region the event is about
	ctx = logger.WithRegion(ctx, regions.Normalize(ev.Name))

	switch ev.Op {
	case OpUpsert:
		entry, err := regions.Build(ev.Name, ev.BBox, ev.Ring, ev.Center)
		if err != nil {
			observability.ObserveInvalidation(ev.Op, err)
			return fmt.Errorf("%w: %v", ErrBadEvent, err)
		}
		if err := a.store.Upsert(entry); err != nil {
			observability.ObserveInvalidation(ev.Op, err)
			return fmt.Errorf("%w: %v", ErrBadEvent, err)
		}
	case OpDelete:
		if !a.store.Delete(ev.Name) {
			a.log.DebugContext(ctx, "delete for unknown region")
		}
	}

	if a.cache != nil {
		a.cache.Flush(ctx)
	}

	observability.ObserveInvalidation(ev.Op, nil)
	a.log.InfoContext(ctx, "region update applied",
		"op", ev.Op, "offset", msg.Offset)
	return nil
}

type messageProcessor func(context.Context, *sarama.ConsumerMessage) error

type groupHandler struct {
	process messageProcessor
	log     *slog.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim processes messages in order. Malformed messages are logged
// and committed past; any other processing error fails the claim without
// committing, so the message is redelivered.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("claim context done: %w", ctx.Err())
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.process(ctx, msg); err != nil {
				if !errors.Is(err, ErrBadEvent) {
					return fmt.Errorf("process failed (topic=%s, part=%d, off=%d): %w",
						msg.Topic, msg.Partition, msg.Offset, err)
				}
				h.log.Error("skipping malformed region update",
					"err", err, "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
			}
			sess.MarkMessage(msg, "")
		}
	}
}
