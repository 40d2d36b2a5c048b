package invalidate

import (
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// seenGuard remembers recently processed message coordinates so redelivered
// messages (rebalances, restarts before commit) are applied once. Bounded by
// an LRU: ancient redeliveries can slip through, which is harmless because
// re-applying an upsert or delete is idempotent at the registry level.
type seenGuard struct {
	mu  sync.Mutex
	lru *lru.Cache[uint64, struct{}]
}

func newSeenGuard(size int) *seenGuard {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[uint64, struct{}](size)
	return &seenGuard{lru: c}
}

// seen records the message and reports whether it had been recorded before.
func (g *seenGuard) seen(msg *sarama.ConsumerMessage) bool {
	k := xxhash.Sum64String(fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset))
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.lru.Get(k); ok {
		return true
	}
	g.lru.Add(k, struct{}{})
	return false
}
