package invalidate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Brokers             []string
	Topic               string
	GroupID             string
	SessionTimeout      time.Duration
	Heartbeat           time.Duration
	RebalanceTimeout    time.Duration
	InitialOffsetOldest bool
}

func (c Config) withDefaults() Config {
	if c.SessionTimeout <= 0 {
		c.SessionTimeout = 30 * time.Second
	}
	if c.Heartbeat <= 0 {
		c.Heartbeat = 3 * time.Second
	}
	if c.RebalanceTimeout <= 0 {
		c.RebalanceTimeout = 30 * time.Second
	}
	return c
}

// Consumer runs the consumer-group loop that feeds an Applier.
type Consumer struct {
	cfg     Config
	applier *Applier
	log     *slog.Logger
}

func NewConsumer(cfg Config, applier *Applier, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{cfg: cfg.withDefaults(), applier: applier, log: log}
}

// Start consumes until the context is canceled. Transient group errors are
// logged and retried after a short pause rather than propagated, so a Kafka
// hiccup does not take the consumer down.
func (c *Consumer) Start(ctx context.Context) error {
	if c.applier == nil {
		return errors.New("invalidate: applier is required")
	}
	if len(c.cfg.Brokers) == 0 {
		return errors.New("invalidate: brokers are required")
	}

	scfg := sarama.NewConfig()
	scfg.Version = sarama.V2_1_0_0
	scfg.Consumer.Group.Session.Timeout = c.cfg.SessionTimeout
	scfg.Consumer.Group.Heartbeat.Interval = c.cfg.Heartbeat
	scfg.Consumer.Group.Rebalance.Timeout = c.cfg.RebalanceTimeout
	if c.cfg.InitialOffsetOldest {
		scfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		scfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	scfg.Consumer.Offsets.AutoCommit.Enable = true

	group, err := sarama.NewConsumerGroup(c.cfg.Brokers, c.cfg.GroupID, scfg)
	if err != nil {
		return fmt.Errorf("create consumer group: %w", err)
	}
	defer func() { _ = group.Close() }()

	handler := &groupHandler{process: c.applier.ProcessOne, log: c.log}

	c.log.Info("region update consumer starting",
		"brokers", c.cfg.Brokers, "topic", c.cfg.Topic, "group", c.cfg.GroupID)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("region update consumer shutting down")
			return nil
		default:
			if err := group.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return nil
				}
				c.log.Error("consumer error", "err", err)
				time.Sleep(2 * time.Second)
			}
		}
	}
}
