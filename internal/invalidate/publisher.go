package invalidate

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/regions"
)

// Publish sends one region update to the topic, keyed by the normalized
// region name so updates to a region stay ordered within a partition. The
// service only consumes; this is the producing side for operator tooling
// (geoctl publish).
func Publish(brokers []string, topic string, ev Event) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_1_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true

	prod, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return fmt.Errorf("create producer: %w", err)
	}
	defer func() { _ = prod.Close() }()

	return publishWith(prod, topic, ev)
}

// publishWith encodes and sends on an existing producer. The event must
// already be valid.
func publishWith(prod sarama.SyncProducer, topic string, ev Event) error {
	val, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if _, _, err := prod.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(regions.Normalize(ev.Name)),
		Value: sarama.ByteEncoder(val),
	}); err != nil {
		return fmt.Errorf("send event: %w", err)
	}
	return nil
}
