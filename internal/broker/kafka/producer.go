package kafka

import (
	"context"
	"fmt"

	"thumbnail-creator/internal/broker"
	"thumbnail-creator/internal/config"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

var _ broker.Producer = (*ProducerClient)(nil)

// ProducerClient publishes export events to a single topic.
type ProducerClient struct {
	producer *wbkafka.Producer
	topic    string
}

func NewProducerClient(cfg *config.KafkaConfig) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Brokers, cfg.ExportTopic),
		topic:    cfg.ExportTopic,
	}
}

// Send writes one message, retrying per strategy. Retries stop once ctx is
// done.
func (p *ProducerClient) Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error {
	err := retry.DoContext(ctx, strategy, func() error {
		return p.producer.Send(ctx, key, value)
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
