package repository

import (
	"context"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgkafka "MarketLens/pkg/kafka"
)

// KafkaMetricsPublisher ships annualized metrics records to Kafka,
// keyed by symbol for per-symbol ordering.
type KafkaMetricsPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.Publisher = (*KafkaMetricsPublisher)(nil)

// NewKafkaMetricsPublisher creates a Kafka-backed metrics publisher.
func NewKafkaMetricsPublisher(producer *pkgkafka.Producer, topic string) *KafkaMetricsPublisher {
	return &KafkaMetricsPublisher{producer: producer, topic: topic}
}

func (p *KafkaMetricsPublisher) PublishMetrics(ctx context.Context, records []models.AnnualMetricsRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(records))
	for i, r := range records {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(r.Symbol),
			Value: r,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaMetricsPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
