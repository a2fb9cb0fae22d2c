package repository

import (
	"context"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
)

type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaAlertPublisher implements AlertPublisher. Alerts are keyed by commodity.
type KafkaAlertPublisher struct {
	producer producer
	topic    string
}

var _ domrepo.AlertPublisher = (*KafkaAlertPublisher)(nil)

// NewKafkaAlertPublisher creates Kafka publisher. Pass a *kafka.Producer from pkg/kafka.
func NewKafkaAlertPublisher(p producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: p, topic: topic}
}

func (p *KafkaAlertPublisher) PublishAlert(ctx context.Context, a models.AnomalyAlert) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Commodity), a)
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
