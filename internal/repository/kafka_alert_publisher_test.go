package repository

import (
	"context"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingProducer struct {
	topic  string
	key    []byte
	value  interface{}
	closed bool
}

func (p *capturingProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	p.topic, p.key, p.value = topic, key, value
	return nil
}

func (p *capturingProducer) Close() error {
	p.closed = true
	return nil
}

func TestKafkaAlertPublisher(t *testing.T) {
	p := &capturingProducer{}
	pub := NewKafkaAlertPublisher(p, "commodity.anomalies")

	a := alert("wheat", models.AnomalyPriceDrop, time.Now().UTC())
	require.NoError(t, pub.PublishAlert(context.Background(), a))
	assert.Equal(t, "commodity.anomalies", p.topic)
	assert.Equal(t, []byte("wheat"), p.key)
	assert.Equal(t, a, p.value)

	require.NoError(t, pub.Close())
	assert.True(t, p.closed)
}
