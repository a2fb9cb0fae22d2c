package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	pkgkafka "AgroPulse/pkg/kafka"
	"AgroPulse/pkg/util"

	"github.com/shopspring/decimal"
)

// ErrInvalidQuote marks a quote message that can never be stored.
var ErrInvalidQuote = errors.New("invalid quote")

// QuoteIngestHandler consumes quote messages from Kafka and writes them to the price store.
type QuoteIngestHandler struct {
	topic   string
	store   domrepo.PriceStore
	metrics domrepo.Metrics
}

func NewQuoteIngestHandler(topic string, store domrepo.PriceStore, metrics domrepo.Metrics) *QuoteIngestHandler {
	return &QuoteIngestHandler{topic: topic, store: store, metrics: metrics}
}

func (h *QuoteIngestHandler) Topic() string { return h.topic }

// incoming message schema: {commodity, date:"YYYY-MM-DD", price:"123.45", source, unit}
type quoteMessage struct {
	Commodity string          `json:"commodity"`
	Date      string          `json:"date"`
	Price     decimal.Decimal `json:"price"`
	Source    string          `json:"source"`
	Unit      string          `json:"unit"`
}

func (h *QuoteIngestHandler) Handle(ctx context.Context, b []byte) error {
	var m quoteMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("quote_decode")
		return fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	q, err := m.quote()
	if err != nil {
		h.metrics.RecordError("quote_invalid")
		return err
	}

	start := time.Now()
	err = h.store.StoreQuote(ctx, q)
	h.metrics.RecordLatency("store_quote_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("quote_store")
		return err
	}
	h.metrics.RecordQuoteIngested(q.Commodity, q.Source)
	h.metrics.RecordLastPrice(q.Commodity, q.Price.InexactFloat64())
	return nil
}

func (m quoteMessage) quote() (models.PriceQuote, error) {
	commodity := strings.ToLower(strings.TrimSpace(m.Commodity))
	if commodity == "" {
		return models.PriceQuote{}, fmt.Errorf("%w: commodity required", ErrInvalidQuote)
	}
	if !m.Price.IsPositive() {
		return models.PriceQuote{}, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidQuote, m.Price)
	}
	day, err := util.ParseDay(m.Date)
	if err != nil {
		return models.PriceQuote{}, fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	return models.PriceQuote{
		Commodity: commodity,
		Date:      day,
		Price:     m.Price,
		Source:    m.Source,
		Unit:      m.Unit,
	}, nil
}

var _ pkgkafka.MessageHandler = (*QuoteIngestHandler)(nil)
