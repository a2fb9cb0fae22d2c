package repository

import (
	"context"
	"time"

	"AgroPulse/internal/domain/models"
)

// PriceStore persists raw quotes and serves them back as a daily series.
type PriceStore interface {
	StoreQuote(ctx context.Context, q models.PriceQuote) error
	StoreQuotes(ctx context.Context, qs []models.PriceQuote) error
	// DailySeries returns at most the last days calendar days that have quotes, one row per day
	// holding the average quote, in ascending date order.
	DailySeries(ctx context.Context, commodity string, days int) ([]models.DailyPrice, error)
	Commodities(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
}

// AnomalyStore keeps raised alerts for deduplication and history.
type AnomalyStore interface {
	RecentlyFlagged(ctx context.Context, commodity string, typ models.AnomalyType, since time.Time) (bool, error)
	Save(ctx context.Context, alert models.AnomalyAlert) error
	List(ctx context.Context, commodity string, limit int) ([]models.AnomalyAlert, error)
	Close() error
}

// AlertPublisher fans new alerts out to downstream consumers.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert models.AnomalyAlert) error
	Close() error
}

type Metrics interface {
	RecordQuoteIngested(commodity, source string)
	RecordError(kind string)
	RecordLastPrice(commodity string, price float64)
	RecordLatency(op string, seconds float64)
}
