package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	"AgroPulse/internal/services/analytics"
)

var errStore = errors.New("store down")

type fakePriceStore struct {
	mu      sync.Mutex
	daily   map[string][]models.DailyPrice
	quotes  []models.PriceQuote
	err     error
	gotDays int
}

func (f *fakePriceStore) StoreQuote(ctx context.Context, q models.PriceQuote) error {
	return f.StoreQuotes(ctx, []models.PriceQuote{q})
}

func (f *fakePriceStore) StoreQuotes(_ context.Context, qs []models.PriceQuote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.quotes = append(f.quotes, qs...)
	return nil
}

func (f *fakePriceStore) DailySeries(_ context.Context, commodity string, days int) ([]models.DailyPrice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotDays = days
	if f.err != nil {
		return nil, f.err
	}
	rows := f.daily[commodity]
	if len(rows) > days {
		rows = rows[len(rows)-days:]
	}
	return rows, nil
}

func (f *fakePriceStore) Commodities(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, len(f.daily))
	for c := range f.daily {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakePriceStore) Health(context.Context) error { return f.err }

type fakeAnomalyStore struct {
	mu    sync.Mutex
	saved []models.AnomalyAlert
}

func (f *fakeAnomalyStore) RecentlyFlagged(_ context.Context, commodity string, typ models.AnomalyType, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.saved {
		if a.Commodity == commodity && a.Type == typ && !a.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAnomalyStore) Save(_ context.Context, a models.AnomalyAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, a)
	return nil
}

func (f *fakeAnomalyStore) List(_ context.Context, commodity string, limit int) ([]models.AnomalyAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.AnomalyAlert{}
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].Commodity == commodity {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

func (f *fakeAnomalyStore) Close() error { return nil }

type fakePublisher struct {
	published []models.AnomalyAlert
	err       error
}

func (f *fakePublisher) PublishAlert(_ context.Context, a models.AnomalyAlert) error {
	f.published = append(f.published, a)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu       sync.Mutex
	ingested map[string]int
	errors   map[string]int
	last     map[string]float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{ingested: map[string]int{}, errors: map[string]int{}, last: map[string]float64{}}
}

func (m *fakeMetrics) RecordQuoteIngested(commodity, _ string) {
	m.mu.Lock()
	m.ingested[commodity]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLastPrice(commodity string, price float64) {
	m.mu.Lock()
	m.last[commodity] = price
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// dailyRows builds one row per consecutive day starting at day0.
func dailyRows(commodity string, values ...float64) []models.DailyPrice {
	out := make([]models.DailyPrice, len(values))
	for i, v := range values {
		out[i] = models.DailyPrice{Commodity: commodity, Date: day0.AddDate(0, 0, i), Price: v, Quotes: 1}
	}
	return out
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func newAnalytics(prices *fakePriceStore, alerts *fakeAnomalyStore, maxSeries int) *PriceAnalytics {
	det, err := analytics.NewAnomalyDetector(analytics.AnomalyConfig{})
	if err != nil {
		panic(err)
	}
	fc, err := analytics.NewForecaster(analytics.ForecastConfig{})
	if err != nil {
		panic(err)
	}
	var ps domrepo.PriceStore
	if prices != nil {
		ps = prices
	}
	var as domrepo.AnomalyStore
	if alerts != nil {
		as = alerts
	}
	return NewPriceAnalytics(ps, as, analytics.ChartIndicators{}, det, fc, maxSeries)
}
