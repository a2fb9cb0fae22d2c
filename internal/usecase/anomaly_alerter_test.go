package usecase

import (
	"context"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dropSeries() []models.DailyPrice {
	return dailyRows("wheat", append(flat(20, 100), 10)...)
}

func TestAnomalyAlerterScanDeduplicates(t *testing.T) {
	prices := &fakePriceStore{daily: map[string][]models.DailyPrice{"wheat": dropSeries()}}
	alerts := &fakeAnomalyStore{}
	pub := &fakePublisher{}
	a := NewAnomalyAlerter(newAnalytics(prices, alerts, 0), alerts, pub, 365, 24*time.Hour)
	now := time.Date(2024, 2, 1, 6, 15, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	raised, err := a.Scan(context.Background(), "wheat")
	require.NoError(t, err)
	require.Len(t, raised, 2)
	assert.Equal(t, models.AnomalyPriceDrop, raised[0].Type)
	assert.Equal(t, models.AnomalyHistoricalLow, raised[1].Type)
	assert.Equal(t, day0.AddDate(0, 0, 20), raised[0].Date)
	assert.Equal(t, now, raised[0].CreatedAt)
	assert.Len(t, alerts.saved, 2)
	assert.Len(t, pub.published, 2)

	now = now.Add(12 * time.Hour)
	raised, err = a.Scan(context.Background(), "wheat")
	require.NoError(t, err)
	assert.Empty(t, raised)

	now = now.Add(13 * time.Hour)
	raised, err = a.Scan(context.Background(), "wheat")
	require.NoError(t, err)
	assert.Len(t, raised, 2)
	assert.Len(t, alerts.saved, 4)
}

func TestAnomalyAlerterPublishFailureKeepsAlert(t *testing.T) {
	prices := &fakePriceStore{daily: map[string][]models.DailyPrice{"wheat": dropSeries()}}
	alerts := &fakeAnomalyStore{}
	a := NewAnomalyAlerter(newAnalytics(prices, alerts, 0), alerts, &fakePublisher{err: errStore}, 365, 0)

	raised, err := a.Scan(context.Background(), "wheat")
	require.NoError(t, err)
	assert.Len(t, raised, 2)
	assert.Len(t, alerts.saved, 2)
}

func TestAnomalyAlerterQuietSeries(t *testing.T) {
	prices := &fakePriceStore{daily: map[string][]models.DailyPrice{"corn": dailyRows("corn", flat(30, 50)...)}}
	alerts := &fakeAnomalyStore{}
	a := NewAnomalyAlerter(newAnalytics(prices, alerts, 0), alerts, nil, 365, 0)

	raised, err := a.Scan(context.Background(), "corn")
	require.NoError(t, err)
	assert.Empty(t, raised)
	assert.Empty(t, alerts.saved)
}
