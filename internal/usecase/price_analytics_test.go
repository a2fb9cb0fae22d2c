package usecase

import (
	"context"
	"errors"
	"testing"

	"AgroPulse/internal/domain/models"
	"AgroPulse/internal/services/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceAnalyticsSeriesTooLong(t *testing.T) {
	store := &fakePriceStore{daily: map[string][]models.DailyPrice{"wheat": dailyRows("wheat", flat(30, 100)...)}}
	uc := newAnalytics(store, nil, 20)

	_, err := uc.Series(context.Background(), "wheat", 21)
	assert.ErrorIs(t, err, ErrSeriesTooLong)

	points, err := uc.Series(context.Background(), "wheat", 20)
	require.NoError(t, err)
	assert.Len(t, points, 20)
	assert.Equal(t, day0.AddDate(0, 0, 10), points[0].Date)
}

func TestPriceAnalyticsStoreError(t *testing.T) {
	uc := newAnalytics(&fakePriceStore{err: errStore}, nil, 0)
	_, err := uc.Indicators(context.Background(), "wheat", 10)
	assert.ErrorIs(t, err, errStore)
}

func TestPriceAnalyticsAnomaliesHistory(t *testing.T) {
	values := append(flat(20, 100), 10, 100, 100)
	store := &fakePriceStore{daily: map[string][]models.DailyPrice{"corn": dailyRows("corn", values...)}}
	uc := newAnalytics(store, nil, 0)

	latest, err := uc.Anomalies(context.Background(), "corn", 365, 1)
	require.NoError(t, err)
	for _, a := range latest {
		assert.NotEqual(t, models.AnomalyPriceDrop, a.Type)
	}

	hist, err := uc.Anomalies(context.Background(), "corn", 365, 3)
	require.NoError(t, err)
	require.NotEmpty(t, hist)
	assert.Equal(t, models.AnomalyPriceDrop, hist[0].Type)
	assert.Equal(t, day0.AddDate(0, 0, 20), hist[0].Date)
}

func TestPriceAnalyticsForecastInsufficient(t *testing.T) {
	store := &fakePriceStore{daily: map[string][]models.DailyPrice{"oats": dailyRows("oats", 1, 2, 3)}}
	uc := newAnalytics(store, nil, 0)
	_, err := uc.Forecast(context.Background(), "oats", 365, 7)
	assert.True(t, errors.Is(err, analytics.ErrInsufficientData))
}

func TestPriceAnalyticsAnomalyHistoryWithoutStore(t *testing.T) {
	uc := newAnalytics(&fakePriceStore{}, nil, 0)
	got, err := uc.AnomalyHistory(context.Background(), "wheat", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
