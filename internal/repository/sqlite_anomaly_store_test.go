package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteAnomalyStore {
	t.Helper()
	s, err := NewSQLiteAnomalyStore(filepath.Join(t.TempDir(), "nested", "alerts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func alert(commodity string, typ models.AnomalyType, created time.Time) models.AnomalyAlert {
	return models.AnomalyAlert{
		ID:               uuid.New(),
		Commodity:        commodity,
		Date:             time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Type:             typ,
		Severity:         models.SeverityHigh,
		Description:      "Price spike",
		DetectedValue:    300,
		ExpectedLow:      90,
		ExpectedHigh:     110,
		DeviationPercent: 173.9,
		CreatedAt:        created,
	}
}

func TestSQLiteAnomalyStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.Date(2024, 6, 3, 7, 0, 0, 0, time.UTC)

	first := alert("wheat", models.AnomalyPriceSpike, base)
	second := alert("wheat", models.AnomalyHistoricalHigh, base.Add(time.Minute))
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))
	require.NoError(t, s.Save(ctx, alert("corn", models.AnomalyPriceDrop, base)))

	got, err := s.List(ctx, "wheat", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second, got[0])
	assert.Equal(t, first, got[1])

	got, err = s.List(ctx, "wheat", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.List(ctx, "barley", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLiteAnomalyStoreRecentlyFlagged(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	at := time.Date(2024, 6, 3, 7, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, alert("wheat", models.AnomalyPriceSpike, at)))

	ok, err := s.RecentlyFlagged(ctx, "wheat", models.AnomalyPriceSpike, at.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.RecentlyFlagged(ctx, "wheat", models.AnomalyPriceSpike, at.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.RecentlyFlagged(ctx, "wheat", models.AnomalyPriceDrop, at.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.RecentlyFlagged(ctx, "corn", models.AnomalyPriceSpike, at.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteAnomalyStoreInMemory(t *testing.T) {
	s, err := NewSQLiteAnomalyStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Save(context.Background(), alert("oats", models.AnomalyHighVolatility, time.UnixMilli(1_700_000_000_000).UTC())))
	got, err := s.List(context.Background(), "oats", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReverse(t *testing.T) {
	s := []int{1, 2, 3, 4}
	reverse(s)
	assert.Equal(t, []int{4, 3, 2, 1}, s)
}
