package analytics

import (
	"errors"
	"math"
	"testing"

	"AgroPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestSimpleMovingAverageGolden(t *testing.T) {
	got, err := SimpleMovingAverage(points(100, 102, 104, 103, 105), 3)
	require.NoError(t, err)

	assert.Equal(t, 5, got.Len())
	assert.Equal(t, Span{2, 5}, got.Defined)
	for i, want := range map[int]float64{2: 102, 3: 103, 4: 104} {
		v, ok := got.At(i)
		require.True(t, ok, "index %d", i)
		assert.InDelta(t, want, v, tol, "index %d", i)
	}
	_, ok := got.At(1)
	assert.False(t, ok)
}

func TestExponentialMovingAverageGolden(t *testing.T) {
	got, err := ExponentialMovingAverage(points(100, 102, 104, 103, 105), 3)
	require.NoError(t, err)

	assert.Equal(t, Span{2, 5}, got.Defined)
	want := []float64{0, 0, 102, 102.5, 103.75}
	for i := 2; i < 5; i++ {
		assert.InDelta(t, want[i], got.Values[i], tol, "index %d", i)
	}
}

func TestMovingAveragesShortInputAllAbsent(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		for _, p := range []int{5, 10} {
			s := randomWalk(int64(n), n)

			sm, err := SimpleMovingAverage(s, p)
			require.NoError(t, err)
			assert.Equal(t, n, sm.Len())
			assert.True(t, sm.Defined.Empty())

			em, err := ExponentialMovingAverage(s, p)
			require.NoError(t, err)
			assert.Equal(t, n, em.Len())
			assert.True(t, em.Defined.Empty())
		}
	}
}

func TestEMASeedEqualsSMA(t *testing.T) {
	s := randomWalk(7, 80)
	for _, p := range []int{1, 5, 12, 26, 50} {
		sm, err := SimpleMovingAverage(s, p)
		require.NoError(t, err)
		em, err := ExponentialMovingAverage(s, p)
		require.NoError(t, err)

		a, ok1 := sm.At(p - 1)
		b, ok2 := em.At(p - 1)
		require.True(t, ok1 && ok2)
		assert.InDelta(t, a, b, tol, "period %d", p)
	}
}

func TestMovingAverageMalformedInput(t *testing.T) {
	unsorted := points(1, 2, 3)
	unsorted[1].Date, unsorted[2].Date = unsorted[2].Date, unsorted[1].Date

	duplicate := points(1, 2, 3)
	duplicate[2].Date = duplicate[1].Date

	tests := []struct {
		name   string
		series []models.PricePoint
		period int
	}{
		{"unsorted dates", unsorted, 2},
		{"duplicate dates", duplicate, 2},
		{"nan value", points(1, math.NaN(), 3), 2},
		{"inf value", points(1, math.Inf(1), 3), 2},
		{"zero period", points(1, 2, 3), 0},
		{"negative period", points(1, 2, 3), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SimpleMovingAverage(tt.series, tt.period)
			assert.True(t, errors.Is(err, ErrMalformedInput), "sma: %v", err)
			_, err = ExponentialMovingAverage(tt.series, tt.period)
			assert.True(t, errors.Is(err, ErrMalformedInput), "ema: %v", err)
		})
	}
}

func TestMovingAverageDoesNotMutateInput(t *testing.T) {
	s := randomWalk(3, 30)
	before := append([]models.PricePoint(nil), s...)
	_, err := ExponentialMovingAverage(s, 10)
	require.NoError(t, err)
	assert.Equal(t, before, s)
}
