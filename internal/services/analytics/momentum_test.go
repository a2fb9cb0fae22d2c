package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSIGolden(t *testing.T) {
	got, err := RSI(points(1, 2, 3, 2, 3), 3)
	require.NoError(t, err)

	assert.Equal(t, Span{3, 5}, got.Defined)
	// first: avgGain 2/3, avgLoss 1/3 -> RS 2
	assert.InDelta(t, 100-100/3.0, got.Values[3], tol)
	// Wilder: avgGain 7/9, avgLoss 2/9 -> RS 3.5
	assert.InDelta(t, 100-100/4.5, got.Values[4], tol)
}

func TestRSISaturatesWithoutLosses(t *testing.T) {
	got, err := RSI(points(1, 2, 3, 4, 5, 6, 7, 8), 3)
	require.NoError(t, err)
	for i := got.Defined.Start; i < got.Defined.End; i++ {
		assert.Equal(t, 100.0, got.Values[i])
	}

	flat, err := RSI(constant(10, 5), 3)
	require.NoError(t, err)
	v, ok := flat.Last()
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestRSIBounded(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		got, err := RSI(randomWalk(seed, 200), DefaultRSIPeriod)
		require.NoError(t, err)
		require.Equal(t, Span{DefaultRSIPeriod, 200}, got.Defined)
		for i := got.Defined.Start; i < got.Defined.End; i++ {
			assert.GreaterOrEqual(t, got.Values[i], 0.0)
			assert.LessOrEqual(t, got.Values[i], 100.0)
		}
	}
}

func TestRSIShortInput(t *testing.T) {
	// period+1 prices are needed for period differences
	got, err := RSI(points(1, 2, 3), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
	assert.True(t, got.Defined.Empty())
}

func TestMACDGolden(t *testing.T) {
	got, err := MACD(points(10, 11, 13, 12, 15, 18, 17, 20), 2, 4, 3)
	require.NoError(t, err)

	assert.Equal(t, Span{3, 8}, got.MACD.Defined)
	// signal warm-up counts from the first MACD value: 3 + (3-1)
	assert.Equal(t, Span{5, 8}, got.Signal.Defined)
	assert.Equal(t, Span{5, 8}, got.Histogram.Defined)

	wantMACD := map[int]float64{3: 0.5555555555555554, 4: 1.1185185185185187, 5: 1.7328395061728372, 6: 1.1269465020576117, 7: 1.505248834019202}
	for i, want := range wantMACD {
		assert.InDelta(t, want, got.MACD.Values[i], tol, "macd %d", i)
	}
	wantSignal := map[int]float64{5: 1.1356378600823038, 6: 1.1312921810699579, 7: 1.31827050754458}
	for i, want := range wantSignal {
		assert.InDelta(t, want, got.Signal.Values[i], tol, "signal %d", i)
	}
	assert.InDelta(t, 0.5972016460905334, got.Histogram.Values[5], tol)
	assert.InDelta(t, -0.004345679012346171, got.Histogram.Values[6], tol)
}

func TestMACDDefaultAlignment(t *testing.T) {
	s := randomWalk(5, 60)
	got, err := MACD(s, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	require.NoError(t, err)

	assert.Equal(t, 60, got.MACD.Len())
	assert.Equal(t, Span{25, 60}, got.MACD.Defined)
	assert.Equal(t, Span{33, 60}, got.Signal.Defined)
	for i := got.Histogram.Defined.Start; i < got.Histogram.Defined.End; i++ {
		assert.InDelta(t, got.MACD.Values[i]-got.Signal.Values[i], got.Histogram.Values[i], 1e-12)
	}
}

func TestMACDShortInput(t *testing.T) {
	// MACD defined but too short for the signal line
	got, err := MACD(randomWalk(2, 30), DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	require.NoError(t, err)
	assert.Equal(t, Span{25, 30}, got.MACD.Defined)
	assert.True(t, got.Signal.Defined.Empty())
	assert.True(t, got.Histogram.Defined.Empty())

	none, err := MACD(randomWalk(2, 10), DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	require.NoError(t, err)
	assert.Equal(t, 10, none.MACD.Len())
	assert.True(t, none.MACD.Defined.Empty())
}

func TestMACDInvalidPeriods(t *testing.T) {
	s := randomWalk(1, 40)
	for _, p := range [][3]int{{0, 26, 9}, {12, 0, 9}, {12, 26, 0}, {26, 12, 9}, {12, 12, 9}} {
		_, err := MACD(s, p[0], p[1], p[2])
		assert.True(t, errors.Is(err, ErrMalformedInput), "periods %v", p)
	}
}
