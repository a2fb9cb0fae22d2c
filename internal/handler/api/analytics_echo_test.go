package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	"AgroPulse/internal/service/cache"
	"AgroPulse/internal/services/analytics"
	"AgroPulse/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices struct {
	rows  map[string][]models.DailyPrice
	err   error
	calls int
}

func (s *stubPrices) StoreQuote(context.Context, models.PriceQuote) error    { return nil }
func (s *stubPrices) StoreQuotes(context.Context, []models.PriceQuote) error { return nil }
func (s *stubPrices) Commodities(context.Context) ([]string, error)          { return nil, nil }
func (s *stubPrices) Health(context.Context) error                           { return s.err }
func (s *stubPrices) DailySeries(_ context.Context, c string, days int) ([]models.DailyPrice, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	rows := s.rows[c]
	if len(rows) > days {
		rows = rows[len(rows)-days:]
	}
	return rows, nil
}

type stubAlerts struct{ alerts []models.AnomalyAlert }

func (s *stubAlerts) RecentlyFlagged(context.Context, string, models.AnomalyType, time.Time) (bool, error) {
	return false, nil
}
func (s *stubAlerts) Save(context.Context, models.AnomalyAlert) error { return nil }
func (s *stubAlerts) List(_ context.Context, c string, limit int) ([]models.AnomalyAlert, error) {
	out := []models.AnomalyAlert{}
	for _, a := range s.alerts {
		if a.Commodity == c && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}
func (s *stubAlerts) Close() error { return nil }

var _ domrepo.PriceStore = (*stubPrices)(nil)
var _ domrepo.AnomalyStore = (*stubAlerts)(nil)

func rising(commodity string, n int) []models.DailyPrice {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.DailyPrice, n)
	for i := range out {
		out[i] = models.DailyPrice{Commodity: commodity, Date: start.AddDate(0, 0, i), Price: 100 + float64(i), Quotes: 1}
	}
	return out
}

func newTestServer(t *testing.T, prices *stubPrices, alerts *stubAlerts, c cache.BytesCache) *echo.Echo {
	t.Helper()
	det, err := analytics.NewAnomalyDetector(analytics.AnomalyConfig{})
	require.NoError(t, err)
	fc, err := analytics.NewForecaster(analytics.ForecastConfig{})
	require.NoError(t, err)
	pa := usecase.NewPriceAnalytics(prices, alerts, analytics.ChartIndicators{}, det, fc, 400)
	agg := usecase.NewAnalysisAggregateUseCase(pa, time.Second)

	e := echo.New()
	NewAnalyticsEchoHandler(nil, pa, agg, c, time.Minute, prices).RegisterRoutes(e)
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestForecastEndpoint(t *testing.T) {
	prices := &stubPrices{rows: map[string][]models.DailyPrice{"wheat": rising("wheat", 20)}}
	e := newTestServer(t, prices, &stubAlerts{}, nil)

	rec := get(e, "/api/commodities/Wheat/forecast?horizon=7")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, http.StatusOK, env.Status)

	var p models.PricePrediction
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 7, p.Horizon)
	assert.Equal(t, models.DirectionUp, p.Direction)
	assert.InDelta(t, 126, p.PredictedPrice, 1e-9)
}

func TestIndicatorsEndpointKeepsLength(t *testing.T) {
	prices := &stubPrices{rows: map[string][]models.DailyPrice{"corn": rising("corn", 30)}}
	e := newTestServer(t, prices, &stubAlerts{}, nil)

	rec := get(e, "/api/commodities/corn/indicators?days=25")
	require.Equal(t, http.StatusOK, rec.Code)
	var pts []models.IndicatorPoint
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &pts))
	assert.Len(t, pts, 25)
	assert.Nil(t, pts[0].SMA20)
	assert.NotNil(t, pts[19].SMA20)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		prices *stubPrices
		target string
		status int
		code   string
	}{
		{
			name:   "insufficient data",
			prices: &stubPrices{rows: map[string][]models.DailyPrice{"oats": rising("oats", 3)}},
			target: "/api/commodities/oats/forecast",
			status: http.StatusUnprocessableEntity,
			code:   "ERR_INSUFFICIENT_DATA",
		},
		{
			name:   "series too long",
			prices: &stubPrices{},
			target: "/api/commodities/oats/indicators?days=401",
			status: http.StatusRequestEntityTooLarge,
			code:   "ERR_SERIES_TOO_LONG",
		},
		{
			name:   "store failure",
			prices: &stubPrices{err: errors.New("clickhouse down")},
			target: "/api/commodities/oats/anomalies",
			status: http.StatusInternalServerError,
			code:   "ERR_INTERNAL",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestServer(t, tc.prices, &stubAlerts{}, nil)
			rec := get(e, tc.target)
			require.Equal(t, tc.status, rec.Code)

			env := decode(t, rec)
			assert.Equal(t, tc.status, env.Status)
			if tc.status == http.StatusInternalServerError {
				return
			}
			var errs []struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &errs))
			require.Len(t, errs, 1)
			assert.Equal(t, tc.code, errs[0].Code)
		})
	}
}

func TestValidationErrors(t *testing.T) {
	e := newTestServer(t, &stubPrices{}, &stubAlerts{}, nil)
	for _, target := range []string{
		"/api/commodities/wheat/forecast?horizon=366",
		"/api/commodities/wheat/forecast?horizon=-1",
		"/api/commodities/wheat/indicators?days=20000",
		"/api/commodities/wheat/alerts?limit=501",
		"/api/commodities/wheat/indicators?days=abc",
		"/api/commodities/wh%21eat/forecast",
	} {
		rec := get(e, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestResponsesAreCached(t *testing.T) {
	prices := &stubPrices{rows: map[string][]models.DailyPrice{"wheat": rising("wheat", 40)}}
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := cache.NewTTLCache(time.Hour, func() time.Time { return now })
	e := newTestServer(t, prices, &stubAlerts{}, c)

	first := get(e, "/api/commodities/wheat/analysis?horizon=7")
	require.Equal(t, http.StatusOK, first.Code)
	second := get(e, "/api/commodities/wheat/analysis?horizon=7")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, prices.calls)

	get(e, "/api/commodities/wheat/analysis?horizon=8")
	assert.Equal(t, 2, prices.calls)

	now = now.Add(2 * time.Minute)
	get(e, "/api/commodities/wheat/analysis?horizon=7")
	assert.Equal(t, 3, prices.calls)
}

func TestAnalysisEndpoint(t *testing.T) {
	prices := &stubPrices{rows: map[string][]models.DailyPrice{"wheat": rising("wheat", 60)}}
	e := newTestServer(t, prices, &stubAlerts{}, nil)

	rec := get(e, "/api/commodities/wheat/analysis")
	require.Equal(t, http.StatusOK, rec.Code)
	var res models.CommodityAnalysis
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &res))
	assert.Equal(t, "wheat", res.Commodity)
	assert.Equal(t, 60, res.Points)
	require.NotNil(t, res.Forecast)
	assert.Equal(t, 7, res.Forecast.Horizon)
	assert.Empty(t, res.Errors)
}

func TestAlertsEndpoint(t *testing.T) {
	alerts := &stubAlerts{alerts: []models.AnomalyAlert{
		{Commodity: "wheat", Type: models.AnomalyPriceSpike},
		{Commodity: "wheat", Type: models.AnomalyHistoricalHigh},
		{Commodity: "corn", Type: models.AnomalyPriceDrop},
	}}
	e := newTestServer(t, &stubPrices{}, alerts, nil)

	rec := get(e, "/api/commodities/wheat/alerts?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.AnomalyAlert
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, models.AnomalyPriceSpike, got[0].Type)
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, &stubPrices{}, &stubAlerts{}, nil)
	assert.Equal(t, http.StatusOK, get(e, "/healthz").Code)

	e = newTestServer(t, &stubPrices{err: errors.New("down")}, &stubAlerts{}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(e, "/healthz").Code)
}
