package usecase

import (
	"context"
	"sync"
	"time"

	"AgroPulse/internal/domain/models"
)

// AnalysisAggregateUseCase combines indicators, anomalies and forecast for one commodity.
type AnalysisAggregateUseCase struct {
	analytics *PriceAnalytics
	timeout   time.Duration
	now       func() time.Time
}

func NewAnalysisAggregateUseCase(analytics *PriceAnalytics, timeout time.Duration) *AnalysisAggregateUseCase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AnalysisAggregateUseCase{analytics: analytics, timeout: timeout, now: time.Now}
}

// Analyze loads the series once and fans the engine out over it. A failed load fails the call;
// engine failures are reported per part in Errors.
func (uc *AnalysisAggregateUseCase) Analyze(ctx context.Context, commodity string, days, horizon int) (*models.CommodityAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	series, err := uc.analytics.Series(ctx, commodity, days)
	if err != nil {
		return nil, err
	}
	return uc.AnalyzeSeries(ctx, commodity, series, horizon)
}

// AnalyzeSeries runs the engine over an already loaded series.
func (uc *AnalysisAggregateUseCase) AnalyzeSeries(ctx context.Context, commodity string, series []models.PricePoint, horizon int) (*models.CommodityAnalysis, error) {
	if err := uc.analytics.checkLength(series); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &models.CommodityAnalysis{
		Commodity: commodity,
		Points:    len(series),
		Timestamp: uc.now().UTC(),
		Anomalies: []models.DetectedAnomaly{},
		Errors:    map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	parts := []string{"indicators", "anomalies", "forecast"}
	ch := make(chan item, len(parts))
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.analytics.indicators.Indicators(series)
		ch <- item{"indicators", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.analytics.detector.Detect(series)
		ch <- item{"anomalies", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.analytics.forecaster.Predict(series, horizon)
		ch <- item{"forecast", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	done := map[string]bool{}
collect:
	for {
		select {
		case it, ok := <-ch:
			if !ok {
				break collect
			}
			done[it.name] = true
			if it.err != nil {
				res.Errors[it.name] = it.err.Error()
				continue
			}
			switch it.name {
			case "indicators":
				res.Indicators = it.val.([]models.IndicatorPoint)
			case "anomalies":
				res.Anomalies = it.val.([]models.DetectedAnomaly)
			case "forecast":
				v := it.val.(models.PricePrediction)
				res.Forecast = &v
			}
		case <-ctx.Done():
			for _, p := range parts {
				if !done[p] {
					res.Errors[p] = ctx.Err().Error()
				}
			}
			break collect
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}
