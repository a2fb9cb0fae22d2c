package usecase

import (
	"context"
	"errors"
	"fmt"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	domsvc "AgroPulse/internal/domain/service"
	"AgroPulse/internal/services/features"
)

// ErrSeriesTooLong is returned when a series exceeds the configured maximum length.
var ErrSeriesTooLong = errors.New("series too long")

// PriceAnalytics loads daily series from the price store and runs the analytics engine on them.
type PriceAnalytics struct {
	prices     domrepo.PriceStore
	alerts     domrepo.AnomalyStore
	indicators domsvc.IndicatorCalculator
	detector   domsvc.AnomalyDetector
	forecaster domsvc.PriceForecaster
	maxSeries  int
}

// NewPriceAnalytics wires the engine to its stores. prices and alerts may be nil for offline use.
func NewPriceAnalytics(
	prices domrepo.PriceStore,
	alerts domrepo.AnomalyStore,
	indicators domsvc.IndicatorCalculator,
	detector domsvc.AnomalyDetector,
	forecaster domsvc.PriceForecaster,
	maxSeries int,
) *PriceAnalytics {
	if maxSeries <= 0 {
		maxSeries = 10000
	}
	return &PriceAnalytics{
		prices:     prices,
		alerts:     alerts,
		indicators: indicators,
		detector:   detector,
		forecaster: forecaster,
		maxSeries:  maxSeries,
	}
}

// Series returns up to days daily points for commodity, oldest first.
func (uc *PriceAnalytics) Series(ctx context.Context, commodity string, days int) ([]models.PricePoint, error) {
	if days > uc.maxSeries {
		return nil, fmt.Errorf("%w: %d days requested, limit is %d", ErrSeriesTooLong, days, uc.maxSeries)
	}
	if uc.prices == nil {
		return nil, fmt.Errorf("price store not configured")
	}
	rows, err := uc.prices.DailySeries(ctx, commodity, days)
	if err != nil {
		return nil, fmt.Errorf("load %s series: %w", commodity, err)
	}
	points := features.ToPricePoints(rows)
	if err := uc.checkLength(points); err != nil {
		return nil, err
	}
	return points, nil
}

func (uc *PriceAnalytics) checkLength(points []models.PricePoint) error {
	if len(points) > uc.maxSeries {
		return fmt.Errorf("%w: %d points, limit is %d", ErrSeriesTooLong, len(points), uc.maxSeries)
	}
	return nil
}

func (uc *PriceAnalytics) Indicators(ctx context.Context, commodity string, days int) ([]models.IndicatorPoint, error) {
	series, err := uc.Series(ctx, commodity, days)
	if err != nil {
		return nil, err
	}
	return uc.indicators.Indicators(series)
}

// Anomalies evaluates the last history observations of the series. history 1 checks only the
// latest day.
func (uc *PriceAnalytics) Anomalies(ctx context.Context, commodity string, days, history int) ([]models.DetectedAnomaly, error) {
	series, err := uc.Series(ctx, commodity, days)
	if err != nil {
		return nil, err
	}
	return uc.detect(series, history)
}

func (uc *PriceAnalytics) detect(series []models.PricePoint, history int) ([]models.DetectedAnomaly, error) {
	if history <= 1 {
		return uc.detector.Detect(series)
	}
	return uc.detector.DetectRange(series, max(len(series)-history, 0))
}

func (uc *PriceAnalytics) Forecast(ctx context.Context, commodity string, days, horizon int) (models.PricePrediction, error) {
	series, err := uc.Series(ctx, commodity, days)
	if err != nil {
		return models.PricePrediction{}, err
	}
	return uc.forecaster.Predict(series, horizon)
}

// AnomalyHistory lists persisted alerts for commodity, newest first.
func (uc *PriceAnalytics) AnomalyHistory(ctx context.Context, commodity string, limit int) ([]models.AnomalyAlert, error) {
	if uc.alerts == nil {
		return []models.AnomalyAlert{}, nil
	}
	return uc.alerts.List(ctx, commodity, limit)
}
