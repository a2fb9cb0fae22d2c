package service

import "AgroPulse/internal/domain/models"

// IndicatorCalculator renders a daily series into chart indicators.
type IndicatorCalculator interface {
	Indicators(series []models.PricePoint) ([]models.IndicatorPoint, error)
}

// AnomalyDetector flags unusual observations in a daily series.
type AnomalyDetector interface {
	Detect(series []models.PricePoint) ([]models.DetectedAnomaly, error)
	DetectRange(series []models.PricePoint, from int) ([]models.DetectedAnomaly, error)
}

// PriceForecaster predicts a price horizonDays ahead of the last observation.
type PriceForecaster interface {
	Predict(series []models.PricePoint, horizonDays int) (models.PricePrediction, error)
}
