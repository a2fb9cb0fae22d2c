package analytics

import (
	"AgroPulse/internal/domain/models"
	domsvc "AgroPulse/internal/domain/service"
)

// ChartIndicators exposes BuildIndicatorSeries as a domain IndicatorCalculator.
type ChartIndicators struct{}

var _ domsvc.IndicatorCalculator = ChartIndicators{}

func (ChartIndicators) Indicators(series []models.PricePoint) ([]models.IndicatorPoint, error) {
	return BuildIndicatorSeries(series)
}
