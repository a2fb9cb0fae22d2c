package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceQuote is a single reported price for a commodity on a calendar day.
type PriceQuote struct {
	Commodity string
	Date      time.Time
	Price     decimal.Decimal
	Source    string
	Unit      string
}

// DailyPrice is the average of all quotes a commodity received on one day.
type DailyPrice struct {
	Commodity string    `json:"commodity"`
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	Quotes    int       `json:"quotes"`
}

// AnomalyAlert is a persisted DetectedAnomaly.
type AnomalyAlert struct {
	ID               uuid.UUID   `json:"id"`
	Commodity        string      `json:"commodity"`
	Date             time.Time   `json:"date"`
	Type             AnomalyType `json:"type"`
	Severity         Severity    `json:"severity"`
	Description      string      `json:"description"`
	DetectedValue    float64     `json:"detectedValue"`
	ExpectedLow      float64     `json:"expectedLow"`
	ExpectedHigh     float64     `json:"expectedHigh"`
	DeviationPercent float64     `json:"deviationPercent"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// NewAnomalyAlert stamps a detected anomaly with a fresh ID.
func NewAnomalyAlert(commodity string, a DetectedAnomaly, now time.Time) AnomalyAlert {
	return AnomalyAlert{
		ID:               uuid.New(),
		Commodity:        commodity,
		Date:             a.Date,
		Type:             a.Type,
		Severity:         a.Severity,
		Description:      a.Description,
		DetectedValue:    a.DetectedValue,
		ExpectedLow:      a.ExpectedRange.Low,
		ExpectedHigh:     a.ExpectedRange.High,
		DeviationPercent: a.DeviationPercent,
		CreatedAt:        now.UTC(),
	}
}
