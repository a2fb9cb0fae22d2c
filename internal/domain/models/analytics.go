package models

import "time"

// PricePoint is one daily observation fed to the analytics engine. Date is a calendar day.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// IndicatorPoint restates one input observation with its chart indicators. Nil means the
// indicator is still warming up at this position.
type IndicatorPoint struct {
	Date            time.Time `json:"date"`
	Value           float64   `json:"value"`
	SMA20           *float64  `json:"sma20"`
	SMA50           *float64  `json:"sma50"`
	EMA12           *float64  `json:"ema12"`
	EMA26           *float64  `json:"ema26"`
	BollingerUpper  *float64  `json:"bollingerUpper"`
	BollingerMiddle *float64  `json:"bollingerMiddle"`
	BollingerLower  *float64  `json:"bollingerLower"`
	RSI             *float64  `json:"rsi"`
	MACD            *float64  `json:"macd"`
	MACDSignal      *float64  `json:"macdSignal"`
	MACDHistogram   *float64  `json:"macdHistogram"`
}

type AnomalyType string

const (
	AnomalyPriceSpike     AnomalyType = "PRICE_SPIKE"
	AnomalyPriceDrop      AnomalyType = "PRICE_DROP"
	AnomalyHighVolatility AnomalyType = "HIGH_VOLATILITY"
	AnomalyHistoricalHigh AnomalyType = "HISTORICAL_HIGH"
	AnomalyHistoricalLow  AnomalyType = "HISTORICAL_LOW"
)

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// PriceRange is a closed (low, high) pair.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// DetectedAnomaly is one flag raised for an evaluated observation.
type DetectedAnomaly struct {
	Type             AnomalyType `json:"type"`
	Severity         Severity    `json:"severity"`
	Description      string      `json:"description"`
	Date             time.Time   `json:"date"`
	DetectedValue    float64     `json:"detectedValue"`
	ExpectedRange    PriceRange  `json:"expectedRange"`
	DeviationPercent float64     `json:"deviationPercent"`
	ZScore           float64     `json:"zScore"`
}

type Direction string

const (
	DirectionUp     Direction = "UP"
	DirectionDown   Direction = "DOWN"
	DirectionStable Direction = "STABLE"
)

// PricePrediction is a blended point forecast with uncertainty bounds.
type PricePrediction struct {
	CurrentPrice       float64    `json:"currentPrice"`
	PredictedPrice     float64    `json:"predictedPrice"`
	PriceChange        float64    `json:"priceChange"`
	PriceChangePercent float64    `json:"priceChangePercent"`
	Direction          Direction  `json:"direction"`
	Confidence         float64    `json:"confidence"`
	Horizon            int        `json:"horizon"`
	TargetDate         time.Time  `json:"targetDate"`
	Bounds             PriceRange `json:"bounds"`
	Factors            []string   `json:"factors"`
	Models             []string   `json:"models"`
}
