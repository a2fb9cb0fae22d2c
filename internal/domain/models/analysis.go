package models

import "time"

// CommodityAnalysis is the combined view of one commodity's daily series.
// Note: per-part failures are reported in Errors, the other parts are still filled.
type CommodityAnalysis struct {
	Commodity  string            `json:"commodity"`
	Points     int               `json:"points"`
	Timestamp  time.Time         `json:"timestamp"`
	Indicators []IndicatorPoint  `json:"indicators,omitempty"`
	Anomalies  []DetectedAnomaly `json:"anomalies"`
	Forecast   *PricePrediction  `json:"forecast,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}
