package models

// Query and path parameters of the analytics endpoints. Omitted query values take the
// `default` tag before validation.

type IndicatorsRequest struct {
	Commodity string `param:"commodity" json:"commodity" validate:"required,commodity"`
	Days      int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=10000"`
}

type AnomaliesRequest struct {
	Commodity string `param:"commodity" json:"commodity" validate:"required,commodity"`
	Days      int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=10000"`
	// History evaluates the last History days instead of only the latest one.
	History int `query:"history" json:"history" default:"1" validate:"gte=1,lte=10000"`
}

type ForecastRequest struct {
	Commodity string `param:"commodity" json:"commodity" validate:"required,commodity"`
	Days      int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=10000"`
	Horizon   int    `query:"horizon" json:"horizon" default:"7" validate:"gte=1,lte=365"`
}

type AnalysisRequest struct {
	Commodity string `param:"commodity" json:"commodity" validate:"required,commodity"`
	Days      int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=10000"`
	Horizon   int    `query:"horizon" json:"horizon" default:"7" validate:"gte=1,lte=365"`
}

type AlertsRequest struct {
	Commodity string `param:"commodity" json:"commodity" validate:"required,commodity"`
	Limit     int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}
