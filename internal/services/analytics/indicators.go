package analytics

import "AgroPulse/internal/domain/models"

const (
	chartShortSMA = 20
	chartLongSMA  = 50
)

// BuildIndicatorSeries returns one chart point per observation with every indicator the
// dashboard plots. The output never shortens the input.
func BuildIndicatorSeries(series []models.PricePoint) ([]models.IndicatorPoint, error) {
	if err := Validate(series); err != nil {
		return nil, err
	}
	vs := values(series)

	sma20 := sma(vs, chartShortSMA)
	sma50 := sma(vs, chartLongSMA)
	ema12 := ema(vs, DefaultMACDFast)
	ema26 := ema(vs, DefaultMACDSlow)
	bands := bollinger(vs, DefaultBollingerPeriod, DefaultBollingerMultiplier)
	strength := rsi(vs, DefaultRSIPeriod)
	m := macd(vs, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)

	out := make([]models.IndicatorPoint, len(series))
	for i, p := range series {
		out[i] = models.IndicatorPoint{
			Date:            p.Date,
			Value:           p.Value,
			SMA20:           sma20.Ptr(i),
			SMA50:           sma50.Ptr(i),
			EMA12:           ema12.Ptr(i),
			EMA26:           ema26.Ptr(i),
			BollingerUpper:  bands.Upper.Ptr(i),
			BollingerMiddle: bands.Middle.Ptr(i),
			BollingerLower:  bands.Lower.Ptr(i),
			RSI:             strength.Ptr(i),
			MACD:            m.MACD.Ptr(i),
			MACDSignal:      m.Signal.Ptr(i),
			MACDHistogram:   m.Histogram.Ptr(i),
		}
	}
	return out, nil
}
