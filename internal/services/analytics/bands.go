package analytics

import (
	"math"

	"AgroPulse/internal/domain/models"
)

const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
)

// Bands holds Bollinger upper, middle and lower lines sharing one defined span.
type Bands struct {
	Upper  Line `json:"upper"`
	Middle Line `json:"middle"`
	Lower  Line `json:"lower"`
}

// BollingerBands computes SMA ± multiplier·σ where σ is the population deviation of the window.
func BollingerBands(series []models.PricePoint, period int, stdDevMultiplier float64) (Bands, error) {
	if err := checkPeriod("period", period); err != nil {
		return Bands{}, err
	}
	if stdDevMultiplier <= 0 || math.IsNaN(stdDevMultiplier) || math.IsInf(stdDevMultiplier, 0) {
		return Bands{}, malformed("stdDevMultiplier must be positive, got %v", stdDevMultiplier)
	}
	if err := Validate(series); err != nil {
		return Bands{}, err
	}
	return bollinger(values(series), period, stdDevMultiplier), nil
}

func bollinger(vs []float64, period int, mult float64) Bands {
	mid := sma(vs, period)
	b := Bands{
		Upper:  absentLine(len(vs)),
		Middle: mid,
		Lower:  absentLine(len(vs)),
	}
	if mid.Defined.Empty() {
		return b
	}
	for i := mid.Defined.Start; i < mid.Defined.End; i++ {
		m := mid.Values[i]
		var sq float64
		for _, v := range vs[i-period+1 : i+1] {
			d := v - m
			sq += d * d
		}
		w := mult * math.Sqrt(sq/float64(period))
		b.Upper.Values[i] = m + w
		b.Lower.Values[i] = m - w
	}
	b.Upper.Defined = mid.Defined
	b.Lower.Defined = mid.Defined
	return b
}
