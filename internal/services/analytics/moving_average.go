package analytics

import "AgroPulse/internal/domain/models"

// SimpleMovingAverage returns the trailing mean over period observations.
// Short input yields a fully absent line.
func SimpleMovingAverage(series []models.PricePoint, period int) (Line, error) {
	if err := checkPeriod("period", period); err != nil {
		return Line{}, err
	}
	if err := Validate(series); err != nil {
		return Line{}, err
	}
	return sma(values(series), period), nil
}

// ExponentialMovingAverage returns an EMA seeded with the SMA of the first period values.
func ExponentialMovingAverage(series []models.PricePoint, period int) (Line, error) {
	if err := checkPeriod("period", period); err != nil {
		return Line{}, err
	}
	if err := Validate(series); err != nil {
		return Line{}, err
	}
	return ema(values(series), period), nil
}

// sma sums every window directly so no running-sum error accumulates.
func sma(vs []float64, period int) Line {
	out := absentLine(len(vs))
	if len(vs) < period {
		return out
	}
	for i := period - 1; i < len(vs); i++ {
		var sum float64
		for _, v := range vs[i-period+1 : i+1] {
			sum += v
		}
		out.Values[i] = sum / float64(period)
	}
	out.Defined = Span{Start: period - 1, End: len(vs)}
	return out
}

func ema(vs []float64, period int) Line {
	out := absentLine(len(vs))
	if len(vs) < period {
		return out
	}
	var seed float64
	for _, v := range vs[:period] {
		seed += v
	}
	prev := seed / float64(period)
	out.Values[period-1] = prev

	k := 2 / float64(period+1)
	for i := period; i < len(vs); i++ {
		prev = (vs[i]-prev)*k + prev
		out.Values[i] = prev
	}
	out.Defined = Span{Start: period - 1, End: len(vs)}
	return out
}
