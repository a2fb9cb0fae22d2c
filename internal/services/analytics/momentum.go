package analytics

import "AgroPulse/internal/domain/models"

const (
	DefaultRSIPeriod  = 14
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
	rsiSaturated      = 100.0
)

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	MACD      Line `json:"macd"`
	Signal    Line `json:"signal"`
	Histogram Line `json:"histogram"`
}

// RSI computes the relative strength index with Wilder smoothing.
// The first value sits at index period because the input is differenced.
func RSI(series []models.PricePoint, period int) (Line, error) {
	if err := checkPeriod("period", period); err != nil {
		return Line{}, err
	}
	if err := Validate(series); err != nil {
		return Line{}, err
	}
	return rsi(values(series), period), nil
}

func rsi(vs []float64, period int) Line {
	out := absentLine(len(vs))
	if len(vs) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		g, l := gainLoss(vs[i] - vs[i-1])
		avgGain += g
		avgLoss += l
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out.Values[period] = rsiFrom(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < len(vs); i++ {
		g, l := gainLoss(vs[i] - vs[i-1])
		avgGain = (avgGain*(p-1) + g) / p
		avgLoss = (avgLoss*(p-1) + l) / p
		out.Values[i] = rsiFrom(avgGain, avgLoss)
	}
	out.Defined = Span{Start: period, End: len(vs)}
	return out
}

func gainLoss(diff float64) (gain, loss float64) {
	if diff > 0 {
		return diff, 0
	}
	return 0, -diff
}

// rsiFrom saturates to 100 when there is no average loss.
func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return rsiSaturated
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD computes EMA(fast)-EMA(slow), an EMA signal over the defined MACD region, and
// the histogram between them.
func MACD(series []models.PricePoint, fast, slow, signal int) (MACDResult, error) {
	if err := checkPeriod("fast", fast); err != nil {
		return MACDResult{}, err
	}
	if err := checkPeriod("slow", slow); err != nil {
		return MACDResult{}, err
	}
	if err := checkPeriod("signal", signal); err != nil {
		return MACDResult{}, err
	}
	if fast >= slow {
		return MACDResult{}, malformed("fast period %d must be shorter than slow period %d", fast, slow)
	}
	if err := Validate(series); err != nil {
		return MACDResult{}, err
	}
	return macd(values(series), fast, slow, signal), nil
}

func macd(vs []float64, fast, slow, signal int) MACDResult {
	n := len(vs)
	res := MACDResult{
		MACD:      absentLine(n),
		Signal:    absentLine(n),
		Histogram: absentLine(n),
	}

	fastL, slowL := ema(vs, fast), ema(vs, slow)
	span := fastL.Defined.Intersect(slowL.Defined)
	if span.Empty() {
		return res
	}
	for i := span.Start; i < span.End; i++ {
		res.MACD.Values[i] = fastL.Values[i] - slowL.Values[i]
	}
	res.MACD.Defined = span

	// Signal warm-up counts from the first defined MACD value.
	sig := ema(res.MACD.Values[span.Start:span.End], signal)
	if sig.Defined.Empty() {
		return res
	}
	res.Signal.Defined = sig.Defined.Shift(span.Start)
	copy(res.Signal.Values[res.Signal.Defined.Start:res.Signal.Defined.End],
		sig.Values[sig.Defined.Start:sig.Defined.End])

	hist := res.MACD.Defined.Intersect(res.Signal.Defined)
	for i := hist.Start; i < hist.End; i++ {
		res.Histogram.Values[i] = res.MACD.Values[i] - res.Signal.Values[i]
	}
	res.Histogram.Defined = hist
	return res
}
