package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"AgroPulse/internal/domain/models"
)

var (
	// ErrMalformedInput marks programmer errors: unsorted dates, non-finite values, bad parameters.
	ErrMalformedInput = errors.New("malformed input")
	// ErrInsufficientData marks an expected shortage of history.
	ErrInsufficientData = errors.New("insufficient data")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

// Validate checks ordering and finiteness of a series.
func Validate(series []models.PricePoint) error {
	for i, p := range series {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return malformed("non-finite value at index %d", i)
		}
		if i > 0 && !p.Date.After(series[i-1].Date) {
			return malformed("dates not strictly ascending at index %d (%s after %s)",
				i, p.Date.Format(time.DateOnly), series[i-1].Date.Format(time.DateOnly))
		}
	}
	return nil
}

func checkPeriod(name string, period int) error {
	if period <= 0 {
		return malformed("%s must be positive, got %d", name, period)
	}
	return nil
}

func values(series []models.PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Value
	}
	return out
}

// meanStd returns the mean and population standard deviation of vs.
func meanStd(vs []float64) (mean, std float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	mean = sum / float64(len(vs))
	var sq float64
	for _, v := range vs {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(vs)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
