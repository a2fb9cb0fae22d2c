package analytics

import (
	"fmt"
	"math"

	"AgroPulse/internal/domain/models"
	domsvc "AgroPulse/internal/domain/service"
)

const (
	ModelLinearTrend = "linear_trend"
	ModelEMAAnchor   = "ema_anchor"

	maxTrendWeight   = 0.7
	minTrendWeight   = 0.3
	trendWeightDecay = 0.01
	longHorizonDays  = 30
)

// ForecastConfig holds forecaster parameters. Zero fields take the defaults.
// VolatilityCV is the σ/μ above which volatility is reported as elevated.
type ForecastConfig struct {
	MinObservations   int
	TrendWindow       int
	SmoothingPeriod   int
	BoundsMultiplier  float64
	StableBandPercent float64
	ConfidenceFloor   float64
	ConfidenceCeiling float64
	MaxHorizonDays    int
	VolatilityCV      float64
}

func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		MinObservations:   7,
		TrendWindow:       60,
		SmoothingPeriod:   20,
		BoundsMultiplier:  1.28,
		StableBandPercent: 0.5,
		ConfidenceFloor:   0.05,
		ConfidenceCeiling: 0.95,
		MaxHorizonDays:    365,
		VolatilityCV:      0.08,
	}
}

func (c ForecastConfig) withDefaults() ForecastConfig {
	d := DefaultForecastConfig()
	if c.MinObservations == 0 {
		c.MinObservations = d.MinObservations
	}
	if c.TrendWindow == 0 {
		c.TrendWindow = d.TrendWindow
	}
	if c.SmoothingPeriod == 0 {
		c.SmoothingPeriod = d.SmoothingPeriod
	}
	if c.BoundsMultiplier == 0 {
		c.BoundsMultiplier = d.BoundsMultiplier
	}
	if c.StableBandPercent == 0 {
		c.StableBandPercent = d.StableBandPercent
	}
	if c.ConfidenceFloor == 0 {
		c.ConfidenceFloor = d.ConfidenceFloor
	}
	if c.ConfidenceCeiling == 0 {
		c.ConfidenceCeiling = d.ConfidenceCeiling
	}
	if c.MaxHorizonDays == 0 {
		c.MaxHorizonDays = d.MaxHorizonDays
	}
	if c.VolatilityCV == 0 {
		c.VolatilityCV = d.VolatilityCV
	}
	return c
}

func (c ForecastConfig) validate() error {
	if c.MinObservations < 2 {
		return malformed("forecast min observations must be at least 2, got %d", c.MinObservations)
	}
	if c.TrendWindow < c.MinObservations {
		return malformed("forecast trend window %d is shorter than min observations %d", c.TrendWindow, c.MinObservations)
	}
	if c.SmoothingPeriod <= 0 || c.MaxHorizonDays <= 0 {
		return malformed("forecast smoothing period and max horizon must be positive")
	}
	if c.BoundsMultiplier <= 0 || c.StableBandPercent < 0 {
		return malformed("forecast bounds multiplier must be positive and stable band non-negative")
	}
	if !(c.ConfidenceFloor >= 0 && c.ConfidenceFloor < c.ConfidenceCeiling && c.ConfidenceCeiling <= 1) {
		return malformed("forecast confidence bounds must satisfy 0 <= floor < ceiling <= 1")
	}
	return nil
}

// Forecaster blends a least-squares trend with an EMA anchor into a point forecast.
//
// With h the horizon in days, m the window length and p = min(SmoothingPeriod, m):
//
//	trend     = intercept + slope·(m-1+h)
//	smoothing = EMA_p(last) + slope·((p-1)/2 + h)
//	w         = clamp(0.7 - 0.01·(h-1), 0.3, 0.7)
//	predicted = w·trend + (1-w)·smoothing
//
// (p-1)/2 is the steady-state lag of an EMA on a linear series, so both estimators agree
// on a perfect trend and diverge when the recent level departs from the fitted line.
type Forecaster struct {
	cfg ForecastConfig
}

var _ domsvc.PriceForecaster = (*Forecaster)(nil)

func NewForecaster(cfg ForecastConfig) (*Forecaster, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Forecaster{cfg: cfg}, nil
}

// Predict forecasts the value horizonDays calendar days after the last observation.
// Fewer than MinObservations points fail with ErrInsufficientData.
func (f *Forecaster) Predict(series []models.PricePoint, horizonDays int) (models.PricePrediction, error) {
	if horizonDays <= 0 || horizonDays > f.cfg.MaxHorizonDays {
		return models.PricePrediction{}, malformed("horizon must be within 1..%d days, got %d", f.cfg.MaxHorizonDays, horizonDays)
	}
	if err := Validate(series); err != nil {
		return models.PricePrediction{}, err
	}
	n := len(series)
	if n < f.cfg.MinObservations {
		return models.PricePrediction{}, fmt.Errorf("%w: forecasting needs at least %d observations, got %d",
			ErrInsufficientData, f.cfg.MinObservations, n)
	}

	vs := values(series)
	m := min(f.cfg.TrendWindow, n)
	window := vs[n-m:]
	h := float64(horizonDays)

	slope, intercept := FitTrend(window)
	trend := intercept + slope*(float64(m-1)+h)

	p := min(f.cfg.SmoothingPeriod, m)
	anchor, _ := ema(window, p).Last()
	lag := float64(p-1) / 2
	smoothing := anchor + slope*(lag+h)

	w := TrendWeight(horizonDays)
	predicted := w*trend + (1-w)*smoothing

	current := vs[n-1]
	change := predicted - current
	var changePct float64
	if current != 0 {
		changePct = change / math.Abs(current) * 100
	}

	mu, sigma := meanStd(window)
	var cv float64
	if mu != 0 {
		cv = sigma / math.Abs(mu)
	}
	sqrtH := math.Sqrt(h)
	width := f.cfg.BoundsMultiplier * sigma * sqrtH

	return models.PricePrediction{
		CurrentPrice:       current,
		PredictedPrice:     predicted,
		PriceChange:        change,
		PriceChangePercent: changePct,
		Direction:          f.direction(changePct),
		Confidence:         clamp(1-cv*sqrtH, f.cfg.ConfidenceFloor, f.cfg.ConfidenceCeiling),
		Horizon:            horizonDays,
		TargetDate:         series[n-1].Date.AddDate(0, 0, horizonDays),
		Bounds:             models.PriceRange{Low: predicted - width, High: predicted + width},
		Factors:            f.factors(m, p, slope, mu, cv, current, anchor, horizonDays),
		Models:             []string{ModelLinearTrend, ModelEMAAnchor},
	}, nil
}

// TrendWeight is the share of the linear trend in the blend for a horizon in days.
func TrendWeight(horizonDays int) float64 {
	return clamp(maxTrendWeight-trendWeightDecay*float64(horizonDays-1), minTrendWeight, maxTrendWeight)
}

// FitTrend fits value = intercept + slope·index by ordinary least squares.
// Fewer than two values give a flat line through the mean.
func FitTrend(vs []float64) (slope, intercept float64) {
	n := len(vs)
	if n == 0 {
		return 0, 0
	}
	mean, _ := meanStd(vs)
	if n < 2 {
		return 0, mean
	}
	xm := float64(n-1) / 2
	var sxx, sxy float64
	for i, v := range vs {
		dx := float64(i) - xm
		sxx += dx * dx
		sxy += dx * (v - mean)
	}
	slope = sxy / sxx
	return slope, mean - slope*xm
}

func (f *Forecaster) direction(changePct float64) models.Direction {
	switch {
	case changePct > f.cfg.StableBandPercent:
		return models.DirectionUp
	case changePct < -f.cfg.StableBandPercent:
		return models.DirectionDown
	default:
		return models.DirectionStable
	}
}

func (f *Forecaster) factors(window, period int, slope, mu, cv, current, anchor float64, horizonDays int) []string {
	out := make([]string, 0, 4)

	var slopePct float64
	if mu != 0 {
		slopePct = slope / math.Abs(mu) * 100
	}
	switch {
	case slopePct >= 0.05:
		out = append(out, fmt.Sprintf("upward %d-day trend (%+.2f/day)", window, slope))
	case slopePct <= -0.05:
		out = append(out, fmt.Sprintf("downward %d-day trend (%+.2f/day)", window, slope))
	default:
		out = append(out, fmt.Sprintf("flat %d-day trend", window))
	}

	if anchor != 0 {
		gap := (current - anchor) / math.Abs(anchor) * 100
		switch {
		case gap > 0:
			out = append(out, fmt.Sprintf("price %.1f%% above %d-day EMA anchor", gap, period))
		case gap < 0:
			out = append(out, fmt.Sprintf("price %.1f%% below %d-day EMA anchor", -gap, period))
		default:
			out = append(out, fmt.Sprintf("price at %d-day EMA anchor", period))
		}
	}

	if cv > f.cfg.VolatilityCV {
		out = append(out, "elevated volatility widening bounds")
	} else {
		out = append(out, "low volatility")
	}

	if horizonDays > longHorizonDays {
		out = append(out, "long horizon lowers confidence")
	}
	return out
}
