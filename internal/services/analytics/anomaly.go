package analytics

import (
	"fmt"
	"math"

	"AgroPulse/internal/domain/models"
	domsvc "AgroPulse/internal/domain/service"
)

// AnomalyConfig holds detector thresholds. Zero fields take the defaults.
type AnomalyConfig struct {
	MinObservations int
	BaselineWindow  int
	SpikeZ          float64
	MediumZ         float64
	HighZ           float64
	VolatilityCV    float64
}

// DefaultAnomalyConfig returns the stock thresholds: 14 points minimum, 30-point baseline,
// 2/3/4 sigma severity tiers and an 8% coefficient-of-variation volatility ceiling.
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		MinObservations: 14,
		BaselineWindow:  30,
		SpikeZ:          2,
		MediumZ:         3,
		HighZ:           4,
		VolatilityCV:    0.08,
	}
}

func (c AnomalyConfig) withDefaults() AnomalyConfig {
	d := DefaultAnomalyConfig()
	if c.MinObservations == 0 {
		c.MinObservations = d.MinObservations
	}
	if c.BaselineWindow == 0 {
		c.BaselineWindow = d.BaselineWindow
	}
	if c.SpikeZ == 0 {
		c.SpikeZ = d.SpikeZ
	}
	if c.MediumZ == 0 {
		c.MediumZ = d.MediumZ
	}
	if c.HighZ == 0 {
		c.HighZ = d.HighZ
	}
	if c.VolatilityCV == 0 {
		c.VolatilityCV = d.VolatilityCV
	}
	return c
}

func (c AnomalyConfig) validate() error {
	if c.MinObservations < 2 {
		return malformed("anomaly min observations must be at least 2, got %d", c.MinObservations)
	}
	if c.BaselineWindow < 2 {
		return malformed("anomaly baseline window must be at least 2, got %d", c.BaselineWindow)
	}
	if !(c.SpikeZ > 0 && c.SpikeZ < c.MediumZ && c.MediumZ < c.HighZ) {
		return malformed("anomaly z thresholds must satisfy 0 < spike < medium < high, got %v/%v/%v",
			c.SpikeZ, c.MediumZ, c.HighZ)
	}
	if c.VolatilityCV <= 0 {
		return malformed("anomaly volatility threshold must be positive, got %v", c.VolatilityCV)
	}
	return nil
}

// AnomalyDetector flags spikes, drops, noisy windows and new historical extremes.
// It holds only immutable thresholds and is safe for concurrent use.
type AnomalyDetector struct {
	cfg AnomalyConfig
}

var _ domsvc.AnomalyDetector = (*AnomalyDetector)(nil)

func NewAnomalyDetector(cfg AnomalyConfig) (*AnomalyDetector, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &AnomalyDetector{cfg: cfg}, nil
}

// Config returns the effective thresholds.
func (d *AnomalyDetector) Config() AnomalyConfig { return d.cfg }

// Detect evaluates the most recent observation of a daily series.
func (d *AnomalyDetector) Detect(series []models.PricePoint) ([]models.DetectedAnomaly, error) {
	if len(series) == 0 {
		return []models.DetectedAnomaly{}, nil
	}
	return d.DetectAt(series, len(series)-1)
}

// DetectAt evaluates series[idx] using series[:idx+1] as the available history.
func (d *AnomalyDetector) DetectAt(series []models.PricePoint, idx int) ([]models.DetectedAnomaly, error) {
	if idx < 0 || idx >= len(series) {
		return nil, malformed("evaluation index %d outside series of length %d", idx, len(series))
	}
	if err := Validate(series); err != nil {
		return nil, err
	}
	vs := values(series[:idx+1])
	prevLo, prevHi := extremes(vs[:idx])
	return d.evaluate(series[:idx+1], vs, prevLo, prevHi), nil
}

// DetectRange evaluates every observation from index from to the end, in order.
func (d *AnomalyDetector) DetectRange(series []models.PricePoint, from int) ([]models.DetectedAnomaly, error) {
	if err := Validate(series); err != nil {
		return nil, err
	}
	vs := values(series)
	start := max(from, 0)
	prevLo, prevHi := extremes(vs[:min(start, len(vs))])
	out := []models.DetectedAnomaly{}
	for i := start; i < len(series); i++ {
		out = append(out, d.evaluate(series[:i+1], vs[:i+1], prevLo, prevHi)...)
		prevLo = math.Min(prevLo, vs[i])
		prevHi = math.Max(prevHi, vs[i])
	}
	return out, nil
}

// evaluate scores the last element of hist. prevLo and prevHi are the extremes of every
// earlier observation.
func (d *AnomalyDetector) evaluate(hist []models.PricePoint, vs []float64, prevLo, prevHi float64) []models.DetectedAnomaly {
	out := []models.DetectedAnomaly{}
	n := len(vs)
	if n < d.cfg.MinObservations {
		return out
	}

	window := vs[max(0, n-d.cfg.BaselineWindow):]
	mu, sigma := meanStd(window)
	v := vs[n-1]

	var deviation, z float64
	if mu != 0 {
		deviation = (v - mu) / mu * 100
	}
	if sigma > 0 {
		z = (v - mu) / sigma
	}

	base := models.DetectedAnomaly{
		Date:             hist[n-1].Date,
		DetectedValue:    v,
		ExpectedRange:    models.PriceRange{Low: mu - 2*sigma, High: mu + 2*sigma},
		DeviationPercent: deviation,
		ZScore:           z,
	}

	if sigma > 0 {
		cv := 0.0
		if mu != 0 {
			cv = sigma / math.Abs(mu)
		}
		switch {
		case cv > d.cfg.VolatilityCV && math.Abs(z) < d.cfg.SpikeZ:
			a := base
			a.Type = models.AnomalyHighVolatility
			a.Severity = d.volatilitySeverity(cv / d.cfg.VolatilityCV)
			a.Description = fmt.Sprintf("High volatility: %.1f%% coefficient of variation over the last %d days exceeds %.1f%%",
				cv*100, len(window), d.cfg.VolatilityCV*100)
			out = append(out, a)
		case z >= d.cfg.SpikeZ:
			a := base
			a.Type = models.AnomalyPriceSpike
			a.Severity = d.zSeverity(z)
			a.Description = fmt.Sprintf("Price spike: %.2f is %.1f standard deviations above the %d-day mean of %.2f (%+.1f%%)",
				v, z, len(window), mu, deviation)
			out = append(out, a)
		case z <= -d.cfg.SpikeZ:
			a := base
			a.Type = models.AnomalyPriceDrop
			a.Severity = d.zSeverity(-z)
			a.Description = fmt.Sprintf("Price drop: %.2f is %.1f standard deviations below the %d-day mean of %.2f (%+.1f%%)",
				v, -z, len(window), mu, deviation)
			out = append(out, a)
		}
	}

	lo, hi := math.Min(prevLo, v), math.Max(prevHi, v)
	if hi > lo {
		if v >= hi {
			a := base
			a.Type = models.AnomalyHistoricalHigh
			a.Severity = models.SeverityMedium
			a.Description = fmt.Sprintf("Historical high: %.2f reaches the top of %d days of history (previous high %.2f)", v, n, prevHi)
			out = append(out, a)
		}
		if v <= lo {
			a := base
			a.Type = models.AnomalyHistoricalLow
			a.Severity = models.SeverityMedium
			a.Description = fmt.Sprintf("Historical low: %.2f reaches the bottom of %d days of history (previous low %.2f)", v, n, prevLo)
			out = append(out, a)
		}
	}
	return out
}

// extremes of an empty slice are (+Inf, -Inf).
func extremes(vs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range vs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func (d *AnomalyDetector) zSeverity(absZ float64) models.Severity {
	switch {
	case absZ >= d.cfg.HighZ:
		return models.SeverityHigh
	case absZ >= d.cfg.MediumZ:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// volatilitySeverity tiers cv/threshold with the same proportions as the z tiers.
func (d *AnomalyDetector) volatilitySeverity(ratio float64) models.Severity {
	switch {
	case ratio >= d.cfg.HighZ/d.cfg.SpikeZ:
		return models.SeverityHigh
	case ratio >= d.cfg.MediumZ/d.cfg.SpikeZ:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}
