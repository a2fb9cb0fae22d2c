package analytics

import (
	"math/rand"
	"time"

	"AgroPulse/internal/domain/models"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func points(vs ...float64) []models.PricePoint {
	out := make([]models.PricePoint, len(vs))
	for i, v := range vs {
		out[i] = models.PricePoint{Date: day0.AddDate(0, 0, i), Value: v}
	}
	return out
}

func constant(n int, v float64) []models.PricePoint {
	vs := make([]float64, n)
	for i := range vs {
		vs[i] = v
	}
	return points(vs...)
}

func randomWalk(seed int64, n int) []models.PricePoint {
	r := rand.New(rand.NewSource(seed))
	vs := make([]float64, n)
	v := 100.0
	for i := range vs {
		v += r.NormFloat64() * 2
		if v < 1 {
			v = 1
		}
		vs[i] = v
	}
	return points(vs...)
}
