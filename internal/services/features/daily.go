package features

import (
	"sort"
	"time"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/util"

	"github.com/shopspring/decimal"
)

// DailyAverages collapses quotes into one price per calendar day (UTC), averaging in decimal
// so a day's mean does not drift with quote order. Output is ascending by date.
func DailyAverages(commodity string, quotes []models.PriceQuote) []models.DailyPrice {
	type acc struct {
		sum decimal.Decimal
		n   int
	}
	byDay := make(map[time.Time]*acc, len(quotes))
	for _, q := range quotes {
		d := util.TruncateDay(q.Date)
		a, ok := byDay[d]
		if !ok {
			a = &acc{}
			byDay[d] = a
		}
		a.sum = a.sum.Add(q.Price)
		a.n++
	}

	out := make([]models.DailyPrice, 0, len(byDay))
	for d, a := range byDay {
		out = append(out, models.DailyPrice{
			Commodity: commodity,
			Date:      d,
			Price:     a.sum.Div(decimal.NewFromInt(int64(a.n))).InexactFloat64(),
			Quotes:    a.n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ToPricePoints converts a daily series into engine input.
func ToPricePoints(days []models.DailyPrice) []models.PricePoint {
	out := make([]models.PricePoint, len(days))
	for i, d := range days {
		out[i] = models.PricePoint{Date: d.Date, Value: d.Price}
	}
	return out
}
