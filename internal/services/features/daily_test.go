package features

import (
	"strings"
	"testing"
	"time"

	"AgroPulse/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(day string, hour int, price string) models.PriceQuote {
	d, _ := time.Parse("2006-01-02", day)
	return models.PriceQuote{Commodity: "corn", Date: d.Add(time.Duration(hour) * time.Hour), Price: decimal.RequireFromString(price)}
}

func TestDailyAverages(t *testing.T) {
	got := DailyAverages("corn", []models.PriceQuote{
		quote("2024-03-02", 9, "0.1"),
		quote("2024-03-01", 10, "100"),
		quote("2024-03-02", 15, "0.2"),
		quote("2024-03-01", 16, "101"),
		quote("2024-03-02", 17, "0.3"),
	})
	require.Len(t, got, 2)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, 100.5, got[0].Price)
	assert.Equal(t, 2, got[0].Quotes)

	assert.Equal(t, 0.2, got[1].Price)
	assert.Equal(t, 3, got[1].Quotes)
	assert.Equal(t, "corn", got[1].Commodity)

	pts := ToPricePoints(got)
	require.Len(t, pts, 2)
	assert.Equal(t, got[1].Date, pts[1].Date)
	assert.Equal(t, 0.2, pts[1].Value)
}

func TestDailyAveragesEmpty(t *testing.T) {
	assert.Empty(t, DailyAverages("corn", nil))
}

func TestReadQuotesCSV(t *testing.T) {
	in := "date,price\n2024-01-02,210.5\n2024-01-02, 211.5\n2024-01-03,209\n"
	qs, err := ReadQuotesCSV(strings.NewReader(in), "soy")
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.True(t, qs[1].Price.Equal(decimal.RequireFromString("211.5")))

	days := DailyAverages("soy", qs)
	require.Len(t, days, 2)
	assert.Equal(t, 211.0, days[0].Price)
}

func TestReadQuotesCSVErrors(t *testing.T) {
	_, err := ReadQuotesCSV(strings.NewReader("2024-01-02,abc\n2024-01-03,x\n"), "soy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ReadQuotesCSV(strings.NewReader("02/01/2024,1\n"), "soy")
	assert.Error(t, err)

	_, err = ReadQuotesCSV(strings.NewReader("2024-01-02\n"), "soy")
	assert.Error(t, err)
}
