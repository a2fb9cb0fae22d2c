package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"AgroPulse/internal/domain/models"
	"AgroPulse/pkg/util"

	"github.com/shopspring/decimal"
)

// ReadQuotesCSV reads "date,price" rows. A first row whose price column is not a number is
// treated as a header. Extra columns are ignored.
func ReadQuotesCSV(r io.Reader, commodity string) ([]models.PriceQuote, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []models.PriceQuote
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("csv line %d: want date,price got %d columns", line, len(rec))
		}
		price, perr := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if perr != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("csv line %d: price %q: %w", line, rec[1], perr)
		}
		date, err := util.ParseDay(rec[0])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, models.PriceQuote{Commodity: commodity, Date: date, Price: price, Source: "csv"})
	}
	return out, nil
}
