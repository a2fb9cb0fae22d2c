package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	pkgch "AgroPulse/pkg/clickhouse"
	applogger "AgroPulse/pkg/logger"
)

const priceTable = "price_quotes"

// PriceSchema returns the idempotent DDL for the quote table in database db.
func PriceSchema(db string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
            commodity LowCardinality(String),
            day Date,
            price Decimal(18, 6),
            source LowCardinality(String),
            unit LowCardinality(String),
            ingested_at DateTime64(3) DEFAULT now64(3)
        ) ENGINE = MergeTree
        PARTITION BY toYYYYMM(day)
        ORDER BY (commodity, day)`, db, priceTable),
	}
}

// CHPriceStore implements PriceStore backed by ClickHouse. Daily averaging happens in the query.
type CHPriceStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.PriceStore = (*CHPriceStore)(nil)

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{db: ch.DB(), table: ch.Database() + "." + priceTable}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPriceStore) StoreQuote(ctx context.Context, q models.PriceQuote) error {
	return s.StoreQuotes(ctx, []models.PriceQuote{q})
}

// StoreQuotes inserts quotes as one ClickHouse batch.
func (s *CHPriceStore) StoreQuotes(ctx context.Context, qs []models.PriceQuote) error {
	if len(qs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (commodity, day, price, source, unit)", s.table))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, q := range qs {
		if _, err := stmt.ExecContext(ctx, q.Commodity, q.Date, q.Price, q.Source, q.Unit); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append quote %s: %w", q.Commodity, err)
		}
	}
	if err := tx.Commit(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_quotes error", applogger.Int("rows", len(qs)), applogger.Error(err))
		}
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (s *CHPriceStore) DailySeries(ctx context.Context, commodity string, days int) ([]models.DailyPrice, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT day, toFloat64(avg(price)) AS price, count() AS quotes
        FROM %s
        WHERE commodity = ?
        GROUP BY day
        ORDER BY day DESC
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, commodity, days)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse daily_series query error",
				applogger.String("commodity", commodity),
				applogger.Int("days", days),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("daily series: %w", err)
	}
	defer rows.Close()

	out := make([]models.DailyPrice, 0, days)
	for rows.Next() {
		var (
			d     models.DailyPrice
			count uint64
		)
		if err := rows.Scan(&d.Date, &d.Price, &count); err != nil {
			return nil, fmt.Errorf("scan daily price: %w", err)
		}
		d.Commodity = commodity
		d.Date = d.Date.UTC()
		d.Quotes = int(count)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	reverse(out)

	if s.l != nil {
		s.l.Debug("clickhouse daily_series ok",
			applogger.String("commodity", commodity),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHPriceStore) Commodities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT DISTINCT commodity FROM %s ORDER BY commodity", s.table))
	if err != nil {
		return nil, fmt.Errorf("commodities: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan commodity: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *CHPriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
