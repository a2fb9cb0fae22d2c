package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	"AgroPulse/pkg/util"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteAnomalyStore persists raised alerts in a local SQLite file.
type SQLiteAnomalyStore struct {
	db *sql.DB
}

var _ domrepo.AnomalyStore = (*SQLiteAnomalyStore)(nil)

// NewSQLiteAnomalyStore opens (or creates) the database at path and runs migrations.
// ":memory:" gives a private in-memory database.
func NewSQLiteAnomalyStore(path string) (*SQLiteAnomalyStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection serialises writers and keeps :memory: a single database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteAnomalyStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteAnomalyStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS anomaly_alerts (
			id                TEXT PRIMARY KEY,
			commodity         TEXT NOT NULL,
			day               TEXT NOT NULL,
			type              TEXT NOT NULL,
			severity          TEXT NOT NULL,
			description       TEXT,
			detected_value    REAL,
			expected_low      REAL,
			expected_high     REAL,
			deviation_percent REAL,
			created_at        INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_dedup ON anomaly_alerts(commodity, type, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecentlyFlagged reports whether an alert of typ was raised for commodity at or after since.
func (s *SQLiteAnomalyStore) RecentlyFlagged(ctx context.Context, commodity string, typ models.AnomalyType, since time.Time) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM anomaly_alerts WHERE commodity = ? AND type = ? AND created_at >= ? LIMIT 1`,
		commodity, string(typ), since.UnixMilli(),
	).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("recently flagged: %w", err)
	}
	return true, nil
}

func (s *SQLiteAnomalyStore) Save(ctx context.Context, a models.AnomalyAlert) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO anomaly_alerts (id, commodity, day, type, severity, description, detected_value,
			expected_low, expected_high, deviation_percent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.Commodity, a.Date.UTC().Format(util.DayLayout), string(a.Type), string(a.Severity),
		a.Description, a.DetectedValue, a.ExpectedLow, a.ExpectedHigh, a.DeviationPercent, a.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save alert: %w", err)
	}
	return nil
}

// List returns the newest alerts for commodity first.
func (s *SQLiteAnomalyStore) List(ctx context.Context, commodity string, limit int) ([]models.AnomalyAlert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, commodity, day, type, severity, description, detected_value, expected_low, expected_high,
			deviation_percent, created_at
		FROM anomaly_alerts WHERE commodity = ? ORDER BY created_at DESC, id LIMIT ?`,
		commodity, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	out := []models.AnomalyAlert{}
	for rows.Next() {
		var (
			a         models.AnomalyAlert
			id, day   string
			typ, sev  string
			createdAt int64
		)
		if err := rows.Scan(&id, &a.Commodity, &day, &typ, &sev, &a.Description, &a.DetectedValue,
			&a.ExpectedLow, &a.ExpectedHigh, &a.DeviationPercent, &createdAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("alert id %q: %w", id, err)
		}
		if a.Date, err = util.ParseDay(day); err != nil {
			return nil, fmt.Errorf("alert %s: %w", id, err)
		}
		a.Type = models.AnomalyType(typ)
		a.Severity = models.Severity(sev)
		a.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteAnomalyStore) Close() error {
	return s.db.Close()
}
