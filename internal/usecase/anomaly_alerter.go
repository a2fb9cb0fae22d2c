package usecase

import (
	"context"
	"fmt"
	"time"

	"AgroPulse/internal/domain/models"
	domrepo "AgroPulse/internal/domain/repository"
	svcmetrics "AgroPulse/internal/service/metrics"
	applogger "AgroPulse/pkg/logger"
)

// AnomalyAlerter turns detections on the latest day into persisted, deduplicated alerts.
type AnomalyAlerter struct {
	analytics   *PriceAnalytics
	store       domrepo.AnomalyStore
	publisher   domrepo.AlertPublisher
	historyDays int
	dedup       time.Duration
	now         func() time.Time
	l           *applogger.Logger
}

// NewAnomalyAlerter builds an alerter. publisher may be nil when Kafka is disabled.
func NewAnomalyAlerter(analytics *PriceAnalytics, store domrepo.AnomalyStore, publisher domrepo.AlertPublisher, historyDays int, dedup time.Duration) *AnomalyAlerter {
	if dedup <= 0 {
		dedup = 24 * time.Hour
	}
	return &AnomalyAlerter{
		analytics:   analytics,
		store:       store,
		publisher:   publisher,
		historyDays: historyDays,
		dedup:       dedup,
		now:         time.Now,
	}
}

// SetLogger injects a structured logger.
func (a *AnomalyAlerter) SetLogger(l *applogger.Logger) { a.l = l }

// Scan detects anomalies on the latest observation of commodity and returns the alerts it raised.
// Types already flagged for the commodity within the dedup window are skipped.
func (a *AnomalyAlerter) Scan(ctx context.Context, commodity string) ([]models.AnomalyAlert, error) {
	series, err := a.analytics.Series(ctx, commodity, a.historyDays)
	if err != nil {
		return nil, err
	}
	detected, err := a.analytics.detector.Detect(series)
	if err != nil {
		return nil, fmt.Errorf("detect %s: %w", commodity, err)
	}

	now := a.now()
	since := now.Add(-a.dedup)
	raised := []models.AnomalyAlert{}
	for _, d := range detected {
		flagged, err := a.store.RecentlyFlagged(ctx, commodity, d.Type, since)
		if err != nil {
			return raised, err
		}
		if flagged {
			continue
		}
		alert := models.NewAnomalyAlert(commodity, d, now)
		if err := a.store.Save(ctx, alert); err != nil {
			return raised, err
		}
		raised = append(raised, alert)
		svcmetrics.AnomaliesRaised.WithLabelValues(commodity, string(d.Type), string(d.Severity)).Inc()

		if a.publisher != nil {
			if err := a.publisher.PublishAlert(ctx, alert); err != nil && a.l != nil {
				a.l.Error("publish alert failed",
					applogger.String("commodity", commodity),
					applogger.String("type", string(alert.Type)),
					applogger.Error(err),
				)
			}
		}
	}
	return raised, nil
}
