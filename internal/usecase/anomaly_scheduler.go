package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AgroPulse/internal/domain/models"
	applogger "AgroPulse/pkg/logger"

	"github.com/robfig/cron/v3"
)

type commodityScanner interface {
	Scan(ctx context.Context, commodity string) ([]models.AnomalyAlert, error)
}

type commodityLister interface {
	Commodities(ctx context.Context) ([]string, error)
}

// AnomalyScanScheduler runs the anomaly scan on a cron schedule (with seconds field).
type AnomalyScanScheduler struct {
	cron        *cron.Cron
	scanner     commodityScanner
	lister      commodityLister
	commodities []string
	timeout     time.Duration
	l           *applogger.Logger

	mu  sync.Mutex
	ctx context.Context
}

// NewAnomalyScanScheduler registers the scan under spec. With no configured commodities every
// commodity known to lister is scanned.
func NewAnomalyScanScheduler(scanner commodityScanner, lister commodityLister, spec string, commodities []string, timeout time.Duration) (*AnomalyScanScheduler, error) {
	s := &AnomalyScanScheduler{
		cron:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		scanner:     scanner,
		lister:      lister,
		commodities: commodities,
		timeout:     timeout,
		ctx:         context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("register anomaly scan %q: %w", spec, err)
	}
	return s, nil
}

// SetLogger injects a structured logger.
func (s *AnomalyScanScheduler) SetLogger(l *applogger.Logger) { s.l = l }

// Start begins firing scheduled scans. ctx bounds every scheduled run.
func (s *AnomalyScanScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	s.cron.Start()
	if s.l != nil {
		s.l.Info("anomaly scheduler started", applogger.Int("entries", len(s.cron.Entries())))
	}
}

// Stop halts the schedule and waits for a running scan or ctx.
func (s *AnomalyScanScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AnomalyScanScheduler) tick() {
	s.mu.Lock()
	base := s.ctx
	s.mu.Unlock()

	ctx := base
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(base, s.timeout)
		defer cancel()
	}
	if _, err := s.RunNow(ctx); err != nil && s.l != nil {
		s.l.Error("anomaly scan failed", applogger.Error(err))
	}
}

// RunNow scans every target commodity once. A failing commodity is logged and skipped; the
// returned map holds the alerts raised per commodity.
func (s *AnomalyScanScheduler) RunNow(ctx context.Context) (map[string][]models.AnomalyAlert, error) {
	targets := s.commodities
	if len(targets) == 0 {
		list, err := s.lister.Commodities(ctx)
		if err != nil {
			return nil, fmt.Errorf("list commodities: %w", err)
		}
		targets = list
	}

	start := time.Now()
	out := make(map[string][]models.AnomalyAlert, len(targets))
	failed := 0
	for _, c := range targets {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		alerts, err := s.scanner.Scan(ctx, c)
		if err != nil {
			failed++
			if s.l != nil {
				s.l.Warn("anomaly scan skipped commodity", applogger.String("commodity", c), applogger.Error(err))
			}
			continue
		}
		out[c] = alerts
	}
	if s.l != nil {
		s.l.Info("anomaly scan done",
			applogger.Int("commodities", len(targets)),
			applogger.Int("failed", failed),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}
