package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AgroPulse/internal/usecase"
	"AgroPulse/pkg/config"
	xhttp "AgroPulse/pkg/http"
	pkgkafka "AgroPulse/pkg/kafka"
	applogger "AgroPulse/pkg/logger"
)

const purgeInterval = time.Minute

type purger interface {
	RunPurger(ctx context.Context, interval time.Duration)
}

type closer struct {
	name string
	fn   func() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	quotes     pkgkafka.MessageHandler
	scheduler  *usecase.AnomalyScanScheduler
	purger     purger
	closers    []closer
}

// New creates a new App. consumer, quotes and scheduler may be nil when disabled in config.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	quotes pkgkafka.MessageHandler,
	scheduler *usecase.AnomalyScanScheduler,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		consumer:   consumer,
		quotes:     quotes,
		scheduler:  scheduler,
	}
}

// SetCachePurger runs p in the background while the app is up.
func (a *App) SetCachePurger(p purger) { a.purger = p }

// AddCloser registers a resource closed on shutdown, in reverse registration order.
func (a *App) AddCloser(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		a.shutdown()
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	a.shutdown()
	return nil
}

// Start launches every background component and returns.
func (a *App) Start(ctx context.Context) error {
	if a.consumer != nil && a.quotes != nil {
		a.consumer.RegisterHandler(a.quotes)
		if err := a.consumer.Start(ctx); err != nil {
			a.log.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
		a.log.Info("quote ingestion started", applogger.String("topic", a.quotes.Topic()))
	}

	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	if a.purger != nil {
		go a.purger.RunPurger(ctx, purgeInterval)
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown() {
	a.log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			a.log.Warn("scheduler stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.log.Warn("close error", applogger.String("resource", c.name), applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
}
