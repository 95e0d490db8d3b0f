// Package scheduler keeps the served catalog snapshot fresh by reloading it
// from its source on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sony/gobreaker/v2"

	"templeadmin/internal/catalog"
)

const (
	defaultLoadTimeout = 30 * time.Second

	// breakerFailures consecutive failed loads open the breaker.
	breakerFailures = 3
	breakerTimeout  = 5 * time.Minute
)

// RefreshRecorder receives the outcome of each load attempt.
type RefreshRecorder interface {
	RecordCatalogRefresh(source string, err error, tenants int)
}

type noopRecorder struct{}

func (noopRecorder) RecordCatalogRefresh(string, error, int) {}

// CatalogRefresher reloads a catalog.Source into a catalog.Store. A failed
// load leaves the previous snapshot in place. Loads go through a circuit
// breaker so a dead database is not hammered on every tick.
type CatalogRefresher struct {
	store       *catalog.Store
	source      catalog.Source
	breaker     *gobreaker.CircuitBreaker[*catalog.Catalog]
	logger      *slog.Logger
	metrics     RefreshRecorder
	loadTimeout time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

// NewCatalogRefresher wires a refresher. logger and metrics may be nil.
func NewCatalogRefresher(store *catalog.Store, source catalog.Source, logger *slog.Logger, metrics RefreshRecorder) *CatalogRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}

	r := &CatalogRefresher{
		store:       store,
		source:      source,
		logger:      logger,
		metrics:     metrics,
		loadTimeout: defaultLoadTimeout,
	}
	r.breaker = gobreaker.NewCircuitBreaker[*catalog.Catalog](gobreaker.Settings{
		Name:        "catalog-" + source.Name(),
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("catalog breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return r
}

// Refresh performs one load. On success the new snapshot is installed.
func (r *CatalogRefresher) Refresh(ctx context.Context) error {
	start := time.Now()
	name := r.source.Name()

	next, err := r.breaker.Execute(func() (*catalog.Catalog, error) {
		return r.source.Load(ctx)
	})
	if err != nil {
		r.metrics.RecordCatalogRefresh(name, err, 0)
		attrs := []any{slog.String("source", name), slog.Any("error", err)}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			r.logger.Warn("catalog refresh skipped, breaker open", attrs...)
		} else {
			r.logger.Error("catalog refresh failed, keeping previous snapshot", attrs...)
		}
		return fmt.Errorf("refresh catalog from %s: %w", name, err)
	}

	r.store.Replace(next)
	tenants := len(next.Tenants())
	r.metrics.RecordCatalogRefresh(name, nil, tenants)
	r.logger.Info("catalog refreshed",
		slog.String("source", name),
		slog.Int("tenants", tenants),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Start schedules Refresh with a standard five-field cron spec or a
// descriptor such as "@every 5m". Overlapping runs are skipped.
func (r *CatalogRefresher) Start(schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return errors.New("catalog refresher already started")
	}

	logger := cronLogger{r.logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(schedule, r.tick); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	r.cron = c

	r.logger.Info("catalog refresh scheduled", slog.String("schedule", schedule), slog.String("source", r.source.Name()))
	return nil
}

// Stop halts the schedule and waits for a running refresh or ctx.
func (r *CatalogRefresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BreakerState exposes the breaker for health reporting.
func (r *CatalogRefresher) BreakerState() gobreaker.State {
	return r.breaker.State()
}

func (r *CatalogRefresher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.loadTimeout)
	defer cancel()
	_ = r.Refresh(ctx)
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
