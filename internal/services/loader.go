package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"marketing-dashboard/internal/models"
	"marketing-dashboard/internal/observability"
)

// DefaultLoadDelay approximates a network round trip.
const DefaultLoadDelay = 850 * time.Millisecond

// Loader assembles dashboard bundles and hands them out after a fixed delay.
type Loader struct {
	gen     *Generator
	rng     Rand
	delay   time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader wires a loader. rng may be shared with gen. Concurrent loads draw
// from it, so it must be safe for concurrent use, as NewRand's result is.
func NewLoader(gen *Generator, rng Rand, delay time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if delay < 0 {
		delay = 0
	}
	return &Loader{
		gen:     gen,
		rng:     rng,
		delay:   delay,
		logger:  logger,
		metrics: metrics,
	}
}

func (l *Loader) Delay() time.Duration { return l.delay }

// Load returns a channel that receives exactly one bundle for sel once the
// delay has elapsed. It never fails and cannot be cancelled.
func (l *Loader) Load(sel models.Selection) <-chan models.Bundle {
	start := time.Now()
	l.metrics.LoadStarted()

	b := l.Build(context.Background(), sel)

	out := make(chan models.Bundle, 1)
	time.AfterFunc(l.delay, func() {
		l.metrics.LoadDelivered(sel.ClientID, string(sel.Range), time.Since(start))
		out <- b
		close(out)
	})
	return out
}

// Build computes a bundle synchronously. Everything is derived from a freshly
// generated 30-day series; only Series is narrowed to the selected range.
func (l *Loader) Build(ctx context.Context, sel models.Selection) models.Bundle {
	_, span := observability.StartSpan(ctx, "dashboard.build")
	span.SetTag("client", sel.ClientID)
	span.SetTag("range", string(sel.Range))
	defer func() {
		span.Finish()
		l.logger.Debug("bundle built", "span", span)
	}()

	series := l.gen.GenerateSeries()

	var (
		weekly []models.WeeklyRow
		g      errgroup.Group
	)
	g.Go(func() error {
		weekly = CompareWeekly(series)
		return nil
	})

	// Draws stay on this goroutine in a fixed order so a seeded source
	// reproduces the same bundle.
	projection := l.gen.Project(series)
	kpis := AggregateKPIs(series, l.rng)
	_ = g.Wait() // none of the tasks can fail

	b := models.Bundle{
		LoadID:      uuid.NewString(),
		Selection:   sel,
		Series:      VisibleSeries(series, sel.Range),
		Projection:  projection,
		KPIs:        kpis,
		Alerts:      StaticAlerts(),
		Weekly:      weekly,
		GeneratedAt: time.Now().UTC(),
	}
	span.SetTag("load_id", b.LoadID)
	return b
}

// VisibleSeries narrows series to what the date range shows on the chart.
func VisibleSeries(series []models.DailyMetric, r models.DateRange) []models.DailyMetric {
	if r == models.Range7Days && len(series) > windowDays {
		return series[len(series)-windowDays:]
	}
	return series
}
