package services

import (
	"math"
	"time"

	"marketing-dashboard/internal/models"
)

const (
	HistoryDays    = 30
	ProjectionDays = 7

	baseConversions = 420.0
	baseRevenue     = 36000.0
	baseCost        = 18000.0

	weekendFactor   = 0.72
	dailyTrend      = 0.004
	conversionRate  = 0.048
	impressionRatio = 52.0

	projectionGrowth  = 1.028
	projectionCostAdj = 0.92
)

// Generator produces the synthetic history and its short-horizon projection.
type Generator struct {
	rng Rand
	now Clock
}

func NewGenerator(rng Rand, now Clock) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// noise draws a multiplier in [0.88, 1.12).
func (g *Generator) noise() float64 {
	return 0.88 + g.rng.Float64()*0.24
}

// GenerateSeries returns HistoryDays records ending today, oldest first.
func (g *Generator) GenerateSeries() []models.DailyMetric {
	today := startOfDay(g.now())
	out := make([]models.DailyMetric, 0, HistoryDays)

	for i := HistoryDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)

		wf := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			wf = weekendFactor
		}
		tf := 1 + float64(HistoryDays-1-i)*dailyTrend

		conversions := roundHalfUp(baseConversions * wf * tf * g.noise())
		revenue := roundHalfUp(baseRevenue * wf * tf * g.noise())
		cost := roundHalfUp(baseCost * wf * g.noise())
		clicks := roundHalfUp(conversions / conversionRate * g.noise())
		impressions := roundHalfUp(clicks * impressionRatio * g.noise())

		out = append(out, models.DailyMetric{
			Date:        day.Format(models.DateLayout),
			Conversions: int(conversions),
			Revenue:     revenue,
			Cost:        cost,
			Clicks:      int(clicks),
			Impressions: int(impressions),
		})
	}
	return out
}

// Project extends series by ProjectionDays records scaled from its last
// record. It returns nil for an empty series.
func (g *Generator) Project(series []models.DailyMetric) []models.DailyMetric {
	if len(series) == 0 {
		return nil
	}
	last := series[len(series)-1]
	// Dates come from GenerateSeries; a record that does not parse has no
	// day to project from and is treated like an empty series.
	lastDay, err := time.Parse(models.DateLayout, last.Date)
	if err != nil {
		return nil
	}

	out := make([]models.DailyMetric, 0, ProjectionDays)
	for i := 1; i <= ProjectionDays; i++ {
		factor := math.Pow(projectionGrowth, float64(i)) * (0.95 + g.rng.Float64()*0.1)
		out = append(out, models.DailyMetric{
			Date:        lastDay.AddDate(0, 0, i).Format(models.DateLayout),
			Conversions: int(roundHalfUp(float64(last.Conversions) * factor)),
			Revenue:     roundHalfUp(last.Revenue * factor),
			Cost:        roundHalfUp(last.Cost * factor * projectionCostAdj),
			Clicks:      int(roundHalfUp(float64(last.Clicks) * factor)),
			Impressions: int(roundHalfUp(float64(last.Impressions) * factor)),
		})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// roundHalfUp rounds .5 towards +Inf, matching how the dashboard displays values.
func roundHalfUp(f float64) float64 { return math.Floor(f + 0.5) }

func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(f*p+0.5) / p
}
