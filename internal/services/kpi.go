package services

import "marketing-dashboard/internal/models"

const windowDays = 7

const (
	momentumUp   = 1.032
	momentumDown = 0.975
	confidenceLo = 78
	confidenceN  = 14
)

type windowTotals struct {
	conversions float64
	revenue     float64
	cost        float64
	clicks      float64
	impressions float64
}

func sumWindow(series []models.DailyMetric) windowTotals {
	var t windowTotals
	for _, m := range series {
		t.conversions += float64(m.Conversions)
		t.revenue += m.Revenue
		t.cost += m.Cost
		t.clicks += float64(m.Clicks)
		t.impressions += float64(m.Impressions)
	}
	return t
}

// splitWindows returns the last seven records and the seven before them.
// Either may be shorter than seven, or empty.
func splitWindows(series []models.DailyMetric) (current, previous []models.DailyMetric) {
	n := len(series)
	curStart := max(n-windowDays, 0)
	prevStart := max(n-2*windowDays, 0)
	return series[curStart:], series[prevStart:curStart]
}

func (t windowTotals) roi() float64 { return safeDiv(t.revenue-t.cost, t.cost) * 100 }
func (t windowTotals) cpc() float64 { return safeDiv(t.cost, t.clicks) }
func (t windowTotals) ctr() float64 { return safeDiv(t.clicks, t.impressions) * 100 }
func (t windowTotals) roas() float64 {
	return safeDiv(t.revenue, t.cost)
}

// AggregateKPIs compares the most recent week of series against the week
// before it. roiProjected is a momentum heuristic scaled by a random
// confidence score, not a forecast.
func AggregateKPIs(series []models.DailyMetric, rng Rand) models.KPISnapshot {
	current, previous := splitWindows(series)
	cur, prev := sumWindow(current), sumWindow(previous)

	roi, prevROI := cur.roi(), prev.roi()
	confidence := confidenceLo + rng.IntN(confidenceN)
	momentum := momentumDown
	if roi > prevROI {
		momentum = momentumUp
	}
	projected := roi * momentum * (float64(confidence)/100 + 0.15)

	return models.KPISnapshot{
		ROI:          roundTo(roi, 1),
		ROIProjected: roundTo(projected, 1),
		AIConfidence: confidence,
		CPC:          roundTo(cur.cpc(), 2),
		CPCChange:    roundTo(ChangePercent(cur.cpc(), prev.cpc()), 1),
		CTR:          roundTo(cur.ctr(), 2),
		CTRChange:    roundTo(ChangePercent(cur.ctr(), prev.ctr()), 1),
		ROAS:         roundTo(cur.roas(), 2),
		ROASChange:   roundTo(ChangePercent(cur.roas(), prev.roas()), 1),
	}
}

// CompareWeekly sums each tracked field over the current and previous week.
// Values are left unrounded.
func CompareWeekly(series []models.DailyMetric) []models.WeeklyRow {
	current, previous := splitWindows(series)
	cur, prev := sumWindow(current), sumWindow(previous)

	return []models.WeeklyRow{
		{Metric: "Conversions", Current: cur.conversions, Previous: prev.conversions, Format: models.FormatNumber},
		{Metric: "Revenue", Current: cur.revenue, Previous: prev.revenue, Format: models.FormatCurrency},
		{Metric: "Cost", Current: cur.cost, Previous: prev.cost, Format: models.FormatCurrency},
		{Metric: "Clicks", Current: cur.clicks, Previous: prev.clicks, Format: models.FormatNumber},
		{Metric: "Impressions", Current: cur.impressions, Previous: prev.impressions, Format: models.FormatNumber},
	}
}

// ChangePercent is the relative change from previous to current in percent,
// or 0 when there is no positive baseline.
func ChangePercent(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// BuildSparklines returns per-day ROI, CPC, CTR and ROAS for the last week.
func BuildSparklines(series []models.DailyMetric) models.Sparklines {
	current, _ := splitWindows(series)
	s := models.Sparklines{
		ROI:  make([]float64, 0, len(current)),
		CPC:  make([]float64, 0, len(current)),
		CTR:  make([]float64, 0, len(current)),
		ROAS: make([]float64, 0, len(current)),
	}
	for _, m := range current {
		t := sumWindow([]models.DailyMetric{m})
		s.ROI = append(s.ROI, t.roi())
		s.CPC = append(s.CPC, t.cpc())
		s.CTR = append(s.CTR, t.ctr())
		s.ROAS = append(s.ROAS, t.roas())
	}
	return s
}

// BuildChart lays out the chart x-axis: history first, then the projection
// when withPrediction is set.
func BuildChart(series, projection []models.DailyMetric, metric models.ChartMetric, withPrediction bool) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(series)+len(projection))
	for i, m := range series {
		v := metricValue(m, metric)
		p := models.ChartPoint{Date: m.Date, Actual: &v}
		if i > 0 {
			pv := metricValue(series[i-1], metric)
			p.PreviousActual = &pv
		}
		points = append(points, p)
	}
	if !withPrediction {
		return points
	}
	for _, m := range projection {
		v := metricValue(m, metric)
		points = append(points, models.ChartPoint{Date: m.Date, Predicted: &v, IsPrediction: true})
	}
	return points
}

func metricValue(m models.DailyMetric, metric models.ChartMetric) float64 {
	switch metric {
	case models.ChartRevenue:
		return m.Revenue
	case models.ChartCost:
		return m.Cost
	default:
		return float64(m.Conversions)
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
