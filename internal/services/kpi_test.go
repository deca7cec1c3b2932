package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing-dashboard/internal/models"
)

func flatSeries(n int, revenue, cost float64, clicks, impressions int) []models.DailyMetric {
	out := make([]models.DailyMetric, n)
	for i := range out {
		out[i] = models.DailyMetric{
			Date:        fixedClock().AddDate(0, 0, i-n+1).Format(models.DateLayout),
			Conversions: 10,
			Revenue:     revenue,
			Cost:        cost,
			Clicks:      clicks,
			Impressions: impressions,
		}
	}
	return out
}

func TestAggregateKPIs_EqualWeeksTakesDownBranch(t *testing.T) {
	series := flatSeries(14, 150, 100, 0, 0)

	kpis := AggregateKPIs(series, fixedRand{n: 0})
	assert.Equal(t, 50.0, kpis.ROI)
	assert.Equal(t, 78, kpis.AIConfidence)
	assert.Equal(t, 45.3, kpis.ROIProjected, "50 * 0.975 * 0.93")
	assert.Equal(t, 1.5, kpis.ROAS)
	assert.Equal(t, 0.0, kpis.ROASChange)
	assert.Equal(t, 0.0, kpis.CPC, "no clicks")
	assert.Equal(t, 0.0, kpis.CTR, "no impressions")

	kpis = AggregateKPIs(series, fixedRand{n: 13})
	assert.Equal(t, 91, kpis.AIConfidence)
	assert.Equal(t, 51.7, kpis.ROIProjected, "50 * 0.975 * 1.06")
}

func TestAggregateKPIs_ProjectionStaysInConfidenceBracket(t *testing.T) {
	series := flatSeries(14, 150, 100, 50, 1000)
	rng := NewRand(3)

	lo := roundTo(50*momentumDown*0.93, 1)
	hi := roundTo(50*momentumDown*1.06, 1)
	for range 200 {
		kpis := AggregateKPIs(series, rng)
		assert.GreaterOrEqual(t, kpis.AIConfidence, 78)
		assert.LessOrEqual(t, kpis.AIConfidence, 91)
		assert.GreaterOrEqual(t, kpis.ROIProjected, lo)
		assert.LessOrEqual(t, kpis.ROIProjected, hi)
	}
}

func TestAggregateKPIs_UpBranch(t *testing.T) {
	series := append(flatSeries(7, 120, 100, 100, 1000), flatSeries(7, 150, 100, 50, 1000)...)

	kpis := AggregateKPIs(series, fixedRand{n: 0})
	assert.Equal(t, 50.0, kpis.ROI)
	assert.Equal(t, 48.0, kpis.ROIProjected, "50 * 1.032 * 0.93")
	assert.Equal(t, 2.0, kpis.CPC)
	assert.Equal(t, 100.0, kpis.CPCChange)
	assert.Equal(t, 5.0, kpis.CTR)
	assert.Equal(t, -50.0, kpis.CTRChange)
	assert.Equal(t, 25.0, kpis.ROASChange)
}

func TestAggregateKPIs_ZeroCostIsZeroNotNaN(t *testing.T) {
	series := flatSeries(14, 500, 0, 0, 0)

	kpis := AggregateKPIs(series, NewRand(1))
	for name, v := range map[string]float64{
		"roi": kpis.ROI, "roi_projected": kpis.ROIProjected, "cpc": kpis.CPC,
		"roas": kpis.ROAS, "ctr": kpis.CTR,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is %v", name, v)
		assert.Equal(t, 0.0, v, name)
	}
}

func TestAggregateKPIs_NoPreviousWindow(t *testing.T) {
	series := flatSeries(7, 150, 100, 50, 1000)

	kpis := AggregateKPIs(series, NewRand(1))
	assert.Equal(t, 0.0, kpis.CPCChange)
	assert.Equal(t, 0.0, kpis.CTRChange)
	assert.Equal(t, 0.0, kpis.ROASChange)
	assert.Equal(t, 50.0, kpis.ROI)
}

func TestAggregateKPIs_EmptySeries(t *testing.T) {
	assert.NotPanics(t, func() {
		kpis := AggregateKPIs(nil, NewRand(1))
		assert.Equal(t, 0.0, kpis.ROI)
		assert.Equal(t, 0.0, kpis.ROIProjected)
	})
}

func TestCompareWeekly_MatchesManualSums(t *testing.T) {
	series := NewGenerator(NewRand(11), fixedClock).GenerateSeries()
	rows := CompareWeekly(series)
	require.Len(t, rows, 5)

	sum := func(days []models.DailyMetric, field func(models.DailyMetric) float64) float64 {
		var s float64
		for _, d := range days {
			s += field(d)
		}
		return s
	}
	current, previous := series[23:30], series[16:23]

	fields := []struct {
		metric string
		format models.WeeklyFormat
		get    func(models.DailyMetric) float64
	}{
		{"Conversions", models.FormatNumber, func(m models.DailyMetric) float64 { return float64(m.Conversions) }},
		{"Revenue", models.FormatCurrency, func(m models.DailyMetric) float64 { return m.Revenue }},
		{"Cost", models.FormatCurrency, func(m models.DailyMetric) float64 { return m.Cost }},
		{"Clicks", models.FormatNumber, func(m models.DailyMetric) float64 { return float64(m.Clicks) }},
		{"Impressions", models.FormatNumber, func(m models.DailyMetric) float64 { return float64(m.Impressions) }},
	}
	for i, f := range fields {
		t.Run(f.metric, func(t *testing.T) {
			assert.Equal(t, f.metric, rows[i].Metric)
			assert.Equal(t, f.format, rows[i].Format)
			assert.Equal(t, sum(current, f.get), rows[i].Current)
			assert.Equal(t, sum(previous, f.get), rows[i].Previous)
		})
	}
}

func TestCompareWeekly_ShortSeries(t *testing.T) {
	rows := CompareWeekly(flatSeries(10, 150, 100, 50, 1000))
	require.Len(t, rows, 5)
	assert.Equal(t, 1050.0, rows[1].Current)
	assert.Equal(t, 450.0, rows[1].Previous, "only three days precede the current week")
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name              string
		current, previous float64
		want              float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"zero baseline", 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangePercent(tt.current, tt.previous))
		})
	}
}

func TestBuildSparklines(t *testing.T) {
	series := append(flatSeries(7, 150, 100, 50, 1000), flatSeries(7, 0, 0, 0, 0)...)

	s := BuildSparklines(series)
	require.Len(t, s.ROI, 7)
	require.Len(t, s.CPC, 7)
	for i := range 7 {
		assert.Equal(t, 0.0, s.ROI[i])
		assert.Equal(t, 0.0, s.CPC[i])
		assert.Equal(t, 0.0, s.CTR[i])
		assert.Equal(t, 0.0, s.ROAS[i])
	}

	s = BuildSparklines(flatSeries(3, 150, 100, 50, 1000))
	assert.Equal(t, []float64{50, 50, 50}, s.ROI)
	assert.Equal(t, []float64{2, 2, 2}, s.CPC)
	assert.Equal(t, []float64{5, 5, 5}, s.CTR)
	assert.Equal(t, []float64{1.5, 1.5, 1.5}, s.ROAS)
}

func TestBuildChart(t *testing.T) {
	gen := NewGenerator(NewRand(5), fixedClock)
	series := gen.GenerateSeries()
	proj := gen.Project(series)

	points := BuildChart(series, proj, models.ChartRevenue, false)
	require.Len(t, points, len(series))
	assert.Nil(t, points[0].PreviousActual)
	require.NotNil(t, points[1].PreviousActual)
	assert.Equal(t, series[0].Revenue, *points[1].PreviousActual)
	assert.Equal(t, series[1].Revenue, *points[1].Actual)

	points = BuildChart(series, proj, models.ChartCost, true)
	require.Len(t, points, len(series)+len(proj))
	tail := points[len(series)]
	assert.True(t, tail.IsPrediction)
	assert.Nil(t, tail.Actual)
	require.NotNil(t, tail.Predicted)
	assert.Equal(t, proj[0].Cost, *tail.Predicted)
}
