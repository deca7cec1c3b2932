package models

import "time"

// DateLayout is the calendar-day format used for DailyMetric dates.
const DateLayout = "2006-01-02"

type Client struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	Industry string  `json:"industry"`
	Budget   float64 `json:"budget"`
}

type CampaignStatus string

const (
	CampaignActive CampaignStatus = "active"
	CampaignPaused CampaignStatus = "paused"
	CampaignEnded  CampaignStatus = "ended"
)

type Campaign struct {
	ID          string         `json:"id"`
	ClientID    string         `json:"client_id"`
	Name        string         `json:"name"`
	Platform    string         `json:"platform"`
	Status      CampaignStatus `json:"status"`
	Budget      float64        `json:"budget"`
	Spent       float64        `json:"spent"`
	Impressions int            `json:"impressions"`
	Clicks      int            `json:"clicks"`
	Conversions int            `json:"conversions"`
	Revenue     float64        `json:"revenue"`
}

// CampaignSummary is a Campaign with the ratios shown in the campaigns table.
type CampaignSummary struct {
	Campaign
	ROAS      float64 `json:"roas"`
	BudgetPct int     `json:"budget_pct"`
}

// DailyMetric is one calendar day of account-level performance.
type DailyMetric struct {
	Date        string  `json:"date"`
	Conversions int     `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
}

type KPISnapshot struct {
	ROI          float64 `json:"roi"`
	ROIProjected float64 `json:"roi_projected"`
	AIConfidence int     `json:"ai_confidence"`
	CPC          float64 `json:"cpc"`
	CPCChange    float64 `json:"cpc_change"`
	CTR          float64 `json:"ctr"`
	CTRChange    float64 `json:"ctr_change"`
	ROAS         float64 `json:"roas"`
	ROASChange   float64 `json:"roas_change"`
}

// Sparklines holds per-day KPI values for the card mini charts.
type Sparklines struct {
	ROI  []float64 `json:"roi"`
	CPC  []float64 `json:"cpc"`
	CTR  []float64 `json:"ctr"`
	ROAS []float64 `json:"roas"`
}

type WeeklyFormat string

const (
	FormatNumber   WeeklyFormat = "number"
	FormatCurrency WeeklyFormat = "currency"
	FormatPercent  WeeklyFormat = "percent"
	FormatDecimal  WeeklyFormat = "decimal"
)

type WeeklyRow struct {
	Metric   string       `json:"metric"`
	Current  float64      `json:"current"`
	Previous float64      `json:"previous"`
	Format   WeeklyFormat `json:"format"`
}

type AlertType string

const (
	AlertUnderperformance AlertType = "underperformance"
	AlertHighCost         AlertType = "high_cost"
	AlertCTRDrop          AlertType = "ctr_drop"
	AlertOpportunity      AlertType = "opportunity"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertUnderperformance, AlertHighCost, AlertCTRDrop, AlertOpportunity:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank orders priorities High < Medium < Low. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type AIAlert struct {
	ID                string    `json:"id"`
	Type              AlertType `json:"type"`
	Priority          Priority  `json:"priority"`
	ImpactProbability int       `json:"impact_probability"`
	Message           string    `json:"message"`
	Recommendation    string    `json:"recommendation"`
	CampaignID        string    `json:"campaign_id"`
	CampaignName      string    `json:"campaign_name"`
}

type DateRange string

const (
	Range7Days  DateRange = "7d"
	Range30Days DateRange = "30d"
	RangeCustom DateRange = "custom"
)

func (r DateRange) Valid() bool {
	switch r {
	case Range7Days, Range30Days, RangeCustom:
		return true
	}
	return false
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

type Page string

const (
	PageDashboard Page = "dashboard"
	PageCampaigns Page = "campaigns"
	PageAds       Page = "ads"
	PageAudiences Page = "audiences"
	PageReports   Page = "reports"
	PageSettings  Page = "settings"
)

func (p Page) Valid() bool {
	switch p {
	case PageDashboard, PageCampaigns, PageAds, PageAudiences, PageReports, PageSettings:
		return true
	}
	return false
}

// ChartMetric is the DailyMetric field plotted on the conversions chart.
type ChartMetric string

const (
	ChartConversions ChartMetric = "conversions"
	ChartRevenue     ChartMetric = "revenue"
	ChartCost        ChartMetric = "cost"
)

func (m ChartMetric) Valid() bool {
	return m == ChartConversions || m == ChartRevenue || m == ChartCost
}

// ChartPoint is one x-axis entry. Actual and Predicted are mutually exclusive.
type ChartPoint struct {
	Date           string   `json:"date"`
	Actual         *float64 `json:"actual"`
	PreviousActual *float64 `json:"previous_actual"`
	Predicted      *float64 `json:"predicted,omitempty"`
	IsPrediction   bool     `json:"is_prediction"`
}

type Selection struct {
	ClientID string    `json:"client_id"`
	Range    DateRange `json:"range"`
}

// Bundle is one complete, immutable load result.
type Bundle struct {
	LoadID      string        `json:"load_id"`
	Selection   Selection     `json:"selection"`
	Series      []DailyMetric `json:"series"`
	Projection  []DailyMetric `json:"projection"`
	KPIs        KPISnapshot   `json:"kpis"`
	Alerts      []AIAlert     `json:"alerts"`
	Weekly      []WeeklyRow   `json:"weekly"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// UIState is the presentation state owned by the dashboard.
type UIState struct {
	Theme              Theme       `json:"theme"`
	SidebarCollapsed   bool        `json:"sidebar_collapsed"`
	ActivePage         Page        `json:"active_page"`
	Client             Client      `json:"client"`
	DateRange          DateRange   `json:"date_range"`
	ChartMetric        ChartMetric `json:"chart_metric"`
	ShowPrediction     bool        `json:"show_prediction"`
	IsLoading          bool        `json:"is_loading"`
	HighPriorityAlerts int         `json:"high_priority_alerts"`
}
