package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"marketing-dashboard/internal/models"
	"marketing-dashboard/internal/services"
)

var funcs = template.FuncMap{
	"value":  formatValue,
	"change": func(pct float64) string { return fmt.Sprintf("%+.1f%%", pct) },
	"lower":  func(p models.Priority) string { return strings.ToLower(string(p)) },
}

var weeklyTableTemplate = template.Must(template.New("weeklyTable").Funcs(funcs).Parse(`
<div id="weekly-content">
<table class="modern-table">
<thead><tr><th>Metric</th><th>This week</th><th>Last week</th><th>Change</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Metric}}</td>
<td><strong>{{value .Format .Current}}</strong></td>
<td>{{value .Format .Previous}}</td>
<td class="{{if ge .ChangePct 0.0}}positive{{else}}negative{{end}}">{{change .ChangePct}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

var alertListTemplate = template.Must(template.New("alertList").Funcs(funcs).Parse(`
<div id="alerts-content">
<ul class="alert-list">
{{range .}}<li class="alert alert-{{lower .Priority}}" data-type="{{.Type}}">
<span class="priority-badge">{{.Priority}}</span>
<strong>{{.CampaignName}}</strong>
<p>{{.Message}}</p>
<p class="recommendation">{{.Recommendation}}</p>
<small>{{.ImpactProbability}}% impact probability</small>
</li>{{end}}
</ul>
</div>`))

func formatValue(format models.WeeklyFormat, v float64) string {
	switch format {
	case models.FormatCurrency:
		return fmt.Sprintf("$%.2f", v)
	case models.FormatPercent:
		return fmt.Sprintf("%.2f%%", v)
	case models.FormatDecimal:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

type SSEHandlers struct {
	logger *slog.Logger
}

func NewSSEHandlers(logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{logger: logger}
}

func renderWeeklyTable(rows []models.WeeklyRow) (string, error) {
	var buf strings.Builder
	err := weeklyTableTemplate.Execute(&buf, weeklyViews(rows))
	return buf.String(), err
}

func renderAlertList(alerts []models.AIAlert) (string, error) {
	var buf strings.Builder
	err := alertListTemplate.Execute(&buf, services.SortByPriority(alerts))
	return buf.String(), err
}

// dashboardSignals is everything the page binds to, keyed by signal name.
func dashboardSignals(d *services.Dashboard) map[string]any {
	state := d.State()
	signals := map[string]any{
		"state": state,
		"theme": state.Theme,
	}
	if b, ok := d.Snapshot(); ok {
		signals["kpis"] = b.KPIs
		signals["sparklines"] = d.Sparklines()
		signals["series"] = b.Series
		signals["prediction"] = b.Projection
		signals["chart"] = d.Chart()
		signals["campaigns"] = d.Campaigns()
		signals["loadId"] = b.LoadID
	}
	return signals
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) error {
	jsonData, err := json.Marshal(signals)
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}
	return sse.PatchSignals(jsonData)
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	d := services.FromContext(r.Context())
	sse := datastar.NewSSE(w, r)

	if err := h.patchSignals(sse, dashboardSignals(d)); err != nil {
		h.logger.Error("patch dashboard signals", "error", err)
		return
	}
	flush(w)
}

func (h *SSEHandlers) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	d := services.FromContext(r.Context())
	sse := datastar.NewSSE(w, r)

	b, ok := d.Snapshot()
	if !ok {
		sse.PatchElements(`<div id="weekly-content">Loading…</div>`)
		flush(w)
		return
	}

	html, err := renderWeeklyTable(b.Weekly)
	if err != nil {
		h.logger.Error("render weekly table", "error", err)
		return
	}
	sse.PatchElements(html)
	flush(w)
}

func (h *SSEHandlers) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	d := services.FromContext(r.Context())
	sse := datastar.NewSSE(w, r)

	b, ok := d.Snapshot()
	if !ok {
		sse.PatchElements(`<div id="alerts-content">Loading…</div>`)
		flush(w)
		return
	}

	html, err := renderAlertList(b.Alerts)
	if err != nil {
		h.logger.Error("render alert list", "error", err)
		return
	}
	sse.PatchElements(html)
	flush(w)
}

// HandleTheme flips the theme and patches the theme signal the page binds
// its data-theme attribute to.
func (h *SSEHandlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	theme := services.FromContext(r.Context()).ToggleTheme()
	sse := datastar.NewSSE(w, r)

	if err := h.patchSignals(sse, map[string]any{"theme": theme}); err != nil {
		h.logger.Error("patch theme signal", "error", err)
		return
	}
	flush(w)
}

// selectSignals mirrors the page's selection signals.
type selectSignals struct {
	Client     string `json:"client"`
	Range      string `json:"range"`
	Metric     string `json:"metric"`
	Page       string `json:"page"`
	Prediction *bool  `json:"prediction"`
	Sidebar    *bool  `json:"sidebar"`
}

// HandleSelect applies the selection held in the page signals, waits for the
// reload and pushes the new state, weekly table and alerts in one stream.
func (h *SSEHandlers) HandleSelect(w http.ResponseWriter, r *http.Request) {
	d := services.FromContext(r.Context())

	var signals selectSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Warn("read select signals", "error", err)
		http.Error(w, "invalid signals", http.StatusBadRequest)
		return
	}
	sel := selectionRequest{
		Client:     signals.Client,
		Range:      models.DateRange(signals.Range),
		Metric:     models.ChartMetric(signals.Metric),
		Page:       models.Page(signals.Page),
		Prediction: signals.Prediction,
		Sidebar:    signals.Sidebar,
	}
	if err := sel.validate(); err != nil {
		h.logger.Warn("rejected selection", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := h.patchSignals(sse, map[string]any{"state": map[string]bool{"is_loading": true}}); err != nil {
		h.logger.Error("patch loading signal", "error", err)
		return
	}
	flush(w)

	if err := applySelection(r.Context(), d, sel); err != nil {
		h.logger.Warn("apply selection", "error", err)
		return
	}

	if err := h.patchSignals(sse, dashboardSignals(d)); err != nil {
		h.logger.Error("patch dashboard signals", "error", err)
		return
	}
	if b, ok := d.Snapshot(); ok {
		if html, err := renderWeeklyTable(b.Weekly); err == nil {
			sse.PatchElements(html)
		}
		if html, err := renderAlertList(b.Alerts); err == nil {
			sse.PatchElements(html)
		}
	}
	flush(w)
}
