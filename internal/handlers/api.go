package handlers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"marketing-dashboard/internal/errors"
	"marketing-dashboard/internal/models"
	"marketing-dashboard/internal/observability"
	"marketing-dashboard/internal/services"
)

// APIHandlers serve the JSON API. The dashboard is taken from the request
// context on every call.
type APIHandlers struct {
	logger *slog.Logger
}

func NewAPIHandlers(logger *slog.Logger) *APIHandlers {
	return &APIHandlers{logger: logger}
}

var noStore = map[string]string{"Cache-Control": "no-store"}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

// snapshot writes a 503 and returns false while nothing has loaded yet.
func (h *APIHandlers) snapshot(w http.ResponseWriter, r *http.Request) (models.Bundle, bool) {
	b, ok := services.FromContext(r.Context()).Snapshot()
	if !ok {
		h.fail(w, r, errors.Unavailable("Dashboard data is still loading"))
	}
	return b, ok
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	d := services.FromContext(r.Context())
	_, loaded := d.Snapshot()

	errors.WriteSuccess(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"loaded":    loaded,
		"loading":   d.IsLoading(),
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, services.FromContext(r.Context()).Stats())
}

func (h *APIHandlers) HandleState(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, services.FromContext(r.Context()).State(), noStore)
}

func (h *APIHandlers) HandleBundle(w http.ResponseWriter, r *http.Request) {
	b, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, b, noStore)
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	b, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, map[string]any{
		"kpis":       b.KPIs,
		"sparklines": services.FromContext(r.Context()).Sparklines(),
	}, noStore)
}

func (h *APIHandlers) HandleSeries(w http.ResponseWriter, r *http.Request) {
	b, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, b.Series, noStore)
}

func (h *APIHandlers) HandlePrediction(w http.ResponseWriter, r *http.Request) {
	b, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, b.Projection, noStore)
}

// WeeklyView is a weekly row with its change against the prior week.
type WeeklyView struct {
	models.WeeklyRow
	ChangePct float64 `json:"change_pct"`
}

func weeklyViews(rows []models.WeeklyRow) []WeeklyView {
	views := make([]WeeklyView, len(rows))
	for i, row := range rows {
		views[i] = WeeklyView{WeeklyRow: row, ChangePct: services.ChangePercent(row.Current, row.Previous)}
	}
	return views
}

func (h *APIHandlers) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	b, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, weeklyViews(b.Weekly), noStore)
}

func (h *APIHandlers) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	b, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	alerts := b.Alerts
	if p := models.Priority(r.URL.Query().Get("priority")); p != "" {
		if p.Rank() > models.PriorityLow.Rank() {
			h.fail(w, r, errors.BadRequest("priority must be High, Medium or Low"))
			return
		}
		alerts = services.FilterByPriority(alerts, p)
	}
	if t := models.AlertType(r.URL.Query().Get("type")); t != "" {
		if !t.Valid() {
			h.fail(w, r, errors.BadRequest("unknown alert type"))
			return
		}
		alerts = services.FilterByType(alerts, t)
	}

	errors.WriteSuccessWithHeaders(w, services.SortByPriority(alerts), noStore)
}

func (h *APIHandlers) HandleClients(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, services.Clients(), map[string]string{
		"Cache-Control": "public, max-age=300",
	})
}

func (h *APIHandlers) HandleCampaigns(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, services.FromContext(r.Context()).Campaigns(), noStore)
}

func (h *APIHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	d := services.FromContext(r.Context())
	if _, ok := h.snapshot(w, r); !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, map[string]any{
		"metric":          d.SelectedMetric(),
		"show_prediction": d.ShowPrediction(),
		"points":          d.Chart(),
	}, noStore)
}

func (h *APIHandlers) HandleThemeToggle(w http.ResponseWriter, r *http.Request) {
	theme := services.FromContext(r.Context()).ToggleTheme()
	errors.WriteSuccess(w, map[string]models.Theme{"theme": theme})
}

// HandleSelection applies every selection parameter present in the query.
// All parameters are validated before any is applied. A client or range
// change triggers one reload which the request waits for.
func (h *APIHandlers) HandleSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d := services.FromContext(r.Context())
	if err := applySelection(r.Context(), d, sel); err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccess(w, d.State())
}

type selectionRequest struct {
	Client     string
	Range      models.DateRange
	Metric     models.ChartMetric
	Page       models.Page
	Prediction *bool
	Sidebar    *bool
}

func parseSelection(r *http.Request) (selectionRequest, error) {
	q := r.URL.Query()
	sel := selectionRequest{
		Client: q.Get("client"),
		Range:  models.DateRange(q.Get("range")),
		Metric: models.ChartMetric(q.Get("metric")),
		Page:   models.Page(q.Get("page")),
	}

	var err error
	if sel.Prediction, err = parseBoolParam(q.Get("prediction")); err != nil {
		return sel, errors.BadRequest("prediction must be a boolean")
	}
	if sel.Sidebar, err = parseBoolParam(q.Get("sidebar")); err != nil {
		return sel, errors.BadRequest("sidebar must be a boolean")
	}
	return sel, sel.validate()
}

func (sel selectionRequest) validate() error {
	if sel.Client != "" {
		if _, err := services.ClientByID(sel.Client); err != nil {
			return serviceError(err)
		}
	}
	if sel.Range != "" && !sel.Range.Valid() {
		return serviceError(services.ErrInvalidDateRange)
	}
	if sel.Metric != "" && !sel.Metric.Valid() {
		return serviceError(services.ErrInvalidMetric)
	}
	if sel.Page != "" && !sel.Page.Valid() {
		return serviceError(services.ErrInvalidPage)
	}
	return nil
}

func parseBoolParam(v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func applySelection(ctx context.Context, d *services.Dashboard, sel selectionRequest) error {
	if sel.Metric != "" {
		if err := d.SetSelectedMetric(sel.Metric); err != nil {
			return serviceError(err)
		}
	}
	if sel.Page != "" {
		if err := d.SetActivePage(sel.Page); err != nil {
			return serviceError(err)
		}
	}
	if sel.Prediction != nil {
		d.SetShowPrediction(*sel.Prediction)
	}
	if sel.Sidebar != nil {
		d.SetSidebarCollapsed(*sel.Sidebar)
	}

	if sel.Client == "" && sel.Range == "" {
		return nil
	}
	done, err := d.Select(sel.Client, sel.Range)
	if err != nil {
		return serviceError(err)
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// serviceError maps service sentinels onto API errors.
func serviceError(err error) error {
	switch {
	case stderrors.Is(err, services.ErrUnknownClient):
		return errors.NotFoundWrap(err, "Client not found")
	case stderrors.Is(err, services.ErrInvalidDateRange),
		stderrors.Is(err, services.ErrInvalidMetric),
		stderrors.Is(err, services.ErrInvalidPage),
		stderrors.Is(err, services.ErrInvalidTheme):
		return errors.ValidationWrap(err, "Invalid selection")
	default:
		return errors.InternalWrap(err, "Selection failed")
	}
}
