package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"marketing-dashboard/internal/models"
	"marketing-dashboard/internal/observability"
)

type DashboardOptions struct {
	DefaultClientID string
	DefaultRange    models.DateRange
	Preferences     PreferenceStore
	Logger          *slog.Logger
	Metrics         *observability.Metrics
}

// Dashboard is the single source of truth for what the dashboard shows. It
// is built once and handed to whatever serves the views. All methods are
// safe for concurrent use.
type Dashboard struct {
	mu sync.RWMutex

	theme            models.Theme
	sidebarCollapsed bool
	activePage       models.Page
	client           models.Client
	dateRange        models.DateRange
	chartMetric      models.ChartMetric
	showPrediction   bool

	pending  int
	snapshot *models.Bundle

	loadsApplied atomic.Int64
	lastApplied  atomic.Int64

	loader  *Loader
	prefs   PreferenceStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewDashboard(loader *Loader, opts DashboardOptions) (*Dashboard, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DefaultClientID == "" {
		opts.DefaultClientID = clients[0].ID
	}
	if opts.DefaultRange == "" {
		opts.DefaultRange = models.Range30Days
	}

	client, err := ClientByID(opts.DefaultClientID)
	if err != nil {
		return nil, fmt.Errorf("default client: %w", err)
	}
	if !opts.DefaultRange.Valid() {
		return nil, fmt.Errorf("default range %q: %w", opts.DefaultRange, ErrInvalidDateRange)
	}

	d := &Dashboard{
		theme:       models.ThemeLight,
		activePage:  models.PageDashboard,
		client:      client,
		dateRange:   opts.DefaultRange,
		chartMetric: models.ChartConversions,
		loader:      loader,
		prefs:       opts.Preferences,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
	d.restoreTheme()
	return d, nil
}

func (d *Dashboard) restoreTheme() {
	if d.prefs == nil {
		return
	}
	theme, err := d.prefs.LoadTheme()
	switch {
	case err == nil:
		d.theme = theme
	case errors.Is(err, fs.ErrNotExist):
	default:
		d.logger.Warn("failed to restore theme, using light", "error", err)
	}
}

// Reload starts a load for the current selection. The returned channel is
// closed once that load's bundle has been applied. Loads are not
// serialised: whichever completes last is what Snapshot returns.
func (d *Dashboard) Reload() <-chan struct{} {
	d.mu.Lock()
	sel := models.Selection{ClientID: d.client.ID, Range: d.dateRange}
	d.pending++
	d.mu.Unlock()

	d.logger.Debug("dashboard load started", "client", sel.ClientID, "range", sel.Range)

	bundles := d.loader.Load(sel)
	done := make(chan struct{})
	go func() {
		defer close(done)
		b := <-bundles
		d.apply(b)
	}()
	return done
}

func (d *Dashboard) apply(b models.Bundle) {
	d.mu.Lock()
	d.snapshot = &b
	d.pending--
	d.mu.Unlock()

	d.loadsApplied.Add(1)
	d.lastApplied.Store(time.Now().UnixNano())
	d.logger.Info("dashboard snapshot replaced",
		"load_id", b.LoadID,
		"client", b.Selection.ClientID,
		"range", b.Selection.Range,
		"series_days", len(b.Series),
	)
}

// Snapshot returns the most recently applied bundle. ok is false until the
// first load completes.
func (d *Dashboard) Snapshot() (b models.Bundle, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.snapshot == nil {
		return models.Bundle{}, false
	}
	return *d.snapshot, true
}

func (d *Dashboard) IsLoading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pending > 0
}

func (d *Dashboard) Theme() models.Theme {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.theme
}

// ToggleTheme flips the theme and persists it. A failed write is logged and
// does not undo the toggle.
func (d *Dashboard) ToggleTheme() models.Theme {
	d.mu.Lock()
	if d.theme == models.ThemeDark {
		d.theme = models.ThemeLight
	} else {
		d.theme = models.ThemeDark
	}
	theme := d.theme
	d.mu.Unlock()

	d.metrics.ThemeToggled()
	if d.prefs != nil {
		if err := d.prefs.SaveTheme(theme); err != nil {
			d.logger.Warn("failed to persist theme", "theme", theme, "error", err)
		}
	}
	return theme
}

func (d *Dashboard) SidebarCollapsed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sidebarCollapsed
}

func (d *Dashboard) SetSidebarCollapsed(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sidebarCollapsed = v
}

func (d *Dashboard) ActivePage() models.Page {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activePage
}

func (d *Dashboard) SetActivePage(p models.Page) error {
	if !p.Valid() {
		return fmt.Errorf("page %q: %w", p, ErrInvalidPage)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activePage = p
	return nil
}

func (d *Dashboard) SelectedClient() models.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.client
}

// SelectClient switches client and reloads.
func (d *Dashboard) SelectClient(id string) (<-chan struct{}, error) {
	client, err := ClientByID(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.client = client
	d.mu.Unlock()
	return d.Reload(), nil
}

func (d *Dashboard) DateRange() models.DateRange {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dateRange
}

// SetDateRange switches range and reloads.
func (d *Dashboard) SetDateRange(r models.DateRange) (<-chan struct{}, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("range %q: %w", r, ErrInvalidDateRange)
	}
	d.mu.Lock()
	d.dateRange = r
	d.mu.Unlock()
	return d.Reload(), nil
}

// Select changes client and range together with a single reload. Empty
// arguments keep the current value.
func (d *Dashboard) Select(clientID string, r models.DateRange) (<-chan struct{}, error) {
	var client models.Client
	if clientID != "" {
		c, err := ClientByID(clientID)
		if err != nil {
			return nil, err
		}
		client = c
	}
	if r != "" && !r.Valid() {
		return nil, fmt.Errorf("range %q: %w", r, ErrInvalidDateRange)
	}

	d.mu.Lock()
	if clientID != "" {
		d.client = client
	}
	if r != "" {
		d.dateRange = r
	}
	d.mu.Unlock()
	return d.Reload(), nil
}

func (d *Dashboard) SelectedMetric() models.ChartMetric {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.chartMetric
}

func (d *Dashboard) SetSelectedMetric(m models.ChartMetric) error {
	if !m.Valid() {
		return fmt.Errorf("metric %q: %w", m, ErrInvalidMetric)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.chartMetric = m
	return nil
}

func (d *Dashboard) ShowPrediction() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.showPrediction
}

func (d *Dashboard) SetShowPrediction(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.showPrediction = v
}

func (d *Dashboard) State() models.UIState {
	d.mu.RLock()
	defer d.mu.RUnlock()

	high := 0
	if d.snapshot != nil {
		high = CountByPriority(d.snapshot.Alerts, models.PriorityHigh)
	}
	return models.UIState{
		Theme:              d.theme,
		SidebarCollapsed:   d.sidebarCollapsed,
		ActivePage:         d.activePage,
		Client:             d.client,
		DateRange:          d.dateRange,
		ChartMetric:        d.chartMetric,
		ShowPrediction:     d.showPrediction,
		IsLoading:          d.pending > 0,
		HighPriorityAlerts: high,
	}
}

// Campaigns summarises the selected client's campaigns.
func (d *Dashboard) Campaigns() []models.CampaignSummary {
	return SummarizeCampaigns(CampaignsForClient(d.SelectedClient().ID))
}

// Chart lays out the current snapshot for the selected metric.
func (d *Dashboard) Chart() []models.ChartPoint {
	b, ok := d.Snapshot()
	if !ok {
		return []models.ChartPoint{}
	}
	return BuildChart(b.Series, b.Projection, d.SelectedMetric(), d.ShowPrediction())
}

func (d *Dashboard) Sparklines() models.Sparklines {
	b, _ := d.Snapshot()
	return BuildSparklines(b.Series)
}

// Stats is exposed on the admin endpoint.
func (d *Dashboard) Stats() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := map[string]any{
		"loads_applied": d.loadsApplied.Load(),
		"loads_pending": d.pending,
		"load_delay":    d.loader.Delay().String(),
		"client":        d.client.ID,
		"range":         d.dateRange,
		"theme":         d.theme,
	}
	if d.snapshot != nil {
		stats["load_id"] = d.snapshot.LoadID
		stats["series_days"] = len(d.snapshot.Series)
		stats["generated_at"] = d.snapshot.GeneratedAt
	}
	if ns := d.lastApplied.Load(); ns > 0 {
		stats["last_applied"] = time.Unix(0, ns).UTC()
	}
	return stats
}

type dashboardKey struct{}

// WithDashboard puts d in scope for everything downstream of ctx.
func WithDashboard(ctx context.Context, d *Dashboard) context.Context {
	return context.WithValue(ctx, dashboardKey{}, d)
}

// FromContext returns the dashboard in scope. It panics with ErrNoDashboard
// when there is none.
func FromContext(ctx context.Context) *Dashboard {
	d, ok := ctx.Value(dashboardKey{}).(*Dashboard)
	if !ok || d == nil {
		panic(ErrNoDashboard)
	}
	return d
}
