package templates

import (
	"fmt"

	"github.com/a-h/templ"

	"marketing-dashboard/internal/models"
)

var kpiCards = []struct{ ID, Label string }{
	{"roi", "ROI"},
	{"cpc", "Cost per Click"},
	{"ctr", "Click-through Rate"},
	{"roas", "ROAS"},
}

var navPages = []struct {
	Page  models.Page
	Label string
}{
	{models.PageDashboard, "Dashboard"},
	{models.PageCampaigns, "Campaigns"},
	{models.PageAds, "Ads"},
	{models.PageAudiences, "Audiences"},
	{models.PageReports, "Reports"},
	{models.PageSettings, "Settings"},
}

// pageSignals seeds the Datastar signals the selection controls bind to.
func pageSignals(state models.UIState) (string, error) {
	return templ.JSONString(map[string]any{
		"client":     state.Client.ID,
		"range":      state.DateRange,
		"metric":     state.ChartMetric,
		"prediction": state.ShowPrediction,
		"sidebar":    state.SidebarCollapsed,
		"page":       state.ActivePage,
		"theme":      state.Theme,
	})
}

func selectPage(p models.Page) string {
	return fmt.Sprintf("$page='%s'; @get('/sse/select')", p)
}

func kpiText(id string) string { return "$kpis." + id }
