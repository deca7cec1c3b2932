package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketing-dashboard/internal/models"
)

func newTestDashboard(t *testing.T, prefs PreferenceStore) *Dashboard {
	t.Helper()
	d, err := NewDashboard(newTestLoader(0, nil), DashboardOptions{
		Preferences: prefs,
		Logger:      quietLogger(),
	})
	require.NoError(t, err)
	return d
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("load never completed")
	}
}

func TestNewDashboard_Defaults(t *testing.T) {
	d := newTestDashboard(t, nil)

	assert.Equal(t, models.ThemeLight, d.Theme())
	assert.Equal(t, "c1", d.SelectedClient().ID)
	assert.Equal(t, models.Range30Days, d.DateRange())
	assert.Equal(t, models.PageDashboard, d.ActivePage())
	assert.Equal(t, models.ChartConversions, d.SelectedMetric())
	assert.False(t, d.ShowPrediction())
	assert.False(t, d.SidebarCollapsed())
	assert.False(t, d.IsLoading())

	_, ok := d.Snapshot()
	assert.False(t, ok, "nothing is loaded until Reload")
}

func TestNewDashboard_RejectsBadDefaults(t *testing.T) {
	_, err := NewDashboard(newTestLoader(0, nil), DashboardOptions{DefaultClientID: "zz"})
	assert.ErrorIs(t, err, ErrUnknownClient)

	_, err = NewDashboard(newTestLoader(0, nil), DashboardOptions{DefaultRange: "90d"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestDashboard_ReloadReplacesSnapshot(t *testing.T) {
	d := newTestDashboard(t, nil)

	wait(t, d.Reload())
	first, ok := d.Snapshot()
	require.True(t, ok)
	assert.Len(t, first.Series, HistoryDays)
	assert.False(t, d.IsLoading())

	wait(t, d.Reload())
	second, _ := d.Snapshot()
	assert.NotEqual(t, first.LoadID, second.LoadID)
}

func TestDashboard_IsLoadingWhileOutstanding(t *testing.T) {
	rng := NewRand(1)
	d, err := NewDashboard(NewLoader(NewGenerator(rng, fixedClock), rng, 80*time.Millisecond, quietLogger(), nil), DashboardOptions{Logger: quietLogger()})
	require.NoError(t, err)

	done := d.Reload()
	assert.True(t, d.IsLoading())
	assert.True(t, d.State().IsLoading)
	wait(t, done)
	assert.False(t, d.IsLoading())
}

func TestDashboard_OverlappingLoadsSettle(t *testing.T) {
	d := newTestDashboard(t, nil)

	a := d.Reload()
	b := d.Reload()
	wait(t, a)
	wait(t, b)

	assert.False(t, d.IsLoading())
	assert.EqualValues(t, 2, d.Stats()["loads_applied"])
	_, ok := d.Snapshot()
	assert.True(t, ok)
}

func TestDashboard_SelectClient(t *testing.T) {
	d := newTestDashboard(t, nil)

	done, err := d.SelectClient("c3")
	require.NoError(t, err)
	wait(t, done)

	b, _ := d.Snapshot()
	assert.Equal(t, "c3", b.Selection.ClientID)
	assert.Equal(t, "UrbanMove", d.SelectedClient().Name)

	campaigns := d.Campaigns()
	require.Len(t, campaigns, 2)
	assert.Equal(t, "camp6", campaigns[0].ID)

	_, err = d.SelectClient("missing")
	assert.ErrorIs(t, err, ErrUnknownClient)
	assert.Equal(t, "c3", d.SelectedClient().ID, "failed selection leaves state alone")
}

func TestDashboard_SetDateRange(t *testing.T) {
	d := newTestDashboard(t, nil)

	done, err := d.SetDateRange(models.Range7Days)
	require.NoError(t, err)
	wait(t, done)

	b, _ := d.Snapshot()
	assert.Len(t, b.Series, 7)

	_, err = d.SetDateRange("1y")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Equal(t, models.Range7Days, d.DateRange())
}

func TestDashboard_ChartFollowsSelection(t *testing.T) {
	d := newTestDashboard(t, nil)
	assert.Empty(t, d.Chart())

	wait(t, d.Reload())
	assert.Len(t, d.Chart(), HistoryDays)

	d.SetShowPrediction(true)
	require.NoError(t, d.SetSelectedMetric(models.ChartRevenue))
	points := d.Chart()
	require.Len(t, points, HistoryDays+ProjectionDays)

	b, _ := d.Snapshot()
	assert.Equal(t, b.Series[0].Revenue, *points[0].Actual)

	assert.ErrorIs(t, d.SetSelectedMetric("ctr"), ErrInvalidMetric)
}

func TestDashboard_SparklinesUseLastWeek(t *testing.T) {
	d := newTestDashboard(t, nil)
	assert.Empty(t, d.Sparklines().ROI)

	wait(t, d.Reload())
	assert.Len(t, d.Sparklines().ROAS, 7)
}

func TestDashboard_PageAndSidebar(t *testing.T) {
	d := newTestDashboard(t, nil)

	require.NoError(t, d.SetActivePage(models.PageCampaigns))
	assert.Equal(t, models.PageCampaigns, d.ActivePage())
	assert.ErrorIs(t, d.SetActivePage("billing"), ErrInvalidPage)

	d.SetSidebarCollapsed(true)
	assert.True(t, d.State().SidebarCollapsed)
}

func TestDashboard_StateCountsHighAlerts(t *testing.T) {
	d := newTestDashboard(t, nil)
	assert.Equal(t, 0, d.State().HighPriorityAlerts)

	wait(t, d.Reload())
	assert.Equal(t, 2, d.State().HighPriorityAlerts)
}

func TestDashboard_ThemePersists(t *testing.T) {
	prefs := NewFilePreferences(filepath.Join(t.TempDir(), "prefs.gob"))

	d := newTestDashboard(t, prefs)
	assert.Equal(t, models.ThemeDark, d.ToggleTheme())

	restored := newTestDashboard(t, prefs)
	assert.Equal(t, models.ThemeDark, restored.Theme())

	assert.Equal(t, models.ThemeLight, restored.ToggleTheme())
	assert.Equal(t, models.ThemeLight, newTestDashboard(t, prefs).Theme())
}

func TestFromContext(t *testing.T) {
	d := newTestDashboard(t, nil)
	ctx := WithDashboard(context.Background(), d)
	assert.Same(t, d, FromContext(ctx))

	assert.PanicsWithValue(t, ErrNoDashboard, func() {
		FromContext(context.Background())
	})
}

func TestDashboard_SelectAppliesBothWithOneLoad(t *testing.T) {
	d := newTestDashboard(t, nil)

	done, err := d.Select("c2", models.Range7Days)
	require.NoError(t, err)
	wait(t, done)

	b, _ := d.Snapshot()
	assert.Equal(t, models.Selection{ClientID: "c2", Range: models.Range7Days}, b.Selection)
	assert.EqualValues(t, 1, d.Stats()["loads_applied"])

	_, err = d.Select("c3", "1y")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Equal(t, "c2", d.SelectedClient().ID, "rejected selection changes nothing")
}
