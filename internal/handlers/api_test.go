package handlers

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketing-dashboard/internal/errors"
	"marketing-dashboard/internal/models"
	"marketing-dashboard/internal/services"
)

func TestWeeklyViews(t *testing.T) {
	views := weeklyViews([]models.WeeklyRow{
		{Metric: "Clicks", Current: 150, Previous: 100},
		{Metric: "Conversions", Current: 10, Previous: 0},
	})

	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
	if views[0].ChangePct != 50 {
		t.Errorf("change = %v, want 50", views[0].ChangePct)
	}
	if views[1].ChangePct != 0 {
		t.Errorf("change with no previous value = %v, want 0", views[1].ChangePct)
	}
}

func TestParseSelection(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/selection?client=c2&range=7d&metric=cost&page=reports&prediction=1&sidebar=false", nil)

	sel, err := parseSelection(r)
	if err != nil {
		t.Fatalf("parseSelection() failed: %v", err)
	}

	if sel.Client != "c2" || sel.Range != models.Range7Days || sel.Metric != models.ChartCost || sel.Page != models.PageReports {
		t.Errorf("unexpected selection: %+v", sel)
	}
	if sel.Prediction == nil || !*sel.Prediction {
		t.Error("prediction should be set to true")
	}
	if sel.Sidebar == nil || *sel.Sidebar {
		t.Error("sidebar should be set to false")
	}
}

func TestParseSelection_Empty(t *testing.T) {
	sel, err := parseSelection(httptest.NewRequest(http.MethodPost, "/api/selection", nil))
	if err != nil {
		t.Fatalf("parseSelection() failed: %v", err)
	}
	if sel.Prediction != nil || sel.Sidebar != nil || sel.Client != "" {
		t.Errorf("empty query should leave everything unset: %+v", sel)
	}
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrUnknownClient, http.StatusNotFound},
		{services.ErrInvalidDateRange, http.StatusBadRequest},
		{services.ErrInvalidMetric, http.StatusBadRequest},
		{services.ErrInvalidPage, http.StatusBadRequest},
		{services.ErrInvalidTheme, http.StatusBadRequest},
		{stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		var appErr *errors.AppError
		if !stderrors.As(serviceError(tt.err), &appErr) {
			t.Fatalf("serviceError(%v) is not an AppError", tt.err)
		}
		if appErr.StatusCode != tt.status {
			t.Errorf("serviceError(%v) status = %d, want %d", tt.err, appErr.StatusCode, tt.status)
		}
		if !stderrors.Is(appErr, tt.err) {
			t.Errorf("serviceError(%v) should wrap the cause", tt.err)
		}
	}
}
