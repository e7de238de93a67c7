package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-storefront/services"
)

// analyticsWindow is the default reporting range when none is requested
const analyticsWindow = 7 * 24 * time.Hour

// AnalyticsController handles the sales dashboard requests (Admin only)
type AnalyticsController struct {
	Analytics *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics}
}

// Get retrieves the storewide summary and the daily sales series.
// Optional start_date/end_date query parameters (YYYY-MM-DD) bound the
// series; the default is the trailing 7 days.
func (ac *AnalyticsController) Get(w http.ResponseWriter, r *http.Request) {
	end := time.Now().UTC()
	start := end.Add(-analyticsWindow)

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid start_date", http.StatusBadRequest)
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid end_date", http.StatusBadRequest)
			return
		}
		end = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	summary, err := ac.Analytics.Summary(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	series, err := ac.Analytics.DailySeries(ctx, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"analytics":   summary,
		"daily_sales": series,
	})
}
