package services

import (
	"context"
	"fmt"
	"time"

	"go-storefront/models"
)

// Counter counts documents in a collection
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// OrderAnalytics is the order reporting required by AnalyticsService
type OrderAnalytics interface {
	Totals(ctx context.Context) (int64, float64, error)
	DailySales(ctx context.Context, start, end time.Time) ([]models.DailySale, error)
}

// AnalyticsService implements read-only reporting over users, products
// and orders
type AnalyticsService struct {
	users    Counter
	products Counter
	orders   OrderAnalytics
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(users, products Counter, orders OrderAnalytics) *AnalyticsService {
	return &AnalyticsService{users: users, products: products, orders: orders}
}

// Summary returns the storewide aggregate counts
func (s *AnalyticsService) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	sales, revenue, err := s.orders.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsSummary{
		Users:        users,
		Products:     products,
		TotalSales:   sales,
		TotalRevenue: revenue,
	}, nil
}

// DailySeries returns one bucket per UTC calendar day over the inclusive
// [start, end] range, in ascending order. Days without orders report
// zero sales and revenue.
func (s *AnalyticsService) DailySeries(ctx context.Context, start, end time.Time) ([]models.DailySale, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	firstDay := dayStart(start)
	lastDay := dayStart(end)

	// Query through the start of the day after lastDay so orders placed
	// later on the end day are still counted.
	rows, err := s.orders.DailySales(ctx, firstDay, lastDay.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]models.DailySale, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}

	var series []models.DailySale
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		if row, ok := byDate[date]; ok {
			series = append(series, row)
			continue
		}
		series = append(series, models.DailySale{Date: date})
	}
	return series, nil
}

// dayStart returns midnight UTC of the instant's UTC calendar day. The
// aggregation buckets by UTC, so the labels must be derived in UTC too.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
