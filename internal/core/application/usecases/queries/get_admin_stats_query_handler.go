package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetAdminStatsQueryHandler computes the dashboard KPI block in a single
// aggregate scan over the orders table.
type GetAdminStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetAdminStatsQueryHandler creates a handler for dashboard stats queries.
func NewGetAdminStatsQueryHandler(db *gorm.DB) GetAdminStatsQueryHandler {
	return GetAdminStatsQueryHandler{db: db}
}

// Handle executes the query. Day boundaries are UTC.
func (h GetAdminStatsQueryHandler) Handle(ctx context.Context, query GetAdminStatsQuery) (GetAdminStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAdminStatsQueryResponse{}, err
	}

	var resp GetAdminStatsQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now() AT TIME ZONE 'utc')),
			COALESCE(SUM(amount_total_cents) FILTER (WHERE created_at >= date_trunc('day', now() AT TIME ZONE 'utc')), 0),
			COUNT(*) FILTER (WHERE created_at >= now() - INTERVAL '7 days'),
			COALESCE(SUM(amount_total_cents) FILTER (WHERE created_at >= now() - INTERVAL '7 days'), 0),
			COUNT(*) FILTER (WHERE fulfillment_status = 'processing'),
			COUNT(*) FILTER (WHERE fulfillment_status = 'processing' AND tracking_number = '')
		FROM orders
	`).Row()

	err := row.Scan(
		&resp.OrdersToday,
		&resp.RevenueTodayCents,
		&resp.OrdersWeek,
		&resp.RevenueWeekCents,
		&resp.PendingFulfillment,
		&resp.NeedsLabel,
	)
	if err != nil {
		return GetAdminStatsQueryResponse{}, err
	}

	return resp, nil
}
