package queries

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// GetRevenueSeriesQueryHandler computes the daily analytics series. Days
// without orders are filled with zero rows via generate_series so the
// window is continuous.
type GetRevenueSeriesQueryHandler struct {
	db *gorm.DB
}

// NewGetRevenueSeriesQueryHandler creates a handler for revenue series queries.
func NewGetRevenueSeriesQueryHandler(db *gorm.DB) GetRevenueSeriesQueryHandler {
	return GetRevenueSeriesQueryHandler{db: db}
}

// Handle executes the query, oldest day first.
func (h GetRevenueSeriesQueryHandler) Handle(
	ctx context.Context,
	query GetRevenueSeriesQuery,
) ([]GetRevenueSeriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	series := make([]GetRevenueSeriesQueryResponse, 0, query.Days())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.day::date,
			COUNT(o.id),
			COALESCE(SUM(o.amount_total_cents), 0)
		FROM generate_series(
			date_trunc('day', now() AT TIME ZONE 'utc') - (? - 1) * INTERVAL '1 day',
			date_trunc('day', now() AT TIME ZONE 'utc'),
			INTERVAL '1 day'
		) AS d(day)
		LEFT JOIN orders o ON date_trunc('day', o.created_at) = d.day
		GROUP BY d.day
		ORDER BY d.day
	`, query.Days()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetRevenueSeriesQueryResponse
		var day time.Time

		if err = rows.Scan(&day, &resp.Orders, &resp.RevenueCents); err != nil {
			return nil, err
		}

		resp.Date = day.Format("2006-01-02")
		series = append(series, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return series, nil
}
