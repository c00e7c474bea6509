package queries

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// GetCustomersQueryHandler computes the customer roll-up. Orders without a
// customer email (webhook-created rows not yet synced) are skipped; the name
// shown is from the customer's most recent order.
type GetCustomersQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomersQueryHandler creates a handler for customer roll-up queries.
func NewGetCustomersQueryHandler(db *gorm.DB) GetCustomersQueryHandler {
	return GetCustomersQueryHandler{db: db}
}

// Handle executes the query, biggest lifetime spend first.
func (h GetCustomersQueryHandler) Handle(
	ctx context.Context,
	query GetCustomersQuery,
) ([]GetCustomersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pattern := "%" + query.Search() + "%"
	customers := make([]GetCustomersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			customer_email,
			(ARRAY_AGG(shipping_name ORDER BY created_at DESC))[1],
			COUNT(*),
			COALESCE(SUM(amount_total_cents), 0),
			MIN(created_at),
			MAX(created_at)
		FROM orders
		WHERE customer_email <> ''
		  AND (? = '%%' OR customer_email ILIKE ? OR shipping_name ILIKE ?)
		GROUP BY customer_email
		ORDER BY COALESCE(SUM(amount_total_cents), 0) DESC
	`, pattern, pattern, pattern).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetCustomersQueryResponse
		var firstOrder, lastOrder time.Time

		err = rows.Scan(
			&resp.Email,
			&resp.Name,
			&resp.Orders,
			&resp.TotalSpentCents,
			&firstOrder,
			&lastOrder,
		)
		if err != nil {
			return nil, err
		}

		resp.FirstOrderAt = firstOrder.UTC().Format(time.RFC3339)
		resp.LastOrderAt = lastOrder.UTC().Format(time.RFC3339)
		customers = append(customers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}
