package queries

import (
	"errors"

	"phantomtrack/internal/pkg/guard"
)

var ErrGetAdminStatsQueryIsNotConstructed = errors.New(
	"GetAdminStatsQuery must be created via NewGetAdminStatsQuery constructor",
)

// GetAdminStatsQuery retrieves the dashboard KPI block: order and revenue
// counts for today and the trailing week, plus fulfillment backlog gauges.
type GetAdminStatsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAdminStatsQuery creates a parameterless dashboard stats query.
func NewGetAdminStatsQuery() GetAdminStatsQuery {
	return GetAdminStatsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAdminStatsQueryIsNotConstructed if validation fails.
func (q GetAdminStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetAdminStatsQueryIsNotConstructed)
}

// GetAdminStatsQueryResponse is the dashboard KPI block. Revenue figures are
// in cents; PendingFulfillment counts unshipped orders and NeedsLabel the
// subset that also has no tracking number yet.
type GetAdminStatsQueryResponse struct {
	OrdersToday        int64 `json:"orders_today"`
	RevenueTodayCents  int64 `json:"revenue_today_cents"`
	OrdersWeek         int64 `json:"orders_week"`
	RevenueWeekCents   int64 `json:"revenue_week_cents"`
	PendingFulfillment int64 `json:"pending_fulfillment"`
	NeedsLabel         int64 `json:"needs_label"`
}
