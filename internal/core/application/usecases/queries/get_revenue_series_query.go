package queries

import (
	"errors"

	"phantomtrack/internal/pkg/errs"
	"phantomtrack/internal/pkg/guard"
)

const (
	defaultSeriesDays = 30
	maxSeriesDays     = 365
)

var ErrGetRevenueSeriesQueryIsNotConstructed = errors.New(
	"GetRevenueSeriesQuery must be created via NewGetRevenueSeriesQuery constructor",
)

// GetRevenueSeriesQuery retrieves the daily order and revenue series for the
// analytics chart. Every day in the window appears in the result, including
// days with no orders, so the chart has no gaps.
type GetRevenueSeriesQuery struct {
	days int

	guard guard.ConstructorGuard
}

// NewGetRevenueSeriesQuery creates a revenue series query over the trailing
// window. Zero days falls back to the default window.
func NewGetRevenueSeriesQuery(days int) (GetRevenueSeriesQuery, error) {
	if days == 0 {
		days = defaultSeriesDays
	}
	if days < 0 || days > maxSeriesDays {
		return GetRevenueSeriesQuery{}, errs.NewValueIsOutOfRangeError("days", days, 1, maxSeriesDays)
	}

	return GetRevenueSeriesQuery{
		days:  days,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetRevenueSeriesQueryIsNotConstructed if validation fails.
func (q GetRevenueSeriesQuery) Validate() error {
	return q.guard.Validate(ErrGetRevenueSeriesQueryIsNotConstructed)
}

// Days returns the window length.
func (q GetRevenueSeriesQuery) Days() int {
	return q.days
}

// GetRevenueSeriesQueryResponse is one day of the analytics series.
type GetRevenueSeriesQueryResponse struct {
	Date         string `json:"date"`
	Orders       int64  `json:"orders"`
	RevenueCents int64  `json:"revenue_cents"`
}
