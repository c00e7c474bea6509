package queries

import (
	"errors"
	"strings"

	"phantomtrack/internal/pkg/guard"
)

var ErrGetCustomersQueryIsNotConstructed = errors.New(
	"GetCustomersQuery must be created via NewGetCustomersQuery constructor",
)

// GetCustomersQuery retrieves the customer roll-up: one row per customer
// email with order count and lifetime revenue, biggest spenders first.
// An optional search term filters by email or shipping name substring.
type GetCustomersQuery struct {
	search string

	guard guard.ConstructorGuard
}

// NewGetCustomersQuery creates a customer roll-up query. The search term may
// be empty.
func NewGetCustomersQuery(search string) GetCustomersQuery {
	return GetCustomersQuery{
		search: strings.TrimSpace(search),
		guard:  guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCustomersQueryIsNotConstructed if validation fails.
func (q GetCustomersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomersQueryIsNotConstructed)
}

// Search returns the optional filter term.
func (q GetCustomersQuery) Search() string {
	return q.search
}

// GetCustomersQueryResponse is one customer roll-up row.
type GetCustomersQueryResponse struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Orders          int64  `json:"orders"`
	TotalSpentCents int64  `json:"total_spent_cents"`
	FirstOrderAt    string `json:"first_order_at"`
	LastOrderAt     string `json:"last_order_at"`
}
