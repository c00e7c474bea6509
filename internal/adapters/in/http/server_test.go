package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"phantomtrack/internal/core/application/usecases/commands"
	"phantomtrack/internal/core/application/usecases/queries"
	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelErrorMapping(t *testing.T) {
	server := &Server{}

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "incomplete address",
			err:      &shipping.IncompleteAddressError{Missing: []string{"city", "postal_code"}},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "all rates failed",
			err: commands.NewLabelPurchaseError([]shipping.AttemptFailure{
				{Provider: "usps", Status: "ERROR"},
			}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "no rates",
			err:      commands.ErrNoRatesAvailable,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "already purchased",
			err:      commands.ErrLabelAlreadyPurchased,
			wantCode: http.StatusConflict,
		},
		{
			name:     "order not found",
			err:      errs.NewObjectNotFoundError("orderID", "abc"),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unexpected failure",
			err:      errors.New("connection reset"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/x/label", nil)
			rec := httptest.NewRecorder()

			require.NoError(t, server.labelError(e.NewContext(req, rec), tt.err))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestLabelError_IncompleteAddressListsMissingFields(t *testing.T) {
	server := &Server{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/x/label", nil)
	rec := httptest.NewRecorder()

	err := &shipping.IncompleteAddressError{Missing: []string{"street1", "city"}}
	require.NoError(t, server.labelError(e.NewContext(req, rec), err))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"street1", "city"}, body.Missing)
}

func TestOwnsOrder(t *testing.T) {
	tests := []struct {
		name   string
		detail queries.GetOrderQueryResponse
		userID string
		email  string
		want   bool
	}{
		{
			name:   "owner by user id",
			detail: queries.GetOrderQueryResponse{UserID: "user-1"},
			userID: "user-1",
			want:   true,
		},
		{
			name:   "different user id",
			detail: queries.GetOrderQueryResponse{UserID: "user-1"},
			userID: "user-2",
			want:   false,
		},
		{
			name:   "owned order ignores matching email",
			detail: queries.GetOrderQueryResponse{UserID: "user-1", CustomerEmail: "jamie@example.com"},
			email:  "jamie@example.com",
			want:   false,
		},
		{
			name:   "guest order matches by email case-insensitively",
			detail: queries.GetOrderQueryResponse{CustomerEmail: "jamie@example.com"},
			email:  "Jamie@Example.com",
			want:   true,
		},
		{
			name:   "guest order with different email",
			detail: queries.GetOrderQueryResponse{CustomerEmail: "jamie@example.com"},
			email:  "mallory@example.com",
			want:   false,
		},
		{
			name:   "guest order without email never matches",
			detail: queries.GetOrderQueryResponse{},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ownsOrder(tt.detail, tt.userID, tt.email))
		})
	}
}

func TestGetMyOrder_RequiresIdentity(t *testing.T) {
	server := &Server{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/3f1c", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("3f1c")

	require.NoError(t, server.GetMyOrder(ctx))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMyOrder_RejectsInvalidOrderID(t *testing.T) {
	server := &Server{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	req.Header.Set(HeaderUserID, "user-1")
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("not-a-uuid")

	require.NoError(t, server.GetMyOrder(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLabel_RejectsInvalidOrderID(t *testing.T) {
	server := &Server{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/not-a-uuid/label", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("not-a-uuid")

	require.NoError(t, server.CreateLabel(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
