package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callProtected(t *testing.T, policy AccessPolicy, headers map[string]string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()

	reached := false
	handler := RequireBackOfficeAccess(policy)(func(ctx echo.Context) error {
		reached = true
		return ctx.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec, reached
}

func TestRequireBackOfficeAccess(t *testing.T) {
	policy := AccessPolicy{AdminEmails: []string{"ops@phantomtrack.dev"}}

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
		reached  bool
	}{
		{
			name:     "no identity",
			headers:  nil,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "staff role passes",
			headers:  map[string]string{HeaderUserEmail: "anyone@example.com", HeaderUserRole: "staff"},
			wantCode: http.StatusOK,
			reached:  true,
		},
		{
			name:     "admin role passes",
			headers:  map[string]string{HeaderUserRole: "admin"},
			wantCode: http.StatusOK,
			reached:  true,
		},
		{
			name:     "allow-listed email passes without role",
			headers:  map[string]string{HeaderUserEmail: "Ops@PhantomTrack.dev"},
			wantCode: http.StatusOK,
			reached:  true,
		},
		{
			name:     "known email without access",
			headers:  map[string]string{HeaderUserEmail: "customer@example.com"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "unknown role treated as no role",
			headers:  map[string]string{HeaderUserEmail: "customer@example.com", HeaderUserRole: "superuser"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, reached := callProtected(t, policy, tt.headers)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.reached, reached)
		})
	}
}
