package http

import (
	"net/http"

	"phantomtrack/internal/core/domain/model/account"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the auth proxy in front of this service. The proxy
// terminates the session and forwards the verified user, so the service
// trusts these values as-is.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

// AccessPolicy decides who may use the back-office endpoints.
type AccessPolicy struct {
	// AdminEmails is the allow-list fallback for operators whose auth
	// metadata carries no role.
	AdminEmails []string
}

// RequireBackOfficeAccess rejects requests whose forwarded identity has no
// back-office capability. Missing identity headers yield 401, a known
// identity without access yields 403.
func RequireBackOfficeAccess(policy AccessPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			email := ctx.Request().Header.Get(HeaderUserEmail)
			role := account.ParseRole(ctx.Request().Header.Get(HeaderUserRole))

			if email == "" && role == "" {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "Authentication required",
				})
			}

			if !account.HasBackOfficeAccess(role, email, policy.AdminEmails) {
				return ctx.JSON(http.StatusForbidden, ErrorResponse{
					Code:    http.StatusForbidden,
					Message: "Back-office access required",
				})
			}

			return next(ctx)
		}
	}
}
