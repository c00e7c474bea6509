// Package http exposes the fulfillment service over REST. It coordinates
// between HTTP handlers and application use cases: binding and status-code
// mapping live here, business rules stay in the handlers it delegates to.
package http

import (
	"errors"
	"net/http"
	"strings"

	"phantomtrack/internal/core/application/usecases/commands"
	"phantomtrack/internal/core/application/usecases/queries"
	"phantomtrack/internal/core/domain/model/kernel"
	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server holds the command and query handlers behind the REST surface.
type Server struct {
	createLabelHandler    commands.CreateLabelCommandHandler
	syncOrderHandler      commands.SyncOrderCommandHandler
	applyTrackingHandler  commands.ApplyTrackingUpdateCommandHandler
	updateTrackingHandler commands.UpdateTrackingCommandHandler

	getOrderHandler       queries.GetOrderQueryHandler
	getOrdersHandler      queries.GetOrdersQueryHandler
	getAdminStatsHandler  queries.GetAdminStatsQueryHandler
	getRevenueHandler     queries.GetRevenueSeriesQueryHandler
	getCustomersHandler   queries.GetCustomersQueryHandler

	trackingWebhookSecret string
	checkoutWebhookSecret string
	accessPolicy          AccessPolicy
}

// NewServer creates the REST server. Webhook secrets must match what the
// carrier and the payment processor were configured with.
func NewServer(
	createLabelHandler commands.CreateLabelCommandHandler,
	syncOrderHandler commands.SyncOrderCommandHandler,
	applyTrackingHandler commands.ApplyTrackingUpdateCommandHandler,
	updateTrackingHandler commands.UpdateTrackingCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getAdminStatsHandler queries.GetAdminStatsQueryHandler,
	getRevenueHandler queries.GetRevenueSeriesQueryHandler,
	getCustomersHandler queries.GetCustomersQueryHandler,
	trackingWebhookSecret string,
	checkoutWebhookSecret string,
	accessPolicy AccessPolicy,
) *Server {
	return &Server{
		createLabelHandler:    createLabelHandler,
		syncOrderHandler:      syncOrderHandler,
		applyTrackingHandler:  applyTrackingHandler,
		updateTrackingHandler: updateTrackingHandler,
		getOrderHandler:       getOrderHandler,
		getOrdersHandler:      getOrdersHandler,
		getAdminStatsHandler:  getAdminStatsHandler,
		getRevenueHandler:     getRevenueHandler,
		getCustomersHandler:   getCustomersHandler,
		trackingWebhookSecret: trackingWebhookSecret,
		checkoutWebhookSecret: checkoutWebhookSecret,
		accessPolicy:          accessPolicy,
	}
}

// RegisterRoutes wires every endpoint onto the echo instance. Back-office
// routes sit behind the access-policy middleware; webhooks authenticate
// themselves per request.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/openapi.json", s.OpenAPIDocument)

	api := e.Group("/api/v1")
	api.POST("/orders/sync", s.SyncOrder)
	api.GET("/orders/:id", s.GetMyOrder)
	api.POST("/webhooks/tracking", s.TrackingWebhook)
	api.POST("/webhooks/checkout", s.CheckoutWebhook)

	backOffice := api.Group("", RequireBackOfficeAccess(s.accessPolicy))
	backOffice.POST("/orders/:id/label", s.CreateLabel)
	backOffice.POST("/orders/:id/tracking", s.UpdateTracking)
	backOffice.GET("/admin/orders", s.ListOrders)
	backOffice.GET("/admin/orders/:id", s.GetOrder)
	backOffice.GET("/admin/stats", s.AdminStats)
	backOffice.GET("/admin/analytics", s.RevenueSeries)
	backOffice.GET("/admin/customers", s.Customers)
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code     int                       `json:"code"`
	Message  string                    `json:"message"`
	Missing  []string                  `json:"missing_fields,omitempty"`
	Attempts []shipping.AttemptFailure `json:"attempts,omitempty"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type createLabelResponse struct {
	TrackingNumber string  `json:"tracking_number"`
	Carrier        string  `json:"carrier"`
	TrackingURL    string  `json:"tracking_url"`
	LabelURL       string  `json:"label_url"`
	RateAmount     float64 `json:"rate_amount"`
	RateCurrency   string  `json:"rate_currency"`
}

// CreateLabel handles POST /api/v1/orders/:id/label - purchases a shipping
// label for the order.
func (s *Server) CreateLabel(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewCreateLabelCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	result, err := s.createLabelHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.labelError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, createLabelResponse{
		TrackingNumber: result.TrackingNumber,
		Carrier:        result.Carrier,
		TrackingURL:    result.TrackingURL,
		LabelURL:       result.LabelURL,
		RateAmount:     result.RateAmount,
		RateCurrency:   result.RateCurrency,
	})
}

// labelError maps label purchase failures onto status codes: address and
// carrier problems are 400s the operator can act on, a missing order is 404,
// a concurrent duplicate purchase is 409, anything else is a 500.
func (s *Server) labelError(ctx echo.Context, err error) error {
	var incomplete *shipping.IncompleteAddressError
	if errors.As(err, &incomplete) {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: incomplete.Error(),
			Missing: incomplete.Missing,
		})
	}

	var purchase *commands.LabelPurchaseError
	if errors.As(err, &purchase) {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:     http.StatusBadRequest,
			Message:  purchase.Error(),
			Attempts: purchase.Attempts,
		})
	}

	switch {
	case errors.Is(err, commands.ErrNoRatesAvailable),
		errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrLabelAlreadyPurchased):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
	}
}

type syncOrderRequest struct {
	SessionRef string `json:"session_ref"`
	UserID     string `json:"user_id"`
}

// SyncOrder handles POST /api/v1/orders/sync - materializes a paid checkout
// session as an order record. Called by the storefront after checkout.
func (s *Server) SyncOrder(ctx echo.Context) error {
	var req syncOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewSyncOrderCommand(req.SessionRef, req.UserID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err = s.syncOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		switch {
		case errors.Is(err, commands.ErrCheckoutSessionNotPaid):
			return ctx.JSON(http.StatusConflict, ErrorResponse{
				Code:    http.StatusConflict,
				Message: err.Error(),
			})
		case errors.Is(err, commands.ErrCheckoutSessionNotOwned):
			return ctx.JSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: err.Error(),
			})
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to sync order",
		})
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"synced": true})
}

type updateTrackingRequest struct {
	TrackingNumber    string `json:"tracking_number"`
	Carrier           string `json:"carrier"`
	TrackingURL       string `json:"tracking_url"`
	FulfillmentStatus string `json:"fulfillment_status"`
}

// UpdateTracking handles POST /api/v1/orders/:id/tracking - applies an
// operator's hand-entered tracking fields.
func (s *Server) UpdateTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var req updateTrackingRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	status, err := order.ParseFulfillmentStatus(req.FulfillmentStatus)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	cmd, err := commands.NewUpdateTrackingCommand(orderID, req.TrackingNumber, req.Carrier, req.TrackingURL, status)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err = s.updateTrackingHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to update tracking",
		})
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"updated": true})
}

// ownsOrder reports whether the forwarded identity may read the order. An
// order with a user id belongs to that user; orders from guest checkouts fall
// back to the confirmation email address.
func ownsOrder(detail queries.GetOrderQueryResponse, userID, email string) bool {
	if detail.UserID != "" {
		return detail.UserID == userID
	}
	return detail.CustomerEmail != "" && strings.EqualFold(detail.CustomerEmail, email)
}

// GetMyOrder handles GET /api/v1/orders/:id - the customer-facing order
// detail. The caller only sees orders the forwarded identity owns; anything
// else reads as not found so order ids cannot be probed.
func (s *Server) GetMyOrder(ctx echo.Context) error {
	userID := ctx.Request().Header.Get(HeaderUserID)
	email := ctx.Request().Header.Get(HeaderUserEmail)
	if userID == "" && email == "" {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	detail, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	if !ownsOrder(detail, userID, email) {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	}

	return ctx.JSON(http.StatusOK, detail)
}

// GetOrder handles GET /api/v1/admin/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	detail, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	return ctx.JSON(http.StatusOK, detail)
}

// ListOrders handles GET /api/v1/admin/orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		if err := echo.QueryParamsBinder(ctx).Int("limit", &limit).BindError(); err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid limit",
			})
		}
	}

	query, err := queries.NewGetOrdersQuery(limit)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	return ctx.JSON(http.StatusOK, orders)
}

// AdminStats handles GET /api/v1/admin/stats.
func (s *Server) AdminStats(ctx echo.Context) error {
	stats, err := s.getAdminStatsHandler.Handle(ctx.Request().Context(), queries.NewGetAdminStatsQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to compute stats",
		})
	}

	return ctx.JSON(http.StatusOK, stats)
}

// RevenueSeries handles GET /api/v1/admin/analytics.
func (s *Server) RevenueSeries(ctx echo.Context) error {
	days := 0
	if raw := ctx.QueryParam("days"); raw != "" {
		if err := echo.QueryParamsBinder(ctx).Int("days", &days).BindError(); err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid days",
			})
		}
	}

	query, err := queries.NewGetRevenueSeriesQuery(days)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	series, err := s.getRevenueHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to compute analytics",
		})
	}

	return ctx.JSON(http.StatusOK, series)
}

// Customers handles GET /api/v1/admin/customers.
func (s *Server) Customers(ctx echo.Context) error {
	query := queries.NewGetCustomersQuery(ctx.QueryParam("search"))

	customers, err := s.getCustomersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve customers",
		})
	}

	return ctx.JSON(http.StatusOK, customers)
}
