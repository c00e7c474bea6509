package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"phantomtrack/internal/core/application/usecases/commands"
	"phantomtrack/internal/core/domain/model/shipping"

	"github.com/labstack/echo/v4"
)

// checkoutSignatureTolerance bounds how old a signed checkout webhook may be
// before it is rejected as a replay.
const checkoutSignatureTolerance = 5 * time.Minute

// HeaderCheckoutSignature carries the payment processor's payload signature.
const HeaderCheckoutSignature = "Stripe-Signature"

// TrackingWebhook handles POST /api/v1/webhooks/tracking - carrier status
// pushes. The caller authenticates with a shared secret in the query string.
// Once the secret checks out the response is always 200 so the carrier never
// retries: unparseable payloads and unknown tracking numbers are logged by
// the command layer and acknowledged here.
func (s *Server) TrackingWebhook(ctx echo.Context) error {
	if subtle.ConstantTimeCompare(
		[]byte(ctx.QueryParam("secret")),
		[]byte(s.trackingWebhookSecret),
	) != 1 {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "Invalid webhook secret",
		})
	}

	acknowledge := func() error {
		return ctx.JSON(http.StatusOK, map[string]bool{"received": true})
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return acknowledge()
	}

	event, err := shipping.ParseTrackingEvent(body)
	if err != nil {
		return acknowledge()
	}

	cmd, err := commands.NewApplyTrackingUpdateCommand(event)
	if err != nil {
		return acknowledge()
	}

	// Processing failures are acknowledged too. The carrier cannot fix a
	// locked tracking number or a database outage by resending the push.
	_ = s.applyTrackingHandler.Handle(ctx.Request().Context(), cmd)

	return acknowledge()
}

type checkoutEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string `json:"id"`
			ClientReferenceID string `json:"client_reference_id"`
		} `json:"object"`
	} `json:"data"`
}

// CheckoutWebhook handles POST /api/v1/webhooks/checkout - the payment
// processor's event feed. The payload signature is verified against the
// endpoint's signing secret; completed checkout sessions are synced into
// order records, all other event types are acknowledged and ignored.
func (s *Server) CheckoutWebhook(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Unreadable payload",
		})
	}

	if err = verifyCheckoutSignature(
		ctx.Request().Header.Get(HeaderCheckoutSignature),
		body,
		s.checkoutWebhookSecret,
		time.Now(),
	); err != nil {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "Invalid signature",
		})
	}

	var event checkoutEvent
	if err = json.Unmarshal(body, &event); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid payload",
		})
	}

	if event.Type != "checkout.session.completed" {
		return ctx.JSON(http.StatusOK, map[string]bool{"received": true})
	}

	cmd, err := commands.NewSyncOrderCommand(event.Data.Object.ID, event.Data.Object.ClientReferenceID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err = s.syncOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		// Not-yet-paid sessions are a normal race with the async event
		// feed; acknowledge so the processor does not retry forever.
		if errors.Is(err, commands.ErrCheckoutSessionNotPaid) {
			return ctx.JSON(http.StatusOK, map[string]bool{"received": true})
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to process event",
		})
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"received": true})
}

// verifyCheckoutSignature checks the processor's "t=<unix>,v1=<hex hmac>"
// header: the HMAC-SHA256 of "<t>.<body>" under the signing secret must match
// one of the v1 entries, and the timestamp must be within tolerance.
func verifyCheckoutSignature(header string, body []byte, secret string, now time.Time) error {
	// An empty secret would let anyone forge the HMAC with the empty key.
	if secret == "" {
		return errors.New("signing secret not configured")
	}
	if header == "" {
		return errors.New("missing signature header")
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return errors.New("malformed signature header")
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp: %w", err)
	}
	age := now.Sub(time.Unix(unix, 0))
	if age > checkoutSignatureTolerance || age < -checkoutSignatureTolerance {
		return errors.New("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			return nil
		}
	}
	return errors.New("signature mismatch")
}
