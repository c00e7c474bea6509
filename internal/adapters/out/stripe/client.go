// Package stripe implements the checkout gateway port against the Stripe
// Checkout Sessions API.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"phantomtrack/internal/core/domain/model/order"
	"phantomtrack/internal/core/domain/model/shipping"
	"phantomtrack/internal/core/ports"
)

const defaultBaseURL = "https://api.stripe.com"

// Client retrieves checkout sessions with customer details, collected
// shipping details, and line items expanded in one call.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a Stripe API client authenticated with the secret key.
func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type addressPayload struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type partyPayload struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Address *addressPayload `json:"address"`
}

type lineItemPayload struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	AmountTotal int64  `json:"amount_total"`
}

type sessionPayload struct {
	ID                string        `json:"id"`
	ClientReferenceID string        `json:"client_reference_id"`
	Customer          string        `json:"customer"`
	PaymentStatus     string        `json:"payment_status"`
	AmountTotal       int64         `json:"amount_total"`
	Currency          string        `json:"currency"`
	Created           int64         `json:"created"`
	CustomerDetails   *partyPayload `json:"customer_details"`
	ShippingDetails   *partyPayload `json:"shipping_details"`
	LineItems         struct {
		Data []lineItemPayload `json:"data"`
	} `json:"line_items"`
}

// RetrieveSession fetches one checkout session by its reference.
func (c *Client) RetrieveSession(ctx context.Context, sessionRef string) (ports.CheckoutSessionFacts, error) {
	endpoint := fmt.Sprintf("%s/v1/checkout/sessions/%s?%s",
		c.baseURL, url.PathEscape(sessionRef),
		url.Values{"expand[]": []string{"line_items", "customer_details"}}.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.CheckoutSessionFacts{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.CheckoutSessionFacts{}, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.CheckoutSessionFacts{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.CheckoutSessionFacts{}, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var payload sessionPayload
	if err = json.Unmarshal(respBytes, &payload); err != nil {
		return ports.CheckoutSessionFacts{}, fmt.Errorf("decode response: %w", err)
	}

	return toFacts(payload), nil
}

func toFacts(payload sessionPayload) ports.CheckoutSessionFacts {
	facts := order.CheckoutFacts{
		PaymentCustomerRef: payload.Customer,
		PaymentStatus:      payload.PaymentStatus,
		AmountTotalCents:   payload.AmountTotal,
		Currency:           payload.Currency,
		CreatedAt:          time.Unix(payload.Created, 0).UTC(),
	}

	var customerAddress *shipping.Address
	if cd := payload.CustomerDetails; cd != nil {
		facts.CustomerEmail = cd.Email
		customerAddress = toAddress(cd.Address, cd.Name, cd.Phone, cd.Email)
	}

	if sd := payload.ShippingDetails; sd != nil {
		facts.ShippingName = sd.Name
		facts.ShippingPhone = sd.Phone
		facts.ShippingAddress = toAddress(sd.Address, sd.Name, sd.Phone, "")
	}

	items := make([]order.LineItem, 0, len(payload.LineItems.Data))
	for _, item := range payload.LineItems.Data {
		items = append(items, order.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			AmountCents: item.AmountTotal,
		})
	}
	facts.LineItems = items

	return ports.CheckoutSessionFacts{
		SessionRef:        payload.ID,
		ClientReferenceID: payload.ClientReferenceID,
		Facts:             facts,
		CustomerAddress:   customerAddress,
	}
}

func toAddress(a *addressPayload, name, phone, email string) *shipping.Address {
	if a == nil {
		return nil
	}
	return &shipping.Address{
		Name:       name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      phone,
		Email:      email,
	}
}
