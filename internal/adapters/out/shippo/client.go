// Package shippo implements the carrier client port against the Shippo
// rate-aggregator API.
package shippo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"phantomtrack/internal/core/domain/model/shipping"
)

const defaultBaseURL = "https://api.goshippo.com"

// Client talks to the Shippo REST API. Shipments are created synchronously
// (async:false) so rates come back in the create response, and labels are
// requested as PDF.
type Client struct {
	apiToken   string
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

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Shippo API client authenticated with the given token.
func NewClient(apiToken string, opts ...Option) *Client {
	c := &Client{
		apiToken: apiToken,
		baseURL:  defaultBaseURL,
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
	Name    string `json:"name,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type shipmentRequest struct {
	AddressFrom addressPayload    `json:"address_from"`
	AddressTo   addressPayload    `json:"address_to"`
	Parcels     []shipping.Parcel `json:"parcels"`
	Async       bool              `json:"async"`
}

type ratePayload struct {
	ObjectID     string `json:"object_id"`
	Provider     string `json:"provider"`
	ServiceLevel struct {
		Name string `json:"name"`
	} `json:"servicelevel"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type shipmentResponse struct {
	ObjectID string        `json:"object_id"`
	Rates    []ratePayload `json:"rates"`
}

type transactionRequest struct {
	Rate          string `json:"rate"`
	Async         bool   `json:"async"`
	LabelFileType string `json:"label_file_type"`
}

type transactionResponse struct {
	ObjectID            string `json:"object_id"`
	Status              string `json:"status"`
	TrackingNumber      string `json:"tracking_number"`
	LabelURL            string `json:"label_url"`
	TrackingURLProvider string `json:"tracking_url_provider"`
	Rate                struct {
		Provider string `json:"provider"`
	} `json:"rate"`
	Messages []shipping.TransactionMessage `json:"messages"`
}

// CreateShipment submits the shipment and returns the provider reference with
// the quoted rates. Rates whose amount does not parse are skipped.
func (c *Client) CreateShipment(ctx context.Context, shipment shipping.Shipment) (string, []shipping.Rate, error) {
	req := shipmentRequest{
		AddressFrom: toAddressPayload(shipment.From),
		AddressTo:   toAddressPayload(shipment.To),
		Parcels:     []shipping.Parcel{shipment.Parcel},
		Async:       false,
	}

	var resp shipmentResponse
	if err := c.doRequest(ctx, http.MethodPost, "/shipments/", req, &resp); err != nil {
		return "", nil, fmt.Errorf("shippo create shipment: %w", err)
	}

	rates := make([]shipping.Rate, 0, len(resp.Rates))
	for _, r := range resp.Rates {
		amount, err := strconv.ParseFloat(r.Amount, 64)
		if err != nil {
			continue
		}
		rates = append(rates, shipping.Rate{
			ObjectID:     r.ObjectID,
			Provider:     r.Provider,
			ServiceLevel: r.ServiceLevel.Name,
			Amount:       amount,
			Currency:     r.Currency,
		})
	}

	return resp.ObjectID, rates, nil
}

// PurchaseLabel buys a PDF label for the rate. A provider-side rejection
// comes back as a transaction with a non-success status, not as an error.
func (c *Client) PurchaseLabel(ctx context.Context, rateObjectID string) (shipping.Transaction, error) {
	req := transactionRequest{
		Rate:          rateObjectID,
		Async:         false,
		LabelFileType: "PDF",
	}

	var resp transactionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/transactions/", req, &resp); err != nil {
		return shipping.Transaction{}, fmt.Errorf("shippo purchase label: %w", err)
	}

	return shipping.Transaction{
		ObjectID:       resp.ObjectID,
		Status:         resp.Status,
		LabelURL:       resp.LabelURL,
		TrackingNumber: resp.TrackingNumber,
		TrackingURL:    resp.TrackingURLProvider,
		RateProvider:   resp.Rate.Provider,
		Messages:       resp.Messages,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "ShippoToken "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	if out != nil {
		if err = json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func toAddressPayload(a shipping.Address) addressPayload {
	return addressPayload{
		Name:    a.Name,
		Street1: a.Line1,
		Street2: a.Line2,
		City:    a.City,
		State:   a.State,
		Zip:     a.PostalCode,
		Country: a.Country,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}
