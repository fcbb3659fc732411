// Package gateway is the client for the payment gateway: it creates hosted
// checkout preferences and searches reported payments.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fbarbosa/cobrador/internal/billing"
	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Client talks to the payment gateway over HTTP with bearer-token auth.
type Client struct {
	baseURL     string
	accessToken string
	currencyID  string
	http        *http.Client
}

// NewClient creates a gateway client. currencyID is attached to every
// preference item (e.g. "BRL").
func NewClient(baseURL, accessToken, currencyID string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		currencyID:  currencyID,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

type preferenceItem struct {
	Title      string          `json:"title"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CurrencyID string          `json:"currency_id"`
}

type excludedPaymentType struct {
	ID string `json:"id"`
}

type preferencePayload struct {
	Items             []preferenceItem `json:"items"`
	ExternalReference string           `json:"external_reference"`
	Expires           bool             `json:"expires"`
	ExpirationFrom    string           `json:"expiration_date_from"`
	ExpirationTo      string           `json:"expiration_date_to"`
	PaymentMethods    struct {
		ExcludedPaymentTypes   []excludedPaymentType `json:"excluded_payment_types"`
		DefaultPaymentMethodID string                `json:"default_payment_method_id"`
	} `json:"payment_methods"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
	Message   string `json:"message"`
}

type searchResponse struct {
	Results []models.GatewayPayment `json:"results"`
}

// CreatePreference creates a hosted checkout preference. Only a 201 response
// yields a preference; anything else is ErrGatewayRejected, so the caller
// never sees a half-created payment link.
func (c *Client) CreatePreference(ctx context.Context, req billing.PreferenceRequest) (billing.Preference, error) {
	payload := preferencePayload{
		ExternalReference: req.ExternalReference,
		Expires:           true,
		ExpirationFrom:    req.ValidFrom.Format(time.RFC3339),
		ExpirationTo:      req.ValidUntil.Format(time.RFC3339),
	}
	for _, item := range req.Items {
		payload.Items = append(payload.Items, preferenceItem{
			Title:      item.Title,
			Quantity:   1,
			UnitPrice:  item.Amount.Round(2),
			CurrencyID: c.currencyID,
		})
	}
	// Checkout is restricted to instant transfers; card, boleto and wallet
	// balance are excluded.
	payload.PaymentMethods.ExcludedPaymentTypes = []excludedPaymentType{
		{ID: "credit_card"}, {ID: "debit_card"}, {ID: "ticket"}, {ID: "balance"},
	}
	payload.PaymentMethods.DefaultPaymentMethodID = "pix"

	body, err := json.Marshal(payload)
	if err != nil {
		return billing.Preference{}, fmt.Errorf("encoding preference payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return billing.Preference{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return billing.Preference{}, fmt.Errorf("creating preference: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusCreated {
		var pr preferenceResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&pr)
		log.WithFields(logrus.Fields{
			"status":             resp.StatusCode,
			"external_reference": req.ExternalReference,
			"message":            pr.Message,
		}).Error("Gateway rejected preference creation")
		return billing.Preference{}, fmt.Errorf("gateway returned %d (%s): %w",
			resp.StatusCode, pr.Message, billing.ErrGatewayRejected)
	}

	var pr preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return billing.Preference{}, fmt.Errorf("decoding preference response: %w", err)
	}

	return billing.Preference{ID: pr.ID, Link: pr.InitPoint}, nil
}

// SearchPayments returns the gateway's reported payments, most recent first.
func (c *Client) SearchPayments(ctx context.Context) ([]models.GatewayPayment, error) {
	url := c.baseURL + "/v1/payments/search?sort=date_created&criteria=desc"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching payments: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gateway search returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding payment search response: %w", err)
	}
	return sr.Results, nil
}
