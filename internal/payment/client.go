package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nexusvision/studio/internal/config"
	"github.com/nexusvision/studio/pkg/models"
)

// Client talks to the Mercado Pago preference API.
type Client struct {
	baseURL         string
	accessToken     string
	successURL      string
	failureURL      string
	notificationURL string
	client          *http.Client
}

// NewClient creates a new payment client
func NewClient(cfg config.PaymentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:         cfg.BaseURL,
		accessToken:     cfg.AccessToken,
		successURL:      cfg.SuccessURL,
		failureURL:      cfg.FailureURL,
		notificationURL: cfg.NotificationURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type preferenceRequest struct {
	Items             []models.CheckoutItem `json:"items"`
	Payer             models.CheckoutPayer  `json:"payer"`
	BackURLs          backURLs              `json:"back_urls"`
	AutoReturn        string                `json:"auto_return"`
	NotificationURL   string                `json:"notification_url,omitempty"`
	ExternalReference string                `json:"external_reference"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
}

// CreatePreference creates a checkout preference for a plan purchase. The
// external reference carries the user and plan so the webhook consumer can
// apply the entitlement without any other lookup.
func (c *Client) CreatePreference(ctx context.Context, items []models.CheckoutItem, payer models.CheckoutPayer, userID string, planID models.PlanID) (*models.CheckoutPreference, error) {
	body, err := json.Marshal(preferenceRequest{
		Items: items,
		Payer: payer,
		BackURLs: backURLs{
			Success: c.successURL,
			Failure: c.failureURL,
		},
		AutoReturn:        "approved",
		NotificationURL:   c.notificationURL,
		ExternalReference: EncodeReference(userID, planID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create preference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, respBody)
	}

	var preference models.CheckoutPreference
	if err := json.Unmarshal(respBody, &preference); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if preference.RedirectURL() == "" {
		return nil, fmt.Errorf("payment gateway returned no checkout URL")
	}

	return &preference, nil
}
