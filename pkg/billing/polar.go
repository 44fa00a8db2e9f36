package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PolarConfig holds configuration for the Polar billing provider.
type PolarConfig struct {
	AccessToken   string `env:"POLAR_ACCESS_TOKEN,required"`
	WebhookSecret string `env:"POLAR_WEBHOOK_SECRET,required"`
	Environment   string `env:"POLAR_ENVIRONMENT" envDefault:"production"`

	// BaseURL overrides the environment-derived API endpoint.
	// Intended for tests and API proxies.
	BaseURL string `env:"POLAR_BASE_URL"`
}

const (
	polarBaseURLProduction = "https://api.polar.sh"
	polarBaseURLSandbox    = "https://sandbox-api.polar.sh"

	polarRequestTimeout = 15 * time.Second
)

// PolarProvider implements Provider for Polar. The REST surface this
// service needs is a single checkout-create call, so the provider talks
// to the API directly instead of pulling in a generated SDK.
type PolarProvider struct {
	httpClient *http.Client
	baseURL    string
	config     PolarConfig
	now        func() time.Time
}

// NewPolarProvider creates a Polar billing provider.
func NewPolarProvider(cfg PolarConfig) (*PolarProvider, error) {
	if cfg.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var baseURL string
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		baseURL = polarBaseURLSandbox
	case "production", "":
		baseURL = polarBaseURLProduction
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvironment, cfg.Environment)
	}
	if cfg.BaseURL != "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &PolarProvider{
		httpClient: &http.Client{Timeout: polarRequestTimeout},
		baseURL:    baseURL,
		config:     cfg,
		now:        time.Now,
	}, nil
}

// CreateCheckout creates a hosted checkout session in Polar with the
// external user identity attached as the external customer id.
func (p *PolarProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if req.ProductID == "" {
		return nil, ErrMissingProductID
	}
	if req.ExternalUserID == "" {
		return nil, ErrMissingExternalUserID
	}

	body, err := json.Marshal(map[string]any{
		"products":             []string{req.ProductID},
		"external_customer_id": req.ExternalUserID,
		"success_url":          req.SuccessURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/checkouts/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.config.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: checkout create returned %d: %s",
			ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if session.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &Checkout{ID: session.ID, URL: session.URL}, nil
}

// ParseWebhook authenticates a Polar webhook delivery and decodes its
// envelope into a normalized Event. The envelope is validated against
// the known event-type shapes; anything unrecognized or malformed fails
// closed to EventIgnored rather than an error, because an authenticated
// event this service cannot act on is not a delivery failure.
func (p *PolarProvider) ParseWebhook(ctx context.Context, payload []byte, header http.Header) (*Event, error) {
	if err := verifyStandardSignature(p.config.WebhookSecret, payload, header, p.now()); err != nil {
		return nil, err
	}

	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.Type == "" {
		return &Event{Type: EventIgnored}, nil
	}

	event := &Event{Type: EventIgnored, ProviderEvent: envelope.Type}

	switch envelope.Type {
	case "subscription.created", "subscription.active":
		if data, ok := decodePolarSubscription(envelope.Data); ok {
			event.Type = EventSubscriptionActivated
			event.ExternalUserID = data.Customer.ExternalID
			event.CustomerID = data.CustomerID
			event.SubscriptionID = data.ID
		}

	case "subscription.canceled", "subscription.revoked":
		if data, ok := decodePolarSubscription(envelope.Data); ok {
			event.Type = EventSubscriptionRevoked
			event.ExternalUserID = data.Customer.ExternalID
			event.CustomerID = data.CustomerID
			event.SubscriptionID = data.ID
		}

	case "checkout.created", "checkout.updated":
		var data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(envelope.Data, &data); err == nil && data.ID != "" {
			event.Type = EventCheckoutObserved
			event.CheckoutID = data.ID
			event.CheckoutStatus = data.Status
		}
	}

	return event, nil
}

type polarSubscriptionData struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Customer   struct {
		ExternalID string `json:"external_id"`
	} `json:"customer"`
}

func decodePolarSubscription(raw json.RawMessage) (polarSubscriptionData, bool) {
	var data polarSubscriptionData
	if err := json.Unmarshal(raw, &data); err != nil || data.ID == "" {
		return polarSubscriptionData{}, false
	}
	return data, true
}
