package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig holds configuration for the Paddle billing provider.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleProvider implements Provider for Paddle. Paddle has no external
// customer id concept on subscriptions, so the external user identity
// travels through transaction custom data and comes back on webhook
// payloads the same way.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
}

// NewPaddleProvider creates a Paddle billing provider.
func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAccessToken
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var client *paddle.SDK
	var err error
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvironment, cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
	}, nil
}

// CreateCheckout creates a Paddle transaction for a catalog price and
// returns its hosted checkout URL. ProductID is the Paddle price id.
func (p *PaddleProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if req.ProductID == "" {
		return nil, ErrMissingProductID
	}
	if req.ExternalUserID == "" {
		return nil, ErrMissingExternalUserID
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.ProductID,
		Quantity: 1,
	})
	transactionReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"external_user_id": req.ExternalUserID,
		},
	}
	if req.SuccessURL != "" {
		transactionReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(req.SuccessURL),
		}
	}

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, transactionReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if transaction.Checkout == nil || transaction.Checkout.URL == nil || *transaction.Checkout.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &Checkout{ID: transaction.ID, URL: *transaction.Checkout.URL}, nil
}

// ParseWebhook authenticates a Paddle webhook delivery and maps its
// event onto the normalized set. The Paddle SDK verifier works on an
// http.Request, so one is rebuilt around the payload.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, header http.Header) (*Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Paddle-Signature", header.Get("Paddle-Signature"))

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	if !valid {
		return nil, ErrSignatureInvalid
	}

	var envelope struct {
		EventType string          `json:"event_type"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.EventType == "" {
		return &Event{Type: EventIgnored}, nil
	}

	event := &Event{Type: EventIgnored, ProviderEvent: envelope.EventType}

	switch envelope.EventType {
	case "subscription.created", "subscription.activated":
		if data, ok := decodePaddleSubscription(envelope.Data); ok {
			event.Type = EventSubscriptionActivated
			event.ExternalUserID = data.CustomData.ExternalUserID
			event.CustomerID = data.CustomerID
			event.SubscriptionID = data.ID
		}

	case "subscription.canceled", "subscription.past_due":
		if data, ok := decodePaddleSubscription(envelope.Data); ok {
			event.Type = EventSubscriptionRevoked
			event.ExternalUserID = data.CustomData.ExternalUserID
			event.CustomerID = data.CustomerID
			event.SubscriptionID = data.ID
		}

	case "transaction.created", "transaction.updated":
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

type paddleSubscriptionData struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	CustomData struct {
		ExternalUserID string `json:"external_user_id"`
	} `json:"custom_data"`
}

func decodePaddleSubscription(raw json.RawMessage) (paddleSubscriptionData, bool) {
	var data paddleSubscriptionData
	if err := json.Unmarshal(raw, &data); err != nil || data.ID == "" {
		return paddleSubscriptionData{}, false
	}
	return data, true
}
