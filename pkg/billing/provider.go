package billing

import (
	"context"
	"net/http"
)

// Provider defines the minimal interface for billing provider
// integrations. The provider handles all payment complexity through its
// hosted checkout; this service only needs to create checkout sessions
// and consume the provider's webhook stream.
//
// Implementations must verify webhook signatures before returning any
// event data, and must decode payloads against known event shapes
// instead of trusting a cast, failing closed to EventIgnored on
// unrecognized or malformed input.
type Provider interface {
	// CreateCheckout creates a hosted checkout session with the external
	// user identity attached so the resulting billing customer can be
	// linked back to the local record.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)

	// ParseWebhook authenticates and decodes an incoming webhook payload.
	// Returns ErrSignatureInvalid when the payload cannot be
	// authenticated; such payloads must never reach the store.
	ParseWebhook(ctx context.Context, payload []byte, header http.Header) (*Event, error)
}

// CheckoutRequest contains the data needed to create a checkout session.
type CheckoutRequest struct {
	ProductID      string // provider's product/price identifier
	ExternalUserID string // stable id from the identity provider
	SuccessURL     string // redirect after successful payment
}

// Checkout represents a hosted checkout session.
type Checkout struct {
	ID  string // provider's session identifier
	URL string // hosted checkout URL to redirect the caller to
}

// EventType is the normalized billing event type. Each provider
// implementation maps its specific event names onto this set.
type EventType string

const (
	// EventSubscriptionActivated reports a subscription that is created
	// or became active; the local record flips to the paid tier.
	EventSubscriptionActivated EventType = "subscription_activated"

	// EventSubscriptionRevoked reports a canceled or revoked
	// subscription; the local record falls back to the free tier.
	EventSubscriptionRevoked EventType = "subscription_revoked"

	// EventCheckoutObserved reports checkout session progress. It is
	// observability only and never mutates state.
	EventCheckoutObserved EventType = "checkout_observed"

	// EventIgnored is returned for every authenticated event this
	// service does not act on, including malformed payload shapes.
	EventIgnored EventType = "ignored"
)

// Event is a normalized webhook event from the billing provider.
// ExternalUserID is the reconciliation key; subscription events that
// arrive without it cannot be attributed to an identity and are dropped
// by the ingestion layer.
type Event struct {
	Type           EventType
	ProviderEvent  string // original provider event name
	ExternalUserID string
	CustomerID     string // provider's customer id
	SubscriptionID string // provider's subscription id
	CheckoutID     string
	CheckoutStatus string
}
