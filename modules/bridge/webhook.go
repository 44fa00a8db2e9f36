package bridge

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/polarbridge/pkg/billing"
	"github.com/dmitrymomot/polarbridge/pkg/customer"
)

// Webhook payloads are small event envelopes; anything larger is not a
// legitimate delivery.
const maxWebhookBody = 1 << 20

// handleWebhook ingests signed billing provider events. The response
// code follows the provider's retry contract: 2xx acknowledges the
// delivery (including events this service ignores or cannot attribute
// to an identity), non-2xx asks the provider to redeliver.
func (m *Module) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	event, err := m.provider.ParseWebhook(ctx, payload, r.Header)
	if err != nil {
		if errors.Is(err, billing.ErrSignatureInvalid) {
			m.metrics.webhookEvent("unknown", "rejected")
			m.log.WarnContext(ctx, "webhook rejected", slog.Any("error", err))
			http.Error(w, "Invalid signature", http.StatusForbidden)
			return
		}
		m.log.ErrorContext(ctx, "webhook parsing failed", slog.Any("error", err))
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	m.log.InfoContext(ctx, "billing webhook received",
		slog.String("event", event.ProviderEvent))

	switch event.Type {
	case billing.EventSubscriptionActivated:
		if !m.applySync(w, r, event, SyncRequest{
			UserID:              event.ExternalUserID,
			Membership:          customer.MembershipPro,
			PolarCustomerID:     event.CustomerID,
			PolarSubscriptionID: event.SubscriptionID,
		}) {
			return
		}

	case billing.EventSubscriptionRevoked:
		// The subscription id is left on the record intentionally, as a
		// trace of billing history. Only the tier falls back to free.
		if !m.applySync(w, r, event, SyncRequest{
			UserID:     event.ExternalUserID,
			Membership: customer.MembershipFree,
		}) {
			return
		}

	case billing.EventCheckoutObserved:
		m.metrics.webhookEvent(string(event.Type), "observed")
		m.log.InfoContext(ctx, "checkout progress",
			slog.String("event", event.ProviderEvent),
			slog.String("checkout_id", event.CheckoutID),
			slog.String("status", event.CheckoutStatus))

	default:
		m.metrics.webhookEvent(string(billing.EventIgnored), "ignored")
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// applySync pushes a subscription event through the syncer. Events that
// cannot be attributed to an identity are dropped with a log line, not
// retried; the provider has nothing better to redeliver. Store failures
// produce a 500 so the provider does redeliver. Returns false when a
// response has already been written.
func (m *Module) applySync(w http.ResponseWriter, r *http.Request, event *billing.Event, req SyncRequest) bool {
	ctx := r.Context()

	if req.UserID == "" {
		m.metrics.webhookEvent(string(event.Type), "dropped")
		m.log.WarnContext(ctx, "subscription event without external user id, dropping",
			slog.String("event", event.ProviderEvent),
			slog.String("subscription_id", event.SubscriptionID))
		return true
	}

	if err := m.syncer.Sync(ctx, req); err != nil {
		m.metrics.webhookEvent(string(event.Type), "failed")
		m.log.ErrorContext(ctx, "failed to sync customer",
			slog.String("event", event.ProviderEvent),
			slog.String("user_id", req.UserID),
			slog.Any("error", err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return false
	}

	m.metrics.webhookEvent(string(event.Type), "applied")
	return true
}
