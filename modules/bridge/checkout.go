package bridge

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/polarbridge/pkg/billing"
)

// handleCheckout creates a hosted checkout session for the signed-in
// caller and redirects to it. The external user id rides along on the
// session so the provider's webhooks can be linked back to the local
// record.
func (m *Module) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := m.identity(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
		return
	}

	productID := r.URL.Query().Get("products")
	if productID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing products"})
		return
	}
	if _, ok := m.catalog.Product(productID); !ok {
		m.metrics.checkout("unknown_product")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unknown product"})
		return
	}

	checkout, err := m.provider.CreateCheckout(ctx, billing.CheckoutRequest{
		ProductID:      productID,
		ExternalUserID: id.UserID,
		SuccessURL:     m.successURL,
	})
	if err != nil {
		m.metrics.checkout("failed")
		m.log.ErrorContext(ctx, "failed to create checkout",
			slog.String("product_id", productID),
			slog.String("user_id", id.UserID),
			slog.Any("error", err))
		status := http.StatusBadGateway
		if errors.Is(err, billing.ErrMissingProductID) || errors.Is(err, billing.ErrMissingExternalUserID) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: "Failed to create checkout"})
		return
	}

	m.metrics.checkout("created")
	m.log.InfoContext(ctx, "checkout session created",
		slog.String("checkout_id", checkout.ID),
		slog.String("product_id", productID))
	http.Redirect(w, r, checkout.URL, http.StatusFound)
}
