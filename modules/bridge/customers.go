package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/polarbridge/pkg/customer"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleGetCustomer returns the stored record for an external user id.
func (m *Module) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	c, err := m.customers.GetByUserID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, customer.ErrCustomerNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Customer not found"})
		case errors.Is(err, customer.ErrMissingUserID):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing userId"})
		default:
			m.log.ErrorContext(r.Context(), "customer lookup failed",
				slog.String("user_id", userID), slog.Any("error", err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// handleCreateCustomer provisions a free-tier record for the signed-in
// caller. Idempotent from the caller's perspective: a record that
// already exists is returned as-is.
func (m *Module) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := m.identity(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
		return
	}

	c, err := m.customers.Create(ctx, id.UserID, customer.MembershipFree)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerAlreadyExists) {
			if existing, err := m.customers.GetByUserID(ctx, id.UserID); err == nil {
				writeJSON(w, http.StatusOK, existing)
				return
			}
		}
		m.log.ErrorContext(ctx, "customer provisioning failed",
			slog.String("user_id", id.UserID), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// billingDataResponse mirrors the billing settings page read: the local
// record plus the account email, with the billing email populated only
// once a billing customer is linked.
type billingDataResponse struct {
	Customer     *customer.Customer `json:"customer"`
	AccountEmail string             `json:"accountEmail,omitempty"`
	BillingEmail string             `json:"billingEmail,omitempty"`
}

// handleBillingData aggregates billing settings data for the signed-in
// caller. Reads degrade softly: an unavailable store yields a null
// customer rather than an error, so the page still renders.
func (m *Module) handleBillingData(w http.ResponseWriter, r *http.Request) {
	id, err := m.identity(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
		return
	}

	data := m.customers.BillingData(r.Context(), id.UserID,
		func(context.Context, string) (string, error) { return id.Email, nil })

	writeJSON(w, http.StatusOK, billingDataResponse{
		Customer:     data.Customer,
		AccountEmail: data.AccountEmail,
		BillingEmail: data.BillingEmail,
	})
}
