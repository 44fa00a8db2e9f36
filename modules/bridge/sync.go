package bridge

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/polarbridge/pkg/customer"
)

// handleSync is the internal sync bridge endpoint: it accepts an upsert
// from a webhook handler running in a separate execution context and
// applies it to the local store. The contract is deliberately small:
// 400 without a userId, 500 on store failure, 200 "OK" otherwise.
func (m *Module) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SyncRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxWebhookBody)).Decode(&req); err != nil {
		m.metrics.syncRequest("bad_request")
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		m.metrics.syncRequest("bad_request")
		http.Error(w, "Missing userId", http.StatusBadRequest)
		return
	}

	// Callers that omit the tier mean the free default, matching the
	// upsert's insert behavior.
	if req.Membership == "" {
		req.Membership = customer.MembershipFree
	}

	if err := m.direct.Sync(ctx, req); err != nil {
		m.metrics.syncRequest("failed")
		m.log.ErrorContext(ctx, "sync bridge upsert failed",
			slog.String("user_id", req.UserID), slog.Any("error", err))
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	m.metrics.syncRequest("ok")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
