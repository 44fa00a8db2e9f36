package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/polarbridge/pkg/customer"
)

// SyncRequest is the reconciled membership state the webhook path
// pushes into the customer store. Empty optional fields are left
// untouched on the stored record.
type SyncRequest struct {
	UserID              string              `json:"userId"`
	Membership          customer.Membership `json:"membership,omitempty"`
	PolarCustomerID     string              `json:"polarCustomerId,omitempty"`
	PolarSubscriptionID string              `json:"polarSubscriptionId,omitempty"`
}

func (r SyncRequest) update() customer.Update {
	var upd customer.Update
	if r.Membership != "" {
		m := r.Membership
		upd.Membership = &m
	}
	if r.PolarCustomerID != "" {
		v := r.PolarCustomerID
		upd.PolarCustomerID = &v
	}
	if r.PolarSubscriptionID != "" {
		v := r.PolarSubscriptionID
		upd.PolarSubscriptionID = &v
	}
	return upd
}

// Syncer pushes an upsert into the customer store. The indirection
// exists because the webhook handler and the store may run in different
// deployment boundaries; in a unified deployment DirectSyncer collapses
// it into an in-process call.
type Syncer interface {
	Sync(ctx context.Context, req SyncRequest) error
}

// DirectSyncer applies sync requests straight to the customer service.
type DirectSyncer struct {
	svc customer.Service
}

// NewDirectSyncer creates an in-process syncer.
// Panics on nil service to fail fast during initialization.
func NewDirectSyncer(svc customer.Service) *DirectSyncer {
	if svc == nil {
		panic("bridge: customer service is required")
	}
	return &DirectSyncer{svc: svc}
}

func (s *DirectSyncer) Sync(ctx context.Context, req SyncRequest) error {
	if req.UserID == "" {
		return customer.ErrMissingUserID
	}
	_, err := s.svc.UpsertByUserID(ctx, req.UserID, req.update())
	return err
}

// BridgeClient forwards sync requests to a remote sync bridge endpoint
// over HTTP, for deployments where the store runs in a separate
// execution context from the webhook handler.
type BridgeClient struct {
	url        string
	httpClient *http.Client
}

// NewBridgeClient creates a syncer that POSTs to the given bridge URL.
// Panics on an empty URL to fail fast during initialization.
func NewBridgeClient(url string) *BridgeClient {
	if url == "" {
		panic("bridge: sync bridge URL is required")
	}
	return &BridgeClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *BridgeClient) Sync(ctx context.Context, req SyncRequest) error {
	if req.UserID == "" {
		return customer.ErrMissingUserID
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode sync request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sync bridge unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sync bridge returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
