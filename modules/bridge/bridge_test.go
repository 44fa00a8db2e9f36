package bridge_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polarbridge/modules/bridge"
	"github.com/dmitrymomot/polarbridge/pkg/billing"
	"github.com/dmitrymomot/polarbridge/pkg/customer"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateCheckout(ctx context.Context, req billing.CheckoutRequest) (*billing.Checkout, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Checkout), args.Error(1)
}

func (m *mockProvider) ParseWebhook(ctx context.Context, payload []byte, header http.Header) (*billing.Event, error) {
	args := m.Called(ctx, payload, header)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Event), args.Error(1)
}

type failingSyncer struct {
	err error
}

func (s *failingSyncer) Sync(ctx context.Context, req bridge.SyncRequest) error {
	return s.err
}

type testModule struct {
	module   *bridge.Module
	provider *mockProvider
	store    *customer.MemoryStore
}

func newTestModule(t *testing.T, opts ...func(*bridge.ModuleOptions)) testModule {
	t.Helper()

	provider := new(mockProvider)
	store := customer.NewMemoryStore()
	catalog, err := billing.NewCatalog(
		billing.Product{ID: "prod_pro", Name: "Pro Monthly", Tier: "pro"},
	)
	require.NoError(t, err)

	moduleOpts := bridge.ModuleOptions{
		Provider:   provider,
		Catalog:    catalog,
		Customers:  customer.NewService(store, nil),
		SuccessURL: "https://app.example.com/dashboard?checkout=success",
	}
	for _, opt := range opts {
		opt(&moduleOpts)
	}

	return testModule{
		module:   bridge.New(moduleOpts),
		provider: provider,
		store:    store,
	}
}
