package bridge

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns the module's HTTP routes.
//
// The webhook endpoint is public (authenticated by signature); the rest
// of the surface is internal and expected to sit behind the
// application's reverse proxy.
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/webhooks/billing", m.handleWebhook)
	r.Post("/updateCustomer", m.handleSync)
	r.Get("/checkout", m.handleCheckout)
	r.Get("/billing", m.handleBillingData)

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", m.handleCreateCustomer)
		r.Get("/{userID}", m.handleGetCustomer)
	})

	return r
}
