package bridge

import (
	"log/slog"

	"github.com/dmitrymomot/polarbridge/pkg/billing"
	"github.com/dmitrymomot/polarbridge/pkg/customer"
)

// ModuleOptions configures the bridge module. Provider, Catalog and
// Customers are required; the rest default sensibly.
type ModuleOptions struct {
	Provider  billing.Provider
	Catalog   *billing.Catalog
	Customers customer.Service

	// Syncer is the path webhook-driven upserts take. Defaults to an
	// in-process DirectSyncer over Customers; set a BridgeClient when
	// the store runs in a separate deployment boundary.
	Syncer Syncer

	// Identity resolves the calling user for checkout and read
	// endpoints. Defaults to IdentityFromHeaders.
	Identity IdentityFunc

	// SuccessURL is the post-checkout redirect target.
	SuccessURL string

	Logger  *slog.Logger
	Metrics *Metrics
}

// Module is the HTTP surface of the billing bridge: webhook ingestion,
// the internal sync endpoint, checkout creation and customer reads.
type Module struct {
	provider   billing.Provider
	catalog    *billing.Catalog
	customers  customer.Service
	syncer     Syncer
	direct     Syncer
	identity   IdentityFunc
	successURL string
	log        *slog.Logger
	metrics    *Metrics
}

// New creates the bridge module.
// Panics if required dependencies are missing to fail fast during
// initialization.
func New(opts ModuleOptions) *Module {
	if opts.Provider == nil {
		panic("bridge: billing provider is required")
	}
	if opts.Catalog == nil {
		panic("bridge: product catalog is required")
	}
	if opts.Customers == nil {
		panic("bridge: customer service is required")
	}

	direct := NewDirectSyncer(opts.Customers)

	syncer := opts.Syncer
	if syncer == nil {
		syncer = direct
	}
	identity := opts.Identity
	if identity == nil {
		identity = IdentityFromHeaders
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Module{
		provider:   opts.Provider,
		catalog:    opts.Catalog,
		customers:  opts.Customers,
		syncer:     syncer,
		direct:     direct,
		identity:   identity,
		successURL: opts.SuccessURL,
		log:        log,
		metrics:    opts.Metrics,
	}
}
