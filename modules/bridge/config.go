package bridge

import "fmt"

// Config holds the module's environment configuration.
type Config struct {
	// AppURL is the public base URL of the application. When empty, the
	// platform-provided domain is used, then a localhost default.
	AppURL        string `env:"APP_URL"`
	RailwayDomain string `env:"RAILWAY_PUBLIC_DOMAIN"`

	// SyncBridgeURL, when set, routes webhook-driven upserts through a
	// remote sync bridge instead of the in-process store.
	SyncBridgeURL string `env:"SYNC_BRIDGE_URL"`

	// Provider selects the billing provider implementation.
	Provider string `env:"BILLING_PROVIDER" envDefault:"polar"`

	// CatalogPath points at the YAML product catalog.
	CatalogPath string `env:"BILLING_CATALOG_PATH" envDefault:"catalog.yaml"`
}

// BaseURL resolves the public application base URL using the fallback
// chain: explicit app URL, platform-provided domain, localhost default.
func (c Config) BaseURL() string {
	if c.AppURL != "" {
		return c.AppURL
	}
	if c.RailwayDomain != "" {
		return fmt.Sprintf("https://%s", c.RailwayDomain)
	}
	return "http://localhost:8080"
}

// SuccessURL is the post-checkout redirect target. The checkout=success
// marker is the explicit continuation token the dashboard reads after
// the billing provider redirects back.
func (c Config) SuccessURL() string {
	return c.BaseURL() + "/dashboard?checkout=success"
}
