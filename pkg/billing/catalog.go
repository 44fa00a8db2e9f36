package billing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Product describes a purchasable product in the provider's catalog and
// the membership tier it grants.
type Product struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Tier string `yaml:"tier"`
}

// Catalog maps provider product ids to membership tiers. Checkout
// requests are validated against it so the service never creates a
// session for a product it does not sell.
type Catalog struct {
	products map[string]Product
}

// NewCatalog builds a catalog from the given products.
// Panics if no products are provided so a misconfigured service fails
// at startup instead of rejecting every checkout.
func NewCatalog(products ...Product) (*Catalog, error) {
	if len(products) == 0 {
		panic("billing: at least one product is required")
	}

	byID := make(map[string]Product, len(products))
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: product with empty id", ErrInvalidCatalog)
		}
		if p.Tier != "free" && p.Tier != "pro" {
			return nil, fmt.Errorf("%w: product %s has unknown tier %q", ErrInvalidCatalog, p.ID, p.Tier)
		}
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate product id %s", ErrInvalidCatalog, p.ID)
		}
		byID[p.ID] = p
	}
	return &Catalog{products: byID}, nil
}

// LoadCatalog reads a YAML catalog file of the form:
//
//	products:
//	  - id: prod_xxxxxxxx
//	    name: Pro Monthly
//	    tier: pro
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	var file struct {
		Products []Product `yaml:"products"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("%w: no products defined in %s", ErrInvalidCatalog, path)
	}
	return NewCatalog(file.Products...)
}

// Product returns the catalog entry for a product id.
func (c *Catalog) Product(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}
