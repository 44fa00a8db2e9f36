package billing_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polarbridge/pkg/billing"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("valid catalog", func(t *testing.T) {
		t.Parallel()

		catalog, err := billing.NewCatalog(
			billing.Product{ID: "prod_pro", Name: "Pro Monthly", Tier: "pro"},
			billing.Product{ID: "prod_free", Name: "Free", Tier: "free"},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, catalog.Len())

		p, ok := catalog.Product("prod_pro")
		require.True(t, ok)
		assert.Equal(t, "Pro Monthly", p.Name)
		assert.Equal(t, "pro", p.Tier)

		_, ok = catalog.Product("prod_unknown")
		assert.False(t, ok)
	})

	t.Run("panics without products", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { _, _ = billing.NewCatalog() })
	})

	t.Run("rejects empty product id", func(t *testing.T) {
		t.Parallel()

		_, err := billing.NewCatalog(billing.Product{Name: "Pro", Tier: "pro"})
		assert.ErrorIs(t, err, billing.ErrInvalidCatalog)
	})

	t.Run("rejects unknown tier", func(t *testing.T) {
		t.Parallel()

		_, err := billing.NewCatalog(billing.Product{ID: "prod_x", Tier: "enterprise"})
		assert.ErrorIs(t, err, billing.ErrInvalidCatalog)
	})

	t.Run("rejects duplicate product ids", func(t *testing.T) {
		t.Parallel()

		_, err := billing.NewCatalog(
			billing.Product{ID: "prod_x", Tier: "pro"},
			billing.Product{ID: "prod_x", Tier: "free"},
		)
		assert.ErrorIs(t, err, billing.ErrInvalidCatalog)
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("loads yaml file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
products:
  - id: prod_pro_monthly
    name: Pro Monthly
    tier: pro
  - id: prod_pro_yearly
    name: Pro Yearly
    tier: pro
`), 0o600))

		catalog, err := billing.LoadCatalog(path)
		require.NoError(t, err)
		assert.Equal(t, 2, catalog.Len())

		p, ok := catalog.Product("prod_pro_yearly")
		require.True(t, ok)
		assert.Equal(t, "pro", p.Tier)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := billing.LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, billing.ErrInvalidCatalog)
	})

	t.Run("empty catalog", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("products: []\n"), 0o600))

		_, err := billing.LoadCatalog(path)
		assert.ErrorIs(t, err, billing.ErrInvalidCatalog)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("products: {not: [valid"), 0o600))

		_, err := billing.LoadCatalog(path)
		assert.ErrorIs(t, err, billing.ErrInvalidCatalog)
	})
}
