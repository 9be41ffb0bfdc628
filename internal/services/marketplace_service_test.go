package services

import (
	"context"
	"testing"

	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarketplace(c *catalog) *MarketplaceService {
	return NewMarketplaceService(
		repositories.NewVendorRepository(c.db),
		repositories.NewCategoryRepository(c.db),
		repositories.NewCartRepository(c.db),
	)
}

func TestListVendorsOnlyListed(t *testing.T) {
	c := newCatalog(t)
	owner := c.user(true, "secret")
	c.vendor(owner, "Open", true, nil, nil)
	c.vendor(owner, "Unapproved", false, nil, nil)
	c.vendor(c.user(false, "secret"), "Owner Inactive", true, nil, nil)

	res, err := newMarketplace(c).ListVendors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	require.Len(t, res.Vendors, 1)
	assert.Equal(t, "Open", res.Vendors[0].Name)
}

func TestVendorDetail(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	owner := c.user(true, "secret")
	vendor := c.vendor(owner, "Noodle Bar", true, nil, nil)
	cat := c.category(vendor)
	ramen := c.item(cat, "Ramen", "12.00", true)
	c.item(cat, "Seasonal Udon", "13.00", false)

	customer := c.user(true, "secret")
	_, err := repositories.NewCartRepository(c.db).CreateIfAbsent(ctx, &models.CartEntry{UserID: customer.ID, FoodItemID: ramen.ID, Quantity: 2})
	require.NoError(t, err)

	service := newMarketplace(c)

	t.Run("anonymous", func(t *testing.T) {
		res, err := service.VendorDetail(ctx, auth.Anonymous, vendor.Slug)
		require.NoError(t, err)
		assert.Equal(t, vendor.ID, res.Vendor.ID)
		require.Len(t, res.Categories, 1)
		require.Len(t, res.Categories[0].FoodItems, 1)
		assert.Equal(t, "Ramen", res.Categories[0].FoodItems[0].Title)
		assert.Empty(t, res.CartItems)
	})

	t.Run("authenticated", func(t *testing.T) {
		res, err := service.VendorDetail(ctx, auth.Identity{UserID: customer.ID}, vendor.Slug)
		require.NoError(t, err)
		require.Len(t, res.CartItems, 1)
		assert.Equal(t, 2, res.CartItems[0].Quantity)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := service.VendorDetail(ctx, auth.Anonymous, "no-such-vendor")
		assert.ErrorIs(t, err, ErrVendorNotFound)
	})
}
