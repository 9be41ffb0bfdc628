package services

import (
	"context"
	"errors"
	"testing"

	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type searchFixture struct {
	*catalog
	service *SearchService
}

// Vendors around Bangalore: one at the query point, one about 5.6 km away
// and one about 280 km away.
func newSearchFixture(t *testing.T) *searchFixture {
	c := newCatalog(t)
	owner := c.user(true, "secret")
	inactive := c.user(false, "secret")

	c.vendor(owner, "Pizza Point", true, floatPtr(12.9716), floatPtr(77.5946))
	nearby := c.vendor(owner, "Curry House", true, floatPtr(13.0216), floatPtr(77.5946))
	c.item(c.category(nearby), "Paneer Pizza", "8.00", true)
	far := c.vendor(owner, "Coastal Kitchen", true, floatPtr(12.9141), floatPtr(74.8560))
	c.item(c.category(far), "Pizza Marinara", "9.00", true)

	c.vendor(owner, "Pizza Pending", false, floatPtr(12.9716), floatPtr(77.5946))
	c.vendor(inactive, "Pizza Closed", true, floatPtr(12.9716), floatPtr(77.5946))
	hidden := c.vendor(owner, "Burger Bay", true, floatPtr(12.9716), floatPtr(77.5946))
	c.item(c.category(hidden), "Pizza Burger", "6.00", false)

	vendorRepo := repositories.NewVendorRepository(c.db)
	service := NewSearchService(vendorRepo, repositories.NewFoodItemRepository(c.db), geo.NewPointLocator(vendorRepo))
	return &searchFixture{catalog: c, service: service}
}

func resultNames(res *SearchResult) []string {
	names := make([]string, 0, len(res.Vendors))
	for _, v := range res.Vendors {
		names = append(names, v.Name)
	}
	return names
}

func TestSearchWithoutAddressIsNotPerformed(t *testing.T) {
	f := newSearchFixture(t)

	res, err := f.service.Search(context.Background(), &SearchRequest{Keyword: "pizza"})
	require.NoError(t, err)
	assert.False(t, res.Performed)
	assert.Empty(t, res.Vendors)
}

func TestSearchUnionWithoutGeo(t *testing.T) {
	f := newSearchFixture(t)

	res, err := f.service.Search(context.Background(), &SearchRequest{Keyword: "PIZZA", Address: strPtr("")})
	require.NoError(t, err)
	assert.True(t, res.Performed)
	assert.ElementsMatch(t, []string{"Pizza Point", "Curry House", "Coastal Kitchen"}, resultNames(res))
	assert.Equal(t, 3, res.Count)
	for _, v := range res.Vendors {
		assert.Nil(t, v.Distance)
	}
}

func TestSearchGeoFiltersAndSorts(t *testing.T) {
	f := newSearchFixture(t)

	res, err := f.service.Search(context.Background(), &SearchRequest{
		Keyword:   "pizza",
		Address:   strPtr("MG Road"),
		Latitude:  "12.9716",
		Longitude: "77.5946",
		Radius:    "10",
	})
	require.NoError(t, err)
	assert.Equal(t, "MG Road", res.Address)
	require.Equal(t, []string{"Pizza Point", "Curry House"}, resultNames(res))
	assert.Equal(t, 2, res.Count)

	require.NotNil(t, res.Vendors[0].Distance)
	assert.Equal(t, 0.0, *res.Vendors[0].Distance)
	require.NotNil(t, res.Vendors[1].Distance)
	assert.Equal(t, 5.6, *res.Vendors[1].Distance)
}

func TestSearchMalformedGeoSkipsFilter(t *testing.T) {
	f := newSearchFixture(t)

	tests := []struct {
		name string
		req  SearchRequest
	}{
		{"missing radius", SearchRequest{Latitude: "12.97", Longitude: "77.59"}},
		{"non numeric latitude", SearchRequest{Latitude: "north", Longitude: "77.59", Radius: "5"}},
		{"latitude out of range", SearchRequest{Latitude: "120", Longitude: "77.59", Radius: "5"}},
		{"zero radius", SearchRequest{Latitude: "12.97", Longitude: "77.59", Radius: "0"}},
		{"negative radius", SearchRequest{Latitude: "12.97", Longitude: "77.59", Radius: "-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Keyword = "pizza"
			req.Address = strPtr("somewhere")

			res, err := f.service.Search(context.Background(), &req)
			require.NoError(t, err)
			assert.Equal(t, 3, res.Count)
			for _, v := range res.Vendors {
				assert.Nil(t, v.Distance)
			}
		})
	}
}

func TestSearchUsesLocatorAndRounds(t *testing.T) {
	f := newSearchFixture(t)
	vendorRepo := repositories.NewVendorRepository(f.db)
	listed, err := vendorRepo.Search(context.Background(), "pizza point", nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	locator := &mockLocator{}
	locator.On("Within", mock.Anything, geo.Point{Longitude: 77.6, Latitude: 12.9}, 3.5, mock.Anything).
		Return([]geo.Hit{
			{VendorID: uuid.New(), DistanceKm: 0.5},
			{VendorID: listed[0].ID, DistanceKm: 2.349},
		}, nil)

	service := NewSearchService(vendorRepo, repositories.NewFoodItemRepository(f.db), locator)
	res, err := service.Search(context.Background(), &SearchRequest{
		Keyword: "pizza point", Address: strPtr("x"), Latitude: "12.9", Longitude: "77.6", Radius: "3.5",
	})
	require.NoError(t, err)
	require.Len(t, res.Vendors, 1)
	assert.Equal(t, 2.3, *res.Vendors[0].Distance)
	locator.AssertExpectations(t)
}

func TestSearchLocatorError(t *testing.T) {
	f := newSearchFixture(t)
	locator := &mockLocator{}
	locator.On("Within", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("mongo unavailable"))

	vendorRepo := repositories.NewVendorRepository(f.db)
	service := NewSearchService(vendorRepo, repositories.NewFoodItemRepository(f.db), locator)
	_, err := service.Search(context.Background(), &SearchRequest{
		Keyword: "pizza", Address: strPtr("x"), Latitude: "12.9", Longitude: "77.6", Radius: "3",
	})
	assert.Error(t, err)
}
