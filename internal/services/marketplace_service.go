package services

import (
	"context"
	"fmt"

	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/auth"
)

type MarketplaceService struct {
	vendorRepo   repositories.VendorRepository
	categoryRepo repositories.CategoryRepository
	cartRepo     repositories.CartRepository
}

func NewMarketplaceService(
	vendorRepo repositories.VendorRepository,
	categoryRepo repositories.CategoryRepository,
	cartRepo repositories.CartRepository,
) *MarketplaceService {
	return &MarketplaceService{
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		cartRepo:     cartRepo,
	}
}

type VendorListResponse struct {
	Vendors []models.Vendor `json:"vendors"`
	Count   int             `json:"vendor_count"`
}

type VendorDetailResponse struct {
	Vendor     models.Vendor      `json:"vendor"`
	Categories []models.Category  `json:"categories"`
	CartItems  []models.CartEntry `json:"cart_items"`
}

func (s *MarketplaceService) ListVendors(ctx context.Context) (*VendorListResponse, error) {
	vendors, err := s.vendorRepo.ListListed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	if vendors == nil {
		vendors = []models.Vendor{}
	}
	return &VendorListResponse{Vendors: vendors, Count: len(vendors)}, nil
}

// VendorDetail shows the vendor menu with available items only. The caller's
// cart is included when identity is authenticated.
func (s *MarketplaceService) VendorDetail(ctx context.Context, identity auth.Identity, slug string) (*VendorDetailResponse, error) {
	vendor, err := s.vendorRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get vendor %q: %w", slug, err)
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	categories, err := s.categoryRepo.GetByVendorWithAvailableItems(ctx, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("vendor categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	cartItems := []models.CartEntry{}
	if identity.IsAuthenticated() {
		entries, err := s.cartRepo.ListByUser(ctx, identity.UserID)
		if err != nil {
			return nil, fmt.Errorf("list cart entries: %w", err)
		}
		if entries != nil {
			cartItems = entries
		}
	}

	return &VendorDetailResponse{
		Vendor:     *vendor,
		Categories: categories,
		CartItems:  cartItems,
	}, nil
}
