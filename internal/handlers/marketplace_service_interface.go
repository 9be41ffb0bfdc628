package handlers

import (
	"context"

	"food-marketplace/internal/services"
	"food-marketplace/pkg/auth"
)

// MarketplaceServiceInterface defines the contract for vendor listing
type MarketplaceServiceInterface interface {
	ListVendors(ctx context.Context) (*services.VendorListResponse, error)
	VendorDetail(ctx context.Context, identity auth.Identity, slug string) (*services.VendorDetailResponse, error)
}

// SearchServiceInterface defines the contract for vendor search
type SearchServiceInterface interface {
	Search(ctx context.Context, req *services.SearchRequest) (*services.SearchResult, error)
}
