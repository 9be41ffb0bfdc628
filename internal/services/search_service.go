package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/geo"
	"food-marketplace/pkg/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GeoLocator answers "which of these vendors lie within radiusKm of center".
// Implemented by geo.PointLocator and the MongoDB vendor location repository.
type GeoLocator interface {
	Within(ctx context.Context, center geo.Point, radiusKm float64, vendorIDs []uuid.UUID) ([]geo.Hit, error)
}

type SearchService struct {
	vendorRepo repositories.VendorRepository
	foodRepo   repositories.FoodItemRepository
	locator    GeoLocator
}

func NewSearchService(vendorRepo repositories.VendorRepository, foodRepo repositories.FoodItemRepository, locator GeoLocator) *SearchService {
	return &SearchService{
		vendorRepo: vendorRepo,
		foodRepo:   foodRepo,
		locator:    locator,
	}
}

// SearchRequest holds the raw query parameters. Address is nil when the
// parameter was not sent at all.
type SearchRequest struct {
	Keyword   string
	Address   *string
	Latitude  string
	Longitude string
	Radius    string
}

type VendorResult struct {
	models.Vendor
	Distance *float64 `json:"distance,omitempty"`
}

type SearchResult struct {
	Performed bool           `json:"-"`
	Vendors   []VendorResult `json:"vendors"`
	Count     int            `json:"vendor_count"`
	Address   string         `json:"source_location"`
}

type geoQuery struct {
	center   geo.Point
	radiusKm float64
}

// parseGeoQuery returns false unless lat, lng and radius are all present,
// numeric, in range, and the radius is positive.
func parseGeoQuery(req *SearchRequest) (geoQuery, bool) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(req.Latitude), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(req.Longitude), 64)
	radius, errRadius := strconv.ParseFloat(strings.TrimSpace(req.Radius), 64)
	if errLat != nil || errLng != nil || errRadius != nil || !(radius > 0) {
		return geoQuery{}, false
	}

	center, err := geo.NewPoint(lng, lat)
	if err != nil {
		return geoQuery{}, false
	}
	return geoQuery{center: center, radiusKm: radius}, true
}

func (s *SearchService) Search(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	if req.Address == nil {
		return &SearchResult{Performed: false}, nil
	}

	foodMatches, err := s.foodRepo.VendorIDsByTitle(ctx, req.Keyword)
	if err != nil {
		return nil, fmt.Errorf("match food items: %w", err)
	}

	vendors, err := s.vendorRepo.Search(ctx, req.Keyword, foodMatches)
	if err != nil {
		return nil, fmt.Errorf("search vendors: %w", err)
	}

	result := &SearchResult{Performed: true, Address: *req.Address}

	query, ok := parseGeoQuery(req)
	if !ok {
		result.Vendors = make([]VendorResult, 0, len(vendors))
		for _, v := range vendors {
			result.Vendors = append(result.Vendors, VendorResult{Vendor: v})
		}
		result.Count = len(result.Vendors)
		return result, nil
	}

	byID := make(map[uuid.UUID]models.Vendor, len(vendors))
	ids := make([]uuid.UUID, 0, len(vendors))
	for _, v := range vendors {
		byID[v.ID] = v
		ids = append(ids, v.ID)
	}

	hits, err := s.locator.Within(ctx, query.center, query.radiusKm, ids)
	if err != nil {
		return nil, fmt.Errorf("geo filter: %w", err)
	}
	geo.SortByDistance(hits)

	result.Vendors = make([]VendorResult, 0, len(hits))
	for _, hit := range hits {
		v, ok := byID[hit.VendorID]
		if !ok {
			continue
		}
		distance := decimal.NewFromFloat(hit.DistanceKm).Round(1).InexactFloat64()
		result.Vendors = append(result.Vendors, VendorResult{Vendor: v, Distance: &distance})
	}
	result.Count = len(result.Vendors)

	logging.FromContext(ctx).Debug("geo search",
		"keyword", req.Keyword,
		"radius_km", query.radiusKm,
		"candidates", len(vendors),
		"within", result.Count)
	return result, nil
}
