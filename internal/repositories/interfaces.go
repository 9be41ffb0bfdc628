package repositories

import (
	"context"

	"food-marketplace/internal/models"
	"food-marketplace/pkg/geo"

	"github.com/google/uuid"
)

// Lookups return (nil, nil) when the record does not exist, so callers
// branch on presence instead of on error values.

// UserRepository interface for PostgreSQL user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// VendorRepository interface for PostgreSQL vendor operations
type VendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	GetBySlug(ctx context.Context, slug string) (*models.Vendor, error)
	// ListListed returns approved vendors whose owner is active.
	ListListed(ctx context.Context) ([]models.Vendor, error)
	// Search returns vendors whose id is in foodMatchIDs, or whose name
	// contains keyword and which are listed.
	Search(ctx context.Context, keyword string, foodMatchIDs []uuid.UUID) ([]models.Vendor, error)
	VendorLocations(ctx context.Context, vendorIDs []uuid.UUID) ([]geo.Located, error)
}

// CategoryRepository interface for PostgreSQL menu category operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	// GetByVendorWithAvailableItems preloads only available food items.
	GetByVendorWithAvailableItems(ctx context.Context, vendorID uuid.UUID) ([]models.Category, error)
}

// FoodItemRepository interface for PostgreSQL food item operations
type FoodItemRepository interface {
	Create(ctx context.Context, item *models.FoodItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
	// VendorIDsByTitle returns the distinct vendors owning an available
	// item whose title contains keyword.
	VendorIDsByTitle(ctx context.Context, keyword string) ([]uuid.UUID, error)
}

// CartRepository interface for PostgreSQL cart entry operations. All
// quantity changes are single atomic statements.
type CartRepository interface {
	FindByUserAndFood(ctx context.Context, userID, foodItemID uuid.UUID) (*models.CartEntry, error)
	// CreateIfAbsent inserts entry and reports false when a row for the same
	// (user, food item) already exists.
	CreateIfAbsent(ctx context.Context, entry *models.CartEntry) (bool, error)
	// Increment adds one and returns the new quantity. found is false when the
	// row no longer exists.
	Increment(ctx context.Context, id uuid.UUID) (quantity int, found bool, err error)
	// DecrementOrDelete removes one, deleting the row instead of storing zero.
	DecrementOrDelete(ctx context.Context, id uuid.UUID) (quantity int, found bool, err error)
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error)
	// ListByUser preloads food items, oldest entry first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error)
}

// VendorLocationRepository interface for MongoDB vendor profile locations
type VendorLocationRepository interface {
	EnsureIndexes(ctx context.Context) error
	Upsert(ctx context.Context, vendorID uuid.UUID, point geo.Point) error
	Within(ctx context.Context, center geo.Point, radiusKm float64, vendorIDs []uuid.UUID) ([]geo.Hit, error)
}
