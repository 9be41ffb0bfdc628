package repositories

import (
	"context"
	"strings"
	"time"

	"food-marketplace/internal/models"
	"food-marketplace/pkg/geo"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// containsPattern builds a case-insensitive LIKE pattern, escaping the
// wildcards of keyword. Use with LOWER(column) LIKE ? ESCAPE '\'.
func containsPattern(keyword string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(keyword)) + "%"
}

// User Repository
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	res := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&user)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	res := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).Limit(1).Find(&user)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &user, nil
}

// Vendor Repository
type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(vendor).Error
}

func (r *vendorRepository) GetBySlug(ctx context.Context, slug string) (*models.Vendor, error) {
	var vendor models.Vendor
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&vendor)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &vendor, nil
}

func (r *vendorRepository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Select("vendors.*").
		Joins("JOIN users ON users.id = vendors.user_id")
}

func (r *vendorRepository) ListListed(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.withOwner(ctx).
		Where("vendors.is_approved = ? AND users.is_active = ?", true, true).
		Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepository) Search(ctx context.Context, keyword string, foodMatchIDs []uuid.UUID) ([]models.Vendor, error) {
	var vendors []models.Vendor
	byName := "LOWER(vendors.name) LIKE ? ESCAPE '\\' AND vendors.is_approved = ? AND users.is_active = ?"
	pattern := containsPattern(keyword)

	query := r.withOwner(ctx)
	if len(foodMatchIDs) > 0 {
		query = query.Where("vendors.id IN ? OR ("+byName+")", foodMatchIDs, pattern, true, true)
	} else {
		query = query.Where(byName, pattern, true, true)
	}

	err := query.Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepository) VendorLocations(ctx context.Context, vendorIDs []uuid.UUID) ([]geo.Located, error) {
	if len(vendorIDs) == 0 {
		return nil, nil
	}

	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Select("id", "latitude", "longitude").
		Where("id IN ? AND latitude IS NOT NULL AND longitude IS NOT NULL", vendorIDs).
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}

	located := make([]geo.Located, 0, len(vendors))
	for _, v := range vendors {
		located = append(located, geo.Located{
			VendorID: v.ID,
			Point:    geo.Point{Longitude: *v.Longitude, Latitude: *v.Latitude},
		})
	}
	return located, nil
}

// Category Repository
type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *categoryRepository) GetByVendorWithAvailableItems(ctx context.Context, vendorID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Preload("FoodItems", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("created_at ASC")
		}).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC").
		Find(&categories).Error
	return categories, err
}

// FoodItem Repository
type foodItemRepository struct {
	db *gorm.DB
}

func NewFoodItemRepository(db *gorm.DB) FoodItemRepository {
	return &foodItemRepository{db: db}
}

func (r *foodItemRepository) Create(ctx context.Context, item *models.FoodItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *foodItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	res := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&item)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &item, nil
}

func (r *foodItemRepository) VendorIDsByTitle(ctx context.Context, keyword string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.FoodItem{}).
		Joins("JOIN categories ON categories.id = food_items.category_id").
		Where("food_items.is_available = ? AND LOWER(food_items.title) LIKE ? ESCAPE '\\'", true, containsPattern(keyword)).
		Distinct().
		Pluck("categories.vendor_id", &ids).Error
	return ids, err
}

// Cart Repository
type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUserAndFood(ctx context.Context, userID, foodItemID uuid.UUID) (*models.CartEntry, error) {
	var entry models.CartEntry
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND food_item_id = ?", userID, foodItemID).
		Limit(1).Find(&entry)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &entry, nil
}

func (r *cartRepository) CreateIfAbsent(ctx context.Context, entry *models.CartEntry) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *cartRepository) Increment(ctx context.Context, id uuid.UUID) (int, bool, error) {
	var quantities []int
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartEntry{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity + 1"),
				"updated_at": time.Now(),
			})
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		found = true
		return tx.Model(&models.CartEntry{}).Where("id = ?", id).Pluck("quantity", &quantities).Error
	})
	if err != nil || !found || len(quantities) == 0 {
		return 0, false, err
	}
	return quantities[0], true, nil
}

func (r *cartRepository) DecrementOrDelete(ctx context.Context, id uuid.UUID) (int, bool, error) {
	var quantities []int
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartEntry{}).
			Where("id = ? AND quantity > 1", id).
			Updates(map[string]interface{}{
				"quantity":   gorm.Expr("quantity - 1"),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			found = true
			return tx.Model(&models.CartEntry{}).Where("id = ?", id).Pluck("quantity", &quantities).Error
		}

		res = tx.Where("id = ? AND quantity <= 1", id).Delete(&models.CartEntry{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	if len(quantities) == 0 {
		return 0, found, nil
	}
	return quantities[0], found, nil
}

func (r *cartRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartEntry{})
	return res.RowsAffected > 0, res.Error
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := r.db.WithContext(ctx).
		Preload("FoodItem").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
