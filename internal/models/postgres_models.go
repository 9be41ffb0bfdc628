package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base gives every table a client-generated UUID primary key, so the same
// models migrate on PostgreSQL and on the sqlite test database.
type Base struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
}

func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User model - PostgreSQL. Owns vendors and carts.
type User struct {
	Base
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"default:customer" json:"role"` // customer, vendor, admin
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Vendor model - PostgreSQL. Listed only when approved and the owner is active.
type Vendor struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	Name       string    `gorm:"not null" json:"vendor_name"`
	Slug       string    `gorm:"not null;uniqueIndex" json:"vendor_slug"`
	IsApproved bool      `gorm:"not null;default:false" json:"is_approved"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasLocation reports whether both coordinates are set.
func (v *Vendor) HasLocation() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// Category groups food items under a vendor.
type Category struct {
	Base
	VendorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Name        string     `gorm:"not null" json:"category_name"`
	Slug        string     `gorm:"not null" json:"slug"`
	Description string     `json:"description"`
	FoodItems   []FoodItem `gorm:"foreignKey:CategoryID" json:"fooditems"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FoodItem belongs to a vendor through its category.
type FoodItem struct {
	Base
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Title       string          `gorm:"not null" json:"food_title"`
	Slug        string          `gorm:"not null" json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartEntry is one (user, food item) line of a cart. Quantity is at least 1
// while the row exists.
type CartEntry struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_food" json:"user_id"`
	FoodItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_food" json:"fooditem_id"`
	FoodItem   FoodItem  `gorm:"foreignKey:FoodItemID" json:"fooditem"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostgresModels lists the tables created by AutoMigrate, parents first.
func PostgresModels() []interface{} {
	return []interface{}{
		&User{},
		&Vendor{},
		&Category{},
		&FoodItem{},
		&CartEntry{},
	}
}
