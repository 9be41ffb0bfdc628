// Package seed loads a small demo catalog. Every step is idempotent so the
// seeder can run against a database that already has data.
package seed

import (
	"context"
	"fmt"
	"log"

	"food-marketplace/internal/models"
	"food-marketplace/pkg/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type demoItem struct {
	title string
	price string
	// unavailable items exercise the availability filters
	unavailable bool
}

type demoCategory struct {
	name  string
	items []demoItem
}

type demoVendor struct {
	name       string
	slug       string
	ownerEmail string
	approved   bool
	lat, lng   float64
	categories []demoCategory
}

type demoUser struct {
	name   string
	email  string
	role   string
	active bool
}

var demoUsers = []demoUser{
	{"Asha Customer", "customer@example.com", "customer", true},
	{"Ravi Vendor", "ravi@example.com", "vendor", true},
	{"Meera Vendor", "meera@example.com", "vendor", true},
	{"Dormant Vendor", "dormant@example.com", "vendor", false},
}

var demoVendors = []demoVendor{
	{
		name: "Pizza Point", slug: "pizza-point", ownerEmail: "ravi@example.com", approved: true,
		lat: 12.9716, lng: 77.5946,
		categories: []demoCategory{
			{"Pizza", []demoItem{{"Margherita Pizza", "249.00", false}, {"Farmhouse Pizza", "329.00", false}, {"Truffle Pizza", "549.00", true}}},
			{"Sides", []demoItem{{"Garlic Bread", "129.00", false}}},
		},
	},
	{
		name: "Curry House", slug: "curry-house", ownerEmail: "meera@example.com", approved: true,
		lat: 13.0216, lng: 77.5946,
		categories: []demoCategory{
			{"Curries", []demoItem{{"Paneer Butter Masala", "279.00", false}, {"Dal Makhani", "219.00", false}}},
			{"Fusion", []demoItem{{"Tikka Pizza", "299.00", false}}},
		},
	},
	{
		name: "Coastal Kitchen", slug: "coastal-kitchen", ownerEmail: "meera@example.com", approved: true,
		lat: 12.9141, lng: 74.8560,
		categories: []demoCategory{
			{"Seafood", []demoItem{{"Fish Curry", "349.00", false}, {"Prawn Ghee Roast", "429.00", false}}},
		},
	},
	{
		name: "Burger Barn", slug: "burger-barn", ownerEmail: "ravi@example.com", approved: false,
		lat: 12.9352, lng: 77.6245,
		categories: []demoCategory{
			{"Burgers", []demoItem{{"Classic Burger", "199.00", false}}},
		},
	},
	{
		name: "Closed Cafe", slug: "closed-cafe", ownerEmail: "dormant@example.com", approved: true,
		lat: 12.9784, lng: 77.6408,
		categories: []demoCategory{
			{"Coffee", []demoItem{{"Filter Coffee", "49.00", false}}},
		},
	},
}

// LocationWriter receives vendor locations for the geo backend.
type LocationWriter interface {
	Upsert(ctx context.Context, vendorID uuid.UUID, point geo.Point) error
}

// Catalog creates the demo users, vendors, categories and food items and
// returns the vendors.
func Catalog(ctx context.Context, db *gorm.DB, password string) ([]models.Vendor, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]uuid.UUID, len(demoUsers))
	for _, du := range demoUsers {
		user := models.User{}
		err := db.WithContext(ctx).
			Where(models.User{Email: du.email}).
			Attrs(models.User{Name: du.name, PasswordHash: string(hash), Role: du.role, IsActive: du.active}).
			FirstOrCreate(&user).Error
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", du.email, err)
		}
		owners[du.email] = user.ID
	}

	vendors := make([]models.Vendor, 0, len(demoVendors))
	for _, dv := range demoVendors {
		lat, lng := dv.lat, dv.lng
		vendor := models.Vendor{}
		err := db.WithContext(ctx).
			Where(models.Vendor{Slug: dv.slug}).
			Attrs(models.Vendor{
				UserID:     owners[dv.ownerEmail],
				Name:       dv.name,
				IsApproved: dv.approved,
				Latitude:   &lat,
				Longitude:  &lng,
			}).
			FirstOrCreate(&vendor).Error
		if err != nil {
			return nil, fmt.Errorf("seed vendor %s: %w", dv.slug, err)
		}

		for _, dc := range dv.categories {
			if err := seedCategory(ctx, db, vendor.ID, dc); err != nil {
				return nil, fmt.Errorf("seed vendor %s: %w", dv.slug, err)
			}
		}
		vendors = append(vendors, vendor)
	}

	log.Printf("Seeded %d users and %d vendors", len(demoUsers), len(vendors))
	return vendors, nil
}

func seedCategory(ctx context.Context, db *gorm.DB, vendorID uuid.UUID, dc demoCategory) error {
	category := models.Category{}
	err := db.WithContext(ctx).
		Where(models.Category{VendorID: vendorID, Slug: slugify(dc.name)}).
		Attrs(models.Category{Name: dc.name}).
		FirstOrCreate(&category).Error
	if err != nil {
		return fmt.Errorf("category %s: %w", dc.name, err)
	}

	for _, di := range dc.items {
		item := models.FoodItem{}
		err := db.WithContext(ctx).
			Where(models.FoodItem{CategoryID: category.ID, Slug: slugify(di.title)}).
			Attrs(models.FoodItem{
				Title:       di.title,
				Price:       decimal.RequireFromString(di.price),
				IsAvailable: !di.unavailable,
			}).
			FirstOrCreate(&item).Error
		if err != nil {
			return fmt.Errorf("food item %s: %w", di.title, err)
		}
	}
	return nil
}

// Locations pushes every located vendor to w.
func Locations(ctx context.Context, vendors []models.Vendor, w LocationWriter) error {
	for _, v := range vendors {
		if !v.HasLocation() {
			continue
		}
		point, err := geo.NewPoint(*v.Longitude, *v.Latitude)
		if err != nil {
			log.Printf("Skipping vendor %s: %v", v.Slug, err)
			continue
		}
		if err := w.Upsert(ctx, v.ID, point); err != nil {
			return fmt.Errorf("upsert location of %s: %w", v.Slug, err)
		}
	}
	return nil
}
