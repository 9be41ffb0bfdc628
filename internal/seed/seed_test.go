package seed

import (
	"context"
	"errors"
	"testing"

	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/geo"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.PostgresModels()...))
	return db
}

type recordingWriter struct {
	points map[uuid.UUID]geo.Point
	err    error
}

func (w *recordingWriter) Upsert(_ context.Context, vendorID uuid.UUID, point geo.Point) error {
	if w.err != nil {
		return w.err
	}
	w.points[vendorID] = point
	return nil
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "paneer-butter-masala", slugify("Paneer Butter Masala"))
	assert.Equal(t, "fish-chips", slugify("  Fish & Chips!"))
}

func TestCatalogIsIdempotent(t *testing.T) {
	db := InitTestDB(t)
	ctx := context.Background()

	first, err := Catalog(ctx, db, "password123")
	require.NoError(t, err)
	second, err := Catalog(ctx, db, "password123")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	var vendors, items int64
	require.NoError(t, db.Model(&models.Vendor{}).Count(&vendors).Error)
	require.NoError(t, db.Model(&models.FoodItem{}).Count(&items).Error)
	assert.EqualValues(t, len(demoVendors), vendors)
	assert.EqualValues(t, 11, items)

	listed, err := repositories.NewVendorRepository(db).ListListed(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	ids, err := repositories.NewFoodItemRepository(db).VendorIDsByTitle(ctx, "truffle")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLocations(t *testing.T) {
	lat, lng := 12.97, 77.59
	badLat := 95.0
	located := models.Vendor{Latitude: &lat, Longitude: &lng}
	located.ID = uuid.New()
	invalid := models.Vendor{Latitude: &badLat, Longitude: &lng}
	invalid.ID = uuid.New()
	unlocated := models.Vendor{}
	unlocated.ID = uuid.New()

	w := &recordingWriter{points: map[uuid.UUID]geo.Point{}}
	require.NoError(t, Locations(context.Background(), []models.Vendor{located, invalid, unlocated}, w))
	assert.Equal(t, map[uuid.UUID]geo.Point{located.ID: {Longitude: lng, Latitude: lat}}, w.points)

	w.err = errors.New("mongo down")
	assert.Error(t, Locations(context.Background(), []models.Vendor{located}, w))
}
