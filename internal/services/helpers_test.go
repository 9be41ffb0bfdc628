package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/cache"
	"food-marketplace/pkg/geo"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

// memoryCache mirrors RedisCache semantics: JSON values and ErrMiss.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	b, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(b, dest)
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	if b, ok := m.data[key]; ok {
		if err := json.Unmarshal(b, &n); err != nil {
			return 0, err
		}
	}
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

type mockLocator struct {
	mock.Mock
}

func (m *mockLocator) Within(ctx context.Context, center geo.Point, radiusKm float64, vendorIDs []uuid.UUID) ([]geo.Hit, error) {
	args := m.Called(ctx, center, radiusKm, vendorIDs)
	hits, _ := args.Get(0).([]geo.Hit)
	return hits, args.Error(1)
}

// catalog seeds users, vendors and food items through the repositories.
type catalog struct {
	t   *testing.T
	db  *gorm.DB
	ctx context.Context
	n   int
}

func newCatalog(t *testing.T) *catalog {
	return &catalog{t: t, db: InitTestDB(t), ctx: context.Background()}
}

func (c *catalog) user(active bool, password string) models.User {
	c.n++
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(c.t, err)
	u := models.User{
		Name:         "user",
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: string(hash),
		Role:         "customer",
		IsActive:     active,
	}
	require.NoError(c.t, repositories.NewUserRepository(c.db).Create(c.ctx, &u))
	return u
}

func (c *catalog) vendor(owner models.User, name string, approved bool, lat, lng *float64) models.Vendor {
	v := models.Vendor{
		UserID:     owner.ID,
		Name:       name,
		Slug:       uuid.NewString()[:8],
		IsApproved: approved,
		Latitude:   lat,
		Longitude:  lng,
	}
	require.NoError(c.t, repositories.NewVendorRepository(c.db).Create(c.ctx, &v))
	return v
}

func (c *catalog) category(v models.Vendor) models.Category {
	cat := models.Category{VendorID: v.ID, Name: "Mains", Slug: "mains"}
	require.NoError(c.t, repositories.NewCategoryRepository(c.db).Create(c.ctx, &cat))
	return cat
}

func (c *catalog) item(cat models.Category, title, price string, available bool) models.FoodItem {
	it := models.FoodItem{
		CategoryID:  cat.ID,
		Title:       title,
		Slug:        title,
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
	}
	require.NoError(c.t, repositories.NewFoodItemRepository(c.db).Create(c.ctx, &it))
	return it
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }
