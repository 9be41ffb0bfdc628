package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"food-marketplace/configs"
	"food-marketplace/internal/handlers"
	"food-marketplace/internal/middleware"
	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/internal/services"
	"food-marketplace/pkg/auth"
	"food-marketplace/pkg/cache"
	"food-marketplace/pkg/database"
	"food-marketplace/pkg/geo"
	"food-marketplace/pkg/logging"
	"food-marketplace/pkg/messaging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config := configs.LoadConfig()

	logger := logging.New(config.Log.Level)
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	// Initialize database connections
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.Open(dbCtx, config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName)
	dbCancel()
	if err != nil {
		log.Fatal("Failed to connect to databases:", err)
	}
	defer db.Close()

	// Auto-migrate PostgreSQL tables
	if err := db.Postgres.AutoMigrate(models.PostgresModels()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis cache
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisCache, err := cache.NewRedisCache(ctx, config.Redis.URL, config.Redis.Password, config.Redis.DB)
	cancel()
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisCache.Close()

	// Initialize Kafka
	var publisher services.EventPublisher = messaging.NopPublisher{}
	if config.Kafka.Enabled {
		kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers, logger)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
	}

	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours, config.JWT.RefreshExpiryDays)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.Postgres)
	vendorRepo := repositories.NewVendorRepository(db.Postgres)
	categoryRepo := repositories.NewCategoryRepository(db.Postgres)
	foodRepo := repositories.NewFoodItemRepository(db.Postgres)
	cartRepo := repositories.NewCartRepository(db.Postgres)

	locator := geoLocator(config.Geo.Backend, db, vendorRepo)

	// Initialize services
	authService := services.NewAuthService(userRepo, jwtManager, redisCache, config.JWT.ExpiryHours, config.JWT.RefreshExpiryDays)
	totalsService := services.NewTotalsService(cartRepo, redisCache)
	cartService := services.NewCartService(cartRepo, foodRepo, totalsService, publisher, config.Kafka.CartTopic)
	marketplaceService := services.NewMarketplaceService(vendorRepo, categoryRepo, cartRepo)
	searchService := services.NewSearchService(vendorRepo, foodRepo, locator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	cartHandler := handlers.NewCartHandler(cartService)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService, searchService)

	// Initialize Gin router
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware(logger))
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware(config.Server.AllowOrigins))

	// API routes
	api := router.Group("/api/v1")

	// Health check endpoint
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "food-marketplace",
		})
	})

	// Register routes
	authHandler.RegisterRoutes(api, authMiddleware)
	marketplaceHandler.RegisterRoutes(api, authMiddleware)
	cartHandler.RegisterRoutes(api, authMiddleware)

	log.Printf("Server starting on port %s", config.Server.Port)
	log.Fatal(router.Run(":" + config.Server.Port))
}

// geoLocator picks the radius query backend. The mongo backend needs a live
// MongoDB connection and falls back to in-process s2 distances without one.
func geoLocator(backend string, db *database.Database, vendorRepo repositories.VendorRepository) services.GeoLocator {
	if backend == "mongo" {
		if !db.HasMongo() {
			log.Printf("Warning: GEO_BACKEND=mongo but MongoDB is unavailable, using s2")
		} else {
			locations := repositories.NewVendorLocationRepository(db.MongoDB)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := locations.EnsureIndexes(ctx); err != nil {
				log.Fatal("Failed to create vendor location indexes:", err)
			}
			log.Println("Geo search backed by MongoDB $geoNear")
			return locations
		}
	}
	log.Println("Geo search backed by s2 great-circle distance")
	return geo.NewPointLocator(vendorRepo)
}
