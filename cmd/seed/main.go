package main

import (
	"context"
	"flag"
	"log"
	"time"

	"food-marketplace/configs"
	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/internal/seed"
	"food-marketplace/pkg/database"
)

func main() {
	password := flag.String("password", "password123", "password for every demo user")
	withLocations := flag.Bool("locations", true, "upsert vendor locations into MongoDB")
	flag.Parse()

	config := configs.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName)
	if err != nil {
		log.Fatal("Failed to connect to databases:", err)
	}
	defer db.Close()

	if err := db.Postgres.AutoMigrate(models.PostgresModels()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	vendors, err := seed.Catalog(ctx, db.Postgres, *password)
	if err != nil {
		log.Fatal("Failed to seed catalog:", err)
	}

	if !*withLocations {
		return
	}
	if !db.HasMongo() {
		log.Println("Skipping vendor locations: MongoDB is unavailable")
		return
	}

	locations := repositories.NewVendorLocationRepository(db.MongoDB)
	if err := locations.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create vendor location indexes:", err)
	}
	if err := seed.Locations(ctx, vendors, locations); err != nil {
		log.Fatal("Failed to seed vendor locations:", err)
	}
	log.Printf("Seeded locations for %d vendors", len(vendors))
}
