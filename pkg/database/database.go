package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 100
	maxIdleConns    = 10
	connMaxLifetime = time.Hour
	mongoTimeout    = 10 * time.Second
)

// Database holds the service's store handles. Postgres is always set.
// MongoDB is optional and nil when it could not be reached at startup:
// the vendor location collection is then unavailable and geo search falls
// back to in-process distances over Postgres coordinates.
type Database struct {
	Postgres *gorm.DB
	MongoDB  *mongo.Database
}

// Open connects to both stores. Only a Postgres failure is returned; a Mongo
// failure is logged and leaves MongoDB nil.
func Open(ctx context.Context, postgresURL, mongoURL, mongoDBName string) (*Database, error) {
	pg, err := openPostgres(ctx, postgresURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	db := &Database{Postgres: pg}
	if mongoURL == "" {
		slog.Warn("MongoDB not configured, mongo geo backend disabled")
		return db, nil
	}

	mdb, err := openMongo(ctx, mongoURL, mongoDBName)
	if err != nil {
		slog.Warn("MongoDB unavailable, mongo geo backend disabled", "error", err)
		return db, nil
	}
	db.MongoDB = mdb
	return db, nil
}

// HasMongo reports whether the optional Mongo store is connected.
func (db *Database) HasMongo() bool {
	return db.MongoDB != nil
}

func openPostgres(ctx context.Context, url string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	slog.Info("connected to PostgreSQL")
	return gdb, nil
}

func openMongo(ctx context.Context, url, name string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	slog.Info("connected to MongoDB", "database", name)
	return client.Database(name), nil
}

// Close releases both stores and reports every failure.
func (db *Database) Close() error {
	var errs []error

	if sqlDB, err := db.Postgres.DB(); err != nil {
		errs = append(errs, fmt.Errorf("postgres: %w", err))
	} else if err := sqlDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("postgres: %w", err))
	}

	if db.HasMongo() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.MongoDB.Client().Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo: %w", err))
		}
	}

	return errors.Join(errs...)
}
