package services

import (
	"context"
	"time"
)

// Cache is the subset of pkg/cache.RedisCache the services use.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// EventPublisher is implemented by messaging.KafkaProducer and
// messaging.NopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}
