package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "KAFKA_BROKERS", "KAFKA_ENABLED", "GEO_BACKEND", "JWT_EXPIRY_HOURS"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, "cart_events", cfg.Kafka.CartTopic)
	assert.Equal(t, "s2", cfg.Geo.Backend)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
	assert.Equal(t, 30, cfg.JWT.RefreshExpiryDays)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("GEO_BACKEND", "Mongo")
	t.Setenv("JWT_EXPIRY_HOURS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "mongo", cfg.Geo.Backend)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
}
