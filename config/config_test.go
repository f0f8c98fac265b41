package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "STORE_DRIVER", "REDIS_HOST", "KAFKA_BROKER", "LOW_STOCK_THRESHOLD", "TAX_RATE", "MAX_TX_ATTEMPTS", "BOARD_CACHE_TTL", "CORS_ALLOWED_ORIGINS", "STORE_OPEN_TIME", "STORE_CLOSE_TIME", "LAST_ORDER_OFFSET", "STORE_TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.True(t, cfg.LowStockThreshold.Equal(decimal.NewFromInt(10)))
	assert.True(t, cfg.TaxRate.IsZero())
	assert.Equal(t, 3, cfg.MaxTxAttempts)
	assert.Equal(t, 30*time.Second, cfg.BoardCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.RedisAddr())
	assert.False(t, cfg.StoreHoursEnabled())
	assert.Equal(t, 30*time.Minute, cfg.LastOrderOffset)
	assert.Equal(t, "UTC", cfg.StoreTimezone)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("TAX_RATE", "0.12")
	t.Setenv("MAX_TX_ATTEMPTS", "5")
	t.Setenv("BOARD_CACHE_TTL", "1m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("STORE_OPEN_TIME", "10:00")
	t.Setenv("STORE_CLOSE_TIME", "22:00")
	t.Setenv("LAST_ORDER_OFFSET", "45m")
	t.Setenv("STORE_TIMEZONE", "Asia/Manila")

	cfg := Load()

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, "0.12", cfg.TaxRate.String())
	assert.Equal(t, 5, cfg.MaxTxAttempts)
	assert.Equal(t, time.Minute, cfg.BoardCacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.StoreHoursEnabled())
	assert.Equal(t, "10:00", cfg.StoreOpenTime)
	assert.Equal(t, 45*time.Minute, cfg.LastOrderOffset)
	assert.Equal(t, "Asia/Manila", cfg.StoreTimezone)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TAX_RATE", "-1")
	t.Setenv("LOW_STOCK_THRESHOLD", "lots")
	t.Setenv("MAX_TX_ATTEMPTS", "0")
	t.Setenv("BOARD_CACHE_TTL", "soon")

	cfg := Load()

	assert.True(t, cfg.TaxRate.IsZero())
	assert.True(t, cfg.LowStockThreshold.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 3, cfg.MaxTxAttempts)
	assert.Equal(t, 30*time.Second, cfg.BoardCacheTTL)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "pos"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=pos sslmode=disable", cfg.PostgresDSN())
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("pos-svc")
	assert.NotNil(t, logger)
	logger.Info("logger ready")
}
