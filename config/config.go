package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config is read once from the environment at startup.
type Config struct {
	HTTPPort    string
	StoreDriver string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	RedisHost string
	RedisPort string

	KafkaBroker   string
	EventsTopic   string
	ConsumerGroup string

	OtelEndpoint   string
	OtelAuthHeader string

	LowStockThreshold decimal.Decimal
	TaxRate           decimal.Decimal
	MaxTxAttempts     int
	TrackingBaseURL   string
	BoardCacheTTL     time.Duration
	CORSOrigins       []string

	// Orders are accepted at any hour unless both times are set.
	StoreOpenTime   string
	StoreCloseTime  string
	LastOrderOffset time.Duration
	StoreTimezone   string

	PosSvcURL string
	AggSvcURL string
}

func Load() *Config {
	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8081"),
		StoreDriver: getEnv("STORE_DRIVER", StoreDriverPostgres),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "pos"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),

		RedisHost: os.Getenv("REDIS_HOST"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		EventsTopic:   getEnv("EVENTS_TOPIC", "pos-events"),
		ConsumerGroup: getEnv("CONSUMER_GROUP", "agg-svc-consumer"),

		OtelEndpoint:   os.Getenv("OTEL_ENDPOINT"),
		OtelAuthHeader: os.Getenv("OTEL_AUTH_HEADER"),

		LowStockThreshold: getDecimal("LOW_STOCK_THRESHOLD", decimal.NewFromInt(10)),
		TaxRate:           getDecimal("TAX_RATE", decimal.Zero),
		MaxTxAttempts:     getInt("MAX_TX_ATTEMPTS", 3),
		TrackingBaseURL:   getEnv("TRACKING_BASE_URL", "http://localhost:8080"),
		BoardCacheTTL:     getDuration("BOARD_CACHE_TTL", 30*time.Second),
		CORSOrigins:       getList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		StoreOpenTime:   os.Getenv("STORE_OPEN_TIME"),
		StoreCloseTime:  os.Getenv("STORE_CLOSE_TIME"),
		LastOrderOffset: getDuration("LAST_ORDER_OFFSET", 30*time.Minute),
		StoreTimezone:   getEnv("STORE_TIMEZONE", "UTC"),

		PosSvcURL: getEnv("POS_SVC_URL", "http://localhost:8081"),
		AggSvcURL: getEnv("AGG_SVC_URL", "http://localhost:8082"),
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func (c *Config) StoreHoursEnabled() bool {
	return c.StoreOpenTime != "" && c.StoreCloseTime != ""
}

func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

// NewLogger builds a JSON logger tagged with the service name. APP_ENV=development
// switches to the console encoder.
func NewLogger(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if os.Getenv("APP_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("service.name", service))
}

func MustInitPostgres(cfg *Config, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	if err = db.Ping(); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg *Config, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err), zap.String("addr", cfg.RedisAddr()))
	}

	return client
}

func NewKafkaReader(cfg *Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg *Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
