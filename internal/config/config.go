package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HTTPAddr       string
	GRPCHealthAddr string

	CatalogBaseURL  string
	CatalogAPIKey   string
	CatalogPageSize int
	CatalogTimeout  time.Duration

	RedisAddr       string
	CatalogCacheTTL time.Duration

	PostgresDSN string
	OrdersFile  string

	KafkaBroker      string
	KafkaOrdersTopic string

	LogLevel string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(log *zap.Logger, k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn("invalid integer, using default", zap.String("key", k), zap.String("value", v), zap.Int("default", def))
		return def
	}
	return n
}

func getduration(log *zap.Logger, k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn("invalid duration, using default", zap.String("key", k), zap.String("value", v), zap.Duration("default", def))
		return def
	}
	return d
}

// Load reads .env (when present) and the process environment.
func Load(log *zap.Logger) Config {
	if log == nil {
		log = zap.NewNop()
	}
	_ = godotenv.Load() // load .env if it exists
	cfg := Config{
		HTTPAddr:       getenv("STOREFRONT_ADDR", ":8083"),
		GRPCHealthAddr: getenv("GRPC_HEALTH_ADDR", ":50053"),

		CatalogBaseURL:  getenv("CATALOG_BASE_URL", "https://uat.onebanc.ai"),
		CatalogAPIKey:   os.Getenv("CATALOG_API_KEY"),
		CatalogPageSize: getint(log, "CATALOG_PAGE_SIZE", 10),
		CatalogTimeout:  getduration(log, "CATALOG_TIMEOUT", 5*time.Second),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		CatalogCacheTTL: getduration(log, "CATALOG_CACHE_TTL", 5*time.Minute),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		OrdersFile:  getenv("ORDERS_FILE", "orders.json"),

		KafkaBroker:      os.Getenv("KAFKA_BROKER"),
		KafkaOrdersTopic: getenv("KAFKA_ORDERS_TOPIC", "orders.placed"),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}
	log.Info("config loaded",
		zap.String("STOREFRONT_ADDR", cfg.HTTPAddr),
		zap.String("CATALOG_BASE_URL", cfg.CatalogBaseURL),
		zap.Int("CATALOG_PAGE_SIZE", cfg.CatalogPageSize),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.Bool("postgres", cfg.PostgresDSN != ""),
		zap.Bool("kafka", cfg.KafkaBroker != ""),
	)
	return cfg
}
