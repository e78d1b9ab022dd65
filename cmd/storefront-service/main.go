// @title        Storefront API
// @version      1.0
// @description  Paginated cuisine catalog, cart with CGST/SGST and order history.
// @BasePath     /
package main

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/MikeMC777/storefront/docs"
	"github.com/MikeMC777/storefront/internal/catalog"
	"github.com/MikeMC777/storefront/internal/config"
	"github.com/MikeMC777/storefront/internal/httpx"
	"github.com/MikeMC777/storefront/internal/order"
	"github.com/MikeMC777/storefront/internal/storefront"
)

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func newFetcher(cfg config.Config, log *zap.Logger) catalog.PageFetcher {
	var f catalog.PageFetcher = catalog.NewHTTPFetcher(cfg.CatalogBaseURL, cfg.CatalogAPIKey, cfg.CatalogTimeout)
	if cfg.RedisAddr == "" {
		return f
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	log.Info("catalog page cache enabled", zap.String("redis", cfg.RedisAddr), zap.Duration("ttl", cfg.CatalogCacheTTL))
	return catalog.NewCachedFetcher(f, rdb, cfg.CatalogCacheTTL, log.Named("cache"))
}

func newStore(ctx context.Context, cfg config.Config, log *zap.Logger) (order.Store, func()) {
	if cfg.PostgresDSN == "" {
		log.Info("orders persisted to file", zap.String("path", cfg.OrdersFile))
		return order.NewFileStore(cfg.OrdersFile), func() {}
	}
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	store := order.NewPGStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("db schema", zap.Error(err))
	}
	log.Info("orders persisted to postgres")
	return store, pool.Close
}

func newPublisher(cfg config.Config, log *zap.Logger) (order.Publisher, func()) {
	if cfg.KafkaBroker == "" {
		return nil, func() {}
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBroker),
		Topic:    cfg.KafkaOrdersTopic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("order events enabled", zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaOrdersTopic))
	return order.NewKafkaPublisher(w), func() { _ = w.Close() }
}

func serveHealth(addr string, log *zap.Logger) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("grpc health listen", zap.String("addr", addr), zap.Error(err))
	}
	s := grpc.NewServer()
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	log.Info("grpc health listening", zap.String("addr", addr))
	if err := s.Serve(lis); err != nil {
		log.Error("grpc health stopped", zap.Error(err))
	}
}

func main() {
	boot := newLogger("")
	cfg := config.Load(boot)
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx := context.Background()
	store, closeStore := newStore(ctx, cfg, logger)
	defer closeStore()
	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	session := storefront.NewSession(storefront.Options{
		Fetcher:   newFetcher(cfg, logger),
		PageSize:  cfg.CatalogPageSize,
		Store:     store,
		Publisher: publisher,
		Logger:    logger,
	})
	session.Start(ctx)

	go serveHealth(cfg.GRPCHealthAddr, logger)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(logger), httpx.Logger(logger))
	registerRoutes(r, session)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler := cors.Default().Handler(r)

	logger.Info("storefront-service listening", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}
