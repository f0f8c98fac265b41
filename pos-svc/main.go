package main

import (
	"context"
	"os/signal"
	"syscall"

	"overcooked-pos/config"
	"overcooked-pos/httpx"
	"overcooked-pos/observability"
	httpapi "overcooked-pos/pos-svc/internal/api/http"
	"overcooked-pos/pos-svc/internal/domain"
	"overcooked-pos/pos-svc/internal/service"
	"overcooked-pos/pos-svc/internal/storage"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := config.NewLogger("pos-svc")
	defer logger.Sync()

	tp, shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		ServiceName: "pos-svc",
		Endpoint:    cfg.OtelEndpoint,
		AuthHeader:  cfg.OtelAuthHeader,
	})
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	uow := newUnitOfWork(ctx, cfg, logger)

	var cache service.BoardCache
	if cfg.RedisAddr() != "" {
		rdb := config.MustInitRedis(cfg, logger)
		defer rdb.Close()
		cache = storage.NewRedisBoardCache(rdb, cfg.BoardCacheTTL)
	}
	board := service.NewTableBoard(uow, cache, logger)

	publishers := service.Publishers{board}
	if cfg.KafkaBroker != "" {
		writer := config.NewKafkaWriter(cfg, cfg.EventsTopic)
		defer writer.Close()
		publishers = append(publishers, storage.NewKafkaPublisher(writer))
	} else {
		logger.Warn("KAFKA_BROKER not set, events stay in-process")
	}

	var hours *domain.StoreHours
	if cfg.StoreHoursEnabled() {
		hours, err = domain.ParseStoreHours(cfg.StoreOpenTime, cfg.StoreCloseTime, cfg.LastOrderOffset, cfg.StoreTimezone)
		if err != nil {
			logger.Fatal("invalid store hours", zap.Error(err))
		}
		logger.Info("store hours enabled",
			zap.String("open", cfg.StoreOpenTime),
			zap.String("close", cfg.StoreCloseTime),
			zap.Duration("last_order", cfg.LastOrderOffset),
		)
	}

	ledger := service.NewOrderLedger(uow, publishers, logger, tp.Tracer("pos-svc"), service.LedgerConfig{
		TaxRate:           cfg.TaxRate,
		LowStockThreshold: cfg.LowStockThreshold,
		MaxAttempts:       cfg.MaxTxAttempts,
		Hours:             hours,
	})

	handler := httpapi.NewHandler(ledger, board, service.NewTrackingQR(cfg.TrackingBaseURL), logger)
	router := httpapi.NewRouter(handler, cfg.CORSOrigins)

	if err := httpx.Run(ctx, ":"+cfg.HTTPPort, router, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newUnitOfWork(ctx context.Context, cfg *config.Config, logger *zap.Logger) service.UnitOfWork {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return storage.NewMemoryStore()
	}

	db := config.MustInitPostgres(cfg, logger)
	if err := storage.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	return storage.NewStore(db)
}
